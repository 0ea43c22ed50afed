package fetcher

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// maxLineBytes bounds a single JSON Lines record.
const maxLineBytes = 4 << 20

// DecodeJSONLines decodes one T per non-blank line.
func DecodeJSONLines[T any](r io.Reader) ([]T, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var out []T
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, eris.Wrapf(err, "json: decode line %d", line)
		}
		out = append(out, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "json: scan lines")
	}
	return out, nil
}

// DecodeJSONArray decodes a JSON array of T element by element. An object
// with the array under key is accepted too, e.g. {"ads": [...]}.
func DecodeJSONArray[T any](r io.Reader, key string) ([]T, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "json: read opening token")
	}
	if delim, ok := tok.(json.Delim); ok && delim == '{' {
		if err := seekKey(dec, key); err != nil {
			return nil, err
		}
		if tok, err = dec.Token(); err != nil {
			return nil, eris.Wrap(err, "json: read array token")
		}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, eris.Errorf("json: expected '[', got %v", tok)
	}

	var out []T
	for dec.More() {
		var item T
		if err := dec.Decode(&item); err != nil {
			return nil, eris.Wrapf(err, "json: decode element %d", len(out))
		}
		out = append(out, item)
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, eris.Wrap(err, "json: read closing token")
	}
	return out, nil
}

// seekKey advances dec past the object key, skipping other members.
func seekKey(dec *json.Decoder, key string) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return eris.Wrap(err, "json: read key")
		}
		if name, _ := tok.(string); name == key {
			return nil
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return eris.Wrap(err, "json: skip member")
		}
	}
	return eris.Errorf("json: object has no %q array", key)
}
