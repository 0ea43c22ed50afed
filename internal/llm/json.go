package llm

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNoJSON is returned when a response holds no complete JSON object.
var ErrNoJSON = eris.New("llm: no JSON object in response")

// ExtractJSON returns the first balanced {...} object in text. Markdown
// fences and surrounding prose are dropped. Objects written with single
// quotes, Python literals (True, False, None) or trailing commas are
// rewritten into valid JSON.
func ExtractJSON(text string) (string, error) {
	text = stripFences(text)

	span, ok := firstObject(text)
	if !ok {
		return "", ErrNoJSON
	}
	if json.Valid([]byte(span)) {
		return span, nil
	}
	repaired := repairJSON(span)
	if !json.Valid([]byte(repaired)) {
		return "", eris.Wrapf(ErrNoJSON, "llm: unparseable object %.120q", span)
	}
	return repaired, nil
}

// Decode extracts the first JSON object in text and unmarshals it into T.
func Decode[T any](text string) (T, error) {
	var out T
	span, err := ExtractJSON(text)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return out, eris.Wrap(err, "llm: decode response")
	}
	return out, nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Drop the info string ("json") on the fence line.
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// firstObject scans from the first '{' to its matching '}', skipping braces
// inside single- or double-quoted strings.
func firstObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	var quote byte
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

var pythonLiterals = map[string]string{"True": "true", "False": "false", "None": "null"}

// repairJSON converts single-quoted strings to double-quoted ones, maps
// Python literals and drops trailing commas.
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '"':
			end := scanString(s, i, '"')
			b.WriteString(s[i:end])
			i = end - 1
		case ch == '\'':
			end := scanString(s, i, '\'')
			b.WriteByte('"')
			body := s[i+1 : max(i+1, end-1)]
			for j := 0; j < len(body); j++ {
				c := body[j]
				switch {
				case c == '\\' && j+1 < len(body) && body[j+1] == '\'':
					b.WriteByte('\'')
					j++
				case c == '\\' && j+1 < len(body):
					b.WriteByte(c)
					b.WriteByte(body[j+1])
					j++
				case c == '"':
					b.WriteString(`\"`)
				default:
					b.WriteByte(c)
				}
			}
			b.WriteByte('"')
			i = end - 1
		case ch == ',':
			if next := nextNonSpace(s, i+1); next == '}' || next == ']' {
				continue
			}
			b.WriteByte(ch)
		case isLetter(ch):
			j := i
			for j < len(s) && isLetter(s[j]) {
				j++
			}
			word := s[i:j]
			if lit, ok := pythonLiterals[word]; ok {
				word = lit
			}
			b.WriteString(word)
			i = j - 1
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// scanString returns the index just past the string opened at s[start].
func scanString(s string, start int, quote byte) int {
	escaped := false
	for i := start + 1; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == quote:
			return i + 1
		}
	}
	return len(s)
}

func nextNonSpace(s string, from int) byte {
	for i := from; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return s[i]
	}
	return 0
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}
