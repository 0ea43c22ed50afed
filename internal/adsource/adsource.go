// Package adsource reads batches of ads from export files.
package adsource

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ad-intel/internal/fetcher"
	"github.com/sells-group/ad-intel/internal/model"
)

// Format names a supported export layout.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", eris.Errorf("adsource: unsupported format %q", s)
}

// Reader loads ads through an Opener.
type Reader struct {
	opener *fetcher.Opener
	// Format forces the layout instead of guessing from the extension.
	Format Format
}

// NewReader creates a Reader.
func NewReader(opener *fetcher.Opener) *Reader {
	return &Reader{opener: opener}
}

// Read loads the ads at location with a default opener.
func Read(ctx context.Context, location string) ([]model.AdInput, error) {
	return NewReader(fetcher.NewOpener(fetcher.Options{})).Read(ctx, location)
}

// Read loads the ads at location: a local path or an http(s):// or ftp://
// URL. Ads without an id get a random one.
func (r *Reader) Read(ctx context.Context, location string) ([]model.AdInput, error) {
	format := r.Format
	if format == "" {
		f, err := ParseFormat(fetcher.Ext(location))
		if err != nil {
			return nil, eris.Wrapf(err, "adsource: cannot infer format of %s", location)
		}
		format = f
	}

	rc, err := r.opener.Open(ctx, location)
	if err != nil {
		return nil, eris.Wrap(err, "adsource: open")
	}
	defer rc.Close() //nolint:errcheck

	ads, err := Decode(rc, format)
	if err != nil {
		return nil, eris.Wrapf(err, "adsource: read %s", location)
	}
	zap.L().Info("adsource: loaded ads",
		zap.String("location", location),
		zap.String("format", string(format)),
		zap.Int("ads", len(ads)),
	)
	return ads, nil
}

// Decode parses ads in the given format from r.
func Decode(r io.Reader, format Format) ([]model.AdInput, error) {
	var (
		ads []model.AdInput
		err error
	)
	switch format {
	case FormatJSONL:
		ads, err = decodeRecords(fetcher.DecodeJSONLines[exportRecord](r))
	case FormatJSON:
		ads, err = decodeRecords(fetcher.DecodeJSONArray[exportRecord](r, "ads"))
	case FormatCSV:
		var rows [][]string
		if rows, err = fetcher.ReadCSV(r); err == nil {
			ads, err = fromRows(rows)
		}
	case FormatXLSX:
		var rows [][]string
		if rows, err = fetcher.ReadXLSX(r, fetcher.XLSXOptions{}); err == nil {
			ads, err = fromRows(rows)
		}
	default:
		return nil, eris.Errorf("adsource: unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}
	for i := range ads {
		if ads[i].ID == "" {
			ads[i].ID = uuid.NewString()
		}
	}
	return ads, nil
}
