// Package fetcher opens ad export files from local paths, HTTP(S) and FTP
// and parses their rows.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ad-intel/internal/config"
)

// Fetcher downloads a remote file.
type Fetcher interface {
	// Download fetches the URL and returns the body. The caller closes it.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Options configures the remote fetchers.
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	UserAgent         string
	MaxAttempts       int
}

// OptionsFromConfig converts the fetch config section.
func OptionsFromConfig(cfg config.FetchConfig) Options {
	return Options{
		Timeout:           time.Duration(cfg.TimeoutSecs) * time.Second,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}
}

// Opener dispatches a location to the local filesystem or the fetcher for
// its URL scheme.
type Opener struct {
	http Fetcher
	ftp  Fetcher
}

// NewOpener creates an Opener with HTTP and FTP fetchers built from opts.
func NewOpener(opts Options) *Opener {
	return &Opener{
		http: NewHTTPFetcher(opts),
		ftp:  NewFTPFetcher(opts),
	}
}

// Open returns a reader over the location's content.
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	switch Scheme(location) {
	case "http", "https":
		return o.http.Download(ctx, location)
	case "ftp":
		return o.ftp.Download(ctx, location)
	case "file":
		u, err := url.Parse(location)
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: parse file url")
		}
		return openFile(u.Path)
	case "":
		return openFile(location)
	default:
		return nil, eris.Errorf("fetcher: unsupported scheme in %q", location)
	}
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open %s", path)
	}
	return f, nil
}

// Scheme returns the lower-cased URL scheme of location, or "" for a plain
// path. Windows drive letters are treated as paths.
func Scheme(location string) string {
	i := strings.Index(location, "://")
	if i <= 1 {
		return ""
	}
	return strings.ToLower(location[:i])
}

// Ext returns the lower-cased file extension of location, ignoring any URL
// query or fragment.
func Ext(location string) string {
	if Scheme(location) != "" {
		if u, err := url.Parse(location); err == nil {
			location = u.Path
		}
	}
	slash := strings.LastIndexAny(location, `/\`)
	dot := strings.LastIndex(location, ".")
	if dot < 0 || dot < slash {
		return ""
	}
	return strings.ToLower(location[dot:])
}
