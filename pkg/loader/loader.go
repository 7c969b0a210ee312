// Package loader fetches the published page index and hands it to the
// parser for the configured format.
//
// Every failure before parsing is reported as a *LoadError whose Kind tells
// callers what went wrong; parse failures come back as *index.ParseError
// unchanged.
package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rubiojr/sitesearch/pkg/index"
	"github.com/rubiojr/sitesearch/pkg/log"
	"github.com/rubiojr/sitesearch/pkg/version"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxBodySize = 64 << 20
)

// Options configures a Loader.
type Options struct {
	// Format of the index body. Defaults to CSV.
	Format index.Format
	// Client performs HTTP fetches. When nil a client with Timeout is used.
	Client *http.Client
	// Timeout for the default client. Defaults to 30s.
	Timeout time.Duration
	// CORSOrigin, when set, is sent as the Origin header and the response
	// must allow it through Access-Control-Allow-Origin.
	CORSOrigin string
	// MaxBodySize caps the raw body. Defaults to 64MiB.
	MaxBodySize int64
}

// Loader fetches and parses an index. It holds no state between calls.
type Loader struct {
	format      index.Format
	client      *http.Client
	corsOrigin  string
	maxBodySize int64
	log         *log.Logger
}

// New creates a Loader from opts.
func New(opts Options) *Loader {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	format := opts.Format
	if format == "" {
		format = index.FormatCSV
	}
	maxBody := opts.MaxBodySize
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}
	return &Loader{
		format:      format,
		client:      client,
		corsOrigin:  strings.TrimRight(opts.CORSOrigin, "/"),
		maxBodySize: maxBody,
		log:         log.ForService("loader"),
	}
}

// Format returns the index format the loader parses.
func (l *Loader) Format() index.Format {
	return l.format
}

// Load fetches source and parses it. Source is an http(s) URL, a file:// URL
// or a local path.
func (l *Loader) Load(ctx context.Context, source string) (index.Index, error) {
	var (
		body []byte
		err  error
	)

	u, perr := url.Parse(source)
	switch {
	case perr == nil && (u.Scheme == "http" || u.Scheme == "https"):
		body, err = l.fetchHTTP(ctx, source, u.Path)
	case perr == nil && u.Scheme == "file":
		body, err = l.readFile(source, u.Path)
	default:
		body, err = l.readFile(source, source)
	}
	if err != nil {
		return nil, err
	}

	idx, err := index.Parse(l.format, body)
	if err != nil {
		return nil, err
	}

	l.log.Infof("loaded %d pages from %s", len(idx), source)
	return idx, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, source, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, &LoadError{Kind: KindConnectionFailed, URL: source, Err: err}
	}
	req.Header.Set("User-Agent", "sitesearch/"+version.Version)
	req.Header.Set("Accept-Encoding", "gzip, zstd")
	if l.corsOrigin != "" {
		req.Header.Set("Origin", l.corsOrigin)
	}

	l.log.Debugf("fetching %s", source)
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(source, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			l.log.Warnf("closing response body: %v", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{Kind: KindHTTPStatus, URL: source, Status: resp.StatusCode}
	}

	if l.corsOrigin != "" {
		allowed := strings.TrimRight(resp.Header.Get("Access-Control-Allow-Origin"), "/")
		if allowed != "*" && !strings.EqualFold(allowed, l.corsOrigin) {
			return nil, &LoadError{
				Kind: KindCrossOrigin,
				URL:  source,
				Err:  fmt.Errorf("origin %s not allowed (Access-Control-Allow-Origin: %q)", l.corsOrigin, allowed),
			}
		}
	}

	raw, err := l.readAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Kind: KindBodyReadFailed, URL: source, Err: err}
	}

	body, err := decompress(raw, compressionFor(resp.Header.Get("Content-Encoding"), name), l.maxBodySize)
	if err != nil {
		return nil, &LoadError{Kind: KindBodyReadFailed, URL: source, Err: err}
	}

	body, err = toUTF8(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &LoadError{Kind: KindBodyReadFailed, URL: source, Err: err}
	}

	return body, nil
}

func (l *Loader) readFile(source, path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Kind: KindConnectionFailed, URL: source, Err: err}
	}
	defer f.Close()

	raw, err := l.readAll(f)
	if err != nil {
		return nil, &LoadError{Kind: KindBodyReadFailed, URL: source, Err: err}
	}

	body, err := decompress(raw, compressionFor("", path), l.maxBodySize)
	if err != nil {
		return nil, &LoadError{Kind: KindBodyReadFailed, URL: source, Err: err}
	}

	body, err = toUTF8(body, "")
	if err != nil {
		return nil, &LoadError{Kind: KindBodyReadFailed, URL: source, Err: err}
	}
	return body, nil
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBodySize {
		return nil, fmt.Errorf("body exceeds %d bytes", l.maxBodySize)
	}
	return data, nil
}
