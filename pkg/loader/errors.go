package loader

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// LoadErrorKind classifies a failed index fetch.
type LoadErrorKind int

const (
	// KindCrossOrigin means the index would not be readable by the hosting page.
	KindCrossOrigin LoadErrorKind = iota + 1
	// KindConnectionFailed covers DNS, refused connections, timeouts and
	// missing local files.
	KindConnectionFailed
	// KindHTTPStatus means the server answered with a non-2xx status.
	KindHTTPStatus
	// KindBodyReadFailed means the body could not be read or decoded.
	KindBodyReadFailed
)

func (k LoadErrorKind) String() string {
	switch k {
	case KindCrossOrigin:
		return "cross-origin"
	case KindConnectionFailed:
		return "connection failed"
	case KindHTTPStatus:
		return "http status"
	case KindBodyReadFailed:
		return "body read failed"
	}
	return fmt.Sprintf("LoadErrorKind(%d)", int(k))
}

// LoadError is returned by Loader.Load for every failure that happens before
// the body reaches the parser. Parse failures are returned as *index.ParseError.
type LoadError struct {
	Kind   LoadErrorKind
	URL    string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("loading index %s: HTTP status %d", e.URL, e.Status)
	case KindCrossOrigin:
		if e.Err == nil {
			return fmt.Sprintf("loading index %s: cross-origin request rejected", e.URL)
		}
		return fmt.Sprintf("loading index %s: cross-origin request rejected: %v", e.URL, e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("loading index %s: %s", e.URL, e.Kind)
	}
	return fmt.Sprintf("loading index %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// crossOriginMarkers are matched against transport error text. Runtimes word
// these failures differently, so this is best effort only.
var crossOriginMarkers = []string{"cors", "cross-origin", "blocked"}

// classifyTransportError matches the markers against the transport failure
// only. A *url.Error's text embeds the request URL, which must not count.
func classifyTransportError(source string, err error) *LoadError {
	cause := err
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		cause = uerr.Err
	}
	msg := strings.ToLower(cause.Error())
	for _, m := range crossOriginMarkers {
		if strings.Contains(msg, m) {
			return &LoadError{Kind: KindCrossOrigin, URL: source, Err: err}
		}
	}
	return &LoadError{Kind: KindConnectionFailed, URL: source, Err: err}
}
