// Package report turns index load failures into user-facing error codes and
// delivers them either by redirecting to an error page or by writing a status
// line.
package report

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rubiojr/sitesearch/pkg/index"
	"github.com/rubiojr/sitesearch/pkg/loader"
	"github.com/rubiojr/sitesearch/pkg/log"
)

// Code is the short error identifier shown to users and passed to the error
// page.
type Code string

const (
	CodeCORS       Code = "CORSError"
	CodeConnection Code = "ConnectionError"
	CodeBrain      Code = "BrainError"
	CodeEncoding   Code = "EncodingError"
	CodeParse      Code = "ParseError"
)

// Failure is a classified load failure.
type Failure struct {
	Code        Code
	Description string
	Err         error
}

// Classify maps an error returned by loader.Load or index.Parse to a Failure.
// Errors of any other type are reported as connection failures.
func Classify(err error) Failure {
	var lerr *loader.LoadError
	if errors.As(err, &lerr) {
		switch lerr.Kind {
		case loader.KindCrossOrigin:
			return Failure{CodeCORS, "Access from a different origin was refused.", err}
		case loader.KindHTTPStatus:
			return Failure{CodeBrain, fmt.Sprintf("The index server answered with status %d.", lerr.Status), err}
		case loader.KindBodyReadFailed:
			return Failure{CodeEncoding, "The index file could not be read.", err}
		}
		return Failure{CodeConnection, "Could not connect to the server. Check your internet connection.", err}
	}

	var perr *index.ParseError
	if errors.As(err, &perr) {
		switch perr.Kind {
		case index.KindEncoding:
			return Failure{CodeEncoding, "The index contains garbled characters. Check the file encoding.", err}
		case index.KindEmpty:
			return Failure{CodeParse, "The index file is empty.", err}
		case index.KindMissingColumns:
			return Failure{CodeParse, fmt.Sprintf("Required columns %q and %q not found (found: %s).",
				index.ColumnURL, index.ColumnTitle, strings.Join(perr.Found, ", ")), err}
		}
		return Failure{CodeParse, fmt.Sprintf("An error occurred while parsing the index (%s).", perr.Detail), err}
	}

	return Failure{CodeConnection, "Could not connect to the server. Check your internet connection.", err}
}

// Status lines shown next to the search box.
const (
	StatusLoading = "Loading..."
	StatusEmpty   = "No data"
)

// LoadedStatus is the status line after a successful load of count pages.
func LoadedStatus(count int) string {
	if count == 0 {
		return StatusEmpty
	}
	if count == 1 {
		return "1 page loaded"
	}
	return fmt.Sprintf("%d pages loaded", count)
}

// FailedStatus is the short status line written by the inline strategy.
func FailedStatus(f Failure) string {
	return fmt.Sprintf("Failed to load index (%s)", f.Code)
}

// ErrorURL builds the error view address for f: page?code=..&desc=..
func ErrorURL(page string, f Failure) string {
	params := url.Values{}
	params.Set("code", string(f.Code))
	params.Set("desc", f.Description)
	sep := "?"
	if strings.Contains(page, "?") {
		sep = "&"
	}
	return page + sep + params.Encode()
}

// Reporter delivers a load failure to the user.
type Reporter interface {
	Report(err error)
}

// Redirect sends the user to ErrorPage with the failure's code and
// description.
type Redirect struct {
	ErrorPage string
	Navigate  func(target string)
}

func (r Redirect) Report(err error) {
	if err == nil || r.Navigate == nil {
		return
	}
	r.Navigate(ErrorURL(r.ErrorPage, Classify(err)))
}

// Inline writes a short status line and logs the full failure.
type Inline struct {
	SetStatus func(line string)
	Logger    *log.Logger
}

func (i Inline) Report(err error) {
	if err == nil {
		return
	}
	f := Classify(err)
	if i.SetStatus != nil {
		i.SetStatus(FailedStatus(f))
	}
	if i.Logger != nil {
		i.Logger.Errorf("%s: %s: %v", f.Code, f.Description, err)
	}
}

// Strategy selects how failures are delivered.
type Strategy string

const (
	StrategyRedirect Strategy = "redirect"
	StrategyInline   Strategy = "inline"
)

// ParseStrategy validates a strategy name. The empty string means redirect.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyRedirect:
		return StrategyRedirect, nil
	case StrategyInline:
		return StrategyInline, nil
	}
	return "", fmt.Errorf("unknown error strategy %q (want redirect or inline)", s)
}

// Options are the hooks a Reporter may call.
type Options struct {
	ErrorPage string
	Navigate  func(target string)
	SetStatus func(line string)
	Logger    *log.Logger
}

// New builds the Reporter for strategy.
func New(strategy Strategy, opts Options) (Reporter, error) {
	switch strategy {
	case StrategyRedirect, "":
		page := opts.ErrorPage
		if page == "" {
			page = "/error"
		}
		return Redirect{ErrorPage: page, Navigate: opts.Navigate}, nil
	case StrategyInline:
		logger := opts.Logger
		if logger == nil {
			logger = log.ForService("report")
		}
		return Inline{SetStatus: opts.SetStatus, Logger: logger}, nil
	}
	return nil, fmt.Errorf("unknown error strategy %q (want redirect or inline)", strategy)
}
