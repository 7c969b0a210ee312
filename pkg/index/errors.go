package index

import (
	"fmt"
	"strings"
)

// ParseErrorKind classifies why an index body could not be turned into records.
type ParseErrorKind int

const (
	// KindEmpty means the body produced no rows at all.
	KindEmpty ParseErrorKind = iota + 1
	// KindMissingColumns means the url or title column is absent.
	KindMissingColumns
	// KindMalformed covers syntax errors and unexpected scanner faults.
	KindMalformed
	// KindEncoding means the text contains U+FFFD, i.e. it was mangled while
	// being decoded upstream.
	KindEncoding
)

func (k ParseErrorKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindMissingColumns:
		return "missing columns"
	case KindMalformed:
		return "malformed"
	case KindEncoding:
		return "encoding"
	}
	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

// ParseError is returned by ParseCSV and ParseJSON.
type ParseError struct {
	Kind ParseErrorKind
	// Found lists the column names present when Kind is KindMissingColumns.
	Found []string
	// Detail carries the underlying message for KindMalformed.
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindEmpty:
		return "parsing index: no rows"
	case KindMissingColumns:
		return fmt.Sprintf("parsing index: required columns %q and %q not found (found: %s)",
			ColumnURL, ColumnTitle, strings.Join(e.Found, ", "))
	case KindEncoding:
		return "parsing index: text contains U+FFFD replacement characters"
	case KindMalformed:
		return "parsing index: malformed input: " + e.Detail
	}
	return "parsing index: " + e.Kind.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
