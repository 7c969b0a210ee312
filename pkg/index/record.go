package index

import (
	"fmt"
	"strings"
)

// Required column names. Every record carries both.
const (
	ColumnURL   = "url"
	ColumnTitle = "title"
)

// Record is a single page entry: column name to value.
type Record map[string]string

// URL returns the url column or "" when missing.
func (r Record) URL() string {
	return r[ColumnURL]
}

// Title returns the title column or "" when missing.
func (r Record) Title() string {
	return r[ColumnTitle]
}

// DisplayTitle returns the title, falling back to the URL for untitled pages.
func (r Record) DisplayTitle() string {
	if strings.TrimSpace(r.Title()) == "" {
		return r.URL()
	}
	return r.Title()
}

// Index is the ordered, read-only list of records produced by a load.
type Index []Record

// Len returns the number of records.
func (idx Index) Len() int {
	return len(idx)
}

// Format identifies the on-the-wire representation of an index.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name. The empty string means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown index format %q (want csv or json)", s)
}

// Parse decodes data according to format.
func Parse(format Format, data []byte) (Index, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatCSV, "":
		return ParseCSV(string(data))
	}
	return nil, fmt.Errorf("unknown index format %q (want csv or json)", format)
}

func hasRequiredColumns(headers []string) bool {
	var hasURL, hasTitle bool
	for _, h := range headers {
		switch h {
		case ColumnURL:
			hasURL = true
		case ColumnTitle:
			hasTitle = true
		}
	}
	return hasURL && hasTitle
}
