package index

import (
	"fmt"
	"strings"
)

// replacementChar is what decoders substitute for bytes they cannot map.
const replacementChar = '\uFFFD'

// ParseCSV turns delimited text into records. The first row is the header.
//
// Rows shorter than the header are padded with empty values and extra fields
// are dropped. A header-only file yields an empty, non-nil index.
func ParseCSV(text string) (idx Index, err error) {
	if strings.ContainsRune(text, replacementChar) {
		return nil, &ParseError{Kind: KindEncoding}
	}

	defer func() {
		if r := recover(); r != nil {
			idx = nil
			err = &ParseError{Kind: KindMalformed, Detail: fmt.Sprint(r)}
		}
	}()

	rows := scanRows(text)
	if len(rows) == 0 {
		return nil, &ParseError{Kind: KindEmpty}
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	if !hasRequiredColumns(headers) {
		return nil, &ParseError{Kind: KindMissingColumns, Found: headers}
	}

	idx = make(Index, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		idx = append(idx, rec)
	}

	return idx, nil
}

// scanRows splits text into rows of fields.
//
// Only ASCII bytes are significant to the scanner, so walking bytes is safe
// for UTF-8 input: multi-byte sequences never contain them.
func scanRows(text string) [][]string {
	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(text); {
		c := text[i]

		switch {
		case c == '"':
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				field.WriteByte('"')
				i += 2
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			row = append(row, field.String())
			field.Reset()
		case (c == '\r' || c == '\n') && !inQuotes:
			row = append(row, field.String())
			field.Reset()
			rows = append(rows, row)
			row = nil
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		default:
			field.WriteByte(c)
		}
		i++
	}

	if field.Len() > 0 || inQuotes {
		row = append(row, field.String())
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return rows
}
