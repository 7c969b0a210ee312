// Package index holds the in-memory page index that the search engine runs
// against, together with the parsers that build it from the raw CSV or JSON
// text published next to a static site.
//
// # Records
//
// An index is an ordered slice of [Record] values. A record maps column names
// to string values and always carries the "url" and "title" columns; any other
// column is passed through untouched.
//
// # Parsing
//
//	idx, err := index.Parse(index.FormatCSV, body)
//	var perr *index.ParseError
//	if errors.As(err, &perr) && perr.Kind == index.KindMissingColumns {
//		fmt.Println("found columns:", perr.Found)
//	}
//
// [ParseCSV] implements a small quote-aware scanner instead of encoding/csv:
// bare CR terminates rows, stray quotes toggle quoting mid-field and an
// unterminated quoted field at EOF is kept, none of which encoding/csv accepts.
//
// # Store
//
// [Store] wraps the current index for servers that replace it while requests
// are in flight. Replacement is always wholesale.
package index
