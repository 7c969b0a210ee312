package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// ParseJSON decodes a JSON array of objects into records.
//
// Non-string values are kept as their JSON text (numbers and booleans
// verbatim, nested values compacted) and null becomes the empty string.
func ParseJSON(data []byte) (Index, error) {
	if bytes.ContainsRune(data, replacementChar) {
		return nil, &ParseError{Kind: KindEncoding}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Kind: KindEmpty}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, &ParseError{Kind: KindMalformed, Detail: err.Error(), Err: err}
	}
	if elems == nil {
		return nil, &ParseError{Kind: KindMalformed, Detail: "top level value is not an array"}
	}

	idx := make(Index, 0, len(elems))
	for i, raw := range elems {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			return nil, &ParseError{
				Kind:   KindMalformed,
				Detail: fmt.Sprintf("element %d is not an object", i),
				Err:    err,
			}
		}

		_, hasURL := obj[ColumnURL]
		_, hasTitle := obj[ColumnTitle]
		if !hasURL || !hasTitle {
			found := make([]string, 0, len(obj))
			for k := range obj {
				found = append(found, k)
			}
			sort.Strings(found)
			return nil, &ParseError{Kind: KindMissingColumns, Found: found}
		}

		rec := make(Record, len(obj))
		for k, v := range obj {
			s, err := jsonValueString(v)
			if err != nil {
				return nil, &ParseError{
					Kind:   KindMalformed,
					Detail: fmt.Sprintf("element %d field %q: %v", i, k, err),
					Err:    err,
				}
			}
			rec[k] = s
		}
		idx = append(idx, rec)
	}

	return idx, nil
}

func jsonValueString(v json.RawMessage) (string, error) {
	v = bytes.TrimSpace(v)
	switch {
	case len(v) == 0, bytes.Equal(v, []byte("null")):
		return "", nil
	case v[0] == '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", err
		}
		return s, nil
	case v[0] == '{' || v[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	return string(v), nil
}
