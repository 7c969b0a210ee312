package search

import (
	"net/url"
	"testing"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected Params
	}{
		{"basic query", "q=cats&page=2", Params{Query: "cats", Page: 2}},
		{"defaults when no params", "", Params{Page: 1}},
		{"query is trimmed", "q=%20cats%20dogs%20", Params{Query: "cats dogs", Page: 1}},
		{"invalid page defaults to 1", "q=cats&page=abc", Params{Query: "cats", Page: 1}},
		{"negative page defaults to 1", "q=cats&page=-3", Params{Query: "cats", Page: 1}},
		{"first q wins", "q=a&q=b", Params{Query: "a", Page: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("Failed to parse query: %v", err)
			}
			if got := ParseParams(values); got != tt.expected {
				t.Errorf("ParseParams(%q) = %+v, want %+v", tt.query, got, tt.expected)
			}
		})
	}
}
