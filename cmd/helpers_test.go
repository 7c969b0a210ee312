package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rubiojr/sitesearch/pkg/config"
	"github.com/rubiojr/sitesearch/pkg/report"
)

// indexCSV builds an index with a few cat pages and n golang pages.
func indexCSV(n int) string {
	var b strings.Builder
	b.WriteString("url,title\n")
	b.WriteString("https://example.com/cats-and-dogs,Cats and Dogs\n")
	b.WriteString("https://example.com/cats,Other\n")
	b.WriteString("https://example.com/untitled-cats,\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "https://example.com/golang/%d,Golang notes\n", i)
	}
	return b.String()
}

func writeIndex(t *testing.T, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.csv")
	if err := os.WriteFile(path, []byte(indexCSV(n)), 0644); err != nil {
		t.Fatalf("Failed to write index: %v", err)
	}
	return path
}

func testConfig(indexURL string, strategy report.Strategy) *config.Config {
	cfg := config.GetDefaultConfig()
	cfg.IndexURL = indexURL
	cfg.ErrorStrategy = string(strategy)
	return cfg
}
