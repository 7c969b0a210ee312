package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rubiojr/sitesearch/pkg/config"
	"github.com/rubiojr/sitesearch/pkg/index"
	"github.com/rubiojr/sitesearch/pkg/loader"
)

// loadConfig loads and validates the configuration file
func loadConfig(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// newLoader creates an index loader from the config
func newLoader(cfg *config.Config) (*loader.Loader, error) {
	format, err := cfg.Format()
	if err != nil {
		return nil, err
	}
	return loader.New(loader.Options{
		Format:     format,
		Timeout:    cfg.RequestTimeout.Duration,
		CORSOrigin: cfg.CORSOrigin,
	}), nil
}

// loadIndex fetches and parses the configured index
func loadIndex(ctx context.Context, cfg *config.Config) (index.Index, error) {
	l, err := newLoader(cfg)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, cfg.IndexURL)
}

// localIndexPath returns the filesystem path of source when the index is a
// local file.
func localIndexPath(source string) (string, bool) {
	u, err := url.Parse(source)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return "", false
		case "file":
			return u.Path, u.Path != ""
		}
	}
	if strings.TrimSpace(source) == "" {
		return "", false
	}
	return source, true
}
