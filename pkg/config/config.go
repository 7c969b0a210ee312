package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/rubiojr/sitesearch/pkg/index"
	"github.com/rubiojr/sitesearch/pkg/report"
	"github.com/rubiojr/sitesearch/pkg/search"
)

//go:embed config.toml.sample
var configTemplate string

const templateIndexURL = "https://example.com/index.csv"

// Environment variables that override the file.
const (
	EnvIndexURL      = "SITESEARCH_INDEX_URL"
	EnvSourceFormat  = "SITESEARCH_SOURCE_FORMAT"
	EnvErrorStrategy = "SITESEARCH_ERROR_STRATEGY"
	EnvCORSOrigin    = "SITESEARCH_CORS_ORIGIN"
	EnvPageSize      = "SITESEARCH_PAGE_SIZE"
)

type Config struct {
	IndexURL       string           `toml:"index_url"`
	SourceFormat   string           `toml:"source_format"`
	ErrorStrategy  string           `toml:"error_strategy"`
	ErrorPage      string           `toml:"error_page"`
	RequestTimeout Duration         `toml:"request_timeout"`
	CORSOrigin     string           `toml:"cors_origin,omitempty"`
	Pagination     PaginationConfig `toml:"pagination"`
}

type PaginationConfig struct {
	Enabled  bool `toml:"enabled"`
	PageSize int  `toml:"page_size"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() *Config {
	return &Config{
		SourceFormat:   string(index.FormatCSV),
		ErrorStrategy:  string(report.StrategyRedirect),
		ErrorPage:      "/error",
		RequestTimeout: Duration{30 * time.Second},
		Pagination: PaginationConfig{
			Enabled:  true,
			PageSize: search.DefaultPageSize,
		},
	}
}

// LoadConfig reads configPath on top of the defaults and applies environment
// overrides. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := GetDefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("unmarshaling config: %w", err)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	if config.RequestTimeout.Duration == 0 {
		config.RequestTimeout = Duration{30 * time.Second}
	}
	if config.ErrorPage == "" {
		config.ErrorPage = "/error"
	}

	return config, nil
}

// ApplyEnv overrides fields with any SITESEARCH_* variables that are set.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvIndexURL); ok {
		c.IndexURL = v
	}
	if v, ok := os.LookupEnv(EnvSourceFormat); ok {
		c.SourceFormat = v
	}
	if v, ok := os.LookupEnv(EnvErrorStrategy); ok {
		c.ErrorStrategy = v
	}
	if v, ok := os.LookupEnv(EnvCORSOrigin); ok {
		c.CORSOrigin = v
	}
	if v, ok := os.LookupEnv(EnvPageSize); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvPageSize, err)
		}
		c.Pagination.PageSize = n
	}
	return nil
}

// LoadDotEnv loads the given .env files, ".env" when none are given, into the
// process environment. Variables that are already set win and missing files
// are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading %s: %w", strings.Join(existing, ", "), err)
	}
	return nil
}

// Validate checks the fields a load depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.IndexURL) == "" {
		return fmt.Errorf("index_url is not set")
	}
	if _, err := c.Format(); err != nil {
		return err
	}
	if _, err := c.Strategy(); err != nil {
		return err
	}
	if c.Pagination.PageSize < 0 {
		return fmt.Errorf("pagination.page_size must not be negative, got %d", c.Pagination.PageSize)
	}
	return nil
}

func (c *Config) Format() (index.Format, error) {
	return index.ParseFormat(c.SourceFormat)
}

func (c *Config) Strategy() (report.Strategy, error) {
	return report.ParseStrategy(c.ErrorStrategy)
}

// SearchPagination converts the [pagination] table.
func (c *Config) SearchPagination() search.Pagination {
	return search.Pagination{
		Enabled:  c.Pagination.Enabled,
		PageSize: c.Pagination.PageSize,
	}
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return os.WriteFile(configPath, []byte(c.generateConfigTemplate()), 0644)
}

func (c *Config) generateConfigTemplate() string {
	if c.IndexURL == "" {
		return configTemplate
	}
	// Replace the placeholder index_url with the actual one
	return strings.Replace(configTemplate, templateIndexURL, c.IndexURL, 1)
}

// GetConfigDir returns the configuration directory for sitesearch
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "sitesearch"), nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
