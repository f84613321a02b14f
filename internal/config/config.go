package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix of environment overrides, e.g. FOLIO_SERVER_URL
	EnvPrefix = "FOLIO_"

	// DirName is the per-user configuration directory under $HOME
	DirName = ".folio"

	// FileName is the configuration file inside DirName
	FileName = "config.yaml"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Defaults
const (
	DefaultServerURL = "http://localhost:5000"
	DefaultTimeout   = 2 * time.Minute
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "console"
)

// Config represents the application configuration
type Config struct {
	// API server URL
	ServerURL string `koanf:"server_url"`

	// Base URL of the web gallery, used to link to a created project.
	// Defaults to ServerURL.
	WebURL string `koanf:"web_url"`

	// Per-request HTTP timeout; 0 disables it
	Timeout time.Duration `koanf:"timeout"`

	// Maximum requests per second sent to the server; 0 means unlimited
	RateLimit float64 `koanf:"rate_limit"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	// Path the configuration was loaded from
	Path string `koanf:"-"`
}

// DefaultPath returns ~/.folio/config.yaml
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Dir returns the per-user configuration directory
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Load loads the configuration from the YAML file at path, then applies
// FOLIO_* environment overrides, then defaults. A missing file is not an
// error. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	k := koanf.New(".")

	content, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// A .env file in the working directory may carry FOLIO_* variables.
	// Variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	// FOLIO_SERVER_URL -> server_url
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Path = path

	// Timeout 0 is meaningful, so only default it when nothing set it
	if !k.Exists("timeout") {
		cfg.Timeout = DefaultTimeout
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s is larger than %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(content) == 0 {
		return nil, nil
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	if cfg.WebURL == "" {
		cfg.WebURL = cfg.ServerURL
	}
	cfg.WebURL = strings.TrimRight(cfg.WebURL, "/")
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	for name, raw := range map[string]string{"server_url": c.ServerURL, "web_url": c.WebURL} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s: scheme must be http or https, got %q", name, raw)
		}
		if u.Host == "" {
			return fmt.Errorf("%s: missing host in %q", name, raw)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative")
	}
	return nil
}

// ProjectURL returns the gallery link for a project
func (c *Config) ProjectURL(projectID string) string {
	return fmt.Sprintf("%s/project/%s", c.WebURL, url.PathEscape(projectID))
}

// Save writes the configuration to the given file path as YAML
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	values := map[string]interface{}{
		"server_url": c.ServerURL,
		"timeout":    c.Timeout.String(),
		"rate_limit": c.RateLimit,
		"log_level":  c.LogLevel,
		"log_format": c.LogFormat,
	}
	if c.WebURL != "" && c.WebURL != c.ServerURL {
		values["web_url"] = c.WebURL
	}

	data, err := yaml.Parser().Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// Get returns a configuration value by its file key
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "server_url":
		return c.ServerURL, nil
	case "web_url":
		return c.WebURL, nil
	case "timeout":
		return c.Timeout.String(), nil
	case "rate_limit":
		return strconv.FormatFloat(c.RateLimit, 'f', -1, 64), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// Set updates a configuration value by its file key
func (c *Config) Set(key, value string) error {
	switch key {
	case "server_url":
		c.ServerURL = strings.TrimRight(value, "/")
	case "web_url":
		c.WebURL = strings.TrimRight(value, "/")
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		c.Timeout = d
	case "rate_limit":
		r, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid rate_limit: %w", err)
		}
		c.RateLimit = r
	case "log_level":
		c.LogLevel = value
	case "log_format":
		c.LogFormat = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return c.Validate()
}

// Keys lists the keys accepted by Get and Set
func Keys() []string {
	return []string{"server_url", "web_url", "timeout", "rate_limit", "log_level", "log_format"}
}
