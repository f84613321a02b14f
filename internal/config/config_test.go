package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, DefaultServerURL, cfg.WebURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, path, cfg.Path)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server_url: https://api.example.org/\nweb_url: https://gallery.example.org\ntimeout: 45s\nlog_level: info\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.org", cfg.ServerURL)
	assert.Equal(t, "https://gallery.example.org", cfg.WebURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)

	t.Setenv("FOLIO_SERVER_URL", "http://override.local:8080")
	t.Setenv("FOLIO_LOG_FORMAT", "json")

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override.local:8080", cfg.ServerURL)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadZeroTimeoutIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: 0s\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
}

func TestLoadRejectsInvalidURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: ftp://nope\n"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := &Config{
		ServerURL: "https://api.example.org",
		WebURL:    "https://gallery.example.org",
		Timeout:   90 * time.Second,
		RateLimit: 2.5,
		LogLevel:  "debug",
		LogFormat: "json",
	}
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.ServerURL, loaded.ServerURL)
	assert.Equal(t, cfg.WebURL, loaded.WebURL)
	assert.Equal(t, cfg.Timeout, loaded.Timeout)
	assert.Equal(t, cfg.RateLimit, loaded.RateLimit)
	assert.Equal(t, cfg.LogLevel, loaded.LogLevel)
	assert.Equal(t, cfg.LogFormat, loaded.LogFormat)
}

func TestGetSet(t *testing.T) {
	cfg := &Config{ServerURL: DefaultServerURL, WebURL: DefaultServerURL}

	require.NoError(t, cfg.Set("server_url", "https://api.example.org/"))
	v, err := cfg.Get("server_url")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.org", v)

	require.NoError(t, cfg.Set("timeout", "10s"))
	assert.Equal(t, 10*time.Second, cfg.Timeout)

	require.NoError(t, cfg.Set("rate_limit", "0.5"))
	v, err = cfg.Get("rate_limit")
	require.NoError(t, err)
	assert.Equal(t, "0.5", v)

	assert.Error(t, cfg.Set("rate_limit", "-1"))
	assert.Error(t, cfg.Set("timeout", "soon"))
	assert.Error(t, cfg.Set("server_url", "not a url"))
	assert.Error(t, cfg.Set("colour", "blue"))

	_, err = cfg.Get("colour")
	assert.Error(t, err)
}

func TestProjectURL(t *testing.T) {
	cfg := &Config{WebURL: "https://gallery.example.org"}
	assert.Equal(t, "https://gallery.example.org/project/abc-123", cfg.ProjectURL("abc-123"))
}
