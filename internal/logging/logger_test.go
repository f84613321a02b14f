package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("upload finished", zap.String("item_id", "abc"))
	require.NoError(t, logger.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "upload finished", entry["msg"])
	assert.Equal(t, "abc", entry["item_id"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "ts")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "console"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("partial failure")
	require.NoError(t, logger.Sync())

	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "partial failure")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{Level: "debug", Format: "JSON"}.Validate())
	assert.Error(t, Config{Level: "loud", Format: "json"}.Validate())
	assert.Error(t, Config{Level: "info", Format: "xml"}.Validate())

	_, err := New(Config{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}
