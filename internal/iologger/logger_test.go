package iologger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnharmony/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{"verbose", slog.LevelInfo},
	}
	for _, v := range tests {
		assert.Equal(t, v.want, parseLevel(v.level), v.level)
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf, config.LogConfig{Format: "json", Level: "warn"})
	log := slog.New(h)
	log.Info("hidden")
	log.Warn("shown", "records", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, float64(3), rec["records"])

	buf.Reset()
	h = newHandler(&buf, config.LogConfig{Format: "text", Level: "info"})
	slog.New(h).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestInitFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	dir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "info", Destination: "file"}
	require.NoError(t, Init(dir, cfg))
	slog.Info("logged")

	data, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"logged"`)

	err = Init(filepath.Join(dir, "missing"), cfg)
	assert.Error(t, err)

	// the previous file stays in use after a failed call
	slog.Info("still logged")
	require.NoError(t, Close())
	data, err = os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"still logged"`)

	require.NoError(t, Close(), "second close is a no-op")
}
