package iologger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/internal/iologger"
	"github.com/gnames/mpdb/pkg/config"
	"github.com/gnames/mpdb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	dir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "debug", Destination: "file"}
	err := iologger.Init(dir, cfg, false, "run_id", "abc")
	require.NoError(t, err)

	slog.Debug("hello", "taxon_id", 666)

	content, err := os.ReadFile(filepath.Join(dir, iologger.LogFile))
	require.NoError(t, err)
	line := bytes.TrimSpace(content)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(line, &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "abc", rec["run_id"])
	assert.Equal(t, float64(666), rec["taxon_id"])
}

func TestInitLevelFilters(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	dir := t.TempDir()
	cfg := config.LogConfig{Format: "text", Level: "warn", Destination: "file"}
	require.NoError(t, iologger.Init(dir, cfg, true))

	slog.Info("hidden")
	slog.Warn("shown")

	content, err := os.ReadFile(filepath.Join(dir, iologger.LogFile))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "hidden")
	assert.Contains(t, string(content), "shown")
}

func TestInitBadDir(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	cfg := config.LogConfig{Format: "json", Level: "info", Destination: "file"}
	err := iologger.Init(filepath.Join(t.TempDir(), "absent"), cfg, false)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CreateLogFileError, gnErr.Code)
}
