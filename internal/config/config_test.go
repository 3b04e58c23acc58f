package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schologic/practicum/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "practicum.db"), cfg.DBPath)
	assert.False(t, cfg.LogCalls)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, domain.LogWeekly, cfg.DefaultInterval)
	assert.False(t, cfg.ShowLogs)
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
db_path: cohorts.db
log_calls: true
log_level: debug
default_interval: monthly
show_logs: true
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "cohorts.db"), cfg.DBPath)
	assert.True(t, cfg.LogCalls)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, domain.LogMonthly, cfg.DefaultInterval)
	assert.True(t, cfg.ShowLogs)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "default_interval: monthly\nlog_calls: false\n")
	abs := filepath.Join(t.TempDir(), "elsewhere.db")
	t.Setenv("PRACTICUM_DEFAULT_INTERVAL", "daily")
	t.Setenv("PRACTICUM_LOG_CALLS", "true")
	t.Setenv("PRACTICUM_DB", abs)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.LogDaily, cfg.DefaultInterval)
	assert.True(t, cfg.LogCalls)
	assert.Equal(t, abs, cfg.DBPath)
}

func TestLoad_MemoryPathIsKept(t *testing.T) {
	t.Setenv("PRACTICUM_DB_PATH", ":memory:")
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DBPath)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"interval", "default_interval: fortnightly\n", "default_interval"},
		{"level", "log_level: loud\n", "log_level"},
		{"syntax", "show_logs: [\n", "reading config.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
