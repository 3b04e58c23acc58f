// Package config loads runtime settings from an optional config.yaml in the
// data directory, overridden by PRACTICUM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/schologic/practicum/internal/db"
	"github.com/schologic/practicum/internal/domain"
)

const (
	EnvPrefix = "PRACTICUM"
	FileName  = "config"
	FileType  = "yaml"
)

// Config holds settings for the CLI and the services it wires.
type Config struct {
	DataDir         string
	DBPath          string
	LogCalls        bool
	LogLevel        slog.Level
	DefaultInterval domain.LogInterval
	// ShowLogs is the initial log filter for timeline views and the editor.
	ShowLogs bool
}

// DefaultDataDir returns ~/.practicum.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".practicum"), nil
}

// Default returns the settings used when neither a file nor the
// environment says otherwise.
func Default(dataDir string) Config {
	return Config{
		DataDir:         dataDir,
		DBPath:          filepath.Join(dataDir, "practicum.db"),
		LogCalls:        false,
		LogLevel:        slog.LevelInfo,
		DefaultInterval: domain.LogWeekly,
		ShowLogs:        false,
	}
}

// Load reads dataDir/config.yaml if present and applies environment
// overrides such as PRACTICUM_DB_PATH and PRACTICUM_LOG_CALLS.
func Load(dataDir string) (Config, error) {
	cfg := Default(dataDir)

	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType(FileType)
	v.AddConfigPath(dataDir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PRACTICUM_DB mirrors the short form most users reach for first.
	_ = v.BindEnv("db_path", EnvPrefix+"_DB_PATH", EnvPrefix+"_DB")

	v.SetDefault("db_path", cfg.DBPath)
	v.SetDefault("log_calls", cfg.LogCalls)
	v.SetDefault("log_level", cfg.LogLevel.String())
	v.SetDefault("default_interval", string(cfg.DefaultInterval))
	v.SetDefault("show_logs", cfg.ShowLogs)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading %s.%s: %w", FileName, FileType, err)
		}
	}

	cfg.DBPath = v.GetString("db_path")
	if cfg.DBPath != db.MemoryPath && !filepath.IsAbs(cfg.DBPath) {
		cfg.DBPath = filepath.Join(dataDir, cfg.DBPath)
	}
	cfg.LogCalls = v.GetBool("log_calls")
	cfg.ShowLogs = v.GetBool("show_logs")

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		return Config{}, fmt.Errorf("log_level: %w", err)
	}

	cfg.DefaultInterval = domain.LogInterval(strings.ToLower(strings.TrimSpace(v.GetString("default_interval"))))
	if !cfg.DefaultInterval.Valid() {
		return Config{}, fmt.Errorf("default_interval must be one of daily, weekly, monthly, got %q", cfg.DefaultInterval)
	}

	return cfg, nil
}
