package config

import (
	"fmt"
	"os"
	"strings"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	loadFromEnvHelper(cfg, nil, "")
}

// loadFromEnvWithSources loads environment variables and updates source tracking.
func loadFromEnvWithSources(cfg *Config, sources map[string]ConfigSource) {
	loadFromEnvHelper(cfg, sources, SourceEnv)
}

// loadFromEnvHelper is the shared implementation for env loading.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnvHelper(cfg *Config, sources map[string]ConfigSource, source ConfigSource) {
	track := func(field string) {
		if sources != nil {
			sources[field] = source
		}
	}

	strVars := []struct {
		env    string
		field  string
		target *string
	}{
		{"TASKER_DATA_DIR", "data_dir", &cfg.DataDir},
		{"TASKER_STORE", "store_backend", &cfg.StoreBackend},
		{"TASKER_STATE_FILE", "state_file", &cfg.StateFile},
		{"TASKER_DB_FILE", "db_file", &cfg.DBFile},
		{"TASKER_DATE_LOCALE", "date_locale", &cfg.DateLocale},
		{"TASKER_THEME", "theme", &cfg.Theme},
		{"TASKER_LOG_DIR", "log_dir", &cfg.LogDir},
		{"TASKER_LOG_LEVEL", "log_level", &cfg.LogLevel},
		{"TASKER_LOG_FORMAT", "log_format", &cfg.LogFormat},
	}
	for _, v := range strVars {
		if val := os.Getenv(v.env); val != "" {
			*v.target = val
			track(v.field)
		}
	}

	if v := os.Getenv("TASKER_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		track("log_timestamps")
	}
	if v := os.Getenv("TASKER_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		track("log_caller")
	}
	if v := os.Getenv("TASKER_LOG_KEEP"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.LogKeep = i
			track("log_keep")
		}
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
