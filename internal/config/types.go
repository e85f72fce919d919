package config

import (
	"fmt"
	"strings"

	"github.com/nibzard/tasker-go/internal/kv"
	"github.com/nibzard/tasker-go/internal/logging"
	"github.com/nibzard/tasker-go/internal/todo"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDataDir      = "~/.tasker"
	DefaultStoreBackend = kv.BackendFile
	DefaultStateFile    = "state.json"
	DefaultDBFile       = "state.db"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultLogKeep      = logging.DefaultKeep
)

// Theme overrides.
const (
	ThemeStored = ""
	ThemeDark   = "dark"
	ThemeLight  = "light"
)

// Config holds the full configuration for tasker.
type Config struct {
	// Storage
	DataDir      string `toml:"data_dir"`
	StoreBackend string `toml:"store_backend"`
	StateFile    string `toml:"state_file"`
	DBFile       string `toml:"db_file"`

	// Display
	DateLocale string `toml:"date_locale"`
	// Theme forces dark or light at startup; empty keeps the stored flag.
	Theme string `toml:"theme"`

	// Logging configuration
	LogDir        string `toml:"log_dir"` // defaults to <data_dir>/logs
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogKeep       int    `toml:"log_keep"`
}

// StatePath returns the file store path.
func (c *Config) StatePath() string {
	return c.resolve(c.StateFile)
}

// DBPath returns the SQLite store path.
func (c *Config) DBPath() string {
	return c.resolve(c.DBFile)
}

// StorePath returns the path used by the configured backend.
func (c *Config) StorePath() string {
	switch strings.ToLower(c.StoreBackend) {
	case kv.BackendSQLite:
		return c.DBPath()
	case kv.BackendMemory:
		return ""
	default:
		return c.StatePath()
	}
}

func (c *Config) resolve(p string) string {
	return resolvePath(p, c.DataDir)
}

// DarkModeOverride reports whether the theme is forced and to what.
func (c *Config) DarkModeOverride() (dark bool, ok bool) {
	switch strings.ToLower(c.Theme) {
	case ThemeDark:
		return true, true
	case ThemeLight:
		return false, true
	}
	return false, false
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	backend := strings.ToLower(c.StoreBackend)
	valid := false
	for _, b := range kv.Backends() {
		if backend == b {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("store_backend %q must be one of: %s", c.StoreBackend, strings.Join(kv.Backends(), ", "))
	}
	if !todo.ValidLocale(c.DateLocale) {
		return fmt.Errorf("date_locale %q must be one of: %s", c.DateLocale, strings.Join(todo.Locales(), ", "))
	}
	switch strings.ToLower(c.Theme) {
	case ThemeStored, ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("theme %q must be dark, light, or empty", c.Theme)
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("log_format %q must be one of: text, json, logfmt", c.LogFormat)
	}
	if c.LogKeep < 1 {
		return fmt.Errorf("log_keep must be at least 1, got %d", c.LogKeep)
	}
	return nil
}

// LogOptions returns the logging options for the configured values.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		Timestamps: c.LogTimestamps,
		Caller:     c.LogCaller,
		Prefix:     "tasker",
	}
}
