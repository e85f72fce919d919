package config

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LoadWithSources loads configuration from multiple sources in priority
// order and tracks where each value came from:
// 1. Defaults
// 2. User config file (~/.tasker/tasker.toml or OS-specific config dir)
// 3. Project config file (tasker.toml or .tasker.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cws := &ConfigWithSources{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}
	cfg := cws.Config

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		cws.Sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFileWithSources(cfg, userConfigFile, cws.Sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		cws.Files = append(cws.Files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFileWithSources(cfg, projectConfigFile, cws.Sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		cws.Files = append(cws.Files, projectConfigFile)
	}

	// 4. Override from environment
	loadFromEnvWithSources(cfg, cws.Sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlagsWithSources(cfg, fs, args, cws.Sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_dir",
		"store_backend",
		"state_file",
		"db_file",
		"date_locale",
		"theme",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"log_keep",
	}
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	return loadConfigFileWithSources(cfg, path, nil, "")
}

// loadConfigFileWithSources decodes a TOML file over cfg. Only keys present
// in the file change cfg, and those keys are recorded with source.
func loadConfigFileWithSources(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if sources == nil {
		return nil
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	cfg.DataDir = resolvePath(cfg.DataDir, "")
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir is empty")
	}
	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}

	if cfg.LogDir == "" {
		cfg.LogDir = "logs"
	}
	cfg.LogDir = resolvePath(cfg.LogDir, cfg.DataDir)

	return cfg.Validate()
}
