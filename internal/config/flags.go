package config

import (
	"flag"
)

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	return parseFlagsHelper(cfg, fs, args, nil, "")
}

// parseFlagsWithSources parses CLI flags and updates source tracking.
func parseFlagsWithSources(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	return parseFlagsHelper(cfg, fs, args, sources, SourceFlag)
}

// parseFlagsHelper binds config flags on fs, parses args, and applies only
// the flags that were set. If sources is non-nil, it tracks the source of
// each value.
func parseFlagsHelper(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource, source ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasker", flag.ContinueOnError)
	}

	var (
		dataDir, storeBackend, stateFile, dbFile string
		dateLocale, theme                         string
		logDir, logLevel, logFormat               string
		logTimestamps, logCaller                  bool
		logKeep                                   int
	)

	fs.StringVar(&dataDir, "data-dir", cfg.DataDir, "Directory for task state and logs")
	fs.StringVar(&storeBackend, "store", cfg.StoreBackend, "Store backend (file, sqlite, memory)")
	fs.StringVar(&stateFile, "state", cfg.StateFile, "State file for the file backend (relative to data dir)")
	fs.StringVar(&dbFile, "db", cfg.DBFile, "Database file for the sqlite backend (relative to data dir)")
	fs.StringVar(&dateLocale, "date-locale", cfg.DateLocale, "Due date format (en-IN, en-GB, en-US, iso)")
	fs.StringVar(&theme, "theme", cfg.Theme, "Force theme at startup (dark, light)")
	fs.StringVar(&logDir, "log-dir", cfg.LogDir, "Log directory (default <data dir>/logs)")
	fs.StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.IntVar(&logKeep, "log-keep", cfg.LogKeep, "Number of run logs to keep")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"data-dir":       "data_dir",
		"store":          "store_backend",
		"state":          "state_file",
		"db":             "db_file",
		"date-locale":    "date_locale",
		"theme":          "theme",
		"log-dir":        "log_dir",
		"log-level":      "log_level",
		"log-format":     "log_format",
		"log-timestamps": "log_timestamps",
		"log-caller":     "log_caller",
		"log-keep":       "log_keep",
	}

	// Apply only the flags that were explicitly set
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data-dir":
			cfg.DataDir = dataDir
		case "store":
			cfg.StoreBackend = storeBackend
		case "state":
			cfg.StateFile = stateFile
		case "db":
			cfg.DBFile = dbFile
		case "date-locale":
			cfg.DateLocale = dateLocale
		case "theme":
			cfg.Theme = theme
		case "log-dir":
			cfg.LogDir = logDir
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-format":
			cfg.LogFormat = logFormat
		case "log-timestamps":
			cfg.LogTimestamps = logTimestamps
		case "log-caller":
			cfg.LogCaller = logCaller
		case "log-keep":
			cfg.LogKeep = logKeep
		default:
			return
		}
		if sources != nil {
			sources[flagToSource[f.Name]] = source
		}
	})

	return nil
}
