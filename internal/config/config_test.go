// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// isolate points the user and project config lookups at empty temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	for _, name := range []string{
		"TASKER_DATA_DIR", "TASKER_STORE", "TASKER_STATE_FILE", "TASKER_DB_FILE",
		"TASKER_DATE_LOCALE", "TASKER_THEME", "TASKER_LOG_DIR", "TASKER_LOG_LEVEL",
		"TASKER_LOG_FORMAT", "TASKER_LOG_TIMESTAMPS", "TASKER_LOG_CALLER", "TASKER_LOG_KEEP",
	} {
		t.Setenv(name, "")
	}

	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	work := filepath.Join(tmpDir, "work")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })
	return tmpDir
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, DefaultDataDir)
	}
	if cfg.StoreBackend != DefaultStoreBackend {
		t.Errorf("StoreBackend: got %q, want %q", cfg.StoreBackend, DefaultStoreBackend)
	}
	if cfg.DateLocale != "en-IN" {
		t.Errorf("DateLocale: got %q, want en-IN", cfg.DateLocale)
	}
	if cfg.Theme != ThemeStored {
		t.Errorf("Theme: got %q, want empty", cfg.Theme)
	}
	if cfg.LogTimestamps != true {
		t.Errorf("LogTimestamps: got %v, want true", cfg.LogTimestamps)
	}
	if cfg.LogKeep != DefaultLogKeep {
		t.Errorf("LogKeep: got %d, want %d", cfg.LogKeep, DefaultLogKeep)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TASKER_DATA_DIR", "/tmp/tasker-env")
	t.Setenv("TASKER_STORE", "sqlite")
	t.Setenv("TASKER_DATE_LOCALE", "iso")
	t.Setenv("TASKER_THEME", "dark")
	t.Setenv("TASKER_LOG_CALLER", "yes")
	t.Setenv("TASKER_LOG_KEEP", "5")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.DataDir != "/tmp/tasker-env" {
		t.Errorf("DataDir: got %q, want /tmp/tasker-env", cfg.DataDir)
	}
	if cfg.StoreBackend != "sqlite" {
		t.Errorf("StoreBackend: got %q, want sqlite", cfg.StoreBackend)
	}
	if cfg.DateLocale != "iso" {
		t.Errorf("DateLocale: got %q, want iso", cfg.DateLocale)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme: got %q, want dark", cfg.Theme)
	}
	if !cfg.LogCaller {
		t.Error("LogCaller: got false, want true")
	}
	if cfg.LogKeep != 5 {
		t.Errorf("LogKeep: got %d, want 5", cfg.LogKeep)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "tasker.toml")

	content := []byte(`store_backend = "sqlite"
db_file = "tasks.db"
date_locale = "en-US"
log_keep = 3
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, configFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.StoreBackend != "sqlite" {
		t.Errorf("StoreBackend: got %q, want sqlite", cfg.StoreBackend)
	}
	if cfg.DBFile != "tasks.db" {
		t.Errorf("DBFile: got %q, want tasks.db", cfg.DBFile)
	}
	if cfg.DateLocale != "en-US" {
		t.Errorf("DateLocale: got %q, want en-US", cfg.DateLocale)
	}
	if cfg.LogKeep != 3 {
		t.Errorf("LogKeep: got %d, want 3", cfg.LogKeep)
	}
	if cfg.StateFile != DefaultStateFile {
		t.Errorf("StateFile should keep default, got %q", cfg.StateFile)
	}
}

func TestLoadConfigFileUnknownKey(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "tasker.toml")
	if err := os.WriteFile(configFile, []byte("dark_mode = true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	err := loadConfigFile(cfg, configFile)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "dark_mode") {
		t.Errorf("error should name the key, got %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("TASKER_TEST_DIR", filepath.Join(home, "env"))
	base := filepath.Join(home, "data")
	abs := filepath.Join(home, "abs")

	tests := []struct {
		name  string
		input string
		base  string
		want  string
	}{
		{"tilde slash", "~/test", "", filepath.Join(home, "test")},
		{"tilde alone", "~", base, home},
		{"absolute", abs, base, abs},
		{"relative without base", "relative", "", "relative"},
		{"relative joins base", "logs", base, filepath.Join(base, "logs")},
		{"env var", "$TASKER_TEST_DIR/logs", base, filepath.Join(home, "env", "logs")},
		{"braced env var", "${TASKER_TEST_DIR}", "", filepath.Join(home, "env")},
		{"empty", "", base, ""},
		{"blank", "   ", base, ""},
		{"tilde inside name", "~user/x", base, filepath.Join(base, "~user", "x")},
	}
	if runtime.GOOS != "windows" {
		tests = append(tests, struct {
			name  string
			input string
			base  string
			want  string
		}{"backslash is not a separator", `~\test`, "", `~\test`})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolvePath(tt.input, tt.base)
			if got != tt.want {
				t.Errorf("resolvePath(%q, %q): got %q, want %q", tt.input, tt.base, got, tt.want)
			}
		})
	}
}

func TestLoadRelativeLogDir(t *testing.T) {
	home := isolate(t)
	t.Setenv("TASKER_LOG_DIR", "runs")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"--data-dir", "~/tasks"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	want := filepath.Join(home, "tasks", "runs")
	if cws.Config.LogDir != want {
		t.Errorf("LogDir: got %q, want %q", cws.Config.LogDir, want)
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"--store", "memory",
		"--theme", "light",
		"--log-level", "debug",
		"--log-keep", "7",
		"rest",
	}

	if err := parseFlags(cfg, fs, args); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.StoreBackend != "memory" {
		t.Errorf("StoreBackend: got %q, want memory", cfg.StoreBackend)
	}
	if cfg.Theme != "light" {
		t.Errorf("Theme: got %q, want light", cfg.Theme)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if cfg.LogKeep != 7 {
		t.Errorf("LogKeep: got %d, want 7", cfg.LogKeep)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("unset flag should not change DataDir, got %q", cfg.DataDir)
	}
	if got := fs.Args(); len(got) != 1 || got[0] != "rest" {
		t.Errorf("remaining args: got %v, want [rest]", got)
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{" yes ", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := boolFromString(tt.input); got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadWithSources(t *testing.T) {
	home := isolate(t)

	userDir := filepath.Join(home, ".tasker")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	userFile := filepath.Join(userDir, "tasker.toml")
	if err := os.WriteFile(userFile, []byte("date_locale = \"en-GB\"\nlog_level = \"warn\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("tasker.toml", []byte("date_locale = \"iso\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKER_STORE", "memory")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"--theme", "dark"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.DateLocale != "iso" {
		t.Errorf("DateLocale: got %q, want iso (project overrides user)", cfg.DateLocale)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}

	want := map[string]ConfigSource{
		"date_locale":   SourceProjFile,
		"log_level":     SourceUserFile,
		"store_backend": SourceEnv,
		"theme":         SourceFlag,
		"state_file":    SourceDefault,
	}
	for field, source := range want {
		if got := cws.Sources[field]; got != source {
			t.Errorf("Sources[%q]: got %q, want %q", field, got, source)
		}
	}

	if len(cws.Files) != 2 {
		t.Fatalf("Files: got %v, want two entries", cws.Files)
	}
	if cws.GetConfigFile() != "tasker.toml" {
		t.Errorf("GetConfigFile: got %q, want tasker.toml", cws.GetConfigFile())
	}
}

func TestLoadDerivedPaths(t *testing.T) {
	home := isolate(t)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	dataDir := filepath.Join(home, ".tasker")
	if cfg.DataDir != dataDir {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, dataDir)
	}
	if cfg.LogDir != filepath.Join(dataDir, "logs") {
		t.Errorf("LogDir: got %q, want %q", cfg.LogDir, filepath.Join(dataDir, "logs"))
	}
	if cfg.StorePath() != filepath.Join(dataDir, "state.json") {
		t.Errorf("StorePath: got %q", cfg.StorePath())
	}

	cfg.StoreBackend = "sqlite"
	if cfg.StorePath() != filepath.Join(dataDir, "state.db") {
		t.Errorf("sqlite StorePath: got %q", cfg.StorePath())
	}
	cfg.StoreBackend = "memory"
	if cfg.StorePath() != "" {
		t.Errorf("memory StorePath: got %q, want empty", cfg.StorePath())
	}
	cfg.DBFile = "/abs/tasks.db"
	if cfg.DBPath() != "/abs/tasks.db" {
		t.Errorf("absolute DBPath: got %q", cfg.DBPath())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"backend", []string{"--store", "redis"}, "store_backend"},
		{"locale", []string{"--date-locale", "fr-FR"}, "date_locale"},
		{"theme", []string{"--theme", "blue"}, "theme"},
		{"log format", []string{"--log-format", "xml"}, "log_format"},
		{"log keep", []string{"--log-keep", "0"}, "log_keep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			_, err := LoadWithSources(fs, tt.args)
			if err == nil {
				t.Fatalf("expected error for %v", tt.args)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestDarkModeOverride(t *testing.T) {
	tests := []struct {
		theme    string
		wantDark bool
		wantOK   bool
	}{
		{"", false, false},
		{"dark", true, true},
		{"Light", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.theme, func(t *testing.T) {
			cfg := &Config{Theme: tt.theme}
			dark, ok := cfg.DarkModeOverride()
			if dark != tt.wantDark || ok != tt.wantOK {
				t.Errorf("DarkModeOverride(%q): got (%v, %v), want (%v, %v)", tt.theme, dark, ok, tt.wantDark, tt.wantOK)
			}
		})
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "tasker.toml")
	if err := os.WriteFile(configFile, []byte(ExampleConfig()), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, configFile); err != nil {
		t.Fatalf("example config should decode: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config should validate: %v", err)
	}
}
