// Package cmd implements the CLI command structure for tasker.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasker-go/internal/app"
	"github.com/nibzard/tasker-go/internal/config"
	"github.com/nibzard/tasker-go/internal/kv"
	"github.com/nibzard/tasker-go/internal/logging"
	"github.com/nibzard/tasker-go/internal/persist"
	"github.com/nibzard/tasker-go/internal/todo"
	"github.com/nibzard/tasker-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// stdout and stderr are swapped out by tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the tasker CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasker", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "tui" as default
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	// Execute the subcommand
	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "done", "toggle":
		return doneCommand(cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(cfg, remainingArgs)
	case "clear":
		return clearCommand(cfg, remainingArgs)
	case "theme":
		return themeCommand(cfg, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// workspace is the opened store plus the app built over it.
type workspace struct {
	app    *app.App
	store  kv.Store
	logger *log.Logger
	runLog *logging.RunLogger
}

// openWorkspace opens the configured store and loads the app state. With
// runLog set, logs go to a new per-run file; otherwise warnings go to stderr.
func openWorkspace(cfg *config.Config, runLog bool) (*workspace, error) {
	ws := &workspace{}
	if runLog {
		rl, err := logging.NewRunLogger(cfg.LogDir, cfg.LogOptions())
		if err != nil {
			return nil, fmt.Errorf("creating run log: %w", err)
		}
		ws.runLog = rl
		ws.logger = rl.Logger
		if removed, err := logging.Prune(cfg.LogDir, cfg.LogKeep, rl.LogPath); err != nil {
			ws.logger.Warn("Pruning old logs failed", "err", err)
		} else if removed > 0 {
			ws.logger.Debug("Pruned old logs", "removed", removed)
		}
	} else {
		opts := cfg.LogOptions()
		opts.Timestamps = false
		ws.logger = logging.New(stderr, opts)
		if ws.logger.GetLevel() < log.WarnLevel {
			ws.logger.SetLevel(log.WarnLevel)
		}
	}

	store, err := kv.Open(cfg.StoreBackend, cfg.StorePath())
	if err != nil {
		ws.Close()
		return nil, fmt.Errorf("opening %s store: %w", cfg.StoreBackend, err)
	}
	ws.store = store
	ws.logger.Debug("Opened store", "backend", cfg.StoreBackend, "path", cfg.StorePath())

	bridge := persist.NewBridge(store, ws.logger)
	state := bridge.Load()
	if dark, ok := cfg.DarkModeOverride(); ok {
		state.DarkMode = dark
	}
	ws.app = app.New(state, bridge, ws.logger)
	return ws, nil
}

// Close releases the store and the run log.
func (ws *workspace) Close() error {
	var errs []error
	if ws.store != nil {
		errs = append(errs, ws.store.Close())
	}
	if ws.runLog != nil {
		errs = append(errs, ws.runLog.Close())
	}
	return errors.Join(errs...)
}

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasker tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	ws, err := openWorkspace(cfg, true)
	if err != nil {
		return err
	}
	defer ws.Close()

	ws.logger.Info("Starting TUI", "tasks", ws.app.Len(), "dark_mode", ws.app.DarkMode())
	return ui.RunTUI(ctx, ws.app, ui.Options{
		Locale:    cfg.DateLocale,
		StorePath: cfg.StorePath(),
		Logger:    ws.logger,
	})
}

// listItem is the ls output form of a task.
type listItem struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
	Priority  string `json:"priority" yaml:"priority"`
	Date      string `json:"date,omitempty" yaml:"date,omitempty"`
	Due       string `json:"due" yaml:"due"`
}

// lsCommand prints tasks in display order.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasker ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "text", "Output format (text, json, yaml)")
	pending := fs.Bool("pending", false, "Only show incomplete tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	ws, err := openWorkspace(cfg, false)
	if err != nil {
		return err
	}
	defer ws.Close()

	var items []listItem
	for _, t := range ws.app.View() {
		if t.Completed && *pending {
			continue
		}
		item := listItem{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			Priority:  string(t.Priority),
			Due:       todo.FormatDate(t.Date, cfg.DateLocale),
		}
		if t.Date != nil {
			item.Date = t.Date.String()
		}
		items = append(items, item)
	}
	if items == nil {
		items = []listItem{}
	}

	switch strings.ToLower(*format) {
	case "json":
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
	case "yaml", "yml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "text", "":
		printTaskList(stdout, items)
	default:
		return fmt.Errorf("unknown format %q (expected text, json, yaml)", *format)
	}
	return nil
}

func printTaskList(w io.Writer, items []listItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for _, item := range items {
		check := " "
		if item.Completed {
			check = "x"
		}
		id := item.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(w, "[%s] %s  %-6s  %s  (Due: %s)\n", check, id, item.Priority, item.Text, item.Due)
	}
}

// addCommand appends a task.
func addCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasker add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	priorityArg := fs.String("priority", string(todo.DefaultPriority), "Priority (High, Medium, Low)")
	fs.StringVar(priorityArg, "p", string(todo.DefaultPriority), "Priority (shorthand)")
	dateArg := fs.String("date", "", "Due date (YYYY-MM-DD)")
	fs.StringVar(dateArg, "d", "", "Due date (shorthand)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	priority, err := todo.ParsePriority(*priorityArg)
	if err != nil {
		return err
	}
	date, err := todo.ParseDate(*dateArg)
	if err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")

	ws, err := openWorkspace(cfg, true)
	if err != nil {
		return err
	}
	defer ws.Close()

	task, err := ws.app.Add(text, priority, date)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Added %s: %s (%s, Due: %s)\n", task.ShortID(), task.Text, task.Priority, todo.FormatDate(task.Date, cfg.DateLocale))
	return nil
}

// doneCommand toggles completion of a task.
func doneCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tasker done ID")
	}
	ws, err := openWorkspace(cfg, true)
	if err != nil {
		return err
	}
	defer ws.Close()

	id, err := ws.app.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := ws.app.Toggle(id); err != nil {
		return err
	}
	task, _ := ws.app.Get(id)
	state := "not done"
	if task.Completed {
		state = "done"
	}
	fmt.Fprintf(stdout, "Marked %s %s: %s\n", task.ShortID(), state, task.Text)
	return nil
}

// rmCommand deletes a task.
func rmCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tasker rm ID")
	}
	ws, err := openWorkspace(cfg, true)
	if err != nil {
		return err
	}
	defer ws.Close()

	id, err := ws.app.Resolve(args[0])
	if err != nil {
		return err
	}
	task, _ := ws.app.Get(id)
	if err := ws.app.Delete(id); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Deleted %s: %s\n", task.ShortID(), task.Text)
	return nil
}

// clearCommand removes every task.
func clearCommand(cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	ws, err := openWorkspace(cfg, true)
	if err != nil {
		return err
	}
	defer ws.Close()

	n := ws.app.Len()
	if n == 0 {
		fmt.Fprintln(stdout, "No tasks to clear.")
		return nil
	}
	if err := ws.app.ClearAll(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Cleared %d tasks.\n", n)
	return nil
}

// themeCommand shows or changes the stored theme.
func themeCommand(cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: tasker theme [dark|light|toggle]")
	}
	ws, err := openWorkspace(cfg, len(args) == 1)
	if err != nil {
		return err
	}
	defer ws.Close()

	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case config.ThemeDark:
			err = ws.app.SetDarkMode(true)
		case config.ThemeLight:
			err = ws.app.SetDarkMode(false)
		case "toggle":
			_, err = ws.app.ToggleTheme()
		default:
			return fmt.Errorf("unknown theme %q (expected dark, light, toggle)", args[0])
		}
		if err != nil {
			return err
		}
	}
	fmt.Fprintln(stdout, themeName(ws.app.DarkMode()))
	return nil
}

func themeName(dark bool) string {
	if dark {
		return config.ThemeDark
	}
	return config.ThemeLight
}

// tailCommand tails the latest log file.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	// Parse tail-specific flags
	fs := flag.NewFlagSet("tasker tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logPath, err := logging.FindLatestLog(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)

	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

// doctorCommand checks config, storage, and the stored document.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasker doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := stdout
	fmt.Fprintln(w, "Tasker Doctor")
	fmt.Fprintln(w, "=============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintf(w, "Data directory: %s\n", cfg.DataDir)
	if info, err := os.Stat(cfg.DataDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first save)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Store: %s\n", cfg.StoreBackend)
	if cfg.StoreBackend == kv.BackendMemory {
		fmt.Fprintln(w, "  ⚠️  Memory backend keeps nothing between runs")
	} else {
		fmt.Fprintf(w, "  Path: %s\n", cfg.StorePath())
		if !checkStore(w, cfg, *verbose) {
			allOK = false
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Log directory: %s\n", cfg.LogDir)
	runs, err := logging.FindLogRuns(cfg.LogDir)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case len(runs) == 0:
		fmt.Fprintln(w, "  ⚠️  No run logs yet")
	default:
		fmt.Fprintf(w, "  ✅ %d run logs (keeping %d)\n", len(runs), cfg.LogKeep)
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// checkStore opens the store and validates both stored values.
func checkStore(w io.Writer, cfg *config.Config, verbose bool) bool {
	if _, err := os.Stat(cfg.StorePath()); os.IsNotExist(err) {
		fmt.Fprintln(w, "  ⚠️  Not found (first run)")
		return true
	}
	store, err := kv.Open(cfg.StoreBackend, cfg.StorePath())
	if err != nil {
		fmt.Fprintf(w, "  ❌ Open error: %v\n", err)
		return false
	}
	defer store.Close()

	ok := true
	data, err := store.Get(persist.KeyTasks)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		fmt.Fprintf(w, "  ⚠️  %s: not set\n", persist.KeyTasks)
	case err != nil:
		fmt.Fprintf(w, "  ❌ %s: %v\n", persist.KeyTasks, err)
		ok = false
	default:
		if errs := todo.ValidateDocument(data); len(errs) > 0 {
			fmt.Fprintf(w, "  ❌ %s: validation failed:\n", persist.KeyTasks)
			for _, e := range errs {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			ok = false
		} else {
			tasks, _ := todo.DecodeDocument(data)
			open, done := todo.Counts(tasks)
			fmt.Fprintf(w, "  ✅ %s: %d tasks (%d open, %d done)\n", persist.KeyTasks, len(tasks), open, done)
			if verbose {
				for _, t := range todo.Sorted(tasks) {
					fmt.Fprintf(w, "    - [%s] %s\n", t.Priority, t.Text)
				}
			}
		}
	}

	data, err = store.Get(persist.KeyDarkMode)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		fmt.Fprintf(w, "  ⚠️  %s: not set\n", persist.KeyDarkMode)
	case err != nil:
		fmt.Fprintf(w, "  ❌ %s: %v\n", persist.KeyDarkMode, err)
		ok = false
	default:
		var dark bool
		if err := json.Unmarshal(data, &dark); err != nil {
			fmt.Fprintf(w, "  ❌ %s: not a boolean (%v)\n", persist.KeyDarkMode, err)
			ok = false
		} else {
			fmt.Fprintf(w, "  ✅ %s: %v\n", persist.KeyDarkMode, dark)
		}
	}
	return ok
}

// configCommand prints the resolved config with value sources.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("tasker config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example tasker.toml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	cfg := cws.Config
	values := map[string]string{
		"data_dir":       cfg.DataDir,
		"store_backend":  cfg.StoreBackend,
		"state_file":     cfg.StateFile,
		"db_file":        cfg.DBFile,
		"date_locale":    cfg.DateLocale,
		"theme":          cfg.Theme,
		"log_dir":        cfg.LogDir,
		"log_level":      cfg.LogLevel,
		"log_format":     cfg.LogFormat,
		"log_timestamps": fmt.Sprint(cfg.LogTimestamps),
		"log_caller":     fmt.Sprint(cfg.LogCaller),
		"log_keep":       fmt.Sprint(cfg.LogKeep),
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(cws.Files) == 0 {
		fmt.Fprintln(stdout, "# no config file found")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(stdout, "# read %s\n", f)
	}
	for _, k := range keys {
		fmt.Fprintf(stdout, "%-15s = %-30q # %s\n", k, values[k], cws.Sources[k])
	}
	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "tasker %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tasker - a terminal to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasker [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Launch the interactive UI (default command)")
	fmt.Fprintln(w, "  ls                  List tasks, highest priority first")
	fmt.Fprintln(w, "  add TEXT...         Add a task")
	fmt.Fprintln(w, "  done ID             Toggle a task's completion")
	fmt.Fprintln(w, "  rm ID               Delete a task")
	fmt.Fprintln(w, "  clear               Delete every task")
	fmt.Fprintln(w, "  theme [dark|light|toggle]  Show or set the theme")
	fmt.Fprintln(w, "  tail                Tail the latest log file")
	fmt.Fprintln(w, "  doctor              Check config and stored state")
	fmt.Fprintln(w, "  config              Show resolved config and where each value came from")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "IDs may be shortened to any unique prefix.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format: text, json, yaml (default \"text\")")
	fmt.Fprintln(w, "  -pending")
	fmt.Fprintln(w, "        Only show incomplete tasks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options:")
	fmt.Fprintln(w, "  -p, -priority string")
	fmt.Fprintln(w, "        Priority: High, Medium, Low (default \"Medium\")")
	fmt.Fprintln(w, "  -d, -date string")
	fmt.Fprintln(w, "        Due date (YYYY-MM-DD)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options:")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
