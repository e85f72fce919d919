// Package logging writes per-run log files and tails them.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// logSuffix is the extension of run log files.
const logSuffix = ".log"

// DefaultKeep is the number of run logs kept by Prune.
const DefaultKeep = 20

// Options configures the logger.
type Options struct {
	Level      string
	Format     string
	Timestamps bool
	Caller     bool
	Prefix     string
}

// RunLogger owns the log file for one run of the program.
type RunLogger struct {
	Dir     string
	RunID   string
	LogPath string
	Logger  *log.Logger
	file    *os.File
}

// NewRunLogger creates dir if needed and opens a fresh log file in it.
func NewRunLogger(dir string, opts Options) (*RunLogger, error) {
	if dir == "" {
		return nil, fmt.Errorf("log dir is empty")
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := runID()
	logPath := filepath.Join(dir, id+logSuffix)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &RunLogger{
		Dir:     dir,
		RunID:   id,
		LogPath: logPath,
		Logger:  New(file, opts),
		file:    file,
	}, nil
}

// Close closes the log file.
func (r *RunLogger) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "tasker"
	}
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: opts.Timestamps,
		ReportCaller:    opts.Caller,
		Prefix:          prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel parses a string log level. Unknown levels map to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a formatter name. Unknown names map to text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// ValidFormat reports whether format names a supported formatter.
func ValidFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "json", "logfmt":
		return true
	}
	return false
}

func runID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}

// LogRun describes one run log file.
type LogRun struct {
	RunID   string
	Path    string
	ModTime time.Time
	Size    int64
}

// FindLogRuns lists run logs in dir, newest first. A missing dir yields
// no runs.
func FindLogRuns(dir string) ([]LogRun, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log dir: %w", err)
	}

	var runs []LogRun
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), logSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		runs = append(runs, LogRun{
			RunID:   strings.TrimSuffix(entry.Name(), logSuffix),
			Path:    filepath.Join(dir, entry.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].ModTime.Equal(runs[j].ModTime) {
			return runs[i].RunID > runs[j].RunID
		}
		return runs[i].ModTime.After(runs[j].ModTime)
	})
	return runs, nil
}

// FindLatestLog returns the newest run log in dir, or "" if there is none.
func FindLatestLog(dir string) (string, error) {
	runs, err := FindLogRuns(dir)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", nil
	}
	return runs[0].Path, nil
}

// Prune removes all but the newest keep run logs and returns how many it
// removed. The file named by current is never removed.
func Prune(dir string, keep int, current string) (int, error) {
	runs, err := FindLogRuns(dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	kept := 0
	for _, run := range runs {
		if run.Path == current || kept < keep {
			kept++
			continue
		}
		if err := os.Remove(run.Path); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove old log: %w", err)
		}
		removed++
	}
	return removed, nil
}

// TailLog copies the last n lines of path to w (all lines if n <= 0).
// With follow it keeps copying new content until ctx is done.
func TailLog(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if n > 0 {
		if err := tailSeek(file, n); err != nil {
			return fmt.Errorf("seek to tail position: %w", err)
		}
	}

	if _, err := io.Copy(w, file); err != nil {
		return err
	}
	if !follow {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := io.Copy(w, file); err != nil {
				return err
			}
		}
	}
}

// tailSeek positions file at the start of the n-th line from the end.
func tailSeek(file *os.File, n int) error {
	stat, err := file.Stat()
	if err != nil {
		return err
	}
	size := stat.Size()
	if size == 0 {
		return nil
	}

	const chunk = 4096
	buf := make([]byte, chunk)
	lines := 0
	offset := size

	// A trailing newline ends the last line rather than starting a new one.
	last := make([]byte, 1)
	if _, err := file.ReadAt(last, size-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		offset--
	}

	for offset > 0 {
		readSize := int64(chunk)
		if offset < readSize {
			readSize = offset
		}
		offset -= readSize
		if _, err := file.ReadAt(buf[:readSize], offset); err != nil && err != io.EOF {
			return err
		}
		for i := readSize - 1; i >= 0; i-- {
			if buf[i] != '\n' {
				continue
			}
			lines++
			if lines == n {
				_, err := file.Seek(offset+i+1, io.SeekStart)
				return err
			}
		}
	}

	_, err = file.Seek(0, io.SeekStart)
	return err
}
