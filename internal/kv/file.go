package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrCorrupt is returned when the store file cannot be parsed.
var ErrCorrupt = errors.New("store file is corrupt")

// File stores all keys in one JSON object file. Each value is kept as a
// string, so the file reads like browser local storage:
//
//	{"darkMode": "true", "tasks": "[]"}
//
// Reads take a shared lock and writes an exclusive lock on path+".lock",
// so separate processes never observe a half-written file.
type File struct {
	path string
	lock *flock.Flock
}

// OpenFile opens a file store at path, creating its directory if needed.
// The file itself is created on first Set.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &File{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the store file path.
func (s *File) Path() string {
	return s.path
}

func (s *File) Get(key string) ([]byte, error) {
	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer func() { _ = s.lock.Unlock() }()

	entries, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	v, ok := entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (s *File) Set(key string, value []byte) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer func() { _ = s.lock.Unlock() }()

	entries, err := s.readLocked()
	if errors.Is(err, ErrCorrupt) {
		// Keep the unreadable file around and start over.
		if err := os.Rename(s.path, s.path+".corrupt"); err != nil {
			return fmt.Errorf("move corrupt store aside: %w", err)
		}
		entries = map[string]string{}
	} else if err != nil {
		return err
	}

	entries[key] = string(value)
	return s.writeLocked(entries)
}

func (s *File) Close() error {
	return s.lock.Close()
}

func (s *File) readLocked() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if entries == nil {
		entries = map[string]string{}
	}
	return entries, nil
}

// writeLocked writes through a temp file and rename.
func (s *File) writeLocked(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store file: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close store file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
