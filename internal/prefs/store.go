// Package prefs persists small key/value preferences, such as the last active
// dashboard tab, in a YAML file under the user config directory.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// FileStore is a durable tabs.Store. Reads are served from memory; every Set
// rewrites the file atomically.
type FileStore struct {
	path   string
	logger *log.Logger

	mu     sync.RWMutex
	values map[string]string
}

// Open loads the store at path. A missing file is an empty store; an
// unreadable or corrupt one is logged and treated as empty so a bad state
// file never blocks startup.
func Open(path string, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &FileStore{path: path, logger: logger, values: map[string]string{}}
	values, err := readValues(path)
	if err != nil {
		logger.Warn("ignoring unreadable state file", "path", path, "err", err)
		return s
	}
	s.values = values
	return s
}

// Path is the state file location.
func (s *FileStore) Path() string { return s.path }

// Get returns the cached value for key.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set writes value under key. The file is re-read first so keys written by
// other sessions survive, and it is always rewritten since the cache may be
// stale.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := readValues(s.path)
	if err != nil {
		s.logger.Debug("rewriting unreadable state file", "path", s.path, "err", err)
		next = make(map[string]string, len(s.values)+1)
		for k, v := range s.values {
			next[k] = v
		}
	}
	next[key] = value
	if err := writeValues(s.path, next); err != nil {
		return err
	}
	s.values = next
	return nil
}

// Reload re-reads the file and returns the keys whose values changed.
func (s *FileStore) Reload() (map[string]string, error) {
	values, err := readValues(s.path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := map[string]string{}
	for k, v := range values {
		if cur, ok := s.values[k]; !ok || cur != v {
			changed[k] = v
		}
	}
	s.values = values
	return changed, nil
}

// Watch reloads the store whenever another process rewrites the file and calls
// fn for each changed key. It returns once the watcher is running and stops
// when ctx is done. The directory is watched rather than the file because
// atomic writes replace the file.
func (s *FileStore) Watch(ctx context.Context, fn func(key, value string)) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Base(s.path)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				changed, err := s.Reload()
				if err != nil {
					s.logger.Debug("state reload failed", "err", err)
					continue
				}
				for k, v := range changed {
					fn(k, v)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.logger.Warn("state watcher error", "err", err)
			}
		}
	}()
	return nil
}

func readValues(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

func writeValues(path string, values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := yaml.Marshal(values)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
