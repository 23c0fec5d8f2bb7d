// Package fs stores slots as JSON files inside a directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash"

	"github.com/aretw0/jot/pkg/core"
)

// SlotExtension is appended to the key to form the slot file name.
const SlotExtension = ".json"

// Config holds the configuration for the filesystem store.
type Config struct {
	Path      string
	MustExist bool
	Logger    *slog.Logger
	// ErrorHandler receives watcher failures. When nil they are only logged.
	ErrorHandler func(error)
}

// Store implements core.Store with one file per key.
type Store struct {
	Path   string
	config Config

	mu       sync.RWMutex
	written  map[string]uint64
	watchers int
}

// NewStore creates a filesystem-backed store. Call Initialize before use.
func NewStore(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Store{
		Path:    config.Path,
		config:  config,
		written: make(map[string]uint64),
	}
}

// Initialize creates the directory, or checks that it exists when MustExist is set.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist {
		info, err := os.Stat(s.Path)
		if err != nil {
			return fmt.Errorf("path does not exist: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("path %s is not a directory", s.Path)
		}
		return nil
	}
	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.Path, err)
	}
	return nil
}

// SlotPath returns the file backing key.
func (s *Store) SlotPath(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid slot key %q", key)
	}
	return filepath.Join(s.Path, key+SlotExtension), nil
}

// Get implements core.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	path, err := s.SlotPath(key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// Set implements core.Store. The file is replaced atomically.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.SlotPath(key)
	if err != nil {
		return err
	}

	// Recorded first so a watcher woken by the rename already sees it.
	s.mu.Lock()
	prev, hadPrev := s.written[key]
	s.written[key] = xxhash.Sum64String(value)
	s.mu.Unlock()

	if err := writeFileAtomic(path, []byte(value), 0644); err != nil {
		s.mu.Lock()
		if hadPrev {
			s.written[key] = prev
		} else {
			delete(s.written, key)
		}
		s.mu.Unlock()
		return err
	}

	s.config.Logger.Debug("slot written", "path", path, "bytes", len(value))
	return nil
}

// lastWritten reports the digest of the last value this store wrote for key.
func (s *Store) lastWritten(key string) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.written[key]
	return d, ok
}

var _ core.Store = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)

// slots lists the keys that have a slot file.
func (s *Store) slots() []string {
	matches, err := filepath.Glob(filepath.Join(s.Path, "*"+SlotExtension))
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, strings.TrimSuffix(filepath.Base(m), SlotExtension))
	}
	return keys
}
