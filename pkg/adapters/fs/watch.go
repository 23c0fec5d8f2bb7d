package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/cespare/xxhash"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/jot/pkg/core"
)

// Watch implements core.Watchable. It reports edits of the slot file made by other
// processes. Writes performed through this Store and notifications that leave the
// content unchanged are dropped by comparing content digests.
func (s *Store) Watch(ctx context.Context, key string) (<-chan core.Event, error) {
	path, err := s.SlotPath(key)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Atomic writes replace the file, so the directory is watched instead.
	if err := watcher.Add(s.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}

	w := &slotWatcher{
		store:   s,
		key:     key,
		path:    path,
		watcher: watcher,
		events:  make(chan core.Event),
	}
	w.seen, w.exists = w.digest()

	s.setWatching(1)
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		s.handleError(fmt.Errorf("watcher panic: %w", err))
	}))

	return w.events, nil
}

type slotWatcher struct {
	store   *Store
	key     string
	path    string
	watcher *fsnotify.Watcher
	events  chan core.Event

	seen   uint64
	exists bool
}

func (w *slotWatcher) run(ctx context.Context) (err error) {
	logger := w.store.config.Logger
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.store.setWatching(-1)
	defer close(w.events)
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher events channel closed")
			}
			w.process(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher errors channel closed")
			}
			w.store.handleError(wErr)
		}
	}
}

func (w *slotWatcher) process(ctx context.Context, event fsnotify.Event) {
	if strings.HasPrefix(filepath.Base(event.Name), TempFilePrefix) {
		return
	}
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return
	}
	w.store.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	digest, exists := w.digest()
	switch {
	case !exists && w.exists:
		w.exists = false
		w.seen = 0
		w.send(ctx, core.EventDelete)

	case exists && (!w.exists || digest != w.seen):
		w.exists = true
		w.seen = digest
		if own, ok := w.store.lastWritten(w.key); ok && own == digest {
			return
		}
		w.send(ctx, core.EventModify)
	}
}

// digest hashes the current content of the slot file.
func (w *slotWatcher) digest() (uint64, bool) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return 0, false
	}
	return xxhash.Sum64(data), true
}

func (w *slotWatcher) send(ctx context.Context, t core.EventType) {
	select {
	case w.events <- core.Event{Type: t, Key: w.key, Timestamp: time.Now().Unix()}:
	case <-ctx.Done():
	}
}

func (s *Store) setWatching(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers += delta
}

func (s *Store) handleError(err error) {
	s.config.Logger.Error("fsnotify error", "error", err)
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}
