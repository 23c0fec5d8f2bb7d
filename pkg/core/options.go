package core

import (
	"log/slog"
	"time"
)

// DefaultKey is the slot key notes are stored under unless WithKey overrides it.
const DefaultKey = "notesapp-notes"

// Option configures a Repository.
type Option func(*Repository)

// WithKey sets the slot key the repository reads and writes.
func WithKey(key string) Option {
	return func(r *Repository) {
		if key != "" {
			r.key = key
		}
	}
}

// WithIDGenerator sets the strategy used to mint ids for new notes.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Repository) {
		if g != nil {
			r.ids = g
		}
	}
}

// WithClock overrides the time source used to stamp UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger for the repository.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithReadOnly makes every mutation fail with ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(r *Repository) {
		r.readOnly = enabled
	}
}
