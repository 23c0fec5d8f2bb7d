package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Repository owns the canonical set of notes stored in a single Store slot.
//
// Every accessor rereads the slot and every mutation rewrites it in full
// (read-modify-write). The mutex serializes mutations within one process;
// concurrent writers in other processes are not detected.
type Repository struct {
	store    Store
	key      string
	ids      IDGenerator
	now      func() time.Time
	logger   *slog.Logger
	readOnly bool
	mu       sync.RWMutex
}

// NewRepository creates a repository persisting into store.
func NewRepository(store Store, opts ...Option) *Repository {
	r := &Repository{
		store:  store,
		key:    DefaultKey,
		ids:    SequentialIDs{},
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns every stored note, most recently updated first.
// A missing or empty slot yields an empty list.
func (r *Repository) List(ctx context.Context) ([]Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	SortByRecency(notes)
	return notes, nil
}

// Get returns the note with the given id.
func (r *Repository) Get(ctx context.Context, id int64) (Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes, err := r.load(ctx)
	if err != nil {
		return Note{}, err
	}
	for _, n := range notes {
		if n.ID == id {
			return n, nil
		}
	}
	return Note{}, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// Save creates or updates a note.
//
// If candidate.ID matches a stored note, its title and body are overwritten.
// Otherwise a fresh id is minted and the note is appended. In both cases
// UpdatedAt is stamped by the repository and the stored note is returned.
func (r *Repository) Save(ctx context.Context, candidate Note) (Note, error) {
	note, _, err := r.Upsert(ctx, candidate)
	return note, err
}

// Upsert is Save that also reports whether the note was created.
// Both outcomes are decided under the same lock as the write.
func (r *Repository) Upsert(ctx context.Context, candidate Note) (Note, bool, error) {
	if r.readOnly {
		return Note{}, false, ErrReadOnly
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	notes, err := r.load(ctx)
	if err != nil {
		return Note{}, false, err
	}

	if candidate.ID != 0 {
		for i := range notes {
			if notes[i].ID != candidate.ID {
				continue
			}
			notes[i].Title = candidate.Title
			notes[i].Body = candidate.Body
			notes[i].UpdatedAt = r.stamp(notes[i].UpdatedAt)

			if err := r.persist(ctx, notes); err != nil {
				return Note{}, false, err
			}
			r.logger.Debug("note updated", "id", notes[i].ID)
			return notes[i], false, nil
		}
	}

	taken := make(map[int64]struct{}, len(notes))
	var maxID int64
	for _, n := range notes {
		taken[n.ID] = struct{}{}
		if n.ID > maxID {
			maxID = n.ID
		}
	}

	id, err := r.ids.Next(func(id int64) bool {
		_, ok := taken[id]
		return ok || id == 0
	}, maxID)
	if err != nil {
		return Note{}, false, fmt.Errorf("failed to mint note id: %w", err)
	}

	created := Note{
		ID:        id,
		Title:     candidate.Title,
		Body:      candidate.Body,
		UpdatedAt: r.stamp(time.Time{}),
	}
	notes = append(notes, created)

	if err := r.persist(ctx, notes); err != nil {
		return Note{}, false, err
	}
	r.logger.Debug("note created", "id", created.ID)
	return created, true, nil
}

// Delete removes the note with the given id. Deleting an absent id is a no-op.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if r.readOnly {
		return ErrReadOnly
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	notes, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := notes[:0]
	for _, n := range notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(notes) {
		r.logger.Debug("delete of absent note ignored", "id", id)
		return nil
	}

	if err := r.persist(ctx, kept); err != nil {
		return err
	}
	r.logger.Debug("note deleted", "id", id)
	return nil
}

// MergeImport reconciles a decoded batch against the stored notes and persists the union.
// Stored notes win on id collisions (see Merge). Importing the same batch twice leaves
// the same set as importing it once.
func (r *Repository) MergeImport(ctx context.Context, incoming []Note) (MergeStats, error) {
	if r.readOnly {
		return MergeStats{}, ErrReadOnly
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.load(ctx)
	if err != nil {
		return MergeStats{}, err
	}

	merged, stats := Merge(existing, incoming)
	if err := r.persist(ctx, merged); err != nil {
		return MergeStats{}, err
	}

	r.logger.Info("notes imported",
		"incoming", stats.Incoming,
		"added", stats.Added,
		"duplicates", stats.Duplicates,
		"total", stats.Total,
	)
	return stats, nil
}

// Watch observes external changes to the slot if the store supports it.
func (r *Repository) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := r.store.(Watchable)
	if !ok {
		return nil, errors.New("store does not support watching")
	}
	return w.Watch(ctx, r.key)
}

// Close releases the underlying store if it holds resources.
func (r *Repository) Close() error {
	if c, ok := r.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// stamp returns the current time, never earlier than prev.
func (r *Repository) stamp(prev time.Time) time.Time {
	now := r.now().UTC().Truncate(time.Millisecond)
	if now.Before(prev) {
		return prev
	}
	return now
}

func (r *Repository) load(ctx context.Context) ([]Note, error) {
	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrStorageUnavailable, r.key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []Note{}, nil
	}

	var notes []Note
	if err := json.Unmarshal([]byte(raw), &notes); err != nil {
		return nil, fmt.Errorf("%w: corrupt slot %s: %w", ErrStorageUnavailable, r.key, err)
	}
	if notes == nil {
		notes = []Note{}
	}
	return notes, nil
}

func (r *Repository) persist(ctx context.Context, notes []Note) error {
	if notes == nil {
		notes = []Note{}
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}
	if err := r.store.Set(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorageUnavailable, r.key, err)
	}
	return nil
}
