// Package memory keeps slots in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/jot/pkg/core"
)

// Store implements core.Store with a map. The zero value is not usable; call New.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// New creates an empty store, optionally seeded with slots.
func New(seed map[string]string) *Store {
	data := make(map[string]string, len(seed))
	for k, v := range seed {
		data[k] = v
	}
	return &Store{data: data}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Slots map[string]int `json:"slots"`
}

// State implements introspection.Introspectable. Slots maps each key to its size in bytes.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slots := make(map[string]int, len(s.data))
	for k, v := range s.data {
		slots[k] = len(v)
	}
	return StoreState{Slots: slots}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory-store"
}

var _ core.Store = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
