// Package bolt stores slots in a bbolt database file.
package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/introspection"
	bbolt "go.etcd.io/bbolt"

	"github.com/aretw0/jot/pkg/core"
)

// DefaultBucket holds every slot.
const DefaultBucket = "slots"

// Config holds the configuration for the bolt store.
type Config struct {
	Path   string
	Bucket string
	// Timeout bounds how long Open waits for the file lock held by another process.
	Timeout  time.Duration
	ReadOnly bool
}

// Store implements core.Store with one bucket entry per key.
type Store struct {
	db     *bbolt.DB
	path   string
	bucket []byte
}

// Open opens or creates the database file and its bucket.
func Open(config Config) (*Store, error) {
	if config.Bucket == "" {
		config.Bucket = DefaultBucket
	}
	if config.Timeout == 0 {
		config.Timeout = time.Second
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(config.Path, 0600, &bbolt.Options{Timeout: config.Timeout, ReadOnly: config.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", config.Path, err)
	}

	s := &Store{db: db, path: config.Path, bucket: []byte(config.Bucket)}
	if !config.ReadOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(s.bucket)
			return err
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("create bucket %s: %w", config.Bucket, err)
		}
	}
	return s, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var (
		value string
		ok    bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		data := b.Get([]byte(key))
		if data == nil {
			return nil
		}
		// data is only valid inside the transaction.
		value, ok = string(data), true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return value, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path   string `json:"path"`
	Bucket string `json:"bucket"`
	Keys   int    `json:"keys"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	state := StoreState{Path: s.path, Bucket: string(s.bucket)}
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(s.bucket); b != nil {
			state.Keys = b.Stats().KeyN
		}
		return nil
	})
	return state
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "bolt-store"
}

var _ core.Store = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
