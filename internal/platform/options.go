package platform

import (
	"log/slog"

	"github.com/aretw0/jot/pkg/core"
)

// options holds the internal configuration for opening a repository.
type options struct {
	store   core.Store
	logger  *slog.Logger
	adapter string
	config  map[string]interface{}
}

// Option defines a functional option for configuring jot.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		store:   nil,
		logger:  nil,
		adapter: AdapterFS,
		config:  make(map[string]interface{}),
	}
}

func (o *options) string(key string) string {
	v, _ := o.config[key].(string)
	return v
}

func (o *options) bool(key string) bool {
	v, _ := o.config[key].(bool)
	return v
}

// WithLogger sets the logger for the repository and its store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore injects a custom core.Store (e.g. a mock).
// If provided, the adapter selection is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage adapter by name: "fs" (default), "bolt", "memory" or "mongo".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithKey sets the slot key the notes are stored under.
func WithKey(key string) Option {
	return func(o *options) {
		o.config["key"] = key
	}
}

// WithIDStrategy selects how new ids are minted: "sequential" (default) or "random".
func WithIDStrategy(name string) Option {
	return func(o *options) {
		o.config["ids"] = name
	}
}

// WithMustExist requires the storage location to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Save, Delete and MergeImport return core.ErrReadOnly.
// 2. No directory is created.
// 3. Dev Safety Lock (go run temp dir) is BYPASSED (uses real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run`.
// By default (true), file-based adapters are re-rooted into a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the fs watcher loop.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithBucket sets the bucket used by the bolt adapter.
func WithBucket(name string) Option {
	return func(o *options) {
		o.config["bucket"] = name
	}
}

// WithDatabase sets the database used by the mongo adapter.
func WithDatabase(name string) Option {
	return func(o *options) {
		o.config["database"] = name
	}
}

// WithCollection sets the collection used by the mongo adapter.
func WithCollection(name string) Option {
	return func(o *options) {
		o.config["collection"] = name
	}
}
