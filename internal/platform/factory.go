package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/jot/pkg/adapters/bolt"
	"github.com/aretw0/jot/pkg/adapters/fs"
	"github.com/aretw0/jot/pkg/adapters/memory"
	"github.com/aretw0/jot/pkg/adapters/mongo"
	"github.com/aretw0/jot/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterBolt   = "bolt"
	AdapterMemory = "memory"
	AdapterMongo  = "mongo"
)

// BoltFile is the database file name used when the bolt adapter is given a directory.
const BoltFile = "jot.db"

// Adapters lists the supported adapter names.
func Adapters() []string {
	return []string{AdapterFS, AdapterBolt, AdapterMemory, AdapterMongo}
}

// New opens the store selected by the options and wraps it in a repository.
// The uri argument is adapter-specific: a directory for "fs", a file or directory
// for "bolt", a connection string for "mongo". It is ignored by "memory".
//
//	repo, err := platform.New("./notes", platform.WithAdapter("bolt"))
func New(ctx context.Context, uri string, opts ...Option) (*core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := initStore(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	repoOpts := []core.Option{core.WithReadOnly(o.bool("read_only"))}
	if o.logger != nil {
		repoOpts = append(repoOpts, core.WithLogger(o.logger))
	}
	if key := o.string("key"); key != "" {
		repoOpts = append(repoOpts, core.WithKey(key))
	}
	switch o.string("ids") {
	case "", "sequential":
		repoOpts = append(repoOpts, core.WithIDGenerator(core.SequentialIDs{}))
	case "random":
		repoOpts = append(repoOpts, core.WithIDGenerator(core.RandomIDs{}))
	default:
		return nil, fmt.Errorf("unknown id strategy: %s", o.string("ids"))
	}

	return core.NewRepository(store, repoOpts...), nil
}

// Init opens the store selected by the options without wrapping it.
func Init(ctx context.Context, uri string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initStore(ctx, uri, o)
}

func initStore(ctx context.Context, uri string, o *options) (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	switch o.adapter {
	case AdapterFS:
		return initFS(ctx, uri, o)
	case AdapterBolt:
		return initBolt(uri, o)
	case AdapterMemory:
		return memory.New(nil), nil
	case AdapterMongo:
		return initMongo(ctx, uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// resolvePath applies the dev sandbox to a file-based location.
func resolvePath(path string, o *options) string {
	isReadOnly := o.bool("read_only")

	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}
	bypassSafety := isReadOnly || !devSafety

	useTemp := o.bool("temp_dir") || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataPath(path, useTemp)

	if o.logger != nil && useTemp && resolved != filepath.Clean(path) {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}

func initFS(ctx context.Context, path string, o *options) (core.Store, error) {
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	store := fs.NewStore(fs.Config{
		Path:         resolvePath(path, o),
		MustExist:    o.bool("must_exist") || o.bool("read_only"),
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func initBolt(path string, o *options) (core.Store, error) {
	path = resolvePath(path, o)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, BoltFile)
	} else if filepath.Ext(path) == "" {
		path = filepath.Join(path, BoltFile)
	}

	if o.bool("must_exist") || o.bool("read_only") {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("path does not exist: %w", err)
		}
	}

	store, err := bolt.Open(bolt.Config{
		Path:     path,
		Bucket:   o.string("bucket"),
		ReadOnly: o.bool("read_only"),
	})
	if err != nil {
		return nil, err
	}
	o.log().Debug("bolt store opened", "path", path)
	return store, nil
}

func initMongo(ctx context.Context, uri string, o *options) (core.Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo adapter requires a connection string")
	}
	return mongo.Connect(ctx, mongo.Config{
		URI:        uri,
		Database:   o.string("database"),
		Collection: o.string("collection"),
	})
}

func (o *options) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}
