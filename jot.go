package jot

import (
	"context"
	"log/slog"
	"os"

	"github.com/aretw0/jot/internal/platform"
	"github.com/aretw0/jot/pkg/codec"
	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/transfer"
)

// --- Types ---

// Note is a public alias for the domain entity.
type Note = core.Note

// Repository is a public alias for the note repository.
type Repository = core.Repository

// Format is a public alias for the exchange format variant.
type Format = codec.Format

const (
	FormatDelimited = codec.FormatDelimited
	FormatMarkup    = codec.FormatMarkup
	FormatYAML      = codec.FormatYAML
)

// --- Configuration ---

// Option defines a functional option for configuring jot.
type Option = platform.Option

// WithAdapter selects the storage adapter by name ("fs", "bolt", "memory", "mongo").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithKey sets the slot key the notes are stored under.
func WithKey(key string) Option {
	return platform.WithKey(key)
}

// WithIDStrategy selects "sequential" or "random" ids.
func WithIDStrategy(name string) Option {
	return platform.WithIDStrategy(name)
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore injects a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithReadOnly rejects every mutation with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist requires the storage location to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the sandbox used when running via `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New opens a repository. The uri is adapter-specific (a directory for "fs").
func New(uri string, opts ...Option) (*core.Repository, error) {
	return platform.New(context.Background(), uri, opts...)
}

// Open finds the root above startDir, applies its jot.yaml and the JOT_* environment,
// then opens the repository. Explicit options take precedence.
func Open(ctx context.Context, startDir string, opts ...Option) (*core.Repository, error) {
	root, cfg, err := platform.Resolve(startDir, os.Getenv)
	if err != nil {
		return nil, err
	}
	return platform.New(ctx, cfg.URI(root), append(cfg.Options(), opts...)...)
}

// NewTransfer creates the import/export orchestrator for repo.
func NewTransfer(repo *core.Repository, opts ...transfer.Option) *transfer.Service {
	return transfer.New(repo, opts...)
}

// --- Formats & Utils ---

// ParseFormat resolves a format name or media type.
func ParseFormat(declared string) (Format, error) {
	return codec.ParseFormat(declared)
}

// FindRoot looks upwards for a directory holding .jot or jot.yaml.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
