// Package transfer moves notes between a repository and the exchange formats.
package transfer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/jot/pkg/codec"
	"github.com/aretw0/jot/pkg/core"
)

// Repository is the part of core.Repository the service depends on.
type Repository interface {
	List(ctx context.Context) ([]core.Note, error)
	MergeImport(ctx context.Context, incoming []core.Note) (core.MergeStats, error)
}

// Service runs imports and exports against a repository.
type Service struct {
	repo   Repository
	codecs map[codec.Format]codec.Codec
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for import reports.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCodec replaces the codec registered for c.Format().
func WithCodec(c codec.Codec) Option {
	return func(s *Service) {
		s.codecs[c.Format()] = c
	}
}

// New creates a service with the default codecs.
func New(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		codecs: codec.DefaultCodecs(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) codec(f codec.Format) (codec.Codec, error) {
	c, ok := s.codecs[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, f)
	}
	return c, nil
}

// Report describes a finished import.
type Report struct {
	Source  string
	Format  codec.Format
	Decoded int
	Skipped []error
	Stats   core.MergeStats
}

// ImportPayload decodes content in the declared format and merges it into the repository.
// declared is a format name or a media type. When it cannot be resolved, or the payload
// is not well formed, the repository is left untouched.
func (s *Service) ImportPayload(ctx context.Context, content []byte, declared string) (*Report, error) {
	f, err := codec.ParseFormat(declared)
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, content, f)
}

// Import decodes content with the codec for f and merges the result.
func (s *Service) Import(ctx context.Context, content []byte, f codec.Format) (*Report, error) {
	c, err := s.codec(f)
	if err != nil {
		return nil, err
	}

	decoded, err := c.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f, err)
	}
	for _, skipped := range decoded.Skipped {
		s.logger.Warn("skipping malformed record", "format", f.String(), "error", skipped)
	}

	stats, err := s.repo.MergeImport(ctx, decoded.Notes)
	if err != nil {
		return nil, err
	}

	return &Report{
		Format:  f,
		Decoded: len(decoded.Notes),
		Skipped: decoded.Skipped,
		Stats:   stats,
	}, nil
}

// ImportFile imports a file, resolving its format from the extension.
func (s *Service) ImportFile(ctx context.Context, path string) (*Report, error) {
	f, err := codec.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	report, err := s.Import(ctx, content, f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	report.Source = path
	return report, nil
}

// ImportGlob imports every file matching pattern, in lexical order.
// Patterns follow doublestar syntax, so "exports/**/*.csv" descends into subdirectories.
// Files whose extension maps to no format are skipped. The first failing file stops the
// run; the reports of the files imported before it are returned with the error.
func (s *Service) ImportGlob(ctx context.Context, pattern string) ([]*Report, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	slices.Sort(matches)

	var reports []*Report
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		if _, err := codec.FormatFromPath(path); err != nil {
			s.logger.Debug("ignoring file", "path", path, "error", err)
			continue
		}

		report, err := s.ImportFile(ctx, path)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Export encodes notes in a single format.
func (s *Service) Export(notes []core.Note, f codec.Format) ([]byte, error) {
	c, err := s.codec(f)
	if err != nil {
		return nil, err
	}
	return c.Encode(notes)
}

// ExportAll encodes the same snapshot as delimited text and as markup.
func (s *Service) ExportAll(notes []core.Note) (*Export, error) {
	delimited, err := s.Export(notes, codec.FormatDelimited)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", codec.FormatDelimited, err)
	}
	markup, err := s.Export(notes, codec.FormatMarkup)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", codec.FormatMarkup, err)
	}
	return &Export{Delimited: delimited, Markup: markup}, nil
}

// Snapshot returns the repository contents in list order.
func (s *Service) Snapshot(ctx context.Context) ([]core.Note, error) {
	return s.repo.List(ctx)
}

// Export holds both renditions of one snapshot.
type Export struct {
	Delimited []byte
	Markup    []byte
}

// File is a named download.
type File struct {
	Name      string
	MediaType string
	Content   []byte
}

// Files names the renditions <name>.csv and <name>.xml.
func (e *Export) Files(name string) []File {
	return []File{
		{Name: name + codec.FormatDelimited.Extension(), MediaType: codec.FormatDelimited.MediaType(), Content: e.Delimited},
		{Name: name + codec.FormatMarkup.Extension(), MediaType: codec.FormatMarkup.MediaType(), Content: e.Markup},
	}
}

// WriteFiles writes files into dir and returns the written paths.
func WriteFiles(dir string, files []File) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Content, 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
