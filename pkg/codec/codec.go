// Package codec converts notes to and from the exchange formats used for import and export.
//
// The slot the repository persists into always holds JSON; these formats exist only to
// move notes in and out of the store.
package codec

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aretw0/jot/pkg/core"
)

// Codec defines how to read and write one exchange format.
type Codec interface {
	// Format identifies the format handled by the codec.
	Format() Format
	// Encode renders notes in the given order.
	Encode(notes []core.Note) ([]byte, error)
	// Decode reads every well-formed note from r.
	// Malformed records are skipped and reported in Decoded.Skipped.
	Decode(r io.Reader) (*Decoded, error)
}

// Decoded is the outcome of decoding a payload.
type Decoded struct {
	Notes []core.Note
	// Skipped holds one error per dropped record, each wrapping core.ErrMalformedRecord.
	Skipped []error
}

func (d *Decoded) skip(err error) {
	d.Skipped = append(d.Skipped, err)
}

// Format is the closed set of exchange formats.
type Format uint8

const (
	FormatDelimited Format = iota + 1
	FormatMarkup
	FormatYAML
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatDelimited, FormatMarkup, FormatYAML}
}

func (f Format) String() string {
	switch f {
	case FormatDelimited:
		return "delimited"
	case FormatMarkup:
		return "markup"
	case FormatYAML:
		return "yaml"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Extension returns the file extension used for downloads, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatDelimited:
		return ".csv"
	case FormatMarkup:
		return ".xml"
	case FormatYAML:
		return ".yaml"
	}
	return ""
}

// MediaType returns the content type used for downloads.
func (f Format) MediaType() string {
	switch f {
	case FormatDelimited:
		return "text/csv;charset=utf-8"
	case FormatMarkup:
		return "text/xml;charset=utf-8"
	case FormatYAML:
		return "application/yaml;charset=utf-8"
	}
	return "application/octet-stream"
}

// ParseFormat resolves a format name ("csv", "markup", ...) or a media type
// ("text/csv; charset=utf-8", "application/xml", ...).
func ParseFormat(declared string) (Format, error) {
	s := strings.ToLower(strings.TrimSpace(declared))

	if strings.Contains(s, "/") {
		mediaType, _, err := mime.ParseMediaType(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, declared)
		}
		switch mediaType {
		case "text/csv", "application/csv":
			return FormatDelimited, nil
		case "text/xml", "application/xml":
			return FormatMarkup, nil
		case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
			return FormatYAML, nil
		}
		return 0, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, declared)
	}

	switch s {
	case "delimited", "csv":
		return FormatDelimited, nil
	case "markup", "xml":
		return FormatMarkup, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, declared)
}

// FormatFromPath resolves the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return 0, fmt.Errorf("%w: %s has no extension", core.ErrUnsupportedFormat, path)
	}
	return ParseFormat(strings.TrimPrefix(ext, "."))
}

// New returns the codec for f.
func New(f Format) (Codec, error) {
	switch f {
	case FormatDelimited:
		return NewDelimited(), nil
	case FormatMarkup:
		return NewMarkup(DefaultRootTag), nil
	case FormatYAML:
		return NewYAML(), nil
	}
	return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, f)
}

// DefaultCodecs returns the standard set of codecs.
func DefaultCodecs() map[Format]Codec {
	codecs := make(map[Format]Codec, len(Formats()))
	for _, f := range Formats() {
		c, err := New(f)
		if err != nil {
			panic(err)
		}
		codecs[f] = c
	}
	return codecs
}
