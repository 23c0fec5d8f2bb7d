package codec

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/jot/pkg/core"
)

// YAML is a sequence of mappings with the keys id, title, body and updated.
// Unlike the other formats it escapes every value, so any note survives a round trip.
type YAML struct{}

// NewYAML creates a YAML codec.
func NewYAML() *YAML {
	return &YAML{}
}

func (y *YAML) Format() Format { return FormatYAML }

type yamlNote struct {
	ID      int64  `yaml:"id"`
	Title   string `yaml:"title"`
	Body    string `yaml:"body"`
	Updated string `yaml:"updated"`
}

type yamlRecord struct {
	ID      *string `yaml:"id"`
	Title   *string `yaml:"title"`
	Body    *string `yaml:"body"`
	Updated *string `yaml:"updated"`
}

func (y *YAML) Encode(notes []core.Note) ([]byte, error) {
	records := make([]yamlNote, 0, len(notes))
	for _, n := range notes {
		records = append(records, yamlNote{
			ID:      n.ID,
			Title:   n.Title,
			Body:    n.Body,
			Updated: core.FormatTimestamp(n.UpdatedAt),
		})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode expects a single document holding a sequence. Entries that are not
// mappings or that lack a field are skipped.
func (y *YAML) Decode(r io.Reader) (*Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrMalformedPayload, err)
	}

	out := &Decoded{}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return out, nil
	}

	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: expected a sequence at line %d", core.ErrMalformedPayload, seq.Line)
	}

	for i, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			out.skip(fmt.Errorf("entry %d: %w: not a mapping", i, core.ErrMalformedRecord))
			continue
		}

		var rec yamlRecord
		if err := item.Decode(&rec); err != nil {
			out.skip(fmt.Errorf("entry %d: %w: %v", i, core.ErrMalformedRecord, err))
			continue
		}

		var missing []string
		for name, v := range map[string]*string{"id": rec.ID, "title": rec.Title, "body": rec.Body, "updated": rec.Updated} {
			if v == nil {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			out.skip(fmt.Errorf("entry %d: %w: missing %s", i, core.ErrMalformedRecord, strings.Join(sorted(missing), ", ")))
			continue
		}

		note, err := buildNote(*rec.ID, *rec.Title, *rec.Body, *rec.Updated)
		if err != nil {
			out.skip(fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		out.Notes = append(out.Notes, note)
	}
	return out, nil
}

func sorted(s []string) []string {
	slices.Sort(s)
	return s
}
