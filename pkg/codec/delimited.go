package codec

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/jot/pkg/core"
)

const byteOrderMark = "\uFEFF"

var delimitedHeader = []string{"id", "title", "body", "updated"}

// Delimited is the comma-separated exchange format.
//
// It is not RFC 4180: a field is wrapped in double quotes only when it contains a
// comma, and quotes or newlines inside a field are written as is. Decoding splits on
// every comma and ignores quoting, so only values free of commas, quotes and newlines
// survive a round trip. Lines that do not split into exactly four columns are dropped.
type Delimited struct{}

// NewDelimited creates a delimited codec.
func NewDelimited() *Delimited {
	return &Delimited{}
}

func (d *Delimited) Format() Format { return FormatDelimited }

// Encode writes a byte-order mark, the header line and one line per note.
// Lines are separated by "\n" with no trailing newline.
func (d *Delimited) Encode(notes []core.Note) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(byteOrderMark)
	buf.WriteString(strings.Join(delimitedHeader, ","))
	buf.WriteByte('\n')

	for i, n := range notes {
		if i > 0 {
			buf.WriteByte('\n')
		}
		row := []string{
			strconv.FormatInt(n.ID, 10),
			quoteIfComma(n.Title),
			quoteIfComma(n.Body),
			quoteIfComma(core.FormatTimestamp(n.UpdatedAt)),
		}
		buf.WriteString(strings.Join(row, ","))
	}
	return buf.Bytes(), nil
}

// Decode discards the header line and reads one note per remaining non-empty line.
func (d *Delimited) Decode(r io.Reader) (*Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	text := strings.TrimPrefix(string(data), byteOrderMark)
	lines := strings.Split(text, "\n")

	out := &Decoded{}
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSuffix(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		lineNo := i + 1
		cols := strings.Split(line, ",")
		if len(cols) != len(delimitedHeader) {
			out.skip(fmt.Errorf("%w: line %d: expected %d columns, got %d",
				core.ErrMalformedRecord, lineNo, len(delimitedHeader), len(cols)))
			continue
		}

		note, err := buildNote(cols[0], cols[1], cols[2], cols[3])
		if err != nil {
			out.skip(fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		out.Notes = append(out.Notes, note)
	}
	return out, nil
}

func quoteIfComma(s string) string {
	if strings.Contains(s, ",") {
		return `"` + s + `"`
	}
	return s
}

// buildNote validates the raw id and timestamp of a decoded record.
func buildNote(rawID, title, body, rawUpdated string) (core.Note, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return core.Note{}, fmt.Errorf("%w: id %q is not an integer", core.ErrMalformedRecord, rawID)
	}
	if id <= 0 {
		return core.Note{}, fmt.Errorf("%w: id %d is not positive", core.ErrMalformedRecord, id)
	}

	updated, err := core.ParseTimestamp(strings.TrimSpace(rawUpdated))
	if err != nil {
		return core.Note{}, fmt.Errorf("%w: updated %q: %v", core.ErrMalformedRecord, rawUpdated, err)
	}

	return core.Note{
		ID:        id,
		Title:     title,
		Body:      body,
		UpdatedAt: updated,
	}, nil
}
