package codec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/jot/pkg/core"
)

// DefaultRootTag is the root element written when none is configured.
const DefaultRootTag = "root"

// Markup is the XML-like exchange format:
//
//	<root><note index="0"><id>1</id><title>..</title><body>..</body><updated>..</updated></note></root>
//
// Values are embedded literally. A title or body containing markup characters
// produces a document that Decode rejects.
type Markup struct {
	RootTag string
}

// NewMarkup creates a markup codec. An empty rootTag falls back to DefaultRootTag.
func NewMarkup(rootTag string) *Markup {
	return &Markup{RootTag: rootTag}
}

func (m *Markup) Format() Format { return FormatMarkup }

func (m *Markup) rootTag() string {
	if m.RootTag == "" {
		return DefaultRootTag
	}
	return m.RootTag
}

// Encode writes the document without an XML declaration or whitespace between elements.
func (m *Markup) Encode(notes []core.Note) ([]byte, error) {
	root := m.rootTag()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<%s>", root)
	for i, n := range notes {
		fmt.Fprintf(&buf, `<note index="%d">`, i)
		fmt.Fprintf(&buf, "<id>%d</id>", n.ID)
		fmt.Fprintf(&buf, "<title>%s</title>", n.Title)
		fmt.Fprintf(&buf, "<body>%s</body>", n.Body)
		fmt.Fprintf(&buf, "<updated>%s</updated>", core.FormatTimestamp(n.UpdatedAt))
		buf.WriteString("</note>")
	}
	fmt.Fprintf(&buf, "</%s>", root)
	return buf.Bytes(), nil
}

// markupNote mirrors a <note> element. Pointer fields tell a missing child
// apart from an empty one.
type markupNote struct {
	Index   string  `xml:"index,attr"`
	ID      *string `xml:"id"`
	Title   *string `xml:"title"`
	Body    *string `xml:"body"`
	Updated *string `xml:"updated"`
}

// Decode reads every <note> element in document order, whatever the root tag.
// A document that is not well formed fails as a whole with core.ErrMalformedPayload.
func (m *Markup) Decode(r io.Reader) (*Decoded, error) {
	dec := xml.NewDecoder(r)
	out := &Decoded{}

	position := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrMalformedPayload, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "note" {
			continue
		}

		var el markupNote
		if err := dec.DecodeElement(&el, &start); err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrMalformedPayload, err)
		}

		note, err := el.toNote()
		if err != nil {
			out.skip(fmt.Errorf("note %s: %w", el.label(position), err))
		} else {
			out.Notes = append(out.Notes, note)
		}
		position++
	}
	return out, nil
}

func (el markupNote) label(position int) string {
	if el.Index != "" {
		return strconv.Quote(el.Index)
	}
	return "#" + strconv.Itoa(position)
}

func (el markupNote) toNote() (core.Note, error) {
	var missing []string
	for name, v := range map[string]*string{"id": el.ID, "title": el.Title, "body": el.Body, "updated": el.Updated} {
		if v == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return core.Note{}, fmt.Errorf("%w: missing %s", core.ErrMalformedRecord, strings.Join(sorted(missing), ", "))
	}
	return buildNote(*el.ID, *el.Title, *el.Body, *el.Updated)
}
