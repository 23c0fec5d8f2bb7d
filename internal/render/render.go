// Package render turns note bodies written in Markdown into HTML.
package render

import (
	"bytes"

	"github.com/yuin/goldmark"
)

var md = goldmark.New()

// HTML converts a Markdown body to an HTML fragment.
func HTML(body string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
