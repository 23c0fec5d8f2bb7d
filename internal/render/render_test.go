package render

import (
	"strings"
	"testing"
)

func TestHTML(t *testing.T) {
	got, err := HTML("# Title\n\nSome *emphasis*.")
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	for _, want := range []string{"<h1>Title</h1>", "<em>emphasis</em>"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestHTML_Empty(t *testing.T) {
	got, err := HTML("")
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
