package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/codec"
	"github.com/aretw0/jot/pkg/core"
)

// buildJotBinary builds the jot binary into dir and returns its path.
func buildJotBinary(t *testing.T, dir string) string {
	t.Helper()
	bin := filepath.Join(dir, "jot.exe")
	buildCmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build jot: %v\n%s", err, string(out))
	}
	return bin
}

func runJot(t *testing.T, dir, bin string, stdin string, args ...string) string {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "JOT_ADAPTER=", "JOT_HOME=", "JOT_KEY=", "JOT_READ_ONLY=")
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("jot %s failed: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), err, stdout.String(), stderr.String())
	}
	return stdout.String()
}

func TestCLI(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	binDir := t.TempDir()
	bin := buildJotBinary(t, binDir)

	workDir := t.TempDir()
	// Mark the root so the data directory lands here.
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "jot.yaml"), []byte("adapter: fs\n"), 0644))

	t.Run("Save and Read", func(t *testing.T) {
		out := runJot(t, workDir, bin, "", "save", "--title", "First", "--body", "# Hello")
		assert.Equal(t, "Note 1 saved.\n", out)

		out = runJot(t, workDir, bin, "", "read", "1")
		assert.Equal(t, "# Hello\n", out)

		out = runJot(t, workDir, bin, "", "read", "1", "--html")
		assert.Contains(t, out, "<h1>Hello</h1>")

		out = runJot(t, workDir, bin, "", "read", "1", "--json")
		var note core.Note
		require.NoError(t, json.Unmarshal([]byte(out), &note))
		assert.Equal(t, int64(1), note.ID)
		assert.Equal(t, "First", note.Title)
	})

	t.Run("Save Body From Stdin", func(t *testing.T) {
		out := runJot(t, workDir, bin, "piped body", "save", "--title", "Second", "--body-file", "-")
		assert.Equal(t, "Note 2 saved.\n", out)

		out = runJot(t, workDir, bin, "", "read", "2")
		assert.Equal(t, "piped body\n", out)
	})

	t.Run("Import Keeps Existing Notes", func(t *testing.T) {
		stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		payload, err := codec.NewDelimited().Encode([]core.Note{
			{ID: 1, Title: "Intruder", Body: "must not win", UpdatedAt: stamp},
			{ID: 7, Title: "Imported", Body: "from csv", UpdatedAt: stamp},
		})
		require.NoError(t, err)
		importPath := filepath.Join(workDir, "incoming", "notes.csv")
		require.NoError(t, os.MkdirAll(filepath.Dir(importPath), 0755))
		require.NoError(t, os.WriteFile(importPath, payload, 0644))

		out := runJot(t, workDir, bin, "", "import", filepath.Join(workDir, "incoming", "*.csv"))
		assert.Contains(t, out, "added 1, dropped 1 duplicates, skipped 0, total 3")

		out = runJot(t, workDir, bin, "", "read", "1", "--json")
		var note core.Note
		require.NoError(t, json.Unmarshal([]byte(out), &note))
		assert.Equal(t, "First", note.Title)
	})

	t.Run("Import From Stdin", func(t *testing.T) {
		xml := `<root><note><id>9</id><title>Piped</title><body>xml</body><updated>2024-01-02T03:04:05.000Z</updated></note></root>`
		out := runJot(t, workDir, bin, xml, "import", "--format", "xml")
		assert.Contains(t, out, "stdin (markup): added 1")
	})

	t.Run("List", func(t *testing.T) {
		out := runJot(t, workDir, bin, "", "list", "--json")
		var notes []core.Note
		require.NoError(t, json.Unmarshal([]byte(out), &notes))
		assert.Len(t, notes, 4)
	})

	t.Run("Export", func(t *testing.T) {
		outDir := filepath.Join(workDir, "out")
		out := runJot(t, workDir, bin, "", "export", "--dir", outDir, "--name", "backup")
		assert.Contains(t, out, filepath.Join(outDir, "backup.csv"))
		assert.Contains(t, out, filepath.Join(outDir, "backup.xml"))

		csv, err := os.ReadFile(filepath.Join(outDir, "backup.csv"))
		require.NoError(t, err)
		assert.Contains(t, string(csv), "7,Imported,from csv,2024-01-02T03:04:05.000Z")

		xml, err := os.ReadFile(filepath.Join(outDir, "backup.xml"))
		require.NoError(t, err)
		assert.Contains(t, string(xml), "<title>Piped</title>")

		out = runJot(t, workDir, bin, "", "export", "--format", "yaml", "--stdout")
		assert.Contains(t, out, "title: Imported")
	})

	t.Run("Delete", func(t *testing.T) {
		out := runJot(t, workDir, bin, "", "delete", "2")
		assert.Equal(t, "Note 2 deleted.\n", out)

		out = runJot(t, workDir, bin, "", "list")
		assert.NotContains(t, out, "Second")
	})

	t.Run("Read Only Rejects Writes", func(t *testing.T) {
		cmd := exec.Command(bin, "save", "--read-only", "--title", "nope")
		cmd.Dir = workDir
		out, err := cmd.CombinedOutput()
		require.Error(t, err)
		assert.Contains(t, string(out), "Failed to save note")
	})

	t.Run("Version", func(t *testing.T) {
		out := runJot(t, workDir, bin, "", "version")
		assert.True(t, strings.HasPrefix(out, "jot version "))
	})
}
