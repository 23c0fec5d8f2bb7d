package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/adapters/memory"
	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/transfer"
)

func newTools() *tools {
	repo := core.NewRepository(memory.New(nil))
	return &tools{repo: repo, transfer: transfer.New(repo)}
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return ""
}

func TestTools_SaveReadListDelete(t *testing.T) {
	ctx := context.Background()
	tl := newTools()

	res, err := tl.save(ctx, call(map[string]any{"title": "from agent", "body": "details"}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.Contains(t, text(t, res), `"title": "from agent"`)

	res, err = tl.read(ctx, call(map[string]any{"id": float64(1)}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"body": "details"`)

	res, err = tl.list(ctx, call(nil))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "results: 1")
	assert.Contains(t, text(t, res), "`1` from agent")

	res, err = tl.delete(ctx, call(map[string]any{"id": float64(1)}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = tl.read(ctx, call(map[string]any{"id": float64(1)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestTools_Validation(t *testing.T) {
	ctx := context.Background()
	tl := newTools()

	res, err := tl.save(ctx, call(map[string]any{"body": "no title"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tl.delete(ctx, call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestTools_ListLimit(t *testing.T) {
	ctx := context.Background()
	tl := newTools()
	for _, title := range []string{"a", "b", "c"} {
		_, err := tl.repo.Save(ctx, core.Note{Title: title})
		require.NoError(t, err)
	}

	res, err := tl.list(ctx, call(map[string]any{"limit": float64(2)}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "results: 2")
}

func TestTools_ImportExport(t *testing.T) {
	ctx := context.Background()
	tl := newTools()

	payload := "id,title,body,updated\n4,imported,,2024-01-01T00:00:00.000Z\n5,x"
	res, err := tl.importNotes(ctx, call(map[string]any{"format": "csv", "content": payload}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.Contains(t, text(t, res), "Imported 1 delimited records: 1 added, 0 duplicates dropped, 1 total.")
	assert.Contains(t, text(t, res), "skipped")

	res, err = tl.exportNotes(ctx, call(map[string]any{"format": "xml"}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text(t, res), `<root><note index="0"><id>4</id>`))

	res, err = tl.importNotes(ctx, call(map[string]any{"format": "json", "content": "[]"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestNewServer(t *testing.T) {
	repo := core.NewRepository(memory.New(nil))
	s := NewServer(repo, transfer.New(repo), "test")
	assert.NotNil(t, s)
}
