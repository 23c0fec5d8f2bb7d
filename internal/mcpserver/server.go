// Package mcpserver exposes the note repository as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/jot/pkg/codec"
	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/transfer"
)

// NewServer creates an MCP server with tools for note operations.
func NewServer(repo *core.Repository, svc *transfer.Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"jot",
		version,
		server.WithToolCapabilities(false),
	)

	t := &tools{repo: repo, transfer: svc}

	s.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List notes, most recently updated first."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of notes to return. 0 returns every note."),
				mcp.DefaultNumber(0),
			),
		),
		t.list,
	)

	s.AddTool(
		mcp.NewTool("read_note",
			mcp.WithDescription("Read a single note by its numeric id."),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("Id of the note."),
			),
		),
		t.read,
	)

	s.AddTool(
		mcp.NewTool("save_note",
			mcp.WithDescription(`Create or update a note.
Omit id (or pass 0) to create a note; pass the id of an existing note to replace its title and body.`),
			mcp.WithNumber("id",
				mcp.Description("Id of the note to update."),
				mcp.DefaultNumber(0),
			),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Title of the note."),
			),
			mcp.WithString("body",
				mcp.Description("Body of the note, usually Markdown."),
			),
		),
		t.save,
	)

	s.AddTool(
		mcp.NewTool("delete_note",
			mcp.WithDescription("Delete a note by id. Deleting an unknown id does nothing."),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("Id of the note."),
			),
		),
		t.delete,
	)

	s.AddTool(
		mcp.NewTool("import_notes",
			mcp.WithDescription(`Merge notes from an exported payload.
Notes whose id already exists are left untouched.`),
			mcp.WithString("format",
				mcp.Required(),
				mcp.Description("Payload format: csv, xml or yaml (a media type such as text/csv also works)."),
			),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("The exported payload."),
			),
		),
		t.importNotes,
	)

	s.AddTool(
		mcp.NewTool("export_notes",
			mcp.WithDescription("Export every note in the given format."),
			mcp.WithString("format",
				mcp.Description("csv, xml or yaml."),
				mcp.DefaultString("csv"),
			),
		),
		t.exportNotes,
	)

	return s
}

// Serve runs s over stdio until stdin closes.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

type tools struct {
	repo     *core.Repository
	transfer *transfer.Service
}

func (t *tools) list(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := t.repo.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
	}

	if limit := req.GetInt("limit", 0); limit > 0 && limit < len(notes) {
		notes = notes[:limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# notes (results: %d)\n", len(notes))
	for _, n := range notes {
		fmt.Fprintf(&b, "- `%d` %s (%s)\n", n.ID, n.Title, core.FormatTimestamp(n.UpdatedAt))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (t *tools) read(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetInt("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("id must be a positive integer"), nil
	}

	note, err := t.repo.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(note)
}

func (t *tools) save(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	note, err := t.repo.Save(ctx, core.Note{
		ID:    int64(req.GetInt("id", 0)),
		Title: title,
		Body:  req.GetString("body", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save note: %v", err)), nil
	}
	return jsonResult(note)
}

func (t *tools) delete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetInt("id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("id must be a positive integer"), nil
	}

	if err := t.repo.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete note: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Note %d has been deleted.", id)), nil
}

func (t *tools) importNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := t.transfer.ImportPayload(ctx, []byte(req.GetString("content", "")), req.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("import failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Imported %d %s records: %d added, %d duplicates dropped, %d total.\n",
		report.Decoded, report.Format, report.Stats.Added, report.Stats.Duplicates, report.Stats.Total)
	for _, s := range report.Skipped {
		fmt.Fprintf(&b, "- skipped: %v\n", s)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (t *tools) exportNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := codec.ParseFormat(req.GetString("format", "csv"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	notes, err := t.repo.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
	}

	data, err := t.transfer.Export(notes, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
