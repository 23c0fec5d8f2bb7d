// Package httpapi serves the repository and the import/export orchestrator over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/jot/internal/render"
	"github.com/aretw0/jot/pkg/codec"
	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/transfer"
)

// MaxImportBytes bounds the size of an import payload.
const MaxImportBytes = 10 << 20

type Handler struct {
	repo     *core.Repository
	transfer *transfer.Service
	log      *slog.Logger
}

func NewHandler(repo *core.Repository, svc *transfer.Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{repo: repo, transfer: svc, log: log}
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/notes", h.ListNotes)
	mux.HandleFunc("POST /api/notes", h.SaveNote)
	mux.HandleFunc("GET /api/notes/{id}", h.GetNote)
	mux.HandleFunc("DELETE /api/notes/{id}", h.DeleteNote)
	mux.HandleFunc("POST /api/import", h.Import)
	mux.HandleFunc("GET /api/export/{file}", h.Export)
	mux.HandleFunc("GET /api/state", h.State)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

// ListNotes handles GET /api/notes
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, "failed to list notes", err)
		return
	}
	h.jsonResponse(w, notes, http.StatusOK)
}

// SaveNoteInput is the body of POST /api/notes. A zero or absent id creates a note.
type SaveNoteInput struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SaveNote handles POST /api/notes
func (h *Handler) SaveNote(w http.ResponseWriter, r *http.Request) {
	var input SaveNoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	note, created, err := h.repo.Upsert(r.Context(), core.Note{ID: input.ID, Title: input.Title, Body: input.Body})
	if err != nil {
		h.fail(w, "failed to save note", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.jsonResponse(w, note, status)
}

// GetNote handles GET /api/notes/{id}. With ?format=html the body is rendered from Markdown.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	note, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "failed to get note", err)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		html, err := render.HTML(note.Body)
		if err != nil {
			h.fail(w, "failed to render note", err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, html)
		return
	}

	h.jsonResponse(w, note, http.StatusOK)
}

// DeleteNote handles DELETE /api/notes/{id}. Deleting an unknown id succeeds.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.fail(w, "failed to delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportResult is the response of POST /api/import.
type ImportResult struct {
	Format  string          `json:"format"`
	Decoded int             `json:"decoded"`
	Skipped []string        `json:"skipped"`
	Stats   core.MergeStats `json:"stats"`
}

// Import handles POST /api/import. The format comes from the Content-Type header.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxImportBytes))
	if err != nil {
		h.jsonError(w, "failed to read body", http.StatusRequestEntityTooLarge)
		return
	}

	report, err := h.transfer.ImportPayload(r.Context(), content, r.Header.Get("Content-Type"))
	if err != nil {
		h.fail(w, "import failed", err)
		return
	}

	skipped := make([]string, 0, len(report.Skipped))
	for _, s := range report.Skipped {
		skipped = append(skipped, s.Error())
	}
	h.jsonResponse(w, ImportResult{
		Format:  report.Format.String(),
		Decoded: report.Decoded,
		Skipped: skipped,
		Stats:   report.Stats,
	}, http.StatusOK)
}

// Export handles GET /api/export/{file}, e.g. /api/export/notes.csv.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	f, err := codec.FormatFromPath(file)
	if err != nil {
		h.fail(w, "unsupported export", err)
		return
	}

	notes, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, "failed to list notes", err)
		return
	}

	data, err := h.transfer.Export(notes, f)
	if err != nil {
		h.fail(w, "export failed", err)
		return
	}

	w.Header().Set("Content-Type", f.MediaType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// State handles GET /api/state
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.repo.State(), http.StatusOK)
}

// --- Helper methods ---

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.jsonError(w, "invalid note ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// fail maps domain errors to status codes.
func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error(msg, "error", err)
	} else {
		h.log.Debug(msg, "error", err)
	}
	h.jsonError(w, err.Error(), status)
}

// StatusFor returns the HTTP status for an error returned by the repository or the orchestrator.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, core.ErrMalformedPayload):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrReadOnly):
		return http.StatusForbidden
	case errors.Is(err, core.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
