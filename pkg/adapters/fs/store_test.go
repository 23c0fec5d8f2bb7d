package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/jot/pkg/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(Config{Path: filepath.Join(t.TempDir(), "data")})
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return s
}

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, ok, err := s.Get(ctx, "notes"); err != nil || ok {
		t.Fatalf("expected missing slot, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "notes", `[]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := s.Get(ctx, "notes")
	if err != nil || !ok {
		t.Fatalf("expected slot, got ok=%v err=%v", ok, err)
	}
	if value != `[]` {
		t.Errorf("unexpected value %q", value)
	}

	if _, err := os.Stat(filepath.Join(s.Path, "notes.json")); err != nil {
		t.Errorf("slot file missing: %v", err)
	}
}

// blockSlot turns the slot file into a non-empty directory so the atomic rename fails.
func blockSlot(t *testing.T, s *Store, key string) {
	t.Helper()
	path, err := s.SlotPath(key)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(path); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(path, "occupied"), 0755); err != nil {
		t.Fatal(err)
	}
}

func TestStore_FailedWriteRestoresDigest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Set(ctx, "notes", `[1]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	before, ok := s.lastWritten("notes")
	if !ok {
		t.Fatal("expected a recorded digest")
	}

	blockSlot(t, s, "notes")
	if err := s.Set(ctx, "notes", `[2]`); err == nil {
		t.Fatal("expected the write to fail")
	}
	if after, _ := s.lastWritten("notes"); after != before {
		t.Errorf("digest changed after a failed write: %x != %x", after, before)
	}

	blockSlot(t, s, "fresh")
	if err := s.Set(ctx, "fresh", `[]`); err == nil {
		t.Fatal("expected the write to fail")
	}
	if _, ok := s.lastWritten("fresh"); ok {
		t.Error("a failed first write must not leave a digest behind")
	}
}

func TestStore_InvalidKeys(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, key := range []string{"", ".", "..", "a/b", `a\b`} {
		if err := s.Set(ctx, key, "[]"); err == nil {
			t.Errorf("expected error for key %q", key)
		}
		if _, _, err := s.Get(ctx, key); err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}

func TestStore_MustExist(t *testing.T) {
	s := NewStore(Config{Path: filepath.Join(t.TempDir(), "missing"), MustExist: true})
	if err := s.Initialize(context.Background()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestStore_CancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Set(ctx, "notes", "[]"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStore_BacksRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	repo := core.NewRepository(s)
	saved, err := repo.Save(ctx, core.Note{Title: "persisted", Body: "on disk"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened := core.NewRepository(NewStore(Config{Path: s.Path}))
	got, err := reopened.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "persisted" || got.Body != "on disk" {
		t.Errorf("unexpected note %+v", got)
	}
}

func TestStore_State(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Set(ctx, "notes", "[]"); err != nil {
		t.Fatal(err)
	}

	state, ok := s.State().(StoreState)
	if !ok {
		t.Fatalf("unexpected state type %T", s.State())
	}
	if len(state.Slots) != 1 || state.Slots[0] != "notes" {
		t.Errorf("unexpected slots %v", state.Slots)
	}
	if state.WatcherActive {
		t.Error("watcher should not be active")
	}
	if s.ComponentType() != "fs-store" {
		t.Errorf("unexpected component type %q", s.ComponentType())
	}
}
