package lifecycle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jotlifecycle "github.com/aretw0/jot/pkg/adapters/lifecycle"
	"github.com/aretw0/jot/pkg/core"
)

// stubLister returns the queued counts in order, then repeats the last one.
type stubLister struct {
	counts []int
	err    error
}

func (l *stubLister) List(ctx context.Context) ([]core.Note, error) {
	if l.err != nil {
		return nil, l.err
	}
	n := l.counts[0]
	if len(l.counts) > 1 {
		l.counts = l.counts[1:]
	}
	return make([]core.Note, n), nil
}

func collect(t *testing.T, src lifecycle.Source) []string {
	t.Helper()
	var got []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e, ok := <-src.Events():
			if !ok {
				return got
			}
			got = append(got, e.String())
		case <-timeout:
			t.Fatalf("timed out, got %v", got)
		}
	}
}

func TestSource_Forwards(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 2)
	src := jotlifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventModify, Key: "notes"}
	in <- core.Event{Type: core.EventDelete, Key: "notes"}
	close(in)

	assert.Equal(t, []string{"MODIFY notes", "DELETE notes"}, collect(t, src))
}

func TestSource_CountsNotes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 3)
	src := jotlifecycle.NewSource(in, jotlifecycle.WithLister(&stubLister{counts: []int{2, 5, 4}}))
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventModify, Key: "notes"}
	in <- core.Event{Type: core.EventDelete, Key: "notes"}
	in <- core.Event{Type: core.EventModify, Key: "notes"}
	close(in)

	assert.Equal(t, []string{
		"MODIFY notes (2 -> 5 notes)",
		"DELETE notes (5 -> 0 notes)",
		"MODIFY notes (0 -> 4 notes)",
	}, collect(t, src))
}

func TestSource_FiltersKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 3)
	src := jotlifecycle.NewSource(in, jotlifecycle.WithKeys("journal"))
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventModify, Key: "notes"}
	in <- core.Event{Type: core.EventModify, Key: "journal"}
	in <- core.Event{Type: core.EventDelete, Key: "scratch"}
	close(in)

	assert.Equal(t, []string{"MODIFY journal"}, collect(t, src))
}

func TestSource_ReportsUnreadableSlot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lister := &stubLister{counts: []int{1}}
	in := make(chan core.Event, 1)
	src := jotlifecycle.NewSource(in, jotlifecycle.WithLister(lister))
	require.NoError(t, src.Start(ctx))

	lister.err = errors.New("corrupt")
	in <- core.Event{Type: core.EventModify, Key: "notes"}
	close(in)

	assert.Equal(t, []string{"MODIFY notes (unreadable: corrupt)"}, collect(t, src))
}

func TestSource_BaselineError(t *testing.T) {
	src := jotlifecycle.NewSource(make(chan core.Event), jotlifecycle.WithLister(&stubLister{err: errors.New("down")}))
	assert.Error(t, src.Start(context.Background()))
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := jotlifecycle.NewSource(make(chan core.Event))
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("source did not stop")
	}
}
