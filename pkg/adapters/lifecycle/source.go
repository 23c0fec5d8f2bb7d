// Package lifecycle exposes slot events as a lifecycle.Source.
package lifecycle

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/jot/pkg/core"
)

// Lister is the part of core.Repository the source reads after each change.
type Lister interface {
	List(ctx context.Context) ([]core.Note, error)
}

// Change is a slot event annotated with the note counts around it.
// Before and After are -1 when the source has no Lister.
type Change struct {
	core.Event
	Before int
	After  int
	// Err is set when the slot could not be read after the event.
	Err error
}

func (c Change) String() string {
	switch {
	case c.Err != nil:
		return fmt.Sprintf("%s (unreadable: %v)", c.Event, c.Err)
	case c.After < 0:
		return c.Event.String()
	case c.Before < 0:
		return fmt.Sprintf("%s (%d notes)", c.Event, c.After)
	}
	return fmt.Sprintf("%s (%d -> %d notes)", c.Event, c.Before, c.After)
}

// Option configures a source.
type Option func(*slotSource)

// WithLister makes the source count the notes after every event.
func WithLister(l Lister) Option {
	return func(s *slotSource) {
		s.lister = l
	}
}

// WithKeys drops events for any other slot key.
func WithKeys(keys ...string) Option {
	return func(s *slotSource) {
		s.keys = keys
	}
}

type slotSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	lister Lister
	keys   []string
	count  int
}

// NewSource creates a lifecycle.Source that forwards slot events as Changes.
// The output channel closes when events closes or the context passed to Start is done.
func NewSource(events <-chan core.Event, opts ...Option) lifecycle.Source {
	s := &slotSource{
		events: events,
		out:    make(chan lifecycle.Event),
		count:  -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *slotSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *slotSource) Start(ctx context.Context) error {
	if s.lister != nil {
		notes, err := s.lister.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to read baseline: %w", err)
		}
		s.count = len(notes)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if len(s.keys) > 0 && !slices.Contains(s.keys, e.Key) {
					continue
				}
				select {
				case s.out <- s.annotate(ctx, e):
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

func (s *slotSource) annotate(ctx context.Context, e core.Event) Change {
	c := Change{Event: e, Before: s.count, After: -1}
	if s.lister == nil {
		return c
	}

	if e.Type == core.EventDelete {
		c.After = 0
	} else {
		notes, err := s.lister.List(ctx)
		if err != nil {
			c.Err = err
			return c
		}
		c.After = len(notes)
	}
	s.count = c.After
	return c
}
