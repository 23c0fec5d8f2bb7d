package core

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// IDGenerator mints note identifiers.
// taken reports whether an id is already in use; Next must never return such an id.
type IDGenerator interface {
	Next(taken func(int64) bool, maxID int64) (int64, error)
}

// SequentialIDs mints max(existing)+1, starting at 1.
// Once math.MaxInt64 is stored it falls back to the lowest free positive id.
type SequentialIDs struct{}

func (SequentialIDs) Next(taken func(int64) bool, maxID int64) (int64, error) {
	start := int64(1)
	if maxID > 0 && maxID < math.MaxInt64 {
		start = maxID + 1
	}
	if id, ok := firstFree(taken, start); ok {
		return id, nil
	}
	if start > 1 {
		if id, ok := firstFree(taken, 1); ok {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: no positive id left", ErrIDSpaceExhausted)
}

// firstFree scans upwards from start and stops before wrapping past math.MaxInt64.
func firstFree(taken func(int64) bool, start int64) (int64, bool) {
	for id := start; id > 0; id++ {
		if !taken(id) {
			return id, true
		}
	}
	return 0, false
}

// String names the strategy for introspection.
func (SequentialIDs) String() string { return "sequential" }

const (
	defaultRandomMax      = 1_000_000
	defaultRandomAttempts = 64
)

// RandomIDs mints ids uniformly in [1, Max) and rejects collisions.
type RandomIDs struct {
	Max      int64
	Attempts int
	// Source overrides the random source (tests). Nil uses the global generator.
	Source *rand.Rand
}

func (g RandomIDs) Next(taken func(int64) bool, _ int64) (int64, error) {
	upper := g.Max
	if upper <= 1 {
		upper = defaultRandomMax
	}
	attempts := g.Attempts
	if attempts <= 0 {
		attempts = defaultRandomAttempts
	}

	for i := 0; i < attempts; i++ {
		var n int64
		if g.Source != nil {
			n = g.Source.Int64N(upper - 1)
		} else {
			n = rand.Int64N(upper - 1)
		}
		id := n + 1
		if !taken(id) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %d attempts below %d", ErrIDSpaceExhausted, attempts, upper)
}

func (RandomIDs) String() string { return "random" }
