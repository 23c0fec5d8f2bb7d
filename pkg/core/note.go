package core

import (
	"encoding/json"
	"slices"
	"time"
)

// TimestampLayout is the textual form of UpdatedAt in the exchange formats.
// It matches the ISO-8601 UTC rendering with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Note is the central entity of the domain.
// A zero ID means the note has not been stored yet.
type Note struct {
	ID        int64     `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Body      string    `json:"body" yaml:"body"`
	UpdatedAt time.Time `json:"updated" yaml:"updated"`
}

// FormatTimestamp renders t using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts any RFC 3339 timestamp, with or without fractional seconds.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

type noteJSON struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Updated string `json:"updated"`
}

// MarshalJSON renders UpdatedAt with TimestampLayout.
func (n Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(noteJSON{
		ID:      n.ID,
		Title:   n.Title,
		Body:    n.Body,
		Updated: FormatTimestamp(n.UpdatedAt),
	})
}

// UnmarshalJSON accepts any RFC 3339 timestamp. A missing timestamp leaves UpdatedAt zero.
func (n *Note) UnmarshalJSON(data []byte) error {
	var raw noteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var updated time.Time
	if raw.Updated != "" {
		t, err := ParseTimestamp(raw.Updated)
		if err != nil {
			return err
		}
		updated = t
	}
	*n = Note{ID: raw.ID, Title: raw.Title, Body: raw.Body, UpdatedAt: updated}
	return nil
}

// SortByRecency orders notes by UpdatedAt, most recent first.
// The order of notes sharing a timestamp is unspecified.
func SortByRecency(notes []Note) {
	slices.SortFunc(notes, func(a, b Note) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}
