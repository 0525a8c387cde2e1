package testutil

import (
	"time"

	"github.com/alexanderramin/stint/internal/domain"
	"github.com/google/uuid"
)

// EntryOption mutates a fixture entry before it is returned.
type EntryOption func(*domain.Entry)

func WithNotes(notes string) EntryOption {
	return func(e *domain.Entry) {
		e.Notes = notes
	}
}

func WithStartedAt(t time.Time) EntryOption {
	return func(e *domain.Entry) {
		e.EndedAt = t.Add(e.EndedAt.Sub(e.StartedAt))
		e.StartedAt = t
	}
}

// NewTestEntry builds a completed entry for the given job with the given
// duration, ending at a fixed reference instant. Timestamps are truncated
// to millisecond precision to match what the store persists.
func NewTestEntry(jobNumber string, duration time.Duration, opts ...EntryOption) domain.Entry {
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local).Truncate(time.Millisecond)
	e := domain.Entry{
		ID:              uuid.New().String(),
		JobNumber:       jobNumber,
		StartedAt:       end.Add(-duration),
		EndedAt:         end,
		DurationSeconds: domain.SecondsBetween(end.Add(-duration), end),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
