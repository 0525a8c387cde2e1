package domain

import (
	"strings"
	"time"
)

// Entry is a completed, immutable record of one timed work session.
// Entries are only ever created by closing an ActiveSession and are
// never mutated afterwards.
type Entry struct {
	ID              string
	JobNumber       string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int
	Notes           string
}

// Valid reports whether the entry satisfies the stored-state invariants:
// non-empty job number, end not before start, non-negative duration.
func (e Entry) Valid() bool {
	return e.JobNumber != "" &&
		!e.EndedAt.Before(e.StartedAt) &&
		e.DurationSeconds >= 0
}

// ActiveSession is the single in-progress, not-yet-recorded timing
// session. At most one exists at any time; it is owned by the TimeStore
// and only read by the presentation layer.
type ActiveSession struct {
	JobNumber string
	StartedAt time.Time
}

// ElapsedSeconds returns the whole seconds elapsed since the session
// started, truncated toward zero. Never negative.
func (s ActiveSession) ElapsedSeconds(now time.Time) int {
	return SecondsBetween(s.StartedAt, now)
}

// SecondsBetween returns floor((end - start) in seconds), clamped at 0.
// Stored durations and live elapsed readings both go through this so the
// display and the record can never disagree on rounding.
func SecondsBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start) / time.Second)
}

// NormalizeJobNumber trims surrounding whitespace from a job number.
// An empty result means the input was invalid for Start.
func NormalizeJobNumber(job string) string {
	return strings.TrimSpace(job)
}

// NormalizeNotes trims surrounding whitespace from notes before storage.
func NormalizeNotes(notes string) string {
	return strings.TrimSpace(notes)
}
