// Package store owns the timer state machine: the completed-entries
// list plus the at-most-one active session, with write-through
// persistence on every mutation.
package store

import (
	"context"
	"time"

	"github.com/alexanderramin/stint/internal/domain"
	"github.com/alexanderramin/stint/internal/repository"
	"github.com/google/uuid"
)

// TimeStore is the single owner of timer state. It is restored from the
// StateRepo at construction and writes back after every mutation, so the
// next process start reconstructs the same state.
//
// There are exactly two logical states: Idle (no active session) and
// Running. Start moves Idle→Running; Start while Running is the switch
// transition (stop-then-start, one composite operation); Stop moves
// Running→Idle; ClearAll forces Idle with an empty history.
//
// Invalid input never produces an error: it degrades to a no-op. The
// only errors returned are persistence I/O failures.
//
// Not safe for concurrent use; the CLI and TUI drive it from a single
// goroutine.
type TimeStore struct {
	repo repository.StateRepo
	now  func() time.Time

	entries []domain.Entry // newest first
	active  *domain.ActiveSession
}

// New restores a TimeStore from persisted state. Missing or corrupt
// stored records yield an empty, idle store; only I/O failures surface.
func New(ctx context.Context, repo repository.StateRepo) (*TimeStore, error) {
	entries, err := repo.LoadEntries(ctx)
	if err != nil {
		return nil, err
	}
	active, err := repo.LoadActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	return &TimeStore{
		repo:    repo,
		now:     time.Now,
		entries: entries,
		active:  active,
	}, nil
}

// Start begins timing jobNumber. A running session is first closed via
// the Stop algorithm using the caller's notes as its closing note.
// A trimmed-empty job number is a no-op returning (nil, nil).
func (s *TimeStore) Start(ctx context.Context, jobNumber, notes string) (*domain.ActiveSession, error) {
	job := domain.NormalizeJobNumber(jobNumber)
	if job == "" {
		return nil, nil
	}

	if s.active != nil {
		if _, err := s.Stop(ctx, notes); err != nil {
			return nil, err
		}
	}

	s.active = &domain.ActiveSession{
		JobNumber: job,
		StartedAt: s.timestamp(),
	}
	if err := s.repo.SaveActiveSession(ctx, s.active); err != nil {
		return nil, err
	}
	session := *s.active
	return &session, nil
}

// Stop closes the running session into a new Entry, prepended to the
// entries list. With no session running it is a no-op returning
// (nil, nil). The duration is computed here from the real clock, never
// from a live display reading.
func (s *TimeStore) Stop(ctx context.Context, notes string) (*domain.Entry, error) {
	if s.active == nil {
		return nil, nil
	}

	end := s.timestamp()
	if end.Before(s.active.StartedAt) {
		// A backward clock step must never persist end < start; the
		// entry records zero duration instead.
		end = s.active.StartedAt
	}
	entry := domain.Entry{
		ID:              uuid.New().String(),
		JobNumber:       s.active.JobNumber,
		StartedAt:       s.active.StartedAt,
		EndedAt:         end,
		DurationSeconds: domain.SecondsBetween(s.active.StartedAt, end),
		Notes:           domain.NormalizeNotes(notes),
	}

	s.entries = append([]domain.Entry{entry}, s.entries...)
	s.active = nil

	// Session record first: if the entries write fails, a restart must
	// not see both the new entry and the still-running session, which
	// would count the interval twice.
	if err := s.repo.ClearActiveSession(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.SaveEntries(ctx, s.entries); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes the entry with the given id. An unknown id is a no-op.
func (s *TimeStore) Delete(ctx context.Context, id string) error {
	idx := -1
	for i, e := range s.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	return s.repo.SaveEntries(ctx, s.entries)
}

// ClearAll empties the history and discards any running session without
// recording it. The confirmation gate lives with the caller; by the time
// this runs the destruction is already confirmed.
func (s *TimeStore) ClearAll(ctx context.Context) error {
	s.entries = nil
	s.active = nil
	if err := s.repo.SaveEntries(ctx, nil); err != nil {
		return err
	}
	return s.repo.ClearActiveSession(ctx)
}

// Entries returns the completed entries, newest first. The returned
// slice is a copy; stored entries are immutable.
func (s *TimeStore) Entries() []domain.Entry {
	out := make([]domain.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Active returns a copy of the running session, or nil when idle.
func (s *TimeStore) Active() *domain.ActiveSession {
	if s.active == nil {
		return nil
	}
	session := *s.active
	return &session
}

// Running reports whether a session is in progress.
func (s *TimeStore) Running() bool {
	return s.active != nil
}

// timestamp truncates now to millisecond precision so that values
// round-trip exactly through the millisecond wire encoding.
func (s *TimeStore) timestamp() time.Time {
	return s.now().Truncate(time.Millisecond)
}
