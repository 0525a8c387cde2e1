package repository

import (
	"context"

	"github.com/alexanderramin/stint/internal/domain"
)

// StateRepo persists the timer state as two independent records: the
// completed-entries list and the (at most one) active session.
//
// Load methods never surface decode problems: malformed or missing
// stored text yields the default empty/idle state with a nil error.
// Only real I/O failures are returned.
type StateRepo interface {
	LoadEntries(ctx context.Context) ([]domain.Entry, error)
	SaveEntries(ctx context.Context, entries []domain.Entry) error

	// LoadActiveSession returns (nil, nil) when no session is stored.
	LoadActiveSession(ctx context.Context) (*domain.ActiveSession, error)
	SaveActiveSession(ctx context.Context, s *domain.ActiveSession) error
	// ClearActiveSession deletes the session record entirely; idle state
	// is represented by absence, never by a null placeholder.
	ClearActiveSession(ctx context.Context) error
}
