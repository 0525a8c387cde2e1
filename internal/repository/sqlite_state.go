package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/stint/internal/domain"
)

const (
	keyEntries       = "entries"
	keyActiveSession = "active_session"
)

// SQLiteStateRepo implements StateRepo on a SQLite key/value table.
// Each record is stored as JSON text; timestamps travel as integer
// milliseconds since epoch.
type SQLiteStateRepo struct {
	db *sql.DB
}

// NewSQLiteStateRepo creates a new SQLiteStateRepo.
func NewSQLiteStateRepo(db *sql.DB) *SQLiteStateRepo {
	return &SQLiteStateRepo{db: db}
}

// entryRecord is the wire form of a domain.Entry.
type entryRecord struct {
	ID              string `json:"id"`
	JobNumber       string `json:"jobNumber"`
	StartTimestamp  int64  `json:"startTimestamp"`
	EndTimestamp    int64  `json:"endTimestamp"`
	DurationSeconds int    `json:"durationSeconds"`
	Notes           string `json:"notes"`
}

// sessionRecord is the wire form of a domain.ActiveSession.
type sessionRecord struct {
	JobNumber      string `json:"jobNumber"`
	StartTimestamp int64  `json:"startTimestamp"`
}

func (r *SQLiteStateRepo) LoadEntries(ctx context.Context) ([]domain.Entry, error) {
	raw, ok, err := r.readRecord(ctx, keyEntries)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var records []entryRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		// Corrupt stored text degrades to the default empty list.
		return nil, nil
	}

	entries := make([]domain.Entry, 0, len(records))
	for _, rec := range records {
		e := domain.Entry{
			ID:              rec.ID,
			JobNumber:       rec.JobNumber,
			StartedAt:       time.UnixMilli(rec.StartTimestamp),
			EndedAt:         time.UnixMilli(rec.EndTimestamp),
			DurationSeconds: rec.DurationSeconds,
			Notes:           rec.Notes,
		}
		if !e.Valid() || e.ID == "" {
			// A single bad record invalidates the stored list; fall back
			// to empty rather than reconstructing a partial history.
			return nil, nil
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *SQLiteStateRepo) SaveEntries(ctx context.Context, entries []domain.Entry) error {
	records := make([]entryRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, entryRecord{
			ID:              e.ID,
			JobNumber:       e.JobNumber,
			StartTimestamp:  e.StartedAt.UnixMilli(),
			EndTimestamp:    e.EndedAt.UnixMilli(),
			DurationSeconds: e.DurationSeconds,
			Notes:           e.Notes,
		})
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding entries: %w", err)
	}
	return r.writeRecord(ctx, keyEntries, string(raw))
}

func (r *SQLiteStateRepo) LoadActiveSession(ctx context.Context) (*domain.ActiveSession, error) {
	raw, ok, err := r.readRecord(ctx, keyActiveSession)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var rec sessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, nil
	}
	if rec.JobNumber == "" {
		return nil, nil
	}
	return &domain.ActiveSession{
		JobNumber: rec.JobNumber,
		StartedAt: time.UnixMilli(rec.StartTimestamp),
	}, nil
}

func (r *SQLiteStateRepo) SaveActiveSession(ctx context.Context, s *domain.ActiveSession) error {
	if s == nil {
		return r.ClearActiveSession(ctx)
	}
	raw, err := json.Marshal(sessionRecord{
		JobNumber:      s.JobNumber,
		StartTimestamp: s.StartedAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("encoding active session: %w", err)
	}
	return r.writeRecord(ctx, keyActiveSession, string(raw))
}

func (r *SQLiteStateRepo) ClearActiveSession(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, keyActiveSession); err != nil {
		return fmt.Errorf("clearing active session record: %w", err)
	}
	return nil
}

// readRecord returns the stored value for key, with ok=false when the
// record is absent.
func (r *SQLiteStateRepo) readRecord(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s record: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteStateRepo) writeRecord(ctx context.Context, key, value string) error {
	query := `INSERT INTO records (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("writing %s record: %w", key, err)
	}
	return nil
}
