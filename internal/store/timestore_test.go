package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/stint/internal/domain"
	"github.com/alexanderramin/stint/internal/repository"
	"github.com/alexanderramin/stint/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests drive the store's notion of now.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*TimeStore, *fakeClock, repository.StateRepo) {
	t.Helper()
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteStateRepo(db)

	s, err := New(context.Background(), repo)
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)}
	s.now = clock.Now
	return s, clock, repo
}

func TestStart_CreatesActiveSession(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	session, err := s.Start(ctx, "JOB-1", "")
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, "JOB-1", session.JobNumber)
	assert.True(t, session.StartedAt.Equal(clock.now))
	assert.True(t, s.Running())
	assert.Empty(t, s.Entries())
}

func TestStart_EmptyJobNumberIsNoOp(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	for _, job := range []string{"", "   ", "\t\n"} {
		session, err := s.Start(ctx, job, "notes")
		require.NoError(t, err)
		assert.Nil(t, session)
		assert.False(t, s.Running())
		assert.Empty(t, s.Entries())
	}
}

func TestStart_TrimsJobNumber(t *testing.T) {
	s, _, _ := newTestStore(t)

	session, err := s.Start(context.Background(), "  JOB-1  ", "")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "JOB-1", session.JobNumber)
}

func TestStop_ComputesFlooredDuration(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Start(ctx, "JOB-1", "")
	require.NoError(t, err)

	clock.Advance(125*time.Second + 700*time.Millisecond)
	entry, err := s.Stop(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, "JOB-1", entry.JobNumber)
	assert.Equal(t, 125, entry.DurationSeconds)
	assert.Equal(t, "", entry.Notes)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.EndedAt.Before(entry.StartedAt))
	assert.False(t, s.Running())
}

func TestStop_WithoutSessionIsNoOp(t *testing.T) {
	s, _, _ := newTestStore(t)

	entry, err := s.Stop(context.Background(), "note")
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Empty(t, s.Entries())
}

func TestStop_TrimsNotes(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Start(ctx, "JOB-1", "")
	require.NoError(t, err)
	clock.Advance(time.Minute)

	entry, err := s.Stop(ctx, "  wrapped up  ")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "wrapped up", entry.Notes)
}

func TestStart_WhileRunningSwitches(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Start(ctx, "JOB-1", "")
	require.NoError(t, err)

	clock.Advance(60 * time.Second)
	session, err := s.Start(ctx, "JOB-2", "handover")
	require.NoError(t, err)
	require.NotNil(t, session)

	// Exactly one entry for JOB-1, closed with the switch notes.
	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "JOB-1", entries[0].JobNumber)
	assert.Equal(t, 60, entries[0].DurationSeconds)
	assert.Equal(t, "handover", entries[0].Notes)

	// The new session belongs to JOB-2.
	require.True(t, s.Running())
	assert.Equal(t, "JOB-2", s.Active().JobNumber)
	assert.True(t, s.Active().StartedAt.Equal(clock.now))
}

func TestEntries_NewestFirst(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	for _, job := range []string{"JOB-1", "JOB-2", "JOB-3"} {
		_, err := s.Start(ctx, job, "")
		require.NoError(t, err)
		clock.Advance(time.Minute)
		_, err = s.Stop(ctx, "")
		require.NoError(t, err)
	}

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "JOB-3", entries[0].JobNumber)
	assert.Equal(t, "JOB-2", entries[1].JobNumber)
	assert.Equal(t, "JOB-1", entries[2].JobNumber)
}

func TestAtMostOneActiveSession(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	// Arbitrary start/stop sequence: the store is either idle or holds
	// exactly one session, never more.
	for i, job := range []string{"A", "B", "B", "C"} {
		_, err := s.Start(ctx, job, "")
		require.NoError(t, err)
		require.NotNil(t, s.Active())
		clock.Advance(time.Duration(i+1) * time.Second)
	}
	_, err := s.Stop(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, s.Active())

	_, err = s.Stop(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, s.Active())
}

func TestDelete_RemovesMatchingEntry(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Start(ctx, "JOB-1", "")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	entry, err := s.Stop(ctx, "")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, entry.ID))
	assert.Empty(t, s.Entries())
}

func TestDelete_UnknownIDIsNoOp(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Start(ctx, "JOB-1", "")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = s.Stop(ctx, "")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "nope"))
	assert.Len(t, s.Entries(), 1)
}

func TestClearAll_DiscardsRunningSessionWithoutRecordingIt(t *testing.T) {
	s, clock, repo := newTestStore(t)
	ctx := context.Background()

	_, err := s.Start(ctx, "JOB-1", "")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = s.Stop(ctx, "")
	require.NoError(t, err)

	_, err = s.Start(ctx, "JOB-2", "")
	require.NoError(t, err)
	clock.Advance(30 * time.Second)

	require.NoError(t, s.ClearAll(ctx))
	assert.Empty(t, s.Entries(), "history should be emptied")
	assert.Nil(t, s.Active(), "in-progress session is dropped, not recorded")

	// Persisted state agrees.
	entries, err := repo.LoadEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	active, err := repo.LoadActiveSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestReload_RestoresStateAcrossProcesses(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteStateRepo(db)
	ctx := context.Background()

	clock := &fakeClock{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)}

	s1, err := New(ctx, repo)
	require.NoError(t, err)
	s1.now = clock.Now

	_, err = s1.Start(ctx, "JOB-1", "")
	require.NoError(t, err)
	clock.Advance(300 * time.Second)
	_, err = s1.Stop(ctx, "first block")
	require.NoError(t, err)
	_, err = s1.Start(ctx, "JOB-2", "")
	require.NoError(t, err)

	// Fresh store over the same database, as after a process restart.
	s2, err := New(ctx, repo)
	require.NoError(t, err)

	assert.Equal(t, s1.Entries(), s2.Entries())
	require.NotNil(t, s2.Active())
	assert.Equal(t, *s1.Active(), *s2.Active())
}

func TestReload_MalformedStateYieldsEmptyIdle(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := db.Exec(`INSERT INTO records (key, value) VALUES
		('entries', '<<garbage>>'),
		('active_session', '{"truncated')`)
	require.NoError(t, err)

	s, err := New(context.Background(), repository.NewSQLiteStateRepo(db))
	require.NoError(t, err, "malformed persisted state must not raise a fault")
	assert.Empty(t, s.Entries())
	assert.False(t, s.Running())
}

func TestStop_BackwardClockStepClampsToZeroDuration(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteStateRepo(db)
	ctx := context.Background()

	clock := &fakeClock{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)}

	s1, err := New(ctx, repo)
	require.NoError(t, err)
	s1.now = clock.Now

	// One normal entry first, so a later corruption wipe would be visible.
	_, err = s1.Start(ctx, "JOB-1", "")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = s1.Stop(ctx, "")
	require.NoError(t, err)

	// The clock steps backwards while the second session is running.
	_, err = s1.Start(ctx, "JOB-2", "")
	require.NoError(t, err)
	clock.Advance(-30 * time.Second)
	entry, err := s1.Stop(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, 0, entry.DurationSeconds)
	assert.False(t, entry.EndedAt.Before(entry.StartedAt),
		"stored entry must never have end < start")

	// A restart must restore the full history, not treat it as corrupt.
	s2, err := New(ctx, repo)
	require.NoError(t, err)
	assert.Len(t, s2.Entries(), 2)
	assert.Equal(t, s1.Entries(), s2.Entries())
}

// entriesSaveFailRepo wraps a real StateRepo and fails SaveEntries on demand.
type entriesSaveFailRepo struct {
	repository.StateRepo
	fail bool
}

func (r *entriesSaveFailRepo) SaveEntries(ctx context.Context, entries []domain.Entry) error {
	if r.fail {
		return errors.New("disk full")
	}
	return r.StateRepo.SaveEntries(ctx, entries)
}

func TestStop_FailedEntriesWriteNeverDoubleCountsOnRestart(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := &entriesSaveFailRepo{StateRepo: repository.NewSQLiteStateRepo(db)}
	ctx := context.Background()

	clock := &fakeClock{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)}

	s1, err := New(ctx, repo)
	require.NoError(t, err)
	s1.now = clock.Now

	_, err = s1.Start(ctx, "JOB-1", "")
	require.NoError(t, err)
	clock.Advance(time.Minute)

	repo.fail = true
	_, err = s1.Stop(ctx, "")
	require.Error(t, err)
	repo.fail = false

	// The session record is cleared before the entries write, so a
	// restart sees the interval at most once: here, not at all — never
	// both as an entry and as a still-running session.
	s2, err := New(ctx, repo)
	require.NoError(t, err)
	assert.False(t, s2.Running())
	assert.Empty(t, s2.Entries())
}

func TestEntries_ReturnsCopy(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Start(ctx, "JOB-1", "")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = s.Stop(ctx, "")
	require.NoError(t, err)

	got := s.Entries()
	got[0].JobNumber = "tampered"
	assert.Equal(t, "JOB-1", s.Entries()[0].JobNumber)
}
