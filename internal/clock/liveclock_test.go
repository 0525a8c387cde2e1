package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/stint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingNow returns a time source that advances by step on every call.
func steppingNow(start time.Time, step time.Duration) func() time.Time {
	var calls int64
	return func() time.Time {
		n := atomic.AddInt64(&calls, 1)
		return start.Add(time.Duration(n) * step)
	}
}

func collect(t *testing.T, ch <-chan int, n int) []int {
	t.Helper()
	var out []int
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case v, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed after %d of %d readings", len(out), n)
			}
			out = append(out, v)
		case <-timeout:
			t.Fatalf("timed out after %d of %d readings", len(out), n)
		}
	}
	return out
}

func TestWatch_ReadingsAreFlooredAndNonDecreasing(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)
	// Each tick observes now 400ms later: elapsed floors to 0,0,1,1,2,...
	c := NewWithClock(steppingNow(start, 400*time.Millisecond), time.Millisecond)
	defer c.Halt()

	ch := c.Watch(domain.ActiveSession{JobNumber: "JOB-1", StartedAt: start})
	readings := collect(t, ch, 6)

	assert.Equal(t, 0, readings[0])
	for i := 1; i < len(readings); i++ {
		assert.GreaterOrEqual(t, readings[i], readings[i-1], "readings must never decrease")
	}
	assert.GreaterOrEqual(t, readings[len(readings)-1], 1)
}

func TestWatch_ClampsBackwardClockSteps(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)
	// now jumps forward then back behind the previous reading.
	times := []time.Duration{5 * time.Second, 2 * time.Second, 6 * time.Second}
	var idx int64 = -1
	now := func() time.Time {
		n := atomic.AddInt64(&idx, 1)
		if n >= int64(len(times)) {
			n = int64(len(times)) - 1
		}
		return start.Add(times[n])
	}

	c := NewWithClock(now, time.Millisecond)
	defer c.Halt()

	ch := c.Watch(domain.ActiveSession{JobNumber: "JOB-1", StartedAt: start})
	readings := collect(t, ch, 3)

	assert.Equal(t, 5, readings[0])
	for i, r := range readings {
		assert.GreaterOrEqual(t, r, 5, "reading %d: backward clock step must not lower the reading", i)
	}
	assert.Equal(t, 6, readings[len(readings)-1])
}

func TestHalt_ClosesChannel(t *testing.T) {
	start := time.Now()
	c := NewWithClock(steppingNow(start, time.Millisecond), time.Millisecond)

	ch := c.Watch(domain.ActiveSession{JobNumber: "JOB-1", StartedAt: start})
	collect(t, ch, 1)
	c.Halt()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return // closed, as required
			}
		case <-timeout:
			t.Fatal("channel not closed after Halt")
		}
	}
}

func TestHalt_Idempotent(t *testing.T) {
	c := New()
	c.Halt()
	c.Halt()

	start := time.Now()
	ch := c.Watch(domain.ActiveSession{JobNumber: "JOB-1", StartedAt: start})
	c.Halt()
	c.Halt()

	select {
	case _, ok := <-ch:
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after Halt")
	}
}

func TestWatch_ReplacesPreviousWatch(t *testing.T) {
	start := time.Now()
	c := NewWithClock(steppingNow(start, time.Millisecond), time.Millisecond)
	defer c.Halt()

	first := c.Watch(domain.ActiveSession{JobNumber: "JOB-1", StartedAt: start})
	second := c.Watch(domain.ActiveSession{JobNumber: "JOB-2", StartedAt: start})

	// The first channel closes; the second keeps producing.
	deadline := time.After(2 * time.Second)
	for closed := false; !closed; {
		select {
		case _, ok := <-first:
			closed = !ok
		case <-deadline:
			t.Fatal("first watch not halted by second Watch")
		}
	}
	collect(t, second, 2)
}
