// Package clock provides the live elapsed-seconds ticker for the
// active session. Readings are display-only derived state: they are
// never persisted and never feed a stored duration.
package clock

import (
	"sync"
	"time"

	"github.com/alexanderramin/stint/internal/domain"
)

// LiveClock emits one elapsed-seconds reading per tick interval while a
// session is being watched. Readings are monotonically non-decreasing.
// At most one watch runs at a time: starting a new one halts the
// previous one, and Halt must be called on every exit path so a stale
// ticker can never outlive its session.
type LiveClock struct {
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	stop chan struct{}
}

// New creates a LiveClock ticking once per second on the real clock.
func New() *LiveClock {
	return NewWithClock(time.Now, time.Second)
}

// NewWithClock creates a LiveClock with an injected time source and
// tick interval, for tests.
func NewWithClock(now func() time.Time, interval time.Duration) *LiveClock {
	return &LiveClock{interval: interval, now: now}
}

// Watch begins emitting elapsed-seconds readings for the given session.
// The returned channel is closed when Halt is called. Slow receivers
// miss intermediate readings rather than blocking the ticker.
func (c *LiveClock) Watch(session domain.ActiveSession) <-chan int {
	c.Halt()

	c.mu.Lock()
	stop := make(chan struct{})
	c.stop = stop
	c.mu.Unlock()

	out := make(chan int, 1)
	go c.run(session, stop, out)
	return out
}

// Halt stops the running watch, if any, and closes its channel.
// Safe to call repeatedly and when nothing is being watched.
func (c *LiveClock) Halt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *LiveClock) run(session domain.ActiveSession, stop chan struct{}, out chan<- int) {
	defer close(out)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	last := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			elapsed := session.ElapsedSeconds(c.now())
			// Guard against clock adjustments; readings never go backwards.
			if elapsed < last {
				elapsed = last
			}
			last = elapsed

			select {
			case out <- elapsed:
			default:
			}
		}
	}
}
