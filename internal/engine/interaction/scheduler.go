package interaction

import (
	"sort"
	"time"
)

// Clock provides the current time. It exists so tests and the headless
// tracer can drive the scheduler with simulated time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a clock that only moves when told to.
type ManualClock struct {
	current time.Time
}

// NewManualClock creates a manual clock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{current: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time { return c.current }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

// Handle is a scheduled callback. Cancel is idempotent and safe to call
// after the callback has run.
type Handle interface {
	Cancel()
}

// Scheduler defers a callback by a duration.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Handle
}

// FrameScheduler runs deferred callbacks from the frame loop. Nothing fires
// on its own: Poll must be called once per tick, on the same goroutine that
// owns the state the callbacks touch.
type FrameScheduler struct {
	clock Clock
	tasks []*frameTask
}

type frameTask struct {
	at        time.Time
	fn        func()
	cancelled bool
}

func (t *frameTask) Cancel() {
	t.cancelled = true
}

// NewFrameScheduler creates a scheduler reading deadlines from clock.
// A nil clock uses the wall clock.
func NewFrameScheduler(clock Clock) *FrameScheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &FrameScheduler{clock: clock}
}

// Clock returns the scheduler's time source.
func (s *FrameScheduler) Clock() Clock {
	return s.clock
}

// AfterFunc schedules fn to run on the first Poll at or after now+d.
func (s *FrameScheduler) AfterFunc(d time.Duration, fn func()) Handle {
	t := &frameTask{at: s.clock.Now().Add(d), fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Poll runs every due, uncancelled callback in deadline order and drops
// cancelled ones. It returns the number of callbacks run. Callbacks may
// schedule new tasks; those are considered on the next Poll.
func (s *FrameScheduler) Poll() int {
	if len(s.tasks) == 0 {
		return 0
	}

	now := s.clock.Now()
	var due []*frameTask
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		switch {
		case t.cancelled:
		case !t.at.After(now):
			due = append(due, t)
		default:
			kept = append(kept, t)
		}
	}
	// Clear the tail so dropped tasks can be collected.
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = kept

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	ran := 0
	for _, t := range due {
		// An earlier callback in this batch may have cancelled it.
		if t.cancelled {
			continue
		}
		t.cancelled = true
		t.fn()
		ran++
	}
	return ran
}

// Pending returns the number of scheduled, uncancelled callbacks.
func (s *FrameScheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}
