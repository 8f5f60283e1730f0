// Package interaction tracks whether the user is steering the camera and
// decides when autorotation may run.
//
// Interaction start freezes autorotation at once. Interaction end starts a
// resume timer; autorotation comes back only if the timer runs out with no
// interaction in between.
package interaction

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/daylight/internal/logger"
)

// DefaultResumeDelay is the idle time after an interaction ends before
// autorotation resumes.
const DefaultResumeDelay = 3000 * time.Millisecond

// State is the interaction state.
type State int

const (
	// Idle allows autorotation and has no timer.
	Idle State = iota
	// Interacting blocks autorotation.
	Interacting
	// CoolingDown has a resume timer running. Autorotation stays off until
	// the timer fires and the machine returns to Idle.
	CoolingDown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Interacting:
		return "interacting"
	case CoolingDown:
		return "cooling-down"
	default:
		return "unknown"
	}
}

// Machine is the interaction state machine. At most one resume timer is
// outstanding at any time.
type Machine struct {
	scheduler Scheduler
	delay     time.Duration
	log       *zap.Logger

	state       State
	interacting bool
	pending     Handle
	generation  uint64

	listeners []func(from, to State)
}

// New creates a machine in Idle. A non-positive delay uses DefaultResumeDelay.
func New(scheduler Scheduler, delay time.Duration) *Machine {
	if delay <= 0 {
		delay = DefaultResumeDelay
	}
	return &Machine{
		scheduler: scheduler,
		delay:     delay,
		log:       logger.Named("interaction"),
		state:     Idle,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Delay returns the resume delay.
func (m *Machine) Delay() time.Duration {
	return m.delay
}

// AutorotateAllowed reports whether autorotation (and the day clock) may run.
// Only Idle allows it. Autorotation stays off through CoolingDown and comes
// back only when the resume timer fires, so the model holds still for the
// full delay after the last release.
func (m *Machine) AutorotateAllowed() bool {
	return m.state == Idle
}

// Pending reports whether a resume timer is outstanding.
func (m *Machine) Pending() bool {
	return m.pending != nil
}

// OnChange registers fn to be called after every state transition.
func (m *Machine) OnChange(fn func(from, to State)) {
	m.listeners = append(m.listeners, fn)
}

// Begin marks the start of an interaction from any state. It stops
// autorotation and cancels any pending resume.
func (m *Machine) Begin() {
	m.interacting = true
	m.cancelPending()
	m.transition(Interacting)
}

// End marks the end of an interaction and arms the resume timer. Ends
// without a matching Begin are ignored.
func (m *Machine) End() {
	if m.state != Interacting {
		m.log.Debug("interaction end ignored", zap.Stringer("state", m.state))
		return
	}

	m.interacting = false
	m.cancelPending()
	gen := m.generation
	m.pending = m.scheduler.AfterFunc(m.delay, func() { m.resume(gen) })
	m.transition(CoolingDown)
}

// resume is the timer callback. It checks the generation and the live
// interaction flag as well as the state, so a stale timer that escaped
// cancellation can never re-enable autorotation.
func (m *Machine) resume(gen uint64) {
	if gen != m.generation || m.interacting || m.state != CoolingDown {
		m.log.Debug("stale resume timer dropped",
			zap.Uint64("generation", gen),
			zap.Uint64("current", m.generation),
		)
		return
	}
	m.pending = nil
	m.transition(Idle)
}

func (m *Machine) cancelPending() {
	m.generation++
	if m.pending != nil {
		m.pending.Cancel()
		m.pending = nil
	}
}

func (m *Machine) transition(to State) {
	from := m.state
	if from == to {
		return
	}
	m.state = to
	m.log.Debug("interaction state changed",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
	for _, fn := range m.listeners {
		fn(from, to)
	}
}
