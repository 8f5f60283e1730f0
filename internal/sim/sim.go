// Package sim is the simulation context that drives the day clock, the
// interaction state machine and the lighting model once per frame.
//
// A Simulation does nothing until Ready is called with the loaded model's
// center. After that, every Tick polls the resume timer, advances the clock
// if autorotation is allowed, and recomputes the lighting frame for the
// camera's current target. Everything runs on the caller's goroutine.
package sim

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/daylight/internal/config"
	"github.com/Faultbox/daylight/internal/engine/daycycle"
	"github.com/Faultbox/daylight/internal/engine/interaction"
	"github.com/Faultbox/daylight/internal/engine/lighting"
	"github.com/Faultbox/daylight/internal/logger"
	"github.com/Faultbox/daylight/pkg/math"
)

// Options configures a Simulation.
type Options struct {
	StartTime   float64
	Rate        float64
	ResumeDelay time.Duration
	Lighting    lighting.Params

	// DayCycle animates the sun. When false the sun is pinned at FixedSun.
	DayCycle bool
	FixedSun math.Vec3

	// Clock drives the resume timer. Nil means the wall clock.
	Clock interaction.Clock
}

// DefaultOptions mirrors config.Default.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig extracts simulation options from a loaded config.
func OptionsFromConfig(cfg *config.Config) Options {
	sim := cfg.Simulation
	return Options{
		StartTime:   sim.StartTime,
		Rate:        sim.Rate,
		ResumeDelay: sim.ResumeDelay,
		Lighting:    cfg.Lighting,
		DayCycle:    sim.DayCycle,
		FixedSun:    lighting.SunDirection(sim.FixedSun.Longitude, sim.FixedSun.Latitude),
	}
}

// Simulation owns the simulated time, the interaction state and the camera
// target the lighting follows.
type Simulation struct {
	clock     *daycycle.Clock
	scheduler *interaction.FrameScheduler
	machine   *interaction.Machine
	log       *zap.Logger

	params   lighting.Params
	dayCycle bool
	fixedSun math.Vec3

	ready  bool
	target math.Vec3
	frame  lighting.Frame
	ticks  uint64
}

// New creates a simulation that waits for Ready.
func New(opts Options) *Simulation {
	scheduler := interaction.NewFrameScheduler(opts.Clock)
	s := &Simulation{
		clock:     daycycle.New(opts.StartTime, opts.Rate),
		scheduler: scheduler,
		machine:   interaction.New(scheduler, opts.ResumeDelay),
		log:       logger.Named("sim"),
		params:    opts.Lighting,
		dayCycle:  opts.DayCycle,
		fixedSun:  opts.FixedSun,
	}
	s.machine.OnChange(func(from, to interaction.State) {
		s.log.Debug("autorotation gate",
			zap.Stringer("state", to),
			zap.Bool("allowed", s.machine.AutorotateAllowed()),
			zap.String("time", s.TimeDisplay()),
		)
	})
	return s
}

// Ready starts the simulation with the look-at target seeded from the
// loaded model's center. Later calls are ignored.
func (s *Simulation) Ready(center math.Vec3) {
	if s.ready {
		s.log.Warn("ready signalled twice; ignoring")
		return
	}
	s.ready = true
	s.target = center
	s.frame = s.compute()
	s.log.Info("simulation ready",
		zap.Any("target", center),
		zap.String("time", s.TimeDisplay()),
		zap.Bool("day_cycle", s.dayCycle),
	)
}

// IsReady reports whether Ready has been called.
func (s *Simulation) IsReady() bool {
	return s.ready
}

// Tick advances the simulation by dt seconds with the camera's current
// look-at target and returns the lighting frame to apply. Before Ready it
// does nothing and returns false.
func (s *Simulation) Tick(dt float64, target math.Vec3) (lighting.Frame, bool) {
	if !s.ready {
		return lighting.Frame{}, false
	}

	s.scheduler.Poll()
	if s.dayCycle {
		s.clock.Advance(s.machine.AutorotateAllowed(), dt)
	}

	// The target can move while time is frozen, so the frame is always
	// recomputed.
	s.target = target
	s.frame = s.compute()
	s.ticks++
	return s.frame, true
}

func (s *Simulation) compute() lighting.Frame {
	if !s.dayCycle {
		return lighting.Static(s.fixedSun, s.target, s.params)
	}
	return lighting.Compute(s.clock.Value(), s.target, s.params)
}

// BeginInteraction freezes autorotation and the day clock.
func (s *Simulation) BeginInteraction() {
	s.machine.Begin()
}

// EndInteraction arms the resume timer.
func (s *Simulation) EndInteraction() {
	s.machine.End()
}

// AutorotateAllowed reports whether the camera may spin on its own.
func (s *Simulation) AutorotateAllowed() bool {
	return s.machine.AutorotateAllowed()
}

// InteractionState returns the interaction state.
func (s *Simulation) InteractionState() interaction.State {
	return s.machine.State()
}

// SetTime sets the simulated hour directly, as a time slider does. The
// direction of travel is kept.
func (s *Simulation) SetTime(v float64) {
	s.clock.SetTime(v)
	if s.ready {
		s.frame = s.compute()
	}
}

// ScrubTime moves the simulated hour by delta, held to the slider range.
func (s *Simulation) ScrubTime(delta float64) {
	v := s.clock.Value() + delta
	if v < daycycle.Dawn {
		v = daycycle.Dawn
	}
	if v > daycycle.Dusk {
		v = daycycle.Dusk
	}
	s.SetTime(v)
}

// Time returns the simulated hour.
func (s *Simulation) Time() float64 {
	return s.clock.Value()
}

// Direction returns the direction the day clock is travelling.
func (s *Simulation) Direction() daycycle.Direction {
	return s.clock.Direction()
}

// TimeDisplay returns the simulated time as HH:MM.
func (s *Simulation) TimeDisplay() string {
	return daycycle.Format(s.clock.Value())
}

// Target returns the look-at target used for the last frame.
func (s *Simulation) Target() math.Vec3 {
	return s.target
}

// Frame returns the last computed lighting frame.
func (s *Simulation) Frame() lighting.Frame {
	return s.frame
}

// Ticks returns how many ticks ran since Ready.
func (s *Simulation) Ticks() uint64 {
	return s.ticks
}

// Reconfigure applies tuning from a reloaded config. Simulated time and the
// interaction state are left as they are.
func (s *Simulation) Reconfigure(opts Options) {
	s.params = opts.Lighting
	s.clock.SetRate(opts.Rate)
	s.dayCycle = opts.DayCycle
	s.fixedSun = opts.FixedSun
	if s.ready {
		s.frame = s.compute()
	}
	s.log.Info("simulation reconfigured",
		zap.Float64("rate", s.clock.Rate()),
		zap.Bool("day_cycle", s.dayCycle),
	)
}
