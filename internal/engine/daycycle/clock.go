// Package daycycle owns the simulated time of day.
//
// Time travels back and forth between Dawn and Dusk like a triangle wave:
// when it reaches either end it is clamped there and its direction reverses.
// Night exists only as the unlit boundary values, never as a simulated phase.
package daycycle

import (
	"go.uber.org/zap"

	"github.com/Faultbox/daylight/internal/logger"
)

const (
	// Dawn is the earliest simulated hour.
	Dawn = 6.0
	// Dusk is the latest simulated hour.
	Dusk = 18.0
	// DefaultStart is the hour a fresh clock starts at.
	DefaultStart = 9.0

	// FrameRate is the advance per tick for callers that step once per
	// frame with dt == 1: 10 simulated seconds, i.e. 10 simulated minutes
	// per real second at 60 frames per second.
	FrameRate = 10.0 / 60.0 / 60.0
	// DefaultRate is FrameRate expressed per real second (60 ticks).
	DefaultRate = FrameRate * 60
)

// Direction is the sign of travel of the simulated time.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Clock is the simulated time of day. It is not safe for concurrent use;
// it is advanced from the frame loop only.
type Clock struct {
	value     float64
	direction Direction
	rate      float64
}

// New creates a clock at start hours travelling forward. A non-positive
// rate falls back to DefaultRate.
func New(start, rate float64) *Clock {
	if rate <= 0 {
		rate = DefaultRate
	}
	return &Clock{
		value:     start,
		direction: Forward,
		rate:      rate,
	}
}

// Value returns the current simulated hour.
func (c *Clock) Value() float64 {
	return c.value
}

// Direction returns the current direction of travel.
func (c *Clock) Direction() Direction {
	return c.direction
}

// Rate returns simulated hours per unit of dt.
func (c *Clock) Rate() float64 {
	return c.rate
}

// SetRate changes the advance rate. Non-positive rates are ignored.
func (c *Clock) SetRate(rate float64) {
	if rate > 0 {
		c.rate = rate
	}
}

// Advance moves the clock by dt when permitted and returns the new value.
// Crossing Dusk or Dawn clamps to the boundary and flips the direction.
func (c *Clock) Advance(permitted bool, dt float64) float64 {
	if !permitted {
		return c.value
	}

	c.value += float64(c.direction) * c.rate * dt

	if c.value >= Dusk {
		c.value = Dusk
		c.reverse(Backward)
	} else if c.value <= Dawn {
		c.value = Dawn
		c.reverse(Forward)
	}
	return c.value
}

func (c *Clock) reverse(d Direction) {
	if c.direction == d {
		return
	}
	c.direction = d
	logger.Debug("day cycle reversed",
		zap.Float64("time", c.value),
		zap.Stringer("direction", d),
	)
}

// SetTime jumps straight to v, as a manual time scrub does. The direction
// is left alone so autorotation resumes the way it was going. Values outside
// [Dawn, Dusk] are accepted; the next permitted Advance clamps them.
func (c *Clock) SetTime(v float64) {
	c.value = v
}
