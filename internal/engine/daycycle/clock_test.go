package daycycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	c := New(DefaultStart, 0)
	assert.Equal(t, 9.0, c.Value())
	assert.Equal(t, Forward, c.Direction())
	assert.Equal(t, DefaultRate, c.Rate())
}

func TestAdvanceNotPermitted(t *testing.T) {
	c := New(12, DefaultRate)
	for i := 0; i < 100; i++ {
		assert.Equal(t, 12.0, c.Advance(false, 1))
	}
	assert.Equal(t, Forward, c.Direction())
}

func TestAdvanceStaysInDaylight(t *testing.T) {
	starts := []float64{6, 6.5, 9, 12, 17.99, 18}
	for _, start := range starts {
		c := New(start, FrameRate)
		for i := 0; i < 20000; i++ {
			v := c.Advance(true, 1)
			require.GreaterOrEqual(t, v, Dawn, "start %v step %d", start, i)
			require.LessOrEqual(t, v, Dusk, "start %v step %d", start, i)
		}
	}
}

func TestAdvanceReversesAtDusk(t *testing.T) {
	c := New(17.9, 1)
	assert.Equal(t, Dusk, c.Advance(true, 0.5))
	assert.Equal(t, Backward, c.Direction())

	next := c.Advance(true, 0.25)
	assert.Less(t, next, Dusk)
	assert.InDelta(t, 17.75, next, 1e-9)
}

func TestAdvanceReversesAtDawn(t *testing.T) {
	c := New(17.5, 1)
	c.Advance(true, 1) // clamp at dusk, now backward
	require.Equal(t, Backward, c.Direction())

	c.SetTime(6.1)
	assert.Equal(t, Dawn, c.Advance(true, 0.5))
	assert.Equal(t, Forward, c.Direction())
	assert.Greater(t, c.Advance(true, 0.1), Dawn)
}

func TestAdvanceOneSimulatedHour(t *testing.T) {
	c := New(9.0, DefaultRate)
	got := c.Advance(true, 1/DefaultRate)
	assert.InDelta(t, 10.0, got, 1e-9)
	assert.Equal(t, Forward, c.Direction())
}

func TestFrameRateMatchesTenMinutesPerSecond(t *testing.T) {
	c := New(9.0, FrameRate)
	for i := 0; i < 60; i++ {
		c.Advance(true, 1)
	}
	assert.InDelta(t, 9.0+10.0/60.0, c.Value(), 1e-9)
}

func TestSetTimeKeepsDirection(t *testing.T) {
	c := New(9, 1)
	c.SetTime(18.0)
	assert.Equal(t, 18.0, c.Value())
	assert.Equal(t, Forward, c.Direction())

	// Forward from exactly dusk overshoots, clamps and flips.
	assert.Equal(t, Dusk, c.Advance(true, 0.1))
	assert.Equal(t, Backward, c.Direction())
}

func TestSetTimeOutsideRangeIsClampedOnAdvance(t *testing.T) {
	c := New(9, 1)
	c.SetTime(3)
	assert.Equal(t, 3.0, c.Value())
	assert.Equal(t, Dawn, c.Advance(true, 0.1))
	assert.Equal(t, Forward, c.Direction())
}

func TestSetRateIgnoresNonPositive(t *testing.T) {
	c := New(9, 2)
	c.SetRate(0)
	c.SetRate(-1)
	assert.Equal(t, 2.0, c.Rate())
	c.SetRate(0.5)
	assert.Equal(t, 0.5, c.Rate())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{6, "06:00"},
		{9.0, "09:00"},
		{9.5, "09:30"},
		{12.25, "12:15"},
		{17.999, "17:59"},
		{18, "18:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in), "Format(%v)", tt.in)
	}
	assert.Equal(t, "10:45", New(10.75, 1).String())
}
