package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func TestFrameSchedulerFiresOnlyWhenDue(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewFrameScheduler(clock)

	fired := 0
	s.AfterFunc(time.Second, func() { fired++ })
	assert.Equal(t, 1, s.Pending())

	clock.Advance(999 * time.Millisecond)
	assert.Equal(t, 0, s.Poll())
	assert.Equal(t, 0, fired)

	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, s.Poll())
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, s.Pending())

	// Already fired; later polls do nothing.
	clock.Advance(time.Hour)
	assert.Equal(t, 0, s.Poll())
	assert.Equal(t, 1, fired)
}

func TestFrameSchedulerCancel(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewFrameScheduler(clock)

	fired := false
	h := s.AfterFunc(time.Second, func() { fired = true })
	h.Cancel()
	h.Cancel()
	assert.Equal(t, 0, s.Pending())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 0, s.Poll())
	assert.False(t, fired)

	// Cancelling after the task was dropped is still a no-op.
	h.Cancel()
}

func TestFrameSchedulerOrderAndReentrancy(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewFrameScheduler(clock)

	var order []string
	var late Handle
	s.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	s.AfterFunc(time.Second, func() {
		order = append(order, "a")
		late.Cancel()
		s.AfterFunc(0, func() { order = append(order, "next") })
	})
	late = s.AfterFunc(1500*time.Millisecond, func() { order = append(order, "late") })

	clock.Advance(3 * time.Second)
	assert.Equal(t, 2, s.Poll())
	assert.Equal(t, []string{"a", "b"}, order)

	assert.Equal(t, 1, s.Poll())
	assert.Equal(t, []string{"a", "b", "next"}, order)
}

func TestNewFrameSchedulerDefaultsToSystemClock(t *testing.T) {
	s := NewFrameScheduler(nil)
	_, ok := s.Clock().(SystemClock)
	assert.True(t, ok)
}
