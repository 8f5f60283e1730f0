package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/daylight/pkg/math"
)

func TestOrbitPositionDistance(t *testing.T) {
	c := NewOrbit()
	c.Target = math.V3(10, 20, 30)
	assert.InDelta(t, c.Distance, c.Position().Distance(c.Target), 1e-2)
}

func TestOrbitDefaultPoseNearStartPosition(t *testing.T) {
	c := NewOrbit()
	p := c.Position()
	assert.InDelta(t, 200, p.X, 1)
	assert.InDelta(t, 200, p.Y, 1)
	assert.InDelta(t, 200, p.Z, 1)
}

func TestOrbitAutoRotate(t *testing.T) {
	c := NewOrbit()
	c.DampingFactor = 0
	yaw := c.Yaw

	// -0.5 rpm for one minute is half a turn clockwise.
	for i := 0; i < 60*60; i++ {
		c.Update(1.0 / 60)
	}
	assert.InDelta(t, yaw-math32.Pi, c.Yaw, 1e-3)

	c.AutoRotate = false
	yaw = c.Yaw
	c.Update(1)
	assert.Equal(t, yaw, c.Yaw)
}

func TestOrbitDragWithoutDamping(t *testing.T) {
	c := NewOrbit()
	c.DampingFactor = 0
	c.AutoRotate = false
	yaw, pitch := c.Yaw, c.Pitch

	c.HandleDrag(100, 0)
	assert.InDelta(t, yaw-0.5, c.Yaw, 1e-6)

	c.HandleDrag(0, 10000)
	assert.Equal(t, c.MaxPitch, c.Pitch)
	assert.NotEqual(t, pitch, c.Pitch)
}

func TestOrbitDragWithDampingSettles(t *testing.T) {
	c := NewOrbit()
	c.AutoRotate = false
	yaw := c.Yaw

	c.HandleDrag(100, 0)
	assert.Equal(t, yaw, c.Yaw, "damped drag applies over following frames")

	for i := 0; i < 600; i++ {
		c.Update(1.0 / 60)
	}
	// The geometric series sums to the full drag.
	assert.InDelta(t, yaw-0.5, c.Yaw, 1e-3)
}

func TestOrbitZoomClamp(t *testing.T) {
	c := NewOrbit()
	for i := 0; i < 200; i++ {
		c.HandleZoom(1)
	}
	assert.Equal(t, c.MinDistance, c.Distance)
	for i := 0; i < 200; i++ {
		c.HandleZoom(-1)
	}
	assert.Equal(t, c.MaxDistance, c.Distance)
}

func TestOrbitPanMovesTargetInScreenPlane(t *testing.T) {
	c := NewOrbit()
	before := c.Target
	offset := c.Position().Sub(c.Target)

	c.HandlePan(50, 0)
	moved := c.Target.Sub(before)
	assert.Greater(t, moved.Length(), float32(0))
	assert.InDelta(t, 0, moved.Dot(offset.Normalize()), 1e-3, "pan must not change depth")
	assert.InDelta(t, 0, moved.Y, 1e-3, "horizontal pan stays level")
}

func TestOrbitFitTo(t *testing.T) {
	c := NewOrbit()
	c.FitTo(math.V3(1, 2, 3), math.V3(100, 40, 60))
	assert.Equal(t, math.V3(1, 2, 3), c.Target)
	assert.Equal(t, float32(150), c.Distance)

	c.FitTo(math.Vec3{}, math.V3(1, 1, 1))
	assert.Equal(t, c.MinDistance, c.Distance)
}

func TestOrbitProjection(t *testing.T) {
	c := NewOrbit()
	assert.Equal(t, c.ProjectionMatrix(1), c.ProjectionMatrix(0))
	m := c.ViewMatrix()
	assert.InDelta(t, 0, m.TransformVec3(c.Position()).Length(), 1e-2)
}

func TestOrbitRetargetKeepsPosition(t *testing.T) {
	c := NewOrbit()
	eye := c.Position()

	c.Retarget(math.V3(30, 10, -20))
	got := c.Position()
	assert.InDelta(t, eye.X, got.X, 1e-2)
	assert.InDelta(t, eye.Y, got.Y, 1e-2)
	assert.InDelta(t, eye.Z, got.Z, 1e-2)
	assert.Equal(t, math.V3(30, 10, -20), c.Target)
	assert.InDelta(t, eye.Distance(c.Target), c.Distance, 1e-2)
}
