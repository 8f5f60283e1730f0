// Package camera provides the orbit camera the viewer looks through.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/daylight/pkg/math"
)

// Orbit circles a look-at target. Yaw and pitch are driven by drags,
// distance by the wheel, and the target by panning. When AutoRotate is set
// the camera slowly revolves around the target on its own.
type Orbit struct {
	Target math.Vec3

	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around +Y

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	FovY float32
	Near float32
	Far  float32

	DragSensitivity float32
	ZoomSensitivity float32
	PanSensitivity  float32

	// AutoRotate enables revolving around the target. AutoRotateSpeed is
	// in revolutions per minute; negative turns clockwise seen from above.
	AutoRotate      bool
	AutoRotateSpeed float32

	// DampingFactor is the share of drag velocity applied per 60 Hz frame.
	// Zero disables damping.
	DampingFactor float32

	yawVelocity   float32
	pitchVelocity float32
}

// NewOrbit creates an orbit camera with viewer defaults.
func NewOrbit() *Orbit {
	return &Orbit{
		Distance:        346, // |(200, 200, 200)|
		Pitch:           0.6155,
		Yaw:             math32.Pi / 4,
		MinDistance:     10,
		MaxDistance:     5000,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		FovY:            75 * math32.Pi / 180,
		Near:            0.1,
		Far:             10000,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		PanSensitivity:  0.002,
		AutoRotate:      true,
		AutoRotateSpeed: -0.5,
		DampingFactor:   0.05,
	}
}

// Position returns the camera position in world space.
func (c *Orbit) Position() math.Vec3 {
	cp := math32.Cos(c.Pitch)
	return c.Target.Add(math.V3(
		c.Distance*cp*math32.Sin(c.Yaw),
		c.Distance*math32.Sin(c.Pitch),
		c.Distance*cp*math32.Cos(c.Yaw),
	))
}

// ViewMatrix returns the view matrix for this camera.
func (c *Orbit) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, math.V3(0, 1, 0))
}

// ProjectionMatrix returns the perspective projection for aspect.
func (c *Orbit) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// Update advances autorotation and damped drag motion by dt seconds.
func (c *Orbit) Update(dt float32) {
	if c.AutoRotate {
		c.Yaw += c.AutoRotateSpeed * 2 * math32.Pi / 60 * dt
	}

	if c.DampingFactor <= 0 {
		return
	}
	c.Yaw += c.yawVelocity * c.DampingFactor
	c.Pitch += c.pitchVelocity * c.DampingFactor
	c.clampPitch()

	// Decay at a 60 Hz reference rate so feel does not depend on frame rate.
	decay := math32.Pow(1-c.DampingFactor, dt*60)
	c.yawVelocity *= decay
	c.pitchVelocity *= decay
}

// HandleDrag rotates the camera by a mouse drag delta in pixels.
func (c *Orbit) HandleDrag(deltaX, deltaY float32) {
	dy := -deltaX * c.DragSensitivity
	dp := deltaY * c.DragSensitivity
	if c.DampingFactor > 0 {
		c.yawVelocity += dy
		c.pitchVelocity += dp
		return
	}
	c.Yaw += dy
	c.Pitch += dp
	c.clampPitch()
}

// HandleZoom moves towards or away from the target by a wheel delta.
func (c *Orbit) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandlePan slides the target in the screen plane by a drag delta in pixels.
// The step scales with distance so panning feels the same at any zoom.
func (c *Orbit) HandlePan(deltaX, deltaY float32) {
	forward := c.Target.Sub(c.Position()).Normalize()
	right := forward.Cross(math.V3(0, 1, 0)).Normalize()
	up := right.Cross(forward)

	speed := c.Distance * c.PanSensitivity
	c.Target = c.Target.Add(right.Scale(-deltaX * speed)).Add(up.Scale(deltaY * speed))
}

// FitTo centers the camera on a box given by its center and size and backs
// off far enough to see it.
func (c *Orbit) FitTo(center, size math.Vec3) {
	c.Target = center

	maxSize := math32.Max(size.X, math32.Max(size.Y, size.Z))
	c.Distance = maxSize * 1.5
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// Retarget moves the look-at target without moving the camera, the way an
// orbit control behaves when its target is reassigned.
func (c *Orbit) Retarget(target math.Vec3) {
	eye := c.Position()
	c.Target = target

	offset := eye.Sub(target)
	dist := offset.Length()
	if dist == 0 {
		return
	}
	c.Distance = dist
	c.Pitch = math32.Asin(offset.Y / dist)
	c.Yaw = math32.Atan2(offset.X, offset.Z)
	c.clampPitch()
}

func (c *Orbit) clampPitch() {
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}
