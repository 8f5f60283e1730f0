package shadow

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/daylight/internal/engine/lighting"
	"github.com/Faultbox/daylight/pkg/math"
)

// Camera describes the sun's orthographic shadow camera.
type Camera struct {
	// HalfExtent is half the width and height of the shadowed area.
	HalfExtent float32 `yaml:"half_extent"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`

	// MapSize is the depth map resolution in texels.
	MapSize int32 `yaml:"map_size"`

	// Bias is added to the compared depth to hide striping.
	Bias float32 `yaml:"bias"`
}

// DefaultCamera returns a shadow camera large enough for the sun distance
// used by lighting.DefaultParams.
func DefaultCamera() Camera {
	return Camera{
		HalfExtent: 800,
		Near:       1,
		Far:        4000,
		MapSize:    DefaultResolution,
		Bias:       -0.0002,
	}
}

// LightMatrix returns the light-space view-projection for a lighting frame.
// The view aims from the sun position at the frame's target, so it has to
// be rebuilt every frame along with the frame itself.
func LightMatrix(f lighting.Frame, cam Camera) math.Mat4 {
	up := math.V3(0, 1, 0)
	// Avoid a degenerate basis when the sun is nearly overhead.
	if math32.Abs(f.SunDirection.Y) > 0.99 {
		up = math.V3(0, 0, 1)
	}

	view := math.LookAt(f.SunPosition, f.SunTarget, up)
	h := cam.HalfExtent
	proj := math.Ortho(-h, h, -h, h, cam.Near, cam.Far)

	return proj.Mul(view)
}
