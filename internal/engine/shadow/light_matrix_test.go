package shadow

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/daylight/internal/engine/lighting"
	"github.com/Faultbox/daylight/pkg/math"
)

func TestLightMatrixCentersTarget(t *testing.T) {
	cam := DefaultCamera()
	p := lighting.DefaultParams()

	for _, target := range []math.Vec3{math.V3(0, 0, 0), math.V3(250, 12, -90)} {
		for _, hour := range []float64{6.5, 9, 12, 15, 17.5} {
			f := lighting.Compute(hour, target, p)
			clip := LightMatrix(f, cam).TransformVec3(target)

			assert.InDelta(t, 0, clip.X, 1e-3, "hour %v target %v", hour, target)
			assert.InDelta(t, 0, clip.Y, 1e-3, "hour %v target %v", hour, target)
			assert.Greater(t, clip.Z, float32(-1), "target must be past the near plane")
			assert.Less(t, clip.Z, float32(1), "target must be before the far plane")
		}
	}
}

func TestLightMatrixStaleTargetIsOffCenter(t *testing.T) {
	cam := DefaultCamera()
	p := lighting.DefaultParams()

	stale := lighting.Compute(12, math.V3(0, 0, 0), p)
	// At noon the light's right axis is -Z.
	moved := math.V3(0, 0, 400)

	clip := LightMatrix(stale, cam).TransformVec3(moved)
	assert.InDelta(t, -0.5, clip.X, 1e-3, "panned target should sit half way to the frustum edge")

	fresh := lighting.Compute(12, moved, p)
	clip = LightMatrix(fresh, cam).TransformVec3(moved)
	assert.InDelta(t, 0, clip.X, 1e-3)
}

func TestLightMatrixOverheadSun(t *testing.T) {
	p := lighting.DefaultParams()
	p.LateralOffset = 0
	f := lighting.Compute(12, math.Vec3{}, p)

	m := LightMatrix(f, DefaultCamera())
	for _, v := range m {
		assert.False(t, math32.IsNaN(v), "matrix must not contain NaN")
	}
}

func TestDefaultCamera(t *testing.T) {
	cam := DefaultCamera()
	assert.Equal(t, float32(800), cam.HalfExtent)
	assert.Equal(t, float32(1), cam.Near)
	assert.Equal(t, float32(4000), cam.Far)
	assert.Equal(t, int32(4096), cam.MapSize)
	assert.Equal(t, float32(-0.0002), cam.Bias)
}
