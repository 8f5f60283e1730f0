package shadow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/daylight/internal/engine/lighting"
	"github.com/Faultbox/daylight/pkg/math"
)

func TestResolution(t *testing.T) {
	tests := []struct {
		in, want int32
	}{
		{0, DefaultResolution},
		{-512, DefaultResolution},
		{1024, 1024},
		{4096, 4096},
		{MaxResolution, MaxResolution},
		{MaxResolution * 2, MaxResolution},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Resolution(tt.in), "Resolution(%d)", tt.in)
	}
}

func TestCasts(t *testing.T) {
	p := lighting.DefaultParams()
	assert.True(t, Casts(lighting.Compute(12, math.Vec3{}, p)))
	assert.False(t, Casts(lighting.Compute(6, math.Vec3{}, p)), "dawn")
	assert.False(t, Casts(lighting.Compute(18, math.Vec3{}, p)), "dusk")
}

func TestMapSetCameraKeepsSize(t *testing.T) {
	m := &Map{cam: DefaultCamera(), size: 2048}

	cam := DefaultCamera()
	cam.HalfExtent = 300
	cam.MapSize = 512
	m.SetCamera(cam)

	assert.Equal(t, int32(2048), m.Size())
	assert.Equal(t, float32(300), m.Camera().HalfExtent)
	assert.Equal(t, int32(2048), m.Camera().MapSize)
}

func TestMapInvalidSkipsDepthPass(t *testing.T) {
	var nilMap *Map
	assert.False(t, nilMap.IsValid())

	cam := DefaultCamera()
	m := &Map{cam: cam, size: Resolution(cam.MapSize)}
	assert.False(t, m.IsValid(), "no GPU resources")

	f := lighting.Compute(12, math.V3(10, 0, 10), lighting.DefaultParams())
	called := false
	lvp, ok := m.Render(f, func(math.Mat4) { called = true })

	assert.False(t, ok)
	assert.False(t, called)
	assert.Equal(t, LightMatrix(f, cam), lvp)
}
