package lighting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gmath "github.com/Faultbox/daylight/pkg/math"
)

func TestComputeNoonIsPeak(t *testing.T) {
	p := DefaultParams()
	target := gmath.V3(10, 20, 30)

	noon := Compute(12, target, p)
	assert.InDelta(t, p.SunPeakIntensity, noon.SunIntensity, 1e-5)
	assert.InDelta(t, p.AmbientBase+p.AmbientRange, noon.AmbientIntensity, 1e-5)

	for i := 1; i < 240; i++ {
		h := 6 + float64(i)*0.05
		f := Compute(h, target, p)
		require.LessOrEqual(t, f.SunIntensity, noon.SunIntensity+1e-6, "hour %v", h)
		require.Greater(t, f.SunIntensity, float32(0), "hour %v", h)
	}
}

func TestComputeBoundariesAreDark(t *testing.T) {
	p := DefaultParams()
	for _, h := range []float64{6, 18} {
		f := Compute(h, gmath.Vec3{}, p)
		assert.Equal(t, float32(0), f.SunIntensity, "hour %v", h)
		assert.Equal(t, p.AmbientFloor, f.AmbientIntensity, "hour %v", h)
	}
}

func TestComputeBoundaryDiscontinuity(t *testing.T) {
	p := DefaultParams()
	just := Compute(6+1e-9, gmath.Vec3{}, p)
	at := Compute(6, gmath.Vec3{}, p)

	// The sun is continuous across the boundary but the ambient term jumps.
	assert.InDelta(t, at.SunIntensity, just.SunIntensity, 1e-6)
	assert.InDelta(t, p.AmbientBase, just.AmbientIntensity, 1e-6)
	assert.Equal(t, p.AmbientFloor, at.AmbientIntensity)
}

func TestComputeTenOClock(t *testing.T) {
	p := DefaultParams()
	f := Compute(10, gmath.Vec3{}, p)

	want := math.Sin((10.0-6.0)/12.0*math.Pi) * float64(p.SunPeakIntensity)
	assert.InDelta(t, want, float64(f.SunIntensity), 1e-5)
	assert.InDelta(t, 0.866*3.5, float64(f.SunIntensity), 1e-3)
}

func TestComputeGeometry(t *testing.T) {
	p := DefaultParams()
	target := gmath.V3(100, 5, -40)

	tests := []struct {
		hour float64
		want gmath.Vec3 // sun offset from target
	}{
		{6, gmath.V3(600, 0, 1800)},
		{12, gmath.V3(600, 1800, 0)},
		{18, gmath.V3(600, 0, -1800)},
	}
	for _, tt := range tests {
		f := Compute(tt.hour, target, p)
		got := f.SunPosition.Sub(target)
		assert.InDelta(t, tt.want.X, got.X, 1e-2, "hour %v x", tt.hour)
		assert.InDelta(t, tt.want.Y, got.Y, 1e-2, "hour %v y", tt.hour)
		assert.InDelta(t, tt.want.Z, got.Z, 1e-2, "hour %v z", tt.hour)

		assert.Equal(t, target, f.SunTarget)
		assert.Equal(t, f.SunPosition, f.MarkerPosition)
		assert.InDelta(t, 1, f.SunDirection.Length(), 1e-5)
	}
}

func TestComputeFollowsTarget(t *testing.T) {
	p := DefaultParams()
	a := Compute(9, gmath.V3(0, 0, 0), p)
	b := Compute(9, gmath.V3(50, -10, 7), p)

	assert.Equal(t, gmath.V3(50, -10, 7), b.SunTarget)
	assert.Equal(t, a.SunPosition.Add(gmath.V3(50, -10, 7)), b.SunPosition)
	assert.Equal(t, a.SunIntensity, b.SunIntensity)
	assert.Equal(t, a.SunDirection, b.SunDirection)
}

func TestComputeDeterministic(t *testing.T) {
	p := DefaultParams()
	target := gmath.V3(1.5, 2.25, -3.125)
	for h := 6.0; h <= 18; h += 0.37 {
		assert.Equal(t, Compute(h, target, p), Compute(h, target, p))
	}
}

func TestDaylight(t *testing.T) {
	assert.False(t, Daylight(6))
	assert.True(t, Daylight(6.0001))
	assert.True(t, Daylight(17.9999))
	assert.False(t, Daylight(18))
	assert.InDelta(t, math.Pi/2, SunAngle(12), 1e-12)
}

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float32
		want     gmath.Vec3
	}{
		{"horizon south", 0, 0, gmath.V3(0, 0, 1)},
		{"horizon east", 90, 0, gmath.V3(1, 0, 0)},
		{"zenith", 0, 90, gmath.V3(0, 1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.lon, tt.lat)
			assert.InDelta(t, tt.want.X, got.X, 1e-6)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-6)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-6)
		})
	}
}

func TestStatic(t *testing.T) {
	p := DefaultParams()
	target := gmath.V3(1, 2, 3)
	f := Static(SunDirection(45, 45), target, p)

	assert.Equal(t, p.SunPeakIntensity, f.SunIntensity)
	assert.Equal(t, target, f.SunTarget)
	assert.InDelta(t, p.SunDistance, f.SunPosition.Distance(target), 1e-2)
}
