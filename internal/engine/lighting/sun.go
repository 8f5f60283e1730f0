// Package lighting maps the simulated time of day onto the sun and ambient
// light of the scene.
package lighting

import (
	"math"

	"github.com/chewxy/math32"

	gmath "github.com/Faultbox/daylight/pkg/math"
)

// Daylight bounds, in hours. The sun sweeps a half circle between them.
const (
	sunrise = 6.0
	sunset  = 18.0
)

// Params are the tuning constants of the lighting model.
type Params struct {
	// SunDistance places the sun far from the target so its rays are
	// close to parallel.
	SunDistance float32 `yaml:"sun_distance"`

	// LateralOffset pushes the sun sideways (+X) so it never passes
	// straight overhead.
	LateralOffset float32 `yaml:"lateral_offset"`

	SunPeakIntensity float32 `yaml:"sun_peak_intensity"`
	AmbientBase      float32 `yaml:"ambient_base"`
	AmbientRange     float32 `yaml:"ambient_range"`
	AmbientFloor     float32 `yaml:"ambient_floor"`
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		SunDistance:      1800,
		LateralOffset:    600,
		SunPeakIntensity: 3.5,
		AmbientBase:      0.35,
		AmbientRange:     0.15,
		AmbientFloor:     0.1,
	}
}

// Frame is the lighting for one simulated instant.
type Frame struct {
	// SunDirection is the unit vector from SunTarget towards SunPosition.
	SunDirection gmath.Vec3
	SunPosition  gmath.Vec3

	// SunTarget is where the directional light aims. It must be applied to
	// the light every frame, not only on load, or shadows go stale when the
	// camera pans.
	SunTarget gmath.Vec3

	SunIntensity     float32
	AmbientIntensity float32

	// MarkerPosition is where the visible sun disc is drawn.
	MarkerPosition gmath.Vec3
}

// Daylight reports whether the sun is up, i.e. t lies strictly inside
// (sunrise, sunset).
func Daylight(t float64) bool {
	return t > sunrise && t < sunset
}

// SunAngle maps the hour onto [0, π] across the daylight range.
func SunAngle(t float64) float64 {
	return (t - sunrise) / (sunset - sunrise) * math.Pi
}

// Compute returns the lighting for hour t around the camera's look-at
// target. It is pure and deterministic.
//
// At exactly sunrise or sunset the intensities snap to zero sun and the
// ambient floor rather than following the sine curve; the ambient term is
// discontinuous there.
func Compute(t float64, target gmath.Vec3, p Params) Frame {
	angle := SunAngle(t)
	elevation := float32(math.Sin(angle))
	azimuth := float32(math.Cos(angle))

	offset := gmath.V3(p.LateralOffset, elevation*p.SunDistance, azimuth*p.SunDistance)
	pos := target.Add(offset)

	f := Frame{
		SunDirection:   offset.Normalize(),
		SunPosition:    pos,
		SunTarget:      target,
		MarkerPosition: pos,
	}

	if Daylight(t) {
		f.SunIntensity = elevation * p.SunPeakIntensity
		f.AmbientIntensity = p.AmbientBase + elevation*p.AmbientRange
	} else {
		f.SunIntensity = 0
		f.AmbientIntensity = p.AmbientFloor
	}
	return f
}

// SunDirection converts a fixed longitude/latitude sun orientation, in
// degrees, into a unit direction vector. Longitude turns around Y, latitude
// is the elevation above the horizon.
func SunDirection(longitude, latitude float32) gmath.Vec3 {
	lon := longitude * math32.Pi / 180
	lat := latitude * math32.Pi / 180
	return gmath.V3(
		math32.Cos(lat)*math32.Sin(lon),
		math32.Sin(lat),
		math32.Cos(lat)*math32.Cos(lon),
	)
}

// Static returns a frame for a sun pinned at a fixed orientation, used when
// the day cycle is disabled. Intensities are those of noon.
func Static(dir gmath.Vec3, target gmath.Vec3, p Params) Frame {
	offset := gmath.V3(dir.X*p.SunDistance, dir.Y*p.SunDistance, dir.Z*p.SunDistance)
	pos := target.Add(offset)
	return Frame{
		SunDirection:     dir.Normalize(),
		SunPosition:      pos,
		SunTarget:        target,
		SunIntensity:     p.SunPeakIntensity,
		AmbientIntensity: p.AmbientBase + p.AmbientRange,
		MarkerPosition:   pos,
	}
}
