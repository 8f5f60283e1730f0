package renderer

import "github.com/Faultbox/daylight/pkg/math"

// Style holds the colours and post-processing constants of the scene.
type Style struct {
	// FogColor is both the sky clear colour and the exponential fog colour.
	FogColor   math.Vec3
	FogDensity float32

	SunColor math.Vec3
	Albedo   math.Vec3
	Exposure float32

	MarkerRadius float32
	MarkerColor  math.Vec3
}

// DefaultStyle returns a pale hazy sky with a warm white sun.
func DefaultStyle() Style {
	return Style{
		FogColor:     Hex(0xdde5ed),
		FogDensity:   0.002,
		SunColor:     Hex(0xfff5ea),
		Albedo:       math.V3(1, 1, 1),
		Exposure:     1.2,
		MarkerRadius: 20,
		MarkerColor:  math.V3(1, 1, 1),
	}
}

// Hex converts a 0xRRGGBB colour to components in [0, 1].
func Hex(rgb uint32) math.Vec3 {
	return math.V3(
		float32((rgb>>16)&0xff)/255,
		float32((rgb>>8)&0xff)/255,
		float32(rgb&0xff)/255,
	)
}
