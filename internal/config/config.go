// Package config handles viewer configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/daylight/internal/engine/lighting"
	"github.com/Faultbox/daylight/internal/engine/shadow"
)

// Config holds all viewer settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Simulation SimulationConfig `yaml:"simulation"`
	Lighting   lighting.Params  `yaml:"lighting"`
	Shadow     shadow.Camera    `yaml:"shadow"`
	Camera     CameraConfig     `yaml:"camera"`
	Model      ModelConfig      `yaml:"model"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	Shadows    bool `yaml:"shadows"`

	// ScreenshotDir receives F12 captures.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// SimulationConfig holds day cycle and autorotation timing.
type SimulationConfig struct {
	// StartTime is the simulated hour at load, between 6 and 18.
	StartTime float64 `yaml:"start_time"`
	// Rate is simulated hours per real second.
	Rate float64 `yaml:"rate"`
	// ResumeDelay is the idle time before autorotation resumes.
	ResumeDelay time.Duration `yaml:"resume_delay"`

	// DayCycle animates the sun. When false the sun stays at FixedSun.
	DayCycle bool           `yaml:"day_cycle"`
	FixedSun FixedSunConfig `yaml:"fixed_sun"`
}

// FixedSunConfig is a static sun orientation in degrees.
type FixedSunConfig struct {
	Longitude float32 `yaml:"longitude"`
	Latitude  float32 `yaml:"latitude"`
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	AutoRotateSpeed float32 `yaml:"auto_rotate_speed"`
	Damping         float32 `yaml:"damping"`
	FovDegrees      float32 `yaml:"fov"`

	// Fit backs the camera off to frame the model once loaded. When false
	// the camera keeps its start position and only turns to the model.
	Fit bool `yaml:"fit"`
}

// ModelConfig points at the model to show.
type ModelConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Format  string `yaml:"format"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			Shadows:    true,

			ScreenshotDir: "screenshots",
		},
		Simulation: SimulationConfig{
			StartTime:   9.0,
			Rate:        10.0 / 60.0,
			ResumeDelay: 3 * time.Second,
			DayCycle:    true,
			FixedSun:    FixedSunConfig{Longitude: 45, Latitude: 45},
		},
		Lighting: lighting.DefaultParams(),
		Shadow:   shadow.DefaultCamera(),
		Camera: CameraConfig{
			AutoRotateSpeed: -0.5,
			Damping:         0.05,
			FovDegrees:      75,
		},
		Model: ModelConfig{
			Path: "model.glb",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
			Format:  "console",
		},
	}
}
