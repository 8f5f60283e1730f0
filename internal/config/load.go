package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// Path returns the config file Load reads: the --config flag if given,
// otherwise the first standard location that exists, otherwise "".
func Path() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	return findConfigFile()
}

// LoadFile loads defaults, then path (if non-empty), then CLI flags.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	sim := c.Simulation
	if sim.StartTime < 6 || sim.StartTime > 18 {
		return fmt.Errorf("simulation.start_time %.2f outside 6..18", sim.StartTime)
	}
	if sim.Rate <= 0 {
		return fmt.Errorf("simulation.rate must be positive, got %v", sim.Rate)
	}
	if sim.ResumeDelay < 0 {
		return fmt.Errorf("simulation.resume_delay must not be negative, got %v", sim.ResumeDelay)
	}
	if c.Shadow.Near >= c.Shadow.Far {
		return fmt.Errorf("shadow.near (%v) must be less than shadow.far (%v)", c.Shadow.Near, c.Shadow.Far)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./daylight.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Daylight")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Daylight")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "daylight")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "daylight")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
