package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/daylight/internal/config"
	"github.com/Faultbox/daylight/internal/engine/interaction"
	"github.com/Faultbox/daylight/internal/engine/lighting"
	"github.com/Faultbox/daylight/internal/sim"
	"github.com/Faultbox/daylight/pkg/math"
)

// span is an interaction held from tick Start until tick End.
type span struct {
	Start int
	End   int
}

// parseSpans parses "120:180,400:410".
func parseSpans(s string) ([]span, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var spans []span
	for _, part := range strings.Split(s, ",") {
		lo, hi, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("%q: want start:end", part)
		}
		start, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", part, err)
		}
		end, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", part, err)
		}
		if start < 0 || end < start {
			return nil, fmt.Errorf("%q: need 0 <= start <= end", part)
		}
		spans = append(spans, span{Start: start, End: end})
	}
	return spans, nil
}

// sample is one printed tick.
type sample struct {
	Tick         int        `yaml:"tick"`
	Time         string     `yaml:"time"`
	Hour         float64    `yaml:"hour"`
	Direction    string     `yaml:"direction"`
	State        string     `yaml:"state"`
	Autorotate   bool       `yaml:"autorotate"`
	SunIntensity float32    `yaml:"sun_intensity"`
	Ambient      float32    `yaml:"ambient"`
	SunPosition  [3]float32 `yaml:"sun_position,flow"`
	SunDirection [3]float32 `yaml:"sun_direction,flow"`
}

type trace struct {
	cfg      *config.Config
	target   math.Vec3
	frames   int
	dt       float64
	every    int
	format   string
	interact []span
}

// run ticks a simulation driven by a manual clock and writes every Nth
// frame to w.
func (t trace) run(w io.Writer) error {
	var emit func(sample) error
	switch t.format {
	case "text":
		fmt.Fprintln(w, "tick   time   dir       state         rotate  sun    ambient")
		emit = func(s sample) error {
			_, err := fmt.Fprintf(w, "%-6d %s  %-8s  %-12s  %-6v  %.3f  %.3f\n",
				s.Tick, s.Time, s.Direction, s.State, s.Autorotate, s.SunIntensity, s.Ambient)
			return err
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		emit = func(s sample) error { return enc.Encode(s) }
	default:
		return fmt.Errorf("unknown format %q", t.format)
	}

	every := t.every
	if every <= 0 {
		every = 1
	}

	clock := interaction.NewManualClock(time.Unix(0, 0))
	opts := sim.OptionsFromConfig(t.cfg)
	opts.Clock = clock
	s := sim.New(opts)
	s.Ready(t.target)

	step := time.Duration(t.dt * float64(time.Second))
	for tick := 1; tick <= t.frames; tick++ {
		for _, sp := range t.interact {
			if tick == sp.Start {
				s.BeginInteraction()
			}
			if tick == sp.End {
				s.EndInteraction()
			}
		}

		clock.Advance(step)
		frame, _ := s.Tick(t.dt, t.target)

		if tick%every != 0 && tick != t.frames {
			continue
		}
		if err := emit(newSample(tick, s, frame)); err != nil {
			return err
		}
	}
	return nil
}

func newSample(tick int, s *sim.Simulation, f lighting.Frame) sample {
	return sample{
		Tick:         tick,
		Time:         s.TimeDisplay(),
		Hour:         s.Time(),
		Direction:    s.Direction().String(),
		State:        s.InteractionState().String(),
		Autorotate:   s.AutorotateAllowed(),
		SunIntensity: f.SunIntensity,
		Ambient:      f.AmbientIntensity,
		SunPosition:  f.SunPosition.Array(),
		SunDirection: f.SunDirection.Array(),
	}
}
