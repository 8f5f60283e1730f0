// Package viewer implements the interactive main loop.
package viewer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/daylight/internal/assets"
	"github.com/Faultbox/daylight/internal/config"
	"github.com/Faultbox/daylight/internal/engine/camera"
	"github.com/Faultbox/daylight/internal/engine/input"
	"github.com/Faultbox/daylight/internal/engine/renderer"
	"github.com/Faultbox/daylight/internal/engine/screenshot"
	"github.com/Faultbox/daylight/internal/engine/window"
	"github.com/Faultbox/daylight/internal/logger"
	"github.com/Faultbox/daylight/internal/sim"
)

// Title is the application name shown in the title bar.
const Title = "Daylight"

// Viewer is the interactive viewer instance.
type Viewer struct {
	cfg     *config.Config
	cfgPath string
	log     *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.Orbit
	sim      *sim.Simulation
	assets   *assets.Manager
	shots    *screenshot.Capture

	ctx    context.Context
	cancel context.CancelFunc

	loading    <-chan assets.Result
	progress   atomic.Pointer[assets.Progress]
	loadFailed error

	reloads  chan *config.Config
	running  bool
	wantShot bool
}

// New creates the window, renderer and simulation and starts loading the
// model in the background. cfgPath, when set, is watched for changes.
func New(cfg *config.Config, cfgPath string) (*Viewer, error) {
	v := &Viewer{
		cfg:     cfg,
		cfgPath: cfgPath,
		log:     logger.Named("viewer"),
		input:   input.New(),
		camera:  camera.NewOrbit(),
		sim:     sim.New(sim.OptionsFromConfig(cfg)),
		assets:  assets.NewManager(),
		shots:   screenshot.New(cfg.Graphics.ScreenshotDir, "daylight"),
		reloads: make(chan *config.Config, 1),
	}
	v.ctx, v.cancel = context.WithCancel(context.Background())

	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("model", cfg.Model.Path),
	)

	var err error
	v.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		v.cancel()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:   width,
		Height:  height,
		Shadows: cfg.Graphics.Shadows,
		Shadow:  cfg.Shadow,
		Style:   renderer.DefaultStyle(),
	})
	if err != nil {
		v.window.Close()
		v.cancel()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	configureCamera(v.camera, cfg.Camera)

	v.loading = v.assets.LoadAsync(v.ctx, cfg.Model.Path, v.onProgress)

	if cfgPath != "" {
		if err := config.Watch(v.ctx, cfgPath, v.onReload); err != nil {
			v.log.Warn("config hot reload disabled", zap.String("path", cfgPath), zap.Error(err))
		}
	}

	v.log.Info("viewer initialized")
	return v, nil
}

// onProgress runs on the loader goroutine.
func (v *Viewer) onProgress(p assets.Progress) {
	v.progress.Store(&p)
}

// onReload runs on the watcher goroutine. Only the newest config is kept.
func (v *Viewer) onReload(cfg *config.Config) {
	select {
	case <-v.reloads:
	default:
	}
	v.reloads <- cfg
}

// Run runs the main loop until the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := lastTime

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.pollLoad()
		v.pollReload()

		v.update(dt)
		v.render()
		if v.wantShot {
			v.wantShot = false
			v.screenshot()
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.String("time", v.sim.TimeDisplay()),
				zap.Stringer("interaction", v.sim.InteractionState()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if limit := v.cfg.Graphics.FPSLimit; limit > 0 {
			budget := time.Second / time.Duration(limit)
			if spent := time.Since(now); spent < budget {
				time.Sleep(budget - spent)
			}
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, ev := range v.input.Events() {
		switch ev.Type {
		case input.EventQuit:
			v.running = false
		case input.EventWindowResize:
			v.renderer.Resize(v.window.DrawableSize())
		case input.EventInteractionStart:
			v.sim.BeginInteraction()
		case input.EventInteractionEnd:
			v.sim.EndInteraction()
		case input.EventRotate:
			v.camera.HandleDrag(ev.DeltaX, ev.DeltaY)
		case input.EventPan:
			v.camera.HandlePan(ev.DeltaX, ev.DeltaY)
		case input.EventZoom:
			v.camera.HandleZoom(ev.DeltaY)
		case input.EventScrubTime:
			v.sim.ScrubTime(ev.Hours)
		case input.EventScreenshot:
			v.wantShot = true
		}
	}
}

// pollLoad hands the loaded model to the renderer and starts the
// simulation. It does nothing until the loader delivers.
func (v *Viewer) pollLoad() {
	if v.loading == nil {
		return
	}
	var res assets.Result
	select {
	case res = <-v.loading:
		v.loading = nil
	default:
		return
	}

	if res.Err != nil {
		v.loadFailed = res.Err
		v.log.Error("failed to load model", zap.String("path", v.cfg.Model.Path), zap.Error(res.Err))
		return
	}

	geometry, err := res.Model.Geometry()
	if err != nil {
		v.loadFailed = err
		v.log.Error("failed to read model geometry", zap.String("path", v.cfg.Model.Path), zap.Error(err))
		return
	}
	v.renderer.SetModel(geometry)

	center := res.Model.Bounds.Center()
	if v.cfg.Camera.Fit {
		v.camera.FitTo(center, res.Model.Bounds.Size())
	} else {
		v.camera.Retarget(center)
	}
	v.sim.Ready(center)
}

func (v *Viewer) pollReload() {
	select {
	case cfg := <-v.reloads:
		v.applyConfig(cfg)
	default:
	}
}

// applyConfig applies tuning that can change at runtime. Window size,
// shadow map resolution and the model path need a restart.
func (v *Viewer) applyConfig(cfg *config.Config) {
	v.cfg.Simulation = cfg.Simulation
	v.cfg.Lighting = cfg.Lighting
	v.cfg.Shadow.HalfExtent = cfg.Shadow.HalfExtent
	v.cfg.Shadow.Near = cfg.Shadow.Near
	v.cfg.Shadow.Far = cfg.Shadow.Far
	v.cfg.Shadow.Bias = cfg.Shadow.Bias
	v.cfg.Camera = cfg.Camera
	v.cfg.Graphics.FPSLimit = cfg.Graphics.FPSLimit

	v.sim.Reconfigure(sim.OptionsFromConfig(v.cfg))
	v.renderer.SetShadowCamera(v.cfg.Shadow)
	configureCamera(v.camera, v.cfg.Camera)
	v.log.Info("config reloaded", zap.String("path", v.cfgPath))
}

func (v *Viewer) update(dt float64) {
	// Tick before the camera moves: the sun aims at the target the camera
	// looked at during input handling.
	v.sim.Tick(dt, v.camera.Target)

	v.camera.AutoRotate = v.sim.IsReady() && v.sim.AutorotateAllowed()
	v.camera.Update(float32(dt))

	v.window.SetTitle(window.FormatTitle(Title, v.status()))
}

func (v *Viewer) render() {
	v.renderer.Render(renderer.View{
		View:           v.camera.ViewMatrix(),
		Projection:     v.camera.ProjectionMatrix(v.window.Aspect()),
		CameraPosition: v.camera.Position(),
		Light:          v.sim.Frame(),
	})
}

// screenshot saves the back buffer before it is swapped.
func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.SavePixels(pixels, w, h, v.sim.TimeDisplay())
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *Viewer) status() window.Status {
	return statusFor(v.sim, v.cfg.Simulation.DayCycle, v.progress.Load(), v.loadFailed)
}

// statusFor describes the viewer state for the title bar.
func statusFor(s *sim.Simulation, dayCycle bool, progress *assets.Progress, loadErr error) window.Status {
	st := window.Status{
		Time:     s.TimeDisplay(),
		Paused:   !s.AutorotateAllowed(),
		FixedSun: !dayCycle,
	}
	switch {
	case loadErr != nil:
		st.Loading = "failed to load model"
	case !s.IsReady() && progress != nil:
		st.Loading = progress.String()
	case !s.IsReady():
		st.Loading = "loading model"
	}
	return st
}

// configureCamera applies camera settings from config.
func configureCamera(c *camera.Orbit, cc config.CameraConfig) {
	c.AutoRotateSpeed = cc.AutoRotateSpeed
	c.DampingFactor = cc.Damping
	if cc.FovDegrees > 0 {
		c.FovY = cc.FovDegrees * math32.Pi / 180
	}
}

// Close stops background work and releases the window and GPU resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	v.cancel()

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
