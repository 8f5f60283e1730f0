// Package renderer draws the model under the current lighting frame.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/daylight/internal/assets"
	"github.com/Faultbox/daylight/internal/engine/lighting"
	"github.com/Faultbox/daylight/internal/engine/renderer/shaders"
	"github.com/Faultbox/daylight/internal/engine/shader"
	"github.com/Faultbox/daylight/internal/engine/shadow"
	"github.com/Faultbox/daylight/internal/logger"
	"github.com/Faultbox/daylight/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width   int
	Height  int
	Shadows bool
	Shadow  shadow.Camera
	Style   Style
}

// View is everything needed to draw one frame.
type View struct {
	View           math.Mat4
	Projection     math.Mat4
	CameraPosition math.Vec3
	Light          lighting.Frame
}

// Renderer owns the GPU programs, meshes and the shadow map.
type Renderer struct {
	config Config
	log    *zap.Logger

	lit    *shader.Program
	depth  *shader.Program
	marker *shader.Program

	model *mesh
	sun   *mesh

	shadowMap *shadow.Map
}

// New creates a renderer. A GL context must be current.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	var err error
	if r.lit, err = shader.New("lit", shaders.LitVertexShader, shaders.LitFragmentShader); err != nil {
		r.Close()
		return nil, err
	}
	if r.depth, err = shader.New("depth", shaders.DepthVertexShader, shaders.DepthFragmentShader); err != nil {
		r.Close()
		return nil, err
	}
	if r.marker, err = shader.New("marker", shaders.MarkerVertexShader, shaders.MarkerFragmentShader); err != nil {
		r.Close()
		return nil, err
	}

	r.sun = newMesh(Sphere(cfg.Style.MarkerRadius, 32, 32))

	if cfg.Shadows {
		r.shadowMap, err = shadow.NewMap(cfg.Shadow)
		if err != nil {
			// The viewer still works without shadows.
			r.log.Warn("shadows disabled", zap.Error(err))
			r.shadowMap = nil
		}
	}

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close frees all GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.model != nil {
		r.model.destroy()
		r.model = nil
	}
	if r.sun != nil {
		r.sun.destroy()
		r.sun = nil
	}
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
		r.shadowMap = nil
	}
	for _, p := range []*shader.Program{r.lit, r.depth, r.marker} {
		if p != nil {
			p.Delete()
		}
	}
}

// SetModel uploads the model geometry, replacing any previous model.
func (r *Renderer) SetModel(g *assets.Geometry) {
	if r.model != nil {
		r.model.destroy()
	}
	r.model = newMesh(g)
	r.log.Info("model uploaded",
		zap.Int("vertices", g.VertexCount()),
		zap.Int("triangles", g.TriangleCount()),
	)
}

// SetStyle changes colours, fog and exposure.
func (r *Renderer) SetStyle(s Style) {
	r.config.Style = s
}

// SetShadowCamera changes the shadow camera bounds and bias. The map
// resolution is fixed at creation.
func (r *Renderer) SetShadowCamera(cam shadow.Camera) {
	r.config.Shadow = cam
	if r.shadowMap != nil {
		r.shadowMap.SetCamera(cam)
	}
}

// ShadowsEnabled reports whether a shadow map is in use.
func (r *Renderer) ShadowsEnabled() bool {
	return r.shadowMap.IsValid()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// ReadPixels reads back the default framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// Render draws one frame: the shadow pass from the sun, then the lit model
// and the sun marker. Before a model is set only the sky is drawn.
func (r *Renderer) Render(v View) {
	style := r.config.Style
	lightViewProj := shadow.LightMatrix(v.Light, r.config.Shadow)
	shadows := false
	if r.model != nil && r.shadowMap.IsValid() {
		lightViewProj, shadows = r.shadowMap.Render(v.Light, func(m math.Mat4) {
			r.depth.Use()
			r.depth.SetMat4("uLightViewProj", m)
			r.model.draw()
		})
	}

	sky := style.FogColor
	gl.ClearColor(sky.X, sky.Y, sky.Z, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	viewProj := v.Projection.Mul(v.View)

	if r.model != nil {
		r.lit.Use()
		r.lit.SetMat4("uViewProj", viewProj)
		r.lit.SetMat4("uLightViewProj", lightViewProj)
		r.lit.SetVec3("uSunDir", v.Light.SunDirection)
		r.lit.SetVec3("uSunColor", style.SunColor)
		r.lit.SetFloat("uSunIntensity", v.Light.SunIntensity)
		r.lit.SetFloat("uAmbient", v.Light.AmbientIntensity)
		r.lit.SetVec3("uAlbedo", style.Albedo)
		r.lit.SetVec3("uCameraPos", v.CameraPosition)
		r.lit.SetVec3("uFogColor", style.FogColor)
		r.lit.SetFloat("uFogDensity", style.FogDensity)
		r.lit.SetFloat("uExposure", style.Exposure)
		r.lit.SetFloat("uShadowBias", r.config.Shadow.Bias)
		r.lit.SetBool("uShadowsEnabled", shadows)
		if r.shadowMap.IsValid() {
			r.shadowMap.Sample(gl.TEXTURE1)
			r.lit.SetInt("uShadowMap", 1)
		}
		r.model.draw()

		r.marker.Use()
		r.marker.SetMat4("uViewProj", viewProj)
		r.marker.SetVec3("uOffset", v.Light.MarkerPosition)
		r.marker.SetVec3("uColor", style.MarkerColor)
		r.sun.draw()
	}
}
