// Package shadow provides the sun's shadow camera and its depth map.
package shadow

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/daylight/internal/engine/lighting"
	"github.com/Faultbox/daylight/pkg/math"
)

// Depth map resolution limits in texels.
const (
	DefaultResolution = 4096
	MaxResolution     = 8192
)

// Resolution returns the depth map size used for a configured MapSize.
func Resolution(size int32) int32 {
	switch {
	case size <= 0:
		return DefaultResolution
	case size > MaxResolution:
		return MaxResolution
	}
	return size
}

// Casts reports whether the sun in f should cast shadows at all. At the
// day's edges the sun is off and the depth pass is skipped.
func Casts(f lighting.Frame) bool {
	return f.SunIntensity > 0
}

// Map is the sun's depth map together with the shadow camera that fills
// it. The zero value is an invalid map that never renders.
type Map struct {
	cam  Camera
	size int32

	fbo   uint32
	depth uint32

	// Viewport to restore after the depth pass.
	viewport [4]int32
}

// NewMap allocates the depth map for cam. The resolution is fixed here;
// later camera changes only move the frustum. A GL context must be current.
func NewMap(cam Camera) (*Map, error) {
	m := &Map{cam: cam, size: Resolution(cam.MapSize)}

	gl.GenTextures(1, &m.depth)
	gl.BindTexture(gl.TEXTURE_2D, m.depth)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, m.size, m.size, 0,
		gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// Ground outside the shadow camera stays lit.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])

	// Hardware comparison for the sampler2DShadow PCF taps.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &m.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, m.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, m.depth, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		m.Destroy()
		return nil, fmt.Errorf("shadow map %dx%d incomplete: status 0x%x", m.size, m.size, status)
	}
	return m, nil
}

// Camera returns the shadow camera in use.
func (m *Map) Camera() Camera {
	return m.cam
}

// SetCamera moves the shadow frustum and changes the bias. MapSize is
// ignored because the texture is already allocated.
func (m *Map) SetCamera(cam Camera) {
	cam.MapSize = m.size
	m.cam = cam
}

// Size returns the depth map resolution.
func (m *Map) Size() int32 {
	return m.size
}

// IsValid reports whether the map has GPU resources.
func (m *Map) IsValid() bool {
	return m != nil && m.fbo != 0 && m.depth != 0
}

// Render runs the depth pass for f. draw is called once with the light
// view-projection bound as the target framebuffer. The matrix is returned
// either way so the lit pass can use it; ok is false when no depth was
// written this frame.
func (m *Map) Render(f lighting.Frame, draw func(lightViewProj math.Mat4)) (lightViewProj math.Mat4, ok bool) {
	lightViewProj = LightMatrix(f, m.cam)
	if !m.IsValid() || !Casts(f) {
		return lightViewProj, false
	}

	gl.GetIntegerv(gl.VIEWPORT, &m.viewport[0])
	gl.BindFramebuffer(gl.FRAMEBUFFER, m.fbo)
	gl.Viewport(0, 0, m.size, m.size)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	// Front faces cast; back faces are culled.
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	draw(lightViewProj)

	// The lit pass draws two-sided.
	gl.Disable(gl.CULL_FACE)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(m.viewport[0], m.viewport[1], m.viewport[2], m.viewport[3])
	return lightViewProj, true
}

// Sample binds the depth texture to a texture unit such as gl.TEXTURE1.
func (m *Map) Sample(unit uint32) {
	gl.ActiveTexture(unit)
	gl.BindTexture(gl.TEXTURE_2D, m.depth)
}

// Destroy releases the GPU resources. The map is invalid afterwards.
func (m *Map) Destroy() {
	if m.fbo != 0 {
		gl.DeleteFramebuffers(1, &m.fbo)
		m.fbo = 0
	}
	if m.depth != 0 {
		gl.DeleteTextures(1, &m.depth)
		m.depth = 0
	}
}
