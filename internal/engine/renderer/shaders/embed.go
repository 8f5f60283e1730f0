// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LitVertexShader transforms world-space model vertices for the lit pass.
//
//go:embed lit.vert
var LitVertexShader string

// LitFragmentShader shades the model with sun, ambient, shadow and fog.
//
//go:embed lit.frag
var LitFragmentShader string

// DepthVertexShader renders the model from the sun into the shadow map.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader is empty; only depth is written.
//
//go:embed depth.frag
var DepthFragmentShader string

// MarkerVertexShader places the sun marker sphere.
//
//go:embed marker.vert
var MarkerVertexShader string

// MarkerFragmentShader draws the marker unlit.
//
//go:embed marker.frag
var MarkerFragmentShader string
