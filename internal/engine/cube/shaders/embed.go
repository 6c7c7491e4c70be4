// Package shaders provides the embedded GLSL sources of the cube.
package shaders

import _ "embed"

// CubeVertexShader transforms the cube and computes per-vertex lighting.
//
//go:embed cube.vert
var CubeVertexShader string

// CubeFragmentShader samples the face texture and applies the lighting.
//
//go:embed cube.frag
var CubeFragmentShader string
