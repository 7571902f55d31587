// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tile2d

// ProgramKind identifies one of the fixed shader programs.
type ProgramKind uint8

const (
	// ProgramNone is the state before any program has been activated.
	ProgramNone ProgramKind = iota
	// ProgramColor draws flat vertex colors.
	ProgramColor
	// ProgramTexture samples the bound texture modulated by vertex color.
	ProgramTexture
	// ProgramRender is the textured program with an elapsed-time uniform.
	ProgramRender
)

// ProgramKinds lists the loadable programs in load order.
var ProgramKinds = [...]ProgramKind{ProgramColor, ProgramTexture, ProgramRender}

// String returns the program name, which is also its source file stem.
func (k ProgramKind) String() string {
	switch k {
	case ProgramNone:
		return "none"
	case ProgramColor:
		return "color"
	case ProgramTexture:
		return "texture"
	case ProgramRender:
		return "render"
	default:
		return "unknown"
	}
}

// Textured reports whether programs of kind k read a texture coordinate.
func (k ProgramKind) Textured() bool {
	return k == ProgramTexture || k == ProgramRender
}

// Timed reports whether programs of kind k read the elapsed-time uniform.
func (k ProgramKind) Timed() bool {
	return k == ProgramRender
}

// Attribute and uniform names shared by every shading language.
const (
	AttribPosition = "a_Position"
	AttribColor    = "a_Color"
	AttribTexCoord = "a_Texcoord0"
	UniformMVP     = "u_MVPMatrix"
	UniformTime    = "u_Time"

	// SamplerAlpha is the sampler uniform of the split alpha plane in
	// languages that assign texture units through uniforms.
	SamplerAlpha = "s_alpha"
)

// AlphaUnit is the texture unit of the split alpha plane. Drivers sample
// opaque white from it when nothing is bound.
const AlphaUnit = 1

// Constants baked into the render program before compilation.
const (
	ConstWindowWidth  = "c_WindowWidth"
	ConstWindowHeight = "c_WindowHeight"
)

// NotFound is the location reported for an unknown attribute or uniform.
const NotFound = -1
