// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tile2d

import "github.com/go-gl/mathgl/mgl32"

// ShadingLanguage names the source language a driver compiles.
// Built-in shader sources are stored per language.
type ShadingLanguage string

const (
	LanguageWGSL    ShadingLanguage = "wgsl"
	LanguageGLSL120 ShadingLanguage = "glsl120"
)

// ShaderStage is a programmable pipeline stage.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
)

// String returns the stage name.
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Opaque driver object names. Zero is never a valid name.
type (
	TextureID uint32
	ShaderID  uint32
	ProgramID uint32
)

// TextureFormat is the pixel layout of an uploaded texture.
type TextureFormat uint8

const (
	// FormatRGBA8 is four bytes per pixel, straight alpha.
	FormatRGBA8 TextureFormat = iota
	// FormatR8 is one byte per pixel, used for split alpha planes.
	FormatR8
)

// BytesPerPixel returns the pixel size of f.
func (f TextureFormat) BytesPerPixel() int {
	if f == FormatR8 {
		return 1
	}
	return 4
}

// TextureDesc describes a texture upload.
type TextureDesc struct {
	Label  string
	Width  int
	Height int
	Format TextureFormat
	// Linear selects bilinear filtering; nearest otherwise.
	Linear bool
}

// Capability is a fixed-function switch.
type Capability uint8

const (
	CapBlend Capability = iota
	CapDepthTest
)

// AttribType is the component type of a vertex attribute stream.
type AttribType uint8

const (
	AttribFloat32 AttribType = iota
	AttribUint8
)

// AttribPointer describes one interleaved vertex attribute stream.
type AttribPointer struct {
	Size       int // components per vertex
	Type       AttribType
	Normalized bool
	Stride     int
	Offset     int
	Data       []byte
}

// SurfaceConfig describes the renderable surface requested from a driver.
type SurfaceConfig struct {
	Title      string
	Width      int
	Height     int
	ColorDepth int
	Fullscreen bool
}

// DriverInfo identifies the GPU and API behind a driver.
type DriverInfo struct {
	Vendor                 string
	Renderer               string
	Version                string
	ShadingLanguageVersion string
}

// Surface is the renderable surface bound to a window or offscreen target.
type Surface interface {
	// Size returns the current drawable size in pixels.
	Size() (width, height int)

	// Present shows the frame rendered since the previous Present.
	Present() error

	// Destroy releases the surface. The driver stays open.
	Destroy()
}

// Driver is the GPU command interface used by the device, the texture
// registry and shader programs.
//
// A driver is an explicit state machine: bound texture, current program,
// blend factors and enabled attribute streams persist until changed.
// Calls are made from a single goroutine.
type Driver interface {
	// Name returns the registry name of the driver.
	Name() string

	// ShadingLanguage returns the language CompileShader accepts.
	ShadingLanguage() ShadingLanguage

	// Open creates the rendering surface and context.
	Open(cfg SurfaceConfig) (Surface, error)

	// Info describes the GPU. Valid after Open.
	Info() DriverInfo

	// Close releases the context and every remaining driver object.
	Close()

	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	SetCapability(c Capability, enabled bool)
	BlendFunc(src, dst BlendFactor)

	// Clear clears the color buffer.
	Clear()

	CreateTexture(desc TextureDesc, pixels []byte) (TextureID, error)
	DeleteTexture(id TextureID)
	BindTexture(unit int, id TextureID)

	// SetTextureFilter changes the filtering of the texture bound to unit 0.
	SetTextureFilter(linear bool)

	CompileShader(stage ShaderStage, source string) (ShaderID, error)
	DeleteShader(id ShaderID)
	LinkProgram(vertex, fragment ShaderID) (ProgramID, error)
	DeleteProgram(id ProgramID)

	// AttribLocation and UniformLocation return NotFound for unknown names.
	AttribLocation(p ProgramID, name string) int
	UniformLocation(p ProgramID, name string) int

	UseProgram(p ProgramID)
	UniformMatrix4(location int, m mgl32.Mat4)
	Uniform1i(location int, v int32)

	EnableVertexAttrib(location int)
	DisableVertexAttrib(location int)
	VertexAttribPointer(location int, ptr AttribPointer)

	// DrawArrays draws count vertices starting at first from the enabled
	// attribute streams with the current program.
	DrawArrays(p Primitive, first, count int) error
}
