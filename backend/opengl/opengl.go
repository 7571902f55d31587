// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build glfw

package opengl

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/tile2d"
	"github.com/gogpu/tile2d/backend"
)

// ErrWindowClosed is returned by Present once the user closed the window.
var ErrWindowClosed = errors.New("opengl: window closed")

func init() {
	runtime.LockOSThread()
	backend.Register(backend.DriverOpenGL, func() tile2d.Driver {
		return New()
	})
}

// GL is a tile2d.Driver on an OpenGL 2.1 context.
//
// Texture, shader and program IDs are the GL object names.
type GL struct {
	surface *Surface

	// stream is the vertex buffer attribute pointers read from. It is
	// re-uploaded when a pointer names different bytes.
	stream     uint32
	streamData []byte

	// white is bound in place of texture 0.
	white uint32
}

// New creates an OpenGL driver. The window is created by Open.
func New() *GL { return &GL{} }

// Name returns "opengl".
func (g *GL) Name() string { return backend.DriverOpenGL }

// ShadingLanguage returns GLSL 1.20.
func (g *GL) ShadingLanguage() tile2d.ShadingLanguage { return tile2d.LanguageGLSL120 }

// Open creates the window and its GL 2.1 context.
func (g *GL) Open(cfg tile2d.SurfaceConfig) (tile2d.Surface, error) {
	if g.surface != nil {
		return nil, fmt.Errorf("opengl: already open")
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("opengl: init glfw: %w", err)
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 0)
	for hint, bits := range colorBits(cfg.ColorDepth) {
		glfw.WindowHint(hint, bits)
	}
	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}
	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("opengl: create window: %w", err)
	}
	win.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("opengl: init gl: %w", err)
	}
	glfw.SwapInterval(1)

	gl.GenBuffers(1, &g.stream)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	g.surface = newSurface(win, cfg)
	white, err := g.CreateTexture(tile2d.TextureDesc{
		Label:  "tile2d_white",
		Width:  1,
		Height: 1,
		Format: tile2d.FormatRGBA8,
	}, []byte{255, 255, 255, 255})
	if err != nil {
		g.Close()
		return nil, err
	}
	g.white = uint32(white)
	g.BindTexture(tile2d.AlphaUnit, 0)

	tile2d.Logger().Info("opengl: window created",
		"width", cfg.Width,
		"height", cfg.Height,
		"depth", cfg.ColorDepth,
		"fullscreen", cfg.Fullscreen,
	)
	return g.surface, nil
}

// colorBits maps a color depth to framebuffer channel sizes. Unknown
// depths keep the GLFW defaults.
func colorBits(depth int) map[glfw.Hint]int {
	switch depth {
	case 16:
		return map[glfw.Hint]int{glfw.RedBits: 5, glfw.GreenBits: 6, glfw.BlueBits: 5, glfw.AlphaBits: 0}
	case 24:
		return map[glfw.Hint]int{glfw.RedBits: 8, glfw.GreenBits: 8, glfw.BlueBits: 8, glfw.AlphaBits: 0}
	case 32:
		return map[glfw.Hint]int{glfw.RedBits: 8, glfw.GreenBits: 8, glfw.BlueBits: 8, glfw.AlphaBits: 8}
	default:
		return nil
	}
}

// Info queries the GL strings of the current context.
func (g *GL) Info() tile2d.DriverInfo {
	return tile2d.DriverInfo{
		Vendor:                 gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:               gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:                gl.GoStr(gl.GetString(gl.VERSION)),
		ShadingLanguageVersion: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
}

// Close destroys the window and terminates GLFW.
func (g *GL) Close() {
	if g.surface == nil {
		return
	}
	if g.stream != 0 {
		gl.DeleteBuffers(1, &g.stream)
		g.stream, g.streamData = 0, nil
	}
	if g.white != 0 {
		gl.DeleteTextures(1, &g.white)
		g.white = 0
	}
	g.surface.Destroy()
	g.surface = nil
	glfw.Terminate()
}

func (g *GL) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height)) //nolint:gosec // window sizes fit int32
}

func (g *GL) ClearColor(r, gr, b, a float32) { gl.ClearColor(r, gr, b, a) }

func (g *GL) SetCapability(c tile2d.Capability, enabled bool) {
	var glCap uint32
	switch c {
	case tile2d.CapBlend:
		glCap = gl.BLEND
	case tile2d.CapDepthTest:
		glCap = gl.DEPTH_TEST
	default:
		return
	}
	if enabled {
		gl.Enable(glCap)
	} else {
		gl.Disable(glCap)
	}
}

func (g *GL) BlendFunc(src, dst tile2d.BlendFactor) {
	gl.BlendFunc(blendFactor(src), blendFactor(dst))
}

func blendFactor(f tile2d.BlendFactor) uint32 {
	switch f {
	case tile2d.FactorZero:
		return gl.ZERO
	case tile2d.FactorSrcAlpha:
		return gl.SRC_ALPHA
	case tile2d.FactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case tile2d.FactorDstAlpha:
		return gl.DST_ALPHA
	default:
		return gl.ONE
	}
}

// Clear clears the color buffer.
func (g *GL) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT) }

func (g *GL) CreateTexture(desc tile2d.TextureDesc, pixels []byte) (tile2d.TextureID, error) {
	if g.surface == nil {
		return 0, backend.ErrNotOpen
	}
	if want := desc.Width * desc.Height * desc.Format.BytesPerPixel(); want == 0 || len(pixels) != want {
		return 0, fmt.Errorf("opengl: texture %q has %d bytes, want %d", desc.Label, len(pixels), want)
	}
	format := int32(gl.RGBA)
	if desc.Format == tile2d.FormatR8 {
		format = gl.LUMINANCE
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	setFilter(desc.Linear)
	gl.TexImage2D(gl.TEXTURE_2D, 0, format,
		int32(desc.Width), int32(desc.Height), 0, //nolint:gosec // image sizes fit int32
		uint32(format), gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return 0, fmt.Errorf("opengl: upload texture %q: error 0x%x", desc.Label, code)
	}
	return tile2d.TextureID(tex), nil
}

func (g *GL) DeleteTexture(id tile2d.TextureID) {
	tex := uint32(id)
	gl.DeleteTextures(1, &tex)
}

// BindTexture binds id to unit. Texture 0 binds an opaque white texture,
// so an empty alpha unit leaves sampled colors unchanged.
func (g *GL) BindTexture(unit int, id tile2d.TextureID) {
	tex := uint32(id)
	if tex == 0 {
		tex = g.white
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit)) //nolint:gosec // small unit index
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.ActiveTexture(gl.TEXTURE0)
}

// SetTextureFilter sets the filter of the texture bound to unit 0.
func (g *GL) SetTextureFilter(linear bool) { setFilter(linear) }

func setFilter(linear bool) {
	filter := int32(gl.NEAREST)
	if linear {
		filter = gl.LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
}

func (g *GL) CompileShader(stage tile2d.ShaderStage, source string) (tile2d.ShaderID, error) {
	typ := uint32(gl.VERTEX_SHADER)
	if stage == tile2d.StageFragment {
		typ = gl.FRAGMENT_SHADER
	}
	sh := gl.CreateShader(typ)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csources, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(sh, logLength, nil, gl.Str(msg))
		gl.DeleteShader(sh)
		return 0, &tile2d.CompileError{Stage: stage, Log: strings.TrimRight(msg, "\x00")}
	}
	return tile2d.ShaderID(sh), nil
}

func (g *GL) DeleteShader(id tile2d.ShaderID) { gl.DeleteShader(uint32(id)) }

func (g *GL) LinkProgram(vertex, fragment tile2d.ShaderID) (tile2d.ProgramID, error) {
	p := gl.CreateProgram()
	gl.AttachShader(p, uint32(vertex))
	gl.AttachShader(p, uint32(fragment))
	gl.LinkProgram(p)

	var status int32
	gl.GetProgramiv(p, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(p, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(p, logLength, nil, gl.Str(msg))
		gl.DeleteProgram(p)
		return 0, &tile2d.LinkError{Log: strings.TrimRight(msg, "\x00")}
	}
	return tile2d.ProgramID(p), nil
}

func (g *GL) DeleteProgram(id tile2d.ProgramID) { gl.DeleteProgram(uint32(id)) }

func (g *GL) AttribLocation(p tile2d.ProgramID, name string) int {
	return int(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

func (g *GL) UniformLocation(p tile2d.ProgramID, name string) int {
	return int(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (g *GL) UseProgram(p tile2d.ProgramID) { gl.UseProgram(uint32(p)) }

func (g *GL) UniformMatrix4(location int, m mgl32.Mat4) {
	gl.UniformMatrix4fv(int32(location), 1, false, &m[0]) //nolint:gosec // GL location
}

func (g *GL) Uniform1i(location int, v int32) {
	gl.Uniform1i(int32(location), v) //nolint:gosec // GL location
}

func (g *GL) EnableVertexAttrib(location int) {
	gl.EnableVertexAttribArray(uint32(location)) //nolint:gosec // GL location
}

func (g *GL) DisableVertexAttrib(location int) {
	gl.DisableVertexAttribArray(uint32(location)) //nolint:gosec // GL location
}

// VertexAttribPointer points location into the stream buffer, uploading
// ptr.Data when it is not the stream's current content.
func (g *GL) VertexAttribPointer(location int, ptr tile2d.AttribPointer) {
	if len(ptr.Data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, g.stream)
	if len(g.streamData) != len(ptr.Data) || unsafe.SliceData(g.streamData) != unsafe.SliceData(ptr.Data) {
		gl.BufferData(gl.ARRAY_BUFFER, len(ptr.Data), gl.Ptr(ptr.Data), gl.STREAM_DRAW)
		g.streamData = ptr.Data
	}
	typ := uint32(gl.FLOAT)
	if ptr.Type == tile2d.AttribUint8 {
		typ = gl.UNSIGNED_BYTE
	}
	gl.VertexAttribPointer(uint32(location), int32(ptr.Size), typ, ptr.Normalized, //nolint:gosec // GL location and size
		int32(ptr.Stride), gl.PtrOffset(ptr.Offset)) //nolint:gosec // small stride
}

func (g *GL) DrawArrays(p tile2d.Primitive, first, count int) error {
	var mode uint32
	switch p {
	case tile2d.LineList:
		mode = gl.LINES
	case tile2d.LineStrip:
		mode = gl.LINE_STRIP
	case tile2d.TriangleList:
		mode = gl.TRIANGLES
	case tile2d.TriangleStrip:
		mode = gl.TRIANGLE_STRIP
	default:
		return fmt.Errorf("%w: %v", tile2d.ErrInvalidPrimitive, p)
	}
	// The stream may have been re-uploaded while the caller's slice was reused.
	g.streamData = nil
	gl.DrawArrays(mode, int32(first), int32(count)) //nolint:gosec // vertex counts fit int32
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("opengl: draw %v: error 0x%x", p, code)
	}
	return nil
}
