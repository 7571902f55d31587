// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/tile2d"
	"github.com/gogpu/tile2d/internal/wgsl"
)

// init registers the headless driver on package import.
func init() {
	Register(DriverHeadless, func() tile2d.Driver {
		return NewHeadless()
	})
}

// HeadlessOption configures a headless driver.
type HeadlessOption func(*Headless)

// WithOpenError makes Open fail with err, simulating a platform without a
// usable GPU.
func WithOpenError(err error) HeadlessOption {
	return func(h *Headless) { h.openErr = err }
}

// WithoutValidation skips naga IR validation and SPIR-V generation of shader
// sources. Parsing, reflection and link checks still run.
func WithoutValidation() HeadlessOption {
	return func(h *Headless) { h.validate = false }
}

// WithInfo overrides the reported driver info.
func WithInfo(info tile2d.DriverInfo) HeadlessOption {
	return func(h *Headless) { h.info = info }
}

// Headless is an in-memory tile2d.Driver.
//
// It implements the complete driver state machine without a GPU and records
// every call for inspection. Shader sources are WGSL, compiled by naga for
// validation and reflected for attribute and uniform locations.
type Headless struct {
	recorder

	openErr  error
	validate bool
	info     tile2d.DriverInfo

	surface *HeadlessSurface
	nextID  uint32

	viewport   [4]int
	clearColor [4]float32
	caps       map[tile2d.Capability]bool
	blendSrc   tile2d.BlendFactor
	blendDst   tile2d.BlendFactor

	textures map[tile2d.TextureID]*HeadlessTexture
	units    map[int]tile2d.TextureID

	shaders  map[tile2d.ShaderID]*headlessShader
	programs map[tile2d.ProgramID]*headlessProgram
	current  tile2d.ProgramID

	attribs map[int]*attribState
	draws   []Draw
}

// HeadlessTexture is an uploaded texture.
type HeadlessTexture struct {
	Desc   tile2d.TextureDesc
	Pixels []byte
}

type headlessShader struct {
	stage  tile2d.ShaderStage
	module *wgsl.Module
	code   []byte
}

type headlessProgram struct {
	linked *wgsl.Program
	mats   map[int]mgl32.Mat4
	ints   map[int]int32
}

type attribState struct {
	enabled bool
	ptr     tile2d.AttribPointer
	set     bool
}

// NewHeadless creates a headless driver.
func NewHeadless(opts ...HeadlessOption) *Headless {
	h := &Headless{
		validate: true,
		info: tile2d.DriverInfo{
			Vendor:                 "gogpu",
			Renderer:               "tile2d headless",
			Version:                "1.0",
			ShadingLanguageVersion: "WGSL",
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.reset()
	return h
}

func (h *Headless) reset() {
	h.caps = make(map[tile2d.Capability]bool)
	h.blendSrc, h.blendDst = tile2d.FactorOne, tile2d.FactorZero
	h.textures = make(map[tile2d.TextureID]*HeadlessTexture)
	h.units = make(map[int]tile2d.TextureID)
	h.shaders = make(map[tile2d.ShaderID]*headlessShader)
	h.programs = make(map[tile2d.ProgramID]*headlessProgram)
	h.attribs = make(map[int]*attribState)
	h.current = 0
}

// Name returns "headless".
func (h *Headless) Name() string { return DriverHeadless }

// ShadingLanguage returns WGSL.
func (h *Headless) ShadingLanguage() tile2d.ShadingLanguage { return tile2d.LanguageWGSL }

// Open creates an in-memory surface of the requested size.
func (h *Headless) Open(cfg tile2d.SurfaceConfig) (tile2d.Surface, error) {
	h.record("Open", "%dx%d", cfg.Width, cfg.Height)
	if h.openErr != nil {
		return nil, h.openErr
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("backend: invalid surface size %dx%d", cfg.Width, cfg.Height)
	}
	h.surface = &HeadlessSurface{width: cfg.Width, height: cfg.Height, config: cfg}
	h.viewport = [4]int{0, 0, cfg.Width, cfg.Height}
	return h.surface, nil
}

// Info returns the driver info.
func (h *Headless) Info() tile2d.DriverInfo { return h.info }

// Close releases every remaining object.
func (h *Headless) Close() {
	h.record("Close", "")
	h.reset()
	h.surface = nil
}

// Surface returns the surface created by Open, or nil.
func (h *Headless) Surface() *HeadlessSurface { return h.surface }

func (h *Headless) Viewport(x, y, width, height int) {
	h.record("Viewport", "%d %d %d %d", x, y, width, height)
	h.viewport = [4]int{x, y, width, height}
}

// ViewportRect returns the current viewport.
func (h *Headless) ViewportRect() (x, y, width, height int) {
	return h.viewport[0], h.viewport[1], h.viewport[2], h.viewport[3]
}

func (h *Headless) ClearColor(r, g, b, a float32) {
	h.record("ClearColor", "%g %g %g %g", r, g, b, a)
	h.clearColor = [4]float32{r, g, b, a}
}

func (h *Headless) SetCapability(c tile2d.Capability, enabled bool) {
	h.record("SetCapability", "%d %t", c, enabled)
	h.caps[c] = enabled
}

// Enabled reports the state of a capability.
func (h *Headless) Enabled(c tile2d.Capability) bool { return h.caps[c] }

func (h *Headless) BlendFunc(src, dst tile2d.BlendFactor) {
	h.record("BlendFunc", "%v %v", src, dst)
	h.blendSrc, h.blendDst = src, dst
}

// Blend returns the current blend factors.
func (h *Headless) Blend() (src, dst tile2d.BlendFactor) { return h.blendSrc, h.blendDst }

func (h *Headless) Clear() {
	h.record("Clear", "")
	if h.surface != nil {
		h.surface.clears++
	}
}

func (h *Headless) CreateTexture(desc tile2d.TextureDesc, pixels []byte) (tile2d.TextureID, error) {
	h.record("CreateTexture", "%s %dx%d", desc.Label, desc.Width, desc.Height)
	if desc.Width <= 0 || desc.Height <= 0 {
		return 0, fmt.Errorf("backend: invalid texture size %dx%d", desc.Width, desc.Height)
	}
	if want := desc.Width * desc.Height * desc.Format.BytesPerPixel(); len(pixels) != want {
		return 0, fmt.Errorf("backend: texture %q has %d bytes, want %d", desc.Label, len(pixels), want)
	}
	id := tile2d.TextureID(h.newID())
	h.textures[id] = &HeadlessTexture{Desc: desc, Pixels: slices.Clone(pixels)}
	return id, nil
}

func (h *Headless) DeleteTexture(id tile2d.TextureID) {
	h.record("DeleteTexture", "%d", id)
	delete(h.textures, id)
	for unit, bound := range h.units {
		if bound == id {
			delete(h.units, unit)
		}
	}
}

// Texture returns a live texture.
func (h *Headless) Texture(id tile2d.TextureID) (*HeadlessTexture, bool) {
	t, ok := h.textures[id]
	return t, ok
}

// TextureCount returns the number of live textures.
func (h *Headless) TextureCount() int { return len(h.textures) }

func (h *Headless) BindTexture(unit int, id tile2d.TextureID) {
	h.record("BindTexture", "%d %d", unit, id)
	if id == 0 {
		delete(h.units, unit)
		return
	}
	h.units[unit] = id
}

// BoundTexture returns the texture bound to unit.
func (h *Headless) BoundTexture(unit int) tile2d.TextureID { return h.units[unit] }

func (h *Headless) SetTextureFilter(linear bool) {
	h.record("SetTextureFilter", "%t", linear)
	if t, ok := h.textures[h.units[0]]; ok {
		t.Desc.Linear = linear
	}
}

func (h *Headless) CompileShader(stage tile2d.ShaderStage, source string) (tile2d.ShaderID, error) {
	h.record("CompileShader", "%v", stage)

	mod, err := wgsl.Reflect(source)
	if err != nil {
		return 0, &tile2d.CompileError{Stage: stage, Log: err.Error()}
	}
	var code []byte
	if h.validate {
		if err := mod.Validate(); err != nil {
			return 0, &tile2d.CompileError{Stage: stage, Log: err.Error()}
		}
		code, err = naga.GenerateSPIRV(mod.IR, spirv.Options{Version: spirv.Version1_3})
		if err != nil {
			return 0, &tile2d.CompileError{Stage: stage, Log: err.Error()}
		}
	}
	if want := stageOf(stage); mod.Stage != want {
		return 0, &tile2d.CompileError{
			Stage: stage,
			Log:   fmt.Sprintf("entry point %s is a %s entry point, want %s", mod.EntryPoint, mod.Stage, want),
		}
	}

	id := tile2d.ShaderID(h.newID())
	h.shaders[id] = &headlessShader{stage: stage, module: mod, code: code}
	return id, nil
}

func (h *Headless) DeleteShader(id tile2d.ShaderID) {
	h.record("DeleteShader", "%d", id)
	delete(h.shaders, id)
}

// ShaderCode returns the SPIR-V generated for shader id. It is empty when
// the driver was created WithoutValidation.
func (h *Headless) ShaderCode(id tile2d.ShaderID) ([]byte, bool) {
	s, ok := h.shaders[id]
	if !ok {
		return nil, false
	}
	return s.code, true
}

// ShaderCount returns the number of live shader objects.
func (h *Headless) ShaderCount() int { return len(h.shaders) }

func (h *Headless) LinkProgram(vertex, fragment tile2d.ShaderID) (tile2d.ProgramID, error) {
	h.record("LinkProgram", "%d %d", vertex, fragment)
	vs, ok := h.shaders[vertex]
	if !ok {
		return 0, &tile2d.LinkError{Log: fmt.Sprintf("unknown shader %d", vertex)}
	}
	fs, ok := h.shaders[fragment]
	if !ok {
		return 0, &tile2d.LinkError{Log: fmt.Sprintf("unknown shader %d", fragment)}
	}
	linked, err := wgsl.Link(vs.module, fs.module)
	if err != nil {
		return 0, &tile2d.LinkError{Log: err.Error()}
	}

	id := tile2d.ProgramID(h.newID())
	h.programs[id] = &headlessProgram{
		linked: linked,
		mats:   make(map[int]mgl32.Mat4),
		ints:   make(map[int]int32),
	}
	return id, nil
}

func (h *Headless) DeleteProgram(id tile2d.ProgramID) {
	h.record("DeleteProgram", "%d", id)
	delete(h.programs, id)
	if h.current == id {
		h.current = 0
	}
}

// ProgramCount returns the number of live programs.
func (h *Headless) ProgramCount() int { return len(h.programs) }

func (h *Headless) AttribLocation(p tile2d.ProgramID, name string) int {
	prog, ok := h.programs[p]
	if !ok {
		return tile2d.NotFound
	}
	return prog.linked.Attribute(name)
}

func (h *Headless) UniformLocation(p tile2d.ProgramID, name string) int {
	prog, ok := h.programs[p]
	if !ok {
		return tile2d.NotFound
	}
	return prog.linked.Uniform(name)
}

func (h *Headless) UseProgram(p tile2d.ProgramID) {
	h.record("UseProgram", "%d", p)
	if _, ok := h.programs[p]; ok || p == 0 {
		h.current = p
	}
}

// CurrentProgram returns the program in use.
func (h *Headless) CurrentProgram() tile2d.ProgramID { return h.current }

func (h *Headless) UniformMatrix4(location int, m mgl32.Mat4) {
	h.record("UniformMatrix4", "%d", location)
	if prog, ok := h.programs[h.current]; ok && location >= 0 {
		prog.mats[location] = m
	}
}

func (h *Headless) Uniform1i(location int, v int32) {
	h.record("Uniform1i", "%d %d", location, v)
	if prog, ok := h.programs[h.current]; ok && location >= 0 {
		prog.ints[location] = v
	}
}

// UniformInt returns the last integer uploaded to location of program p.
func (h *Headless) UniformInt(p tile2d.ProgramID, location int) (int32, bool) {
	prog, ok := h.programs[p]
	if !ok {
		return 0, false
	}
	v, ok := prog.ints[location]
	return v, ok
}

func (h *Headless) newID() uint32 {
	h.nextID++
	return h.nextID
}

func stageOf(s tile2d.ShaderStage) wgsl.Stage {
	if s == tile2d.StageFragment {
		return wgsl.StageFragment
	}
	return wgsl.StageVertex
}

// HeadlessSurface is the in-memory surface of a headless driver.
type HeadlessSurface struct {
	config        tile2d.SurfaceConfig
	width, height int
	frames        int
	clears        int
	destroyed     bool
	onResize      func(width, height int)
}

// Size returns the surface size.
func (s *HeadlessSurface) Size() (int, int) { return s.width, s.height }

// Resize changes the surface size, as a window resize would, and runs the
// OnResize callback.
func (s *HeadlessSurface) Resize(width, height int) {
	s.width, s.height = width, height
	if s.onResize != nil {
		s.onResize(width, height)
	}
}

// OnResize sets the callback run by Resize.
func (s *HeadlessSurface) OnResize(fn func(width, height int)) { s.onResize = fn }

// Present counts a presented frame.
func (s *HeadlessSurface) Present() error {
	if s.destroyed {
		return fmt.Errorf("backend: present on destroyed surface")
	}
	s.frames++
	return nil
}

// Destroy marks the surface destroyed.
func (s *HeadlessSurface) Destroy() { s.destroyed = true }

// Frames returns the number of presented frames.
func (s *HeadlessSurface) Frames() int { return s.frames }

// Clears returns the number of color clears.
func (s *HeadlessSurface) Clears() int { return s.clears }

// Destroyed reports whether Destroy was called.
func (s *HeadlessSurface) Destroyed() bool { return s.destroyed }

// Config returns the configuration the surface was opened with.
func (s *HeadlessSurface) Config() tile2d.SurfaceConfig { return s.config }
