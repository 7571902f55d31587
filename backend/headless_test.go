// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/tile2d"
)

const testVertex = `
struct Uniforms {
    u_MVPMatrix: mat4x4<f32>,
}

@group(0) @binding(0) var<uniform> u: Uniforms;

struct VertexInput {
    @location(0) a_Position: vec2<f32>,
    @location(1) a_Color: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.position = u.u_MVPMatrix * vec4<f32>(in.a_Position, 0.0, 1.0);
    out.color = in.a_Color;
    return out;
}
`

const testFragment = `
struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return in.color;
}
`

func openHeadless(t *testing.T, opts ...HeadlessOption) *Headless {
	t.Helper()
	h := NewHeadless(opts...)
	if _, err := h.Open(tile2d.SurfaceConfig{Width: 800, Height: 600}); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(h.Close)
	return h
}

func linkTestProgram(t *testing.T, h *Headless) tile2d.ProgramID {
	t.Helper()
	vs, err := h.CompileShader(tile2d.StageVertex, testVertex)
	if err != nil {
		t.Fatalf("CompileShader(vertex) error = %v", err)
	}
	fs, err := h.CompileShader(tile2d.StageFragment, testFragment)
	if err != nil {
		t.Fatalf("CompileShader(fragment) error = %v", err)
	}
	p, err := h.LinkProgram(vs, fs)
	if err != nil {
		t.Fatalf("LinkProgram() error = %v", err)
	}
	return p
}

func TestHeadlessOpen(t *testing.T) {
	h := NewHeadless()
	s, err := h.Open(tile2d.SurfaceConfig{Title: "test", Width: 320, Height: 200})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if w, hh := s.Size(); w != 320 || hh != 200 {
		t.Errorf("Size() = %dx%d, want 320x200", w, hh)
	}
	if err := s.Present(); err != nil {
		t.Errorf("Present() error = %v", err)
	}
	if h.Surface().Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", h.Surface().Frames())
	}
	s.Destroy()
	if err := s.Present(); err == nil {
		t.Error("Present() after Destroy should fail")
	}

	if _, err := NewHeadless().Open(tile2d.SurfaceConfig{}); err == nil {
		t.Error("Open() with zero size should fail")
	}

	boom := errors.New("no display")
	if _, err := NewHeadless(WithOpenError(boom)).Open(tile2d.SurfaceConfig{Width: 1, Height: 1}); !errors.Is(err, boom) {
		t.Errorf("Open() error = %v, want %v", err, boom)
	}
}

func TestHeadlessCompileErrors(t *testing.T) {
	h := openHeadless(t)

	tests := []struct {
		name  string
		stage tile2d.ShaderStage
		src   string
	}{
		{"garbage", tile2d.StageVertex, "this is not wgsl"},
		{"wrong stage", tile2d.StageFragment, testVertex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.CompileShader(tt.stage, tt.src)
			if !errors.Is(err, tile2d.ErrShaderCompile) {
				t.Fatalf("CompileShader() error = %v, want ErrShaderCompile", err)
			}
			var ce *tile2d.CompileError
			if !errors.As(err, &ce) || ce.Log == "" {
				t.Errorf("CompileShader() error = %#v, want a CompileError with a log", err)
			}
		})
	}
}

func TestHeadlessLinkError(t *testing.T) {
	h := openHeadless(t, WithoutValidation())
	vs, err := h.CompileShader(tile2d.StageVertex, testVertex)
	if err != nil {
		t.Fatal(err)
	}
	fs, err := h.CompileShader(tile2d.StageFragment, `
struct In { @location(4) glow: f32, }
@fragment fn fs_main(in: In) -> @location(0) vec4<f32> { return vec4<f32>(in.glow); }`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.LinkProgram(vs, fs); !errors.Is(err, tile2d.ErrShaderLink) {
		t.Errorf("LinkProgram() error = %v, want ErrShaderLink", err)
	}
	if _, err := h.LinkProgram(vs, 999); !errors.Is(err, tile2d.ErrShaderLink) {
		t.Errorf("LinkProgram(unknown) error = %v, want ErrShaderLink", err)
	}
}

func TestHeadlessLocations(t *testing.T) {
	h := openHeadless(t)
	p := linkTestProgram(t, h)

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"a_Position", h.AttribLocation(p, tile2d.AttribPosition), 0},
		{"a_Color", h.AttribLocation(p, tile2d.AttribColor), 1},
		{"a_Texcoord0", h.AttribLocation(p, tile2d.AttribTexCoord), tile2d.NotFound},
		{"u_MVPMatrix", h.UniformLocation(p, tile2d.UniformMVP), 0},
		{"u_Time", h.UniformLocation(p, tile2d.UniformTime), tile2d.NotFound},
		{"unknown program", h.AttribLocation(p+100, tile2d.AttribPosition), tile2d.NotFound},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("location of %s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestHeadlessDrawRecordsClipPositions(t *testing.T) {
	h := openHeadless(t)
	p := linkTestProgram(t, h)
	h.UseProgram(p)
	h.UniformMatrix4(0, tile2d.Ortho2D(800, 600))

	verts := []tile2d.Vertex{
		{X: 0, Y: 0, Color: color.RGBA{R: 255, A: 255}},
		{X: 800, Y: 0, Color: color.RGBA{R: 255, A: 255}},
		{X: 0, Y: 600, Color: color.RGBA{R: 255, A: 255}},
	}
	data := tile2d.VertexBytes(verts)
	h.EnableVertexAttrib(0)
	h.VertexAttribPointer(0, tile2d.AttribPointer{Size: 2, Type: tile2d.AttribFloat32, Stride: tile2d.VertexStride, Offset: tile2d.VertexPositionOffset, Data: data})
	h.EnableVertexAttrib(1)
	h.VertexAttribPointer(1, tile2d.AttribPointer{Size: 4, Type: tile2d.AttribUint8, Normalized: true, Stride: tile2d.VertexStride, Offset: tile2d.VertexColorOffset, Data: data})

	if err := h.DrawArrays(tile2d.TriangleList, 0, 3); err != nil {
		t.Fatalf("DrawArrays() error = %v", err)
	}
	d, ok := h.LastDraw()
	if !ok {
		t.Fatal("LastDraw() ok = false")
	}
	want := []mgl32.Vec2{{-1, 1}, {1, 1}, {-1, -1}}
	for i, w := range want {
		if !d.Clip[i].ApproxEqual(w) {
			t.Errorf("Clip[%d] = %v, want %v", i, d.Clip[i], w)
		}
	}
	if d.Count != 3 || d.Primitive != tile2d.TriangleList || d.Program != p {
		t.Errorf("draw = %+v, want 3 TriangleList vertices with program %d", d, p)
	}
	if h.Count("DrawArrays") != 1 {
		t.Errorf("Count(DrawArrays) = %d, want 1", h.Count("DrawArrays"))
	}
}

func TestHeadlessDrawValidation(t *testing.T) {
	h := openHeadless(t)

	if err := h.DrawArrays(tile2d.TriangleList, 0, 3); err == nil {
		t.Error("DrawArrays() without program should fail")
	}

	p := linkTestProgram(t, h)
	h.UseProgram(p)
	if err := h.DrawArrays(tile2d.TriangleList, 0, 3); err == nil {
		t.Error("DrawArrays() without enabled inputs should fail")
	}

	data := tile2d.VertexBytes(make([]tile2d.Vertex, 2))
	for loc := range 2 {
		h.EnableVertexAttrib(loc)
		h.VertexAttribPointer(loc, tile2d.AttribPointer{Size: 2, Type: tile2d.AttribFloat32, Stride: tile2d.VertexStride, Data: data})
	}
	if err := h.DrawArrays(tile2d.TriangleList, 0, 3); err == nil {
		t.Error("DrawArrays() past the end of the stream should fail")
	}
	if err := h.DrawArrays(tile2d.Primitive(9), 0, 1); !errors.Is(err, tile2d.ErrInvalidPrimitive) {
		t.Errorf("DrawArrays(bad kind) error = %v, want ErrInvalidPrimitive", err)
	}
	if len(h.Draws()) != 0 {
		t.Errorf("Draws() = %d records, want 0", len(h.Draws()))
	}
}

func TestHeadlessTextures(t *testing.T) {
	h := openHeadless(t)

	if _, err := h.CreateTexture(tile2d.TextureDesc{Width: 2, Height: 2}, make([]byte, 3)); err == nil {
		t.Error("CreateTexture() with short pixels should fail")
	}
	id, err := h.CreateTexture(tile2d.TextureDesc{Label: "a", Width: 2, Height: 2}, make([]byte, 16))
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	alpha, err := h.CreateTexture(tile2d.TextureDesc{Label: "a.alpha", Width: 2, Height: 2, Format: tile2d.FormatR8}, make([]byte, 4))
	if err != nil {
		t.Fatalf("CreateTexture(R8) error = %v", err)
	}

	h.BindTexture(0, id)
	h.SetTextureFilter(true)
	if tex, _ := h.Texture(id); !tex.Desc.Linear {
		t.Error("SetTextureFilter(true) did not apply to the bound texture")
	}
	if h.BoundTexture(0) != id {
		t.Errorf("BoundTexture(0) = %d, want %d", h.BoundTexture(0), id)
	}

	h.DeleteTexture(id)
	h.DeleteTexture(alpha)
	if h.TextureCount() != 0 {
		t.Errorf("TextureCount() = %d, want 0", h.TextureCount())
	}
	if h.BoundTexture(0) != 0 {
		t.Error("deleting a bound texture should unbind it")
	}
}

func TestHeadlessStateAndLog(t *testing.T) {
	h := openHeadless(t)
	h.SetCapability(tile2d.CapBlend, true)
	h.BlendFunc(tile2d.FactorSrcAlpha, tile2d.FactorOne)
	h.Viewport(0, 0, 640, 480)

	if !h.Enabled(tile2d.CapBlend) || h.Enabled(tile2d.CapDepthTest) {
		t.Error("capability state not tracked")
	}
	if src, dst := h.Blend(); src != tile2d.FactorSrcAlpha || dst != tile2d.FactorOne {
		t.Errorf("Blend() = (%v, %v), want (SrcAlpha, One)", src, dst)
	}
	if _, _, w, hh := h.ViewportRect(); w != 640 || hh != 480 {
		t.Errorf("ViewportRect() size = %dx%d, want 640x480", w, hh)
	}

	calls := h.Calls()
	if got := calls[len(calls)-1].String(); got != "Viewport 0 0 640 480" {
		t.Errorf("last call = %q, want %q", got, "Viewport 0 0 640 480")
	}
	h.ResetCalls()
	if len(h.Calls()) != 0 || h.Count("BlendFunc") != 0 {
		t.Error("ResetCalls() did not clear the log")
	}
	if src, _ := h.Blend(); src != tile2d.FactorSrcAlpha {
		t.Error("ResetCalls() should keep driver state")
	}
}

func TestHeadlessCompileCommentedStruct(t *testing.T) {
	h := openHeadless(t)
	src := `
struct VertexInput {
    @location(0) a_Position: vec2<f32>,
    /* @location(2) a_Texcoord0: vec2<f32>, */
}

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return vec4<f32>(in.a_Position, 0.0, 1.0);
}`
	id, err := h.CompileShader(tile2d.StageVertex, src)
	if err != nil {
		t.Fatalf("CompileShader() error = %v", err)
	}
	code, ok := h.ShaderCode(id)
	if !ok || len(code) == 0 {
		t.Errorf("ShaderCode() = %d bytes, %v; want SPIR-V", len(code), ok)
	}

	noSPIRV := openHeadless(t, WithoutValidation())
	id, err = noSPIRV.CompileShader(tile2d.StageVertex, src)
	if err != nil {
		t.Fatalf("CompileShader() without validation error = %v", err)
	}
	if code, _ := noSPIRV.ShaderCode(id); len(code) != 0 {
		t.Errorf("ShaderCode() without validation = %d bytes, want 0", len(code))
	}
}
