// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgsl

import (
	"errors"
	"strings"
	"testing"
)

const vertexSrc = `
struct Uniforms {
    u_MVPMatrix: mat4x4<f32>,
    u_Time: i32,
}

@group(0) @binding(0) var<uniform> u: Uniforms;

struct VertexInput {
    @location(0) a_Position: vec2<f32>,
    @location(1) a_Color: vec4<f32>,
    @location(2) a_Texcoord0: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
    @location(1) uv: vec2<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.position = u.u_MVPMatrix * vec4<f32>(in.a_Position, 0.0, 1.0);
    return out;
}
`

const fragmentSrc = `
@group(0) @binding(1) var t_texture: texture_2d<f32>;
@group(0) @binding(2) var s_texture: sampler;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
    @location(1) uv: vec2<f32>,
}

// @vertex fn commented_out() {}
@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(t_texture, s_texture, in.uv) * in.color;
}
`

func TestReflectVertex(t *testing.T) {
	m, err := Reflect(vertexSrc)
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}
	if m.Stage != StageVertex || m.EntryPoint != "vs_main" {
		t.Errorf("entry = %s %s, want vertex vs_main", m.Stage, m.EntryPoint)
	}

	wantInputs := []Binding{
		{"a_Position", 0, "vec2<f32>"},
		{"a_Color", 1, "vec4<f32>"},
		{"a_Texcoord0", 2, "vec2<f32>"},
	}
	if len(m.Inputs) != len(wantInputs) {
		t.Fatalf("Inputs = %v, want %v", m.Inputs, wantInputs)
	}
	for i, want := range wantInputs {
		if m.Inputs[i] != want {
			t.Errorf("Inputs[%d] = %v, want %v", i, m.Inputs[i], want)
		}
	}
	if len(m.Outputs) != 2 {
		t.Errorf("Outputs = %v, want 2 location outputs", m.Outputs)
	}

	wantUniforms := []Field{
		{Name: "u_MVPMatrix", Type: "mat4x4<f32>", Offset: 0, Size: 64},
		{Name: "u_Time", Type: "i32", Offset: 64, Size: 4},
	}
	for i, want := range wantUniforms {
		if m.Uniforms[i] != want {
			t.Errorf("Uniforms[%d] = %v, want %v", i, m.Uniforms[i], want)
		}
	}
	if m.UniformSize != 80 {
		t.Errorf("UniformSize = %d, want 80", m.UniformSize)
	}
	if m.UniformGroup != 0 || m.UniformBinding != 0 {
		t.Errorf("uniform binding = (%d, %d), want (0, 0)", m.UniformGroup, m.UniformBinding)
	}
}

func TestReflectFragment(t *testing.T) {
	m, err := Reflect(fragmentSrc)
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}
	if m.Stage != StageFragment || m.EntryPoint != "fs_main" {
		t.Errorf("entry = %s %s, want fragment fs_main", m.Stage, m.EntryPoint)
	}
	if len(m.Inputs) != 2 {
		t.Errorf("Inputs = %v, want color and uv", m.Inputs)
	}
	if len(m.Outputs) != 1 || m.Outputs[0].Location != 0 || m.Outputs[0].Type != "vec4<f32>" {
		t.Errorf("Outputs = %v, want one vec4<f32> at location 0", m.Outputs)
	}
	if len(m.Textures) != 1 || m.Textures[0].Binding != 1 {
		t.Errorf("Textures = %v, want t_texture at binding 1", m.Textures)
	}
	if len(m.Textures) == 1 && m.Textures[0].Type != "texture_2d" {
		t.Errorf("Textures[0].Type = %q, want texture_2d", m.Textures[0].Type)
	}
	if len(m.Samplers) != 1 || m.Samplers[0].Binding != 2 {
		t.Errorf("Samplers = %v, want s_texture at binding 2", m.Samplers)
	}
	if m.Uniforms != nil {
		t.Errorf("Uniforms = %v, want none", m.Uniforms)
	}
}

func TestReflectErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no entry point", "fn helper() -> f32 { return 1.0; }"},
		{"unknown uniform type", "@group(0) @binding(0) var<uniform> u: Missing;\n@vertex fn vs() {}"},
		{"unbalanced", "@vertex fn vs(@location(0) p: vec2<f32> {"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Reflect(tt.src); err == nil {
				t.Error("Reflect() error = nil, want failure")
			}
		})
	}
	if _, err := Reflect(tests[0].src); !errors.Is(err, ErrNoEntryPoint) {
		t.Errorf("Reflect() error = %v, want ErrNoEntryPoint", err)
	}
}

func TestReflectDirectParameters(t *testing.T) {
	src := `@vertex
fn main(@location(3) pos: vec2<f32>, @builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(pos, 0.0, 1.0);
}`
	m, err := Reflect(src)
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}
	if len(m.Inputs) != 1 || m.Inputs[0].Name != "pos" || m.Inputs[0].Location != 3 {
		t.Errorf("Inputs = %v, want pos at location 3", m.Inputs)
	}
	if len(m.Outputs) != 0 {
		t.Errorf("Outputs = %v, want none", m.Outputs)
	}
}

func TestReflectBlockComments(t *testing.T) {
	src := `
struct VertexInput {
    @location(0) a_Position: vec2<f32>,
    /* @location(2) a_Texcoord0: vec2<f32>, */
    @location(1) /* inline */ a_Color: vec4<f32>,
}

/* @fragment fn hidden() -> @location(0) vec4<f32> { return vec4<f32>(1.0); } */
@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return vec4<f32>(in.a_Position, 0.0, 1.0) * in.a_Color;
}`
	m, err := Reflect(src)
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}
	if m.Stage != StageVertex {
		t.Errorf("Stage = %s, want vertex", m.Stage)
	}
	want := []Binding{
		{"a_Position", 0, "vec2<f32>"},
		{"a_Color", 1, "vec4<f32>"},
	}
	if len(m.Inputs) != len(want) {
		t.Fatalf("Inputs = %v, want %v", m.Inputs, want)
	}
	for i := range want {
		if m.Inputs[i] != want[i] {
			t.Errorf("Inputs[%d] = %v, want %v", i, m.Inputs[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	m, err := Reflect(vertexSrc)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if m.IR == nil || len(m.IR.EntryPoints) != 1 {
		t.Errorf("IR entry points = %v, want vs_main", m.IR)
	}
}

func TestLink(t *testing.T) {
	vs, err := Reflect(vertexSrc)
	if err != nil {
		t.Fatal(err)
	}
	fs, err := Reflect(fragmentSrc)
	if err != nil {
		t.Fatal(err)
	}

	p, err := Link(vs, fs)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if got := p.Attribute("a_Texcoord0"); got != 2 {
		t.Errorf("Attribute(a_Texcoord0) = %d, want 2", got)
	}
	if got := p.Attribute("a_Missing"); got != -1 {
		t.Errorf("Attribute(a_Missing) = %d, want -1", got)
	}
	if got := p.Uniform("u_Time"); got != 1 {
		t.Errorf("Uniform(u_Time) = %d, want 1", got)
	}
	if !p.Textured() {
		t.Error("Textured() = false, want true")
	}

	if _, err := Link(fs, vs); err == nil {
		t.Error("Link(fragment, vertex) should fail")
	}
}

func TestLinkMismatch(t *testing.T) {
	vs, err := Reflect(vertexSrc)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing location",
			src:  "struct In { @location(5) extra: f32, }\n@fragment fn fs_main(in: In) -> @location(0) vec4<f32> { return vec4<f32>(in.extra); }",
			want: "location 5",
		},
		{
			name: "type mismatch",
			src:  "struct In { @location(1) uv: vec3<f32>, }\n@fragment fn fs_main(in: In) -> @location(0) vec4<f32> { return vec4<f32>(in.uv, 1.0); }",
			want: "vec3<f32>",
		},
		{
			name: "uniform mismatch",
			src:  "struct U { u_Other: f32, }\n@group(0) @binding(0) var<uniform> u: U;\n@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(u.u_Other); }",
			want: "uniform",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := Reflect(tt.src)
			if err != nil {
				t.Fatalf("Reflect() error = %v", err)
			}
			_, err = Link(vs, fs)
			if err == nil {
				t.Fatal("Link() error = nil, want mismatch")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Link() error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}
