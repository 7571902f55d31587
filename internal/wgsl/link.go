// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgsl

import (
	"fmt"
	"strings"
)

// Program is the combined interface of a linked vertex and fragment module.
type Program struct {
	Vertex   *Module
	Fragment *Module

	// Uniforms is the shared uniform block. Uniform locations are indices
	// into it.
	Uniforms    []Field
	UniformSize int
}

// Link checks that fs consumes only what vs produces and that both stages
// agree on the uniform block.
func Link(vs, fs *Module) (*Program, error) {
	if vs.Stage != StageVertex {
		return nil, fmt.Errorf("wgsl: %s is not a vertex entry point", vs.EntryPoint)
	}
	if fs.Stage != StageFragment {
		return nil, fmt.Errorf("wgsl: %s is not a fragment entry point", fs.EntryPoint)
	}

	var problems []string
	for _, in := range fs.Inputs {
		out, ok := findLocation(vs.Outputs, in.Location)
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("fragment input %s at location %d is not written by the vertex stage", in.Name, in.Location))
		case out.Type != in.Type:
			problems = append(problems, fmt.Sprintf("location %d is %s in the vertex stage but %s in the fragment stage", in.Location, out.Type, in.Type))
		}
	}

	p := &Program{Vertex: vs, Fragment: fs, Uniforms: vs.Uniforms, UniformSize: vs.UniformSize}
	if vs.Uniforms == nil {
		p.Uniforms, p.UniformSize = fs.Uniforms, fs.UniformSize
	} else if fs.Uniforms != nil && !sameFields(vs.Uniforms, fs.Uniforms) {
		problems = append(problems, "vertex and fragment stages declare different uniform blocks")
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("wgsl: %s", strings.Join(problems, "; "))
	}
	return p, nil
}

// Attribute returns the location of the named vertex input, or -1.
func (p *Program) Attribute(name string) int {
	for _, b := range p.Vertex.Inputs {
		if b.Name == name {
			return b.Location
		}
	}
	return -1
}

// Uniform returns the index of the named uniform block field, or -1.
func (p *Program) Uniform(name string) int {
	for i, f := range p.Uniforms {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Textured reports whether the fragment stage samples a texture.
func (p *Program) Textured() bool {
	return len(p.Fragment.Textures) > 0
}

func findLocation(bs []Binding, loc int) (Binding, bool) {
	for _, b := range bs {
		if b.Location == loc {
			return b, true
		}
	}
	return Binding{}, false
}

func sameFields(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Type != b[i].Type {
			return false
		}
	}
	return true
}
