// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgsl

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// Stage is a shader entry point kind.
type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
)

// ErrNoEntryPoint is returned when a module declares no @vertex or
// @fragment function.
var ErrNoEntryPoint = errors.New("wgsl: no entry point")

// Binding is an @location-attributed value crossing a stage boundary.
type Binding struct {
	Name     string
	Location int
	Type     string
}

// Field is a member of the uniform block.
type Field struct {
	Name   string
	Type   string
	Offset int
	Size   int
}

// Resource is a module-scope texture or sampler binding.
type Resource struct {
	Name    string
	Group   int
	Binding int
	Type    string
}

// Module is the reflected interface of one WGSL module.
type Module struct {
	Stage      Stage
	EntryPoint string

	// Inputs are the @location parameters of the entry point, flattened
	// from struct parameters.
	Inputs []Binding
	// Outputs are the @location results of the entry point.
	Outputs []Binding

	// Uniforms are the fields of the var<uniform> block, if any.
	Uniforms       []Field
	UniformSize    int
	UniformGroup   int
	UniformBinding int

	Textures []Resource
	Samplers []Resource

	// IR is the lowered module the interface was read from.
	IR *ir.Module
}

// Reflect parses and lowers src with naga and returns its interface.
func Reflect(src string) (*Module, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("wgsl: %w", err)
	}
	m, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, fmt.Errorf("wgsl: lower: %w", err)
	}

	mod := &Module{UniformGroup: -1, UniformBinding: -1, IR: m}
	if err := mod.reflectGlobals(); err != nil {
		return nil, err
	}
	if err := mod.reflectEntry(); err != nil {
		return nil, err
	}
	return mod, nil
}

// Validate runs naga's IR validation and reports the first problem.
func (mod *Module) Validate() error {
	problems, err := naga.Validate(mod.IR)
	if err != nil {
		return fmt.Errorf("wgsl: validate: %w", err)
	}
	if len(problems) > 0 {
		return fmt.Errorf("wgsl: validate: %w", problems[0])
	}
	return nil
}

func (mod *Module) reflectGlobals() error {
	m := mod.IR
	for _, gv := range m.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		group, binding := int(gv.Binding.Group), int(gv.Binding.Binding)
		ty := m.Types[gv.Type]

		switch inner := ty.Inner.(type) {
		case ir.StructType:
			if gv.Space != ir.SpaceUniform {
				continue
			}
			if mod.Uniforms != nil {
				return fmt.Errorf("wgsl: more than one uniform block (%s)", gv.Name)
			}
			fields := make([]Field, 0, len(inner.Members))
			for _, member := range inner.Members {
				fields = append(fields, Field{
					Name:   member.Name,
					Type:   typeName(m, member.Type),
					Offset: int(member.Offset),
					Size:   int(ir.TypeSize(m, member.Type)),
				})
			}
			mod.Uniforms, mod.UniformSize = fields, int(inner.Span)
			mod.UniformGroup, mod.UniformBinding = group, binding
		case ir.ImageType:
			mod.Textures = append(mod.Textures, Resource{Name: gv.Name, Group: group, Binding: binding, Type: typeName(m, gv.Type)})
		case ir.SamplerType:
			mod.Samplers = append(mod.Samplers, Resource{Name: gv.Name, Group: group, Binding: binding, Type: typeName(m, gv.Type)})
		}
	}
	return nil
}

func (mod *Module) reflectEntry() error {
	m := mod.IR
	var ep *ir.EntryPoint
	for i := range m.EntryPoints {
		switch m.EntryPoints[i].Stage {
		case ir.StageVertex:
			mod.Stage = StageVertex
		case ir.StageFragment:
			mod.Stage = StageFragment
		default:
			continue
		}
		ep = &m.EntryPoints[i]
		break
	}
	if ep == nil {
		return ErrNoEntryPoint
	}
	mod.EntryPoint = ep.Name

	for _, arg := range ep.Function.Arguments {
		mod.Inputs = append(mod.Inputs, locations(m, arg.Name, arg.Type, arg.Binding)...)
	}
	if res := ep.Function.Result; res != nil {
		mod.Outputs = locations(m, "", res.Type, res.Binding)
	}
	return nil
}

// locations returns the @location bindings of a value, expanding the
// members of an unbound struct.
func locations(m *ir.Module, name string, ty ir.TypeHandle, b *ir.Binding) []Binding {
	if b != nil {
		if loc, ok := (*b).(ir.LocationBinding); ok {
			return []Binding{{Name: name, Location: int(loc.Location), Type: typeName(m, ty)}}
		}
		return nil
	}
	st, ok := m.Types[ty].Inner.(ir.StructType)
	if !ok {
		return nil
	}
	var out []Binding
	for _, member := range st.Members {
		out = append(out, locations(m, member.Name, member.Type, member.Binding)...)
	}
	return out
}

// typeName spells a type the way WGSL source does, so that types from two
// modules can be compared.
func typeName(m *ir.Module, h ir.TypeHandle) string {
	ty := m.Types[h]
	switch inner := ty.Inner.(type) {
	case ir.ScalarType:
		return scalarName(inner)
	case ir.VectorType:
		return fmt.Sprintf("vec%d<%s>", inner.Size, scalarName(inner.Scalar))
	case ir.MatrixType:
		return fmt.Sprintf("mat%dx%d<%s>", inner.Columns, inner.Rows, scalarName(inner.Scalar))
	case ir.ArrayType:
		if inner.Size.Constant != nil {
			return fmt.Sprintf("array<%s, %d>", typeName(m, inner.Base), *inner.Size.Constant)
		}
		return fmt.Sprintf("array<%s>", typeName(m, inner.Base))
	case ir.SamplerType:
		if inner.Comparison {
			return "sampler_comparison"
		}
		return "sampler"
	case ir.ImageType:
		return imageName(inner)
	}
	if ty.Name != "" {
		return ty.Name
	}
	return fmt.Sprintf("%T", ty.Inner)
}

func scalarName(s ir.ScalarType) string {
	bits := int(s.Width) * 8
	switch s.Kind {
	case ir.ScalarFloat:
		return fmt.Sprintf("f%d", bits)
	case ir.ScalarSint:
		return fmt.Sprintf("i%d", bits)
	case ir.ScalarUint:
		return fmt.Sprintf("u%d", bits)
	case ir.ScalarBool:
		return "bool"
	}
	return "abstract"
}

func imageName(img ir.ImageType) string {
	dim := map[ir.ImageDimension]string{
		ir.Dim1D:   "1d",
		ir.Dim2D:   "2d",
		ir.Dim3D:   "3d",
		ir.DimCube: "cube",
	}[img.Dim]
	if img.Arrayed {
		dim += "_array"
	}
	if img.Multisampled {
		return "texture_multisampled_" + dim
	}
	return "texture_" + dim
}
