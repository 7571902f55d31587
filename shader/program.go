// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/gogpu/tile2d"
)

// Locations are the attribute and uniform locations a program resolves
// after link. Entries the program does not declare are tile2d.NotFound.
type Locations struct {
	Position int
	Color    int
	TexCoord int
	MVP      int
	Time     int
}

var unresolved = Locations{
	Position: tile2d.NotFound,
	Color:    tile2d.NotFound,
	TexCoord: tile2d.NotFound,
	MVP:      tile2d.NotFound,
	Time:     tile2d.NotFound,
}

// Program is one linked vertex + fragment shader pair.
type Program struct {
	drv    tile2d.Driver
	name   string
	consts []Constant

	vs, fs tile2d.ShaderID
	id     tile2d.ProgramID
	locs   Locations
}

// NewProgram creates an empty program. Call Load before use.
func NewProgram(drv tile2d.Driver, name string) *Program {
	return &Program{drv: drv, name: name, locs: unresolved}
}

// Name returns the program name.
func (p *Program) Name() string { return p.name }

// AddConstant declares a constant baked into both stages by the next Load.
// Adding a name twice replaces its value.
func (p *Program) AddConstant(name string, value float64) {
	for i := range p.consts {
		if p.consts[i].Name == name {
			p.consts[i].Value = value
			return
		}
	}
	p.consts = append(p.consts, Constant{Name: name, Value: value})
}

// Load compiles and links the two stages and resolves locations.
// A previously loaded program is released first.
//
// Failures are a *tile2d.CompileError carrying the compiler log or a
// *tile2d.LinkError. No driver objects are left behind on failure.
func (p *Program) Load(vertexSource, fragmentSource string) error {
	p.Close()

	lang := p.drv.ShadingLanguage()
	vs, err := p.compile(tile2d.StageVertex, Bake(lang, vertexSource, p.consts))
	if err != nil {
		return err
	}
	fs, err := p.compile(tile2d.StageFragment, Bake(lang, fragmentSource, p.consts))
	if err != nil {
		p.drv.DeleteShader(vs)
		return err
	}
	id, err := p.drv.LinkProgram(vs, fs)
	if err != nil {
		p.drv.DeleteShader(vs)
		p.drv.DeleteShader(fs)
		var le *tile2d.LinkError
		if errors.As(err, &le) {
			le.Program = p.name
			return le
		}
		return &tile2d.LinkError{Program: p.name, Log: err.Error()}
	}

	p.vs, p.fs, p.id = vs, fs, id
	if loc := p.GetUniform(tile2d.SamplerAlpha); loc != tile2d.NotFound {
		p.drv.UseProgram(id)
		p.drv.Uniform1i(loc, tile2d.AlphaUnit)
	}
	p.locs = Locations{
		Position: p.GetAttribute(tile2d.AttribPosition),
		Color:    p.GetAttribute(tile2d.AttribColor),
		TexCoord: p.GetAttribute(tile2d.AttribTexCoord),
		MVP:      p.GetUniform(tile2d.UniformMVP),
		Time:     p.GetUniform(tile2d.UniformTime),
	}
	tile2d.Logger().Debug("shader: program linked",
		"name", p.name,
		"position", p.locs.Position,
		"color", p.locs.Color,
		"texcoord", p.locs.TexCoord,
		"mvp", p.locs.MVP,
		"time", p.locs.Time,
	)
	return nil
}

// LoadFiles reads both stages from fsys and loads them.
func (p *Program) LoadFiles(fsys fs.FS, vertPath, fragPath string) error {
	vs, err := fs.ReadFile(fsys, vertPath)
	if err != nil {
		return fmt.Errorf("shader: program %q: %w", p.name, err)
	}
	fsrc, err := fs.ReadFile(fsys, fragPath)
	if err != nil {
		return fmt.Errorf("shader: program %q: %w", p.name, err)
	}
	return p.Load(string(vs), string(fsrc))
}

func (p *Program) compile(stage tile2d.ShaderStage, src string) (tile2d.ShaderID, error) {
	id, err := p.drv.CompileShader(stage, src)
	if err == nil {
		return id, nil
	}
	var ce *tile2d.CompileError
	if errors.As(err, &ce) {
		ce.Program, ce.Stage = p.name, stage
		return 0, ce
	}
	return 0, &tile2d.CompileError{Program: p.name, Stage: stage, Log: err.Error()}
}

// Loaded reports whether the program is linked.
func (p *Program) Loaded() bool { return p.id != 0 }

// ID returns the driver program name, 0 when not loaded.
func (p *Program) ID() tile2d.ProgramID { return p.id }

// GetAttribute returns the location of a vertex attribute, or
// tile2d.NotFound if the program is not loaded or has no such input.
func (p *Program) GetAttribute(name string) int {
	if p.id == 0 {
		return tile2d.NotFound
	}
	return p.drv.AttribLocation(p.id, name)
}

// GetUniform returns the location of a uniform, or tile2d.NotFound.
func (p *Program) GetUniform(name string) int {
	if p.id == 0 {
		return tile2d.NotFound
	}
	return p.drv.UniformLocation(p.id, name)
}

// Locations returns the locations resolved by the last successful Load.
func (p *Program) Locations() Locations { return p.locs }

// Use makes p the driver's current program.
func (p *Program) Use() {
	if p.id == 0 {
		tile2d.Logger().Warn("shader: use of unloaded program", "name", p.name)
		return
	}
	p.drv.UseProgram(p.id)
}

// Close releases the program and its shaders. It is safe to call more
// than once.
func (p *Program) Close() {
	if p.id != 0 {
		p.drv.DeleteProgram(p.id)
	}
	if p.vs != 0 {
		p.drv.DeleteShader(p.vs)
	}
	if p.fs != 0 {
		p.drv.DeleteShader(p.fs)
	}
	p.vs, p.fs, p.id = 0, 0, 0
	p.locs = unresolved
}
