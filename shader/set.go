// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/gogpu/tile2d"
)

//go:embed shaders
var builtin embed.FS

// BuiltinDir is the directory of the embedded sources inside Builtin().
const BuiltinDir = "shaders"

// Builtin returns the embedded shader sources.
func Builtin() fs.FS { return builtin }

// Set is the fixed set of programs the device selects between.
type Set struct {
	drv      tile2d.Driver
	programs [len(tile2d.ProgramKinds) + 1]*Program
}

// NewSet creates an empty set.
func NewSet(drv tile2d.Driver) *Set {
	return &Set{drv: drv}
}

// LoadBuiltin loads the three programs from the embedded sources.
func (s *Set) LoadBuiltin(consts ...Constant) error {
	return s.LoadFS(builtin, BuiltinDir, consts...)
}

// LoadFS loads the three programs from <dir>/<language>/<name>.vert and
// .frag in fsys. consts are baked into every program. On failure the
// programs loaded so far are released and the set stays empty.
func (s *Set) LoadFS(fsys fs.FS, dir string, consts ...Constant) error {
	s.Close()

	lang := string(s.drv.ShadingLanguage())
	for _, kind := range tile2d.ProgramKinds {
		p := NewProgram(s.drv, kind.String())
		for _, c := range consts {
			p.AddConstant(c.Name, c.Value)
		}
		base := path.Join(dir, lang, kind.String())
		if err := p.LoadFiles(fsys, base+".vert", base+".frag"); err != nil {
			s.Close()
			return fmt.Errorf("shader: load %s program: %w", kind, err)
		}
		s.programs[kind] = p
	}
	tile2d.Logger().Info("shader: programs loaded", "language", lang, "dir", dir)
	return nil
}

// Program returns the program of kind, or nil if it is not loaded.
func (s *Set) Program(kind tile2d.ProgramKind) *Program {
	if int(kind) >= len(s.programs) {
		return nil
	}
	return s.programs[kind]
}

// Close releases every program. It is safe to call more than once.
func (s *Set) Close() {
	for i, p := range s.programs {
		if p != nil {
			p.Close()
			s.programs[i] = nil
		}
	}
}
