// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"strconv"
	"strings"

	"github.com/gogpu/tile2d"
)

// Constant is a named float value baked into shader source.
type Constant struct {
	Name  string
	Value float64
}

// Bake returns src with consts declared for lang.
//
// WGSL sources get module-scope `const NAME: f32 = V;` declarations
// prepended. GLSL sources get `#define NAME V` lines after the #version
// directive, which must stay first.
func Bake(lang tile2d.ShadingLanguage, src string, consts []Constant) string {
	if len(consts) == 0 {
		return src
	}

	var decl strings.Builder
	for _, c := range consts {
		v := formatFloat(c.Value)
		if lang == tile2d.LanguageWGSL {
			decl.WriteString("const " + c.Name + ": f32 = " + v + ";\n")
		} else {
			decl.WriteString("#define " + c.Name + " " + v + "\n")
		}
	}

	if lang == tile2d.LanguageWGSL {
		return decl.String() + src
	}

	trimmed := strings.TrimLeft(src, " \t\r\n")
	if !strings.HasPrefix(trimmed, "#version") {
		return decl.String() + src
	}
	version, rest, _ := strings.Cut(trimmed, "\n")
	return version + "\n" + decl.String() + rest
}

// formatFloat renders v as a float literal in both WGSL and GLSL.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
