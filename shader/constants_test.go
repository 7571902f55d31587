// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"testing"

	"github.com/gogpu/tile2d"
)

func TestBake(t *testing.T) {
	consts := []Constant{{"c_WindowWidth", 640}, {"c_Scale", 0.5}}

	tests := []struct {
		name string
		lang tile2d.ShadingLanguage
		src  string
		want string
	}{
		{
			name: "wgsl prepends",
			lang: tile2d.LanguageWGSL,
			src:  "@fragment fn fs_main() {}",
			want: "const c_WindowWidth: f32 = 640.0;\nconst c_Scale: f32 = 0.5;\n@fragment fn fs_main() {}",
		},
		{
			name: "glsl after version",
			lang: tile2d.LanguageGLSL120,
			src:  "#version 120\nvoid main() {}",
			want: "#version 120\n#define c_WindowWidth 640.0\n#define c_Scale 0.5\nvoid main() {}",
		},
		{
			name: "glsl without version",
			lang: tile2d.LanguageGLSL120,
			src:  "void main() {}",
			want: "#define c_WindowWidth 640.0\n#define c_Scale 0.5\nvoid main() {}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bake(tt.lang, tt.src, consts); got != tt.want {
				t.Errorf("Bake() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := Bake(tile2d.LanguageWGSL, "src", nil); got != "src" {
		t.Errorf("Bake() without constants = %q, want source unchanged", got)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{640, "640.0"},
		{0.25, "0.25"},
		{-3, "-3.0"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
