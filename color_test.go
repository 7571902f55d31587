// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tile2d

import (
	"image/color"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#000", Black},
		{"fff", White},
		{"#ff0000", Red},
		{"00ff00ff", Green},
		{"#0000FF", Blue},
		{"f008", color.RGBA{R: 255, A: 136}},
		{"12345678", color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0x78}},
		{"", Black},
		{"#12345", Black},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Hex(tt.in); got != tt.want {
				t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalized(t *testing.T) {
	r, g, b, a := Normalized(color.RGBA{R: 255, G: 0, B: 51, A: 255})
	if r != 1 || g != 0 || b != 0.2 || a != 1 {
		t.Errorf("Normalized() = (%v, %v, %v, %v), want (1, 0, 0.2, 1)", r, g, b, a)
	}
}

func TestParseHexErrors(t *testing.T) {
	for _, in := range []string{"", "#", "#12345", "#gg0000", "123456789", "#1020304050"} {
		if _, err := ParseHex(in); err == nil {
			t.Errorf("ParseHex(%q) error = nil, want error", in)
		}
	}
}
