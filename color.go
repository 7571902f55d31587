// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tile2d

import (
	"fmt"
	"image/color"
)

// ParseHex parses a straight-alpha vertex color written as "RGB", "RGBA",
// "RRGGBB" or "RRGGBBAA", with an optional leading '#'.
func ParseHex(s string) (color.RGBA, error) {
	digits := s
	if digits != "" && digits[0] == '#' {
		digits = digits[1:]
	}
	var v [8]uint8
	for i := 0; i < len(digits); i++ {
		if i == len(v) {
			return Black, fmt.Errorf("tile2d: bad hex color %q", s)
		}
		n, ok := hexDigit(digits[i])
		if !ok {
			return Black, fmt.Errorf("tile2d: bad hex color %q", s)
		}
		v[i] = n
	}

	c := color.RGBA{A: 255}
	switch len(digits) {
	case 3, 4:
		c.R, c.G, c.B = v[0]*17, v[1]*17, v[2]*17
		if len(digits) == 4 {
			c.A = v[3] * 17
		}
	case 6, 8:
		c.R, c.G, c.B = v[0]<<4|v[1], v[2]<<4|v[3], v[4]<<4|v[5]
		if len(digits) == 8 {
			c.A = v[6]<<4 | v[7]
		}
	default:
		return Black, fmt.Errorf("tile2d: bad hex color %q", s)
	}
	return c, nil
}

// Hex is ParseHex for literals. Malformed input yields opaque black.
func Hex(s string) color.RGBA {
	c, _ := ParseHex(s)
	return c
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Normalized returns the components of c scaled to [0, 1], the form
// expected by Driver.ClearColor.
func Normalized(c color.RGBA) (r, g, b, a float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

// Common vertex colors.
var (
	Black       = color.RGBA{A: 255}
	White       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red         = color.RGBA{R: 255, A: 255}
	Green       = color.RGBA{G: 255, A: 255}
	Blue        = color.RGBA{B: 255, A: 255}
	Transparent = color.RGBA{}
)
