// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/chewxy/math32"

// fillDegToRad fills t[deg] with deg in radians.
func fillDegToRad(t *[360]float32) {
	for deg := range t {
		t[deg] = float32(deg) * math32.Pi / 180
	}
}

// Rad returns the radians of an integer angle in degrees using the
// device's lookup table. Angles outside [0, 360) wrap.
func (d *Device) Rad(deg int) float32 {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return d.DegToRad[deg]
}

// Sin returns the sine of an integer angle in degrees.
func (d *Device) Sin(deg int) float32 { return math32.Sin(d.Rad(deg)) }

// Cos returns the cosine of an integer angle in degrees.
func (d *Device) Cos(deg int) float32 { return math32.Cos(d.Rad(deg)) }
