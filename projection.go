// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tile2d

import "github.com/go-gl/mathgl/mgl32"

// Ortho2D returns the orthographic projection for a width x height surface
// with the origin at the top-left corner and Z in [0, 1].
func Ortho2D(width, height int) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(width), float32(height), 0, 0, 1)
}

// Project maps a device coordinate through mvp and returns the clip-space
// X and Y after perspective division.
func Project(mvp mgl32.Mat4, x, y float32) (cx, cy float32) {
	v := mvp.Mul4x1(mgl32.Vec4{x, y, 0, 1})
	if v.W() == 0 {
		return v.X(), v.Y()
	}
	return v.X() / v.W(), v.Y() / v.W()
}
