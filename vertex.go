// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tile2d

import (
	"image/color"
	"unsafe"
)

// Vertex is the per-vertex layout submitted by drawing code.
//
// The struct is tightly packed: a 2D position, a straight-alpha RGBA color
// stored as four normalized bytes, and a 2D texture coordinate. Flat-color
// programs ignore U and V.
type Vertex struct {
	X, Y  float32
	Color color.RGBA
	U, V  float32
}

// Vertex layout in bytes.
const (
	VertexStride         = int(unsafe.Sizeof(Vertex{}))
	VertexPositionOffset = int(unsafe.Offsetof(Vertex{}.X))
	VertexColorOffset    = int(unsafe.Offsetof(Vertex{}.Color))
	VertexTexCoordOffset = int(unsafe.Offsetof(Vertex{}.U))
)

// VertexBytes reinterprets vertices as raw bytes without copying.
// The returned slice aliases vertices and must not outlive it.
func VertexBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*VertexStride)
}
