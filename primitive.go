// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tile2d

import (
	"fmt"
	"math"
)

// Primitive is the closed set of primitive kinds accepted by draw submission.
type Primitive uint8

const (
	// LineList draws independent segments, two vertices each.
	LineList Primitive = iota + 1
	// LineStrip draws connected segments sharing endpoints.
	LineStrip
	// TriangleList draws independent triangles, three vertices each.
	TriangleList
	// TriangleStrip draws triangles sharing two vertices with their predecessor.
	TriangleStrip
)

// String returns the primitive name.
func (p Primitive) String() string {
	switch p {
	case LineList:
		return "LineList"
	case LineStrip:
		return "LineStrip"
	case TriangleList:
		return "TriangleList"
	case TriangleStrip:
		return "TriangleStrip"
	default:
		return fmt.Sprintf("Primitive(%d)", uint8(p))
	}
}

// Valid reports whether p is one of the supported kinds.
func (p Primitive) Valid() bool {
	return p >= LineList && p <= TriangleStrip
}

// MaxPrimitives is the largest primitive count whose vertex count fits in
// an int for every kind.
const MaxPrimitives = (math.MaxInt - 2) / 3

// VertexCount returns the number of vertices needed to draw n primitives.
// Strips share vertices with their neighbors and need n+2.
func (p Primitive) VertexCount(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("tile2d: negative primitive count %d", n)
	}
	if n > MaxPrimitives {
		return 0, fmt.Errorf("tile2d: primitive count %d exceeds %d", n, MaxPrimitives)
	}
	switch p {
	case LineList:
		return 2 * n, nil
	case LineStrip:
		return n + 2, nil
	case TriangleList:
		return 3 * n, nil
	case TriangleStrip:
		return n + 2, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidPrimitive, p)
	}
}
