// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tile2d

import (
	"errors"
	"math"
	"testing"
)

func TestPrimitiveVertexCount(t *testing.T) {
	tests := []struct {
		kind Primitive
		n    int
		want int
	}{
		{LineList, 1, 2},
		{LineList, 5, 10},
		{LineStrip, 1, 3},
		{LineStrip, 4, 6},
		{TriangleList, 1, 3},
		{TriangleList, 4, 12},
		{TriangleStrip, 2, 4},
		{TriangleStrip, 10, 12},
		{TriangleList, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, err := tt.kind.VertexCount(tt.n)
			if err != nil {
				t.Fatalf("VertexCount(%d) error = %v", tt.n, err)
			}
			if got != tt.want {
				t.Errorf("%v.VertexCount(%d) = %d, want %d", tt.kind, tt.n, got, tt.want)
			}
		})
	}
}

func TestPrimitiveVertexCountInvalid(t *testing.T) {
	for _, p := range []Primitive{0, 5, 200} {
		if p.Valid() {
			t.Errorf("%v.Valid() = true, want false", p)
		}
		if _, err := p.VertexCount(3); !errors.Is(err, ErrInvalidPrimitive) {
			t.Errorf("%v.VertexCount() error = %v, want ErrInvalidPrimitive", p, err)
		}
	}
	if _, err := TriangleList.VertexCount(-1); err == nil {
		t.Error("VertexCount(-1) should fail")
	}
}

func TestPrimitiveVertexCountOverflow(t *testing.T) {
	tests := []struct {
		kind Primitive
		n    int
	}{
		{LineList, math.MaxInt/2 + 1},
		{LineStrip, math.MaxInt},
		{TriangleList, math.MaxInt/3 + 1},
		{TriangleStrip, math.MaxInt},
		{TriangleList, MaxPrimitives + 1},
	}
	for _, tt := range tests {
		if got, err := tt.kind.VertexCount(tt.n); err == nil {
			t.Errorf("%v.VertexCount(%d) = %d, want error", tt.kind, tt.n, got)
		}
	}
	for _, kind := range []Primitive{LineList, LineStrip, TriangleList, TriangleStrip} {
		got, err := kind.VertexCount(MaxPrimitives)
		if err != nil {
			t.Fatalf("%v.VertexCount(MaxPrimitives) error = %v", kind, err)
		}
		if got < MaxPrimitives {
			t.Errorf("%v.VertexCount(MaxPrimitives) = %d, overflowed", kind, got)
		}
	}
}
