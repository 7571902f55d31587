// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/tile2d"
)

// Draw is the record of one DrawArrays call.
type Draw struct {
	Primitive tile2d.Primitive
	First     int
	Count     int
	Program   tile2d.ProgramID

	Blend          bool
	BlendSrc       tile2d.BlendFactor
	BlendDst       tile2d.BlendFactor
	Texture        tile2d.TextureID
	AlphaTexture   tile2d.TextureID
	EnabledAttribs []int
	MVP            mgl32.Mat4
	Time           int32
	TimeSet        bool
	Clip           []mgl32.Vec2

	ViewportWidth  int
	ViewportHeight int
}

func (h *Headless) EnableVertexAttrib(location int) {
	h.record("EnableVertexAttrib", "%d", location)
	h.attrib(location).enabled = true
}

func (h *Headless) DisableVertexAttrib(location int) {
	h.record("DisableVertexAttrib", "%d", location)
	h.attrib(location).enabled = false
}

func (h *Headless) VertexAttribPointer(location int, ptr tile2d.AttribPointer) {
	h.record("VertexAttribPointer", "%d size=%d stride=%d offset=%d", location, ptr.Size, ptr.Stride, ptr.Offset)
	a := h.attrib(location)
	a.ptr, a.set = ptr, true
}

func (h *Headless) attrib(location int) *attribState {
	a, ok := h.attribs[location]
	if !ok {
		a = &attribState{}
		h.attribs[location] = a
	}
	return a
}

// EnabledAttribs returns the enabled attribute locations in ascending order.
func (h *Headless) EnabledAttribs() []int {
	var locs []int
	for loc, a := range h.attribs {
		if a.enabled {
			locs = append(locs, loc)
		}
	}
	slices.Sort(locs)
	return locs
}

// DrawArrays validates the bound state and records the draw.
func (h *Headless) DrawArrays(p tile2d.Primitive, first, count int) error {
	h.record("DrawArrays", "%v %d %d", p, first, count)
	if !p.Valid() {
		return fmt.Errorf("%w: %v", tile2d.ErrInvalidPrimitive, p)
	}
	prog, ok := h.programs[h.current]
	if !ok {
		return fmt.Errorf("backend: draw without a program")
	}
	if first < 0 || count < 0 {
		return fmt.Errorf("backend: invalid draw range %d+%d", first, count)
	}

	for _, in := range prog.linked.Vertex.Inputs {
		a, ok := h.attribs[in.Location]
		if !ok || !a.enabled || !a.set {
			return fmt.Errorf("backend: vertex input %s at location %d is not enabled", in.Name, in.Location)
		}
		if need := (first+count-1)*a.ptr.Stride + a.ptr.Offset + attribSize(a.ptr); count > 0 && need > len(a.ptr.Data) {
			return fmt.Errorf("backend: vertex input %s needs %d bytes, stream has %d", in.Name, need, len(a.ptr.Data))
		}
	}

	d := Draw{
		Primitive:      p,
		First:          first,
		Count:          count,
		Program:        h.current,
		Blend:          h.caps[tile2d.CapBlend],
		BlendSrc:       h.blendSrc,
		BlendDst:       h.blendDst,
		EnabledAttribs: h.EnabledAttribs(),
		ViewportWidth:  h.viewport[2],
		ViewportHeight: h.viewport[3],
	}
	if prog.linked.Textured() {
		d.Texture = h.units[0]
		d.AlphaTexture = h.units[1]
	}
	if loc := prog.linked.Uniform(tile2d.UniformMVP); loc >= 0 {
		d.MVP = prog.mats[loc]
	}
	if loc := prog.linked.Uniform(tile2d.UniformTime); loc >= 0 {
		d.Time, d.TimeSet = prog.ints[loc]
	}
	if loc := prog.linked.Attribute(tile2d.AttribPosition); loc >= 0 {
		d.Clip = clipPositions(h.attribs[loc].ptr, d.MVP, first, count)
	}
	h.draws = append(h.draws, d)
	return nil
}

// Draws returns the recorded draws.
func (h *Headless) Draws() []Draw {
	return append([]Draw(nil), h.draws...)
}

// ResetCalls clears the call log, the counters and the draw records.
// Driver state is kept.
func (h *Headless) ResetCalls() {
	h.recorder.ResetCalls()
	h.draws = nil
}

// LastDraw returns the most recent draw.
func (h *Headless) LastDraw() (Draw, bool) {
	if len(h.draws) == 0 {
		return Draw{}, false
	}
	return h.draws[len(h.draws)-1], true
}

// clipPositions reads 2D float positions from ptr and maps them through mvp.
func clipPositions(ptr tile2d.AttribPointer, mvp mgl32.Mat4, first, count int) []mgl32.Vec2 {
	if ptr.Type != tile2d.AttribFloat32 || ptr.Size < 2 {
		return nil
	}
	out := make([]mgl32.Vec2, 0, count)
	for i := first; i < first+count; i++ {
		base := i*ptr.Stride + ptr.Offset
		x := math.Float32frombits(binary.NativeEndian.Uint32(ptr.Data[base:]))
		y := math.Float32frombits(binary.NativeEndian.Uint32(ptr.Data[base+4:]))
		cx, cy := tile2d.Project(mvp, x, y)
		out = append(out, mgl32.Vec2{cx, cy})
	}
	return out
}

func attribSize(ptr tile2d.AttribPointer) int {
	if ptr.Type == tile2d.AttribUint8 {
		return ptr.Size
	}
	return ptr.Size * 4
}
