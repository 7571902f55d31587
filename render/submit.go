// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/tile2d"
)

// SetTexture binds the texture at idx and selects the textured program for
// following draws. A negative idx selects the flat-color program.
//
// An invalid index leaves the current selection unchanged and returns an
// error wrapping tile2d.ErrIndexOutOfRange or tile2d.ErrNotLoaded.
func (d *Device) SetTexture(idx int) error {
	return d.selectTexture(idx, tile2d.ProgramTexture)
}

// SetAnimatedTexture is SetTexture for the time-aware program.
func (d *Device) SetAnimatedTexture(idx int) error {
	return d.selectTexture(idx, tile2d.ProgramRender)
}

func (d *Device) selectTexture(idx int, kind tile2d.ProgramKind) error {
	if d.state == stateClosed {
		return tile2d.ErrDeviceClosed
	}
	if idx < 0 {
		d.selected = tile2d.ProgramColor
		d.boundTexture = -1
		return nil
	}
	if d.cfg.textures == nil {
		return d.indexError(fmt.Errorf("%w: %d (no texture registry)", tile2d.ErrIndexOutOfRange, idx))
	}
	h, err := d.cfg.textures.Get(idx)
	if err != nil {
		return d.indexError(err)
	}

	d.drv.BindTexture(0, h.ID)
	// Zero clears the alpha unit.
	d.drv.BindTexture(tile2d.AlphaUnit, h.AlphaID)
	d.selected = kind
	d.boundTexture = idx
	return nil
}

// indexError reports a texture index misuse. In debug mode the device is
// halted as well.
func (d *Device) indexError(err error) error {
	d.log().Error("render: texture index", "error", err, "halting", d.cfg.debug)
	if d.cfg.debug && d.halted == nil {
		d.halted = err
	}
	return err
}

// BoundTexture returns the registry index of the bound texture, or -1.
func (d *Device) BoundTexture() int { return d.boundTexture }

// RenderToBuffer draws count primitives of kind from vertices with the
// selected program, blend mode, projection and model-view matrix.
//
// Unsupported kinds and short vertex slices are logged and returned, as is a
// bound texture that was unloaded after SetTexture. No draw is issued and the
// device state is unchanged.
func (d *Device) RenderToBuffer(kind tile2d.Primitive, count int, vertices []tile2d.Vertex) error {
	switch d.state {
	case stateClosed:
		return tile2d.ErrDeviceClosed
	case stateReady:
	default:
		return tile2d.ErrNotInitialized
	}

	n, err := kind.VertexCount(count)
	if err != nil {
		return d.skip(err, kind, count)
	}
	if n < 0 || n > len(vertices) {
		return d.skip(fmt.Errorf("%w: %d %v primitives need %d vertices, have %d",
			ErrVertexData, count, kind, n, len(vertices)), kind, count)
	}
	if n == 0 {
		return nil
	}

	if d.selected.Textured() && d.cfg.textures != nil {
		if _, err := d.cfg.textures.Get(d.boundTexture); err != nil {
			return d.skip(d.indexError(err), kind, count)
		}
	}

	prog := d.programs.Program(d.selected)
	if prog == nil {
		return d.skip(fmt.Errorf("render: %v program not loaded", d.selected), kind, count)
	}
	if d.activeProgram != d.selected {
		prog.Use()
		d.log().Debug("render: program switch", "from", d.activeProgram, "to", d.selected)
		d.activeProgram = d.selected
		d.stats.ProgramSwitches++
		if d.selected.Timed() {
			d.pushTime(prog.Locations().Time)
		}
	} else if d.selected.Timed() && d.timeFrame != d.frame {
		d.pushTime(prog.Locations().Time)
	}

	locs := prog.Locations()
	data := tile2d.VertexBytes(vertices[:n])
	d.drv.EnableVertexAttrib(locs.Position)
	d.drv.VertexAttribPointer(locs.Position, tile2d.AttribPointer{
		Size:   2,
		Type:   tile2d.AttribFloat32,
		Stride: tile2d.VertexStride,
		Offset: tile2d.VertexPositionOffset,
		Data:   data,
	})
	d.drv.EnableVertexAttrib(locs.Color)
	d.drv.VertexAttribPointer(locs.Color, tile2d.AttribPointer{
		Size:       4,
		Type:       tile2d.AttribUint8,
		Normalized: true,
		Stride:     tile2d.VertexStride,
		Offset:     tile2d.VertexColorOffset,
		Data:       data,
	})
	texcoord := d.selected.Textured() && locs.TexCoord != tile2d.NotFound
	if texcoord {
		d.drv.EnableVertexAttrib(locs.TexCoord)
		d.drv.VertexAttribPointer(locs.TexCoord, tile2d.AttribPointer{
			Size:   2,
			Type:   tile2d.AttribFloat32,
			Stride: tile2d.VertexStride,
			Offset: tile2d.VertexTexCoordOffset,
			Data:   data,
		})
	}

	d.drv.UniformMatrix4(locs.MVP, d.projection.Mul4(d.modelView))
	drawErr := d.drv.DrawArrays(kind, 0, n)

	d.drv.DisableVertexAttrib(locs.Position)
	d.drv.DisableVertexAttrib(locs.Color)
	if texcoord {
		d.drv.DisableVertexAttrib(locs.TexCoord)
	}

	if drawErr != nil {
		return d.skip(fmt.Errorf("render: draw: %w", drawErr), kind, count)
	}
	d.stats.Draws++
	return nil
}

// pushTime uploads the elapsed time in ticks to the time uniform.
func (d *Device) pushTime(loc int) {
	ms := d.cfg.clock().Milliseconds()
	ticks := int32(float64(ms) * d.cfg.timeScale / 1000)
	d.drv.Uniform1i(loc, ticks)
	d.timeFrame = d.frame
	d.stats.TimeUpdates++
}

func (d *Device) skip(err error, kind tile2d.Primitive, count int) error {
	d.stats.SkippedDraws++
	d.log().Warn("render: draw skipped", "kind", kind, "count", count, "error", err)
	return err
}

// ClearBackBuffer clears the color buffer. Depth is never cleared.
func (d *Device) ClearBackBuffer() {
	if d.state != stateReady {
		return
	}
	d.drv.Clear()
}

// DisplayBuffer presents the frame and starts the next one.
func (d *Device) DisplayBuffer() error {
	switch d.state {
	case stateClosed:
		return tile2d.ErrDeviceClosed
	case stateReady:
	default:
		return tile2d.ErrNotInitialized
	}
	if err := d.surface.Present(); err != nil {
		return fmt.Errorf("render: present: %w", err)
	}
	d.frame++
	d.stats.Frames++
	return nil
}
