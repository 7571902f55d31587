// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/tile2d"

// SetColorKeyMode selects straight alpha blending.
func (d *Device) SetColorKeyMode() { d.setBlendMode(tile2d.BlendColorKey) }

// SetWhiteMode selects the white-flash blend.
func (d *Device) SetWhiteMode() { d.setBlendMode(tile2d.BlendWhite) }

// SetAdditiveMode selects additive blending.
func (d *Device) SetAdditiveMode() { d.setBlendMode(tile2d.BlendAdditive) }

// setBlendMode configures mode unless it is already active.
func (d *Device) setBlendMode(mode tile2d.BlendMode) {
	if d.state != stateReady && d.state != stateOpen {
		d.log().Warn("render: blend mode change on inactive device", "mode", mode)
		return
	}
	if d.activeBlend == mode {
		return
	}
	src, dst := mode.Factors()
	d.drv.BlendFunc(src, dst)
	d.log().Debug("render: blend mode", "from", d.activeBlend, "to", mode)
	d.activeBlend = mode
	d.stats.BlendChanges++
}

// SetFilterMode switches the bound texture between bilinear and nearest
// filtering.
func (d *Device) SetFilterMode(linear bool) {
	if d.state != stateReady {
		return
	}
	d.linear = linear
	d.drv.SetTextureFilter(linear)
}
