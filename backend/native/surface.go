// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tile2d"
)

// copyPitchAlignment is the WebGPU row alignment of texture to buffer copies.
const copyPitchAlignment = 256

// Surface is the offscreen color target of a native driver.
type Surface struct {
	n             *Native
	config        tile2d.SurfaceConfig
	width, height int
	tex           hal.Texture
	view          hal.TextureView
	frames        int
}

func newSurface(n *Native, cfg tile2d.SurfaceConfig) (*Surface, error) {
	w, h := uint32(cfg.Width), uint32(cfg.Height) //nolint:gosec // validated positive by Open
	tex, err := n.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "tile2d_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        n.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create target texture: %w", err)
	}
	view, err := n.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "tile2d_target_view",
	})
	if err != nil {
		n.device.DestroyTexture(tex)
		return nil, fmt.Errorf("native: create target view: %w", err)
	}
	return &Surface{n: n, config: cfg, width: cfg.Width, height: cfg.Height, tex: tex, view: view}, nil
}

// Size returns the target size.
func (s *Surface) Size() (int, int) { return s.width, s.height }

// Config returns the configuration the surface was opened with.
func (s *Surface) Config() tile2d.SurfaceConfig { return s.config }

// Frames returns the number of presented frames.
func (s *Surface) Frames() int { return s.frames }

// Present encodes and submits the frame's draws.
func (s *Surface) Present() error {
	if s.view == nil {
		return fmt.Errorf("native: present on destroyed surface")
	}
	if err := s.n.flush(); err != nil {
		return err
	}
	s.frames++
	return nil
}

// Destroy releases the target. Pending draws are dropped.
func (s *Surface) Destroy() {
	if s.view == nil {
		return
	}
	s.n.discardDraws()
	s.n.device.DestroyTextureView(s.view)
	s.n.device.DestroyTexture(s.tex)
	s.view, s.tex = nil, nil
}

// ReadPixels presents pending draws and returns the target as tightly
// packed RGBA rows.
func (s *Surface) ReadPixels() ([]byte, error) {
	if s.view == nil {
		return nil, fmt.Errorf("native: read from destroyed surface")
	}
	n := s.n
	if err := n.flush(); err != nil {
		return nil, err
	}

	w, h := uint32(s.width), uint32(s.height) //nolint:gosec // positive surface size
	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := n.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "tile2d_readback",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create staging buffer: %w", err)
	}
	defer n.device.DestroyBuffer(staging)

	encoder, err := n.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "tile2d_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("tile2d_readback"); err != nil {
		return nil, fmt.Errorf("native: begin encoding: %w", err)
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(s.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: s.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("native: end encoding: %w", err)
	}
	defer n.device.FreeCommandBuffer(cmdBuf)

	if err := n.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}
	readback := make([]byte, stagingSize)
	if err := n.queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("native: readback: %w", err)
	}

	out := make([]byte, int(bytesPerRow)*s.height)
	for row := range s.height {
		src := row * int(alignedBytesPerRow)
		copy(out[row*int(bytesPerRow):], readback[src:src+int(bytesPerRow)])
	}
	if n.format == gputypes.TextureFormatBGRA8Unorm {
		for i := 0; i+3 < len(out); i += 4 {
			out[i], out[i+2] = out[i+2], out[i]
		}
	}
	return out, nil
}
