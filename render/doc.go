// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render implements the tile2d graphics device.
//
// A [Device] owns the rendering surface, the projection and model-view
// matrices, the three shader programs and the GPU blend state. Drawing code
// (tile layers, sprites, overlays) talks only to the device:
//
//	dev.SetColorKeyMode()
//	dev.SetTexture(idx)
//	dev.RenderToBuffer(tile2d.TriangleStrip, 2, quad[:])
//
// # State Tracking
//
// The device keeps the active program and blend mode as tagged values and
// compares them before every transition, so a run of draws with the same
// texture kind and blend mode activates the program and configures the
// blend function once. The comparison is a pure optimization: every path
// that changes GPU program or blend state goes through the device, so the
// tracked values always match the driver.
//
// # Errors
//
// Init and SetDeviceInfo failures are fatal (tile2d.ErrFatalInit,
// tile2d.ErrShaderCompile, tile2d.ErrShaderLink) and should stop the
// process. Per-frame errors (bad primitive kinds, short vertex data,
// invalid texture indices) are logged and returned; the offending call
// draws nothing and the frame continues. With debug checks enabled
// (WithDebug or the tile2ddebug build tag) a texture index error also halts
// the device, which the frame loop observes through Halted.
package render
