// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package tile2d is the rendering and resource core of a 2D tile engine.
//
// # Overview
//
// tile2d owns the GPU side of a sprite/tile game: a graphics device that
// tracks the active shader program and blend mode, a texture registry that
// shares GPU images between every sprite that loads the same file, and a
// fixed set of three shader programs (flat color, textured, and textured
// with an elapsed-time uniform).
//
// The root package holds the shared vocabulary used by every layer:
//
//   - [Vertex]: the packed per-vertex layout submitted by drawing code
//   - [Primitive]: the closed set of primitive kinds and their vertex counts
//   - [BlendMode] and [ProgramKind]: the tagged GPU states the device tracks
//   - [Driver] and [Surface]: the GPU command interface and the window
//     surface it renders into
//
// # Packages
//
//   - render: the graphics device (program selection, blend state machine,
//     per-draw submission, projection)
//   - texture: the reference-counted texture registry
//   - shader: shader program loading and attribute/uniform resolution
//   - backend: driver registry and the in-memory headless driver
//   - backend/native: Pure Go WebGPU driver built on gogpu/wgpu
//   - backend/opengl: OpenGL 2.1 driver with a GLFW window (build tag glfw)
//
// # Quick Start
//
//	drv := backend.MustDefault()
//	dev := render.New(drv)
//	if err := dev.Init(640, 480, 32, false); err != nil {
//	    log.Fatal(err)
//	}
//	if err := dev.SetDeviceInfo(); err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Exit()
//
//	tex := texture.NewRegistry(drv, os.DirFS("data/textures"))
//	dev.SetTextures(tex)
//	idx, err := tex.LoadTexture("tiles/jungle.png")
//
//	dev.ClearBackBuffer()
//	dev.SetColorKeyMode()
//	dev.SetTexture(idx)
//	dev.RenderToBuffer(tile2d.TriangleStrip, 2, quad[:])
//	dev.DisplayBuffer()
//
// # Coordinate System
//
// Device coordinates have their origin at the top-left corner of the
// surface, X grows right and Y grows down. Depth is unused; the projection
// maps Z to [0, 1].
//
// # Concurrency
//
// The device and the registry are driven from a single frame loop and are
// not safe for concurrent use. The package logger and the backend registry
// are.
package tile2d
