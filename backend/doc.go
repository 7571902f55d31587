// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend provides the pluggable GPU driver registry and the
// headless driver.
//
// Drivers implement [tile2d.Driver] and register themselves from init()
// functions. The headless driver is always registered; the others are
// linked in by importing their packages:
//
//	import _ "github.com/gogpu/tile2d/backend/native"
//
// # Driver Selection
//
// Use Default() to get the best available driver, or Get() to request a
// specific driver by name:
//
//	drv := backend.Default()
//	drv, err := backend.Get(backend.DriverHeadless)
//
// # Available Drivers
//
//   - "native": Pure Go WebGPU via gogpu/wgpu (backend/native)
//   - "opengl": OpenGL 2.1 with a GLFW window (backend/opengl, build tag glfw)
//   - "headless": in-memory state machine that validates shaders with naga
//     and records every call (always available)
//
// # Headless Driver
//
// The headless driver keeps the full GL-style state machine in memory and
// exposes it for inspection: an ordered call log, per-operation counters,
// uploaded texture pixels and one record per draw with the clip-space
// position of every vertex. Tests and the CI mode of the demo use it.
package backend
