// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"

	"github.com/gogpu/tile2d"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested driver is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotOpen is returned when GPU objects are created before Open.
	ErrNotOpen = errors.New("backend: driver not open")
)

// Driver name constants.
const (
	// DriverNative is the Pure Go WebGPU driver (gogpu/wgpu).
	DriverNative = "native"
	// DriverOpenGL is the OpenGL 2.1 driver with a GLFW window.
	DriverOpenGL = "opengl"
	// DriverHeadless is the in-memory recording driver.
	DriverHeadless = "headless"
)

// Factory creates a new driver instance.
type Factory func() tile2d.Driver
