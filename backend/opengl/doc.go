// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package opengl provides an OpenGL 2.1 driver rendering into a GLFW
// window.
//
// The driver needs cgo and a display, so it is only built with the glfw
// build tag:
//
//	go build -tags glfw ./...
//
// Shaders are GLSL 1.20. Importing the package registers the driver under
// backend.DriverOpenGL, where it takes precedence over the headless driver
// in backend.Default.
//
// GLFW and OpenGL calls must come from the main thread. The package locks
// the main goroutine to its thread on import; drive the device from main.
package opengl
