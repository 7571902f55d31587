// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native provides the Pure Go WebGPU driver built on gogpu/wgpu.
//
// The driver keeps the immediate, state-machine shaped tile2d.Driver
// contract on top of WebGPU's pipeline model. Blend factors, primitive
// topology and vertex layout are folded into render pipelines that are
// created on first use and cached per program. Draws are recorded as they
// are issued and encoded into a single render pass when the frame is
// presented.
//
// Building with the nogpu tag leaves the Vulkan HAL out; such builds must
// supply a device through NewWithDevice or NewFromProvider.
//
// Rendering goes to an offscreen color target owned by the surface. The
// target can be read back with [Surface.ReadPixels].
//
// # Device Sharing
//
// By default Open creates its own Vulkan device. A host application that
// already owns a device passes it with [NewWithDevice] or, through the
// gpucontext interfaces, with [NewFromProvider]:
//
//	drv, err := native.NewFromProvider(app.DeviceProvider())
//	dev := render.New(drv)
//
// # Registration
//
// Importing the package registers the driver under backend.DriverNative:
//
//	import _ "github.com/gogpu/tile2d/backend/native"
package native
