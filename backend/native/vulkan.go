// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

// The Vulkan HAL registers itself with hal.GetBackend in init.
import _ "github.com/gogpu/wgpu/hal/vulkan"
