// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build glfw

package main

import _ "github.com/gogpu/tile2d/backend/opengl"
