// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build tile2ddebug

package render

// debugDefault enables halting diagnostics in tile2ddebug builds.
const debugDefault = true
