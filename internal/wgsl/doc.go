// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgsl extracts the interface of a WGSL shader module: entry points,
// @location inputs and outputs, the uniform block layout and resource
// bindings.
//
// Sources are parsed and lowered by naga; the interface is read from the
// resulting IR. Drivers that compile WGSL use it to answer attribute and
// uniform location queries and to check that a vertex and a fragment module
// agree before linking them into a program.
package wgsl
