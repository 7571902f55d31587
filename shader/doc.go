// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader loads the fixed tile2d shader programs.
//
// A [Program] is one linked vertex + fragment pair. Named constants can be
// baked into the source before compilation, and attribute and uniform
// locations are resolved once after a successful link.
//
// A [Set] holds the three programs the device selects between:
//
//   - color: flat vertex color
//   - texture: bound texture modulated by vertex color
//   - render: textured with the u_Time uniform for animated effects
//
// Sources are looked up as <dir>/<language>/<name>.vert and .frag, where
// language is the driver's [tile2d.ShadingLanguage]. WGSL and GLSL 1.20
// sources are embedded and used by [Set.LoadBuiltin].
package shader
