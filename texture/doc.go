// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package texture implements the reference-counted texture registry.
//
// The registry shares one GPU upload between every caller that loads the
// same file. Loads return a stable integer index; unloading the last
// reference releases the GPU texture and leaves a tombstone in its slot so
// indices handed out earlier never move or silently alias a different
// texture.
//
// # Scale Correction
//
// Images whose dimensions were padded to powers of two (by an offline
// pipeline or by [WithPowerOfTwo]) only cover part of the uploaded texture.
// The per-directory manifest (scalefactors.txt by default) lists the
// correction applied to normalized texture coordinates:
//
//	# FILENAME X_SCALE Y_SCALE
//	jungle 0.625 1
//	water  1     0.75
//
// Filenames are matched without extension. Textures missing from the
// manifest use 1.0 unless the registry padded them itself.
package texture
