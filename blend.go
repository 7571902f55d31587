// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tile2d

// BlendFactor is a source or destination factor of the blend equation.
// The equation itself is always addition.
type BlendFactor uint8

const (
	FactorZero BlendFactor = iota
	FactorOne
	FactorSrcAlpha
	FactorOneMinusSrcAlpha
	FactorDstAlpha
)

// String returns the factor name.
func (f BlendFactor) String() string {
	switch f {
	case FactorZero:
		return "Zero"
	case FactorOne:
		return "One"
	case FactorSrcAlpha:
		return "SrcAlpha"
	case FactorOneMinusSrcAlpha:
		return "OneMinusSrcAlpha"
	case FactorDstAlpha:
		return "DstAlpha"
	default:
		return "Unknown"
	}
}

// BlendMode is the tagged blend state tracked by the device.
type BlendMode uint8

const (
	// BlendNone is the state before any mode has been configured.
	BlendNone BlendMode = iota
	// BlendColorKey is straight alpha blending for sprites with transparent
	// regions.
	BlendColorKey
	// BlendWhite brightens the destination where the source is transparent,
	// used for hit flashes.
	BlendWhite
	// BlendAdditive adds the alpha-weighted source, used for light and fire.
	BlendAdditive
)

// String returns the mode name.
func (m BlendMode) String() string {
	switch m {
	case BlendNone:
		return "None"
	case BlendColorKey:
		return "ColorKey"
	case BlendWhite:
		return "White"
	case BlendAdditive:
		return "Additive"
	default:
		return "Unknown"
	}
}

// Factors returns the source and destination blend factors of m.
// BlendNone reports (One, Zero), which is plain replacement.
func (m BlendMode) Factors() (src, dst BlendFactor) {
	switch m {
	case BlendColorKey:
		return FactorSrcAlpha, FactorOneMinusSrcAlpha
	case BlendWhite:
		return FactorOneMinusSrcAlpha, FactorDstAlpha
	case BlendAdditive:
		return FactorSrcAlpha, FactorOne
	default:
		return FactorOne, FactorZero
	}
}
