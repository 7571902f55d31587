// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"bytes"
	"image"
	_ "image/jpeg" // register decoders
	_ "image/png"
	"math/bits"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// decode decodes any registered format into straight-alpha RGBA.
func decode(data []byte) (*image.NRGBA, string, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n, format, nil
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst, format, nil
}

// nextPowerOfTwo returns the smallest power of two >= n.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// isPowerOfTwo reports whether n is a power of two.
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// expandPowerOfTwo pads img with transparent pixels to power-of-two
// dimensions. The image stays anchored at the top-left corner.
func expandPowerOfTwo(img *image.NRGBA) (*image.NRGBA, bool) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if isPowerOfTwo(w) && isPowerOfTwo(h) {
		return img, false
	}
	dst := image.NewNRGBA(image.Rect(0, 0, nextPowerOfTwo(w), nextPowerOfTwo(h)))
	draw.Draw(dst, img.Rect, img, image.Point{}, draw.Src)
	return dst, true
}

// splitAlpha separates img into an opaque color plane and an alpha plane.
func splitAlpha(img *image.NRGBA) (rgb, alpha []byte) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	rgb = make([]byte, w*h*4)
	alpha = make([]byte, w*h)
	for y := range h {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := range w {
			i := y*w + x
			copy(rgb[i*4:i*4+3], row[x*4:x*4+3])
			rgb[i*4+3] = 0xff
			alpha[i] = row[x*4+3]
		}
	}
	return rgb, alpha
}

// packed returns the pixels of img without row padding.
func packed(img *image.NRGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Stride == w*4 {
		return img.Pix[:w*h*4]
	}
	out := make([]byte, 0, w*h*4)
	for y := range h {
		out = append(out, img.Pix[y*img.Stride:y*img.Stride+w*4]...)
	}
	return out
}
