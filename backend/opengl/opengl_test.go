// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build glfw

package opengl

import (
	"testing"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/tile2d"
	"github.com/gogpu/tile2d/backend"
)

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.DriverOpenGL) {
		t.Fatal("opengl driver not registered")
	}
	if got := backend.Default(); got != backend.DriverOpenGL && got != backend.DriverNative {
		t.Errorf("Default() = %q, want a GPU driver", got)
	}
}

func TestBlendFactor(t *testing.T) {
	tests := []struct {
		f    tile2d.BlendFactor
		want uint32
	}{
		{tile2d.FactorZero, gl.ZERO},
		{tile2d.FactorOne, gl.ONE},
		{tile2d.FactorSrcAlpha, gl.SRC_ALPHA},
		{tile2d.FactorOneMinusSrcAlpha, gl.ONE_MINUS_SRC_ALPHA},
		{tile2d.FactorDstAlpha, gl.DST_ALPHA},
	}
	for _, tt := range tests {
		if got := blendFactor(tt.f); got != tt.want {
			t.Errorf("blendFactor(%v) = 0x%x, want 0x%x", tt.f, got, tt.want)
		}
	}
}

func TestColorBits(t *testing.T) {
	if got := colorBits(16)[glfw.GreenBits]; got != 6 {
		t.Errorf("colorBits(16) green = %d, want 6", got)
	}
	if got := colorBits(32)[glfw.AlphaBits]; got != 8 {
		t.Errorf("colorBits(32) alpha = %d, want 8", got)
	}
	if colorBits(15) != nil {
		t.Error("colorBits(15) should keep defaults")
	}
}

func TestNotOpen(t *testing.T) {
	g := New()
	if g.ShadingLanguage() != tile2d.LanguageGLSL120 {
		t.Errorf("ShadingLanguage() = %v", g.ShadingLanguage())
	}
	if _, err := g.CreateTexture(tile2d.TextureDesc{Width: 1, Height: 1}, make([]byte, 4)); err != backend.ErrNotOpen {
		t.Errorf("CreateTexture() before Open = %v, want ErrNotOpen", err)
	}
	g.Close()
}
