// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build glfw

package opengl

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/tile2d"
)

// Surface is a GLFW window.
type Surface struct {
	win      *glfw.Window
	config   tile2d.SurfaceConfig
	onResize func(width, height int)
}

func newSurface(win *glfw.Window, cfg tile2d.SurfaceConfig) *Surface {
	s := &Surface{win: win, config: cfg}
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if s.onResize != nil && width > 0 && height > 0 {
			s.onResize(width, height)
		}
	})
	return s
}

// Size returns the framebuffer size in pixels.
func (s *Surface) Size() (int, int) {
	if s.win == nil {
		return 0, 0
	}
	return s.win.GetFramebufferSize()
}

// OnResize sets the callback invoked from Present when the framebuffer
// size changes, e.g. to call render.Device.ResizeToWindow.
func (s *Surface) OnResize(fn func(width, height int)) { s.onResize = fn }

// Present swaps buffers and processes window events. It returns
// ErrWindowClosed once the window should close.
func (s *Surface) Present() error {
	if s.win == nil {
		return ErrWindowClosed
	}
	s.win.SwapBuffers()
	glfw.PollEvents()
	if s.win.ShouldClose() {
		return ErrWindowClosed
	}
	return nil
}

// Destroy closes the window.
func (s *Surface) Destroy() {
	if s.win != nil {
		s.win.Destroy()
		s.win = nil
	}
}
