// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/tile2d"
	"github.com/gogpu/tile2d/shader"
	"github.com/gogpu/tile2d/texture"
)

// ErrVertexData reports a draw whose vertex slice is shorter than the
// primitive count requires.
var ErrVertexData = errors.New("render: not enough vertex data")

type deviceState uint8

const (
	stateCreated deviceState = iota
	stateOpen                // surface open, programs not loaded
	stateReady
	stateClosed
)

// Stats counts GPU state transitions and draws since SetDeviceInfo.
type Stats struct {
	ProgramSwitches int
	BlendChanges    int
	TimeUpdates     int
	Draws           int
	SkippedDraws    int
	Frames          int
}

// Device is the tile2d graphics device.
//
// A Device is not safe for concurrent use; it is driven from the frame loop.
type Device struct {
	drv      tile2d.Driver
	cfg      config
	state    deviceState
	surface  tile2d.Surface
	programs *shader.Set

	width, height int
	projection    mgl32.Mat4
	modelView     mgl32.Mat4

	activeProgram tile2d.ProgramKind
	activeBlend   tile2d.BlendMode
	// selected is the program the next draw uses, chosen by SetTexture.
	selected     tile2d.ProgramKind
	boundTexture int
	linear       bool

	frame     int
	timeFrame int

	stats  Stats
	halted error

	// DegToRad maps whole degrees to radians for rotation code.
	DegToRad [360]float32
}

// New creates a device rendering through drv. Call Init and SetDeviceInfo
// before drawing.
func New(drv tile2d.Driver, opts ...Option) *Device {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Device{
		drv:          drv,
		cfg:          cfg,
		programs:     shader.NewSet(drv),
		projection:   mgl32.Ident4(),
		modelView:    mgl32.Ident4(),
		selected:     tile2d.ProgramColor,
		boundTexture: -1,
		linear:       true,
	}
}

func (d *Device) log() *slog.Logger {
	if d.cfg.logger != nil {
		return d.cfg.logger
	}
	return tile2d.Logger()
}

// Init creates the rendering surface. Failures wrap tile2d.ErrFatalInit
// and the process is expected to stop.
func (d *Device) Init(width, height, colorDepth int, fullscreen bool) error {
	switch d.state {
	case stateClosed:
		return tile2d.ErrDeviceClosed
	case stateCreated:
	default:
		return fmt.Errorf("%w: device already initialized", tile2d.ErrFatalInit)
	}

	surface, err := d.drv.Open(tile2d.SurfaceConfig{
		Title:      d.cfg.title,
		Width:      width,
		Height:     height,
		ColorDepth: colorDepth,
		Fullscreen: fullscreen,
	})
	if err != nil {
		return fmt.Errorf("%w: open %s surface %dx%d: %w", tile2d.ErrFatalInit, d.drv.Name(), width, height, err)
	}
	d.surface = surface
	d.width, d.height = surface.Size()
	fillDegToRad(&d.DegToRad)
	d.state = stateOpen

	d.log().Info("render: surface created",
		"driver", d.drv.Name(),
		"width", d.width,
		"height", d.height,
		"depth", colorDepth,
		"fullscreen", fullscreen,
	)
	return nil
}

// SetDeviceInfo configures the baseline GPU state and loads the shader
// programs. Compile and link failures are returned as is and are fatal.
func (d *Device) SetDeviceInfo() error {
	switch d.state {
	case stateClosed:
		return tile2d.ErrDeviceClosed
	case stateCreated:
		return tile2d.ErrNotInitialized
	}

	d.width, d.height = d.surface.Size()
	d.drv.Viewport(0, 0, d.width, d.height)

	info := d.drv.Info()
	d.log().Info("render: device info",
		"vendor", info.Vendor,
		"renderer", info.Renderer,
		"version", info.Version,
		"shading_language", info.ShadingLanguageVersion,
	)

	d.drv.ClearColor(tile2d.Normalized(tile2d.Black))
	d.drv.SetCapability(tile2d.CapDepthTest, false)
	d.drv.SetCapability(tile2d.CapBlend, true)

	err := d.programs.LoadFS(d.cfg.shaderFS, d.cfg.shaderDir,
		shader.Constant{Name: tile2d.ConstWindowWidth, Value: float64(d.width)},
		shader.Constant{Name: tile2d.ConstWindowHeight, Value: float64(d.height)},
	)
	if err != nil {
		return err
	}

	d.modelView = mgl32.Ident4()
	d.projection = tile2d.Ortho2D(d.width, d.height)
	d.activeProgram = tile2d.ProgramNone
	d.activeBlend = tile2d.BlendNone
	d.stats = Stats{}
	d.state = stateReady
	return nil
}

// ResizeToWindow updates the viewport and projection to a new surface
// size and resets the model-view matrix.
func (d *Device) ResizeToWindow(width, height int) {
	if d.state == stateClosed || d.state == stateCreated {
		d.log().Warn("render: resize on inactive device", "width", width, "height", height)
		return
	}
	if width <= 0 || height <= 0 {
		d.log().Warn("render: ignoring degenerate resize", "width", width, "height", height)
		return
	}
	d.width, d.height = width, height
	d.drv.Viewport(0, 0, width, height)
	d.projection = tile2d.Ortho2D(width, height)
	d.modelView = mgl32.Ident4()
	d.log().Debug("render: resized", "width", width, "height", height)
}

// Exit releases programs, textures, the surface and the driver. The
// device is unusable afterwards; a second call returns ErrDeviceClosed.
func (d *Device) Exit() error {
	if d.state == stateClosed {
		return tile2d.ErrDeviceClosed
	}
	d.programs.Close()
	if d.cfg.textures != nil {
		d.cfg.textures.Exit()
	}
	if d.surface != nil {
		d.surface.Destroy()
		d.surface = nil
	}
	d.drv.Close()
	d.state = stateClosed
	d.activeProgram, d.activeBlend = tile2d.ProgramNone, tile2d.BlendNone
	d.log().Info("render: device closed",
		"draws", d.stats.Draws,
		"program_switches", d.stats.ProgramSwitches,
		"blend_changes", d.stats.BlendChanges,
	)
	return nil
}

// Ready reports whether the device can draw.
func (d *Device) Ready() bool { return d.state == stateReady }

// Driver returns the driver the device renders through.
func (d *Device) Driver() tile2d.Driver { return d.drv }

// Surface returns the rendering surface, nil before Init and after Exit.
func (d *Device) Surface() tile2d.Surface { return d.surface }

// Programs returns the shader program set.
func (d *Device) Programs() *shader.Set { return d.programs }

// Textures returns the registry SetTexture resolves against.
func (d *Device) Textures() *texture.Registry { return d.cfg.textures }

// SetTextures replaces the texture registry. The device releases it on Exit.
func (d *Device) SetTextures(r *texture.Registry) { d.cfg.textures = r }

// ActiveProgram returns the program currently in use on the GPU.
func (d *Device) ActiveProgram() tile2d.ProgramKind { return d.activeProgram }

// ActiveBlendMode returns the blend mode currently configured on the GPU.
func (d *Device) ActiveBlendMode() tile2d.BlendMode { return d.activeBlend }

// SelectedProgram returns the program the next draw will use.
func (d *Device) SelectedProgram() tile2d.ProgramKind { return d.selected }

// Projection returns the orthographic projection matrix.
func (d *Device) Projection() mgl32.Mat4 { return d.projection }

// ModelView returns the model-view matrix.
func (d *Device) ModelView() mgl32.Mat4 { return d.modelView }

// SetModelView sets the model-view matrix applied to following draws.
func (d *Device) SetModelView(m mgl32.Mat4) { d.modelView = m }

// Viewport returns the viewport size.
func (d *Device) Viewport() (width, height int) { return d.width, d.height }

// Stats returns the transition and draw counters.
func (d *Device) Stats() Stats { return d.stats }

// Halted returns the diagnostic that halted the device in debug mode, or nil.
func (d *Device) Halted() error { return d.halted }

// Debug reports whether halting diagnostics are enabled.
func (d *Device) Debug() bool { return d.cfg.debug }
