// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"io/fs"
	"log/slog"
	"time"

	"github.com/gogpu/tile2d/shader"
	"github.com/gogpu/tile2d/texture"
)

// DefaultTimeScale is the rate of the u_Time uniform in ticks per second.
const DefaultTimeScale = 50

// Option configures a Device during creation.
//
// Example:
//
//	dev := render.New(drv,
//	    render.WithDebug(true),
//	    render.WithTextures(reg),
//	)
type Option func(*config)

// config holds optional configuration for Device creation.
type config struct {
	logger    *slog.Logger
	debug     bool
	clock     func() time.Duration
	shaderFS  fs.FS
	shaderDir string
	timeScale float64
	textures  *texture.Registry
	title     string
}

// defaultConfig returns the default device configuration.
func defaultConfig() config {
	start := time.Now()
	return config{
		debug:     debugDefault,
		clock:     func() time.Duration { return time.Since(start) },
		shaderFS:  shader.Builtin(),
		shaderDir: shader.BuiltinDir,
		timeScale: DefaultTimeScale,
		title:     "tile2d",
	}
}

// WithLogger sets the logger of this device. By default the device logs
// through tile2d.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithDebug turns texture index errors into halting diagnostics.
// The default is on in builds with the tile2ddebug tag.
func WithDebug(enabled bool) Option {
	return func(c *config) {
		c.debug = enabled
	}
}

// WithClock sets the elapsed-time source of the u_Time uniform.
func WithClock(clock func() time.Duration) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithShaderFS loads programs from <dir>/<language>/ in fsys instead of the
// embedded sources.
func WithShaderFS(fsys fs.FS, dir string) Option {
	return func(c *config) {
		c.shaderFS, c.shaderDir = fsys, dir
	}
}

// WithTimeScale sets the u_Time rate in ticks per second.
func WithTimeScale(ticksPerSecond float64) Option {
	return func(c *config) {
		c.timeScale = ticksPerSecond
	}
}

// WithTextures sets the registry SetTexture resolves indices against.
func WithTextures(r *texture.Registry) Option {
	return func(c *config) {
		c.textures = r
	}
}

// WithTitle sets the window title passed to the driver.
func WithTitle(title string) Option {
	return func(c *config) {
		c.title = title
	}
}
