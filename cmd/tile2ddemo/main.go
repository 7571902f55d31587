// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command tile2ddemo runs a frame loop that draws the tiles listed in a TOML
// file.
//
// Usage:
//
//	tile2ddemo -config demo.toml -driver native -frames 120 -output frame.png
//
// Flags override the values read from the config file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/tile2d"
	"github.com/gogpu/tile2d/backend"
	"github.com/gogpu/tile2d/backend/native"
	"github.com/gogpu/tile2d/render"
	"github.com/gogpu/tile2d/texture"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		driver     = flag.String("driver", "", "driver name (default: best available)")
		width      = flag.Int("width", 0, "surface width")
		height     = flag.Int("height", 0, "surface height")
		frames     = flag.Int("frames", -1, "frames to render")
		textures   = flag.String("textures", "", "texture directory")
		output     = flag.String("output", "", "PNG file for the last frame (native driver)")
		debug      = flag.Bool("debug", false, "halt on texture index errors")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			cfg.Driver = *driver
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "frames":
			cfg.Frames = *frames
		case "textures":
			cfg.Textures = *textures
		case "output":
			cfg.Output = *output
		case "debug":
			cfg.Debug = *debug
		}
	})
	if err := cfg.validate(); err != nil {
		log.Fatal(err)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	tile2d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func openDriver(name string) (tile2d.Driver, error) {
	if name == "" {
		return backend.MustDefault(), nil
	}
	d, err := backend.Get(name)
	if err != nil {
		return nil, fmt.Errorf("driver %q (available: %s): %w", name, strings.Join(backend.Available(), ", "), err)
	}
	return d, nil
}

func run(cfg Config) (err error) {
	drv, err := openDriver(cfg.Driver)
	if err != nil {
		return err
	}
	dev := render.New(drv,
		render.WithDebug(cfg.Debug),
		render.WithTimeScale(cfg.TimeScale),
		render.WithTitle("tile2ddemo"),
	)
	if err := dev.Init(cfg.Width, cfg.Height, cfg.ColorDepth, cfg.Fullscreen); err != nil {
		return err
	}
	defer func() {
		if exitErr := dev.Exit(); err == nil {
			err = exitErr
		}
	}()
	followResize(dev)
	if err := dev.SetDeviceInfo(); err != nil {
		return err
	}

	scene, err := loadScene(drv, dev, cfg)
	if err != nil {
		return err
	}

	for frame := 0; frame < cfg.Frames; frame++ {
		dev.ClearBackBuffer()
		scene.draw(dev)
		if err := dev.DisplayBuffer(); err != nil {
			return err
		}
		if halted := dev.Halted(); halted != nil {
			return halted
		}
	}
	if cfg.Output != "" && cfg.Frames > 0 {
		if err := writeFrame(dev.Surface(), cfg.Output); err != nil {
			return err
		}
	}
	s := dev.Stats()
	tile2d.Logger().Info("tile2ddemo: done",
		"frames", s.Frames, "draws", s.Draws, "skipped", s.SkippedDraws,
		"programSwitches", s.ProgramSwitches, "blendChanges", s.BlendChanges)
	return nil
}

// sprite is a Tile resolved against the texture registry.
type sprite struct {
	tile    Tile
	texture int
	quad    [4]tile2d.Vertex
}

type scene []sprite

func loadScene(drv tile2d.Driver, dev *render.Device, cfg Config) (scene, error) {
	var reg *texture.Registry
	if cfg.Textures != "" {
		reg = texture.NewRegistry(drv, os.DirFS(cfg.Textures), texture.WithFilter(cfg.Linear))
		dev.SetTextures(reg)
	}
	sc := make(scene, 0, len(cfg.Tiles))
	for i, t := range cfg.Tiles {
		c, err := parseColor(t.Color)
		if err != nil {
			return nil, err
		}
		sp := sprite{tile: t, texture: -1, quad: quad(t.X, t.Y, t.W, t.H, c)}
		if t.Texture != "" {
			if reg == nil {
				return nil, fmt.Errorf("tile %d uses texture %q but no texture directory is set", i, t.Texture)
			}
			idx, err := reg.LoadTexture(t.Texture)
			if err != nil {
				return nil, err
			}
			sp.texture = idx
		}
		sc = append(sc, sp)
	}
	return sc, nil
}

func (sc scene) draw(dev *render.Device) {
	for _, sp := range sc {
		switch sp.tile.Blend {
		case "white":
			dev.SetWhiteMode()
		case "additive":
			dev.SetAdditiveMode()
		default:
			dev.SetColorKeyMode()
		}
		var err error
		if sp.tile.Animated {
			err = dev.SetAnimatedTexture(sp.texture)
		} else {
			err = dev.SetTexture(sp.texture)
		}
		if err != nil {
			continue
		}
		// Errors are logged by the device.
		_ = dev.RenderToBuffer(tile2d.TriangleStrip, 2, sp.quad[:])
	}
}

// quad returns a triangle strip covering the rectangle with full texture
// coordinates.
func quad(x, y, w, h float32, c color.RGBA) [4]tile2d.Vertex {
	return [4]tile2d.Vertex{
		{X: x, Y: y, Color: c, U: 0, V: 0},
		{X: x + w, Y: y, Color: c, U: 1, V: 0},
		{X: x, Y: y + h, Color: c, U: 0, V: 1},
		{X: x + w, Y: y + h, Color: c, U: 1, V: 1},
	}
}

// parseColor parses a tile color. The empty string is opaque white.
func parseColor(s string) (color.RGBA, error) {
	if s == "" {
		return tile2d.White, nil
	}
	return tile2d.ParseHex(s)
}

var errNoReadback = errors.New("driver surface cannot be read back")

func writeFrame(s tile2d.Surface, path string) error {
	ns, ok := s.(*native.Surface)
	if !ok {
		return fmt.Errorf("write %s: %w", path, errNoReadback)
	}
	pix, err := ns.ReadPixels()
	if err != nil {
		return err
	}
	w, h := ns.Size()
	img := &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// followResize keeps the viewport and projection in step with surfaces
// that report size changes.
func followResize(dev *render.Device) {
	if rs, ok := dev.Surface().(interface{ OnResize(func(int, int)) }); ok {
		rs.OnResize(dev.ResizeToWindow)
	}
}
