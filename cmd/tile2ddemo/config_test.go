// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/tile2d/backend"
	"github.com/gogpu/tile2d/render"
)

const demoTOML = `
driver = "headless"
width = 320
height = 240
frames = 3
textures = "%s"

[[tile]]
texture = "grass.png"
x = 0
y = 0
w = 32
h = 32

[[tile]]
x = 40
y = 40
w = 16
h = 16
color = "#ff000080"
blend = "additive"

[[tile]]
texture = "grass.png"
x = 64
y = 0
w = 32
h = 32
animated = true
blend = "white"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeTexture(t *testing.T, dir string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	f, err := os.Create(filepath.Join(dir, "grass.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error = %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("default size = %dx%d, want 640x480", cfg.Width, cfg.Height)
	}
	if cfg.TimeScale != 50 {
		t.Errorf("default TimeScale = %v, want 50", cfg.TimeScale)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
width = 100
height = 50

[[tile]]
texture = "a.png"
w = 10
h = 10
animated = true
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("size = %dx%d, want 100x50", cfg.Width, cfg.Height)
	}
	if cfg.Frames != 60 {
		t.Errorf("Frames = %d, want default 60", cfg.Frames)
	}
	if len(cfg.Tiles) != 1 || !cfg.Tiles[0].Animated || cfg.Tiles[0].Texture != "a.png" {
		t.Errorf("Tiles = %+v", cfg.Tiles)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero width", "width = 0"},
		{"negative frames", "frames = -2"},
		{"empty tile", "[[tile]]\nw = 0\nh = 4"},
		{"bad blend", "[[tile]]\nw = 4\nh = 4\nblend = \"multiply\""},
		{"bad color", "[[tile]]\nw = 4\nh = 4\ncolor = \"#12\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body))
			if !errors.Is(err, errConfig) {
				t.Errorf("loadConfig() error = %v, want %v", err, errConfig)
			}
		})
	}
}

func TestLoadConfigSyntaxError(t *testing.T) {
	if _, err := loadConfig(writeConfig(t, "width = ")); err == nil {
		t.Error("loadConfig() error = nil, want decode error")
	}
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("loadConfig(missing) error = %v, want ErrNotExist", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"", color.RGBA{255, 255, 255, 255}},
		{"#102030", color.RGBA{0x10, 0x20, 0x30, 255}},
		{"10203040", color.RGBA{0x10, 0x20, 0x30, 0x40}},
	}
	for _, tt := range tests {
		got, err := parseColor(tt.in)
		if err != nil {
			t.Errorf("parseColor(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"#zzzzzz", "#12345", "#1020304050"} {
		if _, err := parseColor(bad); err == nil {
			t.Errorf("parseColor(%q) error = nil, want error", bad)
		}
	}
}

func TestRunHeadless(t *testing.T) {
	dir := t.TempDir()
	writeTexture(t, dir)
	cfg, err := loadConfig(writeConfig(t, fmtTOML(dir)))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if err := run(cfg); err != nil {
		t.Errorf("run() error = %v", err)
	}
}

func TestFollowResize(t *testing.T) {
	drv := backend.NewHeadless()
	dev := render.New(drv)
	if err := dev.Init(320, 240, 32, false); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = dev.Exit() }()
	followResize(dev)

	dev.Surface().(*backend.HeadlessSurface).Resize(800, 600)
	if _, _, w, h := drv.ViewportRect(); w != 800 || h != 600 {
		t.Errorf("viewport = %dx%d after resize, want 800x600", w, h)
	}
	if w, h := dev.Viewport(); w != 800 || h != 600 {
		t.Errorf("Viewport() = %dx%d, want 800x600", w, h)
	}
}

func TestRunMissingTexture(t *testing.T) {
	cfg := defaultConfig()
	cfg.Driver = backend.DriverHeadless
	cfg.Tiles = []Tile{{Texture: "grass.png", W: 8, H: 8}}
	if err := run(cfg); err == nil {
		t.Error("run() error = nil, want error for texture without directory")
	}
}

func TestRunUnknownDriver(t *testing.T) {
	cfg := defaultConfig()
	cfg.Driver = "vulkan-ext"
	if err := run(cfg); !errors.Is(err, backend.ErrBackendNotAvailable) {
		t.Errorf("run() error = %v, want %v", err, backend.ErrBackendNotAvailable)
	}
}

func TestRunOutputNeedsReadback(t *testing.T) {
	cfg := defaultConfig()
	cfg.Driver = backend.DriverHeadless
	cfg.Frames = 1
	cfg.Output = filepath.Join(t.TempDir(), "frame.png")
	if err := run(cfg); !errors.Is(err, errNoReadback) {
		t.Errorf("run() error = %v, want %v", err, errNoReadback)
	}
}

func fmtTOML(dir string) string {
	return fmt.Sprintf(demoTOML, filepath.ToSlash(dir))
}
