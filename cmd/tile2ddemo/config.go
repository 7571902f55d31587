// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the demo configuration file.
type Config struct {
	Driver     string  `toml:"driver"`
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	ColorDepth int     `toml:"color_depth"`
	Fullscreen bool    `toml:"fullscreen"`
	Frames     int     `toml:"frames"`
	TimeScale  float64 `toml:"time_scale"`
	Debug      bool    `toml:"debug"`
	Linear     bool    `toml:"linear"`
	Textures   string  `toml:"textures"`
	Output     string  `toml:"output"`
	Tiles      []Tile  `toml:"tile"`
}

// Tile is one sprite drawn every frame.
type Tile struct {
	Texture  string  `toml:"texture"`
	X        float32 `toml:"x"`
	Y        float32 `toml:"y"`
	W        float32 `toml:"w"`
	H        float32 `toml:"h"`
	Color    string  `toml:"color"`
	Blend    string  `toml:"blend"`
	Animated bool    `toml:"animated"`
}

var errConfig = errors.New("tile2ddemo: invalid config")

func defaultConfig() Config {
	return Config{
		Width:      640,
		Height:     480,
		ColorDepth: 32,
		Frames:     60,
		TimeScale:  50,
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", errConfig, c.Width, c.Height)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames %d", errConfig, c.Frames)
	}
	for i, t := range c.Tiles {
		if t.W <= 0 || t.H <= 0 {
			return fmt.Errorf("%w: tile %d has size %gx%g", errConfig, i, t.W, t.H)
		}
		switch t.Blend {
		case "", "colorkey", "white", "additive":
		default:
			return fmt.Errorf("%w: tile %d blend %q", errConfig, i, t.Blend)
		}
		if _, err := parseColor(t.Color); err != nil {
			return fmt.Errorf("%w: tile %d: %w", errConfig, i, err)
		}
	}
	return nil
}
