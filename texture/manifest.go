// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gogpu/tile2d"
)

// Scale is the texture coordinate correction of one image.
type Scale struct {
	X, Y float64
}

// Identity is the scale of an uncorrected texture.
var Identity = Scale{X: 1, Y: 1}

// Manifest maps an image filename without extension to its scale.
type Manifest map[string]Scale

// ParseManifest reads FILENAME X_SCALE Y_SCALE lines.
//
// Blank lines and lines starting with '#' are ignored. Malformed lines are
// logged and skipped so one bad entry does not discard the rest. Only read
// errors are returned.
func ParseManifest(r io.Reader) (Manifest, error) {
	m := make(Manifest)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		name, s, err := parseEntry(text)
		if err != nil {
			tile2d.Logger().Warn("texture: skipping manifest line", "line", line, "text", text, "error", err)
			continue
		}
		m[name] = s
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("texture: read manifest: %w", err)
	}
	return m, nil
}

func parseEntry(text string) (string, Scale, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return "", Scale{}, fmt.Errorf("want 3 fields, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return "", Scale{}, fmt.Errorf("x scale: %w", err)
	}
	y, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return "", Scale{}, fmt.Errorf("y scale: %w", err)
	}
	if x <= 0 || y <= 0 {
		return "", Scale{}, fmt.Errorf("scale %g %g is not positive", x, y)
	}
	return fields[0], Scale{X: x, Y: y}, nil
}

// Lookup returns the scale of name, or Identity.
func (m Manifest) Lookup(name string) (Scale, bool) {
	s, ok := m[name]
	if !ok {
		return Identity, false
	}
	return s, true
}
