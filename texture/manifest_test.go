// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"strings"
	"testing"
)

func TestParseManifest(t *testing.T) {
	src := `# scale corrections
foo 0.5 0.75
  bar   1   0.25
bad
also bad 1
neg -1 1
nan x 1

water 0.625 1
`
	m, err := ParseManifest(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	want := Manifest{
		"foo":   {0.5, 0.75},
		"bar":   {1, 0.25},
		"water": {0.625, 1},
	}
	if len(m) != len(want) {
		t.Errorf("ParseManifest() = %v, want %v", m, want)
	}
	for name, s := range want {
		if got, ok := m.Lookup(name); !ok || got != s {
			t.Errorf("Lookup(%q) = (%v, %v), want (%v, true)", name, got, ok, s)
		}
	}
	if got, ok := m.Lookup("missing"); ok || got != Identity {
		t.Errorf("Lookup(missing) = (%v, %v), want (Identity, false)", got, ok)
	}
}

func TestPowerOfTwoHelpers(t *testing.T) {
	tests := []struct {
		n, next int
		is      bool
	}{
		{0, 1, false},
		{1, 1, true},
		{2, 2, true},
		{3, 4, false},
		{24, 32, false},
		{64, 64, true},
		{1000, 1024, false},
	}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.n); got != tt.next {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.n, got, tt.next)
		}
		if got := isPowerOfTwo(tt.n); got != tt.is {
			t.Errorf("isPowerOfTwo(%d) = %v, want %v", tt.n, got, tt.is)
		}
	}
}
