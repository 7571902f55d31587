// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tile2d

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"load", &LoadError{Path: "a.png", Err: fs.ErrNotExist}, ErrLoad},
		{"compile", &CompileError{Program: "color", Stage: StageVertex, Log: "bad"}, ErrShaderCompile},
		{"link", &LinkError{Program: "render", Log: "mismatch"}, ErrShaderLink},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.target)
			}
		})
	}
}

func TestLoadErrorUnwrap(t *testing.T) {
	err := &LoadError{Path: "tiles/a.png", Err: fs.ErrNotExist}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("LoadError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "tiles/a.png") {
		t.Errorf("Error() = %q, want path in message", err.Error())
	}
}

func TestCompileErrorMessage(t *testing.T) {
	err := &CompileError{Program: "texture", Stage: StageFragment, Log: "unknown identifier"}
	msg := err.Error()
	for _, want := range []string{"fragment", "texture", "unknown identifier"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}
