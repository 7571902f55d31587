// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tile2d

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every tile2d package.
//
// Startup errors (ErrFatalInit, ErrShaderCompile, ErrShaderLink) are meant to
// propagate to the process entry point, which halts. Per-frame errors
// (ErrInvalidPrimitive, ErrIndexOutOfRange) are logged by the device and the
// offending call becomes a no-op.
var (
	// ErrFatalInit reports that the surface or GPU context could not be created.
	ErrFatalInit = errors.New("tile2d: fatal initialization error")

	// ErrShaderCompile reports a shader stage that failed to compile.
	ErrShaderCompile = errors.New("tile2d: shader compile failed")

	// ErrShaderLink reports a program whose stages could not be linked.
	ErrShaderLink = errors.New("tile2d: shader link failed")

	// ErrLoad reports an unreadable or undecodable image file.
	ErrLoad = errors.New("tile2d: resource load failed")

	// ErrInvalidPrimitive reports an unsupported primitive kind.
	ErrInvalidPrimitive = errors.New("tile2d: invalid primitive kind")

	// ErrIndexOutOfRange reports a texture index outside the registry.
	ErrIndexOutOfRange = errors.New("tile2d: texture index out of range")

	// ErrNotLoaded reports a texture slot whose reference count is already zero.
	ErrNotLoaded = errors.New("tile2d: texture not loaded")

	// ErrNotInitialized reports use of a device before Init/SetDeviceInfo.
	ErrNotInitialized = errors.New("tile2d: device not initialized")

	// ErrDeviceClosed reports use of a device after Exit.
	ErrDeviceClosed = errors.New("tile2d: device closed")
)

// LoadError describes a failed texture load.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("tile2d: load %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrLoad.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// CompileError carries the compiler log of a failed shader stage.
type CompileError struct {
	Program string
	Stage   ShaderStage
	Log     string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("tile2d: compile %s shader of program %q: %s", e.Stage, e.Program, e.Log)
}

// Is reports whether target is ErrShaderCompile.
func (e *CompileError) Is(target error) bool { return target == ErrShaderCompile }

// LinkError carries the linker log of a failed program.
type LinkError struct {
	Program string
	Log     string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("tile2d: link program %q: %s", e.Program, e.Log)
}

// Is reports whether target is ErrShaderLink.
func (e *LinkError) Is(target error) bool { return target == ErrShaderLink }
