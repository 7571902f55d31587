// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tile2d"
	"github.com/gogpu/tile2d/backend"
	"github.com/gogpu/tile2d/internal/wgsl"
)

// texture is an uploaded image and its sampled view.
type texture struct {
	tex    hal.Texture
	view   hal.TextureView
	desc   tile2d.TextureDesc
	linear bool
}

func (t *texture) destroy(device hal.Device) {
	if t.view != nil {
		device.DestroyTextureView(t.view)
	}
	if t.tex != nil {
		device.DestroyTexture(t.tex)
	}
}

func textureFormat(f tile2d.TextureFormat) (gputypes.TextureFormat, error) {
	switch f {
	case tile2d.FormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm, nil
	case tile2d.FormatR8:
		return gputypes.TextureFormatR8Unorm, nil
	default:
		return gputypes.TextureFormatUndefined, fmt.Errorf("native: unsupported texture format %d", f)
	}
}

// CreateTexture uploads pixels as a sampled 2D texture.
func (n *Native) CreateTexture(desc tile2d.TextureDesc, pixels []byte) (tile2d.TextureID, error) {
	if n.surface == nil {
		return 0, backend.ErrNotOpen
	}
	t, err := n.uploadTexture(desc, pixels)
	if err != nil {
		return 0, err
	}
	id := tile2d.TextureID(n.newID())
	n.textures[id] = t
	return id, nil
}

func (n *Native) uploadTexture(desc tile2d.TextureDesc, pixels []byte) (*texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("native: invalid texture size %dx%d", desc.Width, desc.Height)
	}
	format, err := textureFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	bpp := desc.Format.BytesPerPixel()
	if want := desc.Width * desc.Height * bpp; len(pixels) != want {
		return nil, fmt.Errorf("native: texture %q has %d bytes, want %d", desc.Label, len(pixels), want)
	}

	w, h := uint32(desc.Width), uint32(desc.Height) //nolint:gosec // validated positive above
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}
	tex, err := n.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create texture %q: %w", desc.Label, err)
	}
	view, err := n.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         desc.Label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		n.device.DestroyTexture(tex)
		return nil, fmt.Errorf("native: create texture view %q: %w", desc.Label, err)
	}

	n.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * uint32(bpp), //nolint:gosec // 1 or 4
			RowsPerImage: h,
		},
		&size,
	)
	return &texture{tex: tex, view: view, desc: desc, linear: desc.Linear}, nil
}

func (n *Native) DeleteTexture(id tile2d.TextureID) {
	t, ok := n.textures[id]
	if !ok {
		return
	}
	// Recorded draws hold a view of t until the frame is encoded.
	n.flushIfReferenced(t)
	t.destroy(n.device)
	delete(n.textures, id)
	for unit, bound := range n.units {
		if bound == id {
			n.units[unit] = 0
		}
	}
}

// BindTexture binds id to a texture unit. Unit 0 is the color texture and
// unit 1 the split alpha plane; a unit bound to 0 samples opaque white.
func (n *Native) BindTexture(unit int, id tile2d.TextureID) {
	if unit < 0 || unit >= len(n.units) {
		tile2d.Logger().Warn("native: texture unit out of range", "unit", unit)
		return
	}
	n.units[unit] = id
}

func (n *Native) SetTextureFilter(linear bool) {
	if t, ok := n.textures[n.units[0]]; ok {
		t.linear = linear
	}
}

// sampler returns the shared nearest or linear sampler.
func (n *Native) sampler(linear bool) (hal.Sampler, error) {
	i, filter := 0, gputypes.FilterModeNearest
	if linear {
		i, filter = 1, gputypes.FilterModeLinear
	}
	if n.samplers[i] != nil {
		return n.samplers[i], nil
	}
	s, err := n.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        fmt.Sprintf("tile2d_sampler_%d", i),
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create sampler: %w", err)
	}
	n.samplers[i] = s
	return s, nil
}

// boundTexture returns the texture on unit, or an opaque white 1x1
// texture when nothing is bound.
func (n *Native) boundTexture(unit int) (*texture, error) {
	if unit < len(n.units) {
		if t, ok := n.textures[n.units[unit]]; ok {
			return t, nil
		}
	}
	if n.fallback == nil {
		t, err := n.uploadTexture(tile2d.TextureDesc{
			Label:  "tile2d_white",
			Width:  1,
			Height: 1,
			Format: tile2d.FormatRGBA8,
		}, []byte{255, 255, 255, 255})
		if err != nil {
			return nil, err
		}
		n.fallback = t
	}
	return n.fallback, nil
}

// shaderModule is a compiled stage.
type shaderModule struct {
	stage  tile2d.ShaderStage
	module hal.ShaderModule
	reflow *wgsl.Module
	refs   int // linked programs
	dead   bool
}

// CompileShader reflects the WGSL interface and creates the module.
func (n *Native) CompileShader(stage tile2d.ShaderStage, source string) (tile2d.ShaderID, error) {
	if n.surface == nil {
		return 0, backend.ErrNotOpen
	}
	mod, err := wgsl.Reflect(source)
	if err != nil {
		return 0, &tile2d.CompileError{Stage: stage, Log: err.Error()}
	}
	if (stage == tile2d.StageVertex) != (mod.Stage == wgsl.StageVertex) {
		return 0, &tile2d.CompileError{Stage: stage, Log: fmt.Sprintf("entry point %s is not a %v stage", mod.EntryPoint, stage)}
	}
	sm, err := n.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  mod.EntryPoint,
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return 0, &tile2d.CompileError{Stage: stage, Log: err.Error()}
	}
	id := tile2d.ShaderID(n.newID())
	n.shaders[id] = &shaderModule{stage: stage, module: sm, reflow: mod}
	return id, nil
}

// DeleteShader releases the module once no linked program uses it.
func (n *Native) DeleteShader(id tile2d.ShaderID) {
	s, ok := n.shaders[id]
	if !ok {
		return
	}
	delete(n.shaders, id)
	s.dead = true
	n.releaseShader(s)
}

func (n *Native) releaseShader(s *shaderModule) {
	if s.dead && s.refs == 0 {
		n.device.DestroyShaderModule(s.module)
	}
}

// program is a linked shader pair with its binding layouts and the CPU
// copy of its uniform block.
type program struct {
	linked     *wgsl.Program
	vs, fs     *shaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	uniforms   []byte
}

// LinkProgram checks the stage interfaces and creates the layouts.
func (n *Native) LinkProgram(vertex, fragment tile2d.ShaderID) (tile2d.ProgramID, error) {
	vs, ok := n.shaders[vertex]
	if !ok || vs.stage != tile2d.StageVertex {
		return 0, &tile2d.LinkError{Log: fmt.Sprintf("no vertex shader %d", vertex)}
	}
	fs, ok := n.shaders[fragment]
	if !ok || fs.stage != tile2d.StageFragment {
		return 0, &tile2d.LinkError{Log: fmt.Sprintf("no fragment shader %d", fragment)}
	}
	linked, err := wgsl.Link(vs.reflow, fs.reflow)
	if err != nil {
		return 0, &tile2d.LinkError{Log: err.Error()}
	}

	entries := []gputypes.BindGroupLayoutEntry{{
		Binding:    0,
		Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	}}
	for _, res := range fs.reflow.Textures {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(res.Binding), //nolint:gosec // small binding index
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		})
	}
	for _, res := range fs.reflow.Samplers {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(res.Binding), //nolint:gosec // small binding index
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		})
	}
	bindLayout, err := n.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "tile2d_bind_layout",
		Entries: entries,
	})
	if err != nil {
		return 0, &tile2d.LinkError{Log: fmt.Sprintf("create bind group layout: %v", err)}
	}
	pipeLayout, err := n.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "tile2d_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		n.device.DestroyBindGroupLayout(bindLayout)
		return 0, &tile2d.LinkError{Log: fmt.Sprintf("create pipeline layout: %v", err)}
	}

	vs.refs++
	fs.refs++
	id := tile2d.ProgramID(n.newID())
	n.programs[id] = &program{
		linked:     linked,
		vs:         vs,
		fs:         fs,
		bindLayout: bindLayout,
		pipeLayout: pipeLayout,
		uniforms:   make([]byte, uniformBufferSize(linked.UniformSize)),
	}
	return id, nil
}

// uniformBufferSize rounds a uniform block up to 16 bytes.
func uniformBufferSize(size int) int {
	if size <= 0 {
		return 16
	}
	return (size + 15) &^ 15
}

func (n *Native) DeleteProgram(id tile2d.ProgramID) {
	p, ok := n.programs[id]
	if !ok {
		return
	}
	n.flushIfProgram(id)
	n.pipelines.DeleteFunc(func(k pipelineKey) bool { return k.program == id })
	n.device.DestroyPipelineLayout(p.pipeLayout)
	n.device.DestroyBindGroupLayout(p.bindLayout)
	p.vs.refs--
	p.fs.refs--
	n.releaseShader(p.vs)
	n.releaseShader(p.fs)
	delete(n.programs, id)
	if n.current == id {
		n.current = 0
	}
}

func (n *Native) AttribLocation(p tile2d.ProgramID, name string) int {
	prog, ok := n.programs[p]
	if !ok {
		return tile2d.NotFound
	}
	return prog.linked.Attribute(name)
}

// UniformLocation returns the index of the named uniform block field.
func (n *Native) UniformLocation(p tile2d.ProgramID, name string) int {
	prog, ok := n.programs[p]
	if !ok {
		return tile2d.NotFound
	}
	return prog.linked.Uniform(name)
}

func (n *Native) UseProgram(p tile2d.ProgramID) {
	if _, ok := n.programs[p]; ok || p == 0 {
		n.current = p
	}
}

// uniformField returns the bytes of field loc in the current program.
func (n *Native) uniformField(loc int) []byte {
	prog, ok := n.programs[n.current]
	if !ok || loc < 0 || loc >= len(prog.linked.Uniforms) {
		return nil
	}
	f := prog.linked.Uniforms[loc]
	return prog.uniforms[f.Offset : f.Offset+f.Size]
}

// UniformMatrix4 writes m column-major, matching WGSL mat4x4<f32>.
func (n *Native) UniformMatrix4(location int, m mgl32.Mat4) {
	dst := n.uniformField(location)
	if len(dst) < 64 {
		return
	}
	for i, v := range m {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

func (n *Native) Uniform1i(location int, v int32) {
	dst := n.uniformField(location)
	if len(dst) < 4 {
		return
	}
	binary.LittleEndian.PutUint32(dst, uint32(v)) //nolint:gosec // two's complement bit copy
}
