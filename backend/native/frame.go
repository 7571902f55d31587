// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tile2d"
)

// fenceTimeout bounds the wait for a submitted frame.
const fenceTimeout = 5 * time.Second

type attrib struct {
	enabled bool
	ptr     tile2d.AttribPointer
	set     bool
}

func (n *Native) attrib(location int) *attrib {
	a, ok := n.attribs[location]
	if !ok {
		a = &attrib{}
		n.attribs[location] = a
	}
	return a
}

func (n *Native) EnableVertexAttrib(location int)  { n.attrib(location).enabled = true }
func (n *Native) DisableVertexAttrib(location int) { n.attrib(location).enabled = false }

func (n *Native) VertexAttribPointer(location int, ptr tile2d.AttribPointer) {
	a := n.attrib(location)
	a.ptr, a.set = ptr, true
}

// pipelineKey identifies the fixed-function state baked into a pipeline.
type pipelineKey struct {
	program  tile2d.ProgramID
	topology gputypes.PrimitiveTopology
	blend    bool
	src, dst tile2d.BlendFactor
	layout   string
}

// vertexStream is one vertex buffer slot: a byte stream shared by the
// attributes that point into it.
type vertexStream struct {
	data   []byte
	stride int
	attrs  []gputypes.VertexAttribute
}

// drawCall holds the per-draw GPU objects until the frame is encoded.
type drawCall struct {
	program   tile2d.ProgramID
	textures  []*texture
	pipeline  hal.RenderPipeline
	bindGroup hal.BindGroup
	uniforms  hal.Buffer
	vertices  []hal.Buffer
	first     uint32
	count     uint32
	viewport  [4]int
}

func (d *drawCall) destroy(device hal.Device) {
	if d.bindGroup != nil {
		device.DestroyBindGroup(d.bindGroup)
	}
	if d.uniforms != nil {
		device.DestroyBuffer(d.uniforms)
	}
	for _, b := range d.vertices {
		device.DestroyBuffer(b)
	}
}

func topology(p tile2d.Primitive) (gputypes.PrimitiveTopology, error) {
	switch p {
	case tile2d.LineList:
		return gputypes.PrimitiveTopologyLineList, nil
	case tile2d.LineStrip:
		return gputypes.PrimitiveTopologyLineStrip, nil
	case tile2d.TriangleList:
		return gputypes.PrimitiveTopologyTriangleList, nil
	case tile2d.TriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip, nil
	default:
		return 0, fmt.Errorf("%w: %v", tile2d.ErrInvalidPrimitive, p)
	}
}

func vertexFormat(ptr tile2d.AttribPointer) (gputypes.VertexFormat, error) {
	switch {
	case ptr.Type == tile2d.AttribFloat32 && ptr.Size == 1:
		return gputypes.VertexFormatFloat32, nil
	case ptr.Type == tile2d.AttribFloat32 && ptr.Size == 2:
		return gputypes.VertexFormatFloat32x2, nil
	case ptr.Type == tile2d.AttribFloat32 && ptr.Size == 3:
		return gputypes.VertexFormatFloat32x3, nil
	case ptr.Type == tile2d.AttribFloat32 && ptr.Size == 4:
		return gputypes.VertexFormatFloat32x4, nil
	case ptr.Type == tile2d.AttribUint8 && ptr.Size == 4 && ptr.Normalized:
		return gputypes.VertexFormatUnorm8x4, nil
	case ptr.Type == tile2d.AttribUint8 && ptr.Size == 4:
		return gputypes.VertexFormatUint8x4, nil
	default:
		return 0, fmt.Errorf("native: unsupported vertex attribute %d x %d", ptr.Size, ptr.Type)
	}
}

func blendFactor(f tile2d.BlendFactor) gputypes.BlendFactor {
	switch f {
	case tile2d.FactorZero:
		return gputypes.BlendFactorZero
	case tile2d.FactorSrcAlpha:
		return gputypes.BlendFactorSrcAlpha
	case tile2d.FactorOneMinusSrcAlpha:
		return gputypes.BlendFactorOneMinusSrcAlpha
	case tile2d.FactorDstAlpha:
		return gputypes.BlendFactorDstAlpha
	default:
		return gputypes.BlendFactorOne
	}
}

// streams groups the program's vertex inputs by the byte slice they read.
func (n *Native) streams(prog *program) ([]vertexStream, string, error) {
	var out []vertexStream
	var layout strings.Builder
	for _, in := range prog.linked.Vertex.Inputs {
		a, ok := n.attribs[in.Location]
		if !ok || !a.enabled || !a.set {
			return nil, "", fmt.Errorf("native: vertex input %s at location %d is not enabled", in.Name, in.Location)
		}
		format, err := vertexFormat(a.ptr)
		if err != nil {
			return nil, "", err
		}
		attr := gputypes.VertexAttribute{
			Format:         format,
			Offset:         uint64(a.ptr.Offset), //nolint:gosec // layout offsets are small
			ShaderLocation: uint32(in.Location),  //nolint:gosec // locations are small
		}
		i := slices.IndexFunc(out, func(s vertexStream) bool {
			return s.stride == a.ptr.Stride && sameBytes(s.data, a.ptr.Data)
		})
		if i < 0 {
			out = append(out, vertexStream{data: a.ptr.Data, stride: a.ptr.Stride})
			i = len(out) - 1
		}
		out[i].attrs = append(out[i].attrs, attr)
		fmt.Fprintf(&layout, "%d:%d:%d:%d:%d;", i, out[i].stride, attr.ShaderLocation, attr.Offset, format)
	}
	return out, layout.String(), nil
}

// sameBytes reports whether a and b are the same backing memory.
func sameBytes(a, b []byte) bool {
	return len(a) == len(b) && unsafe.SliceData(a) == unsafe.SliceData(b)
}

// DrawArrays records a draw of count vertices starting at first. The draw
// reaches the target when the surface is presented.
func (n *Native) DrawArrays(p tile2d.Primitive, first, count int) error {
	topo, err := topology(p)
	if err != nil {
		return err
	}
	prog, ok := n.programs[n.current]
	if !ok {
		return fmt.Errorf("native: draw without a program")
	}
	if first < 0 || count < 0 {
		return fmt.Errorf("native: invalid draw range %d+%d", first, count)
	}
	if count == 0 {
		return nil
	}
	streams, layout, err := n.streams(prog)
	if err != nil {
		return err
	}
	for _, s := range streams {
		if need := (first + count) * s.stride; need > len(s.data) {
			return fmt.Errorf("native: vertex stream needs %d bytes, has %d", need, len(s.data))
		}
	}

	key := pipelineKey{program: n.current, topology: topo, blend: n.caps[tile2d.CapBlend], layout: layout}
	if key.blend {
		key.src, key.dst = n.blendSrc, n.blendDst
	}
	pipeline, err := n.pipelines.GetOrCreate(key, func() (hal.RenderPipeline, error) {
		return n.createPipeline(key, prog, streams)
	})
	if err != nil {
		return err
	}

	d := &drawCall{
		program:  n.current,
		pipeline: pipeline,
		first:    uint32(first), //nolint:gosec // validated non-negative
		count:    uint32(count), //nolint:gosec // validated non-negative
		viewport: n.viewport,
	}
	if err := n.buildResources(d, prog, streams); err != nil {
		d.destroy(n.device)
		return err
	}
	n.draws = append(n.draws, d)
	return nil
}

func (n *Native) createPipeline(key pipelineKey, prog *program, streams []vertexStream) (hal.RenderPipeline, error) {
	buffers := make([]gputypes.VertexBufferLayout, len(streams))
	for i, s := range streams {
		buffers[i] = gputypes.VertexBufferLayout{
			ArrayStride: uint64(s.stride), //nolint:gosec // small stride
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  s.attrs,
		}
	}
	target := gputypes.ColorTargetState{
		Format:    n.format,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
	if key.blend {
		component := gputypes.BlendComponent{
			SrcFactor: blendFactor(key.src),
			DstFactor: blendFactor(key.dst),
			Operation: gputypes.BlendOperationAdd,
		}
		target.Blend = &gputypes.BlendState{Color: component, Alpha: component}
	}

	pipeline, err := n.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("tile2d_pipeline_%d", key.program),
		Layout: prog.pipeLayout,
		Vertex: hal.VertexState{
			Module:     prog.vs.module,
			EntryPoint: prog.linked.Vertex.EntryPoint,
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     prog.fs.module,
			EntryPoint: prog.linked.Fragment.EntryPoint,
			Targets:    []gputypes.ColorTargetState{target},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: key.topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("native: create pipeline: %w", err)
	}
	tile2d.Logger().Debug("native: pipeline created",
		"program", key.program,
		"topology", key.topology,
		"blend", key.blend,
		"cached", n.pipelines.Len()+1,
	)
	return pipeline, nil
}

// buildResources uploads the vertex streams and a snapshot of the uniform
// block, and creates the bind group of one draw.
func (n *Native) buildResources(d *drawCall, prog *program, streams []vertexStream) error {
	for i, s := range streams {
		buf, err := n.createAndUploadBuffer(fmt.Sprintf("tile2d_vertices_%d", i), s.data,
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		d.vertices = append(d.vertices, buf)
	}

	ub, err := n.createAndUploadBuffer("tile2d_uniforms", prog.uniforms,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	d.uniforms = ub

	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{
			Buffer: ub.NativeHandle(), Offset: 0, Size: uint64(len(prog.uniforms)),
		}},
	}
	// Texture bindings follow texture units in binding order; every sampler
	// uses the filter of the unit 0 texture.
	for unit, res := range prog.fs.reflow.Textures {
		tex, err := n.boundTexture(unit)
		if err != nil {
			return err
		}
		d.textures = append(d.textures, tex)
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  uint32(res.Binding), //nolint:gosec // small binding index
			Resource: gputypes.TextureViewBinding{TextureView: tex.view.NativeHandle()},
		})
	}
	for _, res := range prog.fs.reflow.Samplers {
		linear := false
		if len(d.textures) > 0 {
			linear = d.textures[0].linear
		}
		smp, err := n.sampler(linear)
		if err != nil {
			return err
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  uint32(res.Binding), //nolint:gosec // small binding index
			Resource: gputypes.SamplerBinding{Sampler: smp.NativeHandle()},
		})
	}
	bg, err := n.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "tile2d_bind",
		Layout:  prog.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("native: create bind group: %w", err)
	}
	d.bindGroup = bg
	return nil
}

func (n *Native) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	// Buffer sizes must be a multiple of 4.
	size := (uint64(len(data)) + 3) &^ 3
	buf, err := n.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create %s: %w", label, err)
	}
	if uint64(len(data)) != size {
		padded := make([]byte, size)
		copy(padded, data)
		data = padded
	}
	n.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// Pending returns the number of draws recorded for the current frame.
func (n *Native) Pending() int { return len(n.draws) }

// Pipelines returns the number of cached render pipelines.
func (n *Native) Pipelines() int {
	if n.pipelines == nil {
		return 0
	}
	return n.pipelines.Len()
}

// flush encodes the pending clear and draws into one render pass on the
// surface target, submits it and waits for completion.
func (n *Native) flush() error {
	s := n.surface
	if s == nil || s.view == nil {
		n.discardDraws()
		return nil
	}
	if len(n.draws) == 0 && !n.pendingClear {
		return nil
	}
	defer n.discardDraws()

	encoder, err := n.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "tile2d_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("tile2d_frame"); err != nil {
		return fmt.Errorf("native: begin encoding: %w", err)
	}

	load := gputypes.LoadOpLoad
	if n.pendingClear {
		load = gputypes.LoadOpClear
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "tile2d_frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       s.view,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: n.clearColor,
		}},
	})
	for _, d := range n.draws {
		vp := clampViewport(d.viewport, s.width, s.height)
		rp.SetViewport(float32(vp[0]), float32(vp[1]), float32(vp[2]), float32(vp[3]), 0, 1)
		rp.SetPipeline(d.pipeline)
		rp.SetBindGroup(0, d.bindGroup, nil)
		for slot, buf := range d.vertices {
			rp.SetVertexBuffer(uint32(slot), buf, 0) //nolint:gosec // few slots
		}
		rp.Draw(d.count, 1, d.first, 0)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("native: end encoding: %w", err)
	}
	defer n.device.FreeCommandBuffer(cmdBuf)

	if err := n.submitAndWait(cmdBuf); err != nil {
		return err
	}
	n.pendingClear = false
	return nil
}

func (n *Native) submitAndWait(cmdBuf hal.CommandBuffer) error {
	fence, err := n.device.CreateFence()
	if err != nil {
		return fmt.Errorf("native: create fence: %w", err)
	}
	defer n.device.DestroyFence(fence)

	if err := n.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("native: submit: %w", err)
	}
	ok, err := n.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !ok {
		return fmt.Errorf("native: wait for GPU: ok=%v err=%w", ok, err)
	}
	return nil
}

// clampViewport limits vp to the target; WebGPU rejects viewports that
// leave the attachment.
func clampViewport(vp [4]int, width, height int) [4]int {
	x, y := max(vp[0], 0), max(vp[1], 0)
	x, y = min(x, width), min(y, height)
	w := max(min(vp[2], width-x), 0)
	h := max(min(vp[3], height-y), 0)
	return [4]int{x, y, w, h}
}

// discardDraws releases the recorded draws and pipelines retired by the
// cache.
func (n *Native) discardDraws() {
	for _, d := range n.draws {
		d.destroy(n.device)
	}
	n.draws = n.draws[:0]
	n.destroyRetired()
}

func (n *Native) destroyRetired() {
	for _, p := range n.retired {
		n.device.DestroyRenderPipeline(p)
	}
	n.retired = n.retired[:0]
}

// flushIfReferenced encodes the pending frame when a draw samples t.
func (n *Native) flushIfReferenced(t *texture) {
	if slices.ContainsFunc(n.draws, func(d *drawCall) bool { return slices.Contains(d.textures, t) }) {
		n.flushOrLog()
	}
}

// flushIfProgram encodes the pending frame when a draw uses program id.
func (n *Native) flushIfProgram(id tile2d.ProgramID) {
	if slices.ContainsFunc(n.draws, func(d *drawCall) bool { return d.program == id }) {
		n.flushOrLog()
	}
}

func (n *Native) flushOrLog() {
	if err := n.flush(); err != nil {
		tile2d.Logger().Warn("native: early flush failed", "error", err)
	}
}
