// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tile2d"
	"github.com/gogpu/tile2d/backend"
	"github.com/gogpu/tile2d/internal/cache"
)

// pipelineCacheSize bounds the number of live render pipelines.
const pipelineCacheSize = 64

// ErrNoAdapter is returned by Open when no GPU adapter is found.
var ErrNoAdapter = errors.New("native: no GPU adapters found")

func init() {
	backend.Register(backend.DriverNative, func() tile2d.Driver {
		return New()
	})
}

// Native is a tile2d.Driver rendering through a wgpu HAL device.
//
// Native is not safe for concurrent use.
type Native struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance
	// external devices belong to the host and are never destroyed here.
	external bool
	format   gputypes.TextureFormat
	adapter  string

	surface *Surface
	nextID  uint32

	viewport     [4]int
	clearColor   gputypes.Color
	pendingClear bool
	caps         map[tile2d.Capability]bool
	blendSrc     tile2d.BlendFactor
	blendDst     tile2d.BlendFactor

	textures map[tile2d.TextureID]*texture
	units    [2]tile2d.TextureID
	samplers [2]hal.Sampler // nearest, linear
	fallback *texture

	shaders  map[tile2d.ShaderID]*shaderModule
	programs map[tile2d.ProgramID]*program
	current  tile2d.ProgramID

	attribs   map[int]*attrib
	pipelines *cache.Cache[pipelineKey, hal.RenderPipeline]
	retired   []hal.RenderPipeline
	draws     []*drawCall
}

// New creates a driver that opens its own Vulkan device on Open.
func New() *Native {
	return &Native{format: gputypes.TextureFormatRGBA8Unorm}
}

// NewWithDevice creates a driver rendering with a device owned by the
// caller. Close releases the driver's objects but not the device.
func NewWithDevice(device hal.Device, queue hal.Queue) (*Native, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("native: nil device or queue")
	}
	n := New()
	n.device, n.queue, n.external = device, queue, true
	n.adapter = "external"
	return n, nil
}

// NewFromProvider creates a driver sharing the device of a host
// application. The provider must also expose its HAL objects through
// HalDevice() any and HalQueue() any. A defined surface format is used
// for the color target so pipelines match the host's surface.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Native, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("native: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("native: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("native: provider HalQueue is not hal.Queue")
	}
	n, err := NewWithDevice(device, queue)
	if err != nil {
		return nil, err
	}
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		n.format = f
	}
	return n, nil
}

// Name returns "native".
func (n *Native) Name() string { return backend.DriverNative }

// ShadingLanguage returns WGSL.
func (n *Native) ShadingLanguage() tile2d.ShadingLanguage { return tile2d.LanguageWGSL }

// Format returns the color target format.
func (n *Native) Format() gputypes.TextureFormat { return n.format }

// Open acquires a device if none was given and creates the color target.
func (n *Native) Open(cfg tile2d.SurfaceConfig) (tile2d.Surface, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("native: invalid surface size %dx%d", cfg.Width, cfg.Height)
	}
	if n.device == nil {
		if err := n.openDevice(); err != nil {
			return nil, err
		}
	}
	n.reset()

	s, err := newSurface(n, cfg)
	if err != nil {
		return nil, err
	}
	n.surface = s
	n.viewport = [4]int{0, 0, cfg.Width, cfg.Height}
	tile2d.Logger().Info("native: surface created",
		"adapter", n.adapter,
		"format", n.format,
		"width", cfg.Width,
		"height", cfg.Height,
	)
	return s, nil
}

// openDevice creates an instance and opens the best available adapter,
// preferring discrete and integrated GPUs.
func (n *Native) openDevice() error {
	b, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("native: vulkan backend not available")
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("native: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("native: open device: %w", err)
	}
	n.instance = instance
	n.device, n.queue = openDev.Device, openDev.Queue
	n.adapter = selected.Info.Name
	return nil
}

func (n *Native) reset() {
	n.caps = make(map[tile2d.Capability]bool)
	n.blendSrc, n.blendDst = tile2d.FactorOne, tile2d.FactorZero
	n.clearColor = gputypes.Color{A: 1}
	n.textures = make(map[tile2d.TextureID]*texture)
	n.units = [2]tile2d.TextureID{}
	n.shaders = make(map[tile2d.ShaderID]*shaderModule)
	n.programs = make(map[tile2d.ProgramID]*program)
	n.attribs = make(map[int]*attrib)
	n.current = 0
	n.pipelines = cache.New[pipelineKey, hal.RenderPipeline](pipelineCacheSize)
	n.pipelines.OnEvict(func(_ pipelineKey, p hal.RenderPipeline) {
		// Pending draws may still reference p.
		n.retired = append(n.retired, p)
	})
}

// Info describes the adapter.
func (n *Native) Info() tile2d.DriverInfo {
	return tile2d.DriverInfo{
		Vendor:                 "gogpu",
		Renderer:               n.adapter,
		Version:                "wgpu",
		ShadingLanguageVersion: "WGSL",
	}
}

// Close releases every object created by the driver, and the device when
// the driver created it.
func (n *Native) Close() {
	if n.device == nil {
		return
	}
	n.discardDraws()
	if n.pipelines != nil {
		n.pipelines.Clear()
	}
	n.destroyRetired()
	for id := range n.programs {
		n.DeleteProgram(id)
	}
	for id, s := range n.shaders {
		n.device.DestroyShaderModule(s.module)
		delete(n.shaders, id)
	}
	for id := range n.textures {
		n.DeleteTexture(id)
	}
	if n.fallback != nil {
		n.fallback.destroy(n.device)
		n.fallback = nil
	}
	for i, s := range n.samplers {
		if s != nil {
			n.device.DestroySampler(s)
			n.samplers[i] = nil
		}
	}
	if n.surface != nil {
		n.surface.Destroy()
		n.surface = nil
	}
	if !n.external {
		n.device.Destroy()
		if n.instance != nil {
			n.instance.Destroy()
		}
		n.device, n.queue, n.instance = nil, nil, nil
	}
	tile2d.Logger().Info("native: driver closed")
}

func (n *Native) newID() uint32 {
	n.nextID++
	return n.nextID
}

func (n *Native) Viewport(x, y, width, height int) {
	n.viewport = [4]int{x, y, width, height}
}

func (n *Native) ClearColor(r, g, b, a float32) {
	n.clearColor = gputypes.Color{R: float64(r), G: float64(g), B: float64(b), A: float64(a)}
}

func (n *Native) SetCapability(c tile2d.Capability, enabled bool) {
	n.caps[c] = enabled
}

func (n *Native) BlendFunc(src, dst tile2d.BlendFactor) {
	n.blendSrc, n.blendDst = src, dst
}

// Clear discards the draws recorded so far and clears the target when the
// frame is encoded.
func (n *Native) Clear() {
	n.discardDraws()
	n.pendingClear = true
}
