// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/tile2d"
	"github.com/gogpu/tile2d/internal/cache"
)

// manifestCacheSize bounds the number of directories whose manifest is kept.
const manifestCacheSize = 64

// Handle is one registry slot.
type Handle struct {
	// Path is the normalized path the texture was loaded from.
	Path string

	ID      tile2d.TextureID
	AlphaID tile2d.TextureID // 0 unless split alpha is enabled

	// RefCount is the number of loads not yet matched by an unload.
	// Zero marks a released slot.
	RefCount int

	// ScaleX and ScaleY correct normalized texture coordinates for
	// power-of-two padding.
	ScaleX, ScaleY float64

	// Width and Height are the uploaded texture size.
	Width, Height int
	// ImageWidth and ImageHeight are the decoded image size.
	ImageWidth, ImageHeight int
}

// Live reports whether the slot holds a loaded texture.
func (h Handle) Live() bool { return h.RefCount > 0 }

// Registry loads, shares and releases textures.
//
// Indices are stable: slots are never moved or reused, so a stale index
// reports ErrNotLoaded instead of reaching another texture.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	drv  tile2d.Driver
	fsys fs.FS
	opts options

	slots     []Handle
	byPath    map[string]int
	manifests *cache.Cache[string, Manifest]
	uploads   int
}

// NewRegistry creates a registry reading images from fsys and uploading
// them through drv.
func NewRegistry(drv tile2d.Driver, fsys fs.FS, opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry{
		drv:       drv,
		fsys:      fsys,
		opts:      o,
		byPath:    make(map[string]int),
		manifests: cache.New[string, Manifest](manifestCacheSize),
	}
}

// normalize maps equivalent spellings of a path to one key.
func normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	return norm.NFC.String(p)
}

// LoadTexture returns the index of the texture at p, loading it on first
// use. Repeated loads of the same path share the upload and increment its
// reference count.
func (r *Registry) LoadTexture(p string) (int, error) {
	key := normalize(p)
	if key == "" || key == "." {
		return -1, &tile2d.LoadError{Path: p, Err: errors.New("empty path")}
	}

	if idx, ok := r.byPath[key]; ok {
		r.slots[idx].RefCount++
		tile2d.Logger().Debug("texture: shared", "path", key, "index", idx, "refs", r.slots[idx].RefCount)
		return idx, nil
	}

	h, err := r.upload(key)
	if err != nil {
		return -1, &tile2d.LoadError{Path: p, Err: err}
	}
	idx := len(r.slots)
	r.slots = append(r.slots, h)
	r.byPath[key] = idx
	tile2d.Logger().Debug("texture: loaded",
		"path", key,
		"index", idx,
		"size", fmt.Sprintf("%dx%d", h.Width, h.Height),
		"scale", fmt.Sprintf("%g,%g", h.ScaleX, h.ScaleY),
	)
	return idx, nil
}

func (r *Registry) upload(key string) (Handle, error) {
	data, err := fs.ReadFile(r.fsys, key)
	if err != nil {
		return Handle{}, err
	}
	img, _, err := decode(data)
	if err != nil {
		return Handle{}, fmt.Errorf("decode: %w", err)
	}
	iw, ih := img.Rect.Dx(), img.Rect.Dy()

	expanded := false
	if r.opts.powerOfTwo {
		img, expanded = expandPowerOfTwo(img)
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()

	scale, found := r.scaleFor(key)
	if !found && expanded {
		scale = Scale{X: float64(iw) / float64(w), Y: float64(ih) / float64(h)}
	}

	handle := Handle{
		Path:        key,
		RefCount:    1,
		ScaleX:      scale.X,
		ScaleY:      scale.Y,
		Width:       w,
		Height:      h,
		ImageWidth:  iw,
		ImageHeight: ih,
	}
	desc := tile2d.TextureDesc{Label: key, Width: w, Height: h, Format: tile2d.FormatRGBA8, Linear: r.opts.linear}

	if !r.opts.splitAlpha {
		handle.ID, err = r.drv.CreateTexture(desc, packed(img))
		if err != nil {
			return Handle{}, fmt.Errorf("upload: %w", err)
		}
		r.uploads++
		return handle, nil
	}

	rgb, alpha := splitAlpha(img)
	handle.ID, err = r.drv.CreateTexture(desc, rgb)
	if err != nil {
		return Handle{}, fmt.Errorf("upload: %w", err)
	}
	alphaDesc := desc
	alphaDesc.Label, alphaDesc.Format = key+"#alpha", tile2d.FormatR8
	handle.AlphaID, err = r.drv.CreateTexture(alphaDesc, alpha)
	if err != nil {
		r.drv.DeleteTexture(handle.ID)
		return Handle{}, fmt.Errorf("upload alpha: %w", err)
	}
	r.uploads++
	return handle, nil
}

// scaleFor looks key up in the manifest of its directory.
func (r *Registry) scaleFor(key string) (Scale, bool) {
	if r.opts.manifestName == "" {
		return Identity, false
	}
	dir, file := path.Split(key)
	m, _ := r.manifests.GetOrCreate(dir, func() (Manifest, error) {
		return r.readManifest(path.Join(dir, r.opts.manifestName)), nil
	})
	stem := strings.TrimSuffix(file, path.Ext(file))
	return m.Lookup(stem)
}

// readManifest parses the manifest at name. Missing or unreadable
// manifests mean no corrections.
func (r *Registry) readManifest(name string) Manifest {
	f, err := r.fsys.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			tile2d.Logger().Warn("texture: manifest unreadable", "path", name, "error", err)
		}
		return Manifest{}
	}
	defer f.Close()

	m, err := ParseManifest(f)
	if err != nil {
		tile2d.Logger().Warn("texture: manifest unreadable", "path", name, "error", err)
		return Manifest{}
	}
	tile2d.Logger().Debug("texture: manifest loaded", "path", name, "entries", len(m))
	return m
}

// UnloadTexture releases one reference to idx. The GPU texture is deleted
// when the last reference goes away.
func (r *Registry) UnloadTexture(idx int) error {
	if _, err := r.Get(idx); err != nil {
		return err
	}
	h := &r.slots[idx]
	h.RefCount--
	if h.RefCount > 0 {
		return nil
	}
	r.release(idx)
	tile2d.Logger().Debug("texture: released", "path", h.Path, "index", idx)
	return nil
}

// release deletes the GPU textures of slot idx and tombstones it.
func (r *Registry) release(idx int) {
	h := &r.slots[idx]
	r.drv.DeleteTexture(h.ID)
	if h.AlphaID != 0 {
		r.drv.DeleteTexture(h.AlphaID)
	}
	h.ID, h.AlphaID, h.RefCount = 0, 0, 0
	if cur, ok := r.byPath[h.Path]; ok && cur == idx {
		delete(r.byPath, h.Path)
	}
}

// Get returns the handle at idx. Out-of-range indices report
// ErrIndexOutOfRange and released slots ErrNotLoaded, in every build.
func (r *Registry) Get(idx int) (Handle, error) {
	if idx < 0 || idx >= len(r.slots) {
		return Handle{}, fmt.Errorf("%w: %d (have %d)", tile2d.ErrIndexOutOfRange, idx, len(r.slots))
	}
	h := r.slots[idx]
	if h.RefCount == 0 {
		return Handle{}, fmt.Errorf("%w: index %d (%s)", tile2d.ErrNotLoaded, idx, h.Path)
	}
	return h, nil
}

// Lookup returns the index of a loaded path without changing its
// reference count.
func (r *Registry) Lookup(p string) (int, bool) {
	idx, ok := r.byPath[normalize(p)]
	return idx, ok
}

// Len returns the number of slots, including released ones.
func (r *Registry) Len() int { return len(r.slots) }

// Live returns the number of loaded textures.
func (r *Registry) Live() int { return len(r.byPath) }

// Uploads returns the number of image uploads performed.
func (r *Registry) Uploads() int { return r.uploads }

// Exit releases every loaded texture regardless of reference counts.
func (r *Registry) Exit() {
	for idx := range r.slots {
		if r.slots[idx].RefCount > 0 {
			r.release(idx)
		}
	}
	r.manifests.Clear()
	tile2d.Logger().Info("texture: registry closed", "slots", len(r.slots))
}
