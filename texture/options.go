// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

// DefaultManifestName is the scale manifest looked up in each directory.
const DefaultManifestName = "scalefactors.txt"

// Option configures a Registry.
type Option func(*options)

type options struct {
	manifestName string
	powerOfTwo   bool
	splitAlpha   bool
	linear       bool
}

func defaultOptions() options {
	return options{
		manifestName: DefaultManifestName,
		linear:       true,
	}
}

// WithManifestName sets the per-directory scale manifest filename.
// An empty name disables manifests.
func WithManifestName(name string) Option {
	return func(o *options) {
		o.manifestName = name
	}
}

// WithPowerOfTwo pads images to power-of-two dimensions before upload, for
// drivers that cannot sample non-power-of-two textures.
func WithPowerOfTwo(enabled bool) Option {
	return func(o *options) {
		o.powerOfTwo = enabled
	}
}

// WithSplitAlpha uploads alpha as a separate single-channel texture, for
// targets whose compressed formats carry no alpha.
func WithSplitAlpha(enabled bool) Option {
	return func(o *options) {
		o.splitAlpha = enabled
	}
}

// WithFilter selects bilinear (true, the default) or nearest filtering
// for uploaded textures.
func WithFilter(linear bool) Option {
	return func(o *options) {
		o.linear = linear
	}
}
