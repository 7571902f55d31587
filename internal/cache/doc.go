// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache provides a generic keyed cache with least-recently-used
// eviction and release callbacks.
//
// The texture registry caches parsed scale manifests per directory and the
// native driver caches render pipelines per state combination:
//
//	pipelines := cache.New[pipelineKey, *pipeline](64)
//	pipelines.OnEvict(func(_ pipelineKey, p *pipeline) { p.destroy() })
//	p, err := pipelines.GetOrCreate(key, build)
//
// A softLimit of 0 disables eviction.
package cache
