// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"github.com/gogpu/texload"
	"github.com/gogpu/texload/backend"
)

func init() {
	backend.Register(backend.BackendSoftware, func() backend.TextureBackend {
		return &Backend{}
	})
}

// Backend is the software entry in the backend registry.
type Backend struct {
	inited bool
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.BackendSoftware }

// Init always succeeds.
func (b *Backend) Init() error {
	b.inited = true
	return nil
}

// Close is a no-op.
func (b *Backend) Close() { b.inited = false }

// NewTarget returns a new software Target.
func (b *Backend) NewTarget(opts backend.Options) (texload.Target, error) {
	if !b.inited {
		return nil, backend.ErrNotInitialized
	}
	return New(Config{MaxTextureSize: opts.MaxTextureSize}), nil
}
