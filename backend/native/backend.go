// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"fmt"

	"github.com/gogpu/texload"
	"github.com/gogpu/texload/backend"
)

func init() {
	backend.Register(backend.BackendNative, func() backend.TextureBackend {
		return &Backend{}
	})
}

// Backend adapts a standalone Device to the backend registry.
type Backend struct {
	// Open opens the device; OpenBest is used when nil.
	Open func() (*Device, error)

	device *Device
}

var (
	_ backend.TextureBackend = (*Backend)(nil)
	_ backend.Describer      = (*Backend)(nil)
)

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendNative
}

// Init opens the device.
func (b *Backend) Init() error {
	if b.device != nil {
		return nil
	}
	open := b.Open
	if open == nil {
		open = OpenBest
	}
	d, err := open()
	if err != nil {
		return err
	}
	b.device = d
	return nil
}

// Close releases the device.
func (b *Backend) Close() {
	if b.device != nil {
		b.device.Close()
		b.device = nil
	}
}

// NewTarget returns a Target on the backend's device.
func (b *Backend) NewTarget(opts backend.Options) (texload.Target, error) {
	if b.device == nil {
		return nil, backend.ErrNotInitialized
	}
	return b.device.NewTarget(Config{
		Label:          opts.Label,
		MaxTextureSize: opts.MaxTextureSize,
	})
}

// Describe names the adapter and its texture size limit, or returns ""
// before Init.
func (b *Backend) Describe() string {
	if b.device == nil {
		return ""
	}
	return fmt.Sprintf("%s (max texture %d)", b.device.AdapterName(), b.device.Limits().MaxTextureDimension2D)
}
