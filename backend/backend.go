// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"

	"github.com/gogpu/texload"
)

// Backend names.
const (
	// BackendSoftware is the name of the CPU texture backend.
	BackendSoftware = "software"
	// BackendNative is the name of the Pure Go GPU backend (gogpu/wgpu HAL).
	BackendNative = "native"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Options are passed to NewTarget. Zero values select backend defaults.
type Options struct {
	// MaxTextureSize caps both texture dimensions.
	MaxTextureSize int

	// Label is the default debug label for created textures.
	Label string
}

// TextureBackend creates texture targets for loaders.
//
// Backends register themselves with Register and are obtained through
// Get, Open or InitDefault.
type TextureBackend interface {
	// Name returns the backend identifier (e.g., "software", "native").
	Name() string

	// Init acquires the device. It must be called before NewTarget.
	Init() error

	// Close releases the device. Targets must not be used afterwards.
	Close()

	// NewTarget returns a Target that allocates on this backend's device.
	NewTarget(opts Options) (texload.Target, error)
}

// Describer is implemented by backends that can name the device they
// opened, for diagnostics.
type Describer interface {
	Describe() string
}
