// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/gogpu/texload"
)

// BackendFactory returns a fresh, uninitialized backend.
type BackendFactory func() TextureBackend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)

	// initOrder is tried first by InitDefault; a GPU that cannot be opened
	// falls through to the CPU.
	initOrder = []string{BackendNative, BackendSoftware}
)

// Register adds factory under name, replacing any earlier registration.
// Backend packages call it from init, so importing a backend package is
// enough to make it selectable.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes name from the registry.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(backends))
}

// IsRegistered reports whether name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a new, uninitialized instance of the named backend, or nil.
func Get(name string) TextureBackend {
	registryMu.RLock()
	factory := backends[name]
	registryMu.RUnlock()

	if factory == nil {
		return nil
	}
	return factory()
}

// InitDefault initializes backends in preference order (native, software,
// then any other registered name) and returns the first whose Init
// succeeds. When none does, the error matches ErrBackendNotAvailable and
// every Init error.
func InitDefault() (TextureBackend, error) {
	order := slices.Clone(initOrder)
	for _, name := range Available() {
		if !slices.Contains(order, name) {
			order = append(order, name)
		}
	}

	var errs []error
	for _, name := range order {
		b := Get(name)
		if b == nil {
			continue
		}
		err := b.Init()
		if err == nil {
			return b, nil
		}
		texload.Logger().Debug("backend: skipped", "backend", name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return nil, errors.Join(append([]error{ErrBackendNotAvailable}, errs...)...)
}

// Open returns the named backend, initialized.
func Open(name string) (TextureBackend, error) {
	b := Get(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	if err := b.Init(); err != nil {
		return nil, err
	}
	return b, nil
}
