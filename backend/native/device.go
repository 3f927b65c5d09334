// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // register Vulkan HAL backend
)

// ErrNoAdapter is returned when a HAL backend enumerates no adapters.
var ErrNoAdapter = errors.New("native: no GPU adapter available")

// Device is a standalone HAL device for applications that do not already
// own one. Applications that do should use FromProvider instead.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	limits   gputypes.Limits
	info     gputypes.AdapterInfo
}

// OpenBest opens the first adapter of the most capable registered HAL
// backend (Vulkan > Metal > DX12 > GL > noop).
func OpenBest() (*Device, error) {
	b, err := hal.SelectBestBackend()
	if err != nil {
		return nil, fmt.Errorf("native: select backend: %w", err)
	}
	return open(b)
}

// Open opens the first adapter of the given registered HAL backend.
func Open(variant gputypes.Backend) (*Device, error) {
	b, ok := hal.GetBackend(variant)
	if !ok {
		return nil, fmt.Errorf("native: %s backend: %w", variant, hal.ErrBackendNotFound)
	}
	return open(b)
}

func open(b hal.Backend) (*Device, error) {
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	exposed := adapters[0]

	limits := exposed.Capabilities.Limits
	if limits.MaxTextureDimension2D == 0 {
		limits = gputypes.DefaultLimits()
	}

	openDev, err := exposed.Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("native: open device: %w", err)
	}

	slogger().Info("native: device opened",
		"backend", b.Variant().String(),
		"adapter", exposed.Info.Name,
		"max_texture", limits.MaxTextureDimension2D)

	return &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		limits:   limits,
		info:     exposed.Info,
	}, nil
}

// NewTarget returns a Target on this device.
func (d *Device) NewTarget(cfg Config) (*Target, error) {
	if d.device == nil {
		return nil, ErrNilDevice
	}
	return New(d.device, d.queue, &d.limits, cfg)
}

// AdapterName returns the adapter's human-readable name.
func (d *Device) AdapterName() string {
	return d.info.Name
}

// Limits returns the adapter limits.
func (d *Device) Limits() gputypes.Limits {
	return d.limits
}

// Close destroys the device and its instance.
func (d *Device) Close() {
	if d.device != nil {
		d.device.Destroy()
		d.device = nil
		d.queue = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}
