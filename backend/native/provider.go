// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// halProvider is implemented by providers that expose their HAL objects.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// FromProvider returns a Target that shares the device of a host
// application. The provider must either implement HalDevice() any and
// HalQueue() any, or return hal.Device and hal.Queue (or values exposing
// HalDevice/HalQueue) from Device and Queue.
func FromProvider(p gpucontext.DeviceProvider, cfg Config) (*Target, error) {
	if p == nil {
		return nil, ErrNilDevice
	}

	device, queue, err := unwrapProvider(p)
	if err != nil {
		return nil, err
	}

	info := p.AdapterInfo()
	slogger().Debug("native: using host device",
		"adapter", info.Name,
		"type", info.Type.String())

	return New(device, queue, nil, cfg)
}

func unwrapProvider(p gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	if hp, ok := p.(halProvider); ok {
		return assertHAL(hp.HalDevice(), hp.HalQueue())
	}

	dev, q := any(p.Device()), any(p.Queue())
	if d, ok := dev.(interface{ HalDevice() any }); ok {
		dev = d.HalDevice()
	}
	if qq, ok := q.(interface{ HalQueue() any }); ok {
		q = qq.HalQueue()
	}
	return assertHAL(dev, q)
}

func assertHAL(dev, q any) (hal.Device, hal.Queue, error) {
	device, ok := dev.(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: device is %T", ErrNoHAL, dev)
	}
	queue, ok := q.(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: queue is %T", ErrNoHAL, q)
	}
	return device, queue, nil
}
