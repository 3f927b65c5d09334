// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import "errors"

// Package errors for the HAL backend.
var (
	// ErrNilDevice is returned when no device or queue is supplied.
	ErrNilDevice = errors.New("native: nil device or queue")

	// ErrNoHAL is returned when a device provider does not expose HAL types.
	ErrNoHAL = errors.New("native: provider does not expose HAL device and queue")

	// ErrNotAllocated is returned when a stripe is written before Allocate.
	ErrNotAllocated = errors.New("native: texture not allocated")

	// ErrStripeBounds is returned for stripes outside the allocated image.
	ErrStripeBounds = errors.New("native: stripe outside image")
)
