// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texload

import (
	"errors"
	"fmt"
)

// Loader errors.
var (
	// ErrDegenerateGeometry is returned for images too small to be worth a
	// texture. It is not a fatal condition: there is simply nothing to show.
	ErrDegenerateGeometry = errors.New("texload: degenerate image geometry")

	// ErrAllocationFailed is wrapped by Target implementations when the GPU
	// refuses texture storage of the requested size. Loaders react by
	// halving the image and retrying.
	ErrAllocationFailed = errors.New("texload: texture allocation failed")

	// ErrExhaustedRetries is matched by *ExhaustedError.
	ErrExhaustedRetries = errors.New("texload: texture allocation retries exhausted")

	// ErrMisuse marks programming errors such as closing a loader whose
	// capture is still in flight.
	ErrMisuse = errors.New("texload: misuse")

	// ErrNilImage is returned when a capture delivers no pixels.
	ErrNilImage = errors.New("texload: capture has no image")

	// ErrNilTarget is returned when no texture target is supplied.
	ErrNilTarget = errors.New("texload: target is nil")

	// ErrClosed is reported by a loader closed before it completed.
	ErrClosed = errors.New("texload: loader closed")
)

// ExhaustedError reports that no reduced size of an image could be
// allocated. It matches ErrExhaustedRetries and unwraps to the last error
// returned by the Target.
type ExhaustedError struct {
	// OriginalWidth and OriginalHeight are the image size before any halving.
	OriginalWidth  int
	OriginalHeight int

	// FinalWidth and FinalHeight are the image size of the last attempt.
	FinalWidth  int
	FinalHeight int

	// Attempts is the number of allocations tried.
	Attempts int

	// Err is the last Target error.
	Err error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("texload: no texture after %d attempts (%dx%d reduced to %dx%d): %v",
		e.Attempts, e.OriginalWidth, e.OriginalHeight, e.FinalWidth, e.FinalHeight, e.Err)
}

// Is reports whether target is ErrExhaustedRetries.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhaustedRetries
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}
