// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texload

import (
	"image"

	"github.com/gogpu/texload/pixbuf"
)

// Target is a texture object that loaders write into, together with the
// graphics context it belongs to. Loaders never own a Target: they allocate
// its storage once and then write sub-rectangles into it.
type Target interface {
	// MakeCurrent re-establishes the Target's context. Other rendering may
	// run between loader calls, so loaders call it before every batch of
	// GPU work, not only the first.
	MakeCurrent() error

	// Allocate creates uninitialised storage. An error wrapping
	// ErrAllocationFailed means the size was refused and a smaller one may
	// succeed; any other error is final.
	Allocate(a Allocation) error

	// WriteStripe writes rows of canonical RGBA8 pixels at the top-left
	// column of the texture. Stripes arrive in increasing Y order.
	WriteStripe(s Stripe) error

	// Discard releases storage created by Allocate, leaving the Target as
	// it was before. Loaders call it when a write fails.
	Discard()
}

// Allocation describes texture storage for an image.
type Allocation struct {
	// Width and Height are the storage size, both powers of two.
	Width  int
	Height int

	// ImageWidth and ImageHeight are the size of the image written into
	// the top-left corner of the storage.
	ImageWidth  int
	ImageHeight int

	// MipLevels is the number of mip levels to allocate, 1 without mipmaps.
	MipLevels int

	// Label is an optional debug label.
	Label string
}

// Stripe is a run of complete image rows.
type Stripe struct {
	// Y is the first row.
	Y int

	// Width and Height are the stripe size in pixels.
	Width  int
	Height int

	// Pix holds Height tightly packed rows of R, G, B, A bytes. It is only
	// valid for the duration of the WriteStripe call.
	Pix []byte

	// GenerateMipmaps is set on the final stripe of an image when mipmaps
	// were requested; the Target must rebuild its mip levels as part of
	// the same write.
	GenerateMipmaps bool
}

// Destination holds per-load texture options.
type Destination struct {
	// Mipmaps requests a full mipmap chain.
	Mipmaps bool

	// Label is passed to Allocate.
	Label string
}

// Capture is a finished image ready to load.
type Capture struct {
	// Image holds the pixels. Ownership passes to the loader.
	Image *pixbuf.Buffer

	// Geometry is where the real image data lies within Image; it is
	// smaller than Image when the source was letterboxed. Empty means
	// the whole image.
	Geometry image.Rectangle

	// Name is an optional display name, for example a file name.
	Name string
}

// Source delivers a Capture that may still be in flight.
type Source interface {
	// Poll reports whether the capture has completed. It must not block.
	Poll() (Capture, bool, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (Capture, bool, error)

// Poll calls f.
func (f SourceFunc) Poll() (Capture, bool, error) {
	return f()
}

// Ready returns a Source whose capture has already completed.
func Ready(c Capture) Source {
	return SourceFunc(func() (Capture, bool, error) {
		return c, true, nil
	})
}
