// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texload

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/texload/pixbuf"
)

// Result describes a finished one-shot load.
type Result struct {
	// Geometry is where the image data landed, after any reductions.
	Geometry image.Rectangle

	// ImageWidth and ImageHeight are the uploaded image size.
	ImageWidth  int
	ImageHeight int

	// TextureWidth and TextureHeight are the allocated storage size.
	TextureWidth  int
	TextureHeight int

	// Reductions counts how many times the image was halved.
	Reductions int
}

// Load uploads a captured image into target in a single call.
//
// Storage is allocated at power-of-two dimensions and the image is written
// into its top-left corner. If the Target refuses the size, the image is
// halved and allocation retried, up to MaxAttempts times in total
// (see WithMaxAttempts). When every attempt fails the returned error is an
// *ExhaustedError and target has not been written.
//
// Load takes ownership of c.Image and releases it before returning.
// Images smaller than MinImageSize in either dimension yield
// ErrDegenerateGeometry and leave target untouched.
func Load(c Capture, target Target, dst Destination, opts ...Option) (Result, error) {
	if c.Image == nil {
		return Result{}, ErrNilImage
	}
	defer c.Image.Release()
	if target == nil {
		return Result{}, ErrNilTarget
	}

	o := resolveOptions(opts)
	buf := c.Image
	geom := fullGeometry(c.Geometry, buf.Width(), buf.Height())

	if Degenerate(buf.Width(), buf.Height()) {
		return Result{}, fmt.Errorf("%w: %dx%d", ErrDegenerateGeometry, buf.Width(), buf.Height())
	}

	if err := target.MakeCurrent(); err != nil {
		return Result{}, fmt.Errorf("texload: make current: %w", err)
	}

	alloc, reductions, err := allocateWithRetry(target, buf, &geom, dst, o.maxAttempts, o.logger)
	if err != nil {
		return Result{}, err
	}

	rgba := pixbuf.Normalize(buf)
	err = target.WriteStripe(Stripe{
		Y:               0,
		Width:           rgba.Width,
		Height:          rgba.Height,
		Pix:             rgba.Bytes(),
		GenerateMipmaps: dst.Mipmaps,
	})
	if err != nil {
		target.Discard()
		return Result{}, fmt.Errorf("texload: write texture: %w", err)
	}

	return Result{
		Geometry:      geom,
		ImageWidth:    alloc.ImageWidth,
		ImageHeight:   alloc.ImageHeight,
		TextureWidth:  alloc.Width,
		TextureHeight: alloc.Height,
		Reductions:    reductions,
	}, nil
}

// allocateWithRetry allocates storage for buf, halving buf and geom each
// time the Target reports ErrAllocationFailed. It returns the successful
// allocation and the number of reductions applied.
func allocateWithRetry(target Target, buf *pixbuf.Buffer, geom *image.Rectangle,
	dst Destination, maxAttempts int, log *slog.Logger) (Allocation, int, error) {
	origW, origH := buf.Width(), buf.Height()
	reductions := 0

	for attempt := 1; ; attempt++ {
		w, h := buf.Width(), buf.Height()
		tw, th := TextureSize(w, h)
		a := Allocation{
			Width:       tw,
			Height:      th,
			ImageWidth:  w,
			ImageHeight: h,
			MipLevels:   1,
			Label:       dst.Label,
		}
		if dst.Mipmaps {
			a.MipLevels = pixbuf.MipLevelCount(tw, th)
		}

		err := target.Allocate(a)
		if err == nil {
			return a, reductions, nil
		}
		if !errors.Is(err, ErrAllocationFailed) {
			return Allocation{}, reductions, fmt.Errorf("texload: allocate %dx%d: %w", tw, th, err)
		}

		log.Debug("texload: allocation refused",
			"attempt", attempt,
			"texture", fmt.Sprintf("%dx%d", tw, th),
			"err", err)

		if attempt >= maxAttempts || !pixbuf.Halve(buf, geom) {
			ex := &ExhaustedError{
				OriginalWidth:  origW,
				OriginalHeight: origH,
				FinalWidth:     w,
				FinalHeight:    h,
				Attempts:       attempt,
				Err:            err,
			}
			log.Warn("texload: giving up on texture allocation", "err", ex)
			return Allocation{}, reductions, ex
		}
		reductions++
	}
}
