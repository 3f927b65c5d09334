// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pixbuf

import "image"

// MinHalveSize is the dimension at or below which Halve refuses to shrink.
const MinHalveSize = 32

// Halve replaces buf with a copy of half its width and height, taking every
// second pixel of every second row. No averaging is done. geom, if non-nil,
// is halved in origin and size to stay in step with the buffer.
//
// Halve reports false and leaves buf and geom untouched when either
// dimension is already at or below MinHalveSize.
func Halve(buf *Buffer, geom *image.Rectangle) bool {
	if buf.width <= MinHalveSize || buf.height <= MinHalveSize {
		return false
	}

	w, h := buf.width/2, buf.height/2
	bpp := buf.layout.BytesPerPixel()
	stride := w * bpp
	data := make([]byte, stride*h)

	for y := 0; y < h; y++ {
		src := buf.RowBytes(y * 2)
		dst := data[y*stride : (y+1)*stride]
		for x := 0; x < w; x++ {
			copy(dst[x*bpp:(x+1)*bpp], src[x*2*bpp:])
		}
	}

	// The old pixels are gone; hand them back to their producer now.
	if fn := buf.release; fn != nil {
		buf.release = nil
		fn()
	}

	buf.data = data
	buf.width = w
	buf.height = h
	buf.stride = stride

	if geom != nil {
		x, y := geom.Min.X/2, geom.Min.Y/2
		*geom = image.Rect(x, y, x+geom.Dx()/2, y+geom.Dy()/2)
	}
	return true
}
