// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pixbuf

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Buffer errors.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("pixbuf: invalid dimensions")

	// ErrInvalidStride is returned when stride is less than one row of pixels.
	ErrInvalidStride = errors.New("pixbuf: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("pixbuf: data buffer too small")

	// ErrRowsOutOfRange is returned when a row view falls outside the buffer.
	ErrRowsOutOfRange = errors.New("pixbuf: rows out of range")
)

// Buffer is a pixel buffer in a producer-defined Layout.
//
// A Buffer is exclusively owned by whoever currently holds it. The producer
// may attach a release hook (for example to return a shared-memory segment);
// Release runs it exactly once. Row views returned by Rows share the pixel
// data but never own the hook.
//
// Buffer is not safe for concurrent mutation.
type Buffer struct {
	data   []byte
	width  int
	height int
	stride int
	layout Layout

	release  func()
	released bool
}

// New allocates a zeroed buffer with tightly packed rows.
func New(width, height int, layout Layout) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	stride := layout.RowBytes(width)
	return &Buffer{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		layout: layout,
	}, nil
}

// FromRaw wraps existing pixel data without copying.
// The caller must keep data valid for the lifetime of the Buffer.
func FromRaw(data []byte, width, height, stride int, layout Layout) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	minStride := layout.RowBytes(width)
	if stride < minStride {
		return nil, fmt.Errorf("%w: stride %d, need %d", ErrInvalidStride, stride, minStride)
	}

	// The last row only needs to hold its pixels, not a full stride.
	required := stride*(height-1) + minStride
	if len(data) < required {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrDataTooSmall, len(data), required)
	}

	return &Buffer{
		data:   data[:required],
		width:  width,
		height: height,
		stride: stride,
		layout: layout,
	}, nil
}

// SetRelease attaches a hook that Release runs once.
func (b *Buffer) SetRelease(fn func()) {
	b.release = fn
	b.released = false
}

// Release runs the release hook, if any, and drops the pixel data.
// It is safe to call more than once.
func (b *Buffer) Release() {
	if b == nil || b.released {
		return
	}
	b.released = true
	b.data = nil
	if fn := b.release; fn != nil {
		b.release = nil
		fn()
	}
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool {
	return b.released
}

// Width returns the width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Stride returns the number of bytes between the starts of two rows.
func (b *Buffer) Stride() int {
	return b.stride
}

// Layout returns the pixel layout.
func (b *Buffer) Layout() Layout {
	return b.layout
}

// Data returns the raw pixel data.
func (b *Buffer) Data() []byte {
	return b.data
}

// RowBytes returns the pixel bytes of row y, or nil if y is out of range.
func (b *Buffer) RowBytes(y int) []byte {
	if y < 0 || y >= b.height || b.data == nil {
		return nil
	}
	off := y * b.stride
	return b.data[off : off+b.layout.RowBytes(b.width)]
}

// Rows returns a read-only view of n rows starting at y. The view shares
// pixel data with b; only the rows it covers are ever touched through it.
func (b *Buffer) Rows(y, n int) (*Buffer, error) {
	if y < 0 || n <= 0 || y+n > b.height {
		return nil, fmt.Errorf("%w: rows [%d,%d) of %d", ErrRowsOutOfRange, y, y+n, b.height)
	}
	off := y * b.stride
	end := off + b.stride*(n-1) + b.layout.RowBytes(b.width)
	return &Buffer{
		data:   b.data[off:end],
		width:  b.width,
		height: n,
		stride: b.stride,
		layout: b.layout,
	}, nil
}

// Pixel returns the raw pixel value at (x, y): a palette index for indexed
// layouts, the masked word for truecolor ones. Out-of-range reads return 0.
func (b *Buffer) Pixel(x, y int) uint32 {
	if x < 0 || x >= b.width {
		return 0
	}
	row := b.RowBytes(y)
	if row == nil {
		return 0
	}
	return readPixel(row, x, b.layout)
}

// SetPixel stores a raw pixel value at (x, y). Out-of-range writes are ignored.
func (b *Buffer) SetPixel(x, y int, v uint32) {
	if x < 0 || x >= b.width {
		return
	}
	row := b.RowBytes(y)
	if row == nil {
		return
	}
	writePixel(row, x, b.layout, v)
}

// Clone returns a deep copy with tightly packed rows and no release hook.
func (b *Buffer) Clone() *Buffer {
	rowBytes := b.layout.RowBytes(b.width)
	data := make([]byte, rowBytes*b.height)
	for y := 0; y < b.height; y++ {
		copy(data[y*rowBytes:], b.RowBytes(y))
	}
	return &Buffer{
		data:   data,
		width:  b.width,
		height: b.height,
		stride: rowBytes,
		layout: b.layout,
	}
}

// readPixel decodes pixel x of row honouring the layout's byte order.
func readPixel(row []byte, x int, l Layout) uint32 {
	switch l.BitsPerPixel {
	case 8:
		return uint32(row[x])
	case 16:
		p := row[x*2 : x*2+2]
		if l.ByteOrder == MSBFirst {
			return uint32(binary.BigEndian.Uint16(p))
		}
		return uint32(binary.LittleEndian.Uint16(p))
	case 24:
		p := row[x*3 : x*3+3]
		if l.ByteOrder == MSBFirst {
			return uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
		}
		return uint32(p[2])<<16 | uint32(p[1])<<8 | uint32(p[0])
	default:
		p := row[x*4 : x*4+4]
		if l.ByteOrder == MSBFirst {
			return binary.BigEndian.Uint32(p)
		}
		return binary.LittleEndian.Uint32(p)
	}
}

// writePixel is the inverse of readPixel.
func writePixel(row []byte, x int, l Layout, v uint32) {
	switch l.BitsPerPixel {
	case 8:
		row[x] = byte(v)
	case 16:
		p := row[x*2 : x*2+2]
		if l.ByteOrder == MSBFirst {
			binary.BigEndian.PutUint16(p, uint16(v))
		} else {
			binary.LittleEndian.PutUint16(p, uint16(v))
		}
	case 24:
		p := row[x*3 : x*3+3]
		if l.ByteOrder == MSBFirst {
			p[0], p[1], p[2] = byte(v>>16), byte(v>>8), byte(v)
		} else {
			p[0], p[1], p[2] = byte(v), byte(v>>8), byte(v>>16)
		}
	default:
		p := row[x*4 : x*4+4]
		if l.ByteOrder == MSBFirst {
			binary.BigEndian.PutUint32(p, v)
		} else {
			binary.LittleEndian.PutUint32(p, v)
		}
	}
}
