// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pixbuf

import (
	"encoding/binary"
	"image/color"

	"honnef.co/go/safeish"
)

// Shifts that place R, G, B and A so that the bytes of a word read
// R, G, B, A in host memory.
var rShift, gShift, bShift, aShift = hostShifts()

func hostShifts() (r, g, b, a uint) {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return 0, 8, 16, 24
	}
	return 24, 16, 8, 0
}

// Pack returns the canonical RGBA32 word for the given channels.
func Pack(r, g, b, a uint8) uint32 {
	return uint32(r)<<rShift | uint32(g)<<gShift | uint32(b)<<bShift | uint32(a)<<aShift
}

// Unpack splits a canonical RGBA32 word into its channels.
func Unpack(w uint32) (r, g, b, a uint8) {
	return uint8(w >> rShift), uint8(w >> gShift), uint8(w >> bShift), uint8(w >> aShift)
}

// Spread widens a width-bit channel value to 8 bits by replicating its most
// significant bits into the low bits. Values wider than 8 bits keep their
// top 8 bits.
func Spread(v uint32, width uint) uint8 {
	switch {
	case width == 0:
		return 0
	case width >= 8:
		return uint8(v >> (width - 8))
	}
	r := v << (8 - width)
	for s := width; s < 8; s *= 2 {
		r |= r >> s
	}
	return uint8(r)
}

// RGBA32 is an image in canonical form: one word per pixel, rows tightly
// packed, alpha opaque.
type RGBA32 struct {
	Pix    []uint32
	Width  int
	Height int
}

// Bytes views the pixel words as bytes in R, G, B, A order without copying.
func (m *RGBA32) Bytes() []byte {
	if len(m.Pix) == 0 {
		return nil
	}
	return safeish.SliceCast[[]byte](m.Pix)
}

// At returns the channels of the pixel at (x, y).
func (m *RGBA32) At(x, y int) (r, g, b, a uint8) {
	return Unpack(m.Pix[y*m.Width+x])
}

// channel is a decoded truecolor bit field.
type channel struct {
	shift uint
	width uint
}

func (c channel) value(p uint32) uint8 {
	return Spread((p>>c.shift)&(1<<c.width-1), c.width)
}

func decodeChannel(mask uint32) channel {
	shift, width, _ := DecodeMask(mask)
	return channel{shift: shift, width: width}
}

// paletteTable resolves a palette into canonical words, padded to 256
// entries so that any 8-bit index resolves; missing entries are black.
func paletteTable(p color.Palette) *[256]uint32 {
	var t [256]uint32
	black := Pack(0, 0, 0, 0xFF)
	for i := range t {
		t[i] = black
	}
	for i, c := range p {
		if i >= len(t) {
			break
		}
		r, g, b, _ := c.RGBA()
		t[i] = Pack(uint8(r>>8), uint8(g>>8), uint8(b>>8), 0xFF)
	}
	return &t
}

// Normalize converts src to canonical RGBA32.
func Normalize(src *Buffer) *RGBA32 {
	dst := &RGBA32{
		Pix:    make([]uint32, src.width*src.height),
		Width:  src.width,
		Height: src.height,
	}
	NormalizeInto(dst.Pix, src)
	return dst
}

// NormalizeInto converts src into dst, which must hold at least
// Width*Height words. Rows are written tightly packed.
func NormalizeInto(dst []uint32, src *Buffer) {
	w, h := src.width, src.height
	l := src.layout

	if l.IsIndexed() {
		table := paletteTable(l.Palette)
		for y := 0; y < h; y++ {
			row := src.RowBytes(y)
			out := dst[y*w : y*w+w]
			for x := range out {
				out[x] = table[row[x]]
			}
		}
		return
	}

	red, green, blue := decodeChannel(l.RedMask), decodeChannel(l.GreenMask), decodeChannel(l.BlueMask)
	alpha := uint32(0xFF) << aShift
	for y := 0; y < h; y++ {
		row := src.RowBytes(y)
		out := dst[y*w : y*w+w]
		for x := range out {
			p := readPixel(row, x, l)
			out[x] = uint32(red.value(p))<<rShift |
				uint32(green.value(p))<<gShift |
				uint32(blue.value(p))<<bShift |
				alpha
		}
	}
}
