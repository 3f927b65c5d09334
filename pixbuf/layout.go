// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pixbuf

import (
	"errors"
	"fmt"
	"image/color"
	"math/bits"
)

// ErrInvalidLayout is returned when a Layout cannot describe a pixel.
var ErrInvalidLayout = errors.New("pixbuf: invalid layout")

// ByteOrder is the order in which the bytes of a multi-byte pixel are stored.
type ByteOrder uint8

const (
	// LSBFirst stores the least significant byte first (little endian).
	LSBFirst ByteOrder = iota

	// MSBFirst stores the most significant byte first (big endian).
	MSBFirst
)

// String returns a human-readable name for the byte order.
func (o ByteOrder) String() string {
	switch o {
	case LSBFirst:
		return "LSBFirst"
	case MSBFirst:
		return "MSBFirst"
	default:
		return fmt.Sprintf("ByteOrder(%d)", o)
	}
}

// Layout describes how a single pixel is encoded.
//
// A truecolor layout sets RedMask, GreenMask and BlueMask to contiguous,
// non-overlapping bit fields of the pixel value. An indexed layout sets
// Palette instead; its pixels are 8-bit indexes into the palette. Any
// bits outside the masks (padding or alpha) are ignored.
type Layout struct {
	// BitsPerPixel is 8, 16, 24 or 32.
	BitsPerPixel int

	// RedMask, GreenMask and BlueMask select the channel bits of a
	// truecolor pixel value.
	RedMask   uint32
	GreenMask uint32
	BlueMask  uint32

	// Palette is the color table of an indexed layout.
	Palette color.Palette

	// ByteOrder is the storage order of multi-byte pixel values.
	ByteOrder ByteOrder
}

// Predefined layouts.
var (
	// LayoutRGBA8888 matches image.RGBA and image.NRGBA: bytes R, G, B, A.
	LayoutRGBA8888 = Layout{
		BitsPerPixel: 32,
		RedMask:      0x000000FF,
		GreenMask:    0x0000FF00,
		BlueMask:     0x00FF0000,
		ByteOrder:    LSBFirst,
	}

	// LayoutBGRX8888 is the common 24-bit-depth X server layout: bytes B, G, R, padding.
	LayoutBGRX8888 = Layout{
		BitsPerPixel: 32,
		RedMask:      0x00FF0000,
		GreenMask:    0x0000FF00,
		BlueMask:     0x000000FF,
		ByteOrder:    LSBFirst,
	}

	// LayoutRGB888 is packed 24-bit RGB: bytes R, G, B.
	LayoutRGB888 = Layout{
		BitsPerPixel: 24,
		RedMask:      0xFF0000,
		GreenMask:    0x00FF00,
		BlueMask:     0x0000FF,
		ByteOrder:    MSBFirst,
	}

	// LayoutRGB565 is 16-bit color with a 6-bit green field.
	LayoutRGB565 = Layout{
		BitsPerPixel: 16,
		RedMask:      0xF800,
		GreenMask:    0x07E0,
		BlueMask:     0x001F,
		ByteOrder:    LSBFirst,
	}

	// LayoutRGB555 is 15-bit color stored in 16 bits.
	LayoutRGB555 = Layout{
		BitsPerPixel: 16,
		RedMask:      0x7C00,
		GreenMask:    0x03E0,
		BlueMask:     0x001F,
		ByteOrder:    LSBFirst,
	}
)

// Indexed returns an 8-bit layout that looks pixels up in p.
func Indexed(p color.Palette) Layout {
	return Layout{BitsPerPixel: 8, Palette: p}
}

// IsIndexed reports whether pixels are palette indexes.
func (l Layout) IsIndexed() bool {
	return l.Palette != nil
}

// BytesPerPixel returns the storage size of one pixel.
func (l Layout) BytesPerPixel() int {
	return (l.BitsPerPixel + 7) / 8
}

// RowBytes returns the number of bytes needed for a row of the given width.
func (l Layout) RowBytes(width int) int {
	return width * l.BytesPerPixel()
}

// Validate checks that the layout can be decoded.
func (l Layout) Validate() error {
	switch l.BitsPerPixel {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d bits per pixel", ErrInvalidLayout, l.BitsPerPixel)
	}

	if l.IsIndexed() {
		if l.BitsPerPixel != 8 {
			return fmt.Errorf("%w: indexed layouts must be 8 bits per pixel, got %d",
				ErrInvalidLayout, l.BitsPerPixel)
		}
		if len(l.Palette) == 0 {
			return fmt.Errorf("%w: empty palette", ErrInvalidLayout)
		}
		return nil
	}

	var used uint32
	for _, m := range [...]struct {
		name string
		mask uint32
	}{
		{"red", l.RedMask},
		{"green", l.GreenMask},
		{"blue", l.BlueMask},
	} {
		if _, _, ok := DecodeMask(m.mask); !ok {
			return fmt.Errorf("%w: %s mask %#x is empty or not contiguous", ErrInvalidLayout, m.name, m.mask)
		}
		if l.BitsPerPixel < 32 && m.mask>>uint(l.BitsPerPixel) != 0 {
			return fmt.Errorf("%w: %s mask %#x exceeds %d bits", ErrInvalidLayout, m.name, m.mask, l.BitsPerPixel)
		}
		if used&m.mask != 0 {
			return fmt.Errorf("%w: %s mask %#x overlaps another channel", ErrInvalidLayout, m.name, m.mask)
		}
		used |= m.mask
	}
	return nil
}

// DecodeMask returns the position and width of the bit field selected by
// mask. ok is false if the mask is zero or its set bits are not contiguous.
func DecodeMask(mask uint32) (shift, width uint, ok bool) {
	if mask == 0 {
		return 0, 0, false
	}
	shift = uint(bits.TrailingZeros32(mask))
	field := mask >> shift
	width = uint(bits.OnesCount32(field))
	// A contiguous field is all ones up to its highest bit.
	if field&(field+1) != 0 {
		return 0, 0, false
	}
	return shift, width, true
}
