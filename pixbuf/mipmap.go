// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pixbuf

import "math"

// MipmapChain holds successively halved versions of an RGBA32 image.
// Level 0 is the original; the chain ends when the larger dimension
// reaches 1 pixel.
type MipmapChain struct {
	levels []*RGBA32
}

// GenerateMipmaps builds a mipmap chain from base with a 2x2 box filter.
// base becomes level 0 and is not copied. Returns nil for an empty image.
func GenerateMipmaps(base *RGBA32) *MipmapChain {
	if base == nil {
		return nil
	}
	return GenerateMipmapLevels(base, MipLevelCount(base.Width, base.Height))
}

// GenerateMipmapLevels builds a chain of exactly n levels. A texture wider
// than its image has more levels than the image alone; once the image is
// 1x1 the remaining levels repeat that pixel. Returns nil for an empty
// image or n < 1.
func GenerateMipmapLevels(base *RGBA32, n int) *MipmapChain {
	if base == nil || base.Width <= 0 || base.Height <= 0 || n < 1 {
		return nil
	}

	chain := &MipmapChain{levels: make([]*RGBA32, n)}
	chain.levels[0] = base
	for i := 1; i < n; i++ {
		chain.levels[i] = downsample(chain.levels[i-1])
	}
	return chain
}

// downsample averages 2x2 blocks of src; odd edges reuse the last column or row.
func downsample(src *RGBA32) *RGBA32 {
	sw, sh := src.Width, src.Height
	dw, dh := max(1, sw/2), max(1, sh/2)
	dst := &RGBA32{Pix: make([]uint32, dw*dh), Width: dw, Height: dh}

	for dy := 0; dy < dh; dy++ {
		sy0 := dy * 2
		sy1 := min(sy0+1, sh-1)
		for dx := 0; dx < dw; dx++ {
			sx0 := dx * 2
			sx1 := min(sx0+1, sw-1)

			r0, g0, b0, a0 := src.At(sx0, sy0)
			r1, g1, b1, a1 := src.At(sx1, sy0)
			r2, g2, b2, a2 := src.At(sx0, sy1)
			r3, g3, b3, a3 := src.At(sx1, sy1)

			dst.Pix[dy*dw+dx] = Pack(
				uint8((uint16(r0)+uint16(r1)+uint16(r2)+uint16(r3))/4),
				uint8((uint16(g0)+uint16(g1)+uint16(g2)+uint16(g3))/4),
				uint8((uint16(b0)+uint16(b1)+uint16(b2)+uint16(b3))/4),
				uint8((uint16(a0)+uint16(a1)+uint16(a2)+uint16(a3))/4),
			)
		}
	}
	return dst
}

// Level returns mipmap level n, or nil if n is out of range.
func (m *MipmapChain) Level(n int) *RGBA32 {
	if m == nil || n < 0 || n >= len(m.levels) {
		return nil
	}
	return m.levels[n]
}

// NumLevels returns the number of levels in the chain.
func (m *MipmapChain) NumLevels() int {
	if m == nil {
		return 0
	}
	return len(m.levels)
}

// MipLevelCount returns the length of a full mipmap chain for a
// width x height texture.
func MipLevelCount(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return 1 + int(math.Floor(math.Log2(float64(max(width, height)))))
}
