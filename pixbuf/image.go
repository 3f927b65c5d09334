// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pixbuf

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// grayPalette maps 8-bit gray levels to themselves.
var grayPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

// FromImage wraps img as a Buffer. RGBA, NRGBA, paletted and gray images
// share their pixel memory with the result; other image types are drawn
// into a new RGBA buffer first.
func FromImage(img image.Image) (*Buffer, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrInvalidDimensions
	}
	w, h := b.Dx(), b.Dy()

	switch m := img.(type) {
	case *image.RGBA:
		return FromRaw(m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], w, h, m.Stride, LayoutRGBA8888)
	case *image.NRGBA:
		return FromRaw(m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], w, h, m.Stride, LayoutRGBA8888)
	case *image.Paletted:
		if len(m.Palette) > 0 {
			return FromRaw(m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], w, h, m.Stride, Indexed(m.Palette))
		}
	case *image.Gray:
		return FromRaw(m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], w, h, m.Stride, Indexed(grayPalette))
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return FromRaw(dst.Pix, w, h, dst.Stride, LayoutRGBA8888)
}

// ToImage copies a canonical image into a new *image.RGBA.
func (m *RGBA32) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r, g, b, a := m.At(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, a
		}
	}
	return img
}
