// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texload

import (
	"errors"
	"fmt"
	"image/color"
	"testing"
	"time"

	"github.com/gogpu/texload/pixbuf"
)

// fakeTarget records every call a loader makes.
type fakeTarget struct {
	maxSize  int  // largest accepted dimension, 0 for no limit
	failAll  bool // refuse every allocation
	allocErr error
	writeErr error

	makeCurrent int
	allocs      []Allocation
	stripes     []Stripe // Pix is not retained
	discards    int

	width, height int
	pix           []byte
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{}
}

func (f *fakeTarget) MakeCurrent() error {
	f.makeCurrent++
	return nil
}

func (f *fakeTarget) Allocate(a Allocation) error {
	f.allocs = append(f.allocs, a)
	if f.allocErr != nil {
		return f.allocErr
	}
	if f.failAll || (f.maxSize > 0 && (a.Width > f.maxSize || a.Height > f.maxSize)) {
		return fmt.Errorf("fake: %dx%d: %w", a.Width, a.Height, ErrAllocationFailed)
	}
	f.width, f.height = a.Width, a.Height
	f.pix = make([]byte, a.Width*a.Height*4)
	return nil
}

func (f *fakeTarget) WriteStripe(s Stripe) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if f.pix == nil {
		return errors.New("fake: write before allocate")
	}
	for y := 0; y < s.Height; y++ {
		copy(f.pix[(s.Y+y)*f.width*4:], s.Pix[y*s.Width*4:(y+1)*s.Width*4])
	}
	s.Pix = nil
	f.stripes = append(f.stripes, s)
	return nil
}

func (f *fakeTarget) Discard() {
	f.discards++
	f.pix = nil
}

// at returns the texel at (x, y).
func (f *fakeTarget) at(x, y int) color.RGBA {
	i := (y*f.width + x) * 4
	return color.RGBA{R: f.pix[i], G: f.pix[i+1], B: f.pix[i+2], A: f.pix[i+3]}
}

// fakeClock advances by step on every reading.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

// testImage returns a w x h RGBA8888 buffer whose pixel (x, y) is
// (x, y, x^y) with alpha 0, so tests can see alpha forced opaque.
func testImage(t testing.TB, w, h int) *pixbuf.Buffer {
	t.Helper()
	buf, err := pixbuf.New(w, h, pixbuf.LayoutRGBA8888)
	if err != nil {
		t.Fatalf("pixbuf.New(%d, %d): %v", w, h, err)
	}
	for y := 0; y < h; y++ {
		row := buf.RowBytes(y)
		for x := 0; x < w; x++ {
			row[x*4+0] = uint8(x)
			row[x*4+1] = uint8(y)
			row[x*4+2] = uint8(x ^ y)
		}
	}
	return buf
}

// indexedImage returns a cheap w x h single-byte image for size tests.
func indexedImage(t testing.TB, w, h int) *pixbuf.Buffer {
	t.Helper()
	buf, err := pixbuf.New(w, h, pixbuf.Indexed(color.Palette{color.Black, color.White}))
	if err != nil {
		t.Fatalf("pixbuf.New(%d, %d): %v", w, h, err)
	}
	return buf
}

func wantPixel(x, y int) color.RGBA {
	return color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 0xFF}
}
