// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/texload"
	"github.com/gogpu/texload/pixbuf"
)

// DefaultMaxTextureSize is the largest dimension accepted when
// Config.MaxTextureSize is zero.
const DefaultMaxTextureSize = 8192

// Errors returned by Target.
var (
	ErrNotAllocated = errors.New("software: texture not allocated")
	ErrStripeBounds = errors.New("software: stripe outside image")
)

// Config controls a software Target.
type Config struct {
	// MaxTextureSize caps both dimensions; larger allocations fail with
	// texload.ErrAllocationFailed. Zero selects DefaultMaxTextureSize.
	MaxTextureSize int

	// MaxBytes caps the total storage of all mip levels. Zero means no cap.
	MaxBytes int
}

// Target is an in-memory texload.Target.
type Target struct {
	cfg Config

	alloc  texload.Allocation
	levels []*image.RGBA

	makeCurrent int
	stripes     int
}

var _ texload.Target = (*Target)(nil)

// New returns a Target.
func New(cfg Config) *Target {
	if cfg.MaxTextureSize <= 0 {
		cfg.MaxTextureSize = DefaultMaxTextureSize
	}
	return &Target{cfg: cfg}
}

// MakeCurrent counts calls; there is no context to bind.
func (t *Target) MakeCurrent() error {
	t.makeCurrent++
	return nil
}

// Allocate creates zeroed storage for every requested mip level.
func (t *Target) Allocate(a texload.Allocation) error {
	if a.Width <= 0 || a.Height <= 0 {
		return fmt.Errorf("software: invalid texture size %dx%d", a.Width, a.Height)
	}
	if a.Width > t.cfg.MaxTextureSize || a.Height > t.cfg.MaxTextureSize {
		return fmt.Errorf("software: %dx%d exceeds maximum texture size %d: %w",
			a.Width, a.Height, t.cfg.MaxTextureSize, texload.ErrAllocationFailed)
	}

	levels := max(1, a.MipLevels)
	total := 0
	for l := 0; l < levels; l++ {
		total += max(1, a.Width>>l) * max(1, a.Height>>l) * 4
	}
	if t.cfg.MaxBytes > 0 && total > t.cfg.MaxBytes {
		return fmt.Errorf("software: %d bytes exceeds budget of %d: %w",
			total, t.cfg.MaxBytes, texload.ErrAllocationFailed)
	}

	t.levels = make([]*image.RGBA, levels)
	for l := range t.levels {
		t.levels[l] = image.NewRGBA(image.Rect(0, 0, max(1, a.Width>>l), max(1, a.Height>>l)))
	}
	t.alloc = a
	t.alloc.MipLevels = levels
	t.stripes = 0

	texload.Logger().Debug("software: texture allocated",
		"width", a.Width, "height", a.Height, "mip_levels", levels, "bytes", total)
	return nil
}

// WriteStripe copies s into level 0 and rebuilds the other levels when
// s.GenerateMipmaps is set.
func (t *Target) WriteStripe(s texload.Stripe) error {
	if t.levels == nil {
		return ErrNotAllocated
	}
	base := t.levels[0]
	if s.Y < 0 || s.Width <= 0 || s.Height <= 0 ||
		s.Width > base.Rect.Dx() || s.Y+s.Height > base.Rect.Dy() {
		return fmt.Errorf("%w: %dx%d at row %d", ErrStripeBounds, s.Width, s.Height, s.Y)
	}
	rowBytes := s.Width * 4
	if len(s.Pix) < rowBytes*s.Height {
		return fmt.Errorf("software: stripe has %d bytes, need %d", len(s.Pix), rowBytes*s.Height)
	}

	for y := 0; y < s.Height; y++ {
		off := base.PixOffset(0, s.Y+y)
		copy(base.Pix[off:off+rowBytes], s.Pix[y*rowBytes:(y+1)*rowBytes])
	}
	t.stripes++

	if s.GenerateMipmaps && len(t.levels) > 1 {
		t.generateMipmaps()
	}
	return nil
}

// generateMipmaps rebuilds levels 1 and up from the image in level 0.
func (t *Target) generateMipmaps() {
	w, h := t.alloc.ImageWidth, t.alloc.ImageHeight
	base := &pixbuf.RGBA32{Pix: make([]uint32, w*h), Width: w, Height: h}
	dst := base.Bytes()
	src := t.levels[0]
	for y := 0; y < h; y++ {
		off := src.PixOffset(0, y)
		copy(dst[y*w*4:(y+1)*w*4], src.Pix[off:off+w*4])
	}

	chain := pixbuf.GenerateMipmapLevels(base, len(t.levels))
	for l := 1; l < chain.NumLevels(); l++ {
		m := chain.Level(l)
		img := t.levels[l]
		pix := m.Bytes()
		for y := 0; y < m.Height; y++ {
			off := img.PixOffset(0, y)
			copy(img.Pix[off:off+m.Width*4], pix[y*m.Width*4:(y+1)*m.Width*4])
		}
	}
}

// Discard drops the storage.
func (t *Target) Discard() {
	t.levels = nil
	t.alloc = texload.Allocation{}
}

// Allocation returns the current allocation.
func (t *Target) Allocation() texload.Allocation {
	return t.alloc
}

// Level returns mip level n of the texture, or nil.
func (t *Target) Level(n int) *image.RGBA {
	if n < 0 || n >= len(t.levels) {
		return nil
	}
	return t.levels[n]
}

// Image returns the uploaded image, without the power-of-two padding.
// It shares memory with the texture.
func (t *Target) Image() *image.RGBA {
	if t.levels == nil {
		return nil
	}
	r := image.Rect(0, 0, t.alloc.ImageWidth, t.alloc.ImageHeight)
	return t.levels[0].SubImage(r).(*image.RGBA)
}

// MakeCurrentCalls returns how often MakeCurrent was called.
func (t *Target) MakeCurrentCalls() int {
	return t.makeCurrent
}

// Stripes returns the number of stripes written since Allocate.
func (t *Target) Stripes() int {
	return t.stripes
}
