// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/texload"
	"github.com/gogpu/texload/pixbuf"
)

// Config controls texture creation.
type Config struct {
	// Label is used when an allocation carries no label of its own.
	Label string

	// Usage is added to CopyDst|TextureBinding.
	Usage gputypes.TextureUsage

	// MaxTextureSize caps both dimensions. Zero uses the device limit.
	MaxTextureSize int

	// Bind, if set, is called by MakeCurrent. Hosts that multiplex one
	// device between several surfaces use it to restore their state.
	Bind func() error
}

// Target is a texload.Target backed by a HAL texture.
//
// Target is not safe for concurrent use; it is driven by one loader.
type Target struct {
	device hal.Device
	queue  hal.Queue
	cfg    Config

	maxSize int

	texture hal.Texture
	alloc   texload.Allocation

	// shadow holds level 0 while mipmaps are pending.
	shadow *pixbuf.RGBA32
}

var _ texload.Target = (*Target)(nil)

// New returns a Target that creates textures on device and writes them
// through queue. If limits is nil, gputypes.DefaultLimits is assumed.
func New(device hal.Device, queue hal.Queue, limits *gputypes.Limits, cfg Config) (*Target, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}

	lim := gputypes.DefaultLimits()
	if limits != nil {
		lim = *limits
	}

	maxSize := int(lim.MaxTextureDimension2D)
	if cfg.MaxTextureSize > 0 && (maxSize == 0 || cfg.MaxTextureSize < maxSize) {
		maxSize = cfg.MaxTextureSize
	}

	return &Target{
		device:  device,
		queue:   queue,
		cfg:     cfg,
		maxSize: maxSize,
	}, nil
}

// MakeCurrent runs Config.Bind, if set.
func (t *Target) MakeCurrent() error {
	if t.cfg.Bind != nil {
		return t.cfg.Bind()
	}
	return nil
}

// Allocate creates RGBA8Unorm storage of a.Width x a.Height with
// a.MipLevels levels. A previous texture is destroyed only once the new
// one has been created; a failed Allocate leaves it in place. Sizes above the
// device limit and out-of-memory failures wrap texload.ErrAllocationFailed.
func (t *Target) Allocate(a texload.Allocation) error {
	if a.Width <= 0 || a.Height <= 0 {
		return fmt.Errorf("native: invalid texture size %dx%d", a.Width, a.Height)
	}
	if t.maxSize > 0 && (a.Width > t.maxSize || a.Height > t.maxSize) {
		return fmt.Errorf("native: %dx%d exceeds maximum texture size %d: %w",
			a.Width, a.Height, t.maxSize, texload.ErrAllocationFailed)
	}

	levels := max(1, a.MipLevels)
	label := a.Label
	if label == "" {
		label = t.cfg.Label
	}
	desc := &hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              uint32(a.Width),
			Height:             uint32(a.Height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: uint32(levels),
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding | t.cfg.Usage,
	}

	texture, err := t.device.CreateTexture(desc)
	if err != nil {
		if errors.Is(err, hal.ErrDeviceLost) {
			return fmt.Errorf("native: create texture: %w", err)
		}
		return fmt.Errorf("native: create texture %dx%d: %w: %w", a.Width, a.Height, texload.ErrAllocationFailed, err)
	}

	// The old texture stays bound until its replacement exists.
	t.Discard()
	t.texture = texture
	t.alloc = a
	t.alloc.MipLevels = levels
	if levels > 1 {
		t.shadow = &pixbuf.RGBA32{
			Pix:    make([]uint32, a.ImageWidth*a.ImageHeight),
			Width:  a.ImageWidth,
			Height: a.ImageHeight,
		}
	}

	slogger().Debug("native: texture created",
		"label", label,
		"width", a.Width,
		"height", a.Height,
		"mip_levels", levels)
	return nil
}

// WriteStripe writes s into mip level 0 and, when s.GenerateMipmaps is set,
// regenerates and writes the remaining levels.
func (t *Target) WriteStripe(s texload.Stripe) error {
	if t.texture == nil {
		return ErrNotAllocated
	}
	if s.Y < 0 || s.Width <= 0 || s.Height <= 0 ||
		s.Width > t.alloc.Width || s.Y+s.Height > t.alloc.Height {
		return fmt.Errorf("%w: %dx%d at row %d in %dx%d",
			ErrStripeBounds, s.Width, s.Height, s.Y, t.alloc.Width, t.alloc.Height)
	}
	if len(s.Pix) < s.Width*s.Height*4 {
		return fmt.Errorf("native: stripe has %d bytes, need %d", len(s.Pix), s.Width*s.Height*4)
	}

	if err := t.write(0, 0, s.Y, s.Width, s.Height, s.Pix); err != nil {
		return err
	}

	if t.shadow != nil && s.Width <= t.shadow.Width && s.Y+s.Height <= t.shadow.Height {
		dst := t.shadow.Bytes()
		rowBytes := s.Width * 4
		for y := 0; y < s.Height; y++ {
			off := ((s.Y + y) * t.shadow.Width) * 4
			copy(dst[off:off+rowBytes], s.Pix[y*rowBytes:(y+1)*rowBytes])
		}
	}

	if s.GenerateMipmaps {
		return t.writeMipmaps()
	}
	return nil
}

// writeMipmaps box-filters the shadow copy and writes levels 1 and up.
func (t *Target) writeMipmaps() error {
	if t.shadow == nil {
		return nil
	}
	chain := pixbuf.GenerateMipmapLevels(t.shadow, t.alloc.MipLevels)
	n := chain.NumLevels()
	for level := 1; level < n; level++ {
		m := chain.Level(level)
		if err := t.write(level, 0, 0, m.Width, m.Height, m.Bytes()); err != nil {
			return err
		}
	}
	t.shadow = nil

	slogger().Debug("native: mipmaps written", "levels", n)
	return nil
}

func (t *Target) write(level, x, y, w, h int, pix []byte) error {
	dst := &hal.ImageCopyTexture{
		Texture:  t.texture,
		MipLevel: uint32(level),
		Origin:   hal.Origin3D{X: uint32(x), Y: uint32(y), Z: 0},
		Aspect:   gputypes.TextureAspectAll,
	}
	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(w * 4),
		RowsPerImage: uint32(h),
	}
	size := &hal.Extent3D{
		Width:              uint32(w),
		Height:             uint32(h),
		DepthOrArrayLayers: 1,
	}
	if err := t.queue.WriteTexture(dst, pix[:w*h*4], layout, size); err != nil {
		return fmt.Errorf("native: write texture level %d rows %d-%d: %w", level, y, y+h, err)
	}
	return nil
}

// Discard destroys the current texture, if any.
func (t *Target) Discard() {
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
	t.shadow = nil
	t.alloc = texload.Allocation{}
}

// Texture returns the current texture, or nil.
func (t *Target) Texture() hal.Texture {
	return t.texture
}

// Allocation returns the allocation that created the current texture.
func (t *Target) Allocation() texload.Allocation {
	return t.alloc
}

// MaxTextureSize returns the largest accepted dimension, 0 for no limit.
func (t *Target) MaxTextureSize() int {
	return t.maxSize
}
