// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp" // register BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/texload"
	"github.com/gogpu/texload/pixbuf"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("source: empty image")

// Options controls how an image becomes a capture.
type Options struct {
	// Width and Height are the canvas size. If either is zero the capture
	// has the image's own size.
	Width  int
	Height int

	// Upscale lets images smaller than the canvas grow to fill it.
	// Otherwise they are centred at their own size.
	Upscale bool

	// Background fills the canvas outside the image. Nil means opaque black.
	Background color.Color

	// Name is the capture name. File uses the file's base name if empty.
	Name string
}

// Image converts img into a capture, fitting it into the canvas if one is
// requested. Without a canvas, *image.RGBA, *image.NRGBA, *image.Paletted
// and *image.Gray share memory with img.
func Image(img image.Image, opts Options) (texload.Capture, error) {
	if img == nil || img.Bounds().Empty() {
		return texload.Capture{}, ErrEmptyImage
	}

	var geom image.Rectangle
	if opts.Width > 0 && opts.Height > 0 {
		img, geom = Fit(img, opts.Width, opts.Height, opts.Upscale, opts.Background)
	}

	buf, err := pixbuf.FromImage(img)
	if err != nil {
		return texload.Capture{}, fmt.Errorf("source: %w", err)
	}
	return texload.Capture{Image: buf, Geometry: geom, Name: opts.Name}, nil
}

// Decode reads an encoded image from r and converts it into a capture.
func Decode(r io.Reader, opts Options) (texload.Capture, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return texload.Capture{}, fmt.Errorf("source: decode: %w", err)
	}
	c, err := Image(img, opts)
	if err != nil {
		return c, err
	}
	texload.Logger().Debug("source: image decoded",
		"format", format,
		"size", img.Bounds().Size().String(),
		"name", opts.Name)
	return c, nil
}

// File decodes the image at path on a new goroutine.
func File(ctx context.Context, path string, opts Options) *Async {
	if opts.Name == "" {
		opts.Name = filepath.Base(path)
	}
	return Go(ctx, func(ctx context.Context) (texload.Capture, error) {
		f, err := os.Open(path)
		if err != nil {
			return texload.Capture{}, fmt.Errorf("source: %w", err)
		}
		defer f.Close()

		c, err := Decode(f, opts)
		if err != nil {
			return c, err
		}
		if err := ctx.Err(); err != nil {
			c.Image.Release()
			return texload.Capture{}, err
		}
		return c, nil
	})
}

// Fit draws img centred into a w x h canvas, scaled to fit while keeping
// its aspect ratio, and returns the canvas and the rectangle the image
// occupies. Images that already fit are only scaled up if upscale is set.
func Fit(img image.Image, w, h int, upscale bool, bg color.Color) (*image.RGBA, image.Rectangle) {
	src := img.Bounds()
	sw, sh := src.Dx(), src.Dy()

	dw, dh := sw, sh
	if sw > w || sh > h || upscale {
		// Compare w/sw with h/sh without floating point.
		if w*sh <= h*sw {
			dw, dh = w, max(1, sh*w/sw)
		} else {
			dw, dh = max(1, sw*h/sh), h
		}
	}

	x, y := (w-dw)/2, (h-dh)/2
	geom := image.Rect(x, y, x+dw, y+dh)

	if bg == nil {
		bg = color.Black
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)

	if dw == sw && dh == sh {
		xdraw.Draw(dst, geom, img, src.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(dst, geom, img, src, xdraw.Src, nil)
	}
	return dst, geom
}
