// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package source

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/texload"
	"github.com/gogpu/texload/pixbuf"
)

// ErrEmptyText is returned when there is nothing to render.
var ErrEmptyText = errors.New("source: empty text")

// Direction is the base direction of rendered text.
type Direction uint8

const (
	// DirectionAuto takes the direction from the first strong character.
	DirectionAuto Direction = iota
	// DirectionLTR lays out left to right.
	DirectionLTR
	// DirectionRTL lays out right to left.
	DirectionRTL
)

// TextOptions controls text rendering.
type TextOptions struct {
	// Font is the face to render with. Nil selects Go Regular.
	Font *opentype.Font

	// Size is the font size in pixels. Zero means 24.
	Size float64

	// Padding is the margin around the text block, in pixels.
	Padding int

	// Width and Height are the canvas size. Zero fits the text.
	Width  int
	Height int

	// Foreground and Background default to white on black.
	Foreground color.Color
	Background color.Color

	// Direction is the paragraph base direction.
	Direction Direction

	// Name is the capture name.
	Name string
}

var defaultFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// Text renders s, one paragraph per line, into a capture. The text block is
// centred on the canvas and Geometry reports its bounds.
func Text(s string, opts TextOptions) (texload.Capture, error) {
	if strings.TrimSpace(s) == "" {
		return texload.Capture{}, ErrEmptyText
	}

	f := opts.Font
	if f == nil {
		var err error
		if f, err = defaultFont(); err != nil {
			return texload.Capture{}, fmt.Errorf("source: parse font: %w", err)
		}
	}
	size := opts.Size
	if size <= 0 {
		size = 24
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return texload.Capture{}, fmt.Errorf("source: new face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = VisualOrder(line, opts.Direction)
	}

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	widths := make([]int, len(lines))
	blockW := 0
	for i, line := range lines {
		widths[i] = font.MeasureString(face, line).Ceil()
		blockW = max(blockW, widths[i])
	}
	blockH := lineHeight * len(lines)

	pad := max(0, opts.Padding)
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = blockW+2*pad, blockH+2*pad
	}

	fg, bg := opts.Foreground, opts.Background
	if fg == nil {
		fg = color.White
	}
	if bg == nil {
		bg = color.Black
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)

	x0, y0 := (w-blockW)/2, (h-blockH)/2
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: face}
	for i, line := range lines {
		x := x0
		if opts.Direction == DirectionRTL || (opts.Direction == DirectionAuto && isRTL(line)) {
			x += blockW - widths[i]
		}
		d.Dot = fixed.P(x, y0+i*lineHeight+ascent)
		d.DrawString(line)
	}

	buf, err := pixbuf.FromImage(dst)
	if err != nil {
		return texload.Capture{}, fmt.Errorf("source: %w", err)
	}
	return texload.Capture{
		Image:    buf,
		Geometry: image.Rect(x0, y0, x0+blockW, y0+blockH).Intersect(dst.Bounds()),
		Name:     opts.Name,
	}, nil
}

// VisualOrder returns line with its runs in display order: right-to-left
// runs are reversed so that drawing left to right shows them correctly.
func VisualOrder(line string, dir Direction) string {
	if line == "" {
		return line
	}

	p := bidi.Paragraph{}
	var err error
	switch dir {
	case DirectionRTL:
		_, err = p.SetString(line, bidi.DefaultDirection(bidi.RightToLeft))
	case DirectionLTR:
		_, err = p.SetString(line, bidi.DefaultDirection(bidi.LeftToRight))
	default:
		_, err = p.SetString(line, bidi.DefaultDirection(bidi.Neutral))
	}
	if err != nil {
		return line
	}

	ordering, err := p.Order()
	if err != nil {
		return line
	}

	var sb strings.Builder
	sb.Grow(len(line))
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		if run.Direction() == bidi.RightToLeft {
			r := []rune(run.String())
			for j := len(r) - 1; j >= 0; j-- {
				sb.WriteRune(r[j])
			}
			continue
		}
		sb.WriteString(run.String())
	}
	return sb.String()
}

// isRTL reports whether the first strong character of line is
// right-to-left.
func isRTL(line string) bool {
	for _, r := range line {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL:
			return true
		case bidi.L:
			return false
		}
	}
	return false
}
