// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package source

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestText(t *testing.T) {
	fg := color.RGBA{0xFF, 0xFF, 0x00, 0xFF}
	c, err := Text("Hello,\nworld", TextOptions{Size: 20, Padding: 4, Foreground: fg, Name: "caption"})
	if err != nil {
		t.Fatalf("Text() = %v", err)
	}
	if c.Name != "caption" {
		t.Errorf("Name = %q", c.Name)
	}
	w, h := c.Image.Width(), c.Image.Height()
	if w <= 8 || h <= 8 {
		t.Fatalf("image is %dx%d", w, h)
	}
	if c.Geometry != image.Rect(4, 4, w-4, h-4) {
		t.Errorf("Geometry = %v in %dx%d", c.Geometry, w, h)
	}

	// Some glyph pixel must be fully foreground.
	found := false
	for y := 0; y < h && !found; y++ {
		for x := 0; x < w; x++ {
			if c.Image.Pixel(x, y) == 0xFF00FFFF {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no foreground pixels drawn")
	}
}

func TestTextCanvas(t *testing.T) {
	c, err := Text("x", TextOptions{Width: 200, Height: 100})
	if err != nil {
		t.Fatal(err)
	}
	if c.Image.Width() != 200 || c.Image.Height() != 100 {
		t.Errorf("size = %dx%d, want 200x100", c.Image.Width(), c.Image.Height())
	}
	center := image.Pt(100, 50)
	if !center.In(c.Geometry) {
		t.Errorf("Geometry %v is not centred", c.Geometry)
	}
}

func TestTextEmpty(t *testing.T) {
	for _, s := range []string{"", "  ", "\n"} {
		if _, err := Text(s, TextOptions{}); !errors.Is(err, ErrEmptyText) {
			t.Errorf("Text(%q) = %v, want ErrEmptyText", s, err)
		}
	}
}

func TestVisualOrder(t *testing.T) {
	tests := []struct {
		name string
		in   string
		dir  Direction
		want string
	}{
		{"latin", "abc def", DirectionAuto, "abc def"},
		{"hebrew", "אבג", DirectionAuto, "גבא"},
		{"empty", "", DirectionAuto, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisualOrder(tt.in, tt.dir); got != tt.want {
				t.Errorf("VisualOrder(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestVisualOrderKeepsRunes(t *testing.T) {
	in := "abc שלום 123"
	got := VisualOrder(in, DirectionLTR)
	count := func(s string) map[rune]int {
		m := make(map[rune]int)
		for _, r := range s {
			m[r]++
		}
		return m
	}
	want, have := count(in), count(got)
	if len(want) != len(have) {
		t.Fatalf("VisualOrder(%q) = %q changed the rune set", in, got)
	}
	for r, n := range want {
		if have[r] != n {
			t.Errorf("rune %q appears %d times, want %d", r, have[r], n)
		}
	}
}
