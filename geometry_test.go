// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texload

import "testing"

func TestNextPow2(t *testing.T) {
	tests := []struct{ in, want int }{
		{-3, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 4}, {5, 8},
		{64, 64}, {65, 128}, {768, 1024}, {1024, 1024}, {1025, 2048},
	}
	for _, tt := range tests {
		if got := NextPow2(tt.in); got != tt.want {
			t.Errorf("NextPow2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIsPow2(t *testing.T) {
	for n, want := range map[int]bool{0: false, -4: false, 1: true, 2: true, 3: false, 96: false, 4096: true} {
		if got := IsPow2(n); got != want {
			t.Errorf("IsPow2(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestTextureSize(t *testing.T) {
	w, h := TextureSize(1024, 768)
	if w != 1024 || h != 1024 {
		t.Errorf("TextureSize(1024, 768) = %dx%d, want 1024x1024", w, h)
	}
	w, h = TextureSize(100, 33)
	if w != 128 || h != 64 {
		t.Errorf("TextureSize(100, 33) = %dx%d, want 128x64", w, h)
	}
}

func TestDegenerate(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{0, 0, true}, {4, 100, true}, {100, 4, true}, {5, 5, false}, {1024, 768, false},
	}
	for _, tt := range tests {
		if got := Degenerate(tt.w, tt.h); got != tt.want {
			t.Errorf("Degenerate(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}
