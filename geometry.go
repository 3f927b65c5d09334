// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texload

import (
	"image"
	"math/bits"
)

// MinImageSize is the smallest width and height worth uploading.
const MinImageSize = 5

// NextPow2 returns the smallest power of two >= n, and 1 for n <= 1.
func NextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// IsPow2 reports whether n is a positive power of two.
func IsPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// TextureSize returns the storage size allocated for a width x height image.
func TextureSize(width, height int) (int, int) {
	return NextPow2(width), NextPow2(height)
}

// Degenerate reports whether a width x height image is too small to upload.
func Degenerate(width, height int) bool {
	return width < MinImageSize || height < MinImageSize
}

// fullGeometry returns geom, or the whole image if geom is empty.
func fullGeometry(geom image.Rectangle, width, height int) image.Rectangle {
	if geom.Empty() {
		return image.Rect(0, 0, width, height)
	}
	return geom
}
