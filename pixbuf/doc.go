// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pixbuf holds pixel buffers in whatever layout their producer used
// and converts them to the canonical RGBA32 form that texture uploads use.
//
// # Layouts
//
// A [Layout] describes one pixel of a [Buffer]: its depth (8, 16, 24 or 32
// bits), the red, green and blue bit-field masks of a truecolor pixel or the
// palette of an indexed one, and the order in which the bytes of a
// multi-byte pixel are stored. The byte order of the producer is never
// assumed to match the byte order of the host.
//
// # Canonical RGBA32
//
// [Normalize] produces an [RGBA32] image: one uint32 word per pixel, packed
// so that the bytes in memory read R, G, B, A on the running host. Alpha is
// always opaque. Narrow channel fields (for example the 5-bit fields of
// RGB565) are widened by replicating their most significant bits, so that
// full intensity stays full intensity.
//
// # Downscaling
//
// [Halve] point-samples a buffer down to half its size. It is the retry
// strategy used when a GPU refuses to allocate a texture, and refuses to
// shrink buffers that are already at or below [MinHalveSize].
package pixbuf
