// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package source produces captures for texload loaders.
//
// Captures can come from encoded image files (PNG, JPEG, GIF, BMP, TIFF and
// WebP), from any image.Image, or from text rendered with a TrueType font.
// When a canvas size is requested, the image is fit into it preserving its
// aspect ratio and centred, and the capture's Geometry reports where it
// landed.
//
// Decoding a large file takes long enough to drop frames, so [File] runs
// it on a goroutine and returns an [Async] whose Poll never blocks:
//
//	src := source.File(ctx, "photo.jpg", source.Options{Width: 1920, Height: 1080})
//	l := texload.NewLoader(src, target, texload.Destination{})
package source
