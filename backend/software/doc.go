// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides a CPU texture target.
//
// A [Target] keeps texture storage in memory as RGBA8 mip levels. It is the
// fallback backend when no GPU device is available, and it doubles as a
// readback target for tools and tests: [Target.Image] returns the uploaded
// image as an *image.RGBA.
package software
