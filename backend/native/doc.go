// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native uploads textures through the gogpu/wgpu hardware
// abstraction layer.
//
// A [Target] wraps a hal.Device and hal.Queue. Storage is created with
// Device.CreateTexture as an RGBA8Unorm 2D texture and filled stripe by
// stripe with Queue.WriteTexture. When mipmaps are requested the target
// keeps a CPU copy of level 0 and writes the box-filtered levels after the
// final stripe.
//
// Hosts that already own a device, such as a gogpu application, pass it in
// with [FromProvider].
package native
