// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package texload moves images into GPU textures without stalling a frame
// loop.
//
// # Overview
//
// Converting and uploading a full-screen image can take tens of
// milliseconds, far longer than one animation frame. texload splits the work
// into horizontal stripes and uploads as many stripes per call as fit in a
// caller-supplied time budget. A [Governor] measures the achieved throughput
// and sizes the next stripes to fit the next budget.
//
// # Quick Start
//
//	l := texload.NewLoader(src, target, texload.Destination{Mipmaps: true},
//	    texload.WithCompletion(func(c texload.Completion) {
//	        log.Printf("%s ready: %dx%d in %dx%d", c.Name,
//	            c.ImageWidth, c.ImageHeight, c.TextureWidth, c.TextureHeight)
//	    }))
//
//	// Once per frame:
//	switch l.Step(4 * time.Millisecond) {
//	case texload.StatusComplete:
//	    // texture is final
//	case texload.StatusError:
//	    log.Print(l.Err())
//	}
//
// Small images can be uploaded synchronously with [Load].
//
// # Textures
//
// A [Target] is the destination texture and the context it lives in.
// Storage is always allocated at power-of-two dimensions and the image is
// written into its top-left corner. When a Target refuses an allocation
// with an error wrapping [ErrAllocationFailed], the image is halved and the
// allocation retried, at most [MaxAttempts] times in total.
//
// Backends live in sub-packages: backend/native writes to a gogpu/wgpu HAL
// device, backend/software keeps textures in memory.
//
// # Concurrency
//
// Loading is single-threaded and cooperative: nothing runs between Step
// calls. Loaders and Governors are not safe for concurrent use.
package texload
