// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend provides a registry of texture backends.
//
// A backend owns a device and hands out texload.Target values bound to it.
// Backends register themselves from init() functions, so importing a
// backend package is enough to make it available:
//
//	import (
//		_ "github.com/gogpu/texload/backend/native"
//		_ "github.com/gogpu/texload/backend/software"
//	)
//
// # Backend Selection
//
// Use InitDefault() to get the best backend that can find a device, or
// Open() to request a specific backend by name:
//
//	b, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	target, err := b.NewTarget(backend.Options{Label: "photo"})
//
// The native backend is preferred; the software backend is the fallback
// and never fails to initialize.
package backend
