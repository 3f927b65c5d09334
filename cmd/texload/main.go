// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command texload loads an image or a caption into a texture the way a
// render loop would: a little every frame, within a per-frame budget.
package main

import (
	"context"
	"flag"
	"image/png"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/texload"
	"github.com/gogpu/texload/backend"
	_ "github.com/gogpu/texload/backend/native"
	"github.com/gogpu/texload/backend/software"
	"github.com/gogpu/texload/source"
)

func main() {
	var (
		input      = flag.String("input", "", "image file to load")
		caption    = flag.String("text", "", "text to render instead of an image file")
		width      = flag.Int("width", 0, "canvas width (0 keeps the image size)")
		height     = flag.Int("height", 0, "canvas height (0 keeps the image size)")
		backendArg = flag.String("backend", "auto", "texture backend: auto, native or software")
		maxTexture = flag.Int("max-texture", 0, "largest texture dimension (0 uses the device limit)")
		mipmaps    = flag.Bool("mipmaps", false, "generate mipmaps")
		fps        = flag.Int("fps", 60, "simulated frame rate")
		share      = flag.Float64("budget", 0.25, "fraction of each frame spent loading")
		output     = flag.String("output", "", "write the loaded texture to this PNG (software backend only)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *input == "" && *caption == "" {
		log.Fatal("one of -input or -text is required")
	}
	if *fps <= 0 {
		log.Fatalf("invalid -fps %d", *fps)
	}

	if *verbose {
		texload.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	b, err := openBackend(*backendArg)
	if err != nil {
		log.Fatalf("Failed to open backend: %v", err)
	}
	defer b.Close()
	if d, ok := b.(backend.Describer); ok {
		log.Printf("Using %s backend on %s", b.Name(), d.Describe())
	}

	target, err := b.NewTarget(backend.Options{MaxTextureSize: *maxTexture, Label: "texload"})
	if err != nil {
		log.Fatalf("Failed to create target: %v", err)
	}

	ctx := context.Background()
	var src texload.Source
	if *caption != "" {
		src = source.Go(ctx, func(context.Context) (texload.Capture, error) {
			return source.Text(*caption, source.TextOptions{Width: *width, Height: *height, Padding: 8, Name: "caption"})
		})
	} else {
		src = source.File(ctx, *input, source.Options{Width: *width, Height: *height})
	}

	frame := time.Second / time.Duration(*fps)
	budget := time.Duration(float64(frame) * *share)

	var done texload.Completion
	l := texload.NewLoader(src, target, texload.Destination{Mipmaps: *mipmaps, Label: "texload"},
		texload.WithCompletion(func(c texload.Completion) { done = c }))

	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	frames := 0
	start := time.Now()
	for range ticker.C {
		frames++
		if l.Step(budget) != texload.StatusPending {
			break
		}
	}

	if l.Failed() {
		log.Fatalf("Load failed after %d frames: %v", frames, l.Err())
	}

	st := l.Stats()
	log.Printf("Loaded %q on %s: image %dx%d, texture %dx%d, %d frames, %d stripes, %v busy, %v wall",
		done.Name, b.Name(), done.ImageWidth, done.ImageHeight, done.TextureWidth, done.TextureHeight,
		frames, st.Stripes, st.Busy, time.Since(start).Round(time.Millisecond))

	if *output != "" {
		sw, ok := target.(*software.Target)
		if !ok {
			log.Fatalf("-output needs the software backend, have %s", b.Name())
		}
		if err := savePNG(*output, sw); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		log.Printf("Texture saved to %s\n", *output)
	}
}

func openBackend(name string) (backend.TextureBackend, error) {
	if name == "auto" {
		return backend.InitDefault()
	}
	return backend.Open(name)
}

func savePNG(path string, t *software.Target) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, t.Image()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
