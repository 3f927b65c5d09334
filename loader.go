// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texload

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/texload/pixbuf"
)

// Phase is the lifecycle stage of a Loader. Phases only move forward.
type Phase uint8

const (
	// PhaseLoading waits for the capture to complete. No GPU storage exists.
	PhaseLoading Phase = iota

	// PhaseImporting uploads stripes into allocated storage.
	PhaseImporting

	// PhaseComplete means the texture holds the whole image.
	PhaseComplete

	// PhaseError means the load failed. See Loader.Err.
	PhaseError
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "Loading"
	case PhaseImporting:
		return "Importing"
	case PhaseComplete:
		return "Complete"
	case PhaseError:
		return "Error"
	default:
		return fmt.Sprintf("Phase(%d)", p)
	}
}

// Status is the outcome of a single Step.
type Status uint8

const (
	// StatusPending means more steps are needed.
	StatusPending Status = iota

	// StatusComplete means the texture is ready.
	StatusComplete

	// StatusError means the load failed.
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusComplete:
		return "Complete"
	case StatusError:
		return "Error"
	default:
		return fmt.Sprintf("Status(%d)", s)
	}
}

// Completion is passed to the completion callback.
type Completion struct {
	// Name is the capture name, possibly empty.
	Name string

	// Geometry is where the image data lies within the uploaded image.
	Geometry image.Rectangle

	// ImageWidth and ImageHeight are the uploaded image size.
	ImageWidth  int
	ImageHeight int

	// TextureWidth and TextureHeight are the allocated storage size.
	TextureWidth  int
	TextureHeight int
}

// Stats holds loader counters.
type Stats struct {
	Steps      int           // Step calls that did work
	Stripes    int           // stripes written
	Rows       int           // rows written
	Bytes      int           // RGBA bytes written
	Busy       time.Duration // time spent writing stripes
	Reductions int           // times the image was halved to fit
}

// Loader uploads an image into a texture across many short Step calls so
// that no single animation frame pays for the whole conversion.
//
// A Loader is driven from one goroutine, typically the render loop:
//
//	l := texload.NewLoader(src, target, texload.Destination{})
//	for {
//	    if l.Step(8*time.Millisecond) != texload.StatusPending {
//	        break
//	    }
//	    // draw the frame
//	}
//
// The texture must not be displayed as final before PhaseComplete. A Loader
// must not be closed while its capture is in flight.
type Loader struct {
	id     string
	src    Source
	target Target
	dst    Destination
	opts   options
	log    *slog.Logger

	phase Phase
	err   error

	// Set when the capture arrives.
	buf           *pixbuf.Buffer
	geom          image.Rectangle
	name          string
	width, height int

	alloc        Allocation
	cursor       int
	stripeHeight int

	stats      Stats
	completion *Completion
	tornDown   bool
}

// NewLoader returns a Loader in PhaseLoading that will poll src for its
// capture and upload it into target.
func NewLoader(src Source, target Target, dst Destination, opts ...Option) *Loader {
	o := resolveOptions(opts)
	id := uuid.New().String()
	return &Loader{
		id:     id,
		src:    src,
		target: target,
		dst:    dst,
		opts:   o,
		name:   o.name,
		log:    o.logger.With("loader", id),
		phase:  PhaseLoading,
	}
}

// Step does at most budget worth of work and reports where the load stands.
//
// The Target context is re-established on every step that issues GPU work.
// Each step in PhaseImporting writes at least one stripe, so an image of
// height H completes in at most H steps once its capture has arrived.
// Steps after PhaseComplete or PhaseError do nothing.
func (l *Loader) Step(budget time.Duration) Status {
	switch l.phase {
	case PhaseComplete:
		return StatusComplete
	case PhaseError:
		return StatusError
	}

	if l.phase == PhaseLoading {
		if l.src == nil {
			l.fail(fmt.Errorf("texload: capture: %w", ErrNilImage))
			return StatusError
		}
		c, ok, err := l.src.Poll()
		if err != nil {
			l.fail(fmt.Errorf("texload: capture: %w", err))
			return StatusError
		}
		if !ok {
			return StatusPending
		}
		if !l.accept(c) {
			return StatusError
		}
	}

	l.stats.Steps++

	if err := l.target.MakeCurrent(); err != nil {
		l.fail(fmt.Errorf("texload: make current: %w", err))
		return StatusError
	}

	if l.phase == PhaseLoading {
		alloc, reductions, err := allocateWithRetry(l.target, l.buf, &l.geom, l.dst, l.opts.maxAttempts, l.log)
		l.stats.Reductions = reductions
		if err != nil {
			l.fail(err)
			return StatusError
		}
		l.alloc = alloc
		l.width, l.height = l.buf.Width(), l.buf.Height()
		l.phase = PhaseImporting
		l.log.Debug("texload: texture allocated",
			"image", fmt.Sprintf("%dx%d", alloc.ImageWidth, alloc.ImageHeight),
			"texture", fmt.Sprintf("%dx%d", alloc.Width, alloc.Height),
			"mip_levels", alloc.MipLevels)
	}

	if l.stripeHeight == 0 {
		l.stripeHeight = l.opts.governor.NextStripeHeight(budget, l.width)
	}

	if err := l.advance(budget); err != nil {
		l.fail(err)
		return StatusError
	}

	if l.cursor >= l.height {
		l.complete()
		return StatusComplete
	}
	return StatusPending
}

// accept takes ownership of a completed capture. It reports false and
// moves to PhaseError if the capture cannot be loaded.
func (l *Loader) accept(c Capture) bool {
	if c.Name != "" {
		l.name = c.Name
	}
	if l.name != "" {
		l.log = l.log.With("name", l.name)
	}
	if c.Image == nil {
		l.fail(fmt.Errorf("texload: capture: %w", ErrNilImage))
		return false
	}
	if l.target == nil {
		c.Image.Release()
		l.fail(ErrNilTarget)
		return false
	}

	l.buf = c.Image
	l.width, l.height = c.Image.Width(), c.Image.Height()
	l.geom = fullGeometry(c.Geometry, l.width, l.height)

	if Degenerate(l.width, l.height) {
		l.fail(fmt.Errorf("%w: %dx%d", ErrDegenerateGeometry, l.width, l.height))
		return false
	}
	return true
}

// complete moves to PhaseComplete and fires the completion callback once.
func (l *Loader) complete() {
	l.phase = PhaseComplete
	l.teardown(false)

	c := Completion{
		Name:          l.name,
		Geometry:      l.geom,
		ImageWidth:    l.alloc.ImageWidth,
		ImageHeight:   l.alloc.ImageHeight,
		TextureWidth:  l.alloc.Width,
		TextureHeight: l.alloc.Height,
	}
	l.completion = &c

	l.log.Info("texload: texture complete",
		"image", fmt.Sprintf("%dx%d", c.ImageWidth, c.ImageHeight),
		"texture", fmt.Sprintf("%dx%d", c.TextureWidth, c.TextureHeight),
		"steps", l.stats.Steps,
		"stripes", l.stats.Stripes,
		"busy", l.stats.Busy)

	if fn := l.opts.onComplete; fn != nil {
		fn(c)
	}
}

// fail moves to PhaseError.
func (l *Loader) fail(err error) {
	discard := l.phase == PhaseImporting
	l.phase = PhaseError
	l.err = err
	l.teardown(discard)
	l.log.Warn("texload: load failed", "err", err)
}

// teardown releases the source image and, if discard is set, the texture
// storage. It runs at most once.
func (l *Loader) teardown(discard bool) {
	if l.tornDown {
		return
	}
	l.tornDown = true
	if l.buf != nil {
		l.buf.Release()
		l.buf = nil
	}
	if discard && l.target != nil {
		l.target.Discard()
	}
}

// Close abandons the load and releases the source image. Closing in
// PhaseImporting discards the partial texture and moves to PhaseError with
// ErrClosed. Close is idempotent.
//
// Close panics if the capture is still in flight (PhaseLoading): its
// buffer is owned by the capture collaborator and may still be written.
func (l *Loader) Close() {
	switch l.phase {
	case PhaseLoading:
		panic(fmt.Errorf("%w: loader %s closed while its capture is in flight", ErrMisuse, l.id))
	case PhaseImporting:
		l.phase = PhaseError
		l.err = ErrClosed
		l.teardown(true)
	default:
		l.teardown(false)
	}
}

// ID returns the loader's unique id, also attached to its log records.
func (l *Loader) ID() string { return l.id }

// Phase returns the current phase.
func (l *Loader) Phase() Phase { return l.phase }

// Cursor returns the number of rows written so far.
func (l *Loader) Cursor() int { return l.cursor }

// StripeHeight returns the number of rows the next stripe will carry,
// or 0 before the first stripe.
func (l *Loader) StripeHeight() int { return l.stripeHeight }

// Stats returns the loader counters.
func (l *Loader) Stats() Stats { return l.stats }

// Geometry returns where the image data lies, after any reductions.
// It is empty before the capture arrives.
func (l *Loader) Geometry() image.Rectangle { return l.geom }

// Failed reports whether the load ended in PhaseError.
func (l *Loader) Failed() bool { return l.phase == PhaseError }

// Err returns the error that moved the loader to PhaseError, or nil.
func (l *Loader) Err() error { return l.err }

// Completion returns the completion record once the load is complete.
func (l *Loader) Completion() (Completion, bool) {
	if l.completion == nil {
		return Completion{}, false
	}
	return *l.completion, true
}
