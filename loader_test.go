// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texload

import (
	"errors"
	"image"
	"testing"
	"time"
)

func TestLoaderScenario1024x768(t *testing.T) {
	target := newFakeTarget()
	clock := &fakeClock{step: 20 * time.Millisecond}

	var calls []Completion
	l := NewLoader(Ready(Capture{Image: testImage(t, 1024, 768), Name: "screen"}), target, Destination{},
		WithGovernor(NewGovernor()),
		WithClock(clock.now),
		WithCompletion(func(c Completion) { calls = append(calls, c) }))

	const budget = 16 * time.Millisecond
	if st := l.Step(budget); st == StatusError {
		t.Fatalf("first Step failed: %v", l.Err())
	}
	if l.StripeHeight() <= 0 || l.Cursor() <= 0 {
		t.Fatalf("after first step: stripe height %d, cursor %d", l.StripeHeight(), l.Cursor())
	}

	steps := 1
	for l.Phase() != PhaseComplete {
		if steps >= 768 {
			t.Fatalf("not complete after %d steps (cursor %d)", steps, l.Cursor())
		}
		if st := l.Step(budget); st == StatusError {
			t.Fatalf("Step failed: %v", l.Err())
		}
		steps++
	}

	// Further steps are no-ops.
	for range 3 {
		if st := l.Step(budget); st != StatusComplete {
			t.Errorf("Step after completion = %v, want Complete", st)
		}
	}

	if len(calls) != 1 {
		t.Fatalf("completion callback fired %d times, want 1", len(calls))
	}
	want := Completion{
		Name:          "screen",
		Geometry:      image.Rect(0, 0, 1024, 768),
		ImageWidth:    1024,
		ImageHeight:   768,
		TextureWidth:  1024,
		TextureHeight: 1024,
	}
	if calls[0] != want {
		t.Errorf("completion = %+v, want %+v", calls[0], want)
	}
	if c, ok := l.Completion(); !ok || c != want {
		t.Errorf("Completion() = %+v, %v", c, ok)
	}

	if target.makeCurrent != l.Stats().Steps {
		t.Errorf("MakeCurrent called %d times over %d working steps", target.makeCurrent, l.Stats().Steps)
	}

	y := 0
	for i, s := range target.stripes {
		if s.Y != y {
			t.Fatalf("stripe %d starts at row %d, want %d", i, s.Y, y)
		}
		y += s.Height
	}
	if y != 768 {
		t.Errorf("stripes cover %d rows, want 768", y)
	}
	for _, p := range []image.Point{{0, 0}, {1023, 0}, {511, 400}, {1023, 767}} {
		if got := target.at(p.X, p.Y); got != wantPixel(p.X, p.Y) {
			t.Errorf("texel %v = %v, want %v", p, got, wantPixel(p.X, p.Y))
		}
	}
}

func TestLoaderExhaustedRetries(t *testing.T) {
	target := newFakeTarget()
	target.failAll = true
	buf := indexedImage(t, 4096, 4096)

	called := false
	l := NewLoader(Ready(Capture{Image: buf}), target, Destination{},
		WithCompletion(func(Completion) { called = true }))

	if st := l.Step(16 * time.Millisecond); st != StatusError {
		t.Fatalf("Step = %v, want Error", st)
	}
	if !l.Failed() || l.Phase() != PhaseError {
		t.Errorf("Failed() = %v, Phase() = %v", l.Failed(), l.Phase())
	}
	if !errors.Is(l.Err(), ErrExhaustedRetries) {
		t.Errorf("Err() = %v, want ErrExhaustedRetries", l.Err())
	}
	if len(target.allocs) != MaxAttempts {
		t.Errorf("allocation attempts = %d, want %d", len(target.allocs), MaxAttempts)
	}
	if last := target.allocs[len(target.allocs)-1]; last.Width != 64 || last.Height != 64 {
		t.Errorf("last attempt = %dx%d, want 64x64", last.Width, last.Height)
	}
	if len(target.stripes) != 0 || target.discards != 0 {
		t.Errorf("target touched: %d stripes, %d discards", len(target.stripes), target.discards)
	}
	if l.Stats().Reductions != MaxAttempts-1 {
		t.Errorf("Reductions = %d, want %d", l.Stats().Reductions, MaxAttempts-1)
	}
	if called {
		t.Error("completion callback fired on failure")
	}
	if !buf.Released() {
		t.Error("image was not released")
	}
}

func TestLoaderTermination(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		budgets []time.Duration
	}{
		{"tiny budget", 40, 17, []time.Duration{time.Nanosecond}},
		{"mixed budgets", 300, 120, []time.Duration{time.Nanosecond, time.Millisecond, 3 * time.Microsecond}},
		{"minimum image", 5, 5, []time.Duration{time.Nanosecond}},
		{"generous budget", 64, 64, []time.Duration{time.Hour}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{step: time.Millisecond}
			l := NewLoader(Ready(Capture{Image: testImage(t, tt.width, tt.height)}), newFakeTarget(), Destination{},
				WithGovernor(NewGovernorWithEstimate(MinPixelsPerSecond)),
				WithClock(clock.now))

			for i := 0; i < tt.height; i++ {
				before := l.Cursor()
				st := l.Step(tt.budgets[i%len(tt.budgets)])
				if st == StatusError {
					t.Fatalf("step %d failed: %v", i+1, l.Err())
				}
				if st == StatusComplete {
					return
				}
				if l.Cursor() <= before {
					t.Fatalf("step %d did not advance the cursor (%d)", i+1, before)
				}
			}
			t.Fatalf("not complete after %d steps, cursor %d", tt.height, l.Cursor())
		})
	}
}

func TestLoaderPhaseMonotonic(t *testing.T) {
	polls := 0
	src := SourceFunc(func() (Capture, bool, error) {
		polls++
		if polls < 4 {
			return Capture{}, false, nil
		}
		return Capture{Image: testImage(t, 50, 30)}, true, nil
	})

	target := newFakeTarget()
	clock := &fakeClock{step: time.Millisecond}
	l := NewLoader(src, target, Destination{},
		WithGovernor(NewGovernorWithEstimate(MinPixelsPerSecond)),
		WithClock(clock.now))

	last := l.Phase()
	if last != PhaseLoading {
		t.Fatalf("initial phase = %v, want Loading", last)
	}
	for i := 0; i < 100; i++ {
		l.Step(time.Nanosecond)
		if p := l.Phase(); p < last {
			t.Fatalf("step %d: phase went from %v to %v", i+1, last, p)
		} else {
			last = p
		}
		if i < 3 && target.makeCurrent != 0 {
			t.Fatalf("MakeCurrent called while the capture was in flight")
		}
	}
	if last != PhaseComplete {
		t.Fatalf("final phase = %v, want Complete", last)
	}

	stats, cursor := l.Stats(), l.Cursor()
	l.Step(time.Second)
	if l.Stats() != stats || l.Cursor() != cursor {
		t.Error("Step after completion changed the loader")
	}
}

func TestLoaderCloseWhileLoadingPanics(t *testing.T) {
	src := SourceFunc(func() (Capture, bool, error) { return Capture{}, false, nil })
	l := NewLoader(src, newFakeTarget(), Destination{})
	if st := l.Step(time.Millisecond); st != StatusPending {
		t.Fatalf("Step = %v, want Pending", st)
	}

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrMisuse) {
			t.Errorf("Close() panicked with %v, want ErrMisuse", r)
		}
	}()
	l.Close()
	t.Error("Close() did not panic")
}

func TestLoaderCloseWhileImporting(t *testing.T) {
	target := newFakeTarget()
	buf := testImage(t, 64, 64)
	clock := &fakeClock{step: time.Millisecond}
	l := NewLoader(Ready(Capture{Image: buf}), target, Destination{},
		WithGovernor(NewGovernorWithEstimate(MinPixelsPerSecond)),
		WithClock(clock.now))

	if st := l.Step(time.Nanosecond); st != StatusPending {
		t.Fatalf("Step = %v, want Pending", st)
	}
	l.Close()
	l.Close()

	if !errors.Is(l.Err(), ErrClosed) || !l.Failed() {
		t.Errorf("after Close: Err() = %v, Failed() = %v", l.Err(), l.Failed())
	}
	if target.discards != 1 {
		t.Errorf("Discard called %d times, want 1", target.discards)
	}
	if !buf.Released() {
		t.Error("image was not released")
	}
	if st := l.Step(time.Second); st != StatusError {
		t.Errorf("Step after Close = %v, want Error", st)
	}
}

func TestLoaderCloseAfterCompletion(t *testing.T) {
	target := newFakeTarget()
	l := NewLoader(Ready(Capture{Image: testImage(t, 16, 16)}), target, Destination{})
	if st := l.Step(time.Second); st != StatusComplete {
		t.Fatalf("Step = %v, want Complete", st)
	}
	l.Close()
	if l.Phase() != PhaseComplete || target.discards != 0 {
		t.Errorf("Close after completion: phase %v, %d discards", l.Phase(), target.discards)
	}
}

func TestLoaderFailures(t *testing.T) {
	captureErr := errors.New("grab failed")
	writeErr := errors.New("queue lost")

	tests := []struct {
		name     string
		src      Source
		target   func() *fakeTarget
		want     error
		discards int
	}{
		{
			name:   "capture error",
			src:    SourceFunc(func() (Capture, bool, error) { return Capture{}, false, captureErr }),
			target: newFakeTarget,
			want:   captureErr,
		},
		{
			name:   "nil image",
			src:    Ready(Capture{}),
			target: newFakeTarget,
			want:   ErrNilImage,
		},
		{
			name: "write error",
			target: func() *fakeTarget {
				f := newFakeTarget()
				f.writeErr = writeErr
				return f
			},
			want:     writeErr,
			discards: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.src
			if src == nil {
				src = Ready(Capture{Image: testImage(t, 32, 32)})
			}
			target := tt.target()
			l := NewLoader(src, target, Destination{})
			if st := l.Step(time.Millisecond); st != StatusError {
				t.Fatalf("Step = %v, want Error", st)
			}
			if !errors.Is(l.Err(), tt.want) {
				t.Errorf("Err() = %v, want %v", l.Err(), tt.want)
			}
			if target.discards != tt.discards {
				t.Errorf("Discard called %d times, want %d", target.discards, tt.discards)
			}
		})
	}
}

func TestLoaderDegenerate(t *testing.T) {
	target := newFakeTarget()
	buf := testImage(t, 3, 200)
	l := NewLoader(Ready(Capture{Image: buf}), target, Destination{})

	if st := l.Step(time.Millisecond); st != StatusError {
		t.Fatalf("Step = %v, want Error", st)
	}
	if !errors.Is(l.Err(), ErrDegenerateGeometry) {
		t.Errorf("Err() = %v, want ErrDegenerateGeometry", l.Err())
	}
	if target.makeCurrent != 0 || len(target.allocs) != 0 {
		t.Error("degenerate image reached the target")
	}
	if !buf.Released() {
		t.Error("image was not released")
	}
}

func TestLoaderMipmapsOnLastStripe(t *testing.T) {
	target := newFakeTarget()
	clock := &fakeClock{step: time.Millisecond}
	l := NewLoader(Ready(Capture{Image: testImage(t, 20, 9)}), target, Destination{Mipmaps: true},
		WithGovernor(NewGovernorWithEstimate(MinPixelsPerSecond)),
		WithClock(clock.now))

	for l.Step(time.Nanosecond) == StatusPending {
	}
	if l.Failed() {
		t.Fatalf("load failed: %v", l.Err())
	}
	if got := target.allocs[0].MipLevels; got != 6 {
		t.Errorf("MipLevels = %d, want 6 for 32x16", got)
	}
	if len(target.stripes) < 2 {
		t.Fatalf("wrote %d stripes, want several", len(target.stripes))
	}
	for i, s := range target.stripes {
		last := i == len(target.stripes)-1
		if s.GenerateMipmaps != last {
			t.Errorf("stripe %d GenerateMipmaps = %v, want %v", i, s.GenerateMipmaps, last)
		}
	}
}

func TestLoaderStripeBackoff(t *testing.T) {
	gov := NewGovernorWithEstimate(1e7)
	clock := &fakeClock{step: 10 * time.Millisecond}
	l := NewLoader(Ready(Capture{Image: testImage(t, 100, 1000)}), newFakeTarget(), Destination{},
		WithGovernor(gov),
		WithClock(clock.now))

	const budget = 5 * time.Millisecond
	if want := 500; gov.NextStripeHeight(budget, 100) != want {
		t.Fatalf("seed stripe height = %d, want %d", gov.NextStripeHeight(budget, 100), want)
	}

	l.Step(budget)
	if l.Cursor() != 500 {
		t.Fatalf("cursor = %d, want 500", l.Cursor())
	}
	// One 500-row stripe took 10ms: 5e6 px/s, so 250 rows fit in 5ms,
	// halved because a single stripe overran the budget.
	if got := gov.Estimate(); got != 5e6 {
		t.Errorf("Estimate() = %v, want 5e6", got)
	}
	if got := l.StripeHeight(); got != 125 {
		t.Errorf("StripeHeight() = %d, want 125", got)
	}
}

func TestLoaderLetterboxGeometry(t *testing.T) {
	geom := image.Rect(8, 0, 56, 64)
	var got Completion
	l := NewLoader(Ready(Capture{Image: testImage(t, 64, 64), Geometry: geom}), newFakeTarget(), Destination{},
		WithName("fallback"),
		WithCompletion(func(c Completion) { got = c }))
	if st := l.Step(time.Second); st != StatusComplete {
		t.Fatalf("Step = %v, want Complete", st)
	}
	if got.Geometry != geom || got.Name != "fallback" {
		t.Errorf("completion = %+v", got)
	}
	if l.Geometry() != geom {
		t.Errorf("Geometry() = %v, want %v", l.Geometry(), geom)
	}
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{
		PhaseLoading: "Loading", PhaseImporting: "Importing", PhaseComplete: "Complete", PhaseError: "Error", Phase(9): "Phase(9)",
	} {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
	if StatusPending.String() != "Pending" || StatusComplete.String() != "Complete" || StatusError.String() != "Error" {
		t.Error("unexpected Status names")
	}
}
