// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package source

import (
	"context"

	"github.com/gogpu/texload"
)

// Async is a texload.Source whose capture is produced by a goroutine.
type Async struct {
	done   chan struct{}
	cancel context.CancelFunc

	// Written once before done is closed.
	capture texload.Capture
	err     error
}

var _ texload.Source = (*Async)(nil)

// Go runs fn on a new goroutine and returns a Source for its result.
// The context passed to fn is cancelled by Cancel or when ctx is done.
func Go(ctx context.Context, fn func(ctx context.Context) (texload.Capture, error)) *Async {
	ctx, cancel := context.WithCancel(ctx)
	a := &Async{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go func() {
		defer close(a.done)
		defer cancel()
		a.capture, a.err = fn(ctx)
	}()
	return a
}

// Poll reports whether the capture has completed. It never blocks.
func (a *Async) Poll() (texload.Capture, bool, error) {
	select {
	case <-a.done:
		return a.capture, true, a.err
	default:
		return texload.Capture{}, false, nil
	}
}

// Wait blocks until the capture completes or ctx is done.
func (a *Async) Wait(ctx context.Context) (texload.Capture, error) {
	select {
	case <-a.done:
		return a.capture, a.err
	case <-ctx.Done():
		return texload.Capture{}, ctx.Err()
	}
}

// Done returns a channel closed when the capture completes.
func (a *Async) Done() <-chan struct{} {
	return a.done
}

// Cancel asks the producer to stop. The capture still completes, usually
// with the context's error, and a loader polling it will report that.
func (a *Async) Cancel() {
	a.cancel()
}
