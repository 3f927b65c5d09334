// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texload

import (
	"fmt"
	"time"

	"github.com/gogpu/texload/pixbuf"
)

// advance writes stripes from the cursor until the budget is spent or the
// image is done. At least one stripe is always written. The measured
// throughput feeds the governor, which sizes the next call's stripes.
func (l *Loader) advance(budget time.Duration) error {
	w, h := l.width, l.height
	start := l.opts.now()

	var elapsed time.Duration
	rows, stripes := 0, 0
	for l.cursor < h {
		n := min(l.stripeHeight, h-l.cursor)
		if err := l.writeStripe(n); err != nil {
			return err
		}
		rows += n
		stripes++

		elapsed = l.opts.now().Sub(start)
		if elapsed >= budget {
			break
		}
	}

	l.stats.Busy += elapsed

	gov := l.opts.governor
	gov.Observe(rows*w, elapsed)
	next := gov.NextStripeHeight(budget, w)
	if stripes == 1 && l.cursor < h {
		// One stripe already overran the budget.
		next = max(1, next/2)
	}
	l.stripeHeight = next

	l.log.Debug("texload: stripes written",
		"stripes", stripes,
		"rows", rows,
		"cursor", l.cursor,
		"elapsed", elapsed,
		"estimate", gov.Estimate(),
		"next_stripe", next)
	return nil
}

// writeStripe normalizes n rows at the cursor and writes them.
func (l *Loader) writeStripe(n int) error {
	w := l.width
	view, err := l.buf.Rows(l.cursor, n)
	if err != nil {
		return fmt.Errorf("texload: stripe at row %d: %w", l.cursor, err)
	}

	scratch := pixbuf.GetScratch(w * n)
	defer pixbuf.PutScratch(scratch)
	pixbuf.NormalizeInto(scratch, view)

	rgba := pixbuf.RGBA32{Pix: scratch, Width: w, Height: n}
	s := Stripe{
		Y:               l.cursor,
		Width:           w,
		Height:          n,
		Pix:             rgba.Bytes(),
		GenerateMipmaps: l.dst.Mipmaps && l.cursor+n == l.height,
	}
	if err := l.target.WriteStripe(s); err != nil {
		return fmt.Errorf("texload: write stripe at row %d: %w", l.cursor, err)
	}

	l.cursor += n
	l.stats.Stripes++
	l.stats.Rows += n
	l.stats.Bytes += len(s.Pix)
	return nil
}
