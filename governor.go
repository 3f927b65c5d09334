// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texload

import (
	"math"
	"time"
)

// Throughput bounds and seed, in pixels per second.
const (
	// DefaultPixelsPerSecond assumes 2^19 pixels fit in a 1/60 s frame.
	DefaultPixelsPerSecond = float64(1<<19) * 60

	// MinPixelsPerSecond is the floor applied to every observation.
	MinPixelsPerSecond = 1e6

	// MaxPixelsPerSecond is the ceiling applied to every observation.
	MaxPixelsPerSecond = 2e8
)

// Governor estimates sustained conversion and upload throughput and turns
// it into stripe heights.
//
// Each observation replaces the estimate, clamped to
// [MinPixelsPerSecond, MaxPixelsPerSecond] so that one driver stall or one
// implausibly fast call cannot poison later stripe sizes.
//
// A Governor is not safe for concurrent use. Loaders share
// DefaultGovernor unless given their own with WithGovernor.
type Governor struct {
	estimate float64
}

// defaultGovernor is shared by every loader created without WithGovernor.
var defaultGovernor = NewGovernor()

// DefaultGovernor returns the process-wide Governor.
func DefaultGovernor() *Governor {
	return defaultGovernor
}

// NewGovernor returns a Governor seeded with DefaultPixelsPerSecond.
func NewGovernor() *Governor {
	return &Governor{estimate: DefaultPixelsPerSecond}
}

// NewGovernorWithEstimate returns a Governor seeded with pps, clamped.
func NewGovernorWithEstimate(pps float64) *Governor {
	g := NewGovernor()
	if !math.IsNaN(pps) {
		g.estimate = clampThroughput(pps)
	}
	return g
}

// Estimate returns the current throughput estimate in pixels per second.
func (g *Governor) Estimate() float64 {
	return g.estimate
}

// Observe records that pixels were processed in elapsed wall time.
// A zero or negative elapsed time counts as the fastest possible rate;
// observations of no pixels are ignored.
func (g *Governor) Observe(pixels int, elapsed time.Duration) {
	if pixels <= 0 {
		return
	}
	var pps float64
	if elapsed <= 0 {
		pps = MaxPixelsPerSecond
	} else {
		pps = float64(pixels) / elapsed.Seconds()
	}
	if math.IsNaN(pps) {
		return
	}
	g.estimate = clampThroughput(pps)
}

// NextStripeHeight returns how many rows of a width-pixel image should fit
// in budget at the current estimate. It is never less than 1.
func (g *Governor) NextStripeHeight(budget time.Duration, width int) int {
	if width <= 0 || budget <= 0 {
		return 1
	}
	rows := g.estimate * budget.Seconds() / float64(width)
	if rows < 1 {
		return 1
	}
	if rows > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(rows)
}

func clampThroughput(pps float64) float64 {
	return min(max(pps, MinPixelsPerSecond), MaxPixelsPerSecond)
}
