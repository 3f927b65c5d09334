// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texload

import (
	"log/slog"
	"time"
)

// MaxAttempts is the default number of texture allocations tried, each at
// half the size of the previous one, before a load fails.
const MaxAttempts = 7

// Option configures Load and NewLoader.
//
// Example:
//
//	gov := texload.NewGovernorWithEstimate(5e7)
//	l := texload.NewLoader(src, target, texload.Destination{},
//	    texload.WithGovernor(gov),
//	    texload.WithName("wallpaper"))
type Option func(*options)

// options holds optional loader configuration.
type options struct {
	governor    *Governor
	now         func() time.Time
	logger      *slog.Logger
	onComplete  func(Completion)
	maxAttempts int
	name        string
}

// defaultOptions returns the default loader options.
func defaultOptions() options {
	return options{
		governor:    nil, // DefaultGovernor() if nil
		now:         time.Now,
		logger:      nil, // Logger() if nil
		maxAttempts: MaxAttempts,
	}
}

func resolveOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.governor == nil {
		o.governor = DefaultGovernor()
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.maxAttempts <= 0 {
		o.maxAttempts = MaxAttempts
	}
	return o
}

// WithGovernor makes a loader use g instead of the process-wide Governor.
func WithGovernor(g *Governor) Option {
	return func(o *options) {
		o.governor = g
	}
}

// WithClock replaces time.Now for budget accounting.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger sets the logger for one loader instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCompletion registers fn to be called exactly once when an
// incremental load completes. It is not called on failure.
func WithCompletion(fn func(Completion)) Option {
	return func(o *options) {
		o.onComplete = fn
	}
}

// WithMaxAttempts bounds the number of texture allocations tried.
// Values <= 0 select MaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		o.maxAttempts = n
	}
}

// WithName names the load when the capture carries no name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
