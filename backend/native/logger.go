// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"log/slog"

	"github.com/gogpu/texload"
)

// slogger returns the texload package logger, so texload.SetLogger
// configures this backend too.
func slogger() *slog.Logger { return texload.Logger() }
