// Package log provides the logr.Logger plumbing shared by Sender and
// Receiver, following the same shape as the teacher repo's pkg/log.
package log

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// GetLogger returns a stdr.Logger implementing logr.Logger, with verbosity
// v. 0 is info-level only, 1 adds debug (state transitions), 2 adds trace.
// Any out-of-range v is treated as 0.
func GetLogger(v int) logr.Logger {
	logger := stdr.New(nil).WithName("baseot")
	if v > 2 || v < 0 {
		v = 0
		logger.Info("invalid verbosity, defaulting to info-level logging")
	}
	stdr.SetVerbosity(v)

	return logger
}

// ContextWithLogger returns a context carrying logger, retrievable with
// FromContext or FromContextOrDiscard.
func ContextWithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// FromContextOrDiscard returns the logr.Logger stored in ctx, or a no-op
// logger if none was stored.
func FromContextOrDiscard(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}
