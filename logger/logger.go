// logger.go provides logging utilities and type aliases for the edgetracker project.

// Package logger provides logging utilities for the edgetracker project.
package logger

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// Debugf is just a shorthand for Logf(ctx, logger.LevelDebug, ...)
func Debugf(ctx context.Context, format string, args ...any) {
	logger.Debugf(ctx, format, args...)
}

// Warnf is just a shorthand for Logf(ctx, logger.LevelWarn, ...)
func Warnf(ctx context.Context, format string, args ...any) {
	logger.Warnf(ctx, format, args...)
}

// Errorf is just a shorthand for Logf(ctx, logger.LevelError, ...)
func Errorf(ctx context.Context, format string, args ...any) {
	logger.Errorf(ctx, format, args...)
}

// Logf logs at the given level; used where the level is chosen at runtime
// (e.g. a "silent" element demoting its warnings).
func Logf(ctx context.Context, level Level, format string, args ...any) {
	logger.FromCtx(ctx).Logf(level, format, args...)
}
