// Package logger builds configured log/slog loggers and provides attribute
// helpers that keep log field names consistent across the codebase.
//
//	log := logger.New(logger.WithProduction("authkit"))
//	log.Error("store lookup failed", logger.Error(err), logger.Component("reconciler"))
//
// Reset tokens and passwords are never valid log values; callers log the
// masked email (sanitizer.MaskEmail) or the identity id instead.
package logger
