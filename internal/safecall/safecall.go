// Package safecall provides panic recovery around caller-supplied
// callbacks. Ensures user-provided handlers don't crash the builder.
package safecall

import (
	"log/slog"
	"runtime/debug"
)

// Do invokes fn, recovering and logging any panic.
// Use this to wrap user-provided callbacks (change, apply, preset
// hooks) so a faulty handler degrades to a log line instead of
// unwinding through the builder.
func Do(logger *slog.Logger, operation string, fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic recovered in callback",
				"operation", operation,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	fn()
}

// DoErr invokes fn and returns its error, converting a panic to a
// logged nil so the caller's fallback path runs.
func DoErr(logger *slog.Logger, operation string, fn func() error) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic recovered in callback",
				"operation", operation,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = nil
		}
	}()

	return fn()
}
