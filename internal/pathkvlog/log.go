// Package pathkvlog is pathkv's ambient logging seam: a discard-by-default
// *slog.Logger any host can redirect to enable diagnostic output.
package pathkvlog

import (
	"io"
	"log/slog"
)

// L is the package-wide logger. The engine logs structural events (set
// commit failures, event-queue drops) through it at Warn; it never emits
// Info-level spam per operation.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetOutput redirects L to w at the given level. A host calls it to opt
// into diagnostic output; embedders that never call it get silent
// operation. Neither pathkvctl nor the C-ABI surface calls it.
func SetOutput(w io.Writer, level slog.Level) {
	L = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Debug, Warn, and Error forward to L with the given key/value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
