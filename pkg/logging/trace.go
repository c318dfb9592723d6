package logging

import (
	"log/slog"
	"strings"
	"sync/atomic"
)

// LevelTrace is the config level name that turns on per-frame lines.
const LevelTrace = "TRACE"

var traceOn atomic.Bool

// SetTrace switches per-frame logging on or off.
func SetTrace(on bool) {
	traceOn.Store(on)
}

// TraceEnabled reports whether per-frame logging is on.
func TraceEnabled() bool {
	return traceOn.Load()
}

// Trace logs at DEBUG only while tracing is on.
func Trace(msg string, args ...any) {
	if traceOn.Load() {
		slog.Debug(msg, args...)
	}
}

func isTrace(level string) bool {
	return strings.EqualFold(strings.TrimSpace(level), LevelTrace)
}
