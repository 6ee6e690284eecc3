package emojifont

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for emojifont and its sub-packages.
// By default, emojifont produces no log output. Call SetLogger to enable
// logging. Pass nil to disable logging (restore default silent behavior).
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
//
// Log levels used by emojifont:
//   - [slog.LevelDebug]: per-glyph decisions (source chosen, glyph skipped)
//   - [slog.LevelInfo]: pipeline results (images extracted, fonts written)
//   - [slog.LevelWarn]: non-fatal issues (WOFF2 export failure)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	emojifont.SetLogger(slog.Default())
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by emojifont.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
