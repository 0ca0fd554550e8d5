package tri

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/tri/overlay"
	"github.com/gogpu/tri/present"
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
	loggerPtr.Store(newNopLogger())
}

func slogger() *slog.Logger { return loggerPtr.Load() }

// SetLogger configures the logger for tri and its present and overlay
// sub-packages. By default nothing is logged.
//
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by tri:
//   - [slog.LevelDebug]: resize, pipeline and buffer details
//   - [slog.LevelInfo]: lifecycle events (chain configured, overlay toggled)
//   - [slog.LevelWarn]: frames drawn without the overlay, present failures
//
// Example:
//
//	tri.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	present.SetLogger(l)
	overlay.SetLogger(l)
}

// Logger returns the current logger used by tri.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
