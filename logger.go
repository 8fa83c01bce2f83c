package strokemesh

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards all records. Enabled returns
// false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// backends that have been handed to a Painter and accept a logger
var (
	loggedMu       sync.Mutex
	loggedBackends []loggerSetter
)

// SetLogger configures the logger for strokemesh and its backends. By
// default nothing is logged. Pass nil to restore silence.
//
// Log levels used:
//   - [slog.LevelDebug]: chunk selection and subset tree statistics
//   - [slog.LevelInfo]: backend lifecycle
//   - [slog.LevelWarn]: attribute budget overflows, recoverable backend failures
//
// Degenerate draws, such as fully clipped paths, are never logged.
//
// Example:
//
//	strokemesh.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	loggedMu.Lock()
	defer loggedMu.Unlock()
	for _, b := range loggedBackends {
		b.SetLogger(l)
	}
}

// Logger returns the active logger. Sub-packages call it to share the
// configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger hands the current logger to b and remembers b for later
// SetLogger calls.
func propagateLogger(b Backend) {
	ls, ok := b.(loggerSetter)
	if !ok {
		return
	}
	ls.SetLogger(Logger())

	loggedMu.Lock()
	defer loggedMu.Unlock()
	for _, o := range loggedBackends {
		if o == ls {
			return
		}
	}
	loggedBackends = append(loggedBackends, ls)
}
