package strokemesh

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("nopHandler.Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("nopHandler.Handle() = %v, want nil", err)
	}
	if _, ok := h.WithAttrs(nil).(nopHandler); !ok {
		t.Error("nopHandler.WithAttrs() is not a nopHandler")
	}
	if _, ok := h.WithGroup("g").(nopHandler); !ok {
		t.Error("nopHandler.WithGroup() is not a nopHandler")
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)
	if Logger() != custom {
		t.Fatal("Logger() did not return the logger set with SetLogger")
	}

	p := NewPainter(WithTargetResolution(64, 64))
	if err := p.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := p.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if !strings.Contains(buf.String(), "begin frame") {
		t.Errorf("log output %q does not mention the frame", buf.String())
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}

// loggingBackend records the logger it is handed.
type loggingBackend struct {
	recorder
	logger *slog.Logger
}

func (b *loggingBackend) SetLogger(l *slog.Logger) { b.logger = l }

func TestSetLoggerReachesBackends(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	b := &loggingBackend{}
	NewPainter(WithBackend(b))
	if b.logger != Logger() {
		t.Error("backend did not receive the logger at NewPainter")
	}

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(custom)
	if b.logger != custom {
		t.Error("backend did not receive the logger at SetLogger")
	}
}
