package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextFallsBackToGlobal(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	orig := zap.L()
	zap.ReplaceGlobals(zap.New(core))
	defer zap.ReplaceGlobals(orig)

	FromContext(context.Background()).Info("hello")
	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
}

func TestWithContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := zap.New(core).With(zap.String("submission_id", "abc"))
	FromContext(WithContext(context.Background(), l)).Info("scoped")
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["submission_id"] != "abc" {
		t.Fatalf("missing submission_id field: %v", entries[0].ContextMap())
	}
}

func TestMiddlewareLogsRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Middleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("expected %s header", RequestIDHeader)
	}
	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	access := entries[1].ContextMap()
	if access["status"] != int64(http.StatusTeapot) {
		t.Fatalf("status = %v", access["status"])
	}
	if entries[0].ContextMap()["request_id"] != w.Header().Get(RequestIDHeader) {
		t.Fatalf("request logger should carry the request id")
	}
}

func TestMiddlewareKeepsIncomingRequestID(t *testing.T) {
	h := Middleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "req-1" {
		t.Fatalf("request id = %q", got)
	}
}

func TestMasking(t *testing.T) {
	if got := MaskLast4("9998887776"); got != "****7776" {
		t.Errorf("MaskLast4 = %q", got)
	}
	if got := MaskLast4("12"); got != "****12" {
		t.Errorf("MaskLast4 short = %q", got)
	}
	if got := MaskEmail("asha@x.com"); got != "a***@x.com" {
		t.Errorf("MaskEmail = %q", got)
	}
	if got := MaskEmail("nope"); got != "****nope" {
		t.Errorf("MaskEmail invalid = %q", got)
	}
}

func TestFromContextOr(t *testing.T) {
	fallback := zap.NewNop()
	if FromContextOr(context.Background(), fallback) != fallback {
		t.Fatalf("expected fallback logger")
	}
	l := zap.NewExample()
	if FromContextOr(WithContext(context.Background(), l), fallback) != l {
		t.Fatalf("expected context logger")
	}
}

func TestNewLevels(t *testing.T) {
	prod, err := New(true)
	if err != nil {
		t.Fatalf("New(true): %v", err)
	}
	if prod.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("production logger must not log debug")
	}
	dev, err := New(false)
	if err != nil {
		t.Fatalf("New(false): %v", err)
	}
	if !dev.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("development logger should log debug")
	}
}
