package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	ctx := context.Background()
	prod := NewLogger("production")
	if prod.Enabled(ctx, slog.LevelDebug) {
		t.Error("production logger should not enable debug")
	}
	dev := NewLogger("development")
	if !dev.Enabled(ctx, slog.LevelDebug) {
		t.Error("development logger should enable debug")
	}
}

func TestLoggingCapturesStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		if _, err := w.Write([]byte("missing")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, "status=404") {
		t.Errorf("log missing status: %s", out)
	}
	if !strings.Contains(out, "path=/health") {
		t.Errorf("log missing path: %s", out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("4xx should log at warn: %s", out)
	}
}

func TestResponseWriterFirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusOK)

	if rw.statusCode != http.StatusTeapot {
		t.Errorf("statusCode = %d, want first written %d", rw.statusCode, http.StatusTeapot)
	}
}
