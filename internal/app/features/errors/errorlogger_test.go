package errors_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/pagepulse/internal/app/features/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorLogger_LogServerError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	rec := httptest.NewRecorder()
	el.LogServerError(rec, req, "query failed", errors.New("boom"), "A database error occurred.", "/")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rec.Body.String(), "A database error occurred.") {
		t.Errorf("body: got %q", rec.Body.String())
	}

	entries := logs.FilterMessage("query failed").All()
	if len(entries) != 1 {
		t.Fatalf("log entries: got %d, want 1", len(entries))
	}
	if entries[0].Level != zap.ErrorLevel {
		t.Errorf("level: got %v, want error", entries[0].Level)
	}
	if got := entries[0].ContextMap()["path"]; got != "/dashboard" {
		t.Errorf("path field: got %v, want /dashboard", got)
	}
}

func TestErrorLogger_LogBadRequest(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	rec := httptest.NewRecorder()
	el.LogBadRequest(rec, httptest.NewRequest("POST", "/projects", nil), "parse form failed", errors.New("bad"), "", "")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if logs.FilterMessage("parse form failed").Len() != 1 {
		t.Error("expected one warn entry")
	}
}

func TestErrorLogger_NotFound(t *testing.T) {
	el := uierrors.NewErrorLogger(zap.NewNop())

	rec := httptest.NewRecorder()
	el.NotFound(rec, httptest.NewRequest("GET", "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}
