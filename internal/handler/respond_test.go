package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/carebook/carebook/internal/store"
	"github.com/carebook/carebook/internal/validation"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name: "field errors pass through verbatim",
			err: validation.FieldErrors{
				{Field: "weightKg", Message: "must be between 20 and 300"},
				{Field: "dayKey", Message: "must be YYYY-MM-DD"},
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "weightKg: must be between 20 and 300; dayKey: must be YYYY-MM-DD",
		},
		{
			name:       "not found",
			err:        &store.NotFoundError{Kind: "meal", ID: "m1"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unconfigured backend",
			err:        store.ErrNotConfigured,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "unknown admin table, wrapped",
			err:        fmt.Errorf("table %q: %w", "users", store.ErrUnknownTable),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "bad request",
			err:        badRequest("invalid JSON body"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "invalid JSON body",
		},
		{
			name:       "unexpected errors are masked",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := classify(tt.err)
			if status != tt.wantStatus {
				t.Errorf("classify() status = %d, want %d", status, tt.wantStatus)
			}
			if tt.wantMsg != "" && msg != tt.wantMsg {
				t.Errorf("classify() msg = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestRespondOKWrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	respondOK(rec, http.StatusOK, map[string]string{"dayKey": "2024-03-05"})

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"ok":true`) || !strings.Contains(body, `"2024-03-05"`) {
		t.Errorf("body = %q, want ok envelope with data", body)
	}
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	var dst struct{}
	err := decodeJSON(rec, req, &dst)
	if err == nil {
		t.Fatal("decodeJSON() should fail on truncated JSON")
	}
	if status, _ := classify(err); status != http.StatusBadRequest {
		t.Errorf("truncated JSON classified as %d, want 400", status)
	}
}
