// Package handler exposes the JSON API. Every response uses the same
// envelope: {"ok":true,"data":...} on success, {"ok":false,"error":"..."}
// on failure, so clients branch on one boolean instead of status codes.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/carebook/carebook/internal/assist"
	"github.com/carebook/carebook/internal/storage"
	"github.com/carebook/carebook/internal/store"
	"github.com/carebook/carebook/internal/validation"
)

type okEnvelope struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

type failEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func respondOK(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(okEnvelope{OK: true, Data: data}); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func respondErr(w http.ResponseWriter, err error) {
	status, msg := classify(err)
	if status >= 500 {
		slog.Error("request failed", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(failEnvelope{OK: false, Error: msg}); encErr != nil {
		slog.Error("response encode failed", "error", encErr)
	}
}

// classify maps service errors to status codes and user-facing messages.
// Validation and not-found errors pass through verbatim; anything unexpected
// is masked to avoid leaking backend details.
func classify(err error) (int, string) {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		return http.StatusBadRequest, fe.Error()
	}
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound, nf.Error()
	}
	if errors.Is(err, store.ErrUnknownTable) {
		return http.StatusNotFound, err.Error()
	}
	if errors.Is(err, store.ErrNotConfigured) {
		return http.StatusServiceUnavailable, err.Error()
	}
	if errors.Is(err, assist.ErrNotConfigured) {
		return http.StatusServiceUnavailable, err.Error()
	}
	if errors.Is(err, storage.ErrNotConfigured) {
		return http.StatusServiceUnavailable, err.Error()
	}
	var badReq *badRequestError
	if errors.As(err, &badReq) {
		return http.StatusBadRequest, badReq.Error()
	}
	return http.StatusInternalServerError, "something went wrong"
}

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func badRequest(msg string) error { return &badRequestError{msg: msg} }

const maxBodyBytes = 1 << 20

// decodeJSON reads one JSON body into dst, rejecting unknown garbage early.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid JSON body")
	}
	return nil
}
