package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/moonandjupiter/consign-tracker/internal/app"
	"github.com/moonandjupiter/consign-tracker/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeAppError maps dashboard and pipeline errors onto HTTP statuses.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrUnknownColumn):
		writeError(w, r, err.Error(), "UNKNOWN_COLUMN", http.StatusBadRequest)
	case errors.Is(err, app.ErrRecordNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, app.ErrTermsNotAccepted):
		writeError(w, r, err.Error(), "TERMS_NOT_ACCEPTED", http.StatusUnprocessableEntity)
	case errors.Is(err, app.ErrNotAwaitingInvoice):
		writeError(w, r, err.Error(), "NOT_AWAITING_INVOICE", http.StatusConflict)
	case errors.Is(err, app.ErrNotLoaded):
		writeError(w, r, err.Error(), "NOT_LOADED", http.StatusConflict)
	case errors.Is(err, app.ErrNoSuggestions):
		writeError(w, r, err.Error(), "NO_SUGGESTIONS", http.StatusConflict)
	case errors.Is(err, core.ErrDataFetch):
		writeError(w, r, err.Error(), "DATA_FETCH_FAILED", http.StatusBadGateway)
	default:
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
