package handler

// RESPONSE HELPERS:
// writeJSON and writeError standardise how handlers send JSON and map domain
// errors to HTTP. Every JSON error response has the same shape:
//
//	{"error": "validation_error", "message": "memory ID must be a valid UUID"}
//
// Two deliberate quirks of this API's contract live here:
//
//   - Ownership/visibility violations are a 401 with an EMPTY body. No JSON,
//     no message: the response must not leak whether the resource exists.
//   - A memory lookup on a nonexistent ID is a fatal server error (500), not
//     a clean 404. Compatible clients treat it that way, so writeError keeps
//     ErrNotFound in the 500 bucket.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/memories-api/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable error type
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body; once Encode writes,
// further header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP response.
//
// errors.Is walks the whole wrapped chain, so services are free to add
// fmt.Errorf("%w") context on the way up.
func writeError(w http.ResponseWriter, err error) {
	// Unauthorized: bare status, empty body.
	if errors.Is(err, apperror.ErrUnauthorized) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) && errors.Is(err, apperror.ErrValidation) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: appErr.Message,
		})
		return
	}

	// Everything else, including not-found lookups and upstream OAuth
	// failures, surfaces as a generic 500. Raw error details stay out of the
	// response body.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
