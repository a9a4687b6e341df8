// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/coloratura-app/coloratura/internal/logging"
)

// Error codes returned in the envelope's error.code field. Clients
// branch on these, not on the human-readable message.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeValidationFailed = "VALIDATION_ERROR"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// APIResponse is the envelope for every JSON response. Exactly one of
// Data and Error is set.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError carries a machine-readable code and a human-readable
// message. Details holds field-level validation errors when present.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Meta is the response metadata block.
type Meta struct {
	RequestID  string      `json:"requestId,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	DurationMs int64       `json:"durationMs,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the window a list response covers. HasMore is
// derived from an over-fetch, not a count scan.
type Pagination struct {
	Count   int  `json:"count"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

// newMeta builds the metadata block for a completed request.
func newMeta(r *http.Request, start time.Time) *Meta {
	return &Meta{
		RequestID:  logging.RequestIDFromContext(r.Context()),
		Timestamp:  time.Now().UTC(),
		DurationMs: time.Since(start).Milliseconds(),
	}
}

// respondJSON writes any payload as JSON with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error().Err(err).Msg("encode response")
	}
}

// respondSuccess writes a success envelope. A nil meta gets the
// request id and timestamp filled in.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}, meta *Meta) {
	if meta == nil {
		meta = &Meta{
			RequestID: logging.RequestIDFromContext(r.Context()),
			Timestamp: time.Now().UTC(),
		}
	}
	respondJSON(w, status, &APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondErrorDetails(w, r, status, code, message, nil)
}

// respondErrorDetails writes an error envelope with field details.
func respondErrorDetails(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, status, &APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: &Meta{
			RequestID: logging.RequestIDFromContext(r.Context()),
			Timestamp: time.Now().UTC(),
		},
	})
}
