// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/coloratura-app/coloratura/internal/validation"
)

// maxBodyBytes caps request bodies. Every accepted body is a small
// JSON document; anything near this size is abuse.
const maxBodyBytes = 1 << 20

// errParam is a client-side parameter error; its message is safe to
// return verbatim.
type errParam struct {
	msg string
}

func (e *errParam) Error() string { return e.msg }

func paramErrorf(format string, args ...interface{}) error {
	return &errParam{msg: fmt.Sprintf(format, args...)}
}

// decodeJSON decodes the request body into dst with a size cap.
func decodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return paramErrorf("invalid JSON body")
	}
	return nil
}

// validateRequest runs struct validation and translates failures into
// the envelope's error shape.
func validateRequest(s interface{}) *validation.APIError {
	if verr := validation.ValidateStruct(s); verr != nil {
		return verr.ToAPIError()
	}
	return nil
}

// parseCSV splits a comma-separated query value into trimmed,
// non-empty elements. An empty raw value yields nil.
func parseCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseLimit reads the limit query parameter. Absent means def, a
// non-integer or sub-one value is a client error, and anything above
// max is clamped to max.
func parseLimit(r *http.Request, def, max int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, paramErrorf("limit must be an integer, got %q", raw)
	}
	if n < 1 {
		return 0, paramErrorf("limit must be at least 1, got %d", n)
	}
	if n > max {
		return max, nil
	}
	return n, nil
}

// parseOffset reads the offset query parameter. Absent means zero.
func parseOffset(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("offset")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, paramErrorf("offset must be a non-negative integer, got %q", raw)
	}
	return n, nil
}

// respondParamError maps a parameter error to a 400 envelope. Other
// errors fall through to a 500 so a programming mistake cannot
// masquerade as client input.
func respondParamError(w http.ResponseWriter, r *http.Request, err error) {
	var pe *errParam
	if errors.As(err, &pe) {
		respondError(w, r, http.StatusBadRequest, CodeValidationFailed, pe.msg)
		return
	}
	respondError(w, r, http.StatusInternalServerError, CodeInternalError, "Internal server error")
}
