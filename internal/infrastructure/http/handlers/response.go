package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeInvalidFilter  = "invalid_filter_field"
	ErrCodeValidation     = "validation_failed"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeForbidden      = "forbidden"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeInternal       = "internal_error"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr sends JSON { "error": message, "code": errCode }.
func writeErr(w http.ResponseWriter, code int, errCode, message string) {
	if errCode == "" {
		errCode = defaultErrCode(code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": errCode})
}

func defaultErrCode(httpCode int) string {
	switch httpCode {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	default:
		return ErrCodeInternal
	}
}

// writeDomainErr maps the domain error taxonomy onto HTTP statuses:
// malformed filter 400, validation 422, authorization 403, missing 404,
// uniqueness 409. Everything else is a 500 with no detail leaked.
func writeDomainErr(w http.ResponseWriter, err error) {
	var (
		filterErr     *domerrors.InvalidFilterFieldError
		validationErr *domerrors.ValidationError
	)
	switch {
	case errors.As(err, &filterErr):
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidFilter, filterErr.Error())
	case errors.As(err, &validationErr):
		writeValidation(w, validationErr)
	case errors.Is(err, domerrors.ErrAuthorizationDenied):
		writeErr(w, http.StatusForbidden, ErrCodeForbidden, "forbidden")
	case errors.Is(err, domerrors.ErrNotFound):
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, domerrors.ErrUniquenessViolation):
		writeErr(w, http.StatusConflict, ErrCodeConflict, "record conflicts with an existing record")
	case errors.Is(err, domerrors.ErrResourceGroupIsDefault),
		errors.Is(err, domerrors.ErrResourceGroupNotEmpty):
		writeErr(w, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}

func writeValidation(w http.ResponseWriter, verr *domerrors.ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "validation failed",
		"code":   ErrCodeValidation,
		"fields": verr.Fields,
	})
}
