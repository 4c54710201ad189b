package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campus-registry/registry-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// ServiceError maps service-layer sentinel errors onto HTTP responses.
// Unrecognized errors become an opaque 500; internals never leak to the
// client.
func ServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, apperrors.ErrInvalidPassword):
		_ = ErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
	case errors.Is(err, apperrors.ErrNotApproved):
		_ = ErrorResponse(w, http.StatusForbidden, "not_approved", "account is awaiting admin approval")
	case errors.Is(err, apperrors.ErrInvalidRole):
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_role", "invalid role")
	case errors.Is(err, apperrors.ErrUsernameTaken):
		_ = ErrorResponse(w, http.StatusConflict, "username_taken", "username is already registered")
	case errors.Is(err, apperrors.ErrAlreadyEnrolled):
		_ = ErrorResponse(w, http.StatusConflict, "already_enrolled", "already enrolled in this section")
	case errors.Is(err, apperrors.ErrSectionFull):
		_ = ErrorResponse(w, http.StatusConflict, "section_full", "section has no remaining capacity")
	case errors.Is(err, apperrors.ErrScheduleConflict):
		_ = ErrorResponse(w, http.StatusConflict, "schedule_conflict", "section conflicts with an existing schedule")
	case errors.Is(err, apperrors.ErrConflict):
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
