package dto

import (
	"net/http"
	"strings"
)

// Interface-level error codes. Domain errors carry their own codes
// (USER_NOT_FOUND, PIPELINE_CLOSED, ...) and map to HTTP statuses via
// GetHTTPStatus.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
)

// errorCodeStatus maps error codes whose status does not follow the
// suffix rules below.
var errorCodeStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	"REQUEST_TOO_LARGE": http.StatusRequestEntityTooLarge,

	// Authentication
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_INACTIVE":    http.StatusUnauthorized,
	"ACCOUNT_PENDING":     http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"INVALID_TOKEN_TYPE":  http.StatusUnauthorized,

	// Authorization
	"FEATURE_DISABLED": http.StatusForbidden,
	"TEAM_MISMATCH":    http.StatusForbidden,

	// Conflicts
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"USERNAME_EXISTS":      http.StatusConflict,
	"EMAIL_EXISTS":         http.StatusConflict,
	"CODE_EXISTS":          http.StatusConflict,
	"INVITE_EXISTS":        http.StatusConflict,

	// State violations
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"INVALID_TRANSITION":   http.StatusUnprocessableEntity,
	"PIPELINE_CLOSED":      http.StatusUnprocessableEntity,
	"INTERVIEW_CLOSED":     http.StatusUnprocessableEntity,
	"INVITE_EXPIRED":       http.StatusUnprocessableEntity,
	"INVITE_USED":          http.StatusUnprocessableEntity,
	"INVITE_REVOKED":       http.StatusUnprocessableEntity,
	"INVITE_NOT_PENDING":   http.StatusUnprocessableEntity,
	"TEAM_FULL":            http.StatusUnprocessableEntity,
	"TEAM_INACTIVE":        http.StatusUnprocessableEntity,
	"TEAM_NOT_EMPTY":       http.StatusUnprocessableEntity,
	"TEAM_NOT_DEACTIVATED": http.StatusUnprocessableEntity,
	"USER_DEACTIVATED":     http.StatusUnprocessableEntity,
	"USER_NOT_DEACTIVATED": http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":       http.StatusUnprocessableEntity,
	"ALREADY_DEACTIVATED":  http.StatusUnprocessableEntity,
	"ROLE_UNCHANGED":       http.StatusUnprocessableEntity,
	"NOT_LOCKED":           http.StatusUnprocessableEntity,
	"HAS_REPORTS":          http.StatusUnprocessableEntity,
	"FILE_NOT_UPLOADED":    http.StatusUnprocessableEntity,
	"FLAG_NOT_CONFIGURED":  http.StatusUnprocessableEntity,

	// Server-side failures
	"STORAGE_ERROR":       http.StatusInternalServerError,
	"TOKEN_ERROR":         http.StatusInternalServerError,
	"INVITE_CODE_ERROR":   http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code. Codes not
// listed explicitly fall back on naming conventions: *_NOT_FOUND is
// 404, INVALID_* and *_REQUIRED are 400, everything else 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeStatus[code]; ok {
		return status
	}
	switch {
	case code == "NOT_FOUND" || strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case code == "FORBIDDEN" || strings.HasSuffix(code, "_FORBIDDEN"):
		return http.StatusForbidden
	case strings.HasPrefix(code, "INVALID_"),
		strings.HasSuffix(code, "_REQUIRED"),
		strings.HasSuffix(code, "_TOO_LONG"),
		code == "FUTURE_DATE",
		code == "NEGATIVE_METRIC",
		code == "UNKNOWN_FEATURE",
		code == "UNSUPPORTED_FILE_TYPE":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
