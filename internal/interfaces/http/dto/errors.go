package dto

import (
	"errors"
	"net/http"

	"github.com/assetdesk/backend/internal/domain/shared"
)

// Error codes produced by the transport layer itself. Domain errors keep
// their own codes (INVALID_FILE_NAME, ...) and are mapped by kind.
const (
	ErrCodeValidation   = shared.CodeValidation
	ErrCodeNotFound     = shared.CodeNotFound
	ErrCodeCrossTeam    = shared.CodeCrossTeam
	ErrCodeStorage      = shared.CodeStorage
	ErrCodeIntegrity    = shared.CodeIntegrity
	ErrCodeConflict     = shared.CodeConflict
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
	ErrCodeInFlight     = "IDEMPOTENCY_IN_FLIGHT"
)

// ErrorCodeHTTPStatus maps error codes and domain error kinds to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:   http.StatusUnprocessableEntity,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeCrossTeam:    http.StatusForbidden,
	ErrCodeStorage:      http.StatusBadGateway,
	ErrCodeIntegrity:    http.StatusInternalServerError,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeInFlight:     http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// StatusForError returns the HTTP status and the client-facing code and
// message for err. Request-shape validation (binding) is answered with 400
// elsewhere; domain validation failures land here as 422.
func StatusForError(err error) (int, string, string) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return GetHTTPStatus(domainErr.KindOf()), domainErr.Code, domainErr.Message
	}
	return http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred"
}
