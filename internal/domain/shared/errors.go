package shared

import (
	"errors"
	"fmt"
)

// Error kinds. Specific codes (INVALID_FILE_NAME, ...) are grouped under
// one of these kinds for transport mapping.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeCrossTeam  = "CROSS_TEAM"
	CodeStorage    = "STORAGE_ERROR"
	CodeIntegrity  = "INTEGRITY_ERROR"
	CodeConflict   = "CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Kind    string `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by kind first, then by code, so that
// errors.Is(err, ErrNotFound) holds for every NOT_FOUND variant.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code == e.Code {
		return true
	}
	return t.Kind == "" && t.Code == e.KindOf()
}

// KindOf returns the error kind, defaulting to the code itself
func (e *DomainError) KindOf() string {
	if e.Kind != "" {
		return e.Kind
	}
	return e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error with a specific code
func NewValidationError(code, message string) *DomainError {
	if code == "" {
		code = CodeValidation
	}
	return &DomainError{Code: code, Message: message, Kind: CodeValidation}
}

// NewNotFoundError creates a not-found error for the named resource
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Kind:    CodeNotFound,
	}
}

// NewCrossTeamError reports an attempt to reference another team's resource
func NewCrossTeamError(resource string) *DomainError {
	return &DomainError{
		Code:    CodeCrossTeam,
		Message: fmt.Sprintf("%s belongs to a different team", resource),
		Kind:    CodeCrossTeam,
	}
}

// NewStorageError wraps a blob store failure
func NewStorageError(op string, err error) *DomainError {
	return &DomainError{
		Code:    CodeStorage,
		Message: fmt.Sprintf("blob store %s failed", op),
		Kind:    CodeStorage,
		Err:     err,
	}
}

// NewIntegrityError reports a violated count or membership invariant
func NewIntegrityError(message string) *DomainError {
	return &DomainError{Code: CodeIntegrity, Message: message, Kind: CodeIntegrity}
}

// Common domain errors
var (
	ErrNotFound     = NewDomainError(CodeNotFound, "Resource not found")
	ErrValidation   = NewDomainError(CodeValidation, "Invalid input provided")
	ErrCrossTeam    = NewDomainError(CodeCrossTeam, "Resource belongs to a different team")
	ErrStorage      = NewDomainError(CodeStorage, "Blob store operation failed")
	ErrIntegrity    = NewDomainError(CodeIntegrity, "Invariant violation detected")
	ErrConflict     = NewDomainError(CodeConflict, "Resource was modified by another request")
	ErrUnauthorized = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
)

// AsDomainError extracts a *DomainError from an error chain
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
