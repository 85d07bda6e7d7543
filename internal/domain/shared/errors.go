package shared

import "fmt"

// Error codes shared across the billing domain
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidInput      = "INVALID_INPUT"
	CodePersistence       = "PERSISTENCE_ERROR"
	CodeRenderFailed      = "RENDER_FAILED"
	CodeStorageFailed     = "STORAGE_FAILED"
	CodeDuplicateRequest  = "DUPLICATE_REQUEST"
	CodeServiceDisabled   = "SERVICE_UNAVAILABLE"
	CodeConcurrencyFailed = "CONCURRENCY_CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, ErrNotFound) holds for any not-found error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error carrying a cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewNotFoundError reports a missing entity by kind and id
func NewNotFoundError(entity string, id uint64) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %d not found", entity, id))
}

// NewInvalidInputError reports a rejected request value
func NewInvalidInputError(message string) *DomainError {
	return NewDomainError(CodeInvalidInput, message)
}

// NewPersistenceError wraps a storage failure for the named operation
func NewPersistenceError(op string, cause error) *DomainError {
	return WrapDomainError(CodePersistence, "failed to "+op, cause)
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrPersistence         = NewDomainError(CodePersistence, "Persistence failure")
	ErrRenderFailed        = NewDomainError(CodeRenderFailed, "Document rendering failed")
	ErrStorageFailed       = NewDomainError(CodeStorageFailed, "Document storage failed")
	ErrDuplicateRequest    = NewDomainError(CodeDuplicateRequest, "Request has already been processed")
	ErrServiceDisabled     = NewDomainError(CodeServiceDisabled, "Feature is not enabled")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyFailed, "Resource was modified by another process")
)
