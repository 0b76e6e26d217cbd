package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrUnavailable    = errors.New("service unavailable")
	ErrInternalServer = errors.New("internal server error")
)

// DomainError attaches a client-facing message to one of the sentinel kinds.
// errors.Is(err, ErrNotFound) still holds for a DomainError of that kind.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

// NewDomainError creates a DomainError of the given kind
func NewDomainError(kind error, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

// ErrorMessage returns the client-facing message carried by err, or fallback
// when err carries none.
func ErrorMessage(err error, fallback string) string {
	var de *DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}
