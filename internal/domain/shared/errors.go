package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	*DomainError
	Field string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		DomainError: &DomainError{Message: fmt.Sprintf("invalid %s: %s", field, message)},
		Field:       field,
	}
}

// Precondition error, for operations refused because the route is incomplete

type PreconditionError struct {
	*DomainError
	Missing []string
}

func NewPreconditionError(missing ...string) *PreconditionError {
	return &PreconditionError{
		DomainError: &DomainError{Message: fmt.Sprintf("precondition not met: missing %v", missing)},
		Missing:     missing,
	}
}
