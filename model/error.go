package model

import (
	"strings"
)

// Error is a problem found in a service definition.
type Error struct {
	Message  string
	Position Position // zero if not applicable
	Cause    error
}

// NewError returns an error with the given message and position.
func NewError(message string, position Position) *Error {
	return &Error{Message: message, Position: position}
}

// Error renders the error as "{position}: {message}", or just the
// message when there is no position.
func (e *Error) Error() string {
	if e.Position.IsZero() {
		return e.Message
	}
	return e.Position.String() + ": " + e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ServiceDefinitionError bundles one or more definition errors.
// It is the error returned by the throwing entry points.
type ServiceDefinitionError struct {
	Errors []*Error
}

// NewServiceDefinitionError returns an aggregate of the given errors.
// It panics if errs is empty.
func NewServiceDefinitionError(errs []*Error) *ServiceDefinitionError {
	if len(errs) == 0 {
		panic("model: ServiceDefinitionError requires at least one error")
	}
	return &ServiceDefinitionError{Errors: errs}
}

// Error renders every contained error, one per line.
func (e *ServiceDefinitionError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	lines := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes the contained errors to errors.Is and errors.As.
func (e *ServiceDefinitionError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// First returns the first contained error.
func (e *ServiceDefinitionError) First() *Error {
	return e.Errors[0]
}
