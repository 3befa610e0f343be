package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the HTTP boundary can pick a status code.
type ErrorKind int

const (
	KindUnauthenticated ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindPersistence
	KindMethodNotAllowed
)

// Error is the failure value propagated from services up to the HTTP
// boundary. Validation failures carry per-field messages.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func NewUnauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func NewValidation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NewFieldValidation(field, message string) *Error {
	return &Error{Kind: KindValidation, Message: "validation error", Fields: map[string]string{field: message}}
}

func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewPersistence wraps a storage failure. The underlying message is kept
// verbatim for caller diagnostics.
func NewPersistence(message string, cause error) *Error {
	return &Error{Kind: KindPersistence, Message: message, cause: cause}
}

func NewMethodNotAllowed() *Error {
	return &Error{Kind: KindMethodNotAllowed, Message: "method not allowed"}
}

// KindOf extracts the kind from err, defaulting to KindPersistence for
// anything that is not a *domain.Error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindPersistence
}

// FieldsOf returns the per-field validation messages, or nil.
func FieldsOf(err error) map[string]string {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}
