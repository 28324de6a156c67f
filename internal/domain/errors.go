package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrValidation          = errors.New("validation failed")
	ErrTransientIO         = errors.New("transient storage or network failure")
	ErrUploadsPending      = errors.New("uploads still in progress")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrMatchingUnavailable = errors.New("matching is not available at the current status")
	ErrNotConvertible      = errors.New("application is not approved yet")
	ErrProjectExists       = errors.New("project already exists for this application")
	ErrNotConfigured       = errors.New("service is not configured")
)

// FieldError is a validation failure on a single input field.
// It matches ErrValidation under errors.Is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

// NewFieldError builds a FieldError for field.
func NewFieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}
