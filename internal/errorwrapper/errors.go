package errorwrapper

import (
	"fmt"
)

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return fmt.Errorf("%s: <nil>", message)
	}
	return fmt.Errorf("%s: %w", message, err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// MalformedDescriptorError indicates a source descriptor that cannot be
// understood. It is raised before any network call is attempted.
type MalformedDescriptorError struct {
	Input  string
	Reason string
}

func (e *MalformedDescriptorError) Error() string {
	return fmt.Sprintf("malformed source descriptor '%s': %s", e.Input, e.Reason)
}

// NewMalformedDescriptorError creates a new malformed descriptor error
func NewMalformedDescriptorError(input, reason string) *MalformedDescriptorError {
	return &MalformedDescriptorError{
		Input:  input,
		Reason: reason,
	}
}

// HTTPError represents a non-success HTTP status from a remote endpoint
type HTTPError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *HTTPError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("HTTP %d error for URL '%s': %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("HTTP %d error: %s", e.StatusCode, e.Message)
}

// NewHTTPErrorWithURL creates a new HTTP error with URL context
func NewHTTPErrorWithURL(statusCode int, message, url string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		URL:        url,
	}
}

// ProtocolError indicates a remote response body that does not match the
// structure the protocol promises.
type ProtocolError struct {
	URL     string
	Reason  string
	Wrapped error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error for URL '%s': %s", e.URL, e.Reason)
}

func (e *ProtocolError) Unwrap() error {
	return e.Wrapped
}

// NewProtocolError creates a new protocol error
func NewProtocolError(url, reason string, wrapped error) *ProtocolError {
	return &ProtocolError{
		URL:     url,
		Reason:  reason,
		Wrapped: wrapped,
	}
}

// ArchiveError indicates downloaded bytes that are not a valid archive, or
// a named archive entry that cannot be read.
type ArchiveError struct {
	Reason  string
	Wrapped error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive error: %s", e.Reason)
}

func (e *ArchiveError) Unwrap() error {
	return e.Wrapped
}

// NewArchiveError creates a new archive error
func NewArchiveError(reason string, wrapped error) *ArchiveError {
	return &ArchiveError{
		Reason:  reason,
		Wrapped: wrapped,
	}
}

// PersistenceError indicates the watermark state file could not be written
type PersistenceError struct {
	Path    string
	Wrapped error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error for '%s': %v", e.Path, e.Wrapped)
}

func (e *PersistenceError) Unwrap() error {
	return e.Wrapped
}

// NewPersistenceError creates a new persistence error
func NewPersistenceError(path string, wrapped error) *PersistenceError {
	return &PersistenceError{
		Path:    path,
		Wrapped: wrapped,
	}
}

// ValidationError represents validation errors with field-specific information
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
