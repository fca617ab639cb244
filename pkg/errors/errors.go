package errors

import "fmt"

// InvalidUserIDError reports a malformed or non-positive user id path
// parameter. It carries the raw value so the message can echo it back.
type InvalidUserIDError struct {
	Raw string
}

// NewInvalidUserIDError creates a new invalid user id error
func NewInvalidUserIDError(raw string) *InvalidUserIDError {
	return &InvalidUserIDError{Raw: raw}
}

// Error implements the error interface
func (e *InvalidUserIDError) Error() string {
	return fmt.Sprintf("Invalid user ID '%s'. Please provide a valid positive number.", e.Raw)
}

// InvalidSortError reports a sort_field or sort_order query parameter
// outside the accepted set. Param is either "field" or "order".
type InvalidSortError struct {
	Param string
	Value string
}

// NewInvalidSortFieldError creates an error for an unknown sort field
func NewInvalidSortFieldError(value string) *InvalidSortError {
	return &InvalidSortError{Param: "field", Value: value}
}

// NewInvalidSortOrderError creates an error for an unknown sort order
func NewInvalidSortOrderError(value string) *InvalidSortError {
	return &InvalidSortError{Param: "order", Value: value}
}

// Error implements the error interface
func (e *InvalidSortError) Error() string {
	return fmt.Sprintf("Invalid sort %s: %s", e.Param, e.Value)
}

// StatusError reports a non-2xx response from the Phoenix API.
type StatusError struct {
	Code int
}

// NewStatusError creates a new upstream status error
func NewStatusError(code int) *StatusError {
	return &StatusError{Code: code}
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status code: %d", e.Code)
}

// NotFoundError reports a 200 response whose data envelope is missing or
// empty on a single-resource fetch.
type NotFoundError struct {
	ID int64
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(id int64) *NotFoundError {
	return &NotFoundError{ID: id}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("User with ID %d not found", e.ID)
}

// FormatError reports a well-formed transport response with the wrong JSON
// shape (missing or non-array data envelope). Distinct from StatusError: it
// signals a contract break, not an outage.
type FormatError struct{}

// NewFormatError creates a new response format error
func NewFormatError() *FormatError {
	return &FormatError{}
}

// Error implements the error interface
func (e *FormatError) Error() string {
	return "Invalid response format from API"
}

// TransportError wraps a transport or decoding failure from the HTTP layer.
// The underlying message is preserved verbatim.
type TransportError struct {
	Err error
}

// NewTransportError creates a new transport error
func NewTransportError(err error) *TransportError {
	return &TransportError{Err: err}
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error
func (e *TransportError) Unwrap() error {
	return e.Err
}
