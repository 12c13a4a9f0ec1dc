// Package apperror defines the error kinds shared by the repository, service
// and handler layers.
package apperror

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")
	ErrGeocoding       = errors.New("geocoding failed")
	ErrStorage         = errors.New("image storage failed")
	ErrInvalidLogin    = errors.New("invalid credentials")
)

// FieldError is a single violated rule on a named payload field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates every field error of one payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, ",")
}

// Has reports whether field has at least one error.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Add appends a field error.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

type messageError struct {
	kind error
	msg  string
}

func (e *messageError) Error() string { return e.msg }
func (e *messageError) Unwrap() error { return e.kind }

// WithMessage returns an error of the given kind whose text is meant for the
// user.
func WithMessage(kind error, msg string) error {
	return &messageError{kind: kind, msg: msg}
}

// Message returns the user-facing text attached by WithMessage or HTTPError,
// or fallback when there is none.
func Message(err error, fallback string) string {
	var msgErr *messageError
	if errors.As(err, &msgErr) {
		return msgErr.msg
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return fallback
}

// HTTPError carries an explicit status code and a message that is safe to
// show to the user.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// Status maps an error to the HTTP status used by the generic error page.
func Status(err error) int {
	var httpErr *HTTPError
	var validationErr *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &httpErr):
		if httpErr.Status == 0 {
			return http.StatusInternalServerError
		}
		return httpErr.Status
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidLogin):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrGeocoding), errors.Is(err, ErrStorage):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
