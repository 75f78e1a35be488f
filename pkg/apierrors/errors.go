// Package apierrors defines the structured failures surfaced by the kubesim
// store. Only two recoverable error kinds exist: NotFound and Conflict.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a failure carrying an HTTP-like status code discriminator
// and a human-readable message.
type StatusError struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Reason, e.Code, e.Message)
}

// NewNotFound returns the error for a (scope, kind, name) that does not exist.
func NewNotFound(namespace, kind, name string) *StatusError {
	return &StatusError{
		Code:    http.StatusNotFound,
		Reason:  "NotFound",
		Message: fmt.Sprintf("%s %q not found in %s", kind, name, scopeLabel(namespace)),
	}
}

// NewConflict returns the error for a create that hit an existing
// (scope, kind, name).
func NewConflict(namespace, kind, name string) *StatusError {
	return &StatusError{
		Code:    http.StatusConflict,
		Reason:  "Conflict",
		Message: fmt.Sprintf("%s %q already exists in %s", kind, name, scopeLabel(namespace)),
	}
}

// FromCode rebuilds a StatusError from a status code and message, for
// clients translating HTTP responses back into store errors.
func FromCode(code int, message string) *StatusError {
	reason := http.StatusText(code)
	switch code {
	case http.StatusNotFound:
		reason = "NotFound"
	case http.StatusConflict:
		reason = "Conflict"
	}
	return &StatusError{Code: code, Reason: reason, Message: message}
}

// IsNotFound reports whether err is a NotFound StatusError.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}

// IsConflict reports whether err is a Conflict StatusError.
func IsConflict(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusConflict
}

func scopeLabel(namespace string) string {
	if namespace == "" {
		return "cluster scope"
	}
	return fmt.Sprintf("namespace %q", namespace)
}
