package apperrors

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports malformed or semantically invalid input with
// per-field detail. Handlers translate it to a 400 response.
type ValidationError struct {
	Fields map[string]string
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError reports an ambiguous identity collision, e.g. a signup
// where only one of (username, email) matches an existing user.
type ConflictError struct {
	Message string
}

func NewConflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NotFoundError reports a reference to a nonexistent resource.
type NotFoundError struct {
	Resource string
	Key      string
}

func NewNotFound(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// AuthorizationError reports a permission predicate failure.
// Authenticated distinguishes a caller lacking rights (403) from a
// missing or invalid credential (401).
type AuthorizationError struct {
	Authenticated bool
	Message       string
}

func NewUnauthenticated(message string) *AuthorizationError {
	return &AuthorizationError{Authenticated: false, Message: message}
}

func NewForbidden(message string) *AuthorizationError {
	return &AuthorizationError{Authenticated: true, Message: message}
}

func (e *AuthorizationError) Error() string {
	return e.Message
}
