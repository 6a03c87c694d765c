package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for handlers to map to HTTP status.
var (
	// ErrNotFound covers any entity missing from the caller's visible scope.
	ErrNotFound = errors.New("record not found")
	// ErrAuthorizationDenied is fatal to the current operation; no mutation
	// happens after it.
	ErrAuthorizationDenied = errors.New("not authorized to perform this action")
	// ErrUniquenessViolation is the storage layer rejecting an
	// identifier/canonical-id/source-uri collision. Callers regenerate the
	// candidate and retry, bounded.
	ErrUniquenessViolation = errors.New("record violates a uniqueness constraint")
	// ErrResourceGroupIsDefault rejects deletion of an organization's
	// default resource group.
	ErrResourceGroupIsDefault = errors.New("the default resource group cannot be deleted")
	// ErrResourceGroupNotEmpty rejects deletion of a group that still has
	// resources in it.
	ErrResourceGroupNotEmpty = errors.New("the resource group has resources in it")
)

// InvalidFilterFieldError reports a filter key that maps to no registered
// predicate or scope. The same key is always rejected, never silently
// dropped.
type InvalidFilterFieldError struct {
	Field string
}

func (e *InvalidFilterFieldError) Error() string {
	return fmt.Sprintf("unknown filter field %q", e.Field)
}

// ValidationError carries field-level detail for a record that cannot be
// persisted. The entity is never partially saved.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a problem with a field.
func (e *ValidationError) Add(field, problem string) {
	e.Fields[field] = problem
}

// Any reports whether at least one field failed validation.
func (e *ValidationError) Any() bool { return len(e.Fields) > 0 }

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
