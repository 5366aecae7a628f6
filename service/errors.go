package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a progress request could not be answered.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindMissingInput
	KindInvalidMonths
	KindInvalidDate
	KindUnresolvedPlaceholder
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingInput:
		return "missing_input"
	case KindInvalidMonths:
		return "invalid_months"
	case KindInvalidDate:
		return "invalid_date"
	case KindUnresolvedPlaceholder:
		return "unresolved_placeholder"
	default:
		return "internal"
	}
}

// ValidationError reports an input that cannot be used for the calculation.
type ValidationError struct {
	Kind  ErrorKind
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Field)
	}
	return fmt.Sprintf("%s: %s=%q", e.Kind, e.Field, e.Value)
}

func newValidationError(kind ErrorKind, field, value string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Value: value}
}

// KindOf returns the kind carried by err. Errors that are not validation
// errors are internal.
func KindOf(err error) ErrorKind {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return KindInternal
}

// FieldOf returns the offending field of a validation error, or "".
func FieldOf(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Field
	}
	return ""
}
