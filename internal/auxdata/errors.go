package auxdata

import (
	"errors"
	"fmt"
)

// ErrEntryNotFound is returned by Get when the schema is registered but
// the container holds no entry under that name.
var ErrEntryNotFound = errors.New("entry not found")

// AccessErrorCode categorizes access errors.
type AccessErrorCode string

const (
	// ErrCodeUnknownSchema indicates the name has no registered schema.
	ErrCodeUnknownSchema AccessErrorCode = "UNKNOWN_SCHEMA"

	// ErrCodeTypeMismatch indicates the requested shape differs from the
	// registered one.
	ErrCodeTypeMismatch AccessErrorCode = "TYPE_MISMATCH"

	// ErrCodeShapeMismatch indicates a value does not conform to the
	// registered shape.
	ErrCodeShapeMismatch AccessErrorCode = "SHAPE_MISMATCH"
)

// AccessError reports a rejected Get or Set.
type AccessError struct {
	// Code identifies the error category.
	Code AccessErrorCode

	// Name is the schema name that was accessed.
	Name string

	// Detail is a human-readable description, if any.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *AccessError) Error() string {
	msg := fmt.Sprintf("%s: %q", e.Code, e.Name)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code AccessErrorCode) bool {
	var ae *AccessError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// IsUnknownSchema returns true if err is an UNKNOWN_SCHEMA access error.
func IsUnknownSchema(err error) bool {
	return hasCode(err, ErrCodeUnknownSchema)
}

// IsTypeMismatch returns true if err is a TYPE_MISMATCH access error.
func IsTypeMismatch(err error) bool {
	return hasCode(err, ErrCodeTypeMismatch)
}

// IsShapeMismatch returns true if err is a SHAPE_MISMATCH access error.
func IsShapeMismatch(err error) bool {
	return hasCode(err, ErrCodeShapeMismatch)
}
