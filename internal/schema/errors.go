package schema

import (
	"errors"
	"fmt"

	"github.com/roach88/auxdata/internal/ir"
)

// ErrNotRegistered is returned by Lookup for names with no schema.
var ErrNotRegistered = errors.New("schema not registered")

// ErrInvalidSchema is returned when a declaration has an unusable name or shape.
var ErrInvalidSchema = errors.New("invalid schema")

// ConflictError reports a name registered twice with different shapes.
// At process initialization this indicates an inconsistent build.
type ConflictError struct {
	Name     string
	Existing ir.Shape
	Proposed ir.Shape
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schema conflict: %q already registered as %s, cannot redefine as %s",
		e.Name, e.Existing, e.Proposed)
}

// IsConflict returns true if err is or wraps a *ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
