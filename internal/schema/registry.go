package schema

import (
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/auxdata/internal/ir"
)

// Schema pairs a stable name with the shape of its values.
type Schema struct {
	Name  string
	Shape ir.Shape
}

// String returns "name: type".
func (s Schema) String() string {
	return s.Name + ": " + s.Shape.String()
}

// Registry maps schema names to shapes. The zero value is not usable;
// call New.
type Registry struct {
	shapes map[string]ir.Shape
	order  []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{shapes: make(map[string]ir.Shape)}
}

// Register associates name with shape.
//
// Re-registering a name with an identical shape is a no-op. A different
// shape returns *ConflictError and leaves the registry unchanged.
func (r *Registry) Register(name string, shape ir.Shape) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSchema, name, err)
	}

	if existing, ok := r.shapes[name]; ok {
		if existing.Equal(shape) {
			return nil
		}
		return &ConflictError{Name: name, Existing: existing, Proposed: shape}
	}

	r.shapes[name] = shape
	r.order = append(r.order, name)
	Logger().Debug("registered schema", zap.String("name", name), zap.Stringer("shape", shape))
	return nil
}

// MustRegister is like Register but panics on error.
// Use only for built-in declarations, where a conflict is a build defect.
func (r *Registry) MustRegister(name string, shape ir.Shape) {
	if err := r.Register(name, shape); err != nil {
		panic(err)
	}
}

// RegisterAll registers schemas in order, stopping at the first error.
func (r *Registry) RegisterAll(schemas []Schema) error {
	for _, s := range schemas {
		if err := r.Register(s.Name, s.Shape); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the shape registered under name.
// Returns an error wrapping ErrNotRegistered if there is none.
func (r *Registry) Lookup(name string) (ir.Shape, error) {
	s, ok := r.shapes[name]
	if !ok {
		return ir.Shape{}, fmt.Errorf("%q: %w", name, ErrNotRegistered)
	}
	return s, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.shapes[name]
	return ok
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	return len(r.order)
}

// Schemas returns all schemas in registration order.
func (r *Registry) Schemas() []Schema {
	out := make([]Schema, len(r.order))
	for i, name := range r.order {
		out[i] = Schema{Name: name, Shape: r.shapes[name]}
	}
	return out
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSchema)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: name %q is not valid UTF-8", ErrInvalidSchema, name)
	}
	if !norm.NFC.IsNormalString(name) {
		return fmt.Errorf("%w: name %q is not NFC-normalized", ErrInvalidSchema, name)
	}
	return nil
}
