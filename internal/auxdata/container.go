package auxdata

import (
	"fmt"
	"slices"

	"github.com/roach88/auxdata/internal/codec"
	"github.com/roach88/auxdata/internal/ir"
	"github.com/roach88/auxdata/internal/schema"
)

// RawEntry is an entry in encoded form.
type RawEntry struct {
	Name string
	Data []byte
}

type entry struct {
	name string
	raw  []byte

	// cached is the decoded value, or nil if not decoded yet.
	cached ir.AuxValue
}

// Container holds the auxiliary data attached to one IR object.
type Container struct {
	reg     *schema.Registry
	entries []entry
	index   map[string]int
}

// New creates an empty container resolving names against reg.
func New(reg *schema.Registry) *Container {
	return &Container{reg: reg, index: make(map[string]int)}
}

// Registry returns the registry the container resolves names against.
func (c *Container) Registry() *schema.Registry {
	return c.reg
}

// Set stores value under name.
//
// The name must be registered and value must conform to its shape.
// Overwriting keeps the entry's position; a new name is appended.
// On error the container is unchanged.
func (c *Container) Set(name string, value ir.AuxValue) error {
	shape, err := c.reg.Lookup(name)
	if err != nil {
		return &AccessError{Code: ErrCodeUnknownSchema, Name: name, Err: schema.ErrNotRegistered}
	}

	norm, err := ir.Normalize(value, shape)
	if err != nil {
		return &AccessError{Code: ErrCodeShapeMismatch, Name: name, Err: err}
	}
	raw, err := codec.Encode(norm, shape)
	if err != nil {
		return &AccessError{Code: ErrCodeShapeMismatch, Name: name, Err: err}
	}

	c.put(name, raw, norm)
	return nil
}

// SetRaw stores an already-encoded blob under name without consulting
// the registry. data is copied.
func (c *Container) SetRaw(name string, data []byte) {
	c.put(name, slices.Clone(data), nil)
}

func (c *Container) put(name string, raw []byte, cached ir.AuxValue) {
	if raw == nil {
		raw = []byte{}
	}
	if i, ok := c.index[name]; ok {
		c.entries[i].raw = raw
		c.entries[i].cached = cached
		return
	}
	c.index[name] = len(c.entries)
	c.entries = append(c.entries, entry{name: name, raw: raw, cached: cached})
}

// Get returns the value stored under name, checking that want is the
// registered shape.
//
// Errors:
//   - UNKNOWN_SCHEMA if name is not registered
//   - TYPE_MISMATCH if want differs from the registered shape
//   - ErrEntryNotFound if there is no entry
//   - a wrapped *codec.DecodeError if the stored bytes are malformed
//
// The returned value is shared with the container's cache and must not
// be modified.
func (c *Container) Get(name string, want ir.Shape) (ir.AuxValue, error) {
	shape, err := c.reg.Lookup(name)
	if err != nil {
		return nil, &AccessError{Code: ErrCodeUnknownSchema, Name: name, Err: schema.ErrNotRegistered}
	}
	if !shape.Equal(want) {
		return nil, &AccessError{
			Code:   ErrCodeTypeMismatch,
			Name:   name,
			Detail: fmt.Sprintf("registered as %s, requested %s", shape, want),
		}
	}
	return c.decode(name, shape)
}

// Lookup returns the value stored under name using its registered shape.
func (c *Container) Lookup(name string) (ir.AuxValue, error) {
	shape, err := c.reg.Lookup(name)
	if err != nil {
		return nil, &AccessError{Code: ErrCodeUnknownSchema, Name: name, Err: schema.ErrNotRegistered}
	}
	return c.decode(name, shape)
}

func (c *Container) decode(name string, shape ir.Shape) (ir.AuxValue, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrEntryNotFound)
	}
	e := &c.entries[i]
	if e.cached != nil {
		return e.cached, nil
	}

	v, err := codec.Decode(e.raw, shape)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", name, err)
	}
	e.cached = v
	return v, nil
}

// Has reports whether the container holds an entry under name,
// registered or not.
func (c *Container) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Raw returns the encoded bytes stored under name.
// The slice is shared with the container and must not be modified.
func (c *Container) Raw(name string) ([]byte, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.entries[i].raw, true
}

// Erase removes the entry under name. Reports whether one existed.
func (c *Container) Erase(name string) bool {
	i, ok := c.index[name]
	if !ok {
		return false
	}
	c.entries = slices.Delete(c.entries, i, i+1)
	delete(c.index, name)
	for j := i; j < len(c.entries); j++ {
		c.index[c.entries[j].name] = j
	}
	return true
}

// Len returns the number of entries.
func (c *Container) Len() int {
	return len(c.entries)
}

// Names returns entry names in insertion order.
func (c *Container) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.name
	}
	return out
}

// RawEntries returns every entry in insertion order without decoding.
// Data slices are shared with the container and must not be modified.
func (c *Container) RawEntries() []RawEntry {
	out := make([]RawEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = RawEntry{Name: e.name, Data: e.raw}
	}
	return out
}

// Clone returns a deep copy of the container sharing the same registry.
// Cached values are dropped and decoded again on demand.
func (c *Container) Clone() *Container {
	out := New(c.reg)
	for _, e := range c.entries {
		out.SetRaw(e.name, e.raw)
	}
	return out
}
