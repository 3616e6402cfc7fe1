package ir

import (
	"github.com/google/uuid"
)

// AuxValue is a sealed interface representing auxiliary data values.
// Only the Aux* types in this package implement it.
type AuxValue interface {
	auxValue() // Sealed - only these types implement it
}

// AuxInt is a signed scalar of any width.
type AuxInt int64

func (AuxInt) auxValue() {}

// AuxUint is an unsigned scalar of any width.
type AuxUint uint64

func (AuxUint) auxValue() {}

// AuxString is UTF-8 text.
type AuxString string

func (AuxString) auxValue() {}

// AuxUUID identifies an IR object.
type AuxUUID uuid.UUID

func (AuxUUID) auxValue() {}

// String returns the RFC 4122 textual form.
func (u AuxUUID) String() string {
	return uuid.UUID(u).String()
}

// AuxBytes is an opaque byte blob.
type AuxBytes []byte

func (AuxBytes) auxValue() {}

// AuxTuple holds exactly one value per tuple element shape.
type AuxTuple []AuxValue

func (AuxTuple) auxValue() {}

// AuxSeq is an ordered sequence; duplicates are allowed.
type AuxSeq []AuxValue

func (AuxSeq) auxValue() {}

// AuxSet is a set of values. Construction order does not matter;
// Normalize sorts it and rejects duplicates.
type AuxSet []AuxValue

func (AuxSet) auxValue() {}

// AuxMap is a unique-key mapping. Keys can be any shape (including
// tuples), so it is a slice of pairs rather than a Go map.
type AuxMap []AuxPair

func (AuxMap) auxValue() {}

// AuxPair is one mapping entry.
type AuxPair struct {
	Key   AuxValue
	Value AuxValue
}

// P is a shorthand for AuxPair.
// Example: AuxMap{P(AuxString("arch"), AuxString("x86_64"))}
func P(key, value AuxValue) AuxPair {
	return AuxPair{Key: key, Value: value}
}

// T is a shorthand for building an AuxTuple.
func T(elems ...AuxValue) AuxTuple {
	return AuxTuple(elems)
}

// Get returns the value mapped to key, using the natural order for equality.
func (m AuxMap) Get(key AuxValue) (AuxValue, bool) {
	for _, p := range m {
		if Compare(p.Key, key) == 0 {
			return p.Value, true
		}
	}
	return nil, false
}

// Contains reports whether v is an element of s.
func (s AuxSet) Contains(v AuxValue) bool {
	for _, e := range s {
		if Compare(e, v) == 0 {
			return true
		}
	}
	return false
}
