package ir

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a Shape.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindScalar
	KindString
	KindUUID
	KindBytes
	KindTuple
	KindSet
	KindSequence
	KindMapping
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindString:
		return "string"
	case KindUUID:
		return "uuid"
	case KindBytes:
		return "bytes"
	case KindTuple:
		return "tuple"
	case KindSet:
		return "set"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Shape is a recursive description of an auxiliary data value.
//
// Only the fields relevant to Kind are set:
//   - KindScalar: Width (8, 16, 32 or 64) and Signed
//   - KindTuple: Elems (may be empty)
//   - KindSet, KindSequence: Elem
//   - KindMapping: Key and Elem (the mapped value)
//
// Shapes are immutable once built; constructors copy their arguments.
type Shape struct {
	Kind   Kind
	Width  uint8
	Signed bool
	Elems  []Shape
	Key    *Shape
	Elem   *Shape
}

// Scalar shapes.
var (
	Int8   = ScalarOf(8, true)
	Int16  = ScalarOf(16, true)
	Int32  = ScalarOf(32, true)
	Int64  = ScalarOf(64, true)
	Uint8  = ScalarOf(8, false)
	Uint16 = ScalarOf(16, false)
	Uint32 = ScalarOf(32, false)
	Uint64 = ScalarOf(64, false)
)

// Leaf shapes.
var (
	StringShape = Shape{Kind: KindString}
	UUIDShape   = Shape{Kind: KindUUID}
	BytesShape  = Shape{Kind: KindBytes}
)

// OffsetShape references a displacement inside an IR object: {UUID, uint64}.
var OffsetShape = TupleOf(UUIDShape, Uint64)

// ScalarOf returns a fixed-width integer shape.
func ScalarOf(width uint8, signed bool) Shape {
	return Shape{Kind: KindScalar, Width: width, Signed: signed}
}

// TupleOf returns a fixed-arity tuple of the given element shapes.
func TupleOf(elems ...Shape) Shape {
	cp := make([]Shape, len(elems))
	copy(cp, elems)
	return Shape{Kind: KindTuple, Elems: cp}
}

// SetOf returns a set shape over elem.
func SetOf(elem Shape) Shape {
	return Shape{Kind: KindSet, Elem: &elem}
}

// SequenceOf returns an ordered sequence shape over elem.
func SequenceOf(elem Shape) Shape {
	return Shape{Kind: KindSequence, Elem: &elem}
}

// MappingOf returns a unique-key mapping shape.
func MappingOf(key, value Shape) Shape {
	return Shape{Kind: KindMapping, Key: &key, Elem: &value}
}

// Validate reports whether s is a well-formed shape.
func (s Shape) Validate() error {
	switch s.Kind {
	case KindScalar:
		switch s.Width {
		case 8, 16, 32, 64:
			return nil
		}
		return fmt.Errorf("invalid scalar width %d", s.Width)
	case KindString, KindUUID, KindBytes:
		return nil
	case KindTuple:
		for i, e := range s.Elems {
			if err := e.Validate(); err != nil {
				return fmt.Errorf("tuple element %d: %w", i, err)
			}
		}
		return nil
	case KindSet, KindSequence:
		if s.Elem == nil {
			return fmt.Errorf("%s without element shape", s.Kind)
		}
		if err := s.Elem.Validate(); err != nil {
			return fmt.Errorf("%s element: %w", s.Kind, err)
		}
		return nil
	case KindMapping:
		if s.Key == nil || s.Elem == nil {
			return fmt.Errorf("mapping without key or value shape")
		}
		if err := s.Key.Validate(); err != nil {
			return fmt.Errorf("mapping key: %w", err)
		}
		if err := s.Elem.Validate(); err != nil {
			return fmt.Errorf("mapping value: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("invalid shape kind %s", s.Kind)
	}
}

// Equal reports whether two shapes describe the same structure.
func (s Shape) Equal(o Shape) bool {
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case KindScalar:
		return s.Width == o.Width && s.Signed == o.Signed
	case KindTuple:
		if len(s.Elems) != len(o.Elems) {
			return false
		}
		for i := range s.Elems {
			if !s.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case KindSet, KindSequence:
		return shapePtrEqual(s.Elem, o.Elem)
	case KindMapping:
		return shapePtrEqual(s.Key, o.Key) && shapePtrEqual(s.Elem, o.Elem)
	default:
		return true
	}
}

func shapePtrEqual(a, b *Shape) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// MinSize returns the smallest number of bytes any value of s encodes to.
// Count-prefixed shapes need at least their 8-byte prefix.
func (s Shape) MinSize() int {
	switch s.Kind {
	case KindScalar:
		return int(s.Width) / 8
	case KindUUID:
		return 16
	case KindString, KindBytes, KindSet, KindSequence, KindMapping:
		return 8
	case KindTuple:
		n := 0
		for _, e := range s.Elems {
			n += e.MinSize()
		}
		return n
	default:
		return 0
	}
}

// String returns the canonical type name, e.g. "mapping<UUID,int64_t>".
// ParseShape accepts every string this method produces.
func (s Shape) String() string {
	var b strings.Builder
	s.writeTo(&b)
	return b.String()
}

func (s Shape) writeTo(b *strings.Builder) {
	switch s.Kind {
	case KindScalar:
		if !s.Signed {
			b.WriteByte('u')
		}
		fmt.Fprintf(b, "int%d_t", s.Width)
	case KindString:
		b.WriteString("string")
	case KindUUID:
		b.WriteString("UUID")
	case KindBytes:
		b.WriteString("bytes")
	case KindTuple:
		b.WriteString("tuple<")
		for i, e := range s.Elems {
			if i > 0 {
				b.WriteByte(',')
			}
			e.writeTo(b)
		}
		b.WriteByte('>')
	case KindSet, KindSequence:
		b.WriteString(s.Kind.String())
		b.WriteByte('<')
		if s.Elem != nil {
			s.Elem.writeTo(b)
		}
		b.WriteByte('>')
	case KindMapping:
		b.WriteString("mapping<")
		if s.Key != nil {
			s.Key.writeTo(b)
		}
		b.WriteByte(',')
		if s.Elem != nil {
			s.Elem.writeTo(b)
		}
		b.WriteByte('>')
	default:
		b.WriteString("invalid")
	}
}
