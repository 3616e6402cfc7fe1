package ir

import (
	"bytes"
	"strings"
)

// rank orders values of different kinds. Values conforming to one shape
// always share a kind, so rank only matters for ill-typed comparisons.
func rank(v AuxValue) int {
	switch v.(type) {
	case AuxInt:
		return 1
	case AuxUint:
		return 2
	case AuxString:
		return 3
	case AuxUUID:
		return 4
	case AuxBytes:
		return 5
	case AuxTuple:
		return 6
	case AuxSeq:
		return 7
	case AuxSet:
		return 8
	case AuxMap:
		return 9
	default:
		return 0
	}
}

// Compare returns the natural order of two values: -1, 0 or +1.
//
// Numbers compare numerically; strings, byte blobs and UUIDs compare
// bytewise; tuples, sequences, sets and mappings compare element by
// element, then by length. Sets and mappings must be normalized for the
// result to be meaningful.
func Compare(a, b AuxValue) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmpInt(ra, rb)
	}
	switch x := a.(type) {
	case AuxInt:
		y := b.(AuxInt)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case AuxUint:
		y := b.(AuxUint)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case AuxString:
		return strings.Compare(string(x), string(b.(AuxString)))
	case AuxUUID:
		y := b.(AuxUUID)
		return bytes.Compare(x[:], y[:])
	case AuxBytes:
		return bytes.Compare(x, b.(AuxBytes))
	case AuxTuple:
		return compareList(x, b.(AuxTuple))
	case AuxSeq:
		return compareList(x, b.(AuxSeq))
	case AuxSet:
		return compareList(x, b.(AuxSet))
	case AuxMap:
		y := b.(AuxMap)
		n := min(len(x), len(y))
		for i := 0; i < n; i++ {
			if c := Compare(x[i].Key, y[i].Key); c != 0 {
				return c
			}
			if c := Compare(x[i].Value, y[i].Value); c != 0 {
				return c
			}
		}
		return cmpInt(len(x), len(y))
	default:
		return 0
	}
}

func compareList(x, y []AuxValue) int {
	n := min(len(x), len(y))
	for i := 0; i < n; i++ {
		if c := Compare(x[i], y[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(x), len(y))
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Equal reports whether two normalized values are identical.
func Equal(a, b AuxValue) bool {
	return Compare(a, b) == 0
}
