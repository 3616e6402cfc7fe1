package ir

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"unicode/utf8"
)

// ShapeMismatchError reports the first place a value diverges from a shape.
type ShapeMismatchError struct {
	// Path locates the divergence: "$" is the root, ".N" a tuple field,
	// "[N]" a sequence or set element, "[N].key"/"[N].value" a mapping entry.
	Path string

	// Want is the shape expected at Path.
	Want Shape

	// Reason describes the divergence.
	Reason string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("at %s: want %s: %s", e.Path, e.Want, e.Reason)
}

// Normalize checks v against s and returns its normalized form: sets
// sorted ascending, mappings sorted by key, at every depth. The input is
// never modified and the result shares no byte slices with it.
//
// Returns *ShapeMismatchError on the first divergence, including scalar
// range overflow, invalid UTF-8, duplicate set elements and duplicate
// mapping keys.
func Normalize(v AuxValue, s Shape) (AuxValue, error) {
	return normalize(v, s, "$")
}

// Check reports whether v conforms to s.
func Check(v AuxValue, s Shape) error {
	_, err := Normalize(v, s)
	return err
}

func mismatch(path string, s Shape, format string, args ...any) error {
	return &ShapeMismatchError{Path: path, Want: s, Reason: fmt.Sprintf(format, args...)}
}

func normalize(v AuxValue, s Shape, path string) (AuxValue, error) {
	if v == nil {
		return nil, mismatch(path, s, "missing value")
	}
	switch s.Kind {
	case KindScalar:
		return normalizeScalar(v, s, path)

	case KindString:
		str, ok := v.(AuxString)
		if !ok {
			return nil, mismatch(path, s, "got %T", v)
		}
		if !utf8.ValidString(string(str)) {
			return nil, mismatch(path, s, "invalid UTF-8")
		}
		return str, nil

	case KindUUID:
		u, ok := v.(AuxUUID)
		if !ok {
			return nil, mismatch(path, s, "got %T", v)
		}
		return u, nil

	case KindBytes:
		b, ok := v.(AuxBytes)
		if !ok {
			return nil, mismatch(path, s, "got %T", v)
		}
		return slices.Clone(b), nil

	case KindTuple:
		tup, ok := v.(AuxTuple)
		if !ok {
			return nil, mismatch(path, s, "got %T", v)
		}
		if len(tup) != len(s.Elems) {
			return nil, mismatch(path, s, "got %d field(s)", len(tup))
		}
		out := make(AuxTuple, len(tup))
		for i, e := range tup {
			n, err := normalize(e, s.Elems[i], path+"."+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil

	case KindSequence:
		seq, ok := v.(AuxSeq)
		if !ok {
			return nil, mismatch(path, s, "got %T", v)
		}
		out := make(AuxSeq, len(seq))
		for i, e := range seq {
			n, err := normalize(e, *s.Elem, elemPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil

	case KindSet:
		set, ok := v.(AuxSet)
		if !ok {
			return nil, mismatch(path, s, "got %T", v)
		}
		out := make(AuxSet, len(set))
		for i, e := range set {
			n, err := normalize(e, *s.Elem, elemPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		slices.SortStableFunc(out, Compare)
		for i := 1; i < len(out); i++ {
			if Compare(out[i-1], out[i]) == 0 {
				return nil, mismatch(path, s, "duplicate element %s", Format(out[i]))
			}
		}
		return out, nil

	case KindMapping:
		m, ok := v.(AuxMap)
		if !ok {
			return nil, mismatch(path, s, "got %T", v)
		}
		out := make(AuxMap, len(m))
		for i, p := range m {
			k, err := normalize(p.Key, *s.Key, elemPath(path, i)+".key")
			if err != nil {
				return nil, err
			}
			val, err := normalize(p.Value, *s.Elem, elemPath(path, i)+".value")
			if err != nil {
				return nil, err
			}
			out[i] = AuxPair{Key: k, Value: val}
		}
		slices.SortStableFunc(out, func(a, b AuxPair) int { return Compare(a.Key, b.Key) })
		for i := 1; i < len(out); i++ {
			if Compare(out[i-1].Key, out[i].Key) == 0 {
				return nil, mismatch(path, s, "duplicate key %s", Format(out[i].Key))
			}
		}
		return out, nil

	default:
		return nil, mismatch(path, s, "invalid shape")
	}
}

func elemPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func normalizeScalar(v AuxValue, s Shape, path string) (AuxValue, error) {
	if s.Signed {
		n, ok := v.(AuxInt)
		if !ok {
			return nil, mismatch(path, s, "got %T", v)
		}
		lo, hi := signedRange(s.Width)
		if int64(n) < lo || int64(n) > hi {
			return nil, mismatch(path, s, "%d out of range", n)
		}
		return n, nil
	}
	n, ok := v.(AuxUint)
	if !ok {
		return nil, mismatch(path, s, "got %T", v)
	}
	if uint64(n) > unsignedMax(s.Width) {
		return nil, mismatch(path, s, "%d out of range", n)
	}
	return n, nil
}

func signedRange(width uint8) (int64, int64) {
	switch width {
	case 8:
		return math.MinInt8, math.MaxInt8
	case 16:
		return math.MinInt16, math.MaxInt16
	case 32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

func unsignedMax(width uint8) uint64 {
	switch width {
	case 8:
		return math.MaxUint8
	case 16:
		return math.MaxUint16
	case 32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}
