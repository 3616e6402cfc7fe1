package codec

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/roach88/auxdata/internal/ir"
)

// maxZeroSizeCount bounds the element count of containers whose elements
// encode to zero bytes (sequences of empty tuples), which the remaining
// buffer length cannot bound.
const maxZeroSizeCount = 1 << 16

// Encode normalizes v against s and returns its encoding.
//
// Returns *EncodeError wrapping *ir.ShapeMismatchError if v does not
// conform to s (including duplicate set elements or mapping keys).
func Encode(v ir.AuxValue, s ir.Shape) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, &EncodeError{Err: fmt.Errorf("invalid shape: %w", err)}
	}
	norm, err := ir.Normalize(v, s)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	if err := checkCounts(norm, s, "$"); err != nil {
		return nil, &EncodeError{Err: err}
	}
	w := NewWriter()
	encodeValue(w, norm, s)
	return w.Bytes(), nil
}

// checkCounts rejects containers of zero-size elements that Decode
// would refuse to read back.
func checkCounts(v ir.AuxValue, s ir.Shape, path string) error {
	var elems []ir.AuxValue
	var elem ir.Shape
	switch s.Kind {
	case ir.KindTuple:
		for i, e := range v.(ir.AuxTuple) {
			if err := checkCounts(e, s.Elems[i], fmt.Sprintf("%s.%d", path, i)); err != nil {
				return err
			}
		}
		return nil
	case ir.KindSequence:
		elems, elem = v.(ir.AuxSeq), *s.Elem
	case ir.KindSet:
		elems, elem = v.(ir.AuxSet), *s.Elem
	case ir.KindMapping:
		m := v.(ir.AuxMap)
		for i, p := range m {
			if err := checkCounts(p.Key, *s.Key, fmt.Sprintf("%s[%d].key", path, i)); err != nil {
				return err
			}
			if err := checkCounts(p.Value, *s.Elem, fmt.Sprintf("%s[%d].value", path, i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
	if elem.MinSize() == 0 && len(elems) > maxZeroSizeCount {
		return &ir.ShapeMismatchError{
			Path:   path,
			Want:   s,
			Reason: fmt.Sprintf("%d zero-size elements exceed limit %d", len(elems), maxZeroSizeCount),
		}
	}
	for i, e := range elems {
		if err := checkCounts(e, elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// encodeValue writes a normalized value. Normalization has already
// checked every type assertion below.
func encodeValue(w *Writer, v ir.AuxValue, s ir.Shape) {
	switch s.Kind {
	case ir.KindScalar:
		var bits uint64
		if s.Signed {
			bits = uint64(v.(ir.AuxInt))
		} else {
			bits = uint64(v.(ir.AuxUint))
		}
		switch s.Width {
		case 8:
			w.WriteU8(uint8(bits))
		case 16:
			w.WriteU16(uint16(bits))
		case 32:
			w.WriteU32(uint32(bits))
		default:
			w.WriteU64(bits)
		}
	case ir.KindString:
		w.WriteBlob64([]byte(v.(ir.AuxString)))
	case ir.KindUUID:
		u := v.(ir.AuxUUID)
		w.WriteRaw(u[:])
	case ir.KindBytes:
		w.WriteBlob64(v.(ir.AuxBytes))
	case ir.KindTuple:
		for i, e := range v.(ir.AuxTuple) {
			encodeValue(w, e, s.Elems[i])
		}
	case ir.KindSequence:
		seq := v.(ir.AuxSeq)
		w.WriteU64(uint64(len(seq)))
		for _, e := range seq {
			encodeValue(w, e, *s.Elem)
		}
	case ir.KindSet:
		set := v.(ir.AuxSet)
		w.WriteU64(uint64(len(set)))
		for _, e := range set {
			encodeValue(w, e, *s.Elem)
		}
	case ir.KindMapping:
		m := v.(ir.AuxMap)
		w.WriteU64(uint64(len(m)))
		for _, p := range m {
			encodeValue(w, p.Key, *s.Key)
			encodeValue(w, p.Value, *s.Elem)
		}
	}
}

// Decode parses data as a value of shape s. The whole buffer must be
// consumed. Sets and mappings come back normalized.
//
// Returns *DecodeError on truncation, overrunning length prefixes,
// ordering or uniqueness violations, invalid UTF-8 and trailing bytes.
func Decode(data []byte, s ir.Shape) (ir.AuxValue, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("decode: invalid shape: %w", err)
	}
	r := NewReader(data)
	v, err := decodeValue(r, s)
	if err != nil {
		return nil, err
	}
	if err := r.ExpectEnd(); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeValue(r *Reader, s ir.Shape) (ir.AuxValue, error) {
	switch s.Kind {
	case ir.KindScalar:
		return decodeScalar(r, s)

	case ir.KindString:
		at := r.Position()
		b, err := r.ReadBlob64()
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, r.Errorf(at, "invalid UTF-8 in string")
		}
		return ir.AuxString(b), nil

	case ir.KindUUID:
		b, err := r.ReadRaw(16)
		if err != nil {
			return nil, err
		}
		var u uuid.UUID
		copy(u[:], b)
		return ir.AuxUUID(u), nil

	case ir.KindBytes:
		b, err := r.ReadBlob64()
		if err != nil {
			return nil, err
		}
		return ir.AuxBytes(b), nil

	case ir.KindTuple:
		tup := make(ir.AuxTuple, len(s.Elems))
		for i, es := range s.Elems {
			e, err := decodeValue(r, es)
			if err != nil {
				return nil, err
			}
			tup[i] = e
		}
		return tup, nil

	case ir.KindSequence:
		n, err := readCount(r, s.Elem.MinSize())
		if err != nil {
			return nil, err
		}
		seq := make(ir.AuxSeq, 0, n)
		for i := 0; i < n; i++ {
			e, err := decodeValue(r, *s.Elem)
			if err != nil {
				return nil, err
			}
			seq = append(seq, e)
		}
		return seq, nil

	case ir.KindSet:
		n, err := readCount(r, s.Elem.MinSize())
		if err != nil {
			return nil, err
		}
		set := make(ir.AuxSet, 0, n)
		for i := 0; i < n; i++ {
			at := r.Position()
			e, err := decodeValue(r, *s.Elem)
			if err != nil {
				return nil, err
			}
			if i > 0 {
				if err := checkAscending(r, at, set[i-1], e, "set element"); err != nil {
					return nil, err
				}
			}
			set = append(set, e)
		}
		return set, nil

	case ir.KindMapping:
		n, err := readCount(r, s.Key.MinSize()+s.Elem.MinSize())
		if err != nil {
			return nil, err
		}
		m := make(ir.AuxMap, 0, n)
		for i := 0; i < n; i++ {
			at := r.Position()
			k, err := decodeValue(r, *s.Key)
			if err != nil {
				return nil, err
			}
			if i > 0 {
				if err := checkAscending(r, at, m[i-1].Key, k, "mapping key"); err != nil {
					return nil, err
				}
			}
			v, err := decodeValue(r, *s.Elem)
			if err != nil {
				return nil, err
			}
			m = append(m, ir.AuxPair{Key: k, Value: v})
		}
		return m, nil

	default:
		return nil, r.Errorf(r.Position(), "invalid shape kind %s", s.Kind)
	}
}

func decodeScalar(r *Reader, s ir.Shape) (ir.AuxValue, error) {
	var bits uint64
	switch s.Width {
	case 8:
		b, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		if s.Signed {
			return ir.AuxInt(int8(b)), nil
		}
		bits = uint64(b)
	case 16:
		b, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		if s.Signed {
			return ir.AuxInt(int16(b)), nil
		}
		bits = uint64(b)
	case 32:
		b, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		if s.Signed {
			return ir.AuxInt(int32(b)), nil
		}
		bits = uint64(b)
	default:
		b, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		if s.Signed {
			return ir.AuxInt(int64(b)), nil
		}
		bits = b
	}
	return ir.AuxUint(bits), nil
}

// readCount reads a u64 element count and checks it against the bytes
// left, given the minimum encoded size of one element.
func readCount(r *Reader, elemMin int) (int, error) {
	at := r.Position()
	n, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	if elemMin == 0 {
		if n > maxZeroSizeCount {
			return 0, r.Errorf(at, "count %d exceeds limit %d", n, maxZeroSizeCount)
		}
		return int(n), nil
	}
	if n > uint64(r.Remaining()/elemMin) {
		return 0, r.Errorf(at, "count %d overruns remaining %d bytes", n, r.Remaining())
	}
	return int(n), nil
}

func checkAscending(r *Reader, at int, prev, cur ir.AuxValue, what string) error {
	switch c := ir.Compare(prev, cur); {
	case c == 0:
		return r.Errorf(at, "duplicate %s %s", what, ir.Format(cur))
	case c > 0:
		return r.Errorf(at, "%s %s not in ascending order", what, ir.Format(cur))
	}
	return nil
}
