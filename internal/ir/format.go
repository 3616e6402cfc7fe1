package ir

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// Format renders a value as compact text for diagnostics and dumps.
//
//	tuple    (a, b)
//	sequence [a, b]
//	set      {a, b}
//	mapping  {k: v, k: v}
//	bytes    0x0a0b
func Format(v AuxValue) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v AuxValue) {
	switch x := v.(type) {
	case AuxInt:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case AuxUint:
		b.WriteString(strconv.FormatUint(uint64(x), 10))
	case AuxString:
		b.WriteString(strconv.Quote(string(x)))
	case AuxUUID:
		b.WriteString(x.String())
	case AuxBytes:
		b.WriteString("0x")
		b.WriteString(hex.EncodeToString(x))
	case AuxTuple:
		writeList(b, "(", ")", x)
	case AuxSeq:
		writeList(b, "[", "]", x)
	case AuxSet:
		writeList(b, "{", "}", x)
	case AuxMap:
		b.WriteByte('{')
		for i, p := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, p.Key)
			b.WriteString(": ")
			writeValue(b, p.Value)
		}
		b.WriteByte('}')
	case nil:
		b.WriteString("<nil>")
	}
}

func writeList(b *strings.Builder, open, end string, elems []AuxValue) {
	b.WriteString(open)
	for i, e := range elems {
		if i > 0 {
			b.WriteString(", ")
		}
		writeValue(b, e)
	}
	b.WriteString(end)
}

// ToNative converts a value into plain Go data suitable for encoding/json.
// UUIDs and byte blobs become strings; mappings become a list of
// {"key", "value"} objects because keys need not be strings.
func ToNative(v AuxValue) any {
	switch x := v.(type) {
	case AuxInt:
		return int64(x)
	case AuxUint:
		return uint64(x)
	case AuxString:
		return string(x)
	case AuxUUID:
		return x.String()
	case AuxBytes:
		return hex.EncodeToString(x)
	case AuxTuple:
		return nativeList(x)
	case AuxSeq:
		return nativeList(x)
	case AuxSet:
		return nativeList(x)
	case AuxMap:
		out := make([]any, len(x))
		for i, p := range x {
			out[i] = map[string]any{
				"key":   ToNative(p.Key),
				"value": ToNative(p.Value),
			}
		}
		return out
	default:
		return nil
	}
}

func nativeList(elems []AuxValue) []any {
	out := make([]any, len(elems))
	for i, e := range elems {
		out[i] = ToNative(e)
	}
	return out
}
