package ir

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSortsSets(t *testing.T) {
	shape := SetOf(TupleOf(StringShape, Uint64))
	in := AuxSet{
		T(AuxString("DT_NEEDED"), AuxUint(1)),
		T(AuxString("DT_INIT"), AuxUint(4096)),
	}

	out, err := Normalize(in, shape)
	require.NoError(t, err)

	expected := AuxSet{
		T(AuxString("DT_INIT"), AuxUint(4096)),
		T(AuxString("DT_NEEDED"), AuxUint(1)),
	}
	assert.Equal(t, expected, out)

	// Input left untouched
	assert.Equal(t, AuxString("DT_NEEDED"), in[0].(AuxTuple)[0])
}

func TestNormalizeCopiesBytes(t *testing.T) {
	header := AuxBytes{1, 2, 3}
	shape := SequenceOf(TupleOf(BytesShape, Uint64))

	out, err := Normalize(AuxSeq{T(header, AuxUint(7))}, shape)
	require.NoError(t, err)
	header[0] = 9

	assert.Equal(t, AuxBytes{1, 2, 3}, out.(AuxSeq)[0].(AuxTuple)[0])
}

func TestNormalizeSortsMappingsByKey(t *testing.T) {
	a := AuxUUID(uuid.MustParse("00000000-0000-0000-0000-000000000002"))
	b := AuxUUID(uuid.MustParse("00000000-0000-0000-0000-000000000001"))
	in := AuxMap{P(AuxUint(2), a), P(AuxUint(0), b)}

	out, err := Normalize(in, MappingOf(Uint64, UUIDShape))
	require.NoError(t, err)
	assert.Equal(t, AuxMap{P(AuxUint(0), b), P(AuxUint(2), a)}, out)
}

func TestNormalizeNestedSets(t *testing.T) {
	shape := SetOf(SetOf(Uint8))
	in := AuxSet{
		AuxSet{AuxUint(3), AuxUint(1)},
		AuxSet{AuxUint(2)},
	}

	out, err := Normalize(in, shape)
	require.NoError(t, err)
	assert.Equal(t, AuxSet{AuxSet{AuxUint(1), AuxUint(3)}, AuxSet{AuxUint(2)}}, out)
}

func TestNormalizeRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name  string
		value AuxValue
		shape Shape
	}{
		{
			name:  "set element",
			value: AuxSet{AuxString("a"), AuxString("b"), AuxString("a")},
			shape: SetOf(StringShape),
		},
		{
			name:  "nested set equal after sorting",
			value: AuxSet{AuxSet{AuxUint(1), AuxUint(2)}, AuxSet{AuxUint(2), AuxUint(1)}},
			shape: SetOf(SetOf(Uint8)),
		},
		{
			name:  "mapping key",
			value: AuxMap{P(AuxString("k"), AuxString("1")), P(AuxString("k"), AuxString("2"))},
			shape: MappingOf(StringShape, StringShape),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.value, tt.shape)
			require.Error(t, err)
			var sm *ShapeMismatchError
			require.True(t, errors.As(err, &sm))
			assert.Equal(t, "$", sm.Path)
			assert.Contains(t, sm.Reason, "duplicate")
		})
	}
}

func TestNormalizeMismatchPath(t *testing.T) {
	tests := []struct {
		name   string
		value  AuxValue
		shape  Shape
		path   string
		reason string
	}{
		{
			name:   "root kind",
			value:  AuxString("v1.0"),
			shape:  MappingOf(StringShape, StringShape),
			path:   "$",
			reason: "got ir.AuxString",
		},
		{
			name:   "tuple arity",
			value:  AuxSet{T(AuxString("DT_NEEDED"))},
			shape:  SetOf(TupleOf(StringShape, Uint64)),
			path:   "$[0]",
			reason: "got 1 field(s)",
		},
		{
			name:   "tuple field",
			value:  AuxSeq{T(AuxString("EXPORT"), AuxInt(1), AuxUint(2))},
			shape:  SequenceOf(TupleOf(StringShape, Uint64, Uint64)),
			path:   "$[0].1",
			reason: "got ir.AuxInt",
		},
		{
			name:   "mapping value",
			value:  AuxMap{P(AuxString("a"), AuxUint(1)), P(AuxString("b"), AuxInt(2))},
			shape:  MappingOf(StringShape, Uint64),
			path:   "$[1].value",
			reason: "got ir.AuxInt",
		},
		{
			name:   "unsigned overflow",
			value:  AuxUint(256),
			shape:  Uint8,
			path:   "$",
			reason: "256 out of range",
		},
		{
			name:   "signed underflow",
			value:  AuxInt(-129),
			shape:  Int8,
			path:   "$",
			reason: "-129 out of range",
		},
		{
			name:   "invalid utf8",
			value:  AuxString("\xff"),
			shape:  StringShape,
			path:   "$",
			reason: "invalid UTF-8",
		},
		{
			name:   "nil",
			value:  T(nil),
			shape:  TupleOf(BytesShape),
			path:   "$.0",
			reason: "missing value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.value, tt.shape)
			require.Error(t, err)
			var sm *ShapeMismatchError
			require.True(t, errors.As(err, &sm))
			assert.Equal(t, tt.path, sm.Path)
			assert.Equal(t, tt.reason, sm.Reason)
		})
	}
}

func TestNormalizeScalarBounds(t *testing.T) {
	assert.NoError(t, Check(AuxInt(-128), Int8))
	assert.NoError(t, Check(AuxInt(127), Int8))
	assert.NoError(t, Check(AuxUint(65535), Uint16))
	assert.NoError(t, Check(AuxUint(1<<64-1), Uint64))
	assert.Error(t, Check(AuxUint(1<<32), Uint32))
}

func TestShapeMismatchErrorMessage(t *testing.T) {
	err := Check(AuxUint(1), Int64)
	require.Error(t, err)
	assert.Equal(t, "at $: want int64_t: got ir.AuxUint", err.Error())
}
