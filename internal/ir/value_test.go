package ir

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuxValueSealed(t *testing.T) {
	// Verify all types implement AuxValue (compile-time check via assignment)
	var _ AuxValue = AuxInt(-1)
	var _ AuxValue = AuxUint(1)
	var _ AuxValue = AuxString("x")
	var _ AuxValue = AuxUUID(uuid.Nil)
	var _ AuxValue = AuxBytes{0x01}
	var _ AuxValue = AuxTuple{AuxInt(1)}
	var _ AuxValue = AuxSeq{AuxInt(1)}
	var _ AuxValue = AuxSet{AuxInt(1)}
	var _ AuxValue = AuxMap{P(AuxInt(1), AuxInt(2))}
}

func TestCompareScalars(t *testing.T) {
	assert.Equal(t, -1, Compare(AuxInt(-5), AuxInt(3)))
	assert.Equal(t, 1, Compare(AuxUint(1<<63), AuxUint(1)))
	assert.Equal(t, 0, Compare(AuxUint(7), AuxUint(7)))
	assert.Equal(t, -1, Compare(AuxString("DT_INIT"), AuxString("DT_NEEDED")))
	assert.Equal(t, -1, Compare(AuxBytes{0x01}, AuxBytes{0x01, 0x00}))
}

func TestCompareUUIDBytewise(t *testing.T) {
	a := AuxUUID(uuid.MustParse("00000000-0000-0000-0000-0000000000ff"))
	b := AuxUUID(uuid.MustParse("01000000-0000-0000-0000-000000000000"))
	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 1, Compare(b, a))
}

func TestCompareTuplesLexicographic(t *testing.T) {
	a := T(AuxString("DT_NEEDED"), AuxUint(1))
	b := T(AuxString("DT_NEEDED"), AuxUint(2))
	c := T(AuxString("DT_INIT"), AuxUint(4096))

	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 1, Compare(a, c))
	assert.Equal(t, 0, Compare(a, T(AuxString("DT_NEEDED"), AuxUint(1))))
}

func TestCompareSequencesShorterFirst(t *testing.T) {
	assert.Equal(t, -1, Compare(AuxSeq{AuxUint(1)}, AuxSeq{AuxUint(1), AuxUint(0)}))
	assert.Equal(t, 1, Compare(AuxSeq{AuxUint(2)}, AuxSeq{AuxUint(1), AuxUint(9)}))
	assert.Equal(t, 0, Compare(AuxSeq{}, AuxSeq{}))
}

func TestCompareMappings(t *testing.T) {
	a := AuxMap{P(AuxString("a"), AuxUint(1))}
	b := AuxMap{P(AuxString("a"), AuxUint(2))}
	c := AuxMap{P(AuxString("a"), AuxUint(1)), P(AuxString("b"), AuxUint(0))}

	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, -1, Compare(a, c))
	assert.True(t, Equal(a, AuxMap{P(AuxString("a"), AuxUint(1))}))
}

func TestAuxMapGet(t *testing.T) {
	m := AuxMap{
		P(T(AuxUUID(uuid.Nil), AuxUint(8)), T(AuxUint(1), AuxUint(2))),
	}

	v, ok := m.Get(T(AuxUUID(uuid.Nil), AuxUint(8)))
	require.True(t, ok)
	assert.True(t, Equal(T(AuxUint(1), AuxUint(2)), v))

	_, ok = m.Get(T(AuxUUID(uuid.Nil), AuxUint(9)))
	assert.False(t, ok)
}

func TestAuxSetContains(t *testing.T) {
	s := AuxSet{AuxString("a"), AuxString("b")}
	assert.True(t, s.Contains(AuxString("b")))
	assert.False(t, s.Contains(AuxString("c")))
}

func TestFormat(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	tests := []struct {
		name     string
		value    AuxValue
		expected string
	}{
		{"int", AuxInt(-42), "-42"},
		{"uint", AuxUint(4096), "4096"},
		{"string", AuxString("DT_NEEDED"), `"DT_NEEDED"`},
		{"uuid", AuxUUID(id), "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{"bytes", AuxBytes{0xde, 0xad}, "0xdead"},
		{"tuple", T(AuxString("a"), AuxUint(1)), `("a", 1)`},
		{"sequence", AuxSeq{AuxUint(1), AuxUint(1)}, "[1, 1]"},
		{"set", AuxSet{AuxInt(1), AuxInt(2)}, "{1, 2}"},
		{"mapping", AuxMap{P(AuxUint(0), AuxString("x"))}, `{0: "x"}`},
		{"empty mapping", AuxMap{}, "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.value))
		})
	}
}

func TestToNative(t *testing.T) {
	v := AuxMap{P(AuxString("facts"), T(AuxString("i:number"), AuxString("1\n")))}

	native := ToNative(v)

	expected := []any{
		map[string]any{
			"key":   "facts",
			"value": []any{"i:number", "1\n"},
		},
	}
	assert.Equal(t, expected, native)
	assert.Equal(t, "00ff", ToNative(AuxBytes{0x00, 0xff}))
	assert.Equal(t, uint64(3), ToNative(AuxUint(3)))
}
