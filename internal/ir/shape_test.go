package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeString(t *testing.T) {
	tests := []struct {
		name     string
		shape    Shape
		expected string
	}{
		{"int64", Int64, "int64_t"},
		{"uint8", Uint8, "uint8_t"},
		{"string", StringShape, "string"},
		{"uuid", UUIDShape, "UUID"},
		{"bytes", BytesShape, "bytes"},
		{"empty tuple", TupleOf(), "tuple<>"},
		{"offset", OffsetShape, "tuple<UUID,uint64_t>"},
		{"set", SetOf(TupleOf(StringShape, Uint64)), "set<tuple<string,uint64_t>>"},
		{"sequence", SequenceOf(Uint64), "sequence<uint64_t>"},
		{"mapping", MappingOf(UUIDShape, Int64), "mapping<UUID,int64_t>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.shape.String())
		})
	}
}

func TestParseShapeRoundTrip(t *testing.T) {
	names := []string{
		"int8_t",
		"uint32_t",
		"string",
		"UUID",
		"bytes",
		"tuple<>",
		"set<tuple<uint64_t,string,string,int64_t,uint64_t,string,string>>",
		"sequence<tuple<bytes,tuple<UUID,uint64_t>,uint64_t>>",
		"mapping<tuple<UUID,uint64_t>,tuple<uint32_t,uint32_t>>",
		"mapping<string,tuple<string,string>>",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			s, err := ParseShape(name)
			require.NoError(t, err)
			require.NoError(t, s.Validate())
			assert.Equal(t, name, s.String())
		})
	}
}

func TestParseShapeOffsetAlias(t *testing.T) {
	s, err := ParseShape("sequence< tuple< bytes, Offset, uint64_t > >")
	require.NoError(t, err)
	assert.True(t, s.Equal(SequenceOf(TupleOf(BytesShape, OffsetShape, Uint64))))
	assert.Equal(t, "sequence<tuple<bytes,tuple<UUID,uint64_t>,uint64_t>>", s.String())
}

func TestParseShapeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unknown name", "float"},
		{"case sensitive", "uuid"},
		{"missing args", "set"},
		{"unterminated", "set<string"},
		{"set arity", "set<string,string>"},
		{"mapping arity", "mapping<string>"},
		{"trailing", "string>"},
		{"trailing comma", "tuple<string,>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseShape(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestShapeEqual(t *testing.T) {
	assert.True(t, Int64.Equal(ScalarOf(64, true)))
	assert.False(t, Int64.Equal(Uint64))
	assert.False(t, Int64.Equal(Int32))
	assert.True(t, SetOf(StringShape).Equal(SetOf(StringShape)))
	assert.False(t, SetOf(StringShape).Equal(SequenceOf(StringShape)))
	assert.False(t, MappingOf(StringShape, Uint64).Equal(MappingOf(StringShape, Int64)))
	assert.False(t, TupleOf(StringShape).Equal(TupleOf(StringShape, StringShape)))
	assert.True(t, TupleOf().Equal(Shape{Kind: KindTuple}))
}

func TestShapeValidate(t *testing.T) {
	assert.NoError(t, MappingOf(OffsetShape, SequenceOf(BytesShape)).Validate())
	assert.Error(t, ScalarOf(24, false).Validate())
	assert.Error(t, Shape{}.Validate())
	assert.Error(t, Shape{Kind: KindSet}.Validate())
	assert.Error(t, Shape{Kind: KindMapping, Key: &StringShape}.Validate())
	assert.Error(t, TupleOf(StringShape, ScalarOf(12, true)).Validate())
}

func TestShapeMinSize(t *testing.T) {
	assert.Equal(t, 1, Uint8.MinSize())
	assert.Equal(t, 8, Int64.MinSize())
	assert.Equal(t, 16, UUIDShape.MinSize())
	assert.Equal(t, 8, StringShape.MinSize())
	assert.Equal(t, 24, OffsetShape.MinSize())
	assert.Equal(t, 0, TupleOf().MinSize())
	assert.Equal(t, 8, MappingOf(OffsetShape, Uint32).MinSize())
}
