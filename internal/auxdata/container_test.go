package auxdata

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/auxdata/internal/codec"
	"github.com/roach88/auxdata/internal/ir"
	"github.com/roach88/auxdata/internal/schema"
)

var (
	dynamicEntriesShape = ir.SetOf(ir.TupleOf(ir.StringShape, ir.Uint64))
	sectionIndexShape   = ir.MappingOf(ir.Uint64, ir.UUIDShape)
	sccsShape           = ir.MappingOf(ir.UUIDShape, ir.Int64)

	uuidA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	uuidB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
)

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.New()
	require.NoError(t, reg.RegisterAll([]schema.Schema{
		{Name: "dynamicEntries", Shape: dynamicEntriesShape},
		{Name: "sectionIndex", Shape: sectionIndexShape},
		{Name: "ddisasmVersion", Shape: ir.StringShape},
		{Name: "SCCs", Shape: sccsShape},
		{Name: "overlay", Shape: ir.BytesShape},
	}))
	return reg
}

func appendString(b []byte, s string) []byte {
	b = binary.LittleEndian.AppendUint64(b, uint64(len(s)))
	return append(b, s...)
}

// Scenario A: sets come back sorted regardless of insertion order.
func TestSetAndGetDynamicEntries(t *testing.T) {
	c := New(testRegistry(t))

	err := c.Set("dynamicEntries", ir.AuxSet{
		ir.T(ir.AuxString("DT_NEEDED"), ir.AuxUint(1)),
		ir.T(ir.AuxString("DT_INIT"), ir.AuxUint(4096)),
	})
	require.NoError(t, err)

	want := ir.AuxSet{
		ir.T(ir.AuxString("DT_INIT"), ir.AuxUint(4096)),
		ir.T(ir.AuxString("DT_NEEDED"), ir.AuxUint(1)),
	}

	got, err := c.Get("dynamicEntries", dynamicEntriesShape)
	require.NoError(t, err)
	assert.True(t, ir.Equal(want, got), "got %s", ir.Format(got))

	var enc []byte
	enc = binary.LittleEndian.AppendUint64(enc, 2)
	enc = appendString(enc, "DT_INIT")
	enc = binary.LittleEndian.AppendUint64(enc, 4096)
	enc = appendString(enc, "DT_NEEDED")
	enc = binary.LittleEndian.AppendUint64(enc, 1)

	raw, ok := c.Raw("dynamicEntries")
	require.True(t, ok)
	assert.Equal(t, enc, raw)

	// A fresh decode from the table yields the same value.
	data, err := MarshalTable(c)
	require.NoError(t, err)
	back, err := UnmarshalTable(data, c.Registry())
	require.NoError(t, err)
	got, err = back.Get("dynamicEntries", dynamicEntriesShape)
	require.NoError(t, err)
	assert.True(t, ir.Equal(want, got))
}

// Scenario B: mapping keys are encoded in ascending order.
func TestSectionIndexRoundTrip(t *testing.T) {
	c := New(testRegistry(t))

	require.NoError(t, c.Set("sectionIndex", ir.AuxMap{
		ir.P(ir.AuxUint(2), ir.AuxUUID(uuidB)),
		ir.P(ir.AuxUint(0), ir.AuxUUID(uuidA)),
	}))

	data, err := MarshalTable(c)
	require.NoError(t, err)
	back, err := UnmarshalTable(data, c.Registry())
	require.NoError(t, err)

	got, err := back.Lookup("sectionIndex")
	require.NoError(t, err)
	m, ok := got.(ir.AuxMap)
	require.True(t, ok)
	require.Len(t, m, 2)
	assert.Equal(t, ir.AuxUint(0), m[0].Key)
	assert.Equal(t, ir.AuxUUID(uuidA), m[0].Value)
	assert.Equal(t, ir.AuxUint(2), m[1].Key)
	assert.Equal(t, ir.AuxUUID(uuidB), m[1].Value)
}

// Scenario C
func TestSetUnknownSchema(t *testing.T) {
	c := New(testRegistry(t))

	err := c.Set("doesNotExist", ir.AuxString("x"))
	require.Error(t, err)
	assert.True(t, IsUnknownSchema(err))
	assert.ErrorIs(t, err, schema.ErrNotRegistered)
	assert.Equal(t, 0, c.Len())
}

// Scenario D
func TestGetTypeMismatch(t *testing.T) {
	c := New(testRegistry(t))
	require.NoError(t, c.Set("ddisasmVersion", ir.AuxString("1.8.0")))

	_, err := c.Get("ddisasmVersion", ir.MappingOf(ir.StringShape, ir.StringShape))
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))
	assert.Contains(t, err.Error(), "registered as string")

	got, err := c.Get("ddisasmVersion", ir.StringShape)
	require.NoError(t, err)
	assert.Equal(t, ir.AuxString("1.8.0"), got)
}

func TestGetErrors(t *testing.T) {
	c := New(testRegistry(t))

	t.Run("unknown schema", func(t *testing.T) {
		_, err := c.Get("doesNotExist", ir.StringShape)
		assert.True(t, IsUnknownSchema(err))

		_, err = c.Lookup("doesNotExist")
		assert.True(t, IsUnknownSchema(err))
	})

	t.Run("absent entry", func(t *testing.T) {
		_, err := c.Get("overlay", ir.BytesShape)
		assert.ErrorIs(t, err, ErrEntryNotFound)
		assert.False(t, IsUnknownSchema(err))
	})
}

func TestSetShapeMismatch(t *testing.T) {
	c := New(testRegistry(t))
	require.NoError(t, c.Set("ddisasmVersion", ir.AuxString("1.0")))

	tests := []struct {
		name  string
		entry string
		value ir.AuxValue
		path  string
	}{
		{"wrong leaf", "ddisasmVersion", ir.AuxUint(1), "$"},
		{"wrong key", "SCCs", ir.AuxMap{ir.P(ir.AuxString("x"), ir.AuxInt(1))}, "$[0].key"},
		{"tuple arity", "dynamicEntries", ir.AuxSet{ir.T(ir.AuxString("DT_NULL"))}, "$[0]"},
		{"duplicate element", "dynamicEntries", ir.AuxSet{
			ir.T(ir.AuxString("DT_NULL"), ir.AuxUint(0)),
			ir.T(ir.AuxString("DT_NULL"), ir.AuxUint(0)),
		}, "$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Set(tt.entry, tt.value)
			require.Error(t, err)
			assert.True(t, IsShapeMismatch(err))

			var sm *ir.ShapeMismatchError
			require.True(t, errors.As(err, &sm))
			assert.Equal(t, tt.path, sm.Path)
		})
	}

	// Failed sets leave existing entries untouched.
	got, err := c.Lookup("ddisasmVersion")
	require.NoError(t, err)
	assert.Equal(t, ir.AuxString("1.0"), got)
	assert.Equal(t, []string{"ddisasmVersion"}, c.Names())
}

func TestInsertionOrderPreserved(t *testing.T) {
	c := New(testRegistry(t))
	require.NoError(t, c.Set("overlay", ir.AuxBytes{0xde, 0xad}))
	require.NoError(t, c.Set("ddisasmVersion", ir.AuxString("a")))
	require.NoError(t, c.Set("SCCs", ir.AuxMap{}))

	// Overwrite keeps position.
	require.NoError(t, c.Set("overlay", ir.AuxBytes{0xbe, 0xef}))
	assert.Equal(t, []string{"overlay", "ddisasmVersion", "SCCs"}, c.Names())

	data, err := MarshalTable(c)
	require.NoError(t, err)
	back, err := UnmarshalTable(data, c.Registry())
	require.NoError(t, err)
	assert.Equal(t, c.Names(), back.Names())

	got, err := back.Lookup("overlay")
	require.NoError(t, err)
	assert.Equal(t, ir.AuxBytes{0xbe, 0xef}, got)
}

func TestEraseReindexes(t *testing.T) {
	c := New(testRegistry(t))
	require.NoError(t, c.Set("overlay", ir.AuxBytes{1}))
	require.NoError(t, c.Set("ddisasmVersion", ir.AuxString("a")))
	require.NoError(t, c.Set("SCCs", ir.AuxMap{}))

	assert.True(t, c.Erase("ddisasmVersion"))
	assert.False(t, c.Erase("ddisasmVersion"))
	assert.False(t, c.Has("ddisasmVersion"))
	assert.Equal(t, []string{"overlay", "SCCs"}, c.Names())

	_, err := c.Lookup("SCCs")
	require.NoError(t, err)

	require.NoError(t, c.Set("ddisasmVersion", ir.AuxString("b")))
	assert.Equal(t, []string{"overlay", "SCCs", "ddisasmVersion"}, c.Names())
}

func TestGetMalformedEntryCachesNothing(t *testing.T) {
	c := New(testRegistry(t))
	// Length prefix claims 10 bytes but only 2 follow.
	bad := binary.LittleEndian.AppendUint64(nil, 10)
	bad = append(bad, 'h', 'i')
	c.SetRaw("ddisasmVersion", bad)

	for i := 0; i < 2; i++ {
		_, err := c.Lookup("ddisasmVersion")
		require.Error(t, err)
		assert.True(t, codec.IsDecodeError(err))
	}

	good := appendString(nil, "hi")
	c.SetRaw("ddisasmVersion", good)
	got, err := c.Lookup("ddisasmVersion")
	require.NoError(t, err)
	assert.Equal(t, ir.AuxString("hi"), got)
}

func TestCloneIsIndependent(t *testing.T) {
	c := New(testRegistry(t))
	require.NoError(t, c.Set("ddisasmVersion", ir.AuxString("a")))
	c.SetRaw("functionNames", []byte{1, 2, 3})

	cp := c.Clone()
	require.NoError(t, c.Set("ddisasmVersion", ir.AuxString("b")))
	c.Erase("functionNames")

	got, err := cp.Lookup("ddisasmVersion")
	require.NoError(t, err)
	assert.Equal(t, ir.AuxString("a"), got)
	raw, ok := cp.Raw("functionNames")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, raw)
	assert.Same(t, c.Registry(), cp.Registry())
}

func TestSetRawCopiesInput(t *testing.T) {
	c := New(testRegistry(t))
	data := []byte{9, 9}
	c.SetRaw("functionNames", data)
	data[0] = 0

	raw, _ := c.Raw("functionNames")
	assert.Equal(t, []byte{9, 9}, raw)
}

func TestRawEntries(t *testing.T) {
	c := New(testRegistry(t))
	require.NoError(t, c.Set("ddisasmVersion", ir.AuxString("v")))
	c.SetRaw("functionNames", []byte{7})

	entries := c.RawEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "ddisasmVersion", entries[0].Name)
	assert.Equal(t, appendString(nil, "v"), entries[0].Data)
	assert.Equal(t, RawEntry{Name: "functionNames", Data: []byte{7}}, entries[1])
}

func TestGetUnaffectedByCallerMutation(t *testing.T) {
	c := New(testRegistry(t))
	buf := ir.AuxBytes{1, 2, 3}
	require.NoError(t, c.Set("overlay", buf))
	buf[0] = 9

	got, err := c.Get("overlay", ir.BytesShape)
	require.NoError(t, err)

	raw, ok := c.Raw("overlay")
	require.True(t, ok)
	stored, err := codec.Decode(raw, ir.BytesShape)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
	assert.Equal(t, ir.AuxBytes{1, 2, 3}, got)
}
