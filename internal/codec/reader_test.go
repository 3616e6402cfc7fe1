package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderScalars(t *testing.T) {
	w := NewWriter()
	w.WriteU8(0xab)
	w.WriteU16(0x0102)
	w.WriteU32(0x03040506)
	w.WriteU64(0x0708090a0b0c0d0e)
	w.WriteBlob32([]byte("name"))
	w.WriteBlob64([]byte{0xff})
	assert.Equal(t, 1+2+4+8+4+4+8+1, w.Len())

	r := NewReader(w.Bytes())

	b, err := r.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xab), b)

	h, err := r.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), h)

	u, err := r.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x03040506), u)

	q, err := r.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0708090a0b0c0d0e), q)

	name, err := r.ReadBlob32()
	require.NoError(t, err)
	assert.Equal(t, []byte("name"), name)

	blob, err := r.ReadBlob64()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff}, blob)

	assert.Equal(t, 0, r.Remaining())
	assert.NoError(t, r.ExpectEnd())
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	_, err := r.ReadU32()
	require.Error(t, err)
	de, ok := err.(*DecodeError)
	require.True(t, ok)
	assert.Equal(t, 0, de.Offset)
	assert.Equal(t, "truncated u32: need 4 bytes, have 2", de.Reason)

	// Failed reads do not advance
	assert.Equal(t, 0, r.Position())
}

func TestReaderBlobOverrun(t *testing.T) {
	w := NewWriter()
	w.WriteU32(10)
	w.WriteRaw([]byte("abc"))

	r := NewReader(w.Bytes())
	_, err := r.ReadBlob32()
	require.Error(t, err)
	assert.Equal(t, "decode error at offset 0: length 10 overruns remaining 3 bytes", err.Error())
}

func TestReadRawCopies(t *testing.T) {
	data := []byte{1, 2, 3}
	r := NewReader(data)
	out, err := r.ReadRaw(3)
	require.NoError(t, err)
	data[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, out)
}
