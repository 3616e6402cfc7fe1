package codec

import (
	"bytes"
	"encoding/binary"
)

// Writer accumulates little-endian encoded data.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteU8 writes a single byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf.WriteByte(v)
}

// WriteU16 writes a little-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// WriteU32 writes a little-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteU64 writes a little-endian uint64.
func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteRaw writes data with no prefix.
func (w *Writer) WriteRaw(data []byte) {
	w.buf.Write(data)
}

// WriteBlob64 writes a u64 length followed by data.
func (w *Writer) WriteBlob64(data []byte) {
	w.WriteU64(uint64(len(data)))
	w.buf.Write(data)
}

// WriteBlob32 writes a u32 length followed by data.
// The caller guarantees len(data) fits in 32 bits.
func (w *Writer) WriteBlob32(data []byte) {
	w.WriteU32(uint32(len(data)))
	w.buf.Write(data)
}
