package codec

import (
	"encoding/binary"
	"fmt"
)

// Reader decodes little-endian data from a byte slice with position
// tracking. Every failure is a *DecodeError carrying the offset.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data. data is not copied.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte offset.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Errorf builds a *DecodeError at the given offset.
func (r *Reader) Errorf(offset int, format string, args ...any) error {
	return &DecodeError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

func (r *Reader) take(n int, what string) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, r.Errorf(r.pos, "truncated %s: need %d bytes, have %d", what, n, r.Remaining())
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1, "u8")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2, "u16")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4, "u32")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8, "u64")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadRaw reads exactly n bytes and returns a copy.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	b, err := r.take(n, "data")
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadBlob64 reads a u64 length and that many bytes.
func (r *Reader) ReadBlob64() ([]byte, error) {
	at := r.pos
	n, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Remaining()) {
		return nil, r.Errorf(at, "length %d overruns remaining %d bytes", n, r.Remaining())
	}
	return r.ReadRaw(int(n))
}

// ReadBlob32 reads a u32 length and that many bytes.
func (r *Reader) ReadBlob32() ([]byte, error) {
	at := r.pos
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(r.Remaining()) {
		return nil, r.Errorf(at, "length %d overruns remaining %d bytes", n, r.Remaining())
	}
	return r.ReadRaw(int(n))
}

// ExpectEnd fails if unread bytes remain.
func (r *Reader) ExpectEnd() error {
	if r.Remaining() != 0 {
		return r.Errorf(r.pos, "%d trailing byte(s)", r.Remaining())
	}
	return nil
}
