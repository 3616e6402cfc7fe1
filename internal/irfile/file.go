package irfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roach88/auxdata/internal/auxdata"
	"github.com/roach88/auxdata/internal/codec"
	"github.com/roach88/auxdata/internal/schema"
)

// Magic opens every file.
const Magic = "GTAX"

// Version is the current format version.
const Version uint16 = 1

const headerSize = 4 + 2 + 1 + 1 + 32 + 8 + 8

// maxRawLen bounds the decompressed payload size accepted by Read.
const maxRawLen = 1 << 32

// minObjectSize is an object with an empty table body: UUID and length.
const minObjectSize = 16 + 4

var (
	// ErrBadMagic is returned when the input does not start with Magic.
	ErrBadMagic = errors.New("not an auxdata IR file")

	// ErrUnsupportedVersion is returned for a version other than Version.
	ErrUnsupportedVersion = errors.New("unsupported IR file version")

	// ErrDigestMismatch is returned when the payload does not match the
	// digest stored in the header.
	ErrDigestMismatch = errors.New("payload digest mismatch")

	// ErrDuplicateObject is returned by Add for an object already present.
	ErrDuplicateObject = errors.New("duplicate object")
)

// Object is the auxiliary data attached to one IR object.
type Object struct {
	ID  uuid.UUID
	Aux *auxdata.Container
}

// File is an ordered list of objects.
type File struct {
	// Compression is the algorithm the file was read or last written
	// with. Write takes the algorithm from Options and records the one
	// it actually used here.
	Compression Compression

	// Digest is the payload digest, set by Read and Write.
	Digest Digest

	Objects []Object
}

// Add appends an object. Object ids are unique within a file.
func (f *File) Add(id uuid.UUID, c *auxdata.Container) error {
	if _, ok := f.Container(id); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateObject, id)
	}
	f.Objects = append(f.Objects, Object{ID: id, Aux: c})
	return nil
}

// Container returns the container of the object with the given id.
func (f *File) Container(id uuid.UUID) (*auxdata.Container, bool) {
	for _, o := range f.Objects {
		if o.ID == id {
			return o.Aux, true
		}
	}
	return nil, false
}

// Options configures Write.
type Options struct {
	Compression Compression
}

// MarshalPayload encodes the objects of f without the file header.
func MarshalPayload(f *File) ([]byte, error) {
	if uint64(len(f.Objects)) > math.MaxUint32 {
		return nil, fmt.Errorf("too many objects: %d", len(f.Objects))
	}
	w := codec.NewWriter()
	w.WriteU32(uint32(len(f.Objects)))
	seen := make(map[uuid.UUID]bool, len(f.Objects))
	for _, o := range f.Objects {
		if seen[o.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateObject, o.ID)
		}
		seen[o.ID] = true

		table, err := auxdata.MarshalTable(o.Aux)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", o.ID, err)
		}
		if uint64(len(table)) > math.MaxUint32 {
			return nil, fmt.Errorf("object %s: table of %d bytes exceeds the 4 GiB limit", o.ID, len(table))
		}
		w.WriteRaw(o.ID[:])
		w.WriteBlob32(table)
	}
	return w.Bytes(), nil
}

// UnmarshalPayload decodes objects from a payload. Containers resolve
// names against reg.
func UnmarshalPayload(payload []byte, reg *schema.Registry) ([]Object, error) {
	r := codec.NewReader(payload)
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if uint64(count)*minObjectSize > uint64(r.Remaining()) {
		return nil, r.Errorf(0, "object count %d overruns remaining %d bytes", count, r.Remaining())
	}

	objects := make([]Object, 0, count)
	seen := make(map[uuid.UUID]bool, count)
	for i := uint32(0); i < count; i++ {
		at := r.Position()
		raw, err := r.ReadRaw(16)
		if err != nil {
			return nil, err
		}
		id := uuid.UUID(raw)
		if seen[id] {
			return nil, r.Errorf(at, "duplicate object %s", id)
		}
		seen[id] = true

		table, err := r.ReadBlob32()
		if err != nil {
			return nil, err
		}
		c, err := auxdata.UnmarshalTable(table, reg)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", id, err)
		}
		objects = append(objects, Object{ID: id, Aux: c})
	}
	if err := r.ExpectEnd(); err != nil {
		return nil, err
	}
	return objects, nil
}

// Write encodes f to w. Incompressible payloads are stored uncompressed
// whatever opts asks for.
func Write(w io.Writer, f *File, opts Options) error {
	payload, err := MarshalPayload(f)
	if err != nil {
		return err
	}

	tag := opts.Compression
	body, err := compress(payload, tag)
	if errors.Is(err, errIncompressible) {
		tag, body = CompressionNone, payload
	} else if err != nil {
		return err
	}

	digest := digestPayload(payload)
	hw := codec.NewWriter()
	hw.WriteRaw([]byte(Magic))
	hw.WriteU16(Version)
	hw.WriteU8(uint8(tag))
	hw.WriteU8(0)
	hw.WriteRaw(digest[:])
	hw.WriteU64(uint64(len(payload)))
	hw.WriteU64(uint64(len(body)))

	if _, err := w.Write(hw.Bytes()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}

	f.Compression = tag
	f.Digest = digest
	Logger().Debug("wrote IR file",
		zap.Int("objects", len(f.Objects)),
		zap.Stringer("compression", tag),
		zap.Int("raw_bytes", len(payload)),
		zap.Int("body_bytes", len(body)))
	return nil
}

// Read decodes a file from r. Entries whose schema is not in reg are
// kept in encoded form.
func Read(r io.Reader, reg *schema.Registry) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read IR file: %w", err)
	}
	return Unmarshal(data, reg)
}

// Unmarshal decodes a complete file held in memory.
func Unmarshal(data []byte, reg *schema.Registry) (*File, error) {
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return nil, ErrBadMagic
	}
	hr := codec.NewReader(data)
	if _, err := hr.ReadRaw(len(Magic)); err != nil {
		return nil, err
	}
	version, err := hr.ReadU16()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	tagByte, err := hr.ReadU8()
	if err != nil {
		return nil, err
	}
	tag := Compression(tagByte)
	reserved, err := hr.ReadU8()
	if err != nil {
		return nil, err
	}
	if reserved != 0 {
		return nil, hr.Errorf(hr.Position()-1, "reserved byte is %#x, want 0", reserved)
	}
	rawDigest, err := hr.ReadRaw(32)
	if err != nil {
		return nil, err
	}
	rawLen, err := hr.ReadU64()
	if err != nil {
		return nil, err
	}
	bodyLen, err := hr.ReadU64()
	if err != nil {
		return nil, err
	}
	if bodyLen != uint64(hr.Remaining()) {
		return nil, hr.Errorf(headerSize, "body length %d does not match remaining %d bytes", bodyLen, hr.Remaining())
	}
	if rawLen > maxRawLen {
		return nil, hr.Errorf(headerSize-16, "payload length %d exceeds limit", rawLen)
	}

	payload, err := decompress(data[headerSize:], tag, int(rawLen))
	if err != nil {
		return nil, err
	}

	var want Digest
	copy(want[:], rawDigest)
	if got := digestPayload(payload); got != want {
		return nil, fmt.Errorf("%w: header %s, payload %s", ErrDigestMismatch, want, got)
	}

	objects, err := UnmarshalPayload(payload, reg)
	if err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}

	Logger().Debug("read IR file",
		zap.Int("objects", len(objects)),
		zap.Stringer("compression", tag),
		zap.Uint64("raw_bytes", rawLen))
	return &File{Compression: tag, Digest: want, Objects: objects}, nil
}

// ReadFile reads the file at path.
func ReadFile(path string, reg *schema.Registry) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Unmarshal(data, reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// WriteFile writes f to path, replacing any existing file.
func WriteFile(path string, f *File, opts Options) error {
	var buf bytes.Buffer
	if err := Write(&buf, f, opts); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
