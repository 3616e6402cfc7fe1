package auxdata

import (
	"fmt"
	"math"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/roach88/auxdata/internal/codec"
	"github.com/roach88/auxdata/internal/schema"
)

// minEntrySize is the encoded size of an entry with an empty name and blob.
const minEntrySize = 8

// MarshalTable encodes c as a container table. Entries keep their
// insertion order and their bytes, including those of unknown schemas.
// Names UnmarshalTable would reject (empty or not UTF-8) are an
// *codec.EncodeError.
func MarshalTable(c *Container) ([]byte, error) {
	w := codec.NewWriter()
	w.WriteU32(uint32(len(c.entries)))
	for _, e := range c.entries {
		if e.name == "" || !utf8.ValidString(e.name) {
			return nil, &codec.EncodeError{Err: fmt.Errorf("entry name %q is empty or not valid UTF-8", e.name)}
		}
		if uint64(len(e.raw)) > math.MaxUint32 || uint64(len(e.name)) > math.MaxUint32 {
			return nil, &codec.EncodeError{Err: &tableLimitError{name: e.name, size: len(e.raw)}}
		}
		w.WriteBlob32([]byte(e.name))
		w.WriteBlob32(e.raw)
	}
	return w.Bytes(), nil
}

type tableLimitError struct {
	name string
	size int
}

func (e *tableLimitError) Error() string {
	return fmt.Sprintf("entry %q (%d bytes) exceeds the 4 GiB table limit", e.name, e.size)
}

// UnmarshalTable decodes a container table. The registry is attached to
// the result but not consulted: every entry is kept in encoded form.
//
// Returns *codec.DecodeError on truncation, trailing bytes, an empty or
// non-UTF-8 name, or a name that appears twice.
func UnmarshalTable(data []byte, reg *schema.Registry) (*Container, error) {
	r := codec.NewReader(data)
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if uint64(count)*minEntrySize > uint64(r.Remaining()) {
		return nil, r.Errorf(0, "entry count %d overruns remaining %d bytes", count, r.Remaining())
	}

	c := New(reg)
	for i := uint32(0); i < count; i++ {
		at := r.Position()
		name, err := r.ReadBlob32()
		if err != nil {
			return nil, err
		}
		if len(name) == 0 {
			return nil, r.Errorf(at, "entry %d has an empty name", i)
		}
		if !utf8.Valid(name) {
			return nil, r.Errorf(at, "entry %d name is not valid UTF-8", i)
		}
		if c.Has(string(name)) {
			return nil, r.Errorf(at, "duplicate entry %q", name)
		}
		blob, err := r.ReadBlob32()
		if err != nil {
			return nil, err
		}
		// ReadBlob32 already copied the bytes.
		c.put(string(name), blob, nil)
		if reg != nil && !reg.Has(string(name)) {
			Logger().Debug("keeping entry with unknown schema",
				zap.String("name", string(name)), zap.Int("size", len(blob)))
		}
	}
	if err := r.ExpectEnd(); err != nil {
		return nil, err
	}
	return c, nil
}
