package catalog

import (
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/auxdata/internal/auxdata"
	"github.com/roach88/auxdata/internal/ir"
	"github.com/roach88/auxdata/internal/schema"
)

// Schema binds a wire name and shape to the Go type T.
type Schema[T any] struct {
	Name  string
	Shape ir.Shape

	// ToValue converts a Go value into the generic model. Set rejects
	// the result if it does not conform to Shape (for example a set
	// view with duplicate elements).
	ToValue func(T) ir.AuxValue

	// FromValue converts a decoded value back into T.
	FromValue func(ir.AuxValue) (T, error)
}

// Schema returns the untyped (name, shape) pair.
func (s Schema[T]) Schema() schema.Schema {
	return schema.Schema{Name: s.Name, Shape: s.Shape}
}

// Get reads the entry for s from c.
func Get[T any](c *auxdata.Container, s Schema[T]) (T, error) {
	var zero T
	v, err := c.Get(s.Name, s.Shape)
	if err != nil {
		return zero, err
	}
	return s.FromValue(v)
}

// Set stores v as the entry for s in c.
func Set[T any](c *auxdata.Container, s Schema[T], v T) error {
	return c.Set(s.Name, s.ToValue(v))
}

// SCCs maps code blocks to the strongly connected component they belong
// to in the intra-procedural CFG.
var SCCs = Schema[map[uuid.UUID]int64]{
	Name:  "SCCs",
	Shape: ir.MustParseShape("mapping<UUID,int64_t>"),
	ToValue: func(m map[uuid.UUID]int64) ir.AuxValue {
		out := make(ir.AuxMap, 0, len(m))
		for k, v := range m {
			out = append(out, ir.P(ir.AuxUUID(k), ir.AuxInt(v)))
		}
		return out
	},
	FromValue: func(v ir.AuxValue) (map[uuid.UUID]int64, error) {
		var u unpacker
		pairs := u.mapping(v)
		out := make(map[uuid.UUID]int64, len(pairs))
		for _, p := range pairs {
			out[u.id(p.Key)] = u.i64(p.Value)
		}
		return out, u.err
	},
}

// Relocations describes the binary's relocation records.
var Relocations = Schema[[]Relocation]{
	Name:  "relocations",
	Shape: ir.SetOf(RelocationShape),
	ToValue: func(rs []Relocation) ir.AuxValue {
		out := make(ir.AuxSet, len(rs))
		for i, r := range rs {
			out[i] = r.Value()
		}
		return out
	},
	FromValue: func(v ir.AuxValue) ([]Relocation, error) {
		var u unpacker
		elems := u.list(v)
		out := make([]Relocation, 0, len(elems))
		for _, e := range elems {
			out = append(out, u.relocation(e))
		}
		return out, u.err
	},
}

// DynamicEntries describes the binary's ELF dynamic entries.
var DynamicEntries = Schema[[]ElfDynamicEntry]{
	Name:  "dynamicEntries",
	Shape: ir.SetOf(ElfDynamicEntryShape),
	ToValue: func(es []ElfDynamicEntry) ir.AuxValue {
		out := make(ir.AuxSet, len(es))
		for i, e := range es {
			out[i] = e.Value()
		}
		return out
	},
	FromValue: func(v ir.AuxValue) ([]ElfDynamicEntry, error) {
		var u unpacker
		elems := u.list(v)
		out := make([]ElfDynamicEntry, 0, len(elems))
		for _, e := range elems {
			out = append(out, u.dynamicEntry(e))
		}
		return out, u.err
	},
}

// SectionIndex maps ELF section indices to section UUIDs.
var SectionIndex = Schema[map[uint64]uuid.UUID]{
	Name:  "sectionIndex",
	Shape: ir.MustParseShape("mapping<uint64_t,UUID>"),
	ToValue: func(m map[uint64]uuid.UUID) ir.AuxValue {
		out := make(ir.AuxMap, 0, len(m))
		for k, v := range m {
			out = append(out, ir.P(ir.AuxUint(k), ir.AuxUUID(v)))
		}
		return out
	},
	FromValue: func(v ir.AuxValue) (map[uint64]uuid.UUID, error) {
		var u unpacker
		pairs := u.mapping(v)
		out := make(map[uint64]uuid.UUID, len(pairs))
		for _, p := range pairs {
			out[u.u64(p.Key)] = u.id(p.Value)
		}
		return out, u.err
	},
}

// DdisasmVersion is the version of the disassembler that produced the IR.
var DdisasmVersion = Schema[string]{
	Name:  "ddisasmVersion",
	Shape: ir.StringShape,
	ToValue: func(s string) ir.AuxValue {
		return ir.AuxString(s)
	},
	FromValue: func(v ir.AuxValue) (string, error) {
		var u unpacker
		s := u.str(v)
		return s, u.err
	},
}

// PeLoadConfig maps PE load configuration field names to their values.
var PeLoadConfig = Schema[map[string]uint64]{
	Name:    "peLoadConfig",
	Shape:   ir.MustParseShape("mapping<string,uint64_t>"),
	ToValue: stringMapToValue(func(x uint64) ir.AuxValue { return ir.AuxUint(x) }),
	FromValue: func(v ir.AuxValue) (map[string]uint64, error) {
		var u unpacker
		pairs := u.mapping(v)
		out := make(map[string]uint64, len(pairs))
		for _, p := range pairs {
			out[u.str(p.Key)] = u.u64(p.Value)
		}
		return out, u.err
	},
}

// PeResources lists the PE image's resources.
var PeResources = Schema[[]PeResource]{
	Name:  "peResources",
	Shape: ir.SequenceOf(PeResourceShape),
	ToValue: func(rs []PeResource) ir.AuxValue {
		out := make(ir.AuxSeq, len(rs))
		for i, r := range rs {
			out[i] = r.Value()
		}
		return out
	},
	FromValue: func(v ir.AuxValue) ([]PeResource, error) {
		var u unpacker
		elems := u.list(v)
		out := make([]PeResource, 0, len(elems))
		for _, e := range elems {
			out = append(out, u.resource(e))
		}
		return out, u.err
	},
}

// PeDataDirectories lists the PE data directory entries.
var PeDataDirectories = Schema[[]PeDataDirectory]{
	Name:  "peDataDirectories",
	Shape: ir.SequenceOf(PeDataDirectoryShape),
	ToValue: func(ds []PeDataDirectory) ir.AuxValue {
		out := make(ir.AuxSeq, len(ds))
		for i, d := range ds {
			out[i] = d.Value()
		}
		return out
	},
	FromValue: func(v ir.AuxValue) ([]PeDataDirectory, error) {
		var u unpacker
		elems := u.list(v)
		out := make([]PeDataDirectory, 0, len(elems))
		for _, e := range elems {
			t := u.tuple(e, 3)
			out = append(out, PeDataDirectory{Type: u.str(t[0]), Address: u.u64(t[1]), Size: u.u64(t[2])})
		}
		return out, u.err
	},
}

// PeDebugDataList bounds the debug data regions of a PE image.
var PeDebugDataList = Schema[[]PeDebugData]{
	Name:  "peDebugData",
	Shape: ir.SequenceOf(PeDebugDataShape),
	ToValue: func(ds []PeDebugData) ir.AuxValue {
		out := make(ir.AuxSeq, len(ds))
		for i, d := range ds {
			out[i] = d.Value()
		}
		return out
	},
	FromValue: func(v ir.AuxValue) ([]PeDebugData, error) {
		var u unpacker
		elems := u.list(v)
		out := make([]PeDebugData, 0, len(elems))
		for _, e := range elems {
			t := u.tuple(e, 3)
			out = append(out, PeDebugData{Type: u.str(t[0]), Address: u.u64(t[1]), Size: u.u64(t[2])})
		}
		return out, u.err
	},
}

var souffleShape = ir.MappingOf(ir.StringShape, SouffleFileShape)

func souffleToValue(m map[string]SouffleFile) ir.AuxValue {
	return stringMapToValue(func(f SouffleFile) ir.AuxValue { return f.Value() })(m)
}

func souffleFromValue(v ir.AuxValue) (map[string]SouffleFile, error) {
	var u unpacker
	pairs := u.mapping(v)
	out := make(map[string]SouffleFile, len(pairs))
	for _, p := range pairs {
		out[u.str(p.Key)] = u.souffleFile(p.Value)
	}
	return out, u.err
}

// SouffleFacts holds the Souffle input relations by file name.
var SouffleFacts = Schema[map[string]SouffleFile]{
	Name:      "souffleFacts",
	Shape:     souffleShape,
	ToValue:   souffleToValue,
	FromValue: souffleFromValue,
}

// SouffleOutputs holds the Souffle output relations by file name.
var SouffleOutputs = Schema[map[string]SouffleFile]{
	Name:      "souffleOutputs",
	Shape:     souffleShape,
	ToValue:   souffleToValue,
	FromValue: souffleFromValue,
}

// RawEntries lists candidate entry points of a raw binary.
var RawEntries = Schema[[]uint64]{
	Name:  "rawEntries",
	Shape: ir.SequenceOf(ir.Uint64),
	ToValue: func(xs []uint64) ir.AuxValue {
		out := make(ir.AuxSeq, len(xs))
		for i, x := range xs {
			out[i] = ir.AuxUint(x)
		}
		return out
	},
	FromValue: func(v ir.AuxValue) ([]uint64, error) {
		var u unpacker
		elems := u.list(v)
		out := make([]uint64, 0, len(elems))
		for _, e := range elems {
			out = append(out, u.u64(e))
		}
		return out, u.err
	},
}

// ArchInfo describes the target architecture as key/value strings.
var ArchInfo = Schema[map[string]string]{
	Name:    "archInfo",
	Shape:   ir.MustParseShape("mapping<string,string>"),
	ToValue: stringMapToValue(func(s string) ir.AuxValue { return ir.AuxString(s) }),
	FromValue: func(v ir.AuxValue) (map[string]string, error) {
		var u unpacker
		pairs := u.mapping(v)
		out := make(map[string]string, len(pairs))
		for _, p := range pairs {
			out[u.str(p.Key)] = u.str(p.Value)
		}
		return out, u.err
	},
}

// Overlay holds bytes appended to the binary that are not loaded.
var Overlay = Schema[[]byte]{
	Name:  "overlay",
	Shape: ir.BytesShape,
	ToValue: func(b []byte) ir.AuxValue {
		return ir.AuxBytes(slices.Clone(b))
	},
	FromValue: func(v ir.AuxValue) ([]byte, error) {
		var u unpacker
		b := u.blob(v)
		return b, u.err
	},
}

// SymbolicExpressionInfo records the type and variant of symbolic
// expressions by location.
var SymbolicExpressionInfo = Schema[map[SymbolicExpressionKey]SymbolicExpressionAttr]{
	Name:  "symbolicExpressionInfo",
	Shape: ir.MustParseShape("mapping<tuple<UUID,uint64_t>,tuple<uint32_t,uint32_t>>"),
	ToValue: func(m map[SymbolicExpressionKey]SymbolicExpressionAttr) ir.AuxValue {
		out := make(ir.AuxMap, 0, len(m))
		for k, a := range m {
			out = append(out, ir.P(
				ir.T(ir.AuxUUID(k.Block), ir.AuxUint(k.Offset)),
				ir.T(ir.AuxUint(a.Type), ir.AuxUint(a.Variant)),
			))
		}
		return out
	},
	FromValue: func(v ir.AuxValue) (map[SymbolicExpressionKey]SymbolicExpressionAttr, error) {
		var u unpacker
		pairs := u.mapping(v)
		out := make(map[SymbolicExpressionKey]SymbolicExpressionAttr, len(pairs))
		for _, p := range pairs {
			k := u.tuple(p.Key, 2)
			a := u.tuple(p.Value, 2)
			key := SymbolicExpressionKey{Block: u.id(k[0]), Offset: u.u64(k[1])}
			out[key] = SymbolicExpressionAttr{Type: uint32(u.u64(a[0])), Variant: uint32(u.u64(a[1]))}
		}
		return out, u.err
	},
}

func stringMapToValue[V any](conv func(V) ir.AuxValue) func(map[string]V) ir.AuxValue {
	return func(m map[string]V) ir.AuxValue {
		out := make(ir.AuxMap, 0, len(m))
		for k, v := range m {
			out = append(out, ir.P(ir.AuxString(k), conv(v)))
		}
		return out
	}
}

// All returns the catalogue schemas in declaration order.
func All() []schema.Schema {
	return []schema.Schema{
		SCCs.Schema(),
		Relocations.Schema(),
		DynamicEntries.Schema(),
		SectionIndex.Schema(),
		DdisasmVersion.Schema(),
		PeLoadConfig.Schema(),
		PeResources.Schema(),
		PeDataDirectories.Schema(),
		PeDebugDataList.Schema(),
		SouffleFacts.Schema(),
		SouffleOutputs.Schema(),
		RawEntries.Schema(),
		ArchInfo.Schema(),
		Overlay.Schema(),
		SymbolicExpressionInfo.Schema(),
	}
}

// Register adds the catalogue to reg. It fails with *schema.ConflictError
// if reg already holds one of the names under a different shape.
func Register(reg *schema.Registry) error {
	return reg.RegisterAll(All())
}

// NewRegistry returns a registry holding the catalogue. A conflict here
// means the catalogue itself is inconsistent, so it panics.
func NewRegistry() *schema.Registry {
	reg := schema.New()
	for _, s := range All() {
		reg.MustRegister(s.Name, s.Shape)
	}
	return reg
}
