package catalog

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/auxdata/internal/ir"
)

// Tuple shapes shared by several schemas.
var (
	OffsetShape          = ir.OffsetShape
	ElfDynamicEntryShape = ir.MustParseShape("tuple<string,uint64_t>")
	ElfSymbolInfoShape   = ir.MustParseShape("tuple<uint64_t,string,string,string,uint64_t>")
	// ElfSymbolTabIdxInfoShape is a whole value, not a single tuple.
	ElfSymbolTabIdxInfoShape = ir.MustParseShape("sequence<tuple<string,uint64_t>>")
	PeDataDirectoryShape     = ir.MustParseShape("tuple<string,uint64_t,uint64_t>")
	PeDebugDataShape         = PeDataDirectoryShape
	PeExportEntryShape       = ir.MustParseShape("tuple<uint64_t,int64_t,string>")
	PeImportEntryShape       = ir.MustParseShape("tuple<uint64_t,int64_t,string,string>")
	PeResourceShape          = ir.MustParseShape("tuple<bytes,Offset,uint64_t>")
	RelocationShape          = ir.MustParseShape("tuple<uint64_t,string,string,int64_t,uint64_t,string,string>")
	SouffleFileShape         = ir.MustParseShape("tuple<string,string>")
)

// Offset locates a displacement inside an IR element.
type Offset struct {
	ElementID    uuid.UUID
	Displacement uint64
}

// Value converts o to its generic form.
func (o Offset) Value() ir.AuxValue {
	return ir.T(ir.AuxUUID(o.ElementID), ir.AuxUint(o.Displacement))
}

// ElfDynamicEntry is one entry of the ELF dynamic section.
type ElfDynamicEntry struct {
	Tag string
	Val uint64
}

// Value converts e to its generic form.
func (e ElfDynamicEntry) Value() ir.AuxValue {
	return ir.T(ir.AuxString(e.Tag), ir.AuxUint(e.Val))
}

// ElfSymbolInfo describes an ELF symbol table entry.
type ElfSymbolInfo struct {
	Size         uint64
	Type         string
	Binding      string
	Visibility   string
	SectionIndex uint64
}

// Value converts s to its generic form.
func (s ElfSymbolInfo) Value() ir.AuxValue {
	return ir.T(ir.AuxUint(s.Size), ir.AuxString(s.Type), ir.AuxString(s.Binding),
		ir.AuxString(s.Visibility), ir.AuxUint(s.SectionIndex))
}

// ElfSymbolTabIdx names a symbol table and the symbol's index in it.
type ElfSymbolTabIdx struct {
	Table string
	Index uint64
}

// ElfSymbolTabIdxInfo lists the symbol tables a symbol appears in.
type ElfSymbolTabIdxInfo []ElfSymbolTabIdx

// Value converts info to its generic form.
func (info ElfSymbolTabIdxInfo) Value() ir.AuxValue {
	out := make(ir.AuxSeq, len(info))
	for i, e := range info {
		out[i] = ir.T(ir.AuxString(e.Table), ir.AuxUint(e.Index))
	}
	return out
}

// PeDataDirectory is one entry of the PE optional header's data directory.
type PeDataDirectory struct {
	Type    string
	Address uint64
	Size    uint64
}

// Value converts d to its generic form.
func (d PeDataDirectory) Value() ir.AuxValue {
	return ir.T(ir.AuxString(d.Type), ir.AuxUint(d.Address), ir.AuxUint(d.Size))
}

// PeDebugData bounds one debug data region of a PE image.
type PeDebugData struct {
	Type    string
	Address uint64
	Size    uint64
}

// Value converts d to its generic form.
func (d PeDebugData) Value() ir.AuxValue {
	return ir.T(ir.AuxString(d.Type), ir.AuxUint(d.Address), ir.AuxUint(d.Size))
}

// PeExportEntry is one exported PE symbol.
type PeExportEntry struct {
	Address uint64
	Ordinal int64
	Name    string
}

// Value converts e to its generic form.
func (e PeExportEntry) Value() ir.AuxValue {
	return ir.T(ir.AuxUint(e.Address), ir.AuxInt(e.Ordinal), ir.AuxString(e.Name))
}

// PeImportEntry is one imported PE function.
type PeImportEntry struct {
	IatAddress uint64
	Ordinal    int64
	Function   string
	Library    string
}

// Value converts e to its generic form.
func (e PeImportEntry) Value() ir.AuxValue {
	return ir.T(ir.AuxUint(e.IatAddress), ir.AuxInt(e.Ordinal),
		ir.AuxString(e.Function), ir.AuxString(e.Library))
}

// PeResource is a PE resource: its raw header, where its data lives,
// and the data length.
type PeResource struct {
	Header []byte
	Data   Offset
	Size   uint64
}

// Value converts r to its generic form.
func (r PeResource) Value() ir.AuxValue {
	return ir.T(ir.AuxBytes(slices.Clone(r.Header)), r.Data.Value(), ir.AuxUint(r.Size))
}

// Relocation is one relocation record.
type Relocation struct {
	Address     uint64
	Type        string
	Name        string
	Addend      int64
	SymbolIndex uint64
	SectionName string
	RelType     string
}

// Value converts r to its generic form.
func (r Relocation) Value() ir.AuxValue {
	return ir.T(ir.AuxUint(r.Address), ir.AuxString(r.Type), ir.AuxString(r.Name),
		ir.AuxInt(r.Addend), ir.AuxUint(r.SymbolIndex), ir.AuxString(r.SectionName),
		ir.AuxString(r.RelType))
}

// SouffleFile is a Souffle relation file: its type signature and CSV body.
type SouffleFile struct {
	TypeSignature string
	CSV           string
}

// Value converts f to its generic form.
func (f SouffleFile) Value() ir.AuxValue {
	return ir.T(ir.AuxString(f.TypeSignature), ir.AuxString(f.CSV))
}

// SymbolicExpressionKey locates a symbolic expression inside a block.
type SymbolicExpressionKey struct {
	Block  uuid.UUID
	Offset uint64
}

// SymbolicExpressionAttr records a symbolic expression's type and variant.
type SymbolicExpressionAttr struct {
	Type    uint32
	Variant uint32
}

// unpacker converts generic values into Go values, keeping the first
// failure. Once failed, every method returns a zero value.
type unpacker struct {
	err error
}

func (u *unpacker) fail(v ir.AuxValue, want string) {
	if u.err == nil {
		u.err = fmt.Errorf("catalog: want %s, got %T", want, v)
	}
}

func (u *unpacker) u64(v ir.AuxValue) uint64 {
	x, ok := v.(ir.AuxUint)
	if !ok {
		u.fail(v, "unsigned integer")
	}
	return uint64(x)
}

func (u *unpacker) i64(v ir.AuxValue) int64 {
	x, ok := v.(ir.AuxInt)
	if !ok {
		u.fail(v, "signed integer")
	}
	return int64(x)
}

func (u *unpacker) str(v ir.AuxValue) string {
	x, ok := v.(ir.AuxString)
	if !ok {
		u.fail(v, "string")
	}
	return string(x)
}

func (u *unpacker) id(v ir.AuxValue) uuid.UUID {
	x, ok := v.(ir.AuxUUID)
	if !ok {
		u.fail(v, "UUID")
	}
	return uuid.UUID(x)
}

func (u *unpacker) blob(v ir.AuxValue) []byte {
	x, ok := v.(ir.AuxBytes)
	if !ok {
		u.fail(v, "bytes")
	}
	return slices.Clone([]byte(x))
}

// tuple always returns n elements so callers can index it freely.
func (u *unpacker) tuple(v ir.AuxValue, n int) ir.AuxTuple {
	x, ok := v.(ir.AuxTuple)
	if !ok || len(x) != n {
		u.fail(v, fmt.Sprintf("%d-tuple", n))
		return make(ir.AuxTuple, n)
	}
	return x
}

// list accepts a sequence or a set.
func (u *unpacker) list(v ir.AuxValue) []ir.AuxValue {
	switch x := v.(type) {
	case ir.AuxSeq:
		return x
	case ir.AuxSet:
		return x
	}
	u.fail(v, "sequence or set")
	return nil
}

func (u *unpacker) mapping(v ir.AuxValue) ir.AuxMap {
	x, ok := v.(ir.AuxMap)
	if !ok {
		u.fail(v, "mapping")
	}
	return x
}

func (u *unpacker) offset(v ir.AuxValue) Offset {
	t := u.tuple(v, 2)
	return Offset{ElementID: u.id(t[0]), Displacement: u.u64(t[1])}
}

func (u *unpacker) dynamicEntry(v ir.AuxValue) ElfDynamicEntry {
	t := u.tuple(v, 2)
	return ElfDynamicEntry{Tag: u.str(t[0]), Val: u.u64(t[1])}
}

func (u *unpacker) relocation(v ir.AuxValue) Relocation {
	t := u.tuple(v, 7)
	return Relocation{
		Address:     u.u64(t[0]),
		Type:        u.str(t[1]),
		Name:        u.str(t[2]),
		Addend:      u.i64(t[3]),
		SymbolIndex: u.u64(t[4]),
		SectionName: u.str(t[5]),
		RelType:     u.str(t[6]),
	}
}

func (u *unpacker) resource(v ir.AuxValue) PeResource {
	t := u.tuple(v, 3)
	return PeResource{Header: u.blob(t[0]), Data: u.offset(t[1]), Size: u.u64(t[2])}
}

func (u *unpacker) souffleFile(v ir.AuxValue) SouffleFile {
	t := u.tuple(v, 2)
	return SouffleFile{TypeSignature: u.str(t[0]), CSV: u.str(t[1])}
}

// ParseOffset converts a generic value of OffsetShape.
func ParseOffset(v ir.AuxValue) (Offset, error) {
	var u unpacker
	o := u.offset(v)
	return o, u.err
}

// ParseElfSymbolInfo converts a generic value of ElfSymbolInfoShape.
func ParseElfSymbolInfo(v ir.AuxValue) (ElfSymbolInfo, error) {
	var u unpacker
	t := u.tuple(v, 5)
	s := ElfSymbolInfo{
		Size:         u.u64(t[0]),
		Type:         u.str(t[1]),
		Binding:      u.str(t[2]),
		Visibility:   u.str(t[3]),
		SectionIndex: u.u64(t[4]),
	}
	return s, u.err
}

// ParseElfSymbolTabIdxInfo converts a generic value of ElfSymbolTabIdxInfoShape.
func ParseElfSymbolTabIdxInfo(v ir.AuxValue) (ElfSymbolTabIdxInfo, error) {
	var u unpacker
	elems := u.list(v)
	out := make(ElfSymbolTabIdxInfo, 0, len(elems))
	for _, e := range elems {
		t := u.tuple(e, 2)
		out = append(out, ElfSymbolTabIdx{Table: u.str(t[0]), Index: u.u64(t[1])})
	}
	return out, u.err
}

// ParsePeExportEntry converts a generic value of PeExportEntryShape.
func ParsePeExportEntry(v ir.AuxValue) (PeExportEntry, error) {
	var u unpacker
	t := u.tuple(v, 3)
	e := PeExportEntry{Address: u.u64(t[0]), Ordinal: u.i64(t[1]), Name: u.str(t[2])}
	return e, u.err
}

// ParsePeImportEntry converts a generic value of PeImportEntryShape.
func ParsePeImportEntry(v ir.AuxValue) (PeImportEntry, error) {
	var u unpacker
	t := u.tuple(v, 4)
	e := PeImportEntry{
		IatAddress: u.u64(t[0]),
		Ordinal:    u.i64(t[1]),
		Function:   u.str(t[2]),
		Library:    u.str(t[3]),
	}
	return e, u.err
}
