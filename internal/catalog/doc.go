// Package catalog declares the auxiliary data schemas produced by the
// disassembler and gives each a typed Go view.
//
// Every schema is a Schema[T] pairing the wire name and shape with
// conversions between T and the generic value model:
//
//	reg := catalog.NewRegistry()
//	c := auxdata.New(reg)
//	err := catalog.Set(c, catalog.DynamicEntries, []catalog.ElfDynamicEntry{
//		{Tag: "DT_NEEDED", Val: 1},
//	})
//	entries, err := catalog.Get(c, catalog.DynamicEntries)
//
// Extension schemas declared outside this package can be registered
// into the same registry after NewRegistry returns.
package catalog
