package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/auxdata/internal/auxdata"
	"github.com/roach88/auxdata/internal/ir"
	"github.com/roach88/auxdata/internal/irfile"
)

// DumpResult describes a whole IR file.
type DumpResult struct {
	Compression string       `json:"compression"`
	Digest      string       `json:"digest"`
	Objects     []DumpObject `json:"objects"`
}

// DumpObject describes the container of one IR object.
type DumpObject struct {
	ID      string      `json:"id"`
	Entries []DumpEntry `json:"entries"`
}

// DumpEntry describes one entry. Exactly one of Value, Unknown and
// Error is meaningful.
type DumpEntry struct {
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Type    string `json:"type,omitempty"`
	Value   any    `json:"value,omitempty"`
	Unknown bool   `json:"unknown,omitempty"`
	Error   string `json:"error,omitempty"`

	text string
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <irfile>",
		Short: "Print every auxiliary data entry of an IR file",
		Long: `Print, per object and per entry, the entry name, its encoded size and
its decoded value. Entries whose schema is not registered are listed as
<unknown schema>; entries that fail to decode show the decode error.

Examples:
  auxdata dump prog.gtax
  auxdata dump prog.gtax --schemas ext.cue --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(rootOpts, args[0], cmd)
		},
	}
}

func runDump(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	reg, err := opts.registry(f)
	if err != nil {
		return err
	}
	file, err := readIRFile(f, path, reg)
	if err != nil {
		return err
	}

	result := DumpResult{
		Compression: file.Compression.String(),
		Digest:      file.Digest.String(),
		Objects:     make([]DumpObject, 0, len(file.Objects)),
	}
	for _, o := range file.Objects {
		result.Objects = append(result.Objects, dumpObject(o))
	}

	return f.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "%s: %d object(s), %s, digest %s\n",
			path, len(result.Objects), result.Compression, result.Digest)
		for _, o := range result.Objects {
			fmt.Fprintf(w, "\nobject %s (%d entries)\n", o.ID, len(o.Entries))
			for _, e := range o.Entries {
				fmt.Fprintf(w, "  %s\t%d bytes\t%s\n", e.Name, e.Size, e.text)
			}
		}
	})
}

func dumpObject(o irfile.Object) DumpObject {
	out := DumpObject{ID: o.ID.String(), Entries: make([]DumpEntry, 0, o.Aux.Len())}
	for _, raw := range o.Aux.RawEntries() {
		e := DumpEntry{Name: raw.Name, Size: len(raw.Data)}

		v, err := o.Aux.Lookup(raw.Name)
		switch {
		case auxdata.IsUnknownSchema(err):
			e.Unknown = true
			e.text = "<unknown schema>"
		case err != nil:
			e.Error = err.Error()
			e.text = "<" + err.Error() + ">"
		default:
			shape, _ := o.Aux.Registry().Lookup(raw.Name)
			e.Type = shape.String()
			e.Value = ir.ToNative(v)
			e.text = ir.Format(v)
		}
		out.Entries = append(out.Entries, e)
	}
	return out
}
