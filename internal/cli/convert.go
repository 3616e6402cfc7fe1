package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/auxdata/internal/irfile"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	Compression string
}

// ConvertResult describes the written file.
type ConvertResult struct {
	Output      string `json:"output"`
	Objects     int    `json:"objects"`
	Compression string `json:"compression"`
	Digest      string `json:"digest"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Rewrite an IR file with another compression",
		Long: `Rewrite an IR file, changing only its body compression. Every entry,
including those of unknown schemas, is copied byte for byte, so the
payload digest is unchanged.

If the payload does not shrink under the requested algorithm it is
stored uncompressed.

Examples:
  auxdata convert prog.gtax prog.zst.gtax --compression zstd
  auxdata convert prog.zst.gtax prog.raw.gtax --compression none`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Compression, "compression", "zstd", "body compression (none|lz4|zstd)")

	return cmd
}

func runConvert(opts *ConvertOptions, in, out string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	comp, err := irfile.ParseCompression(opts.Compression)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeBadFlag, "invalid --compression", err)
	}
	reg, err := opts.registry(f)
	if err != nil {
		return err
	}
	file, err := readIRFile(f, in, reg)
	if err != nil {
		return err
	}

	if err := irfile.WriteFile(out, file, irfile.Options{Compression: comp}); err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write IR file", err)
	}
	if file.Compression != comp {
		f.VerboseLog("Payload incompressible with %s, stored as %s", comp, file.Compression)
	}

	result := ConvertResult{
		Output:      out,
		Objects:     len(file.Objects),
		Compression: file.Compression.String(),
		Digest:      file.Digest.String(),
	}
	return f.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Wrote %d object(s) to %s (%s)\n", result.Objects, result.Output, result.Compression)
	})
}
