package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/auxdata/internal/auxdata"
	"github.com/roach88/auxdata/internal/catalog"
	"github.com/roach88/auxdata/internal/irfile"
	"github.com/roach88/auxdata/internal/schema"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Schemas string // extension catalogue (.yaml or .cue)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the auxdata CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "auxdata",
		Short: "Inspect and convert typed auxiliary data of binary IR files",
		Long: `Inspect, verify and convert the auxiliary data attached to the objects
of a binary-analysis IR.

Entries are resolved against the built-in schema catalogue, optionally
extended with --schemas. Entries of unknown schemas are reported but
always preserved byte for byte.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", msg)
				return NewExitError(ExitCommandError, msg)
			}
			installLogger(opts.Verbose, cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Schemas, "schemas", "", "extension schema catalogue (.yaml or .cue)")

	cmd.AddCommand(NewSchemasCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewIndexCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))

	return cmd
}

// installLogger routes library debug logs to w when verbose is set.
func installLogger(verbose bool, w io.Writer) {
	logger := zap.NewNop()
	if verbose {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		logger = zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.DebugLevel))
	}
	schema.SetLogger(logger.Named("schema"))
	auxdata.SetLogger(logger.Named("auxdata"))
	irfile.SetLogger(logger.Named("irfile"))
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// registry builds the catalogue registry plus any extension schemas.
func (o *RootOptions) registry(f *OutputFormatter) (*schema.Registry, error) {
	reg := catalog.NewRegistry()
	if o.Schemas == "" {
		return reg, nil
	}
	if err := reg.LoadFile(o.Schemas); err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeCatalogue, "failed to load schema catalogue", err)
	}
	f.VerboseLog("Loaded %d schema(s) including %s", reg.Len(), o.Schemas)
	return reg, nil
}

// readIRFile reads path, reporting failures through f. A missing file is
// a command error; a corrupt one is a verification failure.
func readIRFile(f *OutputFormatter, path string, reg *schema.Registry) (*irfile.File, error) {
	file, err := irfile.ReadFile(path, reg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, f.Fail(ExitCommandError, ErrCodeNotFound, "IR file not found", err)
	}
	if err != nil {
		return nil, f.Fail(ExitFailure, ErrCodeBadFile, "failed to read IR file", err)
	}
	f.VerboseLog("Read %d object(s) from %s (%s)", len(file.Objects), path, file.Compression)
	return file, nil
}
