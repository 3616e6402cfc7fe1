package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/auxdata/internal/auxdata"
)

// VerifyResult summarizes a verify run.
type VerifyResult struct {
	Valid    bool            `json:"valid"`
	Objects  int             `json:"objects"`
	Entries  int             `json:"entries"`
	Unknown  int             `json:"unknown"`
	Failures []VerifyFailure `json:"failures,omitempty"`
}

// VerifyFailure is an entry that does not decode under its schema.
type VerifyFailure struct {
	Object string `json:"object"`
	Name   string `json:"name"`
	Error  string `json:"error"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <irfile>",
		Short: "Check that every known entry decodes",
		Long: `Check the file digest and decode every entry whose schema is
registered. Entries of unknown schemas are counted but not checked.

Exits with status 1 if the file is corrupt or any entry fails to decode.

Examples:
  auxdata verify prog.gtax
  auxdata verify prog.gtax --schemas ext.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, args[0], cmd)
		},
	}
}

func runVerify(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	reg, err := opts.registry(f)
	if err != nil {
		return err
	}
	file, err := readIRFile(f, path, reg)
	if err != nil {
		return err
	}

	result := VerifyResult{Objects: len(file.Objects)}
	for _, o := range file.Objects {
		for _, name := range o.Aux.Names() {
			result.Entries++
			_, err := o.Aux.Lookup(name)
			switch {
			case auxdata.IsUnknownSchema(err):
				result.Unknown++
			case err != nil:
				result.Failures = append(result.Failures, VerifyFailure{
					Object: o.ID.String(),
					Name:   name,
					Error:  err.Error(),
				})
			default:
				f.VerboseLog("ok %s %s", o.ID, name)
			}
		}
	}
	result.Valid = len(result.Failures) == 0

	if !result.Valid {
		if f.JSON() {
			if err := f.Error(ErrCodeDecodeFailed, "verification failed", result); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(f.Writer, "✗ Verification failed")
			fmt.Fprintln(f.Writer)
			for _, fail := range result.Failures {
				fmt.Fprintf(f.Writer, "  %s %s: %s\n", fail.Object, fail.Name, fail.Error)
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("verification failed with %d error(s)", len(result.Failures)))
	}

	return f.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ %d object(s), %d entries verified (%d unknown schema)\n",
			result.Objects, result.Entries, result.Unknown)
	})
}
