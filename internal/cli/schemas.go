package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// SchemaInfo is one registered schema.
type SchemaInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// NewSchemasCommand creates the schemas command.
func NewSchemasCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List registered schemas",
		Long: `List every schema name known to this process with its type, in
registration order: the built-in catalogue first, then any schemas
from --schemas.

Examples:
  auxdata schemas
  auxdata schemas --schemas ext.yaml --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemas(rootOpts, cmd)
		},
	}
}

func runSchemas(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	reg, err := opts.registry(f)
	if err != nil {
		return err
	}

	schemas := reg.Schemas()
	infos := make([]SchemaInfo, len(schemas))
	for i, s := range schemas {
		infos[i] = SchemaInfo{Name: s.Name, Type: s.Shape.String()}
	}

	return f.Success(infos, func(w io.Writer) {
		for _, s := range infos {
			fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Type)
		}
	})
}
