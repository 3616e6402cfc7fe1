package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/auxdata/internal/auxdata"
	"github.com/roach88/auxdata/internal/store"
)

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	*RootOptions
	Database string
}

// IndexResult describes an index run.
type IndexResult struct {
	Database string `json:"database"`
	Objects  int    `json:"objects"`
	Entries  int    `json:"entries"`
}

// NewIndexCommand creates the index command.
func NewIndexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IndexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "index <irfile>",
		Short: "Load the containers of an IR file into a database",
		Long: `Store every object's container in a SQLite database, replacing what
the database held for those objects. The database is created if needed.

Examples:
  auxdata index prog.gtax --db ./aux.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runIndex(opts *IndexOptions, path string, cmd *cobra.Command) error {
	ctx := context.Background()
	f := opts.formatter(cmd)
	reg, err := opts.registry(f)
	if err != nil {
		return err
	}
	file, err := readIRFile(f, path, reg)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	ids := make([]uuid.UUID, len(file.Objects))
	cs := make([]*auxdata.Container, len(file.Objects))
	result := IndexResult{Database: opts.Database, Objects: len(file.Objects)}
	for i, o := range file.Objects {
		ids[i], cs[i] = o.ID, o.Aux
		result.Entries += o.Aux.Len()
	}
	if err := st.PutContainers(ctx, ids, cs); err != nil {
		return f.Fail(ExitCommandError, ErrCodeDatabase, "failed to store containers", err)
	}

	return f.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Indexed %d object(s), %d entries into %s\n", result.Objects, result.Entries, result.Database)
	})
}
