package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/auxdata/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Database string
	Schema   string
}

// QueryResult lists the objects carrying a schema.
type QueryResult struct {
	Schema  string   `json:"schema"`
	Objects []string `json:"objects"`
}

// UsageResult lists every entry name in the database.
type UsageResult struct {
	Schemas []SchemaUsageInfo `json:"schemas"`
}

// SchemaUsageInfo is one row of UsageResult.
type SchemaUsageInfo struct {
	Name    string `json:"name"`
	Known   bool   `json:"known"`
	Objects int    `json:"objects"`
	Bytes   int64  `json:"bytes"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Find objects carrying a schema",
		Long: `List, in ascending id order, the objects whose container holds an entry
under --schema. Without --schema, summarize every entry name in the
database.

Examples:
  auxdata query --db ./aux.db --schema dynamicEntries
  auxdata query --db ./aux.db --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "schema name to look for")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := opts.formatter(cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	if opts.Schema == "" {
		return runUsage(ctx, opts, f, st)
	}

	ids, err := st.ObjectsWithSchema(ctx, opts.Schema)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeDatabase, "query failed", err)
	}
	result := QueryResult{Schema: opts.Schema, Objects: make([]string, len(ids))}
	for i, id := range ids {
		result.Objects[i] = id.String()
	}

	return f.Success(result, func(w io.Writer) {
		for _, id := range result.Objects {
			fmt.Fprintln(w, id)
		}
	})
}

func runUsage(ctx context.Context, opts *QueryOptions, f *OutputFormatter, st *store.Store) error {
	reg, err := opts.registry(f)
	if err != nil {
		return err
	}
	usage, err := st.SchemaUsage(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeDatabase, "query failed", err)
	}

	result := UsageResult{Schemas: make([]SchemaUsageInfo, len(usage))}
	for i, u := range usage {
		result.Schemas[i] = SchemaUsageInfo{
			Name:    u.Name,
			Known:   reg.Has(u.Name),
			Objects: u.Objects,
			Bytes:   u.Bytes,
		}
	}

	return f.Success(result, func(w io.Writer) {
		for _, s := range result.Schemas {
			mark := ""
			if !s.Known {
				mark = "\t(unknown)"
			}
			fmt.Fprintf(w, "%s\t%d object(s)\t%d bytes%s\n", s.Name, s.Objects, s.Bytes, mark)
		}
	})
}
