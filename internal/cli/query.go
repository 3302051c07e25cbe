package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/atomstore/internal/atom"
	"github.com/roach88/atomstore/internal/engine"
	"github.com/roach88/atomstore/internal/queryir"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	All  bool
	Glob bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <domain> <key>",
		Short: "Print raw records by leading key",
		Long: `Print raw records whose first element is key.

Without flags only the first match is printed; it exits with status 1
when there is none. JSON output renders each record as nested arrays.

Examples:
  atomstore query vehicles CG07AU599
  atomstore query transactions CG07AU599 --all
  atomstore query locations 'Goa*' --glob --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd, args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "print every match")
	cmd.Flags().BoolVar(&opts.Glob, "glob", false, "treat key as a glob pattern (implies --all)")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command, domainName, key string) error {
	d, err := engine.ParseDomain(domainName)
	if err != nil {
		return opts.formatter(cmd).Fail("query", &engine.ValidationError{Fields: []string{"domain"}, Message: err.Error()})
	}

	a, err := opts.open(cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	if !opts.All && !opts.Glob {
		rec, ok, err := a.engine.QueryByKey(ctx, d, key)
		if err != nil {
			return a.finish(a.out.Fail("query", err))
		}
		if !ok {
			return a.finish(a.out.NotFound(fmt.Sprintf("no %s record with key %s", d, key)))
		}
		return a.finish(writeRecords(a.out, []atom.List{rec}))
	}

	var p queryir.Predicate = queryir.Key(key)
	if opts.Glob {
		p = queryir.KeyGlob{Pattern: key}
	}
	recs, err := a.engine.QueryAllMatching(ctx, d, p)
	if err != nil {
		return a.finish(a.out.Fail("query", err))
	}
	return a.finish(writeRecords(a.out, recs))
}

func writeRecords(out *OutputFormatter, recs []atom.List) error {
	if out.Format == "json" {
		raw := make([]any, len(recs))
		for i, rec := range recs {
			raw[i] = atom.ToJSON(rec)
		}
		return out.Success(raw)
	}
	for _, rec := range recs {
		fmt.Fprintln(out.Writer, atom.Serialize(rec))
	}
	return nil
}
