package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/atomstore/internal/schema"
)

// NewSchemasCommand creates the schemas command.
func NewSchemasCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "Print the active projection schemas",
		Long: `Print the schemas records are projected with.

These are the built-in schemas unless schemas_file is set in config.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemas(rootOpts, cmd)
		},
	}
}

func runSchemas(opts *RootOptions, cmd *cobra.Command) error {
	a, err := opts.open(cmd)
	if err != nil {
		return err
	}

	schemas := a.engine.Schemas().Schemas()
	if a.out.Format == "json" {
		return a.finish(a.out.Success(schemas))
	}

	for i, sc := range schemas {
		if i > 0 {
			fmt.Fprintln(a.out.Writer)
		}
		writeSchema(a.out, sc)
	}
	return a.finish(nil)
}

func writeSchema(out *OutputFormatter, sc *schema.Schema) {
	w := out.Writer
	fmt.Fprintf(w, "%s (%s)\n", sc.Name, sc.Kind)
	for _, r := range sc.Rules {
		fmt.Fprintf(w, "  %q x%d %s -> %s\n", r.Key, r.Arity, r.Type, strings.Join(r.Paths, ", "))
	}
	for _, f := range sc.Fields {
		line := fmt.Sprintf("  [%d] %s %s", f.Index, f.Name, f.Type)
		if f.Unwrap {
			line += " (unwrap)"
		}
		fmt.Fprintln(w, line)
	}
}
