package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/atomstore/internal/engine"
)

var txnLogFlags = []string{"vehicle-number", "time", "date", "name", "price"}

// NewTxnCommand creates the txn command group.
func NewTxnCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txn",
		Short: "Log and list transactions",
	}

	cmd.AddCommand(newTxnLogCommand(rootOpts))
	cmd.AddCommand(newTxnListCommand(rootOpts))

	return cmd
}

func newTxnLogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Append a transaction",
		Long: `Append a transaction record to the transactions file.

Example:
  atomstore txn log --vehicle-number CG07AU599 --time 10:42 \
    --date 2024-03-01 --name "Toll Plaza 4" --price 85.5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTxnLog(rootOpts, cmd)
		},
	}

	cmd.Flags().String("vehicle-number", "", "vehicle registration number (required)")
	cmd.Flags().String("time", "", "time of the transaction (required)")
	cmd.Flags().String("date", "", "date of the transaction (required)")
	cmd.Flags().String("name", "", "merchant or toll name (required)")
	cmd.Flags().String("price", "", "numeric amount (required)")

	return cmd
}

func runTxnLog(opts *RootOptions, cmd *cobra.Command) error {
	fs := cmd.Flags()
	if err := requireFlags(fs, txnLogFlags...); err != nil {
		return opts.formatter(cmd).Fail("log transaction", err)
	}

	a, err := opts.open(cmd)
	if err != nil {
		return err
	}

	res, err := a.engine.LogTransaction(commandContext(cmd), engine.TransactionInput{
		VehicleNumber: stringFlag(fs, "vehicle-number"),
		Time:          stringFlag(fs, "time"),
		Date:          stringFlag(fs, "date"),
		Name:          stringFlag(fs, "name"),
		Price:         stringFlag(fs, "price"),
	})
	if err != nil {
		return a.finish(a.out.Fail("log transaction", err))
	}

	if a.out.Format == "json" {
		return a.finish(a.out.Success(res))
	}
	fmt.Fprintf(a.out.Writer, "✓ Logged %s\n", res.Record)
	a.out.VerboseLog("record id: %s", res.RecordID)
	return a.finish(nil)
}

func newTxnListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list <vehicle-number>",
		Short:         "List the transactions of a vehicle",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTxnList(rootOpts, cmd, args[0])
		},
	}
}

func runTxnList(opts *RootOptions, cmd *cobra.Command, vehNo string) error {
	a, err := opts.open(cmd)
	if err != nil {
		return err
	}

	txns, err := a.engine.Transactions(commandContext(cmd), vehNo)
	if err != nil {
		return a.finish(a.out.Fail("list transactions", err))
	}

	if a.out.Format == "json" {
		return a.finish(a.out.Success(txns))
	}
	if len(txns) == 0 {
		fmt.Fprintf(a.out.Writer, "No transactions for %s\n", vehNo)
		return a.finish(nil)
	}
	writeProjections(a.out.Writer, txns)
	a.out.VerboseLog("%s", plural(len(txns), "transaction"))
	return a.finish(nil)
}
