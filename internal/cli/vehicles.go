package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/atomstore/internal/engine"
	"github.com/roach88/atomstore/internal/schema"
)

var registerFlags = []string{"vehicle-number", "full-name", "wallet-address", "vehicle-type", "rc-detail"}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a vehicle",
		Long: `Register a vehicle in the vehicles file.

The record is inserted before the first vehicle rule line, or appended
when the file has none.

Example:
  atomstore register --vehicle-number CG07AU599 --full-name Prakhar \
    --wallet-address 0xABC --vehicle-type car --rc-detail RC123`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(rootOpts, cmd)
		},
	}

	cmd.Flags().String("vehicle-number", "", "vehicle registration number (required)")
	cmd.Flags().String("full-name", "", "owner's full name (required)")
	cmd.Flags().String("wallet-address", "", "owner's wallet address (required)")
	cmd.Flags().String("vehicle-type", "", "vehicle type, e.g. car (required)")
	cmd.Flags().String("rc-detail", "", "registration certificate detail (required)")

	return cmd
}

func runRegister(opts *RootOptions, cmd *cobra.Command) error {
	fs := cmd.Flags()
	if err := requireFlags(fs, registerFlags...); err != nil {
		return opts.formatter(cmd).Fail("register vehicle", err)
	}

	a, err := opts.open(cmd)
	if err != nil {
		return err
	}

	res, err := a.engine.RegisterVehicle(commandContext(cmd), engine.VehicleInput{
		VehicleNumber: stringFlag(fs, "vehicle-number"),
		FullName:      stringFlag(fs, "full-name"),
		WalletAddress: stringFlag(fs, "wallet-address"),
		VehicleType:   stringFlag(fs, "vehicle-type"),
		RCDetail:      stringFlag(fs, "rc-detail"),
	})
	if err != nil {
		return a.finish(a.out.Fail("register vehicle", err))
	}

	if a.out.Format == "json" {
		return a.finish(a.out.Success(res))
	}
	fmt.Fprintf(a.out.Writer, "✓ Registered %s\n", res.Record)
	a.out.VerboseLog("record id: %s", res.RecordID)
	return a.finish(nil)
}

// VehiclesOptions holds flags for the vehicles command.
type VehiclesOptions struct {
	*RootOptions
	Match string
}

// NewVehiclesCommand creates the vehicles command.
func NewVehiclesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VehiclesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "List registered vehicles",
		Long: `List every vehicle record before the vehicle rule lines.

Examples:
  atomstore vehicles
  atomstore vehicles --match 'CG07*' --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVehicles(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Match, "match", "", "only vehicles whose number matches this glob")

	return cmd
}

func runVehicles(opts *VehiclesOptions, cmd *cobra.Command) error {
	a, err := opts.open(cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	var vehicles []schema.Projection
	if opts.Match != "" {
		vehicles, err = a.engine.VehiclesMatching(ctx, opts.Match)
	} else {
		vehicles, err = a.engine.Vehicles(ctx)
	}
	if err != nil {
		return a.finish(a.out.Fail("list vehicles", err))
	}

	if a.out.Format == "json" {
		return a.finish(a.out.Success(vehicles))
	}
	if len(vehicles) == 0 {
		fmt.Fprintln(a.out.Writer, "No vehicles found")
		return a.finish(nil)
	}
	writeProjections(a.out.Writer, vehicles)
	a.out.VerboseLog("%s", plural(len(vehicles), "vehicle"))
	return a.finish(nil)
}

// NewVehicleCommand creates the vehicle command.
func NewVehicleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "vehicle <vehicle-number>",
		Short: "Show one vehicle",
		Long: `Show the first vehicle record with the given number.

Exits with status 1 when there is none.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVehicle(rootOpts, cmd, args[0])
		},
	}
}

func runVehicle(opts *RootOptions, cmd *cobra.Command, vehNo string) error {
	a, err := opts.open(cmd)
	if err != nil {
		return err
	}

	v, ok, err := a.engine.Vehicle(commandContext(cmd), vehNo)
	if err != nil {
		return a.finish(a.out.Fail("get vehicle", err))
	}
	if !ok {
		return a.finish(a.out.NotFound(fmt.Sprintf("vehicle not found: %s", vehNo)))
	}

	if a.out.Format == "json" {
		return a.finish(a.out.Success(v))
	}
	writeProjection(a.out.Writer, v, "")
	return a.finish(nil)
}
