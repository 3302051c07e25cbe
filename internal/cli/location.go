package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLocationCommand creates the location command group.
func NewLocationCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Query tourist place details and coordinates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "details <place>",
		Short: "Show trip details of a place",
		Long: `Show days, costs and best time to visit for a place.

Exits with status 1 when the place has no detail record.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocationDetails(rootOpts, cmd, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "coords <place>",
		Short: "List numbered checkpoint coordinates of a place",
		Long: `List the tourist spots of a place with their latitude and longitude.

Exits with status 1 when no spot has coordinates.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocationCoords(rootOpts, cmd, args[0])
		},
	})

	return cmd
}

func runLocationDetails(opts *RootOptions, cmd *cobra.Command, place string) error {
	a, err := opts.open(cmd)
	if err != nil {
		return err
	}

	details, ok, err := a.engine.LocationDetails(commandContext(cmd), place)
	if err != nil {
		return a.finish(a.out.Fail("location details", err))
	}
	if !ok {
		return a.finish(a.out.NotFound(fmt.Sprintf("no details for %s", place)))
	}

	if a.out.Format == "json" {
		return a.finish(a.out.Success(details))
	}
	writeProjection(a.out.Writer, details, "")
	return a.finish(nil)
}

func runLocationCoords(opts *RootOptions, cmd *cobra.Command, place string) error {
	a, err := opts.open(cmd)
	if err != nil {
		return err
	}

	coords, err := a.engine.LocationCoords(commandContext(cmd), place)
	if err != nil {
		return a.finish(a.out.Fail("location coords", err))
	}
	if len(coords) == 0 {
		return a.finish(a.out.NotFound(fmt.Sprintf("no coordinates for %s", place)))
	}

	if a.out.Format == "json" {
		return a.finish(a.out.Success(coords))
	}
	writeCoordinates(a.out.Writer, place, coords)
	return a.finish(nil)
}
