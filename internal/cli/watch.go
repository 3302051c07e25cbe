package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/atomstore/internal/engine"
	"github.com/roach88/atomstore/internal/store"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Debounce time.Duration
}

// WatchEvent is printed once at start and after every settled change.
type WatchEvent struct {
	Domain  engine.Domain `json:"domain"`
	Path    string        `json:"path"`
	Records int           `json:"records"`
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch <vehicles|transactions|locations>",
		Short: "Re-scan a record file whenever it changes",
		Long: `Watch a record file and print its record count after every change.

Runs until interrupted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, cmd, args[0])
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", store.DefaultDebounce, "settle time before re-scanning")

	return cmd
}

func runWatch(opts *WatchOptions, cmd *cobra.Command, domainName string) error {
	d, err := engine.ParseDomain(domainName)
	if err != nil {
		return opts.formatter(cmd).Fail("watch", &engine.ValidationError{Fields: []string{"domain"}, Message: err.Error()})
	}

	a, err := opts.open(cmd)
	if err != nil {
		return err
	}
	st, err := a.engine.Store(d)
	if err != nil {
		return a.finish(a.out.Fail("watch", err))
	}

	report := func(ctx context.Context) error {
		recs, err := st.Records(ctx)
		if err != nil {
			return err
		}
		ev := WatchEvent{Domain: d, Path: st.Path(), Records: len(recs)}
		if a.out.Format == "json" {
			return a.out.Success(ev)
		}
		fmt.Fprintf(a.out.Writer, "%s: %s\n", ev.Domain, plural(ev.Records, "record"))
		return nil
	}

	ctx := commandContext(cmd)
	if err := report(ctx); err != nil {
		return a.finish(a.out.Fail("watch", err))
	}
	if err := st.Watch(ctx, opts.Debounce, report); err != nil {
		return a.finish(a.out.Fail("watch", err))
	}
	return a.finish(nil)
}
