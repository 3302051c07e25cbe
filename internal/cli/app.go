package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/atomstore/internal/config"
	"github.com/roach88/atomstore/internal/engine"
	"github.com/roach88/atomstore/internal/metrics"
	"github.com/roach88/atomstore/internal/schema"
	"github.com/roach88/atomstore/internal/store"
)

// app is the per-command wiring of config, stores, schemas and engine.
type app struct {
	cfg     config.Config
	engine  *engine.Engine
	metrics *metrics.Metrics
	logger  *slog.Logger
	out     *OutputFormatter
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// open loads config and builds the engine. Failures are reported through
// the formatter and returned as *ExitError.
func (o *RootOptions) open(cmd *cobra.Command) (*app, error) {
	out := o.formatter(cmd)

	in := config.LoadInput{
		WorkDir:         o.WorkDir,
		ConfigPath:      o.ConfigPath,
		DataDirOverride: o.DataDir,
		MetricsFile:     o.MetricsFile,
	}
	if o.Verbose {
		in.LogLevel = "debug"
	}

	cfg, err := config.Load(in)
	if err != nil {
		return nil, out.Fail("load config", err)
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	for _, src := range cfg.Sources {
		out.VerboseLog("Loaded config %s", src)
	}

	m := metrics.New()

	openStore := func(d engine.Domain, path string) (*store.Store, error) {
		return store.Open(path,
			store.WithName(string(d)),
			store.WithCreateMissing(cfg.CreateMissing),
			store.WithLogger(logger),
			store.WithObserver(m),
		)
	}

	var stores engine.Stores
	if stores.Vehicles, err = openStore(engine.DomainVehicles, cfg.VehiclesPath()); err != nil {
		return nil, out.Fail("open store", err)
	}
	if stores.Transactions, err = openStore(engine.DomainTransactions, cfg.TransactionsPath()); err != nil {
		return nil, out.Fail("open store", err)
	}
	if stores.Locations, err = openStore(engine.DomainLocations, cfg.LocationsPath()); err != nil {
		return nil, out.Fail("open store", err)
	}

	opts := []engine.Option{
		engine.WithVehicleMarker(cfg.VehicleMarker),
		engine.WithLogger(logger),
		engine.WithObserver(m),
	}
	if cfg.SchemasFile != "" {
		set, err := schema.LoadFile(cfg.SchemasFile)
		if err != nil {
			return nil, out.Fail("load schemas", fmt.Errorf("%w: %w", config.ErrConfigInvalid, err))
		}
		out.VerboseLog("Loaded %d schema(s) from %s", len(set.Names()), cfg.SchemasFile)
		opts = append(opts, engine.WithSchemas(set))
	}

	eng, err := engine.New(stores, opts...)
	if err != nil {
		return nil, out.Fail("create engine", fmt.Errorf("%w: %w", config.ErrConfigInvalid, err))
	}

	return &app{cfg: cfg, engine: eng, metrics: m, logger: logger, out: out}, nil
}

// finish writes the metrics textfile, if configured, and returns err.
// A metrics failure is only reported when the command itself succeeded.
func (a *app) finish(err error) error {
	if a.cfg.MetricsFile == "" {
		return err
	}
	if werr := a.metrics.WriteTextfile(a.cfg.MetricsFile); werr != nil {
		if err != nil {
			a.logger.Warn("write metrics", "path", a.cfg.MetricsFile, "error", werr)
			return err
		}
		return a.out.Fail("write metrics", werr)
	}
	return err
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
