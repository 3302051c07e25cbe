package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/atomstore/internal/config"
	"github.com/roach88/atomstore/internal/engine"
	"github.com/roach88/atomstore/internal/store"
)

// Harness is the test execution engine.
// It runs scenario steps against a fresh data directory with sequential
// request ids.
type Harness struct {
	engine *engine.Engine
	stores map[string]*store.Store
	logger *slog.Logger
}

// Run executes a test scenario in a new temporary data directory, removed
// on return.
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "atomstore-harness-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	defer os.RemoveAll(dir)

	return RunIn(context.Background(), scenario, dir)
}

// RunIn executes a test scenario with dir as the data directory.
//
// Execution flow:
// 1. Seed the scenario files into dir
// 2. Open one store per domain and an engine over them
// 3. Execute steps with expect validation
// 4. Capture final file contents
// 5. Evaluate assertions
func RunIn(ctx context.Context, scenario *Scenario, dir string) (*Result, error) {
	cfg := config.Default()
	cfg.DataDir = dir
	paths := map[string]string{
		string(engine.DomainVehicles):     cfg.VehiclesPath(),
		string(engine.DomainTransactions): cfg.TransactionsPath(),
		string(engine.DomainLocations):    cfg.LocationsPath(),
	}

	for name, lines := range scenario.Files {
		path, ok := paths[name]
		if !ok {
			return nil, fmt.Errorf("unknown domain %q in files", name)
		}
		if err := writeLines(path, lines); err != nil {
			return nil, fmt.Errorf("failed to seed %s: %w", name, err)
		}
	}

	logger := slog.New(slog.DiscardHandler) // Suppress logs in tests

	h := &Harness{stores: map[string]*store.Store{}, logger: logger}
	for name, path := range paths {
		st, err := store.Open(path, store.WithName(name), store.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to open %s store: %w", name, err)
		}
		h.stores[name] = st
	}

	eng, err := engine.New(engine.Stores{
		Vehicles:     h.stores[string(engine.DomainVehicles)],
		Transactions: h.stores[string(engine.DomainTransactions)],
		Locations:    h.stores[string(engine.DomainLocations)],
	},
		engine.WithVehicleMarker(cfg.VehicleMarker),
		engine.WithRequestIDs(engine.NewSequenceGenerator("req")),
		engine.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	h.engine = eng

	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	if err := h.captureFiles(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to read final files: %w", err)
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeSteps runs all steps and validates expect clauses.
//
// Operation errors are part of the trace, not harness failures. An error is
// returned only when a result cannot be converted for comparison.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		run, ok := ops[step.Op]
		if !ok {
			return fmt.Errorf("step %d: unknown op %q", i+1, step.Op)
		}

		value, found, opErr := run(ctx, h.engine, step.Args)

		ev := TraceEvent{
			Step:    i + 1,
			Op:      step.Op,
			Args:    step.Args,
			Outcome: string(outcomeOf(found, opErr)),
		}
		if opErr != nil {
			ev.Error = opErr.Error()
		} else if found {
			converted, err := generic(value)
			if err != nil {
				return fmt.Errorf("step %d: failed to convert result: %w", i+1, err)
			}
			ev.Result = converted
		}
		result.AddTrace(ev)

		if step.Expect != nil {
			if ev.Outcome != step.Expect.Outcome {
				result.AddError(fmt.Sprintf("step %d (%s): expected outcome %s, got %s%s",
					ev.Step, ev.Op, step.Expect.Outcome, ev.Outcome, errSuffix(ev.Error)))
			} else if step.Expect.Result != nil && !matchSubset(ev.Result, step.Expect.Result) {
				result.AddError(fmt.Sprintf("step %d (%s): result %v does not match expected %v",
					ev.Step, ev.Op, ev.Result, step.Expect.Result))
			}
		}

		h.logger.Info("step completed",
			"step", ev.Step,
			"op", ev.Op,
			"outcome", ev.Outcome,
		)
	}

	return nil
}

// captureFiles stores the final lines of every existing domain file.
func (h *Harness) captureFiles(ctx context.Context, result *Result) error {
	for name, st := range h.stores {
		exists, err := st.Exists()
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		lines, err := st.Lines(ctx)
		if err != nil {
			return err
		}
		if lines == nil {
			lines = []string{}
		}
		result.Files[name] = lines
	}
	return nil
}

// outcomeOf classifies a step the same way the engine reports operations.
func outcomeOf(found bool, err error) engine.Outcome {
	var ve *engine.ValidationError
	switch {
	case errors.As(err, &ve):
		return engine.OutcomeValidation
	case err != nil:
		return engine.OutcomeError
	case !found:
		return engine.OutcomeNotFound
	default:
		return engine.OutcomeOK
	}
}

func errSuffix(msg string) string {
	if msg == "" {
		return ""
	}
	return " (" + msg + ")"
}

func writeLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var data []byte
	for _, l := range lines {
		data = append(data, l...)
		data = append(data, '\n')
	}
	return os.WriteFile(path, data, 0o644)
}
