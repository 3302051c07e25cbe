package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/atomstore/internal/engine"
)

// Scenario defines a conformance test scenario.
// Scenarios seed the record files, run engine operations in order, and
// assert on the resulting trace and final file contents.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Files seeds the data directory: domain name to raw lines.
	// Domains without an entry start with no file.
	Files map[string][]string `yaml:"files,omitempty"`

	// Steps are the operations to execute, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and files.
	// Supported types: trace_contains, trace_order, trace_count, final_file
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step runs one engine operation.
type Step struct {
	// Op is the operation name (see Ops).
	Op string `yaml:"op"`

	// Args contains the operation arguments.
	Args map[string]any `yaml:"args"`

	// Expect specifies the expected outcome.
	// If nil, any outcome is accepted.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected step behavior.
type ExpectClause struct {
	// Outcome is one of ok, not_found, validation, error.
	Outcome string `yaml:"outcome"`

	// Result is a subset match against the step result: maps need only
	// the listed keys, lists must have equal length.
	// If nil, only the outcome is validated.
	Result any `yaml:"result,omitempty"`
}

// Assertion validates trace or final file state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an op appears in the trace with args
	// - "trace_order": ops appear in order
	// - "trace_count": an op appears exactly N times
	// - "final_file": a domain file ends with the given lines
	Type string `yaml:"type"`

	// Op is the operation name (used by trace_contains, trace_count).
	Op string `yaml:"op,omitempty"`

	// Args are the expected op arguments (used by trace_contains).
	// Subset match - only specified fields are validated.
	Args map[string]any `yaml:"args,omitempty"`

	// Count is the expected number of occurrences (used by trace_count).
	Count int `yaml:"count,omitempty"`

	// Ops is the expected op order (used by trace_order).
	Ops []string `yaml:"ops,omitempty"`

	// Domain names the file (used by final_file).
	Domain string `yaml:"domain,omitempty"`

	// Lines are the exact expected lines (used by final_file).
	Lines []string `yaml:"lines,omitempty"`

	// Contains lists lines that must be present (used by final_file).
	Contains []string `yaml:"contains,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalFile     = "final_file"
)

// Outcomes a step may expect.
var validOutcomes = []string{
	string(engine.OutcomeOK),
	string(engine.OutcomeNotFound),
	string(engine.OutcomeValidation),
	string(engine.OutcomeError),
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := map[string]string{}
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if prev, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", filepath.Base(path), s.Name, prev)
		}
		seen[s.Name] = filepath.Base(path)
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	for name := range s.Files {
		if _, err := engine.ParseDomain(name); err != nil {
			return fmt.Errorf("files: %w", err)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if _, ok := ops[step.Op]; !ok {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if step.Args == nil {
			return fmt.Errorf("steps[%d]: args is required (use empty map if no args)", i)
		}
		// Validate expect clause if present
		if step.Expect != nil && !slices.Contains(validOutcomes, step.Expect.Outcome) {
			return fmt.Errorf("steps[%d].expect: outcome must be one of %v, got %q", i, validOutcomes, step.Expect.Outcome)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalFile:
		if _, err := engine.ParseDomain(a.Domain); err != nil {
			return fmt.Errorf("assertions[%d]: final_file: %w", index, err)
		}
		if a.Lines == nil && len(a.Contains) == 0 {
			return fmt.Errorf("assertions[%d]: lines or contains is required for final_file", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
