package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot captures the trace and final files of a scenario execution.
type TraceSnapshot struct {
	ScenarioName string              `json:"scenario_name"`
	Trace        []TraceEvent        `json:"trace"`
	Files        map[string][]string `json:"files"`
}

// MarshalSnapshot renders a snapshot as indented JSON with sorted map keys,
// no HTML escaping and a trailing newline.
func MarshalSnapshot(s TraceSnapshot) ([]byte, error) {
	if s.Trace == nil {
		s.Trace = []TraceEvent{}
	}
	if s.Files == nil {
		s.Files = map[string][]string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := RunIn(t.Context(), scenario, t.TempDir())
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
		Files:        result.Files,
	})
	if err != nil {
		return err
	}

	// Compare with golden file using goldie
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
