package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario in testdata/scenarios against its
// golden trace.
func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestMarshalSnapshot_Format(t *testing.T) {
	data, err := MarshalSnapshot(TraceSnapshot{
		ScenarioName: "format",
		Trace: []TraceEvent{
			{Step: 1, Op: "register_vehicle", Args: map[string]any{"b": 1, "a": "<x>"}, Outcome: "ok"},
		},
	})
	require.NoError(t, err)

	want := `{
  "scenario_name": "format",
  "trace": [
    {
      "step": 1,
      "op": "register_vehicle",
      "args": {
        "a": "<x>",
        "b": 1
      },
      "outcome": "ok"
    }
  ],
  "files": {}
}
`
	assert.Equal(t, want, string(data))
}

func TestMarshalSnapshot_EmptyTrace(t *testing.T) {
	data, err := MarshalSnapshot(TraceSnapshot{ScenarioName: "empty"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"trace": []`)
}
