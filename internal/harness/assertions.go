package harness

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	// Header with assertion type
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)

	// Expected vs Actual (most important info)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v -> %s\n", event.Step, event.Op, event.Args, event.Outcome)
		}
	}

	return buf.String()
}

// assertTraceContains checks if the trace contains a step matching
// the specified op and args (subset match).
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Op == assertion.Op && matchArgs(event.Args, assertion.Args) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("op %s with args %v", assertion.Op, assertion.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks if ops appear in the specified order.
// Ops don't need to be consecutive (intervening steps are allowed).
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	// Step 1: Find first position of each expected op
	positions := make(map[string]int)
	for i, event := range trace {
		if slices.Contains(assertion.Ops, event.Op) && positions[event.Op] == 0 {
			positions[event.Op] = i + 1 // 1-indexed for readability
		}
	}

	// Step 2: Verify all ops found
	for _, op := range assertion.Ops {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops present: %v", assertion.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}

	// Step 3: Verify order
	for i := 1; i < len(assertion.Ops); i++ {
		prev := assertion.Ops[i-1]
		curr := assertion.Ops[i]

		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", assertion.Ops),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks if the op appears exactly the specified number of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Op == assertion.Op {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Op),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}

// assertFinalFile checks the final lines of a domain file: exactly Lines
// when given, and every line of Contains.
func assertFinalFile(files map[string][]string, assertion Assertion) error {
	actual, exists := files[assertion.Domain]

	if !exists {
		return &AssertionError{
			Type:     AssertFinalFile,
			Expected: fmt.Sprintf("%s file to exist", assertion.Domain),
			Actual:   "file does not exist",
		}
	}

	if assertion.Lines != nil && !slices.Equal(actual, assertion.Lines) {
		return &AssertionError{
			Type:     AssertFinalFile,
			Expected: fmt.Sprintf("%s lines %q", assertion.Domain, assertion.Lines),
			Actual:   fmt.Sprintf("%q", actual),
		}
	}

	for _, line := range assertion.Contains {
		if !slices.Contains(actual, line) {
			return &AssertionError{
				Type:     AssertFinalFile,
				Expected: fmt.Sprintf("%s to contain %q", assertion.Domain, line),
				Actual:   fmt.Sprintf("%q", actual),
			}
		}
	}

	return nil
}

// matchArgs checks if actual args contain all expected args (subset match).
// Extra keys in actual are ignored.
func matchArgs(actual, expected map[string]any) bool {
	if len(expected) == 0 {
		return true // No args to match
	}
	for key, expectedVal := range expected {
		actualVal, exists := actual[key]
		if !exists || !valuesEqual(actualVal, expectedVal) {
			return false
		}
	}
	return true
}

// matchSubset reports whether actual contains expected: maps match on the
// expected keys only, lists must have the same length and match
// element-wise, scalars compare with valuesEqual.
func matchSubset(actual, expected any) bool {
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return false
		}
		for key, ev := range exp {
			av, exists := act[key]
			if !exists || !matchSubset(av, ev) {
				return false
			}
		}
		return true
	case []any:
		act, ok := actual.([]any)
		if !ok || len(act) != len(exp) {
			return false
		}
		for i := range exp {
			if !matchSubset(act[i], exp[i]) {
				return false
			}
		}
		return true
	default:
		return valuesEqual(actual, expected)
	}
}

// valuesEqual compares two scalar values for equality.
// YAML decodes whole numbers as int while results carry float64, so
// numbers compare by value.
func valuesEqual(actual, expected any) bool {
	// Handle nil cases
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}

	if a, ok := toFloat(actual); ok {
		if e, ok := toFloat(expected); ok {
			return a == e
		}
		return false
	}

	return reflect.DeepEqual(actual, expected)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalFile:
			err = assertFinalFile(result.Files, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
