package queryir

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPredicate is wrapped by ValidationResult.Err.
var ErrInvalidPredicate = errors.New("invalid predicate")

// ValidationResult contains the structural problems found in a predicate.
type ValidationResult struct {
	// Valid is true when Problems is empty.
	Valid bool

	// Problems lists each structural problem in traversal order.
	Problems []string
}

// Err returns nil for a valid predicate, otherwise an error wrapping
// ErrInvalidPredicate that lists every problem.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidPredicate, strings.Join(r.Problems, "; "))
}

// Validate checks a predicate tree for structural problems:
//  1. nil predicates (at the root or nested)
//  2. negative child indexes or counts
//  3. empty keys and glob patterns
//  4. empty And
//
// Validate does not compile globs; querymatch.Compile reports bad syntax.
//
// Validate is a pure function with no side effects.
func Validate(p Predicate) ValidationResult {
	v := &validator{
		problems: []string{},
	}
	v.validatePredicate(p)

	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validatePredicate(p Predicate) {
	if p == nil {
		v.addProblem("nil predicate")
		return
	}

	switch pred := p.(type) {
	case KeyEquals:
		v.validateKeyEquals(pred)
	case *KeyEquals:
		v.validateKeyEquals(*pred)
	case KeyGlob:
		v.validateKeyGlob(pred)
	case *KeyGlob:
		v.validateKeyGlob(*pred)
	case ChildEquals:
		v.validateIndex("ChildEquals", pred.Index)
	case *ChildEquals:
		v.validateIndex("ChildEquals", pred.Index)
	case ChildIsList:
		v.validateIndex("ChildIsList", pred.Index)
	case *ChildIsList:
		v.validateIndex("ChildIsList", pred.Index)
	case MinChildren:
		v.validateMinChildren(pred)
	case *MinChildren:
		v.validateMinChildren(*pred)
	case Not:
		v.validatePredicate(pred.P)
	case *Not:
		v.validatePredicate(pred.P)
	case And:
		v.validateAnd(pred)
	case *And:
		v.validateAnd(*pred)
	default:
		v.addProblem("unknown predicate type: %T", p)
	}
}

func (v *validator) validateKeyEquals(k KeyEquals) {
	if k.Key == "" {
		v.addProblem("KeyEquals with empty key")
	}
}

func (v *validator) validateKeyGlob(g KeyGlob) {
	if g.Pattern == "" {
		v.addProblem("KeyGlob with empty pattern")
	}
}

func (v *validator) validateIndex(kind string, index int) {
	if index < 0 {
		v.addProblem("%s with negative index %d", kind, index)
	}
}

func (v *validator) validateMinChildren(m MinChildren) {
	if m.N < 0 {
		v.addProblem("MinChildren with negative count %d", m.N)
	}
}

func (v *validator) validateAnd(and And) {
	if len(and.Predicates) == 0 {
		v.addProblem("empty And matches every record")
		return
	}
	for _, sub := range and.Predicates {
		v.validatePredicate(sub)
	}
}
