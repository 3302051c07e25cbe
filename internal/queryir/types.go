package queryir

// Predicate represents a condition on a single record.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - KeyEquals: leading key equals a literal
//   - KeyGlob: leading key matches a glob pattern
//   - ChildEquals: child at index equals a literal
//   - ChildIsList: child at index is a nested list
//   - MinChildren: record has at least N children
//   - Not: negation
//   - And: conjunction
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// KeyEquals matches records whose leading atom normalizes to Key.
//
// Example:
//
//	KeyEquals{Key: "CG07AU599"}
//
// matches
//
//	(CG07AU599 ("Prakhar") "0xABC" "car" "RC123")
type KeyEquals struct {
	Key string
}

func (KeyEquals) predicateNode() {}

// KeyGlob matches records whose leading atom matches Pattern.
//
// Pattern uses gobwas/glob syntax: '*' any run, '?' one character,
// '[...]' classes, '{a,b}' alternation.
//
// Example:
//
//	KeyGlob{Pattern: "CG07*"}
type KeyGlob struct {
	Pattern string
}

func (KeyGlob) predicateNode() {}

// ChildEquals matches records whose child at Index normalizes to Value.
// Records with fewer than Index+1 children do not match. A list child never
// equals a literal.
type ChildEquals struct {
	Index int
	Value string
}

func (ChildEquals) predicateNode() {}

// ChildIsList matches records whose child at Index is a nested list.
type ChildIsList struct {
	Index int
}

func (ChildIsList) predicateNode() {}

// MinChildren matches records with at least N children, key included.
type MinChildren struct {
	N int
}

func (MinChildren) predicateNode() {}

// Not matches records that P does not match.
type Not struct {
	P Predicate
}

func (Not) predicateNode() {}

// And matches records that every predicate in Predicates matches.
//
// An empty And would match every record; Validate reports it so that a
// query built from empty input does not silently select everything.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Key returns a predicate matching records keyed by key.
func Key(key string) Predicate {
	return KeyEquals{Key: key}
}

// AllOf returns the conjunction of preds. A single predicate is returned
// unwrapped.
func AllOf(preds ...Predicate) Predicate {
	if len(preds) == 1 {
		return preds[0]
	}
	return And{Predicates: preds}
}
