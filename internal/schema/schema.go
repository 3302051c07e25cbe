package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Kind selects the projection algorithm.
type Kind string

const (
	KindKeyed      Kind = "keyed"
	KindPositional Kind = "positional"
)

// ValueType is the declared type of a projected value.
type ValueType string

const (
	TypeString ValueType = "string"
	TypeSymbol ValueType = "symbol" // like string, but rejects text with whitespace
	TypeInt    ValueType = "int"
	TypeFloat  ValueType = "float"
)

// Wildcard is the rule key that matches any scalar label.
const Wildcard = "*"

// Rule is one keyed extraction rule.
//
// Paths has one entry per consumed value. For a wildcard rule with no path
// the normalized label itself is the field name.
type Rule struct {
	Key   string    `json:"key"`
	Arity int       `json:"arity"`
	Type  ValueType `json:"type"`
	Paths []string  `json:"paths,omitempty"`
}

// Field is one positional extraction field.
type Field struct {
	Index  int       `json:"index"`
	Name   string    `json:"name"`
	Type   ValueType `json:"type"`
	Unwrap bool      `json:"unwrap,omitempty"` // take the first child of a list value
}

// Schema is a named projection schema.
type Schema struct {
	Name   string  `json:"name"`
	Kind   Kind    `json:"kind"`
	Rules  []Rule  `json:"rules,omitempty"`
	Fields []Field `json:"fields,omitempty"`
}

// Projection is the output of Project: field name to value.
// Values are string, int64, float64, or a nested Projection for dotted paths.
type Projection map[string]any

// Set is an immutable collection of schemas keyed by name.
type Set struct {
	byName map[string]*Schema
}

// NewSet builds a Set. Duplicate names are an error.
func NewSet(schemas ...*Schema) (*Set, error) {
	s := &Set{byName: make(map[string]*Schema, len(schemas))}
	for _, sc := range schemas {
		if _, dup := s.byName[sc.Name]; dup {
			return nil, fmt.Errorf("duplicate schema %q", sc.Name)
		}
		s.byName[sc.Name] = sc
	}
	return s, nil
}

// Get returns the schema with the given name.
func (s *Set) Get(name string) (*Schema, bool) {
	sc, ok := s.byName[name]
	return sc, ok
}

// Names returns schema names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.byName))
	for n := range s.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Schemas returns every schema sorted by name.
func (s *Set) Schemas() []*Schema {
	names := s.Names()
	out := make([]*Schema, len(names))
	for i, n := range names {
		out[i] = s.byName[n]
	}
	return out
}

// Require returns an error naming every schema in names that the set lacks.
func (s *Set) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := s.byName[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing schemas: %s", strings.Join(missing, ", "))
	}
	return nil
}

// check validates a schema's internal consistency.
func (sc *Schema) check() error {
	switch sc.Kind {
	case KindKeyed:
		if len(sc.Rules) == 0 {
			return fmt.Errorf("keyed schema has no rules")
		}
		for i, r := range sc.Rules {
			if err := r.check(); err != nil {
				return fmt.Errorf("rules[%d]: %w", i, err)
			}
		}
	case KindPositional:
		if len(sc.Fields) == 0 {
			return fmt.Errorf("positional schema has no fields")
		}
		seen := make(map[string]bool, len(sc.Fields))
		for i, f := range sc.Fields {
			if f.Index < 0 {
				return fmt.Errorf("fields[%d]: negative index %d", i, f.Index)
			}
			if f.Name == "" {
				return fmt.Errorf("fields[%d]: empty name", i)
			}
			if seen[f.Name] {
				return fmt.Errorf("fields[%d]: duplicate name %q", i, f.Name)
			}
			seen[f.Name] = true
			if !f.Type.valid() {
				return fmt.Errorf("fields[%d]: unknown type %q", i, f.Type)
			}
		}
	default:
		return fmt.Errorf("unknown kind %q", sc.Kind)
	}
	return nil
}

func (r Rule) check() error {
	if r.Key == "" {
		return fmt.Errorf("empty key")
	}
	if r.Arity < 1 {
		return fmt.Errorf("arity must be at least 1, got %d", r.Arity)
	}
	if !r.Type.valid() {
		return fmt.Errorf("unknown type %q", r.Type)
	}
	if r.Key == Wildcard {
		if r.Arity != 1 || len(r.Paths) > 1 {
			return fmt.Errorf("wildcard rule takes one value and at most one path")
		}
		return checkPaths(r.Paths)
	}
	if len(r.Paths) != r.Arity {
		return fmt.Errorf("rule %q: %d paths for arity %d", r.Key, len(r.Paths), r.Arity)
	}
	return checkPaths(r.Paths)
}

func checkPaths(paths []string) error {
	for _, p := range paths {
		parts := strings.Split(p, ".")
		if len(parts) > 2 {
			return fmt.Errorf("path %q nests more than one level", p)
		}
		for _, part := range parts {
			if part == "" {
				return fmt.Errorf("path %q has an empty segment", p)
			}
		}
	}
	return nil
}

func (t ValueType) valid() bool {
	switch t {
	case TypeString, TypeSymbol, TypeInt, TypeFloat:
		return true
	}
	return false
}
