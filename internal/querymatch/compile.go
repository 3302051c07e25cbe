// Package querymatch compiles queryir predicates into record matchers.
package querymatch

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/roach88/atomstore/internal/atom"
	"github.com/roach88/atomstore/internal/queryir"
	"github.com/roach88/atomstore/internal/schema"
)

// Matcher reports whether a record satisfies a compiled predicate.
// It has the signature of store.Predicate.
type Matcher func(atom.List) bool

// Compile validates p and compiles it to a Matcher.
//
// Text comparisons use schema.Normalize on the record side, so quoted and
// bare atoms compare equal. Glob patterns are compiled once.
func Compile(p queryir.Predicate) (Matcher, error) {
	if err := queryir.Validate(p).Err(); err != nil {
		return nil, err
	}
	return compilePredicate(p)
}

// MustCompile is like Compile but panics on error. For static predicates.
func MustCompile(p queryir.Predicate) Matcher {
	m, err := Compile(p)
	if err != nil {
		panic(err)
	}
	return m
}

func compilePredicate(p queryir.Predicate) (Matcher, error) {
	switch pred := p.(type) {
	case queryir.KeyEquals:
		return keyEquals(pred.Key), nil
	case *queryir.KeyEquals:
		return keyEquals(pred.Key), nil
	case queryir.KeyGlob:
		return keyGlob(pred.Pattern)
	case *queryir.KeyGlob:
		return keyGlob(pred.Pattern)
	case queryir.ChildEquals:
		return childEquals(pred.Index, pred.Value), nil
	case *queryir.ChildEquals:
		return childEquals(pred.Index, pred.Value), nil
	case queryir.ChildIsList:
		return childIsList(pred.Index), nil
	case *queryir.ChildIsList:
		return childIsList(pred.Index), nil
	case queryir.MinChildren:
		return minChildren(pred.N), nil
	case *queryir.MinChildren:
		return minChildren(pred.N), nil
	case queryir.Not:
		return compileNot(pred.P)
	case *queryir.Not:
		return compileNot(pred.P)
	case queryir.And:
		return compileAnd(pred.Predicates)
	case *queryir.And:
		return compileAnd(pred.Predicates)
	default:
		return nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func keyEquals(key string) Matcher {
	want := schema.Normalize(atom.String(key))
	return func(rec atom.List) bool {
		head := rec.Head()
		if head == nil {
			return false
		}
		if _, isList := head.(atom.List); isList {
			return false
		}
		return schema.Normalize(head) == want
	}
}

func keyGlob(pattern string) (Matcher, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile glob %q: %w", pattern, err)
	}
	return func(rec atom.List) bool {
		head := rec.Head()
		if head == nil {
			return false
		}
		if _, isList := head.(atom.List); isList {
			return false
		}
		return g.Match(schema.Normalize(head))
	}, nil
}

func childEquals(index int, value string) Matcher {
	want := schema.Normalize(atom.String(value))
	return func(rec atom.List) bool {
		if index >= len(rec) {
			return false
		}
		if _, isList := rec[index].(atom.List); isList {
			return false
		}
		return schema.Normalize(rec[index]) == want
	}
}

func childIsList(index int) Matcher {
	return func(rec atom.List) bool {
		if index >= len(rec) {
			return false
		}
		_, isList := rec[index].(atom.List)
		return isList
	}
}

func minChildren(n int) Matcher {
	return func(rec atom.List) bool {
		return len(rec) >= n
	}
}

func compileNot(p queryir.Predicate) (Matcher, error) {
	inner, err := compilePredicate(p)
	if err != nil {
		return nil, fmt.Errorf("compile not: %w", err)
	}
	return func(rec atom.List) bool {
		return !inner(rec)
	}, nil
}

func compileAnd(preds []queryir.Predicate) (Matcher, error) {
	parts := make([]Matcher, 0, len(preds))
	for i, p := range preds {
		m, err := compilePredicate(p)
		if err != nil {
			return nil, fmt.Errorf("compile and[%d]: %w", i, err)
		}
		parts = append(parts, m)
	}
	return func(rec atom.List) bool {
		for _, m := range parts {
			if !m(rec) {
				return false
			}
		}
		return true
	}, nil
}
