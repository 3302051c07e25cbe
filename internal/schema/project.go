package schema

import (
	"strconv"
	"strings"

	"github.com/roach88/atomstore/internal/atom"
)

// Project applies sc to children, the record's atoms after its leading key.
// It never fails: unmatched or unconvertible fragments are left out.
func Project(children []atom.Atom, sc *Schema) Projection {
	out := Projection{}
	if sc == nil {
		return out
	}
	switch sc.Kind {
	case KindKeyed:
		projectKeyed(children, sc.Rules, out)
	case KindPositional:
		projectPositional(children, sc.Fields, out)
	}
	return out
}

func projectKeyed(children []atom.Atom, rules []Rule, out Projection) {
	i := 0
	for i < len(children) {
		consumed := 0
		if _, isList := children[i].(atom.List); !isList {
			label := Normalize(children[i])
			for _, r := range rules {
				if r.Key != Wildcard && r.Key != label {
					continue
				}
				if len(children)-i-1 < r.Arity {
					continue
				}
				r.apply(label, children[i+1:i+1+r.Arity], out)
				consumed = 1 + r.Arity
				break
			}
		}
		if consumed == 0 {
			consumed = 1
		}
		i += consumed
	}
}

func (r Rule) apply(label string, values []atom.Atom, out Projection) {
	for j, v := range values {
		path := label
		if j < len(r.Paths) {
			path = r.Paths[j]
		}
		if val, ok := convert(v, r.Type); ok {
			assign(out, path, val)
		}
	}
}

func projectPositional(children []atom.Atom, fields []Field, out Projection) {
	for _, f := range fields {
		if f.Index >= len(children) {
			continue
		}
		v := children[f.Index]
		if f.Unwrap {
			l, ok := v.(atom.List)
			if !ok || len(l) == 0 {
				continue
			}
			v = l[0]
		}
		if val, ok := convert(v, f.Type); ok {
			assign(out, f.Name, val)
		}
	}
}

// convert renders v as t. Lists never convert to a scalar.
func convert(v atom.Atom, t ValueType) (any, bool) {
	if _, isList := v.(atom.List); isList || v == nil {
		return nil, false
	}
	text := Normalize(v)

	switch t {
	case TypeString:
		return text, true
	case TypeSymbol:
		if text == "" || strings.ContainsAny(text, " \t") {
			return nil, false
		}
		return text, true
	case TypeInt:
		if !atom.IsNumeric(text) {
			return nil, false
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case TypeFloat:
		if !atom.IsNumeric(text) {
			return nil, false
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	}
	return nil, false
}

// assign writes val at path, creating one level of nesting for "a.b".
func assign(out Projection, path string, val any) {
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		out[path] = val
		return
	}
	inner, ok := out[head].(Projection)
	if !ok {
		inner = Projection{}
		out[head] = inner
	}
	inner[rest] = val
}
