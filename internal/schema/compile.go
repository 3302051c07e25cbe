package schema

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Names of the schemas the engine projects with.
const (
	VehicleRegistration = "vehicle_registration"
	VehiclePairs        = "vehicle_pairs"
	Transaction         = "transaction"
	LocationDetail      = "location_detail"
)

//go:embed defs.cue
var defsSource string

//go:embed schemas.cue
var builtinSource string

// BuiltinSource returns the CUE text of the built-in schema set.
func BuiltinSource() string {
	return builtinSource
}

// Builtin compiles the embedded schema set.
func Builtin() (*Set, error) {
	return Load("schemas.cue", []byte(builtinSource))
}

// LoadFile compiles the CUE schema file at path. The file replaces the
// built-in set; it does not extend it.
func LoadFile(path string) (*Set, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}
	return Load(path, src)
}

// Load compiles CUE source declaring a top-level "schemas" struct.
//
// The source is unified with the schema definitions, so defaults apply
// (arity 1, type "string") and malformed rules fail with a position.
//
//	schemas: location_detail: {
//	    kind: "keyed"
//	    rules: [{key: "no of days", type: "int", path: "total_days"}]
//	}
func Load(filename string, src []byte) (*Set, error) {
	ctx := cuecontext.New()

	defs := ctx.CompileString(defsSource, cue.Filename("defs.cue"))
	if err := defs.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	user := ctx.CompileBytes(src, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	// defs declares schemas, so presence is checked on the user value.
	if !user.LookupPath(cue.ParsePath("schemas")).Exists() {
		return nil, &CompileError{
			Field:   "schemas",
			Message: "schemas is required",
			Pos:     user.Pos(),
		}
	}

	v := defs.Unify(user)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schemasVal := v.LookupPath(cue.ParsePath("schemas"))

	iter, err := schemasVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var list []*Schema
	for iter.Next() {
		sc, err := CompileSchema(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		list = append(list, sc)
	}

	if len(list) == 0 {
		return nil, &CompileError{
			Field:   "schemas",
			Message: "at least one schema is required",
			Pos:     schemasVal.Pos(),
		}
	}

	return NewSet(list...)
}

// CompileSchema parses one schema value.
func CompileSchema(name string, v cue.Value) (*Schema, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	kind, err := stringField(v, "kind")
	if err != nil {
		return nil, err
	}

	sc := &Schema{Name: name, Kind: Kind(kind)}

	switch sc.Kind {
	case KindKeyed:
		sc.Rules, err = parseRules(name, v)
	case KindPositional:
		sc.Fields, err = parseFields(name, v)
	}
	if err != nil {
		return nil, err
	}

	if err := sc.check(); err != nil {
		return nil, &CompileError{
			Field:   "schemas." + name,
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}

	return sc, nil
}

func parseRules(name string, v cue.Value) ([]Rule, error) {
	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	iter, err := rulesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rules []Rule
	for iter.Next() {
		rv := iter.Value()

		key, err := stringField(rv, "key")
		if err != nil {
			return nil, err
		}
		arity, err := intField(rv, "arity")
		if err != nil {
			return nil, err
		}
		typ, err := stringField(rv, "type")
		if err != nil {
			return nil, err
		}

		rule := Rule{Key: key, Arity: arity, Type: ValueType(typ)}

		var single []string
		if pathVal := rv.LookupPath(cue.ParsePath("path")); pathVal.Exists() && pathVal.IsConcrete() {
			p, err := pathVal.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			single = []string{p}
		}

		var multi []string
		if pathsVal := rv.LookupPath(cue.ParsePath("paths")); pathsVal.Exists() {
			pathIter, err := pathsVal.List()
			if err != nil {
				return nil, formatCUEError(err)
			}
			for pathIter.Next() {
				p, err := pathIter.Value().String()
				if err != nil {
					return nil, formatCUEError(err)
				}
				multi = append(multi, p)
			}
		}

		if len(single) > 0 && len(multi) > 0 {
			return nil, &CompileError{
				Field:   fmt.Sprintf("schemas.%s.rules", name),
				Message: fmt.Sprintf("rule %q sets both path and paths", key),
				Pos:     rv.Pos(),
			}
		}
		rule.Paths = append(single, multi...)

		rules = append(rules, rule)
	}

	return rules, nil
}

func parseFields(name string, v cue.Value) ([]Field, error) {
	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	iter, err := fieldsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var fields []Field
	for iter.Next() {
		fv := iter.Value()

		index, err := intField(fv, "index")
		if err != nil {
			return nil, err
		}
		fieldName, err := stringField(fv, "name")
		if err != nil {
			return nil, err
		}
		typ, err := stringField(fv, "type")
		if err != nil {
			return nil, err
		}
		unwrap, err := boolField(fv, "unwrap")
		if err != nil {
			return nil, err
		}

		fields = append(fields, Field{
			Index:  index,
			Name:   fieldName,
			Type:   ValueType(typ),
			Unwrap: unwrap,
		})
	}

	return fields, nil
}

// concrete resolves a default if the value has one.
func concrete(v cue.Value) cue.Value {
	if d, ok := v.Default(); ok {
		return d
	}
	return v
}

func stringField(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := concrete(fv).String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func intField(v cue.Value, field string) (int, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	n, err := concrete(fv).Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return int(n), nil
}

func boolField(v cue.Value, field string) (bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return false, nil
	}
	b, err := concrete(fv).Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

// CompileError represents a schema compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
