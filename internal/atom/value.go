package atom

import (
	"strconv"
	"strings"
)

// Atom is a sealed interface over the four record value kinds.
// Only Symbol, String, Number and List implement it, so type switches
// over an Atom can be exhaustive.
type Atom interface {
	atom() // Sealed - only these types implement it

	// Text returns the raw token text for scalars (quotes stripped) and the
	// serialized form for lists.
	Text() string
}

// Symbol is a bare token with no enclosing quotes.
type Symbol string

func (Symbol) atom() {}

// Text returns the symbol text.
func (s Symbol) Text() string { return string(s) }

// String is a token that was enclosed in double quotes.
// The quotes are not part of the value; Serialize adds them back.
type String string

func (String) atom() {}

// Text returns the unquoted string content.
func (s String) Text() string { return string(s) }

// Number is a numeric token stored as its source text.
// Conversion happens on demand via Int and Float.
type Number string

func (Number) atom() {}

// Text returns the number as written.
func (n Number) Text() string { return string(n) }

// Int parses the number as a base-10 int64.
// Returns a *ParseError of kind NotNumeric if the text is not an integer.
func (n Number) Int() (int64, error) {
	v, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return 0, &ParseError{Kind: NotNumeric, Msg: strconv.Quote(string(n)) + " is not an integer"}
	}
	return v, nil
}

// Float parses the number as a float64.
// Returns a *ParseError of kind NotNumeric on failure.
func (n Number) Float() (float64, error) {
	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0, &ParseError{Kind: NotNumeric, Msg: strconv.Quote(string(n)) + " is not a number"}
	}
	return v, nil
}

// List is an ordered sequence of child atoms. Order is significant:
// positional schemas address children by index.
type List []Atom

func (List) atom() {}

// Text returns the serialized list.
func (l List) Text() string { return Serialize(l) }

// Head returns the first child, or nil for an empty list.
// For records this is the leading key.
func (l List) Head() Atom {
	if len(l) == 0 {
		return nil
	}
	return l[0]
}

// Tail returns the children after the leading key.
func (l List) Tail() []Atom {
	if len(l) == 0 {
		return nil
	}
	return l[1:]
}

// NewList creates a List from atoms.
func NewList(children ...Atom) List {
	return List(children)
}

// IsNumeric reports whether text is a numeric token: an optional leading
// '-', at least one digit, and at most one '.'.
func IsNumeric(text string) bool {
	if text == "" {
		return false
	}
	body := strings.TrimPrefix(text, "-")
	digits := 0
	dots := 0
	for _, r := range body {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}

// Auto picks the atom kind for a caller-supplied value.
//
// Numeric text becomes a Number, text that is safe as a bare token becomes a
// Symbol, and everything else (whitespace, parens, quotes, ';', empty) becomes
// a String so that it survives a serialize/parse round trip.
func Auto(text string) Atom {
	if IsNumeric(text) {
		return Number(text)
	}
	if isBareToken(text) {
		return Symbol(text)
	}
	return String(text)
}

// isBareToken reports whether text can be written without quotes and parse
// back as the same Symbol.
func isBareToken(text string) bool {
	if text == "" || text[0] == ';' {
		return false
	}
	return !strings.ContainsAny(text, " \t\r\n()\"")
}

// Equal reports whether two atoms are structurally identical, including kind.
func Equal(a, b Atom) bool {
	switch x := a.(type) {
	case Symbol:
		y, ok := b.(Symbol)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

// ToJSON renders an atom as a JSON-friendly Go value: scalars become their
// text, lists become []any. Used for raw record output.
func ToJSON(a Atom) any {
	switch v := a.(type) {
	case List:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = ToJSON(child)
		}
		return out
	case nil:
		return nil
	default:
		return v.Text()
	}
}
