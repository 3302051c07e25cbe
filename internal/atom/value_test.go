package atom

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomSealed(t *testing.T) {
	var _ Atom = Symbol("s")
	var _ Atom = String("s")
	var _ Atom = Number("1")
	var _ Atom = List{}
}

func TestNumberConversion(t *testing.T) {
	n, err := Number("42").Int()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	f, err := Number("-12.5").Float()
	require.NoError(t, err)
	assert.Equal(t, -12.5, f)

	_, err = Number("12.5").Int()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotNumeric))
	assert.Equal(t, NotNumeric, KindOf(err))

	_, err = Number("abc").Float()
	assert.True(t, errors.Is(err, ErrNotNumeric))
}

func TestIsNumeric(t *testing.T) {
	tests := map[string]bool{
		"0": true, "123": true, "-5": true, "3.14": true, "-0.5": true, ".5": true, "5.": true,
		"": false, "-": false, ".": false, "-.": false, "1.2.3": false, "1e5": false, "--1": false, "12a": false, "+1": false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsNumeric(in), "IsNumeric(%q)", in)
	}
}

func TestAuto(t *testing.T) {
	assert.Equal(t, Number("42"), Auto("42"))
	assert.Equal(t, Symbol("CG07AU599"), Auto("CG07AU599"))
	assert.Equal(t, String("Prakhar Singh"), Auto("Prakhar Singh"))
	assert.Equal(t, String(""), Auto(""))
	assert.Equal(t, String("a(b"), Auto("a(b"))
	assert.Equal(t, String(";x"), Auto(";x"))
}

func TestEqual(t *testing.T) {
	a := List{Symbol("x"), List{Number("1"), String("y")}}
	b := List{Symbol("x"), List{Number("1"), String("y")}}
	assert.True(t, Equal(a, b))

	assert.False(t, Equal(Symbol("1"), Number("1")), "kind matters")
	assert.False(t, Equal(String("x"), Symbol("x")), "kind matters")
	assert.False(t, Equal(List{Symbol("x")}, List{Symbol("x"), Symbol("y")}))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(Symbol("x"), nil))
}

func TestListHeadTail(t *testing.T) {
	rec := List{Symbol("key"), Number("1"), Number("2")}
	assert.Equal(t, Symbol("key"), rec.Head())
	assert.Equal(t, []Atom{Number("1"), Number("2")}, rec.Tail())

	empty := List{}
	assert.Nil(t, empty.Head())
	assert.Nil(t, empty.Tail())
}

func TestToJSON(t *testing.T) {
	rec := List{Symbol("k"), List{String("a b"), Number("2")}}
	assert.Equal(t, []any{"k", []any{"a b", "2"}}, ToJSON(rec))
}
