package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/atomstore/internal/atom"
)

func builtin(t *testing.T, name string) *Schema {
	t.Helper()
	set, err := Builtin()
	require.NoError(t, err)
	sc, ok := set.Get(name)
	require.True(t, ok, "schema %s", name)
	return sc
}

func strs(texts ...string) []atom.Atom {
	out := make([]atom.Atom, len(texts))
	for i, s := range texts {
		out[i] = atom.String(s)
	}
	return out
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   atom.Atom
		want string
	}{
		{atom.String("no of days"), "no of days"},
		{atom.Symbol("winter"), "winter"},
		{atom.Symbol(`"quoted"`), "quoted"},
		{atom.String(`say "hi"`), "say hi"},
		{atom.Number("-2.5"), "-2.5"},
		{atom.List{atom.String("a"), atom.Symbol("b")}, "(a b)"},
		{atom.String("Café"), "Café"},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in))
	}
}

func TestProject_SkipsGarbage(t *testing.T) {
	sc := builtin(t, LocationDetail)

	got := Project(strs("no of days", "5", "garbage", "best time", "winter"), sc)

	assert.Equal(t, Projection{
		"total_days":         int64(5),
		"best_time_to_visit": "winter",
	}, got)
}

func TestProject_LocationDetailFull(t *testing.T) {
	sc := builtin(t, LocationDetail)
	children := []atom.Atom{
		atom.String("no of days"), atom.Number("4"),
		atom.String("food cost"), atom.Number("2000"),
		atom.String("hotel cost"), atom.Number("3500"),
		atom.String("bike car bus"), atom.Number("300"), atom.Number("1200"), atom.Number("150"),
		atom.String("best time"), atom.String("october to march"),
	}

	got := Project(children, sc)

	assert.Equal(t, Projection{
		"total_days": int64(4),
		"food_cost":  int64(2000),
		"hotel_cost": int64(3500),
		"travel_cost": Projection{
			"bike": int64(300),
			"car":  int64(1200),
			"bus":  int64(150),
		},
		"best_time_to_visit": "october to march",
	}, got)
}

func TestProject_NumericFailureLeavesFieldAbsent(t *testing.T) {
	sc := builtin(t, LocationDetail)

	got := Project(strs("no of days", "five", "food cost", "100"), sc)

	assert.Equal(t, Projection{"food_cost": int64(100)}, got)
}

func TestProject_PartialTravelCost(t *testing.T) {
	sc := builtin(t, LocationDetail)

	got := Project(strs("bike car bus", "300", "n/a", "150"), sc)

	assert.Equal(t, Projection{
		"travel_cost": Projection{"bike": int64(300), "bus": int64(150)},
	}, got)
}

func TestProject_ArityDoesNotFit(t *testing.T) {
	sc := builtin(t, LocationDetail)

	// Only two values remain after the key; the rule is not applied and the
	// cursor moves on.
	got := Project(strs("bike car bus", "300", "1200"), sc)

	assert.Empty(t, got)
}

func TestProject_ListKeysAreSkipped(t *testing.T) {
	sc := builtin(t, LocationDetail)
	children := []atom.Atom{
		atom.List{atom.String("no of days")},
		atom.String("no of days"), atom.Number("3"),
	}

	assert.Equal(t, Projection{"total_days": int64(3)}, Project(children, sc))
}

func TestProject_Empty(t *testing.T) {
	assert.Empty(t, Project(nil, builtin(t, LocationDetail)))
	assert.Empty(t, Project(strs("x"), nil))
}

func TestProject_VehiclePairs(t *testing.T) {
	sc := builtin(t, VehiclePairs)
	children := []atom.Atom{
		atom.Symbol("owner"), atom.String("Prakhar"),
		atom.Symbol("type"), atom.Symbol("car"),
		atom.Symbol("dangling"),
	}

	got := Project(children, sc)

	assert.Equal(t, Projection{"owner": "Prakhar", "type": "car"}, got)
}

func TestProject_VehicleRegistration(t *testing.T) {
	rec, err := atom.ParseRecord(`(CG07AU599 ("Prakhar") "0xABC" "car" "RC123")`)
	require.NoError(t, err)

	got := Project(rec.Tail(), builtin(t, VehicleRegistration))

	assert.Equal(t, Projection{
		"full_name":      "Prakhar",
		"wallet_address": "0xABC",
		"vehicle_type":   "car",
		"rc_detail":      "RC123",
	}, got)
}

func TestProject_VehicleRegistrationShortRecord(t *testing.T) {
	rec, err := atom.ParseRecord(`(CG07AU599 () "0xABC")`)
	require.NoError(t, err)

	got := Project(rec.Tail(), builtin(t, VehicleRegistration))

	assert.Equal(t, Projection{"wallet_address": "0xABC"}, got)
}

func TestProject_Transaction(t *testing.T) {
	rec, err := atom.ParseRecord(`(CG07AU599 "10:30" "2024-05-01" ("Asha") 250.5)`)
	require.NoError(t, err)

	got := Project(rec.Tail(), builtin(t, Transaction))

	assert.Equal(t, Projection{
		"time":  "10:30",
		"date":  "2024-05-01",
		"name":  "Asha",
		"price": 250.5,
	}, got)
}

func TestProject_SymbolType(t *testing.T) {
	sc := &Schema{
		Name: "t",
		Kind: KindKeyed,
		Rules: []Rule{
			{Key: "id", Arity: 1, Type: TypeSymbol, Paths: []string{"id"}},
		},
	}

	assert.Equal(t, Projection{"id": "abc"}, Project(strs("id", "abc"), sc))
	assert.Empty(t, Project(strs("id", "a b"), sc))
}

func TestProject_FloatRejectsExponent(t *testing.T) {
	sc := &Schema{
		Name:   "t",
		Kind:   KindPositional,
		Fields: []Field{{Index: 0, Name: "v", Type: TypeFloat}},
	}

	assert.Empty(t, Project([]atom.Atom{atom.Symbol("1e5")}, sc))
	assert.Equal(t, Projection{"v": -0.5}, Project([]atom.Atom{atom.Number("-0.5")}, sc))
}
