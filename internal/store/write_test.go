package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/atomstore/internal/atom"
)

const marker = "(= (vehicle-rule"

func rec(parts ...string) atom.List {
	l := make(atom.List, 0, len(parts))
	for _, p := range parts {
		l = append(l, atom.Auto(p))
	}
	return l
}

func TestAppend_CreatesMissingFile(t *testing.T) {
	obs := newCountingObserver()
	s := openTestStore(t, "", WithObserver(obs))

	require.NoError(t, s.Append(context.Background(), rec("KA01", "1")))

	assert.Equal(t, "(KA01 1)\n", readFile(t, s))
	assert.Equal(t, 1, obs.written["append"])
}

func TestAppend_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "txns.metta")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Append(context.Background(), rec("a")))
	assert.Equal(t, "(a)\n", readFile(t, s))
}

func TestAppend_NoCreateMissing(t *testing.T) {
	s := openTestStore(t, "", WithCreateMissing(false))

	err := s.Append(context.Background(), rec("a"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResourceMissing)
	assert.True(t, IsStoreError(err))

	exists, statErr := s.Exists()
	require.NoError(t, statErr)
	assert.False(t, exists)
}

func TestAppend_AddsSeparatorWhenTrailingNewlineMissing(t *testing.T) {
	s := openTestStore(t, "(a 1)")

	require.NoError(t, s.Append(context.Background(), rec("b", "2")))

	assert.Equal(t, "(a 1)\n(b 2)\n", readFile(t, s))
	assert.Len(t, collect(t, s), 2)
}

func TestAppend_ThenScanLastRecord(t *testing.T) {
	s := openTestStore(t, "(a 1)\n; note\n")
	r := atom.List{atom.Symbol("CG07"), atom.String("14:02"), atom.String("2024-01-05"), atom.List{atom.String("Asha")}, atom.Number("250")}

	require.NoError(t, s.Append(context.Background(), r))

	recs := collect(t, s)
	require.NotEmpty(t, recs)
	assert.True(t, atom.Equal(r, recs[len(recs)-1]))
}

func TestAppend_Concurrent(t *testing.T) {
	s := openTestStore(t, "")
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, rec(fmt.Sprintf("r%d", i), "1")))
		}()
	}
	wg.Wait()

	recs := collect(t, s)
	assert.Len(t, recs, n)

	lines, err := s.Lines(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, n)
}

func TestInsertBeforeMarker_InsertsAboveFirstMarker(t *testing.T) {
	content := "(KA01 (\"A\") \"w\" \"car\" \"rc\")\n" +
		"(= (vehicle-rule $x) (check $x))\n" +
		"(= (vehicle-rule $y) (other $y))\n"
	obs := newCountingObserver()
	s := openTestStore(t, content, WithObserver(obs))

	require.NoError(t, s.InsertBeforeMarker(context.Background(), rec("KA02", "x"), marker))

	lines, err := s.Lines(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, "(KA02 x)", lines[1])
	assert.Equal(t, "(= (vehicle-rule $x) (check $x))", lines[2])
	assert.Equal(t, 1, obs.written["insert"])
}

func TestInsertBeforeMarker_PreservesOtherLines(t *testing.T) {
	content := "; vehicles\n\nbroken (line\n(= (vehicle-rule $x) ok)\n(tail)\n"
	s := openTestStore(t, content)

	require.NoError(t, s.InsertBeforeMarker(context.Background(), rec("new"), marker))

	want := "; vehicles\n\nbroken (line\n(new)\n(= (vehicle-rule $x) ok)\n(tail)\n"
	assert.Equal(t, want, readFile(t, s))
}

func TestInsertBeforeMarker_SequentialInsertsKeepOrder(t *testing.T) {
	s := openTestStore(t, "(= (vehicle-rule $x) ok)\n")
	ctx := context.Background()

	require.NoError(t, s.InsertBeforeMarker(ctx, rec("first"), marker))
	require.NoError(t, s.InsertBeforeMarker(ctx, rec("second"), marker))

	assert.Equal(t, "(first)\n(second)\n(= (vehicle-rule $x) ok)\n", readFile(t, s))
}

func TestInsertBeforeMarker_AbsentMarkerAppends(t *testing.T) {
	s := openTestStore(t, "(a)\n(b)")

	require.NoError(t, s.InsertBeforeMarker(context.Background(), rec("c"), marker))

	assert.Equal(t, "(a)\n(b)\n(c)\n", readFile(t, s))
}

func TestInsertBeforeMarker_MissingFile(t *testing.T) {
	s := openTestStore(t, "")

	require.NoError(t, s.InsertBeforeMarker(context.Background(), rec("only"), marker))
	assert.Equal(t, "(only)\n", readFile(t, s))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestInsertBeforeMarker_NoCreateMissing(t *testing.T) {
	s := openTestStore(t, "", WithCreateMissing(false))

	err := s.InsertBeforeMarker(context.Background(), rec("x"), marker)
	assert.ErrorIs(t, err, ErrResourceMissing)
}

func TestInsertBeforeMarker_EmptyMarker(t *testing.T) {
	s := openTestStore(t, "(a)\n")

	err := s.InsertBeforeMarker(context.Background(), rec("x"), "")
	assert.ErrorIs(t, err, ErrEmptyMarker)
	assert.Equal(t, "(a)\n", readFile(t, s))
}

func TestInsertBeforeMarker_MarkerMatchesRawText(t *testing.T) {
	// An unparsable line still counts as a marker line.
	s := openTestStore(t, "(a)\n(= (vehicle-rule broken\n")

	require.NoError(t, s.InsertBeforeMarker(context.Background(), rec("b"), marker))

	lines, err := s.Lines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"(a)", "(b)", "(= (vehicle-rule broken"}, lines)
}

func TestInsertBeforeMarker_Concurrent(t *testing.T) {
	s := openTestStore(t, "(= (vehicle-rule $x) ok)\n")
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.InsertBeforeMarker(ctx, rec(fmt.Sprintf("v%d", i)), marker))
		}()
	}
	wg.Wait()

	lines, err := s.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, n+1)
	assert.True(t, strings.HasPrefix(lines[n], marker))
}

func TestWrite_WithoutFileLock(t *testing.T) {
	s := openTestStore(t, "", WithFileLock(false))

	require.NoError(t, s.Append(context.Background(), rec("a")))

	_, err := os.Stat(s.Path() + ".lock")
	assert.True(t, os.IsNotExist(err))
}
