package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/atomstore/internal/atom"
)

// openTestStore opens a store on a file in a fresh temp dir, seeding it with
// content when content is non-empty.
func openTestStore(t *testing.T, content string, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.metta")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	s, err := Open(path, opts...)
	require.NoError(t, err)
	return s
}

func readFile(t *testing.T, s *Store) string {
	t.Helper()
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	return string(data)
}

func collect(t *testing.T, s *Store) []atom.List {
	t.Helper()
	recs, err := s.Records(context.Background())
	require.NoError(t, err)
	return recs
}

type countingObserver struct {
	mu      sync.Mutex
	skipped map[atom.ErrorKind]int
	scanned int
	written map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{
		skipped: map[atom.ErrorKind]int{},
		written: map[string]int{},
	}
}

func (o *countingObserver) LineSkipped(_ string, kind atom.ErrorKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skipped[kind]++
}

func (o *countingObserver) RecordsScanned(_ string, n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.scanned += n
}

func (o *countingObserver) RecordWritten(_, op string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.written[op]++
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
}

func TestOpen_Directory(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
}

func TestOpen_Defaults(t *testing.T) {
	s := openTestStore(t, "")
	assert.Equal(t, "data.metta", s.Name())
	assert.True(t, filepath.IsAbs(s.Path()))

	exists, err := s.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestOpen_WithName(t *testing.T) {
	s := openTestStore(t, "", WithName("vehicles"))
	assert.Equal(t, "vehicles", s.Name())
}
