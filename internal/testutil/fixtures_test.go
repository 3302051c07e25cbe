package testutil

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataDir(t *testing.T) {
	dir := DataDir(t, map[string][]string{
		"vehicles.metta":   {"(a)", "(b)"},
		"nested/one.metta": {"(c)"},
		"empty.metta":      {},
	})

	assert.Equal(t, []string{"(a)", "(b)"}, ReadLines(t, filepath.Join(dir, "vehicles.metta")))
	assert.Equal(t, []string{"(c)"}, ReadLines(t, filepath.Join(dir, "nested", "one.metta")))
	assert.Equal(t, []string{}, ReadLines(t, filepath.Join(dir, "empty.metta")))
	assert.Nil(t, ReadLines(t, filepath.Join(dir, "missing.metta")))
}

func TestFixedRequestID(t *testing.T) {
	gen := NewFixedRequestID("req-test")

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "req-test", gen.Generate())
		}()
	}
	wg.Wait()
}

func TestDiscardLogger(t *testing.T) {
	log := DiscardLogger()
	assert.NotPanics(t, func() { log.Info("dropped", "k", "v") })
}
