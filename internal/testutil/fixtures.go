package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// DataDir creates a temp directory holding files, name to lines. Each line
// is written followed by "\n". Names may contain subdirectories.
func DataDir(t *testing.T, files map[string][]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, lines := range files {
		WriteLines(t, filepath.Join(dir, name), lines...)
	}
	return dir
}

// WriteLines writes lines to path, creating parent directories.
func WriteLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadLines returns the lines of path without terminators. A missing file
// yields nil.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	content := strings.TrimSuffix(string(data), "\n")
	if content == "" {
		return []string{}
	}
	return strings.Split(content, "\n")
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FixedRequestID generates the same request id every time.
//
// Unlike engine.FixedGenerator which returns ids in sequence, this generator
// never runs out, which suits tests that do not count operations.
//
// Thread-safety: FixedRequestID is stateless and safe for concurrent use.
type FixedRequestID struct {
	id string
}

// NewFixedRequestID returns a generator that always yields id.
func NewFixedRequestID(id string) FixedRequestID {
	return FixedRequestID{id: id}
}

// Generate returns the fixed id.
func (g FixedRequestID) Generate() string {
	return g.id
}
