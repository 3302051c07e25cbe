package store

import (
	"bufio"
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/roach88/atomstore/internal/atom"
)

// maxLineSize bounds a single record line. Longer lines fail the scan with
// bufio.ErrTooLong rather than being silently truncated.
const maxLineSize = 16 << 20

// Predicate selects records in FindFirst and FindAll.
type Predicate func(rec atom.List) bool

// Scan returns a lazy sequence over the records in file order.
//
// Each call re-opens the file and reads from the start. Blank lines and ';'
// comments are skipped silently; lines that fail to parse are logged at
// Debug and skipped. A missing file yields an empty sequence.
//
// The error half of each pair is nil for records. On an I/O failure or
// context cancellation the sequence yields (nil, err) once and stops.
func (s *Store) Scan(ctx context.Context) iter.Seq2[atom.List, error] {
	return func(yield func(atom.List, error) bool) {
		f, err := os.Open(s.path)
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		if err != nil {
			yield(nil, &Error{Op: "scan", Path: s.path, Err: err})
			return
		}
		defer f.Close()

		scanned := 0
		defer func() { s.recordsScanned(scanned) }()

		lineNo := 0
		stopped := false
		err = eachLine(f, func(line string) bool {
			lineNo++
			if ctx.Err() != nil {
				return false
			}

			text := strings.TrimSpace(line)
			if text == "" || strings.HasPrefix(text, ";") {
				return true
			}

			rec, parseErr := atom.ParseRecord(text)
			if parseErr != nil {
				s.logger.Debug("skipping unparsable line",
					"resource", s.name,
					"path", s.path,
					"line", lineNo,
					"kind", atom.KindOf(parseErr),
					"error", parseErr)
				s.lineSkipped(atom.KindOf(parseErr))
				return true
			}

			scanned++
			if !yield(rec, nil) {
				stopped = true
				return false
			}
			return true
		})

		if stopped {
			return
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			yield(nil, ctxErr)
			return
		}
		if err != nil {
			yield(nil, &Error{Op: "scan", Path: s.path, Err: err})
		}
	}
}

// eachLine calls fn for each line of r until fn returns false.
func eachLine(r io.Reader, fn func(line string) bool) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		if !fn(sc.Text()) {
			return nil
		}
	}
	return sc.Err()
}

// Records returns every record in file order.
func (s *Store) Records(ctx context.Context) ([]atom.List, error) {
	return s.FindAll(ctx, nil)
}

// FindFirst returns the first record matching pred.
// Returns (nil, false, nil) when nothing matches; that is not an error.
func (s *Store) FindFirst(ctx context.Context, pred Predicate) (atom.List, bool, error) {
	for rec, err := range s.Scan(ctx) {
		if err != nil {
			return nil, false, err
		}
		if pred == nil || pred(rec) {
			return rec, true, nil
		}
	}
	return nil, false, nil
}

// FindAll returns every record matching pred in file order.
// A nil pred matches everything. The result is empty, not an error, when
// nothing matches.
func (s *Store) FindAll(ctx context.Context, pred Predicate) ([]atom.List, error) {
	var out []atom.List
	for rec, err := range s.Scan(ctx) {
		if err != nil {
			return nil, err
		}
		if pred == nil || pred(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Lines returns the raw lines of the backing file, without line terminators.
// A missing file yields no lines.
func (s *Store) Lines(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Op: "read", Path: s.path, Err: err}
	}
	return splitLines(string(data)), nil
}

// splitLines splits file content into lines. A final terminator does not
// produce a trailing empty line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
