package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/roach88/atomstore/internal/atom"
)

const filePerm = 0o644

// Append writes rec as a new last line.
//
// If the file does not end in a newline, one is written first so the new
// record never joins the previous line.
func (s *Store) Append(ctx context.Context, rec atom.List) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.prepareWrite("append"); err != nil {
		return err
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return &Error{Op: "append", Path: s.path, Err: err}
	}
	defer unlock()

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND|os.O_CREATE, filePerm)
	if err != nil {
		return &Error{Op: "append", Path: s.path, Err: err}
	}

	var buf bytes.Buffer
	needsSep, err := missingTrailingNewline(f)
	if err != nil {
		f.Close()
		return &Error{Op: "append", Path: s.path, Err: err}
	}
	if needsSep {
		buf.WriteByte('\n')
	}
	buf.WriteString(atom.Serialize(rec))
	buf.WriteByte('\n')

	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return &Error{Op: "append", Path: s.path, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &Error{Op: "append", Path: s.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &Error{Op: "append", Path: s.path, Err: err}
	}

	s.logger.Debug("record appended", "resource", s.name, "path", s.path)
	s.recordWritten("append")
	return nil
}

// InsertBeforeMarker writes rec on the line immediately before the first line
// whose raw text contains marker. Without a marker line, rec is appended.
//
// The file is rewritten atomically: readers see the old or the new content,
// never a partial file. Other lines are preserved byte for byte apart from
// line terminators, which are normalized to "\n".
func (s *Store) InsertBeforeMarker(ctx context.Context, rec atom.List, marker string) error {
	if marker == "" {
		return &Error{Op: "insert", Path: s.path, Err: ErrEmptyMarker}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.prepareWrite("insert"); err != nil {
		return err
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return &Error{Op: "insert", Path: s.path, Err: err}
	}
	defer unlock()

	data, err := os.ReadFile(s.path)
	created := false
	if errors.Is(err, os.ErrNotExist) {
		created = true
		err = nil
	}
	if err != nil {
		return &Error{Op: "insert", Path: s.path, Err: err}
	}

	lines := splitLines(string(data))
	newLine := atom.Serialize(rec)

	at := len(lines)
	for i, line := range lines {
		if strings.Contains(line, marker) {
			at = i
			break
		}
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, newLine)
	out = append(out, lines[at:]...)

	content := strings.Join(out, "\n") + "\n"
	if err := atomic.WriteFile(s.path, strings.NewReader(content)); err != nil {
		return &Error{Op: "insert", Path: s.path, Err: err}
	}
	if created {
		// atomic.WriteFile creates through a temp file with 0600.
		if err := os.Chmod(s.path, filePerm); err != nil {
			return &Error{Op: "insert", Path: s.path, Err: err}
		}
	}

	s.logger.Debug("record inserted",
		"resource", s.name,
		"path", s.path,
		"line", at+1,
		"marker_found", at < len(lines))
	s.recordWritten("insert")
	return nil
}

// prepareWrite enforces the create-missing policy and makes sure the parent
// directory exists.
func (s *Store) prepareWrite(op string) error {
	exists, err := s.Exists()
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if !s.createMissing {
		return &Error{Op: op, Path: s.path, Err: ErrResourceMissing}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &Error{Op: op, Path: s.path, Err: fmt.Errorf("create directory: %w", err)}
	}
	return nil
}

// missingTrailingNewline reports whether f is non-empty and its last byte is
// not '\n'.
func missingTrailingNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return last[0] != '\n', nil
}
