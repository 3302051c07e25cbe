package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/atomstore/internal/atom"
)

// Observer receives store events for metrics.
// Implemented by metrics.Metrics; nil disables observation.
type Observer interface {
	LineSkipped(resource string, kind atom.ErrorKind)
	RecordsScanned(resource string, n int)
	RecordWritten(resource, op string)
}

// Store is a file-backed ordered sequence of records.
//
// A Store holds no in-memory copy of the file. It is safe for concurrent use:
// reads are independent, writes are serialized per path.
type Store struct {
	path          string
	name          string
	createMissing bool
	fileLock      bool
	logger        *slog.Logger
	observer      Observer
}

// Option configures a Store.
type Option func(*Store)

// WithName sets the resource name used in logs and metrics.
// Defaults to the file's base name.
func WithName(name string) Option {
	return func(s *Store) {
		s.name = name
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver installs an Observer for scan and write events.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observer = o
	}
}

// WithCreateMissing controls whether writers create a missing backing file.
// Default: true.
func WithCreateMissing(create bool) Option {
	return func(s *Store) {
		s.createMissing = create
	}
}

// WithFileLock controls whether writers take an advisory flock on
// "<file>.lock" in addition to the in-process mutex. Default: true.
func WithFileLock(enabled bool) Option {
	return func(s *Store) {
		s.fileLock = enabled
	}
}

// Open returns a Store for the file at path.
//
// Open performs no I/O beyond resolving the absolute path and checking that
// an existing path is not a directory. The file itself may not exist yet.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, &Error{Op: "open", Path: path, Err: errors.New("path is empty")}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}

	if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
		return nil, &Error{Op: "open", Path: abs, Err: fmt.Errorf("is a directory")}
	}

	s := &Store{
		path:          abs,
		name:          filepath.Base(abs),
		createMissing: true,
		fileLock:      true,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Path returns the absolute path of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Name returns the resource name used in logs and metrics.
func (s *Store) Name() string {
	return s.name
}

// Exists reports whether the backing file exists.
func (s *Store) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, &Error{Op: "stat", Path: s.path, Err: err}
}

func (s *Store) lineSkipped(kind atom.ErrorKind) {
	if s.observer != nil {
		s.observer.LineSkipped(s.name, kind)
	}
}

func (s *Store) recordsScanned(n int) {
	if s.observer != nil {
		s.observer.RecordsScanned(s.name, n)
	}
}

func (s *Store) recordWritten(op string) {
	if s.observer != nil {
		s.observer.RecordWritten(s.name, op)
	}
}
