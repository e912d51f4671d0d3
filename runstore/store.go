// Package runstore implements the scratch directory that holds sorted runs
// while an external sort is in progress. Every run is a real file under the
// scratch directory, written once in sequence and then read back once from
// the start before being removed. Closing the Store removes the directory and
// anything still in it.
package runstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// DefaultBufferSize is the bufio size used for each run file when none is given.
const DefaultBufferSize = 1 << 16 // 64k

// runFileExt is appended to every run file name
const runFileExt = ".run"

// Store owns one scratch directory and issues unique run files inside it.
type Store struct {
	dir     string
	bufSize int

	mu       sync.Mutex
	counters map[int]uint64
	closed   bool
}

// New creates the scratch directory name under parent. It fails if the
// directory already exists so that a store never adopts (and later deletes)
// files it did not create.
func New(parent, name string, bufSize int) (*Store, error) {
	if name == "" {
		return nil, errors.New("runstore: empty scratch directory name")
	}
	if parent == "" {
		parent = "."
	}
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, errors.Wrapf(err, "runstore: create parent %s", parent)
	}
	dir := filepath.Join(parent, name)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "runstore: create scratch directory %s", dir)
	}
	return &Store{
		dir:      dir,
		bufSize:  bufSize,
		counters: make(map[int]uint64),
	}, nil
}

// Dir returns the scratch directory path
func (s *Store) Dir() string {
	return s.dir
}

// nextName returns a file name that is unique for the lifetime of the store.
// Names are numbered per owner so concurrent workers never collide.
func (s *Store) nextName(owner int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrStoreClosed
	}
	n := s.counters[owner]
	s.counters[owner] = n + 1
	return filepath.Join(s.dir, fmt.Sprintf("w%03d-%06d%s", owner, n, runFileExt)), nil
}

// NewRun creates an empty run file owned by owner and returns a writer for it.
func (s *Store) NewRun(owner int) (*RunWriter, error) {
	name, err := s.nextName(owner)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, errors.Wrap(err, "runstore: create run")
	}
	return newRunWriter(f, s.bufSize), nil
}

// Close removes the scratch directory together with every run left in it.
// It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return errors.Wrapf(os.RemoveAll(s.dir), "runstore: remove scratch directory %s", s.dir)
}

// ErrStoreClosed is returned when a run is requested from a closed Store
var ErrStoreClosed = errors.New("runstore: store is closed")
