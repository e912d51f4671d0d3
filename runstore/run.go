package runstore

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// RunWriter appends integers to a run file. Values are framed as uvarints.
// The caller is responsible for writing them already sorted.
type RunWriter struct {
	file      *os.File
	bufWriter *bufio.Writer
	bufSize   int
	scratch   [binary.MaxVarintLen64]byte
	count     int64
}

// RunReader reads a finished run from its first value to the last.
type RunReader struct {
	file      *os.File
	bufReader *bufio.Reader
	count     int64
	read      int64
}

func newRunWriter(f *os.File, bufSize int) *RunWriter {
	return &RunWriter{
		file:      f,
		bufWriter: bufio.NewWriterSize(f, bufSize),
		bufSize:   bufSize,
	}
}

// Name returns the path of the run file
func (w *RunWriter) Name() string {
	return w.file.Name()
}

// Len returns the number of values written so far
func (w *RunWriter) Len() int64 {
	return w.count
}

// Write appends v to the run
func (w *RunWriter) Write(v uint64) error {
	n := binary.PutUvarint(w.scratch[:], v)
	if _, err := w.bufWriter.Write(w.scratch[:n]); err != nil {
		return errors.Wrapf(err, "runstore: write %s", w.file.Name())
	}
	w.count++
	return nil
}

// WriteAll appends every value of data to the run
func (w *RunWriter) WriteAll(data []uint64) error {
	for _, v := range data {
		if err := w.Write(v); err != nil {
			return err
		}
	}
	return nil
}

// Finish flushes the run and rewinds the same file descriptor to its start,
// returning a reader over it. The writer must not be used afterwards.
func (w *RunWriter) Finish() (*RunReader, error) {
	if err := w.bufWriter.Flush(); err != nil {
		return nil, errors.Wrapf(err, "runstore: flush %s", w.file.Name())
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "runstore: rewind %s", w.file.Name())
	}
	r := &RunReader{
		file:      w.file,
		bufReader: bufio.NewReaderSize(w.file, w.bufSize),
		count:     w.count,
	}
	w.file = nil
	w.bufWriter = nil
	return r, nil
}

// Abort closes and removes an unfinished run
func (w *RunWriter) Abort() error {
	if w.file == nil {
		return nil
	}
	name := w.file.Name()
	err := w.file.Close()
	w.file = nil
	w.bufWriter = nil
	if rmErr := os.Remove(name); err == nil && !os.IsNotExist(rmErr) {
		err = rmErr
	}
	return errors.Wrap(err, "runstore: abort run")
}

// Name returns the path of the run file
func (r *RunReader) Name() string {
	return r.file.Name()
}

// Len returns the number of values in the run
func (r *RunReader) Len() int64 {
	return r.count
}

// Next returns the next value of the run, or io.EOF once every value was read.
func (r *RunReader) Next() (uint64, error) {
	if r.read >= r.count {
		return 0, io.EOF
	}
	v, err := binary.ReadUvarint(r.bufReader)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, errors.Wrapf(err, "runstore: read %s", r.file.Name())
	}
	r.read++
	return v, nil
}

// Close closes the run and removes it from disk. A run is consumed exactly once.
func (r *RunReader) Close() error {
	if r.file == nil {
		return nil
	}
	name := r.file.Name()
	err := r.file.Close()
	r.file = nil
	r.bufReader = nil
	if err != nil {
		return errors.Wrap(err, "runstore: close run")
	}
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "runstore: remove run")
	}
	return nil
}
