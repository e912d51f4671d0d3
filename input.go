package filesort

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/lanrat/filesort/textio"
)

// sharedInput is the input stream shared by all workers. The mutex is held
// for a single chunk read only, never while sorting or merging.
type sharedInput struct {
	mu      sync.Mutex
	path    string
	reader  *textio.Reader
	peeked  bool
	peekVal uint64
	done    bool
}

func newSharedInput(r io.Reader, path string, bufSize int) *sharedInput {
	return &sharedInput{path: path, reader: textio.NewReader(r, bufSize)}
}

// readError tags a read failure with the input path. Parse errors keep their
// own type so callers can still match them with errors.As.
func (in *sharedInput) readError(err error) error {
	var perr *ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf("%s: %w", in.path, err)
	}
	return NewFileError(err, "read input", in.path)
}

// empty reports whether the input holds no integers at all. The first value,
// if any, is kept for the next readChunk.
func (in *sharedInput) empty() (bool, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.peeked {
		return false, nil
	}
	if in.done {
		return true, nil
	}
	v, err := in.reader.Next()
	if err == io.EOF {
		in.done = true
		return true, nil
	}
	if err != nil {
		in.done = true
		return false, in.readError(err)
	}
	in.peeked = true
	in.peekVal = v
	return false, nil
}

// readChunk fills buf with up to cap(buf) integers. An empty result with a nil
// error means the input is exhausted.
func (in *sharedInput) readChunk(buf []uint64) ([]uint64, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	buf = buf[:0]
	if in.peeked {
		buf = append(buf, in.peekVal)
		in.peeked = false
	}
	if in.done || len(buf) == cap(buf) {
		return buf, nil
	}
	rest, err := in.reader.Fill(buf[len(buf):])
	if err == io.EOF {
		in.done = true
		return buf, nil
	}
	if err != nil {
		// a failed read ends the input for every worker
		in.done = true
		return buf, in.readError(err)
	}
	buf = buf[:len(buf)+len(rest)]
	if len(buf) < cap(buf) {
		in.done = true
	}
	return buf, nil
}

// count returns how many integers have been taken from the input
func (in *sharedInput) count() int64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.reader.Count()
}
