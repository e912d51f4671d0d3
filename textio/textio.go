// Package textio reads and writes the plain text integer format used for
// sort input and output: non-negative base-10 integers separated by any
// amount of whitespace, with no header or record count.
package textio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// DefaultBufferSize is the bufio size used when none is given
const DefaultBufferSize = 1 << 16 // 64k

// maxTokenSize bounds a single token. The longest valid uint64 has 20 digits,
// anything longer is reported as a ParseError instead of growing the buffer.
const maxTokenSize = 64

// ParseError reports an input token that is not a base-10 uint64
type ParseError struct {
	// Index is the zero based position of the token in the stream
	Index int64
	// Token is the offending text, truncated to a sane length
	Token string
	// Err is the strconv error
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid integer %q at token %d: %v", e.Token, e.Index, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Reader decodes integers from a text stream. It is not safe for concurrent use.
type Reader struct {
	scanner *bufio.Scanner
	index   int64
}

// NewReader returns a Reader over r using a read buffer of bufSize bytes
func NewReader(r io.Reader, bufSize int) *Reader {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	s := bufio.NewScanner(bufio.NewReaderSize(r, bufSize))
	s.Buffer(make([]byte, 0, maxTokenSize), maxTokenSize)
	s.Split(bufio.ScanWords)
	return &Reader{scanner: s}
}

// Next returns the next integer, or io.EOF once the stream is exhausted.
func (r *Reader) Next() (uint64, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			if err == bufio.ErrTooLong {
				return 0, &ParseError{Index: r.index, Token: "<token too long>", Err: strconv.ErrRange}
			}
			return 0, err
		}
		return 0, io.EOF
	}
	tok := r.scanner.Bytes()
	v, err := parseUint(tok)
	if err != nil {
		return 0, &ParseError{Index: r.index, Token: string(tok), Err: err}
	}
	r.index++
	return v, nil
}

// Fill reads integers into buf until it is full or the stream ends, and
// returns the filled slice. io.EOF is only returned when nothing was read.
func (r *Reader) Fill(buf []uint64) ([]uint64, error) {
	buf = buf[:0]
	for len(buf) < cap(buf) {
		v, err := r.Next()
		if err == io.EOF {
			if len(buf) == 0 {
				return buf, io.EOF
			}
			return buf, nil
		}
		if err != nil {
			return buf, err
		}
		buf = append(buf, v)
	}
	return buf, nil
}

// Count returns how many integers were read so far
func (r *Reader) Count() int64 {
	return r.index
}

// parseUint is strconv.ParseUint for the digits-only case without the
// string conversion.
func parseUint(b []byte) (uint64, error) {
	if len(b) == 0 {
		return 0, strconv.ErrSyntax
	}
	var v uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, strconv.ErrSyntax
		}
		d := uint64(c - '0')
		if v > (^uint64(0)-d)/10 {
			return 0, strconv.ErrRange
		}
		v = v*10 + d
	}
	return v, nil
}

// Writer encodes integers separated by a single space
type Writer struct {
	w       *bufio.Writer
	scratch []byte
	count   int64
}

// NewWriter returns a Writer over w using a write buffer of bufSize bytes
func NewWriter(w io.Writer, bufSize int) *Writer {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Writer{
		w:       bufio.NewWriterSize(w, bufSize),
		scratch: make([]byte, 0, 21),
	}
}

// Write appends v to the stream
func (w *Writer) Write(v uint64) error {
	w.scratch = w.scratch[:0]
	if w.count > 0 {
		w.scratch = append(w.scratch, ' ')
	}
	w.scratch = strconv.AppendUint(w.scratch, v, 10)
	if _, err := w.w.Write(w.scratch); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns how many integers were written
func (w *Writer) Count() int64 {
	return w.count
}

// Flush writes any buffered data to the underlying writer
func (w *Writer) Flush() error {
	return w.w.Flush()
}
