// Package diff compares two files of integers that are sorted with the same
// comparator and reports the values found in only one of them.
package diff

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lanrat/filesort/textio"
)

// ctxCheckInterval is how many values are compared between context checks
const ctxCheckInterval = 1 << 12

// stream is one side of the diff and its current value
type stream struct {
	reader *textio.Reader
	cur    uint64
	ok     bool
}

func (s *stream) advance() error {
	v, err := s.reader.Next()
	if err == io.EOF {
		s.ok = false
		return nil
	}
	if err != nil {
		s.ok = false
		return err
	}
	s.cur, s.ok = v, true
	return nil
}

// differ holds the state for a diff between two sorted streams
type differ struct {
	ctx        context.Context
	a, b       stream
	resultFunc ResultFunc
	compare    CompareFunc
}

// Files diffs the sorted integer files at pathA and pathB. resultFunc is called
// for each value present in only one file, in stream order. Both files MUST
// be sorted with compare; this is not validated.
func Files(ctx context.Context, pathA, pathB string, compare CompareFunc, resultFunc ResultFunc) (Result, error) {
	fa, err := os.Open(pathA)
	if err != nil {
		return Result{}, err
	}
	defer fa.Close()
	fb, err := os.Open(pathB)
	if err != nil {
		return Result{}, err
	}
	defer fb.Close()
	return Readers(ctx, fa, fb, compare, resultFunc)
}

// Readers diffs two sorted integer text streams, see Files.
func Readers(ctx context.Context, a, b io.Reader, compare CompareFunc, resultFunc ResultFunc) (Result, error) {
	if ctx == nil || a == nil || b == nil || compare == nil || resultFunc == nil {
		return Result{}, fmt.Errorf("arguments must not be nil")
	}
	d := differ{
		ctx:        ctx,
		a:          stream{reader: textio.NewReader(a, 0)},
		b:          stream{reader: textio.NewReader(b, 0)},
		resultFunc: resultFunc,
		compare:    compare,
	}
	return d.diff()
}

// before reports whether x sorts strictly before y
func (d *differ) before(x, y uint64) bool {
	return d.compare(x, y) && !d.compare(y, x)
}

func (d *differ) diff() (r Result, err error) {
	if err = d.a.advance(); err != nil {
		return
	}
	if err = d.b.advance(); err != nil {
		return
	}
	for n := 0; d.a.ok || d.b.ok; n++ {
		if n%ctxCheckInterval == 0 {
			if err = d.ctx.Err(); err != nil {
				return
			}
		}
		switch {
		case d.a.ok && (!d.b.ok || d.before(d.a.cur, d.b.cur)):
			r.TotalA++
			r.ExtraA++
			if err = d.resultFunc(OLD, d.a.cur); err != nil {
				return
			}
			err = d.a.advance()
		case d.b.ok && (!d.a.ok || d.before(d.b.cur, d.a.cur)):
			r.TotalB++
			r.ExtraB++
			if err = d.resultFunc(NEW, d.b.cur); err != nil {
				return
			}
			err = d.b.advance()
		case d.a.cur == d.b.cur:
			// common
			r.Common++
			r.TotalA++
			r.TotalB++
			if err = d.a.advance(); err != nil {
				return
			}
			err = d.b.advance()
		default:
			// equivalent under compare but different values
			r.TotalA++
			r.ExtraA++
			r.TotalB++
			r.ExtraB++
			if err = d.resultFunc(OLD, d.a.cur); err != nil {
				return
			}
			if err = d.resultFunc(NEW, d.b.cur); err != nil {
				return
			}
			if err = d.a.advance(); err != nil {
				return
			}
			err = d.b.advance()
		}
		if err != nil {
			return
		}
	}
	return
}
