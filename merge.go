package filesort

import (
	"context"
	"io"

	"github.com/lanrat/filesort/queue"
	"github.com/lanrat/filesort/runstore"
	"go.uber.org/multierr"
)

// ctxCheckInterval is how many values a merge emits between context checks
const ctxCheckInterval = 1 << 12

// mergeFile represents a sorted run on disk and its next value
type mergeFile struct {
	nextRec uint64
	reader  *runstore.RunReader
}

// getNext loads the next value of the run. It returns false once the run is exhausted.
func (m *mergeFile) getNext() (bool, error) {
	v, err := m.reader.Next()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	m.nextRec = v
	return true, nil
}

// mergeRuns performs a k-way merge of sorted runs, calling emit for every value
// in order. Exhausted runs are dropped from the queue. The runs are read but
// not closed. A comparator panic is returned as a ComparisonError.
func mergeRuns(ctx context.Context, runs []*runstore.RunReader, order ordering, emit func(uint64) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewComparisonError(r, "merge")
		}
	}()

	pq := queue.NewPriorityQueue(func(a, b *mergeFile) bool {
		return order.before(a.nextRec, b.nextRec)
	}, len(runs))

	// start the merge by preloading the values
	for _, r := range runs {
		merge := &mergeFile{reader: r}
		ok, err := merge.getNext()
		if err != nil {
			return NewFileError(err, "read run", r.Name())
		}
		if ok {
			pq.Push(merge)
		}
	}

	for n := 0; pq.Len() > 0; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		merge := pq.Peek()
		if err := emit(merge.nextRec); err != nil {
			return err
		}
		more, err := merge.getNext()
		if err != nil {
			return NewFileError(err, "read run", merge.reader.Name())
		}
		if more {
			pq.PeekUpdate(merge)
		} else {
			pq.Pop()
		}
	}
	return nil
}

// closeRuns closes and removes every run, combining the errors
func closeRuns(runs []*runstore.RunReader) error {
	var err error
	for _, r := range runs {
		if r == nil {
			continue
		}
		err = multierr.Append(err, r.Close())
	}
	return err
}
