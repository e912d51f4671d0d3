package filesort

import (
	"context"
	"slices"

	"github.com/lanrat/filesort/runstore"
	"go.uber.org/zap"
)

// worker turns its share of the input into a single sorted run. It owns one
// chunk buffer and a private FIFO queue of runs.
type worker struct {
	id     int
	input  *sharedInput
	store  *runstore.Store
	order  ordering
	fanIn  int
	chunk  []uint64
	runs   []*runstore.RunReader
	logger *zap.Logger

	// stats
	partitionRuns int
	mergeSteps    int
	values        int64
}

func newWorker(id int, input *sharedInput, store *runstore.Store, order ordering, chunkSize, fanIn int, logger *zap.Logger) *worker {
	return &worker{
		id:     id,
		input:  input,
		store:  store,
		order:  order,
		fanIn:  fanIn,
		chunk:  make([]uint64, 0, chunkSize),
		logger: logger.With(zap.Int("worker", id)),
	}
}

// run executes the partition phase then the merge phase. It returns the
// remaining run rewound to its start, or nil if the worker got no input.
// On error every run the worker still owns is removed.
func (w *worker) run(ctx context.Context) (result *runstore.RunReader, err error) {
	defer func() {
		w.chunk = nil
		if err != nil {
			_ = closeRuns(w.runs)
			w.runs = nil
		}
	}()

	if err = w.partition(ctx); err != nil {
		return nil, err
	}
	if err = w.merge(ctx); err != nil {
		return nil, err
	}
	w.logger.Debug("worker finished",
		zap.Int("partition-runs", w.partitionRuns),
		zap.Int("merge-steps", w.mergeSteps),
		zap.Int64("values", w.values))
	if len(w.runs) == 0 {
		return nil, nil
	}
	result = w.runs[0]
	w.runs = nil
	return result, nil
}

// partition reads chunks from the shared input, sorts each one in memory and
// flushes it to a new run until the input is exhausted.
func (w *worker) partition(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := w.input.readChunk(w.chunk)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return nil
		}
		if err := w.sortChunk(data); err != nil {
			return err
		}
		run, err := w.writeRun(data)
		if err != nil {
			return err
		}
		w.runs = append(w.runs, run)
		w.partitionRuns++
		w.values += int64(len(data))
		runsCreatedCounter.WithLabelValues(phasePartition).Inc()
	}
}

// sortChunk sorts data in place, converting a comparator panic into an error
func (w *worker) sortChunk(data []uint64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewComparisonError(r, "sort chunk")
		}
	}()
	slices.SortFunc(data, w.order.cmp)
	return nil
}

// writeRun saves an already sorted chunk as a new run
func (w *worker) writeRun(data []uint64) (*runstore.RunReader, error) {
	rw, err := w.store.NewRun(w.id)
	if err != nil {
		return nil, NewFileError(err, "create run", w.store.Dir())
	}
	if err := rw.WriteAll(data); err != nil {
		_ = rw.Abort()
		return nil, NewFileError(err, "write run", rw.Name())
	}
	name := rw.Name()
	run, err := rw.Finish()
	if err != nil {
		_ = rw.Abort()
		return nil, NewFileError(err, "finish run", name)
	}
	return run, nil
}

// merge combines the oldest runs of the queue, fanIn at a time, into a new run
// appended to the queue until a single run remains.
func (w *worker) merge(ctx context.Context) error {
	for len(w.runs) > 1 {
		k := min(w.fanIn, len(w.runs))
		inputs := slices.Clone(w.runs[:k])
		w.runs = slices.Delete(w.runs, 0, k)

		merged, err := w.mergeStep(ctx, inputs)
		if cerr := closeRuns(inputs); cerr != nil && err == nil {
			_ = merged.Close()
			err = NewFileError(cerr, "remove run", w.store.Dir())
		}
		if err != nil {
			return err
		}
		w.runs = append(w.runs, merged)
		w.mergeSteps++
		mergeStepsCounter.Inc()
		runsCreatedCounter.WithLabelValues(phaseMerge).Inc()
	}
	return nil
}

// mergeStep streams inputs into a single new run
func (w *worker) mergeStep(ctx context.Context, inputs []*runstore.RunReader) (*runstore.RunReader, error) {
	rw, err := w.store.NewRun(w.id)
	if err != nil {
		return nil, NewFileError(err, "create run", w.store.Dir())
	}
	name := rw.Name()
	emit := func(v uint64) error {
		return NewFileError(rw.Write(v), "write run", name)
	}
	if err := mergeRuns(ctx, inputs, w.order, emit); err != nil {
		_ = rw.Abort()
		return nil, err
	}
	run, err := rw.Finish()
	if err != nil {
		_ = rw.Abort()
		return nil, NewFileError(err, "finish run", name)
	}
	return run, nil
}
