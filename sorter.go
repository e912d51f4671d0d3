// Package filesort implements an external merge sort of a text file of
// unsigned 64-bit integers that may be too large to fit in memory.
//
// The sort runs a fixed pool of workers. Each worker repeatedly takes a chunk
// of the shared input under a mutex, sorts it in memory and writes it to a run
// file in a scratch directory, then merges its own runs down to one. The
// Sorter finally merges the workers' runs into the output file. The scratch
// directory is removed on every exit path.
package filesort

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/lanrat/filesort/runstore"
	"github.com/lanrat/filesort/textio"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sorter sorts one input file into one output file. The output is staged in
// a hidden file next to the output path and renamed over it only when the sort
// succeeds, so a failed sort leaves the output path untouched.
//
// A Sorter sorts once; it is not reentrant.
type Sorter struct {
	config      Config
	inputPath   string
	outputPath  string
	input       *os.File
	staging     *os.File
	stagingPath string
	order       ordering
	logger      *zap.Logger

	mu        sync.Mutex
	running   bool
	closed    bool
	committed bool
}

// New opens inputPath for reading and prepares outputPath for writing.
// compare orders the output; config can be nil to use the defaults, or only
// set the non-default values desired. A path that cannot be opened for its
// mode is reported as a *FileError.
func New(inputPath, outputPath string, compare CompareFunc, config *Config) (*Sorter, error) {
	if compare == nil {
		return nil, &ConfigError{Field: "compare", Value: nil, Reason: "comparator must not be nil"}
	}
	if config != nil {
		if err := config.Validate(); err != nil {
			return nil, err
		}
	}
	s := &Sorter{
		config:     *mergeConfig(config),
		inputPath:  inputPath,
		outputPath: outputPath,
		order:      ordering{compare: compare},
	}
	s.logger = s.config.Logger

	input, err := os.Open(inputPath)
	if err != nil {
		return nil, NewFileError(err, "open input", inputPath)
	}
	if info, err := input.Stat(); err != nil || info.IsDir() {
		_ = input.Close()
		if err == nil {
			err = fmt.Errorf("is a directory")
		}
		return nil, NewFileError(err, "open input", inputPath)
	}
	s.input = input

	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		_ = input.Close()
		return nil, NewFileError(fmt.Errorf("is a directory"), "open output", outputPath)
	}
	s.stagingPath = filepath.Join(filepath.Dir(outputPath),
		fmt.Sprintf(".%s.%s.partial", filepath.Base(outputPath), uuid.NewString()))
	staging, err := os.OpenFile(s.stagingPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		_ = input.Close()
		return nil, NewFileError(err, "open output", outputPath)
	}
	s.staging = staging
	return s, nil
}

// SortFile sorts inputPath into outputPath in one call
func SortFile(ctx context.Context, inputPath, outputPath string, compare CompareFunc, config *Config) error {
	s, err := New(inputPath, outputPath, compare, config)
	if err != nil {
		return err
	}
	return s.Sort(ctx)
}

// Sort performs the external sort and blocks until it completes. On success
// the output file holds every input integer exactly once, in comparator order.
// An empty input produces an empty output. On error the output path is left
// as it was and every temporary file is removed. The Sorter is closed when
// Sort returns.
func (s *Sorter) Sort(ctx context.Context) (err error) {
	s.mu.Lock()
	switch {
	case s.running:
		s.mu.Unlock()
		return ErrSortInProgress
	case s.closed:
		s.mu.Unlock()
		return ErrSorterClosed
	}
	s.running = true
	s.mu.Unlock()

	start := time.Now()
	logger := s.logger.With(zap.String("sort-id", uuid.NewString()))
	logger.Info("start external sort",
		zap.String("input", s.inputPath),
		zap.String("output", s.outputPath),
		zap.String("memory-budget", units.BytesSize(float64(s.config.MemoryBudget))),
		zap.Int("pool-size", s.config.PoolSize),
		zap.Int("chunk-size", s.config.chunkSize()))

	written, err := s.sort(ctx, logger)
	if err == nil {
		err = s.commit()
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	if cerr := s.Close(); cerr != nil {
		logger.Warn("close sorter failed", zap.Error(cerr))
	}

	result := resultSuccess
	switch {
	case err != nil:
		result = resultError
	case written == 0:
		result = resultEmpty
	}
	sortsCounter.WithLabelValues(result).Inc()
	sortDurationHistogram.WithLabelValues(result).Observe(time.Since(start).Seconds())

	if err != nil {
		logger.Error("external sort failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return err
	}
	integersSortedCounter.Add(float64(written))
	logger.Info("external sort finished",
		zap.Duration("duration", time.Since(start)),
		zap.Int64("integers", written))
	return nil
}

// sort runs the workers and the final merge into the staging file. It returns
// the number of integers written.
func (s *Sorter) sort(ctx context.Context, logger *zap.Logger) (written int64, err error) {
	input := newSharedInput(s.input, s.inputPath, s.config.FileBufferSize)
	empty, err := input.empty()
	if err != nil {
		return 0, err
	}
	if empty {
		logger.Info("input is empty")
		return 0, nil
	}

	parent := runstore.ResolveParent(s.config.TempDir, s.config.PreferDiskBacked)
	store, err := runstore.New(parent, s.config.ScratchDirName, s.config.FileBufferSize)
	if err != nil {
		return 0, NewFileError(err, "create scratch directory", filepath.Join(parent, s.config.ScratchDirName))
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("remove scratch directory failed", zap.String("dir", store.Dir()), zap.Error(cerr))
			if err == nil {
				err = NewFileError(cerr, "remove scratch directory", store.Dir())
			}
		}
	}()
	logger.Debug("created scratch directory", zap.String("dir", store.Dir()))

	results := make([]*runstore.RunReader, s.config.PoolSize)
	defer func() {
		if cerr := closeRuns(results); cerr != nil && err == nil {
			err = NewFileError(cerr, "remove run", store.Dir())
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	chunkSize := s.config.chunkSize()
	for i := range s.config.PoolSize {
		w := newWorker(i, input, store, s.order, chunkSize, s.config.MergeFanIn, logger)
		g.Go(func() error {
			run, err := w.run(gctx)
			results[i] = run
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	finalRuns := make([]*runstore.RunReader, 0, len(results))
	for _, r := range results {
		if r != nil {
			finalRuns = append(finalRuns, r)
		}
	}
	logger.Debug("workers finished, merging final runs",
		zap.Int("runs", len(finalRuns)),
		zap.Int64("integers", input.count()))

	out := textio.NewWriter(s.staging, s.config.FileBufferSize)
	emit := func(v uint64) error {
		return NewFileError(out.Write(v), "write output", s.outputPath)
	}
	if err := mergeRuns(ctx, finalRuns, s.order, emit); err != nil {
		return out.Count(), err
	}
	if err := out.Flush(); err != nil {
		return out.Count(), NewFileError(err, "write output", s.outputPath)
	}
	return out.Count(), nil
}

// commit makes the staged output durable and moves it over the output path
func (s *Sorter) commit() error {
	if err := s.staging.Sync(); err != nil {
		return NewFileError(err, "sync output", s.outputPath)
	}
	if err := s.staging.Close(); err != nil {
		return NewFileError(err, "close output", s.outputPath)
	}
	s.staging = nil
	if err := os.Rename(s.stagingPath, s.outputPath); err != nil {
		return NewFileError(err, "rename output", s.outputPath)
	}
	s.committed = true
	return nil
}

// Close releases the input and discards any staged output. Sort calls Close
// itself; calling Close without Sort abandons the sort.
func (s *Sorter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrSortInProgress
	}
	if s.closed {
		return nil
	}
	s.closed = true

	err := NewFileError(s.input.Close(), "close input", s.inputPath)
	if s.staging != nil {
		_ = s.staging.Close()
		s.staging = nil
	}
	if !s.committed {
		if rerr := os.Remove(s.stagingPath); rerr != nil && !os.IsNotExist(rerr) {
			err = multierr.Append(err, NewFileError(rerr, "remove staged output", s.stagingPath))
		}
	}
	return err
}
