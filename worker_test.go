package filesort

import (
	"context"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/lanrat/filesort/runstore"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T) *runstore.Store {
	t.Helper()
	store, err := runstore.New(t.TempDir(), "__temp", 0)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func drain(t *testing.T, r *runstore.RunReader) []uint64 {
	t.Helper()
	var out []uint64
	for {
		v, err := r.Next()
		if err == io.EOF {
			require.NoError(t, r.Close())
			return out
		}
		require.NoError(t, err)
		out = append(out, v)
	}
}

func TestWorkerPartitionAndMerge(t *testing.T) {
	testCases := []struct {
		name       string
		fanIn      int
		chunkSize  int
		runs       int
		mergeSteps int
	}{
		{"one chunk", 2, 100, 1, 0},
		{"pairwise", 2, 2, 5, 4},
		{"fan in 3", 3, 2, 5, 2},
		{"fan in wider than queue", 8, 2, 5, 1},
		{"single value chunks", 2, 1, 10, 9},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t)
			input := newSharedInput(strings.NewReader("9 8 7 6 5 4 3 2 1 0"), "input", 0)
			w := newWorker(0, input, store, ordering{compare: Less}, tc.chunkSize, tc.fanIn, zaptest.NewLogger(t))

			result, err := w.run(context.Background())
			require.NoError(t, err)
			require.NotNil(t, result)
			require.Equal(t, tc.runs, w.partitionRuns)
			require.Equal(t, tc.mergeSteps, w.mergeSteps)
			require.EqualValues(t, 10, w.values)
			require.Equal(t, []uint64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, drain(t, result))

			// every intermediate run was removed
			entries, err := os.ReadDir(store.Dir())
			require.NoError(t, err)
			require.Empty(t, entries)
		})
	}
}

func TestWorkerWithoutInput(t *testing.T) {
	store := newTestStore(t)
	input := newSharedInput(strings.NewReader(""), "input", 0)
	w := newWorker(1, input, store, ordering{compare: Less}, 4, 2, zaptest.NewLogger(t))
	result, err := w.run(context.Background())
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestWorkersShareInput(t *testing.T) {
	store := newTestStore(t)
	var sb strings.Builder
	const count = 1000
	for i := count; i > 0; i-- {
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(i))
	}
	input := newSharedInput(strings.NewReader(sb.String()), "input", 0)

	const workers = 4
	results := make([]*runstore.RunReader, workers)
	stats := make([]int64, workers)
	var wg sync.WaitGroup
	for i := range workers {
		w := newWorker(i, input, store, ordering{compare: Greater}, 7, 2, zaptest.NewLogger(t))
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := w.run(context.Background())
			if err != nil {
				t.Error(err)
			}
			results[i] = r
			stats[i] = w.values
		}()
	}
	wg.Wait()

	var all []uint64
	var total int64
	for i, r := range results {
		total += stats[i]
		if r == nil {
			continue
		}
		part := drain(t, r)
		require.True(t, slices.IsSortedFunc(part, func(a, b uint64) int { return ordering{compare: Greater}.cmp(a, b) }))
		all = append(all, part...)
	}
	require.EqualValues(t, count, total)
	slices.Sort(all)
	for i, v := range all {
		require.EqualValues(t, i+1, v)
	}
}

func TestWorkerParseErrorCleansRuns(t *testing.T) {
	store := newTestStore(t)
	input := newSharedInput(strings.NewReader("4 3 2 1 oops"), "input", 0)
	w := newWorker(0, input, store, ordering{compare: Less}, 2, 2, zaptest.NewLogger(t))
	_, err := w.run(context.Background())
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWorkerStoreClosed(t *testing.T) {
	store, err := runstore.New(t.TempDir(), "__temp", 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	input := newSharedInput(strings.NewReader("1 2"), "input", 0)
	w := newWorker(0, input, store, ordering{compare: Less}, 2, 2, zaptest.NewLogger(t))
	_, err = w.run(context.Background())
	var ferr *FileError
	require.ErrorAs(t, err, &ferr)
	require.ErrorIs(t, err, runstore.ErrStoreClosed)
}
