package diff_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lanrat/filesort/diff"
	"github.com/stretchr/testify/require"
)

func less(a, b uint64) bool { return a < b }

type delta struct {
	d diff.Delta
	v uint64
}

func run(t *testing.T, a, b string, compare diff.CompareFunc) (diff.Result, []delta) {
	t.Helper()
	var got []delta
	r, err := diff.Readers(context.Background(), strings.NewReader(a), strings.NewReader(b), compare,
		func(d diff.Delta, v uint64) error {
			got = append(got, delta{d, v})
			return nil
		})
	require.NoError(t, err)
	return r, got
}

func TestNil(t *testing.T) {
	r, err := diff.Readers(context.Background(), nil, nil, nil, nil)
	require.Error(t, err)
	require.Zero(t, r.ExtraA+r.ExtraB+r.TotalA+r.TotalB+r.Common, r.String())
}

func TestEmpty(t *testing.T) {
	r, got := run(t, "", "", less)
	require.True(t, r.Equal())
	require.Empty(t, got)
}

func Test1A(t *testing.T) {
	r, got := run(t, "7", "", less)
	require.Equal(t, diff.Result{ExtraA: 1, TotalA: 1}, r)
	require.Equal(t, []delta{{diff.OLD, 7}}, got)
}

func Test1B(t *testing.T) {
	r, got := run(t, "", "7", less)
	require.Equal(t, diff.Result{ExtraB: 1, TotalB: 1}, r)
	require.Equal(t, []delta{{diff.NEW, 7}}, got)
}

func TestCommon(t *testing.T) {
	r, got := run(t, "1 2 2 3", "1\n2\n2\n3\n", less)
	require.True(t, r.Equal(), r.String())
	require.EqualValues(t, 4, r.Common)
	require.Empty(t, got)
}

func TestMixed(t *testing.T) {
	r, got := run(t, "1 2 2 4 9", "2 3 4 4", less)
	require.Equal(t, diff.Result{ExtraA: 3, ExtraB: 2, TotalA: 5, TotalB: 4, Common: 2}, r)
	require.Equal(t, []delta{
		{diff.OLD, 1},
		{diff.OLD, 2},
		{diff.NEW, 3},
		{diff.NEW, 4},
		{diff.OLD, 9},
	}, got)
}

func TestDescending(t *testing.T) {
	r, got := run(t, "9 5 1", "9 4 1", func(a, b uint64) bool { return a >= b })
	require.EqualValues(t, 2, r.Common)
	require.Equal(t, []delta{{diff.OLD, 5}, {diff.NEW, 4}}, got)
}

func TestResultFuncError(t *testing.T) {
	stop := errors.New("stop")
	_, err := diff.Readers(context.Background(), strings.NewReader("1"), strings.NewReader("2"), less,
		func(diff.Delta, uint64) error { return stop })
	require.ErrorIs(t, err, stop)
}

func TestParseError(t *testing.T) {
	_, err := diff.Readers(context.Background(), strings.NewReader("1 x"), strings.NewReader("1 2"), less,
		func(diff.Delta, uint64) error { return nil })
	require.Error(t, err)
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := diff.Readers(ctx, strings.NewReader("1"), strings.NewReader("1"), less,
		func(diff.Delta, uint64) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestFilesAndResultChan(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("1 3 5"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("1 4 5"), 0o644))

	f, c := diff.ResultChan()
	var got []diff.ChanResult
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range c {
			got = append(got, *r)
		}
	}()
	r, err := diff.Files(context.Background(), a, b, less, f)
	close(c)
	<-done
	require.NoError(t, err)
	require.EqualValues(t, 2, r.Common)
	require.Equal(t, []diff.ChanResult{{D: diff.OLD, V: 3}, {D: diff.NEW, V: 4}}, got)

	_, err = diff.Files(context.Background(), filepath.Join(dir, "missing"), b, less, f)
	require.ErrorIs(t, err, os.ErrNotExist)
}
