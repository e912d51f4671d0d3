package filesort_test

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/lanrat/filesort"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// testEnv is a directory holding the input, output and scratch parent of one test
type testEnv struct {
	dir    string
	input  string
	output string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		dir:    dir,
		input:  filepath.Join(dir, "input.txt"),
		output: filepath.Join(dir, "output.txt"),
	}
}

func (e *testEnv) config(t *testing.T) *filesort.Config {
	return &filesort.Config{
		TempDir: e.dir,
		Logger:  zaptest.NewLogger(t),
	}
}

func (e *testEnv) scratchDir() string {
	return filepath.Join(e.dir, "__temp")
}

func (e *testEnv) writeInput(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.input, []byte(content), 0o644))
}

func (e *testEnv) writeValues(t *testing.T, values []uint64) {
	t.Helper()
	e.writeInput(t, format(values))
}

func (e *testEnv) readOutput(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.output)
	require.NoError(t, err)
	return string(data)
}

func (e *testEnv) outputValues(t *testing.T) []uint64 {
	t.Helper()
	return parse(t, e.readOutput(t))
}

// requireClean checks that no scratch directory and no staged output remain
func (e *testEnv) requireClean(t *testing.T) {
	t.Helper()
	require.NoDirExists(t, e.scratchDir())
	entries, err := os.ReadDir(e.dir)
	require.NoError(t, err)
	for _, entry := range entries {
		require.False(t, strings.HasSuffix(entry.Name(), ".partial"), "staged output left behind: %s", entry.Name())
	}
}

func format(values []uint64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(parts, " ")
}

func parse(t *testing.T, s string) []uint64 {
	t.Helper()
	var out []uint64
	for _, f := range strings.Fields(s) {
		v, err := strconv.ParseUint(f, 10, 64)
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

// reference sorts values in memory with compare
func reference(values []uint64, compare filesort.CompareFunc) []uint64 {
	out := slices.Clone(values)
	slices.SortFunc(out, func(a, b uint64) int {
		switch {
		case compare(a, b) && !compare(b, a):
			return -1
		case compare(b, a) && !compare(a, b):
			return 1
		}
		return 0
	})
	return out
}

var comparators = []struct {
	name    string
	compare filesort.CompareFunc
}{
	{"Less", filesort.Less},
	{"LessOrEqual", filesort.LessOrEqual},
	{"Greater", filesort.Greater},
	{"GreaterOrEqual", filesort.GreaterOrEqual},
}
