package main

import (
	"bufio"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lanrat/filesort"
	"go.uber.org/zap"
)

var count = int(1e7) // 10M

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dir, err := os.MkdirTemp("", "filesort-example")
	if err != nil {
		logger.Fatal("create working directory", zap.Error(err))
	}
	defer os.RemoveAll(dir)

	// write an input file with unsorted data
	input := filepath.Join(dir, "input.txt")
	if err := writeRandom(input, count); err != nil {
		logger.Fatal("write input", zap.Error(err))
	}

	config := filesort.DefaultConfig()
	config.TempDir = dir
	config.PoolSize = 4
	config.Logger = logger

	output := filepath.Join(dir, "output.txt")
	if err := filesort.SortFile(context.Background(), input, output, filesort.Less, config); err != nil {
		logger.Fatal("sort", zap.Error(err))
	}

	sorted, err := filesort.IsSortedFile(output, filesort.Less)
	if err != nil {
		logger.Fatal("verify output", zap.Error(err))
	}
	logger.Info("done", zap.Int("integers", count), zap.Bool("sorted", sorted))
}

func writeRandom(path string, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	var buf []byte
	for i := 0; i < n; i++ {
		buf = strconv.AppendUint(buf[:0], rand.Uint64(), 10)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
