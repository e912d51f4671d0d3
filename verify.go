package filesort

import (
	"io"
	"os"

	"github.com/lanrat/filesort/textio"
)

// IsSortedFile reports whether every adjacent pair of integers in the file at
// path is ordered by compare (or equal).
func IsSortedFile(path string, compare CompareFunc) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, NewFileError(err, "open", path)
	}
	defer f.Close()

	order := ordering{compare: compare}
	r := textio.NewReader(f, 0)
	prev, err := r.Next()
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	for {
		v, err := r.Next()
		if err == io.EOF {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		if !order.inOrder(prev, v) {
			return false, nil
		}
		prev = v
	}
}
