package filesort

import (
	"errors"
	"fmt"

	"github.com/lanrat/filesort/textio"
)

var (
	// ErrSortInProgress is returned when Sort is called while another Sort on
	// the same Sorter has not returned yet.
	ErrSortInProgress = errors.New("filesort: sort already in progress")
	// ErrSorterClosed is returned when Sort is called on a Sorter that already
	// sorted its input or was closed.
	ErrSorterClosed = errors.New("filesort: sorter is closed")
)

// FileError reports a file that could not be opened, created, read or written.
// It covers the input and output files, the scratch directory and every run file.
type FileError struct {
	// Op describes what was being done, for example "open input"
	Op string
	// Path is the file or directory involved
	Path string
	// Err is the underlying error
	Err error
}

func (e *FileError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("file error during %s on %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("file error during %s: %v", e.Op, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// NewFileError creates a FileError, returning nil for a nil err
func NewFileError(err error, op, path string) error {
	if err == nil {
		return nil
	}
	return &FileError{Op: op, Path: path, Err: err}
}

// ParseError reports an input token that is not a non-negative base-10 integer
// that fits in 64 bits.
type ParseError = textio.ParseError

// ComparisonError represents a panic raised by the comparator
type ComparisonError struct {
	// Cause is the recovered panic value
	Cause interface{}
	// Context names the phase in which the comparator panicked
	Context string
}

func (e *ComparisonError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("comparison panic in %s: %v", e.Context, e.Cause)
	}
	return fmt.Sprintf("comparison panic: %v", e.Cause)
}

func (e *ComparisonError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// NewComparisonError creates a ComparisonError
func NewComparisonError(cause interface{}, context string) error {
	return &ComparisonError{Cause: cause, Context: context}
}

// ConfigError represents an error in configuration parameters
type ConfigError struct {
	// Field is the name of the configuration field that's invalid
	Field string
	// Value is the invalid value provided
	Value interface{}
	// Reason explains why the value is invalid
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field %s (value: %v): %s", e.Field, e.Value, e.Reason)
}
