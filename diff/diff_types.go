package diff

import "fmt"

// Delta represents the type of difference found when comparing two sorted streams.
// It indicates whether a value is unique to the first stream (OLD) or second stream (NEW).
type Delta int

const (
	// NEW indicates a value that exists only in the second stream (B).
	NEW Delta = iota // +

	// OLD indicates a value that exists only in the first stream (A).
	OLD // -
)

// ResultFunc is called once for each value that appears in only one of the
// two streams. Returning an error stops the diff.
type ResultFunc func(Delta, uint64) error

// CompareFunc orders the two streams; it must be the comparator both were sorted with.
type CompareFunc func(a, b uint64) bool

func (d Delta) String() string {
	switch d {
	case NEW:
		return ">"
	case OLD:
		return "<"
	default:
		return "?"
	}
}

// Result contains statistical information about the differences between two sorted streams.
// Repeated values are matched one to one, so a value twice in A and once in B
// counts one common and one extra A.
type Result struct {
	// ExtraA is the count of values that exist only in stream A (OLD values)
	ExtraA uint64

	// ExtraB is the count of values that exist only in stream B (NEW values)
	ExtraB uint64

	// TotalA is the total count of values read from stream A
	TotalA uint64

	// TotalB is the total count of values read from stream B
	TotalB uint64

	// Common is the count of values matched in both streams
	Common uint64
}

// Equal reports whether both streams held the same multiset of values
func (r *Result) Equal() bool {
	return r.ExtraA == 0 && r.ExtraB == 0
}

func (r *Result) String() string {
	return fmt.Sprintf("A: %d/%d\tB: %d/%d\tC: %d", r.ExtraA, r.TotalA, r.ExtraB, r.TotalB, r.Common)
}
