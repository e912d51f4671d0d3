package filesort

// CompareFunc orders two integers. It may be strict (like <) or non-strict
// (like <=) but must be a total order, and the same function must be used for
// the whole sort. The comparator is not validated; an inconsistent one gives
// an unspecified output order.
type CompareFunc func(a, b uint64) bool

// Less sorts in ascending order
func Less(a, b uint64) bool { return a < b }

// LessOrEqual sorts in ascending order using a non-strict comparison
func LessOrEqual(a, b uint64) bool { return a <= b }

// Greater sorts in descending order
func Greater(a, b uint64) bool { return a > b }

// GreaterOrEqual sorts in descending order using a non-strict comparison
func GreaterOrEqual(a, b uint64) bool { return a >= b }

// ordering derives a strict weak ordering from a CompareFunc so that strict and
// non-strict comparators behave the same in the in-memory sort and the merges.
type ordering struct {
	compare CompareFunc
}

// before reports whether a must be emitted before b
func (o ordering) before(a, b uint64) bool {
	return o.compare(a, b) && !o.compare(b, a)
}

// cmp adapts the ordering for slices.SortFunc
func (o ordering) cmp(a, b uint64) int {
	switch {
	case o.before(a, b):
		return -1
	case o.before(b, a):
		return 1
	}
	return 0
}

// inOrder reports whether b may directly follow a in the output
func (o ordering) inOrder(a, b uint64) bool {
	return a == b || o.compare(a, b)
}
