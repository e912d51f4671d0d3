package diff

// ChanResult holds a single diff result
type ChanResult struct {
	// D indicates whether the value is NEW (only in stream B) or OLD (only in stream A)
	D Delta
	// V is the value that differs between streams
	V uint64
}

// ResultChan creates a channel-based result processing system. It returns a
// ResultFunc to pass to Files or Readers and a channel to consume the results
// from in another goroutine. The caller closes the channel once the diff returns.
func ResultChan() (ResultFunc, chan *ChanResult) {
	c := make(chan *ChanResult, 1)
	f := func(d Delta, v uint64) error {
		c <- &ChanResult{D: d, V: v}
		return nil
	}
	return f, c
}
