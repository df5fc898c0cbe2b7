package probe

import "sync/atomic"

// callCounter tallies executor attempts across a Client's lifetime,
// including retries. Atomic so a Client handed between goroutines still
// counts correctly.
type callCounter struct {
	n atomic.Int64
}

func (c *callCounter) inc() {
	c.n.Add(1)
}

func (c *callCounter) value() int64 {
	return c.n.Load()
}

func (c *callCounter) reset() {
	c.n.Store(0)
}
