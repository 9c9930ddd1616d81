package app

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/atomic"
)

// Console prints progress percentage, rewriting single line.
type Console struct {
	out     io.Writer
	mux     sync.Mutex
	current atomic.Int64
	total   atomic.Int64
}

// NewConsole initializes Console that writes to out.
func NewConsole(out io.Writer) *Console {
	c := &Console{out: out}
	c.total.Store(1)
	return c
}

// SetOverallValue sets value that corresponds to 100%.
func (c *Console) SetOverallValue(v int64) {
	if v <= 0 {
		v = 1
	}
	c.total.Store(v)
}

// IncrementValue increments current value and prints progress.
func (c *Console) IncrementValue() {
	v := c.current.Inc()

	c.mux.Lock()
	defer c.mux.Unlock()
	_, _ = fmt.Fprintf(c.out, "\rProgress: %7.2f%%", c.Percent(v))
}

// Percent returns progress of value v.
func (c *Console) Percent(v int64) float64 {
	return float64(v) / float64(c.total.Load()) * 100
}

// Value returns current value.
func (c *Console) Value() int64 { return c.current.Load() }

// Reset sets current value to zero.
func (c *Console) Reset() { c.current.Store(0) }
