package msr

import (
	"fmt"

	"github.com/divVerent/msrconverser/internal/diag"
)

// Sequence hands out measure debug numbers.
type Sequence struct {
	last int
}

// Next returns the next debug number, starting at 1.
func (s *Sequence) Next() int {
	s.last++
	return s.last
}

// Reset restarts the sequence.
func (s *Sequence) Reset() {
	s.last = 0
}

// Context holds the state shared by everything built during one conversion.
// It must not be shared between conversions running concurrently.
type Context struct {
	initialized bool

	// Sequence numbers measures for diagnostics.
	Sequence *Sequence

	// Log receives warnings and traces.
	Log *diag.Log

	pass string
}

// NewContext returns an initialized context logging to l.
func NewContext(l *diag.Log) *Context {
	c := &Context{Log: l}
	c.Initialize()
	return c
}

// Initialize fills in defaults. Calling it again has no effect.
func (c *Context) Initialize() {
	if c.initialized {
		return
	}
	if c.Sequence == nil {
		c.Sequence = &Sequence{}
	}
	if c.Log == nil {
		c.Log = diag.Discard()
	}
	c.pass = "build"
	c.initialized = true
}

// SetPass names the current pass in traces.
func (c *Context) SetPass(format string, args ...any) {
	c.pass = fmt.Sprintf(format, args...)
}

// Pass returns the current pass label.
func (c *Context) Pass() string {
	return c.pass
}
