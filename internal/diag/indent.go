package diag

import (
	"fmt"
	"io"
	"strings"
)

// Indenter tracks the nesting level of traces and dumps.
type Indenter struct {
	level int
}

// Inc opens a nesting level.
func (i *Indenter) Inc() {
	i.level++
}

// Dec closes a nesting level.
func (i *Indenter) Dec() {
	if i.level > 0 {
		i.level--
	}
}

// Level returns the current nesting level.
func (i *Indenter) Level() int {
	return i.level
}

// Prefix returns the indentation for the current level.
func (i *Indenter) Prefix() string {
	return strings.Repeat("  ", i.level)
}

// Fprintf writes an indented line to w. A trailing newline is added.
func (i *Indenter) Fprintf(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, "%s%s\n", i.Prefix(), fmt.Sprintf(format, args...))
	return err
}
