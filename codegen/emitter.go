package codegen

import (
	"bufio"
	"io"
	"strings"
)

const indentUnit = "  "

/*
Emitter writes lines of source code onto a destination keeping
track of their indentation depth, two spaces per level.

The first error found writing onto the destination is kept and
every later write is ignored. It is returned by Flush and Err.
*/
type Emitter struct {
	w     *bufio.Writer
	depth int
	err   error
}

// NewEmitter returns an Emitter writing onto w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: bufio.NewWriter(w)}
}

// Write appends the given line at the current depth, terminated
// by a newline.
func (e *Emitter) Write(line string) {
	if e.err != nil {
		return
	}
	if _, err := e.w.WriteString(strings.Repeat(indentUnit, e.depth)); err != nil {
		e.err = err
		return
	}
	if _, err := e.w.WriteString(line); err != nil {
		e.err = err
		return
	}
	e.err = e.w.WriteByte('\n')
}

// Scoped writes the open line, runs body one level deeper and then
// writes the close line back at the original depth.
func (e *Emitter) Scoped(open, close string, body func()) {
	if e.depth < 0 {
		panic("codegen: negative indentation depth")
	}
	e.Write(open)
	e.depth++
	body()
	e.depth--
	if e.depth < 0 {
		panic("codegen: negative indentation depth")
	}
	e.Write(close)
}

// Depth returns the current indentation depth.
func (e *Emitter) Depth() int {
	return e.depth
}

// Flush writes any buffered content onto the destination and
// returns the first error found writing, if any.
func (e *Emitter) Flush() error {
	if e.err != nil {
		return e.err
	}
	e.err = e.w.Flush()
	return e.err
}

// Err returns the first error found writing, if any.
func (e *Emitter) Err() error {
	return e.err
}
