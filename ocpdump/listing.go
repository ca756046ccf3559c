package ocpdump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/ocp/program"
)

// Listing is what the writers need to know about a program.
// *program.Program implements it.
type Listing interface {
	Input() int
	Output() int
	Length() (int, bool)
	TableCount() int
	Table(i int) []int32
	StateCount() int
	State(i int) []program.Word
}

var _ Listing = (*program.Program)(nil)

// Raw is a program image which has not been validated, e.g. data read from
// a damaged file. Writers detect undecodable words while dumping it.
type Raw struct {
	In, Out  int
	Declared int // declared total length, 0 if none
	Tables   [][]int32
	States   [][]program.Word
}

func (r Raw) Input() int { return r.In }
func (r Raw) Output() int { return r.Out }

func (r Raw) Length() (int, bool) { return r.Declared, r.Declared > 0 }

func (r Raw) TableCount() int { return len(r.Tables) }
func (r Raw) Table(i int) []int32 { return r.Tables[i] }
func (r Raw) StateCount() int { return len(r.States) }
func (r Raw) State(i int) []program.Word { return r.States[i] }

// StateName returns the symbolic name of state i: INITIAL for state 0,
// _S1, _S2, … for the others.
func StateName(i int) string {
	if i == 0 {
		return "INITIAL"
	}
	return fmt.Sprintf("_S%d", i)
}

func roomTables(p Listing) int {
	n := 0
	for i := range p.TableCount() {
		n += len(p.Table(i))
	}
	return n
}

func roomStates(p Listing) int {
	n := 0
	for i := range p.StateCount() {
		n += len(p.State(i))
	}
	return n
}

// totalLength is the declared length of a program, or the length of its
// binary container if none has been declared.
func totalLength(p Listing) int {
	if n, ok := p.Length(); ok {
		return n
	}
	return 3 + 1 + p.TableCount() + roomTables(p) + 1 + p.StateCount() + roomStates(p)
}

// lineWriter writes lines to a buffered writer. The first error sticks.
type lineWriter struct {
	bw  *bufio.Writer
	err error
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{bw: bufio.NewWriter(w)}
}

func (lw *lineWriter) printf(format string, args ...any) {
	if lw.err != nil {
		return
	}
	_, lw.err = fmt.Fprintf(lw.bw, format, args...)
}

// line writes s with trailing blanks removed, followed by a newline.
func (lw *lineWriter) line(s string) {
	lw.printf("%s\n", strings.TrimRight(s, " "))
}

// flush writes out buffered lines. A pending error e takes precedence over
// write errors.
func (lw *lineWriter) flush(e error) error {
	if err := lw.bw.Flush(); lw.err == nil {
		lw.err = err
	}
	if e != nil {
		return e
	}
	return lw.err
}

// atState returns a copy of a decode error with the state index set.
func atState(err error, s int) error {
	var derr *program.DecodeError
	if errors.As(err, &derr) {
		e := *derr
		e.State = s
		return &e
	}
	return err
}
