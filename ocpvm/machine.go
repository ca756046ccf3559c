package ocpvm

import (
	"errors"
	"fmt"

	"github.com/npillmayer/ocp/program"
)

// Errors reported by a Machine, wrapped into an *Error.
var (
	ErrRunaway    = errors.New("step limit exceeded")
	ErrNoProgress = errors.New("match consumed no input")
	ErrStreamEnd  = errors.New("instruction stream ended without STOP")
	ErrBackRef    = errors.New("back-reference beyond input")
	ErrTableIndex = errors.New("table index out of range")
)

// Error locates a runtime error within a program and its input.
type Error struct {
	State  int   // state the machine was in
	Offset int   // word offset of the failing instruction
	Input  int   // position of the match start within the input
	Err    error // one of the errors of this package
}

func (e *Error) Error() string {
	return fmt.Sprintf("OCP runtime error in state %d at word %d, input position %d: %v",
		e.State, e.Offset, e.Input, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DefaultStepLimit is the default number of instructions a single match
// attempt may execute.
const DefaultStepLimit = 1 << 16

// Machine executes a program.
type Machine struct {
	prog      *program.Program
	streams   [][]program.Word
	stepLimit int
}

// Option configures a Machine.
type Option func(*Machine)

// WithStepLimit sets the number of instructions a single match attempt may
// execute before the machine gives up with ErrRunaway.
func WithStepLimit(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.stepLimit = n
		}
	}
}

// New creates a machine for a program.
func New(p *program.Program, opts ...Option) *Machine {
	m := &Machine{prog: p, stepLimit: DefaultStepLimit}
	m.streams = make([][]program.Word, p.StateCount())
	for s := range m.streams {
		m.streams[s] = p.State(s)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RunString is Run for strings.
func (m *Machine) RunString(s string) (string, error) {
	out, err := m.Run([]rune(s))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Run transforms an input sequence. The result is produced completely or
// not at all.
func (m *Machine) Run(input []rune) ([]rune, error) {
	r := run{m: m, input: input, out: make([]rune, 0, len(input))}
	for r.start < len(input) {
		if err := r.match(); err != nil {
			tracer().Errorf("%v", err)
			return nil, err
		}
	}
	if len(r.stack) > 0 {
		tracer().Debugf("input ended with %d pushed states", len(r.stack))
	}
	return r.out, nil
}

// run is the state of a single Run.
type run struct {
	m     *Machine
	input []rune
	out   []rune
	start int   // position of the current match attempt
	state int   // current state
	stack []int // pushed states
}

// match executes the current state's stream once, from the beginning to
// STOP.
func (r *run) match() error {
	stream := r.m.streams[r.state]
	cursor, mark := r.start, r.start
	next := r.state
	stack := r.stack
	var buf []rune
	fail := func(pc int, err error) error {
		return &Error{State: r.state, Offset: pc, Input: r.start, Err: err}
	}
	matched := func(pc, k int) (rune, error) {
		if k < 1 || r.start+k-1 >= len(r.input) {
			return 0, fail(pc, ErrBackRef)
		}
		return r.input[r.start+k-1], nil
	}
	for pc, steps := 0, 0; ; steps++ {
		if steps >= r.m.stepLimit {
			return fail(pc, ErrRunaway)
		}
		if pc >= len(stream) {
			return fail(pc, ErrStreamEnd)
		}
		inst, err := program.DecodeAt(stream, pc)
		if err != nil {
			return err
		}
		pc += inst.Size()
		a := inst.Args
		switch inst.Op {
		case program.RIGHT_NUM:
			buf = append(buf, rune(a[0]))
		case program.RIGHT_CHAR:
			c, err := matched(inst.Offset, a[0])
			if err != nil {
				return err
			}
			buf = append(buf, c)
		case program.RIGHT_ADD, program.RIGHT_SUB:
			c, err := matched(inst.Offset, a[0])
			if err != nil {
				return err
			}
			if inst.Op == program.RIGHT_ADD {
				buf = append(buf, c+rune(a[1]))
			} else {
				buf = append(buf, c-rune(a[1]))
			}
		case program.RIGHT_LOOKUP, program.RIGHT_LOOKUP_SUB:
			c, err := matched(inst.Offset, a[1])
			if err != nil {
				return err
			}
			i := int(c) + a[2]
			if inst.Op == program.RIGHT_LOOKUP_SUB {
				i = int(c) - a[2]
			}
			if i < 0 || i >= r.m.prog.TableLen(a[0]) {
				return fail(inst.Offset, ErrTableIndex)
			}
			buf = append(buf, rune(r.m.prog.TableEntry(a[0], i)))
		case program.STATE_CHANGE:
			next = a[0]
		case program.STATE_PUSH:
			stack = append(stack[:len(stack):len(stack)], r.state)
			next = a[0]
		case program.STATE_POP:
			next = 0
			if n := len(stack); n > 0 {
				next, stack = stack[n-1], stack[:n-1]
			}
		case program.LEFT_START:
			cursor, mark = r.start, r.start
		case program.LEFT_END:
			mark = cursor
		case program.NEXT_CHAR:
			cursor++
		case program.GOTO:
			pc = a[0]
		case program.GOTO_END:
			if cursor >= len(r.input) {
				pc = a[0]
			}
		case program.GOTO_NOT_END:
			if cursor < len(r.input) {
				pc = a[0]
			}
		case program.GOTO_NE, program.GOTO_EQ, program.GOTO_LT, program.GOTO_LE, program.GOTO_GT, program.GOTO_GE:
			if compare(inst.Op, r.current(cursor), a[0]) {
				pc = a[1]
			}
		case program.STOP:
			if mark <= r.start {
				return fail(inst.Offset, ErrNoProgress)
			}
			r.out = append(r.out, buf...)
			r.start = mark
			if next != r.state {
				tracer().Debugf("state %d -> %d at input position %d", r.state, next, mark)
			}
			r.state, r.stack = next, stack
			return nil
		}
	}
}

// current returns the character at the cursor, or -1 at the end of input.
// -1 is smaller than every character.
func (r *run) current(cursor int) int {
	if cursor >= len(r.input) {
		return -1
	}
	return int(r.input[cursor])
}

func compare(op program.Opcode, c, arg int) bool {
	switch op {
	case program.GOTO_NE:
		return c != arg
	case program.GOTO_EQ:
		return c == arg
	case program.GOTO_LT:
		return c < arg
	case program.GOTO_LE:
		return c <= arg
	case program.GOTO_GT:
		return c > arg
	}
	return c >= arg
}
