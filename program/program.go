package program

import (
	"slices"
)

// Program is a compiled OCP program. It is immutable after construction;
// all accessors hand out copies.
type Program struct {
	input  int
	output int
	length int // declared total length in words, 0 if not declared
	tables [][]int32
	states [][]Word
}

// New creates a program from its parts. The parts are copied. Every state's
// stream is decoded to verify that
//
//   - all opcodes are known and no instruction is truncated,
//   - every label argument addresses a word within the same stream,
//   - every state argument addresses an existing state,
//   - every table argument addresses an existing table.
//
// A program must have at least one state, the initial state.
func New(input, output int, tables [][]int32, states [][]Word) (*Program, error) {
	if input < 0 || output < 0 {
		return nil, errProgram("invalid arity input=%d output=%d", input, output)
	}
	if len(states) == 0 {
		return nil, errProgram("no initial state")
	}
	p := &Program{
		input:  input,
		output: output,
		tables: make([][]int32, len(tables)),
		states: make([][]Word, len(states)),
	}
	for i, t := range tables {
		p.tables[i] = slices.Clone(t)
	}
	for i, s := range states {
		p.states[i] = slices.Clone(s)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	tracer().Debugf("new OCP program with %d tables and %d states", len(tables), len(states))
	return p, nil
}

// MustNew is like New, but panics if the program is invalid. It is intended
// for programs embedded as Go source.
func MustNew(input, output int, tables [][]int32, states [][]Word) *Program {
	p, err := New(input, output, tables, states)
	if err != nil {
		panic(err)
	}
	return p
}

// WithLength returns a copy of p carrying a declared total length.
func (p *Program) WithLength(length int) *Program {
	q := *p
	q.length = length
	return &q
}

func (p *Program) validate() error {
	for s, stream := range p.states {
		err := Walk(stream, func(inst Instruction) error {
			info := inst.Info()
			for i, kind := range info.Args {
				a := inst.Args[i]
				switch kind {
				case ArgLabel:
					if a >= len(stream) {
						return errProgram("state %d, word %d: label %d outside of stream (%d words)",
							s, inst.Offset, a, len(stream))
					}
				case ArgState:
					if a >= len(p.states) {
						return errProgram("state %d, word %d: no state %d", s, inst.Offset, a)
					}
				}
			}
			if inst.Op == RIGHT_LOOKUP || inst.Op == RIGHT_LOOKUP_SUB {
				if inst.Args[0] >= len(p.tables) {
					return errProgram("state %d, word %d: no table %d", s, inst.Offset, inst.Args[0])
				}
			}
			return nil
		})
		if err != nil {
			return inState(err, s)
		}
	}
	return nil
}

// Input is the number of bytes per input character.
func (p *Program) Input() int { return p.input }

// Output is the number of bytes per output character.
func (p *Program) Output() int { return p.output }

// Length returns the declared total length in words, if any.
func (p *Program) Length() (int, bool) {
	return p.length, p.length > 0
}

// TableCount is the number of tables.
func (p *Program) TableCount() int { return len(p.tables) }

// Table returns a copy of table i.
func (p *Program) Table(i int) []int32 {
	return slices.Clone(p.tables[i])
}

// TableLen is the number of entries of table i.
func (p *Program) TableLen(i int) int { return len(p.tables[i]) }

// TableEntry returns entry j of table i.
func (p *Program) TableEntry(i, j int) int32 { return p.tables[i][j] }

// StateCount is the number of states, including the initial state.
func (p *Program) StateCount() int { return len(p.states) }

// State returns a copy of the instruction stream of state i.
func (p *Program) State(i int) []Word {
	return slices.Clone(p.states[i])
}

// StateLen is the number of words of state i.
func (p *Program) StateLen(i int) int { return len(p.states[i]) }

// WordAt returns word j of state i.
func (p *Program) WordAt(i, j int) Word { return p.states[i][j] }

// RoomTables is the total number of table entries.
func (p *Program) RoomTables() int {
	n := 0
	for _, t := range p.tables {
		n += len(t)
	}
	return n
}

// RoomStates is the total number of instruction words.
func (p *Program) RoomStates() int {
	n := 0
	for _, s := range p.states {
		n += len(s)
	}
	return n
}

// BinaryLength is the total number of words of the binary container
// (see WriteBinary).
func (p *Program) BinaryLength() int {
	return 3 + 1 + len(p.tables) + p.RoomTables() + 1 + len(p.states) + p.RoomStates()
}

// Equal reports whether two programs have identical arities, tables and
// states. The declared length is not compared.
func (p *Program) Equal(q *Program) bool {
	if p.input != q.input || p.output != q.output {
		return false
	}
	return slices.EqualFunc(p.tables, q.tables, slices.Equal[[]int32]) &&
		slices.EqualFunc(p.states, q.states, slices.Equal[[]Word])
}
