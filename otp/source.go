package otp

// InitialState is the name of state 0, which exists in every program.
const InitialState = "INITIAL"

// Source is the parsed model of an OCP source. It is owned by a single
// compilation run.
type Source struct {
	Input   int      // bytes per input character
	Output  int      // bytes per output character
	States  []string // declared states, in declaration order, without INITIAL
	Aliases []*Alias // alias declarations, in declaration order
	Tables  []*Table // table declarations, in declaration order
	Rules   []*Rule  // rules, in declaration order
}

// StateNames returns the names of all states, starting with INITIAL.
func (src *Source) StateNames() []string {
	names := make([]string, 0, len(src.States)+1)
	names = append(names, InitialState)
	return append(names, src.States...)
}

// StateIndex returns the index of a state within the program's state list.
// INITIAL is state 0, declared states follow in declaration order.
func (src *Source) StateIndex(name string) (int, bool) {
	if name == InitialState {
		return 0, true
	}
	for i, s := range src.States {
		if s == name {
			return i + 1, true
		}
	}
	return -1, false
}

// TableIndex returns the position of a table in the list of tables.
func (src *Source) TableIndex(name string) (int, bool) {
	for i, t := range src.Tables {
		if t.Name == name {
			return i, true
		}
	}
	return -1, false
}

// AliasIndex returns the position of an alias in the list of aliases.
func (src *Source) AliasIndex(name string) (int, bool) {
	for i, a := range src.Aliases {
		if a.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Alias is a named, reusable pattern fragment.
type Alias struct {
	Name    string
	Pattern Pattern
	Pos     Position
}

// Table is a named constant integer array.
type Table struct {
	Name    string
	Entries []int32
	Pos     Position
}

// Rule is a single rewriting rule.
type Rule struct {
	Guard      string       // state the rule is restricted to; empty for all states
	Pattern    Pattern      // characters to match and consume
	AtEnd      bool         // pattern must be followed by end of input
	Output     []OutputItem // characters to emit
	Context    Pattern      // characters which must follow, neither consumed nor emitted
	Transition Transition   // state transition after a match
	Pos        Position
}

// TransitionKind is the kind of state transition a rule performs.
type TransitionKind int8

const (
	NoTransition TransitionKind = iota
	PushState                   // <push: NAME>
	PopState                    // <pop:>
	ChangeState                 // <NAME>
)

// Transition is a rule's optional change of state.
type Transition struct {
	Kind  TransitionKind
	State string // target state for PushState and ChangeState
}

// --- Patterns --------------------------------------------------------------

// Pattern is a sequence of pattern items. Every item matches exactly one
// character, with the exception of references to aliases spanning several
// characters.
type Pattern []PatternItem

// PatternItem is one of Literal, Range, AliasRef, Negated or Alternation.
type PatternItem interface {
	patternItem()
}

// Literal matches a single character.
type Literal struct {
	Char rune
}

// Range matches a character within an inclusive range.
type Range struct {
	Lo, Hi rune
}

// AliasRef refers to an alias by name: {NAME}.
type AliasRef struct {
	Name string
	Pos  Position
}

// Negated matches any character not matched by Item: ^item.
type Negated struct {
	Item PatternItem
}

// Alternation matches a character matched by any of its members: (a|b|c).
type Alternation struct {
	Members []PatternItem
	Pos     Position
}

func (Literal) patternItem()     {}
func (Range) patternItem()       {}
func (AliasRef) patternItem()    {}
func (Negated) patternItem()     {}
func (Alternation) patternItem() {}

// Contains reports whether a range contains a character.
func (r Range) Contains(c rune) bool {
	return r.Lo <= c && c <= r.Hi
}

// --- Outputs ---------------------------------------------------------------

// OutputItem is one of Emit, BackRef, Arithmetic or TableLookup.
type OutputItem interface {
	outputItem()
}

// Emit outputs a literal value.
type Emit struct {
	Value int32
}

// Special back-reference indices, resolved during expansion.
const (
	LastChar = -1 // \$: the last matched character
	AllChars = -2 // \*: all matched characters
)

// BackRef outputs the n-th matched character, counting from 1.
type BackRef struct {
	Index int
}

// ArithOp is the operator of an arithmetic output item.
type ArithOp int8

const (
	Add ArithOp = iota
	Sub
)

func (op ArithOp) String() string {
	if op == Sub {
		return "-"
	}
	return "+"
}

// Arithmetic outputs a matched character plus or minus an offset:
// #(\n + offset).
type Arithmetic struct {
	Ref    int
	Op     ArithOp
	Offset int32
}

// TableLookup outputs a table entry, indexed by a matched character plus or
// minus an offset: #NAME[\n - offset].
type TableLookup struct {
	Table  string
	Ref    int
	Op     ArithOp
	Offset int32
	Pos    Position
}

func (Emit) outputItem()        {}
func (BackRef) outputItem()     {}
func (Arithmetic) outputItem()  {}
func (TableLookup) outputItem() {}
