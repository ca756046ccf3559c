package program

import "fmt"

// Opcode is the operation-selector field of an instruction word.
type Opcode uint8

// Opcodes of the OCP virtual machine. Opcode 0 is intentionally unassigned,
// so that a zeroed word never decodes.
const (
	RIGHT_NUM        Opcode = iota + 1 // emit a literal value
	RIGHT_CHAR                         // emit the k-th matched character
	RIGHT_ADD                          // emit matched character k plus n
	RIGHT_SUB                          // emit matched character k minus n
	RIGHT_LOOKUP                       // emit table[t][char k + n]
	RIGHT_LOOKUP_SUB                   // emit table[t][char k - n]
	STATE_CHANGE                       // replace the current state
	STATE_PUSH                         // push the current state and enter another one
	STATE_POP                          // return to the most recently pushed state
	LEFT_START                         // reset cursor and mark to the match start
	LEFT_END                           // mark the end of consumed input
	NEXT_CHAR                          // advance the cursor
	GOTO                               // unconditional jump
	GOTO_NE                            // jump if current character != c
	GOTO_EQ                            // jump if current character == c
	GOTO_LT                            // jump if current character < c
	GOTO_LE                            // jump if current character <= c
	GOTO_GT                            // jump if current character > c
	GOTO_GE                            // jump if current character >= c
	GOTO_END                           // jump if there is no character at the cursor
	GOTO_NOT_END                       // jump if there is a character at the cursor
	STOP                               // commit the match and restart
)

// ArgKind classifies instruction arguments. The kind of an argument influences
// how a value is rendered, never how many words it occupies.
type ArgKind int8

const (
	ArgNumber ArgKind = iota // plain number (back-reference index, offset, table index)
	ArgChar                  // character code
	ArgLabel                 // word offset within the same state
	ArgState                 // index into the program's state list
)

func (k ArgKind) String() string {
	switch k {
	case ArgNumber:
		return "number"
	case ArgChar:
		return "char"
	case ArgLabel:
		return "label"
	case ArgState:
		return "state"
	}
	return "unknown"
}

// OpInfo describes an opcode: its mnemonic and the kinds of its arguments.
type OpInfo struct {
	Mnemonic string
	Args     []ArgKind
}

// Arity is the number of arguments an instruction carries.
func (info OpInfo) Arity() int {
	return len(info.Args)
}

// Size is the number of words an instruction occupies.
func (info OpInfo) Size() int {
	if len(info.Args) <= 1 {
		return 1
	}
	return len(info.Args)
}

var (
	noArgs       = []ArgKind{}
	numberArg    = []ArgKind{ArgNumber}
	twoNumbers   = []ArgKind{ArgNumber, ArgNumber}
	threeNumbers = []ArgKind{ArgNumber, ArgNumber, ArgNumber}
	stateArg     = []ArgKind{ArgState}
	labelArg     = []ArgKind{ArgLabel}
	charAndLabel = []ArgKind{ArgChar, ArgLabel}
)

// opcodeTable is addressed by opcode. Entries with an empty mnemonic are
// unassigned opcodes.
var opcodeTable = [...]OpInfo{
	RIGHT_NUM:        {"RIGHT_NUM", numberArg},
	RIGHT_CHAR:       {"RIGHT_CHAR", numberArg},
	RIGHT_ADD:        {"RIGHT_ADD", twoNumbers},
	RIGHT_SUB:        {"RIGHT_SUB", twoNumbers},
	RIGHT_LOOKUP:     {"RIGHT_LOOKUP", threeNumbers},
	RIGHT_LOOKUP_SUB: {"RIGHT_LOOKUP_SUB", threeNumbers},
	STATE_CHANGE:     {"STATE_CHANGE", stateArg},
	STATE_PUSH:       {"STATE_PUSH", stateArg},
	STATE_POP:        {"STATE_POP", noArgs},
	LEFT_START:       {"LEFT_START", noArgs},
	LEFT_END:         {"LEFT_END", noArgs},
	NEXT_CHAR:        {"NEXT_CHAR", noArgs},
	GOTO:             {"GOTO", labelArg},
	GOTO_NE:          {"GOTO_NE", charAndLabel},
	GOTO_EQ:          {"GOTO_EQ", charAndLabel},
	GOTO_LT:          {"GOTO_LT", charAndLabel},
	GOTO_LE:          {"GOTO_LE", charAndLabel},
	GOTO_GT:          {"GOTO_GT", charAndLabel},
	GOTO_GE:          {"GOTO_GE", charAndLabel},
	GOTO_END:         {"GOTO_END", labelArg},
	GOTO_NOT_END:     {"GOTO_NOT_END", labelArg},
	STOP:             {"STOP", noArgs},
}

// Lookup returns the static description of an opcode. The second return value
// is false for opcodes absent from the table.
func Lookup(op Opcode) (OpInfo, bool) {
	if int(op) >= len(opcodeTable) || opcodeTable[op].Mnemonic == "" {
		return OpInfo{}, false
	}
	return opcodeTable[op], true
}

// MaxMnemonicLength is the length of the longest mnemonic in the opcode table.
func MaxMnemonicLength() int {
	n := 0
	for _, info := range opcodeTable {
		n = max(n, len(info.Mnemonic))
	}
	return n
}

func (op Opcode) String() string {
	if info, ok := Lookup(op); ok {
		return info.Mnemonic
	}
	return fmt.Sprintf("OP_%d", uint8(op))
}
