package program

import "fmt"

// Word is one 32-bit instruction word.
type Word uint32

// Layout of an instruction word.
const (
	OpcodeOffset    = 24
	ArgumentBitMask = 1<<OpcodeOffset - 1
)

// MaxArgument is the largest value an instruction argument may hold.
const MaxArgument = ArgumentBitMask

// Opcode extracts the opcode field of a word.
func (w Word) Opcode() Opcode {
	return Opcode(w >> OpcodeOffset)
}

// Arg extracts the argument field of a word.
func (w Word) Arg() int {
	return int(w & ArgumentBitMask)
}

// MakeWord packs an opcode and an argument into a single word.
// The argument is masked to the argument bit width.
func MakeWord(op Opcode, arg int) Word {
	return Word(op)<<OpcodeOffset | Word(arg)&ArgumentBitMask
}

// Encode produces the words for one instruction. The number of arguments
// must match the opcode's arity, and every argument must fit into the argument
// bit width.
func Encode(op Opcode, args ...int) ([]Word, error) {
	info, ok := Lookup(op)
	if !ok {
		return nil, fmt.Errorf("cannot encode unknown opcode %d", op)
	}
	if len(args) != info.Arity() {
		return nil, fmt.Errorf("%s takes %d argument(s), have %d", info.Mnemonic, info.Arity(), len(args))
	}
	for i, a := range args {
		if a < 0 || a > MaxArgument {
			return nil, fmt.Errorf("%s argument %d out of range: %d", info.Mnemonic, i+1, a)
		}
	}
	if len(args) == 0 {
		return []Word{MakeWord(op, 0)}, nil
	}
	words := make([]Word, 0, info.Size())
	words = append(words, MakeWord(op, args[0]))
	for _, a := range args[1:] {
		words = append(words, Word(a)&ArgumentBitMask)
	}
	return words, nil
}

// Instruction is one decoded instruction of a state's stream.
type Instruction struct {
	Offset int    // word offset within the stream
	Op     Opcode // operation
	Args   []int  // arguments, in order
}

// Info returns the static description of the instruction's opcode.
func (inst Instruction) Info() OpInfo {
	info, _ := Lookup(inst.Op)
	return info
}

// Size is the number of words the instruction occupies.
func (inst Instruction) Size() int {
	return inst.Info().Size()
}

// DecodeAt decodes the instruction starting at word offset pos of a stream.
// The opcode table alone determines how many words are read. Unknown opcodes
// and instructions truncated by the end of the stream are reported as
// *DecodeError, with State set to -1 (callers fill in the state they know).
func DecodeAt(stream []Word, pos int) (Instruction, error) {
	if pos < 0 || pos >= len(stream) {
		return Instruction{}, &DecodeError{State: -1, Offset: pos, Msg: "offset outside of stream"}
	}
	w := stream[pos]
	info, ok := Lookup(w.Opcode())
	if !ok {
		return Instruction{}, &DecodeError{
			State:   -1,
			Offset:  pos,
			Opcode:  w.Opcode(),
			Msg:     "illegal opcode",
			Illegal: true,
		}
	}
	if pos+info.Size() > len(stream) {
		return Instruction{}, &DecodeError{
			State:  -1,
			Offset: pos,
			Opcode: w.Opcode(),
			Msg:    fmt.Sprintf("%s truncated: needs %d words, %d left", info.Mnemonic, info.Size(), len(stream)-pos),
		}
	}
	inst := Instruction{Offset: pos, Op: w.Opcode()}
	if info.Arity() > 0 {
		inst.Args = make([]int, info.Arity())
		inst.Args[0] = w.Arg()
		for i := 1; i < info.Arity(); i++ {
			inst.Args[i] = stream[pos+i].Arg()
		}
	}
	return inst, nil
}

// Walk decodes a complete stream front to back, calling fn for every
// instruction. It stops at the first undecodable word or when fn returns an
// error.
func Walk(stream []Word, fn func(Instruction) error) error {
	for pos := 0; pos < len(stream); {
		inst, err := DecodeAt(stream, pos)
		if err != nil {
			return err
		}
		if err = fn(inst); err != nil {
			return err
		}
		pos += inst.Size()
	}
	return nil
}
