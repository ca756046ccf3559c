package program

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned when binary program data ends prematurely.
var ErrTruncated = errors.New("OCP binary truncated")

// DecodeError is raised when an instruction stream cannot be decoded, either
// because of an opcode absent from the static opcode table or because a
// multi-word instruction is cut off by the end of its stream.
type DecodeError struct {
	State  int    // state index, -1 if unknown
	Offset int    // word offset within the state's stream
	Opcode Opcode // offending opcode, if any
	Msg    string // description of the issue
	// Illegal is set if the opcode is absent from the opcode table.
	Illegal bool
}

func (e *DecodeError) Error() string {
	if e.State < 0 {
		return fmt.Sprintf("OCP decode at word %d: %s (opcode %d)", e.Offset, e.Msg, e.Opcode)
	}
	return fmt.Sprintf("OCP decode in state %d at word %d: %s (opcode %d)", e.State, e.Offset, e.Msg, e.Opcode)
}

// IsIllegalOpcode reports whether err is a decode error caused by an
// opcode missing from the opcode table.
func IsIllegalOpcode(err error) bool {
	var derr *DecodeError
	return errors.As(err, &derr) && derr.Illegal
}

// inState returns a copy of a decode error with the state index set.
func inState(err error, state int) error {
	var derr *DecodeError
	if errors.As(err, &derr) {
		e := *derr
		e.State = state
		return &e
	}
	return err
}

// errProgram produces user level errors for malformed programs.
func errProgram(format string, args ...any) error {
	return fmt.Errorf("OCP program: "+format, args...)
}
