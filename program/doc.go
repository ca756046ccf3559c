/*
Package program holds compiled OCP programs.

A program is the hand-off artifact between the OCP compiler and its
consumers: disassemblers, the binary serializer and runtime matchers.
It consists of an input and an output arity, an ordered list of tables
(fixed-length integer arrays) and an ordered list of states, each state
being a stream of 32-bit instruction words. State 0 is the initial state.

Instruction words are bit-packed: the opcode lives in the upper 8 bits
(see [OpcodeOffset]), a single argument in the lower 24 bits
(see [ArgumentBitMask]). Instructions with more than one argument occupy
one additional word per extra argument. Decoding needs nothing but the
static opcode table of this package, which maps an opcode to its mnemonic
and the kinds of its arguments.

Programs are immutable once constructed with [New]. They may be shared
freely between goroutines.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package program

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ocp.program'
func tracer() tracing.Trace {
	return tracing.Select("ocp.program")
}
