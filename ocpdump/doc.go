/*
Package ocpdump writes human readable listings of compiled OCP programs.

Two writers are provided. A PrettyWriter disassembles a program into an
aligned, assembler-like listing with symbolic labels and state names. A
RefWriter dumps a program word by word in the layout of the reference
toolchain's dump utility, suitable for textual comparison with reference
dumps.

Both writers decode instruction streams with nothing but the static opcode
table of package program. A word carrying an opcode absent from the table
stops a writer with a *program.DecodeError; nothing is written for that
word. Captions and headings are taken from a Messages table handed to the
writer's constructor.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ocpdump

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ocp.dump'
func tracer() tracing.Trace {
	return tracing.Select("ocp.dump")
}
