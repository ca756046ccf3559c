/*
Package ocpvm runs compiled OCP programs on character sequences.

A Machine executes the instruction stream of the current state from the
beginning for every match attempt. The stream moves a cursor over the input,
tests characters and buffers output. STOP commits: the buffered output is
appended to the result, the input up to the mark set by LEFT_END is
consumed, pending state transitions take effect and the next attempt
starts. Streams produced by package otpc always end in a fallback which
copies a single character, so every attempt makes progress.

Machines are immutable and may run concurrently.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ocpvm

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ocp.vm'
func tracer() tracing.Trace {
	return tracing.Select("ocp.vm")
}
