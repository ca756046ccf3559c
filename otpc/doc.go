/*
Package otpc compiles expanded OCP sources into programs.

Every state of a program gets its own instruction stream. A stream tries the
rules applicable to its state one after the other, in source order: a rule
applies to a state if it has no guard or if its guard names the state. Each
rule first tests and consumes its pattern, then tests its context without
consuming it, writes its output and commits with STOP. A failing test
jumps to the beginning of the next rule. After the last rule, a fallback
copies one input character unchanged. Consequently the first rule to match
wins.

Labels are word offsets into a state's stream. They are created in order
of first use and back-patched once the stream is complete, which makes
compilation deterministic.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otpc

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ocp.compiler'
func tracer() tracing.Trace {
	return tracing.Select("ocp.compiler")
}
