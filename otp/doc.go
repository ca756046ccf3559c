/*
Package otp reads OCP rule sources, the “.otp” files of a translation
process.

An OCP source describes a character-rewriting process as an ordered list
of rules. Each rule matches a short sequence of input characters, possibly
guarded by a state, and replaces it by a sequence of output characters.
Characters may be given as decimal numbers, as hex numbers with prefix
@" or as quoted characters `c'. A small example:

	input:  1;
	output:  2;
	aliases:
	  VOWEL = (`a' | `e' | `i' | `o' | `u');
	expressions:
	  `-'`-'`-' => @"2014;
	  {VOWEL} `^' => #(\1 + @"300);

Processing a source happens in three steps, each one a pure function of
its input:

▪︎ [Tokenize] and [Parse] build a [Source], the parsed model of declarations
and rules.

▪︎ [Expand] resolves aliases into character classes and normalizes the
model into an [Expanded] model. Cyclic alias definitions are rejected.

▪︎ [Render] writes an expanded model back to canonical source text.

Compiling an expanded model to bytecode is the task of package otpc.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otp

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ocp.source'
func tracer() tracing.Trace {
	return tracing.Select("ocp.source")
}
