/*
Package ocpfont checks compiled OCP programs against fonts.

An OCP program emits characters, and a typesetter will later look for glyphs
for them. This package collects every character a program can emit
literally, i.e. arguments of RIGHT_NUM instructions and table entries, and
asks a CharacterProvider whether it can supply each of them. Characters
copied from the input or computed by arithmetic are not known before
running the program and are not checked.

CharacterProvider is the contract towards font handling. SFNTFont is an
implementation on top of golang.org/x/image/font/sfnt.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ocpfont

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ocp.font'
func tracer() tracing.Trace {
	return tracing.Select("ocp.font")
}
