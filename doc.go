/*
Package ocp compiles Omega Character Processes.

An Omega Character Process (OCP) rewrites a stream of characters before
typesetting, e.g. turning `---' into an em dash or transliterating Latin
input into Greek. OCPs are written in a small rule language (“.otp” files)
and compiled into a bytecode program, which typesetters load and run.

We stick to the following nomenclature:

▪︎ A "source" is an OCP rule file, parsed into a model by package otp.

▪︎ A "program" is the compiled form of a source, a set of tables and states
holding instruction words (package program). Its binary container is the
file format shared with other tools (“.ocp” files).

▪︎ A "process" is a program running on some input (package ocpvm).

This package ties the steps together. Package otpc generates code, package
ocpdump disassembles programs, packages ocpfont and ocpgo connect programs
to fonts and to Go source.

# Status

The binary layout has not yet been validated against files written by the
reference toolchain.

# Links

Omega, the typesetting system OCPs originate from:
https://en.wikipedia.org/wiki/Omega_(TeX)

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ocp

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ocp.compiler'
func tracer() tracing.Trace {
	return tracing.Select("ocp.compiler")
}
