package main

import (
	"strings"
)

// Op is a single command with an optional argument.
type Op struct {
	code int
	arg  string
}

const NOOP = -1
const (
	// op-code QUIT will not have an argument
	QUIT int = iota
	// op-codes below may have arguments
	HELP
	LOAD
	RUN
	STATES
	TABLES
	DUMP
	RENDER
	ENCODING
)

var opMap = map[string]int{
	"quit":     QUIT,
	"help":     HELP,
	"load":     LOAD,
	"run":      RUN,
	"states":   STATES,
	"tables":   TABLES,
	"dump":     DUMP,
	"render":   RENDER,
	"encoding": ENCODING,
}

var opNames = []string{
	"quit",
	"help",
	"load",
	"run",
	"states",
	"tables",
	"dump",
	"render",
	"encoding",
}

// parseCommand splits a line into command and argument. Commands are
// separated from their argument by a colon or a blank, e.g. "load:greek.otp"
// or "run abc". Lines starting with a quote are shorthand for run, and
// unknown commands show help.
func parseCommand(line string) Op {
	if rest, ok := strings.CutPrefix(line, `"`); ok {
		return Op{code: RUN, arg: strings.TrimSuffix(rest, `"`)}
	}
	name, arg := line, ""
	if i := strings.IndexAny(line, ": "); i >= 0 {
		name, arg = line[:i], line[i+1:]
	}
	code, ok := opMap[strings.ToLower(name)]
	if !ok {
		return Op{code: HELP}
	}
	if code == QUIT {
		return Op{code: QUIT}
	}
	tracer().Debugf("parsed command: %s %q", opNames[code], arg)
	return Op{code: code, arg: arg}
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:     quitOp,
	HELP:     helpOp,
	LOAD:     loadOp,
	RUN:      runOp,
	STATES:   statesOp,
	TABLES:   tablesOp,
	DUMP:     dumpOp,
	RENDER:   renderOp,
	ENCODING: encodingOp,
}

func (intp *Intp) execute(op Op) (err error, stop bool) {
	f, ok := commandFn[op.code]
	if !ok {
		return nil, false
	}
	return f(intp, &op)
}

func (op *Op) noArg() bool {
	return strings.TrimSpace(op.arg) == ""
}
