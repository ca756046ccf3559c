package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	switch strings.ToLower(strings.TrimSpace(topic)) {
	case "run":
		pterm.Info.Println("run")
		pterm.Println(`
	run:<text> runs the loaded program on <text> and prints the result.
	A line starting with a double quote is a shorthand:
	  "a---b
	runs the program on a---b.
	`)
	case "dump":
		pterm.Info.Println("dump")
		pterm.Println(`
	dump         lists the program with symbolic labels and character names
	dump:ref     lists the program word by word, like the reference dump utility
	`)
	case "states", "state":
		pterm.Info.Println("States")
		pterm.Println(`
	Every state has its own instruction stream. State 0 is INITIAL,
	the other states are numbered in order of declaration.
	Each match attempt runs the stream of the current state from the start:
	+------------------------------+
	| rule 1                       |
	+------------------------------+
	| ...                          |
	+------------------------------+
	| fallback: copy one character |
	+------------------------------+
	The first rule which matches wins.
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	load:<file>       load an OCP source (.otp) or a binary program
	encoding:<name>   encoding of sources loaded hereafter (IANA name)
	run:<text>        run the program on text
	states            list states
	tables            list tables
	dump[:ref]        disassemble the program
	render            print the canonical source
	help[:topic]      help on run, dump, states
	quit              leave
	`)
	}
}
