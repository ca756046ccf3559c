package ocpdump

import "github.com/npillmayer/ocp/program"

// Messages holds every caption a writer prints. Writers receive a copy, so
// callers may prepare tables for other languages without affecting writers
// already in use.
type Messages struct {
	Program string // heading of a pretty listing
	Input   string
	Output  string
	Table   string
	Entries string
	State   string
	Words   string

	// Header lines of a reference dump.
	CtpLength     string
	CtpInput      string
	CtpOutput     string
	CtpNoTables   string
	CtpRoomTables string
	CtpNoStates   string
	CtpRoomStates string

	// Captions of a reference dump.
	RefTable  string
	RefState  string
	RefItem   string
	RefLength string

	// Names of argument kinds, used for continuation words.
	ArgNumber string
	ArgChar   string
	ArgLabel  string
	ArgState  string
}

// EnglishMessages returns the default captions.
func EnglishMessages() Messages {
	return Messages{
		Program: "OCP program",
		Input:   "input",
		Output:  "output",
		Table:   "table",
		Entries: "entries",
		State:   "state",
		Words:   "words",

		CtpLength:     "ctp_length",
		CtpInput:      "ctp_input",
		CtpOutput:     "ctp_output",
		CtpNoTables:   "ctp_no_tables",
		CtpRoomTables: "ctp_room_tables",
		CtpNoStates:   "ctp_no_states",
		CtpRoomStates: "ctp_room_states",

		RefTable:  "Table",
		RefState:  "State",
		RefItem:   "Item",
		RefLength: "length",

		ArgNumber: "number",
		ArgChar:   "char",
		ArgLabel:  "label",
		ArgState:  "state",
	}
}

func (m Messages) argKind(k program.ArgKind) string {
	switch k {
	case program.ArgChar:
		return m.ArgChar
	case program.ArgLabel:
		return m.ArgLabel
	case program.ArgState:
		return m.ArgState
	}
	return m.ArgNumber
}
