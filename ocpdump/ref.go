package ocpdump

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/ocp/program"
)

// RefConfig controls the column layout of a reference dump.
type RefConfig struct {
	IndexWidth    int  // minimum width of word and entry indices
	DecimalWidth  int  // minimum width of decimal values
	MnemonicWidth int  // width of the mnemonic column
	Fill          rune // padding character for indices and decimal values
	UpperHex      bool // print hex digits in upper case
}

// DefaultRefConfig returns the layout of the reference toolchain.
func DefaultRefConfig() RefConfig {
	return RefConfig{
		IndexWidth:    5,
		DecimalWidth:  7,
		MnemonicWidth: program.MaxMnemonicLength() + 2,
		Fill:          ' ',
	}
}

// RefWriter dumps programs word by word, in the format of the reference
// toolchain's dump utility. A dump starts with a block of header values,
// followed by all table entries and all instruction words. Every word is
// shown with its index and raw hex value; opcode words are annotated with
// mnemonic and first argument, continuation words with the kind and value of
// their argument.
type RefWriter struct {
	out  io.Writer
	msgs Messages
	cfg  RefConfig
}

// NewRefWriter creates a reference dump writer writing to w.
func NewRefWriter(w io.Writer, msgs Messages, cfg RefConfig) *RefWriter {
	if cfg.Fill == 0 {
		cfg.Fill = ' '
	}
	return &RefWriter{out: w, msgs: msgs, cfg: cfg}
}

// WriteProgram dumps p. Dumping stops at the first undecodable word, with
// all words before it written and nothing written for the offending word.
// The error returned is a *program.DecodeError.
func (rw *RefWriter) WriteProgram(p Listing) error {
	m := rw.msgs
	lw := newLineWriter(rw.out)
	header := []struct {
		key   string
		value int
	}{
		{m.CtpLength, totalLength(p)},
		{m.CtpInput, p.Input()},
		{m.CtpOutput, p.Output()},
		{m.CtpNoTables, p.TableCount()},
		{m.CtpRoomTables, roomTables(p)},
		{m.CtpNoStates, p.StateCount()},
		{m.CtpRoomStates, roomStates(p)},
	}
	keyWidth := 0
	for _, h := range header {
		keyWidth = max(keyWidth, len(h.key))
	}
	for _, h := range header {
		lw.line(fmt.Sprintf("%-*s : %d", keyWidth, h.key, h.value))
	}
	for i := range p.TableCount() {
		entries := p.Table(i)
		lw.line(fmt.Sprintf("%s %d, %s %d", m.RefTable, i, m.RefLength, len(entries)))
		for j, e := range entries {
			lw.line(fmt.Sprintf("  %s %s: %s (%s)", m.RefItem, rw.pad(j, rw.cfg.IndexWidth),
				rw.hex(int(uint32(e)), 4), rw.pad(int(e), rw.cfg.DecimalWidth)))
		}
	}
	for s := range p.StateCount() {
		stream := p.State(s)
		lw.line(fmt.Sprintf("%s %d (%s), %s %d", m.RefState, s, StateName(s), m.RefLength, len(stream)))
		for pos := 0; pos < len(stream); {
			inst, err := program.DecodeAt(stream, pos)
			if err != nil {
				err = atState(err, s)
				tracer().Errorf("dumping state %d: %v", s, err)
				return lw.flush(err)
			}
			rw.instruction(lw, stream, inst)
			pos += inst.Size()
		}
	}
	return lw.flush(nil)
}

func (rw *RefWriter) instruction(lw *lineWriter, stream []program.Word, inst program.Instruction) {
	info := inst.Info()
	line := fmt.Sprintf("  %s %s: %s %s", rw.msgs.RefItem, rw.pad(inst.Offset, rw.cfg.IndexWidth),
		rw.hex(int(stream[inst.Offset]), 8), rw.column(info.Mnemonic, rw.cfg.MnemonicWidth))
	if len(info.Args) > 0 {
		line += rw.annotate(info.Args[0], inst.Args[0])
	}
	lw.line(line)
	for i := 1; i < len(info.Args); i++ {
		at := inst.Offset + i
		lw.line(fmt.Sprintf("  %s %s: %s   %s%s", rw.msgs.RefItem, rw.pad(at, rw.cfg.IndexWidth),
			rw.hex(int(stream[at]), 8), rw.column(rw.msgs.argKind(info.Args[i]), rw.cfg.MnemonicWidth-2),
			rw.annotate(info.Args[i], inst.Args[i])))
	}
}

func (rw *RefWriter) annotate(kind program.ArgKind, v int) string {
	switch kind {
	case program.ArgChar:
		s := fmt.Sprintf("0x%s (%s", rw.hex(v, 4), rw.pad(v, rw.cfg.DecimalWidth))
		if v >= 0x21 && v <= 0x7e {
			s += fmt.Sprintf(" `%c'", rune(v))
		}
		return s + ")"
	case program.ArgState:
		return fmt.Sprintf("%d (%s)", v, StateName(v))
	}
	return fmt.Sprintf("%d", v)
}

func (rw *RefWriter) hex(v, width int) string {
	if rw.cfg.UpperHex {
		return fmt.Sprintf("%0*X", width, v)
	}
	return fmt.Sprintf("%0*x", width, v)
}

// pad right-aligns a decimal value with the fill character.
func (rw *RefWriter) pad(v, width int) string {
	s := fmt.Sprintf("%d", v)
	if n := width - len(s); n > 0 {
		return strings.Repeat(string(rw.cfg.Fill), n) + s
	}
	return s
}

// column left-aligns s within a column of the given width.
func (rw *RefWriter) column(s string, width int) string {
	if n := width - len(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s + " "
}
