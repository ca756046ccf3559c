package ocpdump

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/npillmayer/ocp/otp"
	"github.com/npillmayer/ocp/program"
	"golang.org/x/text/unicode/runenames"
)

const (
	labelWidth      = 8
	defaultArgWidth = 20
	entriesPerLine  = 8
)

// PrettyWriter disassembles programs into aligned listings with symbolic
// labels.
//
// A listing has four columns: an optional label, the mnemonic, the
// arguments and an optional comment. Labels are named L1, L2, … per state,
// in the order in which instructions refer to them. States are named
// INITIAL, _S1, _S2, … Character arguments appear in source notation, with
// their decimal value in the comment column.
type PrettyWriter struct {
	out       io.Writer
	msgs      Messages
	charNames bool
	argWidth  int
}

// PrettyOption configures a PrettyWriter.
type PrettyOption func(*PrettyWriter)

// WithCharNames adds Unicode character names to the comment column.
func WithCharNames(on bool) PrettyOption {
	return func(pw *PrettyWriter) {
		pw.charNames = on
	}
}

// WithArgumentWidth sets the display width of the argument column.
func WithArgumentWidth(n int) PrettyOption {
	return func(pw *PrettyWriter) {
		if n > 0 {
			pw.argWidth = n
		}
	}
}

// NewPrettyWriter creates a pretty writer writing to w.
func NewPrettyWriter(w io.Writer, msgs Messages, opts ...PrettyOption) *PrettyWriter {
	pw := &PrettyWriter{out: w, msgs: msgs, argWidth: defaultArgWidth}
	for _, opt := range opts {
		opt(pw)
	}
	return pw
}

// WriteProgram writes a listing of p. If a state contains an undecodable
// word, none of that state's instructions are written and the
// *program.DecodeError is returned.
func (pw *PrettyWriter) WriteProgram(p Listing) error {
	m := pw.msgs
	lw := newLineWriter(pw.out)
	lw.line(fmt.Sprintf("%% %s: %s %d, %s %d", m.Program, m.Input, p.Input(), m.Output, p.Output()))
	for i := range p.TableCount() {
		pw.table(lw, i, p.Table(i))
	}
	for s := range p.StateCount() {
		if err := pw.state(lw, s, p.State(s)); err != nil {
			tracer().Errorf("disassembling state %d: %v", s, err)
			return lw.flush(err)
		}
	}
	return lw.flush(nil)
}

func (pw *PrettyWriter) table(lw *lineWriter, i int, entries []int32) {
	lw.line("")
	lw.line(fmt.Sprintf("%s %d: %d %s", pw.msgs.Table, i, len(entries), pw.msgs.Entries))
	for start := 0; start < len(entries); start += entriesPerLine {
		var sb strings.Builder
		sb.WriteString("    ")
		for j, e := range entries[start:min(start+entriesPerLine, len(entries))] {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "@\"%04x", uint32(e))
		}
		lw.line(sb.String())
	}
}

func (pw *PrettyWriter) state(lw *lineWriter, s int, stream []program.Word) error {
	insts, labels, err := labelPass(stream)
	if err != nil {
		return atState(err, s)
	}
	tracer().Debugf("state %d: %d instructions, %d labels", s, len(insts), len(labels))
	lw.line("")
	lw.line(fmt.Sprintf("%s %s: %d %s", pw.msgs.State, StateName(s), len(stream), pw.msgs.Words))
	mnemonicWidth := program.MaxMnemonicLength() + 2
	for _, inst := range insts {
		var sb strings.Builder
		name := ""
		if l, ok := labels[inst.Offset]; ok {
			name = l + ":"
		}
		sb.WriteString(runewidth.FillRight(name, labelWidth))
		args, comment := pw.arguments(inst, labels)
		mnemonic := inst.Info().Mnemonic
		switch {
		case args == "" && comment == "":
			sb.WriteString(mnemonic)
		case comment == "":
			sb.WriteString(runewidth.FillRight(mnemonic, mnemonicWidth))
			sb.WriteString(args)
		default:
			sb.WriteString(runewidth.FillRight(mnemonic, mnemonicWidth))
			sb.WriteString(runewidth.FillRight(args, pw.argWidth))
			sb.WriteString(" % ")
			sb.WriteString(comment)
		}
		lw.line(sb.String())
	}
	return nil
}

// labelPass decodes a complete stream and names every jump target which is
// the start of an instruction.
func labelPass(stream []program.Word) ([]program.Instruction, map[int]string, error) {
	var insts []program.Instruction
	starts := make(map[int]bool)
	err := program.Walk(stream, func(inst program.Instruction) error {
		insts = append(insts, inst)
		starts[inst.Offset] = true
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	labels := make(map[int]string)
	for _, inst := range insts {
		for i, kind := range inst.Info().Args {
			target := inst.Args[i]
			if kind != program.ArgLabel || !starts[target] {
				continue
			}
			if _, ok := labels[target]; !ok {
				labels[target] = fmt.Sprintf("L%d", len(labels)+1)
			}
		}
	}
	return insts, labels, nil
}

func (pw *PrettyWriter) arguments(inst program.Instruction, labels map[int]string) (string, string) {
	args := make([]string, len(inst.Args))
	var comment string
	for i, kind := range inst.Info().Args {
		a := inst.Args[i]
		switch kind {
		case program.ArgChar:
			args[i] = otp.FormatValue(a)
			comment = pw.charComment(a, fmt.Sprintf("%d", a))
		case program.ArgLabel:
			if l, ok := labels[a]; ok {
				args[i] = l
			} else {
				args[i] = fmt.Sprintf("%d", a)
			}
		case program.ArgState:
			args[i] = StateName(a)
		default:
			args[i] = fmt.Sprintf("%d", a)
		}
	}
	if inst.Op == program.RIGHT_NUM {
		comment = pw.charComment(inst.Args[0], otp.FormatValue(inst.Args[0]))
	}
	return strings.Join(args, ", "), comment
}

func (pw *PrettyWriter) charComment(c int, value string) string {
	if !pw.charNames {
		return value
	}
	if name := runenames.Name(rune(c)); name != "" {
		return value + " " + name
	}
	return value
}
