package otpc

import (
	"fmt"

	"github.com/npillmayer/ocp/otp"
	"github.com/npillmayer/ocp/program"
)

// Compile translates an expanded source into a program. State 0 of the
// program is INITIAL, followed by the declared states in declaration order;
// tables keep their declaration order as well.
//
// Values which do not fit into the argument width of an instruction are
// reported as errors of kind otp.CodegenError.
func Compile(x *otp.Expanded) (*program.Program, error) {
	src := x.Source
	names := src.StateNames()
	streams := make([][]program.Word, len(names))
	for s, name := range names {
		b := newBuilder(src)
		for _, r := range x.Rules {
			if r.Rule.Guard != "" && r.Rule.Guard != name {
				continue
			}
			b.rule(r)
		}
		b.fallback()
		code, err := b.finish()
		if err != nil {
			tracer().Errorf("compiling state %s: %v", name, err)
			return nil, err
		}
		tracer().Debugf("state %d (%s): %d words, %d labels", s, name, len(code), len(b.targets))
		streams[s] = code
	}
	tables := make([][]int32, len(src.Tables))
	for i, t := range src.Tables {
		tables[i] = t.Entries
	}
	p, err := program.New(src.Input, src.Output, tables, streams)
	if err != nil {
		return nil, fmt.Errorf("compiled OCP program is invalid: %w", err)
	}
	return p, nil
}

// label identifies a jump target. Labels are numbered in creation order.
type label int

// fixup is a label argument waiting for its target.
type fixup struct {
	at     int   // word offset of the argument
	label  label // target
	packed bool  // argument shares its word with the opcode
}

// builder assembles the instruction stream of one state.
type builder struct {
	src     *otp.Source
	code    []program.Word
	targets []int // word offset of every label, -1 while unbound
	fixups  []fixup
	pos     otp.Position // position of the rule being compiled
	err     error        // first error, sticky
}

func newBuilder(src *otp.Source) *builder {
	return &builder{src: src, code: make([]program.Word, 0, 64)}
}

func (b *builder) newLabel() label {
	b.targets = append(b.targets, -1)
	return label(len(b.targets) - 1)
}

func (b *builder) bind(l label) {
	b.targets[l] = len(b.code)
}

func (b *builder) fail(format string, args ...any) {
	if b.err == nil {
		b.err = &otp.Error{Kind: otp.CodegenError, Pos: b.pos, Msg: fmt.Sprintf(format, args...)}
	}
}

// emit appends an instruction to the stream.
func (b *builder) emit(op program.Opcode, args ...int) {
	if b.err != nil {
		return
	}
	words, err := program.Encode(op, args...)
	if err != nil {
		b.fail("%v", err)
		return
	}
	b.code = append(b.code, words...)
}

// jump appends a jump instruction. The label is the last argument of every
// jump; args are the arguments preceding it.
func (b *builder) jump(op program.Opcode, l label, args ...int) {
	if b.err != nil {
		return
	}
	at := len(b.code) + len(args)
	b.fixups = append(b.fixups, fixup{at: at, label: l, packed: len(args) == 0})
	b.emit(op, append(args, 0)...)
}

// finish resolves all labels.
func (b *builder) finish() ([]program.Word, error) {
	if b.err != nil {
		return nil, b.err
	}
	for _, f := range b.fixups {
		target := b.targets[f.label]
		switch {
		case target < 0:
			panic(fmt.Sprintf("label L%d never bound", f.label+1))
		case target > program.MaxArgument:
			return nil, &otp.Error{Kind: otp.CodegenError,
				Msg: fmt.Sprintf("jump target %d exceeds argument width", target)}
		}
		if f.packed {
			b.code[f.at] = program.MakeWord(b.code[f.at].Opcode(), target)
		} else {
			b.code[f.at] = program.Word(target)
		}
	}
	return b.code, nil
}

func (b *builder) rule(r otp.ExpandedRule) {
	b.pos = r.Rule.Pos
	fail := b.newLabel()
	b.emit(program.LEFT_START)
	b.match(r.Pattern, fail)
	if r.Rule.AtEnd {
		b.jump(program.GOTO_NOT_END, fail)
	}
	b.emit(program.LEFT_END)
	b.match(r.Context, fail)
	for _, out := range r.Rule.Output {
		b.output(out)
	}
	switch t := r.Rule.Transition; t.Kind {
	case otp.PushState:
		b.emit(program.STATE_PUSH, b.state(t.State))
	case otp.PopState:
		b.emit(program.STATE_POP)
	case otp.ChangeState:
		b.emit(program.STATE_CHANGE, b.state(t.State))
	}
	b.emit(program.STOP)
	b.bind(fail)
}

// fallback copies one character if no rule matches.
func (b *builder) fallback() {
	b.pos = otp.Position{}
	b.emit(program.LEFT_START)
	b.emit(program.NEXT_CHAR)
	b.emit(program.LEFT_END)
	b.emit(program.RIGHT_CHAR, 1)
	b.emit(program.STOP)
}

// match tests and steps over one character per class.
func (b *builder) match(classes []otp.Class, fail label) {
	for _, c := range classes {
		b.jump(program.GOTO_END, fail)
		b.test(c, fail)
		b.emit(program.NEXT_CHAR)
	}
}

// test jumps to fail if the current character is not a member of class c.
func (b *builder) test(c otp.Class, fail label) {
	if len(c.Ranges) == 0 {
		b.fail("empty character class")
		return
	}
	if c.Negated {
		for _, r := range c.Ranges {
			if r.Lo == r.Hi {
				b.jump(program.GOTO_EQ, fail, int(r.Lo))
				continue
			}
			skip := b.newLabel()
			b.jump(program.GOTO_LT, skip, int(r.Lo))
			b.jump(program.GOTO_LE, fail, int(r.Hi))
			b.bind(skip)
		}
		return
	}
	last := len(c.Ranges) - 1
	var ok label
	if last > 0 {
		ok = b.newLabel()
	}
	for _, r := range c.Ranges[:last] {
		if r.Lo == r.Hi {
			b.jump(program.GOTO_EQ, ok, int(r.Lo))
			continue
		}
		skip := b.newLabel()
		b.jump(program.GOTO_LT, skip, int(r.Lo))
		b.jump(program.GOTO_LE, ok, int(r.Hi))
		b.bind(skip)
	}
	if r := c.Ranges[last]; r.Lo == r.Hi {
		b.jump(program.GOTO_NE, fail, int(r.Lo))
	} else {
		b.jump(program.GOTO_LT, fail, int(r.Lo))
		b.jump(program.GOTO_GT, fail, int(r.Hi))
	}
	if last > 0 {
		b.bind(ok)
	}
}

func (b *builder) output(out otp.OutputItem) {
	switch it := out.(type) {
	case otp.Emit:
		b.emit(program.RIGHT_NUM, int(it.Value))
	case otp.BackRef:
		b.emit(program.RIGHT_CHAR, it.Index)
	case otp.Arithmetic:
		op := program.RIGHT_ADD
		if it.Op == otp.Sub {
			op = program.RIGHT_SUB
		}
		b.emit(op, it.Ref, int(it.Offset))
	case otp.TableLookup:
		t, ok := b.src.TableIndex(it.Table)
		if !ok {
			b.fail("unknown table %s", it.Table)
			return
		}
		op := program.RIGHT_LOOKUP
		if it.Op == otp.Sub {
			op = program.RIGHT_LOOKUP_SUB
		}
		b.emit(op, t, it.Ref, int(it.Offset))
	default:
		b.fail("cannot compile output item %T", out)
	}
}

func (b *builder) state(name string) int {
	s, ok := b.src.StateIndex(name)
	if !ok {
		b.fail("unknown state %s", name)
		return 0
	}
	return s
}
