package program

import (
	"bytes"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEncode(t *testing.T, op Opcode, args ...int) []Word {
	t.Helper()
	w, err := Encode(op, args...)
	require.NoError(t, err)
	return w
}

func stream(t *testing.T, parts ...[]Word) []Word {
	var s []Word
	for _, p := range parts {
		s = append(s, p...)
	}
	return s
}

func TestEncodeLayout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.program")
	defer teardown()
	//
	tests := []struct {
		name string
		op   Opcode
		args []int
		want []Word
	}{
		{"no argument", STOP, nil, []Word{22 << 24}},
		{"one argument", RIGHT_NUM, []int{0x2014}, []Word{1<<24 | 0x2014}},
		{"two arguments", GOTO_NE, []int{'-', 9}, []Word{14<<24 | '-', 9}},
		{"three arguments", RIGHT_LOOKUP, []int{1, 2, 3}, []Word{5<<24 | 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Encode(tt.op, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, w)
		})
	}
}

func TestEncodeRejectsBadArguments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.program")
	defer teardown()
	//
	_, err := Encode(RIGHT_NUM, MaxArgument+1)
	assert.Error(t, err, "argument wider than 24 bits must be rejected")
	_, err = Encode(RIGHT_NUM, -1)
	assert.Error(t, err, "negative argument must be rejected")
	_, err = Encode(GOTO_NE, 1)
	assert.Error(t, err, "wrong arity must be rejected")
	_, err = Encode(Opcode(0))
	assert.Error(t, err, "opcode 0 is unassigned")
}

func TestDecodeRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.program")
	defer teardown()
	//
	s := stream(t,
		mustEncode(t, LEFT_START),
		mustEncode(t, GOTO_END, 10),
		mustEncode(t, GOTO_NE, 'a', 10),
		mustEncode(t, NEXT_CHAR),
		mustEncode(t, LEFT_END),
		mustEncode(t, RIGHT_LOOKUP_SUB, 0, 1, 0xa0),
		mustEncode(t, STOP),
	)
	var ops []Opcode
	var offsets []int
	err := Walk(s, func(inst Instruction) error {
		ops = append(ops, inst.Op)
		offsets = append(offsets, inst.Offset)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []Opcode{LEFT_START, GOTO_END, GOTO_NE, NEXT_CHAR, LEFT_END, RIGHT_LOOKUP_SUB, STOP}, ops)
	assert.Equal(t, []int{0, 1, 2, 4, 5, 6, 9}, offsets)
	inst, err := DecodeAt(s, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0xa0}, inst.Args)
}

func TestDecodeIllegalOpcode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.program")
	defer teardown()
	//
	s := []Word{MakeWord(LEFT_START, 0), MakeWord(Opcode(99), 5)}
	err := Walk(s, func(Instruction) error { return nil })
	require.Error(t, err)
	assert.True(t, IsIllegalOpcode(err))
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, 1, derr.Offset)
	assert.Equal(t, Opcode(99), derr.Opcode)
}

func TestDecodeTruncated(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.program")
	defer teardown()
	//
	s := []Word{MakeWord(GOTO_NE, 'x')} // label word missing
	_, err := DecodeAt(s, 0)
	require.Error(t, err)
	assert.False(t, IsIllegalOpcode(err), "truncation is not an illegal opcode")
}

func TestNewValidatesLabelsAndStates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.program")
	defer teardown()
	//
	good := stream(t, mustEncode(t, GOTO, 1), mustEncode(t, STOP))
	_, err := New(1, 2, nil, [][]Word{good})
	require.NoError(t, err)

	badLabel := stream(t, mustEncode(t, GOTO, 2), mustEncode(t, STOP))
	_, err = New(1, 2, nil, [][]Word{badLabel})
	assert.Error(t, err, "label past the end of the stream")

	badState := stream(t, mustEncode(t, STATE_PUSH, 1), mustEncode(t, STOP))
	_, err = New(1, 2, nil, [][]Word{badState})
	assert.Error(t, err, "push of a missing state")

	badTable := stream(t, mustEncode(t, RIGHT_LOOKUP, 0, 1, 0), mustEncode(t, STOP))
	_, err = New(1, 2, nil, [][]Word{badTable})
	assert.Error(t, err, "lookup of a missing table")

	_, err = New(1, 2, nil, nil)
	assert.Error(t, err, "program without initial state")
}

func TestProgramIsImmutable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.program")
	defer teardown()
	//
	tables := [][]int32{{1, 2, 3}}
	states := [][]Word{mustEncode(t, STOP)}
	p, err := New(1, 2, tables, states)
	require.NoError(t, err)
	tables[0][0] = 99
	states[0][0] = 0
	assert.Equal(t, int32(1), p.TableEntry(0, 0))
	assert.Equal(t, STOP, p.WordAt(0, 0).Opcode())
	t0 := p.Table(0)
	t0[1] = 42
	assert.Equal(t, int32(2), p.TableEntry(0, 1))
}

func TestBinaryRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.program")
	defer teardown()
	//
	s0 := stream(t, mustEncode(t, LEFT_START), mustEncode(t, STATE_PUSH, 1), mustEncode(t, STOP))
	s1 := stream(t, mustEncode(t, STATE_POP), mustEncode(t, STOP))
	p, err := New(1, 2, [][]int32{{0xa0, 0x126, -1}}, [][]Word{s0, s1})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, p))
	assert.Equal(t, 4*p.BinaryLength(), buf.Len())

	q, err := ReadBinary(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.True(t, p.Equal(q), "programs differ after binary round trip")
	length, ok := q.Length()
	assert.True(t, ok)
	assert.Equal(t, p.BinaryLength(), length)
	assert.Equal(t, int32(-1), q.TableEntry(0, 2))
}

func TestBinaryTruncated(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.program")
	defer teardown()
	//
	p := MustNew(1, 1, nil, [][]Word{mustEncode(t, STOP)})
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, p))
	data := buf.Bytes()
	_, err := ReadBinary(bytes.NewReader(data[:len(data)-2]))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestBinaryLengthMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.program")
	defer teardown()
	//
	p := MustNew(1, 1, nil, [][]Word{mustEncode(t, STOP)})
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, p))
	data := buf.Bytes()
	longer := append([]byte{}, data...)
	longer[3]++ // header length word, low byte
	_, err := ReadBinary(bytes.NewReader(longer))
	assert.Error(t, err)
	//
	trailing := bytes.NewBuffer(append([]byte{}, data...))
	trailing.Write([]byte{0, 0, 0, 7, 0, 0, 0, 9})
	_, err = ReadBinary(trailing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data continues")
}

func TestBinaryImplausibleCounts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.program")
	defer teardown()
	//
	header := func(length uint32) []byte {
		return []byte{
			0, 0, 0, byte(length),
			0, 0, 0, 1, // input
			0, 0, 0, 1, // output
			0, 0, 0, 0, // no tables
			0, 0, 0, 1, // one state
			0x03, 0xff, 0xff, 0xff, // state length
		}
	}
	_, err := ReadBinary(bytes.NewReader(header(6)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceed declared length 6")
	// without a declared length the reader runs out of data instead
	_, err = ReadBinary(bytes.NewReader(header(0)))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestOpcodeTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.program")
	defer teardown()
	//
	for op := RIGHT_NUM; op <= STOP; op++ {
		info, ok := Lookup(op)
		if !ok {
			t.Errorf("opcode %d missing from opcode table", op)
			continue
		}
		if info.Mnemonic != op.String() {
			t.Errorf("mnemonic mismatch for opcode %d", op)
		}
	}
	if _, ok := Lookup(STOP + 1); ok {
		t.Errorf("expected opcode %d to be unassigned", STOP+1)
	}
	if MaxMnemonicLength() != len("RIGHT_LOOKUP_SUB") {
		t.Errorf("expected longest mnemonic to be RIGHT_LOOKUP_SUB, is %d chars", MaxMnemonicLength())
	}
}
