package otp

import (
	"os"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "input: 1; output: 2;\n"

func TestParseDeclarations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	src, err := Parse(header + `
		aliases: V = (` + "`a' | `e'" + `);
		states: A, B;
		tables: T[3] = { 1, @"2, ` + "`c'" + ` };
		W = {V} @"300;
		expressions:`)
	require.NoError(t, err)
	assert.Equal(t, 1, src.Input)
	assert.Equal(t, 2, src.Output)
	assert.Equal(t, []string{"A", "B"}, src.States)
	assert.Equal(t, []string{"INITIAL", "A", "B"}, src.StateNames())
	require.Len(t, src.Aliases, 2)
	assert.Equal(t, "W", src.Aliases[1].Name)
	assert.Equal(t, Pattern{AliasRef{Name: "V", Pos: Position{Line: 6, Column: 8}}, Literal{Char: 0x300}},
		src.Aliases[1].Pattern)
	require.Len(t, src.Tables, 1)
	assert.Equal(t, []int32{1, 2, 'c'}, src.Tables[0].Entries)
	assert.Empty(t, src.Rules)
	//
	i, ok := src.StateIndex("B")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	i, ok = src.StateIndex(InitialState)
	assert.True(t, ok)
	assert.Equal(t, 0, i)
	_, ok = src.TableIndex("X")
	assert.False(t, ok)
}

func TestParseRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	src, err := Parse(header + "states: S; tables: T[1] = {0};\nexpressions:\n" +
		"<S> `a'-`z' ^`x' (`1' | `2') end: => 65 \\2 \\$ \\* #(\\1 - 3) #T[\\1] #T[\\2 + @\"a] <pop:>;\n" +
		"`b' => <= `c' <S>;\n")
	require.NoError(t, err)
	require.Len(t, src.Rules, 2)
	r := src.Rules[0]
	assert.Equal(t, "S", r.Guard)
	assert.True(t, r.AtEnd)
	assert.Equal(t, Position{Line: 4, Column: 1}, r.Pos)
	assert.Equal(t, Pattern{
		Range{Lo: 'a', Hi: 'z'},
		Negated{Item: Literal{Char: 'x'}},
		Alternation{Members: []PatternItem{Literal{Char: '1'}, Literal{Char: '2'}}, Pos: Position{Line: 4, Column: 18}},
	}, r.Pattern)
	require.Len(t, r.Output, 7)
	assert.Equal(t, Emit{Value: 65}, r.Output[0])
	assert.Equal(t, BackRef{Index: 2}, r.Output[1])
	assert.Equal(t, BackRef{Index: LastChar}, r.Output[2])
	assert.Equal(t, BackRef{Index: AllChars}, r.Output[3])
	assert.Equal(t, Arithmetic{Ref: 1, Op: Sub, Offset: 3}, r.Output[4])
	assert.Equal(t, "T", r.Output[5].(TableLookup).Table)
	lookup := r.Output[6].(TableLookup)
	assert.Equal(t, 2, lookup.Ref)
	assert.Equal(t, Add, lookup.Op)
	assert.Equal(t, int32(10), lookup.Offset)
	assert.Equal(t, Transition{Kind: PopState}, r.Transition)
	//
	r = src.Rules[1]
	assert.Empty(t, r.Guard)
	assert.Empty(t, r.Output)
	assert.Equal(t, Pattern{Literal{Char: 'c'}}, r.Context)
	assert.Equal(t, Transition{Kind: ChangeState, State: "S"}, r.Transition)
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
		msg   string
	}{
		{"missing arity", "output: 2; expressions:", ParseError, "expected 'input'"},
		{"missing expressions", header, ParseError, "expected a declaration"},
		{"duplicate state", header + "states: A, A; expressions:", ParseError, "duplicate state A"},
		{"INITIAL redeclared", header + "states: INITIAL; expressions:", ParseError, "duplicate state"},
		{"duplicate alias", header + "X = 1; X = 2; expressions:", ParseError, "duplicate alias X"},
		{"duplicate table", header + "T[1] = {1}; T[1] = {2}; expressions:", ParseError, "duplicate table T"},
		{"table size", header + "T[3] = {1, 2}; expressions:", ParseError, "declares 3 entries, has 2"},
		{"empty range", header + "expressions: `z'-`a' => 1;", ParseError, "empty range"},
		{"empty pattern", header + "expressions: => 1;", ParseError, "expected a pattern"},
		{"missing semicolon", header + "expressions: `a' => 1", ParseError, "expected ';'"},
		{"end with context", header + "expressions: `a' end: => 1 <= `b';", ParseError, "cannot have a context"},
		{"back-reference zero", header + "expressions: `a' => \\0;", ParseError, "count from 1"},
		{"unknown guard", header + "expressions: <S> `a' => 1;", ReferenceError, "unknown state S"},
		{"unknown push", header + "expressions: `a' => <push: S>;", ReferenceError, "unknown state S"},
		{"unknown table", header + "expressions: `a' => #T[\\1];", ReferenceError, "unknown table T"},
		{"bad transition", header + "expressions: `a' => <1>;", ParseError, "expected 'push', 'pop'"},
		{"lex error", header + "expressions: `a => 1;", LexError, "unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			kind, ok := KindOf(err)
			require.True(t, ok, "expected an OCP error, got %v", err)
			assert.Equal(t, tt.kind, kind, "error is %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	_, err := Parse(header + "expressions:\n  `a' => 1;\n  `b' => 2 3 ]")
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, Position{Line: 4, Column: 14}, e.Pos)
	assert.Equal(t, "OCP parse error at 4:14: unexpected ']', expected an output item or ';'", e.Error())
}

func TestParseTestdata(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	for _, name := range []string{"dashes", "greek"} {
		f, err := os.Open("testdata/" + name + ".otp")
		require.NoError(t, err)
		src, err := ParseReader(f, "")
		f.Close()
		require.NoError(t, err, name)
		assert.NotEmpty(t, src.Rules, name)
	}
}

func TestParseLatin1Source(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	f, err := os.Open("testdata/latin1.otp")
	require.NoError(t, err)
	defer f.Close()
	src, err := ParseReader(f, "ISO-8859-1")
	require.NoError(t, err)
	require.Len(t, src.Rules, 2)
	assert.Equal(t, Pattern{Literal{Char: 'é'}}, src.Rules[0].Pattern)
	assert.Equal(t, Pattern{Literal{Char: 'Æ'}}, src.Rules[1].Pattern)
}

func TestDecodeSource(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	text, err := DecodeSource(strings.NewReader("caf\xe9"), "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, "café", text)
	text, err = DecodeSource(strings.NewReader("café"), "")
	require.NoError(t, err)
	assert.Equal(t, "café", text)
	_, err = DecodeSource(strings.NewReader("x"), "no-such-charset")
	assert.Error(t, err)
}
