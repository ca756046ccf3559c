package otp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expandSource(t *testing.T, text string) *Expanded {
	t.Helper()
	src, err := Parse(text)
	require.NoError(t, err)
	x, err := Expand(src)
	require.NoError(t, err)
	return x
}

func single(lo, hi rune) Class {
	return Class{Ranges: []Range{{Lo: lo, Hi: hi}}}
}

func TestExpandReversedAlternationsAreEqual(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	x := expandSource(t, header+"A = (`x' | `y'); B = (`y' | `x');\nexpressions:\n{A} => 1; {B} => 2;")
	require.Len(t, x.Aliases, 2)
	want := []Class{{Ranges: []Range{{Lo: 'x', Hi: 'x'}, {Lo: 'y', Hi: 'y'}}}}
	assert.Equal(t, want, x.Aliases[0])
	assert.Equal(t, want, x.Aliases[1])
	assert.Equal(t, x.Source.Aliases[0].Pattern, x.Source.Aliases[1].Pattern,
		"normalized alternations should be identical")
	assert.Equal(t, x.Rules[0].Pattern, x.Rules[1].Pattern)
}

func TestExpandDoesNotMutateSource(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	src, err := Parse(header + "B = (`y' | `x');\nexpressions:\n`a' `b' => \\*;")
	require.NoError(t, err)
	members := src.Aliases[0].Pattern[0].(Alternation).Members
	_, err = Expand(src)
	require.NoError(t, err)
	assert.Equal(t, Literal{Char: 'y'}, members[0])
	assert.Equal(t, BackRef{Index: AllChars}, src.Rules[0].Output[0])
}

func TestExpandNeverMergesRanges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	x := expandSource(t, header+"expressions:\n(`d'-`f' | `a'-`e' | `a'-`c' | `b' | `b') => 1;")
	assert.Equal(t, []Range{
		{Lo: 'a', Hi: 'c'}, {Lo: 'a', Hi: 'e'}, {Lo: 'b', Hi: 'b'}, {Lo: 'b', Hi: 'b'}, {Lo: 'd', Hi: 'f'},
	}, x.Rules[0].Pattern[0].Ranges)
}

func TestExpandNestedAliases(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	x := expandSource(t, header+`
		PAIR = {DIGIT} {DIGIT};
		DIGIT = `+"`0'-`9'"+`;
		HEX = ({DIGIT} | `+"`a'-`f'"+`);
		expressions:
		{PAIR} ^{HEX} => \$ <= {DIGIT};`)
	assert.Equal(t, []Class{single('0', '9'), single('0', '9')}, x.Aliases[0])
	assert.Equal(t, []Class{{Ranges: []Range{{Lo: '0', Hi: '9'}, {Lo: 'a', Hi: 'f'}}}}, x.Aliases[2])
	r := x.Rules[0]
	require.Len(t, r.Pattern, 3)
	assert.True(t, r.Pattern[2].Negated)
	assert.False(t, r.Pattern[2].Matches('5'))
	assert.True(t, r.Pattern[2].Matches('x'))
	assert.Equal(t, []Class{single('0', '9')}, r.Context)
	assert.Equal(t, []OutputItem{BackRef{Index: 3}}, r.Rule.Output)
}

func TestExpandIsIndependentOfAliasOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	rules := "expressions:\n{C} => \\*;\n"
	x1 := expandSource(t, header+"A = `a'; B = ({A} | `b'); C = {B} {A};\n"+rules)
	x2 := expandSource(t, header+"C = {B} {A}; B = ({A} | `b'); A = `a';\n"+rules)
	ignorePos := cmpopts.IgnoreTypes(Position{})
	if diff := cmp.Diff(x1.Rules, x2.Rules, ignorePos); diff != "" {
		t.Errorf("expanded rules depend on alias order (-first +second):\n%s", diff)
	}
	assert.Equal(t, x1.Aliases[2], x2.Aliases[0], "C")
	assert.Equal(t, x1.Aliases[0], x2.Aliases[2], "A")
}

func TestExpandDesugarsBackReferences(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	x := expandSource(t, header+"W = `a' `b';\nexpressions:\n{W} `c' => \\* \\$ #(\\3 + 1);")
	assert.Equal(t, []OutputItem{
		BackRef{Index: 1}, BackRef{Index: 2}, BackRef{Index: 3}, BackRef{Index: 3},
		Arithmetic{Ref: 3, Op: Add, Offset: 1},
	}, x.Rules[0].Rule.Output)
}

func TestExpandErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
		msg   string
	}{
		{"unknown alias in rule", "expressions: {X} => 1;", ReferenceError, "unknown alias X"},
		{"unknown alias in alias", "A = {X}; expressions:", ReferenceError, "unknown alias X"},
		{"unknown alias in context", "expressions: `a' => 1 <= {X};", ReferenceError, "unknown alias X"},
		{"self reference", "A = {A}; expressions:", CycleError, "A -> A"},
		{"cycle", "X = `x'; A = {B}; B = `b' {C}; C = ({A} | `c'); expressions:", CycleError, "A -> B -> C -> A"},
		{"multi-position alias in alternation", "P = `a' `b'; expressions: ({P} | `c') => 1;", CodegenError, "spans 2 characters"},
		{"multi-position alias negated", "P = `a' `b'; expressions: ^{P} => 1;", CodegenError, "cannot negate"},
		{"negation in alternation", "expressions: (^`a' | `b') => 1;", CodegenError, "too complex"},
		{"back-reference beyond pattern", "expressions: `a' `b' => \\3;", ParseError, "exceeds pattern length 2"},
		{"arithmetic beyond pattern", "expressions: `a' => #(\\2 + 1);", ParseError, "exceeds pattern length 1"},
		{"lookup beyond pattern", "T[1] = {0}; expressions: `a' => #T[\\2];", ParseError, "exceeds pattern length 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Parse(header + tt.input)
			require.NoError(t, err)
			_, err = Expand(src)
			require.Error(t, err)
			kind, ok := KindOf(err)
			require.True(t, ok, "expected an OCP error, got %v", err)
			assert.Equal(t, tt.kind, kind, "error is %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestClassMatches(t *testing.T) {
	c := Class{Ranges: []Range{{Lo: 'a', Hi: 'c'}, {Lo: 'x', Hi: 'x'}}}
	assert.True(t, c.Matches('b'))
	assert.True(t, c.Matches('x'))
	assert.False(t, c.Matches('d'))
	c.Negated = true
	assert.False(t, c.Matches('b'))
	assert.True(t, c.Matches('d'))
	assert.Equal(t, "^[61-63 78]", c.String())
}
