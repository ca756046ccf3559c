package otp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestRenderEmDash(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	x := expandSource(t, "input: 1; output: 2;\nstates: VERBATIM;\nexpressions:\n`-'`-'`-' => @\"2014;")
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, x))
	assert.Equal(t, "input:  1;\n"+
		"output:  2;\n"+
		"states:\n"+
		"  VERBATIM;\n"+
		"expressions:\n"+
		"  `-' `-' `-' => @\"2014;\n"+
		"\n", buf.String())
}

func TestRenderTableWrapping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	x := expandSource(t, header+"tables: T[10] = { @\"00A0, @\"0126, @\"02D8, @\"00A3, @\"00A4,\n"+
		"@\"0000, @\"0124, @\"00A7, @\"00A8, 48 };\nexpressions:")
	s, err := RenderString(x)
	require.NoError(t, err)
	assert.Equal(t, "input:  1;\n"+
		"output:  2;\n"+
		"tables:\n"+
		"  T[@\"a] = {\n"+
		"    @\"00a0, @\"0126, @\"02d8, @\"00a3, @\"00a4, @\"0000, @\"0124, @\"00a7,\n"+
		"    @\"00a8, @\"0030\n"+
		"  };\n"+
		"expressions:\n"+
		"\n", s)
}

func TestRenderTableOfFullLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	x := expandSource(t, header+"T[8] = {1,2,3,4,5,6,7,8};\nexpressions:")
	s, err := RenderString(x)
	require.NoError(t, err)
	assert.Contains(t, s, "    @\"0001, @\"0002, @\"0003, @\"0004, @\"0005, @\"0006, @\"0007, @\"0008\n  };\n")
}

func TestRenderOutputItems(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.source")
	defer teardown()
	//
	x := expandSource(t, header+"states: S; T[1] = {0};\nexpressions:\n"+
		"<S> `a' ` ' end: => #(\\1 - @\"20) #T[\\2] #T[\\2 - 0] 10 <S>;\n"+
		"`b' => <= ^(`c' | `a') <push: S>;\n")
	s, err := RenderString(x)
	require.NoError(t, err)
	assert.Contains(t, s, "  <S> `a' @\"0020 end: => #(\\1 - 32) #T[\\2] #T[\\2 - 0] @\"000a <S>;\n")
	assert.Contains(t, s, "  `b' => <= ^(`a' | `c') <push: S>;\n")
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    int32
		want string
	}{
		{'!', "`!'"}, {'~', "`~'"}, {' ', `@"0020`}, {0x7f, `@"007f`},
		{'\'', "`''"}, {0x2014, `@"2014`}, {0x1f600, `@"1f600`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.v))
	}
}

// --- Round trips over sample sources ---------------------------------------

type RoundTripSuite struct {
	suite.Suite
	teardown func()
}

func TestRoundTrip(t *testing.T) {
	suite.Run(t, new(RoundTripSuite))
}

func (s *RoundTripSuite) SetupSuite() {
	s.teardown = gotestingadapter.QuickConfig(s.T(), "ocp.source")
}

func (s *RoundTripSuite) TearDownSuite() {
	s.teardown()
}

func (s *RoundTripSuite) load(name string) *Expanded {
	data, err := os.ReadFile(filepath.Join("testdata", name))
	s.Require().NoError(err)
	src, err := Parse(string(data))
	s.Require().NoError(err, name)
	x, err := Expand(src)
	s.Require().NoError(err, name)
	return x
}

func (s *RoundTripSuite) TestGolden() {
	for _, name := range []string{"dashes", "greek"} {
		x := s.load(name + ".otp")
		text, err := RenderString(x)
		s.Require().NoError(err)
		golden, err := os.ReadFile(filepath.Join("testdata", name+".golden"))
		s.Require().NoError(err)
		s.Equal(string(golden), text, name)
	}
}

func (s *RoundTripSuite) TestIdempotence() {
	for _, name := range []string{"dashes.otp", "greek.otp"} {
		x := s.load(name)
		first, err := RenderString(x)
		s.Require().NoError(err)
		src, err := Parse(first)
		s.Require().NoError(err, "re-parsing rendered %s", name)
		y, err := Expand(src)
		s.Require().NoError(err)
		second, err := RenderString(y)
		s.Require().NoError(err)
		s.Equal(first, second, "rendering %s is not idempotent", name)
		if diff := cmp.Diff(x, y, cmpopts.IgnoreTypes(Position{})); diff != "" {
			s.Failf("expanded models differ", "%s (-original +re-parsed):\n%s", name, diff)
		}
	}
}

func (s *RoundTripSuite) TestLatin1() {
	f, err := os.Open(filepath.Join("testdata", "latin1.otp"))
	s.Require().NoError(err)
	defer f.Close()
	src, err := ParseReader(f, "latin1")
	s.Require().NoError(err)
	x, err := Expand(src)
	s.Require().NoError(err)
	text, err := RenderString(x)
	s.Require().NoError(err)
	s.True(strings.HasSuffix(text, "expressions:\n  @\"00e9 => @\"00e9 `'';\n  @\"00c6 => `A' `E';\n\n"), text)
}
