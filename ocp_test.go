package ocp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/ocp/ocpvm"
	"github.com/npillmayer/ocp/otp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.compiler")
	defer teardown()
	//
	u, err := Compile("input: 1; output: 2;\nexpressions:\n`-'`-' => @\"2013;")
	require.NoError(t, err)
	assert.Len(t, u.Source.Rules, 1)
	assert.Len(t, u.Expanded.Rules, 1)
	out, err := ocpvm.New(u.Program).RunString("a--b")
	require.NoError(t, err)
	assert.Equal(t, "a–b", out)
}

func TestCompileErrorKinds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.compiler")
	defer teardown()
	//
	tests := []struct {
		name string
		text string
		kind otp.ErrorKind
	}{
		{"lexical", "input: 1; output: 1;\nexpressions:\n`a => `b';", otp.LexError},
		{"syntax", "input: 1; output: 1;\nexpressions:\n`a' => ;;", otp.ParseError},
		{"alias", "input: 1; output: 1;\nexpressions:\n{X} => `b';", otp.ReferenceError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.text)
			require.Error(t, err)
			kind, ok := otp.KindOf(err)
			require.True(t, ok, "%v", err)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestSaveAndLoadProgram(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.compiler")
	defer teardown()
	//
	u, err := CompileFile("otp/testdata/greek.otp", "")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "greek.ocp")
	require.NoError(t, SaveProgram(path, u.Program))
	p, err := LoadProgram(path, "")
	require.NoError(t, err)
	assert.True(t, p.Equal(u.Program))
	n, declared := p.Length()
	assert.True(t, declared)
	assert.Equal(t, u.Program.BinaryLength(), n)
	//
	q, err := LoadProgram("otp/testdata/greek.otp", "")
	require.NoError(t, err)
	assert.True(t, q.Equal(p))
}

func TestLoadProgramLatin1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.compiler")
	defer teardown()
	//
	p, err := LoadProgram("otp/testdata/latin1.otp", "ISO-8859-1")
	require.NoError(t, err)
	out, err := ocpvm.New(p).RunString("éÆ")
	require.NoError(t, err)
	assert.Equal(t, "é'AE", out)
}

func TestLoadProgramErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.compiler")
	defer teardown()
	//
	_, err := LoadProgram("otp/testdata/missing.otp", "")
	assert.Error(t, err)
	_, err = FromBinary([]byte{0, 0, 0})
	assert.Error(t, err)
	path := filepath.Join(t.TempDir(), "bad.ocp")
	require.NoError(t, os.WriteFile(path, []byte("not a program"), 0o644))
	_, err = LoadProgram(path, "")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), path))
}
