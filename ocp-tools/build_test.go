package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/ocp"
	"github.com/npillmayer/ocp/otp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `encoding: UTF-8
output: out
units:
  - source: dashes.otp
    gogen:
      package: translit
      name: Dashes
  - source: broken.otp
  - source: latin1.otp
    encoding: ISO-8859-1
    binary: latin.ocp
`

func writeFiles(t *testing.T, dir string, files map[string][]byte) {
	t.Helper()
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
}

func TestBuildManifest(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.tools")
	defer teardown()
	//
	dashes, err := os.ReadFile("../otp/testdata/dashes.otp")
	require.NoError(t, err)
	latin1, err := os.ReadFile("../otp/testdata/latin1.otp")
	require.NoError(t, err)
	dir := t.TempDir()
	writeFiles(t, dir, map[string][]byte{
		"ocp-build.yaml": []byte(manifest),
		"dashes.otp":     dashes,
		"latin1.otp":     latin1,
		"broken.otp":     []byte("input: 1; output: 1;\nexpressions:\n{NOPE} => `x';"),
	})
	m, err := LoadManifest(filepath.Join(dir, "ocp-build.yaml"))
	require.NoError(t, err)
	require.Len(t, m.Units, 3)
	results, err := m.Build(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	//
	assert.NoError(t, results[0].Err)
	assert.Equal(t, []string{
		filepath.Join(dir, "out", "dashes.ocp"),
		filepath.Join(dir, "out", "dashes.go"),
	}, results[0].Files)
	//
	require.Error(t, results[1].Err)
	kind, ok := otp.KindOf(results[1].Err)
	assert.True(t, ok)
	assert.Equal(t, otp.ReferenceError, kind)
	assert.Empty(t, results[1].Files)
	//
	require.NoError(t, results[2].Err)
	p, err := ocp.LoadProgram(filepath.Join(dir, "out", "latin.ocp"), "")
	require.NoError(t, err)
	u, err := ocp.CompileFile(filepath.Join(dir, "latin1.otp"), "ISO-8859-1")
	require.NoError(t, err)
	assert.True(t, p.Equal(u.Program))
}

func TestLoadManifestErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocp.tools")
	defer teardown()
	//
	dir := t.TempDir()
	writeFiles(t, dir, map[string][]byte{
		"nosource.yaml": []byte("units:\n  - binary: x.ocp\n"),
		"invalid.yaml":  []byte("units: [\n"),
	})
	_, err := LoadManifest(filepath.Join(dir, "nosource.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unit 0 has no source")
	_, err = LoadManifest(filepath.Join(dir, "invalid.yaml"))
	assert.Error(t, err)
	_, err = LoadManifest(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "a/b/greek.ocp", binaryName("a/b/greek.otp"))
	assert.Equal(t, "U+0061 U+2014", formatCodepoints("a—"))
}
