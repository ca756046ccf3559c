/*
Package refcmp cross-validates compiled OCP programs against reference
dumps.

A reference dump is the output of the reference toolchain's dump utility
for an OCP source. The compiled program is dumped in the same format with
ocpdump.RefWriter, and the two texts are compared line by line.
Differences are reported as a unified diff.

Fixtures are JSON files naming a source file, its encoding and the
reference dump, relative to the fixture's directory.

The fixtures bundled in testdata were dumped by this module's own
RefWriter, so the tests over them guard against regressions only. Dumps
taken from the reference toolchain can be dropped in next to them to
cross-validate the compiler.
*/
package refcmp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/npillmayer/ocp"
	"github.com/npillmayer/ocp/ocpdump"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pmezard/go-difflib/difflib"
)

// tracer writes to trace with key 'ocp.tools'
func tracer() tracing.Trace {
	return tracing.Select("ocp.tools")
}

// Fixture pairs an OCP source with its reference dump.
type Fixture struct {
	Source    string `json:"source"`
	Encoding  string `json:"encoding,omitempty"` // IANA name, empty for UTF-8
	Reference string `json:"reference"`
	dir       string
}

// Name is the base name of the fixture's source file.
func (fx Fixture) Name() string {
	return strings.TrimSuffix(filepath.Base(fx.Source), filepath.Ext(fx.Source))
}

func (fx Fixture) validate() error {
	if fx.Source == "" {
		return fmt.Errorf("fixture: source is required")
	}
	if fx.Reference == "" {
		return fmt.Errorf("fixture: reference is required")
	}
	return nil
}

// LoadFixture reads a single fixture file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, err
	}
	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return Fixture{}, err
	}
	if err := fx.validate(); err != nil {
		return Fixture{}, err
	}
	fx.dir = filepath.Dir(path)
	return fx, nil
}

// LoadFixtures reads all *.json fixtures of a directory, sorted by file name.
func LoadFixtures(dir string) ([]Fixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	out := make([]Fixture, 0, len(paths))
	for _, p := range paths {
		fx, err := LoadFixture(p)
		if err != nil {
			return nil, fmt.Errorf("load fixture %s: %w", p, err)
		}
		out = append(out, fx)
	}
	return out, nil
}

// Diff dumps p in reference format and compares the dump with a reference
// text. It returns an empty string if both are equal, a unified diff
// otherwise. refName labels the reference side of the diff.
func Diff(p ocpdump.Listing, reference, refName string) (string, error) {
	var buf bytes.Buffer
	w := ocpdump.NewRefWriter(&buf, ocpdump.EnglishMessages(), ocpdump.DefaultRefConfig())
	if err := w.WriteProgram(p); err != nil {
		return "", err
	}
	got := buf.String()
	if got == reference {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(reference),
		B:        difflib.SplitLines(got),
		FromFile: refName,
		ToFile:   "compiled",
		Context:  2,
	})
}

// Check compiles a fixture's source and compares it with its reference
// dump.
func Check(fx Fixture) (string, error) {
	u, err := ocp.CompileFile(filepath.Join(fx.dir, fx.Source), fx.Encoding)
	if err != nil {
		return "", err
	}
	ref, err := os.ReadFile(filepath.Join(fx.dir, fx.Reference))
	if err != nil {
		return "", err
	}
	diff, err := Diff(u.Program, string(ref), fx.Reference)
	if diff != "" {
		tracer().Infof("%s differs from reference %s", fx.Source, fx.Reference)
	}
	return diff, err
}
