package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/ocp"
	"github.com/npillmayer/ocp/ocpgo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Manifest describes a batch of sources to compile. Paths are relative to
// the manifest's directory.
//
//	encoding: ISO-8859-1
//	output: build
//	units:
//	  - source: greek.otp
//	  - source: dashes.otp
//	    encoding: UTF-8
//	    gogen:
//	      package: translit
//	      name: Dashes
type Manifest struct {
	Encoding string `yaml:"encoding"` // default source encoding
	Output   string `yaml:"output"`   // output directory, default is the manifest's directory
	Units    []Unit `yaml:"units"`
	dir      string
}

// Unit is a single source of a build.
type Unit struct {
	Source   string     `yaml:"source"`
	Encoding string     `yaml:"encoding,omitempty"`
	Binary   string     `yaml:"binary,omitempty"` // output file name, default is source name with .ocp
	Gogen    *GogenUnit `yaml:"gogen,omitempty"`
}

// GogenUnit requests Go source output for a unit.
type GogenUnit struct {
	Package string `yaml:"package"`
	Name    string `yaml:"name"`
	File    string `yaml:"file,omitempty"` // default is source name with .go
}

// Result is the outcome of building one unit.
type Result struct {
	Unit  Unit
	Files []string // files written
	Err   error
}

// LoadManifest reads a YAML build manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	for i, u := range m.Units {
		if strings.TrimSpace(u.Source) == "" {
			return nil, fmt.Errorf("manifest %s: unit %d has no source", path, i)
		}
	}
	m.dir = filepath.Dir(path)
	if m.Output == "" {
		m.Output = "."
	}
	return m, nil
}

// Build compiles all units, at most jobs of them at a time. A failing unit
// does not stop the others; results are in unit order.
func (m *Manifest) Build(ctx context.Context, jobs int) ([]Result, error) {
	outdir := filepath.Join(m.dir, m.Output)
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return nil, err
	}
	results := make([]Result, len(m.Units))
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, u := range m.Units {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Unit: u, Err: err}
				return err
			}
			files, err := m.buildUnit(u, outdir)
			results[i] = Result{Unit: u, Files: files, Err: err}
			if err != nil {
				tracer().Errorf("unit %s: %v", u.Source, err)
			}
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

func (m *Manifest) buildUnit(u Unit, outdir string) ([]string, error) {
	enc := u.Encoding
	if enc == "" {
		enc = m.Encoding
	}
	if strings.EqualFold(enc, "UTF-8") {
		enc = ""
	}
	cu, err := ocp.CompileFile(filepath.Join(m.dir, u.Source), enc)
	if err != nil {
		return nil, err
	}
	bin := u.Binary
	if bin == "" {
		bin = filepath.Base(binaryName(u.Source))
	}
	bin = filepath.Join(outdir, bin)
	if err := ocp.SaveProgram(bin, cu.Program); err != nil {
		return nil, err
	}
	files := []string{bin}
	if u.Gogen == nil {
		return files, nil
	}
	var buf bytes.Buffer
	cfg := ocpgo.Config{Package: u.Gogen.Package, Name: u.Gogen.Name, Origin: filepath.Base(u.Source)}
	if err := ocpgo.Generate(&buf, cu.Program, cfg); err != nil {
		return files, err
	}
	gofile := u.Gogen.File
	if gofile == "" {
		base := filepath.Base(u.Source)
		gofile = strings.TrimSuffix(base, filepath.Ext(base)) + ".go"
	}
	gofile = filepath.Join(outdir, gofile)
	if err := os.WriteFile(gofile, buf.Bytes(), 0o644); err != nil {
		return files, err
	}
	return append(files, gofile), nil
}
