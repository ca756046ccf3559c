/*
Package ocpgo emits compiled OCP programs as Go source.

The generated file declares a single package-level variable holding the
program, rebuilt at init time with program.MustNew. This allows shipping
transliterations inside a binary without reading OCP files at runtime.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ocpgo

import (
	"fmt"
	"go/token"
	"io"

	"github.com/dave/jennifer/jen"
	"github.com/npillmayer/ocp/program"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ocp.tools'
func tracer() tracing.Trace {
	return tracing.Select("ocp.tools")
}

const programPkg = "github.com/npillmayer/ocp/program"

// Config names the generated package and variable.
type Config struct {
	Package string // package clause of the generated file
	Name    string // name of the program variable
	Origin  string // source file name, mentioned in comments; may be empty
}

// Generate writes a Go source file declaring p.
func Generate(w io.Writer, p *program.Program, cfg Config) error {
	if !token.IsIdentifier(cfg.Package) {
		return fmt.Errorf("invalid package name %q", cfg.Package)
	}
	if !token.IsIdentifier(cfg.Name) {
		return fmt.Errorf("invalid variable name %q", cfg.Name)
	}
	f := jen.NewFile(cfg.Package)
	f.ImportName(programPkg, "program")
	origin := ""
	if cfg.Origin != "" {
		origin = " from " + cfg.Origin
	}
	f.HeaderComment(fmt.Sprintf("Code generated by ocp-tools gogen%s. DO NOT EDIT.", origin))
	f.Comment(fmt.Sprintf("%s is a compiled OCP program with %d tables and %d states.",
		cfg.Name, p.TableCount(), p.StateCount()))
	f.Var().Id(cfg.Name).Op("=").Qual(programPkg, "MustNew").Call(
		jen.Lit(p.Input()),
		jen.Lit(p.Output()),
		tables(p),
		states(p),
	)
	tracer().Debugf("generating Go variable %s.%s", cfg.Package, cfg.Name)
	return f.Render(w)
}

var multiline = jen.Options{Open: "{", Close: "}", Separator: ",", Multi: true}

func tables(p *program.Program) jen.Code {
	if p.TableCount() == 0 {
		return jen.Nil()
	}
	var rows []jen.Code
	for i := range p.TableCount() {
		var entries []jen.Code
		for _, e := range p.Table(i) {
			entries = append(entries, jen.Lit(int(e)))
		}
		rows = append(rows, jen.Values(entries...))
	}
	return jen.Index().Index().Int32().Custom(multiline, rows...)
}

func states(p *program.Program) jen.Code {
	var rows []jen.Code
	for s := range p.StateCount() {
		var words []jen.Code
		for _, w := range p.State(s) {
			words = append(words, jen.Id(fmt.Sprintf("0x%08x", uint32(w))))
		}
		rows = append(rows, jen.Values(words...))
	}
	return jen.Index().Index().Qual(programPkg, "Word").Custom(multiline, rows...)
}
