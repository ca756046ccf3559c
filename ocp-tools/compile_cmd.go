package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/ocp"
	"github.com/npillmayer/ocp/ocpgo"
	"github.com/npillmayer/ocp/otp"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runCompileCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	configure(flags)
	source := strings.TrimSpace(args["source"].Value)
	u := mustCompile(source, flags)
	out := mustFlagString(flags["output"], "output")
	if out == "-" {
		out = binaryName(source)
	}
	if err := ocp.SaveProgram(out, u.Program); err != nil {
		fatalf("%v", err)
	}
	pterm.Info.Println("wrote " + out)
	pterm.Printf("%d tables, %d states, %d words\n",
		u.Program.TableCount(), u.Program.StateCount(), u.Program.BinaryLength())
}

// binaryName replaces the extension of a source file name by .ocp.
func binaryName(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".ocp"
}

func runRenderCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	configure(flags)
	u := mustCompile(args["source"].Value, flags)
	w := bufio.NewWriter(os.Stdout)
	if err := otp.Render(w, u.Expanded); err != nil {
		fatalf("%v", err)
	}
	if err := w.Flush(); err != nil {
		fatalf("%v", err)
	}
}

func runGogenCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	configure(flags)
	path := strings.TrimSpace(args["program"].Value)
	p := mustLoadProgram(path, flags)
	cfg := ocpgo.Config{
		Package: mustFlagString(flags["package"], "package"),
		Name:    mustFlagString(flags["name"], "name"),
		Origin:  filepath.Base(path),
	}
	out := mustFlagString(flags["output"], "output")
	if out == "-" {
		if err := ocpgo.Generate(os.Stdout, p, cfg); err != nil {
			fatalf("%v", err)
		}
		return
	}
	f, err := os.Create(out)
	if err != nil {
		fatalf("%v", err)
	}
	err = ocpgo.Generate(f, p, cfg)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fatalf("%v", err)
	}
	pterm.Info.Println("wrote " + out)
}
