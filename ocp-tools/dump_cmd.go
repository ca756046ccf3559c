package main

import (
	"os"

	"github.com/npillmayer/ocp/internal/refcmp"
	"github.com/npillmayer/ocp/ocpdump"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runDumpCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	configure(flags)
	p := mustLoadProgram(args["program"].Value, flags)
	msgs := ocpdump.EnglishMessages()
	var err error
	switch format := mustFlagString(flags["format"], "format"); format {
	case "pretty":
		names := mustFlagBool(flags["names"], "names")
		err = ocpdump.NewPrettyWriter(os.Stdout, msgs, ocpdump.WithCharNames(names)).WriteProgram(p)
	case "ref":
		err = ocpdump.NewRefWriter(os.Stdout, msgs, ocpdump.DefaultRefConfig()).WriteProgram(p)
	default:
		fatalf("invalid format %q (expected pretty|ref)", format)
	}
	if err != nil {
		fatalf("%v", err)
	}
}

func runDiffCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	configure(flags)
	u := mustCompile(args["source"].Value, flags)
	refPath := args["reference"].Value
	ref, err := os.ReadFile(refPath)
	if err != nil {
		fatalf("%v", err)
	}
	diff, err := refcmp.Diff(u.Program, string(ref), refPath)
	if err != nil {
		fatalf("%v", err)
	}
	if diff == "" {
		pterm.Info.Println("compiled program matches " + refPath)
		return
	}
	pterm.Println(diff)
	pterm.Error.Println("compiled program differs from " + refPath)
	os.Exit(2)
}
