package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runBuildCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	configure(flags)
	m, err := LoadManifest(args["manifest"].Value)
	if err != nil {
		fatalf("%v", err)
	}
	results, err := m.Build(context.Background(), mustFlagInt(flags["jobs"], "jobs"))
	if err != nil {
		fatalf("%v", err)
	}
	data := [][]string{
		{"Source", "Status", "Output"},
	}
	failed := 0
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
			failed++
		}
		data = append(data, []string{r.Unit.Source, status, strings.Join(r.Files, ", ")})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if failed > 0 {
		pterm.Error.Println(fmt.Sprintf("%d of %d units failed", failed, len(results)))
		os.Exit(2)
	}
	pterm.Info.Println(fmt.Sprintf("%d units built", len(results)))
}
