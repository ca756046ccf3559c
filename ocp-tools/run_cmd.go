package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/npillmayer/ocp/ocpfont"
	"github.com/npillmayer/ocp/ocpvm"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runRunCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	configure(flags)
	p := mustLoadProgram(args["program"].Value, flags)
	text := args["text"].Value
	if text == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatalf("%v", err)
		}
		text = string(data)
	}
	m := ocpvm.New(p, ocpvm.WithStepLimit(mustFlagInt(flags["steps"], "steps")))
	out, err := m.RunString(text)
	if err != nil {
		fatalf("%v", err)
	}
	if mustFlagBool(flags["codepoints"], "codepoints") {
		fmt.Println(formatCodepoints(out))
		return
	}
	fmt.Print(out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Println()
	}
}

func formatCodepoints(s string) string {
	parts := make([]string, 0, len(s))
	for _, r := range s {
		parts = append(parts, fmt.Sprintf("U+%04X", r))
	}
	return strings.Join(parts, " ")
}

func runCheckCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	configure(flags)
	p := mustLoadProgram(args["program"].Value, flags)
	font, err := ocpfont.LoadFont(strings.TrimSpace(args["font"].Value))
	if err != nil {
		fatalf("%v", err)
	}
	report, err := ocpfont.Coverage(p, font)
	if err != nil {
		fatalf("%v", err)
	}
	if isTerminal(os.Stdout) {
		printCoverageTable(font.Fontname, report)
	} else {
		printCoverage(os.Stdout, report)
	}
	if !report.Covered() {
		os.Exit(2)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printCoverageTable(fontname string, report *ocpfont.Report) {
	pterm.Info.Printf("%s: %d of %d characters present\n", fontname,
		len(report.Chars)-len(report.Missing), len(report.Chars))
	data := [][]string{
		{"Char", "Codepoint", "Advance"},
	}
	for _, ch := range report.Chars {
		adv := "missing"
		if a, ok := report.Advances[ch]; ok {
			adv = fmt.Sprintf("%d", a.Round())
		}
		data = append(data, []string{string(ch), fmt.Sprintf("U+%04X", ch), adv})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// printCoverage lists missing characters one per line, for use in scripts.
func printCoverage(w io.Writer, report *ocpfont.Report) {
	for _, ch := range report.Missing {
		fmt.Fprintf(w, "U+%04X missing\n", ch)
	}
}
