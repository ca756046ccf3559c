package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/ocp/ocpdump"
	"github.com/npillmayer/ocp/otp"
	"github.com/pterm/pterm"
)

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

func loadOp(intp *Intp, op *Op) (error, bool) {
	if op.noArg() {
		return fmt.Errorf("usage: load:<file>"), false
	}
	return intp.load(strings.TrimSpace(op.arg)), false
}

func encodingOp(intp *Intp, op *Op) (error, bool) {
	intp.encoding = strings.TrimSpace(op.arg)
	if intp.encoding == "" {
		pterm.Printf("sources are read as UTF-8\n")
	} else {
		pterm.Printf("sources are read as %s\n", intp.encoding)
	}
	return nil, false
}

func runOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkProgram(); err != nil {
		return err, false
	}
	out, err := intp.machine.RunString(op.arg)
	if err != nil {
		return err, false
	}
	pterm.Printf("%s\n", out)
	if out != op.arg {
		tracer().Infof("%d characters in, %d out", len([]rune(op.arg)), len([]rune(out)))
	}
	return nil, false
}

func statesOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkProgram(); err != nil {
		return err, false
	}
	data := [][]string{
		{"Index", "Name", "Words"},
	}
	for s := range intp.prog.StateCount() {
		name := ocpdump.StateName(s)
		if intp.unit != nil {
			name = intp.unit.Source.StateNames()[s]
		}
		data = append(data, []string{fmt.Sprintf("%d", s), name, fmt.Sprintf("%d", intp.prog.StateLen(s))})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func tablesOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkProgram(); err != nil {
		return err, false
	}
	if intp.prog.TableCount() == 0 {
		pterm.Printf("program has no tables\n")
		return nil, false
	}
	data := [][]string{
		{"Index", "Name", "Entries", "First"},
	}
	for i := range intp.prog.TableCount() {
		name := "-"
		if intp.unit != nil {
			name = intp.unit.Source.Tables[i].Name
		}
		first := "-"
		if t := intp.prog.Table(i); len(t) > 0 {
			first = otp.FormatValue(t[0])
		}
		data = append(data, []string{fmt.Sprintf("%d", i), name,
			fmt.Sprintf("%d", intp.prog.TableLen(i)), first})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func dumpOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkProgram(); err != nil {
		return err, false
	}
	msgs := ocpdump.EnglishMessages()
	switch format := strings.TrimSpace(op.arg); format {
	case "", "pretty":
		return ocpdump.NewPrettyWriter(os.Stdout, msgs, ocpdump.WithCharNames(true)).WriteProgram(intp.prog), false
	case "ref":
		return ocpdump.NewRefWriter(os.Stdout, msgs, ocpdump.DefaultRefConfig()).WriteProgram(intp.prog), false
	default:
		return fmt.Errorf("unknown dump format %q", format), false
	}
}

func renderOp(intp *Intp, op *Op) (error, bool) {
	x, err := intp.checkSource()
	if err != nil {
		return err, false
	}
	text, err := otp.RenderString(x)
	if err != nil {
		return err, false
	}
	pterm.Println(text)
	return nil, false
}
