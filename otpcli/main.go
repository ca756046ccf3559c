package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/ocp"
	"github.com/npillmayer/ocp/ocpvm"
	"github.com/npillmayer/ocp/otp"
	"github.com/npillmayer/ocp/program"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'ocp.tools'
func tracer() tracing.Trace {
	return tracing.Select("ocp.tools")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
		"trace.ocp.tools": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	progname := flag.String("program", "", "OCP source or binary program to load")
	encoding := flag.String("encoding", "", "Encoding of OCP sources (IANA name)")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the OCP CLI")
	//
	// set up REPL
	repl, err := readline.New("ocp > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl, encoding: *encoding}
	//
	// load program to use
	if *progname != "" {
		if err := intp.load(*progname); err != nil {
			tracer().Errorf(err.Error())
			os.Exit(4)
		}
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	repl     *readline.Instance
	encoding string    // encoding of sources
	name     string    // base name of the loaded file
	unit     *ocp.Unit // set if a source has been loaded
	prog     *program.Program
	machine  *ocpvm.Machine
}

func (intp *Intp) String() string {
	if intp == nil || intp.prog == nil {
		return "()"
	}
	return fmt.Sprintf("( %s: %d tables, %d states )", intp.name,
		intp.prog.TableCount(), intp.prog.StateCount())
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd := parseCommand(line)
		err, quit := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// --- Program Loading --------------------------------------------------

func (intp *Intp) load(path string) error {
	var err error
	intp.unit = nil
	if strings.EqualFold(filepath.Ext(path), ocp.SourceExt) {
		intp.unit, err = ocp.CompileFile(path, intp.encoding)
		if err == nil {
			intp.prog = intp.unit.Program
		}
	} else {
		intp.prog, err = ocp.LoadProgram(path, intp.encoding)
	}
	if err != nil {
		intp.prog, intp.machine = nil, nil
		return err
	}
	intp.name = filepath.Base(path)
	intp.machine = ocpvm.New(intp.prog)
	tracer().Infof("loaded OCP program %s", intp.name)
	return nil
}

// ----------------------------------------------------------------------

var errNoProgram = errors.New("no program loaded")
var errNoSource = errors.New("program has not been loaded from a source")

func (intp *Intp) checkProgram() error {
	if intp.prog == nil {
		return errNoProgram
	}
	return nil
}

func (intp *Intp) checkSource() (*otp.Expanded, error) {
	if err := intp.checkProgram(); err != nil {
		return nil, err
	}
	if intp.unit == nil {
		return nil, errNoSource
	}
	return intp.unit.Expanded, nil
}
