package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/ocp"
	"github.com/npillmayer/ocp/program"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/thatisuday/commando"
)

// tracer traces with key 'ocp.tools'
func tracer() tracing.Trace {
	return tracing.Select("ocp.tools")
}

func main() {
	setupTracing()

	commando.
		SetExecutableName("ocp-tools").
		SetVersion("v0.1.0").
		SetDescription("CLI for compiling, inspecting and running OCP programs.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("compile").
		SetDescription("Compile an OCP source (.otp) into a binary program.").
		SetShortDescription("compile a source").
		AddArgument("source", "OCP source file path", "").
		AddFlag("output,o", "output file (default: source name with extension .ocp)", commando.String, "-").
		AddFlag("encoding,e", "source encoding (IANA name, e.g. ISO-8859-1)", commando.String, "UTF-8").
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runCompileCommand)

	commando.
		Register("dump").
		SetDescription("Disassemble a program. Sources are compiled first.").
		SetShortDescription("disassemble a program").
		AddArgument("program", "OCP source or binary program file path", "").
		AddFlag("format,f", "output format: pretty|ref", commando.String, "pretty").
		AddFlag("names,n", "annotate characters with Unicode names (pretty format)", commando.Bool, nil).
		AddFlag("encoding,e", "source encoding (IANA name, e.g. ISO-8859-1)", commando.String, "UTF-8").
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runDumpCommand)

	commando.
		Register("render").
		SetDescription("Print the canonical form of an OCP source, with all aliases resolved.").
		SetShortDescription("canonical source").
		AddArgument("source", "OCP source file path", "").
		AddFlag("encoding,e", "source encoding (IANA name, e.g. ISO-8859-1)", commando.String, "UTF-8").
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runRenderCommand)

	commando.
		Register("run").
		SetDescription("Run a program on text and print the result.").
		SetShortDescription("run a program").
		AddArgument("program", "OCP source or binary program file path", "").
		AddArgument("text", "input text, '-' reads standard input", "-").
		AddFlag("codepoints,c", "print result as codepoints", commando.Bool, nil).
		AddFlag("steps,s", "instruction limit per match (0 uses default)", commando.Int, 0).
		AddFlag("encoding,e", "source encoding (IANA name, e.g. ISO-8859-1)", commando.String, "UTF-8").
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runRunCommand)

	commando.
		Register("check").
		SetDescription("Check that a font supplies every character a program emits literally.").
		SetShortDescription("font coverage").
		AddArgument("program", "OCP source or binary program file path", "").
		AddArgument("font", "OpenType font file path", "").
		AddFlag("encoding,e", "source encoding (IANA name, e.g. ISO-8859-1)", commando.String, "UTF-8").
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runCheckCommand)

	commando.
		Register("gogen").
		SetDescription("Emit a program as Go source.").
		SetShortDescription("Go source").
		AddArgument("program", "OCP source or binary program file path", "").
		AddFlag("package,p", "package name of the generated file", commando.String, "ocpdata").
		AddFlag("name,n", "name of the program variable", commando.String, "Program").
		AddFlag("output,o", "output file ('-' for standard output)", commando.String, "-").
		AddFlag("encoding,e", "source encoding (IANA name, e.g. ISO-8859-1)", commando.String, "UTF-8").
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runGogenCommand)

	commando.
		Register("build").
		SetDescription("Compile all units of a YAML build manifest.").
		SetShortDescription("batch compile").
		AddArgument("manifest", "build manifest file path", "ocp-build.yaml").
		AddFlag("jobs,j", "number of units compiled in parallel", commando.Int, 4).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runBuildCommand)

	commando.
		Register("diff").
		SetDescription("Compare the compiled form of a source with a reference dump.").
		SetShortDescription("reference diff").
		AddArgument("source", "OCP source file path", "").
		AddArgument("reference", "reference dump file path", "").
		AddFlag("encoding,e", "source encoding (IANA name, e.g. ISO-8859-1)", commando.String, "UTF-8").
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runDiffCommand)

	commando.Parse(nil)
}

func setupTracing() {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
		"trace.ocp.tools": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Fprintln(os.Stderr, "ocp-tools: error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

// configure applies flags shared by all commands.
func configure(flags map[string]commando.FlagValue) {
	level := tracing.LevelError
	if mustFlagBool(flags["verbose"], "verbose") {
		level = tracing.LevelDebug
	}
	for _, key := range []string{"ocp.tools", "ocp.source", "ocp.compiler", "ocp.program",
		"ocp.dump", "ocp.vm", "ocp.font"} {
		tracing.Select(key).SetTraceLevel(level)
	}
}

// mustLoadProgram loads a source or a binary program, depending on the file
// extension.
func mustLoadProgram(path string, flags map[string]commando.FlagValue) *program.Program {
	path = strings.TrimSpace(path)
	if path == "" {
		fatalf("program path is required")
	}
	p, err := ocp.LoadProgram(path, encoding(flags))
	if err != nil {
		fatalf("%v", err)
	}
	return p
}

func mustCompile(path string, flags map[string]commando.FlagValue) *ocp.Unit {
	path = strings.TrimSpace(path)
	if path == "" {
		fatalf("source path is required")
	}
	u, err := ocp.CompileFile(path, encoding(flags))
	if err != nil {
		fatalf("%v", err)
	}
	return u
}

func encoding(flags map[string]commando.FlagValue) string {
	enc := mustFlagString(flags["encoding"], "encoding")
	if strings.EqualFold(enc, "UTF-8") {
		return ""
	}
	return enc
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return s
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "ocp-tools: "+format+"\n", args...)
	os.Exit(1)
}
