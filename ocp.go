package ocp

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/ocp/otp"
	"github.com/npillmayer/ocp/otpc"
	"github.com/npillmayer/ocp/program"
)

// SourceExt is the file extension of OCP sources. Files with other
// extensions are taken to be binary programs.
const SourceExt = ".otp"

// Unit is a compiled source together with its intermediate models.
type Unit struct {
	Source   *otp.Source
	Expanded *otp.Expanded
	Program  *program.Program
}

// Compile parses, expands and compiles OCP source text.
func Compile(text string) (*Unit, error) {
	src, err := otp.Parse(text)
	if err != nil {
		return nil, err
	}
	return compile(src)
}

// CompileReader reads and compiles an OCP source. encoding is an IANA charset
// name, an empty string denotes UTF-8.
func CompileReader(r io.Reader, encoding string) (*Unit, error) {
	src, err := otp.ParseReader(r, encoding)
	if err != nil {
		return nil, err
	}
	return compile(src)
}

// CompileFile reads and compiles an OCP source file.
func CompileFile(path, encoding string) (*Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	u, err := CompileReader(f, encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tracer().Debugf("compiled %s", path)
	return u, nil
}

func compile(src *otp.Source) (*Unit, error) {
	x, err := otp.Expand(src)
	if err != nil {
		return nil, err
	}
	p, err := otpc.Compile(x)
	if err != nil {
		return nil, err
	}
	return &Unit{Source: src, Expanded: x, Program: p}, nil
}

// LoadProgram loads a program from a file. Sources (see SourceExt) are
// compiled, other files are read as binary programs.
func LoadProgram(path, encoding string) (*program.Program, error) {
	if strings.EqualFold(filepath.Ext(path), SourceExt) {
		u, err := CompileFile(path, encoding)
		if err != nil {
			return nil, err
		}
		return u.Program, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := FromBinary(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// FromBinary decodes a program from its binary container.
func FromBinary(data []byte) (*program.Program, error) {
	return program.ReadBinary(bytes.NewReader(data))
}

// SaveProgram writes the binary container of p to a file.
func SaveProgram(path string, p *program.Program) error {
	var buf bytes.Buffer
	if err := program.WriteBinary(&buf, p); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
