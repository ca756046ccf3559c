package program

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Binary layout of a compiled program. All values are big-endian 32-bit words:
//
//	length                     total number of words, including this one
//	input, output              arities
//	no_tables                  followed by no_tables × (len, entries…)
//	no_states                  followed by no_states × (len, words…)
//
// There is no magic number. The layout mirrors the section structure the
// disassemblers expect and still needs to be validated against binaries of
// the reference toolchain.

// maxSectionWords limits counts read from untrusted data.
const maxSectionWords = 1 << 26

// Sections grow by reading; chunkWords bounds pre-allocation from counts.
const chunkWords = 1 << 10

// WriteBinary serializes p to w.
func WriteBinary(w io.Writer, p *Program) error {
	words := make([]uint32, 0, p.BinaryLength())
	words = append(words, uint32(p.BinaryLength()), uint32(p.input), uint32(p.output))
	words = append(words, uint32(len(p.tables)))
	for _, t := range p.tables {
		words = append(words, uint32(len(t)))
		for _, e := range t {
			words = append(words, uint32(e))
		}
	}
	words = append(words, uint32(len(p.states)))
	for _, s := range p.states {
		words = append(words, uint32(len(s)))
		for _, x := range s {
			words = append(words, uint32(x))
		}
	}
	if err := binary.Write(w, binary.BigEndian, words); err != nil {
		return fmt.Errorf("cannot write OCP binary: %w", err)
	}
	tracer().Debugf("wrote OCP binary of %d words", len(words))
	return nil
}

// ReadBinary reads a program in the layout written by WriteBinary. The
// returned program carries the declared length.
func ReadBinary(r io.Reader) (*Program, error) {
	rd := wordReader{r: r}
	length := rd.next()
	rd.limit = int(length)
	input, output := rd.next(), rd.next()
	var tables [][]int32
	if n := rd.count("tables"); rd.err == nil {
		tables = make([][]int32, 0, min(n, chunkWords))
		for range n {
			l := rd.count("table entries")
			if rd.err != nil {
				break
			}
			t := make([]int32, 0, min(l, chunkWords))
			for range l {
				t = append(t, int32(rd.next()))
			}
			tables = append(tables, t)
		}
	}
	var states [][]Word
	if n := rd.count("states"); rd.err == nil {
		states = make([][]Word, 0, min(n, chunkWords))
		for range n {
			l := rd.count("state words")
			if rd.err != nil {
				break
			}
			s := make([]Word, 0, min(l, chunkWords))
			for range l {
				s = append(s, Word(rd.next()))
			}
			states = append(states, s)
		}
	}
	if rd.err == nil && !rd.atEOF() {
		rd.err = errProgram("header declares %d words, data continues", length)
	}
	if rd.err != nil {
		tracer().Errorf("reading OCP binary: %v", rd.err)
		return nil, rd.err
	}
	if length != 0 && int(length) != rd.n {
		return nil, errProgram("header declares %d words, found %d", length, rd.n)
	}
	p, err := New(int(input), int(output), tables, states)
	if err != nil {
		return nil, err
	}
	return p.WithLength(int(length)), nil
}

// wordReader reads big-endian words and remembers the first error.
type wordReader struct {
	r     io.Reader
	buf   [4]byte
	n     int // words read
	limit int // declared total length, 0 if none
	err   error
}

func (rd *wordReader) next() uint32 {
	if rd.err != nil {
		return 0
	}
	if _, err := io.ReadFull(rd.r, rd.buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			rd.err = fmt.Errorf("%w after %d words", ErrTruncated, rd.n)
		} else {
			rd.err = err
		}
		return 0
	}
	rd.n++
	return binary.BigEndian.Uint32(rd.buf[:])
}

func (rd *wordReader) count(what string) int {
	c := rd.next()
	if rd.err == nil && c > maxSectionWords {
		rd.err = errProgram("implausible number of %s: %d", what, c)
	}
	if rd.err == nil && rd.limit > 0 && int(c) > rd.limit-rd.n {
		rd.err = errProgram("%d %s exceed declared length %d", c, what, rd.limit)
	}
	return int(c)
}

// atEOF reports whether the underlying reader is exhausted.
func (rd *wordReader) atEOF() bool {
	var b [1]byte
	_, err := io.ReadFull(rd.r, b[:])
	if err != nil && err != io.EOF {
		rd.err = err
	}
	return err != nil
}
