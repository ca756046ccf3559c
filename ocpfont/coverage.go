package ocpfont

import (
	"slices"

	"github.com/npillmayer/ocp/program"
	"golang.org/x/image/math/fixed"
)

// Report is the result of a coverage check.
type Report struct {
	Chars    []rune                 // every literal output character, ascending
	Missing  []rune                 // characters the provider cannot supply, ascending
	Advances map[rune]fixed.Int26_6 // advance widths of the supplied characters
}

// Covered reports whether every literal output character is available.
func (r *Report) Covered() bool {
	return len(r.Missing) == 0
}

// Chars returns the characters p may emit literally, in ascending order.
// Characters are collected from RIGHT_NUM arguments and from all table
// entries.
func Chars(p *program.Program) ([]rune, error) {
	seen := make(map[rune]bool)
	for i := range p.TableCount() {
		for _, e := range p.Table(i) {
			seen[rune(e)] = true
		}
	}
	for s := range p.StateCount() {
		err := program.Walk(p.State(s), func(inst program.Instruction) error {
			if inst.Op == program.RIGHT_NUM {
				seen[rune(inst.Args[0])] = true
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	chars := make([]rune, 0, len(seen))
	for ch := range seen {
		chars = append(chars, ch)
	}
	slices.Sort(chars)
	return chars, nil
}

// Coverage checks the literal output characters of p against a provider.
func Coverage(p *program.Program, provider CharacterProvider) (*Report, error) {
	chars, err := Chars(p)
	if err != nil {
		return nil, err
	}
	r := &Report{Chars: chars, Advances: make(map[rune]fixed.Int26_6)}
	for _, ch := range chars {
		adv, ok := provider.Advance(ch)
		if !ok || !provider.HasChar(ch) {
			r.Missing = append(r.Missing, ch)
			continue
		}
		r.Advances[ch] = adv
	}
	tracer().Debugf("%d output characters, %d missing", len(chars), len(r.Missing))
	return r, nil
}
