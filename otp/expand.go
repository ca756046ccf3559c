package otp

import (
	"fmt"
	"slices"
	"strings"
)

// Class is the set of characters matched at one pattern position: a list of
// ranges in ascending order, possibly negated. Ranges are neither merged nor
// deduplicated.
type Class struct {
	Ranges  []Range
	Negated bool
}

// Matches reports whether a character belongs to the class.
func (c Class) Matches(ch rune) bool {
	in := slices.ContainsFunc(c.Ranges, func(r Range) bool { return r.Contains(ch) })
	return in != c.Negated
}

func (c Class) String() string {
	var sb strings.Builder
	if c.Negated {
		sb.WriteByte('^')
	}
	sb.WriteByte('[')
	for i, r := range c.Ranges {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if r.Lo == r.Hi {
			fmt.Fprintf(&sb, "%x", r.Lo)
		} else {
			fmt.Fprintf(&sb, "%x-%x", r.Lo, r.Hi)
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func cloneClasses(cls []Class) []Class {
	c := make([]Class, len(cls))
	for i, cl := range cls {
		c[i] = Class{Ranges: slices.Clone(cl.Ranges), Negated: cl.Negated}
	}
	return c
}

// ExpandedRule is a rule together with the character classes of its pattern
// and its context.
type ExpandedRule struct {
	Rule    *Rule   // normalized rule, back-references resolved
	Pattern []Class // one class per consumed character
	Context []Class // one class per context character
}

// Expanded is a source model with all aliases resolved. Source is a
// normalized copy of the parsed source: alternation members are ordered by
// ascending character value and back-references of the forms \$ and \* are
// replaced by explicit indices. Aliases[i] holds the classes of
// Source.Aliases[i].
type Expanded struct {
	Source  *Source
	Aliases [][]Class
	Rules   []ExpandedRule
}

// Expand resolves every alias reference of a source.
//
// It builds the dependency graph between aliases and sorts it topologically,
// rejecting cycles before any expansion takes place. Aliases are then
// expanded bottom-up, each exactly once, and the results are shared by all
// references. The result does not depend on the order in which aliases are
// declared. src is not modified.
func Expand(src *Source) (*Expanded, error) {
	x := &expander{
		src:     src,
		index:   make(map[string]int, len(src.Aliases)),
		classes: make([][]Class, len(src.Aliases)),
	}
	for i, a := range src.Aliases {
		x.index[a.Name] = i
	}
	deps, err := x.dependencies()
	if err != nil {
		return nil, err
	}
	order, err := x.topoSort(deps)
	if err != nil {
		return nil, err
	}
	result := &Expanded{
		Source: &Source{
			Input:   src.Input,
			Output:  src.Output,
			States:  slices.Clone(src.States),
			Aliases: make([]*Alias, len(src.Aliases)),
			Tables:  make([]*Table, len(src.Tables)),
			Rules:   make([]*Rule, 0, len(src.Rules)),
		},
		Aliases: x.classes,
	}
	for _, i := range order {
		a := src.Aliases[i]
		pat, cls, err := x.pattern(a.Pattern, a.Pos)
		if err != nil {
			return nil, err
		}
		x.classes[i] = cls
		result.Source.Aliases[i] = &Alias{Name: a.Name, Pattern: pat, Pos: a.Pos}
		tracer().Debugf("alias %s expands to %v", a.Name, cls)
	}
	for i, t := range src.Tables {
		result.Source.Tables[i] = &Table{Name: t.Name, Entries: slices.Clone(t.Entries), Pos: t.Pos}
	}
	for _, r := range src.Rules {
		xr, err := x.rule(r)
		if err != nil {
			return nil, err
		}
		result.Rules = append(result.Rules, xr)
		result.Source.Rules = append(result.Source.Rules, xr.Rule)
	}
	return result, nil
}

type expander struct {
	src     *Source
	index   map[string]int // alias name → alias index
	classes [][]Class      // expanded aliases, by alias index
}

// dependencies returns, for every alias, the indices of the aliases it refers
// to.
func (x *expander) dependencies() ([][]int, error) {
	deps := make([][]int, len(x.src.Aliases))
	for i, a := range x.src.Aliases {
		var err error
		walkAliasRefs(a.Pattern, func(ref AliasRef) bool {
			j, ok := x.index[ref.Name]
			if !ok {
				err = errorf(ReferenceError, ref.Pos, "unknown alias %s", ref.Name)
				return false
			}
			deps[i] = append(deps[i], j)
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return deps, nil
}

// topoSort orders aliases such that every alias comes after the aliases it
// depends on. Ties are broken by declaration order. A cycle is reported with
// its members in reference order.
func (x *expander) topoSort(deps [][]int) ([]int, error) {
	const (
		unvisited = iota
		active
		finished
	)
	mark := make([]int8, len(deps))
	order := make([]int, 0, len(deps))
	var path []int
	var visit func(i int) error
	visit = func(i int) error {
		mark[i] = active
		path = append(path, i)
		for _, j := range deps[i] {
			switch mark[j] {
			case active:
				start := slices.Index(path, j)
				names := make([]string, 0, len(path)-start+1)
				for _, k := range path[start:] {
					names = append(names, x.src.Aliases[k].Name)
				}
				names = append(names, x.src.Aliases[j].Name)
				return errorf(CycleError, x.src.Aliases[j].Pos, "%s", strings.Join(names, " -> "))
			case unvisited:
				if err := visit(j); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		mark[i] = finished
		order = append(order, i)
		return nil
	}
	for i := range deps {
		if mark[i] == unvisited {
			if err := visit(i); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}

func walkAliasRefs(pat Pattern, fn func(AliasRef) bool) bool {
	for _, item := range pat {
		if !walkItemRefs(item, fn) {
			return false
		}
	}
	return true
}

func walkItemRefs(item PatternItem, fn func(AliasRef) bool) bool {
	switch it := item.(type) {
	case AliasRef:
		return fn(it)
	case Negated:
		return walkItemRefs(it.Item, fn)
	case Alternation:
		for _, m := range it.Members {
			if !walkItemRefs(m, fn) {
				return false
			}
		}
	}
	return true
}

// pattern expands a pattern and returns its normalized form together with
// its classes.
func (x *expander) pattern(pat Pattern, pos Position) (Pattern, []Class, error) {
	norm := make(Pattern, 0, len(pat))
	var classes []Class
	for _, item := range pat {
		n, cls, err := x.item(item, pos)
		if err != nil {
			return nil, nil, err
		}
		norm = append(norm, n)
		classes = append(classes, cls...)
	}
	return norm, classes, nil
}

func (x *expander) item(item PatternItem, pos Position) (PatternItem, []Class, error) {
	switch it := item.(type) {
	case Literal:
		return it, []Class{{Ranges: []Range{{Lo: it.Char, Hi: it.Char}}}}, nil
	case Range:
		return it, []Class{{Ranges: []Range{it}}}, nil
	case AliasRef:
		j, ok := x.index[it.Name]
		if !ok {
			return nil, nil, errorf(ReferenceError, it.Pos, "unknown alias %s", it.Name)
		}
		return it, cloneClasses(x.classes[j]), nil
	case Negated:
		inner, cls, err := x.item(it.Item, pos)
		if err != nil {
			return nil, nil, err
		}
		if len(cls) != 1 {
			return nil, nil, errorf(CodegenError, pos, "cannot negate a pattern of %d characters", len(cls))
		}
		cls[0].Negated = !cls[0].Negated
		return Negated{Item: inner}, cls, nil
	case Alternation:
		return x.alternation(it)
	}
	return nil, nil, errorf(CodegenError, pos, "unknown pattern item %T", item)
}

// alternation orders the members of an alternation by the smallest character
// they match and unites their ranges.
func (x *expander) alternation(alt Alternation) (PatternItem, []Class, error) {
	type member struct {
		item  PatternItem
		class Class
	}
	members := make([]member, 0, len(alt.Members))
	for _, m := range alt.Members {
		item, cls, err := x.item(m, alt.Pos)
		if err != nil {
			return nil, nil, err
		}
		if len(cls) != 1 {
			return nil, nil, errorf(CodegenError, alt.Pos,
				"alternation member spans %d characters, must be one", len(cls))
		}
		if cls[0].Negated {
			return nil, nil, errorf(CodegenError, alt.Pos,
				"negated class inside an alternation is too complex to encode")
		}
		members = append(members, member{item: item, class: cls[0]})
	}
	slices.SortStableFunc(members, func(a, b member) int {
		return compareRanges(a.class.Ranges[0], b.class.Ranges[0])
	})
	norm := Alternation{Members: make([]PatternItem, len(members)), Pos: alt.Pos}
	var united Class
	for i, m := range members {
		norm.Members[i] = m.item
		united.Ranges = append(united.Ranges, m.class.Ranges...)
	}
	slices.SortStableFunc(united.Ranges, compareRanges)
	return norm, []Class{united}, nil
}

func compareRanges(a, b Range) int {
	if a.Lo != b.Lo {
		return int(a.Lo - b.Lo)
	}
	return int(a.Hi - b.Hi)
}

// rule expands a rule's pattern and context and resolves its back-references.
func (x *expander) rule(r *Rule) (ExpandedRule, error) {
	pat, cls, err := x.pattern(r.Pattern, r.Pos)
	if err != nil {
		return ExpandedRule{}, err
	}
	norm := &Rule{
		Guard:      r.Guard,
		Pattern:    pat,
		AtEnd:      r.AtEnd,
		Transition: r.Transition,
		Pos:        r.Pos,
	}
	xr := ExpandedRule{Rule: norm, Pattern: cls}
	if r.Context != nil {
		if norm.Context, xr.Context, err = x.pattern(r.Context, r.Pos); err != nil {
			return ExpandedRule{}, err
		}
	}
	n := len(cls)
	checkRef := func(k int) error {
		if k < 1 || k > n {
			return errorf(ParseError, r.Pos, "back-reference \\%d exceeds pattern length %d", k, n)
		}
		return nil
	}
	for _, out := range r.Output {
		switch it := out.(type) {
		case Emit:
			norm.Output = append(norm.Output, it)
		case BackRef:
			switch it.Index {
			case LastChar:
				norm.Output = append(norm.Output, BackRef{Index: n})
			case AllChars:
				for k := 1; k <= n; k++ {
					norm.Output = append(norm.Output, BackRef{Index: k})
				}
			default:
				if err = checkRef(it.Index); err != nil {
					return ExpandedRule{}, err
				}
				norm.Output = append(norm.Output, it)
			}
		case Arithmetic:
			if err = checkRef(it.Ref); err != nil {
				return ExpandedRule{}, err
			}
			norm.Output = append(norm.Output, it)
		case TableLookup:
			if err = checkRef(it.Ref); err != nil {
				return ExpandedRule{}, err
			}
			norm.Output = append(norm.Output, it)
		default:
			return ExpandedRule{}, errorf(CodegenError, r.Pos, "unknown output item %T", out)
		}
	}
	return xr, nil
}
