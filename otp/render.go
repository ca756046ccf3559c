package otp

import (
	"fmt"
	"io"
	"strings"
)

// tableEntriesPerLine is the number of table entries per line of rendered
// output.
const tableEntriesPerLine = 8

// Render writes the canonical source text of an expanded model to w.
//
// The canonical form is a fixed point: parsing and expanding the output of
// Render and rendering it again yields identical text. Sections without
// declarations are left out, with the exception of the expressions section.
// Nothing is written to w if the model cannot be rendered.
func Render(w io.Writer, x *Expanded) error {
	text, err := render(x.Source)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// RenderString returns the canonical source text of an expanded model.
func RenderString(x *Expanded) (string, error) {
	return render(x.Source)
}

func render(src *Source) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "input:  %d;\n", src.Input)
	fmt.Fprintf(&sb, "output:  %d;\n", src.Output)
	if len(src.Tables) > 0 {
		sb.WriteString("tables:\n")
		for _, t := range src.Tables {
			renderTable(&sb, t)
		}
	}
	if len(src.States) > 0 {
		sb.WriteString("states:\n  ")
		sb.WriteString(strings.Join(src.States, ", "))
		sb.WriteString(";\n")
	}
	if len(src.Aliases) > 0 {
		sb.WriteString("aliases:\n")
		for _, a := range src.Aliases {
			sb.WriteString("  ")
			sb.WriteString(a.Name)
			sb.WriteString(" = ")
			if err := renderPattern(&sb, a.Pattern); err != nil {
				return "", err
			}
			sb.WriteString(";\n")
		}
	}
	sb.WriteString("expressions:\n")
	for _, r := range src.Rules {
		sb.WriteString("  ")
		if err := renderRule(&sb, r); err != nil {
			return "", err
		}
		sb.WriteString(";\n")
	}
	sb.WriteString("\n")
	return sb.String(), nil
}

func renderTable(sb *strings.Builder, t *Table) {
	fmt.Fprintf(sb, "  %s[@\"%x] = {\n", t.Name, len(t.Entries))
	for i, e := range t.Entries {
		switch {
		case i%tableEntriesPerLine == 0:
			sb.WriteString("    ")
		default:
			sb.WriteString(" ")
		}
		fmt.Fprintf(sb, "@\"%04x", e)
		switch {
		case i == len(t.Entries)-1:
			sb.WriteString("\n")
		case i%tableEntriesPerLine == tableEntriesPerLine-1:
			sb.WriteString(",\n")
		default:
			sb.WriteString(",")
		}
	}
	sb.WriteString("  };\n")
}

func renderRule(sb *strings.Builder, r *Rule) error {
	if r.Guard != "" {
		fmt.Fprintf(sb, "<%s> ", r.Guard)
	}
	if err := renderPattern(sb, r.Pattern); err != nil {
		return err
	}
	if r.AtEnd {
		sb.WriteString(" end:")
	}
	sb.WriteString(" =>")
	for _, out := range r.Output {
		sb.WriteByte(' ')
		if err := renderOutput(sb, out); err != nil {
			return err
		}
	}
	if len(r.Context) > 0 {
		sb.WriteString(" <= ")
		if err := renderPattern(sb, r.Context); err != nil {
			return err
		}
	}
	switch r.Transition.Kind {
	case PushState:
		fmt.Fprintf(sb, " <push: %s>", r.Transition.State)
	case PopState:
		sb.WriteString(" <pop:>")
	case ChangeState:
		fmt.Fprintf(sb, " <%s>", r.Transition.State)
	}
	return nil
}

func renderPattern(sb *strings.Builder, pat Pattern) error {
	for i, item := range pat {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if err := renderItem(sb, item); err != nil {
			return err
		}
	}
	return nil
}

func renderItem(sb *strings.Builder, item PatternItem) error {
	switch it := item.(type) {
	case Literal:
		sb.WriteString(FormatValue(it.Char))
	case Range:
		sb.WriteString(FormatValue(it.Lo))
		sb.WriteByte('-')
		sb.WriteString(FormatValue(it.Hi))
	case AliasRef:
		fmt.Fprintf(sb, "{%s}", it.Name)
	case Negated:
		sb.WriteByte('^')
		return renderItem(sb, it.Item)
	case Alternation:
		sb.WriteByte('(')
		for i, m := range it.Members {
			if i > 0 {
				sb.WriteString(" | ")
			}
			if err := renderItem(sb, m); err != nil {
				return err
			}
		}
		sb.WriteByte(')')
	default:
		return fmt.Errorf("cannot render pattern item %T", item)
	}
	return nil
}

func renderOutput(sb *strings.Builder, out OutputItem) error {
	switch it := out.(type) {
	case Emit:
		sb.WriteString(FormatValue(it.Value))
	case BackRef:
		if it.Index < 1 {
			return fmt.Errorf("cannot render unresolved back-reference %d", it.Index)
		}
		fmt.Fprintf(sb, "\\%d", it.Index)
	case Arithmetic:
		fmt.Fprintf(sb, "#(\\%d %s %d)", it.Ref, it.Op, it.Offset)
	case TableLookup:
		fmt.Fprintf(sb, "#%s[\\%d", it.Table, it.Ref)
		if it.Offset != 0 || it.Op == Sub {
			fmt.Fprintf(sb, " %s %d", it.Op, it.Offset)
		}
		sb.WriteByte(']')
	default:
		return fmt.Errorf("cannot render output item %T", out)
	}
	return nil
}

// FormatValue formats a character value the way it appears in canonical
// source text: printable ASCII characters as `c', everything else as a four
// digit lower-case hex number.
func FormatValue[T ~int32 | ~int](v T) string {
	if v >= 0x21 && v <= 0x7e {
		return fmt.Sprintf("`%c'", rune(v))
	}
	return fmt.Sprintf("@\"%04x", int64(v))
}
