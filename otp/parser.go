package otp

import (
	"io"
	"strings"
)

// Parse reads OCP source text into a source model.
//
// Declarations of states, aliases and tables may appear in any order between
// the arity declarations and the expressions section. Aliases are not
// resolved here; see Expand. References to states and tables are checked,
// as both have to be declared before the expressions section.
func Parse(text string) (*Source, error) {
	toks, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{
		toks:    toks,
		src:     &Source{},
		states:  map[string]bool{InitialState: true},
		aliases: map[string]bool{},
		tables:  map[string]bool{},
	}
	if err = p.program(); err != nil {
		tracer().Debugf("parsing OCP source failed: %v", err)
		return nil, err
	}
	tracer().Debugf("parsed OCP source: %d states, %d aliases, %d tables, %d rules",
		len(p.src.States), len(p.src.Aliases), len(p.src.Tables), len(p.src.Rules))
	return p.src, nil
}

// ParseReader reads and parses an OCP source. encoding is an IANA charset
// name (see DecodeSource); an empty string denotes UTF-8.
func ParseReader(r io.Reader, encoding string) (*Source, error) {
	text, err := DecodeSource(r, encoding)
	if err != nil {
		return nil, err
	}
	return Parse(text)
}

type parser struct {
	toks    []Token
	pos     int
	src     *Source
	states  map[string]bool
	aliases map[string]bool
	tables  map[string]bool
}

func (p *parser) peek() Token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) unexpected(tok Token, expected string) error {
	return errorf(ParseError, tok.Pos, "unexpected %s, expected %s", tok, expected)
}

func (p *parser) punct(text string) error {
	if tok := p.next(); !tok.isPunct(text) {
		return p.unexpected(tok, "'"+text+"'")
	}
	return nil
}

func (p *parser) keyword(text string) error {
	if tok := p.next(); !tok.isKeyword(text) {
		return p.unexpected(tok, "'"+text+"'")
	}
	return nil
}

func (p *parser) ident() (Token, error) {
	tok := p.next()
	if tok.Kind != Ident {
		return tok, p.unexpected(tok, "a name")
	}
	return tok, nil
}

func (p *parser) number() (Token, error) {
	tok := p.next()
	if tok.Kind != Number {
		return tok, p.unexpected(tok, "a number or character")
	}
	return tok, nil
}

// program := 'input' ':' NUM ';' 'output' ':' NUM ';' section* 'expressions' ':' rule*
func (p *parser) program() (err error) {
	if p.src.Input, err = p.arity("input"); err != nil {
		return err
	}
	if p.src.Output, err = p.arity("output"); err != nil {
		return err
	}
	if err = p.declarations(); err != nil {
		return err
	}
	for p.peek().Kind != EOF {
		if err = p.rule(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) arity(kw string) (int, error) {
	if err := p.keyword(kw); err != nil {
		return 0, err
	}
	if err := p.punct(":"); err != nil {
		return 0, err
	}
	n, err := p.number()
	if err != nil {
		return 0, err
	}
	return int(n.Value), p.punct(";")
}

// declarations parses everything up to and including 'expressions' ':'.
func (p *parser) declarations() (err error) {
	for {
		tok := p.peek()
		switch {
		case tok.isKeyword("expressions"):
			p.next()
			return p.punct(":")
		case tok.isKeyword("states"):
			err = p.stateDecl()
		case tok.isKeyword("aliases"), tok.isKeyword("tables"):
			p.next()
			err = p.punct(":")
		case tok.Kind == Ident && p.peekAt(1).isPunct("="):
			err = p.aliasDecl()
		case tok.Kind == Ident && p.peekAt(1).isPunct("["):
			err = p.tableDecl()
		default:
			return p.unexpected(tok, "a declaration or 'expressions'")
		}
		if err != nil {
			return err
		}
	}
}

// stateDecl := 'states' ':' NAME (',' NAME)* ';'
func (p *parser) stateDecl() error {
	p.next()
	if err := p.punct(":"); err != nil {
		return err
	}
	for {
		name, err := p.ident()
		if err != nil {
			return err
		}
		if p.states[name.Text] {
			return errorf(ParseError, name.Pos, "duplicate state %s", name.Text)
		}
		p.states[name.Text] = true
		p.src.States = append(p.src.States, name.Text)
		if !p.peek().isPunct(",") {
			break
		}
		p.next()
	}
	return p.punct(";")
}

// aliasDecl := NAME '=' pattern ';'
func (p *parser) aliasDecl() error {
	name := p.next()
	if p.aliases[name.Text] {
		return errorf(ParseError, name.Pos, "duplicate alias %s", name.Text)
	}
	p.aliases[name.Text] = true
	p.next() // '='
	pat, err := p.pattern()
	if err != nil {
		return err
	}
	p.src.Aliases = append(p.src.Aliases, &Alias{Name: name.Text, Pattern: pat, Pos: name.Pos})
	return p.punct(";")
}

// tableDecl := NAME '[' NUM ']' '=' '{' NUM (',' NUM)* '}' ';'
func (p *parser) tableDecl() error {
	name := p.next()
	if p.tables[name.Text] {
		return errorf(ParseError, name.Pos, "duplicate table %s", name.Text)
	}
	p.tables[name.Text] = true
	p.next() // '['
	size, err := p.number()
	if err != nil {
		return err
	}
	for _, s := range []string{"]", "=", "{"} {
		if err = p.punct(s); err != nil {
			return err
		}
	}
	table := &Table{Name: name.Text, Pos: name.Pos}
	for {
		n, err := p.number()
		if err != nil {
			return err
		}
		table.Entries = append(table.Entries, n.Value)
		if !p.peek().isPunct(",") {
			break
		}
		p.next()
	}
	if err = p.punct("}"); err != nil {
		return err
	}
	if len(table.Entries) != int(size.Value) {
		return errorf(ParseError, name.Pos, "table %s declares %d entries, has %d",
			name.Text, size.Value, len(table.Entries))
	}
	p.src.Tables = append(p.src.Tables, table)
	return p.punct(";")
}

// rule := ['<' NAME '>'] pattern ['end' ':'] '=>' output ['<=' pattern] [transition] ';'
func (p *parser) rule() (err error) {
	r := &Rule{Pos: p.peek().Pos}
	if p.peek().isPunct("<") {
		p.next()
		name, err := p.ident()
		if err != nil {
			return err
		}
		if !p.states[name.Text] {
			return errorf(ReferenceError, name.Pos, "unknown state %s", name.Text)
		}
		r.Guard = name.Text
		if err = p.punct(">"); err != nil {
			return err
		}
	}
	if r.Pattern, err = p.pattern(); err != nil {
		return err
	}
	if p.peek().isKeyword("end") {
		p.next()
		if err = p.punct(":"); err != nil {
			return err
		}
		r.AtEnd = true
	}
	if err = p.punct("=>"); err != nil {
		return err
	}
	if r.Output, err = p.output(); err != nil {
		return err
	}
	if tok := p.peek(); tok.isPunct("<=") {
		if r.AtEnd {
			return errorf(ParseError, tok.Pos, "a rule matching at end of input cannot have a context")
		}
		p.next()
		if r.Context, err = p.pattern(); err != nil {
			return err
		}
	}
	if p.peek().isPunct("<") {
		if r.Transition, err = p.transition(); err != nil {
			return err
		}
	}
	if err = p.punct(";"); err != nil {
		return err
	}
	p.src.Rules = append(p.src.Rules, r)
	return nil
}

// transition := '<' 'push' ':' NAME '>' | '<' 'pop' ':' '>' | '<' NAME '>'
func (p *parser) transition() (t Transition, err error) {
	p.next() // '<'
	tok := p.next()
	switch {
	case tok.isKeyword("push"):
		t.Kind = PushState
		if err = p.punct(":"); err != nil {
			return
		}
		if tok, err = p.ident(); err != nil {
			return
		}
	case tok.isKeyword("pop"):
		t.Kind = PopState
		if err = p.punct(":"); err != nil {
			return
		}
		return t, p.punct(">")
	case tok.Kind == Ident:
		t.Kind = ChangeState
	default:
		return t, p.unexpected(tok, "'push', 'pop' or a state name")
	}
	if !p.states[tok.Text] {
		return t, errorf(ReferenceError, tok.Pos, "unknown state %s", tok.Text)
	}
	t.State = tok.Text
	return t, p.punct(">")
}

// pattern := item+
func (p *parser) pattern() (Pattern, error) {
	var pat Pattern
	for p.startsItem(p.peek()) {
		item, err := p.item()
		if err != nil {
			return nil, err
		}
		pat = append(pat, item)
	}
	if len(pat) == 0 {
		return nil, p.unexpected(p.peek(), "a pattern")
	}
	return pat, nil
}

func (p *parser) startsItem(tok Token) bool {
	if tok.Kind == Number {
		return true
	}
	return tok.Kind == Punct && strings.Contains("^({", tok.Text)
}

// item := value ['-' value] | '{' NAME '}' | '(' item ('|' item)* ')' | '^' item
func (p *parser) item() (PatternItem, error) {
	tok := p.next()
	switch {
	case tok.isPunct("^"):
		if !p.startsItem(p.peek()) {
			return nil, p.unexpected(p.peek(), "a pattern item after '^'")
		}
		inner, err := p.item()
		if err != nil {
			return nil, err
		}
		return Negated{Item: inner}, nil
	case tok.isPunct("("):
		alt := Alternation{Pos: tok.Pos}
		for {
			if !p.startsItem(p.peek()) {
				return nil, p.unexpected(p.peek(), "a pattern item")
			}
			m, err := p.item()
			if err != nil {
				return nil, err
			}
			alt.Members = append(alt.Members, m)
			if !p.peek().isPunct("|") {
				break
			}
			p.next()
		}
		return alt, p.punct(")")
	case tok.isPunct("{"):
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		return AliasRef{Name: name.Text, Pos: name.Pos}, p.punct("}")
	case tok.Kind == Number:
		if !p.peek().isPunct("-") {
			return Literal{Char: rune(tok.Value)}, nil
		}
		p.next()
		hi, err := p.number()
		if err != nil {
			return nil, err
		}
		if hi.Value < tok.Value {
			return nil, errorf(ParseError, tok.Pos, "empty range %s-%s", tok.Text, hi.Text)
		}
		return Range{Lo: rune(tok.Value), Hi: rune(hi.Value)}, nil
	}
	return nil, p.unexpected(tok, "a pattern item")
}

// output := outItem*
func (p *parser) output() ([]OutputItem, error) {
	var out []OutputItem
	for {
		tok := p.peek()
		if tok.Kind == EOF || tok.isPunct(";") || tok.isPunct("<=") || tok.isPunct("<") {
			return out, nil
		}
		item, err := p.outItem()
		if err != nil {
			return nil, err
		}
		out = append(out, item...)
	}
}

// outItem := value | '\' NUM | '\' '$' | '\' '*'
//
//	| '#' '(' '\' NUM ('+'|'-') value ')'
//	| '#' NAME '[' '\' NUM [('+'|'-') value] ']'
func (p *parser) outItem() ([]OutputItem, error) {
	tok := p.next()
	switch {
	case tok.Kind == Number:
		return []OutputItem{Emit{Value: tok.Value}}, nil
	case tok.isPunct(`\`):
		ref, err := p.backRef()
		if err != nil {
			return nil, err
		}
		return []OutputItem{BackRef{Index: ref}}, nil
	case tok.isPunct("#"):
		if p.peek().isPunct("(") {
			p.next()
			a, err := p.arithmetic()
			if err != nil {
				return nil, err
			}
			return []OutputItem{a}, p.punct(")")
		}
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		if !p.tables[name.Text] {
			return nil, errorf(ReferenceError, name.Pos, "unknown table %s", name.Text)
		}
		if err = p.punct("["); err != nil {
			return nil, err
		}
		lookup := TableLookup{Table: name.Text, Pos: name.Pos}
		if err = p.punct(`\`); err != nil {
			return nil, err
		}
		if lookup.Ref, err = p.backRefIndex(); err != nil {
			return nil, err
		}
		if t := p.peek(); t.isPunct("+") || t.isPunct("-") {
			if lookup.Op, lookup.Offset, err = p.offset(); err != nil {
				return nil, err
			}
		}
		return []OutputItem{lookup}, p.punct("]")
	}
	return nil, p.unexpected(tok, "an output item or ';'")
}

// backRef parses what follows a backslash: a number, '$' or '*'.
func (p *parser) backRef() (int, error) {
	switch tok := p.peek(); {
	case tok.isPunct("$"):
		p.next()
		return LastChar, nil
	case tok.isPunct("*"):
		p.next()
		return AllChars, nil
	}
	return p.backRefIndex()
}

func (p *parser) backRefIndex() (int, error) {
	n, err := p.number()
	if err != nil {
		return 0, err
	}
	if n.Value < 1 {
		return 0, errorf(ParseError, n.Pos, "back-references count from 1, have %s", n.Text)
	}
	return int(n.Value), nil
}

// arithmetic := '\' NUM ('+'|'-') value
func (p *parser) arithmetic() (a Arithmetic, err error) {
	if err = p.punct(`\`); err != nil {
		return
	}
	if a.Ref, err = p.backRefIndex(); err != nil {
		return
	}
	a.Op, a.Offset, err = p.offset()
	return
}

func (p *parser) offset() (ArithOp, int32, error) {
	op := Add
	switch tok := p.next(); {
	case tok.isPunct("+"):
	case tok.isPunct("-"):
		op = Sub
	default:
		return op, 0, p.unexpected(tok, "'+' or '-'")
	}
	n, err := p.number()
	if err != nil {
		return op, 0, err
	}
	return op, n.Value, nil
}
