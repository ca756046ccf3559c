package otp

import "fmt"

// TokenKind classifies tokens.
type TokenKind int8

const (
	EOF     TokenKind = iota // end of input
	Number                   // numeric value: decimal, hex or quoted character
	Ident                    // identifier, not a keyword
	Keyword                  // one of the reserved words
	Punct                    // punctuation
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Number:
		return "number"
	case Ident:
		return "identifier"
	case Keyword:
		return "keyword"
	case Punct:
		return "punctuation"
	}
	return "token"
}

// NumberForm tells how a numeric token has been written.
type NumberForm int8

const (
	Decimal NumberForm = iota
	Hex
	Char
)

// Token is a lexical unit of an OCP source.
type Token struct {
	Kind  TokenKind
	Text  string     // token text as written in the source
	Value int32      // numeric value for kind Number
	Form  NumberForm // notation for kind Number
	Pos   Position
}

func (tok Token) String() string {
	if tok.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", tok.Text)
}

func (tok Token) is(kind TokenKind, text string) bool {
	return tok.Kind == kind && tok.Text == text
}

func (tok Token) isPunct(text string) bool {
	return tok.is(Punct, text)
}

func (tok Token) isKeyword(text string) bool {
	return tok.is(Keyword, text)
}

var keywords = map[string]bool{
	"input":       true,
	"output":      true,
	"states":      true,
	"aliases":     true,
	"tables":      true,
	"expressions": true,
	"end":         true,
	"push":        true,
	"pop":         true,
}

// IsKeyword reports whether s is a reserved word of the OCP language.
func IsKeyword(s string) bool {
	return keywords[s]
}
