package otp

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// otpLexer defines the token rules. Rules are tried in order; the first one
// matching wins. Hex numbers and character literals are matched generously
// and validated afterwards, to produce precise lex errors.
var otpLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `%[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Hex", Pattern: `@"[0-9A-Za-z_]*`},
	{Name: "Char", Pattern: "`[^\\n]?'?"},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `<=|=>|[{}\[\](),;:=|^<>\\#+$*-]`},
})

var tokenTypes = otpLexer.Symbols()

// Tokenize splits source text into tokens. Comments and whitespace are
// dropped. The final token is always of kind EOF.
func Tokenize(text string) ([]Token, error) {
	lx, err := otpLexer.LexString("", text)
	if err != nil {
		return nil, wrapLexError(err)
	}
	toks := make([]Token, 0, len(text)/3)
	for {
		lt, err := lx.Next()
		if err != nil {
			return nil, wrapLexError(err)
		}
		pos := Position{Line: lt.Pos.Line, Column: lt.Pos.Column}
		if lt.EOF() {
			toks = append(toks, Token{Kind: EOF, Pos: pos})
			break
		}
		tok := Token{Text: lt.Value, Pos: pos}
		switch lt.Type {
		case tokenTypes["Comment"], tokenTypes["Whitespace"]:
			continue
		case tokenTypes["Hex"]:
			err = scanHex(&tok)
		case tokenTypes["Char"]:
			err = scanChar(&tok)
		case tokenTypes["Number"]:
			err = scanDecimal(&tok)
		case tokenTypes["Ident"]:
			tok.Kind = Ident
			if keywords[tok.Text] {
				tok.Kind = Keyword
			}
		default:
			tok.Kind = Punct
		}
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
	tracer().Debugf("tokenized OCP source into %d tokens", len(toks))
	return toks, nil
}

func scanDecimal(tok *Token) error {
	n, err := strconv.ParseInt(tok.Text, 10, 32)
	if err != nil {
		return errorf(LexError, tok.Pos, "malformed number %s", tok.Text)
	}
	tok.Kind, tok.Form, tok.Value = Number, Decimal, int32(n)
	return nil
}

func scanHex(tok *Token) error {
	digits := strings.TrimPrefix(tok.Text, `@"`)
	if digits == "" || strings.Trim(digits, "0123456789abcdefABCDEF") != "" {
		return errorf(LexError, tok.Pos, "invalid hex digits in %s", tok.Text)
	}
	n, err := strconv.ParseInt(digits, 16, 32)
	if err != nil {
		return errorf(LexError, tok.Pos, "malformed number %s", tok.Text)
	}
	tok.Kind, tok.Form, tok.Value = Number, Hex, int32(n)
	return nil
}

// scanChar validates a character literal of the form `c'.
func scanChar(tok *Token) error {
	body := strings.TrimPrefix(tok.Text, "`")
	r, size := utf8.DecodeRuneInString(body)
	if size == 0 || body[size:] != "'" {
		return errorf(LexError, tok.Pos, "unterminated character literal %s", tok.Text)
	}
	if r == utf8.RuneError && size == 1 {
		return errorf(LexError, tok.Pos, "invalid character in literal %q", tok.Text)
	}
	tok.Kind, tok.Form, tok.Value = Number, Char, int32(r)
	return nil
}

// wrapLexError converts an error of the participle lexer into a LexError.
func wrapLexError(err error) error {
	var lerr interface{ Position() lexer.Position }
	if errors.As(err, &lerr) {
		lpos := lerr.Position()
		return errorf(LexError, Position{Line: lpos.Line, Column: lpos.Column}, "%s", err.Error())
	}
	return &Error{Kind: LexError, Msg: err.Error()}
}
