package parser

import (
	"fmt"

	"github.com/leapstack-labs/vela/pkg/token"
)

// Parser is a recursive descent parser with one token of lookahead.
// The first grammar violation aborts the parse; no partial tree is returned.
type Parser struct {
	tokens []token.Token
	pos    int
}

// NewParser creates a parser over a token sequence produced by the Lexer.
func NewParser(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse is shorthand for NewParser(tokens).Parse().
func Parse(tokens []token.Token) (*Program, error) {
	return NewParser(tokens).Parse()
}

// ParseString lexes and parses source in one step.
func ParseString(source string) (*Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Parse parses statements until end of input.
func (p *Parser) Parse() (*Program, error) {
	prog := &Program{nodeBase: nodeBase{pos: p.peek().Pos}}
	for p.peek().Kind != token.EndOfInput {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

// ---------- Token Helpers ----------

// peek returns the current token without consuming it. Past the end of the
// slice it keeps returning the terminal EndOfInput token.
func (p *Parser) peek() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	if n := len(p.tokens); n > 0 && p.tokens[n-1].Kind == token.EndOfInput {
		return p.tokens[n-1]
	}
	return token.Token{Kind: token.EndOfInput}
}

// consume returns the current token and advances past it.
func (p *Parser) consume() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// check reports whether the current token has the given kind and text.
func (p *Parser) check(kind token.Kind, text string) bool {
	return p.peek().Is(kind, text)
}

// match consumes the current token if it has the given kind and text.
func (p *Parser) match(kind token.Kind, text string) bool {
	if p.check(kind, text) {
		p.consume()
		return true
	}
	return false
}

// expect consumes the current token if it has the given kind and, when text
// is non-empty, the given text. Otherwise it reports what was expected.
func (p *Parser) expect(kind token.Kind, text string) (token.Token, error) {
	tok := p.peek()
	if tok.Kind != kind || (text != "" && tok.Text != text) {
		want := kind.String()
		if text != "" {
			want = fmt.Sprintf("%s %q", kind, text)
		}
		return tok, p.errorf(tok, ErrExpected, want, tok)
	}
	return p.consume(), nil
}

// errorf builds a ParseError positioned at tok.
func (p *Parser) errorf(tok token.Token, format string, args ...any) *ParseError {
	return &ParseError{
		Pos:     tok.Pos,
		Message: fmt.Sprintf(format, args...),
		Token:   tok,
	}
}

// ---------- Node Helpers ----------

func stmtAt(pos token.Position) stmtBase { return stmtBase{nodeBase{pos: pos}} }
func exprAt(pos token.Position) exprBase { return exprBase{nodeBase{pos: pos}} }
