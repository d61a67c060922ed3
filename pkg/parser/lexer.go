package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/vela/pkg/token"
)

// Lexer tokenizes vela source text in a single forward pass.
type Lexer struct {
	input string
	pos   int // current byte offset in input
	line  int // current line number (1-based)
	col   int // current column number (1-based, counted in runes)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// Tokenize is shorthand for NewLexer(source).Tokenize().
func Tokenize(source string) ([]token.Token, error) {
	return NewLexer(source).Tokenize()
}

// Tokenize converts the input into a slice of tokens terminated by a single
// EndOfInput token. The first unrecognized character aborts lexing.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token

	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EndOfInput {
			break
		}
	}

	return tokens, nil
}

// nextToken returns the next token from the input.
func (l *Lexer) nextToken() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	pos := l.position()
	if l.atEnd() {
		return token.Token{Kind: token.EndOfInput, Pos: pos}, nil
	}

	r := l.peek()
	switch {
	case isDigit(r):
		return l.scanNumber(), nil
	case isLetter(r):
		return l.scanIdentifier(), nil
	case r == '"':
		return l.scanString()
	}

	if text, kind, ok := token.MatchSymbol(l.input[l.pos:]); ok {
		for range text {
			l.advance()
		}
		return token.Token{Kind: kind, Text: text, Pos: pos}, nil
	}

	return token.Token{}, &LexError{Pos: pos, Message: fmt.Sprintf(ErrUnexpectedChar, r)}
}

// scanNumber reads a run of digits and dots. Malformed runs such as "1.2.3"
// come out as one token; the parser rejects them.
func (l *Lexer) scanNumber() token.Token {
	pos := l.position()
	start := l.pos
	for !l.atEnd() && (isDigit(l.peek()) || l.peek() == '.') {
		l.advance()
	}
	return token.Token{Kind: token.Number, Text: l.input[start:l.pos], Pos: pos}
}

// scanIdentifier reads [A-Za-z_][A-Za-z_0-9]* and classifies keywords.
func (l *Lexer) scanIdentifier() token.Token {
	pos := l.position()
	start := l.pos
	for !l.atEnd() && (isLetter(l.peek()) || isDigit(l.peek())) {
		l.advance()
	}
	text := l.input[start:l.pos]
	return token.Token{Kind: token.LookupIdent(text), Text: text, Pos: pos}
}

// scanString reads the raw content between double quotes. There are no
// escape sequences.
func (l *Lexer) scanString() (token.Token, error) {
	pos := l.position()
	l.advance() // opening quote

	start := l.pos
	for !l.atEnd() && l.peek() != '"' {
		l.advance()
	}
	if l.atEnd() {
		return token.Token{}, &LexError{Pos: pos, Message: ErrUnterminatedString}
	}

	text := l.input[start:l.pos]
	l.advance() // closing quote
	return token.Token{Kind: token.String, Text: text, Pos: pos}, nil
}

// skipWhitespaceAndComments skips whitespace, // line comments and
// /* block */ comments.
func (l *Lexer) skipWhitespaceAndComments() error {
	for !l.atEnd() {
		switch {
		case unicode.IsSpace(l.peek()):
			l.advance()
		case l.match("//"):
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		case l.match("/*"):
			pos := l.position()
			l.advance()
			l.advance()
			for !l.atEnd() && !l.match("*/") {
				l.advance()
			}
			if l.atEnd() {
				return &LexError{Pos: pos, Message: ErrUnterminatedComment}
			}
			l.advance()
			l.advance()
		default:
			return nil
		}
	}
	return nil
}

// Helper methods

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// peek returns the current rune without advancing.
func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// advance moves to the next rune, updating position tracking.
func (l *Lexer) advance() {
	if l.atEnd() {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// match checks if the input at current position starts with s.
func (l *Lexer) match(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) position() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}
