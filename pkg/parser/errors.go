package parser

import (
	"fmt"

	"github.com/leapstack-labs/vela/pkg/token"
)

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Position returns where lexing failed.
func (e *LexError) Position() token.Position { return e.Pos }

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
	Token   token.Token // offending token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Position returns where parsing failed.
func (e *ParseError) Position() token.Position { return e.Pos }

// AtEnd reports whether the parse failed because input ran out. Interactive
// callers use it to keep reading continuation lines.
func (e *ParseError) AtEnd() bool {
	return e.Token.Kind == token.EndOfInput
}

// Common error messages
const (
	ErrUnexpectedChar       = "unexpected character %q"
	ErrUnterminatedString   = "unterminated string literal"
	ErrUnterminatedComment  = "unterminated block comment"
	ErrExpected             = "expected %s, got %s"
	ErrUnexpectedToken      = "unexpected token %s"
	ErrUnexpectedExpression = "unexpected expression: %s"
	ErrMalformedNumber      = "malformed number literal %q"
)
