package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  Kind
	}{
		{"var", Keyword},
		{"val", Keyword},
		{"fun", Keyword},
		{"function", Keyword},
		{"while", Keyword},
		{"await", Keyword},
		{"Var", Identifier},
		{"pessoa", Identifier},
		{"_x1", Identifier},
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupIdent(tt.ident))
		})
	}
}

func TestMatchSymbol_LongestFirst(t *testing.T) {
	tests := []struct {
		input    string
		wantText string
		wantKind Kind
	}{
		{">= 1", ">=", Operator},
		{"> 1", ">", Operator},
		{"==x", "==", Operator},
		{"=x", "=", Operator},
		{"!=", "!=", Operator},
		{"<=", "<=", Operator},
		{".b", ".", Separator},
		{";", ";", Separator},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			text, kind, ok := MatchSymbol(tt.input)
			assert.True(t, ok)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantKind, kind)
		})
	}

	_, _, ok := MatchSymbol("!x")
	assert.False(t, ok, "lone '!' is not a symbol")
	_, _, ok = MatchSymbol("")
	assert.False(t, ok)
}

func TestIsBinaryOperator(t *testing.T) {
	assert.True(t, IsBinaryOperator(Token{Kind: Operator, Text: "+"}))
	assert.True(t, IsBinaryOperator(Token{Kind: Operator, Text: "!="}))
	assert.False(t, IsBinaryOperator(Token{Kind: Operator, Text: "="}))
	assert.False(t, IsBinaryOperator(Token{Kind: Separator, Text: "."}))
}

func TestToken_String(t *testing.T) {
	assert.Equal(t, `Separator ";"`, Token{Kind: Separator, Text: ";"}.String())
	assert.Equal(t, "end of input", Token{Kind: EndOfInput}.String())
	assert.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())
}
