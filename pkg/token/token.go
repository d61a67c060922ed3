// Package token defines the lexical tokens of the vela scripting language.
//
// Tokens are classified into a small fixed set of kinds. Keywords and
// punctuation are distinguished by their literal text, not by a dedicated
// kind per symbol, so the parser matches on (Kind, Text) pairs.
package token

import "fmt"

// Kind classifies a lexical token.
type Kind int

// Token kinds.
const (
	EndOfInput Kind = iota
	Keyword
	Identifier
	Number
	String
	Operator
	Separator
)

var kindNames = map[Kind]string{
	EndOfInput: "EndOfInput",
	Keyword:    "Keyword",
	Identifier: "Identifier",
	Number:     "Number",
	String:     "String",
	Operator:   "Operator",
	Separator:  "Separator",
}

// String returns a human-readable representation of the token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText lets kinds appear by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Keyword literals.
const (
	Var      = "var"
	Val      = "val"
	Fun      = "fun"
	Function = "function"
	If       = "if"
	Else     = "else"
	While    = "while"
	For      = "for"
	Return   = "return"
	Async    = "async"
	Await    = "await"
)

// keywords is the fixed reserved word set. while, for, async and await are
// reserved but the parser has no statement forms for them.
var keywords = map[string]struct{}{
	Var: {}, Val: {}, Fun: {}, Function: {}, If: {}, Else: {},
	While: {}, For: {}, Return: {}, Async: {}, Await: {},
}

// LookupIdent returns Keyword if ident is reserved, Identifier otherwise.
func LookupIdent(ident string) Kind {
	if _, ok := keywords[ident]; ok {
		return Keyword
	}
	return Identifier
}

// Keywords returns the reserved words in no particular order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	return out
}

// Symbols ordered longest first so two-character operators win over their
// one-character prefixes.
var symbols = []struct {
	Text string
	Kind Kind
}{
	{">=", Operator},
	{"<=", Operator},
	{"==", Operator},
	{"!=", Operator},
	{"=", Operator},
	{"+", Operator},
	{"-", Operator},
	{"*", Operator},
	{"/", Operator},
	{">", Operator},
	{"<", Operator},
	{":", Separator},
	{"{", Separator},
	{"}", Separator},
	{"(", Separator},
	{")", Separator},
	{"[", Separator},
	{"]", Separator},
	{";", Separator},
	{",", Separator},
	{".", Separator},
}

// MatchSymbol returns the longest operator or separator that prefixes s.
func MatchSymbol(s string) (text string, kind Kind, ok bool) {
	for _, sym := range symbols {
		if len(s) >= len(sym.Text) && s[:len(sym.Text)] == sym.Text {
			return sym.Text, sym.Kind, true
		}
	}
	return "", EndOfInput, false
}

// BinaryOperators is the set of infix operators accepted by the expression
// grammar. All share a single precedence level.
var BinaryOperators = map[string]struct{}{
	"+": {}, "-": {}, "*": {}, "/": {},
	">": {}, "<": {}, ">=": {}, "<=": {}, "==": {}, "!=": {},
}

// IsBinaryOperator reports whether tok is one of the infix operators.
func IsBinaryOperator(tok Token) bool {
	if tok.Kind != Operator {
		return false
	}
	_, ok := BinaryOperators[tok.Text]
	return ok
}

// Token represents a lexical token with position information.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

// Is reports whether the token has the given kind and literal text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// String renders the token for diagnostics, e.g. `Separator ";"`.
func (t Token) String() string {
	if t.Kind == EndOfInput {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}
