// Package parser turns vela source text into an abstract syntax tree.
//
// # Usage
//
//	prog, err := parser.ParseString(`var x = 1 + 2;`)
//	if err != nil {
//	    // *LexError or *ParseError, both carry a 1-based position
//	}
//
// # Grammar Overview
//
//	program     → statement* EOF
//	statement   → varDecl | funDecl | ifStmt | returnStmt | exprStmt
//	varDecl     → ("var"|"val") IDENT [":" IDENT] "=" expression ";"
//	funDecl     → ("fun"|"function") IDENT "(" [param ("," param)*] ")" [":" IDENT] block
//	param       → IDENT [":" IDENT]
//	ifStmt      → "if" "(" expression ")" block ["else" block]
//	returnStmt  → "return" [expression] ";"
//	exprStmt    → expression ["=" expression] ";"
//	block       → "{" statement* "}"
//	expression  → primary (binop primary)* suffix*
//	suffix      → "(" [expression ("," expression)*] ")" | "." IDENT | "[" expression "]"
//	primary     → object | array | NUMBER | STRING | IDENT
//
// Binary operators share one precedence level and associate to the left, so
// 1 + 2 * 3 is (1 + 2) * 3. Suffixes apply to the whole binary chain.
package parser

import "github.com/leapstack-labs/vela/pkg/token"

// NodeKind names an AST node variant.
type NodeKind string

// NodeKind constants, one per AST variant.
const (
	KindProgram              NodeKind = "Program"
	KindVariableDeclaration  NodeKind = "VariableDeclaration"
	KindFunctionDeclaration  NodeKind = "FunctionDeclaration"
	KindIfStatement          NodeKind = "IfStatement"
	KindReturnStatement      NodeKind = "ReturnStatement"
	KindExpressionStatement  NodeKind = "ExpressionStatement"
	KindAssignmentExpression NodeKind = "AssignmentExpression"
	KindCallExpression       NodeKind = "CallExpression"
	KindArrayExpression      NodeKind = "ArrayExpression"
	KindObjectExpression     NodeKind = "ObjectExpression"
	KindMemberExpression     NodeKind = "MemberExpression"
	KindBinaryExpression     NodeKind = "BinaryExpression"
	KindLiteral              NodeKind = "Literal"
	KindIdentifier           NodeKind = "Identifier"
)

// Node is the interface for all AST nodes.
type Node interface {
	Pos() token.Position
	Kind() NodeKind
	node() // marker method to restrict implementation
}

// Statement is a node that may appear in a statement list.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	exprNode()
}

// nodeBase provides common Position handling for all nodes.
type nodeBase struct {
	pos token.Position
}

func (n *nodeBase) Pos() token.Position { return n.pos }
func (n *nodeBase) node()               {}

type stmtBase struct{ nodeBase }

func (*stmtBase) stmtNode() {}

type exprBase struct{ nodeBase }

func (*exprBase) exprNode() {}

// Program is the root of a parsed script.
type Program struct {
	nodeBase
	Statements []Statement
}

// VariableDeclaration is `var name = init;` or `val name = init;`.
type VariableDeclaration struct {
	stmtBase
	Name     string
	Constant bool   // declared with val
	Type     string // optional annotation, not enforced
	Init     Expression
}

// Param is a function parameter with an optional type annotation.
type Param struct {
	Name string
	Type string
}

// FunctionDeclaration binds a named closure in the current scope.
type FunctionDeclaration struct {
	stmtBase
	Name       string
	Params     []Param
	ReturnType string // optional annotation, not enforced
	Body       []Statement
}

// IfStatement is a conditional with an optional else block.
type IfStatement struct {
	stmtBase
	Test       Expression
	Consequent []Statement
	Alternate  []Statement // nil when there is no else block
}

// ReturnStatement leaves the enclosing function. Value is nil for a bare return.
type ReturnStatement struct {
	stmtBase
	Value Expression
}

// ExpressionStatement evaluates an expression for its side effects.
type ExpressionStatement struct {
	stmtBase
	Expr Expression
}

// AssignmentExpression rebinds an existing variable.
type AssignmentExpression struct {
	exprBase
	Target *Identifier
	Value  Expression
}

// CallExpression invokes a callable with positional arguments.
type CallExpression struct {
	exprBase
	Callee Expression
	Args   []Expression
}

// ArrayExpression is an array literal.
type ArrayExpression struct {
	exprBase
	Elements []Expression
}

// Property is one key: value pair of an object literal.
type Property struct {
	Key   string
	Value Expression
}

// ObjectExpression is an object literal. Keys keep source order.
type ObjectExpression struct {
	exprBase
	Properties []Property
}

// MemberExpression is `object.name` (Computed false, Property is a string
// Literal) or `object[expr]` (Computed true).
type MemberExpression struct {
	exprBase
	Object   Expression
	Property Expression
	Computed bool
}

// BinaryExpression applies an infix operator.
type BinaryExpression struct {
	exprBase
	Operator string
	Left     Expression
	Right    Expression
}

// Literal is a number (float64) or string constant.
type Literal struct {
	exprBase
	Value any
}

// Identifier is a variable reference.
type Identifier struct {
	exprBase
	Name string
}

func (*Program) Kind() NodeKind              { return KindProgram }
func (*VariableDeclaration) Kind() NodeKind  { return KindVariableDeclaration }
func (*FunctionDeclaration) Kind() NodeKind  { return KindFunctionDeclaration }
func (*IfStatement) Kind() NodeKind          { return KindIfStatement }
func (*ReturnStatement) Kind() NodeKind      { return KindReturnStatement }
func (*ExpressionStatement) Kind() NodeKind  { return KindExpressionStatement }
func (*AssignmentExpression) Kind() NodeKind { return KindAssignmentExpression }
func (*CallExpression) Kind() NodeKind       { return KindCallExpression }
func (*ArrayExpression) Kind() NodeKind      { return KindArrayExpression }
func (*ObjectExpression) Kind() NodeKind     { return KindObjectExpression }
func (*MemberExpression) Kind() NodeKind     { return KindMemberExpression }
func (*BinaryExpression) Kind() NodeKind     { return KindBinaryExpression }
func (*Literal) Kind() NodeKind              { return KindLiteral }
func (*Identifier) Kind() NodeKind           { return KindIdentifier }
