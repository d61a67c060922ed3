package interp

import (
	"context"

	"github.com/leapstack-labs/vela/pkg/parser"
)

// signal tells enclosing statement lists whether a return is unwinding.
type signal int

const (
	sigNone signal = iota
	sigReturn
)

// execBlock runs stmts in order in scope, stopping at the first return.
func (i *Interpreter) execBlock(ctx context.Context, stmts []parser.Statement, scope *Scope) (Value, signal, error) {
	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return nil, sigNone, err
		}
		val, sig, err := i.execStatement(ctx, stmt, scope)
		if err != nil {
			return nil, sigNone, err
		}
		if sig == sigReturn {
			return val, sig, nil
		}
	}
	return nil, sigNone, nil
}

func (i *Interpreter) execStatement(ctx context.Context, stmt parser.Statement, scope *Scope) (Value, signal, error) {
	switch s := stmt.(type) {
	case *parser.VariableDeclaration:
		return nil, sigNone, i.execVarDecl(ctx, s, scope)

	case *parser.FunctionDeclaration:
		fn := &Function{Decl: s, Closure: scope}
		return nil, sigNone, at(scope.Define(s.Name, fn, false), s.Pos())

	case *parser.IfStatement:
		return i.execIf(ctx, s, scope)

	case *parser.ReturnStatement:
		if s.Value == nil {
			return nil, sigReturn, nil
		}
		val, err := i.eval(ctx, s.Value, scope)
		if err != nil {
			return nil, sigNone, err
		}
		return val, sigReturn, nil

	case *parser.ExpressionStatement:
		_, err := i.eval(ctx, s.Expr, scope)
		return nil, sigNone, err
	}

	return nil, sigNone, newError(StructuralError, stmt.Pos(), errUnknownNode, stmt)
}

func (i *Interpreter) execVarDecl(ctx context.Context, s *parser.VariableDeclaration, scope *Scope) error {
	val, err := i.eval(ctx, s.Init, scope)
	if err != nil {
		return err
	}
	return at(scope.Define(s.Name, val, s.Constant), s.Pos())
}

// execIf runs the chosen arm in a fresh child scope so its bindings do not
// leak. A return inside either arm propagates to the caller.
func (i *Interpreter) execIf(ctx context.Context, s *parser.IfStatement, scope *Scope) (Value, signal, error) {
	test, err := i.eval(ctx, s.Test, scope)
	if err != nil {
		return nil, sigNone, err
	}

	if Truthy(test) {
		return i.execBlock(ctx, s.Consequent, NewScope(scope))
	}
	if s.Alternate != nil {
		return i.execBlock(ctx, s.Alternate, NewScope(scope))
	}
	return nil, sigNone, nil
}
