package interp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/leapstack-labs/vela/pkg/parser"
)

func (i *Interpreter) eval(ctx context.Context, expr parser.Expression, scope *Scope) (Value, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		return e.Value, nil

	case *parser.Identifier:
		val, err := scope.Get(e.Name)
		return val, at(err, e.Pos())

	case *parser.AssignmentExpression:
		val, err := i.eval(ctx, e.Value, scope)
		if err != nil {
			return nil, err
		}
		if err := scope.Assign(e.Target.Name, val); err != nil {
			return nil, at(err, e.Target.Pos())
		}
		return val, nil

	case *parser.BinaryExpression:
		return i.evalBinary(ctx, e, scope)

	case *parser.CallExpression:
		return i.evalCall(ctx, e, scope)

	case *parser.MemberExpression:
		return i.evalMember(ctx, e, scope)

	case *parser.ArrayExpression:
		arr := &Array{Elems: make([]Value, 0, len(e.Elements))}
		for _, elem := range e.Elements {
			val, err := i.eval(ctx, elem, scope)
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, val)
		}
		return arr, nil

	case *parser.ObjectExpression:
		obj := NewObject()
		for _, prop := range e.Properties {
			val, err := i.eval(ctx, prop.Value, scope)
			if err != nil {
				return nil, err
			}
			obj.Set(prop.Key, val)
		}
		return obj, nil
	}

	return nil, newError(StructuralError, expr.Pos(), errUnknownNode, expr)
}

// ---------- Calls ----------

func (i *Interpreter) evalCall(ctx context.Context, e *parser.CallExpression, scope *Scope) (Value, error) {
	callee, err := i.eval(ctx, e.Callee, scope)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		val, err := i.eval(ctx, arg, scope)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	val, err := i.call(ctx, callee, args, describe(e.Callee))
	return val, at(err, e.Pos())
}

// call dispatches to a script function or a native function. what names
// the callee in error messages.
func (i *Interpreter) call(ctx context.Context, callee Value, args []Value, what string) (Value, error) {
	switch fn := callee.(type) {
	case *Function:
		return i.callFunction(ctx, fn, args)

	case *NativeFunc:
		val, err := fn.Fn(ctx, args)
		if err != nil {
			var rtErr *Error
			if errors.As(err, &rtErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, &Error{Kind: NativeError, Message: fmt.Sprintf(errNativeFailed, fn.Name), Cause: err}
		}
		return val, nil
	}

	return nil, Errorf(TypeError, errNotFunction, what)
}

// callFunction binds args to parameters in a child of the closure scope.
// Missing arguments are nil; extra arguments are ignored.
func (i *Interpreter) callFunction(ctx context.Context, fn *Function, args []Value) (Value, error) {
	if i.maxCallDepth > 0 && i.depth >= i.maxCallDepth {
		return nil, Errorf(LimitError, errCallDepth, i.maxCallDepth)
	}
	i.depth++
	defer func() { i.depth-- }()

	local := NewScope(fn.Closure)
	for idx, param := range fn.Decl.Params {
		var arg Value
		if idx < len(args) {
			arg = args[idx]
		}
		if err := local.Define(param.Name, arg, false); err != nil {
			return nil, at(err, fn.Decl.Pos())
		}
	}

	val, _, err := i.execBlock(ctx, fn.Decl.Body, local)
	if err != nil {
		return nil, err
	}
	return val, nil
}

// describe names a callee expression for diagnostics.
func describe(expr parser.Expression) string {
	switch e := expr.(type) {
	case *parser.Identifier:
		return e.Name
	case *parser.MemberExpression:
		if lit, ok := e.Property.(*parser.Literal); ok && !e.Computed {
			if name, ok := lit.Value.(string); ok {
				return describe(e.Object) + "." + name
			}
		}
		return describe(e.Object) + "[...]"
	}
	return "expression"
}

// ---------- Member Access ----------

// evalMember indexes arrays by number and objects by string. Out-of-range
// indexes and missing keys yield nil.
func (i *Interpreter) evalMember(ctx context.Context, e *parser.MemberExpression, scope *Scope) (Value, error) {
	obj, err := i.eval(ctx, e.Object, scope)
	if err != nil {
		return nil, err
	}
	prop, err := i.eval(ctx, e.Property, scope)
	if err != nil {
		return nil, err
	}

	switch target := obj.(type) {
	case *Array:
		idx, ok := prop.(float64)
		if !ok {
			return nil, newError(TypeError, e.Pos(), errIndexType, TypeName(prop))
		}
		if idx != math.Trunc(idx) || idx < 0 || idx >= float64(len(target.Elems)) {
			return nil, nil
		}
		return target.Elems[int(idx)], nil

	case *Object:
		key, ok := prop.(string)
		if !ok {
			return nil, newError(TypeError, e.Pos(), errKeyType, TypeName(prop))
		}
		val, _ := target.Get(key)
		return val, nil
	}

	return nil, newError(TypeError, e.Pos(), errNoMembers, TypeName(obj))
}

// ---------- Binary Operators ----------

func (i *Interpreter) evalBinary(ctx context.Context, e *parser.BinaryExpression, scope *Scope) (Value, error) {
	left, err := i.eval(ctx, e.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(ctx, e.Right, scope)
	if err != nil {
		return nil, err
	}

	val, err := binaryOp(e.Operator, left, right)
	return val, at(err, e.Pos())
}

// binaryOp applies op. + adds numbers and concatenates when either side is
// a string; arithmetic otherwise needs numbers; ordering compares two
// numbers or two strings; == and != are strict.
func binaryOp(op string, left, right Value) (Value, error) {
	switch op {
	case "==":
		return Equal(left, right), nil
	case "!=":
		return !Equal(left, right), nil
	}

	ln, lnum := left.(float64)
	rn, rnum := right.(float64)

	switch op {
	case "+":
		if lnum && rnum {
			return ln + rn, nil
		}
		_, lstr := left.(string)
		_, rstr := right.(string)
		if lstr || rstr {
			return ToString(left) + ToString(right), nil
		}
	case "-", "*", "/":
		if lnum && rnum {
			switch op {
			case "-":
				return ln - rn, nil
			case "*":
				return ln * rn, nil
			default:
				return ln / rn, nil
			}
		}
	case "<", ">", "<=", ">=":
		if lnum && rnum {
			return compare(op, cmpFloat(ln, rn)), nil
		}
		ls, lstr := left.(string)
		rs, rstr := right.(string)
		if lstr && rstr {
			return compare(op, cmpString(ls, rs)), nil
		}
	default:
		return nil, Errorf(TypeError, errUnknownOp, op)
	}

	return nil, Errorf(TypeError, errOperands, op, TypeName(left), TypeName(right))
}

// cmpFloat returns -1, 0 or 1, and 2 when either side is NaN so that every
// ordering comparison is false.
func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	}
	return 2
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compare(op string, c int) bool {
	if c == 2 {
		return false
	}
	switch op {
	case "<":
		return c < 0
	case ">":
		return c > 0
	case "<=":
		return c <= 0
	default:
		return c >= 0
	}
}
