package interp

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/leapstack-labs/vela/pkg/parser"
)

// Value is a runtime value. The dynamic type is one of:
//
//	nil            the absent value
//	float64        number
//	string         string
//	bool           boolean
//	*Array         ordered sequence
//	*Object        string-keyed mapping, insertion ordered
//	*Function      user-defined closure
//	*NativeFunc    host function installed by an extension
type Value any

// Array is a mutable ordered sequence of values.
type Array struct {
	Elems []Value
}

// NewArray creates an array holding elems.
func NewArray(elems ...Value) *Array {
	return &Array{Elems: elems}
}

// Object is a string-keyed mapping that remembers insertion order. Order
// matters for stringification only; lookups go through the map.
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Set stores v under key, appending key if it is new.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	if _, ok := o.vals[key]; !ok {
		return
	}
	delete(o.vals, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Function is a user-defined function paired with the scope it was declared
// in. Calls see later changes to that scope.
type Function struct {
	Decl    *parser.FunctionDeclaration
	Closure *Scope
}

// Name returns the declared function name.
func (f *Function) Name() string { return f.Decl.Name }

// NativeFn is the Go signature of a host function.
type NativeFn func(ctx context.Context, args []Value) (Value, error)

// NativeFunc is a named host function. Missing arguments are not padded;
// the function sees exactly what the call site passed.
type NativeFunc struct {
	Name string
	Fn   NativeFn
}

// NewNative wraps fn as a callable value.
func NewNative(name string, fn NativeFn) *NativeFunc {
	return &NativeFunc{Name: name, Fn: fn}
}

// TypeName returns the user-facing name of v's type.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	case *Array:
		return "array"
	case *Object:
		return "object"
	case *Function, *NativeFunc:
		return "function"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Truthy reports whether v counts as true in a condition. false, 0, NaN, ""
// and nil are falsy; everything else is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0 && !math.IsNaN(val)
	case string:
		return val != ""
	default:
		return true
	}
}

// Equal reports strict equality: same type and same value. Arrays, objects
// and functions compare by identity.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case *Array:
		y, ok := b.(*Array)
		return ok && x == y
	case *Object:
		y, ok := b.(*Object)
		return ok && x == y
	case *Function:
		y, ok := b.(*Function)
		return ok && x == y
	case *NativeFunc:
		y, ok := b.(*NativeFunc)
		return ok && x == y
	}
	return false
}

// FormatNumber renders a number the way scripts see it: integers without a
// fractional part, everything else in shortest round-trip form.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToString converts v to its string form, as used by string concatenation.
// Arrays and objects render as compact JSON.
func ToString(v Value) string {
	switch val := v.(type) {
	case nil:
		return "undefined"
	case string:
		return val
	case float64:
		return FormatNumber(val)
	case bool:
		return strconv.FormatBool(val)
	case *Function:
		return fmt.Sprintf("<fun %s>", val.Name())
	case *NativeFunc:
		return fmt.Sprintf("<native %s>", val.Name)
	case *Array, *Object:
		s, err := ToJSON(val, "")
		if err != nil {
			return fmt.Sprintf("<%s>", TypeName(val))
		}
		return s
	}
	return fmt.Sprint(v)
}

// Inspect renders v for display: like ToString, but strings inside arrays
// and objects are quoted.
func Inspect(v Value) string {
	var b strings.Builder
	inspect(&b, v)
	return b.String()
}

func inspect(b *strings.Builder, v Value) {
	switch val := v.(type) {
	case *Array:
		b.WriteByte('[')
		for i, e := range val.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			inspectElem(b, e)
		}
		b.WriteByte(']')
	case *Object:
		b.WriteByte('{')
		for i, k := range val.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			inspectElem(b, val.vals[k])
		}
		b.WriteByte('}')
	default:
		b.WriteString(ToString(v))
	}
}

func inspectElem(b *strings.Builder, v Value) {
	if s, ok := v.(string); ok {
		b.WriteString(strconv.Quote(s))
		return
	}
	inspect(b, v)
}
