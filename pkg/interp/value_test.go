package interp

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"zero", 0.0, false},
		{"nan", math.NaN(), false},
		{"negative", -1.0, true},
		{"empty string", "", false},
		{"string", "0", true},
		{"empty array", NewArray(), true},
		{"empty object", NewObject(), true},
		{"native", NewNative("f", nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(tt.value))
		})
	}
}

func TestBinaryOp(t *testing.T) {
	arr := NewArray()
	tests := []struct {
		op          string
		left, right Value
		want        Value
	}{
		{"+", 1.0, 2.0, 3.0},
		{"+", "a", "b", "ab"},
		{"+", "a", nil, "aundefined"},
		{"+", true, "!", "true!"},
		{"-", 5.0, 7.0, -2.0},
		{"*", 1.5, 2.0, 3.0},
		{"/", 1.0, 0.0, math.Inf(1)},
		{"<", 1.0, 2.0, true},
		{">=", 2.0, 2.0, true},
		{"<", "apple", "banana", true},
		{">", math.NaN(), 1.0, false},
		{"<=", math.NaN(), 1.0, false},
		{"==", 1.0, 1.0, true},
		{"==", 1.0, "1", false},
		{"==", nil, nil, true},
		{"==", arr, arr, true},
		{"==", NewArray(), NewArray(), false},
		{"!=", "a", "b", true},
	}

	for _, tt := range tests {
		t.Run(ToString(tt.left)+tt.op+ToString(tt.right), func(t *testing.T) {
			got, err := binaryOp(tt.op, tt.left, tt.right)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBinaryOp_Errors(t *testing.T) {
	_, err := binaryOp("%", 1.0, 2.0)
	require.Error(t, err)
	assert.True(t, IsKind(err, TypeError))
	assert.Contains(t, err.Error(), "unknown binary operator")

	_, err = binaryOp("*", "a", 2.0)
	assert.True(t, IsKind(err, TypeError))

	_, err = binaryOp("+", 1.0, true)
	assert.True(t, IsKind(err, TypeError))
}

func TestToString(t *testing.T) {
	obj := NewObject()
	obj.Set("b", 1.0)
	obj.Set("a", "<x>")

	tests := []struct {
		value Value
		want  string
	}{
		{nil, "undefined"},
		{3.0, "3"},
		{0.1, "0.1"},
		{-2.5, "-2.5"},
		{1e21, "1000000000000000000000"},
		{math.NaN(), "NaN"},
		{math.Inf(-1), "-Infinity"},
		{true, "true"},
		{"raw", "raw"},
		{NewArray(1.0, "a", nil), `[1,"a",null]`},
		{obj, `{"b":1,"a":"<x>"}`},
		{NewNative("print", nil), "<native print>"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.value))
		})
	}
}

func TestInspect(t *testing.T) {
	inner := NewObject()
	inner.Set("k", "v")
	v := NewArray(1.0, "s", inner)
	assert.Equal(t, `[1, "s", {k: "v"}]`, Inspect(v))
	assert.Equal(t, "plain", Inspect("plain"))
}

func TestObject_Order(t *testing.T) {
	obj := NewObject()
	obj.Set("z", 1.0)
	obj.Set("a", 2.0)
	obj.Set("z", 3.0)
	assert.Equal(t, []string{"z", "a"}, obj.Keys())

	v, ok := obj.Get("z")
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	obj.Delete("z")
	obj.Delete("missing")
	assert.Equal(t, []string{"a"}, obj.Keys())
	assert.Equal(t, 1, obj.Len())
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "nil", TypeName(nil))
	assert.Equal(t, "number", TypeName(1.0))
	assert.Equal(t, "boolean", TypeName(false))
	assert.Equal(t, "array", TypeName(NewArray()))
	assert.Equal(t, "object", TypeName(NewObject()))
	assert.Equal(t, "function", TypeName(NewNative("f", nil)))
	assert.True(t, strings.HasPrefix(TypeName(struct{}{}), "struct"))
}
