package starlark

import (
	"context"
	"testing"

	"github.com/leapstack-labs/vela/pkg/interp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

func TestToStarlark(t *testing.T) {
	obj := interp.NewObject()
	obj.Set("z", 1.0)
	obj.Set("a", interp.NewArray("x", true))

	tests := []struct {
		name    string
		input   interp.Value
		wantStr string
	}{
		{"nil", nil, "None"},
		{"bool", true, "True"},
		{"integral number", 42.0, "42"},
		{"negative integral", -3.0, "-3"},
		{"fraction", 2.5, "2.5"},
		{"huge number", 1e300, "1e+300"},
		{"string", "olá", `"olá"`},
		{"array", interp.NewArray(1.0, "b", nil), `[1, "b", None]`},
		{"object keeps order", obj, `{"z": 1, "a": ["x", True]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToStarlark(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStr, got.String())
		})
	}
}

func TestToStarlark_Unsupported(t *testing.T) {
	_, err := ToStarlark(&interp.Function{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type: function")

	_, err = ToStarlark(interp.NewArray(&interp.Function{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list index 0")
}

func TestFromStarlark(t *testing.T) {
	dict := starlark.NewDict(2)
	require.NoError(t, dict.SetKey(starlark.String("b"), starlark.MakeInt(2)))
	require.NoError(t, dict.SetKey(starlark.String("a"), starlark.None))

	wantDict := interp.NewObject()
	wantDict.Set("b", 2.0)
	wantDict.Set("a", nil)

	st := starlarkstruct.FromStringDict(starlarkstruct.Default, starlark.StringDict{
		"y": starlark.String("why"),
		"x": starlark.Float(1.5),
	})
	wantStruct := interp.NewObject()
	wantStruct.Set("x", 1.5)
	wantStruct.Set("y", "why")

	tests := []struct {
		name  string
		input starlark.Value
		want  interp.Value
	}{
		{"none", starlark.None, nil},
		{"bool", starlark.False, false},
		{"int", starlark.MakeInt(7), 7.0},
		{"float", starlark.Float(0.25), 0.25},
		{"string", starlark.String("s"), "s"},
		{"list", starlark.NewList([]starlark.Value{starlark.MakeInt(1), starlark.String("x")}), interp.NewArray(1.0, "x")},
		{"tuple", starlark.Tuple{starlark.True}, interp.NewArray(true)},
		{"dict", dict, wantDict},
		{"struct", st, wantStruct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromStarlark(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromStarlark_NonStringKey(t *testing.T) {
	dict := starlark.NewDict(1)
	require.NoError(t, dict.SetKey(starlark.MakeInt(1), starlark.True))

	_, err := FromStarlark(dict)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dict key must be string")
}

func TestWrapNative(t *testing.T) {
	double := interp.NewNative("double", func(_ context.Context, args []interp.Value) (interp.Value, error) {
		n, err := interp.NumberArg("double", args, 0)
		if err != nil {
			return nil, err
		}
		return n * 2, nil
	})

	fn, err := ToStarlark(double)
	require.NoError(t, err)

	thread := &starlark.Thread{Name: "test"}
	got, err := starlark.Call(thread, fn, starlark.Tuple{starlark.MakeInt(21)}, nil)
	require.NoError(t, err)
	assert.Equal(t, "42", got.String())

	_, err = starlark.Call(thread, fn, starlark.Tuple{starlark.String("x")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argument 1 must be a number")
}
