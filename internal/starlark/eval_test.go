package starlark

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/leapstack-labs/vela/pkg/interp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluator_Eval(t *testing.T) {
	ev := NewEvaluator(nil, 0)
	ctx := context.Background()

	bindings := interp.NewObject()
	bindings.Set("xs", interp.NewArray(3.0, 1.0, 2.0))
	bindings.Set("name", "vela")

	tests := []struct {
		name string
		expr string
		want interp.Value
	}{
		{"arithmetic", "1 + 2 * 3", 7.0},
		{"bindings", "sorted(xs)", interp.NewArray(1.0, 2.0, 3.0)},
		{"comprehension", "[x * x for x in range(3)]", interp.NewArray(0.0, 1.0, 4.0)},
		{"string methods", "name.upper()", "VELA"},
		{"json module", `json.decode('{"a": [1, 2]}')["a"][1]`, 2.0},
		{"math module", "math.floor(2.7)", 2.0},
		{"struct", "struct(b = 1, a = 2)", func() interp.Value {
			o := interp.NewObject()
			o.Set("a", 2.0)
			o.Set("b", 1.0)
			return o
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.Eval(ctx, "test", tt.expr, bindings)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluator_EvalErrors(t *testing.T) {
	ev := NewEvaluator(nil, 0)
	ctx := context.Background()

	_, err := ev.Eval(ctx, "test", "undefined_var", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined: undefined_var")

	_, err = ev.Eval(ctx, "test", "1 +", nil)
	require.Error(t, err)

	bad := interp.NewObject()
	bad.Set("f", &interp.Function{})
	_, err = ev.Eval(ctx, "test", "f", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `binding "f"`)
}

func TestEvaluator_Exec(t *testing.T) {
	var out bytes.Buffer
	ev := NewEvaluator(&out, 0)

	globals, err := ev.Exec(context.Background(), "prog.star", `
def fib(n):
    a, b = 0, 1
    for _ in range(n):
        a, b = b, a + b
    return a

_hidden = 1
result = fib(n)
print("computed", result)
`, func() *interp.Object {
		o := interp.NewObject()
		o.Set("n", 10.0)
		return o
	}())
	require.NoError(t, err)

	assert.Equal(t, []string{"fib", "result"}, globals.Keys())
	result, _ := globals.Get("result")
	assert.Equal(t, 55.0, result)
	assert.Equal(t, "computed 55\n", out.String())
}

func TestEvaluator_StepLimit(t *testing.T) {
	ev := NewEvaluator(nil, 1000)

	_, err := ev.Exec(context.Background(), "loop", `
def spin():
    n = 0
    for _ in range(1000000):
        n += 1
    return n
x = spin()
`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many steps")

	// the evaluator keeps working afterwards
	got, err := ev.Eval(context.Background(), "after", "1 + 1", nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestEvaluator_Cancel(t *testing.T) {
	ev := NewEvaluator(nil, 1<<62)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := ev.Exec(ctx, "forever", `
def spin():
    n = 0
    for _ in range(1000000):
        for _ in range(1000000):
            n += 1
    return n
x = spin()
`, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEvaluator_NativeBinding(t *testing.T) {
	ev := NewEvaluator(nil, 0)
	bindings := interp.NewObject()
	bindings.Set("greet", interp.NewNative("greet", func(_ context.Context, args []interp.Value) (interp.Value, error) {
		return "oi " + interp.ToString(interp.Arg(args, 0)), nil
	}))

	got, err := ev.Eval(context.Background(), "test", `greet("ana")`, bindings)
	require.NoError(t, err)
	assert.Equal(t, "oi ana", got)
}
