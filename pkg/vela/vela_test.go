package vela

import (
	"context"
	"testing"

	"github.com/leapstack-labs/vela/pkg/interp"
	"github.com/leapstack-labs/vela/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(out *[]string) interp.Extension {
	return interp.Funcs{ExtName: "capture", Fns: map[string]interp.NativeFn{
		"print": func(_ context.Context, args []interp.Value) (interp.Value, error) {
			for _, a := range args {
				*out = append(*out, interp.ToString(a))
			}
			return nil, nil
		},
	}}
}

func TestExec(t *testing.T) {
	var out []string
	err := Exec(context.Background(), `
var pessoa = { nome: "Vitor", idade: 30 };
fun saudar(p) {
  var idade = p.idade;
  var nome = p.nome;
  if (idade >= 18) { return "Ola, " + nome; }
  return "Oi";
}
print(saudar(pessoa));
`, capture(&out))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ola, Vitor"}, out)
}

func TestExec_ErrorStages(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, err error)
	}{
		{"lex", `var a = $;`, func(t *testing.T, err error) {
			var lexErr *parser.LexError
			assert.ErrorAs(t, err, &lexErr)
		}},
		{"parse", `var a = ;`, func(t *testing.T, err error) {
			var parseErr *parser.ParseError
			assert.ErrorAs(t, err, &parseErr)
		}},
		{"runtime", `print(ghost);`, func(t *testing.T, err error) {
			assert.True(t, interp.IsKind(err, interp.ResolutionError))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out []string
			err := Exec(context.Background(), "print(1);\n"+tt.src, capture(&out))
			require.Error(t, err)
			tt.check(t, err)
			if tt.name == "runtime" {
				assert.Equal(t, []string{"1"}, out, "statements before the failure ran")
			} else {
				assert.Empty(t, out, "nothing runs when compilation fails")
			}
		})
	}
}

func TestCompile(t *testing.T) {
	prog, err := Compile(`var x = 1;`)
	require.NoError(t, err)
	assert.Len(t, prog.Statements, 1)
}
