package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/vela/pkg/interp"
	"github.com/leapstack-labs/vela/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScript(t *testing.T, ext *Extension, src string) *interp.Interpreter {
	t.Helper()
	it, err := interp.New(interp.WithExtensions(ext))
	require.NoError(t, err)
	prog, err := parser.ParseString(src)
	require.NoError(t, err)
	require.NoError(t, it.Run(context.Background(), prog))
	return it
}

func TestStore_RoundTrip(t *testing.T) {
	ext, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ext.Close() })

	it := runScript(t, ext, `
store_set("user", { nome: "Vitor", idade: 30, tags: ["a", "b"] });
store_set("count", 3);
var user = store_get("user");
var count = store_get("count");
var missing = store_get("nope");
var removed = store_delete("count");
var again = store_delete("count");
var keys = store_keys();
`)

	user, _ := it.Globals().Get("user")
	obj, ok := user.(*interp.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"nome", "idade", "tags"}, obj.Keys())

	want := map[string]interp.Value{
		"count":   3.0,
		"missing": nil,
		"removed": true,
		"again":   false,
		"keys":    interp.NewArray("user"),
	}
	for name, expected := range want {
		v, err := it.Globals().Get(name)
		require.NoError(t, err)
		assert.Equal(t, expected, v, name)
	}
}

func TestStore_PersistsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vela.db")

	first, err := Open(path)
	require.NoError(t, err)
	runScript(t, first, `store_set("greeting", "olá");`)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	it := runScript(t, second, `var g = store_get("greeting");`)
	g, _ := it.Globals().Get("g")
	assert.Equal(t, "olá", g)
}

func TestStore_Errors(t *testing.T) {
	ext, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ext.Close() })
	ctx := context.Background()

	_, err = ext.set(ctx, []interp.Value{1.0, "v"})
	assert.True(t, interp.IsKind(err, interp.TypeError))

	fn := interp.NewNative("f", func(context.Context, []interp.Value) (interp.Value, error) { return nil, nil })
	_, err = ext.set(ctx, []interp.Value{"k", fn})
	assert.True(t, interp.IsKind(err, interp.TypeError))
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "no", "such", "dir", "x.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open store")
}
