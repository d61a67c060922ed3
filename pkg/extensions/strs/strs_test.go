package strs

import (
	"context"
	"testing"

	"github.com/leapstack-labs/vela/pkg/interp"
	"github.com/leapstack-labs/vela/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestStrings(t *testing.T) {
	it, err := interp.New(interp.WithExtensions(New(language.Und)))
	require.NoError(t, err)

	prog, err := parser.ParseString(`
var a = upper("straße");
var b = lower("ÇÃO");
var c = title("hello wide world");
var d = trim("  padded   ");
var e = split("a,b,,c", ",");
var f = join(["x", 1, {}.missing], "-");
var g = join(split("abc", ""));
var h = contains("haystack", "st");
var i = contains([1, "2", 3], "2");
var j = contains([1, 2], "1");
var k = str([1, { a: "b" }]);
`)
	require.NoError(t, err)
	require.NoError(t, it.Run(context.Background(), prog))

	want := map[string]interp.Value{
		"a": "STRASSE",
		"b": "ção",
		"c": "Hello Wide World",
		"d": "padded",
		"e": interp.NewArray("a", "b", "", "c"),
		"f": "x-1-undefined",
		"g": "a,b,c",
		"h": true,
		"i": true,
		"j": false,
		"k": `[1,{"a":"b"}]`,
	}
	for name, expected := range want {
		v, err := it.Globals().Get(name)
		require.NoError(t, err)
		assert.Equal(t, expected, v, name)
	}
}

func TestTurkishCasing(t *testing.T) {
	ext := New(language.Turkish)
	it, err := interp.New(interp.WithExtensions(ext))
	require.NoError(t, err)

	prog, err := parser.ParseString(`var u = upper("i");`)
	require.NoError(t, err)
	require.NoError(t, it.Run(context.Background(), prog))

	v, _ := it.Globals().Get("u")
	assert.Equal(t, "İ", v)
}

func TestTypeErrors(t *testing.T) {
	ctx := context.Background()

	_, err := join(ctx, []interp.Value{"not an array"})
	assert.True(t, interp.IsKind(err, interp.TypeError))

	_, err = contains(ctx, []interp.Value{1.0, 1.0})
	assert.True(t, interp.IsKind(err, interp.TypeError))
}
