package extensions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/leapstack-labs/vela/pkg/extensions"
	_ "github.com/leapstack-labs/vela/pkg/extensions/all"
	"github.com/leapstack-labs/vela/pkg/interp"
	"github.com/leapstack-labs/vela/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultSet = []string{"utils", "math", "date", "input", "http"}

func TestNames(t *testing.T) {
	assert.Subset(t, extensions.Names(), []string{"date", "http", "input", "math", "starlark", "store", "strs", "utils"})
	assert.IsIncreasing(t, extensions.Names())
	assert.Equal(t, "get", extensions.Description("http"))
}

func TestBuiltin_Unknown(t *testing.T) {
	_, err := extensions.Builtin("nope", extensions.Options{})
	require.Error(t, err)

	var unknown *extensions.UnknownExtensionError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nope", unknown.Name)
	assert.Contains(t, unknown.Available, "utils")
	assert.Contains(t, err.Error(), "Hint: Check extensions in vela.yaml")
}

func TestProvides(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"utils", []string{"keys", "len", "print", "typeof", "uuid"}},
		{"math", []string{"floor", "random", "randomBetween", "round", "sub", "sum"}},
		{"date", []string{"date", "date_add", "date_diff", "date_format"}},
		{"http", []string{"get"}},
		{"store", []string{"store_delete", "store_get", "store_keys", "store_set"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := extensions.Builtin(tt.name, extensions.Options{})
			require.NoError(t, err)
			t.Cleanup(func() { _ = extensions.Close([]interp.Extension{ext}) })

			got, err := extensions.Provides(ext)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_DefaultSetRuns(t *testing.T) {
	exts, err := extensions.Load(defaultSet, extensions.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = extensions.Close(exts) })

	it, err := interp.New(interp.WithExtensions(exts...))
	require.NoError(t, err)
	assert.Len(t, it.Extensions(), len(defaultSet))

	for _, name := range []string{"print", "sum", "date", "input", "get"} {
		_, err := it.Globals().Get(name)
		assert.NoError(t, err, name)
	}
	require.NoError(t, it.Run(context.Background(), &parser.Program{}))
}

func TestLoad_UnknownClosesPrevious(t *testing.T) {
	closed := false
	extensions.Register("closer-test", "", func(extensions.Options) (interp.Extension, error) {
		return &closer{onClose: func() { closed = true }}, nil
	})

	_, err := extensions.Load([]string{"closer-test", "missing"}, extensions.Options{})
	require.Error(t, err)
	assert.True(t, closed)
}

func TestLoad_ConflictingNames(t *testing.T) {
	exts, err := extensions.Load([]string{"utils", "utils"}, extensions.Options{})
	require.NoError(t, err)

	_, err = interp.New(interp.WithExtensions(exts...))
	require.Error(t, err)
	assert.True(t, interp.IsKind(err, interp.ResolutionError))
}

type closer struct {
	onClose func()
}

func (c *closer) Name() string                 { return "closer-test" }
func (c *closer) Register(*interp.Scope) error { return nil }
func (c *closer) Close() error {
	c.onClose()
	return nil
}
