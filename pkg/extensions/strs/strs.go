// Package strs provides string helpers.
package strs

import (
	"context"
	"strings"

	"github.com/leapstack-labs/vela/pkg/extensions"
	"github.com/leapstack-labs/vela/pkg/interp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func init() {
	extensions.Register("strs", "upper, lower, title, trim, split, join, contains, str", func(extensions.Options) (interp.Extension, error) {
		return New(language.Und), nil
	})
}

// Extension implements interp.Extension.
type Extension struct {
	lang language.Tag
}

// New creates a string extension. lang selects the casing rules.
func New(lang language.Tag) *Extension {
	return &Extension{lang: lang}
}

// Name implements interp.Extension.
func (e *Extension) Name() string { return "strs" }

// Register implements interp.Extension.
func (e *Extension) Register(globals *interp.Scope) error {
	return interp.Funcs{ExtName: e.Name(), Fns: map[string]interp.NativeFn{
		"upper":    e.mapString("upper", func(s string) string { return cases.Upper(e.lang).String(s) }),
		"lower":    e.mapString("lower", func(s string) string { return cases.Lower(e.lang).String(s) }),
		"title":    e.mapString("title", func(s string) string { return cases.Title(e.lang).String(s) }),
		"trim":     e.mapString("trim", strings.TrimSpace),
		"split":    split,
		"join":     join,
		"contains": contains,
		"str":      str,
	}}.Register(globals)
}

func (e *Extension) mapString(name string, fn func(string) string) interp.NativeFn {
	return func(_ context.Context, args []interp.Value) (interp.Value, error) {
		s, err := interp.StringArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		return fn(s), nil
	}
}

func split(_ context.Context, args []interp.Value) (interp.Value, error) {
	s, err := interp.StringArg("split", args, 0)
	if err != nil {
		return nil, err
	}
	sep, err := interp.OptionalStringArg("split", args, 1, "")
	if err != nil {
		return nil, err
	}
	out := interp.NewArray()
	for _, part := range strings.Split(s, sep) {
		out.Elems = append(out.Elems, part)
	}
	return out, nil
}

func join(_ context.Context, args []interp.Value) (interp.Value, error) {
	arr, err := interp.ArrayArg("join", args, 0)
	if err != nil {
		return nil, err
	}
	sep, err := interp.OptionalStringArg("join", args, 1, ",")
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(arr.Elems))
	for i, e := range arr.Elems {
		parts[i] = interp.ToString(e)
	}
	return strings.Join(parts, sep), nil
}

// contains checks substrings for strings and strict membership for arrays.
func contains(_ context.Context, args []interp.Value) (interp.Value, error) {
	switch haystack := interp.Arg(args, 0).(type) {
	case string:
		needle, err := interp.StringArg("contains", args, 1)
		if err != nil {
			return nil, err
		}
		return strings.Contains(haystack, needle), nil
	case *interp.Array:
		needle := interp.Arg(args, 1)
		for _, e := range haystack.Elems {
			if interp.Equal(e, needle) {
				return true, nil
			}
		}
		return false, nil
	default:
		return nil, interp.Errorf(interp.TypeError, "contains: expected string or array, got %s", interp.TypeName(haystack))
	}
}

func str(_ context.Context, args []interp.Value) (interp.Value, error) {
	return interp.ToString(interp.Arg(args, 0)), nil
}
