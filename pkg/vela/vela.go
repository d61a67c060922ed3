// Package vela runs the whole pipeline, source text to side effects, in one
// call. Hosts that need more control use packages parser and interp
// directly.
package vela

import (
	"context"

	"github.com/leapstack-labs/vela/pkg/interp"
	"github.com/leapstack-labs/vela/pkg/parser"
)

// Compile lexes and parses source. Errors are *parser.LexError or
// *parser.ParseError.
func Compile(source string) (*parser.Program, error) {
	return parser.ParseString(source)
}

// Exec compiles source, registers exts on a fresh interpreter and runs the
// program. Nothing is evaluated if compilation or registration fails.
func Exec(ctx context.Context, source string, exts ...interp.Extension) error {
	prog, err := Compile(source)
	if err != nil {
		return err
	}
	it, err := interp.New(interp.WithExtensions(exts...))
	if err != nil {
		return err
	}
	return it.Run(ctx, prog)
}
