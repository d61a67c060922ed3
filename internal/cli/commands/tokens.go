package commands

import (
	"github.com/leapstack-labs/vela/internal/cli/output"
	"github.com/leapstack-labs/vela/pkg/parser"
	"github.com/leapstack-labs/vela/pkg/token"
	"github.com/spf13/cobra"
)

type tokenJSON struct {
	Kind   token.Kind `json:"kind"`
	Text   string     `json:"text"`
	Line   int        `json:"line"`
	Column int        `json:"column"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a script",
		Long: `Run only the lexer over a script and print every token with its kind and
position. The stream always ends with an EndOfInput token.`,
		Example: `  vela tokens hello.vl
  vela tokens -o json hello.vl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			source, err := readScript(cmd, args[0])
			if err != nil {
				return err
			}

			toks, err := parser.Tokenize(source)
			if err != nil {
				cmdCtx.Renderer.ScriptError(displayName(args[0]), source, err)
				return &ReportedError{Err: err}
			}
			return renderTokens(cmdCtx.Renderer, toks)
		},
	}
}

func renderTokens(r *output.Renderer, toks []token.Token) error {
	if r.EffectiveMode() == output.ModeJSON {
		out := make([]tokenJSON, len(toks))
		for i, t := range toks {
			out[i] = tokenJSON{Kind: t.Kind, Text: t.Text, Line: t.Pos.Line, Column: t.Pos.Column}
		}
		return r.JSON(out)
	}

	rows := make([][]any, len(toks))
	for i, t := range toks {
		rows[i] = []any{i, t.Kind.String(), t.Text, t.Pos.String()}
	}
	r.Table([]string{"#", "Kind", "Text", "Position"}, rows)
	return nil
}
