package commands

import (
	"fmt"

	"github.com/leapstack-labs/vela/internal/cli/output"
	"github.com/leapstack-labs/vela/pkg/parser"
	"github.com/leapstack-labs/vela/pkg/vela"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewASTCommand creates the ast command.
func NewASTCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the syntax tree of a script",
		Long: `Parse a script and print its syntax tree. Each node carries its kind and
source position.

The default format is YAML; --output json (or --format json) prints JSON.`,
		Example: `  vela ast hello.vl
  vela ast --format json hello.vl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			if format == "" {
				format = "yaml"
				if cmdCtx.Renderer.EffectiveMode() == output.ModeJSON {
					format = "json"
				}
			}
			if format != "yaml" && format != "json" {
				return fmt.Errorf("invalid format %q (expected yaml or json)", format)
			}

			source, err := readScript(cmd, args[0])
			if err != nil {
				return err
			}
			prog, err := vela.Compile(source)
			if err != nil {
				cmdCtx.Renderer.ScriptError(displayName(args[0]), source, err)
				return &ReportedError{Err: err}
			}
			return renderAST(cmdCtx.Renderer, prog, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: yaml or json")

	return cmd
}

func renderAST(r *output.Renderer, prog *parser.Program, format string) error {
	if format == "json" {
		v, err := parser.EncodeValue(prog)
		if err != nil {
			return err
		}
		return r.JSON(v)
	}

	enc := yaml.NewEncoder(r.Writer())
	enc.SetIndent(2)
	if err := enc.Encode(parser.Encode(prog)); err != nil {
		return fmt.Errorf("failed to encode ast: %w", err)
	}
	return enc.Close()
}
