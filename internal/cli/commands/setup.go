package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/vela/internal/cli/config"
	"github.com/leapstack-labs/vela/internal/cli/output"
	"github.com/leapstack-labs/vela/pkg/extensions"
	"github.com/leapstack-labs/vela/pkg/interp"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// getConfig returns the current configuration, or defaults when no command
// loaded one (tests constructing commands directly).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// NewInterpreter creates an interpreter with the configured extensions.
// The returned cleanup releases extension resources and must be called.
func (c *CommandContext) NewInterpreter(cmd *cobra.Command) (*interp.Interpreter, func(), error) {
	return c.newInterpreter(cmd, nil)
}

// newInterpreter is NewInterpreter with an optional line reader that input()
// reads through, for hosts that already consume stdin.
func (c *CommandContext) newInterpreter(cmd *cobra.Command, lines extensions.LineReader) (*interp.Interpreter, func(), error) {
	opts, err := c.Cfg.ExtensionOptions(c.Logger, cmd.OutOrStdout(), cmd.InOrStdin())
	if err != nil {
		return nil, nil, err
	}
	opts.Lines = lines

	exts, err := extensions.Load(c.Cfg.Extensions, opts)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := extensions.Close(exts); err != nil {
			c.Logger.Warn("failed to close extensions", slog.String("error", err.Error()))
		}
	}

	it, err := interp.New(
		interp.WithLogger(c.Logger),
		interp.WithMaxCallDepth(c.Cfg.MaxCallDepth),
		interp.WithExtensions(exts...),
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return it, cleanup, nil
}

// readScript reads a script file. "-" reads standard input.
func readScript(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-selected script
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return string(data), nil
}

// displayName is how a script is named in diagnostics.
func displayName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}

// ReportedError wraps an error that has already been shown to the user, so
// the root command only sets the exit status.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

// IsReported reports whether err was already rendered.
func IsReported(err error) bool {
	var reported *ReportedError
	return errors.As(err, &reported)
}
