package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/leapstack-labs/vela/pkg/vela"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 100 * time.Millisecond

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a script",
		Long: `Lex, parse and evaluate a vela script with the configured extensions.

Lexical and syntax errors are reported before anything runs. Runtime errors
stop the script at the failing statement; output already produced stays.

Use "-" as the file to read the script from standard input.`,
		Example: `  # Run a script
  vela run hello.vl

  # Re-run on every save
  vela run --watch hello.vl

  # Only load some extensions
  vela run --extensions utils,math hello.vl

  # Read from stdin
  echo 'print("hi");' | vela run -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return runWatch(cmd, args[0])
			}
			return runScript(cmd, args[0])
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-run the script whenever the file changes")

	return cmd
}

func runScript(cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContext(cmd)
	source, err := readScript(cmd, path)
	if err != nil {
		return err
	}
	return cmdCtx.execSource(cmd, displayName(path), source)
}

// execSource compiles and runs source in a fresh interpreter. Script errors
// are rendered with a snippet and returned as *ReportedError.
func (c *CommandContext) execSource(cmd *cobra.Command, name, source string) error {
	prog, err := vela.Compile(source)
	if err != nil {
		c.Renderer.ScriptError(name, source, err)
		return &ReportedError{Err: err}
	}

	it, cleanup, err := c.NewInterpreter(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	start := time.Now()
	if err := it.Run(cmd.Context(), prog); err != nil {
		c.Renderer.ScriptError(name, source, err)
		return &ReportedError{Err: err}
	}

	c.Logger.Debug("script finished",
		slog.String("script", name),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func runWatch(cmd *cobra.Command, path string) error {
	if path == "-" {
		return fmt.Errorf("--watch needs a file, not stdin")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	cmdCtx := NewCommandContext(cmd)
	var mu sync.Mutex
	rerun := func() {
		mu.Lock()
		defer mu.Unlock()

		source, err := os.ReadFile(abs) // #nosec G304 -- user-selected script
		if err != nil {
			cmdCtx.Renderer.Error(err.Error())
			return
		}
		// Keep watching after a failure; script errors are already rendered.
		if err := cmdCtx.execSource(cmd, path, string(source)); err != nil && !IsReported(err) {
			cmdCtx.Renderer.Error(err.Error())
		}
		cmdCtx.Renderer.Muted(fmt.Sprintf("watching %s for changes (Ctrl+C to stop)", path))
	}

	rerun()
	return watchFile(cmd.Context(), abs, watchDebounce, cmdCtx.Logger, rerun)
}
