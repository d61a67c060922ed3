package commands

import (
	"fmt"
	"os"
	"runtime"

	"github.com/leapstack-labs/vela/internal/cli/output"
	"github.com/leapstack-labs/vela/pkg/vela"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// checkResult is the outcome of checking one file.
type checkResult struct {
	File   string `json:"file"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`

	source string
	err    error
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Check scripts for syntax errors without running them",
		Long: `Lex and parse each script and report lexical or syntax errors.

Nothing is executed, so runtime errors such as undefined variables are not
reported. Files are checked concurrently.`,
		Example: `  # Check one script
  vela check hello.vl

  # Check many, machine-readable
  vela check -o json scripts/*.vl`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args)
		},
	}
}

func runCheck(cmd *cobra.Command, files []string) error {
	cmdCtx := NewCommandContext(cmd)

	results := make([]checkResult, len(files))
	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			results[i] = checkFile(file)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if !r.OK {
			failed++
		}
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			switch {
			case res.OK:
				r.Success(res.File)
			case res.source == "":
				r.Error(fmt.Sprintf("%s: %s", res.File, res.Error))
			default:
				r.ScriptError(res.File, res.source, res.err)
			}
		}
	}

	if failed > 0 {
		return &ReportedError{Err: fmt.Errorf("%d of %d files failed", failed, len(files))}
	}
	return nil
}

func checkFile(file string) checkResult {
	res := checkResult{File: file}
	data, err := os.ReadFile(file) // #nosec G304 -- user-selected script
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.source = string(data)

	if _, err := vela.Compile(res.source); err != nil {
		res.err = err
		res.Error = err.Error()
		if pos, ok := output.ErrorPosition(err); ok {
			res.Line, res.Column = pos.Line, pos.Column
		}
		return res
	}
	res.OK = true
	return res
}
