package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/vela/internal/cli/output"
	"github.com/leapstack-labs/vela/pkg/interp"
	"github.com/leapstack-labs/vela/pkg/parser"
	"github.com/leapstack-labs/vela/pkg/token"
	"github.com/leapstack-labs/vela/pkg/vela"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	replPrompt         = "vela> "
	replContinuePrompt = "  ... "
	replName           = "<repl>"
)

var errREPLInterrupt = errors.New("interrupt")

// lineReader abstracts line input so the REPL works with a terminal or a pipe.
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

type readlineReader struct {
	rl *readline.Instance
}

func (r *readlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", errREPLInterrupt
	}
	return line, err
}

func (r *readlineReader) Close() error { return r.rl.Close() }

// bufferedReader reads piped input. Prompts are not echoed.
type bufferedReader struct {
	sc *bufio.Scanner
}

func (r *bufferedReader) ReadLine(string) (string, error) {
	if r.sc.Scan() {
		return r.sc.Text(), nil
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *bufferedReader) Close() error { return nil }

// scriptInput lets input() share the session's reader, so script reads and
// REPL reads consume the same stream in order.
type scriptInput struct {
	r    lineReader
	echo io.Writer // prompt destination when the reader does not show one
}

func (in *scriptInput) ReadLine(prompt string) (string, error) {
	if in.echo != nil && prompt != "" {
		_, _ = io.WriteString(in.echo, prompt)
	}
	line, err := in.r.ReadLine(prompt)
	if errors.Is(err, errREPLInterrupt) {
		return "", io.EOF
	}
	return line, err
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Long: `Start an interactive read-eval-print loop.

Every input runs in the same global scope, so variables and functions stay
defined between inputs. Input that ends mid-statement continues on the next
line. Dot commands:

  .help           Show help
  .vars           List global names
  .reset          Start over with a fresh interpreter
  .quit / .exit   Leave the REPL`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}
}

type replSession struct {
	cmd      *cobra.Command
	cmdCtx   *CommandContext
	it       *interp.Interpreter
	cleanup  func()
	renderer *output.Renderer
	input    *scriptInput
}

func runREPL(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	s := &replSession{cmd: cmd, cmdCtx: cmdCtx, renderer: cmdCtx.Renderer}

	// The reader exists before the interpreter so input() reads through it.
	reader, err := s.newLineReader()
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	if err := s.reset(); err != nil {
		return err
	}
	defer func() { s.cleanup() }()

	if cmdCtx.Renderer.IsTTY() {
		s.renderer.Println("Vela REPL")
		s.renderer.Muted("Type .help for commands, .quit to exit")
	}
	return s.loop(reader)
}

func (s *replSession) newLineReader() (lineReader, error) {
	in := s.cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) && s.renderer.IsTTY() { // #nosec G115 -- fd fits in int
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          replPrompt,
			HistoryFile:     s.cmdCtx.Cfg.REPL.HistoryFile,
			AutoComplete:    s.completer(),
			InterruptPrompt: "^C",
			EOFPrompt:       ".quit",
			Stdin:           f,
			Stdout:          s.cmd.OutOrStdout(),
			Stderr:          s.cmd.ErrOrStderr(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize REPL: %w", err)
		}
		r := &readlineReader{rl: rl}
		s.input = &scriptInput{r: r}
		return r, nil
	}
	r := &bufferedReader{sc: bufio.NewScanner(in)}
	s.input = &scriptInput{r: r, echo: s.cmd.OutOrStdout()}
	return r, nil
}

func (s *replSession) loop(reader lineReader) error {
	var buf strings.Builder
	for {
		prompt := replPrompt
		if buf.Len() > 0 {
			prompt = replContinuePrompt
		}
		line, err := reader.ReadLine(prompt)
		if errors.Is(err, errREPLInterrupt) {
			buf.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if buf.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, ".") {
				if quit := s.dotCommand(trimmed); quit {
					return nil
				}
				continue
			}
		} else {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)

		source := buf.String()
		prog, err := vela.Compile(source)
		if err != nil {
			if incomplete(err) {
				continue
			}
			buf.Reset()
			s.renderer.ScriptError(replName, source, err)
			continue
		}
		buf.Reset()

		if err := s.it.Run(s.cmd.Context(), prog); err != nil {
			s.renderer.ScriptError(replName, source, err)
		}
		if err := s.cmd.Context().Err(); err != nil {
			return nil
		}
	}
}

// incomplete reports whether err means the input stopped mid-construct, so
// another line may complete it.
func incomplete(err error) bool {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.AtEnd()
	}
	var lexErr *parser.LexError
	if errors.As(err, &lexErr) {
		return lexErr.Message == parser.ErrUnterminatedString || lexErr.Message == parser.ErrUnterminatedComment
	}
	return false
}

func (s *replSession) dotCommand(line string) (quit bool) {
	command := strings.ToLower(strings.Fields(line)[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.renderer)

	case ".vars":
		s.printVars()

	case ".reset":
		s.cleanup()
		s.cleanup = func() {}
		if err := s.reset(); err != nil {
			s.renderer.Error(err.Error())
			return true
		}
		s.renderer.Muted("interpreter reset")

	default:
		s.renderer.Error(fmt.Sprintf("unknown command: %s (type .help for commands)", command))
	}
	return false
}

// reset replaces the interpreter with a fresh one.
func (s *replSession) reset() error {
	it, cleanup, err := s.cmdCtx.newInterpreter(s.cmd, s.input)
	if err != nil {
		return err
	}
	s.it, s.cleanup = it, cleanup
	return nil
}

func (s *replSession) printVars() {
	globals := s.it.Globals()
	names := globals.Names()
	rows := make([][]any, 0, len(names))
	for _, name := range names {
		v, _ := globals.Lookup(name)
		kind := "var"
		if globals.IsConstant(name) {
			kind = "val"
		}
		rows = append(rows, []any{name, kind, interp.TypeName(v), summarize(interp.Inspect(v))})
	}
	s.renderer.Table([]string{"Name", "Binding", "Type", "Value"}, rows)
}

// summarize keeps table cells on one line.
func summarize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return s
}

func printREPLHelp(r *output.Renderer) {
	r.Println(`Commands:
  .help           Show this help message
  .vars           List global names
  .reset          Start over with a fresh interpreter
  .quit / .exit   Exit the REPL

Tips:
  - Statements end with a semicolon (;)
  - Unfinished input continues on the next line; Ctrl+C discards it
  - Tab completes keywords and global names`)
}

// completer offers dot commands, keywords and the current global names.
func (s *replSession) completer() *readline.PrefixCompleter {
	words := append([]string{".help", ".vars", ".reset", ".quit", ".exit"}, token.Keywords()...)
	sort.Strings(words)

	items := make([]readline.PrefixCompleterInterface, 0, len(words)+1)
	for _, w := range words {
		items = append(items, readline.PcItem(w))
	}
	items = append(items, readline.PcItemDynamic(func(string) []string {
		if s.it == nil {
			return nil
		}
		return s.it.Globals().Names()
	}))
	return readline.NewPrefixCompleter(items...)
}
