// Package input provides input(prompt) for reading a line from the user.
package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/vela/pkg/extensions"
	"github.com/leapstack-labs/vela/pkg/interp"
	"golang.org/x/term"
)

func init() {
	extensions.Register("input", "input", func(opts extensions.Options) (interp.Extension, error) {
		if opts.Lines != nil {
			return NewWithReader(opts.Lines), nil
		}
		return New(opts.Stdin, opts.Stdout), nil
	})
}

// LineReader reads one line after showing prompt.
type LineReader = extensions.LineReader

// Extension implements interp.Extension.
type Extension struct {
	once   sync.Once
	in     io.Reader
	out    io.Writer
	reader LineReader
	closer io.Closer
}

// New creates an input extension. When in is a terminal, lines are read
// with readline; otherwise a buffered reader is used and the prompt is
// written to out.
func New(in io.Reader, out io.Writer) *Extension {
	return &Extension{in: in, out: out}
}

// NewWithReader creates an input extension over a custom LineReader.
func NewWithReader(r LineReader) *Extension {
	e := &Extension{reader: r}
	e.once.Do(func() {})
	return e
}

// Name implements interp.Extension.
func (e *Extension) Name() string { return "input" }

// Register implements interp.Extension.
func (e *Extension) Register(globals *interp.Scope) error {
	return globals.DefineNative("input", e.input)
}

// Close releases the terminal if readline was started.
func (e *Extension) Close() error {
	if e.closer != nil {
		return e.closer.Close()
	}
	return nil
}

// input returns the line without its terminator. End of input yields "".
func (e *Extension) input(_ context.Context, args []interp.Value) (interp.Value, error) {
	prompt := ""
	if p := interp.Arg(args, 0); p != nil {
		prompt = interp.ToString(p)
	}

	e.once.Do(e.init)
	line, err := e.reader.ReadLine(prompt)
	if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
		return "", nil
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return line, nil
}

func (e *Extension) init() {
	if f, ok := e.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		rl, err := readline.NewEx(&readline.Config{
			Stdin:           f,
			Stdout:          e.out,
			InterruptPrompt: "^C",
		})
		if err == nil {
			e.reader = &terminalReader{rl: rl}
			e.closer = rl
			return
		}
	}
	e.reader = &bufferedReader{r: bufio.NewReader(e.in), out: e.out}
}

type terminalReader struct {
	rl *readline.Instance
}

func (t *terminalReader) ReadLine(prompt string) (string, error) {
	t.rl.SetPrompt(prompt)
	return t.rl.Readline()
}

type bufferedReader struct {
	r   *bufio.Reader
	out io.Writer
}

func (b *bufferedReader) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		if _, err := io.WriteString(b.out, prompt); err != nil {
			return "", err
		}
	}
	line, err := b.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
