package output

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/vela/pkg/token"
)

// positioner is implemented by lexer, parser and runtime errors.
type positioner interface {
	Position() token.Position
}

// ErrorPosition extracts the source position carried by err, if any.
func ErrorPosition(err error) (token.Position, bool) {
	var p positioner
	if errors.As(err, &p) && p.Position().IsValid() {
		return p.Position(), true
	}
	return token.Position{}, false
}

// Snippet renders the source line at pos with a caret under the column:
//
//	1 | print(ghost);
//	  |       ^
//
// Tabs before the column are kept so the caret lines up. It returns "" when
// pos is outside source.
func Snippet(source string, pos token.Position) string {
	lines := strings.Split(source, "\n")
	if !pos.IsValid() || pos.Line > len(lines) {
		return ""
	}
	line := strings.TrimRight(lines[pos.Line-1], "\r")

	var pad strings.Builder
	col := 1
	for _, r := range line {
		if col >= pos.Column {
			break
		}
		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteRune(' ')
		}
		col++
	}
	// Columns past the end of the line (end of input) sit after the last rune.
	for ; col < pos.Column; col++ {
		pad.WriteRune(' ')
	}

	num := strconv.Itoa(pos.Line)
	gutter := strings.Repeat(" ", len(num))
	return fmt.Sprintf("%s | %s\n%s | %s^", num, line, gutter, pad.String())
}

// ScriptError prints err for the named script, followed by a caret snippet
// when the error carries a position inside source.
func (r *Renderer) ScriptError(name, source string, err error) {
	s := r.styles
	r.Error(fmt.Sprintf("%s: %v", name, err))

	pos, ok := ErrorPosition(err)
	if !ok {
		return
	}
	snippet := Snippet(source, pos)
	if snippet == "" {
		return
	}
	lines := strings.SplitN(snippet, "\n", 2)
	gutterEnd := strings.Index(lines[0], "|") + 1
	_, _ = fmt.Fprintln(r.errOut, s.Gutter.Render(lines[0][:gutterEnd])+lines[0][gutterEnd:])
	_, _ = fmt.Fprintln(r.errOut, s.Gutter.Render(lines[1][:gutterEnd])+s.Caret.Render(lines[1][gutterEnd:]))
}
