package format

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// DiagnosticColors styles the parts of a diagnostic.
type DiagnosticColors struct {
	Location func(string, ...any) string
	Error    func(string, ...any) string
	Message  func(string, ...any) string
	Caret    func(string, ...any) string
}

func NewDiagnosticColors() *DiagnosticColors {
	return &DiagnosticColors{
		Location: color.New(color.Bold).SprintfFunc(),
		Error:    color.New(color.FgRed, color.Bold).SprintfFunc(),
		Message:  color.New(color.Bold).SprintfFunc(),
		Caret:    color.GreenString,
	}
}

func plain(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// DiagnosticPrinter writes the problems of a tree in the usual
// file:line:column form, followed by the source line and a caret.
type DiagnosticPrinter struct {
	w      io.Writer
	colors *DiagnosticColors
}

// NewDiagnosticPrinter colors its output when w is a terminal.
func NewDiagnosticPrinter(w io.Writer) *DiagnosticPrinter {
	p := &DiagnosticPrinter{w: w}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) && !color.NoColor {
		p.colors = NewDiagnosticColors()
	}
	return p
}

// WithColors forces colored output, or plain output when colors is nil.
func (p *DiagnosticPrinter) WithColors(colors *DiagnosticColors) *DiagnosticPrinter {
	p.colors = colors
	return p
}

// Print writes one diagnostic per problem node and returns how many were
// written.
func (p *DiagnosticPrinter) Print(a *parser.AST) (int, error) {
	c := p.colors
	if c == nil {
		c = &DiagnosticColors{Location: plain, Error: plain, Message: plain, Caret: plain}
	}
	problems := a.Problems()
	for _, id := range problems {
		prob := a.Problem(id)
		pos := a.Position(prob.Offset)
		msg := prob.Message
		if msg == "" {
			msg = prob.Code.String()
		}
		line := sourceLine(a.Source(), prob.Offset)
		width := max(1, min(prob.Length, len(line)-(pos.Column-1)))
		_, err := fmt.Fprintf(p.w, "%s %s %s\n%s\n%s\n",
			c.Location("%s:", pos),
			c.Error("error:"),
			c.Message("%s", msg),
			line,
			strings.Repeat(" ", pos.Column-1)+c.Caret("%s", "^"+strings.Repeat("~", width-1)),
		)
		if err != nil {
			return 0, err
		}
	}
	return len(problems), nil
}

func sourceLine(src []byte, offset int) string {
	offset = min(offset, len(src))
	start := strings.LastIndexByte(string(src[:offset]), '\n') + 1
	end := strings.IndexByte(string(src[offset:]), '\n')
	if end < 0 {
		return string(src[start:])
	}
	return string(src[start : offset+end])
}
