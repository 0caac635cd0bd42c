package format

import (
	"bytes"
	"io"
	"strings"

	"github.com/dhamidi/cxxparse/cxx/parser"
)

// CPrettyPrinter renders a tree back to C source. Active code only is
// printed, with one declaration or statement per line, and parentheses
// only where the tree shape needs them.
type CPrettyPrinter struct {
	w           io.Writer
	ast         *parser.AST
	indent      int
	indentStr   string
	atLineStart bool
	column      int // Current column position (0-indexed)
	err         error
}

func NewCPrettyPrinter(w io.Writer) *CPrettyPrinter {
	return &CPrettyPrinter{
		w:           w,
		indentStr:   "    ",
		atLineStart: true,
	}
}

func (p *CPrettyPrinter) Encode(a *parser.AST) error {
	return p.Print(a, a.Root())
}

// Print renders the subtree rooted at id. Expressions are written without
// a trailing newline.
func (p *CPrettyPrinter) Print(a *parser.AST, id parser.NodeID) error {
	p.ast = a
	p.err = nil
	p.printNode(id)
	return p.err
}

func (p *CPrettyPrinter) printNode(id parser.NodeID) {
	a := p.ast
	id = p.choose(id)
	switch kind := a.Kind(id); {
	case kind == parser.KindTranslationUnit:
		p.printTranslationUnit(id)
	case kind == parser.KindSimpleDeclaration || kind == parser.KindFunctionDefinition:
		p.printDeclarationLine(id)
	case kind == parser.KindTypeID:
		p.printTypeID(id)
	case kind.IsStatement():
		p.printStatement(id)
	default:
		p.printExpr(id)
	}
}

// choose picks the reading of an ambiguous node to print: the resolved one,
// or the first alternative.
func (p *CPrettyPrinter) choose(id parser.NodeID) parser.NodeID {
	a := p.ast
	if a.Kind(id) != parser.KindAmbiguous {
		return id
	}
	if resolved, ok := a.Resolved(id); ok {
		return resolved
	}
	if alts := a.Alternatives(id); len(alts) > 0 {
		return alts[0]
	}
	return id
}

func (p *CPrettyPrinter) printTranslationUnit(id parser.NodeID) {
	a := p.ast
	prevFunction := false
	for i, decl := range a.ChildrenWith(id, parser.PropDeclaration) {
		if !a.IsActive(decl) {
			continue
		}
		isFunction := a.Kind(decl) == parser.KindFunctionDefinition
		if i > 0 && (isFunction || prevFunction) {
			p.newline()
		}
		p.printNode(decl)
		prevFunction = isFunction
	}
}

func (p *CPrettyPrinter) writeIndent() {
	if !p.atLineStart {
		return
	}
	for i := 0; i < p.indent; i++ {
		p.write(p.indentStr)
	}
	p.atLineStart = false
}

func (p *CPrettyPrinter) write(s string) {
	if _, err := p.w.Write([]byte(s)); err != nil && p.err == nil {
		p.err = err
	}
	if idx := strings.LastIndex(s, "\n"); idx >= 0 {
		p.column = len(s) - idx - 1
	} else {
		p.column += len(s)
	}
}

func (p *CPrettyPrinter) newline() {
	p.write("\n")
	p.atLineStart = true
	p.column = 0
}

// render prints with a scratch printer and returns the text, so that
// callers can decide on separators before writing.
func (p *CPrettyPrinter) render(fn func(mp *CPrettyPrinter)) string {
	var buf bytes.Buffer
	mp := &CPrettyPrinter{
		w:         &buf,
		ast:       p.ast,
		indent:    p.indent,
		indentStr: p.indentStr,
	}
	fn(mp)
	return buf.String()
}

// PrettyPrintC parses source and renders it back. The tree is printed even
// when it has problems; the problem nodes keep their source spelling.
func PrettyPrintC(source []byte, opts ...parser.Option) ([]byte, error) {
	tree, err := parser.ParseTranslationUnit(bytes.NewReader(source), opts...).Finish()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	pp := NewCPrettyPrinter(&buf)
	if err := pp.Encode(tree.AST); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
