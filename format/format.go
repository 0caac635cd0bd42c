package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/cxxparse/cxx/parser"
)

// Encoder writes a syntax tree in one output format.
type Encoder interface {
	Encode(a *parser.AST) error
}

// Formats lists the names accepted by NewEncoder.
var Formats = []string{"tree", "sexpr", "json", "yaml", "c", "lines"}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "tree":
		return &TreeEncoder{w: w}, nil
	case "sexpr":
		return &SExprEncoder{w: w}, nil
	case "json":
		return NewASTJSONEncoder(w), nil
	case "yaml":
		return NewASTYAMLEncoder(w), nil
	case "c":
		return NewCPrettyPrinter(w), nil
	case "lines":
		return NewLineEncoder(w, nil), nil
	}
	return nil, fmt.Errorf("unknown format %q, want one of %v", name, Formats)
}

// TreeEncoder writes the indented outline of the tree.
type TreeEncoder struct {
	w io.Writer
}

func (e *TreeEncoder) Encode(a *parser.AST) error {
	_, err := io.WriteString(e.w, a.String(a.Root()))
	return err
}

// SExprEncoder writes each top-level node in prefix notation, one per line.
type SExprEncoder struct {
	w io.Writer
}

func (e *SExprEncoder) Encode(a *parser.AST) error {
	root := a.Root()
	items := []parser.NodeID{root}
	if a.Kind(root) == parser.KindTranslationUnit {
		items = a.ChildrenWith(root, parser.PropDeclaration)
	}
	for _, id := range items {
		if _, err := fmt.Fprintln(e.w, a.SExpr(id)); err != nil {
			return err
		}
	}
	return nil
}
