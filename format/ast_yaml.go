package format

import (
	"io"

	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/goccy/go-yaml"
)

// ASTYAMLEncoder writes the same document as ASTJSONEncoder as YAML.
type ASTYAMLEncoder struct {
	w io.Writer
}

func NewASTYAMLEncoder(w io.Writer) *ASTYAMLEncoder {
	return &ASTYAMLEncoder{w: w}
}

func (e *ASTYAMLEncoder) Encode(a *parser.AST) error {
	text, err := e.MarshalText(a)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTYAMLEncoder) MarshalText(a *parser.AST) ([]byte, error) {
	return yaml.MarshalWithOptions(nodeToJSON(a, a.Root()), yaml.IndentSequence(true))
}
