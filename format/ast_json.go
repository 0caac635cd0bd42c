package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/cxxparse/cxx/parser"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(a *parser.AST) error {
	text, err := e.MarshalText(a)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText(a *parser.AST) ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(a, a.Root()), "", "  ")
}

type astJSONNode struct {
	Kind       string            `json:"kind" yaml:"kind"`
	Property   string            `json:"property,omitempty" yaml:"property,omitempty"`
	Span       *astJSONSpan      `json:"span,omitempty" yaml:"span,omitempty"`
	Operator   string            `json:"operator,omitempty" yaml:"operator,omitempty"`
	Specifiers []string          `json:"specifiers,omitempty" yaml:"specifiers,omitempty"`
	Text       string            `json:"text,omitempty" yaml:"text,omitempty"`
	Varargs    bool              `json:"varargs,omitempty" yaml:"varargs,omitempty"`
	Inactive   bool              `json:"inactive,omitempty" yaml:"inactive,omitempty"`
	Error      *astJSONError     `json:"error,omitempty" yaml:"error,omitempty"`
	Ambiguity  *astJSONAmbiguity `json:"ambiguity,omitempty" yaml:"ambiguity,omitempty"`
	Children   []*astJSONNode    `json:"children,omitempty" yaml:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start" yaml:"start"`
	End   astJSONPosition `json:"end" yaml:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

type astJSONError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

type astJSONAmbiguity struct {
	Kind         string         `json:"kind" yaml:"kind"`
	Alternatives []*astJSONNode `json:"alternatives" yaml:"alternatives"`
}

func nodeToJSON(a *parser.AST, id parser.NodeID) *astJSONNode {
	if id == parser.NoNode {
		return nil
	}
	if resolved, ok := a.Resolved(id); ok {
		return nodeToJSON(a, resolved)
	}
	jn := &astJSONNode{
		Kind:       a.Kind(id).String(),
		Property:   a.Property(id).String(),
		Operator:   a.Operator(id).String(),
		Specifiers: a.Specifiers(id).Words(),
		Text:       a.Text(id),
		Varargs:    a.IsVarargs(id),
		Inactive:   !a.IsActive(id),
	}

	start, end := a.Position(a.Offset(id)), a.Position(a.End(id))
	jn.Span = &astJSONSpan{
		Start: astJSONPosition{Line: start.Line, Column: start.Column},
		End:   astJSONPosition{Line: end.Line, Column: end.Column},
	}

	if p := a.Problem(id); p != nil {
		jn.Error = &astJSONError{Code: p.Code.String(), Message: p.Message}
	}

	if a.Kind(id) == parser.KindAmbiguous {
		jn.Ambiguity = &astJSONAmbiguity{Kind: a.AmbiguityKind(id).String()}
		for _, alt := range a.Alternatives(id) {
			jn.Ambiguity.Alternatives = append(jn.Ambiguity.Alternatives, nodeToJSON(a, alt))
		}
	}

	for _, child := range a.Children(id) {
		jn.Children = append(jn.Children, nodeToJSON(a, child))
	}

	return jn
}
