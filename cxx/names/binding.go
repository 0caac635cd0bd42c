// Package names resolves identifiers in a C syntax tree to the
// declarations they denote. It is the default NameResolver used to decide
// parser ambiguities, and also backs completion and hover in the language
// server.
package names

import (
	"fmt"

	"github.com/dhamidi/cxxparse/cxx/parser"
)

// Kind classifies what a name denotes.
type Kind int

const (
	KindProblem Kind = iota
	KindVariable
	KindFunction
	KindTypedef
	KindStructTag
	KindEnumerator
	KindParameter
	KindMember
	KindLabel
)

var kindNames = map[Kind]string{
	KindProblem:    "problem",
	KindVariable:   "variable",
	KindFunction:   "function",
	KindTypedef:    "typedef",
	KindStructTag:  "tag",
	KindEnumerator: "enumerator",
	KindParameter:  "parameter",
	KindMember:     "member",
	KindLabel:      "label",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindProblem, false
}

// IsValue reports whether names of this kind may appear in expressions.
func (k Kind) IsValue() bool {
	switch k {
	case KindVariable, KindFunction, KindEnumerator, KindParameter:
		return true
	}
	return false
}

// Reason explains a problem binding.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNotFound
	ReasonNotAType
	ReasonNotAValue
)

func (r Reason) String() string {
	switch r {
	case ReasonNotFound:
		return "not found"
	case ReasonNotAType:
		return "not a type"
	case ReasonNotAValue:
		return "not a value"
	}
	return "none"
}

// Binding is the result of resolving a name.
type Binding struct {
	name   string
	Kind   Kind
	Reason Reason
	// Decl is the declaring name node, or NoNode for predeclared names and
	// problems.
	Decl parser.NodeID
	// Type is the declared type as written, e.g. "const char *".
	Type string
}

func (b *Binding) Name() string { return b.name }

func (b *Binding) IsProblem() bool { return b.Kind == KindProblem }

func (b *Binding) String() string {
	if b.IsProblem() {
		return fmt.Sprintf("%s: %s", b.name, b.Reason)
	}
	if b.Type != "" {
		return fmt.Sprintf("%s %s: %s", b.Kind, b.name, b.Type)
	}
	return fmt.Sprintf("%s %s", b.Kind, b.name)
}

func problem(name string, reason Reason) *Binding {
	return &Binding{name: name, Kind: KindProblem, Reason: reason, Decl: parser.NoNode}
}
