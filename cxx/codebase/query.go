package codebase

import (
	"strings"

	"github.com/dhamidi/cxxparse/cxx/names"
	"github.com/dhamidi/cxxparse/cxx/parser"
)

type Diagnostic struct {
	Start   parser.Position
	End     parser.Position
	Code    parser.ProblemCode
	Message string
}

// Diagnostics lists the problems recorded in the tree of path.
func (c *Codebase) Diagnostics(path string) []Diagnostic {
	f := c.parsed(path)
	if f == nil {
		return nil
	}
	var out []Diagnostic
	for _, id := range f.Tree.Problems() {
		prob := f.Tree.Problem(id)
		msg := prob.Message
		if msg == "" {
			msg = prob.Code.String()
		}
		out = append(out, Diagnostic{
			Start:   f.Tree.Position(prob.Offset),
			End:     f.Tree.Position(prob.Offset + max(prob.Length, 1)),
			Code:    prob.Code,
			Message: msg,
		})
	}
	return out
}

type Symbol struct {
	Name string
	Kind names.Kind
	Type string
	Pos  parser.Position
}

// Symbols lists every name declared in path, including struct, union and
// enum tags that come with a body, in source order.
func (c *Codebase) Symbols(path string) []Symbol {
	f := c.parsed(path)
	if f == nil {
		return nil
	}
	a := f.Tree.AST
	var out []Symbol
	for _, name := range parser.Names(a, a.Root()) {
		switch a.NameRole(name) {
		case parser.RoleDeclaration:
		case parser.RoleTag:
			if a.Kind(a.Parent(name)) != parser.KindCompositeTypeSpecifier {
				continue
			}
		default:
			continue
		}
		b, err := f.Names.Resolve(a, name)
		if err != nil || b.IsProblem() {
			continue
		}
		out = append(out, Symbol{Name: b.Name(), Kind: b.Kind, Type: b.Type, Pos: a.Position(a.Offset(name))})
	}
	return out
}

type Ambiguity struct {
	Pos          parser.Position
	Kind         parser.AmbiguityKind
	Alternatives []string
	// Resolved indexes Alternatives, or is -1 when no reading was chosen.
	Resolved int
}

// Ambiguities lists the ambiguous regions of path with every reading
// rendered as an s-expression.
func (c *Codebase) Ambiguities(path string) []Ambiguity {
	f := c.parsed(path)
	if f == nil {
		return nil
	}
	a := f.Tree.AST
	var out []Ambiguity
	for _, id := range a.Ambiguities() {
		amb := Ambiguity{Pos: a.Position(a.Offset(id)), Kind: a.AmbiguityKind(id), Resolved: -1}
		resolved, ok := a.Resolved(id)
		for i, alt := range a.Alternatives(id) {
			if ok && alt == resolved {
				amb.Resolved = i
			}
			amb.Alternatives = append(amb.Alternatives, a.SExpr(alt))
		}
		out = append(out, amb)
	}
	return out
}

// nameAt finds the name node under a 1-based line and column.
func (f *FileInfo) nameAt(line, column int) parser.NodeID {
	a := f.Tree.AST
	id := a.NodeAt(Offset(f.Content, line, column))
	if a.Kind(id) != parser.KindName {
		return parser.NoNode
	}
	return id
}

// HoverAt describes what is under the position: the binding of a name, or
// the type of the innermost expression.
func (c *Codebase) HoverAt(path string, line, column int) string {
	f := c.parsed(path)
	if f == nil {
		return ""
	}
	a := f.Tree.AST
	if name := f.nameAt(line, column); name != parser.NoNode {
		b, err := f.Names.Resolve(a, name)
		if err != nil {
			return ""
		}
		return b.String()
	}
	for id := a.NodeAt(Offset(f.Content, line, column)); id != parser.NoNode; id = a.Parent(id) {
		if t := f.Names.TypeOf(a, id); t != names.Unknown {
			return string(t)
		}
	}
	return ""
}

// DefinitionAt returns where the name under the position was declared.
func (c *Codebase) DefinitionAt(path string, line, column int) (parser.Position, bool) {
	f := c.parsed(path)
	if f == nil {
		return parser.Position{}, false
	}
	name := f.nameAt(line, column)
	if name == parser.NoNode {
		return parser.Position{}, false
	}
	b, err := f.Names.Resolve(f.Tree.AST, name)
	if err != nil || b.IsProblem() || b.Decl == parser.NoNode {
		return parser.Position{}, false
	}
	return f.Tree.Position(f.Tree.Offset(b.Decl)), true
}

type CompletionItem struct {
	Label  string
	Kind   names.Kind
	Detail string
}

// CompletionsAt lists the names that can complete the identifier ending at
// the position. The file is reparsed up to that point, so the answer does
// not depend on what follows the cursor.
func (c *Codebase) CompletionsAt(path string, line, column int) []CompletionItem {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	offset := Offset(f.Content, line, column)
	tree, resolver, err := c.parse(path, f.Content, parser.WithCompletionAt(offset))
	if err != nil {
		return nil
	}
	name := tree.CompletionName()
	if name == parser.NoNode {
		return nil
	}
	a := tree.AST
	prefix := a.Text(name)

	var bindings []*names.Binding
	switch role := a.NameRole(name); role {
	case parser.RoleMember:
		ref := a.Parent(name)
		t := string(resolver.TypeOf(a, a.Child(ref, parser.PropOwner)))
		if a.Operator(ref) == parser.OpArrow {
			t = strings.TrimSpace(strings.TrimSuffix(t, "*"))
		}
		for _, b := range resolver.Members(a, name, names.Type(t)) {
			if strings.HasPrefix(b.Name(), prefix) {
				bindings = append(bindings, b)
			}
		}
	case parser.RoleType, parser.RoleValue:
		for _, b := range resolver.Visible(a, name, prefix) {
			if (role == parser.RoleType) == (b.Kind == names.KindTypedef) {
				bindings = append(bindings, b)
			}
		}
	}

	items := make([]CompletionItem, 0, len(bindings))
	for _, b := range bindings {
		items = append(items, CompletionItem{Label: b.Name(), Kind: b.Kind, Detail: b.Type})
	}
	return items
}
