package parser

import (
	"fmt"
	"sort"
	"strings"
)

// NodeID is a handle into the node arena of an AST.
type NodeID int32

// NoNode is the handle of an absent node.
const NoNode NodeID = -1

type node struct {
	kind     NodeKind
	offset   int
	length   int
	parent   NodeID
	prop     Property
	inactive bool
	op       Operator
	flags    SpecifierFlags
	varargs  bool
	text     string
	children []NodeID
	amb      *ambiguity
	problem  *Problem
}

type ambiguity struct {
	kind         AmbiguityKind
	alternatives []NodeID
	resolved     NodeID
}

// Position is a 1-based line and column within a file.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// AST holds the node arena and the read-only view shared by Builder and
// Tree.
type AST struct {
	file        string
	source      []byte
	lines       []int
	nodes       []node
	root        NodeID
	ambiguities []NodeID
	problems    []NodeID
	completion  NodeID
}

func newAST(file string, source []byte) *AST {
	a := &AST{
		file:       file,
		source:     source,
		lines:      []int{0},
		root:       NoNode,
		completion: NoNode,
	}
	for i, ch := range source {
		if ch == '\n' {
			a.lines = append(a.lines, i+1)
		}
	}
	return a
}

func (a *AST) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(a.nodes)
}

func (a *AST) n(id NodeID) *node {
	return &a.nodes[id]
}

func (a *AST) File() string { return a.file }
func (a *AST) Source() []byte { return a.source }
func (a *AST) Root() NodeID { return a.root }
func (a *AST) Len() int { return len(a.nodes) }
func (a *AST) Problems() []NodeID { return append([]NodeID(nil), a.problems...) }

// Ambiguities returns every ambiguous node created during the parse, in
// creation order, including those that have since been resolved.
func (a *AST) Ambiguities() []NodeID {
	return append([]NodeID(nil), a.ambiguities...)
}

func (a *AST) Kind(id NodeID) NodeKind {
	if !a.valid(id) {
		return KindProblem
	}
	return a.nodes[id].kind
}

func (a *AST) Parent(id NodeID) NodeID {
	if !a.valid(id) {
		return NoNode
	}
	return a.nodes[id].parent
}

func (a *AST) Property(id NodeID) Property {
	if !a.valid(id) {
		return PropNone
	}
	return a.nodes[id].prop
}

func (a *AST) Offset(id NodeID) int {
	if !a.valid(id) {
		return 0
	}
	return a.nodes[id].offset
}

func (a *AST) Length(id NodeID) int {
	if !a.valid(id) {
		return 0
	}
	return a.nodes[id].length
}

func (a *AST) End(id NodeID) int { return a.Offset(id) + a.Length(id) }

func (a *AST) Operator(id NodeID) Operator {
	if !a.valid(id) {
		return OpNone
	}
	return a.nodes[id].op
}

func (a *AST) Specifiers(id NodeID) SpecifierFlags {
	if !a.valid(id) {
		return 0
	}
	return a.nodes[id].flags
}

// Text returns the identifier or literal text of a leaf. It panics on a
// handle that does not exist.
func (a *AST) Text(id NodeID) string { return a.nodes[id].text }

func (a *AST) IsVarargs(id NodeID) bool {
	return a.valid(id) && a.nodes[id].varargs
}

// IsActive reports whether the node was parsed from code that is not
// excluded by conditional compilation.
func (a *AST) IsActive(id NodeID) bool {
	return a.valid(id) && !a.nodes[id].inactive
}

func (a *AST) Children(id NodeID) []NodeID {
	if !a.valid(id) {
		return nil
	}
	return append([]NodeID(nil), a.nodes[id].children...)
}

// Child returns the first child that plays role prop, or NoNode.
func (a *AST) Child(id NodeID, prop Property) NodeID {
	if !a.valid(id) {
		return NoNode
	}
	for _, c := range a.nodes[id].children {
		if a.nodes[c].prop == prop {
			return c
		}
	}
	return NoNode
}

// ChildrenWith returns every child that plays role prop.
func (a *AST) ChildrenWith(id NodeID, prop Property) []NodeID {
	var out []NodeID
	if !a.valid(id) {
		return nil
	}
	for _, c := range a.nodes[id].children {
		if a.nodes[c].prop == prop {
			out = append(out, c)
		}
	}
	return out
}

// Problem returns the diagnostic of a problem node.
func (a *AST) Problem(id NodeID) *Problem {
	if !a.valid(id) {
		return nil
	}
	return a.nodes[id].problem
}

// Alternatives returns the candidates of an ambiguous node.
func (a *AST) Alternatives(id NodeID) []NodeID {
	if !a.valid(id) || a.nodes[id].amb == nil {
		return nil
	}
	return append([]NodeID(nil), a.nodes[id].amb.alternatives...)
}

func (a *AST) AmbiguityKind(id NodeID) AmbiguityKind {
	if !a.valid(id) || a.nodes[id].amb == nil {
		return AmbiguityGeneric
	}
	return a.nodes[id].amb.kind
}

// Resolved returns the node that replaced an ambiguous node, if it has
// been resolved.
func (a *AST) Resolved(id NodeID) (NodeID, bool) {
	if !a.valid(id) || a.nodes[id].amb == nil {
		return NoNode, false
	}
	r := a.nodes[id].amb.resolved
	return r, r != NoNode
}

// CompletionName returns the name built from the completion token, or
// NoNode when the parse was not a completion parse.
func (a *AST) CompletionName() NodeID {
	return a.completion
}

// Contains reports whether outer is inner or one of its ancestors.
func (a *AST) Contains(outer, inner NodeID) bool {
	for id := inner; id != NoNode; id = a.Parent(id) {
		if id == outer {
			return true
		}
	}
	return false
}

// Ancestor returns the closest ancestor of id (excluding id) of the given
// kind.
func (a *AST) Ancestor(id NodeID, kind NodeKind) NodeID {
	for p := a.Parent(id); p != NoNode; p = a.Parent(p) {
		if a.Kind(p) == kind {
			return p
		}
	}
	return NoNode
}

// NodeAt returns the innermost node whose range covers offset.
func (a *AST) NodeAt(offset int) NodeID {
	found := NoNode
	Inspect(a, a.root, func(id NodeID) bool {
		if offset < a.Offset(id) || offset > a.End(id) {
			return false
		}
		found = id
		return true
	})
	return found
}

// Position converts a byte offset into a line and column.
func (a *AST) Position(offset int) Position {
	line := sort.Search(len(a.lines), func(i int) bool { return a.lines[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return Position{
		File:   a.file,
		Offset: offset,
		Line:   line + 1,
		Column: offset - a.lines[line] + 1,
	}
}

// Spelling returns the source text covered by the node.
func (a *AST) Spelling(id NodeID) string {
	start, end := a.Offset(id), a.End(id)
	if start < 0 || end > len(a.source) || start > end {
		return ""
	}
	return string(a.source[start:end])
}

// Role classifies how a name is used.
type Role int

const (
	RoleValue Role = iota
	RoleType
	RoleTag
	RoleDeclaration
	RoleMember
	RoleLabel
)

func (r Role) String() string {
	switch r {
	case RoleType:
		return "type"
	case RoleTag:
		return "tag"
	case RoleDeclaration:
		return "declaration"
	case RoleMember:
		return "member"
	case RoleLabel:
		return "label"
	}
	return "value"
}

// NameRole reports how a name node is used by its parent.
func (a *AST) NameRole(name NodeID) Role {
	switch a.Kind(a.Parent(name)) {
	case KindNamedTypeSpecifier:
		return RoleType
	case KindElaboratedTypeSpecifier, KindCompositeTypeSpecifier:
		return RoleTag
	case KindDeclarator, KindFunctionDeclarator, KindEnumerator:
		return RoleDeclaration
	case KindFieldReference:
		return RoleMember
	case KindLabelStatement, KindGotoStatement:
		return RoleLabel
	}
	return RoleValue
}

// OutermostDeclarator walks up nested declarators.
func (a *AST) OutermostDeclarator(id NodeID) NodeID {
	for {
		p := a.Parent(id)
		switch a.Kind(p) {
		case KindDeclarator, KindFunctionDeclarator:
			if a.Property(id) == PropNestedDeclarator || a.Property(id) == PropName {
				id = p
				continue
			}
		}
		return id
	}
}

// String renders the subtree rooted at id as an indented outline.
func (a *AST) String(id NodeID) string {
	var sb strings.Builder
	a.writeIndent(&sb, id, 0)
	return sb.String()
}

func (a *AST) writeIndent(sb *strings.Builder, id NodeID, indent int) {
	sb.WriteString(strings.Repeat("  ", indent))
	if id == NoNode {
		sb.WriteString("<nil>\n")
		return
	}
	n := a.n(id)
	if n.prop != PropNone {
		sb.WriteString(n.prop.String() + ": ")
	}
	sb.WriteString(n.kind.String())
	if n.op != OpNone {
		sb.WriteString(" " + n.op.String())
	}
	if n.flags != 0 {
		sb.WriteString(" [" + strings.Join(n.flags.Words(), " ") + "]")
	}
	if n.text != "" {
		sb.WriteString(" " + n.text)
	}
	if n.inactive {
		sb.WriteString(" (inactive)")
	}
	if n.problem != nil {
		sb.WriteString(" ERROR: " + n.problem.Message)
	}
	sb.WriteString("\n")
	if n.amb != nil {
		if r := n.amb.resolved; r != NoNode {
			a.writeIndent(sb, r, indent+1)
			return
		}
		for _, alt := range n.amb.alternatives {
			a.writeIndent(sb, alt, indent+1)
		}
		return
	}
	for _, c := range n.children {
		a.writeIndent(sb, c, indent+1)
	}
}

// SExpr renders an expression subtree in prefix notation, e.g.
// (+ a (* b c)). It is mainly useful in tests.
func (a *AST) SExpr(id NodeID) string {
	if id == NoNode {
		return "_"
	}
	n := a.n(id)
	switch n.kind {
	case KindIDExpression:
		return a.Text(a.Child(id, PropName))
	case KindName, KindLiteral:
		return n.text
	case KindUnary:
		operand := a.Child(id, PropOperand)
		switch n.op {
		case OpBracketedPrimary:
			return "(" + a.SExpr(operand) + ")"
		case OpPostfixIncr, OpPostfixDecr:
			return "(" + a.SExpr(operand) + n.op.String() + ")"
		}
		return "(" + n.op.String() + " " + a.SExpr(operand) + ")"
	case KindBinary:
		return "(" + n.op.String() + " " + a.SExpr(a.Child(id, PropOperand1)) + " " + a.SExpr(a.Child(id, PropOperand2)) + ")"
	case KindConditional:
		return "(?: " + a.SExpr(a.Child(id, PropCondition)) + " " + a.SExpr(a.Child(id, PropThen)) + " " + a.SExpr(a.Child(id, PropElse)) + ")"
	case KindCast:
		return "(cast " + a.Spelling(a.Child(id, PropTypeID)) + " " + a.SExpr(a.Child(id, PropOperand)) + ")"
	case KindCall:
		parts := []string{"call", a.SExpr(a.Child(id, PropCallee))}
		for _, arg := range a.ChildrenWith(id, PropArgument) {
			parts = append(parts, a.SExpr(arg))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case KindSubscript:
		return "([] " + a.SExpr(a.Child(id, PropArray)) + " " + a.SExpr(a.Child(id, PropSubscript)) + ")"
	case KindFieldReference:
		return "(" + n.op.String() + " " + a.SExpr(a.Child(id, PropOwner)) + " " + a.Text(a.Child(id, PropMember)) + ")"
	case KindTypeIDExpression:
		return "(sizeof-type " + a.Spelling(a.Child(id, PropTypeID)) + ")"
	case KindAmbiguous:
		if r, ok := a.Resolved(id); ok {
			return a.SExpr(r)
		}
		parts := []string{"ambiguous"}
		for _, alt := range n.amb.alternatives {
			parts = append(parts, a.SExpr(alt))
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return "<" + n.kind.String() + ">"
}
