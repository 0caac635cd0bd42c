package names

import (
	"strings"

	"github.com/dhamidi/cxxparse/cxx/parser"
)

// declaration is a name introduced into a scope.
type declaration struct {
	name string
	kind Kind
	node parser.NodeID
	typ  string
}

func (d declaration) binding() *Binding {
	return &Binding{name: d.name, Kind: d.kind, Decl: d.node, Type: d.typ}
}

// scopes walks from the node at outward and calls fn with the declarations
// of each enclosing scope that precede at, innermost scope first. It stops
// when fn returns false.
func scopes(a *parser.AST, at parser.NodeID, fn func(ordinary, tags []declaration) bool) {
	before := a.Offset(at)
	child := at
	for scope := a.Parent(at); scope != parser.NoNode; child, scope = scope, a.Parent(scope) {
		var s scopeBuilder
		switch a.Kind(scope) {
		case parser.KindTranslationUnit:
			for _, d := range a.ChildrenWith(scope, parser.PropDeclaration) {
				s.declaration(a, d)
			}
		case parser.KindCompoundStatement:
			for _, stmt := range a.ChildrenWith(scope, parser.PropStatement) {
				s.statement(a, stmt)
			}
		case parser.KindForStatement:
			s.statement(a, a.Child(scope, parser.PropInitStatement))
		case parser.KindFunctionDefinition:
			if a.Property(child) == parser.PropBody {
				s.parameters(a, functionDeclarator(a, a.Child(scope, parser.PropDeclarator)))
			}
		default:
			continue
		}
		if !fn(s.visible(a, before)) {
			return
		}
	}
}

type scopeBuilder struct {
	ordinary []declaration
	tags     []declaration
}

func (s *scopeBuilder) visible(a *parser.AST, before int) (ordinary, tags []declaration) {
	keep := func(decls []declaration) []declaration {
		var out []declaration
		for _, d := range decls {
			if a.Offset(d.node) < before {
				out = append(out, d)
			}
		}
		return out
	}
	return keep(s.ordinary), keep(s.tags)
}

func (s *scopeBuilder) statement(a *parser.AST, stmt parser.NodeID) {
	if a.Kind(stmt) == parser.KindAmbiguous {
		resolved, ok := a.Resolved(stmt)
		if !ok {
			return
		}
		stmt = resolved
	}
	if a.Kind(stmt) == parser.KindDeclarationStatement {
		s.declaration(a, a.Child(stmt, parser.PropDeclaration))
	}
}

func (s *scopeBuilder) declaration(a *parser.AST, decl parser.NodeID) {
	switch a.Kind(decl) {
	case parser.KindSimpleDeclaration, parser.KindFunctionDefinition:
	default:
		return
	}
	spec := a.Child(decl, parser.PropDeclSpec)
	s.specifier(a, spec)
	typedef := a.Specifiers(spec)&parser.SpecTypedef != 0
	base := baseType(a, spec)
	for _, d := range a.ChildrenWith(decl, parser.PropDeclarator) {
		name := declaratorName(a, d)
		if name == parser.NoNode {
			continue
		}
		kind := declaratorKind(a, d)
		if typedef {
			kind = KindTypedef
		}
		s.ordinary = append(s.ordinary, declaration{
			name: a.Text(name),
			kind: kind,
			node: name,
			typ:  declaredType(a, base, d),
		})
	}
}

// specifier records the tag and enumerators a declaration specifier
// introduces.
func (s *scopeBuilder) specifier(a *parser.AST, spec parser.NodeID) {
	switch a.Kind(spec) {
	case parser.KindCompositeTypeSpecifier, parser.KindElaboratedTypeSpecifier:
	default:
		return
	}
	if name := a.Child(spec, parser.PropName); name != parser.NoNode {
		s.tags = append(s.tags, declaration{
			name: a.Text(name),
			kind: KindStructTag,
			node: name,
			typ:  a.Text(spec) + " " + a.Text(name),
		})
	}
	for _, e := range a.ChildrenWith(spec, parser.PropEnumerator) {
		if name := a.Child(e, parser.PropName); name != parser.NoNode {
			s.ordinary = append(s.ordinary, declaration{
				name: a.Text(name),
				kind: KindEnumerator,
				node: name,
				typ:  "int",
			})
		}
	}
}

func (s *scopeBuilder) parameters(a *parser.AST, fd parser.NodeID) {
	if fd == parser.NoNode {
		return
	}
	for _, param := range a.ChildrenWith(fd, parser.PropParameter) {
		d := a.Child(param, parser.PropDeclarator)
		name := declaratorName(a, d)
		if name == parser.NoNode {
			continue
		}
		s.ordinary = append(s.ordinary, declaration{
			name: a.Text(name),
			kind: KindParameter,
			node: name,
			typ:  declaredType(a, baseType(a, a.Child(param, parser.PropDeclSpec)), d),
		})
	}
}

// declaratorChain lists d and its nested declarators, outermost first.
func declaratorChain(a *parser.AST, d parser.NodeID) []parser.NodeID {
	var chain []parser.NodeID
	for d != parser.NoNode {
		chain = append(chain, d)
		d = a.Child(d, parser.PropNestedDeclarator)
	}
	return chain
}

func declaratorName(a *parser.AST, d parser.NodeID) parser.NodeID {
	for _, link := range declaratorChain(a, d) {
		if name := a.Child(link, parser.PropName); name != parser.NoNode {
			return name
		}
	}
	return parser.NoNode
}

// declaratorKind tells functions from objects: the declarator part closest
// to the name that carries a modifier decides.
func declaratorKind(a *parser.AST, d parser.NodeID) Kind {
	chain := declaratorChain(a, d)
	for i := len(chain) - 1; i >= 0; i-- {
		link := chain[i]
		if a.Kind(link) == parser.KindFunctionDeclarator {
			return KindFunction
		}
		if a.Child(link, parser.PropPointer) != parser.NoNode || a.Child(link, parser.PropArrayModifier) != parser.NoNode {
			return KindVariable
		}
	}
	return KindVariable
}

func functionDeclarator(a *parser.AST, d parser.NodeID) parser.NodeID {
	chain := declaratorChain(a, d)
	for i := len(chain) - 1; i >= 0; i-- {
		if a.Kind(chain[i]) == parser.KindFunctionDeclarator {
			return chain[i]
		}
	}
	return parser.NoNode
}

func baseType(a *parser.AST, spec parser.NodeID) string {
	var words []string
	flags := a.Specifiers(spec)
	if flags&parser.SpecConst != 0 {
		words = append(words, "const")
	}
	if flags&parser.SpecVolatile != 0 {
		words = append(words, "volatile")
	}
	switch a.Kind(spec) {
	case parser.KindDeclSpecifier:
		words = append(words, a.Text(spec))
	case parser.KindNamedTypeSpecifier:
		words = append(words, a.Text(a.Child(spec, parser.PropName)))
	case parser.KindCompositeTypeSpecifier, parser.KindElaboratedTypeSpecifier:
		words = append(words, a.Text(spec))
		if name := a.Child(spec, parser.PropName); name != parser.NoNode {
			words = append(words, a.Text(name))
		}
	}
	return strings.Join(words, " ")
}

// declaredType spells the type a declarator gives its name as a C type
// name: the base type followed by the abstract declarator.
func declaredType(a *parser.AST, base string, d parser.NodeID) string {
	abs := abstractDeclarator(a, d)
	switch {
	case abs == "":
		return base
	case strings.HasPrefix(abs, "[") || strings.HasPrefix(abs, "()"):
		return base + abs
	}
	return base + " " + abs
}

func abstractDeclarator(a *parser.AST, d parser.NodeID) string {
	if d == parser.NoNode {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(strings.Repeat("*", len(a.ChildrenWith(d, parser.PropPointer))))
	if inner := abstractDeclarator(a, a.Child(d, parser.PropNestedDeclarator)); inner != "" {
		sb.WriteString("(" + inner + ")")
	}
	for range a.ChildrenWith(d, parser.PropArrayModifier) {
		sb.WriteString("[]")
	}
	if a.Kind(d) == parser.KindFunctionDeclarator {
		sb.WriteString("()")
	}
	return sb.String()
}
