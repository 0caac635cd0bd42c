package names

import (
	"strings"

	"github.com/dhamidi/cxxparse/cxx/parser"
)

// Members lists the members of a struct or union type, in declaration
// order, as seen from the node at. Typedef names are followed to the type
// they name. Pointer types and unknown tags have no members.
func (r *Resolver) Members(a *parser.AST, at parser.NodeID, typ Type) []*Binding {
	t := strings.TrimSpace(string(typ))
	for range 8 {
		d, ok := r.lookup(a, at, t, false)
		if !ok || d.kind != KindTypedef {
			break
		}
		t = d.typ
	}
	key, tag, ok := strings.Cut(t, " ")
	if !ok || (key != "struct" && key != "union") || strings.ContainsAny(tag, " *[(") {
		return nil
	}

	body := parser.NoNode
	parser.Inspect(a, a.Root(), func(id parser.NodeID) bool {
		if body != parser.NoNode {
			return false
		}
		if a.Kind(id) != parser.KindCompositeTypeSpecifier || a.Text(id) != key {
			return true
		}
		name := a.Child(id, parser.PropName)
		if name != parser.NoNode && a.Text(name) == tag && len(a.ChildrenWith(id, parser.PropDeclaration)) > 0 {
			body = id
			return false
		}
		return true
	})
	if body == parser.NoNode {
		return nil
	}

	var s scopeBuilder
	for _, decl := range a.ChildrenWith(body, parser.PropDeclaration) {
		s.declaration(a, decl)
	}
	out := make([]*Binding, 0, len(s.ordinary))
	for _, d := range s.ordinary {
		if d.kind == KindEnumerator {
			continue
		}
		d.kind = KindMember
		out = append(out, d.binding())
	}
	return out
}
