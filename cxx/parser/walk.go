package parser

// Inspect traverses the subtree rooted at id in depth-first order, calling
// fn for each node. If fn returns false the children of that node are
// skipped. The alternatives of an unresolved ambiguous node are not
// children and are never visited.
func Inspect(a *AST, id NodeID, fn func(NodeID) bool) {
	if id == NoNode || !a.valid(id) {
		return
	}
	if !fn(id) {
		return
	}
	for _, c := range a.nodes[id].children {
		Inspect(a, c, fn)
	}
}

// Names returns the name nodes in the subtree in source order.
func Names(a *AST, id NodeID) []NodeID {
	var names []NodeID
	Inspect(a, id, func(n NodeID) bool {
		if a.Kind(n) == KindName {
			names = append(names, n)
		}
		return true
	})
	return names
}

// isParameterDeclaratorName reports whether name is declared by a
// parameter. Such names always resolve to themselves, and resolving them
// early would pull in a declaration that may still be ambiguous.
func isParameterDeclaratorName(a *AST, name NodeID) bool {
	if a.Property(name) != PropName {
		return false
	}
	switch a.Kind(a.Parent(name)) {
	case KindDeclarator, KindFunctionDeclarator:
	default:
		return false
	}
	outer := a.OutermostDeclarator(a.Parent(name))
	return a.Kind(a.Parent(outer)) == KindParameterDeclaration
}

// scoringNames returns the names whose bindings decide an ambiguity.
func scoringNames(a *AST, id NodeID) []NodeID {
	var out []NodeID
	for _, n := range Names(a, id) {
		if !isParameterDeclaratorName(a, n) {
			out = append(out, n)
		}
	}
	return out
}

func ambiguitiesIn(a *AST, id NodeID) []NodeID {
	var out []NodeID
	Inspect(a, id, func(n NodeID) bool {
		if a.Kind(n) == KindAmbiguous {
			out = append(out, n)
			return false
		}
		return true
	})
	return out
}
