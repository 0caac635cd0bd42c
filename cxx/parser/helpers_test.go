package parser

import (
	"strings"
	"testing"
)

type testBinding struct {
	name    string
	problem bool
}

func (b testBinding) Name() string { return b.name }
func (b testBinding) IsProblem() bool { return b.problem }

// testResolver binds type names and value names from fixed sets. Names in
// declaring positions always resolve. Like a scoped lookup, a type or
// value name that is not connected to the root of the tree never
// resolves.
type testResolver struct {
	types     map[string]bool
	values    map[string]bool
	lookups   int
	forgotten []NodeID
}

func newTestResolver(types, values []string) *testResolver {
	r := &testResolver{types: map[string]bool{}, values: map[string]bool{}}
	for _, name := range types {
		r.types[name] = true
	}
	for _, name := range values {
		r.values[name] = true
	}
	return r
}

func (r *testResolver) ResolveName(a *AST, name NodeID) (Binding, error) {
	r.lookups++
	text := a.Text(name)
	ok := true
	switch a.NameRole(name) {
	case RoleType:
		ok = r.types[text] && rooted(a, name)
	case RoleValue:
		ok = r.values[text] && rooted(a, name)
	}
	return testBinding{name: text, problem: !ok}, nil
}

func rooted(a *AST, id NodeID) bool {
	for a.Parent(id) != NoNode {
		id = a.Parent(id)
	}
	return id == a.Root()
}

func (r *testResolver) Forget(name NodeID) {
	r.forgotten = append(r.forgotten, name)
}

func parseExpression(t *testing.T, input string, r NameResolver) *Tree {
	t.Helper()
	tree, err := ParseExpression(strings.NewReader(input), WithNameResolver(r)).Finish()
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return tree
}

func parseUnit(t *testing.T, input string, opts ...Option) *Tree {
	t.Helper()
	tree, err := ParseTranslationUnit(strings.NewReader(input), opts...).Finish()
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return tree
}

// checkLinks verifies that every reachable child points back at its parent
// and lies within the parent's range.
func checkLinks(t *testing.T, a *AST, root NodeID) {
	t.Helper()
	Inspect(a, root, func(id NodeID) bool {
		for _, c := range a.Children(id) {
			if a.Parent(c) != id {
				t.Errorf("%s %d: parent is %d, want %d", a.Kind(c), c, a.Parent(c), id)
			}
			if a.Offset(c) < a.Offset(id) || a.End(c) > a.End(id) {
				t.Errorf("%s %q [%d,%d) is outside %s %q [%d,%d)",
					a.Kind(c), a.Spelling(c), a.Offset(c), a.End(c),
					a.Kind(id), a.Spelling(id), a.Offset(id), a.End(id))
			}
		}
		return true
	})
}

// checkOrder verifies that the children of every reachable node are
// listed in source order.
func checkOrder(t *testing.T, a *AST, root NodeID) {
	t.Helper()
	Inspect(a, root, func(id NodeID) bool {
		children := a.Children(id)
		for i := 1; i < len(children); i++ {
			if a.Offset(children[i]) < a.End(children[i-1]) {
				t.Errorf("%s %q: child %q listed after %q", a.Kind(id), a.Spelling(id), a.Spelling(children[i]), a.Spelling(children[i-1]))
			}
		}
		return true
	})
}

// statements returns the statements of the body of the first function
// definition in the tree.
func statements(t *testing.T, a *AST) []NodeID {
	t.Helper()
	for _, decl := range a.ChildrenWith(a.Root(), PropDeclaration) {
		if a.Kind(decl) == KindFunctionDefinition {
			return a.ChildrenWith(a.Child(decl, PropBody), PropStatement)
		}
	}
	t.Fatal("no function definition")
	return nil
}
