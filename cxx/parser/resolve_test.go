package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBinaryVsCast(t *testing.T) {
	tests := []struct {
		input  string
		types  []string
		values []string
		want   string
	}{
		{"(T)+x", []string{"T"}, []string{"x"}, "(cast T (+ x))"},
		{"(y)+x", nil, []string{"x", "y"}, "(+ (y) x)"},
		{"(T)-x*y", []string{"T"}, []string{"x", "y"}, "(* (cast T (- x)) y)"},
		{"(y)-x*y", nil, []string{"x", "y"}, "(- (y) (* x y))"},
		{"(T)-x-y", []string{"T"}, []string{"x", "y"}, "(- (cast T (- x)) y)"},
		{"a*(T)+x", []string{"T"}, []string{"a", "x"}, "(* a (cast T (+ x)))"},
		{"a*(b)+c", nil, []string{"a", "b", "c"}, "(+ (* a (b)) c)"},
		{"(T)&x", []string{"T"}, []string{"x"}, "(cast T (& x))"},
		{"(T)*p", []string{"T"}, []string{"p"}, "(cast T (* p))"},
		{"-(T)+x", []string{"T"}, []string{"x"}, "(- (cast T (+ x)))"},
		{"(T)+x ? a : b", []string{"T"}, []string{"x", "a", "b"}, "(?: (cast T (+ x)) a b)"},
		{"y = (T)+x", []string{"T"}, []string{"x", "y"}, "(= y (cast T (+ x)))"},
		{"(T)+(U)+x", []string{"T", "U"}, []string{"x"}, "(cast T (+ (cast U (+ x))))"},
		{"(T)+(u)+x", []string{"T"}, []string{"u", "x"}, "(+ (cast T (+ (u))) x)"},
		{"(T)+x*y", []string{"T"}, []string{"x", "y"}, "(* (cast T (+ x)) y)"},
		{"(T)-x/y+z", []string{"T"}, []string{"x", "y", "z"}, "(+ (/ (cast T (- x)) y) z)"},
		{"(T)-x*y ? a : b", []string{"T"}, []string{"x", "y", "a", "b"}, "(?: (* (cast T (- x)) y) a b)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := newTestResolver(tt.types, tt.values)
			tree := parseExpression(t, tt.input, r)
			if tree.Failed() {
				t.Fatalf("unexpected problems: %v", tree.Problems())
			}
			if diff := cmp.Diff(tt.want, tree.SExpr(tree.Root())); diff != "" {
				t.Errorf("shape mismatch (-want +got):\n%s", diff)
			}
			checkLinks(t, tree.AST, tree.Root())
			checkOrder(t, tree.AST, tree.Root())
			seen := map[NodeID]bool{}
			for _, name := range Names(tree.AST, tree.Root()) {
				assert.False(t, seen[name], "name %q reached twice", tree.Text(name))
				seen[name] = true
			}
			if got := tree.Spelling(tree.Root()); got != tt.input {
				t.Errorf("root spells %q, want the whole input", got)
			}
		})
	}
}

func TestResolveCastVsCall(t *testing.T) {
	tests := []struct {
		input  string
		types  []string
		values []string
		want   string
	}{
		{"(T)(a, b)", []string{"T"}, []string{"a", "b"}, "(cast T ((, a b)))"},
		{"(f)(a, b)", nil, []string{"f", "a", "b"}, "(call (f) a b)"},
		{"(f)(a)", nil, []string{"f", "a"}, "(call (f) a)"},
		{"(f)(a)[0]", nil, []string{"f", "a"}, "([] (call (f) a) 0)"},
		{"(T)(a)[0]", []string{"T"}, []string{"a"}, "(cast T ([] (a) 0))"},
		{"(f)(a).m", nil, []string{"f", "a"}, "(. (call (f) a) m)"},
		{"(f)(a)++", nil, []string{"f", "a"}, "((call (f) a)++)"},
		{"(f)()", nil, []string{"f"}, "(call (f))"},
		{"x + (f)(a)", nil, []string{"x", "f", "a"}, "(+ x (call (f) a))"},
		{"(f)(a) * 2", nil, []string{"f", "a"}, "(* (call (f) a) 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := newTestResolver(tt.types, tt.values)
			tree := parseExpression(t, tt.input, r)
			if tree.Failed() {
				t.Fatalf("unexpected problems: %v", tree.Problems())
			}
			if diff := cmp.Diff(tt.want, tree.SExpr(tree.Root())); diff != "" {
				t.Errorf("shape mismatch (-want +got):\n%s", diff)
			}
			checkLinks(t, tree.AST, tree.Root())
		})
	}
}

func TestResolveCastVsCallSpansCall(t *testing.T) {
	input := "(f)(a, b)"
	tree := parseExpression(t, input, newTestResolver(nil, []string{"f", "a", "b"}))
	root := tree.Root()
	require.Equal(t, KindCall, tree.Kind(root))
	assert.Equal(t, input, tree.Spelling(root))
	args := tree.ChildrenWith(root, PropArgument)
	require.Len(t, args, 2)
	assert.Equal(t, "a", tree.Spelling(args[0]))
	assert.Equal(t, "b", tree.Spelling(args[1]))
}

func TestResolveDeclarationOrExpression(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		types  []string
		values []string
		want   NodeKind
	}{
		{"pointer declaration", "void f(void) { T * p; }", []string{"T"}, nil, KindDeclarationStatement},
		{"multiplication", "void f(void) { T * p; }", nil, []string{"T", "p"}, KindExpressionStatement},
		{"call", "void f(void) { g(x); }", nil, []string{"g", "x"}, KindExpressionStatement},
		{"parenthesized declarator", "void f(void) { g(x); }", []string{"g"}, nil, KindDeclarationStatement},
		{"nothing resolves", "void f(void) { T * p; }", nil, nil, KindDeclarationStatement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parseUnit(t, tt.input, WithNameResolver(newTestResolver(tt.types, tt.values)))
			stmts := statements(t, tree.AST)
			require.Len(t, stmts, 1)
			assert.Equal(t, tt.want, tree.Kind(stmts[0]))
			checkLinks(t, tree.AST, tree.Root())
		})
	}
}

func TestResolveWithoutResolverPicksFirst(t *testing.T) {
	tree := parseUnit(t, "void f(void) { T * p; x = sizeof(y); }")
	stmts := statements(t, tree.AST)
	require.Len(t, stmts, 2)
	assert.Equal(t, KindDeclarationStatement, tree.Kind(stmts[0]))

	value := tree.Child(tree.Child(stmts[1], PropExpression), PropOperand2)
	assert.Equal(t, KindTypeIDExpression, tree.Kind(value))
}

func TestResolveSizeof(t *testing.T) {
	tests := []struct {
		input  string
		types  []string
		values []string
		want   string
	}{
		{"sizeof(x)", []string{"x"}, nil, "(sizeof-type x)"},
		{"sizeof(x)", nil, []string{"x"}, "(sizeof (x))"},
		{"sizeof(int)", nil, nil, "(sizeof-type int)"},
		{"sizeof(x) + 1", nil, []string{"x"}, "(+ (sizeof (x)) 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.input+"/"+strings.Join(tt.types, ","), func(t *testing.T) {
			tree := parseExpression(t, tt.input, newTestResolver(tt.types, tt.values))
			if diff := cmp.Diff(tt.want, tree.SExpr(tree.Root())); diff != "" {
				t.Errorf("shape mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveForgetsRejectedAlternative(t *testing.T) {
	r := newTestResolver([]string{"T"}, nil)
	tree := parseUnit(t, "void f(void) { T * p; }", WithNameResolver(r))

	require.Len(t, r.forgotten, 2)
	var texts []string
	for _, name := range r.forgotten {
		assert.Equal(t, KindIDExpression, tree.Kind(tree.Parent(name)))
		texts = append(texts, tree.Text(name))
	}
	assert.Equal(t, []string{"T", "p"}, texts)
}

// buildGeneric makes a generic ambiguity at the root with one alternative
// per text. A text of several words becomes a call of the first word with
// the others as arguments, so the alternative holds several names.
func buildGeneric(t *testing.T, texts ...string) *Builder {
	t.Helper()
	b := NewBuilder("", []byte(strings.Join(texts, " ")))
	idExpression := func(word string, offset int) NodeID {
		expr, err := b.NewNode(KindIDExpression, offset, len(word))
		require.NoError(t, err)
		name, err := b.NewNode(KindName, offset, len(word))
		require.NoError(t, err)
		require.NoError(t, b.SetText(name, word))
		require.NoError(t, b.AddChild(expr, PropName, name))
		return expr
	}

	var alts []NodeID
	offset := 0
	for _, text := range texts {
		words := strings.Fields(text)
		alt := idExpression(words[0], offset)
		if len(words) > 1 {
			call, err := b.NewNode(KindCall, offset, len(text))
			require.NoError(t, err)
			require.NoError(t, b.AddChild(call, PropCallee, alt))
			at := offset + len(words[0]) + 1
			for _, word := range words[1:] {
				require.NoError(t, b.AddChild(call, PropArgument, idExpression(word, at)))
				at += len(word) + 1
			}
			alt = call
		}
		alts = append(alts, alt)
		offset += len(text) + 1
	}
	amb, err := b.NewAmbiguity(AmbiguityGeneric, alts...)
	require.NoError(t, err)
	require.NoError(t, b.SetRoot(amb))
	return b
}

func TestResolveGenericOrderIndependent(t *testing.T) {
	tests := []struct {
		name    string
		texts   []string
		want    string
		lookups int
	}{
		{"good first", []string{"good", "bad"}, "good", 1},
		{"good last", []string{"bad", "good"}, "good", 2},
		{"good between", []string{"bad", "good", "worse"}, "good", 2},
		{"tie keeps first", []string{"bad", "worse"}, "bad", 2},
		{"counting stops at the best so far", []string{"bad", "worse worst awful"}, "bad", 2},
		{"counting stops after resolved names", []string{"good bad", "good good worse bad"}, "(call good bad)", 5},
		{"fewer problems win", []string{"bad worse", "good bad"}, "(call good bad)", 4},
		{"all names resolve", []string{"bad worse", "good good"}, "(call good good)", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := buildGeneric(t, tt.texts...)
			r := newTestResolver(nil, []string{"good"})
			require.NoError(t, b.ResolveAll(r))
			assert.Equal(t, tt.want, b.SExpr(b.Root()))
			assert.Equal(t, tt.lookups, r.lookups)
			assert.Equal(t, NoNode, b.Parent(b.Root()))
		})
	}
}

type panickingResolver struct{}

func (panickingResolver) ResolveName(a *AST, name NodeID) (Binding, error) {
	if a.Text(name) == "boom" {
		panic("lookup failed")
	}
	return testBinding{name: a.Text(name)}, nil
}

func TestResolvePanicCountsAsProblem(t *testing.T) {
	b := buildGeneric(t, "boom", "fine")
	require.NoError(t, b.ResolveAll(panickingResolver{}))
	assert.Equal(t, "fine", b.SExpr(b.Root()))
}

func TestResolveAmbiguity(t *testing.T) {
	b, err := ParseTranslationUnit(strings.NewReader("void f(void) { T * p; }")).Parse()
	require.NoError(t, err)

	ambs := b.Ambiguities()
	require.Len(t, ambs, 1)
	amb := ambs[0]
	assert.Equal(t, AmbiguityGeneric, b.AmbiguityKind(amb))
	require.Len(t, b.Alternatives(amb), 2)
	_, resolved := b.Resolved(amb)
	assert.False(t, resolved)

	r := newTestResolver(nil, []string{"T", "p"})
	chosen, err := b.ResolveAmbiguity(amb, r)
	require.NoError(t, err)
	assert.Equal(t, KindExpressionStatement, b.Kind(chosen))
	assert.Equal(t, b.Alternatives(amb)[1], chosen)

	again, err := b.ResolveAmbiguity(amb, r)
	require.NoError(t, err)
	assert.Equal(t, chosen, again)
	got, ok := b.Resolved(amb)
	assert.True(t, ok)
	assert.Equal(t, chosen, got)

	_, err = b.ResolveAmbiguity(b.Root(), r)
	assert.Error(t, err)
}

func TestCollapseAmbiguities(t *testing.T) {
	b, err := ParseTranslationUnit(strings.NewReader("void f(void) { T * p; (a)+b; }")).Parse()
	require.NoError(t, err)
	require.NotEmpty(t, ambiguitiesIn(b.AST, b.Root()))

	b.collapseAmbiguities()
	assert.Empty(t, ambiguitiesIn(b.AST, b.Root()))
	stmts := statements(t, b.AST)
	require.Len(t, stmts, 2)
	assert.Equal(t, KindDeclarationStatement, b.Kind(stmts[0]))
	assert.Equal(t, "(+ (a) b)", b.SExpr(b.Child(stmts[1], PropExpression)))
}
