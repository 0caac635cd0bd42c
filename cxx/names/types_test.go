package names

import (
	"strings"
	"testing"

	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOf(t *testing.T) {
	input := `typedef int T;
int n;
char *s;
double d[3];
int f(int);
int (*fp)(int);
void g(void) {
	s;
	*s;
	&n;
	&s;
	s + n;
	d[1];
	f(n);
	fp(n);
	(T)n;
	n < 2;
	sizeof n;
	1.5f;
	2.0;
	"x";
	'c';
	10ul;
	0x10L;
	s - s;
	n ? s : s;
	n = 3;
	n, s;
	unknown;
}`
	want := []Type{
		"char *",
		"char",
		"int *",
		"char **",
		"char *",
		"double",
		"int",
		"int",
		"T",
		"int",
		"size_t",
		"float",
		"double",
		"char *",
		"int",
		"unsigned long",
		"long",
		"ptrdiff_t",
		"char *",
		"int",
		"char *",
		Unknown,
	}

	r := NewResolver()
	tree := parse(t, input, r)
	stmts := body(t, tree)
	require.Len(t, stmts, len(want))
	for i, stmt := range stmts {
		expr := tree.Child(stmt, parser.PropExpression)
		assert.Equal(t, want[i], r.TypeOf(tree.AST, expr), tree.Spelling(stmt))
	}
}

func TestTypeOfUnresolvedAmbiguity(t *testing.T) {
	b, err := parser.ParseTranslationUnit(strings.NewReader("void f(void) { x = sizeof(y); }")).Parse()
	require.NoError(t, err)
	require.Len(t, b.Ambiguities(), 1)

	assert.Equal(t, Unknown, NewResolver().TypeOf(b.AST, b.Ambiguities()[0]))
}
