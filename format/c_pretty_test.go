package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testResolver(types ...string) parser.NameResolver {
	return typeNames(types)
}

// typeNames binds the listed names as types and everything else as a
// value.
type typeNames []string

type binding struct {
	name    string
	problem bool
}

func (b binding) Name() string { return b.name }

func (b binding) IsProblem() bool { return b.problem }

func (t typeNames) ResolveName(a *parser.AST, name parser.NodeID) (parser.Binding, error) {
	text := a.Text(name)
	isType := false
	for _, typ := range t {
		isType = isType || typ == text
	}
	switch a.NameRole(name) {
	case parser.RoleType:
		return binding{text, !isType}, nil
	case parser.RoleValue:
		return binding{text, isType}, nil
	}
	return binding{name: text}, nil
}

func TestPrettyPrintUnchanged(t *testing.T) {
	input := `typedef unsigned long size_t;
struct point {
    int x;
    int y : 4;
};
enum color { RED, GREEN = 2 };
static const char *names[4] = {"a", "b"};
int (*handler)(int, ...);
extern int printf(const char *fmt, ...);

int main(int argc, char **argv) {
    int i;
    for (i = 0; i < argc; i++) {
        if (i % 2)
            continue;
        else if (i > 10)
            break;
        else {
            printf("%s\n", argv[i]);
        }
    }
    while (argc--)
        ;
    do {
        i += sizeof(struct point);
    } while (i < 10);
    switch (i) {
    case 1:
        return -(-i);
    default:
        break;
    }
    goto out;
out:
    return (int)i * 2;
}
`
	got, err := PrettyPrintC([]byte(input))
	require.NoError(t, err)
	if diff := cmp.Diff(input, string(got)); diff != "" {
		t.Errorf("output differs (-want +got):\n%s", diff)
	}
}

func TestPrettyPrintNormalizes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "spacing",
			input: "int  x=1 ,*y;",
			want:  "int x = 1, *y;\n",
		},
		{
			name:  "blank lines around functions",
			input: "int a; void f(void){return;} int b;",
			want:  "int a;\n\nvoid f(void) {\n    return;\n}\n\nint b;\n",
		},
		{
			name:  "empty for",
			input: "void f(void) { for (;;) {} }",
			want:  "void f(void) {\n    for (;;) {\n    }\n}\n",
		},
		{
			name:  "label without statement",
			input: "void f(void) { goto end; end: }",
			want:  "void f(void) {\n    goto end;\nend:\n}\n",
		},
		{
			name:  "nested struct member",
			input: "struct a { struct b { int c; } d; };",
			want:  "struct a {\n    struct b {\n        int c;\n    } d;\n};\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PrettyPrintC([]byte(tt.input))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, string(got)); diff != "" {
				t.Errorf("output differs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrettyPrintExpressions(t *testing.T) {
	tests := []struct {
		input string
		types []string
		want  string
	}{
		{"a*(b+c)", nil, "a * (b + c)"},
		{"a-(b-c)", nil, "a - (b - c)"},
		{"x=y=z", nil, "x = y = z"},
		{"a?b:c?d:e", nil, "a ? b : c ? d : e"},
		{"p->f.g[1](x,y)", nil, "p->f.g[1](x, y)"},
		{"- -x", nil, "- -x"},
		{"a - -b", nil, "a - -b"},
		{"& &x", nil, "& &x"},
		{"!~x", nil, "!~x"},
		{"sizeof x", nil, "sizeof x"},
		{"sizeof(int*)", nil, "sizeof(int *)"},
		{"(T)-x*y", []string{"T"}, "(T)-x * y"},
		{"(y)-x*y", nil, "(y) - x * y"},
		{"-(T)+x", []string{"T"}, "-(T)+x"},
		{"(T)(a,b)", []string{"T"}, "(T)(a, b)"},
		{"(f)(a,b)", nil, "(f)(a, b)"},
		{"(f)(a)[0]", nil, "(f)(a)[0]"},
		{"(char*)p", []string{"char"}, "(char *)p"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, err := parser.ParseExpression(strings.NewReader(tt.input), parser.WithNameResolver(testResolver(tt.types...))).Finish()
			require.NoError(t, err)
			require.False(t, tree.Failed(), "problems: %v", tree.Problems())

			var buf bytes.Buffer
			require.NoError(t, NewCPrettyPrinter(&buf).Print(tree.AST, tree.Root()))
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("output differs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrettyPrintReparses(t *testing.T) {
	input := "int f(int n){int s=0;for(int i=0;i<n;i++)s+=i*(i+1);return s?s:-1;}"
	first, err := PrettyPrintC([]byte(input))
	require.NoError(t, err)
	second, err := PrettyPrintC(first)
	require.NoError(t, err)
	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Errorf("printing is not idempotent (-first +second):\n%s", diff)
	}
}
