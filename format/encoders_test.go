package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseUnit(t *testing.T, input string) *parser.Tree {
	t.Helper()
	tree, err := parser.ParseTranslationUnit(strings.NewReader(input)).Finish()
	require.NoError(t, err)
	return tree
}

func TestASTJSONEncoder(t *testing.T) {
	tree := parseUnit(t, "int x;\nconst char *s;")

	var buf bytes.Buffer
	require.NoError(t, NewASTJSONEncoder(&buf).Encode(tree.AST))

	var root astJSONNode
	require.NoError(t, json.Unmarshal(buf.Bytes(), &root))
	assert.Equal(t, "TranslationUnit", root.Kind)
	require.Len(t, root.Children, 2)

	decl := root.Children[1]
	assert.Equal(t, "SimpleDeclaration", decl.Kind)
	assert.Equal(t, "declaration", decl.Property)
	require.NotNil(t, decl.Span)
	assert.Equal(t, astJSONPosition{Line: 2, Column: 1}, decl.Span.Start)

	spec := decl.Children[0]
	assert.Equal(t, "DeclSpecifier", spec.Kind)
	assert.Equal(t, "char", spec.Text)
	assert.Equal(t, []string{"const"}, spec.Specifiers)
}

func TestASTJSONEncoderAmbiguity(t *testing.T) {
	b, err := parser.ParseTranslationUnit(strings.NewReader("void f(void) { T * p; }")).Parse()
	require.NoError(t, err)

	text, err := NewASTJSONEncoder(nil).MarshalText(b.AST)
	require.NoError(t, err)

	var root astJSONNode
	require.NoError(t, json.Unmarshal(text, &root))
	body := root.Children[0].Children[2]
	require.Equal(t, "CompoundStatement", body.Kind)
	amb := body.Children[0]
	assert.Equal(t, "Ambiguous", amb.Kind)
	require.NotNil(t, amb.Ambiguity)
	assert.Equal(t, "generic", amb.Ambiguity.Kind)
	require.Len(t, amb.Ambiguity.Alternatives, 2)
	assert.Equal(t, "DeclarationStatement", amb.Ambiguity.Alternatives[0].Kind)
	assert.Equal(t, "ExpressionStatement", amb.Ambiguity.Alternatives[1].Kind)
}

func TestASTYAMLEncoder(t *testing.T) {
	tree := parseUnit(t, "int x = ;")

	var buf bytes.Buffer
	require.NoError(t, NewASTYAMLEncoder(&buf).Encode(tree.AST))
	out := buf.String()
	assert.Contains(t, out, "kind: TranslationUnit")
	assert.Contains(t, out, "kind: Problem")
	assert.Contains(t, out, "code: SyntaxError")
}

func TestLineEncoder(t *testing.T) {
	tree := parseUnit(t, "typedef int T;\nstruct s { int m; };\nT v;\nint f(int a) { T w; return a; }\n")

	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf, nil).Encode(tree.AST))
	assert.Equal(t, strings.Join([]string{
		"typedef\tT\tint\t1:13",
		"tag\ts\tstruct s\t2:8",
		"member\tm\tint\t2:16",
		"variable\tv\tT\t3:3",
		"function\tf\tint()\t4:5",
		"parameter\ta\tint\t4:11",
		"variable\tw\tT\t4:18",
	}, "\n")+"\n", buf.String())
}

func TestNewEncoder(t *testing.T) {
	tree := parseUnit(t, "int x;")
	for _, name := range Formats {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			enc, err := NewEncoder(name, &buf)
			require.NoError(t, err)
			require.NoError(t, enc.Encode(tree.AST))
			assert.NotEmpty(t, buf.String())
		})
	}

	_, err := NewEncoder("xml", nil)
	assert.Error(t, err)
}

func TestDiagnosticPrinter(t *testing.T) {
	input := "int a;\nint x = ;\n"
	tree := parseUnit(t, input)
	require.Len(t, tree.Problems(), 1)
	prob := tree.Problem(tree.Problems()[0])
	pos := tree.Position(prob.Offset)

	var buf bytes.Buffer
	n, err := NewDiagnosticPrinter(&buf).Print(tree.AST)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, pos.String()+": error: "+prob.Message, lines[0])
	assert.Equal(t, "int x = ;", lines[1])
	assert.Equal(t, strings.Repeat(" ", pos.Column-1)+"^", strings.TrimRight(lines[2], "~"))
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestDiagnosticPrinterColors(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	tree := parseUnit(t, "int x = ;")
	var buf bytes.Buffer
	_, err := NewDiagnosticPrinter(&buf).WithColors(NewDiagnosticColors()).Print(tree.AST)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\x1b[")
}
