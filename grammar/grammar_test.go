package grammar

import (
	"strings"
	"testing"

	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinTokens(input string) []parser.Token {
	l := parser.NewLexer([]byte(input))
	var toks []parser.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == parser.TokenEOF {
			return toks
		}
	}
}

func TestDefaultGrammarVerifies(t *testing.T) {
	require.NoError(t, Check("c.ebnf", strings.NewReader(string(Source())), Start))
	assert.NotNil(t, Default()["Identifier"])
}

func TestLexerAgreesWithBuiltin(t *testing.T) {
	inputs := []string{
		"",
		"typedef struct S S;",
		"123 0x1F 10UL",
		"3.14 1e10 2.0f .5",
		`"hello\"" 'a' '\n'`,
		"// comment\nint",
		"/* block */ int",
		"/**/x/***/y/* a * b / c **/z",
		"+ - * / % == != < <= > >= && || ! & | ^ ~",
		"<<= >>= << >> ++ -- -> . ... .* ->*",
		"a+=b-=c*=d/=e%=f&=g|=h^=i",
		"int main(int argc, char **argv) { return argv[0][1] ? 0 : -1; }",
		"x = (T)-y->z++;",
		"@",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			want := builtinTokens(input)
			got := NewLexer([]byte(input)).Tokenize()
			require.Equal(t, len(want), len(got), "tokens: %v", got)
			for i := range want {
				assert.Equal(t, want[i].Kind, got[i].Kind, "token %d", i)
				assert.Equal(t, want[i].Offset, got[i].Offset, "token %d", i)
				assert.Equal(t, want[i].Literal, got[i].Literal, "token %d", i)
			}
		})
	}
}

func TestLexerSkipsDirectives(t *testing.T) {
	toks := NewLexer([]byte("#include <stdio.h>\nint x;")).Tokenize()
	kinds := make([]parser.TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []parser.TokenKind{parser.TokenInt, parser.TokenIdent, parser.TokenSemicolon, parser.TokenEOF}, kinds)
}

func TestScanReportsProductions(t *testing.T) {
	l := NewLexer([]byte("x /* c */ 1.5"))
	var got []string
	for {
		lex, ok := l.Scan()
		if !ok {
			break
		}
		got = append(got, lex.Production+" "+lex.Text)
	}
	assert.Equal(t, []string{
		"Identifier x",
		"Whitespace  ",
		"Comment /* c */",
		"Whitespace  ",
		"FloatingConstant 1.5",
	}, got)
}

func TestLexerFeedsParser(t *testing.T) {
	input := "typedef int T; int f(int a) { T * p; return (T)-a; }"
	want, err := parser.ParseTranslationUnit(strings.NewReader(input)).Finish()
	require.NoError(t, err)

	got, err := parser.ParseTranslationUnit(strings.NewReader(input),
		parser.WithTokenSource(NewLexer([]byte(input)))).Finish()
	require.NoError(t, err)

	assert.False(t, got.Failed())
	assert.Equal(t, want.SExpr(want.Root()), got.SExpr(got.Root()))
}

func TestCustomGrammar(t *testing.T) {
	src := `
Tokens = { Space | Word | Number } .
Space  = " " .
Word   = Letter { Letter } .
Letter = "a" … "z" .
Number = Digit { Digit } .
Digit  = "0" … "9" .
`
	g, err := Load("words.ebnf", strings.NewReader(src))
	require.NoError(t, err)

	l, err := NewGrammarLexer(g, []byte("ab 12?"))
	require.NoError(t, err)
	var got []string
	for {
		lex, ok := l.Scan()
		if !ok {
			break
		}
		got = append(got, lex.Production+":"+lex.Text)
	}
	assert.Equal(t, []string{"Word:ab", "Space: ", "Number:12", ":?"}, got)
}

func TestCheckErrors(t *testing.T) {
	err := Check("bad.ebnf", strings.NewReader("Tokens = Missing | Other .\nUnused = \"x\" ."), Start)
	require.Error(t, err)
	errs := Errors(err)
	assert.Len(t, errs, 3)

	assert.NoError(t, Check("bad.ebnf", strings.NewReader("Tokens = Missing ."), ""))
	assert.Error(t, Check("bad.ebnf", strings.NewReader("Tokens = ."), "Nope"))

	_, err = NewGrammarLexer(nil, nil)
	assert.Error(t, err)
}
