package parser

import (
	"testing"
)

func lexAll(l *Lexer) []Token {
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks
		}
	}
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"int", []TokenKind{TokenInt, TokenEOF}},
		{"typedef struct S S;", []TokenKind{TokenTypedef, TokenStruct, TokenIdent, TokenIdent, TokenSemicolon, TokenEOF}},
		{"123 0x1F 10UL", []TokenKind{TokenIntLiteral, TokenIntLiteral, TokenIntLiteral, TokenEOF}},
		{"3.14 1e10 2.0f .5", []TokenKind{TokenFloatLiteral, TokenFloatLiteral, TokenFloatLiteral, TokenFloatLiteral, TokenEOF}},
		{`"hello\"" 'a' '\n'`, []TokenKind{TokenStringLiteral, TokenCharLiteral, TokenCharLiteral, TokenEOF}},
		{"// comment\nint", []TokenKind{TokenInt, TokenEOF}},
		{"/* block */ int", []TokenKind{TokenInt, TokenEOF}},
		{"+ - * / %", []TokenKind{TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent, TokenEOF}},
		{"== != < <= > >=", []TokenKind{TokenEQ, TokenNE, TokenLT, TokenLE, TokenGT, TokenGE, TokenEOF}},
		{"&& || ! & | ^ ~", []TokenKind{TokenAndAnd, TokenOrOr, TokenNot, TokenAmp, TokenPipe, TokenCaret, TokenTilde, TokenEOF}},
		{"<<= >>= << >>", []TokenKind{TokenShlAssign, TokenShrAssign, TokenShl, TokenShr, TokenEOF}},
		{"++ -- -> . ...", []TokenKind{TokenIncrement, TokenDecrement, TokenArrow, TokenDot, TokenEllipsis, TokenEOF}},
		{".* ->*", []TokenKind{TokenDotStar, TokenArrowStar, TokenEOF}},
		{"#include <stdio.h>\nint", []TokenKind{TokenInt, TokenEOF}},
		{"@", []TokenKind{TokenError, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := kinds(lexAll(NewLexer([]byte(tt.input))))
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerConditionalCompilation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		defines  map[string]string
		expected []string
	}{
		{
			name:     "if zero",
			input:    "#if 0\nint a;\n#endif\nint b;",
			expected: []string{"int", "b", ";"},
		},
		{
			name:     "else branch",
			input:    "#if 0\nint a;\n#else\nint b;\n#endif",
			expected: []string{"int", "b", ";"},
		},
		{
			name:     "ifdef seeded",
			input:    "#ifdef DEBUG\nint a;\n#endif",
			defines:  map[string]string{"DEBUG": "1"},
			expected: []string{"int", "a", ";"},
		},
		{
			name:     "define then test",
			input:    "#define N 2\n#if N > 1 && defined(N)\nint a;\n#elif 1\nint b;\n#endif",
			expected: []string{"int", "a", ";"},
		},
		{
			name:     "elif taken once",
			input:    "#if 0\nint a;\n#elif 1\nint b;\n#elif 1\nint c;\n#endif",
			expected: []string{"int", "b", ";"},
		},
		{
			name:     "nested in inactive",
			input:    "#ifndef X\n#if 1\nint a;\n#endif\n#endif\nint b;",
			defines:  map[string]string{"X": ""},
			expected: []string{"int", "b", ";"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, tok := range lexAll(NewLexer([]byte(tt.input), Defines(tt.defines))) {
				if tok.Kind == TokenEOF || tok.Kind.IsBoundary() {
					continue
				}
				got = append(got, tok.Literal)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %q, want %q", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerKeepInactiveCode(t *testing.T) {
	toks := lexAll(NewLexer([]byte("#if 0\nint a;\n#endif\nint b;"), KeepInactiveCode()))
	want := []TokenKind{
		TokenInactiveStart, TokenInt, TokenIdent, TokenSemicolon, TokenInactiveEnd,
		TokenInt, TokenIdent, TokenSemicolon, TokenEOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	for i, tok := range toks {
		inactive := i >= 1 && i <= 3
		if tok.Inactive != inactive {
			t.Errorf("token %d (%v): inactive = %v, want %v", i, tok.Kind, tok.Inactive, inactive)
		}
	}
}

func TestLexerUnterminatedInactiveRegion(t *testing.T) {
	got := kinds(lexAll(NewLexer([]byte("int a;\n#if 0\nint b;"), KeepInactiveCode())))
	last := got[len(got)-2:]
	if last[0] != TokenInactiveEnd || last[1] != TokenEOF {
		t.Errorf("got %v, want the region closed before EOF", got)
	}
}

func TestLexerCompletion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		offset  int
		literal string
	}{
		{"identifier prefix", "int x = foo + ba", 16, "ba"},
		{"truncates input", "int x = foo + bar;", 16, "ba"},
		{"empty prefix", "int x = ", 8, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexAll(NewLexer([]byte(tt.input), CompleteAt(tt.offset)))
			var completion *Token
			for i := range toks {
				if toks[i].Kind == TokenCompletion {
					completion = &toks[i]
				}
			}
			if completion == nil {
				t.Fatalf("no completion token in %v", kinds(toks))
			}
			if completion.Literal != tt.literal {
				t.Errorf("completion literal = %q, want %q", completion.Literal, tt.literal)
			}
			if toks[len(toks)-1].Kind != TokenEOF {
				t.Errorf("stream does not end with EOF")
			}
		})
	}
}
