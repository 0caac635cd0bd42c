package grammar

import (
	"fmt"
	"unicode/utf8"

	"github.com/dhamidi/cxxparse/cxx/parser"
	"golang.org/x/exp/ebnf"
)

// Lexeme is one match of a token production, including the ones the
// parser never sees.
type Lexeme struct {
	Production string
	Offset     int
	Text       string
}

func (l Lexeme) String() string {
	return fmt.Sprintf("%d %s %q", l.Offset, l.Production, l.Text)
}

// IsLayout reports whether lexemes of the production are dropped before
// they reach the parser.
func IsLayout(production string) bool {
	switch production {
	case "Whitespace", "Comment", "Directive":
		return true
	}
	return false
}

type memoKey struct {
	name   string
	offset int
}

// Lexer splits input into the longest match among the productions named by
// the grammar's Start production. It implements parser.TokenSource.
type Lexer struct {
	grammar  ebnf.Grammar
	kinds    []string
	input    []byte
	pos      int
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

// NewLexer tokenizes input with the built-in grammar.
func NewLexer(input []byte) *Lexer {
	l, err := NewGrammarLexer(Default(), input)
	if err != nil {
		panic(err)
	}
	return l
}

// NewGrammarLexer tokenizes input with g. The Start production of g must
// be a repetition of alternatives, each naming a token production.
func NewGrammarLexer(g ebnf.Grammar, input []byte) (*Lexer, error) {
	kinds, err := tokenKinds(g)
	if err != nil {
		return nil, err
	}
	return &Lexer{
		grammar:  g,
		kinds:    kinds,
		input:    input,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}, nil
}

func tokenKinds(g ebnf.Grammar) ([]string, error) {
	prod, ok := g[Start]
	if !ok || prod.Expr == nil {
		return nil, fmt.Errorf("grammar has no %s production", Start)
	}
	expr := prod.Expr
	for {
		switch e := expr.(type) {
		case *ebnf.Repetition:
			expr = e.Body
			continue
		case *ebnf.Group:
			expr = e.Body
			continue
		}
		break
	}
	alts, ok := expr.(ebnf.Alternative)
	if !ok {
		alts = ebnf.Alternative{expr}
	}
	kinds := make([]string, 0, len(alts))
	for _, alt := range alts {
		name, ok := alt.(*ebnf.Name)
		if !ok {
			return nil, fmt.Errorf("%s: alternative at %s is not a production name", Start, alt.Pos())
		}
		kinds = append(kinds, name.String)
	}
	return kinds, nil
}

// Scan returns the next lexeme. ok is false at the end of input. Input
// that no production matches comes back one character at a time with an
// empty Production.
func (l *Lexer) Scan() (lex Lexeme, ok bool) {
	if l.pos >= len(l.input) {
		return Lexeme{Offset: len(l.input)}, false
	}
	start := l.pos
	clear(l.memo)

	best, bestLen := "", 0
	for _, name := range l.kinds {
		if n, ok := l.matchName(name, start); ok && n > bestLen {
			best, bestLen = name, n
		}
	}
	if bestLen == 0 {
		_, bestLen = utf8.DecodeRune(l.input[start:])
	}
	l.pos += bestLen
	return Lexeme{Production: best, Offset: start, Text: string(l.input[start:l.pos])}, true
}

// NextToken returns the next token the parser should see.
func (l *Lexer) NextToken() parser.Token {
	for {
		lex, ok := l.Scan()
		if !ok {
			return parser.Token{Kind: parser.TokenEOF, Offset: lex.Offset}
		}
		if IsLayout(lex.Production) {
			continue
		}
		return parser.Token{
			Kind:    classify(lex.Production, lex.Text),
			Offset:  lex.Offset,
			Length:  len(lex.Text),
			Literal: lex.Text,
		}
	}
}

// Tokenize returns all tokens up to and including the end of input.
func (l *Lexer) Tokenize() []parser.Token {
	var tokens []parser.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == parser.TokenEOF {
			return tokens
		}
	}
}

func classify(production, text string) parser.TokenKind {
	switch production {
	case "Identifier":
		return parser.LookupKeyword(text)
	case "IntegerConstant":
		return parser.TokenIntLiteral
	case "FloatingConstant":
		return parser.TokenFloatLiteral
	case "CharacterConstant":
		return parser.TokenCharLiteral
	case "StringLiteral":
		return parser.TokenStringLiteral
	case "Punctuator":
		return parser.LookupPunctuator(text)
	}
	return parser.TokenError
}

// match reports how many bytes expr matches at offset. Repetitions and
// options are greedy and never give back what they consumed.
func (l *Lexer) match(expr ebnf.Expression, offset int) (int, bool) {
	switch e := expr.(type) {
	case nil:
		return 0, true
	case *ebnf.Token:
		if len(e.String) > len(l.input)-offset || string(l.input[offset:offset+len(e.String)]) != e.String {
			return 0, false
		}
		return len(e.String), true
	case *ebnf.Range:
		if offset >= len(l.input) {
			return 0, false
		}
		ch, size := utf8.DecodeRune(l.input[offset:])
		lo, _ := utf8.DecodeRuneInString(e.Begin.String)
		hi, _ := utf8.DecodeRuneInString(e.End.String)
		if ch < lo || ch > hi {
			return 0, false
		}
		return size, true
	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n, ok := l.match(item, offset+total)
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true
	case ebnf.Alternative:
		best, matched := 0, false
		for _, alt := range e {
			if n, ok := l.match(alt, offset); ok && (!matched || n > best) {
				best, matched = n, true
			}
		}
		return best, matched
	case *ebnf.Repetition:
		total := 0
		for {
			n, ok := l.match(e.Body, offset+total)
			if !ok || n == 0 {
				return total, true
			}
			total += n
		}
	case *ebnf.Option:
		n, ok := l.match(e.Body, offset)
		if !ok {
			return 0, true
		}
		return n, true
	case *ebnf.Group:
		return l.match(e.Body, offset)
	case *ebnf.Name:
		return l.matchName(e.String, offset)
	}
	return 0, false
}

// matchName memoizes per offset. A production that reaches itself at the
// same offset fails there instead of looping.
func (l *Lexer) matchName(name string, offset int) (int, bool) {
	key := memoKey{name: name, offset: offset}
	if n, ok := l.memo[key]; ok {
		return n, n >= 0
	}
	if l.visiting[key] {
		return 0, false
	}
	prod, ok := l.grammar[name]
	if !ok {
		l.memo[key] = -1
		return 0, false
	}

	l.visiting[key] = true
	n, ok := l.match(prod.Expr, offset)
	delete(l.visiting, key)

	if !ok {
		n = -1
	}
	l.memo[key] = n
	return n, ok
}
