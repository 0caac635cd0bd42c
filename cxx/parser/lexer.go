package parser

import (
	"strings"

	"github.com/dhamidi/cxxparse/cxx/pp"
)

// Lexer is the reference token source. It tokenizes C, drops comments,
// tracks conditional compilation and, on request, stops at a completion
// offset.
type Lexer struct {
	input       []byte
	pos         int
	lineStart   bool
	keepActive  bool
	completion  bool
	completed   bool
	defines     map[string]string
	eval        *pp.Evaluator
	conds       []condFrame
	pending     []Token
	closedAtEOF bool
}

type condFrame struct {
	parentActive bool
	active       bool
	taken        bool
}

type LexerOption func(*Lexer)

// KeepInactiveCode makes the lexer emit the tokens of excluded regions with
// Inactive set instead of dropping them.
func KeepInactiveCode() LexerOption {
	return func(l *Lexer) {
		l.keepActive = true
	}
}

// CompleteAt truncates the input at offset and emits a TokenCompletion for
// the identifier prefix that ends there.
func CompleteAt(offset int) LexerOption {
	return func(l *Lexer) {
		if offset >= 0 && offset <= len(l.input) {
			l.input = l.input[:offset]
			l.completion = true
		}
	}
}

// Defines seeds the macro table consulted by #if conditions.
func Defines(defines map[string]string) LexerOption {
	return func(l *Lexer) {
		for k, v := range defines {
			l.defines[k] = v
		}
	}
}

func NewLexer(input []byte, opts ...LexerOption) *Lexer {
	l := &Lexer{
		input:     input,
		lineStart: true,
		defines:   make(map[string]string),
		eval:      pp.NewEvaluator(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Lexer) active() bool {
	if len(l.conds) == 0 {
		return true
	}
	return l.conds[len(l.conds)-1].active
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) NextToken() Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}
	for {
		l.skipWhitespaceAndComments()
		if l.pos >= len(l.input) {
			return l.endOfInput()
		}
		if l.lineStart && l.peek() == '#' {
			if tok, ok := l.directive(); ok {
				return tok
			}
			continue
		}
		if !l.active() && !l.keepActive {
			l.skipLine()
			continue
		}
		tok := l.scan()
		tok.Inactive = !l.active()
		return tok
	}
}

func (l *Lexer) endOfInput() Token {
	if !l.active() && !l.closedAtEOF {
		l.closedAtEOF = true
		return Token{Kind: TokenInactiveEnd, Offset: l.pos}
	}
	if l.completion && !l.completed {
		l.completed = true
		return Token{Kind: TokenCompletion, Offset: l.pos}
	}
	return Token{Kind: TokenEOF, Offset: l.pos}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case ch == '\n':
			l.pos++
			l.lineStart = true
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v':
			l.pos++
		case ch == '\\' && l.peekN(1) == '\n':
			l.pos += 2
		case ch == '/' && l.peekN(1) == '/':
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.pos++
			}
		case ch == '/' && l.peekN(1) == '*':
			l.pos += 2
			for l.pos < len(l.input) && !(l.peek() == '*' && l.peekN(1) == '/') {
				l.pos++
			}
			l.pos += 2
			if l.pos > len(l.input) {
				l.pos = len(l.input)
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipLine() {
	for l.pos < len(l.input) && l.peek() != '\n' {
		if l.peek() == '\\' && l.peekN(1) == '\n' {
			l.pos++
		}
		l.pos++
	}
}

// directive handles a preprocessor line. It returns a boundary token when
// the line switches between active and inactive code.
func (l *Lexer) directive() (Token, bool) {
	start := l.pos
	l.skipLine()
	line := string(l.input[start:l.pos])
	line = strings.ReplaceAll(line, "\\\n", " ")
	line = strings.TrimSpace(strings.TrimPrefix(line, "#"))
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(stripComment(rest))

	wasActive := l.active()
	switch name {
	case "if":
		l.push(wasActive && l.evalCondition(rest))
	case "ifdef":
		_, ok := l.defines[firstWord(rest)]
		l.push(wasActive && ok)
	case "ifndef":
		_, ok := l.defines[firstWord(rest)]
		l.push(wasActive && !ok)
	case "elif":
		if n := len(l.conds); n > 0 {
			f := &l.conds[n-1]
			f.active = f.parentActive && !f.taken && l.evalCondition(rest)
			f.taken = f.taken || f.active
		}
	case "else":
		if n := len(l.conds); n > 0 {
			f := &l.conds[n-1]
			f.active = f.parentActive && !f.taken
			f.taken = true
		}
	case "endif":
		if n := len(l.conds); n > 0 {
			l.conds = l.conds[:n-1]
		}
	case "define":
		if wasActive {
			macro, value, _ := strings.Cut(rest, " ")
			if i := strings.IndexByte(macro, '('); i >= 0 {
				macro = macro[:i]
				value = ""
			}
			l.defines[macro] = strings.TrimSpace(value)
		}
	case "undef":
		if wasActive {
			delete(l.defines, firstWord(rest))
		}
	}

	nowActive := l.active()
	switch {
	case wasActive && !nowActive:
		return Token{Kind: TokenInactiveStart, Offset: start, Length: l.pos - start}, true
	case !wasActive && nowActive:
		return Token{Kind: TokenInactiveEnd, Offset: start, Length: l.pos - start}, true
	}
	return Token{}, false
}

func (l *Lexer) push(active bool) {
	l.conds = append(l.conds, condFrame{
		parentActive: l.active(),
		active:       active,
		taken:        active,
	})
}

func (l *Lexer) evalCondition(cond string) bool {
	ok, err := l.eval.Eval(cond, l.defines)
	if err != nil {
		log.Debugf("treating #if %q as false: %s", cond, err)
		return false
	}
	return ok
}

func (l *Lexer) scan() Token {
	l.lineStart = false
	start := l.pos
	ch := l.peek()

	switch {
	case isLetter(ch):
		for isLetterOrDigit(l.peek()) {
			l.pos++
		}
		literal := string(l.input[start:l.pos])
		kind := LookupKeyword(literal)
		if l.completion && l.pos == len(l.input) && kind == TokenIdent {
			l.completed = true
			kind = TokenCompletion
		}
		return Token{Kind: kind, Offset: start, Length: l.pos - start, Literal: literal}
	case isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))):
		return l.scanNumber(start)
	case ch == '\'':
		return l.scanQuoted(start, '\'', TokenCharLiteral)
	case ch == '"':
		return l.scanQuoted(start, '"', TokenStringLiteral)
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanNumber(start int) Token {
	isFloat := false
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		l.pos += 2
		for isHexDigit(l.peek()) {
			l.pos++
		}
	} else {
		for isDigit(l.peek()) {
			l.pos++
		}
		if l.peek() == '.' {
			isFloat = true
			l.pos++
			for isDigit(l.peek()) {
				l.pos++
			}
		}
		if l.peek() == 'e' || l.peek() == 'E' {
			isFloat = true
			l.pos++
			if l.peek() == '+' || l.peek() == '-' {
				l.pos++
			}
			for isDigit(l.peek()) {
				l.pos++
			}
		}
	}
	for strings.IndexByte("uUlLfF", l.peek()) >= 0 && l.peek() != 0 {
		if l.peek() == 'f' || l.peek() == 'F' {
			isFloat = true
		}
		l.pos++
	}
	kind := TokenIntLiteral
	if isFloat {
		kind = TokenFloatLiteral
	}
	return l.token(kind, start)
}

func (l *Lexer) scanQuoted(start int, quote byte, kind TokenKind) Token {
	l.pos++
	for l.pos < len(l.input) && l.peek() != quote && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.pos++
		}
		l.pos++
	}
	if l.peek() == quote {
		l.pos++
	}
	if l.pos > len(l.input) {
		l.pos = len(l.input)
	}
	return l.token(kind, start)
}

var operators = []struct {
	text string
	kind TokenKind
}{
	{"...", TokenEllipsis},
	{"<<=", TokenShlAssign},
	{">>=", TokenShrAssign},
	{"->*", TokenArrowStar},
	{"->", TokenArrow},
	{"++", TokenIncrement},
	{"--", TokenDecrement},
	{"<<", TokenShl},
	{">>", TokenShr},
	{"<=", TokenLE},
	{">=", TokenGE},
	{"==", TokenEQ},
	{"!=", TokenNE},
	{"&&", TokenAndAnd},
	{"||", TokenOrOr},
	{"+=", TokenPlusAssign},
	{"-=", TokenMinusAssign},
	{"*=", TokenStarAssign},
	{"/=", TokenSlashAssign},
	{"%=", TokenPercentAssign},
	{"&=", TokenAndAssign},
	{"|=", TokenOrAssign},
	{"^=", TokenXorAssign},
	{".*", TokenDotStar},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{";", TokenSemicolon},
	{",", TokenComma},
	{".", TokenDot},
	{"?", TokenQuestion},
	{":", TokenColon},
	{"=", TokenAssign},
	{"<", TokenLT},
	{">", TokenGT},
	{"!", TokenNot},
	{"&", TokenAmp},
	{"|", TokenPipe},
	{"^", TokenCaret},
	{"~", TokenTilde},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenStar},
	{"/", TokenSlash},
	{"%", TokenPercent},
}

// LookupPunctuator returns the kind of an operator or punctuator spelling,
// or TokenError when text is neither.
func LookupPunctuator(text string) TokenKind {
	for _, op := range operators {
		if op.text == text {
			return op.kind
		}
	}
	return TokenError
}

func (l *Lexer) scanOperator(start int) Token {
	rest := l.input[l.pos:]
	for _, op := range operators {
		if len(rest) >= len(op.text) && string(rest[:len(op.text)]) == op.text {
			l.pos += len(op.text)
			return l.token(op.kind, start)
		}
	}
	l.pos++
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start int) Token {
	return Token{
		Kind:    kind,
		Offset:  start,
		Length:  l.pos - start,
		Literal: string(l.input[start:l.pos]),
	}
}

func stripComment(s string) string {
	if i := strings.Index(s, "//"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "/*"); i >= 0 {
		s = s[:i]
	}
	return s
}

func firstWord(s string) string {
	word, _, _ := strings.Cut(strings.TrimSpace(s), " ")
	return word
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch >= 0x80
}

func isLetterOrDigit(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}
