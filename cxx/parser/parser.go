package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithContext makes the parse stop early once ctx is done. A cancelled
// parse still yields a tree, with Failed set.
func WithContext(ctx context.Context) Option {
	return func(p *Parser) {
		p.ctx = ctx
	}
}

// WithSkipFunctionBodies replaces every function body with an empty
// compound statement found by brace matching.
func WithSkipFunctionBodies() Option {
	return func(p *Parser) {
		p.skipBodies = true
	}
}

// WithNameResolver sets the service used to score ambiguity alternatives.
// Without one every name counts as resolved and the first alternative of
// each generic ambiguity wins.
func WithNameResolver(r NameResolver) Option {
	return func(p *Parser) {
		p.resolver = r
	}
}

// WithDefines seeds the macros visible to #if conditions. Later options
// override earlier ones name by name.
func WithDefines(defines map[string]string) Option {
	return func(p *Parser) {
		if p.defines == nil {
			p.defines = make(map[string]string, len(defines))
		}
		maps.Copy(p.defines, defines)
	}
}

// WithInactiveCode keeps top-level declarations from excluded #if branches
// in the tree, marked inactive.
func WithInactiveCode() Option {
	return func(p *Parser) {
		p.inactiveCode = true
	}
}

// WithCompletionAt parses for editor completion at offset: the input ends
// there and the identifier prefix before it becomes the completion name.
func WithCompletionAt(offset int) Option {
	return func(p *Parser) {
		p.completionAt = offset
	}
}

// WithTokenSource bypasses the built-in lexer. The reader still supplies
// the source text used for spelling and positions.
func WithTokenSource(src TokenSource) Option {
	return func(p *Parser) {
		p.source = src
	}
}

type parseFunc func(*Parser) NodeID

type Parser struct {
	file         string
	ctx          context.Context
	reader       io.Reader
	input        []byte
	source       TokenSource
	skipBodies   bool
	inactiveCode bool
	completionAt int
	defines      map[string]string
	resolver     NameResolver
	entry        parseFunc

	c       *Cursor
	b       *Builder
	aborted bool
}

func newParser(r io.Reader, entry parseFunc, opts []Option) *Parser {
	p := &Parser{
		ctx:          context.Background(),
		reader:       r,
		completionAt: -1,
		entry:        entry,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func ParseTranslationUnit(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseTranslationUnit, opts)
}

func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseExpressionRoot, opts)
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	if p.reader == nil {
		p.input = []byte{}
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

// Parse builds the tree without resolving ambiguities. The returned
// Builder still holds every ambiguous node with all its alternatives.
func (p *Parser) Parse() (*Builder, error) {
	if err := p.readAll(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	src := p.source
	if src == nil {
		var opts []LexerOption
		if p.defines != nil {
			opts = append(opts, Defines(p.defines))
		}
		if p.inactiveCode {
			opts = append(opts, KeepInactiveCode())
		}
		if p.completionAt >= 0 {
			opts = append(opts, CompleteAt(p.completionAt))
		}
		src = NewLexer(p.input, opts...)
	}
	p.c = NewCursor(p.ctx, src)
	p.b = NewBuilder(p.file, p.input)
	p.aborted = false
	p.b.root = p.entry(p)
	if p.aborted {
		p.b.failed = true
	}
	return p.b, nil
}

// Finish parses the input, resolves every ambiguity and returns the frozen
// tree. Only failing to read the input is reported as an error; syntax
// problems and cancellation are recorded in the tree.
func (p *Parser) Finish() (*Tree, error) {
	b, err := p.Parse()
	if err != nil {
		return nil, err
	}
	if p.aborted {
		b.collapseAmbiguities()
	} else if err := b.ResolveAll(p.resolver); err != nil {
		return nil, err
	}
	return b.Freeze()
}

// Aborted reports whether the last parse stopped because its context was
// cancelled.
func (p *Parser) Aborted() bool {
	return p.aborted
}

func (p *Parser) noteError(err error) {
	if errors.Is(err, ErrAborted) {
		p.aborted = true
	}
}

func (p *Parser) lt(i int) Token {
	tok, err := p.c.LA(i)
	if err != nil {
		p.noteError(err)
		return Token{Kind: TokenEOF, Offset: p.c.LastEnd()}
	}
	return tok
}

func (p *Parser) atEnd() bool {
	k := p.lt(1).Kind
	return k == TokenEOF || k == TokenEndOfCompletion
}

func (p *Parser) consume() (Token, error) {
	tok, err := p.c.Consume()
	if err != nil {
		p.noteError(err)
	}
	return tok, err
}

func (p *Parser) expect(kind TokenKind) (Token, error) {
	tok, err := p.c.Consume(kind)
	if err != nil {
		p.noteError(err)
		var bt *BacktrackError
		if errors.As(err, &bt) {
			bt.Problem = &Problem{
				Code:    ProblemSyntaxError,
				Message: fmt.Sprintf("expected %s, found %s", kind, describe(tok)),
				Offset:  tok.Offset,
				Length:  tok.Length,
			}
		}
	}
	return tok, err
}

func (p *Parser) backtrack(msg string) error {
	tok := p.lt(1)
	if tok.Kind == TokenEOF {
		if p.aborted {
			return ErrAborted
		}
		return ErrEndOfInput
	}
	return &BacktrackError{
		Offset: tok.Offset,
		Length: tok.Length,
		Node:   NoNode,
		Problem: &Problem{
			Code:    ProblemSyntaxError,
			Message: fmt.Sprintf("%s, found %s", msg, describe(tok)),
			Offset:  tok.Offset,
			Length:  tok.Length,
		},
	}
}

func describe(tok Token) string {
	switch tok.Kind {
	case TokenIdent, TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral, TokenStringLiteral:
		return fmt.Sprintf("%q", tok.Literal)
	}
	return fmt.Sprintf("'%s'", tok.Kind)
}

func (p *Parser) mark() Mark {
	return p.c.Mark()
}

func (p *Parser) backup(m Mark) {
	p.c.Backup(m)
}

func (p *Parser) startNode(kind NodeKind) NodeID {
	return p.b.add(kind, p.lt(1).Offset, 0)
}

// finishNode ends id at the last consumed token. A node that consumed
// nothing collapses onto the end of the preceding token.
func (p *Parser) finishNode(id NodeID) NodeID {
	start, end := p.b.Offset(id), p.c.LastEnd()
	p.b.setRange(id, min(start, end), end)
	return id
}

func (p *Parser) name(tok Token) NodeID {
	id := p.b.add(KindName, tok.Offset, tok.Length)
	p.b.n(id).text = tok.Literal
	if tok.Kind == TokenCompletion {
		p.b.completion = id
	}
	return id
}

// problemNode turns a failed production into a problem node covering
// start up to the current position.
func (p *Parser) problemNode(err error, start int) NodeID {
	code, msg := ProblemSyntaxError, "syntax error"
	var bt *BacktrackError
	switch {
	case errors.Is(err, ErrAborted):
		code, msg = ProblemAborted, "parse cancelled"
	case errors.Is(err, ErrEndOfInput):
		code, msg = ProblemUnexpectedEOF, "unexpected end of input"
	case errors.As(err, &bt) && bt.Problem != nil:
		msg = bt.Problem.Message
	}
	end := max(start, p.c.LastEnd())
	return p.b.newProblem(code, msg, start, end-start)
}

// recover skips tokens after a syntax error. At statement level it stops
// after a ';' or before the '}' that closes the enclosing block; at file
// level a stray '}' is consumed as well.
func (p *Parser) recover(statementLevel bool) {
	depth := 0
	progressed := false
	for !p.atEnd() {
		tok := p.lt(1)
		switch tok.Kind {
		case TokenLBrace:
			depth++
		case TokenRBrace:
			if depth == 0 && statementLevel && progressed {
				return
			}
			depth--
		}
		if _, err := p.consume(); err != nil {
			return
		}
		progressed = true
		if depth <= 0 && (tok.Kind == TokenSemicolon || tok.Kind == TokenRBrace) {
			return
		}
	}
}

func (p *Parser) parseTranslationUnit() NodeID {
	tu := p.b.add(KindTranslationUnit, 0, len(p.input))
	for {
		if p.inactiveCode && p.inactiveAhead() {
			p.inactiveDeclaration(tu)
			continue
		}
		if p.atEnd() {
			break
		}
		start := p.lt(1).Offset
		if p.lt(1).Kind == TokenSemicolon {
			p.consume()
			continue
		}
		decl, err := p.externalDeclaration()
		if err != nil {
			p.b.attach(tu, PropDeclaration, p.problemNode(err, start))
			if p.aborted {
				break
			}
			p.recover(false)
			continue
		}
		p.b.attach(tu, PropDeclaration, decl)
	}
	return tu
}

func (p *Parser) inactiveAhead() bool {
	prev := p.c.SetIncludeInactive(true)
	defer p.c.SetIncludeInactive(prev)
	tok := p.lt(1)
	return tok.Inactive
}

// inactiveDeclaration parses one declaration from an excluded region. If
// it does not parse cleanly within the region, the region's tokens are
// skipped without reporting anything.
func (p *Parser) inactiveDeclaration(tu NodeID) {
	prev := p.c.SetIncludeInactive(true)
	defer p.c.SetIncludeInactive(prev)

	m := p.mark()
	problems, failed := len(p.b.problems), p.b.failed
	decl, err := p.externalDeclaration()
	if err == nil && len(p.b.problems) == problems && p.lastConsumedInactive() {
		p.b.markInactive(decl)
		p.b.attach(tu, PropDeclaration, decl)
		return
	}
	if p.aborted {
		return
	}
	p.b.problems, p.b.failed = p.b.problems[:problems], failed
	p.backup(m)
	for p.lt(1).Inactive {
		if _, err := p.consume(); err != nil {
			return
		}
	}
}

func (p *Parser) lastConsumedInactive() bool {
	for i := p.c.pos - 1; i >= 0; i-- {
		tok := p.c.tokens[i]
		if tok.Kind.IsBoundary() {
			continue
		}
		return tok.Inactive
	}
	return false
}

func (p *Parser) parseExpressionRoot() NodeID {
	start := p.lt(1).Offset
	expr, err := p.expression()
	if err != nil {
		return p.problemNode(err, start)
	}
	if p.atEnd() {
		return expr
	}
	// The problem takes the root's place and keeps the expression parsed
	// so far as its child.
	tok := p.lt(1)
	id := p.b.newProblem(ProblemSyntaxError,
		fmt.Sprintf("unexpected %s after expression", describe(tok)),
		tok.Offset, len(p.input)-tok.Offset)
	p.b.setRange(id, min(start, p.b.Offset(expr)), len(p.input))
	p.b.attach(id, PropExpression, expr)
	return id
}
