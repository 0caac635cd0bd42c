package parser

import "context"

// Mark is a saved cursor position.
type Mark int

// Cursor is a backtrackable view over a TokenSource. Every token read from
// the source is buffered, so rewinding with Backup replays tokens without
// asking the source again.
//
// Tokens from inactive code are invisible unless SetIncludeInactive(true)
// was called, and the InactiveStart/InactiveEnd boundaries are invisible
// unless SetObserveBoundaries(true) was called.
type Cursor struct {
	src    TokenSource
	ctx    context.Context
	tokens []Token
	pos    int
	eof    bool

	completion        int
	includeInactive   bool
	observeBoundaries bool
}

func NewCursor(ctx context.Context, src TokenSource) *Cursor {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Cursor{
		src:        src,
		ctx:        ctx,
		completion: -1,
	}
}

// SetIncludeInactive toggles visibility of inactive tokens and returns the
// previous setting.
func (c *Cursor) SetIncludeInactive(on bool) bool {
	prev := c.includeInactive
	c.includeInactive = on
	return prev
}

// SetObserveBoundaries toggles visibility of inactive-region boundaries
// and returns the previous setting.
func (c *Cursor) SetObserveBoundaries(on bool) bool {
	prev := c.observeBoundaries
	c.observeBoundaries = on
	return prev
}

func (c *Cursor) fetch(i int) Token {
	for i >= len(c.tokens) {
		if c.eof {
			return c.tokens[len(c.tokens)-1]
		}
		tok := c.src.NextToken()
		if tok.Kind == TokenCompletion && c.completion < 0 {
			c.completion = len(c.tokens)
		}
		c.tokens = append(c.tokens, tok)
		if tok.Kind == TokenEOF {
			c.eof = true
		}
	}
	return c.tokens[i]
}

func (c *Cursor) visibleFrom(i int) (int, Token) {
	for {
		tok := c.fetch(i)
		switch {
		case tok.Kind == TokenEOF:
			return i, tok
		case tok.Kind.IsBoundary():
			if c.observeBoundaries {
				return i, tok
			}
		case tok.Inactive:
			if c.includeInactive {
				return i, tok
			}
		default:
			return i, tok
		}
		i++
	}
}

func (c *Cursor) endOfInput(eof Token) (Token, error) {
	if c.completion >= 0 {
		return Token{Kind: TokenEndOfCompletion, Offset: eof.Offset}, nil
	}
	return eof, ErrEndOfInput
}

// LA returns the i-th visible token ahead (1-based) without consuming
// anything. Running past the end fails with ErrEndOfInput unless a
// completion token has been seen, in which case TokenEndOfCompletion is
// returned for every position past the end.
func (c *Cursor) LA(i int) (Token, error) {
	if err := c.ctx.Err(); err != nil {
		return Token{}, ErrAborted
	}
	idx := c.pos
	for n := 1; ; n++ {
		var tok Token
		idx, tok = c.visibleFrom(idx)
		if tok.Kind == TokenEOF {
			return c.endOfInput(tok)
		}
		if n == i {
			return tok, nil
		}
		idx++
	}
}

// Consume returns the current token and advances past it. When kinds are
// given the token must be one of them, otherwise a *BacktrackError is
// returned and the cursor does not move. TokenEndOfCompletion matches any
// expected kind.
func (c *Cursor) Consume(kinds ...TokenKind) (Token, error) {
	if err := c.ctx.Err(); err != nil {
		return Token{}, ErrAborted
	}
	idx, tok := c.visibleFrom(c.pos)
	if tok.Kind == TokenEOF {
		return c.endOfInput(tok)
	}
	if len(kinds) > 0 && !matches(tok.Kind, kinds) {
		return tok, &BacktrackError{Offset: tok.Offset, Length: tok.Length, Node: NoNode}
	}
	c.pos = idx + 1
	return tok, nil
}

func matches(kind TokenKind, kinds []TokenKind) bool {
	if kind == TokenEndOfCompletion {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (c *Cursor) Mark() Mark {
	return Mark(c.pos)
}

func (c *Cursor) Backup(m Mark) {
	c.pos = int(m)
}

// LastEnd returns the end offset of the last token consumed before the
// current position, ignoring tokens that are currently invisible.
func (c *Cursor) LastEnd() int {
	for i := c.pos - 1; i >= 0; i-- {
		tok := c.tokens[i]
		if tok.Kind.IsBoundary() && !c.observeBoundaries {
			continue
		}
		if tok.Inactive && !c.includeInactive {
			continue
		}
		return tok.End()
	}
	return 0
}

// CompletionSeen reports whether the source has produced a completion
// token.
func (c *Cursor) CompletionSeen() bool {
	return c.completion >= 0
}
