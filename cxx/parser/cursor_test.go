package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	tokens []Token
	calls  int
}

func (s *sliceSource) NextToken() Token {
	s.calls++
	if len(s.tokens) == 0 {
		return Token{Kind: TokenEOF}
	}
	tok := s.tokens[0]
	s.tokens = s.tokens[1:]
	return tok
}

func ident(name string, offset int) Token {
	return Token{Kind: TokenIdent, Offset: offset, Length: len(name), Literal: name}
}

func TestCursorMarkBackup(t *testing.T) {
	src := &sliceSource{tokens: []Token{ident("a", 0), ident("b", 2), ident("c", 4)}}
	c := NewCursor(context.Background(), src)

	tok, err := c.Consume()
	require.NoError(t, err)
	assert.Equal(t, "a", tok.Literal)

	m := c.Mark()
	for _, want := range []string{"b", "c"} {
		tok, err := c.Consume(TokenIdent)
		require.NoError(t, err)
		assert.Equal(t, want, tok.Literal)
	}
	assert.Equal(t, 5, c.LastEnd())
	fetched := src.calls

	c.Backup(m)
	tok, err = c.LA(1)
	require.NoError(t, err)
	assert.Equal(t, "b", tok.Literal)
	tok, err = c.LA(2)
	require.NoError(t, err)
	assert.Equal(t, "c", tok.Literal)
	assert.Equal(t, fetched, src.calls, "replaying after backup must not read from the source")
	assert.Equal(t, 1, c.LastEnd())
}

func TestCursorConsumeMismatch(t *testing.T) {
	c := NewCursor(context.Background(), &sliceSource{tokens: []Token{ident("a", 0)}})

	_, err := c.Consume(TokenSemicolon)
	var bt *BacktrackError
	require.ErrorAs(t, err, &bt)
	assert.Equal(t, 0, bt.Offset)
	assert.Equal(t, 1, bt.Length)

	tok, err := c.LA(1)
	require.NoError(t, err)
	assert.Equal(t, "a", tok.Literal, "a failed consume must not advance")
}

func TestCursorEndOfInput(t *testing.T) {
	c := NewCursor(context.Background(), &sliceSource{tokens: []Token{ident("a", 0)}})

	_, err := c.LA(2)
	require.ErrorIs(t, err, ErrEndOfInput)

	_, err = c.Consume()
	require.NoError(t, err)
	_, err = c.Consume()
	require.ErrorIs(t, err, ErrEndOfInput)
}

func TestCursorCompletion(t *testing.T) {
	src := &sliceSource{tokens: []Token{
		ident("x", 0),
		{Kind: TokenAssign, Offset: 2, Length: 1},
		{Kind: TokenCompletion, Offset: 4, Length: 2, Literal: "fo"},
	}}
	c := NewCursor(context.Background(), src)

	for i := 0; i < 3; i++ {
		_, err := c.Consume()
		require.NoError(t, err)
	}
	assert.True(t, c.CompletionSeen())

	tok, err := c.LA(1)
	require.NoError(t, err)
	assert.Equal(t, TokenEndOfCompletion, tok.Kind)

	m := c.Mark()
	tok, err = c.Consume(TokenSemicolon)
	require.NoError(t, err, "end of completion matches any expected token")
	assert.Equal(t, TokenEndOfCompletion, tok.Kind)
	assert.Equal(t, m, c.Mark())
}

func TestCursorInactiveTokens(t *testing.T) {
	hidden := ident("hidden", 2)
	hidden.Inactive = true
	src := &sliceSource{tokens: []Token{
		{Kind: TokenInactiveStart, Offset: 0, Length: 1},
		hidden,
		{Kind: TokenInactiveEnd, Offset: 9, Length: 1},
		ident("shown", 11),
	}}
	c := NewCursor(context.Background(), src)

	tok, err := c.LA(1)
	require.NoError(t, err)
	assert.Equal(t, "shown", tok.Literal)

	prev := c.SetIncludeInactive(true)
	assert.False(t, prev)
	tok, err = c.LA(1)
	require.NoError(t, err)
	assert.Equal(t, "hidden", tok.Literal)

	c.SetObserveBoundaries(true)
	tok, err = c.LA(1)
	require.NoError(t, err)
	assert.Equal(t, TokenInactiveStart, tok.Kind)
	tok, err = c.LA(3)
	require.NoError(t, err)
	assert.Equal(t, TokenInactiveEnd, tok.Kind)
}

func TestCursorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewCursor(ctx, &sliceSource{tokens: []Token{ident("a", 0)}})

	_, err := c.LA(1)
	require.NoError(t, err)

	cancel()
	_, err = c.LA(1)
	require.ErrorIs(t, err, ErrAborted)
	_, err = c.Consume()
	require.ErrorIs(t, err, ErrAborted)
}
