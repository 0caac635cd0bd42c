package main

import (
	"testing"

	"github.com/dhamidi/cxxparse/cxx/names"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionDeclarationsDecideCasts(t *testing.T) {
	s := newSession(nil)

	_, err := s.eval("typedef int T;")
	require.NoError(t, err)
	_, err = s.eval("int y;")
	require.NoError(t, err)
	assert.Equal(t, names.KindTypedef, s.predeclared["T"])
	assert.Equal(t, names.KindVariable, s.predeclared["y"])

	out, err := s.eval("(T)-x")
	require.NoError(t, err)
	assert.Equal(t, "(cast T (- x))", out)

	out, err = s.eval("(y)-x")
	require.NoError(t, err)
	assert.Equal(t, "(- (y) x)", out)
}

func TestSessionSkipsParametersAndMembers(t *testing.T) {
	s := newSession(nil)
	_, err := s.eval("struct point { int x; int y; }; int f(int n);")
	require.NoError(t, err)

	assert.Contains(t, s.predeclared, "f")
	assert.NotContains(t, s.predeclared, "n")
	assert.NotContains(t, s.predeclared, "x")
}

func TestSessionCommands(t *testing.T) {
	s := newSession(map[string]names.Kind{"U": names.KindTypedef})

	_, err := s.eval("typedef int T;")
	require.NoError(t, err)

	out, err := s.eval(":type (T)-x")
	require.NoError(t, err)
	assert.Equal(t, "T", out)

	out, err = s.eval(":decls")
	require.NoError(t, err)
	assert.Equal(t, "typedef int T;", out)

	out, err = s.eval(":help")
	require.NoError(t, err)
	assert.Equal(t, replHelp, out)

	_, err = s.eval(":reset")
	require.NoError(t, err)
	assert.Empty(t, s.decls)
	assert.NotContains(t, s.predeclared, "T")
	assert.Contains(t, s.predeclared, "U")

	_, err = s.eval(":frobnicate")
	assert.ErrorContains(t, err, "unknown command :frobnicate")
}

func TestSessionAmbiguities(t *testing.T) {
	s := newSession(map[string]names.Kind{"T": names.KindTypedef})
	out, err := s.eval(":ambiguities (T)(a)")
	require.NoError(t, err)
	assert.Contains(t, out, "<repl>:1:1")
	assert.Contains(t, out, "cast-vs-call ambiguity")
	assert.Contains(t, out, "  * 0 (cast T")
}

func TestSessionReportsProblems(t *testing.T) {
	s := newSession(nil)
	_, err := s.eval("int ;;; )")
	assert.Error(t, err)
	assert.Empty(t, s.decls)
}

func TestSessionIncomplete(t *testing.T) {
	s := newSession(nil)
	assert.True(t, s.incomplete("a +"))
	assert.True(t, s.incomplete("int f(void) {"))
	assert.False(t, s.incomplete("a + b"))
	assert.False(t, s.incomplete("int x;"))
}
