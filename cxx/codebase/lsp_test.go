package codebase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type notifications struct {
	methods []string
	params  []any
}

func (n *notifications) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			n.methods = append(n.methods, method)
			n.params = append(n.params, params)
		},
	}
}

func openDocument(t *testing.T, ls *LSPServer, ctx *glsp.Context, uri, text string) {
	t.Helper()
	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "c", Version: 1, Text: text},
	}))
}

func newTestServer(t *testing.T) *LSPServer {
	ls := NewLSPServer("test", 0)
	ls.codebase = New(t.TempDir())
	return ls
}

func TestLSPPublishesDiagnostics(t *testing.T) {
	ls := newTestServer(t)
	var n notifications
	openDocument(t, ls, n.context(), "file:///work/a.c", "int a;\nint x = ;\n")

	require.Equal(t, []string{"textDocument/publishDiagnostics"}, n.methods)
	params, ok := n.params[0].(protocol.PublishDiagnosticsParams)
	require.True(t, ok)
	assert.Equal(t, protocol.DocumentUri("file:///work/a.c"), params.URI)
	require.Len(t, params.Diagnostics, 1)
	assert.Equal(t, protocol.UInteger(1), params.Diagnostics[0].Range.Start.Line)
	assert.Equal(t, protocol.DiagnosticSeverityError, *params.Diagnostics[0].Severity)

	require.NoError(t, ls.textDocumentDidChange(n.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///work/a.c"},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "int a;\nint x = a;\n"}},
	}))
	require.Len(t, n.params, 2)
	params = n.params[1].(protocol.PublishDiagnosticsParams)
	assert.Empty(t, params.Diagnostics, "fixed file clears its diagnostics")
}

func TestLSPHoverAndDefinition(t *testing.T) {
	ls := newTestServer(t)
	var n notifications
	openDocument(t, ls, n.context(), "file:///work/a.c", "int a;\nint x = a;\n")

	position := protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/a.c"},
		Position:     protocol.Position{Line: 1, Character: 8},
	}
	hover, err := ls.textDocumentHover(n.context(), &protocol.HoverParams{TextDocumentPositionParams: position})
	require.NoError(t, err)
	require.NotNil(t, hover)
	assert.Equal(t, "variable a: int", hover.Contents.(protocol.MarkupContent).Value)

	def, err := ls.textDocumentDefinition(n.context(), &protocol.DefinitionParams{TextDocumentPositionParams: position})
	require.NoError(t, err)
	loc, ok := def.(protocol.Location)
	require.True(t, ok)
	assert.Equal(t, protocol.Position{Line: 0, Character: 4}, loc.Range.Start)
}

func TestLSPCompletionAndSymbols(t *testing.T) {
	ls := newTestServer(t)
	var n notifications
	openDocument(t, ls, n.context(), "file:///work/a.c", "int count; int cost;\nint f(void) { return co")

	result, err := ls.textDocumentCompletion(n.context(), &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/a.c"},
			Position:     protocol.Position{Line: 1, Character: 23},
		},
	})
	require.NoError(t, err)
	items, ok := result.([]protocol.CompletionItem)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "cost", items[0].Label)
	assert.Equal(t, protocol.CompletionItemKindVariable, *items[0].Kind)

	openDocument(t, ls, n.context(), "file:///work/b.c", "int count; int cost;\nint f(int n) { return n; }\n")
	result, err = ls.textDocumentDocumentSymbol(n.context(), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/b.c"},
	})
	require.NoError(t, err)
	symbols := result.([]protocol.DocumentSymbol)
	var got []string
	for _, s := range symbols {
		got = append(got, s.Name)
	}
	assert.Equal(t, []string{"count", "cost", "f"}, got)
	assert.Equal(t, protocol.SymbolKindFunction, symbols[2].Kind)
}

func TestURIToPath(t *testing.T) {
	path, err := uriToPath("file:///work/src/a%20b.c")
	require.NoError(t, err)
	assert.Equal(t, "/work/src/a b.c", path)

	path, err = uriToPath("untitled:1")
	require.NoError(t, err)
	assert.Equal(t, "untitled:1", path)
}
