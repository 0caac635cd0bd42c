package codebase

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhamidi/cxxparse/cxx/names"
	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/dhamidi/cxxparse/project"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "cxp"

type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string
	opts     []parser.Option
	poll     time.Duration
}

// NewLSPServer creates a server whose codebase parses with opts. A
// positive poll interval also watches the workspace for changes made
// outside the editor.
func NewLSPServer(version string, poll time.Duration, opts ...parser.Option) *LSPServer {
	ls := &LSPServer{
		version: version,
		opts:    opts,
		poll:    poll,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentCompletion:     ls.textDocumentCompletion,
		TextDocumentHover:          ls.textDocumentHover,
		TextDocumentDefinition:     ls.textDocumentDefinition,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.opts...)
	switch p, err := project.LoadFrom(rootDir); {
	case err == nil:
		log.Infof("using %s in %s", project.FileName, p.RootDir)
		ls.codebase = New(rootDir, append(p.Options(), ls.opts...)...)
		ls.codebase.Predeclare(p.Predeclared())
		ls.codebase.ExcludeDirs(p.Excluded)
	case !errors.Is(err, project.ErrNotFound):
		log.Warningf("%s", err)
	}

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{".", ">"},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if ls.poll > 0 {
		ls.watcher = NewFileWatcher(ls.codebase, ls.poll)
		ls.watcher.Start()
		return nil
	}
	if err := ls.codebase.ScanAll(); err != nil {
		log.Warningf("scan %s: %s", ls.codebase.RootDir(), err)
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) update(ctx *glsp.Context, uri protocol.DocumentUri, content []byte) {
	path, err := uriToPath(uri)
	if err != nil {
		return
	}
	ls.codebase.UpdateFile(path, content)
	ls.publishDiagnostics(ctx, uri, path)
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, path string) {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	diagnostics := []protocol.Diagnostic{}
	for _, d := range ls.codebase.Diagnostics(path) {
		code := protocol.IntegerOrString{Value: d.Code.String()}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    protocol.Range{Start: toProtocolPosition(d.Start), End: toProtocolPosition(d.End)},
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  d.Message,
		})
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx, params.TextDocument.URI, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, []byte(*params.Text))
		return nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.ScanFile(path)
	ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
	return nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	line, column := fromProtocolPosition(params.Position)
	completions := ls.codebase.CompletionsAt(path, line, column)
	if len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toCompletionKind(c.Kind)
		detail := c.Detail
		items = append(items, protocol.CompletionItem{
			Label:  c.Label,
			Kind:   &kind,
			Detail: &detail,
		})
	}
	return items, nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	line, column := fromProtocolPosition(params.Position)
	text := ls.codebase.HoverAt(path, line, column)
	if text == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindPlainText,
			Value: text,
		},
	}, nil
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	line, column := fromProtocolPosition(params.Position)
	pos, ok := ls.codebase.DefinitionAt(path, line, column)
	if !ok {
		return nil, nil
	}
	start := toProtocolPosition(pos)
	return protocol.Location{
		URI:   params.TextDocument.URI,
		Range: protocol.Range{Start: start, End: start},
	}, nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	symbols := []protocol.DocumentSymbol{}
	for _, s := range ls.codebase.Symbols(path) {
		if s.Kind == names.KindParameter {
			continue
		}
		detail := s.Type
		start := toProtocolPosition(s.Pos)
		end := start
		end.Character += protocol.UInteger(len(s.Name))
		r := protocol.Range{Start: start, End: end}
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           s.Name,
			Detail:         &detail,
			Kind:           toSymbolKind(s.Kind),
			Range:          r,
			SelectionRange: r,
		})
	}
	return symbols, nil
}

// LSP positions are 0-based; the parser counts lines and columns from 1.
func fromProtocolPosition(p protocol.Position) (line, column int) {
	return int(p.Line) + 1, int(p.Character) + 1
}

func toProtocolPosition(p parser.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(max(p.Line-1, 0)),
		Character: protocol.UInteger(max(p.Column-1, 0)),
	}
}

func toCompletionKind(kind names.Kind) protocol.CompletionItemKind {
	switch kind {
	case names.KindFunction:
		return protocol.CompletionItemKindFunction
	case names.KindVariable, names.KindParameter:
		return protocol.CompletionItemKindVariable
	case names.KindMember:
		return protocol.CompletionItemKindField
	case names.KindEnumerator:
		return protocol.CompletionItemKindEnumMember
	case names.KindTypedef:
		return protocol.CompletionItemKindTypeParameter
	case names.KindStructTag:
		return protocol.CompletionItemKindStruct
	default:
		return protocol.CompletionItemKindText
	}
}

func toSymbolKind(kind names.Kind) protocol.SymbolKind {
	switch kind {
	case names.KindFunction:
		return protocol.SymbolKindFunction
	case names.KindMember:
		return protocol.SymbolKindField
	case names.KindEnumerator:
		return protocol.SymbolKindEnumMember
	case names.KindTypedef:
		return protocol.SymbolKindTypeParameter
	case names.KindStructTag:
		return protocol.SymbolKindStruct
	default:
		return protocol.SymbolKindVariable
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
