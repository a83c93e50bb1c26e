// Package lsp provides a Language Server Protocol server that lints open
// TypeScript documents and publishes the findings as diagnostics.
package lsp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
	"github.com/Sumatoshi-tech/tsguard/pkg/syntax"
)

const (
	serverName       = "tsguard"
	diagnosticSource = "tsguard"
)

// Server implements the tsguard LSP server.
type Server struct {
	store   *DocumentStore
	results *ResultCache
	handler protocol.Handler
	linter  *lint.Linter
	logger  *slog.Logger
	version string
}

// NewServer creates a server that lints documents with linter.
func NewServer(linter *lint.Linter, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	srv := &Server{
		store:   NewDocumentStore(),
		results: NewResultCache(DefaultResultCacheSize),
		linter:  linter,
		logger:  logger,
		version: version,
	}

	srv.handler = protocol.Handler{
		Initialize:            srv.initialize,
		Initialized:           srv.initialized,
		Shutdown:              srv.shutdown,
		SetTrace:              srv.setTrace,
		TextDocumentDidOpen:   srv.didOpen,
		TextDocumentDidChange: srv.didChange,
		TextDocumentDidSave:   srv.didSave,
		TextDocumentDidClose:  srv.didClose,
	}

	return srv
}

// Handler returns the protocol handler, for embedding in other transports.
func (srv *Server) Handler() *protocol.Handler {
	return &srv.handler
}

// Store returns the open-document store.
func (srv *Server) Store() *DocumentStore {
	return srv.store
}

// Run serves LSP on stdio until the client disconnects.
func (srv *Server) Run() error {
	lspServer := server.NewServer(&srv.handler, serverName, false)

	err := lspServer.RunStdio()
	if err != nil {
		return fmt.Errorf("lsp server: %w", err)
	}

	return nil
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()

	if opts, ok := capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions); ok {
		full := protocol.TextDocumentSyncKindFull
		opts.Change = &full
	}

	version := srv.version

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI

	srv.store.Set(uri, params.TextDocument.Text)
	srv.publishDiagnostics(ctx, uri)

	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	text, _ := srv.store.Get(uri)
	changed := false

	for _, change := range params.ContentChanges {
		switch event := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = event.Text
			changed = true
		case protocol.TextDocumentContentChangeEvent:
			text = applyChange(text, event)
			changed = true
		}
	}

	if changed {
		srv.store.Set(uri, text)
		srv.publishDiagnostics(ctx, uri)
	}

	return nil
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI

	if params.Text != nil {
		srv.store.Set(uri, *params.Text)
	}

	if _, ok := srv.store.Get(uri); ok {
		srv.publishDiagnostics(ctx, uri)
	}

	return nil
}

func (srv *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	srv.store.Delete(uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})

	return nil
}

func (srv *Server) publishDiagnostics(ctx *glsp.Context, uri string) {
	text, ok := srv.store.Get(uri)
	if !ok {
		return
	}

	diagnostics, err := srv.Diagnose(context.Background(), uri, text)
	if err != nil && !errors.Is(err, syntax.ErrUnsupportedFile) {
		srv.logger.Warn("lint failed", "uri", uri, "error", err)
	}

	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Diagnose lints text as the document at uri and converts the findings to
// LSP diagnostics.
func (srv *Server) Diagnose(ctx context.Context, uri, text string) ([]protocol.Diagnostic, error) {
	path := uriToPath(uri)

	diagnostics, ok := srv.results.Get(path, text)
	if !ok {
		result, err := srv.linter.LintSource(ctx, path, []byte(text))
		if err != nil {
			return nil, err
		}

		diagnostics = result.Diagnostics
		srv.results.Put(path, text, diagnostics)
	}

	index := newLineIndex(text)
	out := make([]protocol.Diagnostic, 0, len(diagnostics))

	for _, diag := range diagnostics {
		out = append(out, toProtocol(index, diag))
	}

	return out, nil
}

func toProtocol(index lineIndex, diag lint.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityWarning
	if diag.Severity == lint.SeverityError {
		severity = protocol.DiagnosticSeverityError
	}

	source := diagnosticSource

	message := diag.Message
	if diag.Help != "" {
		message += "\n" + diag.Help
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: index.position(diag.Span.StartLine, diag.Span.StartColumn),
			End:   index.position(diag.Span.EndLine, diag.Span.EndColumn),
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: diag.Rule},
		Source:   &source,
		Message:  message,
	}
}

// uriToPath maps a document URI to a file path. Only the extension matters
// for linting, so unparsable URIs are used verbatim.
func uriToPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme == "" {
		return uri
	}

	if parsed.Scheme == "file" {
		return filepath.FromSlash(parsed.Path)
	}

	return strings.TrimPrefix(parsed.Opaque+parsed.Path, "/")
}
