// Package lsp serves diagnostics, hover and formatting for layout files and
// .bind files over the Language Server Protocol.
package lsp

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
	"go.lsp.dev/uri"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/bindexpr/binding/parser"
	"github.com/dhamidi/bindexpr/config"
	"github.com/dhamidi/bindexpr/format"
)

const lsName = "bindexpr"

var log = commonlog.GetLogger("bindexpr.lsp")

type LSPServer struct {
	handler protocol.Handler
	server  *server.Server
	version string
	config  *config.Config
	docs    *documentStore
}

func NewLSPServer(version string, cfg *config.Config) *LSPServer {
	if cfg == nil {
		cfg = config.Default()
	}
	ls := &LSPServer{
		version: version,
		config:  cfg,
		docs:    newDocumentStore(),
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentHover:      ls.textDocumentHover,
		TextDocumentFormatting: ls.textDocumentFormatting,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
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
	log.Infof("initialized, config %q", ls.config.Path)
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.update(ctx, params.TextDocument.URI, textChange.Text, params.TextDocument.Version)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.docs.remove(params.TextDocument.URI)
	ctx.Notify(string(protocol.ServerTextDocumentPublishDiagnostics), protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	var version int32
	if doc := ls.docs.get(params.TextDocument.URI); doc != nil {
		version = doc.version
	}
	ls.update(ctx, params.TextDocument.URI, *params.Text, version)
	return nil
}

// update reanalyzes a document and publishes its diagnostics. Files that
// are neither layouts nor .bind files are ignored.
func (ls *LSPServer) update(ctx *glsp.Context, docURI, text string, version int32) {
	path, err := uriToPath(docURI)
	if err != nil {
		log.Warningf("ignoring %s: %s", docURI, err)
		return
	}
	if kindOf(path) == kindUnknown {
		return
	}
	doc := newDocument(docURI, path, text, version)
	ls.docs.put(doc)

	diags := toDiagnostics(text, doc.diagnostics())
	log.Debugf("%s: %d diagnostics", path, len(diags))
	v := protocol.UInteger(version)
	ctx.Notify(string(protocol.ServerTextDocumentPublishDiagnostics), protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Version:     &v,
		Diagnostics: diags,
	})
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := ls.docs.get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	node := doc.expressionAt(toOffset(doc.text, params.Position))
	if node == nil {
		return nil, nil
	}
	r := toRange(doc.text, node.Span)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: hoverText(node),
		},
		Range: &r,
	}, nil
}

// hoverText describes node: its kind, precedence tier and canonical form.
func hoverText(node *parser.Node) string {
	var sb strings.Builder
	sb.WriteString("**" + node.Kind.String() + "**")
	if tier := parser.Tier(node); tier > 0 {
		fmt.Fprintf(&sb, " (precedence %d)", tier)
	}
	if node.IsError() {
		if node.Error != nil {
			sb.WriteString("\n\n" + node.Error.Message)
		}
		return sb.String()
	}
	if text, err := format.NewBindingPrinter(nil).Format(node); err == nil {
		sb.WriteString("\n\n```\n" + text + "\n```")
	}
	return sb.String()
}

func (ls *LSPServer) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := ls.docs.get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	formatted, err := formatDocument(doc, ls.config.Format.MaxColumn)
	if err != nil {
		log.Debugf("%s: not formatting: %s", doc.path, err)
		return nil, nil
	}
	if formatted == doc.text {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{
		Range:   wholeRange(doc.text),
		NewText: formatted,
	}}, nil
}

func formatDocument(doc *document, maxColumn int) (string, error) {
	switch doc.kind {
	case kindLayout:
		out, err := format.FormatLayout([]byte(doc.text))
		return string(out), err
	case kindBinding:
		src := strings.TrimSpace(doc.text)
		out, err := format.FormatBinding([]byte(src), maxColumn)
		if err != nil {
			return "", err
		}
		if strings.HasSuffix(doc.text, "\n") {
			out = append(out, '\n')
		}
		return string(out), nil
	}
	return "", fmt.Errorf("unsupported file %s", doc.path)
}

func uriToPath(s string) (string, error) {
	if !strings.HasPrefix(s, "file://") {
		return s, nil
	}
	u, err := uri.Parse(s)
	if err != nil {
		return "", err
	}
	return filepath.Clean(u.Filename()), nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
