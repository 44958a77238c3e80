package lsp

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/bindexpr/binding/parser"
	"github.com/dhamidi/bindexpr/layout"
)

type documentKind int

const (
	kindUnknown documentKind = iota
	kindLayout
	kindBinding
)

func kindOf(path string) documentKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return kindLayout
	case ".bind":
		return kindBinding
	}
	return kindUnknown
}

// document is an open editor buffer together with its last analysis.
type document struct {
	uri     string
	path    string
	kind    documentKind
	text    string
	version int32

	// report is set for layout files.
	report *layout.Report
	// root and errs are set for .bind files.
	root *parser.Node
	errs []*parser.Error
}

func newDocument(uri, path, text string, version int32) *document {
	doc := &document{
		uri:     uri,
		path:    path,
		kind:    kindOf(path),
		text:    text,
		version: version,
	}
	doc.analyze()
	return doc
}

func (d *document) analyze() {
	switch d.kind {
	case kindLayout:
		d.report = layout.CheckSource(d.path, []byte(d.text))
	case kindBinding:
		p := parser.ParseBinding(strings.NewReader(d.text), parser.WithFile(d.path))
		d.root = p.Finish()
		d.errs = p.Errors()
	}
}

// diagnostics returns the problems of the document in layout form so both
// document kinds share one conversion.
func (d *document) diagnostics() []layout.Diagnostic {
	switch d.kind {
	case kindLayout:
		return d.report.Diagnostics()
	case kindBinding:
		diags := make([]layout.Diagnostic, 0, len(d.errs))
		for _, err := range d.errs {
			var span parser.Span
			if err.Got != nil {
				span = err.Got.Span
			}
			diags = append(diags, layout.Diagnostic{
				Span:     span,
				Severity: layout.SeverityError,
				Message:  err.Message,
				Source:   "binding",
			})
		}
		return diags
	}
	return nil
}

// expressionAt returns the innermost expression node that contains the
// byte offset.
func (d *document) expressionAt(offset int) *parser.Node {
	switch d.kind {
	case kindLayout:
		for _, expr := range d.report.Expressions {
			if expr.Root == nil || offset < expr.Span.Start.Offset || offset >= expr.Span.End.Offset {
				continue
			}
			return innermost(expr.Root, offset)
		}
	case kindBinding:
		if d.root != nil {
			return innermost(d.root, offset)
		}
	}
	return nil
}

func innermost(n *parser.Node, offset int) *parser.Node {
	var found *parser.Node
	var visit func(n *parser.Node)
	visit = func(n *parser.Node) {
		if n == nil || offset < n.Span.Start.Offset || offset >= n.Span.End.Offset {
			return
		}
		if n.Kind.IsExpression() {
			found = n
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(n)
	return found
}

type documentStore struct {
	mu   sync.Mutex
	docs map[string]*document
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[string]*document)}
}

func (s *documentStore) put(doc *document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.uri] = doc
}

func (s *documentStore) get(uri string) *document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[uri]
}

func (s *documentStore) remove(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}
