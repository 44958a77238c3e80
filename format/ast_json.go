package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/bindexpr/binding/parser"
	xmlparser "github.com/dhamidi/bindexpr/xml/parser"
)

// ASTJSONEncoder writes parse trees and their syntax errors as indented
// JSON. Binding and XML trees share one shape.
type ASTJSONEncoder struct {
	w         io.Writer
	positions bool
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w, positions: true}
}

// SetPositions controls whether spans are included. They are by default.
func (e *ASTJSONEncoder) SetPositions(on bool) {
	e.positions = on
}

func (e *ASTJSONEncoder) Encode(node *parser.Node, errs []*parser.Error) error {
	text, err := e.MarshalText(node, errs)
	if err != nil {
		return err
	}
	return e.write(text)
}

func (e *ASTJSONEncoder) EncodeXML(node *xmlparser.Node, errs []*xmlparser.Error) error {
	text, err := e.MarshalXMLText(node, errs)
	if err != nil {
		return err
	}
	return e.write(text)
}

func (e *ASTJSONEncoder) write(text []byte) error {
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, "\n")
	return err
}

func (e *ASTJSONEncoder) MarshalText(node *parser.Node, errs []*parser.Error) ([]byte, error) {
	doc := astJSONDocument{Errors: []*astJSONError{}}
	if node != nil {
		doc.Root = e.nodeToJSON(node)
	}
	for _, err := range errs {
		doc.Errors = append(doc.Errors, e.errorToJSON(err))
	}
	return json.MarshalIndent(doc, "", "  ")
}

func (e *ASTJSONEncoder) MarshalXMLText(node *xmlparser.Node, errs []*xmlparser.Error) ([]byte, error) {
	doc := astJSONDocument{Errors: []*astJSONError{}}
	if node != nil {
		doc.Root = e.xmlNodeToJSON(node)
	}
	for _, err := range errs {
		doc.Errors = append(doc.Errors, e.xmlErrorToJSON(err))
	}
	return json.MarshalIndent(doc, "", "  ")
}

type astJSONDocument struct {
	Root   *astJSONNode    `json:"root"`
	Errors []*astJSONError `json:"errors"`
}

type astJSONNode struct {
	Kind        string         `json:"kind"`
	Span        *astJSONSpan   `json:"span,omitempty"`
	Token       string         `json:"token,omitempty"`
	SelfClosing bool           `json:"selfClosing,omitempty"`
	Error       *astJSONError  `json:"error,omitempty"`
	Children    []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type astJSONError struct {
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Position *astJSONPosition `json:"position,omitempty"`
	Expected []string         `json:"expected,omitempty"`
	Got      string           `json:"got,omitempty"`
}

func (e *ASTJSONEncoder) span(startLine, startCol, endLine, endCol int) *astJSONSpan {
	if !e.positions || (startLine == 0 && endLine == 0) {
		return nil
	}
	return &astJSONSpan{
		Start: astJSONPosition{Line: startLine, Column: startCol},
		End:   astJSONPosition{Line: endLine, Column: endCol},
	}
}

func (e *ASTJSONEncoder) nodeToJSON(n *parser.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind: n.Kind.String(),
		Span: e.span(n.Span.Start.Line, n.Span.Start.Column, n.Span.End.Line, n.Span.End.Column),
	}
	if n.Token != nil && n.Kind != parser.KindError {
		jn.Token = n.Token.Literal
	}
	if n.Error != nil {
		jn.Error = e.errorToJSON(n.Error)
	}
	if len(n.Children) > 0 {
		jn.Children = make([]*astJSONNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = e.nodeToJSON(child)
		}
	}
	return jn
}

func (e *ASTJSONEncoder) errorToJSON(err *parser.Error) *astJSONError {
	je := &astJSONError{
		Code:    err.Code.String(),
		Message: err.Message,
	}
	for _, exp := range err.Expected {
		je.Expected = append(je.Expected, exp.String())
	}
	if err.Got != nil {
		je.Got = err.Got.Literal
		if e.positions {
			je.Position = &astJSONPosition{Line: err.Got.Span.Start.Line, Column: err.Got.Span.Start.Column}
		}
	}
	return je
}

func (e *ASTJSONEncoder) xmlNodeToJSON(n *xmlparser.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind:        n.Kind.String(),
		Span:        e.span(n.Span.Start.Line, n.Span.Start.Column, n.Span.End.Line, n.Span.End.Column),
		SelfClosing: n.SelfClosing,
	}
	if n.Token != nil && n.Kind != xmlparser.KindError {
		jn.Token = n.Token.Literal
	}
	if n.Error != nil {
		jn.Error = e.xmlErrorToJSON(n.Error)
	}
	if len(n.Children) > 0 {
		jn.Children = make([]*astJSONNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = e.xmlNodeToJSON(child)
		}
	}
	return jn
}

func (e *ASTJSONEncoder) xmlErrorToJSON(err *xmlparser.Error) *astJSONError {
	je := &astJSONError{
		Code:    err.Code.String(),
		Message: err.Message,
	}
	for _, exp := range err.Expected {
		je.Expected = append(je.Expected, exp.String())
	}
	if err.Got != nil {
		je.Got = err.Got.Literal
		if e.positions {
			je.Position = &astJSONPosition{Line: err.Got.Span.Start.Line, Column: err.Got.Span.Start.Column}
		}
	}
	return je
}
