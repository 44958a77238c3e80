package layout

import (
	"strings"

	"github.com/dhamidi/bindexpr/binding/parser"
	xmlparser "github.com/dhamidi/bindexpr/xml/parser"
)

// Expression is a binding expression found in a layout attribute. All
// positions refer to the layout file.
type Expression struct {
	File      string
	Element   string
	Attribute string
	// Source is the expression text between the braces, with XML
	// references resolved.
	Source string
	TwoWay bool
	Span   parser.Span
	Root   *parser.Node
	Errors []*parser.Error

	// Attr is the attribute node the expression was read from.
	Attr *xmlparser.Node
}

// SplitBinding splits an unescaped attribute value of the form "@{expr}" or
// "@={expr}". The returned offset is the index of expr within value.
func SplitBinding(value string) (expr string, offset int, twoWay bool, ok bool) {
	if !strings.HasSuffix(value, "}") {
		return "", 0, false, false
	}
	switch {
	case strings.HasPrefix(value, "@={"):
		return value[3 : len(value)-1], 3, true, true
	case strings.HasPrefix(value, "@{"):
		return value[2 : len(value)-1], 2, false, true
	}
	return "", 0, false, false
}

// IsBinding reports whether an unescaped attribute value holds a binding
// expression.
func IsBinding(value string) bool {
	_, _, _, ok := SplitBinding(value)
	return ok
}

// Extract parses the binding expressions of every attribute in doc.
func Extract(doc *xmlparser.Node, file string) []*Expression {
	var exprs []*Expression
	xmlparser.Inspect(doc, func(n *xmlparser.Node) bool {
		if n.Kind != xmlparser.KindElement {
			return true
		}
		for _, attr := range n.Attributes() {
			if expr := ParseAttribute(attr, file); expr != nil {
				expr.Element = n.Name()
				exprs = append(exprs, expr)
			}
		}
		return true
	})
	return exprs
}

// ParseAttribute parses the binding expression held by attr, or returns nil
// when the attribute is not a binding.
func ParseAttribute(attr *xmlparser.Node, file string) *Expression {
	start, ok := attr.ValueStart()
	if !ok {
		return nil
	}
	raw := attr.RawValue()
	value, offsets := xmlparser.UnescapeMap(raw)
	src, offset, twoWay, ok := SplitBinding(value)
	if !ok {
		return nil
	}

	loc := newLocator(raw, file, start)
	// The expression is parsed with offsets relative to the value, which
	// locate maps back through the unescaping to file positions.
	p := parser.ParseBinding(strings.NewReader(src), parser.WithFile(file), parser.WithStartOffset(offset))
	root := p.Finish()
	if root == nil {
		// An empty expression such as "@{}".
		at := loc.at(offsets[offset])
		tok := parser.Token{Kind: parser.TokenEOF, Span: parser.Span{Start: at, End: at}}
		err := &parser.Error{Code: parser.FailedPrecondition, Message: "empty binding expression", Got: &tok}
		root = &parser.Node{Kind: parser.KindError, Span: tok.Span, Token: &tok, Error: err}
		return &Expression{
			File:      file,
			Attribute: attr.Name(),
			TwoWay:    twoWay,
			Span:      tok.Span,
			Root:      root,
			Errors:    []*parser.Error{err},
			Attr:      attr,
		}
	}

	remap := func(pos parser.Position) parser.Position {
		i := pos.Offset
		if i < 0 {
			i = 0
		}
		if i >= len(offsets) {
			i = len(offsets) - 1
		}
		return loc.at(offsets[i])
	}
	remapTree(root, p.Errors(), remap)

	return &Expression{
		File:      file,
		Attribute: attr.Name(),
		Source:    src,
		TwoWay:    twoWay,
		Span:      parser.Span{Start: remap(parser.Position{Offset: offset}), End: remap(parser.Position{Offset: offset + len(src)})},
		Root:      root,
		Errors:    p.Errors(),
		Attr:      attr,
	}
}

// remapTree rewrites every position in the tree and the error list. Tokens
// may be shared between an error node and its error, so each is rewritten
// once.
func remapTree(root *parser.Node, errs []*parser.Error, remap func(parser.Position) parser.Position) {
	seen := map[*parser.Token]bool{}
	remapToken := func(tok *parser.Token) {
		if tok == nil || seen[tok] {
			return
		}
		seen[tok] = true
		tok.Span = parser.Span{Start: remap(tok.Span.Start), End: remap(tok.Span.End)}
	}

	var walk func(n *parser.Node)
	walk = func(n *parser.Node) {
		n.Span = parser.Span{Start: remap(n.Span.Start), End: remap(n.Span.End)}
		remapToken(n.Token)
		if n.Error != nil {
			remapToken(n.Error.Got)
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)

	for _, err := range errs {
		remapToken(err.Got)
	}
}

// locator converts byte offsets within a raw attribute value to file
// positions.
type locator struct {
	positions []parser.Position
}

func newLocator(raw, file string, start xmlparser.Position) *locator {
	pos := parser.Position{File: file, Offset: start.Offset, Line: start.Line, Column: start.Column}
	positions := make([]parser.Position, len(raw)+1)
	for i := 0; i < len(raw); i++ {
		positions[i] = pos
		pos.Offset++
		if raw[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	positions[len(raw)] = pos
	return &locator{positions: positions}
}

func (l *locator) at(i int) parser.Position {
	if i < 0 {
		i = 0
	}
	if i >= len(l.positions) {
		i = len(l.positions) - 1
	}
	return l.positions[i]
}
