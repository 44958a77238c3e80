package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/bindexpr/layout"
	xmlparser "github.com/dhamidi/bindexpr/xml/parser"
)

// XMLPrinter writes XML trees back as text. Character data, comments and
// attribute values are printed as written. With a source document set,
// the whitespace between attributes and any text the tree does not keep,
// such as a DOCTYPE, is copied from it; otherwise attributes are separated
// by single spaces.
type XMLPrinter struct {
	w        io.Writer
	src      []byte
	bindings bool
}

func NewXMLPrinter(w io.Writer) *XMLPrinter {
	return &XMLPrinter{w: w}
}

// SetSource sets the document the tree was parsed from.
func (p *XMLPrinter) SetSource(src []byte) {
	p.src = src
}

// FormatBindings makes the printer rewrite binding attribute values in
// canonical form.
func (p *XMLPrinter) FormatBindings(on bool) {
	p.bindings = on
}

func (p *XMLPrinter) Print(doc *xmlparser.Node) error {
	text, err := p.Format(doc)
	if err != nil {
		return err
	}
	_, err = io.WriteString(p.w, text)
	return err
}

// Format renders doc as text. Trees containing Error nodes are rejected.
func (p *XMLPrinter) Format(doc *xmlparser.Node) (string, error) {
	if doc == nil || doc.HasErrors() {
		return "", ErrSyntax
	}
	var sb strings.Builder
	p.writeNode(&sb, doc)
	return sb.String(), nil
}

func (p *XMLPrinter) writeNode(sb *strings.Builder, n *xmlparser.Node) {
	switch n.Kind {
	case xmlparser.KindDocument:
		prev := 0
		for _, child := range n.Children {
			if gap, ok := p.gap(prev, child.Span.Start.Offset); ok {
				sb.WriteString(gap)
			}
			p.writeNode(sb, child)
			prev = child.Span.End.Offset
		}
		if gap, ok := p.gap(prev, len(p.src)); ok {
			sb.WriteString(gap)
		}
	case xmlparser.KindProlog:
		sb.WriteString("<?xml")
		end := p.writeAttributes(sb, n, n.Span.Start.Offset+len("<?xml"))
		sb.WriteString(p.space(end))
		sb.WriteString("?>")
	case xmlparser.KindElement:
		sb.WriteString("<" + n.Name())
		end := p.writeAttributes(sb, n, n.Token.Span.End.Offset)
		sb.WriteString(p.space(end))
		if n.SelfClosing {
			sb.WriteString("/>")
			return
		}
		sb.WriteByte('>')
		if content := n.Content(); content != nil {
			for _, child := range content.Children {
				p.writeNode(sb, child)
			}
		}
		sb.WriteString("</" + n.Name() + ">")
	default:
		sb.WriteString(n.TokenLiteral())
	}
}

// writeAttributes writes the attributes of n and returns the source offset
// just past the last one.
func (p *XMLPrinter) writeAttributes(sb *strings.Builder, n *xmlparser.Node, prev int) int {
	for _, attr := range n.Attributes() {
		if gap, ok := p.gap(prev, attr.Span.Start.Offset); ok && gap != "" && isSpace(gap) {
			sb.WriteString(gap)
		} else {
			sb.WriteByte(' ')
		}
		sb.WriteString(attr.Name() + "=" + p.attributeValue(attr))
		prev = attr.Span.End.Offset
	}
	return prev
}

func (p *XMLPrinter) attributeValue(attr *xmlparser.Node) string {
	value := attr.FirstChildOfKind(xmlparser.KindValue).TokenLiteral()
	if !p.bindings {
		return value
	}
	quote := value[0]
	expr, offset, _, ok := layout.SplitBinding(attr.Value())
	if !ok {
		return value
	}
	formatted, err := FormatBinding([]byte(expr), 0)
	if err != nil {
		return value
	}
	prefix := attr.Value()[:offset]
	return string(quote) + xmlparser.EscapeAttr(prefix+string(formatted)+"}", quote) + string(quote)
}

// space returns the whitespace that follows offset in the source.
func (p *XMLPrinter) space(offset int) string {
	if p.src == nil || offset < 0 || offset > len(p.src) {
		return ""
	}
	end := offset
	for end < len(p.src) && isSpaceByte(p.src[end]) {
		end++
	}
	return string(p.src[offset:end])
}

func (p *XMLPrinter) gap(from, to int) (string, bool) {
	if p.src == nil || from < 0 || to > len(p.src) || from > to {
		return "", false
	}
	return string(p.src[from:to]), true
}

func isSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isSpaceByte(s[i]) {
			return false
		}
	}
	return true
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// FormatLayout rewrites every binding attribute of a layout document in
// canonical form and leaves the rest of the document as written. Documents
// with XML syntax errors are returned unchanged together with the errors.
// Attributes whose binding does not parse are left as they are.
func FormatLayout(src []byte) ([]byte, error) {
	p := xmlparser.ParseDocument(bytes.NewReader(src))
	doc := p.Finish()
	if err := p.Err(); err != nil {
		return src, fmt.Errorf("format layout: %w", err)
	}
	printer := NewXMLPrinter(nil)
	printer.SetSource(src)
	printer.FormatBindings(true)
	text, err := printer.Format(doc)
	if err != nil {
		return src, fmt.Errorf("format layout: %w", err)
	}
	return []byte(text), nil
}
