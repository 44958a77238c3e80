package parser

import (
	"fmt"
	"strings"
)

type NodeKind int

const (
	KindError NodeKind = iota
	KindDocument
	KindProlog
	KindElement
	KindAttribute
	KindValue
	KindContent
	KindCharData
	KindReference
	KindCData
	KindComment
	KindPI
)

var nodeKindNames = map[NodeKind]string{
	KindError:     "Error",
	KindDocument:  "Document",
	KindProlog:    "Prolog",
	KindElement:   "Element",
	KindAttribute: "Attribute",
	KindValue:     "Value",
	KindContent:   "Content",
	KindCharData:  "CharData",
	KindReference: "Reference",
	KindCData:     "CData",
	KindComment:   "Comment",
	KindPI:        "PI",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type ErrorCode int

const (
	NoViableAlternative ErrorCode = iota + 1
	UnexpectedToken
)

func (c ErrorCode) String() string {
	switch c {
	case NoViableAlternative:
		return "NoViableAlternative"
	case UnexpectedToken:
		return "UnexpectedToken"
	}
	return "Unknown"
}

type Error struct {
	Code     ErrorCode
	Message  string
	Expected []TokenKind
	Got      *Token
}

func (e *Error) Error() string {
	if e.Got == nil {
		return e.Message
	}
	return e.Got.Span.Start.String() + ": " + e.Message
}

// Node is a node of the document tree. Elements and attributes carry their
// name token; leaves such as CharData and Comment carry their text token.
type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error

	// SelfClosing is set on elements written as <name/>.
	SelfClosing bool
	// EndToken is the name token of an element's close tag.
	EndToken *Token
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) HasErrors() bool {
	if n == nil {
		return false
	}
	if n.IsError() {
		return true
	}
	for _, child := range n.Children {
		if child.HasErrors() {
			return true
		}
	}
	return false
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Name returns the name of an element or attribute.
func (n *Node) Name() string {
	switch n.Kind {
	case KindElement, KindAttribute:
		return n.TokenLiteral()
	}
	return ""
}

// Root returns the root element of a document.
func (n *Node) Root() *Node {
	if n.Kind != KindDocument {
		return nil
	}
	return n.FirstChildOfKind(KindElement)
}

// Attributes returns the attributes of an element or prolog in source order.
func (n *Node) Attributes() []*Node {
	return n.ChildrenOfKind(KindAttribute)
}

// Attribute returns the attribute with the given qualified name, or nil.
func (n *Node) Attribute(name string) *Node {
	for _, attr := range n.Attributes() {
		if attr.Name() == name {
			return attr
		}
	}
	return nil
}

// Content returns the content of an element. Self-closing elements have
// none.
func (n *Node) Content() *Node {
	if n.Kind != KindElement {
		return nil
	}
	return n.FirstChildOfKind(KindContent)
}

// Elements returns the child elements of an element.
func (n *Node) Elements() []*Node {
	content := n.Content()
	if content == nil {
		return nil
	}
	return content.ChildrenOfKind(KindElement)
}

// RawValue returns the attribute value as written, without quotes and
// without resolving references. It is empty when the value is missing.
func (n *Node) RawValue() string {
	v := n.valueToken()
	if v == nil || len(v.Literal) < 2 {
		return ""
	}
	return v.Literal[1 : len(v.Literal)-1]
}

// Value returns the attribute value with quotes removed and references
// resolved.
func (n *Node) Value() string {
	return Unescape(n.RawValue())
}

// ValueStart returns the position of the first character inside the
// quotes of an attribute value.
func (n *Node) ValueStart() (Position, bool) {
	v := n.valueToken()
	if v == nil {
		return Position{}, false
	}
	pos := v.Span.Start
	pos.Offset++
	pos.Column++
	return pos, true
}

func (n *Node) valueToken() *Token {
	if n.Kind != KindAttribute {
		return nil
	}
	if v := n.FirstChildOfKind(KindValue); v != nil {
		return v.Token
	}
	return nil
}

// Inspect traverses the tree rooted at n in depth-first order. If fn
// returns false, the children of that node are skipped.
func Inspect(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		Inspect(child, fn)
	}
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, true)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	for i := 0; i < indent; i++ {
		sb.WriteString("  ")
	}
	sb.WriteString(n.Kind.String())
	if showPositions {
		fmt.Fprintf(sb, " [%s-%s]", n.Span.Start, n.Span.End)
	}
	if n.Token != nil && n.Kind != KindError {
		fmt.Fprintf(sb, " %q", n.Token.Literal)
	}
	if n.SelfClosing {
		sb.WriteString(" (self-closing)")
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteByte('\n')

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}
