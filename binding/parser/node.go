package parser

import (
	"errors"
	"fmt"
	"strings"
)

type NodeKind int

const (
	KindError NodeKind = iota

	KindBindingSyntax
	KindDefaults

	// Expressions
	KindLiteral
	KindIdentifier
	KindGrouping
	KindUnaryOp
	KindCastOp
	KindMathOp
	KindComparisonOp
	KindInstanceOfOp
	KindBinaryOp
	KindAndOrOp
	KindTernaryOp
	KindQuestionQuestionOp
	KindDotOp
	KindBracketOp
	KindMethodInvocation
	KindGlobalMethodInvocation
	KindClassExtraction
	KindResource
	KindExpressionList

	// Types
	KindType
	KindArrayType
	KindTypeArguments
)

var nodeKindNames = map[NodeKind]string{
	KindError:                  "Error",
	KindBindingSyntax:          "BindingSyntax",
	KindDefaults:               "Defaults",
	KindLiteral:                "Literal",
	KindIdentifier:             "Identifier",
	KindGrouping:               "Grouping",
	KindUnaryOp:                "UnaryOp",
	KindCastOp:                 "CastOp",
	KindMathOp:                 "MathOp",
	KindComparisonOp:           "ComparisonOp",
	KindInstanceOfOp:           "InstanceOfOp",
	KindBinaryOp:               "BinaryOp",
	KindAndOrOp:                "AndOrOp",
	KindTernaryOp:              "TernaryOp",
	KindQuestionQuestionOp:     "QuestionQuestionOp",
	KindDotOp:                  "DotOp",
	KindBracketOp:              "BracketOp",
	KindMethodInvocation:       "MethodInvocation",
	KindGlobalMethodInvocation: "GlobalMethodInvocation",
	KindClassExtraction:        "ClassExtraction",
	KindResource:               "Resource",
	KindExpressionList:         "ExpressionList",
	KindType:                   "Type",
	KindArrayType:              "ArrayType",
	KindTypeArguments:          "TypeArguments",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsExpression reports whether nodes of kind k may appear in operand position.
func (k NodeKind) IsExpression() bool {
	switch k {
	case KindLiteral, KindIdentifier, KindGrouping, KindUnaryOp, KindCastOp,
		KindMathOp, KindComparisonOp, KindInstanceOfOp, KindBinaryOp,
		KindAndOrOp, KindTernaryOp, KindQuestionQuestionOp, KindDotOp,
		KindBracketOp, KindMethodInvocation, KindGlobalMethodInvocation,
		KindClassExtraction, KindResource, KindError:
		return true
	}
	return false
}

type ErrorCode int

const (
	NoViableAlternative ErrorCode = iota + 1
	UnexpectedToken
	FailedPrecondition
)

func (c ErrorCode) String() string {
	switch c {
	case NoViableAlternative:
		return "NoViableAlternative"
	case UnexpectedToken:
		return "UnexpectedToken"
	case FailedPrecondition:
		return "FailedPrecondition"
	}
	return "Unknown"
}

// ErrEmptyInput is returned before parsing when the token stream holds no
// tokens besides EOF.
var ErrEmptyInput = errors.New("empty token stream")

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

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

// HasErrors reports whether n or any of its descendants is an error node.
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

func (n *Node) child(i int) *Node {
	if n == nil || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Operator returns the operator literal of unary, binary and
// null-coalescing nodes.
func (n *Node) Operator() string {
	switch n.Kind {
	case KindUnaryOp, KindMathOp, KindComparisonOp, KindBinaryOp,
		KindAndOrOp, KindQuestionQuestionOp:
		return n.TokenLiteral()
	case KindTernaryOp:
		return "?"
	case KindInstanceOfOp:
		return "instanceof"
	}
	return ""
}

// Left returns the left operand of a binary node, or the condition of a
// ternary.
func (n *Node) Left() *Node { return n.child(0) }

// Right returns the right operand of a binary node.
func (n *Node) Right() *Node {
	if n.Kind == KindTernaryOp {
		return nil
	}
	return n.child(1)
}

// Operand returns the operand of unary, cast and instanceof nodes.
func (n *Node) Operand() *Node {
	switch n.Kind {
	case KindUnaryOp, KindInstanceOfOp, KindGrouping:
		return n.child(0)
	case KindCastOp:
		return n.child(1)
	}
	return nil
}

// Expression returns the expression of a BindingSyntax root.
func (n *Node) Expression() *Node {
	if n.Kind != KindBindingSyntax {
		return nil
	}
	return n.child(0)
}

// DefaultValue returns the constant of a BindingSyntax default clause.
func (n *Node) DefaultValue() *Node {
	if n.Kind != KindBindingSyntax {
		return nil
	}
	if d := n.FirstChildOfKind(KindDefaults); d != nil {
		return d.child(0)
	}
	return nil
}

// Condition, IfTrue and IfFalse return the three operands of a TernaryOp.
func (n *Node) Condition() *Node { return n.child(0) }
func (n *Node) IfTrue() *Node    { return n.child(1) }
func (n *Node) IfFalse() *Node   { return n.child(2) }

// Target returns the receiver of member access, indexing and method calls.
func (n *Node) Target() *Node {
	switch n.Kind {
	case KindDotOp, KindBracketOp, KindMethodInvocation:
		return n.child(0)
	}
	return nil
}

// Index returns the index expression of a BracketOp.
func (n *Node) Index() *Node {
	if n.Kind != KindBracketOp {
		return nil
	}
	return n.child(1)
}

// Name returns the member or method name of DotOp, MethodInvocation and
// GlobalMethodInvocation nodes.
func (n *Node) Name() string {
	switch n.Kind {
	case KindDotOp, KindMethodInvocation:
		return n.child(1).TokenLiteral()
	case KindGlobalMethodInvocation:
		return n.child(0).TokenLiteral()
	case KindIdentifier:
		return n.TokenLiteral()
	}
	return ""
}

// Args returns the argument expressions of method invocations and resource
// parameters. A nil result for a Resource means no parameter list was given.
func (n *Node) Args() []*Node {
	if list := n.FirstChildOfKind(KindExpressionList); list != nil {
		if list.Children == nil {
			return []*Node{}
		}
		return list.Children
	}
	return nil
}

// TypeNode returns the type child of cast, instanceof and class extraction
// nodes.
func (n *Node) TypeNode() *Node {
	switch n.Kind {
	case KindCastOp, KindClassExtraction:
		return n.child(0)
	case KindInstanceOfOp:
		return n.child(1)
	}
	return nil
}

// TypeString renders a Type, ArrayType or TypeArguments node in source form.
func TypeString(n *Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	writeType(&sb, n)
	return sb.String()
}

func writeType(sb *strings.Builder, n *Node) {
	switch n.Kind {
	case KindArrayType:
		writeType(sb, n.child(0))
		sb.WriteString("[]")
	case KindTypeArguments:
		sb.WriteByte('<')
		for i, child := range n.Children {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeType(sb, child)
		}
		sb.WriteByte('>')
	case KindType:
		first := true
		for _, child := range n.Children {
			if child.Kind == KindIdentifier {
				if !first {
					sb.WriteByte('.')
				}
				sb.WriteString(child.TokenLiteral())
				first = false
				continue
			}
			writeType(sb, child)
		}
	case KindIdentifier:
		sb.WriteString(n.TokenLiteral())
	}
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	var sb strings.Builder
	n.writeIndent(&sb, indent, showPositions)
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
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteByte('\n')

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}
