package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/bindexpr/binding/parser"
)

var ErrSyntax = errors.New("input has syntax errors")

// BindingPrinter writes binding trees in canonical form: single spaces
// around binary operators and after commas, no spaces inside brackets.
// Parentheses are printed only where the tree has a Grouping node, so
// parsing the output yields the same tree.
type BindingPrinter struct {
	w         io.Writer
	indentStr string
	maxColumn int // 0 disables line breaking
}

func NewBindingPrinter(w io.Writer) *BindingPrinter {
	return &BindingPrinter{
		w:         w,
		indentStr: "    ",
	}
}

// SetMaxColumn makes the printer break conditional expressions that do not
// fit in n columns over several lines.
func (p *BindingPrinter) SetMaxColumn(n int) {
	p.maxColumn = n
}

func (p *BindingPrinter) Print(node *parser.Node) error {
	text, err := p.Format(node)
	if err != nil {
		return err
	}
	_, err = io.WriteString(p.w, text)
	return err
}

// Format renders node as source text. Trees containing Error nodes are
// rejected.
func (p *BindingPrinter) Format(node *parser.Node) (string, error) {
	if node == nil {
		return "", parser.ErrEmptyInput
	}
	if node.HasErrors() {
		return "", ErrSyntax
	}
	flat := flatten(node)
	if p.maxColumn <= 0 || len(flat) <= p.maxColumn {
		return flat, nil
	}
	var sb strings.Builder
	p.printBroken(&sb, node, 1)
	return sb.String(), nil
}

// printBroken prints the outermost conditional of node with one branch per
// line; everything else stays on one line.
func (p *BindingPrinter) printBroken(sb *strings.Builder, node *parser.Node, depth int) {
	switch node.Kind {
	case parser.KindBindingSyntax:
		p.printBroken(sb, node.Expression(), depth)
		if d := node.DefaultValue(); d != nil {
			sb.WriteString(", default=" + d.TokenLiteral())
		}
	case parser.KindTernaryOp:
		indent := "\n" + strings.Repeat(p.indentStr, depth)
		sb.WriteString(flatten(node.Condition()))
		sb.WriteString(indent + "? " + flatten(node.IfTrue()))
		sb.WriteString(indent + ": ")
		p.printBroken(sb, node.IfFalse(), depth)
	case parser.KindQuestionQuestionOp:
		indent := "\n" + strings.Repeat(p.indentStr, depth)
		sb.WriteString(flatten(node.Left()))
		sb.WriteString(indent + "?? ")
		p.printBroken(sb, node.Right(), depth)
	default:
		sb.WriteString(flatten(node))
	}
}

func flatten(node *parser.Node) string {
	var sb strings.Builder
	writeExpr(&sb, node)
	return sb.String()
}

func writeExpr(sb *strings.Builder, n *parser.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case parser.KindBindingSyntax:
		writeExpr(sb, n.Expression())
		if d := n.DefaultValue(); d != nil {
			sb.WriteString(", default=" + d.TokenLiteral())
		}
	case parser.KindLiteral, parser.KindIdentifier:
		sb.WriteString(n.TokenLiteral())
	case parser.KindGrouping:
		sb.WriteByte('(')
		writeExpr(sb, n.Operand())
		sb.WriteByte(')')
	case parser.KindUnaryOp:
		op := n.Operator()
		sb.WriteString(op)
		// Keep "- -a" from reading as a decrement.
		if inner := n.Operand(); inner != nil && inner.Kind == parser.KindUnaryOp &&
			(op == "-" || op == "+") && inner.Operator() == op {
			sb.WriteByte(' ')
		}
		writeExpr(sb, n.Operand())
	case parser.KindCastOp:
		sb.WriteString("(" + parser.TypeString(n.TypeNode()) + ") ")
		writeExpr(sb, n.Operand())
	case parser.KindMathOp, parser.KindComparisonOp, parser.KindBinaryOp,
		parser.KindAndOrOp, parser.KindQuestionQuestionOp:
		writeExpr(sb, n.Left())
		sb.WriteString(" " + n.Operator() + " ")
		writeExpr(sb, n.Right())
	case parser.KindInstanceOfOp:
		writeExpr(sb, n.Operand())
		sb.WriteString(" instanceof " + parser.TypeString(n.TypeNode()))
	case parser.KindTernaryOp:
		writeExpr(sb, n.Condition())
		sb.WriteString(" ? ")
		writeExpr(sb, n.IfTrue())
		sb.WriteString(" : ")
		writeExpr(sb, n.IfFalse())
	case parser.KindDotOp:
		writeExpr(sb, n.Target())
		sb.WriteString("." + n.Name())
	case parser.KindBracketOp:
		writeExpr(sb, n.Target())
		sb.WriteByte('[')
		writeExpr(sb, n.Index())
		sb.WriteByte(']')
	case parser.KindMethodInvocation:
		writeExpr(sb, n.Target())
		sb.WriteString("." + n.Name())
		writeArgs(sb, n.Args())
	case parser.KindGlobalMethodInvocation:
		sb.WriteString(n.Name())
		writeArgs(sb, n.Args())
	case parser.KindClassExtraction:
		sb.WriteString(parser.TypeString(n.TypeNode()) + ".class")
	case parser.KindResource:
		sb.WriteString(n.TokenLiteral())
		if args := n.Args(); args != nil {
			writeArgs(sb, args)
		}
	case parser.KindType, parser.KindArrayType, parser.KindTypeArguments:
		sb.WriteString(parser.TypeString(n))
	}
}

func writeArgs(sb *strings.Builder, args []*parser.Node) {
	sb.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeExpr(sb, arg)
	}
	sb.WriteByte(')')
}

// FormatBinding parses src as a binding and returns its canonical form.
// Input with syntax errors is returned unchanged together with the errors.
func FormatBinding(src []byte, maxColumn int) ([]byte, error) {
	p := parser.ParseBinding(bytes.NewReader(src))
	root := p.Finish()
	if err := p.Err(); err != nil {
		return src, fmt.Errorf("format binding: %w", err)
	}
	printer := NewBindingPrinter(nil)
	printer.SetMaxColumn(maxColumn)
	text, err := printer.Format(root)
	if err != nil {
		return src, fmt.Errorf("format binding: %w", err)
	}
	return []byte(text), nil
}
