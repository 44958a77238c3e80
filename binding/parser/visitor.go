package parser

// Visitor computes a value of type T per node kind. Dispatch happens in
// Accept.
type Visitor[T any] interface {
	VisitBindingSyntax(n *Node) T
	VisitDefaults(n *Node) T
	VisitLiteral(n *Node) T
	VisitIdentifier(n *Node) T
	VisitGrouping(n *Node) T
	VisitUnaryOp(n *Node) T
	VisitCastOp(n *Node) T
	VisitMathOp(n *Node) T
	VisitComparisonOp(n *Node) T
	VisitInstanceOfOp(n *Node) T
	VisitBinaryOp(n *Node) T
	VisitAndOrOp(n *Node) T
	VisitTernaryOp(n *Node) T
	VisitQuestionQuestionOp(n *Node) T
	VisitDotOp(n *Node) T
	VisitBracketOp(n *Node) T
	VisitMethodInvocation(n *Node) T
	VisitGlobalMethodInvocation(n *Node) T
	VisitClassExtraction(n *Node) T
	VisitResource(n *Node) T
	VisitExpressionList(n *Node) T
	VisitType(n *Node) T
	VisitArrayType(n *Node) T
	VisitTypeArguments(n *Node) T
	VisitError(n *Node) T
}

// Accept calls the Visit method of v that matches the kind of n. A nil node
// yields the zero value.
func Accept[T any](v Visitor[T], n *Node) T {
	var zero T
	if n == nil {
		return zero
	}
	switch n.Kind {
	case KindBindingSyntax:
		return v.VisitBindingSyntax(n)
	case KindDefaults:
		return v.VisitDefaults(n)
	case KindLiteral:
		return v.VisitLiteral(n)
	case KindIdentifier:
		return v.VisitIdentifier(n)
	case KindGrouping:
		return v.VisitGrouping(n)
	case KindUnaryOp:
		return v.VisitUnaryOp(n)
	case KindCastOp:
		return v.VisitCastOp(n)
	case KindMathOp:
		return v.VisitMathOp(n)
	case KindComparisonOp:
		return v.VisitComparisonOp(n)
	case KindInstanceOfOp:
		return v.VisitInstanceOfOp(n)
	case KindBinaryOp:
		return v.VisitBinaryOp(n)
	case KindAndOrOp:
		return v.VisitAndOrOp(n)
	case KindTernaryOp:
		return v.VisitTernaryOp(n)
	case KindQuestionQuestionOp:
		return v.VisitQuestionQuestionOp(n)
	case KindDotOp:
		return v.VisitDotOp(n)
	case KindBracketOp:
		return v.VisitBracketOp(n)
	case KindMethodInvocation:
		return v.VisitMethodInvocation(n)
	case KindGlobalMethodInvocation:
		return v.VisitGlobalMethodInvocation(n)
	case KindClassExtraction:
		return v.VisitClassExtraction(n)
	case KindResource:
		return v.VisitResource(n)
	case KindExpressionList:
		return v.VisitExpressionList(n)
	case KindType:
		return v.VisitType(n)
	case KindArrayType:
		return v.VisitArrayType(n)
	case KindTypeArguments:
		return v.VisitTypeArguments(n)
	case KindError:
		return v.VisitError(n)
	}
	return zero
}

// VisitChildren visits every child of n in order and folds the results with
// aggregate. With a nil aggregate the result of the last child is returned.
func VisitChildren[T any](v Visitor[T], n *Node, aggregate func(acc, next T) T) T {
	var result T
	for i, child := range n.Children {
		next := Accept(v, child)
		if i == 0 || aggregate == nil {
			result = next
			continue
		}
		result = aggregate(result, next)
	}
	return result
}

// BaseVisitor implements every Visit method by visiting the children of the
// node. Self must point to the outermost visitor so that overridden methods
// are used during recursion:
//
//	type depth struct{ parser.BaseVisitor[int] }
//	v := &depth{}
//	v.Self = v
type BaseVisitor[T any] struct {
	Self      Visitor[T]
	Aggregate func(acc, next T) T
}

func (b *BaseVisitor[T]) visit(n *Node) T {
	self := b.Self
	if self == nil {
		self = b
	}
	return VisitChildren(self, n, b.Aggregate)
}

func (b *BaseVisitor[T]) VisitBindingSyntax(n *Node) T          { return b.visit(n) }
func (b *BaseVisitor[T]) VisitDefaults(n *Node) T               { return b.visit(n) }
func (b *BaseVisitor[T]) VisitLiteral(n *Node) T                { return b.visit(n) }
func (b *BaseVisitor[T]) VisitIdentifier(n *Node) T             { return b.visit(n) }
func (b *BaseVisitor[T]) VisitGrouping(n *Node) T               { return b.visit(n) }
func (b *BaseVisitor[T]) VisitUnaryOp(n *Node) T                { return b.visit(n) }
func (b *BaseVisitor[T]) VisitCastOp(n *Node) T                 { return b.visit(n) }
func (b *BaseVisitor[T]) VisitMathOp(n *Node) T                 { return b.visit(n) }
func (b *BaseVisitor[T]) VisitComparisonOp(n *Node) T           { return b.visit(n) }
func (b *BaseVisitor[T]) VisitInstanceOfOp(n *Node) T           { return b.visit(n) }
func (b *BaseVisitor[T]) VisitBinaryOp(n *Node) T               { return b.visit(n) }
func (b *BaseVisitor[T]) VisitAndOrOp(n *Node) T                { return b.visit(n) }
func (b *BaseVisitor[T]) VisitTernaryOp(n *Node) T              { return b.visit(n) }
func (b *BaseVisitor[T]) VisitQuestionQuestionOp(n *Node) T     { return b.visit(n) }
func (b *BaseVisitor[T]) VisitDotOp(n *Node) T                  { return b.visit(n) }
func (b *BaseVisitor[T]) VisitBracketOp(n *Node) T              { return b.visit(n) }
func (b *BaseVisitor[T]) VisitMethodInvocation(n *Node) T       { return b.visit(n) }
func (b *BaseVisitor[T]) VisitGlobalMethodInvocation(n *Node) T { return b.visit(n) }
func (b *BaseVisitor[T]) VisitClassExtraction(n *Node) T        { return b.visit(n) }
func (b *BaseVisitor[T]) VisitResource(n *Node) T               { return b.visit(n) }
func (b *BaseVisitor[T]) VisitExpressionList(n *Node) T         { return b.visit(n) }
func (b *BaseVisitor[T]) VisitType(n *Node) T                   { return b.visit(n) }
func (b *BaseVisitor[T]) VisitArrayType(n *Node) T              { return b.visit(n) }
func (b *BaseVisitor[T]) VisitTypeArguments(n *Node) T          { return b.visit(n) }
func (b *BaseVisitor[T]) VisitError(n *Node) T                  { return b.visit(n) }
