package parser

// Listener receives a callback when the walk enters and leaves each node.
type Listener interface {
	EnterBindingSyntax(n *Node)
	ExitBindingSyntax(n *Node)
	EnterDefaults(n *Node)
	ExitDefaults(n *Node)
	EnterLiteral(n *Node)
	ExitLiteral(n *Node)
	EnterIdentifier(n *Node)
	ExitIdentifier(n *Node)
	EnterGrouping(n *Node)
	ExitGrouping(n *Node)
	EnterUnaryOp(n *Node)
	ExitUnaryOp(n *Node)
	EnterCastOp(n *Node)
	ExitCastOp(n *Node)
	EnterMathOp(n *Node)
	ExitMathOp(n *Node)
	EnterComparisonOp(n *Node)
	ExitComparisonOp(n *Node)
	EnterInstanceOfOp(n *Node)
	ExitInstanceOfOp(n *Node)
	EnterBinaryOp(n *Node)
	ExitBinaryOp(n *Node)
	EnterAndOrOp(n *Node)
	ExitAndOrOp(n *Node)
	EnterTernaryOp(n *Node)
	ExitTernaryOp(n *Node)
	EnterQuestionQuestionOp(n *Node)
	ExitQuestionQuestionOp(n *Node)
	EnterDotOp(n *Node)
	ExitDotOp(n *Node)
	EnterBracketOp(n *Node)
	ExitBracketOp(n *Node)
	EnterMethodInvocation(n *Node)
	ExitMethodInvocation(n *Node)
	EnterGlobalMethodInvocation(n *Node)
	ExitGlobalMethodInvocation(n *Node)
	EnterClassExtraction(n *Node)
	ExitClassExtraction(n *Node)
	EnterResource(n *Node)
	ExitResource(n *Node)
	EnterExpressionList(n *Node)
	ExitExpressionList(n *Node)
	EnterType(n *Node)
	ExitType(n *Node)
	EnterArrayType(n *Node)
	ExitArrayType(n *Node)
	EnterTypeArguments(n *Node)
	ExitTypeArguments(n *Node)
	EnterError(n *Node)
	ExitError(n *Node)
}

// BaseListener implements Listener with no-op methods. Embed it to override
// only the callbacks of interest.
type BaseListener struct{}

func (BaseListener) EnterBindingSyntax(*Node)          {}
func (BaseListener) ExitBindingSyntax(*Node)           {}
func (BaseListener) EnterDefaults(*Node)               {}
func (BaseListener) ExitDefaults(*Node)                {}
func (BaseListener) EnterLiteral(*Node)                {}
func (BaseListener) ExitLiteral(*Node)                 {}
func (BaseListener) EnterIdentifier(*Node)             {}
func (BaseListener) ExitIdentifier(*Node)              {}
func (BaseListener) EnterGrouping(*Node)               {}
func (BaseListener) ExitGrouping(*Node)                {}
func (BaseListener) EnterUnaryOp(*Node)                {}
func (BaseListener) ExitUnaryOp(*Node)                 {}
func (BaseListener) EnterCastOp(*Node)                 {}
func (BaseListener) ExitCastOp(*Node)                  {}
func (BaseListener) EnterMathOp(*Node)                 {}
func (BaseListener) ExitMathOp(*Node)                  {}
func (BaseListener) EnterComparisonOp(*Node)           {}
func (BaseListener) ExitComparisonOp(*Node)            {}
func (BaseListener) EnterInstanceOfOp(*Node)           {}
func (BaseListener) ExitInstanceOfOp(*Node)            {}
func (BaseListener) EnterBinaryOp(*Node)               {}
func (BaseListener) ExitBinaryOp(*Node)                {}
func (BaseListener) EnterAndOrOp(*Node)                {}
func (BaseListener) ExitAndOrOp(*Node)                 {}
func (BaseListener) EnterTernaryOp(*Node)              {}
func (BaseListener) ExitTernaryOp(*Node)               {}
func (BaseListener) EnterQuestionQuestionOp(*Node)     {}
func (BaseListener) ExitQuestionQuestionOp(*Node)      {}
func (BaseListener) EnterDotOp(*Node)                  {}
func (BaseListener) ExitDotOp(*Node)                   {}
func (BaseListener) EnterBracketOp(*Node)              {}
func (BaseListener) ExitBracketOp(*Node)               {}
func (BaseListener) EnterMethodInvocation(*Node)       {}
func (BaseListener) ExitMethodInvocation(*Node)        {}
func (BaseListener) EnterGlobalMethodInvocation(*Node) {}
func (BaseListener) ExitGlobalMethodInvocation(*Node)  {}
func (BaseListener) EnterClassExtraction(*Node)        {}
func (BaseListener) ExitClassExtraction(*Node)         {}
func (BaseListener) EnterResource(*Node)               {}
func (BaseListener) ExitResource(*Node)                {}
func (BaseListener) EnterExpressionList(*Node)         {}
func (BaseListener) ExitExpressionList(*Node)          {}
func (BaseListener) EnterType(*Node)                   {}
func (BaseListener) ExitType(*Node)                    {}
func (BaseListener) EnterArrayType(*Node)              {}
func (BaseListener) ExitArrayType(*Node)               {}
func (BaseListener) EnterTypeArguments(*Node)          {}
func (BaseListener) ExitTypeArguments(*Node)           {}
func (BaseListener) EnterError(*Node)                  {}
func (BaseListener) ExitError(*Node)                   {}

// Walk traverses the tree rooted at n depth-first, left to right, calling
// the enter callback before a node's children and the exit callback after.
func Walk(l Listener, n *Node) {
	if n == nil {
		return
	}
	enter(l, n)
	for _, child := range n.Children {
		Walk(l, child)
	}
	exit(l, n)
}

func enter(l Listener, n *Node) {
	switch n.Kind {
	case KindBindingSyntax:
		l.EnterBindingSyntax(n)
	case KindDefaults:
		l.EnterDefaults(n)
	case KindLiteral:
		l.EnterLiteral(n)
	case KindIdentifier:
		l.EnterIdentifier(n)
	case KindGrouping:
		l.EnterGrouping(n)
	case KindUnaryOp:
		l.EnterUnaryOp(n)
	case KindCastOp:
		l.EnterCastOp(n)
	case KindMathOp:
		l.EnterMathOp(n)
	case KindComparisonOp:
		l.EnterComparisonOp(n)
	case KindInstanceOfOp:
		l.EnterInstanceOfOp(n)
	case KindBinaryOp:
		l.EnterBinaryOp(n)
	case KindAndOrOp:
		l.EnterAndOrOp(n)
	case KindTernaryOp:
		l.EnterTernaryOp(n)
	case KindQuestionQuestionOp:
		l.EnterQuestionQuestionOp(n)
	case KindDotOp:
		l.EnterDotOp(n)
	case KindBracketOp:
		l.EnterBracketOp(n)
	case KindMethodInvocation:
		l.EnterMethodInvocation(n)
	case KindGlobalMethodInvocation:
		l.EnterGlobalMethodInvocation(n)
	case KindClassExtraction:
		l.EnterClassExtraction(n)
	case KindResource:
		l.EnterResource(n)
	case KindExpressionList:
		l.EnterExpressionList(n)
	case KindType:
		l.EnterType(n)
	case KindArrayType:
		l.EnterArrayType(n)
	case KindTypeArguments:
		l.EnterTypeArguments(n)
	case KindError:
		l.EnterError(n)
	}
}

func exit(l Listener, n *Node) {
	switch n.Kind {
	case KindBindingSyntax:
		l.ExitBindingSyntax(n)
	case KindDefaults:
		l.ExitDefaults(n)
	case KindLiteral:
		l.ExitLiteral(n)
	case KindIdentifier:
		l.ExitIdentifier(n)
	case KindGrouping:
		l.ExitGrouping(n)
	case KindUnaryOp:
		l.ExitUnaryOp(n)
	case KindCastOp:
		l.ExitCastOp(n)
	case KindMathOp:
		l.ExitMathOp(n)
	case KindComparisonOp:
		l.ExitComparisonOp(n)
	case KindInstanceOfOp:
		l.ExitInstanceOfOp(n)
	case KindBinaryOp:
		l.ExitBinaryOp(n)
	case KindAndOrOp:
		l.ExitAndOrOp(n)
	case KindTernaryOp:
		l.ExitTernaryOp(n)
	case KindQuestionQuestionOp:
		l.ExitQuestionQuestionOp(n)
	case KindDotOp:
		l.ExitDotOp(n)
	case KindBracketOp:
		l.ExitBracketOp(n)
	case KindMethodInvocation:
		l.ExitMethodInvocation(n)
	case KindGlobalMethodInvocation:
		l.ExitGlobalMethodInvocation(n)
	case KindClassExtraction:
		l.ExitClassExtraction(n)
	case KindResource:
		l.ExitResource(n)
	case KindExpressionList:
		l.ExitExpressionList(n)
	case KindType:
		l.ExitType(n)
	case KindArrayType:
		l.ExitArrayType(n)
	case KindTypeArguments:
		l.ExitTypeArguments(n)
	case KindError:
		l.ExitError(n)
	}
}
