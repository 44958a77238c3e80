package parser

import (
	"strings"
	"testing"
)

type traceListener struct {
	BaseListener
	events []string
}

func (l *traceListener) EnterMathOp(n *Node) { l.events = append(l.events, "enter "+n.Operator()) }
func (l *traceListener) ExitMathOp(n *Node)  { l.events = append(l.events, "exit "+n.Operator()) }
func (l *traceListener) EnterIdentifier(n *Node) {
	l.events = append(l.events, "id "+n.TokenLiteral())
}

func TestWalk(t *testing.T) {
	root, _ := parse(t, "a + b * c")
	l := &traceListener{}
	Walk(l, root)

	want := "enter + | id a | enter * | id b | id c | exit * | exit +"
	if got := strings.Join(l.events, " | "); got != want {
		t.Errorf("events = %s, want %s", got, want)
	}
}

type errorCounter struct {
	BaseListener
	enter, exit int
}

func (c *errorCounter) EnterError(*Node) { c.enter++ }
func (c *errorCounter) ExitError(*Node)  { c.exit++ }

func TestWalkErrors(t *testing.T) {
	root, errs := parse(t, "f(a, ) + [")
	c := &errorCounter{}
	Walk(c, root)
	if c.enter != len(errs) || c.exit != len(errs) {
		t.Errorf("enter=%d exit=%d, want %d", c.enter, c.exit, len(errs))
	}
}

type identCounter struct {
	BaseVisitor[int]
}

func (v *identCounter) VisitIdentifier(*Node) int { return 1 }

func TestVisitorAggregate(t *testing.T) {
	root, _ := parse(t, "a.b(c) + d[e] ?? 1")
	v := &identCounter{}
	v.Self = v
	v.Aggregate = func(acc, next int) int { return acc + next }

	if got := Accept[int](v, root); got != 5 {
		t.Errorf("identifiers = %d, want 5", got)
	}
}

type depthVisitor struct {
	BaseVisitor[int]
}

func (v *depthVisitor) visitNode(n *Node) int {
	deepest := 0
	for _, child := range n.Children {
		if d := Accept[int](v, child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

func (v *depthVisitor) VisitBindingSyntax(n *Node) int { return v.visitNode(n) }
func (v *depthVisitor) VisitMathOp(n *Node) int        { return v.visitNode(n) }
func (v *depthVisitor) VisitGrouping(n *Node) int      { return v.visitNode(n) }
func (v *depthVisitor) VisitIdentifier(*Node) int      { return 1 }
func (v *depthVisitor) VisitLiteral(*Node) int         { return 1 }

func TestVisitorOverrides(t *testing.T) {
	root, _ := parse(t, "(a + (b - 1)) * c")
	v := &depthVisitor{}
	v.Self = v

	// BindingSyntax > MathOp * > Grouping > MathOp + > Grouping > MathOp - > Literal
	if got := Accept[int](v, root); got != 7 {
		t.Errorf("depth = %d, want 7", got)
	}
}

func TestVisitChildrenWithoutAggregate(t *testing.T) {
	root, _ := parse(t, "x")
	v := &identCounter{}
	v.Self = v
	if got := VisitChildren[int](v, root, nil); got != 1 {
		t.Errorf("VisitChildren = %d, want 1", got)
	}
	if got := Accept[int](v, nil); got != 0 {
		t.Errorf("Accept(nil) = %d, want 0", got)
	}
}
