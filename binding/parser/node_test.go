package parser

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNodeKindString(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want string
	}{
		{KindError, "Error"},
		{KindBindingSyntax, "BindingSyntax"},
		{KindQuestionQuestionOp, "QuestionQuestionOp"},
		{KindGlobalMethodInvocation, "GlobalMethodInvocation"},
		{KindTypeArguments, "TypeArguments"},
		{NodeKind(9999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("NodeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestNodeAddChild(t *testing.T) {
	parent := &Node{Kind: KindExpressionList}
	child1 := &Node{Kind: KindIdentifier}
	child2 := &Node{Kind: KindLiteral}

	parent.AddChild(child1)
	parent.AddChild(child2)
	parent.AddChild(nil)

	if len(parent.Children) != 2 {
		t.Errorf("Expected 2 children, got %d", len(parent.Children))
	}
	if parent.FirstChildOfKind(KindLiteral) != child2 {
		t.Error("FirstChildOfKind(Literal) mismatch")
	}
	if got := parent.ChildrenOfKind(KindIdentifier); len(got) != 1 || got[0] != child1 {
		t.Errorf("ChildrenOfKind(Identifier) = %v", got)
	}
}

func TestNodeArgs(t *testing.T) {
	tests := []struct {
		input string
		args  int
		isNil bool
	}{
		{"@string/name", 0, true},
		{"@string/name(a)", 1, false},
		{"f()", 0, false},
		{"a.f(b, c, d)", 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, _ := parse(t, tt.input)
			got := root.Expression().Args()
			if len(got) != tt.args {
				t.Errorf("len(Args) = %d, want %d", len(got), tt.args)
			}
			if (got == nil) != tt.isNil {
				t.Errorf("Args() nil = %v, want %v", got == nil, tt.isNil)
			}
		})
	}
}

func TestNodeOperator(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a >>> b", ">>>"},
		{"!a", "!"},
		{"a ?? b", "??"},
		{"a ? b : c", "?"},
		{"a instanceof B", "instanceof"},
		{"a.b", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, _ := parse(t, tt.input)
			if got := root.Expression().Operator(); got != tt.want {
				t.Errorf("Operator() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNodeString(t *testing.T) {
	root, _ := parse(t, "a + 1")
	want := "BindingSyntax\n  MathOp +\n    Identifier a\n    Literal 1\n"
	if got := root.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
	if got := root.StringWithPositions(); !strings.Contains(got, "MathOp [test.bind:1:1-test.bind:1:6] +") {
		t.Errorf("StringWithPositions() =\n%s", got)
	}
}

func TestNodeMarshalJSON(t *testing.T) {
	root, _ := parse(t, "a +")
	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded struct {
		Kind     string `json:"kind"`
		Children []struct {
			Kind     string `json:"kind"`
			Token    string `json:"token"`
			Children []struct {
				Kind  string `json:"kind"`
				Error *struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			} `json:"children"`
		} `json:"children"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Kind != "BindingSyntax" {
		t.Errorf("kind = %q, want BindingSyntax", decoded.Kind)
	}
	math := decoded.Children[0]
	if math.Kind != "MathOp" || math.Token != "+" {
		t.Errorf("child = %s %q, want MathOp +", math.Kind, math.Token)
	}
	errNode := math.Children[1]
	if errNode.Kind != "Error" || errNode.Error == nil || errNode.Error.Code != "NoViableAlternative" {
		t.Errorf("error child = %+v", errNode)
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"(int) x", "int"},
		{"(java.util.Map<String, List<Integer>>) x", "java.util.Map<String, List<Integer>>"},
		{"(Outer<A>.Inner<B>) x", "Outer<A>.Inner<B>"},
		{"(byte[][]) x", "byte[][]"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, errs := parse(t, tt.input)
			if len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if got := TypeString(root.Expression().TypeNode()); got != tt.want {
				t.Errorf("TypeString = %q, want %q", got, tt.want)
			}
		})
	}
}
