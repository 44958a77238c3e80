// Package parser provides an error-tolerant parser for data binding
// expressions such as the ones found in layout attributes:
//
//	user.firstName + " " + user.lastName
//	list[index].visible ? View.VISIBLE : View.GONE
//	@string/greeting(user.name), default=@string/anonymous
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (tree)    │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// Expressions are parsed by precedence climbing over a fixed table of
// nineteen tiers. Member access binds tightest, the null-coalescing
// operator ?? loosest. Binary operators are left associative except for
// the conditional ?: and ??, which associate to the right.
//
// # Trees
//
// Every node is a *Node tagged with a NodeKind. Operator nodes carry the
// operator token; accessors such as Left, Right, Operand and Args return
// the children by role. Errors never abort the parse: the offending
// position becomes a KindError node and the error is added to the list
// returned by Errors.
//
// # Usage
//
//	p := parser.ParseBinding(strings.NewReader(src), parser.WithFile("main.xml"))
//	root := p.Finish()
//	for _, err := range p.Errors() {
//	    fmt.Println(err)
//	}
//
// Trees can be traversed with Walk and a Listener, or with Accept and a
// Visitor that computes a value per node.
package parser
