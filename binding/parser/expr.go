package parser

import "fmt"

// Precedence tiers, highest binds tightest.
const (
	tierNone = iota
	tierQuestionQuestion
	tierTernary
	tierOr
	tierAnd
	tierBitOr
	tierBitXor
	tierBitAnd
	tierEquality
	tierInstanceof
	tierRelational
	tierShift
	tierAdditive
	tierMultiplicative
	tierNotBitNot
	tierPlusMinus
	tierCast
	tierMethodCall
	tierIndex
	tierMember
)

type infixOp struct {
	tier       int
	kind       NodeKind
	rightAssoc bool
}

var binaryOps = map[TokenKind]infixOp{
	TokenStar:             {tierMultiplicative, KindMathOp, false},
	TokenSlash:            {tierMultiplicative, KindMathOp, false},
	TokenPercent:          {tierMultiplicative, KindMathOp, false},
	TokenPlus:             {tierAdditive, KindMathOp, false},
	TokenMinus:            {tierAdditive, KindMathOp, false},
	TokenShl:              {tierShift, KindMathOp, false},
	TokenShr:              {tierShift, KindMathOp, false},
	TokenUShr:             {tierShift, KindMathOp, false},
	TokenLT:               {tierRelational, KindComparisonOp, false},
	TokenGT:               {tierRelational, KindComparisonOp, false},
	TokenLE:               {tierRelational, KindComparisonOp, false},
	TokenGE:               {tierRelational, KindComparisonOp, false},
	TokenInstanceof:       {tierInstanceof, KindInstanceOfOp, false},
	TokenEQ:               {tierEquality, KindComparisonOp, false},
	TokenNE:               {tierEquality, KindComparisonOp, false},
	TokenBitAnd:           {tierBitAnd, KindBinaryOp, false},
	TokenBitXor:           {tierBitXor, KindBinaryOp, false},
	TokenBitOr:            {tierBitOr, KindBinaryOp, false},
	TokenAnd:              {tierAnd, KindAndOrOp, false},
	TokenOr:               {tierOr, KindAndOrOp, false},
	TokenQuestion:         {tierTernary, KindTernaryOp, true},
	TokenQuestionQuestion: {tierQuestionQuestion, KindQuestionQuestionOp, true},
}

// Tier returns the precedence tier of an expression node kind, or 0 for
// primaries. Binary operator kinds that span several tiers report the tier
// of their operator token.
func Tier(n *Node) int {
	switch n.Kind {
	case KindDotOp, KindClassExtraction:
		return tierMember
	case KindBracketOp:
		return tierIndex
	case KindMethodInvocation:
		return tierMethodCall
	case KindCastOp:
		return tierCast
	case KindUnaryOp:
		if n.Token != nil && (n.Token.Kind == TokenPlus || n.Token.Kind == TokenMinus) {
			return tierPlusMinus
		}
		return tierNotBitNot
	case KindInstanceOfOp:
		return tierInstanceof
	case KindTernaryOp:
		return tierTernary
	case KindMathOp, KindComparisonOp, KindBinaryOp, KindAndOrOp, KindQuestionQuestionOp:
		if n.Token != nil {
			return binaryOps[n.Token.Kind].tier
		}
	}
	return tierNone
}

// nextOp classifies the current token as an infix or postfix operator.
func (p *Parser) nextOp() (infixOp, bool) {
	tok := p.peek()
	switch tok.Kind {
	case TokenDot:
		if p.peekN(1).Kind == TokenIdent && p.peekN(2).Kind == TokenLParen {
			return infixOp{tier: tierMethodCall, kind: KindMethodInvocation}, true
		}
		if p.peekN(1).Kind == TokenClass {
			return infixOp{tier: tierMember, kind: KindClassExtraction}, true
		}
		return infixOp{tier: tierMember, kind: KindDotOp}, true
	case TokenLBracket:
		return infixOp{tier: tierIndex, kind: KindBracketOp}, true
	}
	op, ok := binaryOps[tok.Kind]
	return op, ok
}

// parseExpr parses an expression whose operators all bind at least as
// tightly as minTier.
func (p *Parser) parseExpr(minTier int) *Node {
	left := p.parsePrimary()
	for {
		op, ok := p.nextOp()
		if !ok || op.tier < minTier {
			return left
		}
		left = p.parseOperator(left, op)
	}
}

func (p *Parser) parseOperator(left *Node, op infixOp) *Node {
	switch op.kind {
	case KindDotOp, KindMethodInvocation, KindClassExtraction:
		return p.parseMember(left)
	case KindBracketOp:
		return p.parseBracket(left)
	case KindInstanceOfOp:
		node := p.startNodeAt(KindInstanceOfOp, left)
		node.AddChild(left)
		p.advance()
		node.AddChild(p.parseType())
		return p.finishNode(node)
	case KindTernaryOp:
		node := p.startNodeAt(KindTernaryOp, left)
		node.AddChild(left)
		p.advance()
		node.AddChild(p.parseExpr(0))
		_, errNode := p.expect(TokenColon)
		node.AddChild(p.parseExpr(tierTernary))
		node.AddChild(errNode)
		return p.finishNode(node)
	}

	node := p.startNodeAt(op.kind, left)
	node.AddChild(left)
	tok := p.advance()
	node.Token = &tok
	next := op.tier + 1
	if op.rightAssoc {
		next = op.tier
	}
	node.AddChild(p.parseExpr(next))
	return p.finishNode(node)
}

func (p *Parser) parseMember(target *Node) *Node {
	p.advance() // .

	if p.check(TokenClass) {
		node := p.startNodeAt(KindClassExtraction, target)
		classTok := p.advance()
		if typ := typeFromExpr(target); typ != nil {
			node.AddChild(typ)
		} else {
			node.AddChild(p.record(UnexpectedToken, "class extraction requires a type name", classTok, nil))
		}
		return p.finishNode(node)
	}

	if !p.check(TokenIdent) {
		node := p.startNodeAt(KindDotOp, target)
		node.AddChild(target)
		tok := p.peek()
		node.AddChild(p.record(UnexpectedToken,
			"missing member name at "+tok.String(), tok, []TokenKind{TokenIdent, TokenClass}))
		return p.finishNode(node)
	}

	name := leafNode(KindIdentifier, p.advance())
	if !p.check(TokenLParen) {
		node := p.startNodeAt(KindDotOp, target)
		node.AddChild(target)
		node.AddChild(name)
		return p.finishNode(node)
	}

	node := p.startNodeAt(KindMethodInvocation, target)
	node.AddChild(target)
	node.AddChild(name)
	args, errs := p.parseArguments(true)
	node.AddChild(args)
	node.Children = append(node.Children, errs...)
	return p.finishNode(node)
}

func (p *Parser) parseBracket(target *Node) *Node {
	if p.peekN(1).Kind == TokenRBracket {
		if result := p.tryParseArrayClassExtraction(target); result != nil {
			return result
		}
	}

	node := p.startNodeAt(KindBracketOp, target)
	node.AddChild(target)
	p.advance() // [
	node.AddChild(p.parseExpr(0))
	_, errNode := p.expect(TokenRBracket)
	node.AddChild(errNode)
	return p.finishNode(node)
}

// tryParseArrayClassExtraction attempts to parse an array type class
// extraction like String[].class. It returns nil and leaves the position
// unchanged when the input is not of that shape.
func (p *Parser) tryParseArrayClassExtraction(target *Node) *Node {
	typ := typeFromExpr(target)
	if typ == nil {
		return nil
	}
	save := p.pos

	dims := 0
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
		dims++
	}

	if !p.check(TokenDot) || p.peekN(1).Kind != TokenClass {
		p.pos = save
		return nil
	}

	for i := 0; i < dims; i++ {
		wrapper := &Node{Kind: KindArrayType, Span: Span{Start: typ.Span.Start, End: p.tokens[p.pos-1].Span.End}}
		wrapper.AddChild(typ)
		typ = wrapper
	}
	p.advance() // .
	p.advance() // class

	node := p.startNodeAt(KindClassExtraction, target)
	node.AddChild(typ)
	return p.finishNode(node)
}

// typeFromExpr reinterprets an identifier or a chain of member accesses as a
// qualified type name. It returns nil for any other expression.
func typeFromExpr(n *Node) *Node {
	var names []*Node
	for cur := n; ; {
		switch cur.Kind {
		case KindIdentifier:
			names = append(names, cur)
			typ := &Node{Kind: KindType, Span: n.Span}
			for i := len(names) - 1; i >= 0; i-- {
				typ.AddChild(names[i])
			}
			return typ
		case KindDotOp:
			if len(cur.Children) < 2 || cur.Children[1].Kind != KindIdentifier {
				return nil
			}
			names = append(names, cur.Children[1])
			cur = cur.Children[0]
		default:
			return nil
		}
	}
}

func (p *Parser) parsePrimary() *Node {
	tok := p.peek()
	switch {
	case tok.Kind.IsLiteral():
		return leafNode(KindLiteral, p.advance())

	case tok.Kind == TokenIdent:
		if p.peekN(1).Kind == TokenLParen {
			node := p.startNode(KindGlobalMethodInvocation)
			node.AddChild(leafNode(KindIdentifier, p.advance()))
			args, errs := p.parseArguments(true)
			node.AddChild(args)
			node.Children = append(node.Children, errs...)
			return p.finishNode(node)
		}
		return leafNode(KindIdentifier, p.advance())

	case tok.Kind == TokenLParen:
		if p.isCast() {
			return p.parseCast()
		}
		return p.parseGrouping()

	case tok.Kind == TokenPlus || tok.Kind == TokenMinus:
		return p.parseUnary(tierPlusMinus)

	case tok.Kind == TokenNot || tok.Kind == TokenBitNot:
		return p.parseUnary(tierNotBitNot)

	case tok.Kind == TokenResourceReference:
		return p.parseResource()

	case tok.Kind.IsPrimitiveType() || tok.Kind == TokenVoid:
		return p.parsePrimitiveClassExtraction()

	case tok.Kind == TokenError:
		p.advance()
		return p.record(NoViableAlternative, badTokenMessage(tok), tok, primaryStartKinds)
	}

	return p.noViable(primaryStartKinds)
}

// badTokenMessage describes a token the lexer could not scan.
func badTokenMessage(tok Token) string {
	switch {
	case tok.Unterminated():
		return fmt.Sprintf("unterminated literal %s", tok)
	case tok.Literal != "" && tok.Literal[0] == '0':
		return fmt.Sprintf("malformed number %s", tok)
	case tok.Literal != "" && tok.Literal[0] == '@':
		return fmt.Sprintf("malformed resource reference %s", tok)
	}
	return fmt.Sprintf("invalid character %s", tok)
}

func (p *Parser) parseUnary(tier int) *Node {
	node := p.startNode(KindUnaryOp)
	tok := p.advance()
	node.Token = &tok
	node.AddChild(p.parseExpr(tier))
	return p.finishNode(node)
}

func (p *Parser) parseGrouping() *Node {
	node := p.startNode(KindGrouping)
	p.advance() // (
	node.AddChild(p.parseExpr(0))
	_, errNode := p.expect(TokenRParen)
	node.AddChild(errNode)
	return p.finishNode(node)
}

func (p *Parser) parseCast() *Node {
	node := p.startNode(KindCastOp)
	p.advance() // (
	node.AddChild(p.parseType())
	_, errNode := p.expect(TokenRParen)
	node.AddChild(p.parseExpr(tierCast))
	node.AddChild(errNode)
	return p.finishNode(node)
}

func (p *Parser) parseResource() *Node {
	node := p.startNode(KindResource)
	tok := p.advance()
	node.Token = &tok
	if p.check(TokenLParen) {
		args, errs := p.parseArguments(false)
		node.AddChild(args)
		node.Children = append(node.Children, errs...)
	}
	return p.finishNode(node)
}

func (p *Parser) parsePrimitiveClassExtraction() *Node {
	node := p.startNode(KindClassExtraction)
	if p.check(TokenVoid) {
		typ := p.startNode(KindType)
		typ.AddChild(leafNode(KindIdentifier, p.advance()))
		node.AddChild(p.finishNode(typ))
	} else {
		node.AddChild(p.parseType())
	}
	if _, errNode := p.expect(TokenDot); errNode != nil {
		node.AddChild(errNode)
	}
	if _, errNode := p.expect(TokenClass); errNode != nil {
		node.AddChild(errNode)
	}
	return p.finishNode(node)
}

// isCast reports whether the '(' at the current position opens a cast. A
// cast is '(' Type ')' followed by a token that can start the operand.
// Reference type casts may not be followed by '+' or '-', which would make
// "(a) + b" a cast of a unary expression.
func (p *Parser) isCast() bool {
	if !p.check(TokenLParen) {
		return false
	}

	save := p.pos
	defer func() { p.pos = save }()
	p.advance()

	primitive := p.peek().Kind.IsPrimitiveType()
	if !p.skipType() || !p.check(TokenRParen) {
		return false
	}
	p.advance()

	next := p.peek().Kind
	switch {
	case next == TokenIdent, next.IsLiteral(), next == TokenLParen,
		next == TokenNot, next == TokenBitNot, next == TokenResourceReference,
		next.IsPrimitiveType(), next == TokenVoid:
		return true
	case next == TokenPlus, next == TokenMinus:
		return primitive
	}
	return false
}
