package parser

// parseType parses a primitive or class type with optional type arguments
// and trailing array dimensions.
func (p *Parser) parseType() *Node {
	typ := p.startNode(KindType)

	switch {
	case p.peek().Kind.IsPrimitiveType():
		typ.AddChild(leafNode(KindIdentifier, p.advance()))
	case p.check(TokenIdent):
		for {
			typ.AddChild(leafNode(KindIdentifier, p.advance()))
			if p.check(TokenLT) {
				typ.AddChild(p.parseTypeArguments())
			}
			if !p.check(TokenDot) || p.peekN(1).Kind != TokenIdent {
				break
			}
			p.advance() // .
		}
	default:
		return p.noViable(typeStartKinds)
	}
	typ = p.finishNode(typ)

	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		arr := &Node{Kind: KindArrayType, Span: Span{Start: typ.Span.Start}}
		arr.AddChild(typ)
		p.advance()
		p.advance()
		typ = p.finishNode(arr)
	}
	return typ
}

var typeStartKinds = []TokenKind{
	TokenIdent, TokenBoolean, TokenByte, TokenChar, TokenShort,
	TokenInt, TokenLong, TokenFloat, TokenDouble,
}

func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	p.advance() // <

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseType())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	if !p.expectGT() {
		tok := p.peek()
		node.AddChild(p.record(UnexpectedToken,
			"missing \">\" at "+tok.String(), tok, []TokenKind{TokenGT}))
	}
	return p.finishNode(node)
}

// expectGT consumes a closing '>' of a type argument list. A '>>' or '>>>'
// token closes several lists at once, so it is split and only its first
// character consumed.
func (p *Parser) expectGT() bool {
	switch p.peek().Kind {
	case TokenGT:
		p.advance()
		return true
	case TokenShr:
		p.splitShiftToken(TokenGT)
		return true
	case TokenUShr:
		p.splitShiftToken(TokenShr)
		return true
	}
	return false
}

// splitShiftToken replaces the current shift token by a '>' and a token of
// the remainder kind holding the rest of its text, then consumes the '>'.
func (p *Parser) splitShiftToken(remainder TokenKind) {
	tok := p.tokens[p.pos]
	mid := Position{
		File:   tok.Span.Start.File,
		Offset: tok.Span.Start.Offset + 1,
		Line:   tok.Span.Start.Line,
		Column: tok.Span.Start.Column + 1,
	}
	gt := Token{Kind: TokenGT, Literal: ">", Span: Span{Start: tok.Span.Start, End: mid}}
	rest := Token{Kind: remainder, Literal: tok.Literal[1:], Span: Span{Start: mid, End: tok.Span.End}}

	p.tokens = append(p.tokens, Token{})
	copy(p.tokens[p.pos+2:], p.tokens[p.pos+1:])
	p.tokens[p.pos] = gt
	p.tokens[p.pos+1] = rest
	p.advance()
}

// skipType advances over a type without building nodes. It reports whether
// a well formed type was found.
func (p *Parser) skipType() bool {
	switch {
	case p.peek().Kind.IsPrimitiveType():
		p.advance()
	case p.check(TokenIdent):
		for {
			p.advance()
			if p.check(TokenLT) && !p.skipTypeArguments() {
				return false
			}
			if !p.check(TokenDot) || p.peekN(1).Kind != TokenIdent {
				break
			}
			p.advance()
		}
	default:
		return false
	}
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
	}
	return true
}

// skipTypeArguments advances over a balanced type argument list, counting
// '>>' and '>>>' as two and three closing brackets.
func (p *Parser) skipTypeArguments() bool {
	depth := 0
	for {
		switch p.peek().Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenShr:
			depth -= 2
		case TokenUShr:
			depth -= 3
		case TokenIdent, TokenDot, TokenComma, TokenLBracket, TokenRBracket,
			TokenBoolean, TokenByte, TokenChar, TokenShort,
			TokenInt, TokenLong, TokenFloat, TokenDouble:
		default:
			return false
		}
		p.advance()
		if depth <= 0 {
			return depth == 0
		}
	}
}
