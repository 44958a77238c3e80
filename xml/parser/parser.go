package parser

import (
	"errors"
	"fmt"
	"io"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

type Parser struct {
	file       string
	reader     io.Reader
	input      []byte
	readErr    error
	tokens     []Token
	pos        int
	errors     []*Error
	open       []string
	incomplete bool
}

type Result struct {
	Root   *Node
	Errors []*Error
}

func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// ParseDocument returns a parser for the XML document read from r.
func ParseDocument(r io.Reader, opts ...Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseTokens parses a document from an already lexed token stream. A
// missing EOF is supplied.
func ParseTokens(tokens []Token, opts ...Option) *Result {
	p := ParseDocument(nil, opts...)
	return p.parseTokens(tokens)
}

func (p *Parser) parseTokens(tokens []Token) *Result {
	p.tokens = append(p.tokens[:0], tokens...)
	if len(p.tokens) == 0 || p.tokens[len(p.tokens)-1].Kind != TokenEOF {
		end := Position{File: p.file, Line: 1, Column: 1}
		if len(p.tokens) > 0 {
			end = p.tokens[len(p.tokens)-1].Span.End
		}
		p.tokens = append(p.tokens, Token{Kind: TokenEOF, Span: Span{Start: end, End: end}})
	}
	p.pos = 0
	p.errors = nil
	p.open = nil
	p.incomplete = false
	root := p.parseDocument()
	return &Result{Root: root, Errors: p.errors}
}

func (p *Parser) run() (*Result, error) {
	if p.input == nil && p.readErr == nil {
		if p.reader == nil {
			p.input = []byte{}
		} else if data, err := io.ReadAll(p.reader); err != nil {
			p.readErr = fmt.Errorf("read input: %w", err)
		} else {
			p.input = data
		}
	}
	if p.readErr != nil {
		return nil, p.readErr
	}
	return p.parseTokens(NewLexer(p.input, p.file).Tokenize()), nil
}

// Finish parses the input and returns the document tree. The tree is nil
// only when the input cannot be read.
func (p *Parser) Finish() *Node {
	result, err := p.run()
	if err != nil {
		return nil
	}
	return result.Root
}

// IsComplete reports whether the input holds a complete document, that is
// no element or markup was cut off by the end of input.
func (p *Parser) IsComplete() bool {
	if _, err := p.run(); err != nil {
		return false
	}
	return !p.incomplete
}

func (p *Parser) Errors() []*Error {
	return p.errors
}

func (p *Parser) Err() error {
	if p.readErr != nil {
		return p.readErr
	}
	return (&Result{Errors: p.errors}).Err()
}

// Source returns the bytes read by the last Finish.
func (p *Parser) Source() []byte {
	return p.input
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.readErr = nil
	p.tokens = nil
	p.pos = 0
	p.errors = nil
	p.open = nil
	p.incomplete = false
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else {
		n.Span.End = p.peek().Span.Start
	}
	if n.Span.End.Offset < n.Span.Start.Offset {
		n.Span.End = n.Span.Start
	}
	return n
}

func leafNode(kind NodeKind, tok Token) *Node {
	return &Node{Kind: kind, Token: &tok, Span: tok.Span}
}

func (p *Parser) record(code ErrorCode, msg string, tok Token, expected []TokenKind) *Node {
	if tok.Kind == TokenEOF {
		p.incomplete = true
	}
	err := &Error{
		Code:     code,
		Message:  msg,
		Expected: expected,
		Got:      &tok,
	}
	p.errors = append(p.errors, err)
	return &Node{
		Kind:  KindError,
		Span:  tok.Span,
		Token: &tok,
		Error: err,
	}
}

// skip records an error for the current token and consumes it.
func (p *Parser) skip(msg string) *Node {
	tok := p.peek()
	node := p.record(NoViableAlternative, fmt.Sprintf("%s at %s", msg, tok), tok, nil)
	p.advance()
	return node
}

// expect consumes a terminal of the given kind. On a mismatch it recovers by
// single-token deletion when the next token is the expected one, or by
// single-token insertion otherwise.
func (p *Parser) expect(kind TokenKind) (*Token, *Node) {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok, nil
	}
	if tok.Kind != TokenEOF && p.peekN(1).Kind == kind {
		errNode := p.record(UnexpectedToken,
			fmt.Sprintf("extraneous input %s expecting %q", tok, kind.String()), tok, []TokenKind{kind})
		p.advance()
		matched := p.advance()
		return &matched, errNode
	}
	errNode := p.record(UnexpectedToken,
		fmt.Sprintf("missing %q at %s", kind.String(), tok), tok, []TokenKind{kind})
	return nil, errNode
}

func (p *Parser) parseDocument() *Node {
	doc := p.startNode(KindDocument)

	if p.check(TokenXMLDeclOpen) {
		doc.AddChild(p.parseProlog())
	}

	var root *Node
	for !p.check(TokenEOF) {
		switch tok := p.peek(); tok.Kind {
		case TokenComment, TokenSpecialOpen, TokenSeaWS:
			doc.AddChild(p.parseMisc())
		case TokenOpen:
			if root != nil {
				doc.AddChild(p.record(UnexpectedToken,
					fmt.Sprintf("extraneous element after root element <%s>", root.Name()), tok, []TokenKind{TokenEOF}))
			}
			elem := p.parseElement()
			if root == nil {
				root = elem
			}
			doc.AddChild(elem)
		case TokenXMLDeclOpen:
			doc.AddChild(p.skip("XML declaration not at start of document"))
			for !p.check(TokenEOF) && !p.check(TokenSpecialClose) && !p.check(TokenOpen) {
				p.advance()
			}
			if p.check(TokenSpecialClose) {
				p.advance()
			}
		default:
			if root == nil {
				doc.AddChild(p.skip("unexpected input before root element"))
			} else {
				doc.AddChild(p.skip("extraneous input after root element"))
			}
		}
	}

	if root == nil {
		tok := p.peek()
		doc.AddChild(p.record(NoViableAlternative, "missing root element", tok, []TokenKind{TokenOpen}))
	}
	return p.finishNode(doc)
}

func (p *Parser) parseProlog() *Node {
	node := p.startNode(KindProlog)
	p.advance() // <?xml
	p.parseAttributes(node)
	if _, errNode := p.expect(TokenSpecialClose); errNode != nil {
		node.AddChild(errNode)
	}
	return p.finishNode(node)
}

func (p *Parser) parseMisc() *Node {
	switch p.peek().Kind {
	case TokenComment:
		return leafNode(KindComment, p.advance())
	case TokenSpecialOpen:
		return p.parsePI()
	}
	return leafNode(KindCharData, p.advance())
}

// parsePI joins the target and body tokens of a processing instruction into
// a single PI node.
func (p *Parser) parsePI() *Node {
	node := p.startNode(KindPI)
	open := p.advance()
	tok := Token{Kind: TokenPI, Span: open.Span, Literal: open.Literal}
	if p.check(TokenPI) {
		body := p.advance()
		tok.Literal += body.Literal
		tok.Span.End = body.Span.End
		if len(body.Literal) < 2 || body.Literal[len(body.Literal)-2:] != "?>" {
			node.AddChild(p.record(UnexpectedToken, "unterminated processing instruction", p.peek(), []TokenKind{TokenSpecialClose}))
		}
	} else {
		node.AddChild(p.record(UnexpectedToken, "unterminated processing instruction", p.peek(), []TokenKind{TokenSpecialClose}))
	}
	node.Token = &tok
	return p.finishNode(node)
}

// isSelfClosing looks ahead over the attribute list of the start tag at the
// current position and reports whether the tag ends in "/>".
func (p *Parser) isSelfClosing() bool {
	for i := 2; ; i++ {
		switch p.peekN(i).Kind {
		case TokenName, TokenEquals, TokenString, TokenError:
			continue
		case TokenSlashClose:
			return true
		default:
			return false
		}
	}
}

func (p *Parser) parseElement() *Node {
	node := p.startNode(KindElement)
	node.SelfClosing = p.isSelfClosing()
	p.advance() // <

	name, errNode := p.expect(TokenName)
	node.Token = name
	node.AddChild(errNode)
	p.parseAttributes(node)

	if node.SelfClosing {
		p.advance() // />
		return p.finishNode(node)
	}

	closeTok, errNode := p.expect(TokenClose)
	node.AddChild(errNode)
	if closeTok == nil {
		switch {
		case p.check(TokenSlashClose):
			p.advance()
			node.SelfClosing = true
			return p.finishNode(node)
		case !p.check(TokenOpen):
			return p.finishNode(node)
		}
	}

	p.open = append(p.open, node.Name())
	node.AddChild(p.parseContent())
	p.open = p.open[:len(p.open)-1]

	p.parseEndTag(node)
	return p.finishNode(node)
}

// parseEndTag consumes the close tag of node. A close tag that names an
// enclosing element is left for that element, so only the innermost
// unclosed element is reported.
func (p *Parser) parseEndTag(node *Node) {
	name := node.Name()
	if !p.check(TokenOpen) || p.peekN(1).Kind != TokenSlash {
		tok := p.peek()
		node.AddChild(p.record(UnexpectedToken,
			fmt.Sprintf("unclosed element <%s> at %s", name, tok), tok, []TokenKind{TokenOpen}))
		return
	}

	closeName := p.peekN(2)
	if closeName.Kind == TokenName && closeName.Literal != name && p.isOpen(closeName.Literal) {
		node.AddChild(p.record(UnexpectedToken,
			fmt.Sprintf("unclosed element <%s> at </%s>", name, closeName.Literal), closeName, nil))
		return
	}

	p.advance() // <
	p.advance() // /
	endName, errNode := p.expect(TokenName)
	node.AddChild(errNode)
	node.EndToken = endName
	if endName != nil && endName.Literal != name {
		node.AddChild(p.record(UnexpectedToken,
			fmt.Sprintf("mismatched close tag </%s> expecting </%s>", endName.Literal, name), *endName, []TokenKind{TokenName}))
	}
	for !p.check(TokenClose) && !p.check(TokenEOF) && !p.check(TokenOpen) {
		node.AddChild(p.skip("unexpected input in close tag"))
	}
	if _, errNode := p.expect(TokenClose); errNode != nil {
		node.AddChild(errNode)
	}
}

func (p *Parser) isOpen(name string) bool {
	for _, open := range p.open {
		if open == name {
			return true
		}
	}
	return false
}

// parseAttributes parses attributes until the end of the start tag.
// Tokens that cannot begin an attribute are reported and skipped, and a
// repeated attribute name is reported on the later attribute.
func (p *Parser) parseAttributes(parent *Node) {
	seen := make(map[string]bool)
	for {
		switch p.peek().Kind {
		case TokenName:
			attr := p.parseAttribute()
			if name := attr.Token; seen[name.Literal] {
				attr.AddChild(p.record(UnexpectedToken,
					fmt.Sprintf("duplicate attribute %s", name.Literal), *name, nil))
			} else {
				seen[name.Literal] = true
			}
			parent.AddChild(attr)
		case TokenClose, TokenSlashClose, TokenSpecialClose, TokenOpen, TokenEOF:
			return
		default:
			parent.AddChild(p.skip("malformed attribute"))
		}
	}
}

func (p *Parser) parseAttribute() *Node {
	node := p.startNode(KindAttribute)
	name := p.advance()
	node.Token = &name

	if _, errNode := p.expect(TokenEquals); errNode != nil {
		node.AddChild(errNode)
		if !p.check(TokenString) {
			return p.finishNode(node)
		}
	}
	if p.check(TokenString) {
		node.AddChild(leafNode(KindValue, p.advance()))
	} else {
		tok := p.peek()
		node.AddChild(p.record(UnexpectedToken,
			fmt.Sprintf("missing value for attribute %s at %s", name.Literal, tok), tok, []TokenKind{TokenString}))
		if tok.Kind == TokenError {
			p.advance()
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseContent() *Node {
	node := p.startNode(KindContent)
	for {
		switch tok := p.peek(); tok.Kind {
		case TokenText, TokenSeaWS:
			node.AddChild(leafNode(KindCharData, p.advance()))
		case TokenEntityRef, TokenCharRef:
			node.AddChild(leafNode(KindReference, p.advance()))
		case TokenCDATA:
			node.AddChild(leafNode(KindCData, p.advance()))
		case TokenComment:
			node.AddChild(leafNode(KindComment, p.advance()))
		case TokenSpecialOpen:
			node.AddChild(p.parsePI())
		case TokenOpen:
			if p.peekN(1).Kind == TokenSlash {
				return p.finishNode(node)
			}
			node.AddChild(p.parseElement())
		case TokenEOF:
			return p.finishNode(node)
		default:
			node.AddChild(p.skip("unexpected input in content"))
		}
	}
}
