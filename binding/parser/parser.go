package parser

import (
	"errors"
	"fmt"
	"io"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.start.File = path
	}
}

func WithStartLine(line int) Option {
	return func(p *Parser) {
		p.start.Line = line
	}
}

func WithStartColumn(column int) Option {
	return func(p *Parser) {
		p.start.Column = column
	}
}

// WithStartOffset sets the byte offset of the first input byte within its
// enclosing document.
func WithStartOffset(offset int) Option {
	return func(p *Parser) {
		p.start.Offset = offset
	}
}

// WithoutDefaults parses a bare expression instead of a binding with an
// optional default clause.
func WithoutDefaults() Option {
	return func(p *Parser) {
		p.entry = (*Parser).parseExpressionEntry
	}
}

type parseFunc func(*Parser) *Node

type Parser struct {
	start      Position
	reader     io.Reader
	input      []byte
	readErr    error
	tokens     []Token
	pos        int
	errors     []*Error
	entry      parseFunc
	incomplete bool
}

// Result is the outcome of a parse: a best-effort tree and every syntax
// error found while building it.
type Result struct {
	Root   *Node
	Errors []*Error
}

// Err folds the syntax errors into a single error, or returns nil.
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

func newParser(r io.Reader, entry parseFunc, opts []Option) *Parser {
	p := &Parser{
		start:  Position{Line: 1, Column: 1},
		reader: r,
		entry:  entry,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseBinding parses a complete binding: an expression optionally followed
// by a ", default=value" clause. The root of the tree is a BindingSyntax node.
func ParseBinding(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseBindingSyntax, opts)
}

// ParseExpression parses a single expression without a default clause. The
// root of the tree is the expression node itself.
func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseExpressionEntry, opts)
}

// ParseTokens parses a binding from an already lexed token stream.
// Whitespace tokens are ignored and a missing EOF is supplied. A stream
// without significant tokens is rejected with ErrEmptyInput.
func ParseTokens(tokens []Token, opts ...Option) (*Result, error) {
	return newParser(nil, (*Parser).parseBindingSyntax, opts).parseTokens(tokens)
}

// ParseExpressionTokens is ParseTokens for a bare expression.
func ParseExpressionTokens(tokens []Token, opts ...Option) (*Result, error) {
	return newParser(nil, (*Parser).parseExpressionEntry, opts).parseTokens(tokens)
}

func (p *Parser) parseTokens(tokens []Token) (*Result, error) {
	p.tokens = p.tokens[:0]
	for _, tok := range tokens {
		if tok.Kind == TokenWhitespace {
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	if len(p.tokens) == 0 || p.tokens[len(p.tokens)-1].Kind != TokenEOF {
		end := p.start
		if len(p.tokens) > 0 {
			end = p.tokens[len(p.tokens)-1].Span.End
		}
		p.tokens = append(p.tokens, Token{Kind: TokenEOF, Span: Span{Start: end, End: end}})
	}
	if len(p.tokens) == 1 {
		return nil, ErrEmptyInput
	}
	p.pos = 0
	p.errors = nil
	p.incomplete = false
	root := p.entry(p)
	return &Result{Root: root, Errors: p.errors}, nil
}

func (p *Parser) readAll() error {
	if p.input != nil || p.readErr != nil {
		return p.readErr
	}
	if p.reader == nil {
		p.input = []byte{}
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		p.readErr = fmt.Errorf("read input: %w", err)
		return p.readErr
	}
	p.input = data
	return nil
}

func (p *Parser) run() (*Result, error) {
	if err := p.readAll(); err != nil {
		return nil, err
	}
	return p.parseTokens(NewLexerAt(p.input, p.start).Tokenize())
}

// IsComplete reports whether the input forms a complete binding. It returns
// false for empty input and for input that ends in the middle of a
// construct, such as "1 + " or "f(a,".
func (p *Parser) IsComplete() bool {
	if _, err := p.run(); err != nil {
		return false
	}
	return !p.incomplete
}

// Finish parses the input and returns the best-effort tree. The tree is nil
// only when the input is empty or cannot be read; see Err.
func (p *Parser) Finish() *Node {
	result, err := p.run()
	if err != nil {
		return nil
	}
	return result.Root
}

// Errors returns the syntax errors recorded by the last Finish.
func (p *Parser) Errors() []*Error {
	return p.errors
}

// Err returns the precondition or read error of the last Finish, or the
// joined syntax errors.
func (p *Parser) Err() error {
	if err := p.readAll(); err != nil {
		return err
	}
	if len(p.tokens) <= 1 {
		return ErrEmptyInput
	}
	return (&Result{Errors: p.errors}).Err()
}

// Tokens returns the significant tokens of the last parse.
func (p *Parser) Tokens() []Token {
	return p.tokens
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.readErr = nil
	p.tokens = nil
	p.pos = 0
	p.errors = nil
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

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

// startNodeAt starts a node whose first token belongs to an already parsed
// operand, as for infix and postfix operators.
func (p *Parser) startNodeAt(kind NodeKind, first *Node) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: first.Span.Start},
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
	if tok.Kind == TokenEOF || tok.Unterminated() {
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

// syncKinds are never consumed while recovering from a missing operand, so
// the enclosing construct can still match them.
var syncKinds = []TokenKind{TokenRParen, TokenRBracket, TokenComma, TokenColon, TokenEOF}

// noViable records a NoViableAlternative error at the current token and
// skips it unless an enclosing construct can resynchronize on it.
func (p *Parser) noViable(expected []TokenKind) *Node {
	tok := p.peek()
	node := p.record(NoViableAlternative, fmt.Sprintf("no viable alternative at input %s", tok), tok, expected)
	if !p.match(syncKinds...) {
		p.advance()
	}
	return node
}

// expect consumes a terminal of the given kind. On a mismatch it records an
// UnexpectedToken error and recovers by single-token deletion when the next
// token is the expected one, or by single-token insertion otherwise. The
// returned token is nil when the terminal was inserted; the returned node is
// the Error node to attach to the enclosing construct, if any.
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

func (p *Parser) parseBindingSyntax() *Node {
	node := p.startNode(KindBindingSyntax)
	node.AddChild(p.parseExpr(0))
	if p.check(TokenComma) {
		node.AddChild(p.parseDefaults())
	}
	node.AddChild(p.parseTrailing())
	return p.finishNode(node)
}

func (p *Parser) parseExpressionEntry() *Node {
	expr := p.parseExpr(0)
	p.parseTrailing()
	return expr
}

// parseTrailing reports input left after a complete binding and skips it.
func (p *Parser) parseTrailing() *Node {
	if p.check(TokenEOF) {
		return nil
	}
	tok := p.peek()
	node := p.record(UnexpectedToken, fmt.Sprintf("extraneous input %s expecting end of input", tok), tok, []TokenKind{TokenEOF})
	for !p.check(TokenEOF) {
		p.advance()
	}
	node.Span.End = p.tokens[p.pos-1].Span.End
	return node
}

func (p *Parser) parseDefaults() *Node {
	node := p.startNode(KindDefaults)
	p.advance() // ,

	tok, errNode := p.expect(TokenDefault)
	node.Token = tok
	node.AddChild(errNode)
	if _, errNode := p.expect(TokenAssign); errNode != nil {
		node.AddChild(errNode)
	}

	switch {
	case p.peek().Kind.IsLiteral():
		node.Children = append([]*Node{leafNode(KindLiteral, p.advance())}, node.Children...)
	case p.check(TokenResourceReference):
		node.Children = append([]*Node{leafNode(KindResource, p.advance())}, node.Children...)
	case p.check(TokenIdent):
		node.Children = append([]*Node{leafNode(KindIdentifier, p.advance())}, node.Children...)
	default:
		node.AddChild(p.noViable(constantStartKinds))
	}
	return p.finishNode(node)
}

var constantStartKinds = []TokenKind{
	TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral, TokenStringLiteral,
	TokenSingleQuoteString, TokenTrue, TokenFalse, TokenNull,
	TokenResourceReference, TokenIdent,
}

var primaryStartKinds = append([]TokenKind{
	TokenLParen, TokenPlus, TokenMinus, TokenBitNot, TokenNot,
	TokenVoid, TokenBoolean, TokenByte, TokenChar, TokenShort,
	TokenInt, TokenLong, TokenFloat, TokenDouble,
}, constantStartKinds...)

// parseArguments parses a parenthesized expression list. Errors for missing
// parentheses are returned separately so the list holds only expressions.
func (p *Parser) parseArguments(allowEmpty bool) (*Node, []*Node) {
	var errs []*Node
	node := p.startNode(KindExpressionList)
	if _, errNode := p.expect(TokenLParen); errNode != nil {
		errs = append(errs, errNode)
	}

	if !allowEmpty || !p.check(TokenRParen) {
		for {
			progress := p.mustProgress()
			node.AddChild(p.parseExpr(0))
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	}

	if _, errNode := p.expect(TokenRParen); errNode != nil {
		errs = append(errs, errNode)
	}
	return p.finishNode(node), errs
}
