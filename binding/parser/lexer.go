package parser

import (
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
	base   int
}

func NewLexer(input []byte, file string) *Lexer {
	return NewLexerAt(input, Position{File: file, Line: 1, Column: 1})
}

// NewLexerAt creates a lexer whose first byte is located at start. Offsets
// reported in token spans are start.Offset plus the index into input, which
// lets expressions embedded in a larger document report document positions.
func NewLexerAt(input []byte, start Position) *Lexer {
	if start.Line < 1 {
		start.Line = 1
	}
	if start.Column < 1 {
		start.Column = 1
	}
	return &Lexer{
		input:  input,
		file:   start.File,
		pos:    0,
		line:   start.Line,
		column: start.Column,
		base:   start.Offset,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.base + l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// peekRune decodes the rune at the current position. Invalid UTF-8 yields
// utf8.RuneError with size 1; size is 0 at end of input.
func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return 0, 0
	}
	return utf8.DecodeRune(l.input[l.pos:])
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// Tokenize returns all significant tokens up to and including EOF.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Kind == TokenWhitespace {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.atEnd() {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if isSpace(ch) {
		return l.scanWhitespace(startPos)
	}

	if r, _ := l.peekRune(); isIdentStart(r) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))) {
		return l.scanNumber(startPos)
	}

	switch ch {
	case '\'':
		return l.scanQuoted(startPos, '\'', TokenCharLiteral)
	case '"':
		return l.scanQuoted(startPos, '"', TokenStringLiteral)
	case '`':
		return l.scanQuoted(startPos, '`', TokenSingleQuoteString)
	case '@':
		return l.scanResourceReference(startPos)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for isSpace(l.peek()) && !l.atEnd() {
		l.advance()
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	l.scanIdentParts(false)
	end := l.Position()
	literal := string(l.input[start.Offset-l.base : end.Offset-l.base])
	return Token{
		Kind:    LookupKeyword(literal),
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
}

// scanIdentParts consumes identifier characters, and dots too when
// withDots is set.
func (l *Lexer) scanIdentParts(withDots bool) {
	for {
		r, size := l.peekRune()
		if size == 0 || !(isIdentPart(r) || withDots && r == '.') {
			return
		}
		l.advanceN(size)
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		return l.scanPrefixedInt(start, isHexDigit)
	}
	if l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		return l.scanPrefixedInt(start, isBinDigit)
	}

	isFloat := false
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekN(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekN(2))) {
			isFloat = true
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for isDigit(l.peek()) || l.peek() == '_' {
				l.advance()
			}
		}
	}

	switch l.peek() {
	case 'f', 'F', 'd', 'D':
		isFloat = true
		l.advance()
	case 'l', 'L':
		if !isFloat {
			l.advance()
		}
	}

	if isFloat {
		return l.token(TokenFloatLiteral, start)
	}
	return l.token(TokenIntLiteral, start)
}

// scanPrefixedInt scans a 0x or 0b literal. A prefix without digits is an
// error token.
func (l *Lexer) scanPrefixedInt(start Position, isDigitOf func(byte) bool) Token {
	l.advanceN(2)
	digits := 0
	for isDigitOf(l.peek()) || l.peek() == '_' {
		if l.peek() != '_' {
			digits++
		}
		l.advance()
	}
	if digits == 0 {
		return l.token(TokenError, start)
	}
	if l.peek() == 'l' || l.peek() == 'L' {
		l.advance()
	}
	return l.token(TokenIntLiteral, start)
}

// scanQuoted scans a literal delimited by quote. A missing closing quote
// yields an error token running to end of input.
func (l *Lexer) scanQuoted(start Position, quote byte, kind TokenKind) Token {
	l.advance()
	for !l.atEnd() && l.peek() != quote {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.atEnd() {
		return l.token(TokenError, start)
	}
	l.advance()
	return l.token(kind, start)
}

// scanResourceReference scans '@' [package ':'] type '/' name.
func (l *Lexer) scanResourceReference(start Position) Token {
	l.advance()

	first := l.scanResourceName()
	typ := first
	if l.peek() == ':' && first != "" {
		l.advance()
		typ = l.scanResourceName()
	}

	if !resourceTypeSet[typ] || l.peek() != '/' {
		return l.token(TokenError, start)
	}
	l.advance()

	if l.scanResourceName() == "" {
		return l.token(TokenError, start)
	}
	return l.token(TokenResourceReference, start)
}

func (l *Lexer) scanResourceName() string {
	from := l.pos
	l.scanIdentParts(true)
	return string(l.input[from:l.pos])
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case '.':
		l.advance()
		return l.token(TokenDot, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)
	case ':':
		l.advance()
		return l.token(TokenColon, start)
	case '~':
		l.advance()
		return l.token(TokenBitNot, start)
	case '+':
		l.advance()
		return l.token(TokenPlus, start)
	case '-':
		l.advance()
		return l.token(TokenMinus, start)
	case '*':
		l.advance()
		return l.token(TokenStar, start)
	case '/':
		l.advance()
		return l.token(TokenSlash, start)
	case '%':
		l.advance()
		return l.token(TokenPercent, start)
	case '^':
		l.advance()
		return l.token(TokenBitXor, start)

	case '?':
		if l.peekN(1) == '?' {
			l.advanceN(2)
			return l.token(TokenQuestionQuestion, start)
		}
		l.advance()
		return l.token(TokenQuestion, start)

	case '=':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenEQ, start)
		}
		l.advance()
		return l.token(TokenAssign, start)

	case '!':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenNE, start)
		}
		l.advance()
		return l.token(TokenNot, start)

	case '<':
		if l.peekN(1) == '<' {
			l.advanceN(2)
			return l.token(TokenShl, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenLE, start)
		}
		l.advance()
		return l.token(TokenLT, start)

	case '>':
		if l.peekN(1) == '>' {
			if l.peekN(2) == '>' {
				l.advanceN(3)
				return l.token(TokenUShr, start)
			}
			l.advanceN(2)
			return l.token(TokenShr, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenGE, start)
		}
		l.advance()
		return l.token(TokenGT, start)

	case '&':
		if l.peekN(1) == '&' {
			l.advanceN(2)
			return l.token(TokenAnd, start)
		}
		l.advance()
		return l.token(TokenBitAnd, start)

	case '|':
		if l.peekN(1) == '|' {
			l.advanceN(2)
			return l.token(TokenOr, start)
		}
		l.advance()
		return l.token(TokenBitOr, start)
	}

	_, size := l.peekRune()
	l.advanceN(size)
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset-l.base : end.Offset-l.base]),
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isBinDigit(ch byte) bool {
	return ch == '0' || ch == '1'
}

func isIdentStart(r rune) bool {
	if r < utf8.RuneSelf {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$'
	}
	return unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	if r < utf8.RuneSelf {
		return isIdentStart(r) || (r >= '0' && r <= '9')
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsIdentifier reports whether s lexes as a single identifier token.
func IsIdentifier(s string) bool {
	if s == "" || LookupKeyword(s) != TokenIdent {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) || !isIdentPart(r) {
			return false
		}
	}
	return true
}
