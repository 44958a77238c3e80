package parser

import (
	"bytes"
	"unicode/utf8"
)

type lexMode int

const (
	modeContent lexMode = iota
	modeTag
	modeInstruction
)

// Lexer splits an XML document into tokens. Which tokens are recognized
// depends on the mode: markup and character data outside of tags, names and
// quoted values inside of tags, and raw text inside processing instructions.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
	mode   lexMode
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
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

func (l *Lexer) hasPrefix(s string) bool {
	return bytes.HasPrefix(l.input[l.pos:], []byte(s))
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

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// advanceUntil advances past the first occurrence of end and reports
// whether it was found before the end of input.
func (l *Lexer) advanceUntil(end string) bool {
	idx := bytes.Index(l.input[l.pos:], []byte(end))
	if idx < 0 {
		l.advanceN(len(l.input) - l.pos)
		return false
	}
	l.advanceN(idx + len(end))
	return true
}

// Tokenize returns all tokens up to and including EOF. Document type
// declarations are dropped.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Kind == TokenDTD {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() Token {
	switch l.mode {
	case modeTag:
		return l.nextTagToken()
	case modeInstruction:
		return l.nextInstructionToken()
	}
	return l.nextContentToken()
}

func (l *Lexer) nextContentToken() Token {
	start := l.Position()
	if l.atEnd() {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	switch {
	case l.hasPrefix("<!--"):
		if !l.advanceUntil("-->") {
			return l.token(TokenError, start)
		}
		return l.token(TokenComment, start)

	case l.hasPrefix("<![CDATA["):
		if !l.advanceUntil("]]>") {
			return l.token(TokenError, start)
		}
		return l.token(TokenCDATA, start)

	case l.hasPrefix("<!"):
		return l.scanDTD(start)

	case l.hasPrefix("<?xml") && (isSpace(l.peekN(5)) || l.peekN(5) == '?'):
		l.advanceN(5)
		l.mode = modeTag
		return l.token(TokenXMLDeclOpen, start)

	case l.hasPrefix("<?") && isNameStart(l.peekN(2)):
		l.advanceN(2)
		l.scanName()
		l.mode = modeInstruction
		return l.token(TokenSpecialOpen, start)

	case l.peek() == '<':
		l.advance()
		l.mode = modeTag
		return l.token(TokenOpen, start)

	case l.peek() == '&':
		return l.scanReference(start)
	}

	allSpace := true
	for !l.atEnd() && l.peek() != '<' && l.peek() != '&' {
		if !isSpace(l.peek()) {
			allSpace = false
		}
		l.advance()
	}
	if allSpace {
		return l.token(TokenSeaWS, start)
	}
	return l.token(TokenText, start)
}

// scanDTD skips a <!DOCTYPE ...> declaration including an internal subset
// in square brackets.
func (l *Lexer) scanDTD(start Position) Token {
	depth := 0
	for !l.atEnd() {
		switch l.advance() {
		case '[':
			depth++
		case ']':
			depth--
		case '>':
			if depth <= 0 {
				return l.token(TokenDTD, start)
			}
		}
	}
	return l.token(TokenError, start)
}

// scanReference scans an entity reference "&name;" or a character reference
// "&#123;" or "&#x7B;". A malformed reference yields an Error token holding
// only the ampersand.
func (l *Lexer) scanReference(start Position) Token {
	if l.peekN(1) == '#' {
		n := 2
		digit := isDigit
		if l.peekN(2) == 'x' {
			n = 3
			digit = isHexDigit
		}
		end := n
		for digit(l.peekN(end)) {
			end++
		}
		if end > n && l.peekN(end) == ';' {
			l.advanceN(end + 1)
			return l.token(TokenCharRef, start)
		}
		l.advance()
		return l.token(TokenError, start)
	}

	end := 1
	if isNameStart(l.peekN(end)) {
		for isNameChar(l.peekN(end)) {
			end++
		}
		if l.peekN(end) == ';' {
			l.advanceN(end + 1)
			return l.token(TokenEntityRef, start)
		}
	}
	l.advance()
	return l.token(TokenError, start)
}

func (l *Lexer) nextTagToken() Token {
	for isSpace(l.peek()) && !l.atEnd() {
		l.advance()
	}

	start := l.Position()
	if l.atEnd() {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	switch ch := l.peek(); {
	case ch == '>':
		l.advance()
		l.mode = modeContent
		return l.token(TokenClose, start)
	case ch == '/' && l.peekN(1) == '>':
		l.advanceN(2)
		l.mode = modeContent
		return l.token(TokenSlashClose, start)
	case ch == '?' && l.peekN(1) == '>':
		l.advanceN(2)
		l.mode = modeContent
		return l.token(TokenSpecialClose, start)
	case ch == '/':
		l.advance()
		return l.token(TokenSlash, start)
	case ch == '=':
		l.advance()
		return l.token(TokenEquals, start)
	case ch == '"' || ch == '\'':
		return l.scanString(start, ch)
	case ch == '<':
		// An unterminated tag: resume in content mode so the next tag is
		// lexed normally.
		l.mode = modeContent
		return l.nextContentToken()
	case isNameStart(ch):
		l.scanName()
		return l.token(TokenName, start)
	}

	l.advance()
	return l.token(TokenError, start)
}

// scanString scans a quoted attribute value. Values may not contain '<';
// running into one, or into the end of input, yields an Error token.
func (l *Lexer) scanString(start Position, quote byte) Token {
	l.advance()
	for !l.atEnd() && l.peek() != quote && l.peek() != '<' {
		l.advance()
	}
	if l.peek() != quote || l.atEnd() {
		return l.token(TokenError, start)
	}
	l.advance()
	return l.token(TokenString, start)
}

func (l *Lexer) nextInstructionToken() Token {
	start := l.Position()
	if l.atEnd() {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}
	l.advanceUntil("?>")
	l.mode = modeContent
	return l.token(TokenPI, start)
}

func (l *Lexer) scanName() {
	for !l.atEnd() && isNameChar(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isNameStart(ch byte) bool {
	if ch >= utf8.RuneSelf {
		return true
	}
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == ':'
}

func isNameChar(ch byte) bool {
	return isNameStart(ch) || isDigit(ch) || ch == '-' || ch == '.'
}
