package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenSingleQuoteString
	TokenTrue
	TokenFalse
	TokenNull
	TokenResourceReference

	// Keywords
	TokenClass
	TokenDefault
	TokenInstanceof
	TokenVoid
	TokenBoolean
	TokenByte
	TokenChar
	TokenShort
	TokenInt
	TokenLong
	TokenFloat
	TokenDouble

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenDot
	TokenComma
	TokenColon
	TokenAssign

	// Operators
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenBitNot
	TokenNot
	TokenShl
	TokenShr
	TokenUShr
	TokenLT
	TokenGT
	TokenLE
	TokenGE
	TokenEQ
	TokenNE
	TokenBitAnd
	TokenBitXor
	TokenBitOr
	TokenAnd
	TokenOr
	TokenQuestion
	TokenQuestionQuestion
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:               "EOF",
	TokenError:             "Error",
	TokenWhitespace:        "Whitespace",
	TokenIdent:             "Identifier",
	TokenIntLiteral:        "IntegerLiteral",
	TokenFloatLiteral:      "FloatingPointLiteral",
	TokenCharLiteral:       "CharacterLiteral",
	TokenStringLiteral:     "StringLiteral",
	TokenSingleQuoteString: "SingleQuoteString",
	TokenTrue:              "true",
	TokenFalse:             "false",
	TokenNull:              "null",
	TokenResourceReference: "ResourceReference",
	TokenClass:             "class",
	TokenDefault:           "default",
	TokenInstanceof:        "instanceof",
	TokenVoid:              "void",
	TokenBoolean:           "boolean",
	TokenByte:              "byte",
	TokenChar:              "char",
	TokenShort:             "short",
	TokenInt:               "int",
	TokenLong:              "long",
	TokenFloat:             "float",
	TokenDouble:            "double",
	TokenLParen:            "(",
	TokenRParen:            ")",
	TokenLBracket:          "[",
	TokenRBracket:          "]",
	TokenDot:               ".",
	TokenComma:             ",",
	TokenColon:             ":",
	TokenAssign:            "=",
	TokenPlus:              "+",
	TokenMinus:             "-",
	TokenStar:              "*",
	TokenSlash:             "/",
	TokenPercent:           "%",
	TokenBitNot:            "~",
	TokenNot:               "!",
	TokenShl:               "<<",
	TokenShr:               ">>",
	TokenUShr:              ">>>",
	TokenLT:                "<",
	TokenGT:                ">",
	TokenLE:                "<=",
	TokenGE:                ">=",
	TokenEQ:                "==",
	TokenNE:                "!=",
	TokenBitAnd:            "&",
	TokenBitXor:            "^",
	TokenBitOr:             "|",
	TokenAnd:               "&&",
	TokenOr:                "||",
	TokenQuestion:          "?",
	TokenQuestionQuestion:  "??",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsLiteral reports whether k is one of the literal terminals accepted by
// the literal production.
func (k TokenKind) IsLiteral() bool {
	switch k {
	case TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral,
		TokenStringLiteral, TokenSingleQuoteString,
		TokenTrue, TokenFalse, TokenNull:
		return true
	}
	return false
}

// IsPrimitiveType reports whether k names a primitive type keyword.
func (k TokenKind) IsPrimitiveType() bool {
	switch k {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble:
		return true
	}
	return false
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Literal)
}

// Unterminated reports whether t is an error token for a quoted literal
// whose closing quote is missing. Such a token always runs to end of input.
func (t Token) Unterminated() bool {
	if t.Kind != TokenError || t.Literal == "" {
		return false
	}
	switch t.Literal[0] {
	case '"', '\'', '`':
		return true
	}
	return false
}

var keywords = map[string]TokenKind{
	"true":       TokenTrue,
	"false":      TokenFalse,
	"null":       TokenNull,
	"class":      TokenClass,
	"default":    TokenDefault,
	"instanceof": TokenInstanceof,
	"void":       TokenVoid,
	"boolean":    TokenBoolean,
	"byte":       TokenByte,
	"char":       TokenChar,
	"short":      TokenShort,
	"int":        TokenInt,
	"long":       TokenLong,
	"float":      TokenFloat,
	"double":     TokenDouble,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}

// ResourceTypes lists the resource type names accepted after '@' in a
// resource reference.
var ResourceTypes = []string{
	"anim", "animator", "bool", "color", "colorStateList", "dimen",
	"dimenOffset", "dimenSize", "layout", "drawable", "fraction", "id",
	"integer", "intArray", "interpolator", "plurals", "stateListAnimator",
	"string", "stringArray", "transition", "typedArray", "xml",
}

var resourceTypeSet = func() map[string]bool {
	m := make(map[string]bool, len(ResourceTypes))
	for _, t := range ResourceTypes {
		m[t] = true
	}
	return m
}()
