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

	// Outside of tags
	TokenComment
	TokenCDATA
	TokenDTD
	TokenEntityRef
	TokenCharRef
	TokenSeaWS
	TokenOpen
	TokenXMLDeclOpen
	TokenSpecialOpen
	TokenText

	// Inside of tags
	TokenClose
	TokenSpecialClose
	TokenSlashClose
	TokenSlash
	TokenEquals
	TokenString
	TokenName

	// Processing instruction body up to and including '?>'
	TokenPI
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:          "EOF",
	TokenError:        "Error",
	TokenComment:      "Comment",
	TokenCDATA:        "CDATA",
	TokenDTD:          "DTD",
	TokenEntityRef:    "EntityRef",
	TokenCharRef:      "CharRef",
	TokenSeaWS:        "SEA_WS",
	TokenOpen:         "<",
	TokenXMLDeclOpen:  "<?xml",
	TokenSpecialOpen:  "<?",
	TokenText:         "Text",
	TokenClose:        ">",
	TokenSpecialClose: "?>",
	TokenSlashClose:   "/>",
	TokenSlash:        "/",
	TokenEquals:       "=",
	TokenString:       "String",
	TokenName:         "Name",
	TokenPI:           "PI",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
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
