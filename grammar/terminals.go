package grammar

import (
	bparser "github.com/dhamidi/bindexpr/binding/parser"
	xmlparser "github.com/dhamidi/bindexpr/xml/parser"
)

var bindingTokenNames = map[bparser.TokenKind]string{
	bparser.TokenIdent:             "identifier",
	bparser.TokenIntLiteral:        "intLiteral",
	bparser.TokenFloatLiteral:      "floatLiteral",
	bparser.TokenCharLiteral:       "charLiteral",
	bparser.TokenStringLiteral:     "stringLiteral",
	bparser.TokenSingleQuoteString: "rawString",
	bparser.TokenResourceReference: "resourceReference",
	bparser.TokenError:             "error",
}

// BindingTerminals converts binding tokens to terminals of the binding
// grammar. Whitespace and EOF are dropped.
func BindingTerminals(tokens []bparser.Token) []Terminal {
	var terms []Terminal
	for _, tok := range tokens {
		if tok.Kind == bparser.TokenEOF || tok.Kind == bparser.TokenWhitespace {
			continue
		}
		terms = append(terms, Terminal{
			Kind:     bindingTokenNames[tok.Kind],
			Literal:  tok.Literal,
			Position: tok.Span.Start.String(),
		})
	}
	return terms
}

var xmlTokenNames = map[xmlparser.TokenKind]string{
	xmlparser.TokenComment:     "comment",
	xmlparser.TokenCDATA:       "cdata",
	xmlparser.TokenEntityRef:   "entityRef",
	xmlparser.TokenCharRef:     "charRef",
	xmlparser.TokenSeaWS:       "seaWS",
	xmlparser.TokenText:        "text",
	xmlparser.TokenString:      "string",
	xmlparser.TokenName:        "name",
	xmlparser.TokenSpecialOpen: "piOpen",
	xmlparser.TokenPI:          "piBody",
	xmlparser.TokenError:       "error",
	xmlparser.TokenDTD:         "dtd",
}

// XMLTerminals converts XML tokens to terminals of the XML grammar. EOF
// is dropped.
func XMLTerminals(tokens []xmlparser.Token) []Terminal {
	var terms []Terminal
	for _, tok := range tokens {
		if tok.Kind == xmlparser.TokenEOF {
			continue
		}
		terms = append(terms, Terminal{
			Kind:     xmlTokenNames[tok.Kind],
			Literal:  tok.Literal,
			Position: tok.Span.Start.String(),
		})
	}
	return terms
}

// Check recognizes already lexed terminals against a built-in grammar.
func Check(name string, terms []Terminal) error {
	g, err := Load(name)
	if err != nil {
		return err
	}
	r, err := NewRecognizer(g, Start(name))
	if err != nil {
		return err
	}
	return r.Recognize(terms)
}
