// Package parser parses XML documents into a tree that keeps every piece of
// the source: comments, processing instructions, character data and the
// exact text of attribute values.
//
// The lexer is modal. Outside of tags it recognizes markup and character
// data, inside of tags names, '=' and quoted values. The parser follows the
// grammar
//
//	document  : prolog? misc* element misc* ;
//	prolog    : XMLDeclOpen attribute* SpecialClose ;
//	content   : chardata? ((element | reference | CDATA | PI | Comment) chardata?)* ;
//	element   : '<' Name attribute* '>' content '<' '/' Name '>'
//	          | '<' Name attribute* '/>' ;
//	reference : EntityRef | CharRef ;
//	attribute : Name '=' String ;
//	chardata  : Text | SEA_WS ;
//	misc      : Comment | PI | SEA_WS ;
//
// Malformed input never stops the parse. Each problem is recorded in the
// error list and as an Error node where it occurred.
package parser
