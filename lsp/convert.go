package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/bindexpr/binding/parser"
	"github.com/dhamidi/bindexpr/layout"
)

// toPosition converts a byte offset in text to an LSP position, counting
// characters in UTF-16 code units.
func toPosition(text string, offset int) protocol.Position {
	offset = max(0, min(offset, len(text)))
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	line := strings.Count(text[:lineStart], "\n")
	var units int
	for _, r := range text[lineStart:offset] {
		units += utf16.RuneLen(r)
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(units),
	}
}

// toOffset is the inverse of toPosition. Positions past the end of a line
// map to the line end.
func toOffset(text string, pos protocol.Position) int {
	offset := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}
	units := protocol.UInteger(0)
	for offset < len(text) && text[offset] != '\n' && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[offset:])
		units += protocol.UInteger(utf16.RuneLen(r))
		offset += size
	}
	return offset
}

func toRange(text string, span parser.Span) protocol.Range {
	end := span.End.Offset
	if end < span.Start.Offset {
		end = span.Start.Offset
	}
	return protocol.Range{
		Start: toPosition(text, span.Start.Offset),
		End:   toPosition(text, end),
	}
}

func toDiagnostics(text string, diags []layout.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		severity := protocol.DiagnosticSeverityError
		if d.Severity == layout.SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		source := lsName + "/" + d.Source
		out = append(out, protocol.Diagnostic{
			Range:    toRange(text, d.Span),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

// wholeRange covers every character of text.
func wholeRange(text string) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{},
		End:   toPosition(text, len(text)),
	}
}
