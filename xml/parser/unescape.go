package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

var predefinedEntities = map[string]string{
	"lt":   "<",
	"gt":   ">",
	"amp":  "&",
	"apos": "'",
	"quot": "\"",
}

// Unescape resolves the predefined entity references and character
// references in s. Unknown or malformed references are kept verbatim.
func Unescape(s string) string {
	out, _ := UnescapeMap(s)
	return out
}

// UnescapeMap is Unescape that also returns, for every byte offset of the
// result plus one past its end, the offset in s it was produced from.
func UnescapeMap(s string) (string, []int) {
	if !strings.Contains(s, "&") {
		offsets := make([]int, len(s)+1)
		for i := range offsets {
			offsets[i] = i
		}
		return s, offsets
	}

	var sb strings.Builder
	offsets := make([]int, 0, len(s)+1)
	for i := 0; i < len(s); {
		if s[i] == '&' {
			if end := strings.IndexByte(s[i:], ';'); end > 1 {
				if text, ok := resolveReference(s[i+1 : i+end]); ok {
					for j := 0; j < len(text); j++ {
						offsets = append(offsets, i)
					}
					sb.WriteString(text)
					i += end + 1
					continue
				}
			}
		}
		offsets = append(offsets, i)
		sb.WriteByte(s[i])
		i++
	}
	offsets = append(offsets, len(s))
	return sb.String(), offsets
}

func resolveReference(ref string) (string, bool) {
	if text, ok := predefinedEntities[ref]; ok {
		return text, true
	}
	if !strings.HasPrefix(ref, "#") {
		return "", false
	}
	var code uint64
	var err error
	if strings.HasPrefix(ref, "#x") {
		code, err = strconv.ParseUint(ref[2:], 16, 32)
	} else {
		code, err = strconv.ParseUint(ref[1:], 10, 32)
	}
	if err != nil || !utf8.ValidRune(rune(code)) {
		return "", false
	}
	return string(rune(code)), true
}

// EscapeAttr escapes s for use as an attribute value delimited by quote.
func EscapeAttr(s string, quote byte) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '&':
			sb.WriteString("&amp;")
		case c == '<':
			sb.WriteString("&lt;")
		case c == '"' && quote == '"':
			sb.WriteString("&quot;")
		case c == '\'' && quote == '\'':
			sb.WriteString("&apos;")
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
