package grammar

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

type memoKey struct {
	name   string
	offset int
}

// matcher finds every way a token production can match a prefix of its
// input. Results are memoized per production and offset.
type matcher struct {
	grammar  ebnf.Grammar
	input    string
	memo     map[memoKey][]int
	visiting map[memoKey]bool
}

// MatchToken reports whether text is exactly one token of the production
// name.
func MatchToken(g ebnf.Grammar, name, text string) bool {
	m := &matcher{
		grammar:  g,
		input:    text,
		memo:     make(map[memoKey][]int),
		visiting: make(map[memoKey]bool),
	}
	for _, end := range m.matchName(name, 0) {
		if end == len(text) {
			return true
		}
	}
	return false
}

// match returns the sorted end offsets of all matches of expr at offset.
func (m *matcher) match(expr ebnf.Expression, offset int) []int {
	switch e := expr.(type) {
	case nil:
		return []int{offset}

	case *ebnf.Token:
		if strings.HasPrefix(m.input[offset:], e.String) {
			return []int{offset + len(e.String)}
		}
		return nil

	case *ebnf.Range:
		return m.matchRange(e, offset)

	case ebnf.Sequence:
		ends := []int{offset}
		for _, item := range e {
			var next []int
			for _, pos := range ends {
				next = append(next, m.match(item, pos)...)
			}
			ends = unique(next)
			if len(ends) == 0 {
				return nil
			}
		}
		return ends

	case ebnf.Alternative:
		var ends []int
		for _, alt := range e {
			ends = append(ends, m.match(alt, offset)...)
		}
		return unique(ends)

	case *ebnf.Repetition:
		seen := map[int]bool{offset: true}
		ends := []int{offset}
		frontier := []int{offset}
		for len(frontier) > 0 {
			var next []int
			for _, pos := range frontier {
				for _, end := range m.match(e.Body, pos) {
					if !seen[end] {
						seen[end] = true
						next = append(next, end)
					}
				}
			}
			ends = append(ends, next...)
			frontier = next
		}
		return unique(ends)

	case *ebnf.Option:
		return unique(append([]int{offset}, m.match(e.Body, offset)...))

	case *ebnf.Group:
		return m.match(e.Body, offset)

	case *ebnf.Name:
		return m.matchName(e.String, offset)
	}
	return nil
}

func (m *matcher) matchName(name string, offset int) []int {
	key := memoKey{name: name, offset: offset}
	if ends, ok := m.memo[key]; ok {
		return ends
	}
	// Left recursion matches nothing.
	if m.visiting[key] {
		return nil
	}
	prod, ok := m.grammar[name]
	if !ok {
		return nil
	}
	m.visiting[key] = true
	ends := m.match(prod.Expr, offset)
	delete(m.visiting, key)
	m.memo[key] = ends
	return ends
}

func (m *matcher) matchRange(r *ebnf.Range, offset int) []int {
	if offset >= len(m.input) {
		return nil
	}
	begin, _ := utf8.DecodeRuneInString(r.Begin.String)
	end, _ := utf8.DecodeRuneInString(r.End.String)
	ch, size := utf8.DecodeRuneInString(m.input[offset:])
	if ch >= begin && ch <= end {
		return []int{offset + size}
	}
	return nil
}

func unique(ends []int) []int {
	if len(ends) < 2 {
		return ends
	}
	sort.Ints(ends)
	out := ends[:1]
	for _, e := range ends[1:] {
		if e != out[len(out)-1] {
			out = append(out, e)
		}
	}
	return out
}
