package grammar

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/ebnf"
)

// Terminal is one token of the input to a Recognizer. Tokens described by
// a token production carry the production name as Kind. Punctuation and
// keywords have an empty Kind and are matched by Literal.
type Terminal struct {
	Kind     string
	Literal  string
	Position string
}

func (t Terminal) String() string {
	if t.Kind != "" {
		return fmt.Sprintf("%s %q", t.Kind, t.Literal)
	}
	return fmt.Sprintf("%q", t.Literal)
}

type symbol struct {
	name     string
	literal  string
	terminal bool
}

func (s symbol) String() string {
	if s.terminal && s.name == "" {
		return fmt.Sprintf("%q", s.literal)
	}
	return s.name
}

func (s symbol) matches(t Terminal) bool {
	if s.name != "" {
		return t.Kind == s.name
	}
	return t.Kind == "" && t.Literal == s.literal
}

type rule struct {
	lhs string
	rhs []symbol
}

// Recognizer decides whether a token stream is a sentence of an EBNF
// grammar using Earley's algorithm. Token productions are not expanded;
// they match terminals by kind.
type Recognizer struct {
	start    string
	rules    []rule
	byLHS    map[string][]int
	nullable map[string]bool
	pending  []string
	fresh    int
}

func NewRecognizer(g ebnf.Grammar, start string) (*Recognizer, error) {
	r := &Recognizer{
		start: start,
		byLHS: make(map[string][]int),
	}

	done := make(map[string]bool)
	r.pending = []string{start}
	for len(r.pending) > 0 {
		name := r.pending[len(r.pending)-1]
		r.pending = r.pending[:len(r.pending)-1]
		if done[name] {
			continue
		}
		done[name] = true

		prod := g[name]
		if prod == nil {
			return nil, fmt.Errorf("production %q not found in grammar", name)
		}
		for _, alt := range alternatives(prod.Expr) {
			r.addRule(name, r.sequence(alt))
		}
	}
	r.computeNullable()
	return r, nil
}

func alternatives(expr ebnf.Expression) []ebnf.Expression {
	if alt, ok := expr.(ebnf.Alternative); ok {
		return alt
	}
	return []ebnf.Expression{expr}
}

func (r *Recognizer) addRule(lhs string, rhs []symbol) {
	r.byLHS[lhs] = append(r.byLHS[lhs], len(r.rules))
	r.rules = append(r.rules, rule{lhs: lhs, rhs: rhs})
}

func (r *Recognizer) sequence(expr ebnf.Expression) []symbol {
	switch e := expr.(type) {
	case nil:
		return nil
	case ebnf.Sequence:
		symbols := make([]symbol, 0, len(e))
		for _, item := range e {
			symbols = append(symbols, r.symbol(item))
		}
		return symbols
	}
	return []symbol{r.symbol(expr)}
}

// symbol converts expr to a single grammar symbol. Groups, options and
// repetitions become fresh nonterminals.
func (r *Recognizer) symbol(expr ebnf.Expression) symbol {
	switch e := expr.(type) {
	case *ebnf.Name:
		if IsToken(e.String) {
			return symbol{name: e.String, terminal: true}
		}
		r.pending = append(r.pending, e.String)
		return symbol{name: e.String}
	case *ebnf.Token:
		return symbol{literal: e.String, terminal: true}
	case *ebnf.Range:
		// Ranges only occur in token productions; outside of them they
		// match nothing.
		return symbol{literal: e.Begin.String + "…" + e.End.String, terminal: true}
	case *ebnf.Option:
		n := r.freshName()
		r.addRule(n, nil)
		for _, alt := range alternatives(e.Body) {
			r.addRule(n, r.sequence(alt))
		}
		return symbol{name: n}
	case *ebnf.Repetition:
		n := r.freshName()
		r.addRule(n, nil)
		for _, alt := range alternatives(e.Body) {
			r.addRule(n, append(r.sequence(alt), symbol{name: n}))
		}
		return symbol{name: n}
	case *ebnf.Group:
		return r.inline(e.Body)
	}
	return r.inline(expr)
}

func (r *Recognizer) inline(expr ebnf.Expression) symbol {
	n := r.freshName()
	for _, alt := range alternatives(expr) {
		r.addRule(n, r.sequence(alt))
	}
	return symbol{name: n}
}

func (r *Recognizer) freshName() string {
	r.fresh++
	return fmt.Sprintf("#%d", r.fresh)
}

func (r *Recognizer) computeNullable() {
	r.nullable = make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for _, rl := range r.rules {
			if r.nullable[rl.lhs] {
				continue
			}
			all := true
			for _, sym := range rl.rhs {
				if sym.terminal || !r.nullable[sym.name] {
					all = false
					break
				}
			}
			if all {
				r.nullable[rl.lhs] = true
				changed = true
			}
		}
	}
}

type item struct {
	rule   int
	dot    int
	origin int
}

type itemSet struct {
	items []item
	seen  map[item]bool
}

func (s *itemSet) add(it item) {
	if s.seen[it] {
		return
	}
	s.seen[it] = true
	s.items = append(s.items, it)
}

// Recognize reports whether terms form a sentence of the grammar. The
// error names the first terminal no production could accept.
func (r *Recognizer) Recognize(terms []Terminal) error {
	n := len(terms)
	chart := make([]*itemSet, n+1)
	for i := range chart {
		chart[i] = &itemSet{seen: make(map[item]bool)}
	}
	for _, ri := range r.byLHS[r.start] {
		chart[0].add(item{rule: ri})
	}

	for i := 0; i <= n; i++ {
		set := chart[i]
		// Items may be added while the set is processed.
		for j := 0; j < len(set.items); j++ {
			it := set.items[j]
			rl := r.rules[it.rule]

			if it.dot == len(rl.rhs) {
				for _, waiting := range chart[it.origin].items {
					wr := r.rules[waiting.rule]
					if waiting.dot < len(wr.rhs) && !wr.rhs[waiting.dot].terminal && wr.rhs[waiting.dot].name == rl.lhs {
						set.add(item{waiting.rule, waiting.dot + 1, waiting.origin})
					}
				}
				continue
			}

			next := rl.rhs[it.dot]
			if next.terminal {
				if i < n && next.matches(terms[i]) {
					chart[i+1].add(item{it.rule, it.dot + 1, it.origin})
				}
				continue
			}
			for _, ri := range r.byLHS[next.name] {
				set.add(item{rule: ri, origin: i})
			}
			if r.nullable[next.name] {
				set.add(item{it.rule, it.dot + 1, it.origin})
			}
		}
	}

	for _, it := range chart[n].items {
		rl := r.rules[it.rule]
		if rl.lhs == r.start && it.origin == 0 && it.dot == len(rl.rhs) {
			return nil
		}
	}

	furthest := 0
	for i := n; i >= 0; i-- {
		if len(chart[i].items) > 0 {
			furthest = i
			break
		}
	}
	expected := r.expected(chart[furthest])
	if furthest < n {
		tok := terms[furthest]
		return fmt.Errorf("parse error at %s: unexpected %s, expecting %s", tok.Position, tok, expected)
	}
	return fmt.Errorf("parse error: unexpected end of input, expecting %s", expected)
}

func (r *Recognizer) expected(set *itemSet) string {
	seen := make(map[string]bool)
	var names []string
	for _, it := range set.items {
		rl := r.rules[it.rule]
		if it.dot < len(rl.rhs) && rl.rhs[it.dot].terminal {
			name := rl.rhs[it.dot].String()
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
