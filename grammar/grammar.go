// Package grammar holds the EBNF descriptions of the binding expression
// and layout XML languages and checks token streams against them.
package grammar

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

//go:embed *.ebnf
var files embed.FS

const (
	Binding = "binding"
	XML     = "xml"
)

var startProductions = map[string]string{
	Binding: "BindingSyntax",
	XML:     "Document",
}

// Names returns the names of the built-in grammars.
func Names() []string {
	names := make([]string, 0, len(startProductions))
	for name := range startProductions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start returns the start production of a built-in grammar.
func Start(name string) string {
	return startProductions[name]
}

// Source returns the EBNF text of a built-in grammar.
func Source(name string) ([]byte, error) {
	if _, ok := startProductions[name]; !ok {
		return nil, fmt.Errorf("unknown grammar %q", name)
	}
	return files.ReadFile(name + ".ebnf")
}

// Load parses a built-in grammar.
func Load(name string) (ebnf.Grammar, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	g, err := ebnf.Parse(name+".ebnf", bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// LoadFile parses an EBNF grammar from a file.
func LoadFile(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	g, err := ebnf.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// Verify loads a built-in grammar and checks that every production is
// defined and reachable from its start production.
func Verify(name string) error {
	g, err := Load(name)
	if err != nil {
		return err
	}
	if err := ebnf.Verify(g, Start(name)); err != nil {
		return fmt.Errorf("verify grammar: %w", err)
	}
	return nil
}

// IsToken reports whether a production name denotes a token. Token
// productions start with a lower-case letter.
func IsToken(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return name != "" && !unicode.IsUpper(r)
}
