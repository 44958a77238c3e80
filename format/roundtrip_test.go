package format

import (
	"bufio"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/bindexpr/binding/parser"
)

var testFilter string

func init() {
	flag.StringVar(&testFilter, "filter", "", "filter corpus expressions by substring match")
}

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(m.Run())
}

// TestRoundTrip_Corpus parses every expression in testdata/*.bind, prints
// it and parses the output again. Both trees must be equal and printing
// must be idempotent.
// Use -filter to select expressions: go test ./format -filter=instanceof
func TestRoundTrip_Corpus(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.bind"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Skip("no corpus files found in testdata")
	}

	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			t.Fatalf("failed to open corpus: %v", err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || (testFilter != "" && !strings.Contains(line, testFilter)) {
				continue
			}
			t.Run(line, func(t *testing.T) {
				runRoundTripTest(t, line)
			})
		}
		f.Close()
		if err := scanner.Err(); err != nil {
			t.Fatalf("failed to read corpus: %v", err)
		}
	}
}

func runRoundTripTest(t *testing.T, source string) {
	orig := parseClean(t, source)

	formatted, err := FormatBinding([]byte(source), 0)
	if err != nil {
		t.Fatalf("formatter error: %v", err)
	}

	reparsed := parseClean(t, string(formatted))
	if orig.String() != reparsed.String() {
		t.Errorf("tree changed after formatting %q as %q\noriginal:\n%s\nreparsed:\n%s",
			source, formatted, orig, reparsed)
	}

	again, err := FormatBinding(formatted, 0)
	if err != nil {
		t.Fatalf("second format: %v", err)
	}
	if string(again) != string(formatted) {
		t.Errorf("not idempotent: %q then %q", formatted, again)
	}

	// Broken lines must parse to the same tree as well.
	broken, err := FormatBinding([]byte(source), 10)
	if err != nil {
		t.Fatalf("format with line breaks: %v", err)
	}
	if got := parseClean(t, string(broken)); got.String() != orig.String() {
		t.Errorf("tree changed after breaking lines:\n%s", broken)
	}
}

func parseClean(t *testing.T, source string) *parser.Node {
	t.Helper()
	p := parser.ParseBinding(strings.NewReader(source))
	root := p.Finish()
	if err := p.Err(); err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	return root
}
