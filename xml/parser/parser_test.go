package parser

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func parse(t *testing.T, input string) (*Node, []*Error) {
	t.Helper()
	p := ParseDocument(strings.NewReader(input), WithFile("layout.xml"))
	root := p.Finish()
	if root == nil {
		t.Fatalf("Finish(%q) returned nil: %v", input, p.Err())
	}
	return root, p.Errors()
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"<a/>", []TokenKind{TokenOpen, TokenName, TokenSlashClose, TokenEOF}},
		{`<a x="1" y='2'>`, []TokenKind{
			TokenOpen, TokenName, TokenName, TokenEquals, TokenString, TokenName, TokenEquals, TokenString, TokenClose, TokenEOF,
		}},
		{"</a>", []TokenKind{TokenOpen, TokenSlash, TokenName, TokenClose, TokenEOF}},
		{"text &amp; &#65; &#x41;", []TokenKind{
			TokenText, TokenEntityRef, TokenSeaWS, TokenCharRef, TokenSeaWS, TokenCharRef, TokenEOF,
		}},
		{"  \n ", []TokenKind{TokenSeaWS, TokenEOF}},
		{"<!-- c -->", []TokenKind{TokenComment, TokenEOF}},
		{"<![CDATA[a<b]]>", []TokenKind{TokenCDATA, TokenEOF}},
		{"<!DOCTYPE html [<!ENTITY x 'y'>]><a/>", []TokenKind{TokenOpen, TokenName, TokenSlashClose, TokenEOF}},
		{`<?xml version="1.0"?>`, []TokenKind{TokenXMLDeclOpen, TokenName, TokenEquals, TokenString, TokenSpecialClose, TokenEOF}},
		{"<?target data?>", []TokenKind{TokenSpecialOpen, TokenPI, TokenEOF}},
		{"& x", []TokenKind{TokenError, TokenText, TokenEOF}},
		{`<a x="1<b/>`, []TokenKind{TokenOpen, TokenName, TokenName, TokenEquals, TokenError, TokenOpen, TokenName, TokenSlashClose, TokenEOF}},
		{"<android:TextView/>", []TokenKind{TokenOpen, TokenName, TokenSlashClose, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := NewLexer([]byte(tt.input), "test.xml").Tokenize()
			if len(tokens) != len(tt.expected) {
				t.Fatalf("got %d tokens %v, want %d", len(tokens), tokens, len(tt.expected))
			}
			for i, tok := range tokens {
				if tok.Kind != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, tok.Kind, tt.expected[i])
				}
			}
		})
	}
}

func TestParseSimpleDocument(t *testing.T) {
	doc, errs := parse(t, `<a x="1"><b/></a>`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := strings.Join([]string{
		`Document`,
		`  Element "a"`,
		`    Attribute "x"`,
		`      Value "\"1\""`,
		`    Content`,
		`      Element "b" (self-closing)`,
		``,
	}, "\n")
	if got := doc.String(); got != want {
		t.Errorf("tree =\n%s\nwant\n%s", got, want)
	}

	root := doc.Root()
	if root.Name() != "a" || root.SelfClosing {
		t.Errorf("root = %s selfClosing=%v", root.Name(), root.SelfClosing)
	}
	if got := root.Attribute("x").Value(); got != "1" {
		t.Errorf("x = %q, want 1", got)
	}
	if got := root.Elements(); len(got) != 1 || got[0].Name() != "b" || !got[0].SelfClosing {
		t.Errorf("children = %v", got)
	}
	if root.EndToken == nil || root.EndToken.Literal != "a" {
		t.Errorf("end token = %v", root.EndToken)
	}
}

func TestParseDocumentParts(t *testing.T) {
	input := `<?xml version="1.0" encoding="utf-8"?>
<!-- layout -->
<layout xmlns:android="http://schemas.android.com/apk/res/android">
  <?hint keep?>
  <data><![CDATA[raw <text>]]></data>
  <TextView android:text="@{user.name}" />
  caf&#233; &amp; bar
</layout>
`
	doc, errs := parse(t, input)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v\n%s", errs, doc)
	}

	prolog := doc.FirstChildOfKind(KindProlog)
	if prolog == nil || len(prolog.Attributes()) != 2 {
		t.Fatalf("prolog = %v", prolog)
	}
	if got := prolog.Attribute("encoding").Value(); got != "utf-8" {
		t.Errorf("encoding = %q", got)
	}
	if doc.FirstChildOfKind(KindComment) == nil {
		t.Error("missing comment before root")
	}

	root := doc.Root()
	if root.Name() != "layout" {
		t.Fatalf("root = %q, want layout", root.Name())
	}

	counts := map[NodeKind]int{}
	Inspect(root, func(n *Node) bool {
		counts[n.Kind]++
		return true
	})
	if counts[KindPI] != 1 || counts[KindCData] != 1 || counts[KindReference] != 2 {
		t.Errorf("counts = %v", counts)
	}
	if counts[KindElement] != 3 {
		t.Errorf("elements = %d, want 3", counts[KindElement])
	}

	tv := root.Elements()[1]
	if got := tv.Attribute("android:text").Value(); got != "@{user.name}" {
		t.Errorf("android:text = %q", got)
	}
	pos, ok := tv.Attribute("android:text").ValueStart()
	if !ok || pos.Line != 6 || pos.Column != 27 {
		t.Errorf("value start = %v, want 6:27", pos)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		errors   int
		complete bool
	}{
		{"", 1, false},
		{"   ", 1, false},
		{"<a>", 1, false},
		{"<a><b>", 2, false},
		{"<a></b>", 1, true},
		{"<a><b></a>", 1, true},
		{"<a x></a>", 1, true},
		{"<a x=></a>", 1, true},
		{"<a/><b/>", 1, true},
		{"<a/>text", 1, true},
		{"text<a/>", 1, true},
		{`<a x="1<b/>`, 3, false},
		{"<a>&bogus</a>", 1, true},
		{"<a></a x>", 1, true},
		{"<a><!-- open</a>", 2, false},
		{`<a x="1" x="2"/>`, 1, true},
		{`<a x="1" y="2" x="3" y="4"/>`, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := ParseDocument(strings.NewReader(tt.input))
			doc := p.Finish()
			if len(p.Errors()) != tt.errors {
				t.Errorf("got %d errors %v, want %d\n%s", len(p.Errors()), p.Errors(), tt.errors, doc)
			}
			if !doc.HasErrors() {
				t.Errorf("tree has no error nodes:\n%s", doc)
			}
			if got := p.IsComplete(); got != tt.complete {
				t.Errorf("IsComplete = %v, want %v", got, tt.complete)
			}
		})
	}
}

func TestMismatchedCloseTag(t *testing.T) {
	doc, errs := parse(t, "<a><b></a>")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if !strings.Contains(errs[0].Message, "unclosed element <b>") {
		t.Errorf("message = %q", errs[0].Message)
	}
	root := doc.Root()
	if root.EndToken == nil || root.EndToken.Literal != "a" {
		t.Errorf("root close tag not consumed:\n%s", doc)
	}

	_, errs = parse(t, "<a></b>")
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "mismatched close tag </b> expecting </a>") {
		t.Errorf("errors = %v", errs)
	}
	if want := "layout.xml:1:6: "; !strings.HasPrefix(errs[0].Error(), want) {
		t.Errorf("Error() = %q, want prefix %q", errs[0].Error(), want)
	}
}

func TestTruncatedDocument(t *testing.T) {
	input := `<?xml version="1.0"?><a x="1" y='2'><!-- c --><b>t &amp; u</b><![CDATA[d]]><c/></a>`
	for i := 0; i <= len(input); i++ {
		prefix := input[:i]
		p := ParseDocument(strings.NewReader(prefix))
		doc := p.Finish()
		if doc == nil {
			t.Fatalf("%q: nil tree", prefix)
		}
		if len(p.Errors()) > 0 && !doc.HasErrors() {
			t.Errorf("%q: errors not attached to the tree", prefix)
		}
		if i < len(input) && p.IsComplete() && len(p.Errors()) == 0 {
			t.Errorf("%q: prefix parsed as complete document", prefix)
		}
	}
	if _, errs := parse(t, input); len(errs) > 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestParseTokens(t *testing.T) {
	result := ParseTokens(NewLexer([]byte("<a/>"), "").Tokenize())
	if result.Err() != nil {
		t.Fatalf("unexpected errors: %v", result.Err())
	}
	if result.Root.Root().Name() != "a" {
		t.Errorf("root = %s", result.Root)
	}

	result = ParseTokens(nil)
	if result.Err() == nil {
		t.Error("expected missing root error")
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"a &amp;&amp; b", "a && b"},
		{"&lt;&gt;&quot;&apos;", `<>"'`},
		{"&#65;&#x42;", "AB"},
		{"&unknown; &", "&unknown; &"},
		{"&#xZZ;", "&#xZZ;"},
		{"caf&#233;", "café"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Unescape(tt.input); got != tt.want {
				t.Errorf("Unescape(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnescapeMap(t *testing.T) {
	out, offsets := UnescapeMap("x&amp;y")
	if out != "x&y" {
		t.Fatalf("out = %q", out)
	}
	if got := fmt.Sprint(offsets); got != "[0 1 6 7]" {
		t.Errorf("offsets = %s, want [0 1 6 7]", got)
	}

	out, offsets = UnescapeMap("ab")
	if out != "ab" || fmt.Sprint(offsets) != "[0 1 2]" {
		t.Errorf("got %q %v", out, offsets)
	}
}

func TestEscapeAttr(t *testing.T) {
	if got := EscapeAttr(`a && b < "c"`, '"'); got != "a &amp;&amp; b &lt; &quot;c&quot;" {
		t.Errorf("got %q", got)
	}
	if got := EscapeAttr(`it's "x"`, '\''); got != `it&apos;s "x"` {
		t.Errorf("got %q", got)
	}
}

func TestNodeMarshalJSON(t *testing.T) {
	doc, _ := parse(t, "<a><b/></a>")
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"kind":"Document"`, `"token":"b"`, `"selfClosing":true`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s does not contain %s", s, want)
		}
	}
}
