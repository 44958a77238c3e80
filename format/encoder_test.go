package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/bindexpr/binding/parser"
	"github.com/dhamidi/bindexpr/layout"
	xmlparser "github.com/dhamidi/bindexpr/xml/parser"
)

func TestLineEncoder(t *testing.T) {
	report := layout.CheckSource("a.xml", []byte("<a b=\"@{x +}\"\n   c=\"@={a + b}\"/>"))
	var buf bytes.Buffer
	if err := NewLineEncoder(&buf).Encode(report); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if want := "a.xml:1:12: no viable alternative at input end of input"; lines[0] != want {
		t.Errorf("line 0 = %q, want %q", lines[0], want)
	}
	if !strings.HasPrefix(lines[1], "a.xml:2:10: warning: two-way binding target") {
		t.Errorf("line 1 = %q", lines[1])
	}

	buf.Reset()
	if err := NewLineEncoder(&buf).Encode(&layout.Report{File: "gone.xml", Removed: true}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("removed file printed %q", buf.String())
	}
}

func TestJSONEncoder(t *testing.T) {
	report := layout.CheckSource("a.xml", []byte(`<a b="@{x +}" c="@{y}"/>`))
	var buf bytes.Buffer
	enc, ok := NewEncoder("json", &buf)
	if !ok {
		t.Fatal("json encoder not found")
	}
	if err := enc.Encode(report); err != nil {
		t.Fatal(err)
	}
	text := buf.Bytes()
	var got struct {
		File        string `json:"file"`
		Expressions []struct {
			Attribute string `json:"attribute"`
			Source    string `json:"source"`
		} `json:"expressions"`
		Diagnostics []struct {
			Severity string `json:"severity"`
			Start    struct {
				Line   int `json:"line"`
				Column int `json:"column"`
			} `json:"start"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal(text, &got); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, text)
	}
	if got.File != "a.xml" || len(got.Expressions) != 2 || got.Expressions[1].Source != "y" {
		t.Errorf("report = %+v", got)
	}
	if len(got.Diagnostics) != 1 || got.Diagnostics[0].Severity != "error" || got.Diagnostics[0].Start.Column != 12 {
		t.Errorf("diagnostics = %+v", got.Diagnostics)
	}

	if _, ok := NewEncoder("yaml", nil); ok {
		t.Error("unexpected yaml encoder")
	}
}

func TestASTJSONEncoder(t *testing.T) {
	p := parser.ParseBinding(strings.NewReader("a +"))
	root := p.Finish()
	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(root, p.Errors()); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Root struct {
			Kind     string `json:"kind"`
			Children []struct {
				Kind string `json:"kind"`
			} `json:"children"`
		} `json:"root"`
		Errors []struct {
			Code     string `json:"code"`
			Position *struct {
				Line   int `json:"line"`
				Column int `json:"column"`
			} `json:"position"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, buf.String())
	}
	if doc.Root.Kind != "BindingSyntax" || len(doc.Root.Children) != 1 || doc.Root.Children[0].Kind != "MathOp" {
		t.Errorf("root = %+v", doc.Root)
	}
	if len(doc.Errors) != 1 || doc.Errors[0].Code != "NoViableAlternative" || doc.Errors[0].Position == nil {
		t.Errorf("errors = %+v", doc.Errors)
	}

	buf.Reset()
	enc := NewASTJSONEncoder(&buf)
	enc.SetPositions(false)
	xp := xmlparser.ParseDocument(strings.NewReader("<a><b/></a>"))
	if err := enc.EncodeXML(xp.Finish(), xp.Errors()); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	for _, want := range []string{`"kind": "Document"`, `"selfClosing": true`, `"errors": []`} {
		if !strings.Contains(s, want) {
			t.Errorf("output does not contain %s:\n%s", want, s)
		}
	}
	if strings.Contains(s, `"span"`) {
		t.Errorf("positions not disabled:\n%s", s)
	}
}
