package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/bindexpr/config"
	"github.com/dhamidi/bindexpr/format"
)

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"a + b", false},
		{"a +", true},
		{"f(a,", true},
		{"a ? b", true},
		{"a b", false},
		{"user.name, default=", true},
		{`f("abc`, true},
		{"a → b", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := needsMoreInput(tt.input); got != tt.want {
				t.Errorf("needsMoreInput(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestReplEval(t *testing.T) {
	var buf bytes.Buffer
	r := &repl{w: &buf}

	if !r.eval("a+b") {
		t.Fatal("eval stopped the session")
	}
	if out := buf.String(); !strings.Contains(out, "MathOp") || !strings.Contains(out, "=> a + b") {
		t.Errorf("tree output = %q", out)
	}

	buf.Reset()
	r.eval(":json")
	r.eval("x")
	if out := buf.String(); !strings.Contains(out, "json output on") || !strings.Contains(out, `"kind": "Identifier"`) {
		t.Errorf("json output = %q", out)
	}

	buf.Reset()
	r.eval(":tree")
	r.eval("a +")
	if out := buf.String(); !strings.Contains(out, "1 errors:") {
		t.Errorf("error output = %q", out)
	}

	if r.eval(":quit") {
		t.Error(":quit did not end the session")
	}
}

func TestParseBindingOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := parseBinding(&buf, []byte("a ?? b"), "", "tree", false, false); err != nil {
		t.Fatalf("parseBinding: %v", err)
	}
	if out := buf.String(); !strings.HasPrefix(out, "BindingSyntax") || !strings.Contains(out, "QuestionQuestionOp") {
		t.Errorf("output = %q", out)
	}

	buf.Reset()
	if err := parseBinding(&buf, []byte("a +"), "", "json", false, false); err == nil {
		t.Error("expected syntax error")
	}
	if !strings.Contains(buf.String(), `"errors"`) {
		t.Errorf("json output = %q", buf.String())
	}

	if err := parseBinding(&buf, []byte("a"), "", "yaml", false, false); err == nil {
		t.Error("expected unknown format error")
	}
}

func TestFormatBindingFile(t *testing.T) {
	out, err := formatBindingFile([]byte("  a+b\n\n"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "a + b\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app")
	if err := runInit(dir, false); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format.MaxColumn != config.Default().Format.MaxColumn {
		t.Errorf("max column = %d", cfg.Format.MaxColumn)
	}
}

func TestCheckLayouts(t *testing.T) {
	dir := t.TempDir()
	layoutDir := filepath.Join(dir, "res", "layout")
	if err := os.MkdirAll(layoutDir, 0755); err != nil {
		t.Fatal(err)
	}
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(layoutDir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("good.xml", `<a b="@{x}"/>`)

	var buf bytes.Buffer
	enc, _ := format.NewEncoder("lines", &buf)
	if err := checkLayouts(context.Background(), dir, config.Default().Check, enc); err != nil {
		t.Fatalf("check: %v\n%s", err, buf.String())
	}

	write("bad.xml", `<a b="@{x +}"/>`)
	buf.Reset()
	err := checkLayouts(context.Background(), dir, config.Default().Check, enc)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 layout files") {
		t.Errorf("err = %v", err)
	}
	if !strings.Contains(buf.String(), "bad.xml:1:12:") {
		t.Errorf("output = %q", buf.String())
	}
}
