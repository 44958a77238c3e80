package format

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/bindexpr/binding/parser"
)

func TestFormatBinding(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a+b*c", "a + b * c"},
		{"(a+b)*c", "(a + b) * c"},
		{"a?b:c", "a ? b : c"},
		{"(int)x", "(int) x"},
		{"f( a,b )", "f(a, b)"},
		{"obj.m( )", "obj.m()"},
		{"@string/fmt( a ,b)", "@string/fmt(a, b)"},
		{"@string/name", "@string/name"},
		{"a.b??c , default = 'x'", "a.b ?? c, default='x'"},
		{"x instanceof java.util.List<String>", "x instanceof java.util.List<String>"},
		{"a[ 0 ].b()", "a[0].b()"},
		{"String . class", "String.class"},
		{"int[].class", "int[].class"},
		{"a - -b", "a - -b"},
		{"- -a", "- -a"},
		{"+ +a", "+ +a"},
		{"-(-a)", "-(-a)"},
		{"-+a", "-+a"},
		{"!!a", "!!a"},
		{"!a&&b||c", "!a && b || c"},
		{"a<b==c>=d", "a < b == c >= d"},
		{"a>>b>>>c<<d", "a >> b >>> c << d"},
		{"a&b|c^~d", "a & b | c ^ ~d"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := FormatBinding([]byte(tt.input), 0)
			if err != nil {
				t.Fatalf("FormatBinding: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatBindingErrors(t *testing.T) {
	src := []byte("a +")
	got, err := FormatBinding(src, 0)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !bytes.Equal(got, src) {
		t.Errorf("input changed to %q", got)
	}

	if _, err := FormatBinding(nil, 0); !errors.Is(err, parser.ErrEmptyInput) {
		t.Errorf("empty input error = %v", err)
	}
}

func TestBindingPrinterRejectsErrors(t *testing.T) {
	p := parser.ParseBinding(strings.NewReader("f(a,"))
	root := p.Finish()
	if _, err := NewBindingPrinter(nil).Format(root); !errors.Is(err, ErrSyntax) {
		t.Errorf("err = %v, want ErrSyntax", err)
	}
}

func TestBindingLineBreaking(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"cond ? someLongValue : otherLongValue",
			"cond\n    ? someLongValue\n    : otherLongValue",
		},
		{
			"first ? a : second ? b : c",
			"first\n    ? a\n    : second\n    ? b\n    : c",
		},
		{
			"user.nickname ?? user.fullName",
			"user.nickname\n    ?? user.fullName",
		},
		{"a ? b : c", "a ? b : c"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := FormatBinding([]byte(tt.input), 20)
			if err != nil {
				t.Fatalf("FormatBinding: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got\n%s\nwant\n%s", got, tt.expected)
			}
		})
	}
}

func TestBindingPrinterPrint(t *testing.T) {
	var buf bytes.Buffer
	root := parser.ParseBinding(strings.NewReader("a.b( c )")).Finish()
	if err := NewBindingPrinter(&buf).Print(root); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "a.b(c)" {
		t.Errorf("got %q", buf.String())
	}
}
