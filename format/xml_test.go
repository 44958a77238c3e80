package format

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	xmlparser "github.com/dhamidi/bindexpr/xml/parser"
)

func TestFormatLayout(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "bindings",
			input: `<layout>
  <TextView
      android:text="@{user.name+&quot;!&quot;}"
      android:visible='@{a&amp;&amp;b}'
      android:checked="@={vm.on}"/>
</layout>
`,
			expected: `<layout>
  <TextView
      android:text="@{user.name + &quot;!&quot;}"
      android:visible='@{a &amp;&amp; b}'
      android:checked="@={vm.on}"/>
</layout>
`,
		},
		{
			name:     "prolog and doctype",
			input:    "<?xml version=\"1.0\"?>\n<!DOCTYPE a>\n<a x=\"@{a+b}\" >text &amp; <!-- c --><![CDATA[<d>]]></a>\n",
			expected: "<?xml version=\"1.0\"?>\n<!DOCTYPE a>\n<a x=\"@{a + b}\" >text &amp; <!-- c --><![CDATA[<d>]]></a>\n",
		},
		{
			name:     "broken binding kept",
			input:    `<a x="@{a +}" y="@{b+c}"/>`,
			expected: `<a x="@{a +}" y="@{b + c}"/>`,
		},
		{
			name:     "no bindings",
			input:    `<a x="1"><b y="@string/x"/></a>`,
			expected: `<a x="1"><b y="@string/x"/></a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatLayout([]byte(tt.input))
			if err != nil {
				t.Fatalf("FormatLayout: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got\n%s\nwant\n%s", got, tt.expected)
			}
			again, err := FormatLayout(got)
			if err != nil {
				t.Fatalf("second FormatLayout: %v", err)
			}
			if !bytes.Equal(again, got) {
				t.Errorf("not idempotent:\n%s", again)
			}
		})
	}
}

func TestFormatLayoutRejectsBrokenXML(t *testing.T) {
	src := []byte(`<a x="@{a+b}">`)
	got, err := FormatLayout(src)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !bytes.Equal(got, src) {
		t.Errorf("input changed to %q", got)
	}
}

func TestXMLPrinterWithoutSource(t *testing.T) {
	doc := xmlparser.ParseDocument(strings.NewReader("<a  x=\"1\"\n y='2'><b/>t&amp;<!--c--><?pi data?></a >")).Finish()
	var buf bytes.Buffer
	if err := NewXMLPrinter(&buf).Print(doc); err != nil {
		t.Fatal(err)
	}
	want := `<a x="1" y='2'><b/>t&amp;<!--c--><?pi data?></a>`
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	broken := xmlparser.ParseDocument(strings.NewReader("<a>")).Finish()
	if _, err := NewXMLPrinter(nil).Format(broken); !errors.Is(err, ErrSyntax) {
		t.Errorf("err = %v, want ErrSyntax", err)
	}
}
