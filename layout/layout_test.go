package layout

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dhamidi/bindexpr/binding/parser"
	"github.com/dhamidi/bindexpr/config"
)

func TestSplitBinding(t *testing.T) {
	tests := []struct {
		value  string
		expr   string
		offset int
		twoWay bool
		ok     bool
	}{
		{"@{a.b}", "a.b", 2, false, true},
		{"@={a.b}", "a.b", 3, true, true},
		{"@{}", "", 2, false, true},
		{"@string/name", "", 0, false, false},
		{"{a}", "", 0, false, false},
		{"@{a", "", 0, false, false},
		{"", "", 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			expr, offset, twoWay, ok := SplitBinding(tt.value)
			if expr != tt.expr || offset != tt.offset || twoWay != tt.twoWay || ok != tt.ok {
				t.Errorf("SplitBinding(%q) = %q, %d, %v, %v", tt.value, expr, offset, twoWay, ok)
			}
		})
	}
}

func TestCheckSourceExtractsExpressions(t *testing.T) {
	src := `<layout>
  <TextView android:text="@{user.name}" app:x="plain" android:checked="@={vm.on}"/>
</layout>
`
	report := CheckSource("main.xml", []byte(src))
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Diagnostics())
	}
	if len(report.Expressions) != 2 {
		t.Fatalf("got %d expressions, want 2", len(report.Expressions))
	}

	first := report.Expressions[0]
	if first.Element != "TextView" || first.Attribute != "android:text" || first.Source != "user.name" || first.TwoWay {
		t.Errorf("first = %+v", first)
	}
	start := first.Span.Start
	if want := strings.Index(src, "user.name"); start.Offset != want || start.Line != 2 || start.File != "main.xml" {
		t.Errorf("span start = %+v, want offset %d on line 2", start, want)
	}
	if got := first.Root.Expression().Kind; got != parser.KindDotOp {
		t.Errorf("root expression = %v", got)
	}
	name := first.Root.Expression().Children[1]
	if want := strings.Index(src, "name}"); name.Span.Start.Offset != want {
		t.Errorf("member name offset = %d, want %d", name.Span.Start.Offset, want)
	}

	second := report.Expressions[1]
	if !second.TwoWay || second.Source != "vm.on" {
		t.Errorf("second = %+v", second)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", report.Warnings)
	}
}

func TestEscapedExpressionPositions(t *testing.T) {
	src := `<a b="@{x &amp;&amp; y}"/>`
	report := CheckSource("a.xml", []byte(src))
	if len(report.Expressions) != 1 {
		t.Fatalf("got %d expressions", len(report.Expressions))
	}
	expr := report.Expressions[0]
	if expr.Source != "x && y" {
		t.Errorf("source = %q", expr.Source)
	}
	y := expr.Root.Expression().Right()
	if y == nil || y.TokenLiteral() != "y" {
		t.Fatalf("right operand = %v", y)
	}
	want := strings.Index(src, "y}")
	if y.Span.Start.Offset != want || y.Span.Start.Column != want+1 {
		t.Errorf("y at %+v, want offset %d", y.Span.Start, want)
	}
	if end := expr.Span.End.Offset; end != strings.Index(src, "}") {
		t.Errorf("expression end = %d", end)
	}
}

func TestBindingErrors(t *testing.T) {
	src := "<a\n  b=\"@{x +}\"\n  c=\"@{}\"/>"
	report := CheckSource("a.xml", []byte(src))
	if !report.HasErrors() {
		t.Fatal("expected errors")
	}
	if len(report.XMLErrors) != 0 {
		t.Errorf("unexpected XML errors: %v", report.XMLErrors)
	}

	diags := report.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics %v, want 2", len(diags), diags)
	}
	first := diags[0]
	if want := strings.Index(src, "}"); first.Span.Start.Offset != want || first.Span.Start.Line != 2 {
		t.Errorf("first diagnostic at %+v, want offset %d", first.Span.Start, want)
	}
	if !strings.Contains(first.Message, "no viable alternative") || first.Source != "binding" {
		t.Errorf("first = %+v", first)
	}
	if want := "a.xml:2:"; !strings.HasPrefix(first.String(), want) {
		t.Errorf("String() = %q, want prefix %q", first.String(), want)
	}

	second := report.Expressions[1]
	if len(second.Errors) != 1 || second.Errors[0].Code != parser.FailedPrecondition {
		t.Errorf("empty binding errors = %v", second.Errors)
	}
	if diags[1].Span.Start.Line != 3 {
		t.Errorf("second diagnostic line = %d, want 3", diags[1].Span.Start.Line)
	}
}

func TestTwoWayTargets(t *testing.T) {
	tests := []struct {
		expr    string
		warning bool
	}{
		{"vm.name", false},
		{"name", false},
		{"list[0]", false},
		{"vm.field()", false},
		{"(vm.name)", false},
		{"a + b", true},
		{"!vm.on", true},
		{"vm.on ? a : b", true},
		{"1", true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			src := `<a b="@={` + tt.expr + `}"/>`
			report := CheckSource("a.xml", []byte(src))
			if report.HasErrors() {
				t.Fatalf("unexpected errors: %v", report.Diagnostics())
			}
			if got := len(report.Warnings) > 0; got != tt.warning {
				t.Errorf("warning = %v, want %v (%v)", got, tt.warning, report.Warnings)
			}
			for _, w := range report.Warnings {
				if w.Severity != SeverityWarning || !strings.HasSuffix(w.String(), "(warning)") {
					t.Errorf("warning = %+v", w)
				}
			}
		})
	}
}

func TestXMLErrorsKeepExpressions(t *testing.T) {
	report := CheckSource("a.xml", []byte(`<a b="@{x}">`))
	if len(report.XMLErrors) == 0 {
		t.Fatal("expected XML errors")
	}
	if len(report.Expressions) != 1 {
		t.Errorf("got %d expressions, want 1", len(report.Expressions))
	}
	for _, d := range report.Diagnostics() {
		if d.Source != "xml" || d.Span.Start.File != "a.xml" {
			t.Errorf("diagnostic = %+v", d)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app/src/main/res/layout/main.xml"), `<a b="@{x}"/>`)
	writeFile(t, filepath.Join(root, "app/src/main/res/layout-land/main.xml"), `<a b="@{x +}"/>`)
	writeFile(t, filepath.Join(root, "app/build/res/layout/gen.xml"), `<a/>`)
	writeFile(t, filepath.Join(root, ".git/layout/x.xml"), `<a/>`)
	writeFile(t, filepath.Join(root, "app/src/main/res/values/strings.xml"), `<resources/>`)

	reports, err := Scan(context.Background(), root, config.Default().Check)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	var files []string
	for _, r := range reports {
		rel, _ := filepath.Rel(root, r.File)
		files = append(files, filepath.ToSlash(rel))
	}
	want := "app/src/main/res/layout/main.xml app/src/main/res/layout-land/main.xml"
	if got := strings.Join(files, " "); got != want {
		t.Errorf("scanned %q, want %q", got, want)
	}
	if reports[0].HasErrors() || !reports[1].HasErrors() {
		t.Errorf("unexpected error state: %v %v", reports[0].Diagnostics(), reports[1].Diagnostics())
	}

	if _, err := Scan(context.Background(), root, config.Check{Include: []string{"a/[b"}}); err == nil {
		t.Error("expected invalid pattern error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Scan(ctx, root, config.Default().Check); err == nil {
		t.Error("expected context error")
	}
}

func receive(t *testing.T, ch <-chan *Report) *Report {
	t.Helper()
	select {
	case r, ok := <-ch:
		if !ok {
			t.Fatal("reports channel closed")
		}
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for report")
	}
	return nil
}

func TestWatcher(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "res/layout/first.xml")
	writeFile(t, first, `<a b="@{x}"/>`)

	w, err := NewWatcher(root, config.Default().Check)
	if err != nil {
		t.Fatal(err)
	}
	w.SetInterval(10 * time.Millisecond)
	w.Start(context.Background())
	defer w.Stop()

	if r := receive(t, w.Reports()); r.File != first || r.HasErrors() {
		t.Fatalf("first report = %+v", r)
	}

	// Written outside the watched patterns and moved in, so the watcher
	// never sees a partial file.
	staged := filepath.Join(root, "staging/second.xml")
	writeFile(t, staged, `<a b="@{x +}"/>`)
	second := filepath.Join(root, "res/layout/second.xml")
	if err := os.Rename(staged, second); err != nil {
		t.Fatal(err)
	}
	if r := receive(t, w.Reports()); r.File != second || !r.HasErrors() {
		t.Fatalf("second report = %+v", r)
	}

	if err := os.Remove(first); err != nil {
		t.Fatal(err)
	}
	if r := receive(t, w.Reports()); r.File != first || !r.Removed {
		t.Fatalf("removal report = %+v", r)
	}

	w.Stop()
	select {
	case _, ok := <-w.Reports():
		if ok {
			t.Error("report delivered after Stop")
		}
	case <-time.After(5 * time.Second):
		t.Error("reports channel not closed after Stop")
	}
}

func TestWatcherContextCancel(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "layout/a.xml"), `<a/>`)
	w, err := NewWatcher(root, config.Default().Check)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()
	for range w.Reports() {
	}
}
