package layout

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"github.com/dhamidi/bindexpr/binding/parser"
	xmlparser "github.com/dhamidi/bindexpr/xml/parser"
)

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return "unknown"
}

// Diagnostic is a problem found in a layout file, positioned in that file.
type Diagnostic struct {
	Span     parser.Span
	Severity Severity
	Message  string
	// Source names the checker that produced the diagnostic: "xml" or
	// "binding".
	Source string
}

func (d Diagnostic) String() string {
	msg := d.Span.Start.String() + ": " + d.Message
	if d.Severity == SeverityWarning {
		msg += " (warning)"
	}
	return msg
}

// Report is the result of checking one layout file.
type Report struct {
	File        string
	Document    *xmlparser.Node
	XMLErrors   []*xmlparser.Error
	Expressions []*Expression
	Warnings    []Diagnostic

	// Removed is set by Watcher for files that no longer exist.
	Removed bool
}

// HasErrors reports whether the file has XML or binding syntax errors.
// Warnings are not errors.
func (r *Report) HasErrors() bool {
	if len(r.XMLErrors) > 0 {
		return true
	}
	for _, expr := range r.Expressions {
		if len(expr.Errors) > 0 {
			return true
		}
	}
	return false
}

// Diagnostics returns every problem of the report ordered by position.
func (r *Report) Diagnostics() []Diagnostic {
	var diags []Diagnostic
	for _, err := range r.XMLErrors {
		diags = append(diags, Diagnostic{
			Span:     xmlSpan(r.File, err),
			Severity: SeverityError,
			Message:  err.Message,
			Source:   "xml",
		})
	}
	for _, expr := range r.Expressions {
		for _, err := range expr.Errors {
			span := expr.Span
			if err.Got != nil {
				span = err.Got.Span
			}
			diags = append(diags, Diagnostic{
				Span:     span,
				Severity: SeverityError,
				Message:  err.Message,
				Source:   "binding",
			})
		}
	}
	diags = append(diags, r.Warnings...)
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		return a.Span.Start.Offset - b.Span.Start.Offset
	})
	return diags
}

func xmlSpan(file string, err *xmlparser.Error) parser.Span {
	if err.Got == nil {
		return parser.Span{Start: parser.Position{File: file, Line: 1, Column: 1}}
	}
	conv := func(p xmlparser.Position) parser.Position {
		return parser.Position{File: file, Offset: p.Offset, Line: p.Line, Column: p.Column}
	}
	return parser.Span{Start: conv(err.Got.Span.Start), End: conv(err.Got.Span.End)}
}

// CheckSource parses a layout document and every binding expression in it.
func CheckSource(file string, src []byte) *Report {
	p := xmlparser.ParseDocument(bytes.NewReader(src), xmlparser.WithFile(file))
	doc := p.Finish()
	report := &Report{
		File:      file,
		Document:  doc,
		XMLErrors: p.Errors(),
	}
	if doc == nil {
		return report
	}
	report.Expressions = Extract(doc, file)
	for _, expr := range report.Expressions {
		if w, ok := checkTwoWay(expr); ok {
			report.Warnings = append(report.Warnings, w)
		}
	}
	return report
}

func CheckFile(path string) (*Report, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("check layout: %w", err)
	}
	return CheckSource(path, src), nil
}

// checkTwoWay reports two-way bindings whose expression cannot be assigned
// to.
func checkTwoWay(expr *Expression) (Diagnostic, bool) {
	if !expr.TwoWay || len(expr.Errors) > 0 || expr.Root == nil {
		return Diagnostic{}, false
	}
	target := expr.Root
	if target.Kind == parser.KindBindingSyntax {
		target = target.Expression()
	}
	for target != nil && target.Kind == parser.KindGrouping {
		target = target.Operand()
	}
	if target == nil {
		return Diagnostic{}, false
	}
	switch target.Kind {
	case parser.KindIdentifier, parser.KindDotOp, parser.KindBracketOp, parser.KindMethodInvocation:
		return Diagnostic{}, false
	}
	return Diagnostic{
		Span:     target.Span,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("two-way binding target %s is not assignable", target.Kind),
		Source:   "binding",
	}, true
}
