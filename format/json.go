package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/bindexpr/layout"
)

// JSONEncoder writes a report as one JSON object per line, so a stream of
// reports from a watcher stays line delimited.
type JSONEncoder struct {
	w      io.Writer
	report *layout.Report
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(report *layout.Report) error {
	e.report = report
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.Marshal(e.buildReportData())
}

type jsonReport struct {
	File        string           `json:"file"`
	Removed     bool             `json:"removed,omitempty"`
	Expressions []jsonExpression `json:"expressions"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
}

type jsonExpression struct {
	Element   string       `json:"element"`
	Attribute string       `json:"attribute"`
	Source    string       `json:"source"`
	TwoWay    bool         `json:"twoWay,omitempty"`
	Start     jsonPosition `json:"start"`
	End       jsonPosition `json:"end"`
}

type jsonDiagnostic struct {
	Severity string       `json:"severity"`
	Source   string       `json:"source"`
	Message  string       `json:"message"`
	Start    jsonPosition `json:"start"`
	End      jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (e *JSONEncoder) buildReportData() jsonReport {
	r := e.report
	data := jsonReport{
		File:        r.File,
		Removed:     r.Removed,
		Expressions: []jsonExpression{},
		Diagnostics: []jsonDiagnostic{},
	}
	for _, expr := range r.Expressions {
		data.Expressions = append(data.Expressions, jsonExpression{
			Element:   expr.Element,
			Attribute: expr.Attribute,
			Source:    expr.Source,
			TwoWay:    expr.TwoWay,
			Start:     jsonPosition{Line: expr.Span.Start.Line, Column: expr.Span.Start.Column},
			End:       jsonPosition{Line: expr.Span.End.Line, Column: expr.Span.End.Column},
		})
	}
	for _, d := range r.Diagnostics() {
		data.Diagnostics = append(data.Diagnostics, jsonDiagnostic{
			Severity: d.Severity.String(),
			Source:   d.Source,
			Message:  d.Message,
			Start:    jsonPosition{Line: d.Span.Start.Line, Column: d.Span.Start.Column},
			End:      jsonPosition{Line: d.Span.End.Line, Column: d.Span.End.Column},
		})
	}
	return data
}
