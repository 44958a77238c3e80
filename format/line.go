package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/bindexpr/layout"
)

// LineEncoder writes one line per diagnostic in the form
// "file:line:col: message", the way compilers report errors.
type LineEncoder struct {
	w      io.Writer
	report *layout.Report
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(report *layout.Report) error {
	e.report = report
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	r := e.report
	if r.Removed {
		return nil, nil
	}
	for _, d := range r.Diagnostics() {
		fmt.Fprintf(&sb, "%s:%d:%d: %s%s\n",
			r.File,
			d.Span.Start.Line,
			d.Span.Start.Column,
			e.severityPrefix(d),
			d.Message,
		)
	}
	return []byte(sb.String()), nil
}

func (e *LineEncoder) severityPrefix(d layout.Diagnostic) string {
	if d.Severity == layout.SeverityWarning {
		return "warning: "
	}
	return ""
}
