// Package format prints binding expressions, layout documents and check
// reports.
package format

import (
	"encoding"
	"io"

	"github.com/dhamidi/bindexpr/layout"
)

// Encoder writes check reports in one output format.
type Encoder interface {
	encoding.TextMarshaler
	Encode(report *layout.Report) error
}

// NewEncoder returns the report encoder for name: "lines" or "json".
func NewEncoder(name string, w io.Writer) (Encoder, bool) {
	switch name {
	case "lines", "":
		return NewLineEncoder(w), true
	case "json":
		return NewJSONEncoder(w), true
	}
	return nil, false
}
