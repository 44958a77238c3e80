package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/bindexpr/binding/parser"
	"github.com/dhamidi/bindexpr/format"
	xmlparser "github.com/dhamidi/bindexpr/xml/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includePositions bool
	var asXML bool
	var expressionOnly bool
	var source string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a binding expression or layout file and dump the tree",
		Long: `Parse a binding expression or a layout XML file and dump the tree.

The input is read from the file argument, from -e, or from stdin. Files
ending in .xml are parsed as layout documents, everything else as a
binding expression. Use --xml to force XML parsing.

Syntax errors are reported in the output and make the command fail.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var filename string
			var err error

			switch {
			case source != "":
				data = []byte(source)
			case len(args) > 0:
				filename = args[0]
				data, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
				if filepath.Ext(filename) == ".xml" {
					asXML = true
				}
			default:
				data, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			if asXML {
				return parseXML(cmd.OutOrStdout(), data, filename, outputFormat, includePositions)
			}
			return parseBinding(cmd.OutOrStdout(), data, filename, outputFormat, includePositions, expressionOnly)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, tree)")
	cmd.Flags().BoolVar(&includePositions, "positions", true, "include positions in the output")
	cmd.Flags().BoolVar(&asXML, "xml", false, "parse the input as a layout XML document")
	cmd.Flags().BoolVar(&expressionOnly, "expression", false, "parse a bare expression without a default clause")
	cmd.Flags().StringVarP(&source, "expr", "e", "", "parse the given text instead of a file")

	return cmd
}

func parseBinding(w io.Writer, data []byte, filename, outputFormat string, positions, expressionOnly bool) error {
	opts := []parser.Option{parser.WithFile(filename)}
	var p *parser.Parser
	if expressionOnly {
		p = parser.ParseExpression(bytes.NewReader(data), opts...)
	} else {
		p = parser.ParseBinding(bytes.NewReader(data), opts...)
	}
	node := p.Finish()
	if node == nil && len(p.Errors()) == 0 {
		return fmt.Errorf("parse binding: %w", parser.ErrEmptyInput)
	}

	switch outputFormat {
	case "json":
		enc := format.NewASTJSONEncoder(w)
		enc.SetPositions(positions)
		if err := enc.Encode(node, p.Errors()); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case "tree":
		if node != nil && positions {
			fmt.Fprint(w, node.StringWithPositions())
		} else if node != nil {
			fmt.Fprint(w, node.String())
		}
		printErrors(w, p.Errors())
	default:
		return fmt.Errorf("unknown format: %s", outputFormat)
	}

	return p.Err()
}

func parseXML(w io.Writer, data []byte, filename, outputFormat string, positions bool) error {
	p := xmlparser.ParseDocument(bytes.NewReader(data), xmlparser.WithFile(filename))
	doc := p.Finish()

	switch outputFormat {
	case "json":
		enc := format.NewASTJSONEncoder(w)
		enc.SetPositions(positions)
		if err := enc.EncodeXML(doc, p.Errors()); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case "tree":
		if positions {
			fmt.Fprint(w, doc.StringWithPositions())
		} else {
			fmt.Fprint(w, doc.String())
		}
		printErrors(w, p.Errors())
	default:
		return fmt.Errorf("unknown format: %s", outputFormat)
	}

	return p.Err()
}

func printErrors[E error](w io.Writer, errs []E) {
	if len(errs) == 0 {
		return
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	fmt.Fprintf(w, "%d errors:\n  %s\n", len(errs), strings.Join(msgs, "\n  "))
}
