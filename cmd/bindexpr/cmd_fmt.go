package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/bindexpr/config"
	"github.com/dhamidi/bindexpr/format"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool
	var asXML bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Print a binding expression or layout file in canonical form",
		Long: `Print a .bind file or a layout .xml file in canonical form.

Binding expressions in layout attributes are reformatted; the rest of the
document is kept as written. If no file is provided, a binding expression
is read from stdin (use --xml for a layout).

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			var filename string

			if len(args) == 0 {
				if fmtOverwrite {
					return fmt.Errorf("-w requires a file argument")
				}
				source, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				switch ext := filepath.Ext(filename); ext {
				case ".xml":
					asXML = true
				case ".bind":
				default:
					return fmt.Errorf("expected .bind or .xml file, got %s", ext)
				}
				source, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			cfg, err := config.Find(".")
			if err != nil {
				return err
			}

			var output []byte
			if asXML {
				output, err = format.FormatLayout(source)
			} else {
				output, err = formatBindingFile(source, cfg.Format.MaxColumn)
			}
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}

			if fmtOverwrite {
				return os.WriteFile(filename, output, 0644)
			}
			_, err = cmd.OutOrStdout().Write(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().BoolVar(&asXML, "xml", false, "read a layout XML document from stdin")

	return cmd
}

// formatBindingFile formats a file holding one binding expression, keeping
// a single trailing newline.
func formatBindingFile(src []byte, maxColumn int) ([]byte, error) {
	out, err := format.FormatBinding(src, maxColumn)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
