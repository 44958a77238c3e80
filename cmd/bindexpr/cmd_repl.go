package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/dhamidi/bindexpr/binding/parser"
	"github.com/dhamidi/bindexpr/format"
)

const (
	historyFile = ".bindexpr_history"
	promptMain  = "bind> "
	promptCont  = "....> "
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse binding expressions interactively",
		Long: `Read binding expressions and print their trees.

Input that ends in the middle of an expression continues on the next line.
Commands:
  :json    toggle JSON output
  :tree    print trees (the default)
  :quit    leave the repl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl(cmd.OutOrStdout())
			return nil
		},
	}
}

func runRepl(w io.Writer) {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	r := &repl{w: w}
	for {
		src, ok := readExpression(ln)
		if !ok {
			fmt.Fprintln(w)
			return
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		if !r.eval(src) {
			return
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
}

// readExpression prompts until the collected lines no longer end in the
// middle of an expression.
func readExpression(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !needsMoreInput(src) {
			return src, true
		}
	}
}

// needsMoreInput reports whether src is a prefix of some binding: it has
// errors and all of them are at the end of the input.
func needsMoreInput(src string) bool {
	if strings.TrimSpace(src) == "" {
		return false
	}
	p := parser.ParseBinding(strings.NewReader(src))
	p.Finish()
	return len(p.Errors()) > 0 && !p.IsComplete()
}

type repl struct {
	w    io.Writer
	json bool
}

// eval handles one input and reports whether the session goes on.
func (r *repl) eval(src string) bool {
	switch cmd := strings.TrimSpace(src); {
	case cmd == ":quit":
		return false
	case cmd == ":json":
		r.json = !r.json
		fmt.Fprintf(r.w, "json output %s\n", onOff(r.json))
		return true
	case cmd == ":tree":
		r.json = false
		return true
	case strings.HasPrefix(cmd, ":"):
		fmt.Fprintf(r.w, "unknown command %s. Type :quit to exit.\n", cmd)
		return true
	}

	p := parser.ParseBinding(strings.NewReader(src))
	node := p.Finish()
	if r.json {
		enc := format.NewASTJSONEncoder(r.w)
		enc.SetPositions(false)
		if err := enc.Encode(node, p.Errors()); err != nil {
			fmt.Fprintln(r.w, err)
		}
		return true
	}
	if node != nil {
		fmt.Fprint(r.w, node.String())
		if text, err := format.NewBindingPrinter(nil).Format(node); err == nil {
			fmt.Fprintf(r.w, "=> %s\n", text)
		}
	}
	printErrors(r.w, p.Errors())
	return true
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
