package main

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	bparser "github.com/dhamidi/bindexpr/binding/parser"
	"github.com/dhamidi/bindexpr/grammar"
	xmlparser "github.com/dhamidi/bindexpr/xml/parser"
)

func newEbnfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ebnf",
		Short:         "EBNF grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newEbnfCheckCmd())
	cmd.AddCommand(newEbnfShowCmd())
	cmd.AddCommand(newEbnfRecognizeCmd())

	return cmd
}

func newEbnfCheckCmd() *cobra.Command {
	var startProduction string
	var builtin bool

	cmd := &cobra.Command{
		Use:   "check <file> | --builtin",
		Short: "Parse and verify an EBNF grammar file",
		Args: func(cmd *cobra.Command, args []string) error {
			if builtin {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if builtin {
				failed := false
				for _, name := range grammar.Names() {
					if err := grammar.Verify(name); err != nil {
						fmt.Printf("%s:\n", name)
						printErrors(unwrapList(err))
						failed = true
						continue
					}
					fmt.Printf("%s: ok\n", name)
				}
				if failed {
					return fmt.Errorf("builtin grammars have errors")
				}
				return nil
			}

			filename := args[0]

			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			g, err := ebnf.Parse(filename, f)
			if err != nil {
				printErrors(err)
				return err
			}

			if err := ebnf.Verify(g, startProduction); err != nil {
				printErrors(err)
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")
	cmd.Flags().BoolVar(&builtin, "builtin", false, "verify the built-in binding and xml grammars")

	return cmd
}

func newEbnfShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "show <grammar>",
		Short:     "Print a built-in grammar",
		Args:      cobra.ExactArgs(1),
		ValidArgs: grammar.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := grammar.Source(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(src)
			return err
		},
	}
}

func newEbnfRecognizeCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "recognize <input>",
		Short: "Check input against a built-in grammar instead of the parser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var terms []grammar.Terminal
			switch name {
			case grammar.Binding:
				p := bparser.ParseBinding(strings.NewReader(args[0]))
				p.Finish()
				terms = grammar.BindingTerminals(p.Tokens())
			case grammar.XML:
				terms = grammar.XMLTerminals(xmlparser.NewLexer([]byte(args[0]), "").Tokenize())
			default:
				return fmt.Errorf("unknown grammar %q", name)
			}
			if err := grammar.Check(name, terms); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "grammar", grammar.Binding, "grammar to check against (binding or xml)")

	return cmd
}

func unwrapList(err error) error {
	for {
		next, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		inner := next.Unwrap()
		if inner == nil {
			return err
		}
		err = inner
	}
}

func printErrors(err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Println(v.Index(i).Interface())
		}
	} else {
		fmt.Println(err)
	}
}
