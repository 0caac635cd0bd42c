package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/dhamidi/cxxparse/format"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var expression bool
	var flags parseFlags

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a C file and dump the resolved tree",
		Long: `Parse a C translation unit, resolve every ambiguity and print the tree.

Reads from stdin when no file is given. Problems are reported on stderr and
make the command fail after the tree has been printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, input, err := readInput(args)
			if err != nil {
				return err
			}
			enc, err := format.NewEncoder(outputFormat, os.Stdout)
			if err != nil {
				return err
			}
			r, err := flags.resolver(file)
			if err != nil {
				return err
			}
			opts, cancel, err := flags.options(cmd.Context(), file, input, r)
			if err != nil {
				return err
			}
			defer cancel()

			entry := parser.ParseTranslationUnit
			if expression {
				entry = parser.ParseExpression
			}
			p := entry(bytes.NewReader(input), opts...)
			tree, err := p.Finish()
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			if p.Aborted() {
				return fmt.Errorf("parse: abandoned after %s", flags.timeout)
			}

			if err := enc.Encode(tree.AST); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			n, err := format.NewDiagnosticPrinter(os.Stderr).Print(tree.AST)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%d problems", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format ("+strings.Join(format.Formats, ", ")+")")
	cmd.Flags().BoolVarP(&expression, "expression", "e", false, "parse a single expression instead of a translation unit")
	flags.register(cmd)

	return cmd
}
