package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/dhamidi/cxxparse/format"
	"github.com/spf13/cobra"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool
	var flags parseFlags

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Pretty-print a C file",
		Long: `Pretty-print a C file to stdout, using the resolved reading of every
ambiguity.

If no file is provided, reads C source from stdin.
Use -w to overwrite the file in place (requires a file argument). Files with
syntax problems are never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fmtOverwrite && len(args) == 0 {
				return fmt.Errorf("-w requires a file argument")
			}
			file, input, err := readInput(args)
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

			tree, err := parser.ParseTranslationUnit(bytes.NewReader(input), opts...).Finish()
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			if n, _ := format.NewDiagnosticPrinter(os.Stderr).Print(tree.AST); n > 0 {
				return fmt.Errorf("%d problems", n)
			}

			var out bytes.Buffer
			if err := format.NewCPrettyPrinter(&out).Encode(tree.AST); err != nil {
				return fmt.Errorf("format: %w", err)
			}
			if fmtOverwrite {
				return os.WriteFile(file, out.Bytes(), 0644)
			}
			_, err = os.Stdout.Write(out.Bytes())
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	flags.register(cmd)

	return cmd
}
