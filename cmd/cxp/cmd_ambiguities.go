package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

func newAmbiguitiesCmd() *cobra.Command {
	var flags parseFlags
	var expression bool

	cmd := &cobra.Command{
		Use:   "ambiguities [file]",
		Short: "List the ambiguous regions of a C file and how each was resolved",
		Long: `Parse a C file and list every ambiguity the parser recorded, with all of
its readings. Each reading after the first is shown as a diff against the
first; the reading the name resolver chose is marked with '*'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			entry := parser.ParseTranslationUnit
			if expression {
				entry = parser.ParseExpression
			}
			b, err := entry(bytes.NewReader(input), opts...).Parse()
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			if err := b.ResolveAll(r); err != nil {
				return fmt.Errorf("resolve: %w", err)
			}
			return printAmbiguities(os.Stdout, b.AST)
		},
	}

	cmd.Flags().BoolVarP(&expression, "expression", "e", false, "parse a single expression instead of a translation unit")
	flags.register(cmd)

	return cmd
}

func printAmbiguities(w io.Writer, a *parser.AST) error {
	dmp := diffmatchpatch.New()
	for _, id := range a.Ambiguities() {
		resolved, _ := a.Resolved(id)
		fmt.Fprintf(w, "%s: %s ambiguity\n", color.New(color.Bold).Sprint(a.Position(a.Offset(id))), a.AmbiguityKind(id))

		alts := a.Alternatives(id)
		first := a.SExpr(alts[0])
		for i, alt := range alts {
			mark := " "
			if alt == resolved {
				mark = "*"
			}
			text := first
			if i > 0 {
				text = renderDiff(dmp.DiffMain(first, a.SExpr(alt), false))
			}
			if _, err := fmt.Fprintf(w, "  %s %d %s\n", mark, i, text); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderDiff shows deletions as [-text-] and insertions as {+text+},
// colored when the terminal supports it.
func renderDiff(diffs []diffmatchpatch.Diff) string {
	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString(color.RedString("[-%s-]", d.Text))
		case diffmatchpatch.DiffInsert:
			sb.WriteString(color.GreenString("{+%s+}", d.Text))
		default:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}
