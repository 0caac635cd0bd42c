package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dhamidi/cxxparse/grammar"
	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "grammar",
		Short:         "Tools for the EBNF token grammar",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarShowCmd())
	cmd.AddCommand(newGrammarTokensCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check [file]",
		Short:         "Parse and verify an EBNF grammar file (the built-in grammar by default)",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, src := "c.ebnf", grammar.Source()
			if len(args) == 1 {
				filename = args[0]
				data, err := os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("open file: %w", err)
				}
				src = data
			}

			if err := grammar.Check(filename, bytes.NewReader(src), startProduction); err != nil {
				for _, e := range grammar.Errors(err) {
					fmt.Fprintln(os.Stderr, e)
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newGrammarShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the built-in grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := os.Stdout.Write(grammar.Source())
			return err
		},
	}
}

func newGrammarTokensCmd() *cobra.Command {
	var grammarFile string
	var all bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Tokenize C source with the EBNF grammar",
		Long: `Tokenize C source with the EBNF grammar and print one lexeme per line
with the production that matched it. Whitespace and comments are only shown
with --all.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, input, err := readInput(args)
			if err != nil {
				return err
			}
			g := grammar.Default()
			if grammarFile != "" {
				if g, err = grammar.LoadFile(grammarFile); err != nil {
					return err
				}
			}
			return printLexemes(g, input, all)
		},
	}

	cmd.Flags().StringVar(&grammarFile, "grammar-file", "", "use the EBNF grammar in this file")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include whitespace, comments and directives")

	return cmd
}

func printLexemes(g ebnf.Grammar, input []byte, all bool) error {
	lexer, err := grammar.NewGrammarLexer(g, input)
	if err != nil {
		return err
	}
	line, col := 1, 1
	advance := func(text string) {
		for _, r := range text {
			if r == '\n' {
				line, col = line+1, 1
			} else {
				col++
			}
		}
	}
	for {
		lex, ok := lexer.Scan()
		if !ok {
			return nil
		}
		production := lex.Production
		if production == "" {
			production = "?"
		}
		if all || !grammar.IsLayout(production) {
			fmt.Printf("%d:%d\t%s\t%q\n", line, col, production, lex.Text)
		}
		advance(lex.Text)
	}
}
