package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	historyFile = ".cxp_history"
	promptMain  = "cxp> "
	promptCont  = "...  "
)

func newReplCmd() *cobra.Command {
	var flags parseFlags

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Parse C interactively",
		Long: `Start an interactive session. Declarations entered in the session decide
how later expressions are read, so that after 'typedef int T;' the input
'(T)-x' parses as a cast. Type :help for the available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			predeclared, err := flags.predeclared("")
			if err != nil {
				return err
			}
			return runRepl(newSession(predeclared))
		},
	}

	cmd.Flags().StringArrayVar(&flags.predeclare, "predeclare", nil, "declare a name before the session (NAME or NAME:KIND, KIND defaults to typedef)")

	return cmd
}

func runRepl(s *session) error {
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

	for {
		input, ok := readInputLines(ln, s)
		if !ok {
			fmt.Println()
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == ":quit" || input == ":q" {
			return nil
		}
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))

		out, err := s.eval(input)
		if err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("%s", err))
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}

// readInputLines reads lines until they form complete input. It returns
// false at end of input.
func readInputLines(ln *liner.State, s *session) (string, bool) {
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
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !s.incomplete(src) {
			return src, true
		}
	}
}
