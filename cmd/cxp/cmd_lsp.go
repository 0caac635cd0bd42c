package main

import (
	"time"

	"github.com/dhamidi/cxxparse/cxx/codebase"
	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	var poll time.Duration
	var skipBodies bool
	var defines []string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start a language server on stdin/stdout. It reports problems as
diagnostics and answers hover, definition, completion and document symbol
requests for the C files of the workspace.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []parser.Option
			if len(defines) > 0 {
				opts = append(opts, parser.WithDefines(defineMap(defines)))
			}
			if skipBodies {
				opts = append(opts, parser.WithSkipFunctionBodies())
			}
			server := codebase.NewLSPServer(version, poll, opts...)
			return server.RunStdio()
		},
	}

	cmd.Flags().DurationVar(&poll, "poll", 2*time.Second, "how often to check the workspace for changed files (0 disables)")
	cmd.Flags().BoolVar(&skipBodies, "skip-bodies", false, "skip the statements of function bodies")
	cmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "define a macro for conditional compilation (NAME or NAME=VALUE)")

	return cmd
}
