package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/dhamidi/cxxparse/cxx/scanner"
	"github.com/dhamidi/cxxparse/ui"
	"github.com/spf13/cobra"
)

func newUICmd() *cobra.Command {
	var addr string
	var skipBodies bool
	var defines []string

	cmd := &cobra.Command{
		Use:   "ui [dir]",
		Short: "Start the web UI server",
		Long: `Start a web server for browsing scanned C code. When a directory is
given it is scanned right away; more directories or zip archives can be
scanned from the browser.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []parser.Option
			if len(defines) > 0 {
				opts = append(opts, parser.WithDefines(defineMap(defines)))
			}
			if skipBodies {
				opts = append(opts, parser.WithSkipFunctionBodies())
			}
			server, err := ui.NewServer(opts...)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			if len(args) == 1 {
				req := scanner.Request{Path: args[0]}
				if strings.HasSuffix(args[0], ".zip") {
					req = scanner.Request{ZipFile: args[0]}
				}
				server.Scan(req)
			}
			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Printf("Starting server at http://%s\n", displayAddr)
			return http.ListenAndServe(addr, server)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")
	cmd.Flags().BoolVar(&skipBodies, "skip-bodies", false, "skip the statements of function bodies")
	cmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "define a macro for conditional compilation (NAME or NAME=VALUE)")

	return cmd
}
