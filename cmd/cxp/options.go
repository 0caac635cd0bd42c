package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhamidi/cxxparse/cxx/names"
	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/dhamidi/cxxparse/grammar"
	"github.com/dhamidi/cxxparse/project"
	"github.com/spf13/cobra"
)

// parseFlags are the parser settings shared by the commands that parse C.
type parseFlags struct {
	defines     []string
	predeclare  []string
	skipBodies  bool
	inactive    bool
	grammar     bool
	grammarFile string
	timeout     time.Duration
	noProject   bool
}

func (f *parseFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringArrayVarP(&f.defines, "define", "D", nil, "define a macro for conditional compilation (NAME or NAME=VALUE)")
	flags.StringArrayVar(&f.predeclare, "predeclare", nil, "declare a name before the input (NAME or NAME:KIND, KIND defaults to typedef)")
	flags.BoolVar(&f.skipBodies, "skip-bodies", false, "skip the statements of function bodies")
	flags.BoolVar(&f.inactive, "inactive", false, "keep code excluded by conditional compilation")
	flags.BoolVar(&f.grammar, "grammar", false, "tokenize with the built-in EBNF grammar instead of the lexer")
	flags.StringVar(&f.grammarFile, "grammar-file", "", "tokenize with the EBNF grammar in this file")
	flags.DurationVar(&f.timeout, "timeout", 0, "abandon the parse after this long")
	flags.BoolVar(&f.noProject, "no-project", false, "ignore "+project.FileName+" files")
}

// loadProject finds the project file that governs file, if any.
func (f *parseFlags) loadProject(file string) (*project.Project, error) {
	if f.noProject {
		return nil, nil
	}
	dir := "."
	if file != "" && file != "<stdin>" {
		dir = filepath.Dir(file)
	}
	p, err := project.LoadFrom(dir)
	if errors.Is(err, project.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

func (f *parseFlags) resolver(file string) (*names.Resolver, error) {
	predeclared, err := f.predeclared(file)
	if err != nil {
		return nil, err
	}
	return names.NewResolver(names.WithPredeclared(predeclared)), nil
}

// predeclared merges the names of the project file with those given on
// the command line.
func (f *parseFlags) predeclared(file string) (map[string]names.Kind, error) {
	p, err := f.loadProject(file)
	if err != nil {
		return nil, err
	}
	predeclared := map[string]names.Kind{}
	if p != nil {
		predeclared = p.Predeclared()
	}
	for _, spec := range f.predeclare {
		name, kindName, ok := strings.Cut(spec, ":")
		kind := names.KindTypedef
		if ok {
			k, known := names.ParseKind(kindName)
			if !known || k == names.KindProblem {
				return nil, fmt.Errorf("predeclare %s: unknown kind %q", name, kindName)
			}
			kind = k
		}
		predeclared[name] = kind
	}
	return predeclared, nil
}

// options builds the parser options for input read from file. The returned
// cancel func releases the timeout, if any.
func (f *parseFlags) options(ctx context.Context, file string, input []byte, r parser.NameResolver) ([]parser.Option, context.CancelFunc, error) {
	p, err := f.loadProject(file)
	if err != nil {
		return nil, nil, err
	}
	var opts []parser.Option
	if p != nil {
		opts = p.Options()
	}
	opts = append(opts, parser.WithFile(file), parser.WithNameResolver(r))

	cancel := context.CancelFunc(func() {})
	if f.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
	}
	opts = append(opts, parser.WithContext(ctx))

	if len(f.defines) > 0 {
		opts = append(opts, parser.WithDefines(defineMap(f.defines)))
	}
	if f.skipBodies {
		opts = append(opts, parser.WithSkipFunctionBodies())
	}
	if f.inactive {
		opts = append(opts, parser.WithInactiveCode())
	}

	switch {
	case f.grammarFile != "":
		g, err := grammar.LoadFile(f.grammarFile)
		if err != nil {
			cancel()
			return nil, nil, err
		}
		lexer, err := grammar.NewGrammarLexer(g, input)
		if err != nil {
			cancel()
			return nil, nil, err
		}
		opts = append(opts, parser.WithTokenSource(lexer))
	case f.grammar:
		opts = append(opts, parser.WithTokenSource(grammar.NewLexer(input)))
	}
	return opts, cancel, nil
}

// defineMap turns NAME=VALUE pairs into a macro table. A bare NAME is
// defined as 1.
func defineMap(defines []string) map[string]string {
	m := map[string]string{}
	for _, d := range defines {
		name, value, ok := strings.Cut(d, "=")
		if !ok {
			value = "1"
		}
		m[name] = value
	}
	return m
}

// readInput reads the named file, or stdin when args is empty.
func readInput(args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return "<stdin>", data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", nil, fmt.Errorf("read file: %w", err)
	}
	return args[0], data, nil
}
