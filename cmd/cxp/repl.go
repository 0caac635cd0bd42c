package main

import (
	"bytes"
	"fmt"
	"maps"
	"strings"

	"github.com/dhamidi/cxxparse/cxx/names"
	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/dhamidi/cxxparse/format"
)

// session is the state of an interactive parse: the declarations entered
// so far, which decide how later input is read.
type session struct {
	decls       []string
	initial     map[string]names.Kind
	predeclared map[string]names.Kind
}

func newSession(predeclared map[string]names.Kind) *session {
	s := &session{initial: predeclared}
	s.reset()
	return s
}

func (s *session) reset() {
	s.decls = nil
	s.predeclared = maps.Clone(s.initial)
	if s.predeclared == nil {
		s.predeclared = map[string]names.Kind{}
	}
}

// isDeclaration guesses whether input is meant as declarations rather than
// an expression.
func isDeclaration(input string) bool {
	input = strings.TrimSpace(input)
	return strings.HasSuffix(input, ";") || strings.HasSuffix(input, "}")
}

// incomplete reports whether the parse of input ran out of tokens, so
// that more lines should be read before evaluating it.
func (s *session) incomplete(input string) bool {
	entry := parser.ParseExpression
	if isDeclaration(input) || strings.HasSuffix(strings.TrimSpace(input), "{") {
		entry = parser.ParseTranslationUnit
	}
	tree, err := entry(strings.NewReader(input), parser.WithNameResolver(s.resolver())).Finish()
	if err != nil {
		return false
	}
	for _, id := range tree.Problems() {
		if tree.Problem(id).Code == parser.ProblemUnexpectedEOF {
			return true
		}
	}
	return false
}

func (s *session) resolver() *names.Resolver {
	return names.NewResolver(names.WithPredeclared(s.predeclared))
}

func (s *session) parse(input string, expression bool) (*parser.Tree, *names.Resolver, error) {
	r := s.resolver()
	entry := parser.ParseTranslationUnit
	if expression {
		entry = parser.ParseExpression
	}
	tree, err := entry(strings.NewReader(input), parser.WithFile("<repl>"), parser.WithNameResolver(r)).Finish()
	if err != nil {
		return nil, nil, err
	}
	var diag bytes.Buffer
	if n, _ := format.NewDiagnosticPrinter(&diag).Print(tree.AST); n > 0 {
		return nil, nil, fmt.Errorf("%s", strings.TrimSuffix(diag.String(), "\n"))
	}
	return tree, r, nil
}

// eval reads one input and returns what to print.
func (s *session) eval(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	if strings.HasPrefix(input, ":") {
		cmd, arg, _ := strings.Cut(input, " ")
		return s.command(cmd, strings.TrimSpace(arg))
	}
	if isDeclaration(input) {
		return s.declare(input)
	}
	tree, _, err := s.parse(input, true)
	if err != nil {
		return "", err
	}
	return tree.SExpr(tree.Root()), nil
}

func (s *session) declare(input string) (string, error) {
	tree, r, err := s.parse(input, false)
	if err != nil {
		return "", err
	}
	var out []string
	for _, decl := range tree.ChildrenWith(tree.Root(), parser.PropDeclaration) {
		out = append(out, tree.SExpr(decl))
	}
	for _, name := range parser.Names(tree.AST, tree.Root()) {
		if tree.NameRole(name) != parser.RoleDeclaration {
			continue
		}
		b, err := r.Resolve(tree.AST, name)
		if err != nil || b.IsProblem() {
			continue
		}
		switch b.Kind {
		case names.KindParameter, names.KindMember:
			continue
		}
		s.predeclared[b.Name()] = b.Kind
	}
	s.decls = append(s.decls, input)
	return strings.Join(out, "\n"), nil
}

func (s *session) command(cmd, arg string) (string, error) {
	switch cmd {
	case ":type", ":t":
		tree, r, err := s.parse(arg, true)
		if err != nil {
			return "", err
		}
		return string(r.TypeOf(tree.AST, tree.Root())), nil
	case ":ambiguities", ":a":
		expression := !isDeclaration(arg)
		entry := parser.ParseTranslationUnit
		if expression {
			entry = parser.ParseExpression
		}
		r := s.resolver()
		b, err := entry(strings.NewReader(arg), parser.WithFile("<repl>"), parser.WithNameResolver(r)).Parse()
		if err != nil {
			return "", err
		}
		if err := b.ResolveAll(r); err != nil {
			return "", err
		}
		var out bytes.Buffer
		if err := printAmbiguities(&out, b.AST); err != nil {
			return "", err
		}
		return strings.TrimSuffix(out.String(), "\n"), nil
	case ":decls", ":d":
		return strings.Join(s.decls, "\n"), nil
	case ":reset":
		s.reset()
		return "", nil
	case ":help", ":h":
		return replHelp, nil
	}
	return "", fmt.Errorf("unknown command %s; type :help", cmd)
}

const replHelp = `Enter declarations (ending in ';' or '}') to add them to the session, or
an expression to see how it parses given the declarations so far.

  :type EXPR          print the type of EXPR
  :ambiguities INPUT  list the ambiguities in INPUT and how they resolve
  :decls              list the declarations entered so far
  :reset              forget all declarations
  :quit               leave`
