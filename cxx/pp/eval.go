// Package pp evaluates the controlling expressions of conditional
// compilation directives (#if, #elif) against a set of macro definitions.
//
// Macros are substituted textually before evaluation: defined(NAME) becomes
// 1 or 0, an object-like macro becomes its value, and any other identifier
// becomes 0. The rewritten expression is compiled with expr-lang; logical
// operators are patched so that integer operands behave the way the C
// preprocessor treats them.
package pp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"
)

const maxExpansionDepth = 16

var ErrEmptyCondition = errors.New("empty condition")

// Evaluator caches compiled conditions; it is safe for concurrent use.
type Evaluator struct {
	mu       sync.Mutex
	programs map[string]*vm.Program
}

func NewEvaluator() *Evaluator {
	return &Evaluator{programs: make(map[string]*vm.Program)}
}

// Eval reports whether cond holds under the given definitions.
func (e *Evaluator) Eval(cond string, defines map[string]string) (bool, error) {
	src, err := rewrite(cond, defines, 0)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(src) == "" {
		return false, ErrEmptyCondition
	}
	program, err := e.compile(src)
	if err != nil {
		return false, fmt.Errorf("compile %q: %w", cond, err)
	}
	out, err := expr.Run(program, nil)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", cond, err)
	}
	return truthy(out), nil
}

func (e *Evaluator) compile(src string) (*vm.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if program, ok := e.programs[src]; ok {
		return program, nil
	}
	program, err := expr.Compile(src,
		expr.Function("truth", func(params ...any) (any, error) {
			return truthy(params[0]), nil
		}, new(func(any) bool)),
		expr.Patch(truthPatcher{}),
	)
	if err != nil {
		return nil, err
	}
	e.programs[src] = program
	return program, nil
}

// truthPatcher wraps the operands of logical operators in truth() so that
// `1 && X` works on integers.
type truthPatcher struct{}

func (truthPatcher) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.BinaryNode:
		switch n.Operator {
		case "&&", "||", "and", "or":
			n.Left = truth(n.Left)
			n.Right = truth(n.Right)
		}
	case *ast.UnaryNode:
		if n.Operator == "!" || n.Operator == "not" {
			n.Node = truth(n.Node)
		}
	case *ast.ConditionalNode:
		n.Cond = truth(n.Cond)
	}
}

func truth(n ast.Node) ast.Node {
	return &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: "truth"},
		Arguments: []ast.Node{n},
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	case nil:
		return false
	}
	return true
}

func rewrite(cond string, defines map[string]string, depth int) (string, error) {
	if depth > maxExpansionDepth {
		return "", fmt.Errorf("macro expansion too deep in %q", cond)
	}
	var out strings.Builder
	i := 0
	for i < len(cond) {
		ch := cond[i]
		switch {
		case ch == ' ' || ch == '\t':
			i++
		case isIdentStart(ch):
			start := i
			for i < len(cond) && isIdentChar(cond[i]) {
				i++
			}
			ident := cond[start:i]
			if ident == "defined" {
				name, next, err := definedOperand(cond, i)
				if err != nil {
					return "", err
				}
				i = next
				if _, ok := defines[name]; ok {
					out.WriteString(" 1 ")
				} else {
					out.WriteString(" 0 ")
				}
				continue
			}
			value, ok := defines[ident]
			if !ok {
				out.WriteString(" 0 ")
				continue
			}
			if strings.TrimSpace(value) == "" {
				value = "1"
			}
			expanded, err := rewrite(value, defines, depth+1)
			if err != nil {
				return "", err
			}
			out.WriteString(" (" + expanded + ") ")
		case isDigit(ch):
			start := i
			for i < len(cond) && (isIdentChar(cond[i])) {
				i++
			}
			lit := strings.TrimRight(cond[start:i], "uUlL")
			n, err := strconv.ParseInt(lit, 0, 64)
			if err != nil {
				return "", fmt.Errorf("invalid number %q", cond[start:i])
			}
			out.WriteString(" " + strconv.FormatInt(n, 10) + " ")
		case ch == '\'':
			end := strings.IndexByte(cond[i+1:], '\'')
			if end < 1 {
				return "", fmt.Errorf("unterminated character constant in %q", cond)
			}
			lit := cond[i+1 : i+1+end]
			code := int(lit[0])
			if lit[0] == '\\' && len(lit) > 1 {
				code = escapeCode(lit[1])
			}
			out.WriteString(" " + strconv.Itoa(code) + " ")
			i += end + 2
		default:
			if i+1 < len(cond) {
				switch cond[i : i+2] {
				case "&&", "||", "==", "!=", "<=", ">=", "<<", ">>":
					out.WriteString(" " + cond[i:i+2] + " ")
					i += 2
					continue
				}
			}
			out.WriteByte(ch)
			i++
		}
	}
	return out.String(), nil
}

func definedOperand(cond string, i int) (string, int, error) {
	for i < len(cond) && (cond[i] == ' ' || cond[i] == '\t') {
		i++
	}
	paren := i < len(cond) && cond[i] == '('
	if paren {
		i++
		for i < len(cond) && (cond[i] == ' ' || cond[i] == '\t') {
			i++
		}
	}
	start := i
	for i < len(cond) && isIdentChar(cond[i]) {
		i++
	}
	if start == i {
		return "", i, fmt.Errorf("defined without a macro name in %q", cond)
	}
	name := cond[start:i]
	if paren {
		for i < len(cond) && (cond[i] == ' ' || cond[i] == '\t') {
			i++
		}
		if i >= len(cond) || cond[i] != ')' {
			return "", i, fmt.Errorf("missing ')' after defined in %q", cond)
		}
		i++
	}
	return name, i, nil
}

func escapeCode(ch byte) int {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	}
	return int(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
