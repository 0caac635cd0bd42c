package names

import (
	"strings"

	"github.com/dhamidi/cxxparse/cxx/parser"
)

// Type is a C type spelled the way a declaration writes it.
type Type string

// Unknown is the type of expressions whose type cannot be worked out
// without a full semantic model.
const Unknown Type = "?"

// TypeOf spells the type of an expression. Only the rules needed for hover
// text are modeled: declared names, literals, casts, pointer arithmetic on
// the declared spelling and the usual result types of comparisons.
func (r *Resolver) TypeOf(a *parser.AST, expr parser.NodeID) Type {
	switch a.Kind(expr) {
	case parser.KindAmbiguous:
		if resolved, ok := a.Resolved(expr); ok {
			return r.TypeOf(a, resolved)
		}
		log.Warningf("type of unresolved ambiguity requested at %s", a.Position(a.Offset(expr)))
		return Unknown
	case parser.KindIDExpression:
		b, err := r.Resolve(a, a.Child(expr, parser.PropName))
		if err != nil || b.IsProblem() || b.Type == "" {
			return Unknown
		}
		return Type(b.Type)
	case parser.KindLiteral:
		return literalType(a.Text(expr))
	case parser.KindCast:
		return Type(a.Spelling(a.Child(expr, parser.PropTypeID)))
	case parser.KindTypeIDExpression:
		return "size_t"
	case parser.KindConditional:
		return r.TypeOf(a, a.Child(expr, parser.PropThen))
	case parser.KindSubscript:
		return deref(r.TypeOf(a, a.Child(expr, parser.PropArray)))
	case parser.KindCall:
		t := r.TypeOf(a, a.Child(expr, parser.PropCallee))
		if s, ok := strings.CutSuffix(string(t), "(*)()"); ok {
			return Type(strings.TrimSpace(s))
		}
		if s, ok := strings.CutSuffix(string(t), "()"); ok {
			return Type(strings.TrimSpace(s))
		}
		return deref(t)
	case parser.KindUnary:
		return r.unaryType(a, expr)
	case parser.KindBinary:
		return r.binaryType(a, expr)
	}
	return Unknown
}

func (r *Resolver) unaryType(a *parser.AST, expr parser.NodeID) Type {
	operand := r.TypeOf(a, a.Child(expr, parser.PropOperand))
	switch a.Operator(expr) {
	case parser.OpSizeof:
		return "size_t"
	case parser.OpNot:
		return "int"
	case parser.OpStar:
		return deref(operand)
	case parser.OpAmp:
		if operand == Unknown {
			return Unknown
		}
		if strings.HasSuffix(string(operand), "*") {
			return operand + "*"
		}
		return operand + " *"
	}
	return operand
}

func (r *Resolver) binaryType(a *parser.AST, expr parser.NodeID) Type {
	left := r.TypeOf(a, a.Child(expr, parser.PropOperand1))
	right := r.TypeOf(a, a.Child(expr, parser.PropOperand2))
	switch op := a.Operator(expr); {
	case op == parser.OpComma:
		return right
	case op >= parser.OpAssign && op <= parser.OpBinaryOrAssign:
		return left
	case op >= parser.OpLogicalOr && op <= parser.OpLogicalAnd,
		op >= parser.OpEquals && op <= parser.OpGreaterEqual:
		return "int"
	case op == parser.OpAdd || op == parser.OpSubtract:
		if isPointer(left) {
			if op == parser.OpSubtract && isPointer(right) {
				return "ptrdiff_t"
			}
			return left
		}
		if isPointer(right) {
			return right
		}
	}
	if left == Unknown {
		return right
	}
	return left
}

func isPointer(t Type) bool {
	return strings.HasSuffix(string(t), "*") || strings.HasSuffix(string(t), "[]")
}

func deref(t Type) Type {
	s := string(t)
	if rest, ok := strings.CutSuffix(s, "[]"); ok {
		return Type(rest)
	}
	if rest, ok := strings.CutSuffix(s, "*"); ok {
		return Type(strings.TrimSpace(rest))
	}
	return Unknown
}

func literalType(text string) Type {
	switch {
	case strings.HasPrefix(text, `"`):
		return "char *"
	case strings.HasPrefix(text, "'"):
		return "int"
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		return integerType(text[2:])
	case strings.ContainsAny(text, ".eE"):
		if strings.HasSuffix(text, "f") || strings.HasSuffix(text, "F") {
			return "float"
		}
		return "double"
	}
	return integerType(text)
}

func integerType(digits string) Type {
	suffix := strings.ToLower(strings.TrimLeft(digits, "0123456789abcdefABCDEF"))
	unsigned := strings.Contains(suffix, "u")
	var t Type = "int"
	if strings.Contains(suffix, "l") {
		t = "long"
	}
	if unsigned {
		return "unsigned " + t
	}
	return t
}
