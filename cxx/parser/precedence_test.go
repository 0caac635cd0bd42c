package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpressionShape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a", "a"},
		{"a + b * c", "(+ a (* b c))"},
		{"a * b + c", "(+ (* a b) c)"},
		{"a + b * c - d", "(- (+ a (* b c)) d)"},
		{"a - b - c", "(- (- a b) c)"},
		{"a = b = c", "(= a (= b c))"},
		{"a += b * 2", "(+= a (* b 2))"},
		{"a ? b : c ? d : e", "(?: a b (?: c d e))"},
		{"x = a ? b : c", "(= x (?: a b c))"},
		{"a ? b , c : d", "(?: a (, b c) d)"},
		{"a || b && c | d", "(|| a (&& b (| c d)))"},
		{"a << 1 < b == c", "(== (< (<< a 1) b) c)"},
		{"a & b ^ c | d", "(| (^ (& a b) c) d)"},
		{"a, b = c", "(, a (= b c))"},
		{"a .* b * c", "(* (.* a b) c)"},
		{"-a * b", "(* (- a) b)"},
		{"!a && ~b", "(&& (! a) (~ b))"},
		{"++a + b--", "(+ (++ a) (b--))"},
		{"*p++", "(* (p++))"},
		{"a[i].f->g(x, y)++", "((call (-> (. ([] a i) f) g) x y)++)"},
		{"f()", "(call f)"},
		{"(a + b) * c", "(* ((+ a b)) c)"},
		{"1 + 2.5", "(+ 1 2.5)"},
		{"sizeof x + 1", "(+ (sizeof x) 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree := parseExpression(t, tt.input, nil)
			if tree.Failed() {
				t.Fatalf("unexpected problems: %v", tree.Problems())
			}
			if diff := cmp.Diff(tt.want, tree.SExpr(tree.Root())); diff != "" {
				t.Errorf("shape mismatch (-want +got):\n%s", diff)
			}
			checkLinks(t, tree.AST, tree.Root())
			if got := tree.Spelling(tree.Root()); got != tt.input {
				t.Errorf("root spells %q, want the whole input", got)
			}
		})
	}
}

func TestRankAndAssociativity(t *testing.T) {
	ordered := []Operator{
		OpComma, OpAssign, OpConditional, OpLogicalOr, OpLogicalAnd,
		OpBinaryOr, OpBinaryXor, OpBinaryAnd, OpEquals, OpLessThan,
		OpShiftLeft, OpAdd, OpMultiply, OpPointerToMemberDot,
	}
	for i := 1; i < len(ordered); i++ {
		if Rank(ordered[i-1]) >= Rank(ordered[i]) {
			t.Errorf("%s should bind looser than %s", ordered[i-1], ordered[i])
		}
	}
	for _, op := range []Operator{OpAssign, OpShiftLeftAssign, OpConditional} {
		if !IsRightAssociative(op) {
			t.Errorf("%s should be right-associative", op)
		}
	}
	for _, op := range []Operator{OpComma, OpAdd, OpLogicalOr} {
		if IsRightAssociative(op) {
			t.Errorf("%s should be left-associative", op)
		}
	}
	if Rank(OpPlus) != -1 {
		t.Errorf("unary operators have no rank")
	}
}
