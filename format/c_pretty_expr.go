package format

import (
	"strings"

	"github.com/dhamidi/cxxparse/cxx/parser"
)

// Binding levels for deciding parentheses. Binary operators use their
// parser rank; unary, postfix and primary expressions bind tighter than
// any of them.
var (
	levelComma       = parser.Rank(parser.OpComma)
	levelAssignment  = parser.Rank(parser.OpAssign)
	levelConditional = parser.Rank(parser.OpConditional)
)

const (
	levelUnary = 100 + iota
	levelPostfix
	levelPrimary
)

func (p *CPrettyPrinter) level(id parser.NodeID) int {
	a := p.ast
	id = p.choose(id)
	switch a.Kind(id) {
	case parser.KindBinary:
		return parser.Rank(a.Operator(id))
	case parser.KindConditional:
		return levelConditional
	case parser.KindCast, parser.KindTypeIDExpression:
		return levelUnary
	case parser.KindUnary:
		switch op := a.Operator(id); {
		case op == parser.OpBracketedPrimary:
			return levelPrimary
		case op.IsPostfix():
			return levelPostfix
		}
		return levelUnary
	case parser.KindCall, parser.KindSubscript, parser.KindFieldReference:
		return levelPostfix
	}
	return levelPrimary
}

// printExprAt prints id, parenthesized if it binds looser than want.
func (p *CPrettyPrinter) printExprAt(id parser.NodeID, want int) {
	if p.level(id) < want {
		p.write("(")
		p.printExpr(id)
		p.write(")")
		return
	}
	p.printExpr(id)
}

func (p *CPrettyPrinter) printExpr(id parser.NodeID) {
	a := p.ast
	id = p.choose(id)
	switch a.Kind(id) {
	case parser.KindIDExpression:
		p.write(a.Text(a.Child(id, parser.PropName)))
	case parser.KindLiteral:
		p.write(a.Text(id))
	case parser.KindUnary:
		p.printUnary(id)
	case parser.KindBinary:
		p.printBinary(id)
	case parser.KindConditional:
		p.printExprAt(a.Child(id, parser.PropCondition), levelConditional+1)
		p.write(" ? ")
		p.printExprAt(a.Child(id, parser.PropThen), levelComma)
		p.write(" : ")
		p.printExprAt(a.Child(id, parser.PropElse), levelConditional)
	case parser.KindCast:
		p.write("(")
		p.printTypeID(a.Child(id, parser.PropTypeID))
		p.write(")")
		p.printExprAt(a.Child(id, parser.PropOperand), levelUnary)
	case parser.KindCall:
		p.printExprAt(a.Child(id, parser.PropCallee), levelPostfix)
		p.write("(")
		for i, arg := range a.ChildrenWith(id, parser.PropArgument) {
			if i > 0 {
				p.write(", ")
			}
			p.printExprAt(arg, levelAssignment)
		}
		p.write(")")
	case parser.KindSubscript:
		p.printExprAt(a.Child(id, parser.PropArray), levelPostfix)
		p.write("[")
		p.printExpr(a.Child(id, parser.PropSubscript))
		p.write("]")
	case parser.KindFieldReference:
		p.printExprAt(a.Child(id, parser.PropOwner), levelPostfix)
		p.write(a.Operator(id).String())
		p.write(a.Text(a.Child(id, parser.PropMember)))
	case parser.KindTypeIDExpression:
		p.write("sizeof(")
		p.printTypeID(a.Child(id, parser.PropTypeID))
		p.write(")")
	default:
		p.write(a.Spelling(id))
	}
}

func (p *CPrettyPrinter) printBinary(id parser.NodeID) {
	a := p.ast
	op := a.Operator(id)
	rank := parser.Rank(op)
	left, right := rank, rank+1
	if parser.IsRightAssociative(op) {
		left, right = rank+1, rank
	}
	p.printExprAt(a.Child(id, parser.PropOperand1), left)
	if op == parser.OpComma {
		p.write(", ")
	} else {
		p.write(" " + op.String() + " ")
	}
	p.printExprAt(a.Child(id, parser.PropOperand2), right)
}

func (p *CPrettyPrinter) printUnary(id parser.NodeID) {
	a := p.ast
	op := a.Operator(id)
	operand := a.Child(id, parser.PropOperand)
	switch {
	case op == parser.OpBracketedPrimary:
		p.write("(")
		p.printExpr(operand)
		p.write(")")
	case op.IsPostfix():
		p.printExprAt(operand, levelPostfix)
		p.write(op.String())
	case op == parser.OpSizeof:
		p.write("sizeof")
		if p.level(operand) != levelPrimary || a.Kind(p.choose(operand)) != parser.KindUnary {
			p.write(" ")
		}
		p.printExprAt(operand, levelUnary)
	default:
		text := p.render(func(mp *CPrettyPrinter) { mp.printExprAt(operand, levelUnary) })
		p.write(op.String())
		// Keep "- -x" and "& &x" from fusing into other tokens.
		if strings.ContainsAny(op.String(), "+-&") && strings.HasPrefix(text, op.String()[len(op.String())-1:]) {
			p.write(" ")
		}
		p.write(text)
	}
}
