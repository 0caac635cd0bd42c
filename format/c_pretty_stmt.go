package format

import (
	"github.com/dhamidi/cxxparse/cxx/parser"
)

func (p *CPrettyPrinter) printStatement(id parser.NodeID) {
	a := p.ast
	id = p.choose(id)
	switch a.Kind(id) {
	case parser.KindCaseStatement, parser.KindDefaultStatement, parser.KindLabelStatement:
		p.printLabel(id)
		return
	}
	p.writeIndent()
	if !p.statement(id) {
		p.newline()
	}
}

// statement writes id after the indent and reports whether the output
// already ends with a newline.
func (p *CPrettyPrinter) statement(id parser.NodeID) bool {
	a := p.ast
	id = p.choose(id)
	switch a.Kind(id) {
	case parser.KindCompoundStatement:
		p.printBlock(id)
	case parser.KindExpressionStatement:
		p.printExpr(a.Child(id, parser.PropExpression))
		p.write(";")
	case parser.KindDeclarationStatement:
		p.printDeclaration(a.Child(id, parser.PropDeclaration))
	case parser.KindNullStatement:
		p.write(";")
	case parser.KindIfStatement:
		return p.printIf(id)
	case parser.KindWhileStatement:
		p.write("while (")
		p.printExpr(a.Child(id, parser.PropCondition))
		p.write(")")
		return p.clause(a.Child(id, parser.PropBody))
	case parser.KindDoStatement:
		p.write("do")
		if p.clause(a.Child(id, parser.PropBody)) {
			p.writeIndent()
			p.write("while (")
		} else {
			p.write(" while (")
		}
		p.printExpr(a.Child(id, parser.PropCondition))
		p.write(");")
	case parser.KindForStatement:
		return p.printFor(id)
	case parser.KindSwitchStatement:
		p.write("switch (")
		p.printExpr(a.Child(id, parser.PropCondition))
		p.write(")")
		return p.clause(a.Child(id, parser.PropBody))
	case parser.KindReturnStatement:
		p.write("return")
		if value := a.Child(id, parser.PropExpression); value != parser.NoNode {
			p.write(" ")
			p.printExpr(value)
		}
		p.write(";")
	case parser.KindBreakStatement:
		p.write("break;")
	case parser.KindContinueStatement:
		p.write("continue;")
	case parser.KindGotoStatement:
		p.write("goto " + a.Text(a.Child(id, parser.PropName)) + ";")
	case parser.KindCaseStatement, parser.KindDefaultStatement, parser.KindLabelStatement:
		p.newline()
		p.printLabel(id)
		return true
	default:
		p.write(a.Spelling(id))
	}
	return false
}

func (p *CPrettyPrinter) printIf(id parser.NodeID) bool {
	a := p.ast
	p.write("if (")
	p.printExpr(a.Child(id, parser.PropCondition))
	p.write(")")
	nl := p.clause(a.Child(id, parser.PropThen))
	els := a.Child(id, parser.PropElse)
	if els == parser.NoNode {
		return nl
	}
	if nl {
		p.writeIndent()
		p.write("else")
	} else {
		p.write(" else")
	}
	if a.Kind(els) == parser.KindIfStatement {
		p.write(" ")
		return p.printIf(els)
	}
	return p.clause(els)
}

func (p *CPrettyPrinter) printFor(id parser.NodeID) bool {
	a := p.ast
	p.write("for (")
	if init := a.Child(id, parser.PropInitStatement); init != parser.NoNode {
		p.statement(init)
	} else {
		p.write(";")
	}
	if cond := a.Child(id, parser.PropCondition); cond != parser.NoNode {
		p.write(" ")
		p.printExpr(cond)
	}
	p.write(";")
	if iter := a.Child(id, parser.PropIteration); iter != parser.NoNode {
		p.write(" ")
		p.printExpr(iter)
	}
	p.write(")")
	return p.clause(a.Child(id, parser.PropBody))
}

// clause writes the statement controlled by if, while, for or switch. A
// block stays on the same line; anything else goes on its own indented
// line.
func (p *CPrettyPrinter) clause(id parser.NodeID) bool {
	if p.ast.Kind(p.choose(id)) == parser.KindCompoundStatement {
		p.write(" ")
		p.printBlock(p.choose(id))
		return false
	}
	p.newline()
	p.indent++
	p.printStatement(id)
	p.indent--
	return true
}

func (p *CPrettyPrinter) printBlock(id parser.NodeID) {
	a := p.ast
	p.write("{")
	p.newline()
	p.indent++
	for _, stmt := range a.ChildrenWith(id, parser.PropStatement) {
		if a.IsActive(stmt) {
			p.printStatement(stmt)
		}
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

// printLabel writes case, default and goto labels one level out from the
// statements they label.
func (p *CPrettyPrinter) printLabel(id parser.NodeID) {
	a := p.ast
	if p.indent > 0 {
		p.indent--
		defer func() { p.indent++ }()
	}
	p.writeIndent()
	switch a.Kind(id) {
	case parser.KindCaseStatement:
		p.write("case ")
		p.printExprAt(a.Child(id, parser.PropExpression), levelConditional)
		p.write(":")
	case parser.KindDefaultStatement:
		p.write("default:")
	case parser.KindLabelStatement:
		p.write(a.Text(a.Child(id, parser.PropName)) + ":")
	}
	p.newline()
	if body := a.Child(id, parser.PropStatement); body != parser.NoNode {
		p.indent++
		p.printStatement(body)
		p.indent--
	}
}
