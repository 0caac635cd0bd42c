package format

import (
	"strings"

	"github.com/dhamidi/cxxparse/cxx/parser"
)

func (p *CPrettyPrinter) printDeclarationLine(id parser.NodeID) {
	p.writeIndent()
	p.printDeclaration(id)
	p.newline()
}

// printDeclaration writes a declaration without indent or trailing newline.
func (p *CPrettyPrinter) printDeclaration(id parser.NodeID) {
	a := p.ast
	p.printSpecifier(a.Child(id, parser.PropDeclSpec))
	for i, d := range a.ChildrenWith(id, parser.PropDeclarator) {
		if i > 0 {
			p.write(",")
		}
		if text := p.render(func(mp *CPrettyPrinter) { mp.printDeclarator(d) }); text != "" {
			p.write(" " + text)
		}
	}
	if a.Kind(id) == parser.KindFunctionDefinition {
		p.write(" ")
		p.printBlock(a.Child(id, parser.PropBody))
		return
	}
	p.write(";")
}

func (p *CPrettyPrinter) printSpecifier(spec parser.NodeID) {
	a := p.ast
	if spec == parser.NoNode {
		return
	}
	words := a.Specifiers(spec).Words()
	switch a.Kind(spec) {
	case parser.KindDeclSpecifier:
		if text := a.Text(spec); text != "" {
			words = append(words, text)
		}
	case parser.KindNamedTypeSpecifier:
		words = append(words, a.Text(a.Child(spec, parser.PropName)))
	case parser.KindElaboratedTypeSpecifier, parser.KindCompositeTypeSpecifier:
		words = append(words, a.Text(spec))
		if name := a.Child(spec, parser.PropName); name != parser.NoNode {
			words = append(words, a.Text(name))
		}
	}
	p.write(strings.Join(words, " "))
	if a.Kind(spec) == parser.KindCompositeTypeSpecifier {
		p.printCompositeBody(spec)
	}
}

func (p *CPrettyPrinter) printCompositeBody(spec parser.NodeID) {
	a := p.ast
	if a.Text(spec) == "enum" {
		p.write(" {")
		for i, e := range a.ChildrenWith(spec, parser.PropEnumerator) {
			if i > 0 {
				p.write(",")
			}
			p.write(" " + a.Text(a.Child(e, parser.PropName)))
			if value := a.Child(e, parser.PropExpression); value != parser.NoNode {
				p.write(" = ")
				p.printExprAt(value, levelConditional)
			}
		}
		p.write(" }")
		return
	}

	p.write(" {")
	p.newline()
	p.indent++
	for _, member := range a.ChildrenWith(spec, parser.PropDeclaration) {
		if a.IsActive(member) {
			p.printDeclarationLine(member)
		}
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

// printDeclarator writes pointers, the name or nested declarator, and the
// suffixes, in source order.
func (p *CPrettyPrinter) printDeclarator(d parser.NodeID) {
	a := p.ast
	if d == parser.NoNode {
		return
	}
	for _, ptr := range a.ChildrenWith(d, parser.PropPointer) {
		p.write("*")
		if words := a.Specifiers(ptr).Words(); len(words) > 0 {
			p.write(strings.Join(words, " ") + " ")
		}
	}
	if nested := a.Child(d, parser.PropNestedDeclarator); nested != parser.NoNode {
		p.write("(")
		p.printDeclarator(nested)
		p.write(")")
	} else if name := a.Child(d, parser.PropName); name != parser.NoNode {
		p.write(a.Text(name))
	}
	for _, mod := range a.ChildrenWith(d, parser.PropArrayModifier) {
		p.write("[")
		if size := a.Child(mod, parser.PropExpression); size != parser.NoNode {
			p.printExprAt(size, levelAssignment)
		}
		p.write("]")
	}
	if a.Kind(d) == parser.KindFunctionDeclarator {
		p.printParameters(d)
	}
	if init := a.Child(d, parser.PropInitializer); init != parser.NoNode {
		if p.isMember(d) {
			p.write(" : ")
			p.printExprAt(a.Child(init, parser.PropExpression), levelConditional)
		} else {
			p.write(" = ")
			p.printInitializer(init)
		}
	}
}

func (p *CPrettyPrinter) isMember(d parser.NodeID) bool {
	a := p.ast
	decl := a.Parent(d)
	return a.Kind(decl) == parser.KindSimpleDeclaration && a.Kind(a.Parent(decl)) == parser.KindCompositeTypeSpecifier
}

func (p *CPrettyPrinter) printParameters(d parser.NodeID) {
	a := p.ast
	p.write("(")
	params := a.ChildrenWith(d, parser.PropParameter)
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		p.printSpecifier(a.Child(param, parser.PropDeclSpec))
		pd := a.Child(param, parser.PropDeclarator)
		if text := p.render(func(mp *CPrettyPrinter) { mp.printDeclarator(pd) }); text != "" {
			p.write(" " + text)
		}
	}
	if a.IsVarargs(d) {
		if len(params) > 0 {
			p.write(", ")
		}
		p.write("...")
	}
	p.write(")")
}

func (p *CPrettyPrinter) printInitializer(init parser.NodeID) {
	a := p.ast
	if list := a.Child(init, parser.PropInitializer); list != parser.NoNode {
		p.printInitializerList(list)
		return
	}
	p.printExprAt(a.Child(init, parser.PropExpression), levelAssignment)
}

func (p *CPrettyPrinter) printInitializerList(list parser.NodeID) {
	a := p.ast
	p.write("{")
	for i, item := range a.ChildrenWith(list, parser.PropInitializer) {
		if i > 0 {
			p.write(", ")
		}
		if a.Kind(item) == parser.KindInitializerList {
			p.printInitializerList(item)
		} else {
			p.printExprAt(item, levelAssignment)
		}
	}
	p.write("}")
}

func (p *CPrettyPrinter) printTypeID(id parser.NodeID) {
	a := p.ast
	p.printSpecifier(a.Child(id, parser.PropDeclSpec))
	d := a.Child(id, parser.PropDeclarator)
	if text := strings.TrimSpace(p.render(func(mp *CPrettyPrinter) { mp.printDeclarator(d) })); text != "" {
		p.write(" " + text)
	}
}
