package parser

import "strings"

type declContext int

const (
	declFile declContext = iota
	declStatement
	declMember
	declParameter
	declTypeID
)

type declaratorMode int

const (
	namedDeclarator declaratorMode = iota
	abstractDeclarator
	eitherDeclarator
)

var specifierKeywords = map[TokenKind]SpecifierFlags{
	TokenTypedef:  SpecTypedef,
	TokenExtern:   SpecExtern,
	TokenStatic:   SpecStatic,
	TokenAuto:     SpecAuto,
	TokenRegister: SpecRegister,
	TokenInline:   SpecInline,
	TokenConst:    SpecConst,
	TokenVolatile: SpecVolatile,
	TokenRestrict: SpecRestrict,
}

var builtinTypeKeywords = map[TokenKind]bool{
	TokenVoid:     true,
	TokenChar:     true,
	TokenShort:    true,
	TokenInt:      true,
	TokenLong:     true,
	TokenFloat:    true,
	TokenDouble:   true,
	TokenSigned:   true,
	TokenUnsigned: true,
	TokenBool:     true,
}

// startsDeclaration reports whether kind can only begin a declaration.
func startsDeclaration(kind TokenKind) bool {
	if _, ok := specifierKeywords[kind]; ok {
		return true
	}
	if builtinTypeKeywords[kind] {
		return true
	}
	return kind == TokenStruct || kind == TokenUnion || kind == TokenEnum
}

func (p *Parser) externalDeclaration() (NodeID, error) {
	return p.simpleDeclaration(declFile)
}

func (p *Parser) simpleDeclaration(ctx declContext) (NodeID, error) {
	decl := p.startNode(KindSimpleDeclaration)
	spec, err := p.declSpecifiers()
	if err != nil {
		return NoNode, err
	}
	p.b.attach(decl, PropDeclSpec, spec)

	switch p.lt(1).Kind {
	case TokenEndOfCompletion:
		return p.finishNode(decl), nil
	case TokenSemicolon:
		switch p.b.Kind(spec) {
		case KindCompositeTypeSpecifier, KindElaboratedTypeSpecifier:
		default:
			return NoNode, p.backtrack("expected declarator")
		}
		p.consume()
		return p.finishNode(decl), nil
	}

	for i := 0; ; i++ {
		d, err := p.declarator(namedDeclarator, ctx)
		if err != nil {
			return NoNode, err
		}
		if i == 0 && ctx == declFile && p.b.Kind(d) == KindFunctionDeclarator && p.lt(1).Kind == TokenLBrace {
			return p.functionDefinition(decl, d)
		}
		p.b.attach(decl, PropDeclarator, d)
		if p.lt(1).Kind != TokenComma {
			break
		}
		p.consume()
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return NoNode, err
	}
	return p.finishNode(decl), nil
}

func (p *Parser) functionDefinition(decl, declarator NodeID) (NodeID, error) {
	p.b.n(decl).kind = KindFunctionDefinition
	p.b.attach(decl, PropDeclarator, declarator)
	var body NodeID
	var err error
	if p.skipBodies {
		body, err = p.skipBody()
	} else {
		body, err = p.compoundStatement()
	}
	if err != nil {
		return NoNode, err
	}
	p.b.attach(decl, PropBody, body)
	return p.finishNode(decl), nil
}

// skipBody consumes a brace-balanced body without parsing it. Inactive
// region boundaries are observed so that excluded branches are not
// counted.
func (p *Parser) skipBody() (NodeID, error) {
	body := p.startNode(KindCompoundStatement)
	if _, err := p.expect(TokenLBrace); err != nil {
		return NoNode, err
	}
	prev := p.c.SetObserveBoundaries(true)
	defer p.c.SetObserveBoundaries(prev)

	depth, regions := 1, 0
	for depth > 0 {
		tok, err := p.consume()
		if err != nil {
			return NoNode, err
		}
		switch tok.Kind {
		case TokenLBrace:
			depth++
		case TokenRBrace:
			depth--
		case TokenInactiveStart:
			regions++
		case TokenEndOfCompletion:
			depth = 0
		}
	}
	if regions > 0 {
		log.Debugf("skipped body at %d spans %d excluded regions", p.b.Offset(body), regions)
	}
	return p.finishNode(body), nil
}

func (p *Parser) declSpecifiers() (NodeID, error) {
	start := p.lt(1)
	var flags SpecifierFlags
	var words []string
	typeNode := NoNode
	seen := false

loop:
	for {
		tok := p.lt(1)
		if f, ok := specifierKeywords[tok.Kind]; ok {
			flags |= f
			seen = true
			p.consume()
			continue
		}
		switch {
		case builtinTypeKeywords[tok.Kind]:
			if typeNode != NoNode {
				break loop
			}
			words = append(words, tok.Literal)
			p.consume()
		case tok.Kind == TokenStruct || tok.Kind == TokenUnion || tok.Kind == TokenEnum:
			if typeNode != NoNode || len(words) > 0 {
				break loop
			}
			var err error
			if typeNode, err = p.tagSpecifier(); err != nil {
				return NoNode, err
			}
		case tok.Kind == TokenIdent || tok.Kind == TokenCompletion:
			if typeNode != NoNode || len(words) > 0 {
				break loop
			}
			p.consume()
			typeNode = p.b.add(KindNamedTypeSpecifier, tok.Offset, tok.Length)
			p.b.attach(typeNode, PropName, p.name(tok))
		default:
			break loop
		}
		seen = true
	}
	if !seen {
		return NoNode, p.backtrack("expected declaration specifier")
	}
	if typeNode == NoNode {
		typeNode = p.b.add(KindDeclSpecifier, start.Offset, 0)
		p.b.n(typeNode).text = strings.Join(words, " ")
	}
	p.b.n(typeNode).flags = flags
	p.b.setRange(typeNode, start.Offset, max(start.Offset, p.c.LastEnd()))
	return typeNode, nil
}

func (p *Parser) tagSpecifier() (NodeID, error) {
	start := p.lt(1).Offset
	key, err := p.consume()
	if err != nil {
		return NoNode, err
	}
	name := NoNode
	if tok := p.lt(1); tok.Kind == TokenIdent || tok.Kind == TokenCompletion {
		p.consume()
		name = p.name(tok)
	}
	if p.lt(1).Kind != TokenLBrace {
		if name == NoNode {
			return NoNode, p.backtrack("expected tag name or '{'")
		}
		id := p.b.add(KindElaboratedTypeSpecifier, start, 0)
		p.b.n(id).text = key.Literal
		p.b.attach(id, PropName, name)
		return p.finishNode(id), nil
	}

	id := p.b.add(KindCompositeTypeSpecifier, start, 0)
	p.b.n(id).text = key.Literal
	p.b.attach(id, PropName, name)
	p.consume()
	if key.Kind == TokenEnum {
		if err := p.enumerators(id); err != nil {
			return NoNode, err
		}
	} else {
		for p.lt(1).Kind != TokenRBrace && !p.atEnd() {
			member, err := p.simpleDeclaration(declMember)
			if err != nil {
				return NoNode, err
			}
			p.b.attach(id, PropDeclaration, member)
		}
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return NoNode, err
	}
	return p.finishNode(id), nil
}

func (p *Parser) enumerators(spec NodeID) error {
	for p.lt(1).Kind != TokenRBrace && !p.atEnd() {
		e := p.startNode(KindEnumerator)
		tok, err := p.expect(TokenIdent)
		if err != nil {
			return err
		}
		p.b.attach(e, PropName, p.name(tok))
		if p.lt(1).Kind == TokenAssign {
			p.consume()
			value, err := p.constantExpression()
			if err != nil {
				return err
			}
			p.b.attach(e, PropExpression, value)
		}
		p.b.attach(spec, PropEnumerator, p.finishNode(e))
		if p.lt(1).Kind != TokenComma {
			break
		}
		p.consume()
	}
	return nil
}

func (p *Parser) declarator(mode declaratorMode, ctx declContext) (NodeID, error) {
	d := p.startNode(KindDeclarator)
	for p.lt(1).Kind == TokenStar {
		ptr := p.startNode(KindPointer)
		p.consume()
		for {
			f, ok := specifierKeywords[p.lt(1).Kind]
			if !ok || f&(SpecConst|SpecVolatile|SpecRestrict) == 0 {
				break
			}
			p.b.n(ptr).flags |= f
			p.consume()
		}
		p.b.attach(d, PropPointer, p.finishNode(ptr))
	}

	switch tok := p.lt(1); {
	case tok.Kind == TokenIdent && mode != abstractDeclarator:
		p.consume()
		p.b.attach(d, PropName, p.name(tok))
	case tok.Kind == TokenLParen && p.nestedDeclaratorAhead(mode):
		m := p.mark()
		p.consume()
		inner, err := p.declarator(mode, declTypeID)
		if err == nil {
			_, err = p.expect(TokenRParen)
		}
		if err != nil {
			if isFatal(err) || mode == namedDeclarator {
				return NoNode, err
			}
			p.backup(m)
			break
		}
		p.b.attach(d, PropNestedDeclarator, inner)
	default:
		if mode == namedDeclarator {
			return NoNode, p.backtrack("expected declarator")
		}
	}

	for {
		switch p.lt(1).Kind {
		case TokenLBracket:
			mod, err := p.arrayModifier()
			if err != nil {
				return NoNode, err
			}
			p.b.attach(d, PropArrayModifier, mod)
			continue
		case TokenLParen:
			if p.b.Kind(d) == KindFunctionDeclarator {
				break
			}
			if err := p.parameters(d); err != nil {
				return NoNode, err
			}
			continue
		}
		break
	}

	if ctx == declMember && p.lt(1).Kind == TokenColon {
		width := p.startNode(KindInitializer)
		p.consume()
		expr, err := p.constantExpression()
		if err != nil {
			return NoNode, err
		}
		p.b.attach(width, PropExpression, expr)
		p.b.attach(d, PropInitializer, p.finishNode(width))
	}
	if (ctx == declFile || ctx == declStatement) && p.lt(1).Kind == TokenAssign {
		init, err := p.initializer()
		if err != nil {
			return NoNode, err
		}
		p.b.attach(d, PropInitializer, init)
	}
	return p.finishNode(d), nil
}

// nestedDeclaratorAhead decides whether '(' opens a parenthesized
// declarator rather than a parameter list.
func (p *Parser) nestedDeclaratorAhead(mode declaratorMode) bool {
	if mode == namedDeclarator {
		return true
	}
	switch p.lt(2).Kind {
	case TokenStar, TokenLParen, TokenLBracket:
		return true
	case TokenIdent:
		return mode == eitherDeclarator && p.lt(3).Kind == TokenRParen
	}
	return false
}

func (p *Parser) arrayModifier() (NodeID, error) {
	mod := p.startNode(KindArrayModifier)
	p.consume()
	for {
		if _, ok := specifierKeywords[p.lt(1).Kind]; !ok {
			break
		}
		p.consume()
	}
	if p.lt(1).Kind != TokenRBracket {
		size, err := p.assignmentExpression()
		if err != nil {
			return NoNode, err
		}
		p.b.attach(mod, PropExpression, size)
	}
	if _, err := p.expect(TokenRBracket); err != nil {
		return NoNode, err
	}
	return p.finishNode(mod), nil
}

func (p *Parser) parameters(d NodeID) error {
	p.b.n(d).kind = KindFunctionDeclarator
	p.consume()
	for p.lt(1).Kind != TokenRParen && !p.atEnd() {
		if p.lt(1).Kind == TokenEllipsis {
			p.consume()
			p.b.n(d).varargs = true
			break
		}
		param := p.startNode(KindParameterDeclaration)
		spec, err := p.declSpecifiers()
		if err != nil {
			return err
		}
		p.b.attach(param, PropDeclSpec, spec)
		pd, err := p.declarator(eitherDeclarator, declParameter)
		if err != nil {
			return err
		}
		p.b.attach(param, PropDeclarator, pd)
		p.b.attach(d, PropParameter, p.finishNode(param))
		if p.lt(1).Kind != TokenComma {
			break
		}
		p.consume()
	}
	_, err := p.expect(TokenRParen)
	return err
}

func (p *Parser) initializer() (NodeID, error) {
	init := p.startNode(KindInitializer)
	if _, err := p.expect(TokenAssign); err != nil {
		return NoNode, err
	}
	clause, err := p.initializerClause()
	if err != nil {
		return NoNode, err
	}
	prop := PropExpression
	if p.b.Kind(clause) == KindInitializerList {
		prop = PropInitializer
	}
	p.b.attach(init, prop, clause)
	return p.finishNode(init), nil
}

func (p *Parser) initializerClause() (NodeID, error) {
	if p.lt(1).Kind != TokenLBrace {
		return p.assignmentExpression()
	}
	list := p.startNode(KindInitializerList)
	p.consume()
	for p.lt(1).Kind != TokenRBrace && !p.atEnd() {
		clause, err := p.initializerClause()
		if err != nil {
			return NoNode, err
		}
		p.b.attach(list, PropInitializer, clause)
		if p.lt(1).Kind != TokenComma {
			break
		}
		p.consume()
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return NoNode, err
	}
	return p.finishNode(list), nil
}

// typeID parses a type name: specifiers and an abstract declarator.
func (p *Parser) typeID() (NodeID, error) {
	id := p.startNode(KindTypeID)
	spec, err := p.declSpecifiers()
	if err != nil {
		return NoNode, err
	}
	p.b.attach(id, PropDeclSpec, spec)
	d, err := p.declarator(abstractDeclarator, declTypeID)
	if err != nil {
		return NoNode, err
	}
	p.b.attach(id, PropDeclarator, d)
	return p.finishNode(id), nil
}
