package parser

import "errors"

func (p *Parser) compoundStatement() (NodeID, error) {
	block := p.startNode(KindCompoundStatement)
	if _, err := p.expect(TokenLBrace); err != nil {
		return NoNode, err
	}
	for p.lt(1).Kind != TokenRBrace && !p.atEnd() {
		start := p.lt(1).Offset
		stmt, err := p.statement()
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return NoNode, err
			}
			p.b.attach(block, PropStatement, p.problemNode(err, start))
			if errors.Is(err, ErrEndOfInput) {
				return p.finishNode(block), nil
			}
			p.recover(true)
			continue
		}
		p.b.attach(block, PropStatement, stmt)
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		if errors.Is(err, ErrEndOfInput) {
			p.b.attach(block, PropStatement, p.problemNode(err, p.c.LastEnd()))
			return p.finishNode(block), nil
		}
		return NoNode, err
	}
	return p.finishNode(block), nil
}

func (p *Parser) statement() (NodeID, error) {
	switch p.lt(1).Kind {
	case TokenLBrace:
		return p.compoundStatement()
	case TokenSemicolon:
		id := p.startNode(KindNullStatement)
		p.consume()
		return p.finishNode(id), nil
	case TokenIf:
		return p.ifStatement()
	case TokenWhile:
		return p.whileStatement()
	case TokenDo:
		return p.doStatement()
	case TokenFor:
		return p.forStatement()
	case TokenSwitch:
		return p.switchStatement()
	case TokenCase:
		return p.caseStatement()
	case TokenDefault:
		id := p.startNode(KindDefaultStatement)
		p.consume()
		if _, err := p.expect(TokenColon); err != nil {
			return NoNode, err
		}
		return p.finishNode(id), nil
	case TokenReturn:
		return p.returnStatement()
	case TokenBreak:
		return p.jumpStatement(KindBreakStatement)
	case TokenContinue:
		return p.jumpStatement(KindContinueStatement)
	case TokenGoto:
		return p.gotoStatement()
	case TokenIdent:
		if p.lt(2).Kind == TokenColon {
			return p.labelStatement()
		}
	}
	return p.declarationOrExpressionStatement()
}

// declarationOrExpressionStatement parses a statement that may be either a
// declaration or an expression. When both readings consume the same
// tokens, an ambiguous node holding [declaration, expression] is returned.
func (p *Parser) declarationOrExpressionStatement() (NodeID, error) {
	tok := p.lt(1)
	if startsDeclaration(tok.Kind) {
		return p.declarationStatement()
	}
	if tok.Kind != TokenIdent && tok.Kind != TokenCompletion {
		return p.expressionStatement()
	}

	m := p.mark()
	decl, declErr := p.declarationStatement()
	if declErr != nil && errors.Is(declErr, ErrAborted) {
		return NoNode, declErr
	}
	declEnd := p.mark()

	p.backup(m)
	expr, exprErr := p.expressionStatement()
	if exprErr != nil && errors.Is(exprErr, ErrAborted) {
		return NoNode, exprErr
	}
	exprEnd := p.mark()

	switch {
	case declErr != nil && exprErr != nil:
		return NoNode, exprErr
	case declErr != nil:
		return expr, nil
	case exprErr != nil:
		p.backup(declEnd)
		return decl, nil
	case declEnd == exprEnd:
		return p.b.newAmbiguity(AmbiguityGeneric, decl, expr), nil
	case declEnd > exprEnd:
		p.backup(declEnd)
		return decl, nil
	}
	return expr, nil
}

func (p *Parser) declarationStatement() (NodeID, error) {
	stmt := p.startNode(KindDeclarationStatement)
	decl, err := p.simpleDeclaration(declStatement)
	if err != nil {
		return NoNode, err
	}
	p.b.attach(stmt, PropDeclaration, decl)
	return p.finishNode(stmt), nil
}

func (p *Parser) expressionStatement() (NodeID, error) {
	stmt := p.startNode(KindExpressionStatement)
	expr, err := p.expression()
	if err != nil {
		return NoNode, err
	}
	p.b.attach(stmt, PropExpression, expr)
	if _, err := p.expect(TokenSemicolon); err != nil {
		return NoNode, err
	}
	return p.finishNode(stmt), nil
}

func (p *Parser) parenCondition(stmt NodeID) error {
	if _, err := p.expect(TokenLParen); err != nil {
		return err
	}
	cond, err := p.expression()
	if err != nil {
		return err
	}
	p.b.attach(stmt, PropCondition, cond)
	_, err = p.expect(TokenRParen)
	return err
}

func (p *Parser) ifStatement() (NodeID, error) {
	stmt := p.startNode(KindIfStatement)
	p.consume()
	if err := p.parenCondition(stmt); err != nil {
		return NoNode, err
	}
	then, err := p.statement()
	if err != nil {
		return NoNode, err
	}
	p.b.attach(stmt, PropThen, then)
	if p.lt(1).Kind == TokenElse {
		p.consume()
		els, err := p.statement()
		if err != nil {
			return NoNode, err
		}
		p.b.attach(stmt, PropElse, els)
	}
	return p.finishNode(stmt), nil
}

func (p *Parser) whileStatement() (NodeID, error) {
	stmt := p.startNode(KindWhileStatement)
	p.consume()
	if err := p.parenCondition(stmt); err != nil {
		return NoNode, err
	}
	body, err := p.statement()
	if err != nil {
		return NoNode, err
	}
	p.b.attach(stmt, PropBody, body)
	return p.finishNode(stmt), nil
}

func (p *Parser) doStatement() (NodeID, error) {
	stmt := p.startNode(KindDoStatement)
	p.consume()
	body, err := p.statement()
	if err != nil {
		return NoNode, err
	}
	p.b.attach(stmt, PropBody, body)
	if _, err := p.expect(TokenWhile); err != nil {
		return NoNode, err
	}
	if err := p.parenCondition(stmt); err != nil {
		return NoNode, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return NoNode, err
	}
	return p.finishNode(stmt), nil
}

func (p *Parser) forStatement() (NodeID, error) {
	stmt := p.startNode(KindForStatement)
	p.consume()
	if _, err := p.expect(TokenLParen); err != nil {
		return NoNode, err
	}
	if p.lt(1).Kind == TokenSemicolon {
		p.consume()
	} else {
		init, err := p.declarationOrExpressionStatement()
		if err != nil {
			return NoNode, err
		}
		p.b.attach(stmt, PropInitStatement, init)
	}
	if p.lt(1).Kind != TokenSemicolon {
		cond, err := p.expression()
		if err != nil {
			return NoNode, err
		}
		p.b.attach(stmt, PropCondition, cond)
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return NoNode, err
	}
	if p.lt(1).Kind != TokenRParen {
		iter, err := p.expression()
		if err != nil {
			return NoNode, err
		}
		p.b.attach(stmt, PropIteration, iter)
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return NoNode, err
	}
	body, err := p.statement()
	if err != nil {
		return NoNode, err
	}
	p.b.attach(stmt, PropBody, body)
	return p.finishNode(stmt), nil
}

func (p *Parser) switchStatement() (NodeID, error) {
	stmt := p.startNode(KindSwitchStatement)
	p.consume()
	if err := p.parenCondition(stmt); err != nil {
		return NoNode, err
	}
	body, err := p.statement()
	if err != nil {
		return NoNode, err
	}
	p.b.attach(stmt, PropBody, body)
	return p.finishNode(stmt), nil
}

func (p *Parser) caseStatement() (NodeID, error) {
	stmt := p.startNode(KindCaseStatement)
	p.consume()
	value, err := p.constantExpression()
	if err != nil {
		return NoNode, err
	}
	p.b.attach(stmt, PropExpression, value)
	if _, err := p.expect(TokenColon); err != nil {
		return NoNode, err
	}
	return p.finishNode(stmt), nil
}

func (p *Parser) returnStatement() (NodeID, error) {
	stmt := p.startNode(KindReturnStatement)
	p.consume()
	if p.lt(1).Kind != TokenSemicolon {
		value, err := p.expression()
		if err != nil {
			return NoNode, err
		}
		p.b.attach(stmt, PropExpression, value)
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return NoNode, err
	}
	return p.finishNode(stmt), nil
}

func (p *Parser) jumpStatement(kind NodeKind) (NodeID, error) {
	stmt := p.startNode(kind)
	p.consume()
	if _, err := p.expect(TokenSemicolon); err != nil {
		return NoNode, err
	}
	return p.finishNode(stmt), nil
}

func (p *Parser) gotoStatement() (NodeID, error) {
	stmt := p.startNode(KindGotoStatement)
	p.consume()
	tok, err := p.expect(TokenIdent)
	if err != nil {
		return NoNode, err
	}
	p.b.attach(stmt, PropName, p.name(tok))
	if _, err := p.expect(TokenSemicolon); err != nil {
		return NoNode, err
	}
	return p.finishNode(stmt), nil
}

func (p *Parser) labelStatement() (NodeID, error) {
	stmt := p.startNode(KindLabelStatement)
	tok, _ := p.consume()
	p.b.attach(stmt, PropName, p.name(tok))
	p.consume()
	if p.lt(1).Kind == TokenRBrace {
		return p.finishNode(stmt), nil
	}
	body, err := p.statement()
	if err != nil {
		return NoNode, err
	}
	p.b.attach(stmt, PropStatement, body)
	return p.finishNode(stmt), nil
}
