package parser

type exprKind int

const (
	exprFull exprKind = iota
	exprAssignment
	exprConstant
)

type castContext int

const (
	castOther castContext = iota
	castInBinary
)

var prefixOperators = map[TokenKind]Operator{
	TokenPlus:      OpPlus,
	TokenMinus:     OpMinus,
	TokenNot:       OpNot,
	TokenTilde:     OpTilde,
	TokenStar:      OpStar,
	TokenAmp:       OpAmp,
	TokenIncrement: OpPrefixIncr,
	TokenDecrement: OpPrefixDecr,
}

// unaryBinaryTokens are the binary operators that can also start a
// unary expression, making `(x) op y` ambiguous with a cast.
func isUnaryBinaryToken(kind TokenKind) bool {
	switch kind {
	case TokenPlus, TokenMinus, TokenStar, TokenAmp:
		return true
	}
	return false
}

func (p *Parser) expression() (NodeID, error) {
	return p.binaryExpression(exprFull)
}

func (p *Parser) assignmentExpression() (NodeID, error) {
	return p.binaryExpression(exprAssignment)
}

func (p *Parser) constantExpression() (NodeID, error) {
	return p.binaryExpression(exprConstant)
}

// binaryExpression collects operands and operators into a pending chain
// and folds it by precedence once no operator follows.
func (p *Parser) binaryExpression(kind exprKind) (NodeID, error) {
	var chain *binaryOperator
	expr, marker, err := p.castExpression(castInBinary)
	if err != nil {
		return NoNode, err
	}
	for {
		tok := p.lt(1)
		op, ok := binaryTokenOperators[tok.Kind]
		if !ok {
			break
		}
		rank := Rank(op)
		if rank == rankComma && kind != exprFull {
			break
		}
		if rank == rankAssignment && kind == exprConstant {
			break
		}
		p.consume()
		chain = newBinaryOperator(chain, expr, marker, op, tok.Offset)
		if op == OpConditional {
			middle, err := p.expression()
			if err != nil {
				return NoNode, err
			}
			chain.middle = middle
			if _, err := p.expect(TokenColon); err != nil {
				return NoNode, err
			}
		}
		expr, marker, err = p.castExpression(castInBinary)
		if err != nil {
			return NoNode, err
		}
	}
	return p.b.buildExpression(chain, expr), nil
}

// castExpression parses a cast or unary expression. In binary context a
// parenthesized name followed by + - * & is returned as a primary with a
// marker so the binary fold can offer the cast reading too. The marker of
// an operand is passed up through the casts that wrap it.
func (p *Parser) castExpression(ctx castContext) (NodeID, *castAmbiguityMarker, error) {
	if p.lt(1).Kind != TokenLParen {
		return p.unaryExpression(ctx)
	}
	m := p.mark()
	start := p.lt(1).Offset
	p.consume()
	typeID, err := p.typeID()
	if err == nil {
		_, err = p.expect(TokenRParen)
	}
	if err != nil {
		if isFatal(err) {
			return NoNode, nil, err
		}
		p.backup(m)
		return p.unaryExpression(ctx)
	}

	afterType := p.mark()
	next := p.lt(1)
	unaryFailed := false

	if ctx == castInBinary && isUnaryBinaryToken(next.Kind) {
		p.backup(m)
		primary, _, err := p.unaryExpression(castOther)
		if err == nil && p.mark() == afterType {
			return primary, &castAmbiguityMarker{expr: primary, typeID: typeID, opOffset: next.Offset}, nil
		}
		if err != nil && isFatal(err) {
			return NoNode, nil, err
		}
		p.backup(afterType)
		unaryFailed = true
	}

	operand, marker, err := p.castExpression(ctx)
	if err != nil {
		if isFatal(err) {
			return NoNode, nil, err
		}
		p.backup(m)
		return p.unaryExpression(ctx)
	}
	cast := p.b.add(KindCast, start, 0)
	p.b.attach(cast, PropTypeID, typeID)
	p.b.attach(cast, PropOperand, operand)
	p.finishNode(cast)

	result := cast
	if !unaryFailed && next.Kind == TokenLParen && p.b.Kind(operand) != KindCast {
		// (T)(x) may also be a call of T.
		end := p.mark()
		p.backup(m)
		callee, err := p.primaryExpression()
		if err != nil && isFatal(err) {
			return NoNode, nil, err
		}
		if err == nil && p.mark() == afterType {
			call := p.b.add(KindCall, start, 0)
			p.b.attach(call, PropCallee, callee)
			p.b.setRange(call, start, p.b.End(callee))
			result = p.b.newAmbiguity(AmbiguityCastVsCall, cast, call)
		}
		p.backup(end)
	}
	if marker != nil {
		marker.expr = result
	}
	return result, marker, nil
}

func (p *Parser) unaryExpression(ctx castContext) (NodeID, *castAmbiguityMarker, error) {
	tok := p.lt(1)
	if op, ok := prefixOperators[tok.Kind]; ok {
		p.consume()
		var operand NodeID
		var marker *castAmbiguityMarker
		var err error
		if op == OpPrefixIncr || op == OpPrefixDecr {
			operand, _, err = p.unaryExpression(castOther)
		} else {
			operand, marker, err = p.castExpression(ctx)
		}
		if err != nil {
			return NoNode, nil, err
		}
		id := p.b.add(KindUnary, tok.Offset, 0)
		p.b.n(id).op = op
		p.b.attach(id, PropOperand, operand)
		p.finishNode(id)
		if marker != nil {
			marker.expr = id
		}
		return id, marker, nil
	}
	if tok.Kind == TokenSizeof {
		id, err := p.sizeofExpression()
		return id, nil, err
	}
	id, err := p.postfixExpression()
	return id, nil, err
}

// sizeofExpression handles both sizeof forms. `sizeof(x)` where x could
// be a type or an expression yields an ambiguous node holding
// [type form, expression form].
func (p *Parser) sizeofExpression() (NodeID, error) {
	tok, _ := p.consume()
	if p.lt(1).Kind == TokenLParen {
		m := p.mark()
		p.consume()
		typeID, err := p.typeID()
		if err == nil {
			_, err = p.expect(TokenRParen)
		}
		if err == nil {
			typeForm := p.b.add(KindTypeIDExpression, tok.Offset, 0)
			p.b.n(typeForm).op = OpSizeof
			p.b.attach(typeForm, PropTypeID, typeID)
			p.finishNode(typeForm)
			afterType := p.mark()

			p.backup(m)
			operand, _, exprErr := p.unaryExpression(castOther)
			switch {
			case exprErr == nil && p.mark() == afterType:
				exprForm := p.sizeofOperand(tok, operand)
				return p.b.newAmbiguity(AmbiguityGeneric, typeForm, exprForm), nil
			case exprErr == nil && p.mark() > afterType:
				return p.sizeofOperand(tok, operand), nil
			case exprErr != nil && isFatal(exprErr):
				return NoNode, exprErr
			}
			p.backup(afterType)
			return typeForm, nil
		}
		if isFatal(err) {
			return NoNode, err
		}
		p.backup(m)
	}
	operand, _, err := p.unaryExpression(castOther)
	if err != nil {
		return NoNode, err
	}
	return p.sizeofOperand(tok, operand), nil
}

func (p *Parser) sizeofOperand(tok Token, operand NodeID) NodeID {
	id := p.b.add(KindUnary, tok.Offset, 0)
	p.b.n(id).op = OpSizeof
	p.b.attach(id, PropOperand, operand)
	return p.finishNode(id)
}

func (p *Parser) postfixExpression() (NodeID, error) {
	expr, err := p.primaryExpression()
	if err != nil {
		return NoNode, err
	}
	start := p.b.Offset(expr)
	for {
		tok := p.lt(1)
		switch tok.Kind {
		case TokenLBracket:
			p.consume()
			index, err := p.expression()
			if err != nil {
				return NoNode, err
			}
			if _, err := p.expect(TokenRBracket); err != nil {
				return NoNode, err
			}
			id := p.b.add(KindSubscript, start, 0)
			p.b.attach(id, PropArray, expr)
			p.b.attach(id, PropSubscript, index)
			expr = p.finishNode(id)
		case TokenLParen:
			p.consume()
			id := p.b.add(KindCall, start, 0)
			p.b.attach(id, PropCallee, expr)
			for p.lt(1).Kind != TokenRParen && !p.atEnd() {
				arg, err := p.assignmentExpression()
				if err != nil {
					return NoNode, err
				}
				p.b.attach(id, PropArgument, arg)
				if p.lt(1).Kind != TokenComma {
					break
				}
				p.consume()
			}
			if _, err := p.expect(TokenRParen); err != nil {
				return NoNode, err
			}
			expr = p.finishNode(id)
		case TokenDot, TokenArrow:
			p.consume()
			member, err := p.expectName()
			if err != nil {
				return NoNode, err
			}
			id := p.b.add(KindFieldReference, start, 0)
			p.b.n(id).op = OpDot
			if tok.Kind == TokenArrow {
				p.b.n(id).op = OpArrow
			}
			p.b.attach(id, PropOwner, expr)
			p.b.attach(id, PropMember, member)
			expr = p.finishNode(id)
		case TokenIncrement, TokenDecrement:
			p.consume()
			id := p.b.add(KindUnary, start, 0)
			p.b.n(id).op = OpPostfixIncr
			if tok.Kind == TokenDecrement {
				p.b.n(id).op = OpPostfixDecr
			}
			p.b.attach(id, PropOperand, expr)
			expr = p.finishNode(id)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) expectName() (NodeID, error) {
	tok := p.lt(1)
	if tok.Kind != TokenIdent && tok.Kind != TokenCompletion {
		return NoNode, p.backtrack("expected identifier")
	}
	p.consume()
	return p.name(tok), nil
}

func (p *Parser) primaryExpression() (NodeID, error) {
	tok := p.lt(1)
	switch tok.Kind {
	case TokenIdent, TokenCompletion:
		p.consume()
		id := p.b.add(KindIDExpression, tok.Offset, tok.Length)
		p.b.attach(id, PropName, p.name(tok))
		return id, nil
	case TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral:
		p.consume()
		id := p.b.add(KindLiteral, tok.Offset, tok.Length)
		p.b.n(id).text = tok.Literal
		return id, nil
	case TokenStringLiteral:
		id := p.startNode(KindLiteral)
		text := ""
		for p.lt(1).Kind == TokenStringLiteral {
			s, _ := p.consume()
			if text != "" {
				text += " "
			}
			text += s.Literal
		}
		p.b.n(id).text = text
		return p.finishNode(id), nil
	case TokenLParen:
		id := p.startNode(KindUnary)
		p.b.n(id).op = OpBracketedPrimary
		p.consume()
		inner, err := p.expression()
		if err != nil {
			return NoNode, err
		}
		p.b.attach(id, PropOperand, inner)
		if _, err := p.expect(TokenRParen); err != nil {
			return NoNode, err
		}
		return p.finishNode(id), nil
	}
	return NoNode, p.backtrack("expected expression")
}
