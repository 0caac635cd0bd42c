package parser

// Operator ranks, lowest binding first.
const (
	rankComma = iota
	rankAssignment
	rankConditional
	rankLogicalOr
	rankLogicalAnd
	rankBinaryOr
	rankBinaryXor
	rankBinaryAnd
	rankEquality
	rankRelational
	rankShift
	rankAdditive
	rankMultiplicative
	rankPointerToMember
)

var binaryTokenOperators = map[TokenKind]Operator{
	TokenComma:         OpComma,
	TokenAssign:        OpAssign,
	TokenStarAssign:    OpMultiplyAssign,
	TokenSlashAssign:   OpDivideAssign,
	TokenPercentAssign: OpModuloAssign,
	TokenPlusAssign:    OpPlusAssign,
	TokenMinusAssign:   OpMinusAssign,
	TokenShlAssign:     OpShiftLeftAssign,
	TokenShrAssign:     OpShiftRightAssign,
	TokenAndAssign:     OpBinaryAndAssign,
	TokenXorAssign:     OpBinaryXorAssign,
	TokenOrAssign:      OpBinaryOrAssign,
	TokenQuestion:      OpConditional,
	TokenOrOr:          OpLogicalOr,
	TokenAndAnd:        OpLogicalAnd,
	TokenPipe:          OpBinaryOr,
	TokenCaret:         OpBinaryXor,
	TokenAmp:           OpBinaryAnd,
	TokenEQ:            OpEquals,
	TokenNE:            OpNotEquals,
	TokenLT:            OpLessThan,
	TokenGT:            OpGreaterThan,
	TokenLE:            OpLessEqual,
	TokenGE:            OpGreaterEqual,
	TokenShl:           OpShiftLeft,
	TokenShr:           OpShiftRight,
	TokenPlus:          OpAdd,
	TokenMinus:         OpSubtract,
	TokenStar:          OpMultiply,
	TokenSlash:         OpDivide,
	TokenPercent:       OpModulo,
	TokenDotStar:       OpPointerToMemberDot,
	TokenArrowStar:     OpPointerToMemberArrow,
}

// Rank returns the binding strength of a binary operator.
func Rank(op Operator) int {
	switch op {
	case OpComma:
		return rankComma
	case OpAssign, OpMultiplyAssign, OpDivideAssign, OpModuloAssign,
		OpPlusAssign, OpMinusAssign, OpShiftLeftAssign, OpShiftRightAssign,
		OpBinaryAndAssign, OpBinaryXorAssign, OpBinaryOrAssign:
		return rankAssignment
	case OpConditional:
		return rankConditional
	case OpLogicalOr:
		return rankLogicalOr
	case OpLogicalAnd:
		return rankLogicalAnd
	case OpBinaryOr:
		return rankBinaryOr
	case OpBinaryXor:
		return rankBinaryXor
	case OpBinaryAnd:
		return rankBinaryAnd
	case OpEquals, OpNotEquals:
		return rankEquality
	case OpLessThan, OpGreaterThan, OpLessEqual, OpGreaterEqual:
		return rankRelational
	case OpShiftLeft, OpShiftRight:
		return rankShift
	case OpAdd, OpSubtract:
		return rankAdditive
	case OpMultiply, OpDivide, OpModulo:
		return rankMultiplicative
	case OpPointerToMemberDot, OpPointerToMemberArrow:
		return rankPointerToMember
	}
	return -1
}

// IsRightAssociative reports whether equal-rank chains of op group to the
// right.
func IsRightAssociative(op Operator) bool {
	r := Rank(op)
	return r == rankAssignment || r == rankConditional
}

// precedences returns the left and right binding power of op. Comparing a
// left operator's right power with a right operator's left power decides
// which of them takes the operand in between.
func precedences(op Operator) (left, right int) {
	r := Rank(op)
	if IsRightAssociative(op) {
		return 2*r + 1, 2 * r
	}
	return 2 * r, 2*r + 1
}

// castAmbiguityMarker records that the expression before a + - * & operator
// was a parenthesized name that could also be the type of a cast.
type castAmbiguityMarker struct {
	expr     NodeID
	typeID   NodeID
	opOffset int
}

// binaryOperator is a link in the pending operator chain built while
// parsing a binary expression. operand starts as the operator's left
// operand and holds its right operand once the chain has been folded past
// it.
type binaryOperator struct {
	op         Operator
	leftPrec   int
	rightPrec  int
	operand    NodeID
	middle     NodeID
	castMarker *castAmbiguityMarker
	offset     int
	next       *binaryOperator
}

func newBinaryOperator(next *binaryOperator, lhs NodeID, marker *castAmbiguityMarker, op Operator, offset int) *binaryOperator {
	left, right := precedences(op)
	return &binaryOperator{
		op:         op,
		leftPrec:   left,
		rightPrec:  right,
		operand:    lhs,
		middle:     NoNode,
		castMarker: marker,
		offset:     offset,
		next:       next,
	}
}

// buildExpression folds the operator chain leftChain (most recent
// operator first) and the trailing operand expr into a tree.
func (b *Builder) buildExpression(leftChain *binaryOperator, expr NodeID) NodeID {
	var rightChain *binaryOperator
	for {
		switch {
		case leftChain == nil:
			if rightChain == nil {
				return expr
			}
			expr = b.buildBinary(expr, rightChain)
			rightChain = rightChain.next
		case rightChain != nil && leftChain.rightPrec < rightChain.leftPrec:
			expr = b.buildBinary(expr, rightChain)
			rightChain = rightChain.next
		default:
			op := leftChain
			leftChain = leftChain.next
			expr, op.operand = op.operand, expr
			op.next = rightChain
			rightChain = op
		}
	}
}

var unaryForBinary = map[Operator]Operator{
	OpAdd:       OpPlus,
	OpSubtract:  OpMinus,
	OpMultiply:  OpStar,
	OpBinaryAnd: OpAmp,
}

func (b *Builder) buildBinary(left NodeID, op *binaryOperator) NodeID {
	right := op.operand
	start, end := b.Offset(left), b.End(right)

	if op.op == OpConditional {
		id := b.add(KindConditional, start, end-start)
		b.attach(id, PropCondition, left)
		b.attach(id, PropThen, op.middle)
		b.attach(id, PropElse, right)
		return id
	}

	id := b.add(KindBinary, start, end-start)
	b.n(id).op = op.op
	b.attach(id, PropOperand1, left)
	b.attach(id, PropOperand2, right)

	m := op.castMarker
	if m == nil {
		return id
	}
	unaryOp, ok := unaryForBinary[op.op]
	if !ok {
		return id
	}
	unary := b.add(KindUnary, m.opOffset, 1)
	b.n(unary).op = unaryOp
	castStart := b.Offset(m.expr)
	cast := b.add(KindCast, castStart, m.opOffset+1-castStart)
	b.attach(cast, PropTypeID, m.typeID)
	b.attach(cast, PropOperand, unary)
	return b.newAmbiguity(AmbiguityBinaryVsCast, id, cast)
}

// leftPrecedence and rightPrecedence give the binding power of an
// expression node acting as an operator in a chain.
func (b *Builder) leftPrecedence(id NodeID) int {
	switch b.Kind(id) {
	case KindBinary:
		l, _ := precedences(b.Operator(id))
		return l
	case KindConditional:
		l, _ := precedences(OpConditional)
		return l
	}
	return -1
}

func (b *Builder) rightPrecedence(id NodeID) int {
	switch b.Kind(id) {
	case KindBinary:
		_, r := precedences(b.Operator(id))
		return r
	case KindConditional:
		_, r := precedences(OpConditional)
		return r
	}
	return -1
}

// join regrafts p between two partial chains. lp is the node that held
// the slot p replaces on the left, walking up toward its root; rp is the
// innermost binary that starts the right chain, and moved is the operand
// that was taken out of its first slot. Unary and cast wrappers on the
// left always take p; otherwise the side that binds tighter takes it
// first. The final root is returned, or NoNode if the left chain contains
// something p cannot be grafted into.
func (b *Builder) join(lp, p, rp, moved NodeID) NodeID {
	for lp != NoNode || rp != NoNode {
		if lp != NoNode {
			switch b.Kind(lp) {
			case KindUnary, KindCast:
				b.setChild(lp, PropOperand, p)
				b.setEnd(lp, p)
				p, lp = lp, b.Parent(lp)
				continue
			case KindBinary, KindConditional:
				if rp == NoNode || b.rightPrecedence(lp) >= b.leftPrecedence(rp) {
					b.setChild(lp, lastOperandSlot(b.Kind(lp)), p)
					b.setEnd(lp, p)
					p, lp = lp, b.Parent(lp)
					continue
				}
			default:
				return NoNode
			}
		}
		b.swapChild(rp, moved, firstOperandSlot(b.Kind(rp)), p)
		b.setStart(rp, p)
		moved = rp
		p, rp = rp, b.Parent(rp)
	}
	return p
}

func firstOperandSlot(kind NodeKind) Property {
	if kind == KindConditional {
		return PropCondition
	}
	return PropOperand1
}

func lastOperandSlot(kind NodeKind) Property {
	if kind == KindConditional {
		return PropElse
	}
	return PropOperand2
}

// trailingBracketedPrimary finds the parenthesized primary that ends expr,
// looking through the right side of binaries and through prefix
// operators.
func (b *Builder) trailingBracketedPrimary(expr NodeID) NodeID {
	for expr != NoNode {
		switch b.Kind(expr) {
		case KindBinary:
			expr = b.Child(expr, PropOperand2)
		case KindConditional:
			expr = b.Child(expr, PropElse)
		case KindCast:
			expr = b.Child(expr, PropOperand)
		case KindUnary:
			op := b.Operator(expr)
			if op == OpBracketedPrimary {
				return expr
			}
			if op.IsPostfix() {
				return NoNode
			}
			expr = b.Child(expr, PropOperand)
		default:
			return NoNode
		}
	}
	return NoNode
}

// leadingCastExpression finds the operand that starts expr.
func (b *Builder) leadingCastExpression(expr NodeID) NodeID {
	for {
		switch b.Kind(expr) {
		case KindBinary:
			expr = b.Child(expr, PropOperand1)
		case KindConditional:
			expr = b.Child(expr, PropCondition)
		default:
			return expr
		}
	}
}
