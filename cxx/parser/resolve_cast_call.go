package parser

// resolveCastVsCall decides `(T)(x)`. The alternatives are [cast, call],
// where the call has only its callee. The cast stands unless its type-id
// fails to resolve and its operand reduces to a parenthesized primary; in
// that case the primary's contents become the call's arguments and the
// call takes the primary's place.
func (b *Builder) resolveCastVsCall(id NodeID, r NameResolver) NodeID {
	owner := b.Parent(id)
	alts := b.n(id).amb.alternatives
	cast, call := alts[0], alts[1]

	b.replace(owner, id, cast)
	b.resolveNested(cast, r)

	operand := b.Child(cast, PropOperand)
	primary := b.primaryInParenthesis(operand)
	if primary == NoNode {
		return cast
	}

	typeID := b.Child(cast, PropTypeID)
	if b.countProblems(Names(b.AST, typeID), r, 1) == 0 {
		return cast
	}
	log.Debugf("ambiguity %d at %d: %q is not a type, resolving as a call", id, b.Offset(id), b.Spelling(typeID))
	b.forget(r, typeID)

	b.clearChildren(call, PropArgument)
	for _, arg := range b.flattenComma(b.Child(primary, PropOperand)) {
		b.attach(call, PropArgument, arg)
	}
	b.setRange(call, b.Offset(cast), b.End(primary))

	result := call
	if operand != primary {
		result = operand
		for wrapper := operand; ; {
			b.setStart(wrapper, call)
			slot := wrappedSlot(b.Kind(wrapper))
			inner := b.Child(wrapper, slot)
			if inner == primary {
				b.setChild(wrapper, slot, call)
				break
			}
			wrapper = inner
		}
	}
	b.replace(owner, cast, result)
	b.resolveNested(b.Child(call, PropCallee), r)
	return result
}

// primaryInParenthesis looks through postfix wrappers (subscript, call,
// field reference, postfix increment and decrement) for the parenthesized
// primary they apply to.
func (b *Builder) primaryInParenthesis(expr NodeID) NodeID {
	for expr != NoNode {
		switch b.Kind(expr) {
		case KindUnary:
			switch b.Operator(expr) {
			case OpBracketedPrimary:
				return expr
			case OpPostfixIncr, OpPostfixDecr:
				expr = b.Child(expr, PropOperand)
			default:
				return NoNode
			}
		case KindSubscript, KindCall, KindFieldReference:
			expr = b.Child(expr, wrappedSlot(b.Kind(expr)))
		default:
			return NoNode
		}
	}
	return NoNode
}

func wrappedSlot(kind NodeKind) Property {
	switch kind {
	case KindSubscript:
		return PropArray
	case KindCall:
		return PropCallee
	case KindFieldReference:
		return PropOwner
	}
	return PropOperand
}

// flattenComma expands a comma expression into its operands.
func (b *Builder) flattenComma(expr NodeID) []NodeID {
	if expr == NoNode {
		return nil
	}
	if b.Kind(expr) == KindBinary && b.Operator(expr) == OpComma {
		return append(b.flattenComma(b.Child(expr, PropOperand1)), b.flattenComma(b.Child(expr, PropOperand2))...)
	}
	return []NodeID{expr}
}
