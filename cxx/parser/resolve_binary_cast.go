package parser

// resolveBinaryVsCast decides `(T) op x` for op in + - * &. The
// alternatives are [binary, cast], where the cast's operand is a unary
// wrapper without an operand. If the type-id of the cast resolves, the
// cast takes the leading operand of the binary's right side and is
// regrafted between the remains of both operands. The type-id is looked
// up while the cast is spliced in, so scoped lookups see its context.
func (b *Builder) resolveBinaryVsCast(id NodeID, r NameResolver) NodeID {
	owner := b.Parent(id)
	alts := b.n(id).amb.alternatives
	binary, cast := alts[0], alts[1]

	b.replace(owner, id, cast)
	b.resolveNested(cast, r)
	typeID := b.Child(cast, PropTypeID)
	isType := b.countProblems(Names(b.AST, typeID), r, 1) == 0

	b.replace(owner, cast, binary)
	b.resolveNested(binary, r)
	if !isType {
		log.Debugf("ambiguity %d at %d: %q is not a type, keeping the binary expression", id, b.Offset(id), b.Spelling(typeID))
		b.forget(r, typeID)
		return binary
	}

	left := b.Child(binary, PropOperand1)
	right := b.Child(binary, PropOperand2)
	primary := b.trailingBracketedPrimary(left)
	leading := b.leadingCastExpression(right)
	unary := b.Child(cast, PropOperand)
	if primary == NoNode || leading == NoNode || b.Kind(unary) != KindUnary {
		return binary
	}

	b.detach(left)
	b.detach(right)
	lp := b.Parent(primary)
	rp := b.Parent(leading)

	b.setChild(unary, PropOperand, leading)
	b.setEnd(unary, leading)
	b.setRange(cast, b.Offset(primary), b.End(leading))

	root := b.join(lp, cast, rp, leading)
	if root == NoNode {
		b.nodes[left].parent = binary
		b.nodes[right].parent = binary
		return binary
	}
	log.Debugf("ambiguity %d at %d: resolved as cast to %q", id, b.Offset(id), b.Spelling(typeID))
	b.replace(owner, binary, root)
	return root
}
