package parser

import (
	"fmt"
	"math"
)

// Binding is what a name resolves to.
type Binding interface {
	Name() string
	// IsProblem reports whether the binding stands for a failed lookup.
	IsProblem() bool
}

// NameResolver looks up the binding of a name node. It is called
// speculatively, possibly many times for the same name while alternatives
// are being compared.
type NameResolver interface {
	ResolveName(a *AST, name NodeID) (Binding, error)
}

// Forgetter is implemented by resolvers that cache bindings. Forget is
// called for every name of an alternative that lost, so that nothing
// learned from a rejected reading stays observable.
type Forgetter interface {
	Forget(name NodeID)
}

// ResolveAll resolves every ambiguity in the tree, innermost first. A nil
// resolver treats every name as resolved.
func (b *Builder) ResolveAll(r NameResolver) error {
	if b.frozen {
		return ErrFrozen
	}
	b.resolveNested(b.root, r)
	return nil
}

// ResolveAmbiguity resolves a single ambiguous node and returns the node
// that replaced it. Resolving an already resolved node returns the
// recorded outcome.
func (b *Builder) ResolveAmbiguity(id NodeID, r NameResolver) (NodeID, error) {
	if b.frozen {
		return NoNode, ErrFrozen
	}
	if b.Kind(id) != KindAmbiguous {
		return NoNode, fmt.Errorf("node %d is a %s, not an ambiguity", id, b.Kind(id))
	}
	return b.resolve(id, r), nil
}

func (b *Builder) resolveNested(id NodeID, r NameResolver) {
	for _, amb := range ambiguitiesIn(b.AST, id) {
		b.resolve(amb, r)
	}
}

func (b *Builder) resolve(id NodeID, r NameResolver) NodeID {
	amb := b.n(id).amb
	if amb.resolved != NoNode {
		return amb.resolved
	}
	if r == nil {
		r = allResolved{}
	}
	var result NodeID
	switch amb.kind {
	case AmbiguityBinaryVsCast:
		result = b.resolveBinaryVsCast(id, r)
	case AmbiguityCastVsCall:
		result = b.resolveCastVsCall(id, r)
	default:
		result = b.resolveGeneric(id, r)
	}
	amb.resolved = result
	return result
}

// resolveGeneric splices in each alternative, resolves the ambiguities
// nested in it and counts names that fail to resolve. The first
// alternative with the fewest problems wins; an alternative without
// problems ends the search.
func (b *Builder) resolveGeneric(id NodeID, r NameResolver) NodeID {
	owner := b.Parent(id)
	alternatives := b.n(id).amb.alternatives
	current := id
	best, minIssues := NoNode, math.MaxInt

	for i, alt := range alternatives {
		b.replace(owner, current, alt)
		current = alt
		b.resolveNested(alt, r)

		issues := b.countProblems(scoringNames(b.AST, alt), r, minIssues)
		log.Debugf("ambiguity %d at %d: alternative %d (%s) has %d problems", id, b.Offset(id), i, b.Kind(alt), issues)
		if issues < minIssues {
			best, minIssues = alt, issues
			if issues == 0 {
				break
			}
		}
	}

	b.replace(owner, current, best)
	for _, alt := range alternatives {
		if alt != best {
			b.forget(r, alt)
		}
	}
	return best
}

// countProblems resolves names until limit problems have been found. A
// lookup error or panic counts as a problem.
func (b *Builder) countProblems(names []NodeID, r NameResolver, limit int) int {
	issues := 0
	for _, name := range names {
		if b.isProblem(name, r) {
			issues++
			if issues >= limit {
				break
			}
		}
	}
	return issues
}

func (b *Builder) isProblem(name NodeID, r NameResolver) (problem bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Debugf("resolving %q panicked: %v", b.Text(name), rec)
			problem = true
		}
	}()
	binding, err := r.ResolveName(b.AST, name)
	if err != nil {
		log.Debugf("resolving %q: %s", b.Text(name), err)
		return true
	}
	return binding == nil || binding.IsProblem()
}

func (b *Builder) forget(r NameResolver, id NodeID) {
	f, ok := r.(Forgetter)
	if !ok {
		return
	}
	for _, name := range Names(b.AST, id) {
		f.Forget(name)
	}
}

// collapseAmbiguities replaces every remaining ambiguity with its first
// alternative without consulting name resolution.
func (b *Builder) collapseAmbiguities() {
	for {
		pending := ambiguitiesIn(b.AST, b.root)
		if len(pending) == 0 {
			return
		}
		for _, id := range pending {
			amb := b.n(id).amb
			first := amb.alternatives[0]
			b.replace(b.Parent(id), id, first)
			amb.resolved = first
		}
	}
}

type allResolved struct{}

func (allResolved) ResolveName(a *AST, name NodeID) (Binding, error) {
	return resolvedBinding(a.Text(name)), nil
}

type resolvedBinding string

func (n resolvedBinding) Name() string { return string(n) }
func (resolvedBinding) IsProblem() bool { return false }
