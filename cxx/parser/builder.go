package parser

import (
	"fmt"
	"slices"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("cxxparse.parser")

// Builder is the mutable phase of an AST. The parser and the ambiguity
// resolvers rearrange nodes through it; Freeze consumes it into an
// immutable Tree, after which every mutation fails with ErrFrozen.
type Builder struct {
	*AST
	frozen bool
	failed bool
}

func NewBuilder(file string, source []byte) *Builder {
	return &Builder{AST: newAST(file, source)}
}

// Failed reports whether a problem node was produced or the parse was
// aborted.
func (b *Builder) Failed() bool {
	return b.failed
}

func (b *Builder) add(kind NodeKind, offset, length int) NodeID {
	id := NodeID(len(b.nodes))
	b.nodes = append(b.nodes, node{
		kind:   kind,
		offset: offset,
		length: length,
		parent: NoNode,
	})
	return id
}

// attach appends child to parent in role prop.
func (b *Builder) attach(parent NodeID, prop Property, child NodeID) {
	if child == NoNode {
		return
	}
	b.nodes[parent].children = append(b.nodes[parent].children, child)
	c := b.n(child)
	c.parent = parent
	c.prop = prop
}

// setChild puts child into the first slot of parent that plays role
// prop, appending a new slot if there is none. The previous occupant is
// orphaned if it still points at parent.
func (b *Builder) setChild(parent NodeID, prop Property, child NodeID) {
	p := b.n(parent)
	for i, c := range p.children {
		if b.nodes[c].prop != prop {
			continue
		}
		if child == NoNode {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
		} else {
			p.children[i] = child
		}
		if c != child && b.nodes[c].parent == parent {
			b.nodes[c].parent = NoNode
		}
		if child != NoNode {
			b.nodes[child].parent = parent
			b.nodes[child].prop = prop
		}
		return
	}
	b.attach(parent, prop, child)
}

// swapChild puts child into the place old holds among parent's children,
// playing role prop. old keeps its parent link if it was moved elsewhere.
func (b *Builder) swapChild(parent, old NodeID, prop Property, child NodeID) {
	p := b.n(parent)
	i := slices.Index(p.children, old)
	if i < 0 {
		b.setChild(parent, prop, child)
		return
	}
	p.children[i] = child
	if old != child && b.nodes[old].parent == parent {
		b.nodes[old].parent = NoNode
	}
	b.nodes[child].parent = parent
	b.nodes[child].prop = prop
}

// clearChildren drops every child of parent playing role prop.
func (b *Builder) clearChildren(parent NodeID, prop Property) {
	p := b.n(parent)
	kept := p.children[:0]
	for _, c := range p.children {
		if b.nodes[c].prop == prop {
			if b.nodes[c].parent == parent {
				b.nodes[c].parent = NoNode
			}
			continue
		}
		kept = append(kept, c)
	}
	p.children = kept
}

// replace swaps old for repl in the slot old occupies in owner. An owner of
// NoNode stands for the root.
func (b *Builder) replace(owner, old, repl NodeID) bool {
	if old == repl {
		return true
	}
	prop := b.nodes[old].prop
	if owner == NoNode {
		if b.root != old {
			return false
		}
		b.root = repl
	} else {
		p := b.n(owner)
		found := false
		for i, c := range p.children {
			if c == old {
				p.children[i] = repl
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if b.nodes[old].parent == owner {
		b.nodes[old].parent = NoNode
	}
	n := b.n(repl)
	n.parent = owner
	n.prop = prop
	return true
}

// detach orphans id without removing it from its parent's slot list.
func (b *Builder) detach(id NodeID) {
	if id != NoNode {
		b.nodes[id].parent = NoNode
	}
}

func (b *Builder) setRange(id NodeID, start, end int) {
	n := b.n(id)
	n.offset = start
	n.length = end - start
}

// setStart moves the start of id to the start of from, keeping its end.
func (b *Builder) setStart(id, from NodeID) {
	b.setRange(id, b.Offset(from), b.End(id))
}

// setEnd moves the end of id to the end of to, keeping its start.
func (b *Builder) setEnd(id, to NodeID) {
	b.setRange(id, b.Offset(id), b.End(to))
}

func (b *Builder) newAmbiguity(kind AmbiguityKind, alternatives ...NodeID) NodeID {
	start, end := b.Offset(alternatives[0]), b.End(alternatives[0])
	for _, alt := range alternatives[1:] {
		start = min(start, b.Offset(alt))
		end = max(end, b.End(alt))
	}
	id := b.add(KindAmbiguous, start, end-start)
	b.n(id).amb = &ambiguity{
		kind:         kind,
		alternatives: alternatives,
		resolved:     NoNode,
	}
	for _, alt := range alternatives {
		b.nodes[alt].parent = id
		b.nodes[alt].prop = PropNone
	}
	b.ambiguities = append(b.ambiguities, id)
	return id
}

func (b *Builder) newProblem(code ProblemCode, msg string, offset, length int) NodeID {
	id := b.add(KindProblem, offset, length)
	b.n(id).problem = &Problem{Code: code, Message: msg, Offset: offset, Length: length}
	b.problems = append(b.problems, id)
	b.failed = true
	return id
}

func (b *Builder) markInactive(id NodeID) {
	Inspect(b.AST, id, func(n NodeID) bool {
		b.nodes[n].inactive = true
		for _, alt := range b.Alternatives(n) {
			b.markInactive(alt)
		}
		return true
	})
}

// NewNode allocates a detached node.
func (b *Builder) NewNode(kind NodeKind, offset, length int) (NodeID, error) {
	if b.frozen {
		return NoNode, ErrFrozen
	}
	return b.add(kind, offset, length), nil
}

// SetChild puts child into the slot of parent that plays role prop.
func (b *Builder) SetChild(parent NodeID, prop Property, child NodeID) error {
	if b.frozen {
		return ErrFrozen
	}
	b.setChild(parent, prop, child)
	return nil
}

// AddChild appends child to parent in role prop.
func (b *Builder) AddChild(parent NodeID, prop Property, child NodeID) error {
	if b.frozen {
		return ErrFrozen
	}
	b.attach(parent, prop, child)
	return nil
}

// ReplaceChild splices repl into the slot old occupies in its parent.
func (b *Builder) ReplaceChild(old, repl NodeID) error {
	if b.frozen {
		return ErrFrozen
	}
	b.replace(b.Parent(old), old, repl)
	return nil
}

func (b *Builder) Detach(id NodeID) error {
	if b.frozen {
		return ErrFrozen
	}
	b.detach(id)
	return nil
}

func (b *Builder) SetRange(id NodeID, offset, length int) error {
	if b.frozen {
		return ErrFrozen
	}
	b.setRange(id, offset, offset+length)
	return nil
}

func (b *Builder) SetText(id NodeID, text string) error {
	if b.frozen {
		return ErrFrozen
	}
	b.nodes[id].text = text
	return nil
}

func (b *Builder) SetRoot(id NodeID) error {
	if b.frozen {
		return ErrFrozen
	}
	b.root = id
	if id != NoNode {
		b.nodes[id].parent = NoNode
	}
	return nil
}

// NewAmbiguity wraps two or more alternatives into an ambiguous node.
func (b *Builder) NewAmbiguity(kind AmbiguityKind, alternatives ...NodeID) (NodeID, error) {
	if b.frozen {
		return NoNode, ErrFrozen
	}
	if len(alternatives) < 2 {
		return NoNode, ErrAlternatives
	}
	for _, alt := range alternatives {
		if !b.valid(alt) {
			return NoNode, fmt.Errorf("alternative %d: %w", alt, ErrAlternatives)
		}
	}
	return b.newAmbiguity(kind, alternatives...), nil
}

// Freeze ends the mutable phase. The returned Tree shares the node arena
// with b; b rejects all further mutation.
func (b *Builder) Freeze() (*Tree, error) {
	if b.frozen {
		return nil, ErrFrozen
	}
	b.frozen = true
	return &Tree{
		AST:    b.AST,
		failed: b.failed,
		gate:   make(chan struct{}, 1),
	}, nil
}
