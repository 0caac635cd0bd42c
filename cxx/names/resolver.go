package names

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("cxxparse.names")

// Resolver binds names by lexical lookup in the tree they occur in. It
// caches bindings per name node until told to forget them, and is safe for
// concurrent use.
type Resolver struct {
	mu          sync.Mutex
	predeclared map[string]Kind
	ast         *parser.AST
	cache       map[parser.NodeID]*Binding
}

type Option func(*Resolver)

// WithPredeclared adds names that are visible in every translation unit,
// such as typedefs from headers that are not parsed.
func WithPredeclared(names map[string]Kind) Option {
	return func(r *Resolver) {
		for name, kind := range names {
			r.predeclared[name] = kind
		}
	}
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		predeclared: map[string]Kind{},
		cache:       map[parser.NodeID]*Binding{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveName implements parser.NameResolver.
func (r *Resolver) ResolveName(a *parser.AST, name parser.NodeID) (parser.Binding, error) {
	b, err := r.Resolve(a, name)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Forget drops the cached binding of name.
func (r *Resolver) Forget(name parser.NodeID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, name)
}

// Resolve returns the binding of the name node. Failed lookups are
// reported as problem bindings, not errors.
func (r *Resolver) Resolve(a *parser.AST, name parser.NodeID) (*Binding, error) {
	if a.Kind(name) != parser.KindName {
		return nil, fmt.Errorf("node %d is a %s, not a name", name, a.Kind(name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ast != a {
		r.ast = a
		clear(r.cache)
	}
	if b, ok := r.cache[name]; ok {
		return b, nil
	}
	b := r.bind(a, name)
	if b.IsProblem() {
		log.Debugf("%s: %s at %s", a.Text(name), b.Reason, a.Position(a.Offset(name)))
	}
	r.cache[name] = b
	return b, nil
}

func (r *Resolver) bind(a *parser.AST, name parser.NodeID) *Binding {
	text := a.Text(name)
	switch role := a.NameRole(name); role {
	case parser.RoleDeclaration:
		return r.declared(a, name)
	case parser.RoleMember:
		return &Binding{name: text, Kind: KindMember, Decl: parser.NoNode}
	case parser.RoleLabel:
		return &Binding{name: text, Kind: KindLabel, Decl: parser.NoNode}
	case parser.RoleTag:
		if d, ok := r.lookup(a, name, text, true); ok {
			return d.binding()
		}
		// A tag that was never declared declares itself.
		return &Binding{name: text, Kind: KindStructTag, Decl: name, Type: a.Text(a.Parent(name)) + " " + text}
	default:
		d, ok := r.lookup(a, name, text, false)
		if !ok {
			return problem(text, ReasonNotFound)
		}
		if role == parser.RoleType && d.kind != KindTypedef {
			return problem(text, ReasonNotAType)
		}
		if role == parser.RoleValue && !d.kind.IsValue() {
			return problem(text, ReasonNotAValue)
		}
		return d.binding()
	}
}

// declared binds a name in a declaring position to itself.
func (r *Resolver) declared(a *parser.AST, name parser.NodeID) *Binding {
	text := a.Text(name)
	parent := a.Parent(name)
	if a.Kind(parent) == parser.KindEnumerator {
		return &Binding{name: text, Kind: KindEnumerator, Decl: name, Type: "int"}
	}
	outer := a.OutermostDeclarator(parent)
	owner := a.Parent(outer)
	spec := a.Child(owner, parser.PropDeclSpec)
	b := &Binding{
		name: text,
		Kind: declaratorKind(a, outer),
		Decl: name,
		Type: declaredType(a, baseType(a, spec), outer),
	}
	switch {
	case a.Kind(owner) == parser.KindParameterDeclaration:
		b.Kind = KindParameter
	case a.Specifiers(spec)&parser.SpecTypedef != 0:
		b.Kind = KindTypedef
	case a.Kind(a.Parent(owner)) == parser.KindCompositeTypeSpecifier:
		b.Kind = KindMember
	}
	return b
}

func (r *Resolver) lookup(a *parser.AST, at parser.NodeID, name string, tag bool) (declaration, bool) {
	var found declaration
	ok := false
	scopes(a, at, func(ordinary, tags []declaration) bool {
		decls := ordinary
		if tag {
			decls = tags
		}
		for i := len(decls) - 1; i >= 0; i-- {
			if decls[i].name == name {
				found, ok = decls[i], true
				return false
			}
		}
		return true
	})
	if ok || tag {
		return found, ok
	}
	if kind, pre := r.predeclared[name]; pre {
		return declaration{name: name, kind: kind, node: parser.NoNode}, true
	}
	return found, false
}

// Visible lists the ordinary names in scope at the node, inner
// declarations shadowing outer ones, sorted by name. Only names starting
// with prefix are returned.
func (r *Resolver) Visible(a *parser.AST, at parser.NodeID, prefix string) []*Binding {
	seen := map[string]bool{}
	var out []*Binding
	add := func(d declaration) {
		if seen[d.name] || !strings.HasPrefix(d.name, prefix) {
			return
		}
		seen[d.name] = true
		out = append(out, d.binding())
	}
	scopes(a, at, func(ordinary, _ []declaration) bool {
		for i := len(ordinary) - 1; i >= 0; i-- {
			add(ordinary[i])
		}
		return true
	})
	r.mu.Lock()
	for name, kind := range r.predeclared {
		add(declaration{name: name, kind: kind, node: parser.NoNode})
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
