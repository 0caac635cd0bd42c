package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/cxxparse/cxx/names"
	"github.com/dhamidi/cxxparse/cxx/parser"
)

// LineEncoder writes one tab-separated line per declared name: kind, name,
// type and position. It is meant for grep and awk.
type LineEncoder struct {
	w io.Writer
	r *names.Resolver
}

// NewLineEncoder returns an encoder that binds names with r, or with a
// fresh resolver if r is nil.
func NewLineEncoder(w io.Writer, r *names.Resolver) *LineEncoder {
	if r == nil {
		r = names.NewResolver()
	}
	return &LineEncoder{w: w, r: r}
}

func (e *LineEncoder) Encode(a *parser.AST) error {
	text, err := e.MarshalText(a)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText(a *parser.AST) ([]byte, error) {
	var sb strings.Builder
	for _, name := range parser.Names(a, a.Root()) {
		if !e.declares(a, name) {
			continue
		}
		b, err := e.r.Resolve(a, name)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n",
			b.Kind,
			b.Name(),
			b.Type,
			a.Position(a.Offset(name)),
		)
	}
	return []byte(sb.String()), nil
}

// declares reports whether name introduces a declaration rather than
// referring to one.
func (e *LineEncoder) declares(a *parser.AST, name parser.NodeID) bool {
	switch a.NameRole(name) {
	case parser.RoleDeclaration:
		return true
	case parser.RoleTag:
		return a.Kind(a.Parent(name)) == parser.KindCompositeTypeSpecifier
	}
	return false
}
