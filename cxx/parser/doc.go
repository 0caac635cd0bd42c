// Package parser is an error-tolerant, speculative parser for C source
// code, built for editor tooling where input is often incomplete.
//
// # Overview
//
// Parsing happens in two phases. The recursive-descent parser reads
// tokens through a backtrackable Cursor and records every reading it
// cannot decide on syntax alone as an ambiguous node. The resolver then
// settles each ambiguity by asking a NameResolver which names bind:
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│ TokenSource │────▶│   Cursor    │────▶│   Builder   │────▶│    Tree     │
//	│  (Lexer)    │     │ mark/backup │     │ (ambiguous) │     │  (frozen)   │
//	└─────────────┘     └─────────────┘     └─────────────┘     └─────────────┘
//	                                               │
//	                                               ▼
//	                                        ┌─────────────┐
//	                                        │NameResolver │
//	                                        └─────────────┘
//
// # Ambiguities
//
// Three kinds of ambiguous node are produced:
//
//	AmbiguityGeneric       `x * y;` declaration or expression,
//	                       `sizeof(x)` type or expression
//	AmbiguityBinaryVsCast  `(a) + b` binary expression or cast of `+b`
//	AmbiguityCastVsCall    `(f)(x)` cast of `(x)` or call of `f`
//
// Generic ambiguities are decided by counting names that fail to resolve
// in each alternative; the first alternative with the fewest failures
// wins. The other two kinds are decided by whether the parenthesized
// name is a type, and rearrange the expression tree when the cast (or
// call) reading wins, since the operator precedence differs between the
// readings.
//
// # Usage
//
//	tree, err := parser.ParseTranslationUnit(r,
//		parser.WithFile("main.c"),
//		parser.WithNameResolver(names.NewResolver()),
//	).Finish()
//	if err != nil {
//		return err
//	}
//	if tree.Failed() {
//		for _, id := range tree.Problems() {
//			fmt.Println(tree.Position(tree.Offset(id)), tree.Problem(id).Message)
//		}
//	}
//
// Parse returns the Builder before resolution, which is how tools inspect
// the alternatives of each ambiguity.
//
// # Trees
//
// Nodes live in an arena owned by the AST and are addressed by NodeID.
// Each node knows its parent and the Property it plays there. A Builder
// may be mutated; Freeze consumes it into a Tree that can be shared
// between goroutines. Tree carries a single-holder gate for consumers that
// need exclusive access, such as an index that annotates the tree.
//
// # Cancellation
//
// WithContext makes the cursor check the context on every token request.
// A cancelled parse unwinds, collapses each remaining ambiguity to its
// first alternative and still returns a Tree, with Failed set.
package parser
