// Package grammar holds the lexical grammar of C source in EBNF and a
// tokenizer driven by it. The grammar lexer is an alternative token source
// for the parser: it does no preprocessing, which makes it useful for
// checking the built-in lexer and for experimenting with token shapes.
package grammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"reflect"
	"sync"

	"golang.org/x/exp/ebnf"
)

// Start is the production listing the token kinds of the grammar.
const Start = "Tokens"

//go:embed c.ebnf
var source []byte

// Source returns the text of the built-in grammar.
func Source() []byte {
	return source
}

var defaultGrammar = sync.OnceValue(func() ebnf.Grammar {
	g, err := Load("c.ebnf", bytes.NewReader(source))
	if err != nil {
		panic(err)
	}
	return g
})

// Default returns the built-in grammar, parsed and verified.
func Default() ebnf.Grammar {
	return defaultGrammar()
}

// Load parses a grammar and verifies it from Start.
func Load(filename string, r io.Reader) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(g, Start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

// LoadFile reads a grammar from disk.
func LoadFile(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return Load(filename, f)
}

// Check parses a grammar and, when start is not empty, verifies it from
// that production. Unlike Load it does not require Start to exist.
func Check(filename string, r io.Reader, start string) error {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return err
	}
	if start == "" {
		return nil
	}
	return ebnf.Verify(g, start)
}

// Errors splits an error reported by the ebnf package into its parts.
// Parse and Verify collect every problem into one list-valued error.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	for {
		inner, ok := err.(interface{ Unwrap() error })
		if !ok || inner.Unwrap() == nil {
			break
		}
		err = inner.Unwrap()
	}
	v := reflect.ValueOf(err)
	if v.Kind() != reflect.Slice {
		return []error{err}
	}
	errs := make([]error, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if e, ok := v.Index(i).Interface().(error); ok {
			errs = append(errs, e)
		}
	}
	return errs
}
