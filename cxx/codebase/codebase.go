// Package codebase keeps the parsed C files of a directory tree and
// answers the queries an editor asks about them.
package codebase

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dhamidi/cxxparse/cxx/names"
	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("cxxparse.codebase")

type Codebase struct {
	mu          sync.RWMutex
	rootDir     string
	opts        []parser.Option
	predeclared map[string]names.Kind
	exclude     func(dir string) bool
	files       map[string]*FileInfo
}

type FileInfo struct {
	Path     string
	Content  []byte
	Tree     *parser.Tree
	Names    *names.Resolver
	ParseErr error
}

// New creates an empty codebase rooted at rootDir. opts are applied to
// every parse.
func New(rootDir string, opts ...parser.Option) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		opts:    opts,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// Predeclare makes names visible in every file parsed from now on.
func (c *Codebase) Predeclare(predeclared map[string]names.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.predeclared = predeclared
}

// ExcludeDirs sets a filter for directories that scans skip. Hidden
// directories are always skipped.
func (c *Codebase) ExcludeDirs(exclude func(dir string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exclude = exclude
}

// SkipDir reports whether scans skip the directory at path.
func (c *Codebase) SkipDir(path string) bool {
	if path == c.rootDir {
		return false
	}
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}
	c.mu.RLock()
	exclude := c.exclude
	c.mu.RUnlock()
	return exclude != nil && exclude(path)
}

// IsSource reports whether path names a C source or header file.
func IsSource(path string) bool {
	switch filepath.Ext(path) {
	case ".c", ".h":
		return true
	}
	return false
}

func (c *Codebase) ScanAll() error {
	return filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if c.SkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSource(path) {
			if err := c.ScanFile(path); err != nil {
				log.Warningf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

// UpdateFile reparses path from content. Syntax problems are kept in the
// tree; only a parse that could not run at all is returned as an error.
func (c *Codebase) UpdateFile(path string, content []byte) error {
	tree, resolver, err := c.parse(path, content)
	if err != nil {
		log.Errorf("parse %s: %s", path, err)
	} else if n := len(tree.Problems()); n > 0 {
		log.Debugf("parse %s: %d problems", path, n)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = &FileInfo{
		Path:     path,
		Content:  content,
		Tree:     tree,
		Names:    resolver,
		ParseErr: err,
	}
	return err
}

func (c *Codebase) parse(path string, content []byte, extra ...parser.Option) (*parser.Tree, *names.Resolver, error) {
	c.mu.RLock()
	resolver := names.NewResolver(names.WithPredeclared(c.predeclared))
	c.mu.RUnlock()
	opts := append([]parser.Option{
		parser.WithFile(path),
		parser.WithNameResolver(resolver),
	}, c.opts...)
	opts = append(opts, extra...)
	tree, err := parser.ParseTranslationUnit(bytes.NewReader(content), opts...).Finish()
	if err != nil {
		return nil, nil, err
	}
	return tree, resolver, nil
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths lists the known files in sorted order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

// parsed returns the file only when it has a tree.
func (c *Codebase) parsed(path string) *FileInfo {
	f := c.GetFile(path)
	if f == nil || f.Tree == nil {
		return nil
	}
	return f
}

// Offset converts a 1-based line and column into a byte offset in content.
// Positions past the end of a line clamp to its end.
func Offset(content []byte, line, column int) int {
	offset := 0
	for l := 1; l < line; l++ {
		i := bytes.IndexByte(content[offset:], '\n')
		if i < 0 {
			return len(content)
		}
		offset += i + 1
	}
	end := bytes.IndexByte(content[offset:], '\n')
	if end < 0 {
		end = len(content) - offset
	}
	return offset + max(0, min(column-1, end))
}
