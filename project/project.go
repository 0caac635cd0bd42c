// Package project finds and reads the cxp.yaml file that holds the
// parser settings of a C source tree.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/dhamidi/cxxparse/cxx/names"
	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/goccy/go-yaml"
)

// FileName is the name of the project file.
const FileName = "cxp.yaml"

// ErrNotFound is returned when no project file exists in a directory or
// any of its parents.
var ErrNotFound = errors.New("no " + FileName + " found")

// Project is a directory tree of C code and the settings it is parsed with.
type Project struct {
	RootDir string
	Config  Config
}

// Config is the content of the project file:
//
//	defines:
//	  __linux__: "1"
//	predeclare:
//	  size_t: typedef
//	  printf: function
//	skip_bodies: false
//	inactive: false
//	exclude: [vendor, build]
type Config struct {
	Defines    map[string]string `yaml:"defines"`
	Predeclare map[string]string `yaml:"predeclare"`
	SkipBodies bool              `yaml:"skip_bodies"`
	Inactive   bool              `yaml:"inactive"`
	// Exclude lists directory names, relative to the root, that are not
	// scanned.
	Exclude []string `yaml:"exclude"`
}

// Load finds the project containing the working directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom finds the project file in dir or the nearest parent directory
// that has one.
func LoadFrom(dir string) (*Project, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	for {
		path := filepath.Join(dir, FileName)
		data, err := os.ReadFile(path)
		if err == nil {
			cfg, err := ParseConfig(data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			return &Project{RootDir: dir, Config: cfg}, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNotFound
		}
		dir = parent
	}
}

// ParseConfig decodes a project file. Unknown keys are errors.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return Config{}, err
	}
	for name, kind := range cfg.Predeclare {
		if k, ok := names.ParseKind(kind); !ok || k == names.KindProblem {
			return Config{}, fmt.Errorf("predeclare %s: unknown kind %q", name, kind)
		}
	}
	return cfg, nil
}

// Predeclared returns the names the project declares up front.
func (p *Project) Predeclared() map[string]names.Kind {
	out := make(map[string]names.Kind, len(p.Config.Predeclare))
	for name, kind := range p.Config.Predeclare {
		k, _ := names.ParseKind(kind)
		out[name] = k
	}
	return out
}

// Options returns the parser options for files of the project. Name
// resolution is left to the caller, since every file needs its own
// resolver.
func (p *Project) Options() []parser.Option {
	var opts []parser.Option
	if len(p.Config.Defines) > 0 {
		opts = append(opts, parser.WithDefines(p.Config.Defines))
	}
	if p.Config.SkipBodies {
		opts = append(opts, parser.WithSkipFunctionBodies())
	}
	if p.Config.Inactive {
		opts = append(opts, parser.WithInactiveCode())
	}
	return opts
}

// Excluded reports whether the directory at path is excluded from scans.
func (p *Project) Excluded(path string) bool {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	rel, err := filepath.Rel(p.RootDir, path)
	if err != nil {
		return false
	}
	return slices.Contains(p.Config.Exclude, filepath.ToSlash(rel))
}
