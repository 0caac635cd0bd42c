// Package scanner parses whole directory trees or zip archives of C files
// in the background and keeps the results for later inspection.
package scanner

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/dhamidi/cxxparse/cxx/codebase"
	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/dhamidi/cxxparse/project"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("cxxparse.scanner")

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Request names what to scan: a directory or a zip archive.
type Request struct {
	ID        string
	Path      string
	ZipFile   string
	CreatedAt time.Time
}

// FileSummary counts what was found in one file.
type FileSummary struct {
	Path        string
	Problems    int
	Ambiguities int
	Symbols     int
}

type Result struct {
	ID        string
	Status    Status
	Request   Request
	Files     []FileSummary
	Error     string
	Errors    []string
	StartedAt time.Time
	EndedAt   time.Time
	Progress  int
	Total     int

	codebase *codebase.Codebase
}

func (r *Result) ProgressPercent() int {
	if r.Total == 0 {
		return 0
	}
	return (r.Progress * 100) / r.Total
}

// Codebase returns the parsed files of the scan. It is nil until the scan
// has completed.
func (r *Result) Codebase() *codebase.Codebase {
	return r.codebase
}

// Problems sums the problems of all files.
func (r *Result) Problems() int {
	n := 0
	for _, f := range r.Files {
		n += f.Problems
	}
	return n
}

type Scanner struct {
	mu       sync.RWMutex
	scans    map[string]*Result
	order    []string
	requests chan Request
	nextID   int
	opts     []parser.Option
}

// New starts a scanner whose parses use opts.
func New(opts ...parser.Option) *Scanner {
	s := &Scanner{
		scans:    make(map[string]*Result),
		requests: make(chan Request, 100),
		opts:     opts,
	}
	go s.run()
	return s
}

// Submit queues req and returns the id under which its result is kept.
func (s *Scanner) Submit(req Request) string {
	s.mu.Lock()
	s.nextID++
	req.ID = fmt.Sprintf("%d", s.nextID)
	req.CreatedAt = time.Now()
	s.scans[req.ID] = &Result{ID: req.ID, Status: StatusPending, Request: req}
	s.order = append(s.order, req.ID)
	s.mu.Unlock()

	s.requests <- req
	return req.ID
}

// Get returns a copy of the result with the given id.
func (s *Scanner) Get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.scans[id]
	if !ok {
		return nil, false
	}
	copied := *result
	return &copied, true
}

// List returns copies of all results, oldest first.
func (s *Scanner) List() []*Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Result, 0, len(s.order))
	for _, id := range s.order {
		copied := *s.scans[id]
		out = append(out, &copied)
	}
	return out
}

func (s *Scanner) run() {
	for req := range s.requests {
		s.processScan(req)
	}
}

func (s *Scanner) processScan(req Request) {
	s.mu.Lock()
	result := s.scans[req.ID]
	result.Status = StatusInProgress
	result.StartedAt = time.Now()
	s.mu.Unlock()

	var cb *codebase.Codebase
	var errs []string
	switch {
	case req.Path != "":
		cb, errs = s.scanDirectory(req.ID, req.Path)
	case req.ZipFile != "":
		cb, errs = s.scanZipFile(req.ID, req.ZipFile)
	default:
		errs = append(errs, "no path or zip file provided")
	}

	var files []FileSummary
	if cb != nil {
		for _, path := range cb.Paths() {
			files = append(files, FileSummary{
				Path:        path,
				Problems:    len(cb.Diagnostics(path)),
				Ambiguities: len(cb.Ambiguities(path)),
				Symbols:     len(cb.Symbols(path)),
			})
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result.EndedAt = time.Now()
	result.Files = files
	result.Errors = errs
	result.codebase = cb
	if len(errs) > 0 && len(files) == 0 {
		result.Status = StatusFailed
		result.Error = errs[0]
	} else {
		result.Status = StatusCompleted
	}
	log.Infof("scan %s: %d files, %d errors in %s", req.ID, len(files), len(errs), result.EndedAt.Sub(result.StartedAt))
}

func (s *Scanner) setTotal(id string, total int) {
	s.mu.Lock()
	s.scans[id].Total = total
	s.mu.Unlock()
}

func (s *Scanner) advance(id string) {
	s.mu.Lock()
	s.scans[id].Progress++
	s.mu.Unlock()
}

func (s *Scanner) scanDirectory(id, root string) (*codebase.Codebase, []string) {
	var errs []string
	cb := codebase.New(root, s.opts...)
	switch p, err := project.LoadFrom(root); {
	case err == nil:
		cb = codebase.New(root, append(p.Options(), s.opts...)...)
		cb.Predeclare(p.Predeclared())
		cb.ExcludeDirs(p.Excluded)
	case !errors.Is(err, project.ErrNotFound):
		errs = append(errs, err.Error())
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, fmt.Sprintf("walk %s: %v", path, err))
			return nil
		}
		if d.IsDir() {
			if cb.SkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if codebase.IsSource(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		errs = append(errs, fmt.Sprintf("walk %s: %v", root, err))
	}

	s.setTotal(id, len(files))
	for _, file := range files {
		if err := cb.ScanFile(file); err != nil {
			errs = append(errs, fmt.Sprintf("parse %s: %v", file, err))
		}
		s.advance(id)
	}
	return cb, errs
}

func (s *Scanner) scanZipFile(id, path string) (*codebase.Codebase, []string) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, []string{fmt.Sprintf("open zip: %v", err)}
	}
	defer r.Close()

	var sources []*zip.File
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && codebase.IsSource(f.Name) {
			sources = append(sources, f)
		}
	}

	s.setTotal(id, len(sources))
	cb := codebase.New(path, s.opts...)
	var errs []string
	for _, f := range sources {
		if err := addZipEntry(cb, f); err != nil {
			errs = append(errs, err.Error())
		}
		s.advance(id)
	}
	return cb, errs
}

func addZipEntry(cb *codebase.Codebase, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read %s: %w", f.Name, err)
	}
	if err := cb.UpdateFile(f.Name, data); err != nil {
		return fmt.Errorf("parse %s: %w", f.Name, err)
	}
	return nil
}
