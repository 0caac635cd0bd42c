// Package ui serves a small web interface for browsing scanned C code:
// per-file problems, symbols and the readings chosen for each ambiguity.
package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/dhamidi/cxxparse/cxx/codebase"
	"github.com/dhamidi/cxxparse/cxx/parser"
	"github.com/dhamidi/cxxparse/cxx/scanner"
)

//go:embed templates
var embeddedFS embed.FS

type Server struct {
	scanner   *scanner.Scanner
	templates *template.Template
	mux       *http.ServeMux
}

// NewServer creates a server whose scans parse with opts.
func NewServer(opts ...parser.Option) (*Server, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"fileURL": func(scanID, path string) string {
			return "/scans/" + scanID + "/file?path=" + template.URLQueryEscaper(path)
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(mustSub(embeddedFS, "templates"), "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		scanner:   scanner.New(opts...),
		templates: tmpl,
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /scan", s.handleScan)
	s.mux.HandleFunc("GET /scans/{id}", s.handleGetScan)
	s.mux.HandleFunc("GET /scans/{id}/file", s.handleFile)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

// Scan queues a scan as if it had been submitted through the web form.
func (s *Server) Scan(req scanner.Request) string {
	return s.scanner.Submit(req)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
	}
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json"
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanner.Request

	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Path = r.FormValue("path")
		req.ZipFile = r.FormValue("zipfile")
	}

	if req.Path == "" && req.ZipFile == "" {
		http.Error(w, "must provide path or zipfile", http.StatusBadRequest)
		return
	}

	id := s.scanner.Submit(req)
	http.Redirect(w, r, "/scans/"+id, http.StatusSeeOther)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	result, ok := s.scanner.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "scan not found", http.StatusNotFound)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, result)
		return
	}
	s.render(w, "scan.html", result)
}

type Line struct {
	Number   int
	Text     string
	Problems []string
}

type FileViewData struct {
	ScanID      string
	Path        string
	Lines       []Line
	Diagnostics []codebase.Diagnostic
	Symbols     []codebase.Symbol
	Ambiguities []codebase.Ambiguity
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	result, ok := s.scanner.Get(id)
	if !ok || result.Codebase() == nil {
		http.Error(w, "scan not found", http.StatusNotFound)
		return
	}
	cb := result.Codebase()
	path := r.URL.Query().Get("path")
	f := cb.GetFile(path)
	if f == nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	data := FileViewData{
		ScanID:      id,
		Path:        path,
		Diagnostics: cb.Diagnostics(path),
		Symbols:     cb.Symbols(path),
		Ambiguities: cb.Ambiguities(path),
	}
	if wantsJSON(r) {
		writeJSON(w, data)
		return
	}

	for i, text := range strings.Split(strings.TrimSuffix(string(f.Content), "\n"), "\n") {
		data.Lines = append(data.Lines, Line{Number: i + 1, Text: text})
	}
	for _, d := range data.Diagnostics {
		if i := d.Start.Line - 1; i >= 0 && i < len(data.Lines) {
			data.Lines[i].Problems = append(data.Lines[i].Problems, d.Message)
		}
	}
	s.render(w, "file.html", data)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Scans []*scanner.Result
	}{
		Scans: s.scanner.List(),
	}
	if wantsJSON(r) {
		writeJSON(w, data)
		return
	}
	s.render(w, "index.html", data)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
