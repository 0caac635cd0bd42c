package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dhamidi/cxxparse/cxx/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.c"), []byte("typedef int T;\nint f(int y) { return (T)(y); }\nint g( {\n"), 0o644))
	s, err := NewServer()
	require.NoError(t, err)
	return s, dir
}

func get(t *testing.T, s *Server, target string, jsonBody bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if jsonBody {
		req.Header.Set("Accept", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func waitCompleted(t *testing.T, s *Server, id string) {
	t.Helper()
	require.Eventually(t, func() bool {
		var result scanner.Result
		rec := get(t, s, "/scans/"+id, true)
		if rec.Code != http.StatusOK {
			return false
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		return result.Status == scanner.StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)
}

func TestScanForm(t *testing.T) {
	s, dir := newServer(t)

	form := url.Values{"path": {dir}}
	req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/scans/1", rec.Header().Get("Location"))

	waitCompleted(t, s, "1")

	rec = get(t, s, "/scans/1", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a.c")
	assert.Contains(t, rec.Body.String(), "/scans/1/file?path=")

	rec = get(t, s, "/", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/scans/1"`)
}

func TestScanJSON(t *testing.T) {
	s, _ := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(`{"Path": ""}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFileView(t *testing.T) {
	s, dir := newServer(t)
	id := s.Scan(scanner.Request{Path: dir})
	waitCompleted(t, s, id)
	path := filepath.Join(dir, "a.c")
	target := "/scans/" + id + "/file?path=" + url.QueryEscape(path)

	rec := get(t, s, target, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var data FileViewData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, path, data.Path)
	require.Len(t, data.Ambiguities, 1)
	assert.Equal(t, 0, data.Ambiguities[0].Resolved)
	assert.NotEmpty(t, data.Diagnostics)
	assert.Equal(t, 3, data.Diagnostics[0].Start.Line)

	rec = get(t, s, target, false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="problem"`)
	assert.Contains(t, body, `class="chosen"`)
	assert.Contains(t, body, "cast-vs-call")

	assert.Equal(t, http.StatusNotFound, get(t, s, "/scans/"+id+"/file?path=nope.c", false).Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/scans/99", false).Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/scans/99/file?path=a.c", false).Code)
}
