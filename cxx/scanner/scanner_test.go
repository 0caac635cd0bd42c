package scanner

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wait(t *testing.T, s *Scanner, id string) *Result {
	t.Helper()
	require.Eventually(t, func() bool {
		r, ok := s.Get(id)
		return ok && (r.Status == StatusCompleted || r.Status == StatusFailed)
	}, 5*time.Second, 10*time.Millisecond)
	r, _ := s.Get(id)
	return r
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("a.c", "typedef int T;\nint f(int y) { return (T)(y); }\n")
	write("include/b.h", "struct point { int x; int y; };\n")
	write("broken.c", "int f( {\n")
	write("notes.txt", "int x;\n")
	write(".git/skip.c", "int x;\n")

	s := New()
	id := s.Submit(Request{Path: dir})
	result := wait(t, s, id)

	require.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Progress)
	assert.Equal(t, 100, result.ProgressPercent())
	assert.Empty(t, result.Errors)

	got := map[string]FileSummary{}
	for _, f := range result.Files {
		got[filepath.Base(f.Path)] = f
	}
	require.Len(t, got, 3)
	assert.Equal(t, 1, got["a.c"].Ambiguities)
	assert.Equal(t, 0, got["a.c"].Problems)
	assert.Equal(t, 3, got["a.c"].Symbols)
	assert.Positive(t, got["broken.c"].Problems)
	assert.Equal(t, got["broken.c"].Problems, result.Problems())

	require.NotNil(t, result.Codebase())
	assert.NotNil(t, result.Codebase().GetFile(filepath.Join(dir, "a.c")))
}

func TestScanZipFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range map[string]string{
		"src/main.c":  "int main(void) { return 0; }\n",
		"README":      "not C\n",
		"src/util.h":  "int twice(int);\n",
		"src/nested/": "",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	s := New()
	result := wait(t, s, s.Submit(Request{ZipFile: path}))

	require.Equal(t, StatusCompleted, result.Status)
	var paths []string
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"src/main.c", "src/util.h"}, paths)
	assert.Zero(t, result.Problems())
}

func TestScanFailures(t *testing.T) {
	s := New()

	result := wait(t, s, s.Submit(Request{}))
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, "no path or zip file provided", result.Error)

	result = wait(t, s, s.Submit(Request{ZipFile: filepath.Join(t.TempDir(), "missing.zip")}))
	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.Error, "open zip")

	_, ok := s.Get("nope")
	assert.False(t, ok)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, "2", list[1].ID)
}

func TestScanUsesProjectFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cxp.yaml"), []byte("predeclare:\n  T: typedef\nexclude: [vendor]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.c"), []byte("int f(int y) { return (T)(y); }\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor", "v.c"), []byte("int v;\n"), 0o644))

	s := New()
	result := wait(t, s, s.Submit(Request{Path: dir}))
	require.Equal(t, StatusCompleted, result.Status)
	require.Len(t, result.Files, 1)

	cb := result.Codebase()
	ambs := cb.Ambiguities(filepath.Join(dir, "a.c"))
	require.Len(t, ambs, 1)
	assert.Equal(t, 0, ambs[0].Resolved)
	assert.Contains(t, ambs[0].Alternatives[0], "(cast T")
}
