package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/index"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
)

func newIndex() *index.Cache {
	fsys := fstest.MapFS{
		"hello.md": {Data: []byte("---\ntitle: Hello\ndate: 2024-01-01\n---\nHi.\n")},
	}
	return index.NewCache(content.NewLoader(content.NewStore(fsys, ".md"), markdown.New(markdown.Options{})))
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	dir := t.TempDir()
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "# metrics")
	})
	h := New(Options{SiteDir: dir, Index: newIndex(), Metrics: metrics}).Handler()

	require.Equal(t, http.StatusServiceUnavailable, get(t, h, "/readyz").Code)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>blog</h1>"), 0o600))
	require.Equal(t, http.StatusOK, get(t, h, "/readyz").Code)

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<h1>blog</h1>")

	rec = get(t, h, "/api/posts/hello")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"slug":"hello"`)

	require.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
	require.Equal(t, "# metrics", get(t, h, "/metrics").Body.String())
	require.Equal(t, http.StatusNotFound, get(t, h, "/missing.html").Code)
}

func TestRoutes_WithoutAPIOrMetrics(t *testing.T) {
	h := New(Options{SiteDir: t.TempDir()}).Handler()
	require.Equal(t, http.StatusNotFound, get(t, h, "/api/posts").Code)
	require.Equal(t, http.StatusNotFound, get(t, h, "/metrics").Code)
}

func TestStartStop(t *testing.T) {
	s := New(Options{Addr: "127.0.0.1:0", SiteDir: t.TempDir()})
	require.Nil(t, s.Addr())
	require.NoError(t, s.Start(t.Context()))

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + s.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop(t.Context()))
}

func TestStart_BindError(t *testing.T) {
	first := New(Options{Addr: "127.0.0.1:0", SiteDir: t.TempDir()})
	require.NoError(t, first.Start(t.Context()))
	t.Cleanup(func() { _ = first.Stop(context.Background()) })

	second := New(Options{Addr: first.Addr().String(), SiteDir: t.TempDir()})
	require.Error(t, second.Start(t.Context()))
}
