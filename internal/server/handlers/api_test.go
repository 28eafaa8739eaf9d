package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/i18n"
	"git.home.luguber.info/inful/blogbuilder/internal/index"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/server/responses"
)

func doc(fm, body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\n" + fm + "---\n" + body)}
}

func newMux(t *testing.T) *http.ServeMux {
	t.Helper()
	fsys := fstest.MapFS{
		"2024-01-01-intro.md": doc("title: Intro\ndate: 2024-01-01\ncategories: [Go]\ntags: [basics]\n", "# Hi\n"),
		"2024-02-01-deep.md":  doc("title: Deep\ndate: 2024-02-01\ncategories: [go]\ntags: [basics, runtime]\n", "Deep.\n"),
		"2024-03-01-misc.md":  doc("title: Misc\ndate: 2024-03-01\ncategories: [Life]\n", "Misc.\n"),
	}
	loader := content.NewLoader(content.NewStore(fsys, ".md"), markdown.New(markdown.Options{}))
	h := NewAPIHandlers(index.NewCache(loader), nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts", h.HandlePosts)
	mux.HandleFunc("GET /api/posts/{slug}", h.HandlePost)
	mux.HandleFunc("GET /api/posts/{slug}/related", h.HandleRelated)
	mux.HandleFunc("GET /api/categories", h.HandleCategories)
	mux.HandleFunc("GET /api/tags", h.HandleTags)
	mux.HandleFunc("POST /api/language", h.HandleLanguage)
	return mux
}

func do(t *testing.T, mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func slugs(metas []post.Meta) []string {
	out := make([]string, 0, len(metas))
	for _, m := range metas {
		out = append(out, m.Slug)
	}
	return out
}

func TestHandlePosts(t *testing.T) {
	mux := newMux(t)

	rec := do(t, mux, http.MethodGet, "/api/posts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, []string{"misc", "deep", "intro"}, slugs(decode[[]post.Meta](t, rec)))

	rec = do(t, mux, http.MethodGet, "/api/posts?category=GO", "")
	require.Equal(t, []string{"deep", "intro"}, slugs(decode[[]post.Meta](t, rec)))

	rec = do(t, mux, http.MethodGet, "/api/posts?tag=runtime", "")
	require.Equal(t, []string{"deep"}, slugs(decode[[]post.Meta](t, rec)))

	rec = do(t, mux, http.MethodGet, "/api/posts?tag=nothing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())

	rec = do(t, mux, http.MethodGet, "/api/posts?tag=a&category=b", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePost(t *testing.T) {
	mux := newMux(t)

	rec := do(t, mux, http.MethodGet, "/api/posts/intro", "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[post.Post](t, rec)
	require.Equal(t, "Intro", p.Title)
	require.Contains(t, p.ContentHTML, `<h1 id="hi">Hi</h1>`)

	rec = do(t, mux, http.MethodGet, "/api/posts/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decode[map[string]any](t, rec)["code"])
}

func TestHandleRelated(t *testing.T) {
	mux := newMux(t)

	rec := do(t, mux, http.MethodGet, "/api/posts/intro/related", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"deep"}, slugs(decode[[]post.Meta](t, rec)))

	rec = do(t, mux, http.MethodGet, "/api/posts/misc/related?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())

	rec = do(t, mux, http.MethodGet, "/api/posts/intro/related?limit=0", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/posts/missing/related", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleTerms(t *testing.T) {
	mux := newMux(t)

	rec := do(t, mux, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decode[[]responses.TermResponse](t, rec)
	require.Len(t, categories, 2)
	require.Equal(t, "go", categories[0].Name)
	require.Equal(t, 2, categories[0].Count)
	require.Equal(t, "life", categories[1].Name)
	require.Equal(t, "Life", categories[1].Label)

	rec = do(t, mux, http.MethodGet, "/api/tags", "")
	tags := decode[[]responses.TermResponse](t, rec)
	require.Len(t, tags, 2)
	require.Equal(t, "basics", tags[0].Name)
	require.Equal(t, 2, tags[0].Count)
}

func TestHandleLanguage(t *testing.T) {
	mux := newMux(t)

	rec := do(t, mux, http.MethodPost, "/api/language", `{"lng":"cs-CZ"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, responses.LanguageResponse{OK: true, Language: "cs"}, decode[responses.LanguageResponse](t, rec))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, i18n.CookieName, cookies[0].Name)
	require.Equal(t, "cs", cookies[0].Value)
	require.Equal(t, "/", cookies[0].Path)
	require.Positive(t, cookies[0].MaxAge)

	rec = do(t, mux, http.MethodPost, "/api/language", `{"lng":"xx"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, i18n.Fallback, decode[responses.LanguageResponse](t, rec).Language)

	rec = do(t, mux, http.MethodPost, "/api/language", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/api/language", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
