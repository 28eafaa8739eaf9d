package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/eventstore"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/server/responses"
)

type workspace struct {
	dir     string
	content string
	output  string
	history string
	cli     *CLI
	out     *bytes.Buffer
}

func newWorkspace(t *testing.T, posts map[string]string) *workspace {
	t.Helper()
	dir := t.TempDir()
	ws := &workspace{
		dir:     dir,
		content: filepath.Join(dir, "posts"),
		output:  filepath.Join(dir, "public"),
		history: filepath.Join(dir, "data", "history.db"),
		out:     &bytes.Buffer{},
	}
	require.NoError(t, os.MkdirAll(ws.content, 0o755))
	for name, data := range posts {
		require.NoError(t, os.WriteFile(filepath.Join(ws.content, name), []byte(data), 0o600))
	}

	cfgPath := filepath.Join(dir, "blogbuilder.yaml")
	yaml := fmt.Sprintf(`site:
  title: Test Blog
  base_url: https://blog.example.com
content:
  directory: %q
output:
  directory: %q
history:
  database: %q
server:
  addr: "127.0.0.1:0"
  watch: false
  metrics: true
redirects:
  - slug: hello
    id: a1b2
`, ws.content, ws.output, ws.history)
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o600))
	ws.cli = &CLI{Config: cfgPath, Out: ws.out}
	return ws
}

func postFile(title, date, extra, body string) string {
	return "---\ntitle: " + title + "\ndate: " + date + "\n" + extra + "---\n" + body
}

func samplePosts() map[string]string {
	return map[string]string{
		"2024-01-01-intro.md": postFile("Intro", "2024-01-01", "categories: [Go]\ntags: [basics]\n", "## Start\n\nSee [deep](/deep/).\n"),
		"2024-02-01-deep.md":  postFile("Deep", "2024-02-01", "categories: [Go]\ntags: [basics, runtime]\n", "Deep dive.\n"),
		"hello-a1b2.md":       postFile("Moved", "2023-05-01", "", "Moved.\n"),
	}
}

func TestBuildCmd(t *testing.T) {
	ws := newWorkspace(t, samplePosts())
	require.NoError(t, (&BuildCmd{}).Run(&Global{}, ws.cli))

	require.Contains(t, ws.out.String(), "success, 3 posts")
	require.FileExists(t, filepath.Join(ws.output, "index.html"))
	require.FileExists(t, filepath.Join(ws.output, "deep", "index.html"))
	require.FileExists(t, filepath.Join(ws.output, "post", "hello.html"))

	store, err := eventstore.NewSQLiteStore(ws.history)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	builds, err := eventstore.Recent(t.Context(), store, 5)
	require.NoError(t, err)
	require.Len(t, builds, 1)
	require.Equal(t, "success", builds[0].Outcome)
}

func TestBuildCmd_StrictFailsOnWarnings(t *testing.T) {
	posts := samplePosts()
	posts["broken.md"] = "---\ntitle: [oops\n---\n"
	ws := newWorkspace(t, posts)

	require.NoError(t, (&BuildCmd{}).Run(&Global{}, ws.cli))
	require.Contains(t, ws.out.String(), "FAILED  broken.md")

	err := (&BuildCmd{Strict: true}).Run(&Global{}, ws.cli)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryContent))
}

func TestBuildCmd_OutputOverride(t *testing.T) {
	ws := newWorkspace(t, samplePosts())
	alt := filepath.Join(ws.dir, "alt")
	require.NoError(t, (&BuildCmd{Output: alt}).Run(&Global{}, ws.cli))
	require.FileExists(t, filepath.Join(alt, "index.html"))
	require.NoDirExists(t, ws.output)
}

func TestCheckCmd(t *testing.T) {
	posts := samplePosts()
	posts["2024-03-01-bad.md"] = postFile("Bad", "2024-03-01", "", "[x](/nowhere/)\n")
	ws := newWorkspace(t, posts)

	err := (&CheckCmd{Strict: true}).Run(&Global{}, ws.cli)
	require.Error(t, err)
	require.Contains(t, ws.out.String(), "unknown_post")
	require.NoDirExists(t, ws.output)

	require.NoError(t, (&CheckCmd{}).Run(&Global{}, ws.cli))
}

func TestListCmd(t *testing.T) {
	ws := newWorkspace(t, samplePosts())

	require.NoError(t, (&ListCmd{Kind: "posts", JSON: true}).Run(&Global{}, ws.cli))
	var metas []post.Meta
	require.NoError(t, json.Unmarshal(ws.out.Bytes(), &metas))
	require.Len(t, metas, 3)
	require.Equal(t, "deep", metas[0].Slug)

	ws.out.Reset()
	require.NoError(t, (&ListCmd{Kind: "posts", Tag: "RUNTIME"}).Run(&Global{}, ws.cli))
	require.Contains(t, ws.out.String(), "deep")
	require.NotContains(t, ws.out.String(), "intro")

	ws.out.Reset()
	require.NoError(t, (&ListCmd{Kind: "categories", JSON: true}).Run(&Global{}, ws.cli))
	var terms []responses.TermResponse
	require.NoError(t, json.Unmarshal(ws.out.Bytes(), &terms))
	require.Equal(t, []responses.TermResponse{{Name: "go", Label: "Go", Count: 2}}, terms)

	err := (&ListCmd{Kind: "posts", Tag: "a", Category: "b"}).Run(&Global{}, ws.cli)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestShowAndRelatedCmd(t *testing.T) {
	ws := newWorkspace(t, samplePosts())

	require.NoError(t, (&ShowCmd{Slug: "intro", HTML: true}).Run(&Global{}, ws.cli))
	require.Contains(t, ws.out.String(), "Intro\n")
	require.Contains(t, ws.out.String(), `<h2 id="start">Start</h2>`)

	err := (&ShowCmd{Slug: "missing"}).Run(&Global{}, ws.cli)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	ws.out.Reset()
	require.NoError(t, (&RelatedCmd{Slug: "intro", Limit: 3, JSON: true}).Run(&Global{}, ws.cli))
	var metas []post.Meta
	require.NoError(t, json.Unmarshal(ws.out.Bytes(), &metas))
	require.Len(t, metas, 1)
	require.Equal(t, "deep", metas[0].Slug)

	require.Error(t, (&RelatedCmd{Slug: "intro"}).Run(&Global{}, ws.cli))
}

func TestHistoryCmd(t *testing.T) {
	ws := newWorkspace(t, samplePosts())
	require.NoError(t, (&BuildCmd{}).Run(&Global{}, ws.cli))
	ws.out.Reset()

	require.NoError(t, (&HistoryCmd{Limit: 5}).Run(&Global{}, ws.cli))
	require.Contains(t, ws.out.String(), "OUTCOME")
	require.Contains(t, ws.out.String(), "manual")
	require.Contains(t, ws.out.String(), "success")
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	out := &bytes.Buffer{}
	cli := &CLI{Config: filepath.Join(dir, "blogbuilder.yaml"), Out: out}

	require.NoError(t, (&InitCmd{}).Run(&Global{}, cli))
	require.FileExists(t, cli.Config)
	require.Error(t, (&InitCmd{}).Run(&Global{}, cli))
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, cli))

	require.NoError(t, (&InitCmd{Output: filepath.Join(dir, "site")}).Run(&Global{}, cli))
	require.FileExists(t, filepath.Join(dir, "site", config.DefaultPath))
}

func TestAfterApply_UsesConfigLogging(t *testing.T) {
	ws := newWorkspace(t, nil)
	ws.cli.LogFormat = "json"
	g := &Global{}
	require.NoError(t, ws.cli.AfterApply(g))
	require.NotNil(t, g.Logger)
	require.True(t, g.Logger.Enabled(context.Background(), slog.LevelInfo))
	require.False(t, g.Logger.Enabled(context.Background(), slog.LevelDebug))

	ws.cli.Verbose = true
	require.NoError(t, ws.cli.AfterApply(g))
	require.True(t, g.Logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestRunServe(t *testing.T) {
	ws := newWorkspace(t, samplePosts())
	cfg, err := ws.cli.LoadConfig()
	require.NoError(t, err)

	// Pick a free port up front so the test can reach the server.
	ln, err := (&net.ListenConfig{}).Listen(t.Context(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)
	cfg.Server.Addr = ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- RunServe(ctx, cfg) }()

	client := &http.Client{Timeout: 2 * time.Second}
	base := "http://" + cfg.Server.Addr
	require.Eventually(t, func() bool {
		resp, err := client.Get(base + "/readyz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 50*time.Millisecond)

	resp, err := client.Get(base + "/api/posts/deep")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `"title":"Deep"`)

	resp, err = client.Get(base + "/metrics")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, string(body), "blogbuilder_")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}
