// Package site writes the blog as static HTML: the home page, one page per
// post, taxonomy pages, a JSON manifest, an RSS feed and legacy redirects.
package site

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/i18n"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// RelatedLimit is the number of related posts shown under a post.
const RelatedLimit = 3

// Source answers the queries the writer needs. *index.Cache implements it.
type Source interface {
	AllPosts(ctx context.Context) ([]post.Meta, error)
	PostBySlug(ctx context.Context, slug string) (*post.Post, error)
	Categories(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)
	PostsByCategory(ctx context.Context, category string) ([]post.Meta, error)
	PostsByTag(ctx context.Context, tag string) ([]post.Meta, error)
	CategoryLabel(ctx context.Context, name string) (string, error)
	TagLabel(ctx context.Context, name string) (string, error)
	Related(ctx context.Context, slug string, limit int) ([]post.Meta, error)
	Adjacent(ctx context.Context, slug string) (newer, older *post.Meta, err error)
}

// Redirect sends /post/<Slug> to /<Slug>-<ID>/.
type Redirect struct {
	Slug string
	ID   string
}

// Target is the path the redirect points at.
func (r Redirect) Target() string {
	return "/" + url.PathEscape(r.Slug+"-"+r.ID) + "/"
}

// Options configures a Writer.
type Options struct {
	OutputDir   string
	Clean       bool // rebuild into a fresh directory instead of writing over the old one
	Title       string
	Description string
	BaseURL     string
	Language    string
	Redirects   []Redirect
}

// Summary counts what a Write produced.
type Summary struct {
	Posts      int
	Categories int
	Tags       int
	Redirects  int
	Files      int
}

// Writer renders a Source to disk.
type Writer struct {
	opts      Options
	renderer  *markdown.Renderer
	templates *templates
	now       func() time.Time
}

// New returns a Writer. renderer supplies the highlighting stylesheet.
func New(renderer *markdown.Renderer, opts Options) (*Writer, error) {
	tpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	opts.Language = i18n.Normalize(opts.Language)
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Writer{opts: opts, renderer: renderer, templates: tpl, now: time.Now}, nil
}

// Write renders every page of src into the output directory.
func (w *Writer) Write(ctx context.Context, src Source) (*Summary, error) {
	dir := w.opts.OutputDir
	var stage *staging
	if w.opts.Clean {
		s, err := beginStaging(dir)
		if err != nil {
			return nil, err
		}
		stage = s
		dir = s.stageDir
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fsError(err, "failed to create output directory", dir)
	}

	r := &run{Writer: w, ctx: ctx, src: src, dir: dir, summary: &Summary{}}
	if err := r.all(); err != nil {
		if stage != nil {
			stage.abort()
		}
		return nil, err
	}
	if stage != nil {
		if err := stage.finalize(); err != nil {
			stage.abort()
			return nil, err
		}
	}
	slog.Info("Wrote site",
		logfields.Path(w.opts.OutputDir),
		logfields.Count(r.summary.Files),
		slog.Int("posts", r.summary.Posts))
	return r.summary, nil
}

// run is the state of one Write.
type run struct {
	*Writer
	ctx     context.Context
	src     Source
	dir     string
	summary *Summary
	metas   []post.Meta
}

func (r *run) all() error {
	metas, err := r.src.AllPosts(r.ctx)
	if err != nil {
		return err
	}
	r.metas = metas

	categories, err := r.terms(kindCategory)
	if err != nil {
		return err
	}
	tags, err := r.terms(kindTag)
	if err != nil {
		return err
	}

	steps := []func() error{
		func() error { return r.assets() },
		func() error { return r.index(categories) },
		func() error { return r.posts() },
		func() error { return r.taxonomy(kindCategory, categories) },
		func() error { return r.taxonomy(kindTag, tags) },
		func() error { return r.manifest() },
		func() error { return r.feed() },
		func() error { return r.redirects() },
	}
	for _, step := range steps {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		if err := step(); err != nil {
			return err
		}
	}
	r.summary.Categories = len(categories)
	r.summary.Tags = len(tags)
	return nil
}

func (r *run) write(rel string, data []byte) error {
	path := filepath.Join(r.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fsError(err, "failed to create directory", filepath.Dir(path))
	}
	// #nosec G306 -- the site is public content
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fsError(err, "failed to write file", path)
	}
	r.summary.Files++
	return nil
}

func (r *run) page(rel, layout string, data any) error {
	out, err := r.templates.render(layout, data)
	if err != nil {
		return err
	}
	return r.write(rel, out)
}

func (r *run) assets() error {
	if err := r.write("style.css", styleCSS); err != nil {
		return err
	}
	var css strings.Builder
	if err := r.renderer.WriteCSS(&css); err != nil {
		return err
	}
	return r.write("chroma.css", []byte(css.String()))
}

func (r *run) index(categories []termLink) error {
	return r.page("index.html", "index.html", indexPage{
		common:     r.common("", "/"),
		Posts:      r.cards(r.metas),
		Categories: categories,
	})
}

func (r *run) posts() error {
	for _, m := range r.metas {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		if err := r.post(m.Slug); err != nil {
			return err
		}
		r.summary.Posts++
	}
	return nil
}

func (r *run) post(slug string) error {
	p, err := r.src.PostBySlug(r.ctx, slug)
	if err != nil {
		return err
	}
	related, err := r.src.Related(r.ctx, slug, RelatedLimit)
	if err != nil {
		return err
	}
	newer, older, err := r.src.Adjacent(r.ctx, slug)
	if err != nil {
		return err
	}

	href := postHref(slug)
	data := postPage{
		common:  r.common(p.Title, href),
		Post:    r.card(p.Meta),
		Content: trustedHTML(p.ContentHTML),
		TOC:     p.TOC,
		Related: r.cards(related),
	}
	if newer != nil {
		c := r.card(*newer)
		data.Newer = &c
	}
	if older != nil {
		c := r.card(*older)
		data.Older = &c
	}
	return r.page(slug+"/index.html", "post.html", data)
}

func (r *run) taxonomy(kind taxonomyKind, terms []termLink) error {
	for _, term := range terms {
		metas, err := kind.posts(r.ctx, r.src, term.Name)
		if err != nil {
			return err
		}
		rel := kind.dir + "/" + termDir(term.Name) + "/index.html"
		err = r.page(rel, "term.html", termPage{
			common: r.common(term.Label, term.Href),
			Kind:   kind.titleKey,
			Term:   term,
			Posts:  r.cards(metas),
		})
		if err != nil {
			return err
		}
	}
	return r.page(kind.dir+"/index.html", "terms.html", termsPage{
		common: r.common(i18n.T(r.opts.Language, kind.listKey), "/"+kind.dir+"/"),
		Terms:  terms,
	})
}

func (r *run) manifest() error {
	metas := r.metas
	if metas == nil {
		metas = []post.Meta{}
	}
	data, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode post manifest").Build()
	}
	return r.write("posts.json", data)
}

func (r *run) redirects() error {
	known := make(map[string]bool, len(r.metas))
	for _, m := range r.metas {
		known[m.Slug] = true
	}
	for _, rd := range r.opts.Redirects {
		if !known[rd.Slug+"-"+rd.ID] {
			slog.Warn("Redirect target has no post", logfields.Slug(rd.Slug), slog.String("target", rd.Target()))
		}
		out, err := r.templates.renderRedirect(rd.Target())
		if err != nil {
			return err
		}
		base := "post/" + termDir(rd.Slug)
		if err := r.write(base+".html", out); err != nil {
			return err
		}
		if err := r.write(base+"/index.html", out); err != nil {
			return err
		}
		r.summary.Redirects++
	}
	return nil
}

// terms resolves the label, link and post count of every term of kind.
func (r *run) terms(kind taxonomyKind) ([]termLink, error) {
	names, err := kind.names(r.ctx, r.src)
	if err != nil {
		return nil, err
	}
	out := make([]termLink, 0, len(names))
	for _, name := range names {
		label, err := kind.label(r.ctx, r.src, name)
		if err != nil {
			return nil, err
		}
		metas, err := kind.posts(r.ctx, r.src, name)
		if err != nil {
			return nil, err
		}
		out = append(out, termLink{
			Name:  name,
			Label: label,
			Href:  termHref(kind.dir, name),
			Count: len(metas),
		})
	}
	return out, nil
}

func (r *run) common(title, path string) common {
	c := common{
		Site: siteInfo{
			Title:       r.opts.Title,
			Description: r.opts.Description,
			BaseURL:     r.opts.BaseURL,
			Lang:        r.opts.Language,
		},
		Title: title,
		Year:  r.now().Year(),
	}
	if r.opts.BaseURL != "" {
		c.Canonical = r.opts.BaseURL + path
	}
	return c
}

func (r *run) cards(metas []post.Meta) []card {
	out := make([]card, 0, len(metas))
	for _, m := range metas {
		out = append(out, r.card(m))
	}
	return out
}

func (r *run) card(m post.Meta) card {
	c := card{
		Meta:     m,
		Href:     postHref(m.Slug),
		DateText: post.FormatDate(m.Date, r.opts.Language),
		Authors:  post.Authors(m),
		Lang:     r.opts.Language,
	}
	for _, cat := range m.Categories {
		c.CategoryLinks = append(c.CategoryLinks, termLink{Name: strings.ToLower(cat), Label: cat, Href: termHref("categories", cat)})
	}
	for _, tag := range m.Tags {
		c.TagLinks = append(c.TagLinks, termLink{Name: strings.ToLower(tag), Label: tag, Href: termHref("tags", tag)})
	}
	return c
}

func postHref(slug string) string {
	return "/" + url.PathEscape(slug) + "/"
}

func termHref(dir, term string) string {
	return "/" + dir + "/" + url.PathEscape(termDir(term)) + "/"
}

// termDir is the directory name of a taxonomy term: lower-cased, with path
// separators replaced.
func termDir(term string) string {
	d := strings.ToLower(strings.TrimSpace(term))
	d = strings.NewReplacer("/", "-", `\`, "-").Replace(d)
	d = strings.TrimLeft(d, ".")
	if d == "" {
		return "-"
	}
	return d
}
