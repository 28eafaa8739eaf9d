package site

import (
	"context"
	"html/template"

	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

type siteInfo struct {
	Title       string
	Description string
	BaseURL     string
	Lang        string
}

// common is embedded by every page model; the base layout reads it.
type common struct {
	Site      siteInfo
	Title     string
	Canonical string
	Year      int
}

type termLink struct {
	Name  string // lower-cased term
	Label string // authored spelling
	Href  string
	Count int
}

// card is a post as shown in lists.
type card struct {
	post.Meta
	Href          string
	DateText      string
	Authors       []string
	Lang          string
	CategoryLinks []termLink
	TagLinks      []termLink
}

type indexPage struct {
	common
	Posts      []card
	Categories []termLink
}

type postPage struct {
	common
	Post    card
	Content template.HTML
	TOC     []post.TocItem
	Related []card
	Newer   *card
	Older   *card
}

type termPage struct {
	common
	Kind  string // dictionary key of the page heading
	Term  termLink
	Posts []card
}

type termsPage struct {
	common
	Terms []termLink
}

// trustedHTML marks renderer output as safe. Post bodies are authored by the
// site owner and raw HTML in markdown is passed through on purpose.
func trustedHTML(s string) template.HTML {
	// #nosec G203 -- rendered from the site's own content
	return template.HTML(s)
}

// taxonomyKind binds a taxonomy to its Source queries and output directory.
type taxonomyKind struct {
	dir      string
	titleKey string
	listKey  string
	names    func(context.Context, Source) ([]string, error)
	posts    func(context.Context, Source, string) ([]post.Meta, error)
	label    func(context.Context, Source, string) (string, error)
}

var kindCategory = taxonomyKind{
	dir:      "categories",
	titleKey: "taxonomy.categoryTitle",
	listKey:  "taxonomy.categories",
	names:    func(ctx context.Context, s Source) ([]string, error) { return s.Categories(ctx) },
	posts:    func(ctx context.Context, s Source, n string) ([]post.Meta, error) { return s.PostsByCategory(ctx, n) },
	label:    func(ctx context.Context, s Source, n string) (string, error) { return s.CategoryLabel(ctx, n) },
}

var kindTag = taxonomyKind{
	dir:      "tags",
	titleKey: "taxonomy.tagTitle",
	listKey:  "taxonomy.tags",
	names:    func(ctx context.Context, s Source) ([]string, error) { return s.Tags(ctx) },
	posts:    func(ctx context.Context, s Source, n string) ([]post.Meta, error) { return s.PostsByTag(ctx, n) },
	label:    func(ctx context.Context, s Source, n string) (string, error) { return s.TagLabel(ctx, n) },
}
