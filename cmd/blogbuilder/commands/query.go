package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/server/responses"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	Kind     string `arg:"" optional:"" enum:"posts,categories,tags" default:"posts" help:"What to list (posts|categories|tags)"`
	Category string `help:"Only posts in this category"`
	Tag      string `help:"Only posts with this tag"`
	JSON     bool   `name:"json" help:"Print JSON"`
}

func (l *ListCmd) Run(_ *Global, root *CLI) error {
	a, err := queryApp(root)
	if err != nil {
		return err
	}
	ctx := context.Background()

	switch l.Kind {
	case "categories":
		terms, err := collectTerms(ctx, a.cache.Categories, a.cache.CategoryLabel, a.cache.PostsByCategory)
		if err != nil {
			return err
		}
		return printTerms(root.out(), terms, l.JSON)
	case "tags":
		terms, err := collectTerms(ctx, a.cache.Tags, a.cache.TagLabel, a.cache.PostsByTag)
		if err != nil {
			return err
		}
		return printTerms(root.out(), terms, l.JSON)
	}

	var metas []post.Meta
	switch {
	case l.Category != "" && l.Tag != "":
		return errors.ValidationError("use --category or --tag, not both").Build()
	case l.Category != "":
		metas, err = a.cache.PostsByCategory(ctx, l.Category)
	case l.Tag != "":
		metas, err = a.cache.PostsByTag(ctx, l.Tag)
	default:
		metas, err = a.cache.AllPosts(ctx)
	}
	if err != nil {
		return err
	}
	return printMetas(root.out(), metas, l.JSON)
}

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	Slug string `arg:"" help:"Post slug or filename"`
	HTML bool   `name:"html" help:"Print the rendered HTML instead of the markdown source"`
	JSON bool   `name:"json" help:"Print the full post as JSON"`
}

func (s *ShowCmd) Run(_ *Global, root *CLI) error {
	a, err := queryApp(root)
	if err != nil {
		return err
	}
	p, err := a.cache.PostBySlug(context.Background(), s.Slug)
	if err != nil {
		return err
	}
	w := root.out()
	if s.JSON {
		return writeJSON(w, p)
	}

	_, _ = fmt.Fprintf(w, "%s\n", p.Title)
	_, _ = fmt.Fprintf(w, "slug:       %s\n", p.Slug)
	_, _ = fmt.Fprintf(w, "file:       %s\n", p.Filename)
	_, _ = fmt.Fprintf(w, "date:       %s\n", p.Date)
	if authors := post.Authors(p.Meta); len(authors) > 0 {
		_, _ = fmt.Fprintf(w, "authors:    %s\n", strings.Join(authors, ", "))
	}
	if len(p.Categories) > 0 {
		_, _ = fmt.Fprintf(w, "categories: %s\n", strings.Join(p.Categories, ", "))
	}
	if len(p.Tags) > 0 {
		_, _ = fmt.Fprintf(w, "tags:       %s\n", strings.Join(p.Tags, ", "))
	}
	_, _ = fmt.Fprintf(w, "reading:    %d min\n\n", p.ReadingTime)
	if s.HTML {
		_, _ = fmt.Fprintln(w, p.ContentHTML)
	} else {
		_, _ = fmt.Fprintln(w, p.Content)
	}
	return nil
}

// RelatedCmd implements the 'related' command.
type RelatedCmd struct {
	Slug  string `arg:"" help:"Post slug"`
	Limit int    `short:"n" help:"Maximum number of posts" default:"3"`
	JSON  bool   `name:"json" help:"Print JSON"`
}

func (r *RelatedCmd) Run(_ *Global, root *CLI) error {
	if r.Limit < 1 {
		return errors.ValidationError("limit must be at least 1").WithContext("limit", r.Limit).Build()
	}
	a, err := queryApp(root)
	if err != nil {
		return err
	}
	metas, err := a.cache.Related(context.Background(), r.Slug, r.Limit)
	if err != nil {
		return err
	}
	return printMetas(root.out(), metas, r.JSON)
}

func queryApp(root *CLI) (*app, error) {
	cfg, err := root.LoadConfig()
	if err != nil {
		return nil, err
	}
	return newApp(cfg, nil, false)
}

func collectTerms(
	ctx context.Context,
	names func(context.Context) ([]string, error),
	label func(context.Context, string) (string, error),
	posts func(context.Context, string) ([]post.Meta, error),
) ([]responses.TermResponse, error) {
	list, err := names(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]responses.TermResponse, 0, len(list))
	for _, name := range list {
		l, err := label(ctx, name)
		if err != nil {
			return nil, err
		}
		metas, err := posts(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, responses.TermResponse{Name: name, Label: l, Count: len(metas)})
	}
	return out, nil
}

func printMetas(w io.Writer, metas []post.Meta, asJSON bool) error {
	if asJSON {
		if metas == nil {
			metas = []post.Meta{}
		}
		return writeJSON(w, metas)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DATE\tSLUG\tTITLE\tMIN")
	for _, m := range metas {
		date := m.Date
		if !m.HasValidDate() {
			date = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", date, m.Slug, m.Title, m.ReadingTime)
	}
	return tw.Flush()
}

func printTerms(w io.Writer, terms []responses.TermResponse, asJSON bool) error {
	if asJSON {
		return writeJSON(w, terms)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tLABEL\tPOSTS")
	for _, t := range terms {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\n", t.Name, t.Label, t.Count)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
