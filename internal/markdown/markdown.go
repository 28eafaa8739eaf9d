// Package markdown renders post bodies to HTML with heading anchors, a table of
// contents and highlighted code blocks.
package markdown

import (
	"bytes"
	"io"
	"maps"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// DefaultLanguageAliases maps fence languages chroma does not know onto close
// relatives.
var DefaultLanguageAliases = map[string]string{
	"gdscript": "python",
	"gd":       "python",
}

// Options configures a Renderer.
type Options struct {
	// HighlightStyle names a chroma style; unknown names fall back to chroma's default.
	HighlightStyle string
	TabWidth       int
	// LanguageAliases is merged over DefaultLanguageAliases.
	LanguageAliases map[string]string
}

// TOCEntry is a depth 2 or 3 heading.
type TOCEntry struct {
	ID    string
	Title string
	Depth int
}

// Result is one rendered document.
type Result struct {
	HTML string
	TOC  []TOCEntry
}

// Renderer converts markdown to HTML. It holds no per-document state and may be
// used from multiple goroutines.
type Renderer struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
	aliases   map[string]string
}

// New returns a Renderer for opts.
func New(opts Options) *Renderer {
	tabWidth := opts.TabWidth
	if tabWidth <= 0 {
		tabWidth = 4
	}
	aliases := maps.Clone(DefaultLanguageAliases)
	maps.Copy(aliases, opts.LanguageAliases)

	return &Renderer{
		style: styles.Get(opts.HighlightStyle),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.TabWidth(tabWidth),
		),
		aliases: aliases,
	}
}

// Render converts body to HTML. Every heading gets an id attribute unique within
// the document; depth 2 and 3 headings are returned as the table of contents.
func (r *Renderer) Render(body []byte) (Result, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(headingIDs{}, 100)),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(&codeBlockRenderer{
				style:     r.style,
				formatter: r.formatter,
				aliases:   r.aliases,
			}, 200)),
		),
	)

	pc := parser.NewContext()
	var buf bytes.Buffer
	if err := md.Convert(body, &buf, parser.WithContext(pc)); err != nil {
		return Result{}, errors.WrapError(err, errors.CategoryRender, "markdown conversion failed").Build()
	}

	toc, _ := pc.Get(tocKey).([]TOCEntry)
	if toc == nil {
		toc = []TOCEntry{}
	}
	return Result{HTML: buf.String(), TOC: toc}, nil
}

// WriteCSS writes the stylesheet for the highlight classes emitted by Render.
func (r *Renderer) WriteCSS(w io.Writer) error {
	return r.formatter.WriteCSS(w, r.style)
}
