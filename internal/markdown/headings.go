package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

var tocKey = parser.NewContextKey()

// headingIDs assigns ids to headings and collects the table of contents into
// the parser context.
type headingIDs struct{}

func (headingIDs) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	slugger := slug.NewSlugger()
	toc := []TOCEntry{}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		title := strings.TrimSpace(plainText(h, source))
		if title == "" {
			return ast.WalkSkipChildren, nil
		}
		id := slugger.Slug(title)
		h.SetAttributeString("id", []byte(id))
		if h.Level == 2 || h.Level == 3 {
			toc = append(toc, TOCEntry{ID: id, Title: title, Depth: h.Level})
		}
		return ast.WalkSkipChildren, nil
	})

	pc.Set(tocKey, toc)
}

// plainText concatenates the text below n as it reads once rendered: escapes
// and character references are decoded. Image alt text and inline HTML are
// included.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	writeText(&b, n, source)
	return b.String()
}

func writeText(b *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(decode(t.Value(source)))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(util.ResolveEntityNames(util.ResolveNumericReferences(t.Value)))
		case *ast.AutoLink:
			b.Write(t.Label(source))
		case *ast.RawHTML:
			for i := 0; i < t.Segments.Len(); i++ {
				seg := t.Segments.At(i)
				b.Write(seg.Value(source))
			}
		default:
			writeText(b, c, source)
		}
	}
}

// decode resolves backslash escapes and character references in the same
// order goldmark applies them to link destinations.
func decode(v []byte) []byte {
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	return util.ResolveEntityNames(v)
}
