package post

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"git.home.luguber.info/inful/blogbuilder/internal/i18n"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 200

// ExcerptLength is the maximum excerpt length in runes, before the ellipsis.
const ExcerptLength = 200

var (
	htmlTag    = regexp.MustCompile(`<[^>]+>`)
	codeFence  = regexp.MustCompile("(?s)```.*?```")
	inlineCode = regexp.MustCompile("`[^`]*`")
	headerLine = regexp.MustCompile(`(?m)^#{1,6}\s+.+$`)
	image      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	link       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	strong     = regexp.MustCompile(`\*\*|__|~~`)
	starEm     = regexp.MustCompile(`\*([^*\s](?:[^*\n]*[^*\s])?)\*`)
	underEm    = regexp.MustCompile(`(^|[^\w])_([^_\n]+)_([^\w]|$)`)
	spaces     = regexp.MustCompile(`\s+`)

	mdImage   = regexp.MustCompile(`!\[[^\]]*\]\(\s*<?([^)\s>]+)>?`)
	htmlImage = regexp.MustCompile(`(?i)<img\s[^>]*?src\s*=\s*["']([^"']+)["']`)
)

// ReadingTime estimates minutes to read body. HTML tags and fenced code are not
// counted. The result is at least 1.
func ReadingTime(body string) int {
	text := htmlTag.ReplaceAllString(body, "")
	text = codeFence.ReplaceAllString(text, "")
	words := len(strings.Fields(text))
	return max(1, int(math.Ceil(float64(words)/WordsPerMinute)))
}

// Excerpt derives a plain-text summary of body. Output longer than
// ExcerptLength runes is cut and suffixed with "...".
//
// A star pair only counts as emphasis when it hugs its text, so "2 * 3 * 4"
// survives. Intraword pairs such as "2*3*4" are emphasis in CommonMark and are
// stripped like the renderer would.
func Excerpt(body string) string {
	text := strings.ReplaceAll(body, "<!--more-->", "")
	text = headerLine.ReplaceAllString(text, "")
	text = image.ReplaceAllString(text, "")
	text = link.ReplaceAllString(text, "$1")
	text = codeFence.ReplaceAllString(text, "")
	text = inlineCode.ReplaceAllString(text, "")
	text = htmlTag.ReplaceAllString(text, "")
	text = strong.ReplaceAllString(text, "")
	text = starEm.ReplaceAllString(text, "$1")
	// Adjacent matches share a separator, so a second pass catches the rest.
	text = underEm.ReplaceAllString(text, "$1$2$3")
	text = underEm.ReplaceAllString(text, "$1$2$3")
	text = strings.TrimSpace(spaces.ReplaceAllString(text, " "))

	if utf8.RuneCountInString(text) <= ExcerptLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:ExcerptLength])) + "..."
}

// Enrich assembles a Post from its parsed parts. filename may carry the
// content extension. An authored excerpt wins over the derived one, and the
// table of contents is only kept when the front matter asks for it.
func Enrich(fm Frontmatter, filename, body, html string, toc []TocItem) *Post {
	name := strings.TrimSuffix(filename, slug.Extension)

	p := &Post{
		Meta: Meta{
			Frontmatter: fm,
			Slug:        slug.FilenameToSlug(name),
			Filename:    name,
			ReadingTime: ReadingTime(body),
		},
		Content:     body,
		ContentHTML: html,
		TOC:         []TocItem{},
	}
	if p.Excerpt == "" {
		p.Excerpt = Excerpt(body)
	}
	if t, ok := ParseDate(fm.Date); ok {
		p.Published = t
	}
	if fm.TOC && len(toc) > 0 {
		p.TOC = append(p.TOC, toc...)
	}
	return p
}

// Authors lists the post's authors: the authors list when present, otherwise
// the single author, otherwise nothing.
func Authors(m Meta) []string {
	if len(m.Authors) > 0 {
		return m.Authors
	}
	if m.Author != "" {
		return []string{m.Author}
	}
	return nil
}

// FormatDate renders an authored date in the long form of lang.
func FormatDate(date, lang string) string {
	t, _ := ParseDate(date)
	return i18n.FormatDate(t, lang)
}

// FirstImage returns the source of the first markdown or HTML image in body,
// or "" when there is none.
func FirstImage(body string) string {
	md := mdImage.FindStringSubmatchIndex(body)
	tag := htmlImage.FindStringSubmatchIndex(body)
	switch {
	case md == nil && tag == nil:
		return ""
	case tag == nil || md != nil && md[0] < tag[0]:
		return body[md[2]:md[3]]
	default:
		return body[tag[2]:tag[3]]
	}
}
