package linkverify

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Link is an <a href> found in rendered HTML.
type Link struct {
	Href string
	Text string
	// Fragment is the part after '#', unescaped; empty when there is none.
	Fragment string
	// Path is the URL path for site-relative links, empty for in-page and
	// external links.
	Path string
	// External marks links with a scheme or host, and mailto/tel links.
	External bool
}

// InPage reports whether the link targets an anchor on the same page.
func (l Link) InPage() bool {
	return strings.HasPrefix(l.Href, "#")
}

// Page is what verification needs from one rendered HTML fragment.
type Page struct {
	// IDs counts each id attribute value.
	IDs   map[string]int
	Links []Link
}

// Extract parses an HTML fragment and collects element ids and anchors.
func Extract(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to parse rendered HTML").Build()
	}

	page := &Page{IDs: map[string]int{}}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := getAttr(n, "id"); id != "" {
				page.IDs[id]++
			}
			if n.Data == "a" {
				if href, ok := lookupAttr(n, "href"); ok {
					page.Links = append(page.Links, newLink(href, extractText(n)))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return page, nil
}

func newLink(href, text string) Link {
	l := Link{Href: href, Text: text}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") || strings.HasPrefix(lower, "javascript:") {
		l.External = true
		return l
	}

	u, err := url.Parse(href)
	if err != nil {
		l.External = true
		return l
	}
	l.Fragment = u.Fragment
	if u.Scheme != "" || u.Host != "" {
		l.External = true
		return l
	}
	l.Path = u.Path
	return l
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func getAttr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

// extractText returns the text content of n and its children.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := extractText(c); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
