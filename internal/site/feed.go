package site

import (
	"encoding/xml"
	"net/http"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/i18n"
)

// FeedLimit caps the number of items in feed.xml.
const FeedLimit = 20

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category"`
}

// feed writes an RSS 2.0 feed of the newest posts. Links are absolute when a
// base URL is configured.
func (r *run) feed() error {
	description := r.opts.Description
	if description == "" {
		description = i18n.T(r.opts.Language, "home.subtitle")
	}
	doc := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:         r.opts.Title,
			Link:          r.opts.BaseURL + "/",
			Description:   description,
			Language:      r.opts.Language,
			LastBuildDate: r.now().UTC().Format(http.TimeFormat),
		},
	}
	for _, m := range r.metas[:min(FeedLimit, len(r.metas))] {
		link := r.opts.BaseURL + postHref(m.Slug)
		item := rssItem{
			Title:       m.Title,
			Link:        link,
			GUID:        link,
			Description: m.Excerpt,
			Categories:  append(append([]string{}, m.Categories...), m.Tags...),
		}
		if m.HasValidDate() {
			item.PubDate = m.Published.UTC().Format(time.RFC1123Z)
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode feed").Build()
	}
	return r.write("feed.xml", append([]byte(xml.Header), out...))
}
