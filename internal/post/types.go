// Package post defines the normalized post record and the pure functions that
// derive it from a content file: front matter parsing, date handling, reading
// time and excerpts.
package post

import (
	"time"

	"gopkg.in/yaml.v3"
)

// StringList accepts either a YAML sequence of strings or a single scalar.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || value.Value == "" {
			*l = nil
			return nil
		}
		*l = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return &yaml.TypeError{Errors: []string{"expected a string or a list of strings"}}
	}
}

// Frontmatter is the metadata block at the top of a content file. Keys the blog
// does not interpret are kept in Params for templates.
type Frontmatter struct {
	Title      string         `yaml:"title" json:"title"`
	Date       string         `yaml:"date" json:"date"`
	Author     string         `yaml:"author,omitempty" json:"author,omitempty"`
	Authors    StringList     `yaml:"authors,omitempty" json:"authors,omitempty"`
	Categories StringList     `yaml:"categories,omitempty" json:"categories,omitempty"`
	Tags       StringList     `yaml:"tags,omitempty" json:"tags,omitempty"`
	TOC        bool           `yaml:"toc,omitempty" json:"toc,omitempty"`
	Excerpt    string         `yaml:"excerpt,omitempty" json:"excerpt,omitempty"`
	Params     map[string]any `yaml:",inline" json:"params,omitempty"`
}

// TocItem is one entry of a post's table of contents.
type TocItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Depth int    `json:"depth"`
}

// Meta is a post without its body, as listed on index and taxonomy pages.
type Meta struct {
	Frontmatter
	Slug        string `json:"slug"`
	Filename    string `json:"filename"`
	ReadingTime int    `json:"readingTime"`
	Fingerprint string `json:"fingerprint,omitempty"`

	// Published is Date parsed; zero when Date is missing or malformed.
	Published time.Time `json:"-"`
}

// HasValidDate reports whether Date parsed.
func (m Meta) HasValidDate() bool {
	return !m.Published.IsZero()
}

// Post is a fully rendered post.
type Post struct {
	Meta
	Content     string    `json:"content"`
	ContentHTML string    `json:"contentHtml"`
	TOC         []TocItem `json:"tocItems"`
}
