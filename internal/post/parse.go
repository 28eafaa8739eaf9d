package post

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
)

// ParseFrontmatter splits raw file content into front matter and body. A file
// without a front matter block is all body.
func ParseFrontmatter(raw []byte) (Frontmatter, string, error) {
	var fm Frontmatter

	block, body, had, _, err := frontmatter.Split(raw)
	if err != nil {
		return fm, "", errors.WrapError(err, errors.CategoryContent, "invalid front matter block").Build()
	}
	if !had {
		return fm, string(body), nil
	}
	if err := frontmatter.Decode(block, &fm); err != nil {
		return fm, "", errors.WrapError(err, errors.CategoryContent, "invalid front matter YAML").Build()
	}
	return fm, string(body), nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02",
}

// ParseDate parses an authored date in one of the accepted layouts. Dates
// without a zone are taken as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
