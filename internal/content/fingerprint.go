package content

import (
	"maps"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// Fingerprint computes the mdfp content fingerprint of a post. The front matter
// is re-encoded canonically with LF newlines and any stored fingerprint field
// removed, so formatting-only edits to the YAML do not change the result.
func Fingerprint(fm post.Frontmatter, body string) (string, error) {
	if len(fm.Params) > 0 {
		fm.Params = maps.Clone(fm.Params)
		delete(fm.Params, mdfp.FingerprintField)
	}

	encoded, err := frontmatter.Encode(fm, frontmatter.Style{Newline: "\n"})
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(encoded), "\n"), body), nil
}
