// Package linkverify checks that rendered posts are internally consistent:
// table of contents entries and in-page links resolve to element ids, ids are
// unique, and links to other posts name posts that exist.
package linkverify

import (
	"fmt"
	"sort"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/util/sets"
)

// IssueKind classifies a verification finding.
type IssueKind string

const (
	IssueMissingTOCTarget IssueKind = "missing_toc_target"
	IssueDuplicateID      IssueKind = "duplicate_id"
	IssueBrokenFragment   IssueKind = "broken_fragment"
	IssueUnknownPost      IssueKind = "unknown_post"
)

// Issue is one problem found in a post.
type Issue struct {
	Slug   string    `json:"slug"`
	Kind   IssueKind `json:"kind"`
	Target string    `json:"target"`
	Text   string    `json:"text,omitempty"`
}

func (i Issue) String() string {
	if i.Text != "" {
		return fmt.Sprintf("%s: %s %q (%s)", i.Slug, i.Kind, i.Target, i.Text)
	}
	return fmt.Sprintf("%s: %s %q", i.Slug, i.Kind, i.Target)
}

// Verifier checks posts against the set of published slugs.
type Verifier struct {
	slugs sets.Set[string]
}

// NewVerifier returns a Verifier. Site-relative links of the form /<slug> or
// /<slug>/ are checked against slugs; an empty list disables that check.
func NewVerifier(slugs []string) *Verifier {
	return &Verifier{slugs: sets.New(slugs...)}
}

// VerifyPost reports issues in one post, ordered by kind then target.
func (v *Verifier) VerifyPost(p *post.Post) ([]Issue, error) {
	page, err := Extract(strings.NewReader(p.ContentHTML))
	if err != nil {
		return nil, err
	}

	var issues []Issue
	add := func(kind IssueKind, target, text string) {
		issues = append(issues, Issue{Slug: p.Slug, Kind: kind, Target: target, Text: text})
	}

	for _, item := range p.TOC {
		if page.IDs[item.ID] == 0 {
			add(IssueMissingTOCTarget, item.ID, item.Title)
		}
	}
	for id, n := range page.IDs {
		if n > 1 {
			add(IssueDuplicateID, id, fmt.Sprintf("%d occurrences", n))
		}
	}
	for _, l := range page.Links {
		switch {
		case l.External:
		case l.InPage():
			if l.Fragment != "" && page.IDs[l.Fragment] == 0 {
				add(IssueBrokenFragment, l.Href, l.Text)
			}
		case len(v.slugs) > 0:
			if target, ok := postSlug(l.Path); ok && !v.slugs.Has(target) {
				add(IssueUnknownPost, l.Href, l.Text)
			}
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Kind != issues[j].Kind {
			return issues[i].Kind < issues[j].Kind
		}
		return issues[i].Target < issues[j].Target
	})
	return issues, nil
}

// VerifyAll verifies every post. A post whose HTML cannot be parsed is
// reported through the returned error map keyed by slug.
func (v *Verifier) VerifyAll(posts []*post.Post) ([]Issue, map[string]error) {
	var issues []Issue
	failed := map[string]error{}
	for _, p := range posts {
		found, err := v.VerifyPost(p)
		if err != nil {
			failed[p.Slug] = err
			continue
		}
		issues = append(issues, found...)
	}
	return issues, failed
}

// postSlug extracts the slug from a single-segment site path such as /my-post
// or /my-post/. Deeper paths are not post links.
func postSlug(path string) (string, bool) {
	if !strings.HasPrefix(path, "/") {
		return "", false
	}
	s := strings.Trim(path, "/")
	if s == "" || strings.Contains(s, "/") || strings.Contains(s, ".") {
		return "", false
	}
	return s, true
}
