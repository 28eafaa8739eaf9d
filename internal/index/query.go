package index

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"sort"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/util/sets"
)

// DefaultRelatedLimit is the number of related posts returned when no limit is given.
const DefaultRelatedLimit = 3

// SortByDate orders metas newest first. Posts without a valid date go last.
// The sort is stable, so ties keep their input order.
func SortByDate(metas []post.Meta) {
	sort.SliceStable(metas, func(i, j int) bool {
		return isNewer(metas[i], metas[j])
	})
}

// isNewer reports whether a sorts before b by date.
func isNewer(a, b post.Meta) bool {
	switch {
	case a.HasValidDate() && b.HasValidDate():
		return a.Published.After(b.Published)
	case a.HasValidDate():
		return true
	default:
		return false
	}
}

// FilterByCategory returns metas carrying category, compared case-insensitively.
func FilterByCategory(metas []post.Meta, category string) []post.Meta {
	return filter(metas, func(m post.Meta) []string { return m.Categories }, category)
}

// FilterByTag returns metas carrying tag, compared case-insensitively.
func FilterByTag(metas []post.Meta, tag string) []post.Meta {
	return filter(metas, func(m post.Meta) []string { return m.Tags }, tag)
}

func filter(metas []post.Meta, terms func(post.Meta) []string, want string) []post.Meta {
	out := []post.Meta{}
	for _, m := range metas {
		if slices.ContainsFunc(terms(m), func(t string) bool { return strings.EqualFold(t, want) }) {
			out = append(out, m)
		}
	}
	return out
}

// CollectCategories returns every category, lower-cased, deduplicated and sorted.
func CollectCategories(metas []post.Meta) []string {
	return collect(metas, func(m post.Meta) []string { return m.Categories })
}

// CollectTags returns every tag, lower-cased, deduplicated and sorted.
func CollectTags(metas []post.Meta) []string {
	return collect(metas, func(m post.Meta) []string { return m.Tags })
}

func collect(metas []post.Meta, terms func(post.Meta) []string) []string {
	all := sets.New[string]()
	for _, m := range metas {
		for _, t := range terms(m) {
			all.Add(strings.ToLower(t))
		}
	}
	return sets.Sorted(all)
}

// Related ranks metas against the post with slug: each of a candidate's tags
// found on the post scores 2 and each such category scores 1, compared
// case-insensitively. A term repeated on the candidate scores every time. Posts scoring 0
// and the post itself are excluded. Higher scores come first, then newer posts.
// An unknown slug yields no results.
func Related(metas []post.Meta, slug string, limit int) []post.Meta {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	i := slices.IndexFunc(metas, func(m post.Meta) bool { return m.Slug == slug })
	if i < 0 {
		return []post.Meta{}
	}
	current := metas[i]
	tags := sets.Map(current.Tags, strings.ToLower)
	categories := sets.Map(current.Categories, strings.ToLower)

	type scored struct {
		meta  post.Meta
		score int
	}
	var candidates []scored
	for _, m := range metas {
		if m.Slug == slug {
			continue
		}
		score := 2*tags.CountIn(lower(m.Tags)) + categories.CountIn(lower(m.Categories))
		if score > 0 {
			candidates = append(candidates, scored{meta: m, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return isNewer(candidates[i].meta, candidates[j].meta)
	})

	out := make([]post.Meta, 0, min(limit, len(candidates)))
	for _, c := range candidates[:min(limit, len(candidates))] {
		out = append(out, c.meta)
	}
	return out
}

func lower(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}

// Adjacent returns the posts directly before and after slug in sorted order:
// newer is the next more recent post, older the next less recent one.
func Adjacent(sorted []post.Meta, slug string) (newer, older *post.Meta) {
	i := slices.IndexFunc(sorted, func(m post.Meta) bool { return m.Slug == slug })
	if i < 0 {
		return nil, nil
	}
	if i > 0 {
		m := sorted[i-1]
		newer = &m
	}
	if i+1 < len(sorted) {
		m := sorted[i+1]
		older = &m
	}
	return newer, older
}

// Label returns the first authored spelling of a lower-cased taxonomy term, in
// sorted post order. The term itself is returned when no post carries it.
func Label(metas []post.Meta, terms func(post.Meta) []string, name string) string {
	for _, m := range metas {
		for _, t := range terms(m) {
			if strings.EqualFold(t, name) {
				return t
			}
		}
	}
	return name
}

// Digest hashes slugs and fingerprints of metas into a stable identifier of
// the content set, independent of order.
func Digest(metas []post.Meta) string {
	keys := make([]string, 0, len(metas))
	for _, m := range metas {
		keys = append(keys, m.Slug+"\x00"+m.Fingerprint)
	}
	slices.Sort(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
