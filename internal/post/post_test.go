package post

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

func TestParseFrontmatter(t *testing.T) {
	raw := []byte(`---
title: Godot itch plugin
date: 2023-12-01
author: Marty
categories: gamedev
tags: [godot, Tools]
toc: true
cover: /img/cover.png
---
# Hello
`)
	fm, body, err := ParseFrontmatter(raw)
	require.NoError(t, err)
	require.Equal(t, "Godot itch plugin", fm.Title)
	require.Equal(t, "2023-12-01", fm.Date)
	require.Equal(t, "Marty", fm.Author)
	require.Equal(t, StringList{"gamedev"}, fm.Categories)
	require.Equal(t, StringList{"godot", "Tools"}, fm.Tags)
	require.True(t, fm.TOC)
	require.Equal(t, "/img/cover.png", fm.Params["cover"])
	require.Equal(t, "# Hello\n", body)
}

func TestParseFrontmatter_NoBlock(t *testing.T) {
	fm, body, err := ParseFrontmatter([]byte("just text\n"))
	require.NoError(t, err)
	require.Empty(t, fm.Title)
	require.Equal(t, "just text\n", body)
}

func TestParseFrontmatter_Errors(t *testing.T) {
	_, _, err := ParseFrontmatter([]byte("---\ntitle: x\n"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryContent))

	_, _, err = ParseFrontmatter([]byte("---\ntitle: [unclosed\n---\nbody\n"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryContent))

	_, _, err = ParseFrontmatter([]byte("---\ntags: {a: b}\n---\nbody\n"))
	require.Error(t, err, "mapping is not a string list")
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2024-01-05":                time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		"2024-01-05T10:30:00Z":      time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC),
		"2024-01-05T10:30:00":       time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC),
		"2024-01-05 10:30:00":       time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC),
		" 2024-01-05 ":              time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		"2024-01-05 10:30:00 +0000": time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, ok := ParseDate(in)
		require.True(t, ok, in)
		require.True(t, want.Equal(got), "%s: got %s", in, got)
	}

	for _, bad := range []string{"", "yesterday", "2024-13-45", "05/01/2024"} {
		_, ok := ParseDate(bad)
		require.False(t, ok, bad)
	}
}

func TestReadingTime(t *testing.T) {
	require.Equal(t, 2, ReadingTime(strings.Repeat("word ", 400)))
	require.Equal(t, 3, ReadingTime(strings.Repeat("word ", 401)))
	require.Equal(t, 1, ReadingTime("one"))
	require.Equal(t, 1, ReadingTime(""))

	withCode := strings.Repeat("word ", 200) + "\n```go\n" + strings.Repeat("x ", 500) + "\n```\n"
	require.Equal(t, 1, ReadingTime(withCode), "fenced code is not counted")

	withTags := strings.Repeat("<span>word</span> ", 200)
	require.Equal(t, 1, ReadingTime(withTags))
}

func TestExcerpt(t *testing.T) {
	require.Equal(t, "Hello world.", Excerpt("# Title\n\nHello **world**."))

	body := "## Intro\n\nSee [the docs](https://example.com) and ![logo](/logo.png) `code` here.<!--more-->\n\n" +
		"```go\nfunc main() {}\n```\n\n<div>Inside</div> _done_ ~~old~~"
	require.Equal(t, "See the docs and here. Inside done old", Excerpt(body))

	require.Equal(t, "keep snake_case names", Excerpt("keep snake_case names"))
	require.Equal(t, "a b", Excerpt("_a_ _b_"))
}

func TestExcerpt_StarEmphasisNeedsAdjacentText(t *testing.T) {
	require.Equal(t, "2 * 3 * 4 math", Excerpt("2 * 3 * 4 math"))
	require.Equal(t, "a * b and c d", Excerpt("a * b and *c d*"))
	require.Equal(t, "x", Excerpt("*x*"))
	require.Equal(t, "234 math", Excerpt("2*3*4 math"))
}

func TestExcerpt_Truncates(t *testing.T) {
	long := strings.Repeat("abcd ", 60)
	got := Excerpt(long)
	require.True(t, strings.HasSuffix(got, "..."))
	require.Equal(t, strings.TrimSpace(long[:200])+"...", got)

	runes := strings.Repeat("č", 250)
	got = Excerpt(runes)
	require.Equal(t, strings.Repeat("č", 200)+"...", got)
}

func TestEnrich(t *testing.T) {
	fm := Frontmatter{Title: "T", Date: "2024-01-05", TOC: true}
	toc := []TocItem{{ID: "a", Title: "A", Depth: 2}}

	p := Enrich(fm, "2024-01-05-my-post.md", "Hello there.", "<p>Hello there.</p>", toc)
	require.Equal(t, "my-post", p.Slug)
	require.Equal(t, "2024-01-05-my-post", p.Filename)
	require.Equal(t, 1, p.ReadingTime)
	require.Equal(t, "Hello there.", p.Excerpt)
	require.Equal(t, toc, p.TOC)
	require.True(t, p.HasValidDate())

	fm.TOC = false
	fm.Excerpt = "Authored."
	fm.Date = "soon"
	p = Enrich(fm, "about", "Body", "<p>Body</p>", toc)
	require.Equal(t, "about", p.Slug)
	require.Equal(t, "Authored.", p.Excerpt)
	require.Empty(t, p.TOC)
	require.NotNil(t, p.TOC)
	require.False(t, p.HasValidDate())
}

func TestAuthors(t *testing.T) {
	require.Equal(t, []string{"A", "B"}, Authors(Meta{Frontmatter: Frontmatter{Authors: StringList{"A", "B"}, Author: "C"}}))
	require.Equal(t, []string{"C"}, Authors(Meta{Frontmatter: Frontmatter{Author: "C"}}))
	require.Empty(t, Authors(Meta{}))
}

func TestFormatDate(t *testing.T) {
	require.Equal(t, "January 5, 2024", FormatDate("2024-01-05", "en"))
	require.Equal(t, "5. ledna 2024", FormatDate("2024-01-05", "cs"))
	require.Equal(t, "Invalid Date", FormatDate("not a date", "en"))
}

func TestFirstImage(t *testing.T) {
	require.Equal(t, "/a.png", FirstImage("text ![alt](/a.png) <img src=\"/b.png\">"))
	require.Equal(t, "/b.png", FirstImage("<img class=\"x\" src='/b.png'> ![alt](/a.png)"))
	require.Equal(t, "/c.png", FirstImage("![alt](</c.png>)"))
	require.Equal(t, "/d.png", FirstImage("![alt](/d.png \"title\")"))
	require.Empty(t, FirstImage("no images"))
}
