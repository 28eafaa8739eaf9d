package content

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

const samplePost = `---
title: Godot itch plugin
date: 2023-12-01
toc: true
tags: [godot]
---
Intro text.

## Install

` + "```gdscript\nextends Node\n```\n" + `
## Usage
`

func TestStore_Filenames(t *testing.T) {
	fsys := fstest.MapFS{
		"2023-12-01-godot.md": {Data: []byte("x")},
		"about.md":            {Data: []byte("x")},
		".draft.md":           {Data: []byte("x")},
		"image.png":           {Data: []byte("x")},
		"sub/nested.md":       {Data: []byte("x")},
	}
	names, err := NewStore(fsys, "").Filenames()
	require.NoError(t, err)
	require.Equal(t, []string{"2023-12-01-godot", "about"}, names)
}

func TestStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("b"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0o600))

	s := OpenDir(dir, ".md")
	names, err := s.Filenames()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, names)

	f, err := s.Read("a")
	require.NoError(t, err)
	require.Equal(t, "a", f.Filename)
	require.Equal(t, []byte("a"), f.Raw)

	_, err = s.Read("zzz")
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	missing, err := OpenDir(filepath.Join(dir, "nope"), ".md").Filenames()
	require.NoError(t, err)
	require.Empty(t, missing)
}

func TestLoader_Load(t *testing.T) {
	fsys := fstest.MapFS{"2023-12-01-godot-itch-plugin.md": {Data: []byte(samplePost)}}
	l := NewLoader(NewStore(fsys, ".md"), markdown.New(markdown.Options{}))

	p, err := l.Load("2023-12-01-godot-itch-plugin")
	require.NoError(t, err)
	require.Equal(t, "godot-itch-plugin", p.Slug)
	require.Equal(t, "2023-12-01-godot-itch-plugin", p.Filename)
	require.Equal(t, "Intro text.", p.Excerpt)
	require.Equal(t, []post.TocItem{
		{ID: "install", Title: "Install", Depth: 2},
		{ID: "usage", Title: "Usage", Depth: 2},
	}, p.TOC)
	require.Contains(t, p.ContentHTML, `class="chroma"`)
	require.True(t, p.HasValidDate())
	require.NotEmpty(t, p.Fingerprint)
}

func TestLoader_DatePolicy(t *testing.T) {
	fsys := fstest.MapFS{"undated.md": {Data: []byte("---\ntitle: U\n---\nbody\n")}}
	store := NewStore(fsys, ".md")
	r := markdown.New(markdown.Options{})

	p, err := NewLoader(store, r).Load("undated")
	require.NoError(t, err)
	require.False(t, p.HasValidDate())

	_, err = NewLoader(store, r, WithDatePolicy(DatePolicyReject)).Load("undated")
	require.Error(t, err)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	file, _ := ce.Context().GetString("file")
	require.Equal(t, "undated.md", file)
}

func TestLoader_ParseErrorsCarryFile(t *testing.T) {
	fsys := fstest.MapFS{"bad.md": {Data: []byte("---\ntitle: [\n---\n")}}
	_, err := NewLoader(NewStore(fsys, ".md"), markdown.New(markdown.Options{})).Load("bad")
	require.Error(t, err)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, errors.CategoryContent, ce.Category())
	file, _ := ce.Context().GetString("file")
	require.Equal(t, "bad.md", file)
}

func TestFingerprint_IgnoresStoredFingerprintAndFormatting(t *testing.T) {
	a, _, err := post.ParseFrontmatter([]byte("---\ntitle: T\ntags: [x]\n---\n"))
	require.NoError(t, err)
	b, _, err := post.ParseFrontmatter([]byte("---\ntags:\n  - x\ntitle: \"T\"\nfingerprint: abc\n---\n"))
	require.NoError(t, err)

	fa, err := Fingerprint(a, "body")
	require.NoError(t, err)
	fb, err := Fingerprint(b, "body")
	require.NoError(t, err)
	require.Equal(t, fa, fb)
	require.Equal(t, "abc", b.Params["fingerprint"], "input is not mutated")

	fc, err := Fingerprint(a, "other body")
	require.NoError(t, err)
	require.NotEqual(t, fa, fc)
}
