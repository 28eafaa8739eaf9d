// Package content reads post files from the content directory and turns them
// into rendered posts.
package content

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// RawFile is one content file as read from the store.
type RawFile struct {
	// Filename is the base name without the content extension.
	Filename string
	Raw      []byte
}

// Store is a flat directory of content files.
type Store struct {
	fsys fs.FS
	ext  string
}

// NewStore returns a Store over fsys. An empty ext means ".md".
func NewStore(fsys fs.FS, ext string) *Store {
	if ext == "" {
		ext = slug.Extension
	}
	return &Store{fsys: fsys, ext: ext}
}

// OpenDir returns a Store over a directory on disk.
func OpenDir(dir, ext string) *Store {
	return NewStore(os.DirFS(dir), ext)
}

// Extension returns the content file extension.
func (s *Store) Extension() string {
	return s.ext
}

// Filenames lists content files without their extension, sorted. Hidden files
// and subdirectories are skipped. A missing directory holds no posts.
func (s *Store) Filenames() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			slog.Info("Content directory does not exist; no posts")
			return []string{}, nil
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to list content directory").Build()
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || path.Ext(name) != s.ext {
			continue
		}
		names = append(names, strings.TrimSuffix(name, s.ext))
	}
	sort.Strings(names)
	slog.Debug("Listed content files", logfields.Count(len(names)))
	return names, nil
}

// Read returns the file for filename, given without extension.
func (s *Store) Read(filename string) (RawFile, error) {
	raw, err := fs.ReadFile(s.fsys, filename+s.ext)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return RawFile{}, errors.WrapError(err, errors.CategoryNotFound, "content file not found").
				WithContext("file", filename+s.ext).
				Build()
		}
		return RawFile{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to read content file").
			WithContext("file", filename+s.ext).
			Build()
	}
	return RawFile{Filename: filename, Raw: raw}, nil
}
