// Package index aggregates loaded posts and answers list, detail, taxonomy and
// related-post queries.
package index

import (
	"context"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// LoadFailure is a content file that could not be loaded.
type LoadFailure struct {
	File string
	Err  error
}

// Cache memoizes the loaded content for one process. The first query loads
// every post; Invalidate drops everything so the next query reloads.
type Cache struct {
	loader   *content.Loader
	workers  int
	recorder metrics.Recorder

	mu        sync.RWMutex
	loaded    bool
	filenames []string
	bySlug    map[string]*post.Post
	sorted    []post.Meta
	failures  []LoadFailure
	loadedAt  time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithWorkers bounds parallel document loading. Zero or less uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *Cache) { c.workers = n }
}

// WithRecorder reports loaded and failed document counts to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Cache) {
		if r != nil {
			c.recorder = r
		}
	}
}

// NewCache returns an empty Cache over loader.
func NewCache(loader *content.Loader, opts ...Option) *Cache {
	c := &Cache{loader: loader, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(c)
	}
	if c.workers <= 0 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// Invalidate drops all memoized state.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.filenames = nil
	c.bySlug = nil
	c.sorted = nil
	c.failures = nil
}

// ensure loads the content unless it is already loaded.
func (c *Cache) ensure(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}
	return c.load(ctx)
}

// load must be called with mu held for writing.
func (c *Cache) load(ctx context.Context) error {
	filenames, err := c.loader.Store().Filenames()
	if err != nil {
		return err
	}
	if err := slug.CheckUnique(filenames); err != nil {
		return err
	}

	posts := make([]*post.Post, len(filenames))
	errs := make([]error, len(filenames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, fn := range filenames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			posts[i], errs[i] = c.loader.Load(fn)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "content load canceled").Build()
	}

	bySlug := make(map[string]*post.Post, len(filenames))
	sorted := make([]post.Meta, 0, len(filenames))
	var failures []LoadFailure
	for i, fn := range filenames {
		if errs[i] != nil {
			failures = append(failures, LoadFailure{File: fn + c.loader.Store().Extension(), Err: errs[i]})
			slog.Warn("Skipping post that failed to load",
				logfields.File(fn+c.loader.Store().Extension()), logfields.Error(errs[i]))
			continue
		}
		bySlug[posts[i].Slug] = posts[i]
		sorted = append(sorted, posts[i].Meta)
	}
	SortByDate(sorted)

	c.filenames = filenames
	c.bySlug = bySlug
	c.sorted = sorted
	c.failures = failures
	c.loaded = true
	c.loadedAt = time.Now()

	c.recorder.SetPostsLoaded(len(sorted))
	c.recorder.IncDocumentFailures(len(failures))
	slog.Info("Loaded posts", logfields.Count(len(sorted)), slog.Int("failed", len(failures)))
	return nil
}

// snapshot returns the sorted metas after ensuring the content is loaded.
func (c *Cache) snapshot(ctx context.Context) ([]post.Meta, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.sorted), nil
}

// Filenames lists content filenames without extension, sorted.
func (c *Cache) Filenames(ctx context.Context) ([]string, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.filenames), nil
}

// AllPosts returns every loaded post's metadata, newest first.
func (c *Cache) AllPosts(ctx context.Context) ([]post.Meta, error) {
	return c.snapshot(ctx)
}

// Slugs returns the slug of every loaded post in filename order.
func (c *Cache) Slugs(ctx context.Context) ([]string, error) {
	filenames, err := c.Filenames(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(filenames))
	for _, fn := range filenames {
		if s := slug.FilenameToSlug(fn); c.bySlug[s] != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

// PostBySlug returns the full post for slug. A slug matching no loaded post is
// a not-found error; a slug whose file failed to load returns that failure.
func (c *Cache) PostBySlug(ctx context.Context, s string) (*post.Post, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if p, ok := c.bySlug[s]; ok {
		return p, nil
	}
	if fn, ok := slug.FindFilenameBySlug(s, c.filenames); ok {
		for _, f := range c.failures {
			if f.File == fn+c.loader.Store().Extension() {
				return nil, f.Err
			}
		}
		if p, ok := c.bySlug[slug.FilenameToSlug(fn)]; ok {
			return p, nil
		}
	}
	return nil, errors.NotFoundError("post not found").WithContext("slug", s).Build()
}

// PostsByCategory returns posts in category, newest first.
func (c *Cache) PostsByCategory(ctx context.Context, category string) ([]post.Meta, error) {
	metas, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByCategory(metas, category), nil
}

// PostsByTag returns posts carrying tag, newest first.
func (c *Cache) PostsByTag(ctx context.Context, tag string) ([]post.Meta, error) {
	metas, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByTag(metas, tag), nil
}

// Categories returns every category, lower-cased and sorted.
func (c *Cache) Categories(ctx context.Context) ([]string, error) {
	metas, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return CollectCategories(metas), nil
}

// Tags returns every tag, lower-cased and sorted.
func (c *Cache) Tags(ctx context.Context) ([]string, error) {
	metas, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return CollectTags(metas), nil
}

// Related returns up to limit posts related to slug. An unknown slug is a
// not-found error.
func (c *Cache) Related(ctx context.Context, s string, limit int) ([]post.Meta, error) {
	metas, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(metas, func(m post.Meta) bool { return m.Slug == s }) {
		return nil, errors.NotFoundError("post not found").WithContext("slug", s).Build()
	}
	return Related(metas, s, limit), nil
}

// Adjacent returns the newer and older neighbours of slug.
func (c *Cache) Adjacent(ctx context.Context, s string) (newer, older *post.Meta, err error) {
	metas, err := c.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	newer, older = Adjacent(metas, s)
	return newer, older, nil
}

// CategoryLabel returns the authored spelling of a lower-cased category.
func (c *Cache) CategoryLabel(ctx context.Context, name string) (string, error) {
	metas, err := c.snapshot(ctx)
	if err != nil {
		return "", err
	}
	return Label(metas, func(m post.Meta) []string { return m.Categories }, name), nil
}

// TagLabel returns the authored spelling of a lower-cased tag.
func (c *Cache) TagLabel(ctx context.Context, name string) (string, error) {
	metas, err := c.snapshot(ctx)
	if err != nil {
		return "", err
	}
	return Label(metas, func(m post.Meta) []string { return m.Tags }, name), nil
}

// Report returns the failures of the last load.
func (c *Cache) Report() []LoadFailure {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.failures)
}

// LoadedAt returns when the content was last loaded, zero if it is not loaded.
func (c *Cache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return time.Time{}
	}
	return c.loadedAt
}
