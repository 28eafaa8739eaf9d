package content

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// DatePolicy decides what happens to a post whose date is missing or malformed.
type DatePolicy string

const (
	// DatePolicyWarn keeps the post and logs a warning. It sorts after all dated posts.
	DatePolicyWarn DatePolicy = "warn"
	// DatePolicyReject fails the post.
	DatePolicyReject DatePolicy = "reject"
)

// Loader turns content files into rendered posts.
type Loader struct {
	store      *Store
	renderer   *markdown.Renderer
	datePolicy DatePolicy
	recorder   metrics.Recorder
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDatePolicy sets the date policy. The default is DatePolicyWarn.
func WithDatePolicy(p DatePolicy) LoaderOption {
	return func(l *Loader) {
		if p != "" {
			l.datePolicy = p
		}
	}
}

// WithRecorder reports render durations to r.
func WithRecorder(r metrics.Recorder) LoaderOption {
	return func(l *Loader) {
		if r != nil {
			l.recorder = r
		}
	}
}

// NewLoader returns a Loader reading from store.
func NewLoader(store *Store, renderer *markdown.Renderer, opts ...LoaderOption) *Loader {
	l := &Loader{
		store:      store,
		renderer:   renderer,
		datePolicy: DatePolicyWarn,
		recorder:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Store returns the underlying content store.
func (l *Loader) Store() *Store {
	return l.store
}

// Load reads, parses and renders one post. filename is given without extension.
func (l *Loader) Load(filename string) (*post.Post, error) {
	file, err := l.store.Read(filename)
	if err != nil {
		return nil, err
	}
	return l.Parse(file)
}

// Parse turns an already read file into a post.
func (l *Loader) Parse(file RawFile) (*post.Post, error) {
	name := file.Filename + l.store.Extension()

	fm, body, err := post.ParseFrontmatter(file.Raw)
	if err != nil {
		return nil, withFile(err, name)
	}

	if _, ok := post.ParseDate(fm.Date); !ok {
		if l.datePolicy == DatePolicyReject {
			return nil, errors.ContentError("missing or invalid date").
				WithContext("file", name).
				WithContext("date", fm.Date).
				Build()
		}
		slog.Warn("Post has missing or invalid date; it will sort last",
			logfields.File(name), slog.String("date", fm.Date))
	}

	start := time.Now()
	rendered, err := l.renderer.Render([]byte(body))
	l.recorder.ObserveRenderDuration(time.Since(start))
	if err != nil {
		return nil, withFile(err, name)
	}

	toc := make([]post.TocItem, 0, len(rendered.TOC))
	for _, e := range rendered.TOC {
		toc = append(toc, post.TocItem{ID: e.ID, Title: e.Title, Depth: e.Depth})
	}
	p := post.Enrich(fm, file.Filename, body, rendered.HTML, toc)

	fp, err := Fingerprint(fm, body)
	if err != nil {
		slog.Warn("Failed to fingerprint post", logfields.File(name), logfields.Error(err))
	}
	p.Fingerprint = fp
	return p, nil
}

func withFile(err error, file string) error {
	if ce, ok := errors.AsClassified(err); ok {
		return ce.WithContext("file", file)
	}
	return errors.WrapError(err, errors.CategoryContent, "failed to load post").
		WithContext("file", file).
		Build()
}
