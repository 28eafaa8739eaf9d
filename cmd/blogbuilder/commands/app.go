package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/build"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/eventstore"
	"git.home.luguber.info/inful/blogbuilder/internal/index"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/notify"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// app is the set of components one command invocation works with.
type app struct {
	cfg       *config.Config
	renderer  *markdown.Renderer
	cache     *index.Cache
	writer    *site.Writer
	history   *eventstore.SQLiteStore
	publisher notify.Publisher
	recorder  metrics.Recorder
}

// newApp wires the content pipeline from cfg. The history database and the
// NATS publisher are only opened when withSinks is set.
func newApp(cfg *config.Config, recorder metrics.Recorder, withSinks bool) (*app, error) {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	a := &app{cfg: cfg, recorder: recorder, publisher: notify.NoopPublisher{}}

	a.renderer = markdown.New(markdown.Options{
		HighlightStyle:  cfg.Render.HighlightStyle,
		TabWidth:        cfg.Render.TabWidth,
		LanguageAliases: cfg.Render.LanguageAliases,
	})
	if _, err := os.Stat(cfg.Content.Directory); os.IsNotExist(err) {
		slog.Info("Content directory does not exist; the blog is empty", logfields.Path(cfg.Content.Directory))
	}
	loader := content.NewLoader(
		content.OpenDir(cfg.Content.Directory, cfg.Content.Extension),
		a.renderer,
		content.WithDatePolicy(cfg.Content.DatePolicy),
		content.WithRecorder(recorder),
	)
	a.cache = index.NewCache(loader, index.WithWorkers(cfg.Content.Workers), index.WithRecorder(recorder))

	writer, err := site.New(a.renderer, siteOptions(cfg))
	if err != nil {
		return nil, err
	}
	a.writer = writer

	if !withSinks {
		return a, nil
	}
	if err := a.openSinks(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openSinks() error {
	if db := a.cfg.History.Database; db != "" {
		if err := os.MkdirAll(filepath.Dir(db), 0o755); err != nil {
			return err
		}
		store, err := eventstore.NewSQLiteStore(db)
		if err != nil {
			return err
		}
		a.history = store
	}
	pub, err := notify.New(notify.NATSConfig{
		URL:       a.cfg.Notify.NATSURL,
		Subject:   a.cfg.Notify.Subject,
		JetStream: a.cfg.Notify.JetStream,
		Retry:     a.cfg.Notify.Retry.Policy(),
	})
	if err != nil {
		return err
	}
	a.publisher = pub
	return nil
}

// service returns a build service over the app's cache. A nil writer makes
// every build a dry run.
func (a *app) service() *build.Service {
	opts := []build.Option{build.WithRecorder(a.recorder), build.WithPublisher(a.publisher)}
	if a.history != nil {
		opts = append(opts, build.WithJournal(eventstore.NewJournal(a.history)))
	}
	return build.NewService(a.cache, a.writer, opts...)
}

// Close releases the history database and the NATS connection.
func (a *app) Close() {
	if err := a.publisher.Close(); err != nil {
		slog.Warn("Failed to close notification publisher", logfields.Error(err))
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			slog.Warn("Failed to close history database", logfields.Error(err))
		}
	}
}

func siteOptions(cfg *config.Config) site.Options {
	redirects := make([]site.Redirect, 0, len(cfg.Redirects))
	for _, r := range cfg.Redirects {
		redirects = append(redirects, site.Redirect{Slug: r.Slug, ID: r.ID})
	}
	return site.Options{
		OutputDir:   cfg.Output.Directory,
		Clean:       cfg.Output.Clean,
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		BaseURL:     cfg.Site.BaseURL,
		Language:    cfg.Site.Language,
		Redirects:   redirects,
	}
}
