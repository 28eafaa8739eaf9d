package build

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogbuilder/internal/eventstore"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/index"
	"git.home.luguber.info/inful/blogbuilder/internal/linkverify"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/notify"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// SiteWriter renders the index to disk. *site.Writer implements it.
type SiteWriter interface {
	Write(ctx context.Context, src site.Source) (*site.Summary, error)
}

// Service runs builds over one content cache.
type Service struct {
	cache     *index.Cache
	writer    SiteWriter
	recorder  metrics.Recorder
	journal   *eventstore.Journal
	publisher notify.Publisher
	newID     func() string
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder reports build and stage metrics to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithJournal records build events in j.
func WithJournal(j *eventstore.Journal) Option {
	return func(s *Service) { s.journal = j }
}

// WithPublisher announces finished builds on p.
func WithPublisher(p notify.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// NewService returns a Service building cache with writer. A nil writer makes
// every build a dry run.
func NewService(cache *index.Cache, writer SiteWriter, opts ...Option) *Service {
	s := &Service{
		cache:     cache,
		writer:    writer,
		recorder:  metrics.NoopRecorder{},
		publisher: notify.NoopPublisher{},
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the content cache the service builds.
func (s *Service) Cache() *index.Cache {
	return s.cache
}

// Run executes one build. The returned Result is never nil; the error is the
// cause of a failed outcome.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Trigger == "" {
		req.Trigger = TriggerManual
	}
	res := &Result{
		BuildID:   s.newID(),
		Trigger:   req.Trigger,
		StartTime: time.Now(),
	}
	log := slog.With(logfields.BuildID(res.BuildID))
	log.Info("Build started", slog.String("trigger", string(req.Trigger)))
	s.journalErr(log, s.journal.BuildStarted(ctx, res.BuildID, string(req.Trigger)))

	err := s.run(ctx, req, res, log)
	s.finish(ctx, res, err, log)
	return res, err
}

func (s *Service) run(ctx context.Context, req Request, res *Result, log *slog.Logger) error {
	if req.Reload {
		s.cache.Invalidate()
	}

	var metas []post.Meta
	err := s.stage(ctx, metrics.StageLoad, log, func() error {
		var err error
		metas, err = s.cache.AllPosts(ctx)
		if err != nil {
			return err
		}
		res.Posts = len(metas)
		res.Failures = s.cache.Report()
		res.Digest = index.Digest(metas)
		for _, f := range res.Failures {
			s.journalErr(log, s.journal.PostFailed(ctx, res.BuildID, f.File, f.Err))
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = s.stage(ctx, metrics.StageVerify, log, func() error {
		issues, err := s.verify(ctx, metas, log)
		res.Issues = issues
		return err
	})
	if err != nil {
		return err
	}

	if req.DryRun || s.writer == nil {
		return nil
	}
	return s.stage(ctx, metrics.StageWrite, log, func() error {
		summary, err := s.writer.Write(ctx, s.cache)
		res.Site = summary
		return err
	})
}

// stage times fn and records its result.
func (s *Service) stage(ctx context.Context, name string, log *slog.Logger, fn func() error) error {
	if err := ctx.Err(); err != nil {
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
		return errors.WrapError(err, errors.CategoryRuntime, "build canceled").
			WithContext("stage", name).
			Build()
	}
	start := time.Now()
	err := fn()
	d := time.Since(start)
	s.recorder.ObserveStageDuration(name, d)
	switch {
	case err == nil:
		s.recorder.IncStageResult(name, metrics.ResultSuccess)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		s.recorder.IncStageResult(name, metrics.ResultFatal)
	}
	log.Debug("Stage finished", logfields.Stage(name), logfields.DurationMS(float64(d.Microseconds())/1000))
	return err
}

// verify checks anchors and cross-post links of every loaded post.
func (s *Service) verify(ctx context.Context, metas []post.Meta, log *slog.Logger) ([]linkverify.Issue, error) {
	slugs := make([]string, 0, len(metas))
	posts := make([]*post.Post, 0, len(metas))
	for _, m := range metas {
		p, err := s.cache.PostBySlug(ctx, m.Slug)
		if err != nil {
			return nil, err
		}
		slugs = append(slugs, m.Slug)
		posts = append(posts, p)
	}

	issues, errs := linkverify.NewVerifier(slugs).VerifyAll(posts)
	for slug, err := range errs {
		log.Warn("Could not verify post", logfields.Slug(slug), logfields.Error(err))
	}
	for _, issue := range issues {
		log.Warn("Link issue", logfields.Slug(issue.Slug), slog.String("kind", string(issue.Kind)), slog.String("target", issue.Target))
	}
	return issues, nil
}

func (s *Service) finish(ctx context.Context, res *Result, err error, log *slog.Logger) {
	res.EndTime = time.Now()
	res.Duration = res.EndTime.Sub(res.StartTime)
	res.Err = err
	switch {
	case err != nil:
		res.Outcome = OutcomeFailed
	case len(res.Failures) > 0 || len(res.Issues) > 0:
		res.Outcome = OutcomeWarning
	default:
		res.Outcome = OutcomeSuccess
	}

	s.recorder.ObserveBuildDuration(res.Duration)
	s.recorder.IncBuildOutcome(string(res.Outcome))

	attrs := []any{
		logfields.Outcome(string(res.Outcome)),
		logfields.Count(res.Posts),
		slog.Int("failures", len(res.Failures)),
		slog.Int("issues", len(res.Issues)),
		logfields.DurationMS(float64(res.Duration.Microseconds()) / 1000),
	}
	if err != nil {
		log.Error("Build failed", append(attrs, logfields.Error(err))...)
	} else {
		log.Info("Build finished", attrs...)
	}

	// Recording must survive a canceled build context.
	recordCtx := context.WithoutCancel(ctx)
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	s.journalErr(log, s.journal.BuildCompleted(recordCtx, res.BuildID, eventstore.BuildCompleted{
		Outcome:    string(res.Outcome),
		Posts:      res.Posts,
		Failures:   len(res.Failures),
		Issues:     len(res.Issues),
		Digest:     res.Digest,
		DurationMS: res.Duration.Milliseconds(),
		Error:      errMsg,
	}))
	pubErr := s.publisher.PublishBuild(recordCtx, notify.BuildEvent{
		BuildID:     res.BuildID,
		Outcome:     string(res.Outcome),
		Posts:       res.Posts,
		Failures:    len(res.Failures),
		Issues:      len(res.Issues),
		Digest:      res.Digest,
		Duration:    res.Duration,
		Error:       errMsg,
		CompletedAt: res.EndTime,
	})
	if pubErr != nil {
		log.Warn("Failed to publish build event", logfields.Error(pubErr))
	}
}

func (s *Service) journalErr(log *slog.Logger, err error) {
	if err != nil {
		log.Warn("Failed to record build event", logfields.Error(err))
	}
}
