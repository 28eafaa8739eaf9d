package commands

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/build"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/schedule"
	"git.home.luguber.info/inful/blogbuilder/internal/server/httpserver"
	"git.home.luguber.info/inful/blogbuilder/internal/services"
	"git.home.luguber.info/inful/blogbuilder/internal/watch"
)

const shutdownTimeout = 30 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr     string        `short:"a" help:"Override server.addr"`
	NoWatch  bool          `name:"no-watch" help:"Do not rebuild on content changes"`
	Interval time.Duration `help:"Override server.rebuild_interval (0 disables)"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	s.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, cfg)
}

func (s *ServeCmd) apply(cfg *config.Config) {
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	if s.NoWatch {
		cfg.Server.Watch = false
	}
	if s.Interval != 0 {
		cfg.Server.RebuildInterval = s.Interval
	}
}

// RunServe builds the site, serves it and keeps it current until ctx is done.
func RunServe(ctx context.Context, cfg *config.Config) error {
	var (
		recorder      metrics.Recorder = metrics.NoopRecorder{}
		metricsHandle http.Handler
	)
	if cfg.Server.Metrics {
		reg := metrics.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		metricsHandle = metrics.HTTPHandler(reg)
	}

	a, err := newApp(cfg, recorder, true)
	if err != nil {
		return err
	}
	defer a.Close()

	worker := build.NewWorker(a.service())
	orch := services.NewOrchestrator()
	register := func(svc services.ManagedService) {
		if err == nil {
			err = orch.Register(svc)
		}
	}
	register(services.Background("build-worker", worker.Run))
	register(services.Func{
		ServiceName: "startup-build",
		DependsOn:   []string{"build-worker"},
		OnStart: func(context.Context) error {
			worker.Trigger(build.Request{Trigger: build.TriggerStartup})
			return nil
		},
	})

	if cfg.Server.Watch {
		w, werr := watch.New(cfg.Content.Directory, func() {
			worker.Trigger(build.Request{Trigger: build.TriggerWatch, Reload: true})
		})
		if werr != nil {
			slog.Warn("Content watcher disabled", logfields.Path(cfg.Content.Directory), logfields.Error(werr))
		} else {
			register(services.Background("watcher", w.Run, "build-worker"))
		}
	}

	if cfg.Server.RebuildInterval > 0 {
		sched, serr := schedule.New(cfg.Server.RebuildInterval, func() {
			worker.Trigger(build.Request{Trigger: build.TriggerScheduled, Reload: true})
		})
		if serr != nil {
			return serr
		}
		register(services.Func{
			ServiceName: "scheduler",
			DependsOn:   []string{"build-worker"},
			OnStart: func(context.Context) error {
				sched.Start()
				return nil
			},
			OnStop: func(context.Context) error { return sched.Stop() },
		})
	}

	srv := httpserver.New(httpserver.Options{
		Addr:    cfg.Server.Addr,
		SiteDir: cfg.Output.Directory,
		Index:   a.cache,
		Builds:  worker,
		Metrics: metricsHandle,
	})
	register(services.Func{
		ServiceName: "http",
		DependsOn:   []string{"build-worker"},
		OnStart:     srv.Start,
		OnStop:      srv.Stop,
	})
	if err != nil {
		return err
	}

	if err := orch.StartAll(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	slog.Info("Shutting down")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	return orch.StopAll(stopCtx)
}
