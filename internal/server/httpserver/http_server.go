// Package httpserver wires the blog's HTTP surface: the generated site, the
// post API, health and metrics.
package httpserver

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/server/handlers"
	smw "git.home.luguber.info/inful/blogbuilder/internal/server/middleware"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr    string
	SiteDir string               // generated site served at /
	Index   handlers.PostIndex   // backs /api; nil disables the API
	Builds  handlers.BuildStatus // reported by /healthz
	Metrics http.Handler         // mounted at /metrics when set
}

// Server serves the blog.
type Server struct {
	opts         Options
	errorAdapter *errors.HTTPErrorAdapter
	handler      http.Handler

	mu   sync.Mutex
	srv  *http.Server
	addr net.Addr
}

// New builds the route table.
func New(opts Options) *Server {
	s := &Server{opts: opts, errorAdapter: errors.NewHTTPErrorAdapter(slog.Default())}

	mux := http.NewServeMux()
	monitoring := handlers.NewMonitoringHandlers(opts.Builds, s.errorAdapter)
	mux.HandleFunc("GET /healthz", monitoring.HandleHealthCheck)
	mux.HandleFunc("GET /readyz", s.handleReadiness)

	if opts.Index != nil {
		api := handlers.NewAPIHandlers(opts.Index, s.errorAdapter)
		mux.HandleFunc("GET /api/posts", api.HandlePosts)
		mux.HandleFunc("GET /api/posts/{slug}", api.HandlePost)
		mux.HandleFunc("GET /api/posts/{slug}/related", api.HandleRelated)
		mux.HandleFunc("GET /api/categories", api.HandleCategories)
		mux.HandleFunc("GET /api/tags", api.HandleTags)
		mux.HandleFunc("POST /api/language", api.HandleLanguage)
	}
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}
	// http.Dir resolves on every request, so a rebuilt site is picked up
	// without restarting.
	mux.Handle("/", http.FileServer(http.Dir(opts.SiteDir)))

	s.handler = smw.Chain(slog.Default(), s.errorAdapter)(mux)
	return s
}

// Handler returns the full handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the listen address and serves in the background. Binding errors
// are returned directly.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "failed to bind HTTP address").
			WithContext("addr", s.opts.Addr).
			Build()
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	s.mu.Lock()
	s.srv = srv
	s.addr = ln.Addr()
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", logfields.Error(err))
		}
	}()
	slog.Info("HTTP server started", slog.String("addr", ln.Addr().String()), logfields.Path(s.opts.SiteDir))
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "HTTP server shutdown").Build()
	}
	return nil
}

// handleReadiness answers 200 once the site has a home page.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(filepath.Join(s.opts.SiteDir, "index.html")); err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, errors.NewError(errors.CategoryRuntime, "site not built yet").
			WithContext("site_dir", s.opts.SiteDir).
			Build())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
