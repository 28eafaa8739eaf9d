package build

import (
	"context"
	"log/slog"
	"sync"
)

// Runner executes a build. *Service implements it.
type Runner interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Worker runs builds one at a time. Requests arriving while a build runs are
// merged into a single pending build.
type Worker struct {
	runner   Runner
	onResult func(*Result)

	mu      sync.Mutex
	pending *Request
	last    *Result
	wake    chan struct{}
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// OnResult registers fn to be called after every build.
func OnResult(fn func(*Result)) WorkerOption {
	return func(w *Worker) { w.onResult = fn }
}

// NewWorker returns a Worker over runner. Builds start once Run is called.
func NewWorker(runner Runner, opts ...WorkerOption) *Worker {
	w := &Worker{runner: runner, wake: make(chan struct{}, 1)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Trigger requests a build. A request merged into a pending one keeps Reload
// when either asked for it and takes the newer trigger.
func (w *Worker) Trigger(req Request) {
	w.mu.Lock()
	if w.pending != nil {
		req.Reload = req.Reload || w.pending.Reload
		req.DryRun = req.DryRun && w.pending.DryRun
	}
	w.pending = &req
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Last returns the most recent build result, or nil before the first build.
func (w *Worker) Last() *Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Run processes requests until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
		}

		w.mu.Lock()
		req := w.pending
		w.pending = nil
		w.mu.Unlock()
		if req == nil {
			continue
		}

		res, err := w.runner.Run(ctx, *req)
		if err != nil && ctx.Err() != nil {
			slog.Debug("Build interrupted by shutdown")
			return
		}

		w.mu.Lock()
		w.last = res
		w.mu.Unlock()
		if w.onResult != nil {
			w.onResult(res)
		}
	}
}
