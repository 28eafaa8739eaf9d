package services

import "context"

// Func adapts plain functions to ManagedService. Nil functions are no-ops.
type Func struct {
	ServiceName string
	DependsOn   []string
	OnStart     func(ctx context.Context) error
	OnStop      func(ctx context.Context) error
}

func (f Func) Name() string           { return f.ServiceName }
func (f Func) Dependencies() []string { return f.DependsOn }

func (f Func) Start(ctx context.Context) error {
	if f.OnStart == nil {
		return nil
	}
	return f.OnStart(ctx)
}

func (f Func) Stop(ctx context.Context) error {
	if f.OnStop == nil {
		return nil
	}
	return f.OnStop(ctx)
}

// Background runs fn in a goroutine from Start until Stop, which cancels fn's
// context and waits for it to return.
func Background(name string, fn func(ctx context.Context), dependsOn ...string) ManagedService {
	return &background{name: name, fn: fn, deps: dependsOn}
}

type background struct {
	name   string
	fn     func(ctx context.Context)
	deps   []string
	cancel context.CancelFunc
	done   chan struct{}
}

func (b *background) Name() string           { return b.name }
func (b *background) Dependencies() []string { return b.deps }

// Start detaches from ctx's cancellation: ctx only bounds startup.
func (b *background) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	b.cancel = cancel
	b.done = make(chan struct{})
	go func() {
		defer close(b.done)
		b.fn(runCtx)
	}()
	return nil
}

func (b *background) Stop(ctx context.Context) error {
	if b.cancel == nil {
		return nil
	}
	b.cancel()
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
