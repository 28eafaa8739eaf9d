// Package services starts and stops long-running components in dependency
// order.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Status is the lifecycle state of a managed service.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusRunning    Status = "running"
	StatusStopped    Status = "stopped"
	StatusFailed     Status = "failed"
)

// ManagedService is a component with a start/stop lifecycle.
type ManagedService interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	// Dependencies names services that must start first.
	Dependencies() []string
}

// Orchestrator starts services after their dependencies and stops them in
// reverse order.
type Orchestrator struct {
	mu       sync.Mutex
	services map[string]ManagedService
	order    []string // registration order, used to break ties
	status   map[string]Status
	started  []string

	startTimeout time.Duration
	stopTimeout  time.Duration
}

// NewOrchestrator returns an empty Orchestrator.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		services:     make(map[string]ManagedService),
		status:       make(map[string]Status),
		startTimeout: 30 * time.Second,
		stopTimeout:  10 * time.Second,
	}
}

// WithTimeouts bounds each service's Start and Stop.
func (o *Orchestrator) WithTimeouts(start, stop time.Duration) *Orchestrator {
	o.startTimeout = start
	o.stopTimeout = stop
	return o
}

// Register adds svc. Names must be unique and non-empty.
func (o *Orchestrator) Register(svc ManagedService) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	name := svc.Name()
	if name == "" {
		return errors.ValidationError("service name cannot be empty").Build()
	}
	if _, exists := o.services[name]; exists {
		return errors.ValidationError("service already registered").WithContext("service", name).Build()
	}
	o.services[name] = svc
	o.order = append(o.order, name)
	o.status[name] = StatusNotStarted
	return nil
}

// StartAll starts every service in dependency order. When one fails, the
// services already started are stopped again.
func (o *Orchestrator) StartAll(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	order, err := o.startOrder()
	if err != nil {
		return err
	}
	slog.Debug("Starting services", slog.Any("order", order))

	for _, name := range order {
		if err := o.start(ctx, name); err != nil {
			o.stopStarted(context.WithoutCancel(ctx))
			return err
		}
	}
	return nil
}

// StopAll stops running services in reverse start order.
func (o *Orchestrator) StopAll(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopStarted(ctx)
}

// Status returns the lifecycle state of name.
func (o *Orchestrator) Status(name string) (Status, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.status[name]
	return s, ok
}

// startOrder is a topological sort of the registered services.
func (o *Orchestrator) startOrder() ([]string, error) {
	visited := make(map[string]bool)
	visiting := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(name string) error {
		if visiting[name] {
			return errors.ValidationError("circular service dependency").WithContext("service", name).Build()
		}
		if visited[name] {
			return nil
		}
		svc, ok := o.services[name]
		if !ok {
			return errors.ValidationError("unknown service dependency").WithContext("service", name).Build()
		}
		visiting[name] = true
		for _, dep := range svc.Dependencies() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		visiting[name] = false
		visited[name] = true
		order = append(order, name)
		return nil
	}

	for _, name := range o.order {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (o *Orchestrator) start(ctx context.Context, name string) error {
	startCtx, cancel := context.WithTimeout(ctx, o.startTimeout)
	defer cancel()

	begin := time.Now()
	if err := o.services[name].Start(startCtx); err != nil {
		o.status[name] = StatusFailed
		return errors.WrapError(err, errors.CategoryRuntime, fmt.Sprintf("failed to start %s", name)).
			WithContext("service", name).
			Build()
	}
	o.status[name] = StatusRunning
	o.started = append(o.started, name)
	slog.Debug("Service started", slog.String("service", name), logfields.DurationMS(float64(time.Since(begin).Microseconds())/1000))
	return nil
}

func (o *Orchestrator) stopStarted(ctx context.Context) error {
	var errs []error
	for _, name := range slices.Backward(o.started) {
		stopCtx, cancel := context.WithTimeout(ctx, o.stopTimeout)
		err := o.services[name].Stop(stopCtx)
		cancel()
		if err != nil {
			o.status[name] = StatusFailed
			slog.Error("Error stopping service", slog.String("service", name), logfields.Error(err))
			errs = append(errs, err)
			continue
		}
		o.status[name] = StatusStopped
		slog.Debug("Service stopped", slog.String("service", name))
	}
	o.started = nil
	if len(errs) > 0 {
		return errors.WrapError(errs[len(errs)-1], errors.CategoryRuntime, "some services failed to stop").
			WithContext("failed", len(errs)).
			Build()
	}
	return nil
}
