// Package notify publishes build outcomes to interested listeners.
package notify

import (
	"context"
	"time"
)

// BuildEvent describes a finished build.
type BuildEvent struct {
	BuildID     string        `json:"build_id"`
	Outcome     string        `json:"outcome"`
	Posts       int           `json:"posts"`
	Failures    int           `json:"failures"`
	Issues      int           `json:"issues"`
	Digest      string        `json:"digest,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
	Error       string        `json:"error,omitempty"`
	CompletedAt time.Time     `json:"completed_at"`
}

// Publisher delivers build events.
type Publisher interface {
	PublishBuild(ctx context.Context, event BuildEvent) error
	Close() error
}

// NoopPublisher discards events.
type NoopPublisher struct{}

func (NoopPublisher) PublishBuild(context.Context, BuildEvent) error { return nil }
func (NoopPublisher) Close() error                                   { return nil }
