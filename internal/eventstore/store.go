// Package eventstore keeps an append-only log of build events in SQLite and
// summarizes it into build history.
package eventstore

import (
	"context"
	"time"
)

// Store persists and retrieves events.
type Store interface {
	// Append adds an event. The store assigns ID and, when zero, Timestamp.
	Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error

	// GetByBuildID returns the events of one build in append order.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// GetRange returns events with timestamps in [start, end].
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	// RecentBuildIDs returns up to limit build ids, most recently started first.
	RecentBuildIDs(ctx context.Context, limit int) ([]string, error)

	Close() error
}
