package eventstore

import (
	"context"
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Build status values of a BuildSummary.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
)

// BuildSummary is the folded view of one build's events.
type BuildSummary struct {
	BuildID     string        `json:"build_id"`
	Trigger     string        `json:"trigger,omitempty"`
	Status      string        `json:"status"`
	Outcome     string        `json:"outcome,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
	Posts       int           `json:"posts"`
	Issues      int           `json:"issues"`
	Digest      string        `json:"digest,omitempty"`
	Error       string        `json:"error,omitempty"`
	FailedFiles []string      `json:"failed_files,omitempty"`
}

// Summarize folds the events of one build. Events with undecodable payloads
// are skipped.
func Summarize(events []Event) BuildSummary {
	var s BuildSummary
	for _, e := range events {
		if s.BuildID == "" {
			s.BuildID = e.BuildID
		}
		switch e.Type {
		case TypeBuildStarted:
			var p BuildStarted
			if e.Decode(&p) != nil {
				continue
			}
			s.Trigger = p.Trigger
			s.Status = StatusRunning
			s.StartedAt = e.Timestamp
		case TypePostFailed:
			var p PostFailed
			if e.Decode(&p) != nil {
				continue
			}
			s.FailedFiles = append(s.FailedFiles, p.File)
		case TypeBuildCompleted:
			var p BuildCompleted
			if e.Decode(&p) != nil {
				continue
			}
			completed := e.Timestamp
			s.Status = StatusCompleted
			s.Outcome = p.Outcome
			s.CompletedAt = &completed
			s.Duration = time.Duration(p.DurationMS) * time.Millisecond
			s.Posts = p.Posts
			s.Issues = p.Issues
			s.Digest = p.Digest
			s.Error = p.Error
		}
	}
	return s
}

// Recent returns summaries of the last limit builds, newest first.
func Recent(ctx context.Context, store Store, limit int) ([]BuildSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	ids, err := store.RecentBuildIDs(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]BuildSummary, 0, len(ids))
	for _, id := range ids {
		events, err := store.GetByBuildID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, Summarize(events))
	}
	return out, nil
}

// Journal appends typed build events to a Store. A nil Journal discards events.
type Journal struct {
	store Store
}

// NewJournal returns a Journal writing to store.
func NewJournal(store Store) *Journal {
	return &Journal{store: store}
}

// BuildStarted records the start of a build.
func (j *Journal) BuildStarted(ctx context.Context, buildID, trigger string) error {
	return j.append(ctx, buildID, TypeBuildStarted, BuildStarted{Trigger: trigger})
}

// PostFailed records a content file that failed to load.
func (j *Journal) PostFailed(ctx context.Context, buildID, file string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return j.append(ctx, buildID, TypePostFailed, PostFailed{File: file, Error: msg})
}

// BuildCompleted records the end of a build.
func (j *Journal) BuildCompleted(ctx context.Context, buildID string, done BuildCompleted) error {
	return j.append(ctx, buildID, TypeBuildCompleted, done)
}

func (j *Journal) append(ctx context.Context, buildID, eventType string, payload any) error {
	if j == nil || j.store == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.WrapError(err, errors.CategoryHistory, "failed to marshal event payload").
			WithContext("event_type", eventType).
			Build()
	}
	return j.store.Append(ctx, buildID, eventType, data, nil)
}
