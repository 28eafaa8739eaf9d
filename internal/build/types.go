package build

import (
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/index"
	"git.home.luguber.info/inful/blogbuilder/internal/linkverify"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// Trigger names what started a build.
type Trigger string

const (
	TriggerManual    Trigger = "manual"
	TriggerStartup   Trigger = "startup"
	TriggerWatch     Trigger = "watch"
	TriggerScheduled Trigger = "scheduled"
)

// Request describes one build.
type Request struct {
	Trigger Trigger
	// Reload drops cached content before loading.
	Reload bool
	// DryRun loads and verifies without writing the site.
	DryRun bool
}

// Outcome is the overall result of a build.
type Outcome string

const (
	// OutcomeSuccess means every post loaded and verified cleanly.
	OutcomeSuccess Outcome = "success"
	// OutcomeWarning means the site was built but posts were skipped or have
	// broken anchors.
	OutcomeWarning Outcome = "warning"
	// OutcomeFailed means no site was written.
	OutcomeFailed Outcome = "failed"
)

// Result reports a finished build.
type Result struct {
	BuildID   string
	Trigger   Trigger
	Outcome   Outcome
	Posts     int
	Failures  []index.LoadFailure
	Issues    []linkverify.Issue
	Digest    string
	Site      *site.Summary // nil for dry runs and failed builds
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Err       error
}

// OK reports whether the build produced a site.
func (r *Result) OK() bool {
	return r != nil && r.Outcome != OutcomeFailed
}
