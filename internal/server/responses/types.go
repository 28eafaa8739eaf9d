// Package responses defines the JSON bodies of the blogbuilder HTTP API.
package responses

import "time"

// TermResponse is one category or tag.
type TermResponse struct {
	Name  string `json:"name"`  // lower-cased key used in URLs and filters
	Label string `json:"label"` // authored spelling
	Count int    `json:"count"`
}

// LanguageRequest is the body of POST /api/language.
type LanguageRequest struct {
	Language string `json:"lng"`
}

// LanguageResponse confirms the stored language.
type LanguageResponse struct {
	OK       bool   `json:"ok"`
	Language string `json:"lng"`
}

// BuildSummary describes the most recent build.
type BuildSummary struct {
	BuildID     string    `json:"build_id"`
	Trigger     string    `json:"trigger"`
	Outcome     string    `json:"outcome"`
	Posts       int       `json:"posts"`
	Failures    int       `json:"failures"`
	Issues      int       `json:"issues"`
	Digest      string    `json:"digest,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	CompletedAt time.Time `json:"completed_at"`
	Error       string    `json:"error,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string        `json:"status"`
	Version   string        `json:"version"`
	Uptime    float64       `json:"uptime_seconds"`
	Timestamp time.Time     `json:"timestamp"`
	LastBuild *BuildSummary `json:"last_build,omitempty"`
}
