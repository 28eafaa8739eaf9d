package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/build"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/server/responses"
	"git.home.luguber.info/inful/blogbuilder/internal/version"
)

// Health states reported by /healthz.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusStarting = "starting"
)

// BuildStatus exposes the latest build. *build.Worker implements it.
type BuildStatus interface {
	Last() *build.Result
}

// MonitoringHandlers serves health information.
type MonitoringHandlers struct {
	builds       BuildStatus
	startTime    time.Time
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers returns monitoring handlers. builds may be nil when the
// server only serves a prebuilt site.
func NewMonitoringHandlers(builds BuildStatus, adapter *errors.HTTPErrorAdapter) *MonitoringHandlers {
	if adapter == nil {
		adapter = errors.NewHTTPErrorAdapter(slog.Default())
	}
	return &MonitoringHandlers{builds: builds, startTime: time.Now(), errorAdapter: adapter}
}

// HandleHealthCheck reports liveness and the outcome of the last build. A
// failed last build still answers 200 so the previous site keeps serving.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := &responses.HealthResponse{
		Status:    StatusHealthy,
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Timestamp: time.Now().UTC(),
	}
	if h.builds != nil {
		last := h.builds.Last()
		switch {
		case last == nil:
			health.Status = StatusStarting
		case last.Outcome == build.OutcomeFailed:
			health.Status = StatusDegraded
		}
		if last != nil {
			health.LastBuild = summarize(last)
		}
	}

	if err := writeJSON(w, r, http.StatusOK, health); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryInternal, "failed to write health response").Build())
	}
}

func summarize(res *build.Result) *responses.BuildSummary {
	s := &responses.BuildSummary{
		BuildID:     res.BuildID,
		Trigger:     string(res.Trigger),
		Outcome:     string(res.Outcome),
		Posts:       res.Posts,
		Failures:    len(res.Failures),
		Issues:      len(res.Issues),
		Digest:      res.Digest,
		DurationMS:  res.Duration.Milliseconds(),
		CompletedAt: res.EndTime,
	}
	if res.Err != nil {
		s.Error = res.Err.Error()
	}
	return s
}
