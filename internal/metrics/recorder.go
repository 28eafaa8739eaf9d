package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Build stages.
const (
	StageLoad   = "load"
	StageVerify = "verify"
	StageWrite  = "write"
)

// Recorder defines observability hooks for builds. Implementations must be
// safe for concurrent use; documents render in parallel.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome string) // success|warning|failed
	SetPostsLoaded(n int)
	IncDocumentFailures(n int)
	ObserveRenderDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) SetPostsLoaded(int)                         {}
func (NoopRecorder) IncDocumentFailures(int)                    {}
func (NoopRecorder) ObserveRenderDuration(time.Duration)        {}
