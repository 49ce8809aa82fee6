package metrics

import "time"

// ResultLabel enumerates per-file outcomes for counters.
type ResultLabel string

const (
	ResultGenerated ResultLabel = "generated"
	ResultSkipped   ResultLabel = "skipped"
	ResultFailed    ResultLabel = "failed"
)

// Recorder defines observability hooks for conversion runs. kind is the
// document kind being produced (notebook, module, index).
type Recorder interface {
	IncFileResult(kind string, result ResultLabel)
	ObserveFileDuration(kind string, d time.Duration)
	ObserveRunDuration(kind string, d time.Duration)
	IncBrokenLinks(kind string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncFileResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveFileDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(string, time.Duration)  {}
func (NoopRecorder) IncBrokenLinks(string, int)                {}
