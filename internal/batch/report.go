package batch

import (
	"context"
	"time"

	"git.home.luguber.info/inful/mdxgen/internal/foundation"
	"git.home.luguber.info/inful/mdxgen/internal/logfields"
	"git.home.luguber.info/inful/mdxgen/internal/markdown"
	"git.home.luguber.info/inful/mdxgen/internal/metrics"
	"git.home.luguber.info/inful/mdxgen/internal/observability"
)

// Outcome is a per-file result that did not fail. Output is empty when the
// file was skipped.
type Outcome struct {
	Kind   string
	Source string
	Output string
	// Reason explains a skip.
	Reason string
}

// Skipped reports whether the file produced no output.
func (o Outcome) Skipped() bool { return o.Output == "" }

// FileError is a contained per-file failure.
type FileError struct {
	Kind   string
	Source string
	Err    error
}

func (e *FileError) Error() string { return e.Source + ": " + e.Err.Error() }
func (e *FileError) Unwrap() error { return e.Err }

// FileResult is the outcome of converting one file.
type FileResult = foundation.Result[Outcome, *FileError]

// Report summarizes a run.
type Report struct {
	Start       time.Time
	End         time.Time
	Generated   []Outcome
	Skipped     []Outcome
	Failed      []*FileError
	BrokenLinks []markdown.BrokenLink
}

func newReport() *Report {
	return &Report{Start: time.Now()}
}

// Record files a per-file result and counts it in rec.
func (r *Report) Record(res FileResult, rec metrics.Recorder) {
	res.Match(
		func(o Outcome) {
			if o.Skipped() {
				r.Skipped = append(r.Skipped, o)
				rec.IncFileResult(o.Kind, metrics.ResultSkipped)
				return
			}
			r.Generated = append(r.Generated, o)
			rec.IncFileResult(o.Kind, metrics.ResultGenerated)
		},
		func(e *FileError) {
			r.Failed = append(r.Failed, e)
			rec.IncFileResult(e.Kind, metrics.ResultFailed)
		},
	)
}

// Duration is the wall time of the run; zero until the run finished.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

func (r *Report) finish(ctx context.Context, kind string, rec metrics.Recorder) {
	r.End = time.Now()
	rec.ObserveRunDuration(kind, r.Duration())
	observability.InfoContext(ctx, "Conversion complete",
		logfields.Kind(kind),
		logfields.Generated(len(r.Generated)),
		logfields.Skipped(len(r.Skipped)),
		logfields.Failed(len(r.Failed)),
		logfields.DurationMS(float64(r.Duration().Milliseconds())),
	)
}
