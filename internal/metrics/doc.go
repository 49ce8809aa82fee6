// Package metrics records conversion counters and durations.
//
// Components receive a Recorder and call it unconditionally. The default is
// NoopRecorder, so no nil checks are needed at call sites:
//
//	rec := metrics.Recorder(metrics.NoopRecorder{})
//	if cfg.Metrics.Textfile != "" {
//		rec = metrics.NewPrometheusRecorder(nil)
//	}
//	rec.IncFileResult("notebook", metrics.ResultGenerated)
//
// A PrometheusRecorder keeps its own registry. A one-shot CLI run has no
// scrape endpoint, so the registry is written to a node_exporter textfile
// with WriteTextfile when the run ends.
//
// Label values are fixed vocabularies (document kinds and result labels);
// file paths are never used as labels.
package metrics
