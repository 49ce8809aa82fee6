package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "mdxgen"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg          *prom.Registry
	fileResults  *prom.CounterVec
	fileDuration *prom.HistogramVec
	runDuration  *prom.HistogramVec
	brokenLinks  *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg, or
// on a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		fileResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "file_results_total",
			Help:      "Per-file conversion outcomes",
		}, []string{"kind", "result"}),
		fileDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "file_duration_seconds",
			Help:      "Duration of a single file conversion",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		runDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a full batch run",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		brokenLinks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "broken_links_total",
			Help:      "Relative links in generated pages whose target is missing",
		}, []string{"kind"}),
	}
	reg.MustRegister(pr.fileResults, pr.fileDuration, pr.runDuration, pr.brokenLinks)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) IncFileResult(kind string, result ResultLabel) {
	p.fileResults.WithLabelValues(kind, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveFileDuration(kind string, d time.Duration) {
	p.fileDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(kind string, d time.Duration) {
	p.runDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBrokenLinks(kind string, n int) {
	if n <= 0 {
		return
	}
	p.brokenLinks.WithLabelValues(kind).Add(float64(n))
}

// WriteTextfile writes the current metric values in the text exposition
// format, atomically replacing path.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
