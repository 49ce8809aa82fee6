package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdxgen/internal/config"
	"git.home.luguber.info/inful/mdxgen/internal/logfields"
	"git.home.luguber.info/inful/mdxgen/internal/metrics"
	"git.home.luguber.info/inful/mdxgen/internal/observability"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"mdxgen.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics in textfile format to this path after each run"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Notebooks NotebooksCmd `cmd:"" help:"Convert Jupyter notebooks to MDX pages"`
	APIDocs   APIDocsCmd   `cmd:"" name:"apidocs" help:"Generate MDX API reference pages from Python packages"`
	Watch     WatchCmd     `cmd:"" help:"Regenerate notebook pages whenever the examples change"`
	Init      InitCmd      `cmd:"" help:"Write a default configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig reads the configuration file. The default path may be absent;
// an explicitly named file must exist.
func (c *CLI) LoadConfig() (*config.Config, error) {
	return config.Load(c.Config, c.Config != config.DefaultPath)
}

// runContext is canceled on SIGINT/SIGTERM and carries a fresh run id.
func runContext() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return observability.WithRunID(ctx, observability.NewRunID()), cancel
}

// metricsSink hands out the recorder for a command and exports it afterwards.
type metricsSink struct {
	path string
	prom *metrics.PrometheusRecorder
}

func newMetricsSink(root *CLI, cfg *config.Config) *metricsSink {
	path := cfg.Metrics.Textfile
	if root.MetricsFile != "" {
		path = root.MetricsFile
	}
	if path == "" {
		return &metricsSink{}
	}
	return &metricsSink{path: path, prom: metrics.NewPrometheusRecorder(nil)}
}

func (m *metricsSink) Recorder() metrics.Recorder {
	if m.prom == nil {
		return metrics.NoopRecorder{}
	}
	return m.prom
}

// Flush writes the textfile. A failed export never fails the run.
func (m *metricsSink) Flush(ctx context.Context) {
	if m.prom == nil {
		return
	}
	if err := m.prom.WriteTextfile(m.path); err != nil {
		observability.WarnContext(ctx, "Failed to write metrics textfile", logfields.Path(m.path), logfields.Error(err))
		return
	}
	observability.DebugContext(ctx, "Wrote metrics textfile", logfields.Path(m.path))
}
