package commands

import (
	"context"
	"time"

	"git.home.luguber.info/inful/mdxgen/internal/batch"
	"git.home.luguber.info/inful/mdxgen/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Every       time.Duration `help:"Also regenerate on this interval (0 disables)" default:"0"`
	Debounce    time.Duration `help:"Quiet period after the last change before regenerating" default:"300ms"`
	ShowOutputs bool          `name:"show-outputs" help:"Include cell outputs in the generated pages"`
	ExamplesDir string        `name:"examples-dir" help:"Override notebooks.examples_dir"`
	OutputDir   string        `name:"output-dir" short:"o" help:"Override notebooks.output_dir"`
}

// Directories whose churn never affects generated pages.
var watchIgnoreDirs = []string{".ipynb_checkpoints", "__pycache__", ".git"}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	nb := NotebooksCmd{ShowOutputs: w.ShowOutputs, ExamplesDir: w.ExamplesDir, OutputDir: w.OutputDir}
	nb.apply(cfg)

	ctx, cancel := runContext()
	defer cancel()

	sink := newMetricsSink(root, cfg)
	job, err := notebookJob(cfg, sink.Recorder())
	if err != nil {
		return err
	}

	return watch.Run(ctx, watch.Options{
		Root:       cfg.Notebooks.ExamplesDir,
		Extensions: []string{".ipynb"},
		IgnoreDirs: watchIgnoreDirs,
		Debounce:   w.Debounce,
		Every:      w.Every,
	}, func(ctx context.Context, _ string) error {
		defer sink.Flush(ctx)
		_, runErr := batch.RunNotebooks(ctx, job)
		return runErr
	})
}
