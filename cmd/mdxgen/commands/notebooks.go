package commands

import (
	"fmt"

	"git.home.luguber.info/inful/mdxgen/internal/batch"
	"git.home.luguber.info/inful/mdxgen/internal/colab"
	"git.home.luguber.info/inful/mdxgen/internal/config"
	ferrors "git.home.luguber.info/inful/mdxgen/internal/foundation/errors"
	"git.home.luguber.info/inful/mdxgen/internal/logfields"
	"git.home.luguber.info/inful/mdxgen/internal/metrics"
	"git.home.luguber.info/inful/mdxgen/internal/notebook"
	"git.home.luguber.info/inful/mdxgen/internal/observability"
	"git.home.luguber.info/inful/mdxgen/internal/render"
)

// NotebooksCmd implements the 'notebooks' command.
type NotebooksCmd struct {
	All         bool   `help:"Convert every notebook under the examples directory"`
	Input       string `arg:"" optional:"" help:"Notebook file to convert"`
	Output      string `arg:"" optional:"" help:"Output page path"`
	ShowOutputs bool   `name:"show-outputs" help:"Include cell outputs in the generated pages"`
	ExamplesDir string `name:"examples-dir" help:"Override notebooks.examples_dir"`
	OutputDir   string `name:"output-dir" short:"o" help:"Override notebooks.output_dir"`
	NoColab     bool   `name:"no-colab" help:"Omit the Open in Colab badge"`
}

func (n *NotebooksCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	n.apply(cfg)

	ctx, cancel := runContext()
	defer cancel()

	switch {
	case n.All:
		sink := newMetricsSink(root, cfg)
		defer sink.Flush(ctx)

		job, err := notebookJob(cfg, sink.Recorder())
		if err != nil {
			return err
		}
		if _, err := batch.RunNotebooks(ctx, job); err != nil {
			return err
		}
		fmt.Println("All notebooks converted")
		return nil
	case n.Input != "" && n.Output != "":
		// Only a missing notebook fails the command; other per-file errors are logged.
		if err := batch.ConvertNotebook(ctx, n.Input, n.Output, convertOptions(cfg), renderOptions(cfg)); err != nil {
			if ferrors.HasCategory(err, ferrors.CategoryNotFound) {
				return err
			}
			observability.ErrorContext(ctx, "Failed to convert notebook", logfields.Path(n.Input), logfields.Error(err))
		}
		fmt.Println("Conversion complete")
		return nil
	default:
		return ferrors.NotFoundError("nothing to convert: pass --all or an input and output path").Build()
	}
}

func (n *NotebooksCmd) apply(cfg *config.Config) {
	if n.ExamplesDir != "" {
		cfg.Notebooks.ExamplesDir = n.ExamplesDir
	}
	if n.OutputDir != "" {
		cfg.Notebooks.OutputDir = n.OutputDir
	}
	if n.ShowOutputs {
		cfg.Notebooks.ShowOutputs = true
	}
	if n.NoColab {
		cfg.Notebooks.Colab.Enabled = false
	}
}

func convertOptions(cfg *config.Config) notebook.Options {
	return notebook.Options{
		ShowOutputs:  cfg.Notebooks.ShowOutputs,
		Language:     cfg.Notebooks.Language,
		ImagesPrefix: cfg.Notebooks.ImagesPrefix,
	}
}

func renderOptions(cfg *config.Config) render.Options {
	return render.Options{Fingerprint: cfg.Output.Fingerprint}
}

// notebookJob assembles a batch run from cfg, resolving Colab links when enabled.
func notebookJob(cfg *config.Config, rec metrics.Recorder) (batch.NotebookJob, error) {
	job := batch.NotebookJob{
		ExamplesDir: cfg.Notebooks.ExamplesDir,
		OutputDir:   cfg.Notebooks.OutputDir,
		Extension:   cfg.Output.Extension,
		Convert:     convertOptions(cfg),
		Render:      renderOptions(cfg),
		Metrics:     rec,
	}
	if !cfg.Notebooks.Colab.Enabled {
		return job, nil
	}
	resolver, err := colab.NewResolver(colab.Settings{
		Repository:   cfg.Notebooks.Colab.Repository,
		Branch:       cfg.Notebooks.Colab.Branch,
		DetectRemote: cfg.Notebooks.Colab.DetectRemote,
	}, cfg.Notebooks.ExamplesDir)
	if err != nil {
		return job, err
	}
	job.Colab = resolver
	return job, nil
}
