package batch

import (
	"context"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/mdxgen/internal/colab"
	"git.home.luguber.info/inful/mdxgen/internal/docmodel"
	"git.home.luguber.info/inful/mdxgen/internal/foundation"
	"git.home.luguber.info/inful/mdxgen/internal/logfields"
	"git.home.luguber.info/inful/mdxgen/internal/metrics"
	"git.home.luguber.info/inful/mdxgen/internal/notebook"
	"git.home.luguber.info/inful/mdxgen/internal/observability"
	"git.home.luguber.info/inful/mdxgen/internal/render"
)

const kindNotebook = string(docmodel.KindNotebook)

// NotebookJob describes a notebook batch run.
type NotebookJob struct {
	ExamplesDir string
	OutputDir   string
	Extension   string
	Convert     notebook.Options
	Render      render.Options
	// Colab adds an "Open in Colab" badge to every page when set.
	Colab   *colab.Resolver
	Metrics metrics.Recorder
}

// RunNotebooks converts every notebook under job.ExamplesDir. The returned
// error is non-nil only when the examples root is missing or unreadable.
func RunNotebooks(ctx context.Context, job NotebookJob) (*Report, error) {
	ctx = observability.WithStage(ctx, "notebooks")
	rec := recorderOrNoop(job.Metrics)
	report := newReport()

	if err := requireDir(job.ExamplesDir, "examples directory"); err != nil {
		return nil, err
	}

	paths, err := DiscoverNotebooks(job.ExamplesDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		observability.WarnContext(ctx, "No notebooks found", logfields.Path(job.ExamplesDir))
		report.finish(ctx, kindNotebook, rec)
		return report, nil
	}
	observability.InfoContext(ctx, "Discovered notebooks", logfields.Count(len(paths)), logfields.Path(job.ExamplesDir))

	for _, path := range paths {
		out := NotebookOutputPath(job.ExamplesDir, job.OutputDir, path, job.Extension)
		opts := job.Convert
		if job.Colab != nil {
			link, linkErr := job.Colab.Link(path)
			if linkErr != nil {
				observability.WarnContext(ctx, "Skipping Colab badge", logfields.File(path), logfields.Error(linkErr))
			}
			opts.SourceLink = link
		}
		report.Record(convertNotebook(ctx, path, out, opts, job.Render, rec), rec)
	}

	report.finish(ctx, kindNotebook, rec)
	return report, nil
}

// ConvertNotebook converts the single notebook at input into output. A
// failure is returned as a *FileError wrapping the classified cause, so a
// missing input keeps its not-found category.
func ConvertNotebook(ctx context.Context, input, output string, convert notebook.Options, ropts render.Options) error {
	ctx = observability.WithStage(ctx, "notebook")
	_, fileErr := convertNotebook(ctx, input, output, convert, ropts, metrics.NoopRecorder{}).ToTuple()
	if fileErr != nil {
		return fileErr
	}
	return nil
}

func convertNotebook(ctx context.Context, path, out string, opts notebook.Options, ropts render.Options, rec metrics.Recorder) FileResult {
	start := time.Now()
	defer func() { rec.ObserveFileDuration(kindNotebook, time.Since(start)) }()

	observability.InfoContext(ctx, "Converting notebook", logfields.File(filepath.Base(path)))

	fail := func(err error) FileResult {
		observability.ErrorContext(ctx, "Notebook conversion failed", logfields.File(path), logfields.Error(err))
		return foundation.Err[Outcome](&FileError{Kind: kindNotebook, Source: path, Err: err})
	}

	nb, err := notebook.ReadFile(path)
	if err != nil {
		return fail(err)
	}
	doc := notebook.ToDocument(nb, opts)
	text, err := render.Render(doc, ropts)
	if err != nil {
		return fail(err)
	}
	if err := writePage(out, text); err != nil {
		return fail(err)
	}

	observability.InfoContext(ctx, "Saved notebook page",
		logfields.Output(out),
		logfields.Category(filepath.Base(filepath.Dir(out))))
	return foundation.Ok[Outcome, *FileError](Outcome{Kind: kindNotebook, Source: path, Output: out})
}

func recorderOrNoop(rec metrics.Recorder) metrics.Recorder {
	if rec == nil {
		return metrics.NoopRecorder{}
	}
	return rec
}
