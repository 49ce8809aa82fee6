package batch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/mdxgen/internal/docmodel"
	"git.home.luguber.info/inful/mdxgen/internal/foundation"
	"git.home.luguber.info/inful/mdxgen/internal/logfields"
	"git.home.luguber.info/inful/mdxgen/internal/markdown"
	"git.home.luguber.info/inful/mdxgen/internal/metrics"
	"git.home.luguber.info/inful/mdxgen/internal/observability"
	"git.home.luguber.info/inful/mdxgen/internal/pysource"
	"git.home.luguber.info/inful/mdxgen/internal/render"
)

const (
	kindModule = string(docmodel.KindModule)
	kindIndex  = string(docmodel.KindIndex)

	reasonEmptyModule     = "no public classes or functions"
	reasonPackageNotFound = "package directory not found"
)

// APIDocsJob describes an API reference run over a set of packages.
type APIDocsJob struct {
	SourceDir   string
	OutputDir   string
	Packages    []string
	Extension   string
	VerifyLinks bool
	Render      render.Options
	Metrics     metrics.Recorder
}

// RunAPIDocs writes one page per documented module and an index page per
// package. The returned error is non-nil only when the source root is
// missing or unreadable; missing packages are skipped with a warning.
func RunAPIDocs(ctx context.Context, job APIDocsJob) (*Report, error) {
	ctx = observability.WithStage(ctx, "apidocs")
	rec := recorderOrNoop(job.Metrics)
	report := newReport()

	if err := requireDir(job.SourceDir, "source directory"); err != nil {
		return nil, err
	}

	reader := pysource.NewReader()
	defer reader.Close()

	for _, pkg := range job.Packages {
		pkgDir := filepath.Join(job.SourceDir, pkg)
		if info, err := os.Stat(pkgDir); err != nil || !info.IsDir() {
			observability.WarnContext(ctx, "Package not found, skipping", logfields.Package(pkg), logfields.Path(pkgDir))
			report.Record(foundation.Ok[Outcome, *FileError](Outcome{Kind: kindModule, Source: pkgDir, Reason: reasonPackageNotFound}), rec)
			continue
		}

		if err := generatePackage(ctx, reader, job, pkg, pkgDir, report, rec); err != nil {
			return nil, err
		}
	}

	report.finish(ctx, kindModule, rec)
	return report, nil
}

func generatePackage(ctx context.Context, reader *pysource.Reader, job APIDocsJob, pkg, pkgDir string, report *Report, rec metrics.Recorder) error {
	modules, err := DiscoverModules(pkgDir)
	if err != nil {
		return err
	}
	observability.InfoContext(ctx, "Processing package", logfields.Package(pkg), logfields.Count(len(modules)))

	outDir := filepath.Join(job.OutputDir, pkg)
	var pages []string
	for _, rel := range modules {
		res := generateModule(ctx, reader, job, pkgDir, outDir, rel, rec)
		if o, fileErr := res.ToTuple(); fileErr == nil && !o.Skipped() {
			pages = append(pages, ModuleOutputPath(rel, job.Extension))
		}
		report.Record(res, rec)
	}

	if len(pages) == 0 {
		return nil
	}

	indexPath := filepath.Join(outDir, indexPageBasename+job.Extension)
	text, err := render.Render(render.IndexDocument(pkg, pages, job.Extension), job.Render)
	if err == nil {
		err = writePage(indexPath, text)
	}
	if err != nil {
		observability.ErrorContext(ctx, "Index page failed", logfields.Package(pkg), logfields.Error(err))
		report.Record(foundation.Err[Outcome](&FileError{Kind: kindIndex, Source: pkgDir, Err: err}), rec)
		return nil
	}
	observability.InfoContext(ctx, "Generated index", logfields.Package(pkg), logfields.Output(indexPath))
	report.Record(foundation.Ok[Outcome, *FileError](Outcome{Kind: kindIndex, Source: pkgDir, Output: indexPath}), rec)

	if job.VerifyLinks {
		verifyIndex(ctx, indexPath, report, rec)
	}
	return nil
}

func generateModule(ctx context.Context, reader *pysource.Reader, job APIDocsJob, pkgDir, outDir, rel string, rec metrics.Recorder) FileResult {
	start := time.Now()
	defer func() { rec.ObserveFileDuration(kindModule, time.Since(start)) }()

	src := filepath.Join(pkgDir, filepath.FromSlash(rel))
	fail := func(err error) FileResult {
		observability.ErrorContext(ctx, "Module documentation failed", logfields.File(src), logfields.Error(err))
		return foundation.Err[Outcome](&FileError{Kind: kindModule, Source: src, Err: err})
	}

	mod, err := reader.ParseFile(ctx, src)
	if err != nil {
		return fail(err)
	}
	if mod.IsEmpty() {
		observability.DebugContext(ctx, "Skipping module", logfields.File(src), logfields.Reason(reasonEmptyModule))
		return foundation.Ok[Outcome, *FileError](Outcome{Kind: kindModule, Source: src, Reason: reasonEmptyModule})
	}

	text, err := render.Render(render.ModuleDocument(render.ModuleName(rel), mod), job.Render)
	if err != nil {
		return fail(err)
	}
	out := filepath.Join(outDir, filepath.FromSlash(ModuleOutputPath(rel, job.Extension)))
	if err := writePage(out, text); err != nil {
		return fail(err)
	}

	observability.InfoContext(ctx, "Generated module page", logfields.File(rel), logfields.Output(out))
	return foundation.Ok[Outcome, *FileError](Outcome{Kind: kindModule, Source: src, Output: out})
}

func verifyIndex(ctx context.Context, indexPath string, report *Report, rec metrics.Recorder) {
	broken, err := markdown.VerifyLocalLinks(indexPath)
	if err != nil {
		observability.WarnContext(ctx, "Link verification failed", logfields.Path(indexPath), logfields.Error(err))
		return
	}
	for _, b := range broken {
		observability.WarnContext(ctx, "Broken link in index", logfields.Path(indexPath), logfields.URL(b.Link.Destination))
	}
	report.BrokenLinks = append(report.BrokenLinks, broken...)
	rec.IncBrokenLinks(kindIndex, len(broken))
}
